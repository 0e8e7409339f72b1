package main

import "testing"

func TestTruncate(t *testing.T) {
	tests := []struct {
		input    string
		maxLen   int
		expected string
	}{
		{"short", 10, "short"},
		{"exact length", 12, "exact length"},
		{"this is a very long string", 10, "this is..."},
		{"", 5, ""},
		{"abc", 3, "abc"},
		{"abcd", 3, "..."},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := truncate(tt.input, tt.maxLen)
			if result != tt.expected {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, result, tt.expected)
			}
		})
	}
}

func TestTemplateSummary(t *testing.T) {
	got := templateSummary("..#\n.#.\n#..\n")
	want := "..#|.#.|#.."
	if got != want {
		t.Errorf("templateSummary = %q, want %q", got, want)
	}
}

func TestIndent(t *testing.T) {
	got := indent("AT\nTO", "  ")
	want := "  AT\n  TO"
	if got != want {
		t.Errorf("indent = %q, want %q", got, want)
	}
}

func TestGetEnvDefault(t *testing.T) {
	t.Setenv("XWORDFILL_ADMIN_TEST_VAR", "")
	if got := getEnv("XWORDFILL_ADMIN_TEST_VAR", "fallback"); got != "fallback" {
		t.Errorf("getEnv = %q, want fallback", got)
	}

	t.Setenv("XWORDFILL_ADMIN_TEST_VAR", "set")
	if got := getEnv("XWORDFILL_ADMIN_TEST_VAR", "fallback"); got != "set" {
		t.Errorf("getEnv = %q, want set", got)
	}
}

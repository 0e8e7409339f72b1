package grid

import "testing"

func TestParseTemplateBasic(t *testing.T) {
	text := "CAT\n.O.\n#T#"
	tpl, err := ParseTemplate(text)
	if err != nil {
		t.Fatalf("ParseTemplate: %v", err)
	}
	if tpl.Width != 3 || tpl.Height != 3 {
		t.Fatalf("dims = %dx%d, want 3x3", tpl.Width, tpl.Height)
	}
	if tpl.Letters[0] != 'C' {
		t.Fatalf("Letters[0] = %q, want 'C'", tpl.Letters[0])
	}
	if !tpl.Blocked[6] {
		t.Fatal("expected cell (2,0) to be blocked")
	}
	if tpl.Letters[3] != 0 {
		t.Fatalf("Letters[3] should be unfilled, got %q", tpl.Letters[3])
	}
}

func TestParseTemplateTrimsBlankLines(t *testing.T) {
	text := "\n\n..\n..\n\n"
	tpl, err := ParseTemplate(text)
	if err != nil {
		t.Fatalf("ParseTemplate: %v", err)
	}
	if tpl.Height != 2 {
		t.Fatalf("Height = %d, want 2", tpl.Height)
	}
}

func TestParseTemplateRejectsInconsistentWidth(t *testing.T) {
	_, err := ParseTemplate("..\n...")
	if err == nil {
		t.Fatal("expected an error for inconsistent row widths")
	}
}

func TestParseTemplateRejectsEmpty(t *testing.T) {
	_, err := ParseTemplate("   \n\n")
	if err == nil {
		t.Fatal("expected an error for an empty template")
	}
}

package output

import (
	"testing"

	"github.com/crossplay/xwordfill/pkg/fill"
	"github.com/crossplay/xwordfill/pkg/grid"
)

func TestRenderText(t *testing.T) {
	cfg, result := buildSolvedFixture(t)

	text, err := RenderText(cfg, result)
	if err != nil {
		t.Fatalf("RenderText: %v", err)
	}

	want := "at\nto"
	if text != want {
		t.Errorf("RenderText = %q, want %q", text, want)
	}

	reparsed, err := grid.ParseTemplate(text)
	if err != nil {
		t.Fatalf("ParseTemplate round-trip: %v", err)
	}
	if reparsed.Width != cfg.Width || reparsed.Height != cfg.Height {
		t.Errorf("round-tripped dimensions = %dx%d, want %dx%d",
			reparsed.Width, reparsed.Height, cfg.Width, cfg.Height)
	}
}

func TestRenderText_NotSuccess(t *testing.T) {
	cfg, _ := buildSolvedFixture(t)

	if _, err := RenderText(cfg, fill.Result{Outcome: fill.Timeout}); err != ErrNotSuccess {
		t.Fatalf("err = %v, want ErrNotSuccess", err)
	}
}

func TestRenderText_BlocksPreserved(t *testing.T) {
	cfg, result := buildSolvedFixture(t)

	text, err := RenderText(cfg, result)
	if err != nil {
		t.Fatalf("RenderText: %v", err)
	}
	for _, r := range text {
		if r == '#' {
			t.Fatal("fixture has no blocks, got one in rendered text")
		}
	}
}

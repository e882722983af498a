package markdown

import (
	"strings"
	"testing"
)

func TestToHTML(t *testing.T) {
	t.Run("basic markdown", func(t *testing.T) {
		out, err := ToHTML("# Title\n\nA *styled* paragraph.")
		if err != nil {
			t.Fatalf("ToHTML: %v", err)
		}
		if !strings.Contains(out, "<h1") || !strings.Contains(out, "Title") {
			t.Errorf("expected a heading, got %q", out)
		}
		if !strings.Contains(out, "<em>styled</em>") {
			t.Errorf("expected emphasis, got %q", out)
		}
	})

	t.Run("gfm tables", func(t *testing.T) {
		out, err := ToHTML("| a | b |\n|---|---|\n| 1 | 2 |")
		if err != nil {
			t.Fatalf("ToHTML: %v", err)
		}
		if !strings.Contains(out, "<table>") {
			t.Errorf("expected a table, got %q", out)
		}
	})

	t.Run("raw html passes through", func(t *testing.T) {
		out, err := ToHTML("before\n\n<div class=\"x\">{{.Model.Title}}</div>\n\nafter")
		if err != nil {
			t.Fatalf("ToHTML: %v", err)
		}
		if !strings.Contains(out, `<div class="x">{{.Model.Title}}</div>`) {
			t.Errorf("expected raw html and template actions intact, got %q", out)
		}
	})

	t.Run("fenced code is highlighted", func(t *testing.T) {
		out, err := ToHTML("```go\nfunc main() {}\n```")
		if err != nil {
			t.Fatalf("ToHTML: %v", err)
		}
		if !strings.Contains(out, "<pre") {
			t.Errorf("expected a code block, got %q", out)
		}
	})
}

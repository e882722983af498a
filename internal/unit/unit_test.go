package unit

import (
	"bytes"
	"strings"
	"testing"

	"viewforge/internal/codegen"
)

func TestCompileAndLoad(t *testing.T) {
	c := NewCompiler()

	t.Run("parses and executes", func(t *testing.T) {
		u, err := c.CompileAndLoad(&codegen.Program{
			Name: "greet.vf",
			Text: "Hello, {{upper .Model}}!",
		})
		if err != nil {
			t.Fatalf("CompileAndLoad: %v", err)
		}

		var buf bytes.Buffer
		if err := u.Template.Execute(&buf, struct{ Model string }{"world"}); err != nil {
			t.Fatalf("Execute: %v", err)
		}
		if got := buf.String(); got != "Hello, WORLD!" {
			t.Errorf("unexpected output: %q", got)
		}
	})

	t.Run("safe emits raw html", func(t *testing.T) {
		u, err := c.CompileAndLoad(&codegen.Program{
			Name: "raw.vf",
			Text: `{{safe .Model}}`,
		})
		if err != nil {
			t.Fatalf("CompileAndLoad: %v", err)
		}

		var buf bytes.Buffer
		if err := u.Template.Execute(&buf, struct{ Model string }{"<b>bold</b>"}); err != nil {
			t.Fatalf("Execute: %v", err)
		}
		if !strings.Contains(buf.String(), "<b>bold</b>") {
			t.Errorf("expected unescaped html, got %q", buf.String())
		}
	})

	t.Run("parse failure surfaces", func(t *testing.T) {
		_, err := c.CompileAndLoad(&codegen.Program{
			Name: "bad.vf",
			Text: "{{.Unclosed",
		})
		if err == nil {
			t.Fatal("expected a parse error")
		}
	})
}

func TestExtractMetadata(t *testing.T) {
	c := NewCompiler()

	t.Run("attrs are sorted name=value pairs", func(t *testing.T) {
		u := &Unit{Meta: map[string]string{"title": "Hi", "layout": "main"}}
		meta, attrs := c.ExtractMetadata(u)
		if meta["title"] != "Hi" {
			t.Errorf("unexpected meta: %v", meta)
		}
		want := []string{"layout=main", "title=Hi"}
		if len(attrs) != len(want) {
			t.Fatalf("expected %d attrs, got %v", len(want), attrs)
		}
		for i := range want {
			if attrs[i] != want[i] {
				t.Errorf("attr %d: got %q, want %q", i, attrs[i], want[i])
			}
		}
	})

	t.Run("empty metadata yields no attrs", func(t *testing.T) {
		_, attrs := c.ExtractMetadata(&Unit{})
		if attrs != nil {
			t.Errorf("expected nil attrs, got %v", attrs)
		}
	})
}

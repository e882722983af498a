package codegen

import (
	"context"
	"strings"
	"testing"

	"viewforge/internal/source"
)

func TestGenerate(t *testing.T) {
	ctx := context.Background()
	g := NewGenerator()

	t.Run("plain template passes through", func(t *testing.T) {
		p, err := g.Generate(ctx, source.TextItem("/pages/about.vf", "<h1>About</h1>"))
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if p.Name != "about.vf" {
			t.Errorf("expected base name, got %q", p.Name)
		}
		if p.Text != "<h1>About</h1>" {
			t.Errorf("unexpected text: %q", p.Text)
		}
		if len(p.Meta) != 0 {
			t.Errorf("expected no metadata, got %v", p.Meta)
		}
	})

	t.Run("directive header becomes metadata", func(t *testing.T) {
		text := "@title Welcome\n@layout main\n<p>body</p>"
		p, err := g.Generate(ctx, source.TextItem("/index.vf", text))
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if p.Meta["title"] != "Welcome" {
			t.Errorf("expected title directive, got %v", p.Meta)
		}
		if p.Meta["layout"] != "main" {
			t.Errorf("expected layout directive, got %v", p.Meta)
		}
		if p.Text != "<p>body</p>" {
			t.Errorf("directives should be stripped from the body, got %q", p.Text)
		}
	})

	t.Run("header ends at the first non-directive line", func(t *testing.T) {
		text := "@title Top\nbody line\n@notadirective late\n"
		p, err := g.Generate(ctx, source.TextItem("/page.vf", text))
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if p.Meta["title"] != "Top" {
			t.Errorf("expected title directive, got %v", p.Meta)
		}
		if _, ok := p.Meta["notadirective"]; ok {
			t.Error("directives after the body should stay in the body")
		}
		if !strings.Contains(p.Text, "body line") || !strings.Contains(p.Text, "@notadirective") {
			t.Errorf("unexpected body: %q", p.Text)
		}
	})

	t.Run("valueless directive is left in the body", func(t *testing.T) {
		p, err := g.Generate(ctx, source.TextItem("/page.vf", "@oops\nbody"))
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if len(p.Meta) != 0 {
			t.Errorf("expected no metadata, got %v", p.Meta)
		}
		if !strings.HasPrefix(p.Text, "@oops") {
			t.Errorf("valueless directive should stay in the body, got %q", p.Text)
		}
	})

	t.Run("markdown bodies render to html", func(t *testing.T) {
		text := "@title Post\n# Heading\n\nSome *emphasis*.\n"
		p, err := g.Generate(ctx, source.TextItem("/posts/hello.md", text))
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if p.Meta["format"] != "markdown" {
			t.Errorf("expected format metadata, got %v", p.Meta)
		}
		if p.Meta["title"] != "Post" {
			t.Errorf("directives should still be stripped, got %v", p.Meta)
		}
		if !strings.Contains(p.Text, "<h1") || !strings.Contains(p.Text, "Heading") {
			t.Errorf("expected a rendered heading, got %q", p.Text)
		}
		if !strings.Contains(p.Text, "<em>emphasis</em>") {
			t.Errorf("expected rendered emphasis, got %q", p.Text)
		}
	})

	t.Run("content failure propagates", func(t *testing.T) {
		item := &source.Item{
			Key:     "/broken.vf",
			Exists:  true,
			Content: func() (string, error) { return "", context.DeadlineExceeded },
		}
		if _, err := g.Generate(ctx, item); err == nil {
			t.Fatal("expected the content error to propagate")
		}
	})
}

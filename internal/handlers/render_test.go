package handlers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"viewforge/internal/codegen"
	"viewforge/internal/compiler"
	"viewforge/internal/source"
	"viewforge/internal/unit"
)

func newTestServer(t *testing.T, templates map[string]string) (*httptest.Server, *source.MemorySource) {
	t.Helper()

	src := source.NewMemorySource(templates)
	comp := compiler.New(src, codegen.NewGenerator(), unit.NewCompiler(), nil)

	r := chi.NewRouter()
	r.Get("/views/*", NewRender(comp, nil).ServeView)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, src
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, string(body)
}

func TestServeView(t *testing.T) {
	t.Run("renders an existing template", func(t *testing.T) {
		srv, _ := newTestServer(t, map[string]string{
			"home": "@title Home\n<h1>{{.Meta.title}}</h1>",
		})

		resp, body := get(t, srv.URL+"/views/home")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
		}
		if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
			t.Errorf("unexpected content type: %q", ct)
		}
		if !strings.Contains(body, "<h1>Home</h1>") {
			t.Errorf("unexpected body: %q", body)
		}
	})

	t.Run("query parameters become the model", func(t *testing.T) {
		srv, _ := newTestServer(t, map[string]string{
			"greet": "Hello, {{.Model.name}}!",
		})

		resp, body := get(t, srv.URL+"/views/greet?name=ada")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
		}
		if !strings.Contains(body, "Hello, ada!") {
			t.Errorf("unexpected body: %q", body)
		}
	})

	t.Run("view data exposes the request path", func(t *testing.T) {
		srv, _ := newTestServer(t, map[string]string{
			"where": "path={{.ViewData.Path}} key={{.ViewData.Key}}",
		})

		_, body := get(t, srv.URL+"/views/where")
		if !strings.Contains(body, "path=/views/where") {
			t.Errorf("expected the request path in view data, got %q", body)
		}
		if !strings.Contains(body, "key=where") {
			t.Errorf("expected the key in view data, got %q", body)
		}
	})

	t.Run("missing template is 404", func(t *testing.T) {
		srv, _ := newTestServer(t, nil)

		resp, _ := get(t, srv.URL+"/views/ghost")
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("expected 404, got %d", resp.StatusCode)
		}
	})

	t.Run("broken template is 500", func(t *testing.T) {
		srv, _ := newTestServer(t, map[string]string{
			"broken": "{{.Unclosed",
		})

		resp, _ := get(t, srv.URL+"/views/broken")
		if resp.StatusCode != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", resp.StatusCode)
		}
	})

	t.Run("updated source content is picked up", func(t *testing.T) {
		srv, src := newTestServer(t, map[string]string{"page": "v1"})

		_, body := get(t, srv.URL+"/views/page")
		if !strings.Contains(body, "v1") {
			t.Fatalf("unexpected first render: %q", body)
		}

		src.Set("page", "v2")

		_, body = get(t, srv.URL+"/views/page")
		if !strings.Contains(body, "v2") {
			t.Errorf("expected the updated content, got %q", body)
		}
	})
}

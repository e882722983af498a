package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestStatusWriter(t *testing.T) {
	t.Run("captures explicit status", func(t *testing.T) {
		sw := &statusWriter{ResponseWriter: httptest.NewRecorder()}

		sw.WriteHeader(http.StatusTeapot)
		if sw.status != http.StatusTeapot {
			t.Errorf("expected 418, got %d", sw.status)
		}
	})

	t.Run("bare write implies 200", func(t *testing.T) {
		sw := &statusWriter{ResponseWriter: httptest.NewRecorder()}

		sw.Write([]byte("ok"))
		if sw.status != http.StatusOK {
			t.Errorf("expected 200, got %d", sw.status)
		}
	})

	t.Run("first status wins", func(t *testing.T) {
		sw := &statusWriter{ResponseWriter: httptest.NewRecorder()}

		sw.WriteHeader(http.StatusNotFound)
		sw.WriteHeader(http.StatusOK)
		if sw.status != http.StatusNotFound {
			t.Errorf("expected the first status to stick, got %d", sw.status)
		}
	})

	t.Run("counts body bytes", func(t *testing.T) {
		sw := &statusWriter{ResponseWriter: httptest.NewRecorder()}

		sw.Write([]byte("hello"))
		sw.Write([]byte(", world"))
		if sw.bytes != len("hello, world") {
			t.Errorf("expected %d bytes, got %d", len("hello, world"), sw.bytes)
		}
	})
}

func TestLogger(t *testing.T) {
	handler := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte("created"))
	}))

	req := httptest.NewRequest(http.MethodPost, "/views/page.vf", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201 to pass through, got %d", rec.Code)
	}
	if rec.Body.String() != "created" {
		t.Errorf("expected body to pass through, got %q", rec.Body.String())
	}
}

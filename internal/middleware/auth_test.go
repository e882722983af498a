package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestAdminAuth(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret-token"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}

	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	request := func(t *testing.T, handler http.Handler, authHeader string) *httptest.ResponseRecorder {
		t.Helper()
		req := httptest.NewRequest(http.MethodGet, "/admin/templates", nil)
		if authHeader != "" {
			req.Header.Set("Authorization", authHeader)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	t.Run("valid token passes", func(t *testing.T) {
		h := AdminAuth(string(hash))(okHandler)
		rec := request(t, h, "Bearer secret-token")
		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("wrong token rejected", func(t *testing.T) {
		h := AdminAuth(string(hash))(okHandler)
		rec := request(t, h, "Bearer wrong-token")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("missing header rejected", func(t *testing.T) {
		h := AdminAuth(string(hash))(okHandler)
		rec := request(t, h, "")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
		if rec.Header().Get("WWW-Authenticate") != "Bearer" {
			t.Error("expected a WWW-Authenticate challenge")
		}
	})

	t.Run("non-bearer scheme rejected", func(t *testing.T) {
		h := AdminAuth(string(hash))(okHandler)
		rec := request(t, h, "Basic dXNlcjpwYXNz")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("empty hash disables the api", func(t *testing.T) {
		h := AdminAuth("")(okHandler)
		rec := request(t, h, "Bearer secret-token")
		if rec.Code != http.StatusForbidden {
			t.Errorf("expected 403, got %d", rec.Code)
		}
	})
}

package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestRequireAPIToken(t *testing.T) {
	h := RequireAPIToken("s3cret")(okHandler())

	tests := []struct {
		name    string
		headers map[string]string
		want    int
	}{
		{"NoToken", nil, http.StatusUnauthorized},
		{"WrongToken", map[string]string{"X-Api-Token": "nope"}, http.StatusUnauthorized},
		{"HeaderToken", map[string]string{"X-Api-Token": "s3cret"}, http.StatusNoContent},
		{"BearerToken", map[string]string{"Authorization": "Bearer s3cret"}, http.StatusNoContent},
		{"OtherScheme", map[string]string{"Authorization": "Basic s3cret"}, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/quote", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("expected status %d, got %d", tt.want, rec.Code)
			}
		})
	}
}

func TestRequireAPITokenDisabled(t *testing.T) {
	h := RequireAPIToken("")(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, rec.Code)
	}
}

func TestRequireAPITokenHTMX(t *testing.T) {
	h := RequireAPIToken("s3cret")(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/issues", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
	trigger := rec.Header().Get("HX-Trigger")
	if !strings.Contains(trigger, "open-settings") || !strings.Contains(trigger, "set-err-message") {
		t.Errorf("expected settings and error triggers, got %q", trigger)
	}
	if rec.Header().Get("HX-Reswap") != "none" {
		t.Errorf("expected HX-Reswap none, got %q", rec.Header().Get("HX-Reswap"))
	}
}

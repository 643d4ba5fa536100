package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/angelofallars/htmx-go"
	"github.com/go-chi/render"

	"github.com/angelofallars/ticketprice/app/event"
	"github.com/angelofallars/ticketprice/app/header"
)

// RequireAPIToken rejects requests that do not carry token in the
// X-Api-Token header or as a bearer token. An empty token disables
// the check.
func RequireAPIToken(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if token == "" {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !validToken(requestToken(r), token) {
				reject(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func requestToken(r *http.Request) string {
	if t := r.Header.Get(header.APIToken); t != "" {
		return t
	}
	if t, ok := strings.CutPrefix(r.Header.Get(header.Authorization), "Bearer "); ok {
		return strings.TrimSpace(t)
	}
	return ""
}

func validToken(got, want string) bool {
	return got != "" && subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

func reject(w http.ResponseWriter, r *http.Request) {
	if htmx.IsHTMX(r) {
		_ = htmx.NewResponse().
			StatusCode(http.StatusUnauthorized).
			Reswap(htmx.SwapNone).
			AddTrigger(
				event.TriggerOpenSettings,
				event.TriggerSetErrMessage(
					"To use this application, the API token needs to be supplied in the settings.",
				),
			).
			Write(w)
		return
	}

	render.Status(r, http.StatusUnauthorized)
	render.JSON(w, r, map[string]string{"error": "missing or invalid API token"})
}

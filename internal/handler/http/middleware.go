package http

import (
	"net/http"
	"strings"

	"github.com/chrisdetmering/Product-Page/internal/service"
	"github.com/chrisdetmering/Product-Page/pkg/logger"
)

// Session identification.
const (
	SessionCookie = "storefront_session"
	SessionHeader = "X-Session-ID"
)

// SessionID resolves the visitor's session. A valid X-Session-ID header wins
// over the session cookie; when neither carries a valid ID a new one is
// minted. The resolved ID is stored in the request context and echoed back
// as both a cookie and a response header.
func SessionID(secureCookie bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := resolveSessionID(r)

			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				Secure:   secureCookie,
				SameSite: http.SameSiteLaxMode,
			})
			w.Header().Set(SessionHeader, id)

			ctx := logger.WithSessionID(r.Context(), id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func resolveSessionID(r *http.Request) string {
	if id := r.Header.Get(SessionHeader); service.ValidSessionID(id) {
		return id
	}
	if c, err := r.Cookie(SessionCookie); err == nil && service.ValidSessionID(c.Value) {
		return c.Value
	}
	return service.NewSessionID()
}

// sessionIDFromContext returns the session ID stored by SessionID.
func sessionIDFromContext(r *http.Request) string {
	return logger.SessionIDFromContext(r.Context())
}

// ContentTypeJSON enforces that requests with a body have Content-Type: application/json.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > 0 || r.Method == http.MethodPost || r.Method == http.MethodPut {
			ct := r.Header.Get("Content-Type")
			if ct != "" && !strings.HasPrefix(ct, "application/json") {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnsupportedMediaType)
				_, _ = w.Write([]byte(`{"error":{"code":"UNSUPPORTED_MEDIA_TYPE","message":"Content-Type must be application/json"}}`))
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

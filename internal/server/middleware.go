package server

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/w7-autofill/internal/common"
	"github.com/joseph-ayodele/w7-autofill/internal/session"
)

// withCORS answers preflight requests and opens the API to any browser
// origin.
func (s *Service) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Session-ID")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Service) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := uuid.New().String()
		ctx := common.WithRequestID(r.Context(), rid)
		w.Header().Set("X-Request-ID", rid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// withSession resolves the operator session ID (X-Session-ID header, then
// the w7_session cookie, then the shared default) into the request context.
func (s *Service) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Session-ID")
		if id == "" {
			if c, err := r.Cookie("w7_session"); err == nil {
				id = c.Value
			}
		}
		if id == "" {
			id = session.DefaultID
		}
		ctx := common.WithSessionID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

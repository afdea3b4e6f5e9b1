package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bugasmarcondes/taskade-backend/internal/store"
)

type contextKey int

const identityKey contextKey = iota

// identityFrom returns the user resolved for this request, or nil.
func identityFrom(ctx context.Context) *store.UserRecord {
	user, _ := ctx.Value(identityKey).(*store.UserRecord)
	return user
}

// identity resolves the bearer token, if any, and attaches the user to the
// request context. It never rejects: anonymous requests pass through and
// fail later only if an operation requires identity.
func (s *Server) identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		bearer := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		user, err := s.resolver.Resolve(r.Context(), bearer)
		if err != nil {
			s.log.Error("identity resolution failed", "err", err)
			writeError(w, http.StatusInternalServerError, "InternalError", err.Error())
			return
		}
		if user != nil {
			r = r.WithContext(context.WithValue(r.Context(), identityKey, user))
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

// requestLog logs one line per request with a fresh request id.
func (s *Server) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info("request",
			"id", uuid.NewString(),
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/chronokeeper/chronokeeper-backend/pkg/ctxutil"
)

// RequestID propagates the caller's X-Request-Id or mints a fresh UUID
// when the header is absent. The id is stored in the context and echoed
// back on the response so log lines and client reports can be matched.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r.WithContext(ctxutil.WithRequestID(r.Context(), id)))
	})
}

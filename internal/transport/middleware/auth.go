package middleware

import (
	"net/http"
	"strings"

	"github.com/chronokeeper/chronokeeper-backend/internal/auth"
	"github.com/chronokeeper/chronokeeper-backend/pkg/ctxutil"
)

type tokenValidator interface {
	ValidateAccessToken(token string) (email string, role string, err error)
}

// Auth validates an optional bearer token. Requests without a token pass
// through anonymously; a present but invalid token is rejected with 401.
// Admin-role tokens also mark the context as admin.
func Auth(validator tokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r) // Anonymous
				return
			}
			email, role, err := validator.ValidateAccessToken(token)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			ctx := ctxutil.WithUserEmail(r.Context(), email)
			if role == auth.RoleAdmin {
				ctx = ctxutil.WithAdmin(ctx)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractBearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

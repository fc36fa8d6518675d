package owner

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey string

const ownerIDKey ctxKey = "owner_id"

func FromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ownerIDKey).(string)
	return id, ok && id != ""
}

func WithOwner(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ownerIDKey, id)
}

// Require resolves the bearer token into an owner id on the request context.
func Require(jwtSvc *JWT) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if h == "" || !strings.HasPrefix(h, "Bearer ") {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			token := strings.TrimPrefix(h, "Bearer ")

			id, err := jwtSvc.Verify(token)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithOwner(r.Context(), id)))
		})
	}
}

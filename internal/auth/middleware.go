package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	apperrors "github.com/tonypowl/AutoSheetify/internal/errors"
)

type ctxKey struct{}

// Middleware enforces a well-formed bearer credential before any outbound
// verification call, then resolves it and stores the Identity in the
// request context.
func Middleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				writeDetail(w, http.StatusUnauthorized, "Authorization header missing or invalid")
				return
			}
			token := strings.TrimPrefix(header, "Bearer ")
			if token == "" {
				writeDetail(w, http.StatusUnauthorized, "Authorization header missing or invalid")
				return
			}

			identity, err := verifier.Verify(r.Context(), token)
			if err != nil {
				writeDetail(w, http.StatusUnauthorized, apperrors.Detail(err))
				return
			}

			ctx := context.WithValue(r.Context(), ctxKey{}, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FromContext returns the caller stored by Middleware, or nil.
func FromContext(ctx context.Context) *Identity {
	identity, _ := ctx.Value(ctxKey{}).(*Identity)
	return identity
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}

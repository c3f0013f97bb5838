package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const emailKey contextKey = "user_email"

// AdminOnly guards a route group behind a valid admin token.
func AdminOnly(secret string) func(http.Handler) http.Handler {
	return requireRole(secret, "admin")
}

// UserOnly guards a route group behind a valid user token and puts the
// token's email on the request context.
func UserOnly(secret string) func(http.Handler) http.Handler {
	return requireRole(secret, "user")
}

func requireRole(secret, role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			token, err := jwt.Parse(strings.TrimPrefix(header, "Bearer "), func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			if tokenRole, _ := claims["role"].(string); tokenRole != role {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}

			ctx := r.Context()
			if email, _ := claims["email"].(string); email != "" {
				ctx = context.WithValue(ctx, emailKey, email)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// EmailFromContext returns the token email placed by UserOnly, or "".
func EmailFromContext(ctx context.Context) string {
	email, _ := ctx.Value(emailKey).(string)
	return email
}

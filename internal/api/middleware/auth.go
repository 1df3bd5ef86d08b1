package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"loan-engine/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const usernameKey contextKey = "username"

// UsernameFromContext returns the authenticated username, if any.
func UsernameFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(usernameKey).(string)
	return username, ok
}

func AuthMiddleware(cfg config.AuthConfig, logger *slog.Logger) func(http.Handler) http.Handler {
	if !cfg.Enabled {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := validateJWT(r, cfg.JWTSecret, logger)
			if !ok {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":{"message":"Unauthorized"}}`))
				return
			}

			ctx := r.Context()
			if username, ok := claims["username"].(string); ok {
				ctx = context.WithValue(ctx, usernameKey, username)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func validateJWT(r *http.Request, secret string, logger *slog.Logger) (jwt.MapClaims, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		logger.WarnContext(r.Context(), "AuthMiddleware: Missing Authorization header")
		return nil, false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		logger.WarnContext(r.Context(), "AuthMiddleware: Invalid Authorization header format")
		return nil, false
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())

	if err != nil || !token.Valid {
		logger.WarnContext(r.Context(), "AuthMiddleware: Invalid token", "error", err)
		return nil, false
	}

	logger.DebugContext(r.Context(), "AuthMiddleware: Authenticated request", "username", claims["username"])
	return claims, true
}

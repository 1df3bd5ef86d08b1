package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"loan-engine/internal/api/handler/dto"
	"loan-engine/internal/config"
	"loan-engine/internal/pkg/apperrors"

	"github.com/golang-jwt/jwt/v5"
)

type AuthHandler struct {
	cfg    config.AuthConfig
	logger *slog.Logger
	now    func() time.Time
}

func NewAuthHandler(cfg config.AuthConfig, l *slog.Logger) *AuthHandler {
	return &AuthHandler{
		cfg:    cfg,
		logger: l.With("component", "AuthHandler"),
		now:    time.Now,
	}
}

// GenerateBearerToken handles POST /auth/token
// @Summary Generate a JWT bearer token
// @Description Issues an HS256 token for the given username.
func (h *AuthHandler) GenerateBearerToken(w http.ResponseWriter, r *http.Request) {
	var req dto.TokenRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", "error", err)
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	if strings.TrimSpace(req.Username) == "" {
		h.logger.WarnContext(r.Context(), "Username is required")
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, "username is required"))
		return
	}
	if h.cfg.JWTSecret == "" {
		h.logger.ErrorContext(r.Context(), "JWT secret is not configured")
		respondError(w, fmt.Errorf("%w: token signing is not configured", apperrors.ErrInternalServer))
		return
	}

	ttl := h.cfg.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	expiresAt := h.now().Add(ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": req.Username,
		"exp":      expiresAt.Unix(),
	})
	tokenString, err := token.SignedString([]byte(h.cfg.JWTSecret))
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to sign token", "error", err)
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInternalServer, err))
		return
	}

	h.logger.InfoContext(r.Context(), "Issued bearer token", "username", req.Username)
	respondJSON(w, http.StatusOK, dto.TokenResponse{
		Token:     "Bearer " + tokenString,
		ExpiresAt: expiresAt.UTC().Truncate(time.Second),
	})
}

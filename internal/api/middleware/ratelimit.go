package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"loan-engine/internal/config"

	"golang.org/x/time/rate"
)

const (
	limiterCleanupInterval = 10 * time.Minute
	limiterIdleTimeout     = 30 * time.Minute
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiterMiddleware keeps one token bucket per client IP.
type RateLimiterMiddleware struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	cfg     config.RateLimitConfig
	logger  *slog.Logger
	now     func() time.Time
}

// NewRateLimiterMiddleware starts a background sweep of idle clients that
// stops when ctx is cancelled.
func NewRateLimiterMiddleware(ctx context.Context, cfg config.RateLimitConfig, logger *slog.Logger) *RateLimiterMiddleware {
	rl := &RateLimiterMiddleware{
		clients: make(map[string]*clientLimiter),
		cfg:     cfg,
		logger:  logger.With("component", "RateLimiter"),
		now:     time.Now,
	}

	if cfg.Enabled {
		go rl.cleanupLimiters(ctx)
	}

	return rl
}

func (rl *RateLimiterMiddleware) getLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	client, exists := rl.clients[ip]
	if !exists {
		client = &clientLimiter{limiter: rate.NewLimiter(rate.Limit(rl.cfg.RPS), rl.cfg.Burst)}
		rl.clients[ip] = client
	}
	client.lastSeen = rl.now()
	return client.limiter
}

func (rl *RateLimiterMiddleware) cleanupLimiters(ctx context.Context) {
	ticker := time.NewTicker(limiterCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := rl.sweep(); removed > 0 {
				rl.logger.Debug("Removed idle rate limiters", "count", removed)
			}
		}
	}
}

func (rl *RateLimiterMiddleware) sweep() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	removed := 0
	cutoff := rl.now().Add(-limiterIdleTimeout)
	for ip, client := range rl.clients {
		if client.lastSeen.Before(cutoff) {
			delete(rl.clients, ip)
			removed++
		}
	}
	return removed
}

// extractIP keys limiters by the peer address. Forwarding headers are only
// honoured through middleware.RealIP, which the router installs when proxy
// headers are trusted.
func (rl *RateLimiterMiddleware) extractIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func (rl *RateLimiterMiddleware) Middleware(next http.Handler) http.Handler {
	if !rl.cfg.Enabled {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := rl.extractIP(r)

		if !rl.getLimiter(ip).Allow() {
			rl.logger.WarnContext(r.Context(), "Rate limit exceeded", "ip", ip)
			httpRateLimitedTotal.Inc()
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"error": map[string]string{
					"message": "Rate limit exceeded",
				},
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

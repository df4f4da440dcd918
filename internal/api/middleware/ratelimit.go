package middleware

import (
	"context"
	"credit-approval/internal/config"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	unknownIP       = "unknown"
	cleanupInterval = 10 * time.Minute
)

// WindowCounter is a shared hit counter, typically backed by redis.
type WindowCounter interface {
	Increment(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RateLimiterMiddleware limits requests per client IP. With a shared counter
// it enforces a fixed window across instances; without one, or when the
// counter fails, it falls back to an in-process token bucket.
type RateLimiterMiddleware struct {
	counter  WindowCounter
	limiters sync.Map
	cfg      config.RateLimitConfig
	window   time.Duration
	logger   *slog.Logger
	stop     chan struct{}
	stopOnce sync.Once
}

func NewRateLimiterMiddleware(cfg config.RateLimitConfig, counter WindowCounter, logger *slog.Logger) *RateLimiterMiddleware {
	rl := &RateLimiterMiddleware{
		counter: counter,
		cfg:     cfg,
		window:  time.Second,
		logger:  logger.With("component", "RateLimiter"),
		stop:    make(chan struct{}),
	}

	switch {
	case !cfg.Enabled:
		rl.logger.Info("Rate limiting is disabled via configuration.")
	case counter == nil:
		rl.logger.Info("Rate limiter using in-process limiter", "rps", cfg.RPS, "burst", cfg.Burst)
	default:
		rl.logger.Info("Rate limiter using shared window counter", "limit", rl.windowLimit(), "window", rl.window)
	}

	if cfg.Enabled {
		go rl.cleanupLimiters()
	}
	return rl
}

func (rl *RateLimiterMiddleware) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

// windowLimit is the number of hits allowed per window.
func (rl *RateLimiterMiddleware) windowLimit() int64 {
	limit := int64(math.Ceil(rl.cfg.RPS * rl.window.Seconds()))
	if int64(rl.cfg.Burst) > limit {
		limit = int64(rl.cfg.Burst)
	}
	return max(limit, 1)
}

func (rl *RateLimiterMiddleware) getLimiter(ip string) *rate.Limiter {
	limiter, _ := rl.limiters.LoadOrStore(ip, rate.NewLimiter(rate.Limit(rl.cfg.RPS), max(rl.cfg.Burst, 1)))
	return limiter.(*rate.Limiter)
}

func (rl *RateLimiterMiddleware) cleanupLimiters() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.limiters.Range(func(key, value any) bool {
				limiter := value.(*rate.Limiter)
				if limiter.Tokens() >= float64(limiter.Burst()) {
					rl.limiters.Delete(key)
				}
				return true
			})
		}
	}
}

func (rl *RateLimiterMiddleware) extractIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ip := strings.TrimSpace(strings.Split(xff, ",")[0])
		if net.ParseIP(ip) != nil {
			return ip
		}
	}

	if xRealIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); xRealIP != "" {
		if net.ParseIP(xRealIP) != nil {
			return xRealIP
		}
	}

	if ip, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return ip
	}
	if parsed := net.ParseIP(r.RemoteAddr); parsed != nil {
		return parsed.String()
	}

	rl.logger.Warn("Could not determine client IP for rate limiting", "remoteAddr", r.RemoteAddr)
	return unknownIP
}

func (rl *RateLimiterMiddleware) allow(ctx context.Context, ip string) bool {
	if rl.counter != nil {
		count, err := rl.counter.Increment(ctx, "ratelimit:"+ip, rl.window)
		if err == nil {
			return count <= rl.windowLimit()
		}
		rl.logger.ErrorContext(ctx, "Shared rate limit counter failed; using in-process limiter", "error", err, "ip", ip)
	}
	return rl.getLimiter(ip).Allow()
}

func (rl *RateLimiterMiddleware) Middleware(next http.Handler) http.Handler {
	if !rl.cfg.Enabled {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := rl.extractIP(r)
		if ip == unknownIP {
			rl.logger.ErrorContext(r.Context(), "Blocking request due to unknown client IP for rate limiting")
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		if !rl.allow(r.Context(), ip) {
			rl.logger.WarnContext(r.Context(), "Rate limit exceeded", "ip", ip)
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", fmt.Sprintf("%.0f", rl.window.Seconds()))
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]string{
					"message": "Rate limit exceeded",
				},
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

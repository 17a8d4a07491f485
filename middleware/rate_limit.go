package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"dropin-checkout-api/models"
)

type RateLimiter struct {
	client *redis.Client
}

type RateLimitConfig struct {
	Requests int           // allowed requests per window
	Window   time.Duration // window length
	Message  string        // response body when exceeded
}

// Per-endpoint limits. Event and submit endpoints are driven by widget
// clients and get the tightest budgets.
var defaultConfigs = map[string]RateLimitConfig{
	"events": {
		Requests: 30,
		Window:   time.Minute,
		Message:  "Too many widget events. Please slow down.",
	},
	"submit": {
		Requests: 10,
		Window:   time.Minute,
		Message:  "Too many submission attempts. Please wait a minute.",
	},
	"default": {
		Requests: 60,
		Window:   time.Minute,
		Message:  "Rate limit exceeded. Please slow down your requests.",
	},
}

func NewRateLimiter(redisURL string) (*RateLimiter, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Redis URL for rate limiter: %v", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis for rate limiting: %v", err)
	}

	return &RateLimiter{client: client}, nil
}

func (rl *RateLimiter) RateLimitMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			config := rl.getConfigForEndpoint(r.URL.Path)
			key := fmt.Sprintf("rate_limit:%s:%s", rl.getClientIP(r), r.URL.Path)

			allowed, remaining, resetTime, err := rl.checkRateLimit(r.Context(), key, config)
			if err != nil {
				log.Printf("Rate limit check error: %v", err)
				// Fail open: a broken limiter must not take checkout down.
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(config.Requests))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

			if !allowed {
				log.Printf("Rate limit exceeded for key: %s", key)

				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", strconv.FormatInt(int64(time.Until(resetTime).Seconds()), 10))
				w.WriteHeader(http.StatusTooManyRequests)

				json.NewEncoder(w).Encode(models.APIResponse{
					Status:  "error",
					Message: config.Message,
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (rl *RateLimiter) getConfigForEndpoint(path string) RateLimitConfig {
	if idx := strings.Index(path, "?"); idx != -1 {
		path = path[:idx]
	}

	switch {
	case strings.HasSuffix(path, "/events"):
		return defaultConfigs["events"]
	case strings.HasSuffix(path, "/submit"):
		return defaultConfigs["submit"]
	}
	return defaultConfigs["default"]
}

// getClientIP extracts the real client IP, honoring proxy headers.
func (rl *RateLimiter) getClientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		ips := strings.Split(ip, ",")
		return strings.TrimSpace(ips[0])
	}

	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}

	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}

// checkRateLimit counts the request against a fixed window stored as a
// Redis counter with the window's TTL.
func (rl *RateLimiter) checkRateLimit(ctx context.Context, key string, config RateLimitConfig) (allowed bool, remaining int, resetTime time.Time, err error) {
	now := time.Now()
	windowStart := now.Truncate(config.Window)
	resetTime = windowStart.Add(config.Window)

	windowKey := fmt.Sprintf("%s:%d", key, windowStart.Unix())

	count, err := rl.client.Incr(ctx, windowKey).Result()
	if err != nil {
		return false, 0, resetTime, fmt.Errorf("failed to increment rate limit counter: %v", err)
	}
	if count == 1 {
		if err := rl.client.Expire(ctx, windowKey, config.Window).Err(); err != nil {
			log.Printf("Warning: failed to set TTL on rate limit key %s: %v", windowKey, err)
		}
	}

	if int(count) > config.Requests {
		return false, 0, resetTime, nil
	}
	return true, config.Requests - int(count), resetTime, nil
}

func (rl *RateLimiter) Close() error {
	return rl.client.Close()
}

// Package ratelimit throttles state-changing requests per client with a
// token bucket.
package ratelimit

import (
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"finorbit/internal/cache"
	"finorbit/internal/log"
)

// Config holds rate limiter configuration.
type Config struct {
	RequestsPerMinute int
	// Burst is the bucket size; defaults to RequestsPerMinute/6, at least 1.
	Burst int
	// MaxClients bounds how many client buckets are tracked at once.
	MaxClients int
	// Idle is how long an unused client bucket is kept.
	Idle time.Duration
}

func DefaultConfig() Config {
	return Config{
		RequestsPerMinute: 120,
		MaxClients:        10000,
		Idle:              10 * time.Minute,
	}
}

// Limiter keeps one token bucket per client IP in an expiring LRU.
type Limiter struct {
	config  Config
	clients *cache.LRU[*rate.Limiter]
	limited atomic.Int64
	logger  *log.Logger
}

func NewLimiter(config Config, logger *log.Logger) *Limiter {
	def := DefaultConfig()
	if config.RequestsPerMinute <= 0 {
		config.RequestsPerMinute = def.RequestsPerMinute
	}
	if config.Burst <= 0 {
		config.Burst = max(config.RequestsPerMinute/6, 1)
	}
	if config.MaxClients <= 0 {
		config.MaxClients = def.MaxClients
	}
	if config.Idle <= 0 {
		config.Idle = def.Idle
	}
	return &Limiter{
		config:  config,
		clients: cache.NewLRU[*rate.Limiter](config.MaxClients, config.Idle),
		logger:  logger.WithComponent(log.ComponentRateLimit),
	}
}

// Allow takes a token from clientIP's bucket.
func (l *Limiter) Allow(clientIP string) bool {
	bucket, _, _ := l.clients.GetOrCreate(clientIP, func() (*rate.Limiter, error) {
		every := time.Minute / time.Duration(l.config.RequestsPerMinute)
		return rate.NewLimiter(rate.Every(every), l.config.Burst), nil
	})
	if bucket.Allow() {
		return true
	}
	l.limited.Add(1)
	return false
}

// Clients exposes the bucket cache so it can be swept with the other caches.
func (l *Limiter) Clients() cache.Cleaner {
	return l.clients
}

// ActiveClients is the number of tracked client buckets.
func (l *Limiter) ActiveClients() int {
	return l.clients.Size()
}

// Limited is the number of requests refused so far.
func (l *Limiter) Limited() int64 {
	return l.limited.Load()
}

// Middleware limits requests whose method is in methods; other requests
// pass through. onLimit writes the refusal, or a plain 429 when nil.
func (l *Limiter) Middleware(extractIP func(*http.Request) string, onLimit http.HandlerFunc, methods ...string) func(http.Handler) http.Handler {
	limited := make(map[string]bool, len(methods))
	for _, m := range methods {
		limited[m] = true
	}
	retryAfter := strconv.Itoa(max(60/l.config.RequestsPerMinute, 1))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(limited) > 0 && !limited[r.Method] {
				next.ServeHTTP(w, r)
				return
			}
			clientIP := extractIP(r)
			if !l.Allow(clientIP) {
				log.FromContext(r.Context()).WarnContext(r.Context(), "rate limit exceeded",
					log.FieldClientIP, clientIP,
					log.FieldPath, r.URL.Path)
				w.Header().Set("Retry-After", retryAfter)
				if onLimit != nil {
					onLimit(w, r)
					return
				}
				http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

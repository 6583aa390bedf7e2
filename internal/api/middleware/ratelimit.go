package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/phrazzld/task-api/internal/api/shared"
	"github.com/phrazzld/task-api/internal/platform/logger"
	"github.com/phrazzld/task-api/internal/redact"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// MsgTooManyRequests is returned with 429 responses.
const MsgTooManyRequests = "Too many requests, please try again later."

// RateLimiter is a middleware that rejects clients exceeding a request budget.
type RateLimiter interface {
	Limit(next http.Handler) http.Handler
}

// clientIP returns the host part of RemoteAddr. chi's RealIP middleware has
// already rewritten RemoteAddr from forwarding headers when it is installed.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter is an in-process token bucket per client IP.
type IPRateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rps      rate.Limit
	burst    int
	ttl      time.Duration
	metrics  *Metrics
	now      func() time.Time
}

// NewIPRateLimiter creates a limiter admitting rps requests per second per IP
// with the given burst. Call Run to evict idle visitors.
func NewIPRateLimiter(rps float64, burst int, metrics *Metrics) *IPRateLimiter {
	return &IPRateLimiter{
		visitors: make(map[string]*visitor),
		rps:      rate.Limit(rps),
		burst:    burst,
		ttl:      3 * time.Minute,
		metrics:  metrics,
		now:      time.Now,
	}
}

var _ RateLimiter = (*IPRateLimiter)(nil)

// Allow reports whether a request from ip fits its budget.
func (l *IPRateLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = l.now()
	return v.limiter.AllowN(v.lastSeen, 1)
}

// Run evicts visitors idle longer than the TTL every interval until ctx ends.
func (l *IPRateLimiter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.evict()
		}
	}
}

func (l *IPRateLimiter) evict() {
	l.mu.Lock()
	defer l.mu.Unlock()
	cutoff := l.now().Add(-l.ttl)
	for ip, v := range l.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(l.visitors, ip)
		}
	}
}

// Limit implements RateLimiter.
func (l *IPRateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(clientIP(r)) {
			l.metrics.blocked("memory")
			shared.RespondWithErrorAndLog(w, r, http.StatusTooManyRequests, MsgTooManyRequests, nil)
			return
		}
		l.metrics.allowed("memory")
		next.ServeHTTP(w, r)
	})
}

// RedisRateLimiter is a fixed-window limiter shared across instances through
// Redis INCR/EXPIRE. Redis failures admit the request.
type RedisRateLimiter struct {
	client      redis.Cmdable
	maxRequests int
	window      time.Duration
	metrics     *Metrics
}

// NewRedisRateLimiter creates a limiter admitting maxRequests per window per IP.
func NewRedisRateLimiter(client redis.Cmdable, maxRequests int, window time.Duration, metrics *Metrics) *RedisRateLimiter {
	if client == nil {
		panic("redis client cannot be nil") // ALLOW-PANIC
	}
	return &RedisRateLimiter{
		client:      client,
		maxRequests: maxRequests,
		window:      window,
		metrics:     metrics,
	}
}

var _ RateLimiter = (*RedisRateLimiter)(nil)

// Key returns the counter key for ip: rl:<window_seconds>:<ip>.
func (l *RedisRateLimiter) Key(ip string) string {
	return "rl:" + strconv.FormatInt(int64(l.window.Seconds()), 10) + ":" + ip
}

// Allow increments the window counter for ip and reports whether it is
// within budget.
func (l *RedisRateLimiter) Allow(ctx context.Context, ip string) (bool, error) {
	key := l.Key(ip)
	n, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return true, err
	}
	if n == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return true, err
		}
	}
	return n <= int64(l.maxRequests), nil
}

// Limit implements RateLimiter.
func (l *RedisRateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, err := l.Allow(r.Context(), clientIP(r))
		if err != nil {
			w.Header().Set("X-RateLimit-Error", "redis-error")
			logger.FromContextOrDefault(r.Context()).WarnContext(r.Context(), "rate limiter unavailable, admitting request",
				slog.String("error", redact.Error(err)))
		}
		if !ok {
			l.metrics.blocked("redis")
			shared.RespondWithErrorAndLog(w, r, http.StatusTooManyRequests, MsgTooManyRequests, nil)
			return
		}
		l.metrics.allowed("redis")
		next.ServeHTTP(w, r)
	})
}

package middleware

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const rateLimitedMessage = "Too many requests, please try again later"

func tooMany(c *fiber.Ctx, retryAfter time.Duration) error {
	if retryAfter > 0 {
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(retryAfter.Round(time.Second).Seconds())))
	}
	return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"message": rateLimitedMessage})
}

// RedisRateLimiter is a fixed window counter shared by every instance of the service.
type RedisRateLimiter struct {
	Redis  *redis.Client
	Prefix string
	Limit  int
	Window time.Duration
	log    *zap.Logger
}

func NewRedisRateLimiter(r *redis.Client, prefix string, limit int, window time.Duration, logger *zap.Logger) *RedisRateLimiter {
	return &RedisRateLimiter{Redis: r, Prefix: prefix, Limit: limit, Window: window, log: logger}
}

// Handler fails open: a Redis outage must not take the write endpoints down with it.
func (r *RedisRateLimiter) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		key := r.key(clientIP(c))

		var (
			incr *redis.IntCmd
			ttl  *redis.DurationCmd
		)
		if _, err := r.Redis.Pipelined(ctx, func(p redis.Pipeliner) error {
			incr = p.Incr(ctx, key)
			ttl = p.TTL(ctx, key)
			return nil
		}); err != nil {
			r.log.Warn("rate limiter unavailable", zap.Error(err))
			return c.Next()
		}

		// a key without expiry is a new window or one whose EXPIRE was lost
		wait := ttl.Val()
		if wait < 0 {
			if err := r.Redis.Expire(ctx, key, r.Window).Err(); err != nil {
				r.log.Warn("rate limit window not set", zap.String("key", key), zap.Error(err))
			}
			wait = r.Window
		}
		if incr.Val() > int64(r.Limit) {
			r.log.Warn("rate limit exceeded", zap.String("key", key), zap.String("path", c.Path()))
			return tooMany(c, wait)
		}
		return c.Next()
	}
}

func (r *RedisRateLimiter) key(ip string) string {
	return fmt.Sprintf("%s:%s", strings.TrimRight(r.Prefix, ":"), ip)
}

// IPRateLimiter is the in-process token bucket used when Redis is disabled.
type IPRateLimiter struct {
	visitors sync.Map
	rps      rate.Limit
	burst    int
	log      *zap.Logger
	stop     chan struct{}
	once     sync.Once
}

type visitor struct {
	limiter  *rate.Limiter
	mu       sync.Mutex
	lastSeen time.Time
}

func NewIPRateLimiter(limit int, window time.Duration, logger *zap.Logger) *IPRateLimiter {
	if limit <= 0 {
		limit = 1
	}
	l := &IPRateLimiter{
		rps:   rate.Limit(float64(limit) / window.Seconds()),
		burst: limit,
		log:   logger,
		stop:  make(chan struct{}),
	}
	go l.cleanupVisitors(time.Minute, 5*time.Minute)
	return l
}

func (l *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	v, _ := l.visitors.LoadOrStore(ip, &visitor{limiter: rate.NewLimiter(l.rps, l.burst)})
	vi := v.(*visitor)
	vi.mu.Lock()
	vi.lastSeen = time.Now()
	vi.mu.Unlock()
	return vi.limiter
}

func (l *IPRateLimiter) cleanupVisitors(every, idle time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-l.stop:
			return
		case <-t.C:
			cutoff := time.Now().Add(-idle)
			l.visitors.Range(func(k, v interface{}) bool {
				vi := v.(*visitor)
				vi.mu.Lock()
				stale := vi.lastSeen.Before(cutoff)
				vi.mu.Unlock()
				if stale {
					l.visitors.Delete(k)
				}
				return true
			})
		}
	}
}

func (l *IPRateLimiter) Close() { l.once.Do(func() { close(l.stop) }) }

func (l *IPRateLimiter) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ip := clientIP(c)
		lim := l.getLimiter(ip)
		if !lim.Allow() {
			l.log.Warn("rate limit exceeded", zap.String("ip", ip), zap.String("path", c.Path()))
			return tooMany(c, time.Duration(float64(time.Second)/float64(l.rps)))
		}
		return c.Next()
	}
}

func clientIP(c *fiber.Ctx) string {
	ip := c.IP()
	if ip == "" {
		ip = "unknown"
	}
	host, _, err := net.SplitHostPort(ip)
	if err == nil {
		return host
	}
	return ip
}

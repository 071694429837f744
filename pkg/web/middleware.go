package web

import (
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RequestLogger logs each request at debug level with its latency.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		logger.Debug("http request",
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).Round(time.Microsecond),
			"client", c.ClientIP(),
		)
	}
}

const (
	// limiterIdleTTL is how long a client's limiter survives without requests.
	limiterIdleTTL = 10 * time.Minute

	// limiterSweepInterval is the minimum time between idle sweeps.
	limiterSweepInterval = time.Minute
)

// IPRateLimiter manages per-client rate limiters. Limiters of clients idle
// longer than limiterIdleTTL are dropped on a later request.
type IPRateLimiter struct {
	limiters  sync.Map // client IP -> *clientLimiter
	rate      rate.Limit
	burst     int
	logger    *slog.Logger
	now       func() time.Time
	lastSweep atomic.Int64
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64 // unix nanoseconds
}

// NewIPRateLimiter creates a limiter allowing perSecond requests per client
// with the given burst.
func NewIPRateLimiter(perSecond float64, burst int, logger *slog.Logger) *IPRateLimiter {
	if burst < 1 {
		burst = 1
	}
	i := &IPRateLimiter{
		rate:   rate.Limit(perSecond),
		burst:  burst,
		logger: logger,
		now:    time.Now,
	}
	i.lastSweep.Store(i.now().UnixNano())
	return i
}

func (i *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	now := i.now()
	i.maybeSweep(now)

	v, ok := i.limiters.Load(ip)
	if !ok {
		v, _ = i.limiters.LoadOrStore(ip, &clientLimiter{limiter: rate.NewLimiter(i.rate, i.burst)})
	}
	cl := v.(*clientLimiter)
	cl.lastSeen.Store(now.UnixNano())
	return cl.limiter
}

// maybeSweep drops idle limiters at most once per limiterSweepInterval.
func (i *IPRateLimiter) maybeSweep(now time.Time) {
	last := i.lastSweep.Load()
	if now.UnixNano()-last < int64(limiterSweepInterval) {
		return
	}
	if !i.lastSweep.CompareAndSwap(last, now.UnixNano()) {
		return
	}

	cutoff := now.Add(-limiterIdleTTL).UnixNano()
	i.limiters.Range(func(key, value any) bool {
		if value.(*clientLimiter).lastSeen.Load() < cutoff {
			i.limiters.Delete(key)
		}
		return true
	})
}

func (i *IPRateLimiter) clients() int {
	n := 0
	i.limiters.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// RateLimit returns a middleware that rate limits by client IP.
func (i *IPRateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !i.getLimiter(ip).Allow() {
			if i.logger != nil {
				i.logger.Warn("rate limit exceeded", "client", ip, "path", c.Request.URL.Path)
			}
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			return
		}

		c.Next()
	}
}

package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// localLimiters holds one token bucket per key. Buckets that have refilled
// completely are dropped on a periodic sweep.
type localLimiters struct {
	mu        sync.Mutex
	buckets   map[string]*rate.Limiter
	limit     rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

func newLocalLimiters(max int, window time.Duration) *localLimiters {
	return &localLimiters{
		buckets:   map[string]*rate.Limiter{},
		limit:     rate.Limit(float64(max) / window.Seconds()),
		burst:     max,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

func (l *localLimiters) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	if now.Sub(l.lastSweep) > 5*time.Minute {
		for k, b := range l.buckets {
			if b.TokensAt(now) >= float64(l.burst) {
				delete(l.buckets, k)
			}
		}
		l.lastSweep = now
	}
	b, ok := l.buckets[key]
	if !ok {
		b = rate.NewLimiter(l.limit, l.burst)
		l.buckets[key] = b
	}
	return b
}

// LocalRateLimit is a per-process token bucket allowing max requests per
// window with a burst of max.
func LocalRateLimit(max int, window time.Duration, keyFn KeyFunc, allow AllowFunc) gin.HandlerFunc {
	if max <= 0 || window <= 0 || keyFn == nil {
		return func(c *gin.Context) { c.Next() }
	}
	limiters := newLocalLimiters(max, window)
	return func(c *gin.Context) {
		if skipRequest(c, allow) {
			c.Next()
			return
		}
		b := limiters.get(keyFn(c))
		now := limiters.now()
		allowed := b.AllowN(now, 1)

		c.Header("X-RateLimit-Limit", strconv.Itoa(max))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(maxInt(int(b.TokensAt(now)), 0)))

		if !allowed {
			r := b.ReserveN(now, 1)
			delay := r.DelayFrom(now)
			r.CancelAt(now)
			rejectTooMany(c, maxInt(int((delay+time.Second-1)/time.Second), 1))
			return
		}
		c.Next()
	}
}

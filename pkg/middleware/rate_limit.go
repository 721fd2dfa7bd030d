package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/greenparkpeyzaj/greenpark/pkg/configs"
	"github.com/greenparkpeyzaj/greenpark/pkg/i18n"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/auth"
)

const (
	limiterIdleTTL      = 10 * time.Minute
	limiterSweepEvery   = time.Minute
	limiterSweepAtLeast = 1024 // 少于该数量时不清理
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiterSet 按键维护令牌桶，闲置超过 limiterIdleTTL 的键在访问时顺带清理.
type limiterSet struct {
	mu        sync.Mutex
	rps       rate.Limit
	burst     int
	visitors  map[string]*visitor
	lastSweep time.Time
	now       func() time.Time
}

func newLimiterSet(rps float64, burst int) *limiterSet {
	return &limiterSet{
		rps:      rate.Limit(rps),
		burst:    burst,
		visitors: map[string]*visitor{},
		now:      time.Now,
	}
}

func (s *limiterSet) allow(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now)

	v, ok := s.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(s.rps, s.burst)}
		s.visitors[key] = v
	}

	v.lastSeen = now

	return v.limiter.AllowN(now, 1)
}

func (s *limiterSet) sweep(now time.Time) {
	if len(s.visitors) < limiterSweepAtLeast || now.Sub(s.lastSweep) < limiterSweepEvery {
		return
	}

	s.lastSweep = now

	for k, v := range s.visitors {
		if now.Sub(v.lastSeen) > limiterIdleTTL {
			delete(s.visitors, k)
		}
	}
}

// RateLimitMiddleware 令牌桶限流，只作用于 cfg.Paths 前缀下的请求（默认两条上传通道）.
// cfg.Key 选择维度：global、ip、identity（已登录按账户，否则按 IP）、header:Name.
func RateLimitMiddleware(cfg configs.RateLimitConfig) gin.HandlerFunc {
	if !cfg.Enabled || cfg.RPS <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	keyOf := rateLimitKey(strings.ToLower(strings.TrimSpace(cfg.Key)))
	limiters := newLimiterSet(cfg.RPS, cfg.Burst)

	return func(c *gin.Context) {
		if !hasPathPrefix(c.Request.URL.Path, cfg.Paths) {
			c.Next()
			return
		}

		if !limiters.allow(keyOf(c)) {
			c.Header("Retry-After", strconv.Itoa(retryAfter(cfg.RPS)))
			AbortWithStatus(c, http.StatusTooManyRequests, i18n.MsgRateLimited)

			return
		}

		c.Next()
	}
}

// rateLimitKey 返回按模式提取限流键的函数.
func rateLimitKey(mode string) func(c *gin.Context) string {
	switch {
	case mode == "" || mode == "global":
		return func(*gin.Context) string { return "global" }
	case mode == "identity":
		return func(c *gin.Context) string {
			if id := auth.FromContext(c.Request.Context()); id != nil {
				return "id:" + id.ID
			}

			return "ip:" + clientIP(c)
		}
	case strings.HasPrefix(mode, "header:"):
		name := strings.TrimPrefix(mode, "header:")

		return func(c *gin.Context) string {
			if v := c.GetHeader(name); v != "" {
				return "h:" + v
			}

			return "ip:" + clientIP(c)
		}
	default:
		return func(c *gin.Context) string { return "ip:" + clientIP(c) }
	}
}

// retryAfter 下一个令牌到达前的秒数，至少 1.
func retryAfter(rps float64) int {
	if rps >= 1 {
		return 1
	}

	return int(1/rps + 0.5)
}

func clientIP(c *gin.Context) string {
	if ip := c.ClientIP(); ip != "" {
		return ip
	}

	if host, _, err := net.SplitHostPort(c.Request.RemoteAddr); err == nil {
		return host
	}

	return c.Request.RemoteAddr
}

package middleware

import (
	"strconv"
	"sync"

	"marketplace-web/internal/auth"
	apperrors "marketplace-web/pkg/errors"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

const (
	headerRateLimit     = "X-RateLimit-Limit"
	headerRateRemaining = "X-RateLimit-Remaining"
	headerRetryAfter    = "Retry-After"
	msgRateLimited      = "rate limit exceeded"
)

// RateLimiter is a token bucket per visitor. Signed-in visitors are keyed by
// user ID, everyone else by client IP. The session must already be attached
// to the context (see auth.Guard.Attach) for user keying to apply.
type RateLimiter struct {
	limiters sync.Map // key -> *rate.Limiter
	rate     rate.Limit
	burst    int
}

func NewRateLimiter(requestsPerSecond int, burst int) *RateLimiter {
	return &RateLimiter{
		rate:  rate.Limit(requestsPerSecond),
		burst: burst,
	}
}

func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	limiter, _ := rl.limiters.LoadOrStore(key, rate.NewLimiter(rl.rate, rl.burst))
	return limiter.(*rate.Limiter)
}

func (rl *RateLimiter) Allow(key string) bool {
	return rl.getLimiter(key).Allow()
}

func visitorKey(c echo.Context) string {
	if sess, ok := auth.GetSession(c); ok {
		return "user:" + sess.UserID
	}
	return "ip:" + c.RealIP()
}

func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			limiter := rl.getLimiter(visitorKey(c))
			h := c.Response().Header()
			h.Set(headerRateLimit, strconv.Itoa(rl.burst))

			if !limiter.Allow() {
				h.Set(headerRateRemaining, "0")
				h.Set(headerRetryAfter, "1")
				return apperrors.RateLimited(msgRateLimited)
			}

			h.Set(headerRateRemaining, strconv.Itoa(int(limiter.Tokens())))
			return next(c)
		}
	}
}

// NewStrictRateLimiter is for sign-out and other state-changing endpoints.
func NewStrictRateLimiter() *RateLimiter {
	return NewRateLimiter(5, 10)
}

// NewGlobalRateLimiter is applied to every request.
func NewGlobalRateLimiter() *RateLimiter {
	return NewRateLimiter(100, 200)
}

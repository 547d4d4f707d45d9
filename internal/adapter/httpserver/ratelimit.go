package httpserver

import (
	"math"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	apperrors "github.com/kevinbibang94/baol-digital-show-clean/internal/platform/errors"
)

// Idle visitors are forgotten after this long.
const visitorExpiry = 5 * time.Minute

// newRateLimiter gives every client IP its own token bucket. A rejected
// request becomes a rate_limited error with a Retry-After header set to the
// time one token takes to refill.
func newRateLimiter(ratePerSecond float64, burst int) echo.MiddlewareFunc {
	refill := retryAfterSeconds(ratePerSecond)

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(ratePerSecond),
			Burst:     burst,
			ExpiresIn: visitorExpiry,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, visitor string, _ error) error {
			c.Response().Header().Set("Retry-After", strconv.Itoa(refill))
			return apperrors.RateLimitedError(refill).WithField("visitor", visitor)
		},
	})
}

func retryAfterSeconds(ratePerSecond float64) int {
	if ratePerSecond <= 0 {
		return 60
	}
	return max(1, int(math.Ceil(1/ratePerSecond)))
}

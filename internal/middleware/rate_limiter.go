package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// DefaultSubmitRate is the number of form submissions allowed per IP per
// second. Bursts up to DefaultSubmitBurst are allowed.
const (
	DefaultSubmitRate  = 10.0 / 60.0
	DefaultSubmitBurst = 10
)

// RateLimiter limits form submissions per client IP. It protects the
// remote API from scripted credential stuffing through the form.
func RateLimiter() echo.MiddlewareFunc {
	return RateLimiterWith(DefaultSubmitRate, DefaultSubmitBurst)
}

// RateLimiterWith builds a limiter with explicit rate and burst.
func RateLimiterWith(perSecond float64, burst int) echo.MiddlewareFunc {
	config := middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:  rate.Limit(perSecond),
			Burst: burst,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return c.String(http.StatusTooManyRequests, "Too many requests. Please try again later.")
		},
	}
	return middleware.RateLimiterWithConfig(config)
}

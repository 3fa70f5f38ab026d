package middleware

import (
	"net/http"
	"portfolio-dashboard/config"
	"portfolio-dashboard/internal/dto"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// NewRateLimiterMiddleware limits /api requests per client IP. A zero rate disables it.
func NewRateLimiterMiddleware(cfg config.API) echo.MiddlewareFunc {
	if cfg.RateLimitPerSec <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}

	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(cfg.RateLimitPerSec),
		Burst:     cfg.RateLimitBurst,
		ExpiresIn: cfg.RateLimitExpires,
	})

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/healthz"
		},
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusForbidden, dto.NewErrorResponse("Unable to identify client"))
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return c.JSON(http.StatusTooManyRequests, dto.NewErrorResponse("Too many requests, try again later"))
		},
	})
}

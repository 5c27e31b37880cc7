package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/carepoint/clinic-api/internal/api/metrics"
	"github.com/carepoint/clinic-api/internal/core/domain"
	"github.com/carepoint/clinic-api/internal/core/ports"
)

// Authenticate validates the bearer token and stores the decoded principal in
// the request context. Expired and malformed tokens get the same response.
func Authenticate(tokens ports.TokenCodec) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				metrics.TokenValidationsTotal.WithLabelValues("missing").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				metrics.TokenValidationsTotal.WithLabelValues("malformed").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			p, err := tokens.Validate(strings.TrimSpace(parts[1]))
			if err != nil {
				result := "malformed"
				if errors.Is(err, domain.ErrTokenExpired) {
					result = "expired"
				}
				metrics.TokenValidationsTotal.WithLabelValues(result).Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			metrics.TokenValidationsTotal.WithLabelValues("valid").Inc()

			req := c.Request()
			c.SetRequest(req.WithContext(domain.WithPrincipal(req.Context(), p)))
			return next(c)
		}
	}
}

// RequestContext copies the echo request ID into the request context so
// services can correlate audit events. Register it after echo's RequestID.
func RequestContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Response().Header().Get(echo.HeaderXRequestID)
			if id == "" {
				id = c.Request().Header.Get(echo.HeaderXRequestID)
			}
			if id != "" {
				req := c.Request()
				c.SetRequest(req.WithContext(domain.WithRequestID(req.Context(), id)))
			}
			return next(c)
		}
	}
}

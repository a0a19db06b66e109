package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/farmlink/marketplace-api/internal/core/domain"
	"github.com/farmlink/marketplace-api/internal/core/ports"
)

// actorKey is the echo context key holding the resolved *domain.User.
const actorKey = "actor"

// Identity resolves the optional bearer token into the current user record
// and stores it in the request context. A missing, malformed, or expired
// token leaves the request anonymous rather than rejecting it; every
// authorization decision happens downstream in the policy, not here.
func Identity(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c.Request().Header.Get("Authorization"))

			actor, err := auth.VerifyToken(c.Request().Context(), token)
			if err != nil {
				return err
			}
			if actor != nil {
				c.Set(actorKey, actor)
			}
			return next(c)
		}
	}
}

// Actor returns the authenticated user for the request, or nil when
// anonymous.
func Actor(c echo.Context) *domain.User {
	actor, _ := c.Get(actorKey).(*domain.User)
	return actor
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

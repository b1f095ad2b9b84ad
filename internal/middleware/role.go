package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fueldist/fuel-token-backend/internal/model"
)

// RequireRole returns a middleware that enforces the authenticated user
// holds one of the given roles.  It assumes JWTAuth ran earlier and stored
// a typed model.Role in the context; anything else is rejected with 403.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	allowed := make(map[model.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(CtxRole).(model.Role)
			if !ok || !allowed[role] {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}

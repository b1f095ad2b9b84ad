package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/fueldist/fuel-token-backend/internal/model"
)

// UserID returns the authenticated user's id from the context.  The second
// return value is false when JWTAuth did not run on this request.
func UserID(c echo.Context) (uint64, bool) {
	id, ok := c.Get(CtxUserID).(uint64)
	return id, ok
}

// UserRole returns the authenticated user's role, or an empty role when
// the request is unauthenticated.
func UserRole(c echo.Context) model.Role {
	role, _ := c.Get(CtxRole).(model.Role)
	return role
}

// identityKey renders the caller's identity for rate-limit keys: the user
// id when authenticated, "anon" otherwise.
func identityKey(c echo.Context) string {
	if id, ok := UserID(c); ok {
		return strconv.FormatUint(id, 10)
	}
	return "anon"
}

package router

import (
	"github.com/labstack/echo/v4"

	"github.com/fueldist/fuel-token-backend/internal/handler"
	"github.com/fueldist/fuel-token-backend/internal/middleware"
	"github.com/fueldist/fuel-token-backend/internal/model"
)

// RegisterAttendant registers the pump attendant endpoints: token lookup,
// quoting, redemption and the attendant's own sales ledger.  All routes
// require a PUMP_ATTENDANT access token; the limiter shields the
// redemption path from client retry storms.
func RegisterAttendant(e *echo.Echo, h *handler.AttendantTokenHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RolePumpAttendant))
	if limiter != nil {
		g.Use(limiter)
	}

	g.GET("/tokens/:token", h.Lookup)
	g.GET("/tokens/:token/calculate-liters", h.CalculateLiters)
	g.PATCH("/tokens/:token/redeem", h.Redeem)
	g.GET("/sales", h.Sales)
}

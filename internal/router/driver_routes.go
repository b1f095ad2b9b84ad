package router

import (
	"github.com/labstack/echo/v4"

	"github.com/fueldist/fuel-token-backend/internal/handler"
	"github.com/fueldist/fuel-token-backend/internal/middleware"
	"github.com/fueldist/fuel-token-backend/internal/model"
)

// RegisterDriver registers the driver endpoints: buying prepaid tokens and
// listing past purchases.
func RegisterDriver(e *echo.Echo, h *handler.DriverTokenHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group("/v1/driver")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleDriver))
	if limiter != nil {
		g.Use(limiter)
	}

	g.POST("/tokens", h.Purchase)
	g.GET("/tokens", h.List)
}

package router

import (
	"github.com/labstack/echo/v4"

	"github.com/fueldist/fuel-token-backend/internal/handler"
	"github.com/fueldist/fuel-token-backend/internal/middleware"
	"github.com/fueldist/fuel-token-backend/internal/model"
)

// RegisterAdmin registers the back-office endpoints: the commercial
// hierarchy (OMCs, stations, catalogs, price overrides), the physical
// topology (dispensers, pumps, assignments), attendant accounts and the
// transaction ledger.  OMC admins see everything; station managers share
// the read and topology surface for their daily operations.  The optional
// cache middleware accelerates the heavily polled listing endpoints.
func RegisterAdmin(e *echo.Echo, cat *handler.AdminCatalogHandler, topo *handler.AdminTopologyHandler,
	att *handler.AdminAttendantHandler, txn *handler.AdminTransactionHandler,
	jwtSecret string, cache echo.MiddlewareFunc) {

	g := e.Group("/v1/admin")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleOMCAdmin, model.RoleStationManager))
	if cache != nil {
		g.Use(cache)
	}

	// Commercial hierarchy.
	g.POST("/omcs", cat.CreateOMC)
	g.GET("/omcs", cat.ListOMCs)
	g.PATCH("/omcs/:id", cat.UpdateOMC)
	g.GET("/omcs/:id/catalogs", cat.ListCatalog)

	g.POST("/stations", cat.CreateStation)
	g.GET("/stations", cat.ListStations)
	g.PATCH("/stations/:id", cat.UpdateStation)
	g.GET("/stations/:id/prices", cat.ListStationPrices)

	g.POST("/catalogs", cat.CreateCatalogEntry)
	g.PATCH("/catalogs/:id/price", cat.UpdateCatalogPrice)
	g.PUT("/prices", cat.SetOverride)
	g.DELETE("/prices", cat.DeleteOverride)

	// Physical topology.
	g.POST("/dispensers", topo.CreateDispenser)
	g.GET("/stations/:id/dispensers", topo.ListDispensers)
	g.POST("/pumps", topo.CreatePump)
	g.GET("/stations/:id/pumps", topo.ListPumps)
	g.POST("/pumps/:id/attendants", topo.AssignAttendants)
	g.DELETE("/pumps/:id/attendants", topo.RemoveAttendants)
	g.GET("/pumps/:id/attendants", topo.ListPumpAttendants)

	// Attendant accounts.
	g.POST("/attendants", att.Create)
	g.GET("/attendants", att.List)
	g.PATCH("/attendants/:id", att.Update)
	g.DELETE("/attendants/:id", att.Delete)

	// Transaction ledger.
	g.GET("/transactions", txn.List)
	g.GET("/transactions/search", txn.Search)
	g.GET("/transactions/filters", txn.Filters)
	g.GET("/transactions/:id", txn.Get)
	g.GET("/counts", txn.Counts)
}

package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/fueldist/fuel-token-backend/internal/repository"
)

// AdminTopologyHandler manages the physical layer of a station: dispensers,
// pumps and the attendant-to-pump assignments.
type AdminTopologyHandler struct {
	Topology *repository.TopologyRepo
	Stations *repository.StationRepo
	Catalogs *repository.CatalogRepo
	Users    *repository.UserRepo
}

func NewAdminTopologyHandler(t *repository.TopologyRepo, s *repository.StationRepo,
	cat *repository.CatalogRepo, u *repository.UserRepo) *AdminTopologyHandler {
	return &AdminTopologyHandler{Topology: t, Stations: s, Catalogs: cat, Users: u}
}

// ----- Dispensers -----

type dispenserReq struct {
	StationID       *uint64 `json:"station_id"`
	DispenserNumber *string `json:"dispenser_number"`
}

// CreateDispenser installs a dispenser at a station.
// POST /v1/admin/dispensers
func (h *AdminTopologyHandler) CreateDispenser(c echo.Context) error {
	var req dispenserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.StationID == nil || req.DispenserNumber == nil || strings.TrimSpace(*req.DispenserNumber) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "station_id and dispenser_number required"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	station, err := h.Stations.GetByID(ctx, *req.StationID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if station == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "station not found"})
	}
	id, err := h.Topology.CreateDispenser(ctx, *req.StationID, strings.TrimSpace(*req.DispenserNumber))
	if err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "dispenser number already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create dispenser failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// ListDispensers returns a station's dispensers.
// GET /v1/admin/stations/:id/dispensers
func (h *AdminTopologyHandler) ListDispensers(c echo.Context) error {
	stationID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	dispensers, err := h.Topology.ListDispensersByStation(ctx, stationID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]dispenserDTO, 0, len(dispensers))
	for _, d := range dispensers {
		out = append(out, toDispenserDTO(d))
	}
	return c.JSON(http.StatusOK, echo.Map{"dispensers": out, "count": len(out)})
}

// ----- Pumps -----

type pumpReq struct {
	DispenserID      *uint64 `json:"dispenser_id"`
	ProductCatalogID *uint64 `json:"product_catalog_id"`
	PumpNumber       *string `json:"pump_number"`
}

// CreatePump installs a pump on a dispenser, bound to the product it
// dispenses.
// POST /v1/admin/pumps
func (h *AdminTopologyHandler) CreatePump(c echo.Context) error {
	var req pumpReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.DispenserID == nil || req.ProductCatalogID == nil ||
		req.PumpNumber == nil || strings.TrimSpace(*req.PumpNumber) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "dispenser_id, product_catalog_id and pump_number required"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	dispenser, err := h.Topology.GetDispenser(ctx, *req.DispenserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if dispenser == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "dispenser not found"})
	}
	entry, err := h.Catalogs.GetEntry(ctx, *req.ProductCatalogID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if entry == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "catalog entry not found"})
	}
	id, err := h.Topology.CreatePump(ctx, *req.DispenserID, *req.ProductCatalogID,
		strings.TrimSpace(*req.PumpNumber))
	if err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "pump number already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create pump failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// ListPumps returns a station's pumps with their product binding.
// GET /v1/admin/stations/:id/pumps
func (h *AdminTopologyHandler) ListPumps(c echo.Context) error {
	stationID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	pumps, err := h.Topology.ListPumpsByStation(ctx, stationID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]pumpDTO, 0, len(pumps))
	for _, p := range pumps {
		out = append(out, toPumpDTO(p))
	}
	return c.JSON(http.StatusOK, echo.Map{"pumps": out, "count": len(out)})
}

// ----- Attendant assignments -----

type assignReq struct {
	AttendantIDs []uint64 `json:"attendant_ids"`
}

// AssignAttendants links attendants to a pump.  Each id must name an
// active attendant at the pump's station.
// POST /v1/admin/pumps/:id/attendants
func (h *AdminTopologyHandler) AssignAttendants(c echo.Context) error {
	pumpID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req assignReq
	if err := c.Bind(&req); err != nil || len(req.AttendantIDs) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "attendant_ids required"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	pump, err := h.Topology.GetPump(ctx, pumpID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if pump == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "pump not found"})
	}
	for _, uid := range req.AttendantIDs {
		att, err := h.Users.FindActiveAttendant(ctx, uid, &pump.StationID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		if att == nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "attendant not found at pump's station"})
		}
	}
	if err := h.Topology.AssignAttendants(ctx, pumpID, req.AttendantIDs); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "assign attendants failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// RemoveAttendants unlinks attendants from a pump.
// DELETE /v1/admin/pumps/:id/attendants
func (h *AdminTopologyHandler) RemoveAttendants(c echo.Context) error {
	pumpID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req assignReq
	if err := c.Bind(&req); err != nil || len(req.AttendantIDs) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "attendant_ids required"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Topology.RemoveAttendants(ctx, pumpID, req.AttendantIDs); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "remove attendants failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ListPumpAttendants returns the attendants assigned to a pump.
// GET /v1/admin/pumps/:id/attendants
func (h *AdminTopologyHandler) ListPumpAttendants(c echo.Context) error {
	pumpID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	users, err := h.Topology.ListPumpAttendants(ctx, pumpID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]attendantDTO, 0, len(users))
	for _, u := range users {
		out = append(out, toAttendantDTO(u))
	}
	return c.JSON(http.StatusOK, echo.Map{"attendants": out, "count": len(out)})
}

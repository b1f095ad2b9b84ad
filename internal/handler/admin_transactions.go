package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fueldist/fuel-token-backend/internal/model"
	"github.com/fueldist/fuel-token-backend/internal/repository"
)

// AdminTransactionHandler serves the back-office transaction ledger: the
// filtered, paginated token list, fuzzy search and per-token detail.
type AdminTransactionHandler struct {
	Tokens   *repository.FuelTokenRepo
	OMCs     *repository.OMCRepo
	Stations *repository.StationRepo
	Users    *repository.UserRepo
}

func NewAdminTransactionHandler(t *repository.FuelTokenRepo, o *repository.OMCRepo,
	s *repository.StationRepo, u *repository.UserRepo) *AdminTransactionHandler {
	return &AdminTransactionHandler{Tokens: t, OMCs: o, Stations: s, Users: u}
}

// List returns a page of transactions, optionally scoped to one OMC
// and/or one station.
// GET /v1/admin/transactions?omc_id=&station_id=&page=&limit=
func (h *AdminTransactionHandler) List(c echo.Context) error {
	omcID, ok := queryID(c, "omc_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid omc_id"})
	}
	stationID, ok := queryID(c, "station_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid station_id"})
	}
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 20)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	rows, total, err := h.Tokens.ListFiltered(ctx, omcID, stationID, page, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"transactions": rows,
		"total":        total,
		"page":         page,
		"limit":        limit,
	})
}

// Search does a fuzzy lookup on the token string.  At least two characters
// are required; at most twelve rows come back.
// GET /v1/admin/transactions/search?q=FT-
func (h *AdminTransactionHandler) Search(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	if len(q) < 2 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "query must be at least 2 characters"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rows, err := h.Tokens.Search(ctx, q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"results": rows, "count": len(rows)})
}

// Get returns the joined detail of one transaction by id.
// GET /v1/admin/transactions/:id
func (h *AdminTransactionHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	d, err := h.Tokens.GetDetailByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if d == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "transaction not found"})
	}
	return c.JSON(http.StatusOK, d)
}

// Filters returns the OMC and station lists the dashboard uses to populate
// its filter dropdowns.
// GET /v1/admin/transactions/filters
func (h *AdminTransactionHandler) Filters(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	omcs, err := h.OMCs.ListActive(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	stations, err := h.Stations.List(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	omcOut := make([]omcDTO, 0, len(omcs))
	for _, o := range omcs {
		omcOut = append(omcOut, toOMCDTO(o))
	}
	stationOut := make([]stationDTO, 0, len(stations))
	for _, s := range stations {
		stationOut = append(stationOut, toStationDTO(s))
	}
	return c.JSON(http.StatusOK, echo.Map{"omcs": omcOut, "stations": stationOut})
}

// Counts returns the dashboard headline numbers.
// GET /v1/admin/counts
func (h *AdminTransactionHandler) Counts(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	omcs, err := h.OMCs.Count(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	stations, err := h.Stations.Count(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	attendants, err := h.Users.CountAttendants(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	unused, err := h.Tokens.CountByStatus(ctx, model.TokenUnused)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	used, err := h.Tokens.CountByStatus(ctx, model.TokenUsed)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"omcs":          omcs,
		"stations":      stations,
		"attendants":    attendants,
		"tokens_unused": unused,
		"tokens_used":   used,
		"tokens_total":  unused + used,
	})
}

package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/fueldist/fuel-token-backend/internal/model"
	"github.com/fueldist/fuel-token-backend/internal/repository"
)

// AdminCatalogHandler manages the commercial hierarchy: OMCs, their
// stations, their product catalogs and the per-station price overrides.
type AdminCatalogHandler struct {
	OMCs     *repository.OMCRepo
	Stations *repository.StationRepo
	Catalogs *repository.CatalogRepo
	Prices   *repository.StationPriceRepo
}

func NewAdminCatalogHandler(o *repository.OMCRepo, s *repository.StationRepo,
	cat *repository.CatalogRepo, p *repository.StationPriceRepo) *AdminCatalogHandler {
	return &AdminCatalogHandler{OMCs: o, Stations: s, Catalogs: cat, Prices: p}
}

func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}

// ----- OMCs -----

type omcReq struct {
	Name          *string `json:"name"`
	Location      *string `json:"location"`
	ContactPerson *string `json:"contact_person"`
	Contact       *string `json:"contact"`
	Email         *string `json:"email"`
}

// CreateOMC registers a new oil marketing company.
// POST /v1/admin/omcs
func (h *AdminCatalogHandler) CreateOMC(c echo.Context) error {
	var req omcReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	id, err := h.OMCs.Create(ctx, &model.OMC{
		Name:          strings.TrimSpace(*req.Name),
		Location:      req.Location,
		ContactPerson: req.ContactPerson,
		Contact:       req.Contact,
		Email:         req.Email,
	})
	if err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "omc name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create omc failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// ListOMCs returns all active OMCs.
// GET /v1/admin/omcs
func (h *AdminCatalogHandler) ListOMCs(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	omcs, err := h.OMCs.ListActive(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]omcDTO, 0, len(omcs))
	for _, o := range omcs {
		out = append(out, toOMCDTO(o))
	}
	return c.JSON(http.StatusOK, echo.Map{"omcs": out, "count": len(out)})
}

// UpdateOMC applies partial updates to an OMC's descriptive fields.
// PATCH /v1/admin/omcs/:id
func (h *AdminCatalogHandler) UpdateOMC(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req omcReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	err := h.OMCs.Update(ctx, id, req.Name, req.Location, req.ContactPerson, req.Contact, req.Email)
	if err != nil {
		if isNoRows(err) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "omc not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update omc failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ----- Stations -----

type stationReq struct {
	OMCID          *uint64 `json:"omc_id"`
	Name           *string `json:"name"`
	Region         *string `json:"region"`
	District       *string `json:"district"`
	Town           *string `json:"town"`
	ManagerName    *string `json:"manager_name"`
	ManagerContact *string `json:"manager_contact"`
}

// CreateStation registers a station under an OMC.
// POST /v1/admin/stations
func (h *AdminCatalogHandler) CreateStation(c echo.Context) error {
	var req stationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.OMCID == nil || req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "omc_id and name required"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	omc, err := h.OMCs.GetByID(ctx, *req.OMCID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if omc == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "omc not found"})
	}
	id, err := h.Stations.Create(ctx, &model.Station{
		OMCID:          *req.OMCID,
		Name:           strings.TrimSpace(*req.Name),
		Region:         req.Region,
		District:       req.District,
		Town:           req.Town,
		ManagerName:    req.ManagerName,
		ManagerContact: req.ManagerContact,
	})
	if err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "station name already exists for omc"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create station failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// ListStations returns active stations, optionally for one OMC.
// GET /v1/admin/stations?omc_id=
func (h *AdminCatalogHandler) ListStations(c echo.Context) error {
	omcID, ok := queryID(c, "omc_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid omc_id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	stations, err := h.Stations.List(ctx, omcID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]stationDTO, 0, len(stations))
	for _, s := range stations {
		out = append(out, toStationDTO(s))
	}
	return c.JSON(http.StatusOK, echo.Map{"stations": out, "count": len(out)})
}

// UpdateStation applies partial updates to a station's descriptive fields.
// PATCH /v1/admin/stations/:id
func (h *AdminCatalogHandler) UpdateStation(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req stationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	err := h.Stations.Update(ctx, id, req.Name, req.Region, req.District, req.Town,
		req.ManagerName, req.ManagerContact)
	if err != nil {
		if isNoRows(err) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "station not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update station failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ----- Product catalogs -----

type catalogReq struct {
	OMCID        *uint64 `json:"omc_id"`
	Name         *string `json:"name"`
	DefaultPrice *string `json:"default_price"`
}

// CreateCatalogEntry adds a product to an OMC's catalog with its default
// per-liter price.
// POST /v1/admin/catalogs
func (h *AdminCatalogHandler) CreateCatalogEntry(c echo.Context) error {
	var req catalogReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.OMCID == nil || req.Name == nil || strings.TrimSpace(*req.Name) == "" || req.DefaultPrice == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "omc_id, name and default_price required"})
	}
	price, err := decimal.NewFromString(strings.TrimSpace(*req.DefaultPrice))
	if err != nil || !price.IsPositive() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "default_price must be a positive number"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	omc, err := h.OMCs.GetByID(ctx, *req.OMCID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if omc == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "omc not found"})
	}
	id, err := h.Catalogs.Create(ctx, *req.OMCID, strings.TrimSpace(*req.Name), price.Round(2))
	if err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "product already exists for omc"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create catalog entry failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// ListCatalog returns the active catalog of one OMC.
// GET /v1/admin/omcs/:id/catalogs
func (h *AdminCatalogHandler) ListCatalog(c echo.Context) error {
	omcID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	entries, err := h.Catalogs.ListByOMC(ctx, omcID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]catalogDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, toCatalogDTO(e))
	}
	return c.JSON(http.StatusOK, echo.Map{"catalogs": out, "count": len(out)})
}

// UpdateCatalogPrice changes a product's default per-liter price.  Already
// issued tokens are unaffected; redemption always reads the price current
// at redeem time.
// PATCH /v1/admin/catalogs/:id/price
func (h *AdminCatalogHandler) UpdateCatalogPrice(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req struct {
		Price string `json:"price"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	price, err := decimal.NewFromString(strings.TrimSpace(req.Price))
	if err != nil || !price.IsPositive() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price must be a positive number"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Catalogs.UpdateDefaultPrice(ctx, id, price.Round(2)); err != nil {
		if isNoRows(err) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "catalog entry not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update price failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ----- Station price overrides -----

type overrideReq struct {
	CatalogID *uint64 `json:"catalog_id"`
	StationID *uint64 `json:"station_id"`
	Price     *string `json:"price"`
}

// SetOverride creates or replaces a station's price override for a
// product.  The override takes effect on the next redemption.
// PUT /v1/admin/prices
func (h *AdminCatalogHandler) SetOverride(c echo.Context) error {
	var req overrideReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.CatalogID == nil || req.StationID == nil || req.Price == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "catalog_id, station_id and price required"})
	}
	price, err := decimal.NewFromString(strings.TrimSpace(*req.Price))
	if err != nil || !price.IsPositive() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price must be a positive number"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	entry, err := h.Catalogs.GetEntry(ctx, *req.CatalogID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if entry == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "catalog entry not found"})
	}
	station, err := h.Stations.GetByID(ctx, *req.StationID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if station == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "station not found"})
	}
	if station.OMCID != entry.OMCID {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "station and product belong to different omcs"})
	}
	if err := h.Prices.Upsert(ctx, *req.CatalogID, *req.StationID, price.Round(2)); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "set override failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteOverride removes a station override so the catalog default applies
// again.
// DELETE /v1/admin/prices?catalog_id=&station_id=
func (h *AdminCatalogHandler) DeleteOverride(c echo.Context) error {
	catalogID, ok := queryID(c, "catalog_id")
	if !ok || catalogID == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "catalog_id required"})
	}
	stationID, ok := queryID(c, "station_id")
	if !ok || stationID == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "station_id required"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Prices.Delete(ctx, *catalogID, *stationID); err != nil {
		if isNoRows(err) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "override not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete override failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ListStationPrices returns the overrides at a station.
// GET /v1/admin/stations/:id/prices
func (h *AdminCatalogHandler) ListStationPrices(c echo.Context) error {
	stationID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	prices, err := h.Prices.ListByStation(ctx, stationID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]priceDTO, 0, len(prices))
	for _, p := range prices {
		out = append(out, toPriceDTO(p))
	}
	return c.JSON(http.StatusOK, echo.Map{"prices": out, "count": len(out)})
}

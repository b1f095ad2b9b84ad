package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/fueldist/fuel-token-backend/internal/config"
	"github.com/fueldist/fuel-token-backend/internal/repository"
)

// AdminAttendantHandler provisions and manages pump attendant accounts.
type AdminAttendantHandler struct {
	Cfg      config.Config
	Users    *repository.UserRepo
	Stations *repository.StationRepo
}

func NewAdminAttendantHandler(cfg config.Config, u *repository.UserRepo, s *repository.StationRepo) *AdminAttendantHandler {
	return &AdminAttendantHandler{Cfg: cfg, Users: u, Stations: s}
}

type attendantReq struct {
	Name       *string `json:"name"`
	Email      *string `json:"email"`
	Password   *string `json:"password"`
	NationalID *string `json:"national_id"`
	Contact    *string `json:"contact"`
	Gender     *string `json:"gender"`
	StationID  *uint64 `json:"station_id"`
	OMCID      *uint64 `json:"omc_id"`
}

// Create provisions a pump attendant assigned to a station.
// POST /v1/admin/attendants
func (h *AdminAttendantHandler) Create(c echo.Context) error {
	var req attendantReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" ||
		req.Email == nil || strings.TrimSpace(*req.Email) == "" ||
		req.Password == nil || *req.Password == "" ||
		req.StationID == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, email, password and station_id required"})
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
	omcID := req.OMCID
	if omcID == nil {
		omcID = &station.OMCID
	}
	id, err := h.Users.CreateAttendant(ctx, repository.AttendantRecord{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		NationalID: req.NationalID,
		Contact:    req.Contact,
		Gender:     req.Gender,
		StationID:  req.StationID,
		OMCID:      omcID,
	}, h.Cfg.BcryptCost)
	if err != nil {
		if err == repository.ErrEmailExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create attendant failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// List returns active attendants, optionally for one OMC.
// GET /v1/admin/attendants?omc_id=
func (h *AdminAttendantHandler) List(c echo.Context) error {
	omcID, ok := queryID(c, "omc_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid omc_id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	users, err := h.Users.ListAttendants(ctx, omcID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]attendantDTO, 0, len(users))
	for _, u := range users {
		out = append(out, toAttendantDTO(u))
	}
	return c.JSON(http.StatusOK, echo.Map{"attendants": out, "count": len(out)})
}

// Update applies partial updates to an attendant account.
// PATCH /v1/admin/attendants/:id
func (h *AdminAttendantHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req attendantReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if req.StationID != nil {
		station, err := h.Stations.GetByID(ctx, *req.StationID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		if station == nil {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "station not found"})
		}
	}
	err := h.Users.UpdateAttendant(ctx, id, repository.AttendantRecord{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		NationalID: req.NationalID,
		Contact:    req.Contact,
		Gender:     req.Gender,
		StationID:  req.StationID,
		OMCID:      req.OMCID,
	}, h.Cfg.BcryptCost)
	if err != nil {
		if isNoRows(err) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "attendant not found"})
		}
		if err == repository.ErrEmailExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update attendant failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete soft-deletes an attendant.  Historical sales keep referencing the
// account.
// DELETE /v1/admin/attendants/:id
func (h *AdminAttendantHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Users.SoftDeleteAttendant(ctx, id); err != nil {
		if isNoRows(err) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "attendant not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete attendant failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

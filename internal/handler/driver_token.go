package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/fueldist/fuel-token-backend/internal/middleware"
	"github.com/fueldist/fuel-token-backend/internal/model"
	"github.com/fueldist/fuel-token-backend/internal/repository"
	"github.com/fueldist/fuel-token-backend/internal/utils"
)

// DriverTokenHandler serves the driver's side: buy prepaid tokens and list
// past purchases.
type DriverTokenHandler struct {
	Tokens   *repository.FuelTokenRepo
	Stations *repository.StationRepo
}

func NewDriverTokenHandler(t *repository.FuelTokenRepo, s *repository.StationRepo) *DriverTokenHandler {
	return &DriverTokenHandler{Tokens: t, Stations: s}
}

type purchaseReq struct {
	Amount       string  `json:"amount"`
	MobileNumber *string `json:"mobile_number"`
	StationID    *uint64 `json:"station_id"`
}

// Purchase creates a prepaid token funded with the given amount.  The
// token starts UNUSED; the station is optional and merely pre-binds where
// the token may be redeemed.
// POST /v1/driver/tokens
func (h *DriverTokenHandler) Purchase(c echo.Context) error {
	driverID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req purchaseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(req.Amount))
	if err != nil || !amount.IsPositive() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "amount must be a positive number"})
	}
	amount = amount.Round(2)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if req.StationID != nil {
		st, err := h.Stations.GetByID(ctx, *req.StationID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		if st == nil {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "station not found"})
		}
	}

	tokenStr := utils.NewFuelTokenString()
	id, err := h.Tokens.Create(ctx, tokenStr, driverID, amount, req.MobileNumber, req.StationID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create token failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"id":         id,
		"token":      tokenStr,
		"amount":     amount.StringFixed(2),
		"status":     string(model.TokenUnused),
		"station_id": req.StationID,
	})
}

// List returns the driver's tokens newest first.  The optional status
// query narrows to UNUSED or USED.
// GET /v1/driver/tokens?status=UNUSED
func (h *DriverTokenHandler) List(c echo.Context) error {
	driverID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var status *model.TokenStatus
	if raw := strings.TrimSpace(c.QueryParam("status")); raw != "" {
		s, ok := model.ParseTokenStatus(strings.ToUpper(raw))
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be UNUSED or USED"})
		}
		status = &s
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tokens, err := h.Tokens.ListByDriver(ctx, driverID, status)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"tokens": tokens, "count": len(tokens)})
}

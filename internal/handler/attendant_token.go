package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/fueldist/fuel-token-backend/internal/middleware"
	"github.com/fueldist/fuel-token-backend/internal/repository"
	"github.com/fueldist/fuel-token-backend/internal/service"
)

// AttendantTokenHandler serves the pump attendant's side of the token
// lifecycle: inspect a token, quote it against a product and redeem it.
type AttendantTokenHandler struct {
	Redemption *service.Redemption
	Tokens     *repository.FuelTokenRepo
}

func NewAttendantTokenHandler(r *service.Redemption, t *repository.FuelTokenRepo) *AttendantTokenHandler {
	return &AttendantTokenHandler{Redemption: r, Tokens: t}
}

// redeemStatus maps the service's sentinel errors onto HTTP statuses.
func redeemStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrTokenNotFound),
		errors.Is(err, service.ErrAttendantNotFound),
		errors.Is(err, service.ErrStationNotFound),
		errors.Is(err, service.ErrPumpNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrAlreadyRedeemed):
		return http.StatusConflict
	case errors.Is(err, service.ErrStationRequired),
		errors.Is(err, service.ErrPumpStationMismatch),
		errors.Is(err, service.ErrPumpDispenserMismatch),
		errors.Is(err, service.ErrCatalogRequired),
		errors.Is(err, service.ErrPriceNotAvailable),
		errors.Is(err, service.ErrAmountRequired),
		errors.Is(err, service.ErrTokenNoAmount),
		errors.Is(err, service.ErrProductNotAtStation):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Lookup returns the joined detail of a token in any state.
// GET /v1/tokens/:token
func (h *AttendantTokenHandler) Lookup(c echo.Context) error {
	tokenStr := strings.TrimSpace(c.Param("token"))
	if tokenStr == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "token required"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.Tokens.GetByToken(ctx, tokenStr)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if t == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "token not found"})
	}
	d, err := h.Tokens.GetDetailByID(ctx, t.ID)
	if err != nil || d == nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, d)
}

type redeemReq struct {
	StationID   *uint64 `json:"station_id"`
	DispenserID *uint64 `json:"dispenser_id"`
	PumpID      *uint64 `json:"pump_id"`
	CatalogID   *uint64 `json:"product_catalog_id"`
	Amount      *string `json:"amount"`
	Liters      *string `json:"liters"`
}

type redeemResp struct {
	Token      string    `json:"token"`
	Status     string    `json:"status"`
	StationID  uint64    `json:"station_id"`
	CatalogID  uint64    `json:"product_catalog_id"`
	UnitPrice  string    `json:"unit_price"`
	Amount     string    `json:"amount"`
	Liters     string    `json:"liters"`
	RedeemedAt time.Time `json:"redeemed_at"`
}

// Redeem consumes a token: resolves the current price, derives liters from
// the paid amount and flips the token to USED exactly once.
// PATCH /v1/tokens/:token/redeem
func (h *AttendantTokenHandler) Redeem(c echo.Context) error {
	tokenStr := strings.TrimSpace(c.Param("token"))
	if tokenStr == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "token required"})
	}
	attendantID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body redeemReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req := service.RedeemRequest{
		Token:       tokenStr,
		AttendantID: attendantID,
		StationID:   body.StationID,
		DispenserID: body.DispenserID,
		PumpID:      body.PumpID,
		CatalogID:   body.CatalogID,
	}
	if body.Amount != nil {
		amt, err := decimal.NewFromString(strings.TrimSpace(*body.Amount))
		if err != nil || !amt.IsPositive() {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid amount"})
		}
		req.Amount = &amt
	}
	if body.Liters != nil {
		l, err := decimal.NewFromString(strings.TrimSpace(*body.Liters))
		if err != nil || l.IsNegative() {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid liters"})
		}
		req.Liters = &l
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	res, err := h.Redemption.Redeem(ctx, req)
	if err != nil {
		status := redeemStatus(err)
		if status == http.StatusInternalServerError {
			return c.JSON(status, echo.Map{"error": "redeem failed"})
		}
		return c.JSON(status, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, redeemResp{
		Token:      res.Token,
		Status:     "USED",
		StationID:  res.StationID,
		CatalogID:  res.CatalogID,
		UnitPrice:  res.UnitPrice.String(),
		Amount:     res.Amount.StringFixed(2),
		Liters:     res.Liters.StringFixed(3),
		RedeemedAt: res.RedeemedAt,
	})
}

// CalculateLiters quotes how many liters the token's amount buys of a
// named product, at six decimal places. Nothing is written.
// GET /v1/tokens/:token/calculate-liters?product=Diesel
func (h *AttendantTokenHandler) CalculateLiters(c echo.Context) error {
	tokenStr := strings.TrimSpace(c.Param("token"))
	product := strings.TrimSpace(c.QueryParam("product"))
	if tokenStr == "" || product == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "token and product required"})
	}
	attendantID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	q, err := h.Redemption.CalculateLiters(ctx, tokenStr, attendantID, product)
	if err != nil {
		if errors.Is(err, service.ErrProductNotAtStation) && q != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error":     err.Error(),
				"available": q.Available,
			})
		}
		status := redeemStatus(err)
		if status == http.StatusInternalServerError {
			return c.JSON(status, echo.Map{"error": "quote failed"})
		}
		return c.JSON(status, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"token":      q.Token,
		"product":    q.ProductName,
		"station_id": q.StationID,
		"unit_price": q.UnitPrice.String(),
		"amount":     q.Amount.StringFixed(2),
		"liters":     q.Liters.StringFixed(6),
	})
}

// Sales lists the completed sales the authenticated attendant has
// redeemed, newest first.
// GET /v1/sales
func (h *AttendantTokenHandler) Sales(c echo.Context) error {
	attendantID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	sales, err := h.Tokens.ListSalesByAttendant(ctx, attendantID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"sales": sales, "count": len(sales)})
}

package handler

import (
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fueldist/fuel-token-backend/internal/model"
)

// isNoRows reports whether a repository error means "nothing matched".
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// pathID parses a numeric path parameter.  Returns 0, false for anything
// that is not a positive integer.
func pathID(c echo.Context, name string) (uint64, bool) {
	v, err := strconv.ParseUint(strings.TrimSpace(c.Param(name)), 10, 64)
	if err != nil || v == 0 {
		return 0, false
	}
	return v, true
}

// queryID parses an optional numeric query parameter.  A missing or empty
// parameter yields (nil, true); garbage yields (nil, false).
func queryID(c echo.Context, name string) (*uint64, bool) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		return nil, false
	}
	return &v, true
}

// queryInt parses an optional integer query parameter with a default.
func queryInt(c echo.Context, name string, def int) int {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

// ----- response DTOs shared by the admin handlers -----
//
// Models carry no JSON tags; handlers map them onto these wire shapes.

type omcDTO struct {
	ID            uint64  `json:"id"`
	Name          string  `json:"name"`
	Location      *string `json:"location"`
	ContactPerson *string `json:"contact_person"`
	Contact       *string `json:"contact"`
	Email         *string `json:"email"`
}

func toOMCDTO(o model.OMC) omcDTO {
	return omcDTO{
		ID:            o.ID,
		Name:          o.Name,
		Location:      o.Location,
		ContactPerson: o.ContactPerson,
		Contact:       o.Contact,
		Email:         o.Email,
	}
}

type stationDTO struct {
	ID             uint64  `json:"id"`
	OMCID          uint64  `json:"omc_id"`
	Name           string  `json:"name"`
	Region         *string `json:"region"`
	District       *string `json:"district"`
	Town           *string `json:"town"`
	ManagerName    *string `json:"manager_name"`
	ManagerContact *string `json:"manager_contact"`
}

func toStationDTO(s model.Station) stationDTO {
	return stationDTO{
		ID:             s.ID,
		OMCID:          s.OMCID,
		Name:           s.Name,
		Region:         s.Region,
		District:       s.District,
		Town:           s.Town,
		ManagerName:    s.ManagerName,
		ManagerContact: s.ManagerContact,
	}
}

type catalogDTO struct {
	ID           uint64 `json:"id"`
	OMCID        uint64 `json:"omc_id"`
	Name         string `json:"name"`
	DefaultPrice string `json:"default_price"`
}

func toCatalogDTO(c model.ProductCatalog) catalogDTO {
	return catalogDTO{
		ID:           c.ID,
		OMCID:        c.OMCID,
		Name:         c.Name,
		DefaultPrice: c.DefaultPrice.StringFixed(2),
	}
}

type priceDTO struct {
	CatalogID     uint64    `json:"catalog_id"`
	StationID     uint64    `json:"station_id"`
	Price         string    `json:"price"`
	EffectiveFrom time.Time `json:"effective_from"`
}

func toPriceDTO(p model.StationProductPrice) priceDTO {
	return priceDTO{
		CatalogID:     p.CatalogID,
		StationID:     p.StationID,
		Price:         p.Price.StringFixed(2),
		EffectiveFrom: p.EffectiveFrom,
	}
}

type dispenserDTO struct {
	ID              uint64 `json:"id"`
	StationID       uint64 `json:"station_id"`
	DispenserNumber string `json:"dispenser_number"`
}

func toDispenserDTO(d model.Dispenser) dispenserDTO {
	return dispenserDTO{ID: d.ID, StationID: d.StationID, DispenserNumber: d.DispenserNumber}
}

type pumpDTO struct {
	ID               uint64 `json:"id"`
	DispenserID      uint64 `json:"dispenser_id"`
	ProductCatalogID uint64 `json:"product_catalog_id"`
	PumpNumber       string `json:"pump_number"`
	StationID        uint64 `json:"station_id"`
}

func toPumpDTO(p model.Pump) pumpDTO {
	return pumpDTO{
		ID:               p.ID,
		DispenserID:      p.DispenserID,
		ProductCatalogID: p.ProductCatalogID,
		PumpNumber:       p.PumpNumber,
		StationID:        p.StationID,
	}
}

type attendantDTO struct {
	ID         uint64  `json:"id"`
	Email      string  `json:"email"`
	Name       *string `json:"name"`
	Contact    *string `json:"contact"`
	NationalID *string `json:"national_id"`
	Gender     *string `json:"gender"`
	OMCID      *uint64 `json:"omc_id"`
	StationID  *uint64 `json:"station_id"`
}

func toAttendantDTO(u model.User) attendantDTO {
	return attendantDTO{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		Contact:    u.Contact,
		NationalID: u.NationalID,
		Gender:     u.Gender,
		OMCID:      u.OMCID,
		StationID:  u.StationID,
	}
}

// Package service implements the token redemption workflow: precondition
// checks, price resolution, fixed-point liters/amount math and the final
// at-most-once conditional write.  It speaks to storage through small
// interfaces so the workflow is testable without a database.
package service

import (
	"context"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fueldist/fuel-token-backend/internal/model"
	"github.com/fueldist/fuel-token-backend/internal/pricing"
	"github.com/fueldist/fuel-token-backend/internal/queue"
	"github.com/fueldist/fuel-token-backend/internal/repository"
)

// TokenStore is the slice of the fuel token repository the workflow needs.
type TokenStore interface {
	FindUnused(ctx context.Context, token string) (*model.FuelToken, error)
	ConditionalRedeem(ctx context.Context, token string, upd repository.RedemptionUpdate) (bool, error)
}

// AttendantDirectory validates that a user is an active pump attendant,
// optionally pinned to one station.
type AttendantDirectory interface {
	FindActiveAttendant(ctx context.Context, id uint64, stationID *uint64) (*model.User, error)
}

// StationStore fetches stations.  (nil, nil) means the station is absent.
type StationStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Station, error)
}

// TopologyStore fetches pumps with their station resolved through the
// dispenser chain.  (nil, nil) means the pump is absent.
type TopologyStore interface {
	GetPump(ctx context.Context, id uint64) (*model.Pump, error)
}

// ProductFinder resolves operator-typed product names against a station's
// price list.
type ProductFinder interface {
	FindStationProductByName(ctx context.Context, stationID uint64, name string) (*model.ProductCatalog, error)
	ListStationProductNames(ctx context.Context, stationID uint64) ([]string, error)
}

// PriceResolver answers the per-liter price of a product at a station.
type PriceResolver interface {
	ResolvePrice(ctx context.Context, catalogID, stationID uint64) (decimal.Decimal, error)
}

// Publisher emits a sale event after a committed redemption.  Failures are
// logged, never surfaced: the sale already happened.
type Publisher func(ctx context.Context, ev queue.SaleCompletedEvent) error

// Redemption wires the workflow's collaborators together.
type Redemption struct {
	Tokens     TokenStore
	Attendants AttendantDirectory
	Stations   StationStore
	Topology   TopologyStore
	Products   ProductFinder
	Prices     PriceResolver
	Publish    Publisher // optional
}

// NewRedemption builds the workflow over the given collaborators.
func NewRedemption(tokens TokenStore, attendants AttendantDirectory, stations StationStore,
	topology TopologyStore, products ProductFinder, prices PriceResolver, publish Publisher) *Redemption {
	return &Redemption{
		Tokens:     tokens,
		Attendants: attendants,
		Stations:   stations,
		Topology:   topology,
		Products:   products,
		Prices:     prices,
		Publish:    publish,
	}
}

// RedeemRequest is the attendant's input to a redemption.  Token and the
// attendant identity are mandatory; the rest narrows or overrides what the
// token already carries.
type RedeemRequest struct {
	Token       string
	AttendantID uint64
	StationID   *uint64
	DispenserID *uint64
	PumpID      *uint64
	CatalogID   *uint64
	Amount      *decimal.Decimal
	Liters      *decimal.Decimal
}

// RedeemResult reports the committed sale.
type RedeemResult struct {
	TokenID    uint64
	Token      string
	StationID  uint64
	CatalogID  uint64
	UnitPrice  decimal.Decimal
	Amount     decimal.Decimal
	Liters     decimal.Decimal
	RedeemedAt time.Time
}

// Redeem validates the request against the token, the attendant and the
// station topology, resolves the current price, reconciles the paid amount
// with the dispensed liters, and consumes the token with a single
// conditional write.  Checks run in a fixed order so a request failing
// several preconditions always reports the same one.
func (s *Redemption) Redeem(ctx context.Context, req RedeemRequest) (*RedeemResult, error) {
	t, err := s.Tokens.FindUnused(ctx, req.Token)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrTokenNotFound
	}

	// The attendant must work at the station the sale happens at.  The
	// request's station wins over the one pre-bound at purchase.
	stationHint := req.StationID
	if stationHint == nil {
		stationHint = t.StationID
	}
	attendant, err := s.Attendants.FindActiveAttendant(ctx, req.AttendantID, stationHint)
	if err != nil {
		return nil, err
	}
	if attendant == nil {
		return nil, ErrAttendantNotFound
	}

	if stationHint == nil {
		return nil, ErrStationRequired
	}
	stationID := *stationHint
	station, err := s.Stations.GetByID(ctx, stationID)
	if err != nil {
		return nil, err
	}
	if station == nil {
		return nil, ErrStationNotFound
	}

	// When a pump is named it must sit at the station, agree with any
	// dispenser given, and it fixes the product when none was supplied.
	catalogID := req.CatalogID
	if catalogID == nil {
		catalogID = t.ProductCatalogID
	}
	var pump *model.Pump
	if req.PumpID != nil {
		pump, err = s.Topology.GetPump(ctx, *req.PumpID)
		if err != nil {
			return nil, err
		}
		if pump == nil {
			return nil, ErrPumpNotFound
		}
		if pump.StationID != stationID {
			return nil, ErrPumpStationMismatch
		}
		if req.DispenserID != nil && pump.DispenserID != *req.DispenserID {
			return nil, ErrPumpDispenserMismatch
		}
		if catalogID == nil {
			catalogID = &pump.ProductCatalogID
		}
	}
	if catalogID == nil {
		return nil, ErrCatalogRequired
	}

	price, err := s.Prices.ResolvePrice(ctx, *catalogID, stationID)
	if err == pricing.ErrNotAvailable {
		return nil, ErrPriceNotAvailable
	}
	if err != nil {
		return nil, err
	}

	// Amount and liters reconcile against the resolved price: a known
	// amount derives missing liters, operator-entered liters derive a
	// missing amount, and when both are known the entered liters are kept
	// and only cross-checked.  Drift beyond the tolerance warns but never
	// blocks the sale.
	knownAmount := req.Amount
	if knownAmount == nil && t.Amount.Valid {
		a := t.Amount.Decimal
		knownAmount = &a
	}
	knownLiters := req.Liters
	if knownLiters == nil && t.Liters.Valid {
		l := t.Liters.Decimal
		knownLiters = &l
	}
	var amount, liters decimal.Decimal
	switch {
	case knownAmount != nil && knownLiters != nil:
		amount, liters = *knownAmount, *knownLiters
		if expected, ok := pricing.LitersConsistent(liters, amount, price); !ok {
			log.Printf("redeem %s: entered liters %s disagree with derived %s at price %s",
				req.Token, liters, expected, price)
		}
	case knownAmount != nil:
		amount = *knownAmount
		liters = pricing.LitersFromAmount(amount, price)
	case knownLiters != nil:
		liters = *knownLiters
		amount = pricing.AmountFromLiters(liters, price)
	default:
		return nil, ErrAmountRequired
	}

	dispenserID := req.DispenserID
	if dispenserID == nil && pump != nil {
		dispenserID = &pump.DispenserID
	}
	ok, err := s.Tokens.ConditionalRedeem(ctx, req.Token, repository.RedemptionUpdate{
		StationID:       stationID,
		CatalogID:       *catalogID,
		DispenserID:     dispenserID,
		PumpID:          req.PumpID,
		PumpAttendantID: req.AttendantID,
		Amount:          amount,
		Liters:          liters,
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		// Another attendant consumed the token between our read and the
		// conditional write.
		return nil, ErrAlreadyRedeemed
	}

	res := &RedeemResult{
		TokenID:    t.ID,
		Token:      t.Token,
		StationID:  stationID,
		CatalogID:  *catalogID,
		UnitPrice:  price,
		Amount:     amount,
		Liters:     liters,
		RedeemedAt: time.Now().UTC(),
	}
	s.publishSale(ctx, t, station, attendant, pump, res)
	return res, nil
}

func (s *Redemption) publishSale(ctx context.Context, t *model.FuelToken, station *model.Station,
	attendant *model.User, pump *model.Pump, res *RedeemResult) {
	if s.Publish == nil {
		return
	}
	ev := queue.SaleCompletedEvent{
		TokenID:     res.TokenID,
		Token:       res.Token,
		StationID:   res.StationID,
		StationName: station.Name,
		ProductID:   res.CatalogID,
		AttendantID: attendant.ID,
		Amount:      res.Amount.StringFixed(2),
		Liters:      res.Liters.StringFixed(3),
		UnitPrice:   res.UnitPrice.String(),
		RedeemedAt:  res.RedeemedAt.Format(time.RFC3339),
	}
	if t.DriverID != nil {
		ev.DriverID = *t.DriverID
	}
	if attendant.Name != nil {
		ev.AttendantName = *attendant.Name
	}
	if pump != nil {
		ev.PumpNumber = pump.PumpNumber
	}
	if err := s.Publish(ctx, ev); err != nil {
		log.Printf("redeem %s: publish sale event failed: %v", res.Token, err)
	}
}

// Quote is the pre-redemption calculator's answer: how many liters the
// token's amount buys of a named product at the attendant's station.
type Quote struct {
	Token       string
	ProductName string
	CatalogID   uint64
	StationID   uint64
	UnitPrice   decimal.Decimal
	Amount      decimal.Decimal
	Liters      decimal.Decimal
	Available   []string
}

// CalculateLiters quotes a still-unused token against a product name.  The
// quote carries six decimal places; nothing is written.  When the product
// is not sold at the station the error is ErrProductNotAtStation and the
// returned quote lists the names that are available there.
func (s *Redemption) CalculateLiters(ctx context.Context, tokenStr string, attendantID uint64, productName string) (*Quote, error) {
	t, err := s.Tokens.FindUnused(ctx, tokenStr)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrTokenNotFound
	}
	// A token without a stored amount cannot be quoted at all, so that is
	// reported before any attendant or station concern.
	if !t.Amount.Valid {
		return nil, ErrTokenNoAmount
	}
	attendant, err := s.Attendants.FindActiveAttendant(ctx, attendantID, t.StationID)
	if err != nil {
		return nil, err
	}
	if attendant == nil {
		return nil, ErrAttendantNotFound
	}

	stationID := t.StationID
	if stationID == nil {
		stationID = attendant.StationID
	}
	if stationID == nil {
		return nil, ErrStationRequired
	}

	entry, err := s.Products.FindStationProductByName(ctx, *stationID, productName)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		names, lerr := s.Products.ListStationProductNames(ctx, *stationID)
		if lerr != nil {
			names = nil
		}
		return &Quote{Token: tokenStr, ProductName: productName, StationID: *stationID, Available: names},
			ErrProductNotAtStation
	}

	price, err := s.Prices.ResolvePrice(ctx, entry.ID, *stationID)
	if err == pricing.ErrNotAvailable {
		return nil, ErrPriceNotAvailable
	}
	if err != nil {
		return nil, err
	}
	return &Quote{
		Token:       tokenStr,
		ProductName: entry.Name,
		CatalogID:   entry.ID,
		StationID:   *stationID,
		UnitPrice:   price,
		Amount:      t.Amount.Decimal,
		Liters:      pricing.QuoteLiters(t.Amount.Decimal, price),
	}, nil
}

package pricing

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fueldist/fuel-token-backend/internal/model"
)

type stubOverrideStore struct {
	rows map[[2]uint64]*model.StationProductPrice
}

func (s stubOverrideStore) GetOverride(_ context.Context, catalogID, stationID uint64) (*model.StationProductPrice, error) {
	return s.rows[[2]uint64{catalogID, stationID}], nil
}

type stubCatalogStore struct {
	entries map[uint64]*model.ProductCatalog
}

func (s stubCatalogStore) GetEntry(_ context.Context, id uint64) (*model.ProductCatalog, error) {
	return s.entries[id], nil
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestResolvePriceOverrideWins(t *testing.T) {
	overrides := stubOverrideStore{rows: map[[2]uint64]*model.StationProductPrice{
		{1, 10}: {CatalogID: 1, StationID: 10, Price: dec("25.50"), EffectiveFrom: time.Now()},
	}}
	catalogs := stubCatalogStore{entries: map[uint64]*model.ProductCatalog{
		1: {ID: 1, Name: "Diesel", DefaultPrice: dec("25.00")},
	}}
	r := NewResolver(overrides, catalogs)

	price, err := r.ResolvePrice(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !price.Equal(dec("25.50")) {
		t.Errorf("price = %s, want 25.50 (override must win over default)", price)
	}
}

func TestResolvePriceFallsBackToDefault(t *testing.T) {
	catalogs := stubCatalogStore{entries: map[uint64]*model.ProductCatalog{
		3: {ID: 3, Name: "Diesel", DefaultPrice: dec("24.80")},
	}}
	r := NewResolver(stubOverrideStore{}, catalogs)

	price, err := r.ResolvePrice(context.Background(), 3, 20)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !price.Equal(dec("24.80")) {
		t.Errorf("price = %s, want default 24.80", price)
	}
}

func TestResolvePriceFutureEffectiveFromStillWins(t *testing.T) {
	// Overrides are never filtered by effective_from at read time.
	overrides := stubOverrideStore{rows: map[[2]uint64]*model.StationProductPrice{
		{1, 10}: {CatalogID: 1, StationID: 10, Price: dec("30.00"), EffectiveFrom: time.Now().Add(48 * time.Hour)},
	}}
	catalogs := stubCatalogStore{entries: map[uint64]*model.ProductCatalog{
		1: {ID: 1, DefaultPrice: dec("25.00")},
	}}
	r := NewResolver(overrides, catalogs)

	price, err := r.ResolvePrice(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !price.Equal(dec("30.00")) {
		t.Errorf("price = %s, want future-dated override 30.00", price)
	}
}

func TestResolvePriceNotAvailable(t *testing.T) {
	r := NewResolver(stubOverrideStore{}, stubCatalogStore{})
	if _, err := r.ResolvePrice(context.Background(), 9, 9); err != ErrNotAvailable {
		t.Fatalf("err = %v, want ErrNotAvailable", err)
	}

	// A non-positive default is treated the same as no price at all.
	catalogs := stubCatalogStore{entries: map[uint64]*model.ProductCatalog{
		5: {ID: 5, DefaultPrice: decimal.Zero},
	}}
	r = NewResolver(stubOverrideStore{}, catalogs)
	if _, err := r.ResolvePrice(context.Background(), 5, 1); err != ErrNotAvailable {
		t.Fatalf("err = %v, want ErrNotAvailable for zero default", err)
	}
}

func TestLitersFromAmountScenario(t *testing.T) {
	// 1000 GHS at 25.50 GHS/L -> 39.216 L (3dp).
	liters := LitersFromAmount(dec("1000"), dec("25.50"))
	if !liters.Equal(dec("39.216")) {
		t.Errorf("liters = %s, want 39.216", liters)
	}
}

func TestQuoteLitersPrecision(t *testing.T) {
	liters := QuoteLiters(dec("1000"), dec("25.50"))
	if !liters.Equal(dec("39.215686")) {
		t.Errorf("quote liters = %s, want 39.215686 (6dp)", liters)
	}
	// Quoting is pure: identical inputs give identical results.
	again := QuoteLiters(dec("1000"), dec("25.50"))
	if !liters.Equal(again) {
		t.Errorf("quote not idempotent: %s vs %s", liters, again)
	}
}

func TestAmountLitersRoundTrip(t *testing.T) {
	tolerance := dec("0.001")
	prices := []string{"25.50", "24.80", "28.50", "0.97", "113.33"}
	volumes := []string{"50", "39.216", "0.5", "123.456", "1"}
	for _, p := range prices {
		for _, l := range volumes {
			price, liters := dec(p), dec(l)
			amount := AmountFromLiters(liters, price)
			back := LitersFromAmount(amount, price)
			if liters.Sub(back).Abs().GreaterThan(tolerance) {
				t.Errorf("round trip drift: price=%s liters=%s -> amount=%s -> liters=%s", p, l, amount, back)
			}
		}
	}
}

func TestLitersConsistent(t *testing.T) {
	expected, ok := LitersConsistent(dec("39.216"), dec("1000"), dec("25.50"))
	if !ok {
		t.Errorf("exact liters flagged inconsistent (expected %s)", expected)
	}
	if _, ok := LitersConsistent(dec("39.30"), dec("1000"), dec("25.50")); ok {
		t.Error("liters 0.084 off should exceed the 0.01 tolerance")
	}
}

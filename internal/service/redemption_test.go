package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/fueldist/fuel-token-backend/internal/model"
	"github.com/fueldist/fuel-token-backend/internal/pricing"
	"github.com/fueldist/fuel-token-backend/internal/repository"
)

// --- in-memory stubs ---

type stubTokens struct {
	mu     sync.Mutex
	byTok  map[string]*model.FuelToken
	stamps map[string]repository.RedemptionUpdate
}

func newStubTokens(ts ...*model.FuelToken) *stubTokens {
	s := &stubTokens{byTok: map[string]*model.FuelToken{}, stamps: map[string]repository.RedemptionUpdate{}}
	for _, t := range ts {
		s.byTok[t.Token] = t
	}
	return s
}

func (s *stubTokens) FindUnused(_ context.Context, token string) (*model.FuelToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.byTok[token]
	if !ok || t.Status != model.TokenUnused {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (s *stubTokens) ConditionalRedeem(_ context.Context, token string, upd repository.RedemptionUpdate) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.byTok[token]
	if !ok || t.Status != model.TokenUnused {
		return false, nil
	}
	t.Status = model.TokenUsed
	t.Amount = decimal.NewNullDecimal(upd.Amount)
	t.Liters = decimal.NewNullDecimal(upd.Liters)
	t.StationID = &upd.StationID
	t.ProductCatalogID = &upd.CatalogID
	t.PumpAttendantID = &upd.PumpAttendantID
	s.stamps[token] = upd
	return true, nil
}

type stubAttendants struct{ byID map[uint64]*model.User }

func (s *stubAttendants) FindActiveAttendant(_ context.Context, id uint64, stationID *uint64) (*model.User, error) {
	u, ok := s.byID[id]
	if !ok || u.Role != model.RolePumpAttendant || u.DeletedAt != nil {
		return nil, nil
	}
	if stationID != nil && (u.StationID == nil || *u.StationID != *stationID) {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

type stubStations struct{ byID map[uint64]*model.Station }

func (s *stubStations) GetByID(_ context.Context, id uint64) (*model.Station, error) {
	st, ok := s.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *st
	return &cp, nil
}

type stubTopology struct{ byID map[uint64]*model.Pump }

func (s *stubTopology) GetPump(_ context.Context, id uint64) (*model.Pump, error) {
	p, ok := s.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

type stubProducts struct {
	byStation map[uint64]map[string]*model.ProductCatalog
}

func (s *stubProducts) FindStationProductByName(_ context.Context, stationID uint64, name string) (*model.ProductCatalog, error) {
	c, ok := s.byStation[stationID][name]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (s *stubProducts) ListStationProductNames(_ context.Context, stationID uint64) ([]string, error) {
	out := make([]string, 0)
	for n := range s.byStation[stationID] {
		out = append(out, n)
	}
	return out, nil
}

type stubPrices struct{ byPair map[[2]uint64]decimal.Decimal }

func (s *stubPrices) ResolvePrice(_ context.Context, catalogID, stationID uint64) (decimal.Decimal, error) {
	p, ok := s.byPair[[2]uint64{catalogID, stationID}]
	if !ok {
		return decimal.Zero, pricing.ErrNotAvailable
	}
	return p, nil
}

// --- fixture ---

func u64(v uint64) *uint64 { return &v }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// The fixture models one OMC with two stations: Station A overrides diesel
// at 25.50, Station B falls back to the 25.00 default.
func newFixture() (*Redemption, *stubTokens) {
	tokens := newStubTokens(&model.FuelToken{
		ID:     1,
		Token:  "FT-AAAA",
		Status: model.TokenUnused,
		Amount: decimal.NewNullDecimal(dec("1000")),
	})
	attendants := &stubAttendants{byID: map[uint64]*model.User{
		7: {ID: 7, Role: model.RolePumpAttendant, StationID: u64(1)},
		8: {ID: 8, Role: model.RolePumpAttendant, StationID: u64(2)},
	}}
	stations := &stubStations{byID: map[uint64]*model.Station{
		1: {ID: 1, OMCID: 1, Name: "Station A"},
		2: {ID: 2, OMCID: 1, Name: "Station B"},
	}}
	topology := &stubTopology{byID: map[uint64]*model.Pump{
		10: {ID: 10, DispenserID: 5, ProductCatalogID: 3, PumpNumber: "PUMP-001A", StationID: 1},
		11: {ID: 11, DispenserID: 6, ProductCatalogID: 3, PumpNumber: "PUMP-002A", StationID: 2},
	}}
	diesel := &model.ProductCatalog{ID: 3, OMCID: 1, Name: "Diesel", DefaultPrice: dec("25.00")}
	products := &stubProducts{byStation: map[uint64]map[string]*model.ProductCatalog{
		1: {"Diesel": diesel},
		2: {"Diesel": diesel},
	}}
	prices := &stubPrices{byPair: map[[2]uint64]decimal.Decimal{
		{3, 1}: dec("25.50"),
		{3, 2}: dec("25.00"),
	}}
	svc := NewRedemption(tokens, attendants, stations, topology, products, prices, nil)
	return svc, tokens
}

// --- tests ---

func TestRedeemComputesLitersFromResolvedPrice(t *testing.T) {
	svc, tokens := newFixture()
	res, err := svc.Redeem(context.Background(), RedeemRequest{
		Token:       "FT-AAAA",
		AttendantID: 7,
		StationID:   u64(1),
		PumpID:      u64(10),
	})
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}
	// 1000 / 25.50 = 39.2156... rounded to 39.216 at three places.
	if got, want := res.Liters.String(), "39.216"; got != want {
		t.Fatalf("liters = %s, want %s", got, want)
	}
	if got, want := res.UnitPrice.String(), "25.5"; got != want {
		t.Fatalf("unit price = %s, want %s", got, want)
	}
	if res.CatalogID != 3 {
		t.Fatalf("catalog = %d, want pump's product 3", res.CatalogID)
	}
	upd := tokens.stamps["FT-AAAA"]
	if upd.PumpAttendantID != 7 || upd.StationID != 1 {
		t.Fatalf("stamped detail = %+v", upd)
	}
	if dispenser := upd.DispenserID; dispenser == nil || *dispenser != 5 {
		t.Fatalf("dispenser not inferred from pump: %+v", upd)
	}
	if tokens.byTok["FT-AAAA"].Status != model.TokenUsed {
		t.Fatal("token not flipped to USED")
	}
}

func TestRedeemSecondAttemptFails(t *testing.T) {
	svc, _ := newFixture()
	req := RedeemRequest{Token: "FT-AAAA", AttendantID: 7, StationID: u64(1), CatalogID: u64(3)}
	if _, err := svc.Redeem(context.Background(), req); err != nil {
		t.Fatalf("first redeem: %v", err)
	}
	_, err := svc.Redeem(context.Background(), req)
	if !errors.Is(err, ErrTokenNotFound) {
		t.Fatalf("second redeem err = %v, want ErrTokenNotFound", err)
	}
}

func TestRedeemAtMostOnceUnderRace(t *testing.T) {
	svc, _ := newFixture()
	const n = 32
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Redeem(context.Background(), RedeemRequest{
				Token: "FT-AAAA", AttendantID: 7, StationID: u64(1), CatalogID: u64(3),
			})
			if err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
				return
			}
			if !errors.Is(err, ErrTokenNotFound) && !errors.Is(err, ErrAlreadyRedeemed) {
				t.Errorf("unexpected race error: %v", err)
			}
		}()
	}
	wg.Wait()
	if wins != 1 {
		t.Fatalf("wins = %d, want exactly 1", wins)
	}
}

func TestRedeemPreconditions(t *testing.T) {
	cases := []struct {
		name string
		req  RedeemRequest
		want error
	}{
		{"unknown token", RedeemRequest{Token: "FT-NOPE", AttendantID: 7, StationID: u64(1)}, ErrTokenNotFound},
		{"attendant at wrong station", RedeemRequest{Token: "FT-AAAA", AttendantID: 8, StationID: u64(1)}, ErrAttendantNotFound},
		{"unknown attendant", RedeemRequest{Token: "FT-AAAA", AttendantID: 99, StationID: u64(1)}, ErrAttendantNotFound},
		{"unknown pump", RedeemRequest{Token: "FT-AAAA", AttendantID: 7, StationID: u64(1), PumpID: u64(404)}, ErrPumpNotFound},
		{"pump at other station", RedeemRequest{Token: "FT-AAAA", AttendantID: 7, StationID: u64(1), PumpID: u64(11)}, ErrPumpStationMismatch},
		{"pump on other dispenser", RedeemRequest{Token: "FT-AAAA", AttendantID: 7, StationID: u64(1), PumpID: u64(10), DispenserID: u64(6)}, ErrPumpDispenserMismatch},
		{"no product anywhere", RedeemRequest{Token: "FT-AAAA", AttendantID: 7, StationID: u64(1)}, ErrCatalogRequired},
		{"no price for pair", RedeemRequest{Token: "FT-AAAA", AttendantID: 7, StationID: u64(1), CatalogID: u64(42)}, ErrPriceNotAvailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, _ := newFixture()
			_, err := svc.Redeem(context.Background(), tc.req)
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestRedeemRequiresAnAmount(t *testing.T) {
	svc, tokens := newFixture()
	tokens.byTok["FT-EMPTY"] = &model.FuelToken{ID: 2, Token: "FT-EMPTY", Status: model.TokenUnused}
	_, err := svc.Redeem(context.Background(), RedeemRequest{
		Token: "FT-EMPTY", AttendantID: 7, StationID: u64(1), CatalogID: u64(3),
	})
	if !errors.Is(err, ErrAmountRequired) {
		t.Fatalf("err = %v, want ErrAmountRequired", err)
	}
	// Supplying the amount on the request unblocks the same sale.
	amt := dec("500")
	res, err := svc.Redeem(context.Background(), RedeemRequest{
		Token: "FT-EMPTY", AttendantID: 7, StationID: u64(1), CatalogID: u64(3), Amount: &amt,
	})
	if err != nil {
		t.Fatalf("redeem with amount: %v", err)
	}
	if got, want := res.Liters.String(), "19.608"; got != want {
		t.Fatalf("liters = %s, want %s", got, want)
	}
}

func TestRedeemUsesTokenStationWhenRequestOmitsIt(t *testing.T) {
	svc, tokens := newFixture()
	tokens.byTok["FT-AAAA"].StationID = u64(1)
	res, err := svc.Redeem(context.Background(), RedeemRequest{
		Token: "FT-AAAA", AttendantID: 7, CatalogID: u64(3),
	})
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if res.StationID != 1 {
		t.Fatalf("station = %d, want token's pre-bound 1", res.StationID)
	}
}

func TestRedeemLitersOnlyComputesAmount(t *testing.T) {
	svc, tokens := newFixture()
	tokens.byTok["FT-EMPTY"] = &model.FuelToken{ID: 2, Token: "FT-EMPTY", Status: model.TokenUnused}
	liters := dec("39.216")
	res, err := svc.Redeem(context.Background(), RedeemRequest{
		Token: "FT-EMPTY", AttendantID: 7, StationID: u64(1), CatalogID: u64(3), Liters: &liters,
	})
	if err != nil {
		t.Fatalf("liters-only redeem: %v", err)
	}
	// 39.216 * 25.50 = 1000.008, rounded to 1000.01 at two places.
	if got, want := res.Amount.String(), "1000.01"; got != want {
		t.Fatalf("amount = %s, want %s", got, want)
	}
	if got, want := res.Liters.String(), "39.216"; got != want {
		t.Fatalf("liters = %s, want entered %s", got, want)
	}
	if tokens.byTok["FT-EMPTY"].Status != model.TokenUsed {
		t.Fatal("token not flipped to USED")
	}
}

func TestRedeemEnteredLitersNeverBlock(t *testing.T) {
	svc, tokens := newFixture()
	// Far off the derived 39.216, still accepted and persisted as entered;
	// the disagreement only logs a warning.
	entered := dec("39.30")
	res, err := svc.Redeem(context.Background(), RedeemRequest{
		Token: "FT-AAAA", AttendantID: 7, StationID: u64(1), CatalogID: u64(3), Liters: &entered,
	})
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if got, want := res.Liters.String(), "39.3"; got != want {
		t.Fatalf("stored liters = %s, want entered %s", got, want)
	}
	if got, want := res.Amount.String(), "1000"; got != want {
		t.Fatalf("amount = %s, want token's %s", got, want)
	}
	if upd := tokens.stamps["FT-AAAA"]; !upd.Liters.Equal(entered) {
		t.Fatalf("stamped liters = %s, want entered %s", upd.Liters, entered)
	}
}

func TestCalculateLitersQuotesSixPlaces(t *testing.T) {
	svc, tokens := newFixture()
	tokens.byTok["FT-AAAA"].StationID = u64(1)
	q, err := svc.CalculateLiters(context.Background(), "FT-AAAA", 7, "Diesel")
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if got, want := q.Liters.String(), "39.215686"; got != want {
		t.Fatalf("quote liters = %s, want %s", got, want)
	}
	// Quoting writes nothing; the same call repeats identically.
	q2, err := svc.CalculateLiters(context.Background(), "FT-AAAA", 7, "Diesel")
	if err != nil {
		t.Fatalf("second quote: %v", err)
	}
	if !q2.Liters.Equal(q.Liters) {
		t.Fatalf("quote not idempotent: %s vs %s", q2.Liters, q.Liters)
	}
	if tokens.byTok["FT-AAAA"].Status != model.TokenUnused {
		t.Fatal("quote consumed the token")
	}
}

func TestCalculateLitersRequiresTokenAmount(t *testing.T) {
	svc, tokens := newFixture()
	tokens.byTok["FT-EMPTY"] = &model.FuelToken{ID: 2, Token: "FT-EMPTY", Status: model.TokenUnused}
	// The missing amount is reported even before the attendant is looked
	// up, so an unknown attendant sees the same answer.
	_, err := svc.CalculateLiters(context.Background(), "FT-EMPTY", 99, "Diesel")
	if !errors.Is(err, ErrTokenNoAmount) {
		t.Fatalf("err = %v, want ErrTokenNoAmount", err)
	}
}

func TestCalculateLitersUnknownProduct(t *testing.T) {
	svc, tokens := newFixture()
	tokens.byTok["FT-AAAA"].StationID = u64(1)
	q, err := svc.CalculateLiters(context.Background(), "FT-AAAA", 7, "Kerosene")
	if !errors.Is(err, ErrProductNotAtStation) {
		t.Fatalf("err = %v, want ErrProductNotAtStation", err)
	}
	if len(q.Available) != 1 || q.Available[0] != "Diesel" {
		t.Fatalf("available = %v, want [Diesel]", q.Available)
	}
}

func TestCalculateLitersFallsBackToAttendantStation(t *testing.T) {
	svc, _ := newFixture()
	// Token carries no station; attendant 8 works at Station B where the
	// catalog default 25.00 applies.
	q, err := svc.CalculateLiters(context.Background(), "FT-AAAA", 8, "Diesel")
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if got, want := q.Liters.String(), "40"; got != want {
		t.Fatalf("quote liters = %s, want %s", got, want)
	}
	if q.StationID != 2 {
		t.Fatalf("station = %d, want 2", q.StationID)
	}
}

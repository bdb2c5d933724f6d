package sales

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cruisedesk/sales-service/model"
	"github.com/cruisedesk/sales-service/service"
)

// Stub backends recording every call, so tests can assert exactly which
// requests the engine issued and in what order.

type stubCruise struct {
	sailings []model.Sailing
	listErr  error
}

func (s *stubCruise) ListSailings(_ context.Context, _ string, _ service.SailingFilter) ([]model.Sailing, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.sailings, nil
}

func (s *stubCruise) GetSailing(_ context.Context, _ string, sailingID string) (*model.Sailing, error) {
	for i := range s.sailings {
		if s.sailings[i].ID == sailingID {
			return &s.sailings[i], nil
		}
	}
	return nil, fmt.Errorf("sailing %s not found", sailingID)
}

type stubFleet struct {
	categories    []model.CabinCategory
	cabins        []model.Cabin
	categoriesErr error
	cabinsErr     error
}

func (s *stubFleet) ListCabinCategories(_ context.Context, _, _ string) ([]model.CabinCategory, error) {
	return s.categories, s.categoriesErr
}

func (s *stubFleet) ListCabins(_ context.Context, _, _ string) ([]model.Cabin, error) {
	return s.cabins, s.cabinsErr
}

type stubPricing struct {
	quote      model.Quote
	quoteErr   error
	requests   []service.QuoteRequest
	priceTypes []model.PriceType
	prices     []model.CategoryPrice
	pricesErr  error
}

func (s *stubPricing) CreateQuote(_ context.Context, _ string, req service.QuoteRequest) (*model.Quote, error) {
	s.requests = append(s.requests, req)
	if s.quoteErr != nil {
		return nil, s.quoteErr
	}
	q := s.quote
	return &q, nil
}

func (s *stubPricing) ListPriceTypes(_ context.Context, _ string) ([]model.PriceType, error) {
	return s.priceTypes, nil
}

func (s *stubPricing) ListSailingPrices(_ context.Context, _, _ string) ([]model.CategoryPrice, error) {
	return s.prices, s.pricesErr
}

type stubBooking struct {
	holdRequests   []service.HoldRequest
	failHoldAt     int // 0-based request index that fails; -1 never
	confirmedIDs   []string
	failConfirmAt  int // 0-based confirm index that fails; -1 never
	unavailable    []string
	unavailableErr error
}

func newStubBooking() *stubBooking {
	return &stubBooking{failHoldAt: -1, failConfirmAt: -1}
}

func (s *stubBooking) CreateHold(_ context.Context, _ string, req service.HoldRequest) (*model.Booking, error) {
	index := len(s.holdRequests)
	s.holdRequests = append(s.holdRequests, req)
	if s.failHoldAt >= 0 && index == s.failHoldAt {
		return nil, fmt.Errorf("cabin no longer available")
	}
	expires := time.Now().Add(time.Duration(req.HoldMinutes) * time.Minute)
	return &model.Booking{
		ID:            fmt.Sprintf("bk-%d", index+1),
		Status:        model.BookingStatusHeld,
		HoldExpiresAt: &expires,
		CustomerID:    req.CustomerID,
		SailingID:     req.SailingID,
		CabinID:       req.CabinID,
		CabinType:     req.CabinType,
		Guests:        req.Guests,
	}, nil
}

func (s *stubBooking) ConfirmBooking(_ context.Context, _, bookingID, _ string) (*model.Booking, error) {
	index := len(s.confirmedIDs)
	s.confirmedIDs = append(s.confirmedIDs, bookingID)
	if s.failConfirmAt >= 0 && index == s.failConfirmAt {
		return nil, fmt.Errorf("hold expired")
	}
	return &model.Booking{ID: bookingID, Status: model.BookingStatusConfirmed}, nil
}

func (s *stubBooking) ListUnavailableCabins(_ context.Context, _, _ string) ([]string, error) {
	if s.unavailableErr != nil {
		return nil, s.unavailableErr
	}
	return s.unavailable, nil
}

type stubCustomers struct {
	mu      sync.Mutex
	queries []string
	results []model.Customer
	delay   time.Duration
	err     error
}

func (s *stubCustomers) SearchCustomers(ctx context.Context, _, query string, _ int) ([]model.Customer, error) {
	s.mu.Lock()
	s.queries = append(s.queries, query)
	s.mu.Unlock()

	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.results, nil
}

func (s *stubCustomers) recorded() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.queries))
	copy(out, s.queries)
	return out
}

// testFixture wires an engine around the stubs with a session already in the
// selection phase on a small two-deck ship.
type testFixture struct {
	engine  *Engine
	session *model.SalesSession
	cruise  *stubCruise
	fleet   *stubFleet
	pricing *stubPricing
	booking *stubBooking
}

func newTestFixture() *testFixture {
	cruise := &stubCruise{sailings: []model.Sailing{{
		ID:             "sl-1",
		Code:           "MED-2026-05",
		ShipID:         "ship-1",
		StartDate:      "2026-05-10",
		EndDate:        "2026-05-17",
		EmbarkPortCode: "ITCVV",
		DebarkPortCode: "ITCVV",
		Status:         "open",
	}}}

	fleet := &stubFleet{
		categories: []model.CabinCategory{
			{ID: "cat-in", ShipID: "ship-1", Code: "IN2", Name: "Inside Classic", View: "inside", CabinClass: "classic", MaxOccupancy: 2},
			{ID: "cat-bc", ShipID: "ship-1", Code: "BC3", Name: "Balcony Deluxe", View: "balcony", CabinClass: "deluxe", MaxOccupancy: 3},
		},
		cabins: []model.Cabin{
			{ID: "cab-1", ShipID: "ship-1", CategoryID: "cat-in", CabinNo: "7002", Deck: 7, Status: "active"},
			{ID: "cab-2", ShipID: "ship-1", CategoryID: "cat-in", CabinNo: "7010", Deck: 7, Status: "active"},
			{ID: "cab-3", ShipID: "ship-1", CategoryID: "cat-bc", CabinNo: "9004", Deck: 9, Status: "active"},
			{ID: "cab-4", ShipID: "ship-1", CategoryID: "cat-bc", CabinNo: "9006", Deck: 9, Status: "active"},
		},
	}

	pricing := &stubPricing{priceTypes: []model.PriceType{
		{Code: "regular", Name: "Regular", Active: true, Order: 1000},
	}, quote: model.Quote{
		Currency:  "USD",
		Subtotal:  200000,
		Discounts: 0,
		TaxesFees: 16000,
		Total:     216000,
		Lines: []model.QuoteLine{
			{Code: "fare.adult", Description: "Base fare (adult) x2", Amount: 200000},
			{Code: "taxes_fees", Description: "Estimated taxes & fees (8%)", Amount: 16000},
		},
	}}

	booking := newStubBooking()

	engine := NewEngine(Options{
		Cruise:      cruise,
		Fleet:       fleet,
		Pricing:     pricing,
		Booking:     booking,
		HoldMinutes: 30,
	})

	session := engine.NewSession("co-1", "op-1")
	if err := engine.ChooseSailing(context.Background(), session, "sl-1"); err != nil {
		panic(err)
	}

	return &testFixture{
		engine:  engine,
		session: session,
		cruise:  cruise,
		fleet:   fleet,
		pricing: pricing,
		booking: booking,
	}
}

// stageCabin quotes and carts one cabin, reproducing the operator's
// pick → quote → add sequence.
func (f *testFixture) stageCabin(cabinID string) model.CartItem {
	if err := f.engine.SelectCabin(f.session, cabinID); err != nil {
		panic(err)
	}
	if _, err := f.engine.RequestQuote(context.Background(), f.session); err != nil {
		panic(err)
	}
	item, err := f.engine.AddToCart(f.session)
	if err != nil {
		panic(err)
	}
	if item == nil {
		panic("expected cart item")
	}
	return *item
}

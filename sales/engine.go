package sales

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/cruisedesk/sales-service/cache"
	"github.com/cruisedesk/sales-service/model"
	"github.com/cruisedesk/sales-service/service"
	"github.com/google/uuid"
)

var (
	ErrWrongPhase       = errors.New("operation not allowed in current phase")
	ErrNoSailingContext = errors.New("no sailing selected")
	ErrCabinNotFound    = errors.New("cabin not found on this ship")
	ErrCabinUnavailable = errors.New("cabin is not selectable")
	ErrNoQuote          = errors.New("a quote is required before this step")
	ErrCurrencyMismatch = errors.New("quote currency differs from cart currency")
	ErrEmptyCustomer    = errors.New("a customer is required for checkout")
)

// Engine drives the sales state machine against the platform services. It is
// stateless: every method operates on the session passed in.
type Engine struct {
	cruise    service.CruiseService
	fleet     service.FleetService
	pricing   service.PricingService
	booking   service.BookingService
	customers service.CustomerService

	availability    cache.AvailabilityCache
	availabilityTTL time.Duration
	holdMinutes     int
}

// Options configures an Engine.
type Options struct {
	Cruise    service.CruiseService
	Fleet     service.FleetService
	Pricing   service.PricingService
	Booking   service.BookingService
	Customers service.CustomerService

	// Availability may be nil; unavailable-cabin sets are then fetched on
	// every sailing selection.
	Availability    cache.AvailabilityCache
	AvailabilityTTL time.Duration

	// HoldMinutes defaults to 30.
	HoldMinutes int
}

func NewEngine(opts Options) *Engine {
	holdMinutes := opts.HoldMinutes
	if holdMinutes <= 0 {
		holdMinutes = 30
	}
	return &Engine{
		cruise:          opts.Cruise,
		fleet:           opts.Fleet,
		pricing:         opts.Pricing,
		booking:         opts.Booking,
		customers:       opts.Customers,
		availability:    opts.Availability,
		availabilityTTL: opts.AvailabilityTTL,
		holdMinutes:     holdMinutes,
	}
}

// NewSession opens a fresh sales session in the search phase.
func (e *Engine) NewSession(companyID, operatorID string) *model.SalesSession {
	now := time.Now().UTC()
	return &model.SalesSession{
		ID:         uuid.New().String(),
		CompanyID:  companyID,
		OperatorID: operatorID,
		Phase:      model.PhaseSearch,
		Cart:       []model.CartItem{},
		Holds:      []model.Booking{},
		Confirmed:  []model.Booking{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// SearchSailings resolves candidate sailings from destination/date filters.
func (e *Engine) SearchSailings(ctx context.Context, session *model.SalesSession, filter service.SailingFilter) ([]model.Sailing, error) {
	return e.cruise.ListSailings(ctx, session.CompanyID, filter)
}

// ChooseSailing loads the ship layout for the chosen sailing: cabin
// categories, cabins, the unavailable-cabin set, and sailing category prices.
// The four reads are independent; each failure is recorded in the returned
// context's LoadErrors without blocking the others. The session moves to the
// selection phase with a clean selection; the cart is kept. Once checkout has
// started the sailing is locked in; sessions past selection must Reset first.
func (e *Engine) ChooseSailing(ctx context.Context, session *model.SalesSession, sailingID string) error {
	if session.Phase != model.PhaseSearch && session.Phase != model.PhaseSelection {
		return ErrWrongPhase
	}

	sailing, err := e.cruise.GetSailing(ctx, session.CompanyID, sailingID)
	if err != nil {
		return fmt.Errorf("failed to load sailing: %w", err)
	}
	if sailing.Status == "cancelled" {
		return fmt.Errorf("sailing %s is cancelled", sailing.Code)
	}

	sc := &model.SailingContext{Sailing: *sailing}

	if categories, err := e.fleet.ListCabinCategories(ctx, session.CompanyID, sailing.ShipID); err != nil {
		sc.LoadErrors = append(sc.LoadErrors, "cabin categories: "+err.Error())
	} else {
		sc.Categories = categories
	}

	if cabins, err := e.fleet.ListCabins(ctx, session.CompanyID, sailing.ShipID); err != nil {
		sc.LoadErrors = append(sc.LoadErrors, "cabins: "+err.Error())
	} else {
		sc.Cabins = cabins
	}

	if unavailable, err := e.loadUnavailable(ctx, session.CompanyID, sailing.ID); err != nil {
		sc.LoadErrors = append(sc.LoadErrors, "availability: "+err.Error())
	} else {
		sc.UnavailableIDs = unavailable
	}

	if prices, err := e.pricing.ListSailingPrices(ctx, session.CompanyID, sailing.ID); err != nil {
		sc.LoadErrors = append(sc.LoadErrors, "category prices: "+err.Error())
	} else {
		sc.CategoryPrices = prices
	}

	session.Context = sc
	session.Phase = model.PhaseSelection
	session.Selection = model.Selection{Guests: model.GuestCounts{Adult: 1}}
	session.UpdatedAt = time.Now().UTC()
	return nil
}

func (e *Engine) loadUnavailable(ctx context.Context, companyID, sailingID string) ([]string, error) {
	if e.availability != nil {
		if cached, ok, err := e.availability.GetUnavailableCabins(ctx, sailingID); err == nil && ok {
			return cached, nil
		}
	}

	unavailable, err := e.booking.ListUnavailableCabins(ctx, companyID, sailingID)
	if err != nil {
		return nil, err
	}

	if e.availability != nil {
		// Best effort; a failed cache write must not fail the load.
		_ = e.availability.SetUnavailableCabins(ctx, sailingID, unavailable, e.availabilityTTL)
	}
	return unavailable, nil
}

// SelectCabin picks a cabin for the next cart item. The cabin must exist on
// the loaded ship, must not be in the backend's unavailable set, and must not
// already be staged in the cart. Any previously fetched quote is discarded.
func (e *Engine) SelectCabin(session *model.SalesSession, cabinID string) error {
	if session.Phase != model.PhaseSelection {
		return ErrWrongPhase
	}
	if session.Context == nil {
		return ErrNoSailingContext
	}

	var cabin *model.Cabin
	for i := range session.Context.Cabins {
		if session.Context.Cabins[i].ID == cabinID {
			cabin = &session.Context.Cabins[i]
			break
		}
	}
	if cabin == nil {
		return ErrCabinNotFound
	}

	if ok, reason := SelectableReason(*cabin, UnavailableSet(session.Context), session); !ok {
		return fmt.Errorf("%w: cabin %s is %s", ErrCabinUnavailable, cabin.CabinNo, reason)
	}

	session.Selection.CabinID = cabin.ID
	session.Selection.CabinNo = cabin.CabinNo
	session.Selection.CabinCategoryCode = ""
	session.Selection.CabinType = ""
	if category := categoryByID(session.Context, cabin.CategoryID); category != nil {
		session.Selection.CabinCategoryCode = category.Code
		session.Selection.CabinType = CabinTypeFor(*category)
	}
	session.Selection.Quote = nil // quotes are never reused across a selection change
	session.UpdatedAt = time.Now().UTC()
	return nil
}

// SetGuests changes the guest mix and discards the current quote.
func (e *Engine) SetGuests(session *model.SalesSession, counts model.GuestCounts) error {
	if session.Phase != model.PhaseSelection {
		return ErrWrongPhase
	}
	if err := ValidateGuests(counts); err != nil {
		return err
	}
	session.Selection.Guests = counts
	session.Selection.Quote = nil
	session.UpdatedAt = time.Now().UTC()
	return nil
}

// ListPriceTypes returns the tenant's active price types in display order,
// for the rate selector.
func (e *Engine) ListPriceTypes(ctx context.Context, session *model.SalesSession) ([]model.PriceType, error) {
	types, err := e.pricing.ListPriceTypes(ctx, session.CompanyID)
	if err != nil {
		return nil, err
	}

	active := make([]model.PriceType, 0, len(types))
	for _, t := range types {
		if t.Active {
			active = append(active, t)
		}
	}
	sort.SliceStable(active, func(i, j int) bool { return active[i].Order < active[j].Order })
	return active, nil
}

// SetPriceType changes the price/rate type and discards the current quote.
func (e *Engine) SetPriceType(session *model.SalesSession, priceType string) error {
	if session.Phase != model.PhaseSelection {
		return ErrWrongPhase
	}
	session.Selection.PriceType = strings.TrimSpace(priceType)
	session.Selection.Quote = nil
	session.UpdatedAt = time.Now().UTC()
	return nil
}

// SetCoupon applies (or clears) a coupon code and discards the current quote.
func (e *Engine) SetCoupon(session *model.SalesSession, code string) error {
	if session.Phase != model.PhaseSelection {
		return ErrWrongPhase
	}
	session.Selection.CouponCode = strings.TrimSpace(code)
	session.Selection.Quote = nil
	session.UpdatedAt = time.Now().UTC()
	return nil
}

// SetLoyaltyTier sets the buyer's loyalty tier for pricing and discards the
// current quote.
func (e *Engine) SetLoyaltyTier(session *model.SalesSession, tier string) error {
	if session.Phase != model.PhaseSelection {
		return ErrWrongPhase
	}
	session.Selection.LoyaltyTier = strings.TrimSpace(tier)
	session.Selection.Quote = nil
	session.UpdatedAt = time.Now().UTC()
	return nil
}

// RequestQuote asks the pricing service to price the current selection. On
// failure nothing is mutated; on success the quote is held transiently in
// the selection until the next selection change or AddToCart.
func (e *Engine) RequestQuote(ctx context.Context, session *model.SalesSession) (*model.Quote, error) {
	if session.Phase != model.PhaseSelection {
		return nil, ErrWrongPhase
	}
	if session.Context == nil {
		return nil, ErrNoSailingContext
	}
	if session.Selection.CabinID == "" {
		return nil, ErrCabinUnavailable
	}
	if err := ValidateGuests(session.Selection.Guests); err != nil {
		return nil, err
	}

	req := service.QuoteRequest{
		SailingID:         session.Context.Sailing.ID,
		SailingDate:       session.Context.Sailing.StartDate,
		CabinType:         session.Selection.CabinType,
		CabinCategoryCode: session.Selection.CabinCategoryCode,
		PriceType:         session.Selection.PriceType,
		Guests:            ExpandGuests(session.Selection.Guests),
		CouponCode:        session.Selection.CouponCode,
		LoyaltyTier:       session.Selection.LoyaltyTier,
	}

	quote, err := e.pricing.CreateQuote(ctx, session.CompanyID, req)
	if err != nil {
		return nil, err
	}

	session.Selection.Quote = quote
	session.UpdatedAt = time.Now().UTC()
	return quote, nil
}

// AddToCart stages the current quoted selection as a cart item. Without a
// current quote and a selected cabin it is a silent no-op, returning
// (nil, nil). A quote in a different currency than the cart's is refused so
// the cart total stays meaningful. On success the active selection (cabin
// and quote) is cleared so the operator starts the next pick clean.
func (e *Engine) AddToCart(session *model.SalesSession) (*model.CartItem, error) {
	if session.Phase != model.PhaseSelection || session.Context == nil {
		return nil, nil
	}
	if session.Selection.CabinID == "" || session.Selection.Quote == nil {
		return nil, nil
	}

	if _, currency := session.CartTotal(); currency != "" && currency != session.Selection.Quote.Currency {
		return nil, fmt.Errorf("%w: cart is %s, quote is %s",
			ErrCurrencyMismatch, currency, session.Selection.Quote.Currency)
	}
	if session.CabinInCart(session.Selection.CabinID) {
		return nil, fmt.Errorf("%w: cabin %s is already in the cart", ErrCabinUnavailable, session.Selection.CabinNo)
	}

	item := model.CartItem{
		ID:                uuid.New().String(),
		SailingID:         session.Context.Sailing.ID,
		SailingCode:       session.Context.Sailing.Code,
		SailingDate:       session.Context.Sailing.StartDate,
		CabinID:           session.Selection.CabinID,
		CabinNo:           session.Selection.CabinNo,
		CabinCategoryCode: session.Selection.CabinCategoryCode,
		CabinType:         session.Selection.CabinType,
		PriceType:         session.Selection.PriceType,
		Guests:            ExpandGuests(session.Selection.Guests),
		Quote:             *session.Selection.Quote,
	}
	session.Cart = append(session.Cart, item)

	session.Selection.CabinID = ""
	session.Selection.CabinNo = ""
	session.Selection.CabinCategoryCode = ""
	session.Selection.CabinType = ""
	session.Selection.Quote = nil
	session.UpdatedAt = time.Now().UTC()
	return &session.Cart[len(session.Cart)-1], nil
}

// RemoveFromCart drops a staged item by its temp id. Nothing has been held
// yet, so there is no backend side effect.
func (e *Engine) RemoveFromCart(session *model.SalesSession, itemID string) bool {
	for i, item := range session.Cart {
		if item.ID == itemID {
			session.Cart = append(session.Cart[:i], session.Cart[i+1:]...)
			session.UpdatedAt = time.Now().UTC()
			return true
		}
	}
	return false
}

// GoToCheckout moves a session with a non-empty cart to the checkout phase.
func (e *Engine) GoToCheckout(session *model.SalesSession) error {
	if session.Phase != model.PhaseSelection && session.Phase != model.PhaseCheckout {
		return ErrWrongPhase
	}
	if len(session.Cart) == 0 {
		return fmt.Errorf("cart is empty")
	}
	session.Phase = model.PhaseCheckout
	session.UpdatedAt = time.Now().UTC()
	return nil
}

// Reset returns the session to the search phase. In-progress selection state
// is discarded; the cart survives unless the flow had completed. Server-side
// holds are never released from here; they expire on their own TTL.
func (e *Engine) Reset(session *model.SalesSession) {
	if session.Phase == model.PhaseConfirmed {
		session.Cart = []model.CartItem{}
		session.Confirmed = []model.Booking{}
	}
	session.Phase = model.PhaseSearch
	session.Context = nil
	session.Selection = model.Selection{}
	session.Holds = []model.Booking{}
	session.CustomerID = ""
	session.UpdatedAt = time.Now().UTC()
}

// CabinTypeFor maps a cabin category onto the pricing cabin type
// (inside|oceanview|balcony|suite) using its class and view.
func CabinTypeFor(category model.CabinCategory) string {
	class := strings.ToLower(category.CabinClass)
	view := strings.ToLower(category.View)

	if class == "suite" || strings.Contains(view, "suite") {
		return "suite"
	}
	if strings.Contains(view, "balcony") || strings.Contains(view, "panoramic") {
		return "balcony"
	}
	if strings.Contains(view, "oceanview") || strings.Contains(view, "ocean") {
		return "oceanview"
	}
	return "inside"
}

func categoryByID(sc *model.SailingContext, categoryID string) *model.CabinCategory {
	if categoryID == "" {
		return nil
	}
	for i := range sc.Categories {
		if sc.Categories[i].ID == categoryID {
			return &sc.Categories[i]
		}
	}
	return nil
}

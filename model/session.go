package model

import "time"

// Phase is the current step of a sales session's state machine.
type Phase string

const (
	PhaseSearch         Phase = "search"
	PhaseSelection      Phase = "selection"
	PhaseCheckout       Phase = "checkout"
	PhaseHoldsPending   Phase = "holds_pending"
	PhasePayment        Phase = "payment"
	PhaseConfirmPending Phase = "confirm_pending"
	PhaseConfirmed      Phase = "confirmed"
)

// SailingContext is the ship layout loaded when a sailing is chosen: cabin
// categories, cabins, the set of cabin ids currently unavailable for the
// sailing, and sailing-specific category prices. The four loads are
// independent; LoadErrors records the ones that failed without blocking the
// others.
type SailingContext struct {
	Sailing        Sailing         `json:"sailing"`
	Categories     []CabinCategory `json:"categories"`
	Cabins         []Cabin         `json:"cabins"`
	UnavailableIDs []string        `json:"unavailable_ids"`
	CategoryPrices []CategoryPrice `json:"category_prices"`
	LoadErrors     []string        `json:"load_errors,omitempty"`
}

// Selection is the operator's in-progress pick: a cabin, a guest mix, and a
// price type, plus the transient quote for that exact combination. The quote
// is cleared on any change to the other fields.
type Selection struct {
	CabinID           string      `json:"cabin_id,omitempty"`
	CabinNo           string      `json:"cabin_no,omitempty"`
	CabinCategoryCode string      `json:"cabin_category_code,omitempty"`
	CabinType         string      `json:"cabin_type,omitempty"` // inside|oceanview|balcony|suite
	PriceType         string      `json:"price_type,omitempty"`
	CouponCode        string      `json:"coupon_code,omitempty"`
	LoyaltyTier       string      `json:"loyalty_tier,omitempty"`
	Guests            GuestCounts `json:"guests"`
	Quote             *Quote      `json:"quote,omitempty"`
}

// CartItem is a quoted selection staged in the cart, prior to any backend
// reservation. Everything is snapshot at the moment of adding.
type CartItem struct {
	ID                string   `json:"id"` // locally generated temp id
	SailingID         string   `json:"sailing_id"`
	SailingCode       string   `json:"sailing_code"`
	SailingDate       string   `json:"sailing_date"`
	CabinID           string   `json:"cabin_id"`
	CabinNo           string   `json:"cabin_no"`
	CabinCategoryCode string   `json:"cabin_category_code"`
	CabinType         string   `json:"cabin_type"`
	PriceType         string   `json:"price_type"`
	Guests            []Guest  `json:"guests"`
	Quote             Quote    `json:"quote"`
}

// SalesSession is the whole state of one operator's point-of-sale flow.
type SalesSession struct {
	ID         string          `json:"id"`
	CompanyID  string          `json:"company_id,omitempty"`
	OperatorID string          `json:"operator_id,omitempty"`
	Phase      Phase           `json:"phase"`
	Context    *SailingContext `json:"context,omitempty"`
	Selection  Selection       `json:"selection"`
	Cart       []CartItem      `json:"cart"`
	CustomerID string          `json:"customer_id,omitempty"`
	Holds      []Booking       `json:"holds"`
	Confirmed  []Booking       `json:"confirmed"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// CabinInCart reports whether any cart item references the cabin id.
func (s *SalesSession) CabinInCart(cabinID string) bool {
	for _, item := range s.Cart {
		if item.CabinID == cabinID {
			return true
		}
	}
	return false
}

// CartTotal sums the quote totals of all cart items. The cart is kept
// single-currency by AddToCart, so the sum is meaningful; currency is empty
// for an empty cart.
func (s *SalesSession) CartTotal() (int64, string) {
	var total int64
	currency := ""
	for _, item := range s.Cart {
		total += item.Quote.Total
		if currency == "" {
			currency = item.Quote.Currency
		}
	}
	return total, currency
}

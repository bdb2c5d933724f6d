package model

import "time"

// ============================================================================
// API DATA TRANSFER OBJECTS (External - JSON tags for HTTP)
// ============================================================================

// CreateSessionRequest opens a new sales session for an operator.
type CreateSessionRequest struct {
	CompanyID string `json:"company_id"`
}

// ChooseSailingRequest selects the sailing to sell on.
type ChooseSailingRequest struct {
	SailingID string `json:"sailing_id" binding:"required"`
}

// UpdateSelectionRequest changes the in-progress pick. Nil fields are left
// untouched; any change clears the current quote.
type UpdateSelectionRequest struct {
	CabinID     *string      `json:"cabin_id,omitempty"`
	PriceType   *string      `json:"price_type,omitempty"`
	CouponCode  *string      `json:"coupon_code,omitempty"`
	LoyaltyTier *string      `json:"loyalty_tier,omitempty"`
	Guests      *GuestCounts `json:"guests,omitempty"`
}

// QuoteResponse wraps the quote for the current selection.
type QuoteResponse struct {
	Quote Quote `json:"quote"`
}

// CartResponse is the cart as rendered by the dashboard.
type CartResponse struct {
	Items    []CartItem `json:"items"`
	Total    int64      `json:"total"`
	Currency string     `json:"currency"`
}

// CheckoutRequest attaches a customer and converts the cart into holds.
type CheckoutRequest struct {
	CustomerID string `json:"customer_id" binding:"required"`
}

// CheckoutResponse reports the outcome of the hold batch. On a partial
// failure Held lists what was reserved before the abort and FailedItemID
// names the cart item whose hold request failed.
type CheckoutResponse struct {
	Phase        Phase     `json:"phase"`
	Held         []Booking `json:"held"`
	FailedItemID string    `json:"failed_item_id,omitempty"`
	Error        string    `json:"error,omitempty"`
}

// PaymentRequest confirms every held booking. Token defaults to the demo
// payment token when empty.
type PaymentRequest struct {
	PaymentToken string `json:"payment_token"`
}

// PaymentResponse reports the outcome of the confirm batch.
type PaymentResponse struct {
	Phase           Phase     `json:"phase"`
	Confirmed       []Booking `json:"confirmed"`
	FailedBookingID string    `json:"failed_booking_id,omitempty"`
	Error           string    `json:"error,omitempty"`
}

// DeckCabinsResponse lists one deck's cabins in display order along with
// whether each can currently be picked.
type DeckCabinsResponse struct {
	Deck   int         `json:"deck"`
	Cabins []DeckCabin `json:"cabins"`
}

// DeckCabin is a cabin plus its selectability on the chosen sailing.
type DeckCabin struct {
	Cabin      Cabin  `json:"cabin"`
	Selectable bool   `json:"selectable"`
	Reason     string `json:"reason,omitempty"` // unavailable|in_cart
}

// SessionResponse is the full session snapshot returned to the dashboard.
type SessionResponse struct {
	Session *SalesSession `json:"session"`
	Cart    CartResponse  `json:"cart"`
	Decks   []int         `json:"decks,omitempty"`
}

// CustomerSearchResponse lists directory matches for a query.
type CustomerSearchResponse struct {
	Customers []Customer `json:"customers"`
	Query     string     `json:"query"`
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status    string    `json:"status"`
	Service   string    `json:"service"`
	Timestamp time.Time `json:"timestamp"`
}

// ErrorResponse represents error response structure.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

package model

import "time"

// ============================================================================
// REFERENCE DATA (read-only, fetched from the platform services)
// ============================================================================

// Sailing is a scheduled cruise departure. The sales flow never mutates it.
type Sailing struct {
	ID             string `json:"id"`
	Code           string `json:"code"`
	ShipID         string `json:"ship_id"`
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
	EmbarkPortCode string `json:"embark_port_code"`
	DebarkPortCode string `json:"debark_port_code"`
	Status         string `json:"status"` // planned|open|closed|cancelled
}

// CabinCategory classifies cabins for pricing and cabin-type mapping.
type CabinCategory struct {
	ID           string `json:"id"`
	ShipID       string `json:"ship_id"`
	Code         string `json:"code"`
	Name         string `json:"name"`
	View         string `json:"view"`        // inside, oceanview_full, balcony, ...
	CabinClass   string `json:"cabin_class"` // classic|deluxe|suite|...
	MaxOccupancy int    `json:"max_occupancy"`
}

// Cabin is a physical cabin on a ship.
type Cabin struct {
	ID         string `json:"id"`
	ShipID     string `json:"ship_id"`
	CategoryID string `json:"category_id,omitempty"`
	CabinNo    string `json:"cabin_no"`
	Deck       int    `json:"deck"`
	Status     string `json:"status"` // active|inactive|maintenance
}

// CategoryPrice is one cell of a sailing's price table: the per-person price
// for a cabin category under a named price type.
type CategoryPrice struct {
	CabinCategoryCode string `json:"cabin_category_code"`
	PriceType         string `json:"price_type"`
	Currency          string `json:"currency"`
	MinGuests         int    `json:"min_guests"`
	PricePerPerson    int64  `json:"price_per_person"` // minor units
}

// PriceType is a named pricing plan (e.g. "regular", "promo") applied on top
// of a cabin category's base price.
type PriceType struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
	Order  int    `json:"order"`
}

// Customer is the directory record used to attach a buyer at checkout.
type Customer struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	LoyaltyTier string `json:"loyalty_tier,omitempty"`
}

// ============================================================================
// GUESTS
// ============================================================================

// Guest is a single passenger entry in a quote request.
type Guest struct {
	Paxtype string `json:"paxtype"` // adult|child|infant
}

// GuestCounts is the count-by-type representation used by hold requests.
type GuestCounts struct {
	Adult  int `json:"adult"`
	Child  int `json:"child"`
	Infant int `json:"infant"`
}

// Total returns the number of passengers.
func (g GuestCounts) Total() int {
	return g.Adult + g.Child + g.Infant
}

// ============================================================================
// QUOTES
// ============================================================================

// QuoteLine is one itemized entry of a quote. Amounts are in minor units
// (cents); discount lines carry negative amounts.
type QuoteLine struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	Amount      int64  `json:"amount"`
}

// Quote is a point-in-time price estimate. It is not a reservation and must
// be discarded whenever the cabin, guest mix, or price type changes.
type Quote struct {
	Currency  string      `json:"currency"`
	Subtotal  int64       `json:"subtotal"`
	Discounts int64       `json:"discounts"`
	TaxesFees int64       `json:"taxes_fees"`
	Total     int64       `json:"total"`
	Lines     []QuoteLine `json:"lines"`
}

// ============================================================================
// BOOKINGS
// ============================================================================

// Booking is the backend booking record. A hold is a booking in "held" state
// with an expiry; confirmation transitions it to "confirmed".
type Booking struct {
	ID            string      `json:"id"`
	Status        string      `json:"status"` // held|confirmed|cancelled
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
	HoldExpiresAt *time.Time  `json:"hold_expires_at,omitempty"`
	CustomerID    string      `json:"customer_id,omitempty"`
	SailingID     string      `json:"sailing_id"`
	CabinID       string      `json:"cabin_id,omitempty"`
	CabinType     string      `json:"cabin_type"`
	Guests        GuestCounts `json:"guests"`
	Quote         Quote       `json:"quote"`
}

const (
	BookingStatusHeld      = "held"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

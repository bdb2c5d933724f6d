package service

import (
	"context"

	"github.com/cruisedesk/sales-service/model"
)

// SailingFilter narrows the sailing search. Zero values mean "any".
type SailingFilter struct {
	Destination string // matched against embark/debark port codes
	Date        string // ISO date; sailings departing on or after
	Status      string
}

// CruiseService talks to the cruise service (sailings, itineraries).
type CruiseService interface {
	ListSailings(ctx context.Context, companyID string, filter SailingFilter) ([]model.Sailing, error)
	GetSailing(ctx context.Context, companyID, sailingID string) (*model.Sailing, error)
}

// FleetService talks to the ship service (ships, cabin categories, cabins).
type FleetService interface {
	ListCabinCategories(ctx context.Context, companyID, shipID string) ([]model.CabinCategory, error)
	ListCabins(ctx context.Context, companyID, shipID string) ([]model.Cabin, error)
}

// QuoteRequest is the pricing service's quote contract. Guests is the flat
// adult-then-child-then-infant list.
type QuoteRequest struct {
	SailingID         string        `json:"sailing_id"`
	SailingDate       string        `json:"sailing_date,omitempty"`
	CabinType         string        `json:"cabin_type"`
	CabinCategoryCode string        `json:"cabin_category_code,omitempty"`
	PriceType         string        `json:"price_type,omitempty"`
	Guests            []model.Guest `json:"guests"`
	CouponCode        string        `json:"coupon_code,omitempty"`
	LoyaltyTier       string        `json:"loyalty_tier,omitempty"`
}

// PricingService talks to the pricing service.
type PricingService interface {
	CreateQuote(ctx context.Context, companyID string, req QuoteRequest) (*model.Quote, error)
	ListPriceTypes(ctx context.Context, companyID string) ([]model.PriceType, error)
	ListSailingPrices(ctx context.Context, companyID, sailingID string) ([]model.CategoryPrice, error)
}

// HoldRequest is the booking service's hold contract. Guests is the
// count-by-type mapping derived from the same ordered list used for quoting.
type HoldRequest struct {
	CustomerID        string            `json:"customer_id"`
	SailingID         string            `json:"sailing_id"`
	SailingDate       string            `json:"sailing_date,omitempty"`
	CabinType         string            `json:"cabin_type"`
	CabinCategoryCode string            `json:"cabin_category_code,omitempty"`
	CabinID           string            `json:"cabin_id,omitempty"`
	PriceType         string            `json:"price_type,omitempty"`
	Guests            model.GuestCounts `json:"guests"`
	HoldMinutes       int               `json:"hold_minutes"`
}

// BookingService talks to the booking service (holds, confirmation,
// per-sailing availability).
type BookingService interface {
	CreateHold(ctx context.Context, companyID string, req HoldRequest) (*model.Booking, error)
	ConfirmBooking(ctx context.Context, companyID, bookingID, paymentToken string) (*model.Booking, error)
	ListUnavailableCabins(ctx context.Context, companyID, sailingID string) ([]string, error)
}

// CustomerService talks to the customer directory.
type CustomerService interface {
	SearchCustomers(ctx context.Context, companyID, query string, limit int) ([]model.Customer, error)
}

package model

import (
	"encoding/json"
	"time"
)

// ============================================================================
// KAFKA MESSAGE STRUCTURES
// ============================================================================

// Event is the platform event envelope: {type, time, data}.
type Event struct {
	Type string          `json:"type"`
	Time time.Time       `json:"time"`
	Data json.RawMessage `json:"data"`
}

const (
	EventCheckoutCompleted = "sales.checkout.completed"
	EventBookingConfirmed  = "sales.booking.confirmed"

	// Platform booking events consumed by the availability worker.
	EventPlatformHeld      = "booking.held"
	EventPlatformConfirmed = "booking.confirmed"
	EventPlatformCancelled = "booking.cancelled"
)

// PlatformBookingData is the payload of the booking.* events emitted by the
// platform booking service whenever cabin inventory changes hands.
type PlatformBookingData struct {
	BookingID string `json:"booking_id"`
	SailingID string `json:"sailing_id"`
	CabinID   string `json:"cabin_id,omitempty"`
	Status    string `json:"status,omitempty"`
}

// CheckoutCompletedData is the payload of a sales.checkout.completed event.
type CheckoutCompletedData struct {
	SessionID  string   `json:"session_id"`
	CustomerID string   `json:"customer_id"`
	SailingID  string   `json:"sailing_id"`
	BookingIDs []string `json:"booking_ids"`
	Total      int64    `json:"total"`
	Currency   string   `json:"currency"`
}

// BookingConfirmedData is the payload of a sales.booking.confirmed event.
type BookingConfirmedData struct {
	SessionID  string `json:"session_id"`
	BookingID  string `json:"booking_id"`
	CustomerID string `json:"customer_id"`
	SailingID  string `json:"sailing_id"`
	Total      int64  `json:"total"`
	Currency   string `json:"currency"`
}

// Package sales implements the point-of-sale orchestration flow: sailing
// selection, quoting, the cart, and the hold/confirm batches. It holds no
// state of its own; every operation works on a model.SalesSession loaded by
// the caller.
package sales

import (
	"fmt"

	"github.com/cruisedesk/sales-service/model"
)

// ExpandGuests turns counters into the flat guest list used by quote
// requests: all adults, then children, then infants. The ordering matters
// only in that CountGuests must reproduce the original counters exactly, so
// the list and count-by-type representations never drift.
func ExpandGuests(counts model.GuestCounts) []model.Guest {
	guests := make([]model.Guest, 0, counts.Total())
	for i := 0; i < counts.Adult; i++ {
		guests = append(guests, model.Guest{Paxtype: "adult"})
	}
	for i := 0; i < counts.Child; i++ {
		guests = append(guests, model.Guest{Paxtype: "child"})
	}
	for i := 0; i < counts.Infant; i++ {
		guests = append(guests, model.Guest{Paxtype: "infant"})
	}
	return guests
}

// CountGuests derives the count-by-type mapping used by hold requests from
// an expanded guest list.
func CountGuests(guests []model.Guest) model.GuestCounts {
	var counts model.GuestCounts
	for _, g := range guests {
		switch g.Paxtype {
		case "adult":
			counts.Adult++
		case "child":
			counts.Child++
		case "infant":
			counts.Infant++
		}
	}
	return counts
}

// ValidateGuests rejects negative counters and empty parties.
func ValidateGuests(counts model.GuestCounts) error {
	if counts.Adult < 0 || counts.Child < 0 || counts.Infant < 0 {
		return fmt.Errorf("guest counts must not be negative")
	}
	if counts.Total() == 0 {
		return fmt.Errorf("at least one guest is required")
	}
	return nil
}

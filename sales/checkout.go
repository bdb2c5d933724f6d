package sales

import (
	"context"
	"strings"
	"time"

	"github.com/cruisedesk/sales-service/model"
	"github.com/cruisedesk/sales-service/service"
)

// HoldBatch is the typed outcome of converting the cart into holds. Partial
// progress is explicit: Held lists the bookings reserved before the first
// failure, Failed names the cart item whose request failed, Err carries the
// failure. On full success Failed and Err are nil.
type HoldBatch struct {
	Held   []model.Booking
	Failed *model.CartItem
	Err    error
}

// ConfirmBatch is the typed outcome of confirming held bookings, with the
// same partial-progress shape as HoldBatch.
type ConfirmBatch struct {
	Confirmed []model.Booking
	Failed    *model.Booking
	Err       error
}

// CreateHoldsAndCheckout converts every cart item into a backend inventory
// hold, sequentially and in cart order. Holds consume shared cabin
// inventory, so the requests are never issued in parallel, and the resulting
// hold list keeps cart order for the payment step.
//
// Each item is removed from the cart the moment its hold succeeds, so after
// a failure the cart contains exactly the items that were never held and the
// session keeps the successful holds; re-submitting checkout resumes with
// the remainder. The first failure aborts the loop: no request is issued
// for later items, already-created holds stay live server-side, and the
// session returns to the checkout phase.
//
// An empty cart is a no-op: no requests, no phase change.
func (e *Engine) CreateHoldsAndCheckout(ctx context.Context, session *model.SalesSession, customerID string) HoldBatch {
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return HoldBatch{Err: ErrEmptyCustomer}
	}
	if session.Phase != model.PhaseCheckout && session.Phase != model.PhaseSelection {
		return HoldBatch{Err: ErrWrongPhase}
	}
	if len(session.Cart) == 0 {
		return HoldBatch{}
	}

	session.CustomerID = customerID
	session.Phase = model.PhaseHoldsPending

	batch := HoldBatch{}
	items := make([]model.CartItem, len(session.Cart))
	copy(items, session.Cart)

	for i := range items {
		item := items[i]
		req := service.HoldRequest{
			CustomerID:        customerID,
			SailingID:         item.SailingID,
			SailingDate:       item.SailingDate,
			CabinType:         item.CabinType,
			CabinCategoryCode: item.CabinCategoryCode,
			CabinID:           item.CabinID,
			PriceType:         item.PriceType,
			Guests:            CountGuests(item.Guests),
			HoldMinutes:       e.holdMinutes,
		}

		booking, err := e.booking.CreateHold(ctx, session.CompanyID, req)
		if err != nil {
			batch.Failed = &item
			batch.Err = err
			session.Phase = model.PhaseCheckout
			session.UpdatedAt = time.Now().UTC()
			return batch
		}

		batch.Held = append(batch.Held, *booking)
		session.Holds = append(session.Holds, *booking)
		e.RemoveFromCart(session, item.ID)
	}

	session.Phase = model.PhasePayment
	session.UpdatedAt = time.Now().UTC()
	return batch
}

// ProcessPayment confirms every held booking, sequentially and in hold
// order. Confirmation mirrors the hold batch: the first failure aborts the
// loop, bookings confirmed before it are not reverted (they are moved off
// the pending hold list so an operator retry only re-confirms what is still
// outstanding), and the session returns to the payment phase. Full success
// is terminal: the session reaches the confirmed phase and the cart is
// cleared.
func (e *Engine) ProcessPayment(ctx context.Context, session *model.SalesSession, paymentToken string) ConfirmBatch {
	if session.Phase != model.PhasePayment {
		return ConfirmBatch{Err: ErrWrongPhase}
	}
	if len(session.Holds) == 0 {
		return ConfirmBatch{}
	}

	session.Phase = model.PhaseConfirmPending

	batch := ConfirmBatch{}
	holds := make([]model.Booking, len(session.Holds))
	copy(holds, session.Holds)

	for i := range holds {
		hold := holds[i]
		booking, err := e.booking.ConfirmBooking(ctx, session.CompanyID, hold.ID, paymentToken)
		if err != nil {
			batch.Failed = &hold
			batch.Err = err
			session.Phase = model.PhasePayment
			session.UpdatedAt = time.Now().UTC()
			return batch
		}

		batch.Confirmed = append(batch.Confirmed, *booking)
		session.Confirmed = append(session.Confirmed, *booking)
		session.Holds = removeHold(session.Holds, hold.ID)
	}

	session.Phase = model.PhaseConfirmed
	session.Cart = []model.CartItem{}
	session.UpdatedAt = time.Now().UTC()
	return batch
}

func removeHold(holds []model.Booking, bookingID string) []model.Booking {
	for i, h := range holds {
		if h.ID == bookingID {
			return append(holds[:i], holds[i+1:]...)
		}
	}
	return holds
}

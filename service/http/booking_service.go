package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cruisedesk/sales-service/config"
	"github.com/cruisedesk/sales-service/model"
	"github.com/cruisedesk/sales-service/service"
)

type HTTPBookingService struct {
	client
}

func NewHTTPBookingService(cfg *config.Backends, jwtSecret string) *HTTPBookingService {
	return &HTTPBookingService{client: newClient(cfg.BookingServiceURL, jwtSecret, cfg)}
}

// CreateHold places a time-limited inventory hold and returns the resulting
// booking in "held" state, including its quote.
func (s *HTTPBookingService) CreateHold(ctx context.Context, companyID string, req service.HoldRequest) (*model.Booking, error) {
	var booking model.Booking
	if err := s.do(ctx, http.MethodPost, "/holds", companyID, req, &booking); err != nil {
		return nil, fmt.Errorf("booking service: %w", err)
	}
	return &booking, nil
}

type confirmRequest struct {
	PaymentToken string `json:"payment_token"`
}

// ConfirmBooking transitions a held booking to "confirmed".
func (s *HTTPBookingService) ConfirmBooking(ctx context.Context, companyID, bookingID, paymentToken string) (*model.Booking, error) {
	var booking model.Booking
	path := "/bookings/" + bookingID + "/confirm"
	if err := s.do(ctx, http.MethodPost, path, companyID, confirmRequest{PaymentToken: paymentToken}, &booking); err != nil {
		return nil, fmt.Errorf("booking service: %w", err)
	}
	return &booking, nil
}

type unavailableCabinsResponse struct {
	CabinIDs []string `json:"cabin_ids"`
}

// ListUnavailableCabins fetches the cabin ids currently held or booked for a
// sailing. The backend is the source of truth; the sales flow's own
// cabin-in-cart check is advisory only.
func (s *HTTPBookingService) ListUnavailableCabins(ctx context.Context, companyID, sailingID string) ([]string, error) {
	var resp unavailableCabinsResponse
	if err := s.do(ctx, http.MethodGet, "/sailings/"+sailingID+"/unavailable-cabins", companyID, nil, &resp); err != nil {
		return nil, fmt.Errorf("booking service: %w", err)
	}
	return resp.CabinIDs, nil
}

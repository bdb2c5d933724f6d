package http

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/cruisedesk/sales-service/config"
	"github.com/cruisedesk/sales-service/model"
	"github.com/cruisedesk/sales-service/service"
)

type HTTPCruiseService struct {
	client
}

func NewHTTPCruiseService(cfg *config.Backends, jwtSecret string) *HTTPCruiseService {
	return &HTTPCruiseService{client: newClient(cfg.CruiseServiceURL, jwtSecret, cfg)}
}

// ListSailings fetches sailings, optionally narrowed by destination and date.
func (s *HTTPCruiseService) ListSailings(ctx context.Context, companyID string, filter service.SailingFilter) ([]model.Sailing, error) {
	q := url.Values{}
	if filter.Destination != "" {
		q.Set("destination", filter.Destination)
	}
	if filter.Date != "" {
		q.Set("date", filter.Date)
	}
	if filter.Status != "" {
		q.Set("status", filter.Status)
	}

	path := "/sailings"
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var sailings []model.Sailing
	if err := s.do(ctx, http.MethodGet, path, companyID, nil, &sailings); err != nil {
		return nil, fmt.Errorf("cruise service: %w", err)
	}
	return sailings, nil
}

// GetSailing fetches a single sailing by id.
func (s *HTTPCruiseService) GetSailing(ctx context.Context, companyID, sailingID string) (*model.Sailing, error) {
	var sailing model.Sailing
	if err := s.do(ctx, http.MethodGet, "/sailings/"+sailingID, companyID, nil, &sailing); err != nil {
		return nil, fmt.Errorf("cruise service: %w", err)
	}
	return &sailing, nil
}

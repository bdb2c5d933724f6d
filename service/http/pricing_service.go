package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cruisedesk/sales-service/config"
	"github.com/cruisedesk/sales-service/model"
	"github.com/cruisedesk/sales-service/service"
)

type HTTPPricingService struct {
	client
}

func NewHTTPPricingService(cfg *config.Backends, jwtSecret string) *HTTPPricingService {
	return &HTTPPricingService{client: newClient(cfg.PricingServiceURL, jwtSecret, cfg)}
}

// CreateQuote requests a priced quote for a prospective booking.
func (s *HTTPPricingService) CreateQuote(ctx context.Context, companyID string, req service.QuoteRequest) (*model.Quote, error) {
	var quote model.Quote
	if err := s.do(ctx, http.MethodPost, "/quote", companyID, req, &quote); err != nil {
		return nil, fmt.Errorf("pricing service: %w", err)
	}
	return &quote, nil
}

// ListPriceTypes fetches the tenant's price categories ("regular", promos...).
func (s *HTTPPricingService) ListPriceTypes(ctx context.Context, companyID string) ([]model.PriceType, error) {
	var types []model.PriceType
	if err := s.do(ctx, http.MethodGet, "/price-categories", companyID, nil, &types); err != nil {
		return nil, fmt.Errorf("pricing service: %w", err)
	}
	return types, nil
}

// ListSailingPrices fetches the effective cabin-category prices for a sailing.
func (s *HTTPPricingService) ListSailingPrices(ctx context.Context, companyID, sailingID string) ([]model.CategoryPrice, error) {
	var prices []model.CategoryPrice
	if err := s.do(ctx, http.MethodGet, "/sailings/"+sailingID+"/prices", companyID, nil, &prices); err != nil {
		return nil, fmt.Errorf("pricing service: %w", err)
	}
	return prices, nil
}

package http

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/cruisedesk/sales-service/config"
	"github.com/cruisedesk/sales-service/model"
)

type HTTPCustomerService struct {
	client
}

func NewHTTPCustomerService(cfg *config.Backends, jwtSecret string) *HTTPCustomerService {
	return &HTTPCustomerService{client: newClient(cfg.CustomerServiceURL, jwtSecret, cfg)}
}

// SearchCustomers looks up directory records by free-text query.
func (s *HTTPCustomerService) SearchCustomers(ctx context.Context, companyID, query string, limit int) ([]model.Customer, error) {
	q := url.Values{}
	q.Set("q", query)
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var customers []model.Customer
	if err := s.do(ctx, http.MethodGet, "/customers?"+q.Encode(), companyID, nil, &customers); err != nil {
		return nil, fmt.Errorf("customer service: %w", err)
	}
	return customers, nil
}

package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cruisedesk/sales-service/config"
	"github.com/cruisedesk/sales-service/model"
)

type HTTPFleetService struct {
	client
}

func NewHTTPFleetService(cfg *config.Backends, jwtSecret string) *HTTPFleetService {
	return &HTTPFleetService{client: newClient(cfg.ShipServiceURL, jwtSecret, cfg)}
}

// ListCabinCategories fetches the ship's cabin categories.
func (s *HTTPFleetService) ListCabinCategories(ctx context.Context, companyID, shipID string) ([]model.CabinCategory, error) {
	var categories []model.CabinCategory
	if err := s.do(ctx, http.MethodGet, "/ships/"+shipID+"/cabin-categories", companyID, nil, &categories); err != nil {
		return nil, fmt.Errorf("ship service: %w", err)
	}
	return categories, nil
}

// ListCabins fetches the ship's cabins across all decks.
func (s *HTTPFleetService) ListCabins(ctx context.Context, companyID, shipID string) ([]model.Cabin, error) {
	var cabins []model.Cabin
	if err := s.do(ctx, http.MethodGet, "/ships/"+shipID+"/cabins", companyID, nil, &cabins); err != nil {
		return nil, fmt.Errorf("ship service: %w", err)
	}
	return cabins, nil
}

package service

import (
	"context"
	"fmt"

	"github.com/pkordes/hanglog/internal/domain"
	"github.com/pkordes/hanglog/internal/repo"
)

// CityService exposes the seeded cities a trip can be tagged with.
type CityService struct {
	cities repo.CityRepo
}

// NewCityService constructs a CityService reading from the provided repo.
func NewCityService(cities repo.CityRepo) *CityService {
	return &CityService{cities: cities}
}

// List returns every city ordered by name.
func (s *CityService) List(ctx context.Context) ([]domain.City, error) {
	cities, err := s.cities.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.CityService.List: %w", err)
	}
	return nonNilCities(cities), nil
}

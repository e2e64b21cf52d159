package handler

import (
	"net/http"

	"github.com/pkordes/hanglog/internal/domain"
)

// ListCities handles GET /cities.
func (s *Server) ListCities(w http.ResponseWriter, r *http.Request) {
	cities, err := s.cities.List(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err, "city not found")
		return
	}
	writeJSON(w, http.StatusOK, citiesToResponse(cities))
}

func citiesToResponse(cities []domain.City) []City {
	resp := make([]City, len(cities))
	for i, c := range cities {
		resp[i] = City{
			ID:        c.ID,
			Name:      c.Name,
			Country:   c.Country,
			Latitude:  c.Latitude,
			Longitude: c.Longitude,
		}
	}
	return resp
}

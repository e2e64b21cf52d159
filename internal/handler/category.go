package handler

import (
	"net/http"

	"github.com/pkordes/hanglog/internal/domain"
)

// ListCategories handles GET /categories.
// The optional ?kind= filter accepts PLACE or EXPENSE.
func (s *Server) ListCategories(w http.ResponseWriter, r *http.Request) {
	kind := domain.CategoryKind(r.URL.Query().Get("kind"))

	cats, err := s.categories.List(r.Context(), kind)
	if err != nil {
		s.writeServiceError(w, r, err, "category not found")
		return
	}

	resp := make([]Category, len(cats))
	for i, c := range cats {
		resp[i] = categoryToResponse(c)
	}
	writeJSON(w, http.StatusOK, resp)
}

func categoryToResponse(c domain.Category) Category {
	return Category{ID: c.ID, Code: c.Code, Name: c.Name, Kind: string(c.Kind)}
}

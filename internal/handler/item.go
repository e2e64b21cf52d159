package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/pkordes/hanglog/internal/domain"
)

// CreateItem handles POST /trips/{tripId}/items.
// The new item is appended after the last item of its day log.
func (s *Server) CreateItem(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}
	var body ItemRequest
	if !decodeJSON(w, r, &body) {
		return
	}

	created, err := s.items.Create(r.Context(), tripID, requestToItem(uuid.Nil, body))
	if err != nil {
		s.writeServiceError(w, r, err, "day log or category not found")
		return
	}

	writeJSON(w, http.StatusCreated, CreatedResponse{ID: created.ID})
}

// UpdateItem handles PUT /trips/{tripId}/items/{itemId}.
func (s *Server) UpdateItem(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}
	itemID, ok := pathUUID(w, r, "itemId")
	if !ok {
		return
	}
	var body ItemRequest
	if !decodeJSON(w, r, &body) {
		return
	}

	if _, err := s.items.Update(r.Context(), tripID, requestToItem(itemID, body)); err != nil {
		s.writeServiceError(w, r, err, "item or category not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteItem handles DELETE /trips/{tripId}/items/{itemId}.
// The remaining items of the day log close the gap.
func (s *Server) DeleteItem(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}
	itemID, ok := pathUUID(w, r, "itemId")
	if !ok {
		return
	}

	if err := s.items.Delete(r.Context(), tripID, itemID); err != nil {
		s.writeServiceError(w, r, err, "item not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- mapping helpers --------------------------------------------------------

func requestToItem(id uuid.UUID, body ItemRequest) domain.Item {
	item := domain.Item{
		ID:       id,
		DayLogID: body.DayLogID,
		Type:     domain.ItemTypeFromSpot(body.ItemType),
		Title:    body.Title,
		Rating:   body.Rating,
		Memo:     body.Memo,
	}
	if p := body.Place; p != nil {
		item.Place = &domain.Place{
			Name:      p.Name,
			Address:   p.Address,
			Latitude:  p.Latitude,
			Longitude: p.Longitude,
			Category:  domain.Category{Code: p.CategoryCode},
		}
	}
	if e := body.Expense; e != nil {
		item.Expense = &domain.Expense{
			Currency: e.Currency,
			Amount:   e.Amount,
			Category: domain.Category{ID: e.CategoryID},
		}
	}
	return item
}

func itemToResponse(it domain.Item) Item {
	resp := Item{
		ID:       it.ID,
		ItemType: it.Type == domain.ItemSpot,
		Title:    it.Title,
		Ordinal:  it.Ordinal,
		Rating:   it.Rating,
		Memo:     it.Memo,
	}
	if p := it.Place; p != nil {
		resp.Place = &Place{
			Name:      p.Name,
			Address:   p.Address,
			Latitude:  p.Latitude,
			Longitude: p.Longitude,
			Category:  categoryToResponse(p.Category),
		}
	}
	if e := it.Expense; e != nil {
		resp.Expense = &Expense{
			Currency: e.Currency,
			Amount:   e.Amount,
			Category: categoryToResponse(e.Category),
		}
	}
	return resp
}

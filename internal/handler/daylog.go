package handler

import (
	"net/http"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/hanglog/internal/domain"
)

// GetDayLog handles GET /trips/{tripId}/daylogs/{dayLogId}.
func (s *Server) GetDayLog(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}
	dayLogID, ok := pathUUID(w, r, "dayLogId")
	if !ok {
		return
	}

	log, err := s.dayLogs.Get(r.Context(), tripID, dayLogID)
	if err != nil {
		s.writeServiceError(w, r, err, "day log not found")
		return
	}

	writeJSON(w, http.StatusOK, dayLogToResponse(log))
}

// UpdateDayLog handles PATCH /trips/{tripId}/daylogs/{dayLogId}.
// Only the title of a day log is editable.
func (s *Server) UpdateDayLog(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}
	dayLogID, ok := pathUUID(w, r, "dayLogId")
	if !ok {
		return
	}
	var body DayLogTitleRequest
	if !decodeJSON(w, r, &body) {
		return
	}

	if err := s.dayLogs.UpdateTitle(r.Context(), tripID, dayLogID, body.Title); err != nil {
		s.writeServiceError(w, r, err, "day log not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ReorderItems handles PATCH /trips/{tripId}/daylogs/{dayLogId}/order.
// The body lists every item id of the day log in its new order.
func (s *Server) ReorderItems(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}
	dayLogID, ok := pathUUID(w, r, "dayLogId")
	if !ok {
		return
	}
	var body ReorderItemsRequest
	if !decodeJSON(w, r, &body) {
		return
	}

	if err := s.dayLogs.ReorderItems(r.Context(), tripID, dayLogID, body.ItemIDs); err != nil {
		s.writeServiceError(w, r, err, "day log not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func dayLogToResponse(d domain.DayLog) DayLog {
	resp := DayLog{
		ID:      d.ID,
		Ordinal: d.Ordinal,
		Title:   d.Title,
		Items:   make([]Item, len(d.Items)),
	}
	if d.Date != nil {
		resp.Date = &openapi_types.Date{Time: *d.Date}
	}
	for i, it := range d.Items {
		resp.Items[i] = itemToResponse(it)
	}
	return resp
}

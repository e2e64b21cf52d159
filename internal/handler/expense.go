package handler

import (
	"net/http"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/hanglog/internal/domain"
)

// GetExpenses handles GET /trips/{tripId}/expenses.
// Totals are grouped by currency; amounts in different currencies are not summed.
func (s *Server) GetExpenses(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}

	summary, err := s.expenses.Summary(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err, "trip not found")
		return
	}

	writeJSON(w, http.StatusOK, expenseSummaryToResponse(summary))
}

func expenseSummaryToResponse(e domain.ExpenseSummary) ExpenseSummary {
	resp := ExpenseSummary{
		Trip:       tripToResponse(e.Trip),
		Totals:     moneyToResponse(e.Totals),
		Categories: make([]CategorySpending, len(e.Categories)),
		DayLogs:    make([]DayLogExpense, len(e.DayLogs)),
	}
	for i, c := range e.Categories {
		resp.Categories[i] = CategorySpending{
			Category:   categoryToResponse(c.Category),
			Currency:   c.Currency,
			Amount:     c.Amount,
			Percentage: c.Percentage,
		}
	}
	for i, d := range e.DayLogs {
		day := DayLogExpense{
			ID:      d.DayLog.ID,
			Ordinal: d.DayLog.Ordinal,
			Totals:  moneyToResponse(d.Totals),
			Items:   make([]Item, len(d.DayLog.Items)),
		}
		if d.DayLog.Date != nil {
			day.Date = &openapi_types.Date{Time: *d.DayLog.Date}
		}
		for j, it := range d.DayLog.Items {
			day.Items[j] = itemToResponse(it)
		}
		resp.DayLogs[i] = day
	}
	return resp
}

func moneyToResponse(m []domain.Money) []Money {
	resp := make([]Money, len(m))
	for i, v := range m {
		resp[i] = Money{Currency: v.Currency, Amount: v.Amount}
	}
	return resp
}

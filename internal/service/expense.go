package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pkordes/hanglog/internal/domain"
	"github.com/pkordes/hanglog/internal/repo"
)

var hundred = decimal.NewFromInt(100)

// ExpenseService reports what was spent on a trip.
type ExpenseService struct {
	store repo.Store
}

// NewExpenseService constructs an ExpenseService backed by the provided Store.
func NewExpenseService(store repo.Store) *ExpenseService {
	return &ExpenseService{store: store}
}

// Summary totals every expense of a trip per currency, per category and per
// DayLog. Every DayLog of the trip appears in the result, in ordinal order,
// even when nothing was spent on it.
// Returns domain.ErrNotFound if the trip does not exist or was deleted.
func (s *ExpenseService) Summary(ctx context.Context, tripID uuid.UUID) (domain.ExpenseSummary, error) {
	trip, err := loadDetail(ctx, s.store, tripID, false)
	if err != nil {
		return domain.ExpenseSummary{}, fmt.Errorf("service.ExpenseService.Summary: %w", err)
	}
	return summarize(trip), nil
}

// categoryKey groups spending by category and currency.
type categoryKey struct {
	categoryID int64
	currency   string
}

// summarize builds the summary of a fully loaded trip.
func summarize(trip domain.Trip) domain.ExpenseSummary {
	var (
		totals     = map[string]decimal.Decimal{}
		byCategory = map[categoryKey]decimal.Decimal{}
		categories = map[int64]domain.Category{}
	)

	dayLogs := make([]domain.DayLogExpense, 0, len(trip.DayLogs))
	for _, d := range trip.DayLogs {
		dayTotals := map[string]decimal.Decimal{}
		spent := []domain.Item{}
		for _, it := range d.Items {
			e := it.Expense
			if e == nil {
				continue
			}
			spent = append(spent, it)
			dayTotals[e.Currency] = dayTotals[e.Currency].Add(e.Amount)
			totals[e.Currency] = totals[e.Currency].Add(e.Amount)

			key := categoryKey{categoryID: e.Category.ID, currency: e.Currency}
			byCategory[key] = byCategory[key].Add(e.Amount)
			categories[e.Category.ID] = e.Category
		}

		d.Items = spent
		dayLogs = append(dayLogs, domain.DayLogExpense{DayLog: d, Totals: moneyOf(dayTotals)})
	}

	cats := make([]domain.CategorySpending, 0, len(byCategory))
	for key, amount := range byCategory {
		cats = append(cats, domain.CategorySpending{
			Category:   categories[key.categoryID],
			Currency:   key.currency,
			Amount:     amount,
			Percentage: percentage(amount, totals[key.currency]),
		})
	}
	slices.SortFunc(cats, func(a, b domain.CategorySpending) int {
		if c := cmp.Compare(a.Currency, b.Currency); c != 0 {
			return c
		}
		return cmp.Compare(a.Category.ID, b.Category.ID)
	})

	header := trip
	header.DayLogs = nil
	return domain.ExpenseSummary{
		Trip:       header,
		Totals:     moneyOf(totals),
		Categories: cats,
		DayLogs:    dayLogs,
	}
}

// moneyOf flattens per-currency totals, ordered by currency code.
func moneyOf(totals map[string]decimal.Decimal) []domain.Money {
	out := make([]domain.Money, 0, len(totals))
	for currency, amount := range totals {
		out = append(out, domain.Money{Currency: currency, Amount: amount})
	}
	slices.SortFunc(out, func(a, b domain.Money) int { return cmp.Compare(a.Currency, b.Currency) })
	return out
}

func percentage(part, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return part.Mul(hundred).Div(total).Round(2)
}

package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/hanglog/internal/domain"
	"github.com/pkordes/hanglog/internal/service"
)

func (f fixture) addExpense(t *testing.T, tripID, dayLogID uuid.UUID, title, currency, amount string, categoryID int64) domain.Item {
	t.Helper()
	it, err := f.items.Create(context.Background(), tripID, domain.Item{
		DayLogID: dayLogID,
		Type:     domain.ItemNonSpot,
		Title:    title,
		Expense: &domain.Expense{
			Currency: currency,
			Amount:   decimal.RequireFromString(amount),
			Category: domain.Category{ID: categoryID},
		},
	})
	require.NoError(t, err, "add expense %q", title)
	return it
}

func money(currency, amount string) domain.Money {
	return domain.Money{Currency: currency, Amount: decimal.RequireFromString(amount)}
}

// assertMoney compares by value so "12.5" and "12.50" are equal.
func assertMoney(t *testing.T, want, got []domain.Money) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].Currency, got[i].Currency)
		assert.True(t, want[i].Amount.Equal(got[i].Amount), "%s: want %s, got %s",
			want[i].Currency, want[i].Amount, got[i].Amount)
	}
}

func TestExpenseService_Summary(t *testing.T) {
	f := newMemoryFixture()
	expenses := service.NewExpenseService(f.store)
	trip := f.createTrip(t, 1, 2)
	day1, day2, overflow := trip.DayLogs[0].ID, trip.DayLogs[1].ID, trip.DayLogs[2].ID

	f.addExpense(t, trip.ID, day1, "Lunch", "GBP", "12.50", 100)
	f.addItem(t, trip.ID, day1, "Walk")
	f.addExpense(t, trip.ID, day1, "Museum", "GBP", "37.50", 200)
	f.addExpense(t, trip.ID, day2, "Dinner", "GBP", "50", 100)
	f.addExpense(t, trip.ID, overflow, "Souvenir", "EUR", "20", 300)

	got, err := expenses.Summary(context.Background(), trip.ID)

	require.NoError(t, err)
	assert.Equal(t, trip.ID, got.Trip.ID)
	assert.Nil(t, got.Trip.DayLogs)
	assertMoney(t, []domain.Money{money("EUR", "20"), money("GBP", "100")}, got.Totals)

	require.Len(t, got.Categories, 3)
	assert.Equal(t, "EUR", got.Categories[0].Currency)
	assert.Equal(t, int64(300), got.Categories[0].Category.ID)
	assert.Equal(t, "100", got.Categories[0].Percentage.String())
	assert.Equal(t, int64(100), got.Categories[1].Category.ID)
	assert.Equal(t, "food", got.Categories[1].Category.Code)
	assert.True(t, got.Categories[1].Amount.Equal(decimal.RequireFromString("62.5")))
	assert.Equal(t, "62.5", got.Categories[1].Percentage.String())
	assert.Equal(t, int64(200), got.Categories[2].Category.ID)
	assert.Equal(t, "37.5", got.Categories[2].Percentage.String())

	require.Len(t, got.DayLogs, 3)
	assert.Equal(t, []string{"Lunch", "Museum"}, titles(got.DayLogs[0].DayLog.Items), "items without expense are left out")
	assertMoney(t, []domain.Money{money("GBP", "50")}, got.DayLogs[0].Totals)
	assertMoney(t, []domain.Money{money("GBP", "50")}, got.DayLogs[1].Totals)
	assert.Nil(t, got.DayLogs[2].DayLog.Date)
	assertMoney(t, []domain.Money{money("EUR", "20")}, got.DayLogs[2].Totals)
}

func TestExpenseService_Summary_NoExpenses(t *testing.T) {
	f := newMemoryFixture()
	trip := f.createTrip(t, 1, 1)
	f.addItem(t, trip.ID, trip.DayLogs[0].ID, "Walk")

	got, err := service.NewExpenseService(f.store).Summary(context.Background(), trip.ID)

	require.NoError(t, err)
	assert.Empty(t, got.Totals)
	assert.NotNil(t, got.Totals)
	assert.Empty(t, got.Categories)
	require.Len(t, got.DayLogs, 2)
	for _, d := range got.DayLogs {
		assert.Empty(t, d.Totals)
		assert.NotNil(t, d.DayLog.Items)
	}
}

func TestExpenseService_Summary_RoundsPercentage(t *testing.T) {
	f := newMemoryFixture()
	trip := f.createTrip(t, 1, 1)
	day := trip.DayLogs[0].ID
	f.addExpense(t, trip.ID, day, "Bus", "JPY", "1", 500)
	f.addExpense(t, trip.ID, day, "Tram", "JPY", "1", 500)
	f.addExpense(t, trip.ID, day, "Tea", "JPY", "1", 100)

	got, err := service.NewExpenseService(f.store).Summary(context.Background(), trip.ID)

	require.NoError(t, err)
	require.Len(t, got.Categories, 2)
	assert.Equal(t, "33.33", got.Categories[0].Percentage.String())
	assert.Equal(t, "66.67", got.Categories[1].Percentage.String())
}

func TestExpenseService_Summary_NotFound(t *testing.T) {
	f := newMemoryFixture()
	deleted := f.createTrip(t, 1, 1)
	require.NoError(t, f.trips.Delete(context.Background(), deleted.ID))

	for _, id := range []uuid.UUID{uuid.New(), deleted.ID} {
		_, err := service.NewExpenseService(f.store).Summary(context.Background(), id)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	}
}

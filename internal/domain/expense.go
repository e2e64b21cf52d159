package domain

import (
	"github.com/shopspring/decimal"
)

// Money is an amount in a single currency.
type Money struct {
	Currency string
	Amount   decimal.Decimal
}

// CategorySpending is the spending of one expense category in one currency.
// Percentage is the share of that currency's trip total, rounded to 2 places.
type CategorySpending struct {
	Category   Category
	Currency   string
	Amount     decimal.Decimal
	Percentage decimal.Decimal
}

// DayLogExpense is the spending recorded on one DayLog. DayLog.Items holds only
// the items that carry an expense, in ordinal order.
type DayLogExpense struct {
	DayLog DayLog
	Totals []Money
}

// ExpenseSummary aggregates every expense of a trip. Amounts in different
// currencies are never added together: each total is per currency.
type ExpenseSummary struct {
	Trip       Trip
	Totals     []Money
	Categories []CategorySpending
	DayLogs    []DayLogExpense
}

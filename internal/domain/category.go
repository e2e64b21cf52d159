package domain

// CategoryKind separates place categories (looked up by external code) from
// expense categories (looked up by id).
type CategoryKind string

const (
	CategoryPlace   CategoryKind = "PLACE"
	CategoryExpense CategoryKind = "EXPENSE"
)

// Category classifies a Place or an Expense. Categories are reference data
// seeded by migration and never created through the API.
type Category struct {
	ID   int64
	Code string
	Name string
	Kind CategoryKind
}

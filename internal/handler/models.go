package handler

import (
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/shopspring/decimal"
)

// The types below are the JSON shapes documented in spec/openapi.yaml.
// Dates use openapi_types.Date ("2006-01-02"); decimals are encoded as strings.

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// ---- trips -----------------------------------------------------------------

// TripRequest is the body of POST and PUT trip requests. On update an absent
// cityIds keeps the stored cities and an empty list clears them.
type TripRequest struct {
	Title       string             `json:"title"`
	StartDate   openapi_types.Date `json:"startDate"`
	EndDate     openapi_types.Date `json:"endDate"`
	Description string             `json:"description"`
	ImageName   string             `json:"imageName"`
	CityIDs     []int64            `json:"cityIds"`
}

type Trip struct {
	ID          uuid.UUID          `json:"id"`
	Title       string             `json:"title"`
	StartDate   openapi_types.Date `json:"startDate"`
	EndDate     openapi_types.Date `json:"endDate"`
	Period      int                `json:"period"`
	Description string             `json:"description"`
	ImageName   *string            `json:"imageName,omitempty"`
	Cities      []City             `json:"cities"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

type TripDetail struct {
	Trip
	DayLogs []DayLog `json:"dayLogs"`
}

type TripList struct {
	Data       []Trip     `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// ---- day logs --------------------------------------------------------------

type DayLog struct {
	ID      uuid.UUID           `json:"id"`
	Ordinal int                 `json:"ordinal"`
	Date    *openapi_types.Date `json:"date"`
	Title   string              `json:"title"`
	Items   []Item              `json:"items"`
}

type DayLogTitleRequest struct {
	Title string `json:"title"`
}

type ReorderItemsRequest struct {
	ItemIDs []uuid.UUID `json:"itemIds"`
}

// ---- items -----------------------------------------------------------------

// ItemRequest is the body of POST and PUT item requests. ItemType is true for
// a SPOT item. DayLogID is ignored on update.
type ItemRequest struct {
	ItemType bool             `json:"itemType"`
	DayLogID uuid.UUID        `json:"dayLogId"`
	Title    string           `json:"title"`
	Rating   *decimal.Decimal `json:"rating"`
	Memo     string           `json:"memo"`
	Place    *PlaceRequest    `json:"place"`
	Expense  *ExpenseRequest  `json:"expense"`
}

type PlaceRequest struct {
	Name         string          `json:"name"`
	Address      string          `json:"address"`
	Latitude     decimal.Decimal `json:"latitude"`
	Longitude    decimal.Decimal `json:"longitude"`
	CategoryCode string          `json:"categoryCode"`
}

type ExpenseRequest struct {
	Currency   string          `json:"currency"`
	Amount     decimal.Decimal `json:"amount"`
	CategoryID int64           `json:"categoryId"`
}

type Item struct {
	ID       uuid.UUID        `json:"id"`
	ItemType bool             `json:"itemType"`
	Title    string           `json:"title"`
	Ordinal  int              `json:"ordinal"`
	Rating   *decimal.Decimal `json:"rating"`
	Memo     string           `json:"memo"`
	Place    *Place           `json:"place"`
	Expense  *Expense         `json:"expense"`
}

type Place struct {
	Name      string          `json:"name"`
	Address   string          `json:"address"`
	Latitude  decimal.Decimal `json:"latitude"`
	Longitude decimal.Decimal `json:"longitude"`
	Category  Category        `json:"category"`
}

type Expense struct {
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
	Category Category        `json:"category"`
}

type CreatedResponse struct {
	ID uuid.UUID `json:"id"`
}

// ---- categories ------------------------------------------------------------

type Category struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// ---- cities ----------------------------------------------------------------

type City struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Country   string          `json:"country"`
	Latitude  decimal.Decimal `json:"latitude"`
	Longitude decimal.Decimal `json:"longitude"`
}

// ---- expenses --------------------------------------------------------------

type Money struct {
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
}

type CategorySpending struct {
	Category   Category        `json:"category"`
	Currency   string          `json:"currency"`
	Amount     decimal.Decimal `json:"amount"`
	Percentage decimal.Decimal `json:"percentage"`
}

// DayLogExpense lists the items of one day log that carry an expense.
type DayLogExpense struct {
	ID      uuid.UUID           `json:"id"`
	Ordinal int                 `json:"ordinal"`
	Date    *openapi_types.Date `json:"date"`
	Totals  []Money             `json:"totals"`
	Items   []Item              `json:"items"`
}

type ExpenseSummary struct {
	Trip       Trip              `json:"trip"`
	Totals     []Money           `json:"totals"`
	Categories []CategorySpending `json:"categories"`
	DayLogs    []DayLogExpense   `json:"dayLogs"`
}

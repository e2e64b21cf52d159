// Package handler implements the HTTP API of the travel journal.
// All handlers are methods on Server; Handler mounts them on a chi router.
// Methods are split into resource files (trip.go, daylog.go, item.go, ...)
// but share the same Server struct and its service dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/hanglog/internal/domain"
)

// TripServicer defines the trip operations the handlers depend on.
// Interfaces live here, in the consumer package, so handler tests can inject
// a mock without touching the service layer or a database.
type TripServicer interface {
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	GetDetail(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	List(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error)
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// DayLogServicer defines the day log operations the handlers depend on.
type DayLogServicer interface {
	Get(ctx context.Context, tripID, dayLogID uuid.UUID) (domain.DayLog, error)
	UpdateTitle(ctx context.Context, tripID, dayLogID uuid.UUID, title string) error
	ReorderItems(ctx context.Context, tripID, dayLogID uuid.UUID, itemIDs []uuid.UUID) error
}

// ItemServicer defines the item operations the handlers depend on.
type ItemServicer interface {
	Create(ctx context.Context, tripID uuid.UUID, item domain.Item) (domain.Item, error)
	Update(ctx context.Context, tripID uuid.UUID, item domain.Item) (domain.Item, error)
	Delete(ctx context.Context, tripID, itemID uuid.UUID) error
}

// CategoryServicer defines the category lookups the handlers depend on.
type CategoryServicer interface {
	List(ctx context.Context, kind domain.CategoryKind) ([]domain.Category, error)
}

// CityServicer defines the city lookups the handlers depend on.
type CityServicer interface {
	List(ctx context.Context) ([]domain.City, error)
}

// ExpenseServicer defines the expense summary the handlers depend on.
type ExpenseServicer interface {
	Summary(ctx context.Context, tripID uuid.UUID) (domain.ExpenseSummary, error)
}

// Server holds the dependencies shared by every handler.
type Server struct {
	trips      TripServicer
	dayLogs    DayLogServicer
	items      ItemServicer
	categories CategoryServicer
	cities     CityServicer
	expenses   ExpenseServicer
	logger     *slog.Logger
}

// Services groups the servicers a Server dispatches to.
type Services struct {
	Trips      TripServicer
	DayLogs    DayLogServicer
	Items      ItemServicer
	Categories CategoryServicer
	Cities     CityServicer
	Expenses   ExpenseServicer
}

// NewServer constructs the Server with all its dependencies. A nil logger
// falls back to slog.Default.
func NewServer(svc Services, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		trips:      svc.Trips,
		dayLogs:    svc.DayLogs,
		items:      svc.Items,
		categories: svc.Categories,
		cities:     svc.Cities,
		expenses:   svc.Expenses,
		logger:     logger,
	}
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(Services{}, nil)
}

// Handler returns a chi router serving every endpoint of s.
// Mount it on the application router after the middleware chain.
func Handler(s *Server) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)
	r.Get("/categories", s.ListCategories)
	r.Get("/cities", s.ListCities)

	r.Route("/trips", func(r chi.Router) {
		r.Post("/", s.CreateTrip)
		r.Get("/", s.ListTrips)

		r.Route("/{tripId}", func(r chi.Router) {
			r.Get("/", s.GetTrip)
			r.Put("/", s.UpdateTrip)
			r.Delete("/", s.DeleteTrip)
			r.Get("/expenses", s.GetExpenses)

			r.Get("/daylogs/{dayLogId}", s.GetDayLog)
			r.Patch("/daylogs/{dayLogId}", s.UpdateDayLog)
			r.Patch("/daylogs/{dayLogId}/order", s.ReorderItems)

			r.Post("/items", s.CreateItem)
			r.Put("/items/{itemId}", s.UpdateItem)
			r.Delete("/items/{itemId}", s.DeleteItem)
		})
	})

	return r
}

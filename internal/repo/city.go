package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/pkordes/hanglog/internal/domain"
)

// CityRepo reads the seeded cities and the cities attached to each trip.
type CityRepo interface {
	// GetByID returns a city by id. Returns domain.ErrNotFound if unknown.
	GetByID(ctx context.Context, id int64) (domain.City, error)

	// List returns every city ordered by name.
	List(ctx context.Context) ([]domain.City, error)

	// ListByTripIDs returns the cities of each trip in their stored order.
	// Trips without cities are absent from the map.
	ListByTripIDs(ctx context.Context, tripIDs []uuid.UUID) (map[uuid.UUID][]domain.City, error)

	// SetForTrip replaces the cities of a trip with cityIDs, keeping their order.
	SetForTrip(ctx context.Context, tripID uuid.UUID, cityIDs []int64) error
}

// pgCityRepo is the Postgres implementation of CityRepo.
type pgCityRepo struct {
	db db
}

// NewCityRepo constructs a CityRepo backed by the provided db connection.
func NewCityRepo(db db) CityRepo {
	return &pgCityRepo{db: db}
}

const cityColumns = `c.id, c.name, c.country, c.latitude, c.longitude`

func (r *pgCityRepo) GetByID(ctx context.Context, id int64) (domain.City, error) {
	const q = `SELECT ` + cityColumns + ` FROM cities c WHERE c.id = @id`

	c, err := scanCity(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.City{}, fmt.Errorf("repo.CityRepo.GetByID: %w", err)
	}
	return c, nil
}

func (r *pgCityRepo) List(ctx context.Context) ([]domain.City, error) {
	const q = `SELECT ` + cityColumns + ` FROM cities c ORDER BY c.name`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.CityRepo.List: %w", err)
	}
	defer rows.Close()

	cities := []domain.City{}
	for rows.Next() {
		c, err := scanCity(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.CityRepo.List: scan: %w", err)
		}
		cities = append(cities, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.CityRepo.List: rows: %w", err)
	}
	return cities, nil
}

func (r *pgCityRepo) ListByTripIDs(ctx context.Context, tripIDs []uuid.UUID) (map[uuid.UUID][]domain.City, error) {
	out := make(map[uuid.UUID][]domain.City, len(tripIDs))
	if len(tripIDs) == 0 {
		return out, nil
	}

	const q = `
		SELECT tc.trip_id, ` + cityColumns + `
		FROM trip_cities tc
		JOIN cities c ON c.id = tc.city_id
		WHERE tc.trip_id = ANY(@trip_ids)
		ORDER BY tc.trip_id, tc.position`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_ids": tripIDs})
	if err != nil {
		return nil, fmt.Errorf("repo.CityRepo.ListByTripIDs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			tripID pgtype.UUID
			c      domain.City
		)
		if err := rows.Scan(&tripID, &c.ID, &c.Name, &c.Country, &c.Latitude, &c.Longitude); err != nil {
			return nil, fmt.Errorf("repo.CityRepo.ListByTripIDs: scan: %w", err)
		}
		id := uuid.UUID(tripID.Bytes)
		out[id] = append(out[id], c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.CityRepo.ListByTripIDs: rows: %w", err)
	}
	return out, nil
}

func (r *pgCityRepo) SetForTrip(ctx context.Context, tripID uuid.UUID, cityIDs []int64) error {
	const del = `DELETE FROM trip_cities WHERE trip_id = @trip_id`
	if _, err := r.db.Exec(ctx, del, pgx.NamedArgs{"trip_id": tripID}); err != nil {
		return fmt.Errorf("repo.CityRepo.SetForTrip: delete: %w", err)
	}
	if len(cityIDs) == 0 {
		return nil
	}

	const ins = `
		INSERT INTO trip_cities (trip_id, city_id, position)
		SELECT @trip_id, city_id, position
		FROM unnest(@city_ids::bigint[]) WITH ORDINALITY AS t(city_id, position)`

	if _, err := r.db.Exec(ctx, ins, pgx.NamedArgs{"trip_id": tripID, "city_ids": cityIDs}); err != nil {
		return fmt.Errorf("repo.CityRepo.SetForTrip: insert: %w", err)
	}
	return nil
}

func scanCity(s scanner) (domain.City, error) {
	var (
		c        domain.City
		lat, lng decimal.Decimal
	)
	if err := s.Scan(&c.ID, &c.Name, &c.Country, &lat, &lng); err != nil {
		return domain.City{}, notFound(err)
	}
	c.Latitude, c.Longitude = lat, lng
	return c, nil
}

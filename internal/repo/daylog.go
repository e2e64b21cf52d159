package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/hanglog/internal/domain"
)

// DayLogRepo defines the persistence operations for DayLogs.
// Single-row reads are scoped by tripID to enforce ownership; a day log of a
// soft-deleted trip is reported as not found.
type DayLogRepo interface {
	// CreateBatch inserts logs in one round trip and returns them with their
	// DB-generated ids, in the same order.
	CreateBatch(ctx context.Context, logs []domain.DayLog) ([]domain.DayLog, error)

	// GetByID retrieves a single day log scoped to the given trip.
	// Returns domain.ErrNotFound if it does not exist under that trip.
	GetByID(ctx context.Context, tripID, dayLogID uuid.UUID) (domain.DayLog, error)

	// GetForUpdate is GetByID plus a row lock held until the transaction ends.
	// Item inserts, reorders, and deletes on one day log serialise here.
	GetForUpdate(ctx context.Context, tripID, dayLogID uuid.UUID) (domain.DayLog, error)

	// ListByTripID returns every day log of a trip ordered by ordinal.
	ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.DayLog, error)

	// Update overwrites ordinal, date, and title of a day log.
	// Returns domain.ErrNotFound if no day log with that ID exists under its trip.
	Update(ctx context.Context, log domain.DayLog) (domain.DayLog, error)

	// DeleteByIDs removes day logs of tripID. Their items are removed by cascade,
	// so callers must move items they want to keep first.
	DeleteByIDs(ctx context.Context, tripID uuid.UUID, ids []uuid.UUID) error
}

// pgDayLogRepo is the Postgres implementation of DayLogRepo.
type pgDayLogRepo struct {
	db db
}

// NewDayLogRepo constructs a DayLogRepo backed by the provided db connection.
func NewDayLogRepo(db db) DayLogRepo {
	return &pgDayLogRepo{db: db}
}

const dayLogColumns = `d.id, d.trip_id, d.ordinal, d.date, d.title, d.created_at, d.updated_at`

func (r *pgDayLogRepo) CreateBatch(ctx context.Context, logs []domain.DayLog) ([]domain.DayLog, error) {
	if len(logs) == 0 {
		return []domain.DayLog{}, nil
	}

	const q = `
		INSERT INTO day_logs AS d (trip_id, ordinal, date, title)
		VALUES (@trip_id, @ordinal, @date, @title)
		RETURNING ` + dayLogColumns

	batch := &pgx.Batch{}
	for _, l := range logs {
		batch.Queue(q, pgx.NamedArgs{
			"trip_id": l.TripID,
			"ordinal": l.Ordinal,
			"date":    l.Date, // nil becomes NULL for the overflow slot
			"title":   l.Title,
		})
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	out := make([]domain.DayLog, 0, len(logs))
	for range logs {
		created, err := scanDayLog(results.QueryRow())
		if err != nil {
			return nil, fmt.Errorf("repo.DayLogRepo.CreateBatch: %w", err)
		}
		out = append(out, created)
	}
	return out, nil
}

func (r *pgDayLogRepo) GetByID(ctx context.Context, tripID, dayLogID uuid.UUID) (domain.DayLog, error) {
	const q = `
		SELECT ` + dayLogColumns + `
		FROM day_logs d
		JOIN trips t ON t.id = d.trip_id AND t.status = 'USABLE'
		WHERE d.id = @id AND d.trip_id = @trip_id`

	result, err := scanDayLog(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": dayLogID, "trip_id": tripID}))
	if err != nil {
		return domain.DayLog{}, fmt.Errorf("repo.DayLogRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgDayLogRepo) GetForUpdate(ctx context.Context, tripID, dayLogID uuid.UUID) (domain.DayLog, error) {
	const q = `
		SELECT ` + dayLogColumns + `
		FROM day_logs d
		JOIN trips t ON t.id = d.trip_id AND t.status = 'USABLE'
		WHERE d.id = @id AND d.trip_id = @trip_id
		FOR UPDATE OF d`

	result, err := scanDayLog(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": dayLogID, "trip_id": tripID}))
	if err != nil {
		return domain.DayLog{}, fmt.Errorf("repo.DayLogRepo.GetForUpdate: %w", err)
	}
	return result, nil
}

func (r *pgDayLogRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.DayLog, error) {
	const q = `
		SELECT ` + dayLogColumns + `
		FROM day_logs d
		WHERE d.trip_id = @trip_id
		ORDER BY d.ordinal`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.DayLogRepo.ListByTripID: %w", err)
	}
	defer rows.Close()

	logs := []domain.DayLog{}
	for rows.Next() {
		l, err := scanDayLog(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.DayLogRepo.ListByTripID: scan: %w", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.DayLogRepo.ListByTripID: rows: %w", err)
	}
	return logs, nil
}

func (r *pgDayLogRepo) Update(ctx context.Context, log domain.DayLog) (domain.DayLog, error) {
	const q = `
		UPDATE day_logs AS d
		SET ordinal    = @ordinal,
		    date       = @date,
		    title      = @title,
		    updated_at = now()
		WHERE d.id = @id AND d.trip_id = @trip_id
		RETURNING ` + dayLogColumns

	args := pgx.NamedArgs{
		"id":      log.ID,
		"trip_id": log.TripID,
		"ordinal": log.Ordinal,
		"date":    log.Date,
		"title":   log.Title,
	}

	result, err := scanDayLog(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.DayLog{}, fmt.Errorf("repo.DayLogRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgDayLogRepo) DeleteByIDs(ctx context.Context, tripID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	const q = `DELETE FROM day_logs WHERE trip_id = @trip_id AND id = ANY(@ids)`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"trip_id": tripID, "ids": ids})
	if err != nil {
		return fmt.Errorf("repo.DayLogRepo.DeleteByIDs: %w", err)
	}
	if tag.RowsAffected() != int64(len(ids)) {
		return fmt.Errorf("repo.DayLogRepo.DeleteByIDs: deleted %d of %d: %w",
			tag.RowsAffected(), len(ids), domain.ErrNotFound)
	}
	return nil
}

// scanDayLog maps a single database row into a domain.DayLog.
// A NULL date marks the overflow slot and is mapped to a nil Date.
func scanDayLog(s scanner) (domain.DayLog, error) {
	var (
		d      domain.DayLog
		id     pgtype.UUID
		tripID pgtype.UUID
		date   pgtype.Date
	)

	err := s.Scan(&id, &tripID, &d.Ordinal, &date, &d.Title, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return domain.DayLog{}, notFound(err)
	}

	d.ID = uuid.UUID(id.Bytes)
	d.TripID = uuid.UUID(tripID.Bytes)
	if date.Valid {
		dt := date.Time.In(time.UTC)
		d.Date = &dt
	}
	return d, nil
}

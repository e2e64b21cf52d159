package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pkordes/hanglog/internal/domain"
	"github.com/pkordes/hanglog/internal/ordinal"
	"github.com/pkordes/hanglog/internal/repo"
)

// DayLogService reads DayLogs and manages the order of their items.
type DayLogService struct {
	store  repo.Store
	logger *slog.Logger
}

// NewDayLogService constructs a DayLogService backed by the provided Store.
func NewDayLogService(store repo.Store, logger *slog.Logger) *DayLogService {
	return &DayLogService{store: store, logger: logger}
}

// Get returns a DayLog of the given trip with its items in ordinal order.
// Returns domain.ErrNotFound if either does not exist.
func (s *DayLogService) Get(ctx context.Context, tripID, dayLogID uuid.UUID) (domain.DayLog, error) {
	log, err := s.store.DayLogs().GetByID(ctx, tripID, dayLogID)
	if err != nil {
		return domain.DayLog{}, fmt.Errorf("service.DayLogService.Get: %w", err)
	}
	log.Items, err = s.store.Items().ListByDayLogID(ctx, dayLogID)
	if err != nil {
		return domain.DayLog{}, fmt.Errorf("service.DayLogService.Get: %w", err)
	}
	if log.Items == nil {
		log.Items = []domain.Item{}
	}
	return log, nil
}

// UpdateTitle sets the title of a DayLog. An empty title clears it.
func (s *DayLogService) UpdateTitle(ctx context.Context, tripID, dayLogID uuid.UUID, title string) error {
	if err := validateDayLogTitle(title); err != nil {
		return err
	}
	err := s.store.WithinTx(ctx, func(tx repo.Store) error {
		if _, err := tx.Trips().GetForShare(ctx, tripID); err != nil {
			return err
		}
		log, err := tx.DayLogs().GetForUpdate(ctx, tripID, dayLogID)
		if err != nil {
			return err
		}
		log.Title = title
		_, err = tx.DayLogs().Update(ctx, log)
		return err
	})
	if err != nil {
		return fmt.Errorf("service.DayLogService.UpdateTitle: %w", err)
	}
	return nil
}

// ReorderItems gives itemIDs[k] ordinal k+1 within the DayLog.
//
// itemIDs must name every item of the DayLog exactly once. A rejected request
// changes nothing; an accepted one is persisted atomically. Submitting the
// current order is a no-op that still succeeds.
// Returns domain.ErrValidation for a malformed list and domain.ErrNotFound if
// the DayLog does not exist under the trip.
func (s *DayLogService) ReorderItems(ctx context.Context, tripID, dayLogID uuid.UUID, itemIDs []uuid.UUID) error {
	err := s.store.WithinTx(ctx, func(tx repo.Store) error {
		if _, err := tx.Trips().GetForShare(ctx, tripID); err != nil {
			return err
		}
		if _, err := tx.DayLogs().GetForUpdate(ctx, tripID, dayLogID); err != nil {
			return err
		}
		items, err := tx.Items().ListByDayLogID(ctx, dayLogID)
		if err != nil {
			return err
		}

		seq := pointers(items)
		if err := ordinal.Reorder(seq, itemIDs); err != nil {
			return err
		}
		return tx.Items().UpdatePositions(ctx, items)
	})
	if err != nil {
		return fmt.Errorf("service.DayLogService.ReorderItems: %w", err)
	}

	s.logger.DebugContext(ctx, "day log items reordered",
		slog.String("day_log_id", dayLogID.String()),
		slog.Int("items", len(itemIDs)),
	)
	return nil
}

// pointers returns a pointer to every element of items, so ordinal helpers can
// update the slice in place.
func pointers(items []domain.Item) []*domain.Item {
	out := make([]*domain.Item, len(items))
	for i := range items {
		out[i] = &items[i]
	}
	return out
}

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

// ItemService creates, edits and removes items while keeping each DayLog's
// item ordinals contiguous.
type ItemService struct {
	store  repo.Store
	logger *slog.Logger
}

// NewItemService constructs an ItemService backed by the provided Store.
func NewItemService(store repo.Store, logger *slog.Logger) *ItemService {
	return &ItemService{store: store, logger: logger}
}

// Create appends item to the end of its DayLog (item.DayLogID), which must
// belong to tripID. The place category is looked up by code, the expense
// category by id.
// Returns domain.ErrNotFound for an unknown DayLog or category and
// domain.ErrValidation for invalid content.
func (s *ItemService) Create(ctx context.Context, tripID uuid.UUID, item domain.Item) (domain.Item, error) {
	normalizeItem(&item)
	if err := validateItem(item); err != nil {
		return domain.Item{}, err
	}

	var result domain.Item
	err := s.store.WithinTx(ctx, func(tx repo.Store) error {
		if _, err := tx.Trips().GetForShare(ctx, tripID); err != nil {
			return err
		}
		if _, err := tx.DayLogs().GetForUpdate(ctx, tripID, item.DayLogID); err != nil {
			return err
		}
		if err := resolveCategories(ctx, tx.Categories(), &item); err != nil {
			return err
		}
		existing, err := tx.Items().ListByDayLogID(ctx, item.DayLogID)
		if err != nil {
			return err
		}

		ordinal.Append(pointers(existing), &item)
		result, err = tx.Items().Create(ctx, item)
		return err
	})
	if err != nil {
		return domain.Item{}, fmt.Errorf("service.ItemService.Create: %w", err)
	}
	return result, nil
}

// Update replaces the content of an item. Its DayLog and ordinal never change
// here; use DayLogService.ReorderItems to move it.
// Returns domain.ErrNotFound if the item does not exist under the trip.
func (s *ItemService) Update(ctx context.Context, tripID uuid.UUID, item domain.Item) (domain.Item, error) {
	normalizeItem(&item)
	if err := validateItem(item); err != nil {
		return domain.Item{}, err
	}

	var result domain.Item
	err := s.store.WithinTx(ctx, func(tx repo.Store) error {
		if _, err := tx.Trips().GetForShare(ctx, tripID); err != nil {
			return err
		}
		stored, err := tx.Items().GetByID(ctx, tripID, item.ID)
		if err != nil {
			return err
		}
		if err := resolveCategories(ctx, tx.Categories(), &item); err != nil {
			return err
		}
		item.DayLogID = stored.DayLogID
		item.Ordinal = stored.Ordinal
		result, err = tx.Items().Update(ctx, item)
		return err
	})
	if err != nil {
		return domain.Item{}, fmt.Errorf("service.ItemService.Update: %w", err)
	}
	return result, nil
}

// Delete removes an item and closes the gap it leaves, so the remaining items
// of its DayLog keep ordinals 1..N-1 in their previous relative order.
// Returns domain.ErrNotFound if the item does not exist under the trip.
func (s *ItemService) Delete(ctx context.Context, tripID, itemID uuid.UUID) error {
	err := s.store.WithinTx(ctx, func(tx repo.Store) error {
		// The trip lock comes first so a concurrent resize has either moved the
		// item already or not started yet when it is read.
		if _, err := tx.Trips().GetForShare(ctx, tripID); err != nil {
			return err
		}
		item, err := tx.Items().GetByID(ctx, tripID, itemID)
		if err != nil {
			return err
		}
		if _, err := tx.DayLogs().GetForUpdate(ctx, tripID, item.DayLogID); err != nil {
			return err
		}
		siblings, err := tx.Items().ListByDayLogID(ctx, item.DayLogID)
		if err != nil {
			return err
		}

		_, _, shifted, err := ordinal.RemoveAndCompact(pointers(siblings), itemID)
		if err != nil {
			return err
		}
		if err := tx.Items().Delete(ctx, itemID); err != nil {
			return err
		}
		if len(shifted) == 0 {
			return nil
		}
		changed := make([]domain.Item, len(shifted))
		for i, it := range shifted {
			changed[i] = *it
		}
		return tx.Items().UpdatePositions(ctx, changed)
	})
	if err != nil {
		return fmt.Errorf("service.ItemService.Delete: %w", err)
	}
	return nil
}

// resolveCategories replaces the category references on item with the stored
// categories and checks that each one has the right kind.
func resolveCategories(ctx context.Context, cats repo.CategoryRepo, item *domain.Item) error {
	if item.Place != nil {
		code := item.Place.Category.Code
		if code == "" {
			return fmt.Errorf("%w: place category code is required", domain.ErrValidation)
		}
		c, err := cats.GetByCode(ctx, code)
		if err != nil {
			return fmt.Errorf("place category %q: %w", code, err)
		}
		if c.Kind != domain.CategoryPlace {
			return fmt.Errorf("%w: category %q is not a place category", domain.ErrValidation, code)
		}
		item.Place.Category = c
	}
	if item.Expense != nil {
		id := item.Expense.Category.ID
		c, err := cats.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("expense category %d: %w", id, err)
		}
		if c.Kind != domain.CategoryExpense {
			return fmt.Errorf("%w: category %d is not an expense category", domain.ErrValidation, id)
		}
		item.Expense.Category = c
	}
	return nil
}

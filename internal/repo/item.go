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

// ItemRepo defines the persistence operations for Items.
// Place and Expense are stored inline on the item row; their categories are
// joined back on every read.
type ItemRepo interface {
	// Create inserts a new item and returns the persisted record.
	Create(ctx context.Context, item domain.Item) (domain.Item, error)

	// GetByID retrieves a single item scoped to the given trip.
	// Returns domain.ErrNotFound if no such item exists under that trip.
	GetByID(ctx context.Context, tripID, itemID uuid.UUID) (domain.Item, error)

	// ListByDayLogID returns the items of one day log ordered by ordinal.
	ListByDayLogID(ctx context.Context, dayLogID uuid.UUID) ([]domain.Item, error)

	// ListByTripID returns every item of a trip ordered by day log ordinal,
	// then item ordinal.
	ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Item, error)

	// Update overwrites the content fields of an item. Ordinal and day log are
	// left alone; use UpdatePositions for those.
	Update(ctx context.Context, item domain.Item) (domain.Item, error)

	// UpdatePositions writes DayLogID and Ordinal of every given item in a
	// single statement. Returns domain.ErrNotFound if any item is missing.
	UpdatePositions(ctx context.Context, items []domain.Item) error

	// Delete removes a single item. Closing the ordinal gap is up to the caller.
	Delete(ctx context.Context, itemID uuid.UUID) error
}

// pgItemRepo is the Postgres implementation of ItemRepo.
type pgItemRepo struct {
	db db
}

// NewItemRepo constructs an ItemRepo backed by the provided db connection.
func NewItemRepo(db db) ItemRepo {
	return &pgItemRepo{db: db}
}

const itemSelect = `
	SELECT i.id, i.day_log_id, i.item_type, i.title, i.ordinal, i.rating, i.memo,
	       i.place_name, i.place_address, i.place_latitude, i.place_longitude,
	       pc.id, pc.code, pc.name, pc.kind,
	       i.expense_currency, i.expense_amount,
	       ec.id, ec.code, ec.name, ec.kind,
	       i.created_at, i.updated_at
	FROM items i
	LEFT JOIN categories pc ON pc.id = i.place_category_id
	LEFT JOIN categories ec ON ec.id = i.expense_category_id`

func (r *pgItemRepo) Create(ctx context.Context, item domain.Item) (domain.Item, error) {
	const q = `
		INSERT INTO items (
			day_log_id, item_type, title, ordinal, rating, memo,
			place_name, place_address, place_latitude, place_longitude, place_category_id,
			expense_currency, expense_amount, expense_category_id
		) VALUES (
			@day_log_id, @item_type, @title, @ordinal, @rating, @memo,
			@place_name, @place_address, @place_latitude, @place_longitude, @place_category_id,
			@expense_currency, @expense_amount, @expense_category_id
		)
		RETURNING id`

	args := itemArgs(item)
	args["day_log_id"] = item.DayLogID
	args["ordinal"] = item.Ordinal

	var id uuid.UUID
	if err := r.db.QueryRow(ctx, q, args).Scan(&id); err != nil {
		return domain.Item{}, fmt.Errorf("repo.ItemRepo.Create: %w", err)
	}

	created, err := r.get(ctx, id)
	if err != nil {
		return domain.Item{}, fmt.Errorf("repo.ItemRepo.Create: %w", err)
	}
	return created, nil
}

func (r *pgItemRepo) GetByID(ctx context.Context, tripID, itemID uuid.UUID) (domain.Item, error) {
	const q = itemSelect + `
		JOIN day_logs d ON d.id = i.day_log_id
		JOIN trips t ON t.id = d.trip_id AND t.status = 'USABLE'
		WHERE i.id = @id AND d.trip_id = @trip_id`

	result, err := scanItem(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": itemID, "trip_id": tripID}))
	if err != nil {
		return domain.Item{}, fmt.Errorf("repo.ItemRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgItemRepo) get(ctx context.Context, id uuid.UUID) (domain.Item, error) {
	const q = itemSelect + ` WHERE i.id = @id`
	return scanItem(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
}

func (r *pgItemRepo) ListByDayLogID(ctx context.Context, dayLogID uuid.UUID) ([]domain.Item, error) {
	const q = itemSelect + `
		WHERE i.day_log_id = @day_log_id
		ORDER BY i.ordinal`

	items, err := r.list(ctx, q, pgx.NamedArgs{"day_log_id": dayLogID})
	if err != nil {
		return nil, fmt.Errorf("repo.ItemRepo.ListByDayLogID: %w", err)
	}
	return items, nil
}

func (r *pgItemRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Item, error) {
	const q = itemSelect + `
		JOIN day_logs d ON d.id = i.day_log_id
		WHERE d.trip_id = @trip_id
		ORDER BY d.ordinal, i.ordinal`

	items, err := r.list(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.ItemRepo.ListByTripID: %w", err)
	}
	return items, nil
}

func (r *pgItemRepo) list(ctx context.Context, q string, args pgx.NamedArgs) ([]domain.Item, error) {
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []domain.Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return items, nil
}

func (r *pgItemRepo) Update(ctx context.Context, item domain.Item) (domain.Item, error) {
	const q = `
		UPDATE items
		SET item_type           = @item_type,
		    title               = @title,
		    rating              = @rating,
		    memo                = @memo,
		    place_name          = @place_name,
		    place_address       = @place_address,
		    place_latitude      = @place_latitude,
		    place_longitude     = @place_longitude,
		    place_category_id   = @place_category_id,
		    expense_currency    = @expense_currency,
		    expense_amount      = @expense_amount,
		    expense_category_id = @expense_category_id,
		    updated_at          = now()
		WHERE id = @id`

	args := itemArgs(item)
	args["id"] = item.ID

	tag, err := r.db.Exec(ctx, q, args)
	if err != nil {
		return domain.Item{}, fmt.Errorf("repo.ItemRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.Item{}, fmt.Errorf("repo.ItemRepo.Update: %w", domain.ErrNotFound)
	}

	updated, err := r.get(ctx, item.ID)
	if err != nil {
		return domain.Item{}, fmt.Errorf("repo.ItemRepo.Update: %w", err)
	}
	return updated, nil
}

// UpdatePositions relies on the deferred (day_log_id, ordinal) unique
// constraint: intermediate duplicates are fine as long as the final state of
// the transaction is a clean sequence.
func (r *pgItemRepo) UpdatePositions(ctx context.Context, items []domain.Item) error {
	if len(items) == 0 {
		return nil
	}

	const q = `
		UPDATE items AS i
		SET day_log_id = v.day_log_id,
		    ordinal    = v.ordinal,
		    updated_at = now()
		FROM unnest(@ids::uuid[], @day_log_ids::uuid[], @ordinals::int[]) AS v(id, day_log_id, ordinal)
		WHERE i.id = v.id`

	ids := make([]uuid.UUID, len(items))
	dayLogIDs := make([]uuid.UUID, len(items))
	ordinals := make([]int32, len(items))
	for k, it := range items {
		ids[k] = it.ID
		dayLogIDs[k] = it.DayLogID
		ordinals[k] = int32(it.Ordinal)
	}

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"ids": ids, "day_log_ids": dayLogIDs, "ordinals": ordinals})
	if err != nil {
		return fmt.Errorf("repo.ItemRepo.UpdatePositions: %w", err)
	}
	if tag.RowsAffected() != int64(len(items)) {
		return fmt.Errorf("repo.ItemRepo.UpdatePositions: updated %d of %d: %w",
			tag.RowsAffected(), len(items), domain.ErrNotFound)
	}
	return nil
}

func (r *pgItemRepo) Delete(ctx context.Context, itemID uuid.UUID) error {
	const q = `DELETE FROM items WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": itemID})
	if err != nil {
		return fmt.Errorf("repo.ItemRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.ItemRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// itemArgs maps the content fields of an item to named args. A missing Place
// or Expense becomes NULL in every one of its columns.
func itemArgs(item domain.Item) pgx.NamedArgs {
	args := pgx.NamedArgs{
		"item_type":           string(item.Type),
		"title":               item.Title,
		"rating":              decimal.NullDecimal{},
		"memo":                item.Memo,
		"place_name":          nil,
		"place_address":       nil,
		"place_latitude":      decimal.NullDecimal{},
		"place_longitude":     decimal.NullDecimal{},
		"place_category_id":   nil,
		"expense_currency":    nil,
		"expense_amount":      decimal.NullDecimal{},
		"expense_category_id": nil,
	}
	if item.Rating != nil {
		args["rating"] = decimal.NewNullDecimal(*item.Rating)
	}
	if p := item.Place; p != nil {
		args["place_name"] = p.Name
		args["place_address"] = p.Address
		args["place_latitude"] = decimal.NewNullDecimal(p.Latitude)
		args["place_longitude"] = decimal.NewNullDecimal(p.Longitude)
		args["place_category_id"] = p.Category.ID
	}
	if e := item.Expense; e != nil {
		args["expense_currency"] = e.Currency
		args["expense_amount"] = decimal.NewNullDecimal(e.Amount)
		args["expense_category_id"] = e.Category.ID
	}
	return args
}

// scanItem maps a single row produced by itemSelect into a domain.Item.
// Place and Expense are only set when their category join matched.
func scanItem(s scanner) (domain.Item, error) {
	var (
		it       domain.Item
		id       pgtype.UUID
		dayLogID pgtype.UUID
		itemType string
		rating   decimal.NullDecimal

		placeName, placeAddress     *string
		placeLat, placeLng          decimal.NullDecimal
		placeCatID                  *int64
		placeCatCode, placeCatName  *string
		placeCatKind                *string
		expenseCurrency             *string
		expenseAmount               decimal.NullDecimal
		expenseCatID                *int64
		expenseCatCode, expenseName *string
		expenseCatKind              *string
	)

	err := s.Scan(&id, &dayLogID, &itemType, &it.Title, &it.Ordinal, &rating, &it.Memo,
		&placeName, &placeAddress, &placeLat, &placeLng,
		&placeCatID, &placeCatCode, &placeCatName, &placeCatKind,
		&expenseCurrency, &expenseAmount,
		&expenseCatID, &expenseCatCode, &expenseName, &expenseCatKind,
		&it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return domain.Item{}, notFound(err)
	}

	it.ID = uuid.UUID(id.Bytes)
	it.DayLogID = uuid.UUID(dayLogID.Bytes)
	it.Type = domain.ItemType(itemType)
	if rating.Valid {
		r := rating.Decimal
		it.Rating = &r
	}
	if placeCatID != nil {
		it.Place = &domain.Place{
			Name:      deref(placeName),
			Address:   deref(placeAddress),
			Latitude:  placeLat.Decimal,
			Longitude: placeLng.Decimal,
			Category: domain.Category{
				ID:   *placeCatID,
				Code: deref(placeCatCode),
				Name: deref(placeCatName),
				Kind: domain.CategoryKind(deref(placeCatKind)),
			},
		}
	}
	if expenseCatID != nil {
		it.Expense = &domain.Expense{
			Currency: deref(expenseCurrency),
			Amount:   expenseAmount.Decimal,
			Category: domain.Category{
				ID:   *expenseCatID,
				Code: deref(expenseCatCode),
				Name: deref(expenseName),
				Kind: domain.CategoryKind(deref(expenseCatKind)),
			},
		}
	}
	return it, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pkordes/hanglog/internal/domain"
)

// CategoryRepo provides read access to the seeded category reference data.
type CategoryRepo interface {
	// GetByID returns a category by id. Returns domain.ErrNotFound if unknown.
	GetByID(ctx context.Context, id int64) (domain.Category, error)

	// GetByCode returns a category by its external code.
	// Returns domain.ErrNotFound if unknown.
	GetByCode(ctx context.Context, code string) (domain.Category, error)

	// List returns all categories of the given kind ordered by id.
	// An empty kind returns every category.
	List(ctx context.Context, kind domain.CategoryKind) ([]domain.Category, error)
}

// pgCategoryRepo is the Postgres implementation of CategoryRepo.
type pgCategoryRepo struct {
	db db
}

// NewCategoryRepo constructs a CategoryRepo backed by the provided db connection.
func NewCategoryRepo(db db) CategoryRepo {
	return &pgCategoryRepo{db: db}
}

func (r *pgCategoryRepo) GetByID(ctx context.Context, id int64) (domain.Category, error) {
	const q = `SELECT id, code, name, kind FROM categories WHERE id = @id`

	c, err := scanCategory(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Category{}, fmt.Errorf("repo.CategoryRepo.GetByID: %w", err)
	}
	return c, nil
}

func (r *pgCategoryRepo) GetByCode(ctx context.Context, code string) (domain.Category, error) {
	const q = `SELECT id, code, name, kind FROM categories WHERE code = @code`

	c, err := scanCategory(r.db.QueryRow(ctx, q, pgx.NamedArgs{"code": code}))
	if err != nil {
		return domain.Category{}, fmt.Errorf("repo.CategoryRepo.GetByCode: %w", err)
	}
	return c, nil
}

func (r *pgCategoryRepo) List(ctx context.Context, kind domain.CategoryKind) ([]domain.Category, error) {
	const q = `
		SELECT id, code, name, kind
		FROM categories
		WHERE @kind::text = '' OR kind = @kind::text
		ORDER BY id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"kind": string(kind)})
	if err != nil {
		return nil, fmt.Errorf("repo.CategoryRepo.List: %w", err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.CategoryRepo.List: scan: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.CategoryRepo.List: rows: %w", err)
	}
	return categories, nil
}

func scanCategory(s scanner) (domain.Category, error) {
	var (
		c    domain.Category
		kind string
	)
	if err := s.Scan(&c.ID, &c.Code, &c.Name, &kind); err != nil {
		return domain.Category{}, notFound(err)
	}
	c.Kind = domain.CategoryKind(kind)
	return c, nil
}

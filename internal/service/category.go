package service

import (
	"context"
	"fmt"

	"github.com/pkordes/hanglog/internal/domain"
	"github.com/pkordes/hanglog/internal/repo"
)

// CategoryService exposes the seeded place and expense categories.
type CategoryService struct {
	categories repo.CategoryRepo
}

// NewCategoryService constructs a CategoryService reading from the provided repo.
func NewCategoryService(categories repo.CategoryRepo) *CategoryService {
	return &CategoryService{categories: categories}
}

// List returns the categories of one kind, or all of them when kind is empty.
func (s *CategoryService) List(ctx context.Context, kind domain.CategoryKind) ([]domain.Category, error) {
	switch kind {
	case "", domain.CategoryPlace, domain.CategoryExpense:
	default:
		return nil, fmt.Errorf("%w: unknown category kind %q", domain.ErrValidation, kind)
	}
	cats, err := s.categories.List(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("service.CategoryService.List: %w", err)
	}
	if cats == nil {
		cats = []domain.Category{}
	}
	return cats, nil
}

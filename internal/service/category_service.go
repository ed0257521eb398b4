package service

import (
	"context"
	"errors"

	"catalog-api/internal/apperror"
	"catalog-api/internal/domain"
	"catalog-api/internal/repository"
)

// CategoryService exposes read access to categories
type CategoryService interface {
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	GetCategory(ctx context.Context, id int64) (*domain.Category, error)
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

// NewCategoryService creates a new instance of CategoryService
func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, apperror.Internal("failed to list categories", err)
	}
	return categories, nil
}

func (s *categoryService) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	if id <= 0 {
		return nil, apperror.InvalidArgument(msgCategoryIDRequired)
	}

	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, apperror.NotFound(apperror.EntityCategory, msgCategoryNotFound)
		}
		return nil, apperror.Internal("failed to find category", err)
	}
	return category, nil
}

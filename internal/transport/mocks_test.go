package transport

import (
	"context"
	"net/http"

	"catalog-api/internal/domain"
	"catalog-api/internal/repository"
	"catalog-api/internal/service"
)

type stubProductService struct {
	getFn    func(ctx context.Context, id int64) (domain.ProductDTO, error)
	listFn   func(ctx context.Context, filter repository.ProductFilter) ([]domain.ProductDTO, error)
	createFn func(ctx context.Context, dto domain.ProductDTO) (domain.ProductDTO, error)
	updateFn func(ctx context.Context, id int64, dto domain.ProductDTO) (domain.ProductDTO, error)
	deleteFn func(ctx context.Context, id int64) error

	calls int
}

func (s *stubProductService) GetProduct(ctx context.Context, id int64) (domain.ProductDTO, error) {
	s.calls++
	return s.getFn(ctx, id)
}

func (s *stubProductService) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]domain.ProductDTO, error) {
	s.calls++
	return s.listFn(ctx, filter)
}

func (s *stubProductService) CreateProduct(ctx context.Context, dto domain.ProductDTO) (domain.ProductDTO, error) {
	s.calls++
	return s.createFn(ctx, dto)
}

func (s *stubProductService) UpdateProduct(ctx context.Context, id int64, dto domain.ProductDTO) (domain.ProductDTO, error) {
	s.calls++
	return s.updateFn(ctx, id, dto)
}

func (s *stubProductService) DeleteProduct(ctx context.Context, id int64) error {
	s.calls++
	return s.deleteFn(ctx, id)
}

type stubCategoryService struct {
	categories []*domain.Category
	err        error
}

func (s *stubCategoryService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.categories, s.err
}

func (s *stubCategoryService) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, c := range s.categories {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, errCategoryNotFound
}

type stubAuthService struct {
	result *domain.LoginResult
	err    error
	calls  int
}

func (s *stubAuthService) Authenticate(ctx context.Context, username, password string) (*domain.LoginResult, error) {
	s.calls++
	return s.result, s.err
}

func (s *stubAuthService) ValidateToken(tokenString string) (*service.Claims, error) {
	return nil, service.ErrInvalidToken
}

func passthrough(next http.Handler) http.Handler {
	return next
}

package service

import (
	"context"
	"errors"
	"math"
	"strings"

	"catalog-api/internal/apperror"
	"catalog-api/internal/domain"
	"catalog-api/internal/logger"
	"catalog-api/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	msgProductIDRequired  = "product id is required"
	msgProductNotFound    = "product not found"
	msgCategoryIDRequired = "category id is required"
	msgCategoryNotFound   = "category not found"
	msgCreatorIDRequired  = "created by id is required"
	msgUserNotFound       = "user not found"
	msgNameRequired       = "product name is required"
	msgDuplicateName      = "product name already exists"
	msgNegativePrice      = "price must be greater than or equal to 0"
	msgPriceScale         = "price must have at most 2 decimal places"
	msgPriceTooLarge      = "price must be less than 10^17"
	msgNegativeQuantity   = "quantity must be greater than or equal to 0"
	msgQuantityTooLarge   = "quantity must be less than or equal to 2147483647"
)

// Bounds of the products.price NUMERIC(19, 2) column
const priceScale = 2

var priceLimit = decimal.New(1, 17)

// ProductService defines the interface for product business logic
type ProductService interface {
	GetProduct(ctx context.Context, id int64) (domain.ProductDTO, error)
	ListProducts(ctx context.Context, filter repository.ProductFilter) ([]domain.ProductDTO, error)
	CreateProduct(ctx context.Context, dto domain.ProductDTO) (domain.ProductDTO, error)
	UpdateProduct(ctx context.Context, id int64, dto domain.ProductDTO) (domain.ProductDTO, error)
	DeleteProduct(ctx context.Context, id int64) error
}

type productService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	userRepo     repository.UserRepository
	logger       *zap.Logger
}

// NewProductService creates a new instance of ProductService
func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	userRepo repository.UserRepository,
	logger *zap.Logger,
) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		userRepo:     userRepo,
		logger:       logger,
	}
}

// GetProduct returns a single product projected to its transfer shape
func (s *productService) GetProduct(ctx context.Context, id int64) (domain.ProductDTO, error) {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return domain.ProductDTO{}, s.fail("Get product failed", err, zap.Int64("product_id", id))
	}
	return product.ToDTO(), nil
}

// ListProducts returns every product in store order. An empty store yields an empty slice.
func (s *productService) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]domain.ProductDTO, error) {
	products, err := s.productRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, s.fail("List products failed", apperror.Internal("failed to list products", err))
	}

	dtos := make([]domain.ProductDTO, 0, len(products))
	for _, p := range products {
		dtos = append(dtos, p.ToDTO())
	}
	return dtos, nil
}

// CreateProduct validates references, amounts and name uniqueness, in that
// order, and persists a new product.
func (s *productService) CreateProduct(ctx context.Context, dto domain.ProductDTO) (domain.ProductDTO, error) {
	category, err := s.resolveCategory(ctx, dto.CategoryID)
	if err != nil {
		return domain.ProductDTO{}, s.fail("Create product rejected", err)
	}

	creator, err := s.resolveUser(ctx, dto.CreatedByID)
	if err != nil {
		return domain.ProductDTO{}, s.fail("Create product rejected", err)
	}

	if err := validateAmounts(dto); err != nil {
		return domain.ProductDTO{}, s.fail("Create product rejected", err)
	}

	if dto.Name == nil || strings.TrimSpace(*dto.Name) == "" {
		return domain.ProductDTO{}, s.fail("Create product rejected", apperror.InvalidArgument(msgNameRequired))
	}
	if err := s.ensureNameAvailable(ctx, *dto.Name, 0); err != nil {
		return domain.ProductDTO{}, s.fail("Create product rejected", err)
	}

	product := &domain.Product{
		Name:      *dto.Name,
		Category:  category,
		CreatedBy: creator,
	}
	if dto.Price != nil {
		product.Price = *dto.Price
	}
	if dto.Quantity != nil {
		product.Quantity = *dto.Quantity
	}

	saved, err := s.productRepo.Save(ctx, product)
	if err != nil {
		return domain.ProductDTO{}, s.fail("Create product failed", mapSaveError(err))
	}

	s.logger.Info("Product created",
		zap.Int64("product_id", saved.ID),
		zap.String("name", saved.Name),
	)
	return saved.ToDTO(), nil
}

// UpdateProduct applies the fields present in dto to an existing product.
// Absent fields keep their value; createdById is ignored because the creator never changes.
func (s *productService) UpdateProduct(ctx context.Context, id int64, dto domain.ProductDTO) (domain.ProductDTO, error) {
	current, err := s.findProduct(ctx, id)
	if err != nil {
		return domain.ProductDTO{}, s.fail("Update product rejected", err, zap.Int64("product_id", id))
	}
	// Mutate a copy so a rejected update leaves the loaded record untouched
	product := *current

	if dto.CategoryID != nil {
		category, err := s.resolveCategory(ctx, dto.CategoryID)
		if err != nil {
			return domain.ProductDTO{}, s.fail("Update product rejected", err, zap.Int64("product_id", id))
		}
		product.Category = category
	}

	if err := validateAmounts(dto); err != nil {
		return domain.ProductDTO{}, s.fail("Update product rejected", err, zap.Int64("product_id", id))
	}

	if dto.Name != nil {
		if strings.TrimSpace(*dto.Name) == "" {
			return domain.ProductDTO{}, s.fail("Update product rejected",
				apperror.InvalidArgument(msgNameRequired), zap.Int64("product_id", id))
		}
		if err := s.ensureNameAvailable(ctx, *dto.Name, product.ID); err != nil {
			return domain.ProductDTO{}, s.fail("Update product rejected", err, zap.Int64("product_id", id))
		}
		product.Name = *dto.Name
	}
	if dto.Price != nil {
		product.Price = *dto.Price
	}
	if dto.Quantity != nil {
		product.Quantity = *dto.Quantity
	}

	saved, err := s.productRepo.Save(ctx, &product)
	if err != nil {
		return domain.ProductDTO{}, s.fail("Update product failed", mapSaveError(err), zap.Int64("product_id", id))
	}

	s.logger.Info("Product updated", zap.Int64("product_id", saved.ID))
	return saved.ToDTO(), nil
}

// DeleteProduct removes a product. Category and creator are untouched.
func (s *productService) DeleteProduct(ctx context.Context, id int64) error {
	if id <= 0 {
		return s.fail("Delete product rejected", apperror.InvalidArgument(msgProductIDRequired))
	}

	exists, err := s.productRepo.ExistsByID(ctx, id)
	if err != nil {
		return s.fail("Delete product failed", apperror.Internal("failed to check product", err))
	}
	if !exists {
		return s.fail("Delete product rejected",
			apperror.NotFound(apperror.EntityProduct, msgProductNotFound), zap.Int64("product_id", id))
	}

	if err := s.productRepo.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return s.fail("Delete product rejected",
				apperror.NotFound(apperror.EntityProduct, msgProductNotFound), zap.Int64("product_id", id))
		}
		return s.fail("Delete product failed", apperror.Internal("failed to delete product", err))
	}

	s.logger.Info("Product deleted", zap.Int64("product_id", id))
	return nil
}

func (s *productService) findProduct(ctx context.Context, id int64) (*domain.Product, error) {
	if id <= 0 {
		return nil, apperror.InvalidArgument(msgProductIDRequired)
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, apperror.NotFound(apperror.EntityProduct, msgProductNotFound)
		}
		return nil, apperror.Internal("failed to find product", err)
	}
	return product, nil
}

func (s *productService) resolveCategory(ctx context.Context, id *int64) (*domain.Category, error) {
	if id == nil || *id <= 0 {
		return nil, apperror.InvalidArgument(msgCategoryIDRequired)
	}

	category, err := s.categoryRepo.FindByID(ctx, *id)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, apperror.NotFound(apperror.EntityCategory, msgCategoryNotFound)
		}
		return nil, apperror.Internal("failed to find category", err)
	}
	return category, nil
}

func (s *productService) resolveUser(ctx context.Context, id *int64) (*domain.User, error) {
	if id == nil || *id <= 0 {
		return nil, apperror.InvalidArgument(msgCreatorIDRequired)
	}

	user, err := s.userRepo.FindByID(ctx, *id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.NotFound(apperror.EntityUser, msgUserNotFound)
		}
		return nil, apperror.Internal("failed to find user", err)
	}
	return user, nil
}

// ensureNameAvailable fails when another product already uses name.
// ownerID is the product being renamed, 0 on create.
func (s *productService) ensureNameAvailable(ctx context.Context, name string, ownerID int64) error {
	existing, err := s.productRepo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil
		}
		return apperror.Internal("failed to check product name", err)
	}
	if existing.ID != ownerID {
		return apperror.Conflict(apperror.EntityDuplicateName, msgDuplicateName)
	}
	return nil
}

// validateAmounts rejects values the products table cannot store exactly
func validateAmounts(dto domain.ProductDTO) error {
	if dto.Price != nil {
		switch price := *dto.Price; {
		case price.IsNegative():
			return apperror.InvalidArgument(msgNegativePrice)
		case !price.Equal(price.Truncate(priceScale)):
			return apperror.InvalidArgument(msgPriceScale)
		case price.GreaterThanOrEqual(priceLimit):
			return apperror.InvalidArgument(msgPriceTooLarge)
		}
	}
	if dto.Quantity != nil {
		switch {
		case *dto.Quantity < 0:
			return apperror.InvalidArgument(msgNegativeQuantity)
		case int64(*dto.Quantity) > math.MaxInt32:
			return apperror.InvalidArgument(msgQuantityTooLarge)
		}
	}
	return nil
}

// mapSaveError translates store-level constraint failures. The store's unique
// index catches a name race that slipped past ensureNameAvailable.
func mapSaveError(err error) error {
	switch {
	case errors.Is(err, repository.ErrDuplicateProductName):
		return apperror.Conflict(apperror.EntityDuplicateName, msgDuplicateName)
	case errors.Is(err, repository.ErrProductNotFound):
		return apperror.NotFound(apperror.EntityProduct, msgProductNotFound)
	case errors.Is(err, repository.ErrCategoryNotFound):
		return apperror.NotFound(apperror.EntityCategory, msgCategoryNotFound)
	case errors.Is(err, repository.ErrUserNotFound):
		return apperror.NotFound(apperror.EntityUser, msgUserNotFound)
	default:
		return apperror.Internal("failed to save product", err)
	}
}

func (s *productService) fail(msg string, err error, fields ...zap.Field) error {
	fields = append(fields, logger.ErrorFields(err)...)
	if apperror.KindOf(err) == apperror.KindInternal {
		s.logger.Error(msg, fields...)
	} else {
		s.logger.Debug(msg, fields...)
	}
	return err
}

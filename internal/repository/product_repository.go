package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"catalog-api/internal/domain"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
)

var (
	ErrProductNotFound      = errors.New("product not found")
	ErrDuplicateProductName = errors.New("product with this name already exists")
)

const (
	productsNameKey       = "products_name_key"
	productsCategoryFKey  = "fk_products_category"
	productsCreatedByFKey = "fk_products_created_by"
)

// ProductFilter narrows FindAll. A nil field applies no filter.
type ProductFilter struct {
	CategoryID *int64
}

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	FindByName(ctx context.Context, name string) (*domain.Product, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	FindAll(ctx context.Context, filter ProductFilter) ([]*domain.Product, error)
	// Save inserts the product when its ID is zero and assigns the new ID,
	// otherwise it overwrites the row with the same ID.
	Save(ctx context.Context, product *domain.Product) (*domain.Product, error)
	DeleteByID(ctx context.Context, id int64) error
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

func selectProducts() squirrel.SelectBuilder {
	return psql.Select(
		"p.id", "p.name", "p.price", "p.quantity", "p.created_at", "p.updated_at",
		"c.id", "c.name", "c.created_at",
		"u.id", "u.username", "u.locked", "u.created_at",
	).
		From("products p").
		Join("categories c ON c.id = p.category_id").
		Join("users u ON u.id = p.created_by_id")
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	product := &domain.Product{Category: &domain.Category{}, CreatedBy: &domain.User{}}
	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Price,
		&product.Quantity,
		&product.CreatedAt,
		&product.UpdatedAt,
		&product.Category.ID,
		&product.Category.Name,
		&product.Category.CreatedAt,
		&product.CreatedBy.ID,
		&product.CreatedBy.Username,
		&product.CreatedBy.Locked,
		&product.CreatedBy.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (r *productRepository) findOne(ctx context.Context, builder squirrel.SelectBuilder, what string) (*domain.Product, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build product query: %w", err)
	}

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by %s: %w", what, err)
	}

	return product, nil
}

// FindByID retrieves a product with its category and creator
func (r *productRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	return r.findOne(ctx, selectProducts().Where(squirrel.Eq{"p.id": id}), "ID")
}

// FindByName retrieves a product by its exact, case-sensitive name
func (r *productRepository) FindByName(ctx context.Context, name string) (*domain.Product, error) {
	return r.findOne(ctx, selectProducts().Where(squirrel.Eq{"p.name": name}), "name")
}

// ExistsByID reports whether a product with the given ID exists
func (r *productRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check product existence: %w", err)
	}
	return exists, nil
}

// FindAll lists products in insertion order
func (r *productRepository) FindAll(ctx context.Context, filter ProductFilter) ([]*domain.Product, error) {
	builder := selectProducts().OrderBy("p.id ASC")
	if filter.CategoryID != nil {
		builder = builder.Where(squirrel.Eq{"p.category_id": *filter.CategoryID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build product list query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// Save inserts or overwrites a product. The unique name constraint is the
// final arbiter between concurrent writers.
func (r *productRepository) Save(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if product.Category == nil || product.CreatedBy == nil {
		return nil, fmt.Errorf("failed to save product: category and creator are required")
	}

	if product.ID == 0 {
		return r.insert(ctx, product)
	}
	return r.update(ctx, product)
}

func (r *productRepository) insert(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	query, args, err := psql.Insert("products").
		Columns("name", "price", "quantity", "category_id", "created_by_id").
		Values(product.Name, product.Price, product.Quantity, product.Category.ID, product.CreatedBy.ID).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build insert query: %w", err)
	}

	err = r.db.QueryRowContext(ctx, query, args...).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return nil, mapWriteError("create", err)
	}

	return product, nil
}

func (r *productRepository) update(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	query, args, err := psql.Update("products").
		Set("name", product.Name).
		Set("price", product.Price).
		Set("quantity", product.Quantity).
		Set("category_id", product.Category.ID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": product.ID}).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update query: %w", err)
	}

	err = r.db.QueryRowContext(ctx, query, args...).Scan(&product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, mapWriteError("update", err)
	}

	return product, nil
}

// DeleteByID removes a product
func (r *productRepository) DeleteByID(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

func mapWriteError(op string, err error) error {
	if isUniqueViolation(err, productsNameKey) {
		return ErrDuplicateProductName
	}
	if constraint, ok := constraintViolation(err, pgerrcode.ForeignKeyViolation); ok {
		switch constraint {
		case productsCategoryFKey:
			return ErrCategoryNotFound
		case productsCreatedByFKey:
			return ErrUserNotFound
		}
	}
	return fmt.Errorf("failed to %s product: %w", op, err)
}

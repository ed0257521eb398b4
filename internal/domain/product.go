package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a product in the catalog
type Product struct {
	ID        int64           `json:"id" db:"id"`
	Name      string          `json:"name" db:"name"`
	Price     decimal.Decimal `json:"price" db:"price"`
	Quantity  int             `json:"quantity" db:"quantity"`
	Category  *Category       `json:"category" db:"-"`
	CreatedBy *User           `json:"created_by" db:"-"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
}

// Category represents a product category
type Category struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// User is an account that can sign in and own created products
type User struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Locked       bool      `json:"locked" db:"locked"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// ProductDTO is the boundary shape of a Product. A nil field means "not supplied":
// unchanged on update, default on create.
type ProductDTO struct {
	ID          *int64           `json:"id,omitempty"`
	Name        *string          `json:"name,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Quantity    *int             `json:"quantity,omitempty"`
	CategoryID  *int64           `json:"categoryId,omitempty"`
	CreatedByID *int64           `json:"createdById,omitempty"`
}

// ToDTO projects a Product to its transfer shape
func (p *Product) ToDTO() ProductDTO {
	dto := ProductDTO{
		ID:       Ptr(p.ID),
		Name:     Ptr(p.Name),
		Price:    Ptr(p.Price),
		Quantity: Ptr(p.Quantity),
	}
	if p.Category != nil {
		dto.CategoryID = Ptr(p.Category.ID)
	}
	if p.CreatedBy != nil {
		dto.CreatedByID = Ptr(p.CreatedBy.ID)
	}
	return dto
}

// LoginResult is returned by a successful authentication
type LoginResult struct {
	Message string `json:"message"`
	Token   string `json:"token,omitempty"`
}

// Ptr returns a pointer to a copy of v
func Ptr[T any](v T) *T {
	return &v
}

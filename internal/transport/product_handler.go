package transport

import (
	"net/http"

	"catalog-api/internal/apperror"
	"catalog-api/internal/domain"
	"catalog-api/internal/middleware"
	"catalog-api/internal/repository"
	"catalog-api/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductRequest is the create/update payload. Omitted fields stay nil.
type ProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,max=255"`
	Price       *decimal.Decimal `json:"price"`
	Quantity    *int             `json:"quantity"`
	CategoryID  *int64           `json:"categoryId"`
	CreatedByID *int64           `json:"createdById"`
}

func (req ProductRequest) toDTO() domain.ProductDTO {
	return domain.ProductDTO{
		Name:        req.Name,
		Price:       req.Price,
		Quantity:    req.Quantity,
		CategoryID:  req.CategoryID,
		CreatedByID: req.CreatedByID,
	}
}

// ProductHandler handles HTTP requests for product operations
type ProductHandler struct {
	productService service.ProductService
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// RegisterRoutes registers all product routes
func (h *ProductHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/products", func(r chi.Router) {
		// Public routes
		r.Get("/", h.ListProducts)
		r.Get("/{id}", h.GetProduct)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Post("/", h.CreateProduct)
			r.Put("/{id}", h.UpdateProduct)
			r.Delete("/{id}", h.DeleteProduct)
		})
	})
}

// ListProducts handles listing products, optionally narrowed by ?categoryId=
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	categoryID, err := queryID(r, "categoryId", "invalid category id")
	if err != nil {
		middleware.RespondWithAppError(w, r, h.logger, err)
		return
	}

	products, err := h.productService.ListProducts(r.Context(), repository.ProductFilter{CategoryID: categoryID})
	if err != nil {
		middleware.RespondWithAppError(w, r, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// GetProduct handles fetching a single product
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "product id is required")
	if err != nil {
		middleware.RespondWithAppError(w, r, h.logger, err)
		return
	}

	product, err := h.productService.GetProduct(r.Context(), id)
	if err != nil {
		middleware.RespondWithAppError(w, r, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// CreateProduct handles product creation. The authenticated user becomes the
// creator when the payload names none.
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeProduct(w, r)
	if !ok {
		return
	}

	if req.CreatedByID == nil {
		if userID, ok := middleware.GetUserID(r.Context()); ok {
			req.CreatedByID = &userID
		}
	}

	product, err := h.productService.CreateProduct(r.Context(), req.toDTO())
	if err != nil {
		middleware.RespondWithAppError(w, r, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

// UpdateProduct handles partial product updates
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "product id is required")
	if err != nil {
		middleware.RespondWithAppError(w, r, h.logger, err)
		return
	}

	req, ok := h.decodeProduct(w, r)
	if !ok {
		return
	}

	product, err := h.productService.UpdateProduct(r.Context(), id, req.toDTO())
	if err != nil {
		middleware.RespondWithAppError(w, r, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// DeleteProduct handles product removal
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "product id is required")
	if err != nil {
		middleware.RespondWithAppError(w, r, h.logger, err)
		return
	}

	if err := h.productService.DeleteProduct(r.Context(), id); err != nil {
		middleware.RespondWithAppError(w, r, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ProductHandler) decodeProduct(w http.ResponseWriter, r *http.Request) (ProductRequest, bool) {
	var req ProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Product request validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return req, false
		}

		middleware.RespondWithAppError(w, r, h.logger, apperror.InvalidArgument("invalid request body"))
		return req, false
	}
	return req, true
}

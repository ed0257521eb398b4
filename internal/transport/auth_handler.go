package transport

import (
	"net/http"

	"catalog-api/internal/apperror"
	"catalog-api/internal/domain"
	"catalog-api/internal/middleware"
	"catalog-api/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// LoginRequest represents the login request payload
type LoginRequest struct {
	Username string `json:"username" validate:"required,notblank,min=3,max=50"`
	Password string `json:"password" validate:"required,notblank,min=6,max=255"`
}

// AuthHandler handles sign-in. Its responses are always {message, token?}.
type AuthHandler struct {
	authService service.AuthService
	logger      *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// RegisterRoutes registers the auth routes. loginLimiter wraps the login endpoint only.
func (h *AuthHandler) RegisterRoutes(r chi.Router, loginLimiter func(http.Handler) http.Handler) {
	r.Route("/api/auth", func(r chi.Router) {
		r.With(loginLimiter).Post("/login", h.Login)
	})
}

// Login handles user authentication
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Login validation failed", zap.Error(err))

		message := middleware.FirstValidationMessage(err)
		if message == "" {
			message = "invalid request body"
		}
		middleware.RespondWithJSON(w, http.StatusUnauthorized, domain.LoginResult{Message: message})
		return
	}

	result, err := h.authService.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if apperror.KindOf(err) == apperror.KindInternal {
			h.logger.Error("Login failed", zap.Error(err))
			middleware.RespondWithJSON(w, http.StatusInternalServerError,
				domain.LoginResult{Message: apperror.PublicMessage(err)})
			return
		}

		h.logger.Debug("Login rejected", zap.Error(err))
		middleware.RespondWithJSON(w, http.StatusUnauthorized, domain.LoginResult{Message: apperror.PublicMessage(err)})
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, result)
}

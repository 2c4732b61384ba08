package transport

import (
	"errors"
	"net/http"
	"time"

	"wahret-zmen/internal/middleware"
	"wahret-zmen/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// LoginRequest represents the admin login payload
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// AdminHandler handles the dashboard login and totals
type AdminHandler struct {
	auth      service.AuthService
	dashboard service.DashboardService
	logger    *zap.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(auth service.AuthService, dashboard service.DashboardService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{auth: auth, dashboard: dashboard, logger: logger}
}

// RegisterRoutes registers the admin routes; loginLimiter wraps login and
// adminMiddleware guards the dashboard totals.
func (h *AdminHandler) RegisterRoutes(r chi.Router, loginLimiter func(http.Handler) http.Handler, adminMiddleware ...func(http.Handler) http.Handler) {
	r.Route("/api/admin", func(r chi.Router) {
		r.With(loginLimiter).Post("/login", h.Login)
		r.With(adminMiddleware...).Get("/stats", h.Stats)
	})
}

// Stats returns the product, order and sales totals
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboard.Stats(r.Context())
	if err != nil {
		h.logger.Error("Failed to load dashboard stats", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to load dashboard stats")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, stats)
}

// Login handles admin authentication
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Login validation failed", zap.Error(err))
		middleware.RespondWithDecodeError(w, err)
		return
	}

	token, expiresAt, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.logger.Warn("Admin login rejected", zap.String("username", req.Username))
			middleware.RespondWithError(w, http.StatusUnauthorized, "invalid username or password")
			return
		}
		h.logger.Error("Admin login failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to login")
		return
	}

	h.logger.Info("Admin logged in", zap.String("username", req.Username))
	middleware.RespondWithJSON(w, http.StatusOK, LoginResponse{Token: token, ExpiresAt: expiresAt})
}

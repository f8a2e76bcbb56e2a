package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/mt5crm/backoffice/internal/middleware"
	"github.com/mt5crm/backoffice/internal/models"
	"github.com/mt5crm/backoffice/internal/services"
)

type AuthService interface {
	Authenticate(ctx context.Context, username, password string) (*models.Operator, error)
	IssueToken(op *models.Operator) (string, time.Time, error)
	Revoke(ctx context.Context, claims *services.OperatorClaims) error
}

// MeResponse describes the authenticated operator.
type MeResponse struct {
	ID        int64     `json:"id" example:"1"`
	Username  string    `json:"username" example:"jane"`
	Name      string    `json:"name" example:"Jane Doe"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type AuthHandler struct {
	service   AuthService
	validator *services.ValidationHelper
	logger    *zap.Logger
}

func NewAuthHandler(service AuthService, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{
		service:   service,
		validator: services.NewValidationHelper(),
		logger:    logger.With(zap.String("component", "auth")),
	}
}

// Login handles operator login
// @Summary Operator login
// @Description Authenticate a back-office operator and return a JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body services.LoginRequest true "Login credentials"
// @Success 200 {object} services.AuthResponse
// @Failure 400 {object} services.ErrorResponse
// @Failure 401 {object} services.ErrorResponse
// @Failure 500 {object} services.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("login attempt", zap.String("remote_addr", r.RemoteAddr))

	var req services.LoginRequest
	if err := services.DecodeJSONBody(w, r, &req); err != nil {
		sendBodyError(w, err)
		return
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		services.SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	op, err := h.service.Authenticate(r.Context(), req.Username, req.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		services.SendErrorResponse(w, "Invalid credentials", http.StatusUnauthorized, nil)
		return
	}
	if err != nil {
		h.logger.Error("login failed", zap.String("username", req.Username), zap.Error(err))
		services.SendErrorResponse(w, "Internal server error", http.StatusInternalServerError, nil)
		return
	}

	token, expiresAt, err := h.service.IssueToken(op)
	if err != nil {
		h.logger.Error("token generation failed", zap.Int64("operator_id", op.ID), zap.Error(err))
		services.SendErrorResponse(w, "Failed to generate token", http.StatusInternalServerError, nil)
		return
	}

	h.logger.Info("login successful", zap.Int64("operator_id", op.ID))
	services.WriteJSON(w, http.StatusOK, services.AuthResponse{Token: token, ExpiresAt: expiresAt, Operator: *op})
}

// Logout handles operator logout
// @Summary Logout operator
// @Description Revoke the current token until it expires
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string "Logout successful"
// @Failure 401 {object} services.ErrorResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.OperatorFromContext(r.Context())
	if !ok {
		services.SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
		return
	}

	if err := h.service.Revoke(r.Context(), claims); err != nil {
		h.logger.Warn("failed to blacklist token", zap.String("username", claims.Username), zap.Error(err))
	}

	services.WriteJSON(w, http.StatusOK, map[string]string{"message": "Logout successful"})
}

// Me returns the authenticated operator
// @Summary Current operator
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MeResponse
// @Failure 401 {object} services.ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.OperatorFromContext(r.Context())
	if !ok {
		services.SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
		return
	}
	services.WriteJSON(w, http.StatusOK, MeResponse{
		ID:        claims.OperatorID,
		Username:  claims.Username,
		Name:      claims.Name,
		ExpiresAt: claims.ExpiresAt,
	})
}

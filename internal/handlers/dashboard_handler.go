package handlers

import (
	"context"
	"net/http"

	"github.com/mt5crm/backoffice/internal/models"
	"github.com/mt5crm/backoffice/internal/services"
)

type DashboardService interface {
	PendingSummary(ctx context.Context) (*models.DashboardSummary, error)
	TotalUsers(ctx context.Context) (int64, error)
}

// UsersResponse carries the live MT5 account count.
type UsersResponse struct {
	Total int64 `json:"total" example:"1250"`
}

type DashboardHandler struct {
	service DashboardService
}

func NewDashboardHandler(service DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// PendingSummary returns pending counts
// @Summary Pending requests summary
// @Description Pending count and the three most recently updated pending requests, per pipeline
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.DashboardSummary
// @Failure 503 {object} services.ErrorResponse
// @Router /dashboard/pending [get]
func (h *DashboardHandler) PendingSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.PendingSummary(r.Context())
	if err != nil {
		sendListError(w, err)
		return
	}
	services.WriteJSON(w, http.StatusOK, summary)
}

// TotalUsers returns the live account count
// @Summary Total users
// @Description Count MT5 accounts outside the manager and demo groups
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UsersResponse
// @Failure 503 {object} services.ErrorResponse
// @Router /dashboard/users [get]
func (h *DashboardHandler) TotalUsers(w http.ResponseWriter, r *http.Request) {
	total, err := h.service.TotalUsers(r.Context())
	if err != nil {
		sendListError(w, err)
		return
	}
	services.WriteJSON(w, http.StatusOK, UsersResponse{Total: total})
}

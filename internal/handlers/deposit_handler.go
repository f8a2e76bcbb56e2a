package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/mt5crm/backoffice/internal/models"
	"github.com/mt5crm/backoffice/internal/services"
)

// DepositService is the part of *services.DepositService the handler uses.
type DepositService interface {
	ListDeposits(ctx context.Context, page models.PageRequest) (*models.DepositPage, error)
	ApproveDeposit(ctx context.Context, id int64, comment string) models.ActionResult
	RejectDeposit(ctx context.Context, id int64, comment string) models.ActionResult
}

// DepositListResponse is one page of deposit receipts.
type DepositListResponse struct {
	Requests []models.DepositRequest `json:"requests"`
	Pagination
}

// DepositActionRequest is the optional body of a deposit approve/reject.
type DepositActionRequest struct {
	Comment string `json:"comment" validate:"max=255" example:"Deposit_BO"`
}

type DepositHandler struct {
	service     DepositService
	validator   *services.ValidationHelper
	pageSize    int
	maxPageSize int
	logger      *zap.Logger
}

func NewDepositHandler(service DepositService, pageSize, maxPageSize int, logger *zap.Logger) *DepositHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DepositHandler{
		service:     service,
		validator:   services.NewValidationHelper(),
		pageSize:    pageSize,
		maxPageSize: maxPageSize,
		logger:      logger,
	}
}

// ListDeposits lists deposit receipts
// @Summary List deposit requests
// @Description Page through deposit receipts, newest first. A page past the end returns the last page.
// @Tags deposits
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Rows per page" default(6)
// @Success 200 {object} DepositListResponse
// @Failure 401 {object} services.ErrorResponse
// @Failure 503 {object} services.ErrorResponse
// @Router /deposits [get]
func (h *DepositHandler) ListDeposits(w http.ResponseWriter, r *http.Request) {
	page := pageParams(r, h.pageSize, h.maxPageSize)

	result, err := h.service.ListDeposits(r.Context(), page)
	if err != nil {
		sendListError(w, err)
		return
	}

	if last, ok := lastPage(page, result.Total); ok {
		page = last
		if result, err = h.service.ListDeposits(r.Context(), page); err != nil {
			sendListError(w, err)
			return
		}
	}

	services.WriteJSON(w, http.StatusOK, DepositListResponse{
		Requests:   result.Requests,
		Pagination: newPagination(page, result.Total),
	})
}

// ApproveDeposit approves a deposit receipt
// @Summary Approve deposit
// @Description Credit the client's trading account and mark the receipt approved
// @Tags deposits
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Receipt ID"
// @Param request body DepositActionRequest false "Optional comment"
// @Success 200 {object} models.ActionResult
// @Failure 400 {object} models.ActionResult
// @Failure 404 {object} models.ActionResult
// @Failure 409 {object} models.ActionResult
// @Failure 502 {object} models.ActionResult
// @Failure 504 {object} models.ActionResult
// @Router /deposits/{id}/approve [post]
func (h *DepositHandler) ApproveDeposit(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	writeResult(w, h.service.ApproveDeposit(r.Context(), requestID(r), req.Comment))
}

// RejectDeposit rejects a deposit receipt
// @Summary Reject deposit
// @Description Mark a pending deposit receipt rejected
// @Tags deposits
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Receipt ID"
// @Param request body DepositActionRequest false "Optional comment"
// @Success 200 {object} models.ActionResult
// @Failure 400 {object} models.ActionResult
// @Failure 404 {object} models.ActionResult
// @Failure 409 {object} models.ActionResult
// @Router /deposits/{id}/reject [post]
func (h *DepositHandler) RejectDeposit(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	writeResult(w, h.service.RejectDeposit(r.Context(), requestID(r), req.Comment))
}

func (h *DepositHandler) decode(w http.ResponseWriter, r *http.Request) (DepositActionRequest, bool) {
	var req DepositActionRequest
	if err := services.DecodeJSONBody(w, r, &req); err != nil {
		h.logger.Debug("invalid deposit action body", zap.Error(err))
		sendBodyError(w, err)
		return req, false
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		services.SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return req, false
	}
	return req, true
}

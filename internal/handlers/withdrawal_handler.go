package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mt5crm/backoffice/internal/middleware"
	"github.com/mt5crm/backoffice/internal/models"
	"github.com/mt5crm/backoffice/internal/services"
)

// WithdrawalService is the part of *services.WithdrawalService the handler uses.
type WithdrawalService interface {
	ListWithdrawals(ctx context.Context, page models.PageRequest, filter models.WithdrawalFilter) (*models.WithdrawalPage, error)
	ApproveWithdrawal(ctx context.Context, id int64, comment, operator string) models.ActionResult
	RejectWithdrawalAndRefund(ctx context.Context, id int64, comment, operator string) models.ActionResult
}

// WithdrawalListResponse is one page of withdrawal requests with the filter
// that produced it.
type WithdrawalListResponse struct {
	Requests []models.WithdrawalRequest `json:"requests"`
	Status   models.StatusFilter        `json:"status" example:"pending"`
	From     string                     `json:"from,omitempty" example:"2024-05-01"`
	To       string                     `json:"to,omitempty" example:"2024-05-31"`
	Pagination
}

// WithdrawalActionRequest is the optional body of a withdrawal approve/reject.
type WithdrawalActionRequest struct {
	Comment  string `json:"comment" validate:"max=255" example:"Approved"`
	Operator string `json:"operator" validate:"max=128" example:"Jane Doe"`
}

type WithdrawalHandler struct {
	service     WithdrawalService
	validator   *services.ValidationHelper
	pageSize    int
	maxPageSize int
	location    *time.Location
	logger      *zap.Logger
}

func NewWithdrawalHandler(service WithdrawalService, pageSize, maxPageSize int, logger *zap.Logger) *WithdrawalHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WithdrawalHandler{
		service:     service,
		validator:   services.NewValidationHelper(),
		pageSize:    pageSize,
		maxPageSize: maxPageSize,
		location:    time.Local,
		logger:      logger,
	}
}

// ListWithdrawals lists withdrawal requests
// @Summary List withdrawal requests
// @Description Page through withdrawals, newest first. status=pending without dates also includes anything submitted today.
// @Tags withdrawals
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Rows per page" default(6)
// @Param status query string false "Status filter" Enums(pending, approved, rejected, cancelled, all) default(pending)
// @Param from query string false "First submission day (YYYY-MM-DD)"
// @Param to query string false "Last submission day (YYYY-MM-DD)"
// @Success 200 {object} WithdrawalListResponse
// @Failure 401 {object} services.ErrorResponse
// @Failure 503 {object} services.ErrorResponse
// @Router /withdrawals [get]
func (h *WithdrawalHandler) ListWithdrawals(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := pageParams(r, h.pageSize, h.maxPageSize)
	filter := services.ParseWithdrawalFilter(q.Get("status"), q.Get("from"), q.Get("to"), h.location)

	result, err := h.service.ListWithdrawals(r.Context(), page, filter)
	if err != nil {
		sendListError(w, err)
		return
	}

	if last, ok := lastPage(page, result.Total); ok {
		page = last
		if result, err = h.service.ListWithdrawals(r.Context(), page, filter); err != nil {
			sendListError(w, err)
			return
		}
	}

	resp := WithdrawalListResponse{
		Requests:   result.Requests,
		Status:     filter.Status,
		Pagination: newPagination(page, result.Total),
	}
	if filter.From != nil {
		resp.From = filter.From.Format("2006-01-02")
	}
	if filter.To != nil {
		resp.To = filter.To.Format("2006-01-02")
	}
	services.WriteJSON(w, http.StatusOK, resp)
}

// ApproveWithdrawal marks a withdrawal transferred
// @Summary Approve withdrawal
// @Description Mark a pending withdrawal transferred. No ledger call is made.
// @Tags withdrawals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Withdrawal ID"
// @Param request body WithdrawalActionRequest false "Optional comment and operator"
// @Success 200 {object} models.ActionResult
// @Failure 400 {object} models.ActionResult
// @Failure 404 {object} models.ActionResult
// @Failure 409 {object} models.ActionResult
// @Router /withdrawals/{id}/approve [post]
func (h *WithdrawalHandler) ApproveWithdrawal(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	writeResult(w, h.service.ApproveWithdrawal(r.Context(), requestID(r), req.Comment, h.operator(r, req)))
}

// RejectWithdrawal refunds and rejects a withdrawal
// @Summary Reject withdrawal
// @Description Refund the held amount through the ledger and mark the withdrawal rejected
// @Tags withdrawals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Withdrawal ID"
// @Param request body WithdrawalActionRequest false "Optional comment and operator"
// @Success 200 {object} models.ActionResult
// @Failure 400 {object} models.ActionResult
// @Failure 404 {object} models.ActionResult
// @Failure 409 {object} models.ActionResult
// @Failure 502 {object} models.ActionResult
// @Failure 504 {object} models.ActionResult
// @Router /withdrawals/{id}/reject [post]
func (h *WithdrawalHandler) RejectWithdrawal(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	writeResult(w, h.service.RejectWithdrawalAndRefund(r.Context(), requestID(r), req.Comment, h.operator(r, req)))
}

// operator prefers an explicit body value, then the authenticated operator.
func (h *WithdrawalHandler) operator(r *http.Request, req WithdrawalActionRequest) string {
	if op := strings.TrimSpace(req.Operator); op != "" {
		return op
	}
	if claims, ok := middleware.OperatorFromContext(r.Context()); ok {
		if claims.Name != "" {
			return claims.Name
		}
		return claims.Username
	}
	return ""
}

func (h *WithdrawalHandler) decode(w http.ResponseWriter, r *http.Request) (WithdrawalActionRequest, bool) {
	var req WithdrawalActionRequest
	if err := services.DecodeJSONBody(w, r, &req); err != nil {
		h.logger.Debug("invalid withdrawal action body", zap.Error(err))
		sendBodyError(w, err)
		return req, false
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		services.SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return req, false
	}
	return req, true
}

package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mt5crm/backoffice/internal/services"
)

type ReceiptFinder interface {
	Find(code string) (*services.Receipt, error)
}

type ReceiptHandler struct {
	finder ReceiptFinder
	logger *zap.Logger
}

func NewReceiptHandler(finder ReceiptFinder, logger *zap.Logger) *ReceiptHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReceiptHandler{finder: finder, logger: logger}
}

// GetReceipt serves a deposit receipt image
// @Summary Deposit receipt image
// @Description Resolve an upload code to its receipt image
// @Tags deposits
// @Produce image/png,image/jpeg,image/webp,image/gif
// @Param code path string true "Upload code"
// @Success 200 {file} binary
// @Failure 404 {object} services.ErrorResponse
// @Router /deposit-receipts/{code} [get]
func (h *ReceiptHandler) GetReceipt(w http.ResponseWriter, r *http.Request) {
	receipt, err := h.finder.Find(chi.URLParam(r, "code"))
	if err != nil {
		if !errors.Is(err, services.ErrReceiptNotFound) {
			h.logger.Error("receipt lookup failed", zap.Error(err))
		}
		services.SendErrorResponse(w, "Receipt not found", http.StatusNotFound, nil)
		return
	}

	w.Header().Set("Content-Type", receipt.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(receipt.Data)))
	w.Header().Set("Cache-Control", "private, max-age=300")
	w.WriteHeader(http.StatusOK)
	w.Write(receipt.Data)
}

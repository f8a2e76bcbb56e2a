package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	mw "github.com/mt5crm/backoffice/internal/middleware"
	"github.com/mt5crm/backoffice/internal/models"
	"github.com/mt5crm/backoffice/internal/services"
)

func withdrawalRouter(h *WithdrawalHandler, claims *services.OperatorClaims) http.Handler {
	r := chi.NewRouter()
	if claims != nil {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				next.ServeHTTP(w, r.WithContext(mw.WithOperator(r.Context(), claims)))
			})
		})
	}
	r.Get("/withdrawals", h.ListWithdrawals)
	r.Post("/withdrawals/{id}/approve", h.ApproveWithdrawal)
	r.Post("/withdrawals/{id}/reject", h.RejectWithdrawal)
	return r
}

func TestWithdrawalHandler_ListWithdrawals(t *testing.T) {
	t.Run("passes parsed filter", func(t *testing.T) {
		service := new(MockWithdrawalService)
		h := NewWithdrawalHandler(service, 6, 100, nil)
		h.location = time.UTC

		from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
		want := models.WithdrawalFilter{Status: models.StatusFilterRejected, From: &from}
		service.On("ListWithdrawals", mock.Anything, models.PageRequest{Page: 2, PageSize: 6}, want).
			Return(&models.WithdrawalPage{Requests: []models.WithdrawalRequest{{ID: 4}}, Total: 7}, nil).Once()

		w := httptest.NewRecorder()
		withdrawalRouter(h, nil).ServeHTTP(w,
			httptest.NewRequest(http.MethodGet, "/withdrawals?page=2&status=REJECTED&from=2024-05-01&to=garbage", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var resp WithdrawalListResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, models.StatusFilterRejected, resp.Status)
		assert.Equal(t, "2024-05-01", resp.From)
		assert.Empty(t, resp.To)
		assert.Equal(t, 2, resp.TotalPages)
		assert.True(t, resp.HasPrev)
		assert.False(t, resp.HasNext)
		service.AssertExpectations(t)
	})

	t.Run("status defaults to pending", func(t *testing.T) {
		service := new(MockWithdrawalService)
		h := NewWithdrawalHandler(service, 6, 100, nil)

		service.On("ListWithdrawals", mock.Anything, mock.Anything, models.WithdrawalFilter{Status: models.StatusFilterPending}).
			Return(&models.WithdrawalPage{Requests: []models.WithdrawalRequest{}}, nil).Once()

		w := httptest.NewRecorder()
		withdrawalRouter(h, nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/withdrawals?status=", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"requests":[]`)
		service.AssertExpectations(t)
	})
}

func TestWithdrawalHandler_Actions(t *testing.T) {
	claims := &services.OperatorClaims{Username: "jane", Name: "Jane Doe"}

	t.Run("authenticated operator is used by default", func(t *testing.T) {
		service := new(MockWithdrawalService)
		h := NewWithdrawalHandler(service, 6, 100, nil)

		service.On("ApproveWithdrawal", mock.Anything, int64(12), "", "Jane Doe").
			Return(models.Succeeded("", "Approved")).Once()

		w := httptest.NewRecorder()
		withdrawalRouter(h, claims).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/withdrawals/12/approve", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		service.AssertExpectations(t)
	})

	t.Run("explicit operator wins", func(t *testing.T) {
		service := new(MockWithdrawalService)
		h := NewWithdrawalHandler(service, 6, 100, nil)

		service.On("RejectWithdrawalAndRefund", mock.Anything, int64(12), "wrong bank", "Desk 2").
			Return(models.Succeeded("R-1", "wrong bank")).Once()

		w := httptest.NewRecorder()
		withdrawalRouter(h, claims).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/withdrawals/12/reject",
			strings.NewReader(`{"comment":"wrong bank","operator":"Desk 2"}`)))

		assert.Equal(t, http.StatusOK, w.Code)
		var got models.ActionResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, "R-1", got.Ticket)
		service.AssertExpectations(t)
	})

	t.Run("refund timeout maps to gateway timeout", func(t *testing.T) {
		service := new(MockWithdrawalService)
		h := NewWithdrawalHandler(service, 6, 100, nil)

		service.On("RejectWithdrawalAndRefund", mock.Anything, int64(12), "", "").
			Return(models.Failed(models.FailureLedgerTimeout, "Refund API timed out.")).Once()

		w := httptest.NewRecorder()
		withdrawalRouter(h, nil).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/withdrawals/12/reject", nil))

		assert.Equal(t, http.StatusGatewayTimeout, w.Code)
		assert.Contains(t, w.Body.String(), "Refund API timed out.")
	})

	t.Run("two bodies are rejected", func(t *testing.T) {
		service := new(MockWithdrawalService)
		h := NewWithdrawalHandler(service, 6, 100, nil)

		w := httptest.NewRecorder()
		withdrawalRouter(h, nil).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/withdrawals/12/approve",
			strings.NewReader(`{}{}`)))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "single JSON object")
	})
}

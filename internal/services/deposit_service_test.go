package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mt5crm/backoffice/internal/ledger"
	"github.com/mt5crm/backoffice/internal/models"
)

var depositListColumns = []string{
	"receipt_id", "deal", "login", "upload_code", "time", "update_time", "status", "amount",
	"comment", "payment_method", "usdt_type", "wallet_address",
}

const (
	depositLockQuery   = "SELECT login, amount, status FROM deposit_receipt_upload WHERE receipt_id = \\$1 FOR UPDATE"
	depositApproveExec = "UPDATE deposit_receipt_upload SET deal = \\$1, status = 'approved', comment = \\$2, update_time = CURRENT_TIMESTAMP WHERE receipt_id = \\$3 AND LOWER\\(status\\) = 'pending'"
	depositRejectExec  = "UPDATE deposit_receipt_upload SET status = 'rejected', comment = \\$1, update_time = CURRENT_TIMESTAMP WHERE receipt_id = \\$2 AND LOWER\\(status\\) = 'pending'"
)

func newDepositService(t *testing.T) (*DepositService, sqlmock.Sqlmock, *MockAdjuster) {
	t.Helper()
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	adjuster := new(MockAdjuster)
	return NewDepositService(db, adjuster, nil, nil, nil), dbMock, adjuster
}

func depositRows(n int, start time.Time) *sqlmock.Rows {
	rows := sqlmock.NewRows(depositListColumns)
	for i := 0; i < n; i++ {
		rows.AddRow(int64(100-i), nil, "5001", "code", start.Add(-time.Duration(i)*time.Minute), nil,
			"Pending", "10", nil, "bank", nil, nil)
	}
	return rows
}

func TestDepositService_ListDeposits(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	t.Run("pages through thirteen rows", func(t *testing.T) {
		service, dbMock, _ := newDepositService(t)

		cases := []struct {
			page, rows, offset int
		}{
			{page: 1, rows: 6, offset: 0},
			{page: 2, rows: 6, offset: 6},
			{page: 3, rows: 1, offset: 12},
		}
		for _, tc := range cases {
			dbMock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM deposit_receipt_upload").
				WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(13))
			dbMock.ExpectQuery("FROM deposit_receipt_upload ORDER BY time DESC, receipt_id DESC LIMIT \\$1 OFFSET \\$2").
				WithArgs(6, tc.offset).
				WillReturnRows(depositRows(tc.rows, now))

			page, err := service.ListDeposits(context.Background(), models.PageRequest{Page: tc.page, PageSize: 6})
			require.NoError(t, err)
			assert.Len(t, page.Requests, tc.rows)
			assert.Equal(t, int64(13), page.Total)
		}
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("normalizes amounts and status", func(t *testing.T) {
		service, dbMock, _ := newDepositService(t)

		dbMock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM deposit_receipt_upload").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))
		dbMock.ExpectQuery("FROM deposit_receipt_upload ORDER BY time DESC, receipt_id DESC").
			WithArgs(10, 0).
			WillReturnRows(sqlmock.NewRows(depositListColumns).
				AddRow(3, "T9", "5001", "a", now, now, " APPROVED ", "123.40", "Deposit_BO", nil, nil, nil).
				AddRow(2, nil, "5002", "b", now, nil, "pending", "abc", nil, nil, nil, nil).
				AddRow(1, nil, nil, nil, now, nil, nil, nil, nil, nil, nil, nil).
				AddRow(0, nil, "5003", "c", now, nil, "pending", "1e400", nil, nil, nil, nil))

		page, err := service.ListDeposits(context.Background(), models.PageRequest{})
		require.NoError(t, err)
		require.Len(t, page.Requests, 4)

		first := page.Requests[0]
		require.NotNil(t, first.Amount)
		assert.Equal(t, 123.4, *first.Amount)
		assert.Equal(t, models.StatusApproved, first.Status)
		assert.Equal(t, "T9", *first.Deal)

		assert.Nil(t, page.Requests[1].Amount)
		assert.Nil(t, page.Requests[2].Amount)
		assert.Nil(t, page.Requests[2].Login)
		assert.Equal(t, models.StatusUnknown, page.Requests[2].Status)
		assert.Nil(t, page.Requests[3].Amount)

		_, err = json.Marshal(page)
		assert.NoError(t, err)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("store failure is reported", func(t *testing.T) {
		service, dbMock, _ := newDepositService(t)

		dbMock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM deposit_receipt_upload").
			WillReturnError(errors.New("connection refused"))

		page, err := service.ListDeposits(context.Background(), models.PageRequest{Page: 1, PageSize: 6})
		assert.Nil(t, page)
		assert.ErrorIs(t, err, models.ErrStoreUnavailable)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})
}

func TestDepositService_ApproveDeposit(t *testing.T) {
	t.Run("credits ledger and records ticket", func(t *testing.T) {
		service, dbMock, adjuster := newDepositService(t)

		dbMock.ExpectBegin()
		dbMock.ExpectQuery(depositLockQuery).
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"login", "amount", "status"}).AddRow("5001", "100.50", "pending"))
		adjuster.On("Adjust", mock.Anything, adjustment("5001", "100.5", "Deposit_BO")).
			Return(&ledger.Receipt{Ticket: "T1"}, nil).Once()
		dbMock.ExpectExec(depositApproveExec).
			WithArgs("T1", "Deposit_BO", int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		dbMock.ExpectCommit()

		result := service.ApproveDeposit(context.Background(), 7, "  ")
		assert.True(t, result.Success)
		assert.Equal(t, "T1", result.Ticket)
		assert.Equal(t, "Deposit_BO", result.Comment)
		assert.NoError(t, dbMock.ExpectationsWereMet())
		adjuster.AssertExpectations(t)
	})

	t.Run("already approved makes no ledger call and no write", func(t *testing.T) {
		service, dbMock, adjuster := newDepositService(t)

		dbMock.ExpectBegin()
		dbMock.ExpectQuery(depositLockQuery).
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"login", "amount", "status"}).AddRow("5001", "100", "Approved"))
		dbMock.ExpectRollback()

		result := service.ApproveDeposit(context.Background(), 7, "")
		assert.False(t, result.Success)
		assert.Equal(t, models.FailureAlreadyApproved, result.Kind)
		assert.NoError(t, dbMock.ExpectationsWereMet())
		adjuster.AssertNotCalled(t, "Adjust", mock.Anything, mock.Anything)
	})

	t.Run("refuses terminal and invalid rows", func(t *testing.T) {
		cases := []struct {
			name   string
			login  any
			amount any
			status any
			kind   models.FailureKind
		}{
			{"rejected", "5001", "10", "rejected", models.FailureAlreadyRejected},
			{"unknown status", "5001", "10", "on-hold", models.FailureUnknownStatus},
			{"null status", "5001", "10", nil, models.FailureUnknownStatus},
			{"missing login", nil, "10", "pending", models.FailureMissingLogin},
			{"blank login", "  ", "10", "pending", models.FailureMissingLogin},
			{"missing amount", "5001", nil, "pending", models.FailureMissingAmount},
			{"non-numeric amount", "5001", "ten", "pending", models.FailureMissingAmount},
			{"zero amount", "5001", "0", "pending", models.FailureMissingAmount},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				service, dbMock, adjuster := newDepositService(t)

				dbMock.ExpectBegin()
				dbMock.ExpectQuery(depositLockQuery).
					WithArgs(int64(3)).
					WillReturnRows(sqlmock.NewRows([]string{"login", "amount", "status"}).AddRow(tc.login, tc.amount, tc.status))
				dbMock.ExpectRollback()

				result := service.ApproveDeposit(context.Background(), 3, "")
				assert.False(t, result.Success)
				assert.Equal(t, tc.kind, result.Kind)
				assert.NoError(t, dbMock.ExpectationsWereMet())
				adjuster.AssertNotCalled(t, "Adjust", mock.Anything, mock.Anything)
			})
		}
	})

	t.Run("invalid id", func(t *testing.T) {
		service, dbMock, _ := newDepositService(t)

		result := service.ApproveDeposit(context.Background(), 0, "")
		assert.Equal(t, models.FailureInvalidID, result.Kind)
		assert.Equal(t, "Invalid receipt id.", result.Error)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		service, dbMock, _ := newDepositService(t)

		dbMock.ExpectBegin()
		dbMock.ExpectQuery(depositLockQuery).
			WithArgs(int64(99)).
			WillReturnRows(sqlmock.NewRows([]string{"login", "amount", "status"}))
		dbMock.ExpectRollback()

		result := service.ApproveDeposit(context.Background(), 99, "")
		assert.Equal(t, models.FailureNotFound, result.Kind)
		assert.Equal(t, "Request not found.", result.Error)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("ledger failures leave the row pending", func(t *testing.T) {
		cases := []struct {
			kind    ledger.ErrorKind
			failure models.FailureKind
			message string
		}{
			{ledger.KindTimeout, models.FailureLedgerTimeout, "Deposit API timed out."},
			{ledger.KindStatus, models.FailureLedgerRejected, "Deposit API call failed."},
			{ledger.KindNoTicket, models.FailureLedgerNoTicket, "Deposit API did not return a ticket."},
			{ledger.KindUnreachable, models.FailureLedgerUnreachable, "Unable to reach deposit API."},
		}
		for _, tc := range cases {
			t.Run(string(tc.kind), func(t *testing.T) {
				service, dbMock, adjuster := newDepositService(t)

				dbMock.ExpectBegin()
				dbMock.ExpectQuery(depositLockQuery).
					WithArgs(int64(7)).
					WillReturnRows(sqlmock.NewRows([]string{"login", "amount", "status"}).AddRow("5001", "25", "pending"))
				adjuster.On("Adjust", mock.Anything, mock.Anything).
					Return(nil, &ledger.Error{Kind: tc.kind}).Once()
				dbMock.ExpectRollback()

				result := service.ApproveDeposit(context.Background(), 7, "")
				assert.False(t, result.Success)
				assert.Equal(t, tc.failure, result.Kind)
				assert.Equal(t, tc.message, result.Error)
				assert.NoError(t, dbMock.ExpectationsWereMet())
			})
		}
	})

	t.Run("persist failure after credit keeps the ticket", func(t *testing.T) {
		service, dbMock, adjuster := newDepositService(t)

		dbMock.ExpectBegin()
		dbMock.ExpectQuery(depositLockQuery).
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"login", "amount", "status"}).AddRow("5001", "25", "pending"))
		adjuster.On("Adjust", mock.Anything, mock.Anything).Return(&ledger.Receipt{Ticket: "T2"}, nil).Once()
		dbMock.ExpectExec(depositApproveExec).
			WithArgs("T2", "Deposit_BO", int64(7)).
			WillReturnError(errors.New("connection reset"))
		dbMock.ExpectRollback()

		result := service.ApproveDeposit(context.Background(), 7, "")
		assert.False(t, result.Success)
		assert.Equal(t, models.FailureStore, result.Kind)
		assert.Equal(t, "T2", result.Ticket)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("cancelled request context still persists", func(t *testing.T) {
		service, dbMock, adjuster := newDepositService(t)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		dbMock.ExpectBegin()
		dbMock.ExpectQuery(depositLockQuery).
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"login", "amount", "status"}).AddRow("5001", "25", "pending"))
		adjuster.On("Adjust", mock.Anything, mock.Anything).Return(&ledger.Receipt{Ticket: "T3"}, nil).Once()
		dbMock.ExpectExec(depositApproveExec).
			WithArgs("T3", "Deposit_BO", int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		dbMock.ExpectCommit()

		result := service.ApproveDeposit(ctx, 7, "")
		assert.True(t, result.Success)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})
}

func TestDepositService_RejectDeposit(t *testing.T) {
	const statusQuery = "SELECT status FROM deposit_receipt_upload WHERE receipt_id = \\$1"

	t.Run("rejects pending with default comment", func(t *testing.T) {
		service, dbMock, adjuster := newDepositService(t)

		dbMock.ExpectQuery(statusQuery).
			WithArgs(int64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("PENDING"))
		dbMock.ExpectExec(depositRejectExec).
			WithArgs("Rejected", int64(5)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		result := service.RejectDeposit(context.Background(), 5, "")
		assert.True(t, result.Success)
		assert.Equal(t, "Rejected", result.Comment)
		assert.NoError(t, dbMock.ExpectationsWereMet())
		adjuster.AssertNotCalled(t, "Adjust", mock.Anything, mock.Anything)
	})

	t.Run("already rejected", func(t *testing.T) {
		service, dbMock, _ := newDepositService(t)

		dbMock.ExpectQuery(statusQuery).
			WithArgs(int64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("rejected"))

		result := service.RejectDeposit(context.Background(), 5, "duplicate")
		assert.Equal(t, models.FailureAlreadyRejected, result.Kind)
		assert.Equal(t, "This request is already rejected.", result.Error)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("already approved", func(t *testing.T) {
		service, dbMock, _ := newDepositService(t)

		dbMock.ExpectQuery(statusQuery).
			WithArgs(int64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("approved"))

		result := service.RejectDeposit(context.Background(), 5, "")
		assert.Equal(t, models.FailureAlreadyApproved, result.Kind)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("lost race reports conflict", func(t *testing.T) {
		service, dbMock, _ := newDepositService(t)

		dbMock.ExpectQuery(statusQuery).
			WithArgs(int64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("pending"))
		dbMock.ExpectExec(depositRejectExec).
			WithArgs("late", int64(5)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		result := service.RejectDeposit(context.Background(), 5, "late")
		assert.Equal(t, models.FailureConflict, result.Kind)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})
}

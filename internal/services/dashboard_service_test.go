package services

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mt5crm/backoffice/internal/models"
)

func TestDashboardService_PendingSummary(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	service := NewDashboardService(db, nil)

	t.Run("counts and recent items per pipeline", func(t *testing.T) {
		dbMock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM deposit_receipt_upload WHERE LOWER\\(status\\) = 'pending'").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))
		dbMock.ExpectQuery("SELECT receipt_id, login, amount FROM deposit_receipt_upload WHERE LOWER\\(status\\) = 'pending' ORDER BY COALESCE\\(update_time, time\\) DESC LIMIT \\$1").
			WithArgs(3).
			WillReturnRows(sqlmock.NewRows([]string{"receipt_id", "login", "amount"}).
				AddRow(9, "5001", "10.50").
				AddRow(8, nil, "x").
				AddRow(7, "", "3"))
		dbMock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM withdrawal_request WHERE LOWER\\(status\\) = 'pending'").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		dbMock.ExpectQuery("SELECT withdraw_id, login, amount FROM withdrawal_request").
			WithArgs(3).
			WillReturnRows(sqlmock.NewRows([]string{"withdraw_id", "login", "amount"}))

		summary, err := service.PendingSummary(context.Background())
		require.NoError(t, err)

		assert.Equal(t, int64(5), summary.Deposits.Total)
		require.Len(t, summary.Deposits.Items, 3)
		assert.Equal(t, "5001", summary.Deposits.Items[0].Login)
		assert.Equal(t, 10.5, *summary.Deposits.Items[0].Amount)
		assert.Equal(t, "-", summary.Deposits.Items[1].Login)
		assert.Nil(t, summary.Deposits.Items[1].Amount)
		assert.Equal(t, "-", summary.Deposits.Items[2].Login)

		assert.Equal(t, int64(0), summary.Withdrawals.Total)
		assert.NotNil(t, summary.Withdrawals.Items)
		assert.Empty(t, summary.Withdrawals.Items)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("store failure", func(t *testing.T) {
		dbMock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM deposit_receipt_upload").
			WillReturnError(errors.New("timeout"))

		_, err := service.PendingSummary(context.Background())
		assert.ErrorIs(t, err, models.ErrStoreUnavailable)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})
}

func TestDashboardService_TotalUsers(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	service := NewDashboardService(db, nil)
	query := "SELECT COUNT\\(login\\) FROM mt5_users WHERE \"group\" NOT LIKE 'managers%' AND \"group\" NOT LIKE 'demo%'"

	t.Run("counts live accounts", func(t *testing.T) {
		dbMock.ExpectQuery(query).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

		total, err := service.TotalUsers(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, int64(42), total)
	})

	t.Run("error is not masked as zero", func(t *testing.T) {
		dbMock.ExpectQuery(query).WillReturnError(errors.New("relation does not exist"))

		_, err := service.TotalUsers(context.Background())
		assert.ErrorIs(t, err, models.ErrStoreUnavailable)
	})

	assert.NoError(t, dbMock.ExpectationsWereMet())
}

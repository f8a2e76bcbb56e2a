package services

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/mt5crm/backoffice/internal/models"
)

const dashboardPendingLimit = 3

type pendingSource struct {
	table    string
	idColumn string
}

var (
	depositSource    = pendingSource{table: "deposit_receipt_upload", idColumn: "receipt_id"}
	withdrawalSource = pendingSource{table: "withdrawal_request", idColumn: "withdraw_id"}
)

// DashboardService aggregates read-only counts for the admin landing page.
type DashboardService struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewDashboardService(db *sql.DB, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{db: db, logger: logger.With(zap.String("component", "dashboard"))}
}

// PendingSummary returns, per pipeline, the number of pending requests and
// the most recently touched few of them.
func (s *DashboardService) PendingSummary(ctx context.Context) (*models.DashboardSummary, error) {
	deposits, err := s.pending(ctx, depositSource)
	if err != nil {
		return nil, err
	}
	withdrawals, err := s.pending(ctx, withdrawalSource)
	if err != nil {
		return nil, err
	}
	return &models.DashboardSummary{Deposits: *deposits, Withdrawals: *withdrawals}, nil
}

func (s *DashboardService) pending(ctx context.Context, src pendingSource) (*models.PendingSummary, error) {
	summary := &models.PendingSummary{Items: []models.PendingItem{}}

	err := s.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE LOWER(status) = 'pending'`, src.table)).Scan(&summary.Total)
	if err != nil {
		s.logger.Error("failed to count pending requests", zap.String("table", src.table), zap.Error(err))
		return nil, fmt.Errorf("%w: count pending %s: %v", models.ErrStoreUnavailable, src.table, err)
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
        SELECT %s, login, amount
        FROM %s
        WHERE LOWER(status) = 'pending'
        ORDER BY COALESCE(update_time, time) DESC
        LIMIT $1`, src.idColumn, src.table), dashboardPendingLimit)
	if err != nil {
		s.logger.Error("failed to list pending requests", zap.String("table", src.table), zap.Error(err))
		return nil, fmt.Errorf("%w: list pending %s: %v", models.ErrStoreUnavailable, src.table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			item          models.PendingItem
			login, amount sql.NullString
		)
		if err := rows.Scan(&item.ID, &login, &amount); err != nil {
			return nil, fmt.Errorf("%w: scan pending %s: %v", models.ErrStoreUnavailable, src.table, err)
		}
		item.Login = "-"
		if login.Valid && login.String != "" {
			item.Login = login.String
		}
		item.Amount = models.ParseAmount(amount)
		summary.Items = append(summary.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate pending %s: %v", models.ErrStoreUnavailable, src.table, err)
	}

	return summary, nil
}

// TotalUsers counts live MT5 accounts, excluding manager and demo groups.
func (s *DashboardService) TotalUsers(ctx context.Context) (int64, error) {
	var total int64
	err := s.db.QueryRowContext(ctx, `
        SELECT COUNT(login)
        FROM mt5_users
        WHERE "group" NOT LIKE 'managers%' AND "group" NOT LIKE 'demo%'`).Scan(&total)
	if err != nil {
		s.logger.Error("failed to count users", zap.Error(err))
		return 0, fmt.Errorf("%w: count users: %v", models.ErrStoreUnavailable, err)
	}
	return total, nil
}

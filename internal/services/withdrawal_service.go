package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mt5crm/backoffice/internal/audit"
	"github.com/mt5crm/backoffice/internal/ledger"
	"github.com/mt5crm/backoffice/internal/models"
)

const withdrawalColumns = `withdraw_id, deal, login, client_name, amount, bank_name, bank_number,
               time, update_time, status, balance, credit, equity, margin, margin_free,
               margin_level, operator, currency, cancel_withdraw_deal, comment,
               payment_method, usdt_type, wallet_address`

// WithdrawalService lists withdrawal requests and applies the transfer/refund
// lifecycle. Funds are already held when a request is pending, so approval is
// a status flip and rejection refunds the client through the ledger.
type WithdrawalService struct {
	db       *sql.DB
	refunds  ledger.Adjuster
	locks    *ActionLock
	audit    *audit.Logger
	logger   *zap.Logger
	currency string
	now      func() time.Time
}

func NewWithdrawalService(db *sql.DB, refunds ledger.Adjuster, locks *ActionLock, auditLogger *audit.Logger, logger *zap.Logger, currency string) *WithdrawalService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if auditLogger == nil {
		auditLogger = audit.NewLogger(logger)
	}
	if currency == "" {
		currency = "USD"
	}
	return &WithdrawalService{
		db:       db,
		refunds:  refunds,
		locks:    locks,
		audit:    auditLogger,
		logger:   logger.With(zap.String("component", pipelineWithdrawal)),
		currency: currency,
		now:      time.Now,
	}
}

// ListWithdrawals returns one page of withdrawal requests matching filter,
// newest first. Total counts every matching row.
func (s *WithdrawalService) ListWithdrawals(ctx context.Context, page models.PageRequest, filter models.WithdrawalFilter) (*models.WithdrawalPage, error) {
	page = page.Normalize()
	where, args := buildWithdrawalWhere(filter, s.now())

	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM withdrawal_request`+where, args...).Scan(&total); err != nil {
		s.logger.Error("failed to count withdrawal requests", zap.Error(err))
		return nil, fmt.Errorf("%w: count withdrawals: %v", models.ErrStoreUnavailable, err)
	}

	n := len(args)
	query := fmt.Sprintf(`
        SELECT %s
        FROM withdrawal_request%s
        ORDER BY time DESC, withdraw_id DESC
        LIMIT $%d OFFSET $%d`, withdrawalColumns, where, n+1, n+2)
	rows, err := s.db.QueryContext(ctx, query, append(args, page.PageSize, page.Offset())...)
	if err != nil {
		s.logger.Error("failed to list withdrawal requests", zap.Error(err))
		return nil, fmt.Errorf("%w: list withdrawals: %v", models.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	requests := []models.WithdrawalRequest{}
	for rows.Next() {
		req, err := scanWithdrawal(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan withdrawal: %v", models.ErrStoreUnavailable, err)
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate withdrawals: %v", models.ErrStoreUnavailable, err)
	}

	return &models.WithdrawalPage{Requests: requests, Total: total}, nil
}

func scanWithdrawal(row rowScanner) (models.WithdrawalRequest, error) {
	var (
		req                                                  models.WithdrawalRequest
		deal, login, clientName, amount, bankName, bankNo    sql.NullString
		status, balance, credit, equity, margin, marginFree  sql.NullString
		marginLevel, operator, currency, cancelDeal, comment sql.NullString
		method, usdtType, wallet                             sql.NullString
		created, updated                                     sql.NullTime
	)
	if err := row.Scan(&req.ID, &deal, &login, &clientName, &amount, &bankName, &bankNo,
		&created, &updated, &status, &balance, &credit, &equity, &margin, &marginFree,
		&marginLevel, &operator, &currency, &cancelDeal, &comment,
		&method, &usdtType, &wallet); err != nil {
		return req, err
	}

	req.Deal = models.NullableString(deal)
	req.Login = models.NullableString(login)
	req.ClientName = models.NullableString(clientName)
	req.Amount = models.ParseAmount(amount)
	req.BankName = models.NullableString(bankName)
	req.BankNumber = models.NullableString(bankNo)
	req.Time = models.NullableTime(created)
	req.UpdateTime = models.NullableTime(updated)
	req.Status = models.ParseStatus(status.String)
	req.Balance = models.ParseAmount(balance)
	req.Credit = models.ParseAmount(credit)
	req.Equity = models.ParseAmount(equity)
	req.Margin = models.ParseAmount(margin)
	req.MarginFree = models.ParseAmount(marginFree)
	req.MarginLevel = models.ParseAmount(marginLevel)
	req.Operator = models.NullableString(operator)
	req.Currency = models.NullableString(currency)
	req.CancelWithdrawDeal = models.NullableString(cancelDeal)
	req.Comment = models.NullableString(comment)
	req.PaymentMethod = models.NullableString(method)
	req.USDTType = models.NullableString(usdtType)
	req.WalletAddress = models.NullableString(wallet)
	return req, nil
}

// ApproveWithdrawal marks a pending withdrawal transferred.
func (s *WithdrawalService) ApproveWithdrawal(ctx context.Context, id int64, comment, operator string) models.ActionResult {
	comment = commentOrDefault(comment, DefaultWithdrawalApproveComment)
	operator = commentOrDefault(operator, DefaultOperator)
	result := s.approve(context.WithoutCancel(ctx), id, comment, operator)
	s.record(id, actionApprove, models.StatusTransferred, operator, result)
	return result
}

func (s *WithdrawalService) approve(ctx context.Context, id int64, comment, operator string) models.ActionResult {
	if id <= 0 {
		return models.Failed(models.FailureInvalidID, "Invalid withdraw id.")
	}

	release, ok := s.locks.Acquire(ctx, pipelineWithdrawal, id)
	if !ok {
		return inProgress()
	}
	defer release()

	var status sql.NullString
	err := s.db.QueryRowContext(ctx, `SELECT status FROM withdrawal_request WHERE withdraw_id = $1`, id).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Failed(models.FailureNotFound, "Request not found.")
	}
	if err != nil {
		s.logger.Error("failed to load withdrawal request", zap.Int64("id", id), zap.Error(err))
		return models.Failed(models.FailureStore, "Withdrawal approval failed on server.")
	}

	if refused, ok := guardTransition(models.ParseStatus(status.String), actionApprove); !ok {
		return refused
	}

	res, err := s.db.ExecContext(ctx, `
        UPDATE withdrawal_request
        SET status = 'transferred', operator = $1, comment = $2, currency = $3, update_time = CURRENT_TIMESTAMP
        WHERE withdraw_id = $4 AND LOWER(status) = 'pending'`,
		operator, comment, s.currency, id)
	if err != nil {
		s.logger.Error("failed to approve withdrawal request", zap.Int64("id", id), zap.Error(err))
		return models.Failed(models.FailureStore, "Withdrawal approval failed on server.")
	}
	if err := expectOneRow(res); err != nil {
		return models.Failed(models.FailureConflict, "This request was updated by another action.")
	}

	return models.Succeeded("", comment)
}

// RejectWithdrawalAndRefund returns the held amount to the client's account
// and marks the request rejected with the refund ticket. A failed or timed
// out refund leaves the request pending so the action can be retried.
func (s *WithdrawalService) RejectWithdrawalAndRefund(ctx context.Context, id int64, comment, operator string) models.ActionResult {
	comment = commentOrDefault(comment, DefaultWithdrawalRejectComment)
	operator = commentOrDefault(operator, DefaultOperator)
	result := s.reject(context.WithoutCancel(ctx), id, comment, operator)
	s.record(id, actionReject, models.StatusRejected, operator, result)
	return result
}

func (s *WithdrawalService) reject(ctx context.Context, id int64, comment, operator string) models.ActionResult {
	if id <= 0 {
		return models.Failed(models.FailureInvalidID, "Invalid withdraw id.")
	}

	release, ok := s.locks.Acquire(ctx, pipelineWithdrawal, id)
	if !ok {
		return inProgress()
	}
	defer release()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Int64("id", id), zap.Error(err))
		return models.Failed(models.FailureStore, "Withdrawal rejection failed on server.")
	}
	defer tx.Rollback()

	var login, amount, status sql.NullString
	err = tx.QueryRowContext(ctx, `
        SELECT login, amount, status
        FROM withdrawal_request
        WHERE withdraw_id = $1
        FOR UPDATE`, id).Scan(&login, &amount, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Failed(models.FailureNotFound, "Request not found.")
	}
	if err != nil {
		s.logger.Error("failed to load withdrawal request", zap.Int64("id", id), zap.Error(err))
		return models.Failed(models.FailureStore, "Withdrawal rejection failed on server.")
	}

	if refused, ok := guardTransition(models.ParseStatus(status.String), actionReject); !ok {
		return refused
	}
	accountLogin, value, refused, ok := guardLedgerInputs(login, amount)
	if !ok {
		return refused
	}

	receipt, err := s.refunds.Adjust(ctx, ledger.Adjustment{
		Login:   accountLogin,
		Type:    ledger.TypeBalance,
		Amount:  value,
		Comment: RefundLedgerComment,
	})
	if err != nil {
		s.logger.Warn("refund call failed",
			zap.Int64("id", id), zap.String("login", accountLogin), zap.Error(err))
		return ledgerFailure(err, "Refund API")
	}

	res, err := tx.ExecContext(ctx, `
        UPDATE withdrawal_request
        SET status = 'rejected', cancel_withdraw_deal = $1, operator = $2, comment = $3,
            currency = $4, update_time = CURRENT_TIMESTAMP
        WHERE withdraw_id = $5 AND LOWER(status) = 'pending'`,
		receipt.Ticket, operator, comment, s.currency, id)
	if err == nil {
		err = expectOneRow(res)
	}
	if err == nil {
		err = tx.Commit()
	}
	if err != nil {
		s.audit.LogUnreconciled(pipelineWithdrawal, id, actionReject, receipt.Ticket, err)
		result := models.Failed(models.FailureStore, "Refund was issued but the request could not be updated.")
		result.Ticket = receipt.Ticket
		return result
	}

	return models.Succeeded(receipt.Ticket, comment)
}

func (s *WithdrawalService) record(id int64, action string, to models.Status, operator string, result models.ActionResult) {
	if result.Success {
		s.audit.LogTransition(pipelineWithdrawal, id, action, to.String(), operator, result.Ticket)
		return
	}
	s.audit.LogRefused(pipelineWithdrawal, id, action, operator, string(result.Kind), result.Error)
}

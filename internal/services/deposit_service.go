package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mt5crm/backoffice/internal/audit"
	"github.com/mt5crm/backoffice/internal/ledger"
	"github.com/mt5crm/backoffice/internal/models"
)

const depositColumns = `receipt_id, deal, login, upload_code, time, update_time, status, amount,
               comment, payment_method, usdt_type, wallet_address`

// DepositService lists deposit receipts and applies the approve/reject
// lifecycle. Approval credits the trading account through the ledger.
type DepositService struct {
	db     *sql.DB
	ledger ledger.Adjuster
	locks  *ActionLock
	audit  *audit.Logger
	logger *zap.Logger
}

func NewDepositService(db *sql.DB, adjuster ledger.Adjuster, locks *ActionLock, auditLogger *audit.Logger, logger *zap.Logger) *DepositService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if auditLogger == nil {
		auditLogger = audit.NewLogger(logger)
	}
	return &DepositService{
		db:     db,
		ledger: adjuster,
		locks:  locks,
		audit:  auditLogger,
		logger: logger.With(zap.String("component", pipelineDeposit)),
	}
}

// ListDeposits returns one page of deposit receipts, newest first. Store
// failures are returned wrapped in models.ErrStoreUnavailable.
func (s *DepositService) ListDeposits(ctx context.Context, page models.PageRequest) (*models.DepositPage, error) {
	page = page.Normalize()

	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM deposit_receipt_upload`).Scan(&total); err != nil {
		s.logger.Error("failed to count deposit requests", zap.Error(err))
		return nil, fmt.Errorf("%w: count deposits: %v", models.ErrStoreUnavailable, err)
	}

	rows, err := s.db.QueryContext(ctx, `
        SELECT `+depositColumns+`
        FROM deposit_receipt_upload
        ORDER BY time DESC, receipt_id DESC
        LIMIT $1 OFFSET $2`, page.PageSize, page.Offset())
	if err != nil {
		s.logger.Error("failed to list deposit requests", zap.Error(err))
		return nil, fmt.Errorf("%w: list deposits: %v", models.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	requests := []models.DepositRequest{}
	for rows.Next() {
		req, err := scanDeposit(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan deposit: %v", models.ErrStoreUnavailable, err)
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate deposits: %v", models.ErrStoreUnavailable, err)
	}

	return &models.DepositPage{Requests: requests, Total: total}, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDeposit(row rowScanner) (models.DepositRequest, error) {
	var (
		req                                     models.DepositRequest
		deal, login, uploadCode, status, amount sql.NullString
		comment, method, usdtType, wallet       sql.NullString
		created, updated                        sql.NullTime
	)
	if err := row.Scan(&req.ID, &deal, &login, &uploadCode, &created, &updated, &status, &amount,
		&comment, &method, &usdtType, &wallet); err != nil {
		return req, err
	}

	req.Deal = models.NullableString(deal)
	req.Login = models.NullableString(login)
	req.UploadCode = models.NullableString(uploadCode)
	req.Time = models.NullableTime(created)
	req.UpdateTime = models.NullableTime(updated)
	req.Status = models.ParseStatus(status.String)
	req.Amount = models.ParseAmount(amount)
	req.Comment = models.NullableString(comment)
	req.PaymentMethod = models.NullableString(method)
	req.USDTType = models.NullableString(usdtType)
	req.WalletAddress = models.NullableString(wallet)
	return req, nil
}

// ApproveDeposit credits the client's trading account and marks the receipt
// approved. The row stays locked from the status check until the ticket is
// persisted, so two approvals of one receipt cannot both reach the ledger.
func (s *DepositService) ApproveDeposit(ctx context.Context, id int64, comment string) models.ActionResult {
	comment = commentOrDefault(comment, DefaultDepositApproveComment)
	result := s.approve(context.WithoutCancel(ctx), id, comment)
	s.record(id, actionApprove, models.StatusApproved, result)
	return result
}

func (s *DepositService) approve(ctx context.Context, id int64, comment string) models.ActionResult {
	if id <= 0 {
		return models.Failed(models.FailureInvalidID, "Invalid receipt id.")
	}

	release, ok := s.locks.Acquire(ctx, pipelineDeposit, id)
	if !ok {
		return inProgress()
	}
	defer release()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Int64("id", id), zap.Error(err))
		return models.Failed(models.FailureStore, "Deposit approval failed on server.")
	}
	defer tx.Rollback()

	var login, amount, status sql.NullString
	err = tx.QueryRowContext(ctx, `
        SELECT login, amount, status
        FROM deposit_receipt_upload
        WHERE receipt_id = $1
        FOR UPDATE`, id).Scan(&login, &amount, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Failed(models.FailureNotFound, "Request not found.")
	}
	if err != nil {
		s.logger.Error("failed to load deposit request", zap.Int64("id", id), zap.Error(err))
		return models.Failed(models.FailureStore, "Deposit approval failed on server.")
	}

	if refused, ok := guardTransition(models.ParseStatus(status.String), actionApprove); !ok {
		return refused
	}
	accountLogin, value, refused, ok := guardLedgerInputs(login, amount)
	if !ok {
		return refused
	}

	receipt, err := s.ledger.Adjust(ctx, ledger.Adjustment{
		Login:   accountLogin,
		Type:    ledger.TypeBalance,
		Amount:  value,
		Comment: comment,
	})
	if err != nil {
		return ledgerFailure(err, "Deposit API")
	}

	res, err := tx.ExecContext(ctx, `
        UPDATE deposit_receipt_upload
        SET deal = $1, status = 'approved', comment = $2, update_time = CURRENT_TIMESTAMP
        WHERE receipt_id = $3 AND LOWER(status) = 'pending'`,
		receipt.Ticket, comment, id)
	if err == nil {
		err = expectOneRow(res)
	}
	if err == nil {
		err = tx.Commit()
	}
	if err != nil {
		s.audit.LogUnreconciled(pipelineDeposit, id, actionApprove, receipt.Ticket, err)
		result := models.Failed(models.FailureStore, "Deposit was credited but the request could not be updated.")
		result.Ticket = receipt.Ticket
		return result
	}

	return models.Succeeded(receipt.Ticket, comment)
}

// RejectDeposit marks a pending receipt rejected. No ledger call is made.
func (s *DepositService) RejectDeposit(ctx context.Context, id int64, comment string) models.ActionResult {
	comment = commentOrDefault(comment, DefaultDepositRejectComment)
	result := s.reject(context.WithoutCancel(ctx), id, comment)
	s.record(id, actionReject, models.StatusRejected, result)
	return result
}

func (s *DepositService) reject(ctx context.Context, id int64, comment string) models.ActionResult {
	if id <= 0 {
		return models.Failed(models.FailureInvalidID, "Invalid receipt id.")
	}

	release, ok := s.locks.Acquire(ctx, pipelineDeposit, id)
	if !ok {
		return inProgress()
	}
	defer release()

	var status sql.NullString
	err := s.db.QueryRowContext(ctx, `SELECT status FROM deposit_receipt_upload WHERE receipt_id = $1`, id).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Failed(models.FailureNotFound, "Request not found.")
	}
	if err != nil {
		s.logger.Error("failed to load deposit request", zap.Int64("id", id), zap.Error(err))
		return models.Failed(models.FailureStore, "Deposit rejection failed on server.")
	}

	if refused, ok := guardTransition(models.ParseStatus(status.String), actionReject); !ok {
		return refused
	}

	res, err := s.db.ExecContext(ctx, `
        UPDATE deposit_receipt_upload
        SET status = 'rejected', comment = $1, update_time = CURRENT_TIMESTAMP
        WHERE receipt_id = $2 AND LOWER(status) = 'pending'`,
		comment, id)
	if err != nil {
		s.logger.Error("failed to reject deposit request", zap.Int64("id", id), zap.Error(err))
		return models.Failed(models.FailureStore, "Deposit rejection failed on server.")
	}
	if err := expectOneRow(res); err != nil {
		return models.Failed(models.FailureConflict, "This request was updated by another action.")
	}

	return models.Succeeded("", comment)
}

func (s *DepositService) record(id int64, action string, to models.Status, result models.ActionResult) {
	if result.Success {
		s.audit.LogTransition(pipelineDeposit, id, action, to.String(), "", result.Ticket)
		return
	}
	s.audit.LogRefused(pipelineDeposit, id, action, "", string(result.Kind), result.Error)
}

var errNoRowUpdated = errors.New("no pending row updated")

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n != 1 {
		return errNoRowUpdated
	}
	return nil
}

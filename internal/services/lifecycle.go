package services

import (
	"database/sql"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mt5crm/backoffice/internal/ledger"
	"github.com/mt5crm/backoffice/internal/models"
)

const (
	pipelineDeposit    = "deposit"
	pipelineWithdrawal = "withdrawal"

	actionApprove = "approve"
	actionReject  = "reject"
)

const (
	DefaultDepositApproveComment    = "Deposit_BO"
	DefaultDepositRejectComment     = "Rejected"
	DefaultWithdrawalApproveComment = "Approved"
	DefaultWithdrawalRejectComment  = "ADJ_RejectWithdraw"
	RefundLedgerComment             = "ADJ_RejectWithdraw"
	DefaultOperator                 = "Operator"
)

// guardTransition checks that a request may leave its current status. Only
// pending requests transition; every other status is terminal.
func guardTransition(current models.Status, action string) (models.ActionResult, bool) {
	switch current {
	case models.StatusPending:
		return models.ActionResult{}, true
	case models.StatusApproved, models.StatusTransferred:
		return models.Failed(models.FailureAlreadyApproved, "This request is already approved."), false
	case models.StatusRejected:
		if action == actionReject {
			return models.Failed(models.FailureAlreadyRejected, "This request is already rejected."), false
		}
		return models.Failed(models.FailureAlreadyRejected, "This request has been rejected."), false
	case models.StatusCancelled:
		return models.Failed(models.FailureCancelled, "This request was cancelled by the client."), false
	default:
		return models.Failed(models.FailureUnknownStatus, "This request is not pending."), false
	}
}

// guardLedgerInputs validates the fields a balance adjustment needs.
func guardLedgerInputs(login sql.NullString, amount sql.NullString) (string, decimal.Decimal, models.ActionResult, bool) {
	l := strings.TrimSpace(login.String)
	if !login.Valid || l == "" {
		return "", decimal.Zero, models.Failed(models.FailureMissingLogin, "Login is missing for this request."), false
	}
	value, ok := models.ParseDecimal(amount)
	if !ok || !value.IsPositive() {
		return "", decimal.Zero, models.Failed(models.FailureMissingAmount, "Amount is missing for this request."), false
	}
	return l, value, models.ActionResult{}, true
}

// ledgerFailure maps a ledger client error onto an action outcome. api names
// the endpoint in the operator-facing message.
func ledgerFailure(err error, api string) models.ActionResult {
	kind, _ := ledger.KindOf(err)
	switch kind {
	case ledger.KindTimeout:
		return models.Failed(models.FailureLedgerTimeout, api+" timed out.")
	case ledger.KindStatus:
		return models.Failed(models.FailureLedgerRejected, api+" call failed.")
	case ledger.KindMalformed, ledger.KindNoTicket:
		return models.Failed(models.FailureLedgerNoTicket, api+" did not return a ticket.")
	default:
		return models.Failed(models.FailureLedgerUnreachable, "Unable to reach "+strings.ToLower(api[:1])+api[1:]+".")
	}
}

func commentOrDefault(comment, fallback string) string {
	if c := strings.TrimSpace(comment); c != "" {
		return c
	}
	return fallback
}

func inProgress() models.ActionResult {
	return models.Failed(models.FailureInProgress, "Another action on this request is in progress.")
}

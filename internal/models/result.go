package models

// FailureKind discriminates why a lifecycle action did not apply.
type FailureKind string

const (
	FailureNone              FailureKind = ""
	FailureInvalidID         FailureKind = "invalid_id"
	FailureNotFound          FailureKind = "not_found"
	FailureAlreadyApproved   FailureKind = "already_approved"
	FailureAlreadyRejected   FailureKind = "already_rejected"
	FailureCancelled         FailureKind = "cancelled"
	FailureUnknownStatus     FailureKind = "unknown_status"
	FailureMissingLogin      FailureKind = "missing_login"
	FailureMissingAmount     FailureKind = "missing_amount"
	FailureInProgress        FailureKind = "in_progress"
	FailureConflict          FailureKind = "conflict"
	FailureLedgerUnreachable FailureKind = "ledger_unreachable"
	FailureLedgerTimeout     FailureKind = "ledger_timeout"
	FailureLedgerRejected    FailureKind = "ledger_rejected"
	FailureLedgerNoTicket    FailureKind = "ledger_no_ticket"
	FailureStore             FailureKind = "store_error"
)

// ActionResult is the outcome of an approve or reject action. Failures carry a
// Kind and a human-readable Error; they are never raised as Go errors.
type ActionResult struct {
	Success bool        `json:"success"`
	Kind    FailureKind `json:"kind,omitempty"`
	Error   string      `json:"error,omitempty"`
	Ticket  string      `json:"ticket,omitempty"`
	Comment string      `json:"comment,omitempty"`
}

func Succeeded(ticket, comment string) ActionResult {
	return ActionResult{Success: true, Ticket: ticket, Comment: comment}
}

func Failed(kind FailureKind, message string) ActionResult {
	return ActionResult{Success: false, Kind: kind, Error: message}
}

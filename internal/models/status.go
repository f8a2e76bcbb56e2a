package models

import "strings"

// Status is the lifecycle state of a deposit or withdrawal request.
type Status string

const (
	StatusPending     Status = "pending"
	StatusApproved    Status = "approved"
	StatusTransferred Status = "transferred"
	StatusRejected    Status = "rejected"
	StatusCancelled   Status = "cancelled"
	StatusUnknown     Status = "unknown"
)

// ParseStatus canonicalizes a stored status value. Stored values are matched
// case-insensitively and surrounding whitespace is ignored.
func ParseStatus(raw string) Status {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "pending":
		return StatusPending
	case "approved":
		return StatusApproved
	case "transferred":
		return StatusTransferred
	case "rejected":
		return StatusRejected
	case "cancelled":
		return StatusCancelled
	default:
		return StatusUnknown
	}
}

// IsTerminal reports whether no further transition may leave this status.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusApproved, StatusTransferred, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

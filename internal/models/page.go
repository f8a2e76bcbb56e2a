package models

import (
	"errors"
	"math"
	"time"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

// ErrStoreUnavailable marks a listing that failed because the store could not
// be queried, as opposed to a query that matched nothing.
var ErrStoreUnavailable = errors.New("request store unavailable")

// PageRequest selects one page of a listing.
type PageRequest struct {
	Page     int
	PageSize int
}

// Normalize applies the listing defaults: page and size must be positive.
func (p PageRequest) Normalize() PageRequest {
	if p.Page <= 0 {
		p.Page = DefaultPage
	}
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	return p
}

// Offset is the number of rows skipped before this page.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// TotalPages returns the page count for total rows, never less than one.
func TotalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	pages := int(math.Ceil(float64(total) / float64(pageSize)))
	if pages < 1 {
		return 1
	}
	return pages
}

// StatusFilter selects withdrawals by status. StatusFilterAll disables the predicate.
type StatusFilter string

const (
	StatusFilterPending   StatusFilter = "pending"
	StatusFilterApproved  StatusFilter = "approved"
	StatusFilterRejected  StatusFilter = "rejected"
	StatusFilterCancelled StatusFilter = "cancelled"
	StatusFilterAll       StatusFilter = "all"
)

// WithdrawalFilter narrows a withdrawal listing. From and To are inclusive
// calendar-day bounds on submission time; nil means unbounded.
type WithdrawalFilter struct {
	Status StatusFilter
	From   *time.Time
	To     *time.Time
}

// HasDateBounds reports whether either date bound is set.
func (f WithdrawalFilter) HasDateBounds() bool {
	return f.From != nil || f.To != nil
}

type DepositPage struct {
	Requests []DepositRequest `json:"requests"`
	Total    int64            `json:"total"`
}

type WithdrawalPage struct {
	Requests []WithdrawalRequest `json:"requests"`
	Total    int64               `json:"total"`
}

// PendingItem is one row of the dashboard pending summary.
type PendingItem struct {
	ID     int64    `json:"id"`
	Login  string   `json:"login"`
	Amount *float64 `json:"amount"`
}

type PendingSummary struct {
	Total int64         `json:"total"`
	Items []PendingItem `json:"items"`
}

type DashboardSummary struct {
	Deposits    PendingSummary `json:"deposits"`
	Withdrawals PendingSummary `json:"withdrawals"`
}

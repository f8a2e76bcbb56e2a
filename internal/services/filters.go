package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/mt5crm/backoffice/internal/models"
)

const dateLayout = "2006-01-02"

// ParseWithdrawalFilter builds a filter from raw query values. An empty or
// unrecognized status means pending; dates that do not parse are dropped.
func ParseWithdrawalFilter(status, from, to string, loc *time.Location) models.WithdrawalFilter {
	if loc == nil {
		loc = time.Local
	}
	f := models.WithdrawalFilter{Status: parseStatusFilter(status)}
	if d, ok := parseDay(from, loc); ok {
		f.From = &d
	}
	if d, ok := parseDay(to, loc); ok {
		f.To = &d
	}
	return f
}

func parseStatusFilter(raw string) models.StatusFilter {
	switch s := models.StatusFilter(strings.ToLower(strings.TrimSpace(raw))); s {
	case models.StatusFilterPending, models.StatusFilterApproved, models.StatusFilterRejected,
		models.StatusFilterCancelled, models.StatusFilterAll:
		return s
	default:
		return models.StatusFilterPending
	}
}

func parseDay(raw string, loc *time.Location) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	d, err := time.ParseInLocation(dateLayout, raw, loc)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// whereBuilder accumulates AND-ed predicates with positional placeholders.
type whereBuilder struct {
	clauses []string
	args    []any
}

func (b *whereBuilder) next() int {
	return len(b.args) + 1
}

func (b *whereBuilder) add(clause string, args ...any) {
	b.clauses = append(b.clauses, clause)
	b.args = append(b.args, args...)
}

func (b *whereBuilder) sql() string {
	if len(b.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.clauses, " AND ")
}

// buildWithdrawalWhere renders the filter as a WHERE clause. A pending filter
// without date bounds also admits anything submitted on now's calendar day.
func buildWithdrawalWhere(f models.WithdrawalFilter, now time.Time) (string, []any) {
	b := &whereBuilder{}

	switch f.Status {
	case models.StatusFilterAll:
	case models.StatusFilterApproved:
		n := b.next()
		b.add(fmt.Sprintf("LOWER(status) IN ($%d, $%d)", n, n+1),
			string(models.StatusTransferred), string(models.StatusApproved))
	case models.StatusFilterRejected, models.StatusFilterCancelled:
		b.add(fmt.Sprintf("LOWER(status) = $%d", b.next()), string(f.Status))
	default:
		n := b.next()
		if f.HasDateBounds() {
			b.add(fmt.Sprintf("LOWER(status) = $%d", n), string(models.StatusPending))
			break
		}
		today := startOfDay(now)
		b.add(fmt.Sprintf("(LOWER(status) = $%d OR (time >= $%d AND time < $%d))", n, n+1, n+2),
			string(models.StatusPending), today, today.AddDate(0, 0, 1))
	}

	if f.From != nil {
		b.add(fmt.Sprintf("time >= $%d", b.next()), startOfDay(*f.From))
	}
	if f.To != nil {
		b.add(fmt.Sprintf("time < $%d", b.next()), startOfDay(*f.To).AddDate(0, 0, 1))
	}

	return b.sql(), b.args
}

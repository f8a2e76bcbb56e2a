package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultTimeout bounds a single balance adjustment round trip.
const DefaultTimeout = 10 * time.Second

// TypeBalance is the MT5 trade/balance operation code for a balance credit.
const TypeBalance = 2

const maxResponseBytes = 1 << 20

// Adjustment is one balance operation against a trading account.
type Adjustment struct {
	Login   string
	Type    int
	Amount  decimal.Decimal
	Comment string
}

// Receipt is the ledger's acknowledgement of an applied adjustment.
type Receipt struct {
	Ticket string
}

type ErrorKind string

const (
	KindUnreachable ErrorKind = "unreachable"
	KindTimeout     ErrorKind = "timeout"
	KindStatus      ErrorKind = "status"
	KindMalformed   ErrorKind = "malformed"
	KindNoTicket    ErrorKind = "no_ticket"
)

// Error is returned for every failed adjustment. Callers switch on Kind.
type Error struct {
	Kind       ErrorKind
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindStatus:
		return fmt.Sprintf("ledger returned status %d", e.StatusCode)
	case KindNoTicket:
		return "ledger did not return a ticket"
	}
	if e.Err != nil {
		return fmt.Sprintf("ledger %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("ledger %s", e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf extracts the failure kind from an error returned by Adjust.
func KindOf(err error) (ErrorKind, bool) {
	var lerr *Error
	if errors.As(err, &lerr) {
		return lerr.Kind, true
	}
	return "", false
}

// Adjuster applies balance adjustments. It is satisfied by *Client.
type Adjuster interface {
	Adjust(ctx context.Context, adj Adjustment) (*Receipt, error)
}

// Client calls the trade/balance endpoint of the MT5 gateway.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
	logger  *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		timeout: timeout,
		http:    &http.Client{},
		logger:  logger.With(zap.String("component", "ledger")),
	}
}

type balanceResponse struct {
	Success *bool `json:"success"`
	Data    *struct {
		Ticket ticket `json:"ticket"`
	} `json:"data"`
}

// ticket accepts the gateway's ticket as either a JSON string or number.
type ticket string

func (t *ticket) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*t = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*t = ticket(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*t = ticket(n.String())
	return nil
}

// Adjust issues the balance operation. The call is abandoned after the
// configured timeout; no state is retained between calls.
func (c *Client) Adjust(ctx context.Context, adj Adjustment) (*Receipt, error) {
	endpoint, err := c.buildURL(adj)
	if err != nil {
		return nil, &Error{Kind: KindUnreachable, Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &Error{Kind: KindUnreachable, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		kind := KindUnreachable
		if isTimeout(err) {
			kind = KindTimeout
		}
		c.logger.Warn("balance adjustment request failed",
			zap.String("login", adj.Login),
			zap.String("kind", string(kind)),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return nil, &Error{Kind: kind, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		c.logger.Warn("balance adjustment rejected",
			zap.String("login", adj.Login),
			zap.Int("status", resp.StatusCode))
		return nil, &Error{Kind: KindStatus, StatusCode: resp.StatusCode}
	}

	var payload balanceResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&payload); err != nil {
		kind := KindMalformed
		if isTimeout(err) {
			kind = KindTimeout
		}
		c.logger.Warn("balance adjustment response unreadable",
			zap.String("login", adj.Login),
			zap.String("kind", string(kind)),
			zap.Error(err))
		return nil, &Error{Kind: kind, StatusCode: resp.StatusCode, Err: err}
	}

	if payload.Success == nil || !*payload.Success || payload.Data == nil || payload.Data.Ticket == "" {
		c.logger.Warn("balance adjustment returned no ticket", zap.String("login", adj.Login))
		return nil, &Error{Kind: KindNoTicket, StatusCode: resp.StatusCode}
	}

	c.logger.Info("balance adjustment applied",
		zap.String("login", adj.Login),
		zap.String("amount", adj.Amount.String()),
		zap.String("ticket", string(payload.Data.Ticket)),
		zap.Duration("elapsed", time.Since(start)))

	return &Receipt{Ticket: string(payload.Data.Ticket)}, nil
}

func (c *Client) buildURL(adj Adjustment) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid ledger url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid ledger url %q", c.baseURL)
	}

	q := u.Query()
	q.Set("login", strings.TrimSpace(adj.Login))
	q.Set("type", strconv.Itoa(adj.Type))
	q.Set("balance", adj.Amount.String())
	q.Set("comment", adj.Comment)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

package models

import (
	"database/sql"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DepositRequest is a client-submitted deposit receipt awaiting review.
type DepositRequest struct {
	ID            int64      `json:"id" db:"receipt_id"`
	Deal          *string    `json:"deal" db:"deal"`
	Login         *string    `json:"login" db:"login"`
	UploadCode    *string    `json:"uploadCode" db:"upload_code"`
	Time          *time.Time `json:"time" db:"time"`
	UpdateTime    *time.Time `json:"updateTime" db:"update_time"`
	Status        Status     `json:"status" db:"status"`
	Amount        *float64   `json:"amount" db:"amount"`
	Comment       *string    `json:"comment" db:"comment"`
	PaymentMethod *string    `json:"paymentMethod" db:"payment_method"`
	USDTType      *string    `json:"usdtType" db:"usdt_type"`
	WalletAddress *string    `json:"walletAddress" db:"wallet_address"`
}

// WithdrawalRequest is a client withdrawal awaiting transfer or refund. The
// balance snapshot fields are captured at submission time and never mutated here.
type WithdrawalRequest struct {
	ID                 int64      `json:"id" db:"withdraw_id"`
	Deal               *string    `json:"deal" db:"deal"`
	Login              *string    `json:"login" db:"login"`
	ClientName         *string    `json:"clientName" db:"client_name"`
	Amount             *float64   `json:"amount" db:"amount"`
	BankName           *string    `json:"bankName" db:"bank_name"`
	BankNumber         *string    `json:"bankNumber" db:"bank_number"`
	Time               *time.Time `json:"time" db:"time"`
	UpdateTime         *time.Time `json:"updateTime" db:"update_time"`
	Status             Status     `json:"status" db:"status"`
	Balance            *float64   `json:"balance" db:"balance"`
	Credit             *float64   `json:"credit" db:"credit"`
	Equity             *float64   `json:"equity" db:"equity"`
	Margin             *float64   `json:"margin" db:"margin"`
	MarginFree         *float64   `json:"marginFree" db:"margin_free"`
	MarginLevel        *float64   `json:"marginLevel" db:"margin_level"`
	Operator           *string    `json:"operator" db:"operator"`
	Currency           *string    `json:"currency" db:"currency"`
	CancelWithdrawDeal *string    `json:"cancelWithdrawDeal" db:"cancel_withdraw_deal"`
	Comment            *string    `json:"comment" db:"comment"`
	PaymentMethod      *string    `json:"paymentMethod" db:"payment_method"`
	USDTType           *string    `json:"usdtType" db:"usdt_type"`
	WalletAddress      *string    `json:"walletAddress" db:"wallet_address"`
}

// ParseAmount normalizes a textual amount column. NULL, blank, unparsable and
// out-of-range values all yield nil.
func ParseAmount(v sql.NullString) *float64 {
	d, ok := ParseDecimal(v)
	if !ok {
		return nil
	}
	f, _ := d.Float64()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return nil
	}
	return &f
}

// ParseDecimal parses a textual amount column without going through float64.
func ParseDecimal(v sql.NullString) (decimal.Decimal, bool) {
	if !v.Valid {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(strings.TrimSpace(v.String))
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// NullableString converts a scanned column to a JSON-friendly pointer.
func NullableString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

// NullableTime converts a scanned timestamp to a JSON-friendly pointer.
func NullableTime(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}

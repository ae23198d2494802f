package billing

import (
	"github.com/billadmin/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// OverdueAlert is derived from an unpaid invoice past its due date.
// It is recomputed for every reference time and never stored.
type OverdueAlert struct {
	InvoiceID         string          `json:"invoice_id"`
	InvoiceNumber     string          `json:"invoice_number"`
	AccountID         string          `json:"account_id"`
	AccountName       string          `json:"account_name"`
	Amount            decimal.Decimal `json:"amount"`
	DueDate           shared.Date     `json:"due_date"`
	DaysOverdue       int             `json:"days_overdue"`
	LateFee           decimal.Decimal `json:"late_fee"`
	AmountWithLateFee decimal.Decimal `json:"amount_with_late_fee"`
}

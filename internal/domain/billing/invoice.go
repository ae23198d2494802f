package billing

import (
	"fmt"
	"time"

	"github.com/billadmin/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InvoiceStatus is the stored lifecycle status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusSent      InvoiceStatus = "sent"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusOverdue   InvoiceStatus = "overdue"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// InvoiceStatuses lists the known invoice statuses
var InvoiceStatuses = []string{
	string(InvoiceStatusDraft),
	string(InvoiceStatusSent),
	string(InvoiceStatusPaid),
	string(InvoiceStatusOverdue),
	string(InvoiceStatusCancelled),
}

// IsValid returns true if the status is known
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled:
		return true
	default:
		return false
	}
}

// String returns the string representation
func (s InvoiceStatus) String() string {
	return string(s)
}

// Category tells self-billed invoices apart from invoices billed to users
type Category string

const (
	CategorySelf Category = "self"
	CategoryUser Category = "user"
)

// Categories lists the invoice categories
var Categories = []string{string(CategorySelf), string(CategoryUser)}

// Invoice is a bill issued to an account
type Invoice struct {
	ID            string          `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	AccountID     string          `json:"account_id"`
	AccountName   string          `json:"account_name,omitempty"`
	ProfileID     string          `json:"profile_id,omitempty"`
	Category      Category        `json:"category,omitempty"`
	Charges       string          `json:"charges,omitempty"`
	Month         string          `json:"month,omitempty"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	DueDate       shared.Date     `json:"due_date"`
	CreatedAt     shared.Date     `json:"created_at"`
	Status        InvoiceStatus   `json:"status"`
	PaidStatus    bool            `json:"paid_status"`
}

// GetID returns the invoice id
func (i Invoice) GetID() string { return i.ID }

// GetCreatedAt returns the creation date
func (i Invoice) GetCreatedAt() shared.Date { return i.CreatedAt }

// IsPaid reports whether the invoice is settled
func (i Invoice) IsPaid() bool {
	return i.PaidStatus || i.Status == InvoiceStatusPaid
}

// IsOutstanding reports whether the invoice counts toward the outstanding balance
func (i Invoice) IsOutstanding() bool {
	return i.Status != InvoiceStatusPaid
}

// PaidLabel returns "paid" or "unpaid" for the paid-status filter
func (i Invoice) PaidLabel() string {
	if i.PaidStatus {
		return "paid"
	}
	return "unpaid"
}

// Validate checks the record invariants relative to now. It reports the
// first violated field as a MalformedRecordError.
func (i Invoice) Validate(now time.Time) error {
	if i.ID == "" {
		return shared.NewMalformedRecordError(i.InvoiceNumber, "id", "id is required")
	}
	if !i.DueDate.Valid {
		return shared.NewMalformedRecordError(i.ID, "due_date", dateReason(i.DueDate))
	}
	if i.TotalAmount.IsNegative() {
		return shared.NewMalformedRecordError(i.ID, "total_amount", "amount is negative")
	}
	if i.Status != "" && !i.Status.IsValid() {
		return shared.NewMalformedRecordError(i.ID, "status", fmt.Sprintf("unknown status %q", i.Status))
	}
	if i.PaidStatus && i.Status != InvoiceStatusPaid {
		return shared.NewMalformedRecordError(i.ID, "status", "paid invoice must have status paid")
	}
	if i.Status == InvoiceStatusOverdue {
		if i.PaidStatus {
			return shared.NewMalformedRecordError(i.ID, "paid_status", "overdue invoice cannot be paid")
		}
		if !i.DueDate.Time.Before(now) {
			return shared.NewMalformedRecordError(i.ID, "due_date", "overdue invoice is not past due")
		}
	}
	return nil
}

func dateReason(d shared.Date) string {
	if d.IsZero() {
		return "missing"
	}
	return fmt.Sprintf("unparsable value %q", d.Raw)
}

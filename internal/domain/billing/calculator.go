package billing

import (
	"fmt"
	"time"

	"github.com/billadmin/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DefaultLateFeeRate is the per-day late fee in currency units
var DefaultLateFeeRate = decimal.RequireFromString("2.5")

const day = 24 * time.Hour

// Calculator computes overdue days, late fees and balances.
// It is immutable and safe for concurrent use.
type Calculator struct {
	LateFeeRate decimal.Decimal
}

// NewCalculator creates a calculator; a non-positive rate uses DefaultLateFeeRate
func NewCalculator(rate decimal.Decimal) Calculator {
	if !rate.IsPositive() {
		rate = DefaultLateFeeRate
	}
	return Calculator{LateFeeRate: rate}
}

// DaysOverdue returns the whole days elapsed since the due date, never
// negative. Paid invoices and invoices without a usable due date are
// never overdue.
func (c Calculator) DaysOverdue(inv Invoice, now time.Time) int {
	if inv.PaidStatus || !inv.DueDate.Valid {
		return 0
	}
	elapsed := now.Sub(inv.DueDate.Time)
	if elapsed <= 0 {
		return 0
	}
	return int(elapsed / day)
}

// LateFee returns days x rate, zero when days is not positive
func (c Calculator) LateFee(days int) decimal.Decimal {
	if days <= 0 {
		return decimal.Zero
	}
	return c.rate().Mul(decimal.NewFromInt(int64(days)))
}

// AmountWithLateFee returns the total amount plus the accrued late fee
func (c Calculator) AmountWithLateFee(inv Invoice, now time.Time) decimal.Decimal {
	return inv.TotalAmount.Add(c.LateFee(c.DaysOverdue(inv, now)))
}

// ClassifyStatus derives the display status: paid when settled, overdue
// past the due date, otherwise the stored status.
func (c Calculator) ClassifyStatus(inv Invoice, now time.Time) InvoiceStatus {
	if inv.PaidStatus {
		return InvoiceStatusPaid
	}
	if inv.DueDate.Valid && now.After(inv.DueDate.Time) {
		return InvoiceStatusOverdue
	}
	return inv.Status
}

// OutstandingBalance sums the base amount of every in-scope invoice whose
// status is not paid. Late fees are not included. Invoices with a negative
// amount are skipped and reported.
func (c Calculator) OutstandingBalance(invoices []Invoice, scope func(Invoice) bool) (decimal.Decimal, Report) {
	var report Report
	total := decimal.Zero
	for _, inv := range invoices {
		if scope != nil && !scope(inv) {
			continue
		}
		if !inv.IsOutstanding() {
			continue
		}
		if inv.TotalAmount.IsNegative() {
			report.skip(shared.NewMalformedRecordError(inv.ID, "total_amount", "amount is negative"))
			continue
		}
		total = total.Add(inv.TotalAmount)
	}
	return total, report
}

// OverdueAlerts derives one alert per unpaid invoice past its due date.
// Invoices without a usable due date are skipped and reported.
func (c Calculator) OverdueAlerts(invoices []Invoice, now time.Time) ([]OverdueAlert, Report) {
	var report Report
	alerts := make([]OverdueAlert, 0)
	for _, inv := range invoices {
		if inv.IsPaid() {
			continue
		}
		if !inv.DueDate.Valid {
			report.skip(shared.NewMalformedRecordError(inv.ID, "due_date", dateReason(inv.DueDate)))
			continue
		}
		days := c.DaysOverdue(inv, now)
		if days == 0 {
			continue
		}
		fee := c.LateFee(days)
		alerts = append(alerts, OverdueAlert{
			InvoiceID:         inv.ID,
			InvoiceNumber:     inv.InvoiceNumber,
			AccountID:         inv.AccountID,
			AccountName:       inv.AccountName,
			Amount:            inv.TotalAmount,
			DueDate:           inv.DueDate,
			DaysOverdue:       days,
			LateFee:           fee,
			AmountWithLateFee: inv.TotalAmount.Add(fee),
		})
	}
	return alerts, report
}

// NextAlertChange returns the first instant after now at which the days
// overdue of an unpaid invoice changes, and with it the alerts and fees
// OverdueAlerts reports. ok is false when no invoice will change.
func (c Calculator) NextAlertChange(invoices []Invoice, now time.Time) (next time.Time, ok bool) {
	for _, inv := range invoices {
		if inv.IsPaid() || !inv.DueDate.Valid {
			continue
		}
		days := c.DaysOverdue(inv, now)
		at := inv.DueDate.Time.Add(time.Duration(days+1) * day)
		if !ok || at.Before(next) {
			next, ok = at, true
		}
	}
	return next, ok
}

// Evaluation is the computed billing view of one invoice
type Evaluation struct {
	InvoiceID         string          `json:"invoice_id"`
	Status            InvoiceStatus   `json:"status"`
	DaysOverdue       int             `json:"days_overdue"`
	LateFee           decimal.Decimal `json:"late_fee"`
	AmountWithLateFee decimal.Decimal `json:"amount_with_late_fee"`
}

// Evaluate computes the billing view of a single invoice. Unlike the
// aggregates it fails on a malformed record.
func (c Calculator) Evaluate(inv Invoice, now time.Time) (Evaluation, error) {
	if !inv.DueDate.Valid {
		return Evaluation{}, shared.NewMalformedRecordError(inv.ID, "due_date", dateReason(inv.DueDate))
	}
	if inv.TotalAmount.IsNegative() {
		return Evaluation{}, shared.NewMalformedRecordError(inv.ID, "total_amount", "amount is negative")
	}
	days := c.DaysOverdue(inv, now)
	fee := c.LateFee(days)
	return Evaluation{
		InvoiceID:         inv.ID,
		Status:            c.ClassifyStatus(inv, now),
		DaysOverdue:       days,
		LateFee:           fee,
		AmountWithLateFee: inv.TotalAmount.Add(fee),
	}, nil
}

func (c Calculator) rate() decimal.Decimal {
	if !c.LateFeeRate.IsPositive() {
		return DefaultLateFeeRate
	}
	return c.LateFeeRate
}

// Report lists the records an aggregate pass could not evaluate
type Report struct {
	Skipped []*shared.MalformedRecordError
}

func (r *Report) skip(err *shared.MalformedRecordError) {
	r.Skipped = append(r.Skipped, err)
}

// Merge appends the skips of other
func (r *Report) Merge(other Report) {
	r.Skipped = append(r.Skipped, other.Skipped...)
}

// Count returns the number of skipped records
func (r Report) Count() int {
	return len(r.Skipped)
}

// Summary renders the user-visible skip count, empty when nothing was skipped
func (r Report) Summary() string {
	switch n := r.Count(); n {
	case 0:
		return ""
	case 1:
		return "1 record could not be evaluated"
	default:
		return fmt.Sprintf("%d records could not be evaluated", n)
	}
}

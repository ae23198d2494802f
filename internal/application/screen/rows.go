package screen

import (
	"time"

	"github.com/billadmin/backend/internal/domain/billing"
	"github.com/billadmin/backend/internal/domain/catalog"
	"github.com/billadmin/backend/internal/domain/customer"
	"github.com/shopspring/decimal"
)

// AccountRow is an account with its related counts
type AccountRow struct {
	customer.Account
	ServiceCount int `json:"service_count"`
	InvoiceCount int `json:"invoice_count"`
}

// ProfileRow is a profile with the accounts and services reached through it
type ProfileRow struct {
	customer.Profile
	AccountCount int `json:"account_count"`
	ServiceCount int `json:"service_count"`
}

// PlanRow is a plan with its derived deposit
type PlanRow struct {
	catalog.Plan
	CalculatedDeposit decimal.Decimal `json:"calculated_deposit"`
}

// ServiceRow is a service joined with its plan and account
type ServiceRow = catalog.ServiceView

// InvoiceRow is an invoice with the billing fields computed for now
type InvoiceRow struct {
	billing.Invoice
	DisplayStatus     billing.InvoiceStatus `json:"display_status"`
	DaysOverdue       int                   `json:"days_overdue"`
	LateFee           decimal.Decimal       `json:"late_fee"`
	AmountWithLateFee decimal.Decimal       `json:"amount_with_late_fee"`
}

// buildAccountRows counts services and invoices per account
func buildAccountRows(accounts []customer.Account, services []catalog.Service, invoices []billing.Invoice) []AccountRow {
	serviceCount := make(map[string]int, len(accounts))
	for _, s := range services {
		serviceCount[s.AccountID]++
	}
	invoiceCount := make(map[string]int, len(accounts))
	for _, inv := range invoices {
		invoiceCount[inv.AccountID]++
	}

	rows := make([]AccountRow, len(accounts))
	for i, a := range accounts {
		rows[i] = AccountRow{
			Account:      a,
			ServiceCount: serviceCount[a.ID],
			InvoiceCount: invoiceCount[a.ID],
		}
	}
	return rows
}

// buildProfileRows counts accounts per profile and services through them
func buildProfileRows(profiles []customer.Profile, services []catalog.Service, own *customer.Ownership) []ProfileRow {
	serviceCount := make(map[string]int, len(profiles))
	for _, s := range services {
		if profileID, ok := own.ProfileOf(s.AccountID); ok {
			serviceCount[profileID]++
		}
	}

	rows := make([]ProfileRow, len(profiles))
	for i, p := range profiles {
		rows[i] = ProfileRow{
			Profile:      p,
			AccountCount: own.AccountCount(p.ID),
			ServiceCount: serviceCount[p.ID],
		}
	}
	return rows
}

func buildPlanRows(plans []catalog.Plan) []PlanRow {
	rows := make([]PlanRow, len(plans))
	for i, p := range plans {
		rows[i] = PlanRow{Plan: p, CalculatedDeposit: p.CalculatedDeposit()}
	}
	return rows
}

// buildServiceRows joins every service with its plan and account. Services
// whose plan or account is missing keep empty joined fields.
func buildServiceRows(services []catalog.Service, plans []catalog.Plan, accounts []customer.Account) []ServiceRow {
	planByID := make(map[string]*catalog.Plan, len(plans))
	for i := range plans {
		planByID[plans[i].ID] = &plans[i]
	}
	accountByID := make(map[string]*customer.Account, len(accounts))
	for i := range accounts {
		accountByID[accounts[i].ID] = &accounts[i]
	}

	rows := make([]ServiceRow, len(services))
	for i, s := range services {
		var name, profileID, ownerID string
		if a, ok := accountByID[s.AccountID]; ok {
			name, profileID, ownerID = a.Name, a.ProfileID, a.UserID
		}
		rows[i] = catalog.Join(s, planByID[s.PlanID], name, profileID, ownerID)
	}
	return rows
}

// buildInvoiceRows computes the display fields and fills in the account
// name and profile when the invoice does not carry them
func buildInvoiceRows(invoices []billing.Invoice, accounts []customer.Account, calc billing.Calculator, now func() time.Time) []InvoiceRow {
	accountByID := make(map[string]*customer.Account, len(accounts))
	for i := range accounts {
		accountByID[accounts[i].ID] = &accounts[i]
	}

	at := now()
	rows := make([]InvoiceRow, len(invoices))
	for i, inv := range invoices {
		if a, ok := accountByID[inv.AccountID]; ok {
			if inv.AccountName == "" {
				inv.AccountName = a.Name
			}
			if inv.ProfileID == "" {
				inv.ProfileID = a.ProfileID
			}
		}
		days := calc.DaysOverdue(inv, at)
		fee := calc.LateFee(days)
		rows[i] = InvoiceRow{
			Invoice:           inv,
			DisplayStatus:     calc.ClassifyStatus(inv, at),
			DaysOverdue:       days,
			LateFee:           fee,
			AmountWithLateFee: inv.TotalAmount.Add(fee),
		}
	}
	return rows
}

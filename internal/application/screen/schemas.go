package screen

import (
	"github.com/billadmin/backend/internal/domain/billing"
	"github.com/billadmin/backend/internal/domain/catalog"
	"github.com/billadmin/backend/internal/domain/customer"
	"github.com/billadmin/backend/internal/domain/listing"
	"github.com/billadmin/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PaidStatuses are the options of the invoice paidStatus filter
var PaidStatuses = []string{"paid", "unpaid"}

func createdAt[T shared.Record](rec T) shared.Date { return rec.GetCreatedAt() }

// AccountSchema declares the accounts screen
func AccountSchema() listing.Schema[AccountRow] {
	return listing.Schema[AccountRow]{
		Name: Accounts,
		Search: []listing.SearchField[AccountRow]{
			{Name: "name", Value: func(r AccountRow) string { return r.Name }},
			{Name: "email", Value: func(r AccountRow) string { return r.Email }},
			{Name: "phone", Value: func(r AccountRow) string { return r.Phone }, Raw: true},
		},
		Fields: []listing.Field[AccountRow]{
			{Name: "accountId", Kind: listing.Contains, Value: func(r AccountRow) string { return r.ID }},
			{Name: "accountName", Kind: listing.Text, Value: func(r AccountRow) string { return r.Name }},
			{
				Name:    "status",
				Kind:    listing.Enum,
				Options: customer.ActivityStatuses,
				Value:   func(r AccountRow) string { return string(r.Activity()) },
			},
			{Name: "businessType", Kind: listing.Enum, Value: func(r AccountRow) string { return r.BusinessType }},
		},
		SortKeys: []listing.SortKey[AccountRow]{
			listing.ByString("name", func(r AccountRow) string { return r.Name }),
			listing.ByString("email", func(r AccountRow) string { return r.Email }),
			listing.ByString("phone", func(r AccountRow) string { return r.Phone }),
			listing.ByString("city", func(r AccountRow) string { return r.City }),
			listing.ByNumber("depositPaid", func(r AccountRow) decimal.Decimal { return r.DepositPaid }),
			listing.ByTime("createdAt", createdAt[AccountRow]),
		},
	}
}

// ProfileSchema declares the profiles screen
func ProfileSchema() listing.Schema[ProfileRow] {
	return listing.Schema[ProfileRow]{
		Name: Profiles,
		Search: []listing.SearchField[ProfileRow]{
			{Name: "name", Value: func(r ProfileRow) string { return r.Name }},
			{Name: "email", Value: func(r ProfileRow) string { return r.Email }},
			{Name: "phone", Value: func(r ProfileRow) string { return r.Phone }, Raw: true},
		},
		Fields: []listing.Field[ProfileRow]{
			{Name: "profileId", Kind: listing.Contains, Value: func(r ProfileRow) string { return r.ID }},
			{Name: "name", Kind: listing.Text, Value: func(r ProfileRow) string { return r.Name }},
			{Name: "phone", Kind: listing.Contains, Value: func(r ProfileRow) string { return r.Phone }},
			{
				Name:    "status",
				Kind:    listing.Enum,
				Options: customer.ActivityStatuses,
				Value:   func(r ProfileRow) string { return string(r.Activity()) },
			},
			{Name: "profession", Kind: listing.Enum, Value: func(r ProfileRow) string { return r.Profession }},
		},
		SortKeys: []listing.SortKey[ProfileRow]{
			listing.ByString("name", func(r ProfileRow) string { return r.Name }),
			listing.ByString("email", func(r ProfileRow) string { return r.Email }),
			listing.ByString("phone", func(r ProfileRow) string { return r.Phone }),
			listing.ByString("profession", func(r ProfileRow) string { return r.Profession }),
			listing.ByNumber("depositAmount", func(r ProfileRow) decimal.Decimal { return r.DepositAmount }),
			listing.ByTime("createdAt", createdAt[ProfileRow]),
		},
	}
}

// PlanSchema declares the plans screen
func PlanSchema() listing.Schema[PlanRow] {
	return listing.Schema[PlanRow]{
		Name: Plans,
		Search: []listing.SearchField[PlanRow]{
			{Name: "name", Value: func(r PlanRow) string { return r.Name }},
			{Name: "description", Value: func(r PlanRow) string { return r.Description }},
		},
		Fields: []listing.Field[PlanRow]{
			{
				Name:    "serviceType",
				Kind:    listing.Enum,
				Options: catalog.ServiceTypes,
				Value:   func(r PlanRow) string { return string(r.ServiceType) },
			},
			{Name: "planType", Kind: listing.Enum, Value: func(r PlanRow) string { return r.PlanType }},
			{
				Name:    "status",
				Kind:    listing.Enum,
				Options: catalog.PlanStatuses,
				Value:   func(r PlanRow) string { return string(r.Status) },
			},
		},
		SortKeys: []listing.SortKey[PlanRow]{
			listing.ByString("name", func(r PlanRow) string { return r.Name }),
			listing.ByNumber("charges", func(r PlanRow) decimal.Decimal { return r.Charges }),
			listing.ByNumber("calculatedDeposit", func(r PlanRow) decimal.Decimal { return r.CalculatedDeposit }),
			listing.ByTime("createdAt", createdAt[PlanRow]),
		},
	}
}

// ServiceSchema declares the services screen
func ServiceSchema() listing.Schema[ServiceRow] {
	return listing.Schema[ServiceRow]{
		Name: Services,
		Search: []listing.SearchField[ServiceRow]{
			{Name: "serviceName", Value: func(r ServiceRow) string { return r.ServiceName }},
			{Name: "serviceAddress", Value: func(r ServiceRow) string { return r.ServiceAddress }},
			{Name: "accountName", Value: func(r ServiceRow) string { return r.AccountName }},
		},
		Fields: []listing.Field[ServiceRow]{
			{Name: "serviceId", Kind: listing.Contains, Value: func(r ServiceRow) string { return r.ID }},
			{Name: "serviceName", Kind: listing.Text, Value: func(r ServiceRow) string { return r.ServiceName }},
			{
				Name:    "serviceType",
				Kind:    listing.Enum,
				Options: catalog.ServiceTypes,
				Value:   func(r ServiceRow) string { return string(r.ServiceType) },
			},
			{
				Name:    "planStatus",
				Kind:    listing.Enum,
				Options: catalog.PlanStatuses,
				Value:   func(r ServiceRow) string { return string(r.PlanStatus) },
			},
			{Name: "profileId", Kind: listing.Exact, Value: func(r ServiceRow) string { return r.ProfileID }},
			{Name: "accountId", Kind: listing.Exact, Value: func(r ServiceRow) string { return r.AccountID }},
		},
		SortKeys: []listing.SortKey[ServiceRow]{
			listing.ByString("serviceName", func(r ServiceRow) string { return r.ServiceName }),
			listing.ByString("serviceType", func(r ServiceRow) string { return string(r.ServiceType) }),
			listing.ByNumber("price", func(r ServiceRow) decimal.Decimal { return r.EffectivePrice() }),
			listing.ByTime("startDate", func(r ServiceRow) shared.Date { return r.StartDate }),
			listing.ByTime("createdAt", createdAt[ServiceRow]),
		},
	}
}

// InvoiceSchema declares the invoices screen. The amount takes part in the
// search as text, so "187" finds an invoice of 187.25.
func InvoiceSchema() listing.Schema[InvoiceRow] {
	return listing.Schema[InvoiceRow]{
		Name: Invoices,
		Search: []listing.SearchField[InvoiceRow]{
			{Name: "invoiceNumber", Value: func(r InvoiceRow) string { return r.InvoiceNumber }},
			{Name: "accountName", Value: func(r InvoiceRow) string { return r.AccountName }},
			{Name: "charges", Value: func(r InvoiceRow) string { return r.Charges }},
			{Name: "totalAmount", Value: func(r InvoiceRow) string { return r.TotalAmount.String() }, Raw: true},
		},
		Fields: []listing.Field[InvoiceRow]{
			{Name: "invoiceId", Kind: listing.Contains, Value: func(r InvoiceRow) string { return r.ID }},
			{Name: "accountName", Kind: listing.Text, Value: func(r InvoiceRow) string { return r.AccountName }},
			{Name: "month", Kind: listing.Text, Value: func(r InvoiceRow) string { return r.Month }},
			{
				Name:    "status",
				Kind:    listing.Enum,
				Options: billing.InvoiceStatuses,
				Value:   func(r InvoiceRow) string { return string(r.Status) },
			},
			{
				Name:    "paidStatus",
				Kind:    listing.Enum,
				Options: PaidStatuses,
				Match:   func(r InvoiceRow, v string) bool { return r.PaidLabel() == v },
			},
			{
				Name:    "category",
				Kind:    listing.Enum,
				Options: billing.Categories,
				Value:   func(r InvoiceRow) string { return string(r.Category) },
			},
			{Name: "accountId", Kind: listing.Exact, Value: func(r InvoiceRow) string { return r.AccountID }},
			{Name: "profileId", Kind: listing.Exact, Value: func(r InvoiceRow) string { return r.ProfileID }},
		},
		SortKeys: []listing.SortKey[InvoiceRow]{
			listing.ByString("invoiceNumber", func(r InvoiceRow) string { return r.InvoiceNumber }),
			listing.ByNumber("totalAmount", func(r InvoiceRow) decimal.Decimal { return r.TotalAmount }),
			listing.ByString("status", func(r InvoiceRow) string { return string(r.Status) }),
			listing.ByTime("dueDate", func(r InvoiceRow) shared.Date { return r.DueDate }),
			listing.ByTime("createdAt", createdAt[InvoiceRow]),
		},
	}
}

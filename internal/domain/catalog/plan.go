package catalog

import (
	"github.com/billadmin/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DefaultDepositMultiplier applies when a plan does not set one
var DefaultDepositMultiplier = decimal.NewFromInt(2)

// ServiceType is the utility or product category a plan bills for
type ServiceType string

const (
	ServiceTypeElectricity ServiceType = "electricity"
	ServiceTypeWater       ServiceType = "water"
	ServiceTypeGas         ServiceType = "gas"
	ServiceTypeInternet    ServiceType = "internet"
	ServiceTypeSaaS        ServiceType = "saas"
	ServiceTypeFacility    ServiceType = "facility"
	ServiceTypeOther       ServiceType = "other"
)

// ServiceTypes lists the known service types
var ServiceTypes = []string{
	string(ServiceTypeElectricity),
	string(ServiceTypeWater),
	string(ServiceTypeGas),
	string(ServiceTypeInternet),
	string(ServiceTypeSaaS),
	string(ServiceTypeFacility),
	string(ServiceTypeOther),
}

// PlanStatus is the lifecycle status of a plan
type PlanStatus string

const (
	PlanStatusActive    PlanStatus = "active"
	PlanStatusInactive  PlanStatus = "inactive"
	PlanStatusDraft     PlanStatus = "draft"
	PlanStatusSuspended PlanStatus = "suspended"
)

// PlanStatuses lists the known plan statuses
var PlanStatuses = []string{
	string(PlanStatusActive),
	string(PlanStatusInactive),
	string(PlanStatusDraft),
	string(PlanStatusSuspended),
}

// IsValid returns true if the status is known
func (s PlanStatus) IsValid() bool {
	switch s {
	case PlanStatusActive, PlanStatusInactive, PlanStatusDraft, PlanStatusSuspended:
		return true
	default:
		return false
	}
}

// Plan is a priced service plan offered to admins or users
type Plan struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Description       string          `json:"description,omitempty"`
	ServiceType       ServiceType     `json:"service_type"`
	PlanType          string          `json:"plan_type"`
	ChargeType        string          `json:"charge_type,omitempty"`
	BillingFrequency  string          `json:"billing_frequency,omitempty"`
	Status            PlanStatus      `json:"status"`
	Charges           decimal.Decimal `json:"charges"`
	BasePrice         decimal.Decimal `json:"base_price"`
	SetupFee          decimal.Decimal `json:"setup_fee"`
	DepositMultiplier decimal.Decimal `json:"deposit_multiplier"`
	AssignedToRole    string          `json:"assigned_to_role"`
	CreatedForAdmin   string          `json:"created_for_admin,omitempty"`
	CreatedBy         string          `json:"created_by,omitempty"`
	CreatedAt         shared.Date     `json:"created_at"`
}

// GetID returns the plan id
func (p Plan) GetID() string { return p.ID }

// GetCreatedAt returns the creation date
func (p Plan) GetCreatedAt() shared.Date { return p.CreatedAt }

// EffectiveDepositMultiplier returns the plan multiplier, or the default
// when it is unset or not positive
func (p Plan) EffectiveDepositMultiplier() decimal.Decimal {
	if !p.DepositMultiplier.IsPositive() {
		return DefaultDepositMultiplier
	}
	return p.DepositMultiplier
}

// CalculatedDeposit returns charges x deposit multiplier
func (p Plan) CalculatedDeposit() decimal.Decimal {
	return p.Charges.Mul(p.EffectiveDepositMultiplier())
}

// IsAssignedTo reports whether the plan is offered to role
func (p Plan) IsAssignedTo(role string) bool {
	if p.AssignedToRole == "" {
		return role == "user"
	}
	return p.AssignedToRole == role
}

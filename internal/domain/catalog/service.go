package catalog

import (
	"github.com/billadmin/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Service is a plan subscribed on an account at an address
type Service struct {
	ID             string           `json:"id"`
	AccountID      string           `json:"account_id"`
	PlanID         string           `json:"plan_id"`
	ServiceName    string           `json:"service_name"`
	ServiceType    ServiceType      `json:"service_type,omitempty"`
	ServiceAddress string           `json:"service_address"`
	Status         string           `json:"status,omitempty"`
	CustomPrice    *decimal.Decimal `json:"custom_price,omitempty"`
	StartDate      shared.Date      `json:"start_date"`
	CreatedAt      shared.Date      `json:"created_at"`
}

// GetID returns the service id
func (s Service) GetID() string { return s.ID }

// GetCreatedAt returns the creation date
func (s Service) GetCreatedAt() shared.Date { return s.CreatedAt }

// ServiceView is a service joined with its plan and account for listing
type ServiceView struct {
	Service
	AccountName string          `json:"account_name"`
	ProfileID   string          `json:"profile_id"`
	OwnerID     string          `json:"-"`
	PlanStatus  PlanStatus      `json:"plan_status"`
	PlanType    string          `json:"plan_type"`
	BasePrice   decimal.Decimal `json:"base_price"`
}

// EffectivePrice returns the custom price when set, else the plan base price
func (v ServiceView) EffectivePrice() decimal.Decimal {
	if v.CustomPrice != nil {
		return *v.CustomPrice
	}
	return v.BasePrice
}

// EffectiveServiceType prefers the service's own type over the plan's
func (v ServiceView) EffectiveServiceType(plan ServiceType) ServiceType {
	if v.ServiceType != "" {
		return v.ServiceType
	}
	return plan
}

// Join builds the listing view of s from its plan and account data.
// Missing plan or account data leaves the joined fields empty.
func Join(s Service, plan *Plan, accountName, profileID, ownerID string) ServiceView {
	v := ServiceView{
		Service:     s,
		AccountName: accountName,
		ProfileID:   profileID,
		OwnerID:     ownerID,
	}
	if plan != nil {
		v.PlanStatus = plan.Status
		v.PlanType = plan.PlanType
		v.BasePrice = plan.BasePrice
		v.ServiceType = v.EffectiveServiceType(plan.ServiceType)
	}
	return v
}

package customer

import (
	"github.com/billadmin/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Profile groups accounts under one customer identity
type Profile struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Email         string          `json:"email"`
	Phone         string          `json:"phone"`
	Profession    string          `json:"profession"`
	Address       string          `json:"address,omitempty"`
	City          string          `json:"city,omitempty"`
	State         string          `json:"state,omitempty"`
	DepositAmount decimal.Decimal `json:"deposit_amount"`
	LinkedPlanID  string          `json:"linked_plan_id,omitempty"`
	IsActive      bool            `json:"is_active"`
	CreatedBy     string          `json:"created_by,omitempty"`
	CreatedAt     shared.Date     `json:"created_at"`
}

// GetID returns the profile id
func (p Profile) GetID() string { return p.ID }

// GetCreatedAt returns the creation date
func (p Profile) GetCreatedAt() shared.Date { return p.CreatedAt }

// Activity returns the active/inactive status
func (p Profile) Activity() ActivityStatus { return ActivityOf(p.IsActive) }

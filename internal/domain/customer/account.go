package customer

import (
	"github.com/billadmin/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ActivityStatus is the active/inactive filter value mapped from IsActive
type ActivityStatus string

const (
	StatusActive   ActivityStatus = "active"
	StatusInactive ActivityStatus = "inactive"
)

// ActivityStatuses lists the filterable activity statuses
var ActivityStatuses = []string{string(StatusActive), string(StatusInactive)}

// ActivityOf maps an is_active flag onto its filter value
func ActivityOf(isActive bool) ActivityStatus {
	if isActive {
		return StatusActive
	}
	return StatusInactive
}

// Account is a billable account owned by a user and linked to a profile
type Account struct {
	ID           string          `json:"id"`
	ProfileID    string          `json:"profile_id"`
	UserID       string          `json:"user_id"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	Phone        string          `json:"phone"`
	Address      string          `json:"address,omitempty"`
	City         string          `json:"city"`
	State        string          `json:"state"`
	Zipcode      string          `json:"zipcode,omitempty"`
	BusinessType string          `json:"business_type,omitempty"`
	TaxID        string          `json:"tax_id,omitempty"`
	DepositPaid  decimal.Decimal `json:"deposit_paid"`
	IsActive     bool            `json:"is_active"`
	CreatedAt    shared.Date     `json:"created_at"`
}

// GetID returns the account id
func (a Account) GetID() string { return a.ID }

// GetCreatedAt returns the creation date
func (a Account) GetCreatedAt() shared.Date { return a.CreatedAt }

// Activity returns the active/inactive status
func (a Account) Activity() ActivityStatus { return ActivityOf(a.IsActive) }

// IsOwnedBy reports whether userID owns the account
func (a Account) IsOwnedBy(userID string) bool {
	return userID != "" && a.UserID == userID
}

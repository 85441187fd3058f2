package models

import (
	"time"
)

// Shop onboarding lifecycle. A leader reviews the agent's submission
// first; an admin makes the final call. Only admin_approved feeds the
// payout evaluation.
const (
	OnboardingPending       = "pending"
	OnboardingApproved      = "approved"
	OnboardingRejected      = "rejected"
	OnboardingAdminApproved = "admin_approved"
	OnboardingAdminRejected = "admin_rejected"
)

type ShopOnboarding struct {
	ID        int       `gorm:"primaryKey;autoIncrement" json:"id"`
	AgentId   int       `gorm:"column:agent_id;not null;index:idx_onboarding_agent_status" json:"agent_id"`
	ShopName  string    `gorm:"column:shop_name;size:255;not null" json:"shop_name"`
	OwnerName string    `gorm:"column:owner_name;size:255" json:"owner_name"`
	Phone     string    `gorm:"column:phone;size:50" json:"phone"`
	Address   string    `gorm:"column:address;size:255" json:"address"`
	Status    string    `gorm:"column:status;size:20;not null;default:pending;index:idx_onboarding_agent_status" json:"status"`
	Remark    string    `gorm:"column:remark;size:255" json:"remark"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (ShopOnboarding) TableName() string {
	return "shop_onboardings"
}

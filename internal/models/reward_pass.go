package models

import (
	"time"
)

const (
	RewardPassPending  = "pending"
	RewardPassApproved = "approved"
	RewardPassRejected = "rejected"
)

// RewardPass shares the approval shape of bank transfers but carries
// no commission.
type RewardPass struct {
	ID           int       `gorm:"primaryKey;autoIncrement" json:"id"`
	AgentId      int       `gorm:"column:agent_id;not null;index" json:"agent_id"`
	PassType     string    `gorm:"column:pass_type;size:50;not null" json:"pass_type"`
	Quantity     int       `gorm:"column:quantity;not null;default:1" json:"quantity"`
	Status       string    `gorm:"column:status;size:20;not null;default:pending" json:"status"`
	RejectRemark string    `gorm:"column:reject_remark;size:255" json:"reject_remark"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (RewardPass) TableName() string {
	return "reward_passes"
}

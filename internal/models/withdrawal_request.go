package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	WithdrawalPending  = "pending"
	WithdrawalApproved = "approved"
	WithdrawalRejected = "rejected"
)

// WithdrawalRequest asks to pay wallet funds out to the user. Approval
// debits the wallet with the request id as the ledger reference.
type WithdrawalRequest struct {
	ID             int             `gorm:"primaryKey;autoIncrement" json:"id"`
	UserId         int             `gorm:"column:user_id;not null;index" json:"user_id"`
	Amount         decimal.Decimal `gorm:"column:amount;type:decimal(20,2);not null" json:"amount"`
	WithdrawalCode string          `gorm:"column:withdrawal_code;size:32;not null;index" json:"withdrawal_code"`
	Status         string          `gorm:"column:status;size:20;not null;default:pending" json:"status"`
	RejectRemark   string          `gorm:"column:reject_remark;size:255" json:"reject_remark"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (WithdrawalRequest) TableName() string {
	return "withdrawal_requests"
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TransferPending  = "pending"
	TransferApproved = "approved"
	TransferRejected = "rejected"
)

type BankTransfer struct {
	ID                 int             `gorm:"primaryKey;autoIncrement" json:"id"`
	AgentId            int             `gorm:"column:agent_id;not null;index:idx_transfer_agent_status" json:"agent_id"`
	Amount             decimal.Decimal `gorm:"column:amount;type:decimal(20,2);not null" json:"amount"`
	AccountName        string          `gorm:"column:account_name;size:255" json:"account_name"`
	AccountNumber      string          `gorm:"column:account_number;size:50" json:"account_number"`
	BankName           string          `gorm:"column:bank_name;size:255" json:"bank_name"`
	Status             string          `gorm:"column:status;size:20;not null;default:pending;index:idx_transfer_agent_status" json:"status"`
	AmountChangeRemark string          `gorm:"column:amount_change_remark;size:255" json:"amount_change_remark"`
	RejectRemark       string          `gorm:"column:reject_remark;size:255" json:"reject_remark"`
	CreatedAt          time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (BankTransfer) TableName() string {
	return "bank_transfers"
}

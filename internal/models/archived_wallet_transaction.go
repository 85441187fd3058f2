package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ArchivedWalletTransaction mirrors WalletTransaction for rows moved
// out of the hot table by the archive job. The wallet balance equation
// spans both tables.
type ArchivedWalletTransaction struct {
	ID            int             `gorm:"primaryKey;autoIncrement" json:"id"`
	WalletId      int             `gorm:"column:wallet_id;not null;index" json:"wallet_id"`
	TransactionNo string          `gorm:"column:transaction_no;size:64;not null;index" json:"transaction_no"`
	TrxType       string          `gorm:"column:transaction_type;size:10;not null" json:"transaction_type"`
	Amount        decimal.Decimal `gorm:"column:amount;type:decimal(20,2);not null" json:"amount"`
	ReferenceType string          `gorm:"column:reference_type;size:50" json:"reference_type"`
	ReferenceId   *int            `gorm:"column:reference_id" json:"reference_id"`
	Remark        string          `gorm:"column:remark;size:255" json:"remark"`
	Balance       decimal.Decimal `gorm:"column:balance;type:decimal(20,2);default:0.00" json:"balance"`
	CreatedAt     time.Time       `gorm:"column:created_at" json:"created_at"`
	ArchivedAt    time.Time       `gorm:"column:archived_at;autoCreateTime" json:"archived_at"`
}

func (ArchivedWalletTransaction) TableName() string {
	return "archived_wallet_transactions"
}

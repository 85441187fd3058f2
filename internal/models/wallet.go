package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet holds the denormalized balance for one user. The balance is
// only ever written together with a WalletTransaction insert in the
// same database transaction; it must always equal the sum of credits
// minus debits on the ledger.
type Wallet struct {
	ID        int             `gorm:"primaryKey;autoIncrement" json:"id"`
	UserId    int             `gorm:"column:user_id;not null;uniqueIndex" json:"user_id"`
	Balance   decimal.Decimal `gorm:"column:balance;type:decimal(20,2);default:0.00" json:"balance"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Wallet) TableName() string {
	return "wallets"
}

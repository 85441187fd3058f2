package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TrxCredit = "credit"
	TrxDebit  = "debit"
)

// Reference kinds tagged on ledger entries. The tuple
// (wallet_id, reference_type, reference_id) is the idempotency key for
// credit rows carrying a reference id.
const (
	RefOnboardingPayout   = "onboarding_payout"
	RefBankTransferPayout = "bank_transfer_payout"
	RefWithdrawal         = "withdrawal"
	RefManualCredit       = "manual_credit"
)

// WalletTransaction is an immutable ledger entry. Rows are never
// updated or deleted; Balance records the wallet balance after this
// entry was applied.
type WalletTransaction struct {
	ID            int             `gorm:"primaryKey;autoIncrement" json:"id"`
	WalletId      int             `gorm:"column:wallet_id;not null;index:idx_wallet_ref,priority:1" json:"wallet_id"`
	TransactionNo string          `gorm:"column:transaction_no;size:64;not null;index" json:"transaction_no"`
	TrxType       string          `gorm:"column:transaction_type;size:10;not null" json:"transaction_type"`
	Amount        decimal.Decimal `gorm:"column:amount;type:decimal(20,2);not null" json:"amount"`
	ReferenceType string          `gorm:"column:reference_type;size:50;index:idx_wallet_ref,priority:2" json:"reference_type"`
	ReferenceId   *int            `gorm:"column:reference_id;index:idx_wallet_ref,priority:3" json:"reference_id"`
	Remark        string          `gorm:"column:remark;size:255" json:"remark"`
	Balance       decimal.Decimal `gorm:"column:balance;type:decimal(20,2);default:0.00" json:"balance"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (WalletTransaction) TableName() string {
	return "wallet_transactions"
}

package services

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"backoffice-service/internal/models"
	"backoffice-service/pkg/common"
)

// LedgerService owns the wallet balances and their append-only
// transaction log. All balance mutation goes through Credit/Debit;
// every mutation couples the balance update and the ledger insert in
// one database transaction with the wallet row locked.
type LedgerService struct {
	DB  *gorm.DB
	Log *zap.Logger
}

func NewLedgerService(db *gorm.DB, log *zap.Logger) *LedgerService {
	return &LedgerService{DB: db, Log: log}
}

type LedgerEntryDTO struct {
	UserId        int
	Amount        decimal.Decimal
	ReferenceType string
	ReferenceId   *int
	Remark        string
}

// Credit applies a credit in its own database transaction. Returns
// applied=false without mutation when the idempotency key
// (wallet, reference type, reference id) already has a credit row.
func (s *LedgerService) Credit(data LedgerEntryDTO) (bool, error) {
	applied := false
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		a, err := s.CreditTx(tx, data)
		applied = a
		return err
	})
	return applied, err
}

// CreditTx is Credit running inside a caller-owned transaction, so the
// payout orchestrator can couple its aggregation reads with the credit
// under one wallet lock.
func (s *LedgerService) CreditTx(tx *gorm.DB, data LedgerEntryDTO) (bool, error) {
	if !data.Amount.IsPositive() {
		return false, ErrInvalidAmount
	}

	wallet, err := s.LockWallet(tx, data.UserId)
	if err != nil {
		return false, err
	}

	if data.ReferenceId != nil {
		var existing int64
		err := tx.Model(&models.WalletTransaction{}).
			Where("wallet_id = ? AND transaction_type = ? AND reference_type = ? AND reference_id = ?",
				wallet.ID, models.TrxCredit, data.ReferenceType, *data.ReferenceId).
			Count(&existing).Error
		if err != nil {
			return false, err
		}
		if existing > 0 {
			s.Log.Info("duplicate credit ignored",
				zap.Int("user_id", data.UserId),
				zap.String("reference_type", data.ReferenceType),
				zap.Int("reference_id", *data.ReferenceId))
			return false, nil
		}
	}

	newBalance := wallet.Balance.Add(data.Amount)
	if err := tx.Model(&models.Wallet{}).
		Where("id = ?", wallet.ID).
		UpdateColumn("balance", gorm.Expr("balance + ?", data.Amount)).Error; err != nil {
		return false, err
	}

	entry := models.WalletTransaction{
		WalletId:      wallet.ID,
		TransactionNo: uuid.NewString(),
		TrxType:       models.TrxCredit,
		Amount:        data.Amount,
		ReferenceType: data.ReferenceType,
		ReferenceId:   data.ReferenceId,
		Remark:        data.Remark,
		Balance:       newBalance,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return false, err
	}

	s.Log.Info("wallet credited",
		zap.Int("user_id", data.UserId),
		zap.String("amount", data.Amount.String()),
		zap.String("reference_type", data.ReferenceType))
	return true, nil
}

// Debit applies a debit in its own database transaction. Fails with
// ErrInsufficientFunds when the balance cannot cover the amount.
func (s *LedgerService) Debit(data LedgerEntryDTO) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		return s.DebitTx(tx, data)
	})
}

func (s *LedgerService) DebitTx(tx *gorm.DB, data LedgerEntryDTO) error {
	if !data.Amount.IsPositive() {
		return ErrInvalidAmount
	}

	wallet, err := s.LockWallet(tx, data.UserId)
	if err != nil {
		return err
	}

	if wallet.Balance.LessThan(data.Amount) {
		return ErrInsufficientFunds
	}

	newBalance := wallet.Balance.Sub(data.Amount)
	if err := tx.Model(&models.Wallet{}).
		Where("id = ?", wallet.ID).
		UpdateColumn("balance", gorm.Expr("balance - ?", data.Amount)).Error; err != nil {
		return err
	}

	entry := models.WalletTransaction{
		WalletId:      wallet.ID,
		TransactionNo: uuid.NewString(),
		TrxType:       models.TrxDebit,
		Amount:        data.Amount,
		ReferenceType: data.ReferenceType,
		ReferenceId:   data.ReferenceId,
		Remark:        data.Remark,
		Balance:       newBalance,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return err
	}

	s.Log.Info("wallet debited",
		zap.Int("user_id", data.UserId),
		zap.String("amount", data.Amount.String()),
		zap.String("reference_type", data.ReferenceType))
	return nil
}

// LockWallet fetches the user's wallet row FOR UPDATE, creating it
// with balance 0 when missing. The lock serializes concurrent payout
// evaluations for the same user.
func (s *LedgerService) LockWallet(tx *gorm.DB, userId int) (*models.Wallet, error) {
	var user models.User
	if err := tx.Where("id = ?", userId).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownUser
		}
		return nil, err
	}

	var wallet models.Wallet
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userId).
		First(&wallet).Error
	if err == nil {
		return &wallet, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	wallet = models.Wallet{UserId: userId, Balance: decimal.Zero}
	if err := tx.Create(&wallet).Error; err != nil {
		return nil, err
	}
	return &wallet, nil
}

// Balance returns the wallet balance, or zero when the user has no
// wallet yet.
func (s *LedgerService) Balance(userId int) (decimal.Decimal, error) {
	var wallet models.Wallet
	err := s.DB.Where("user_id = ?", userId).First(&wallet).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}
	return wallet.Balance, nil
}

type HistoryDTO struct {
	UserId int
	Kind   string
	Page   int
	Limit  int
}

// History lists ledger entries for a user, newest first, optionally
// filtered by reference kind.
func (s *LedgerService) History(data HistoryDTO) (common.PaginationResult, error) {
	limit := data.Limit
	if limit <= 0 {
		limit = 50
	}
	page := data.Page
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit

	var wallet models.Wallet
	if err := s.DB.Where("user_id = ?", data.UserId).First(&wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.PaginateResponse([]models.WalletTransaction{}, 0, page, limit, "No transactions"), nil
		}
		return common.PaginationResult{}, err
	}

	query := s.DB.Model(&models.WalletTransaction{}).Where("wallet_id = ?", wallet.ID)
	if data.Kind != "" {
		query = query.Where("reference_type = ?", data.Kind)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return common.PaginationResult{}, err
	}

	var entries []models.WalletTransaction
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&entries).Error; err != nil {
		return common.PaginationResult{}, err
	}

	return common.PaginateResponse(entries, total, page, limit, "Transactions fetched"), nil
}

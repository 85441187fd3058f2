package services

import (
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"backoffice-service/internal/models"
)

// LedgerArchiveService moves ledger rows past the retention window
// into the archive table. Balances are denormalized on the wallet row,
// so archiving never touches them; the balance equation spans the hot
// and archive tables.
type LedgerArchiveService struct {
	DB             *gorm.DB
	Log            *zap.Logger
	RetentionMonth int
}

func NewLedgerArchiveService(db *gorm.DB, log *zap.Logger) *LedgerArchiveService {
	return &LedgerArchiveService{DB: db, Log: log, RetentionMonth: 12}
}

func (s *LedgerArchiveService) ArchiveTransactions() {
	cutoff := time.Now().AddDate(0, -s.RetentionMonth, 0)

	var old []models.WalletTransaction
	if err := s.DB.Where("created_at < ?", cutoff).Find(&old).Error; err != nil {
		s.Log.Error("find old ledger entries", zap.Error(err))
		return
	}
	if len(old) == 0 {
		return
	}

	archived := make([]models.ArchivedWalletTransaction, 0, len(old))
	ids := make([]int, 0, len(old))
	for _, entry := range old {
		archived = append(archived, models.ArchivedWalletTransaction{
			WalletId:      entry.WalletId,
			TransactionNo: entry.TransactionNo,
			TrxType:       entry.TrxType,
			Amount:        entry.Amount,
			ReferenceType: entry.ReferenceType,
			ReferenceId:   entry.ReferenceId,
			Remark:        entry.Remark,
			Balance:       entry.Balance,
			CreatedAt:     entry.CreatedAt,
		})
		ids = append(ids, entry.ID)
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&archived).Error; err != nil {
			return err
		}
		return tx.Delete(&models.WalletTransaction{}, ids).Error
	})
	if err != nil {
		s.Log.Error("ledger archive failed", zap.Error(err))
		return
	}
	s.Log.Info("ledger entries archived", zap.Int("count", len(old)))
}

// StartScheduler runs the archive daily at midnight.
func (s *LedgerArchiveService) StartScheduler() {
	c := cron.New()
	_, err := c.AddFunc("0 0 * * *", s.ArchiveTransactions)
	if err != nil {
		s.Log.Error("schedule ledger archive", zap.Error(err))
		return
	}
	c.Start()
	s.Log.Info("ledger archive scheduler started")
}

package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"backoffice-service/internal/models"
)

// Task types re-declared here to avoid importing the worker package
// from services.
const (
	TypeOnboardingPayout   = "onboarding-payout"
	TypeBankTransferPayout = "bank-transfer-payout"
)

type PayoutRetryPayload struct {
	EventId int `json:"eventId"`
}

// PayoutService evaluates commission for approved events and credits
// the agent's wallet. Evaluation runs synchronously inside the
// approval request; a failed credit is queued for retry and is safe to
// re-run because of the ledger idempotency key.
type PayoutService struct {
	DB     *gorm.DB
	Ledger *LedgerService
	Calc   *SlabCalculator
	Client *asynq.Client
	Log    *zap.Logger
}

func NewPayoutService(db *gorm.DB, ledger *LedgerService, calc *SlabCalculator, client *asynq.Client, log *zap.Logger) *PayoutService {
	return &PayoutService{DB: db, Ledger: ledger, Calc: calc, Client: client, Log: log}
}

func monthBounds(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	return start, start.AddDate(0, 1, 0)
}

// MonthlyApprovedOnboardingCount counts the agent's admin-approved
// shop onboardings whose review landed in the given month. Runs on the
// caller's transaction so it reads consistently with the wallet lock.
func (s *PayoutService) MonthlyApprovedOnboardingCount(tx *gorm.DB, agentId int, year int, month time.Month) (int64, error) {
	start, end := monthBounds(year, month)
	var count int64
	err := tx.Model(&models.ShopOnboarding{}).
		Where("agent_id = ? AND status = ?", agentId, models.OnboardingAdminApproved).
		Where("updated_at >= ? AND updated_at < ?", start, end).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count approved onboardings: %w", err)
	}
	return count, nil
}

// MonthlyApprovedBankTransferTotal sums the agent's approved transfer
// amounts for the given month.
func (s *PayoutService) MonthlyApprovedBankTransferTotal(tx *gorm.DB, agentId int, year int, month time.Month) (decimal.Decimal, error) {
	start, end := monthBounds(year, month)
	var row struct {
		Total decimal.Decimal
	}
	err := tx.Model(&models.BankTransfer{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("agent_id = ? AND status = ?", agentId, models.TransferApproved).
		Where("updated_at >= ? AND updated_at < ?", start, end).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum approved transfers: %w", err)
	}
	return row.Total, nil
}

// EvaluateAndCreditOnboarding computes and credits the commission for
// one admin-approved shop onboarding. The aggregation read and the
// credit share one transaction under the agent's wallet lock, so two
// concurrent approvals for the same agent cannot both read the
// pre-increment count. Re-running for the same event is a no-op.
func (s *PayoutService) EvaluateAndCreditOnboarding(shopEventId int) error {
	var shop models.ShopOnboarding
	if err := s.DB.First(&shop, shopEventId).Error; err != nil {
		return fmt.Errorf("load shop onboarding %d: %w", shopEventId, err)
	}
	if shop.Status != models.OnboardingAdminApproved {
		s.Log.Warn("payout evaluation skipped: onboarding not admin approved",
			zap.Int("shop_id", shop.ID),
			zap.String("status", shop.Status))
		return nil
	}

	// The month the approval landed in, so a delayed retry still pays
	// against the right period.
	year, month := shop.UpdatedAt.Year(), shop.UpdatedAt.Month()

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := s.Ledger.LockWallet(tx, shop.AgentId); err != nil {
			return err
		}

		count, err := s.MonthlyApprovedOnboardingCount(tx, shop.AgentId, year, month)
		if err != nil {
			return err
		}

		payout := s.Calc.OnboardingPayout(int(count))
		if !payout.IsPositive() {
			return nil
		}

		refId := shop.ID
		applied, err := s.Ledger.CreditTx(tx, LedgerEntryDTO{
			UserId:        shop.AgentId,
			Amount:        payout,
			ReferenceType: models.RefOnboardingPayout,
			ReferenceId:   &refId,
			Remark:        fmt.Sprintf("Onboarding commission for shop #%d (%d approved in %s)", shop.ID, count, shop.UpdatedAt.Format("2006-01")),
		})
		if err != nil {
			return err
		}
		if applied {
			s.Log.Info("onboarding payout credited",
				zap.Int("shop_id", shop.ID),
				zap.Int("agent_id", shop.AgentId),
				zap.Int64("monthly_count", count),
				zap.String("payout", payout.String()))
		}
		return nil
	})
	if err != nil {
		s.enqueueRetry(TypeOnboardingPayout, shop.ID, err)
		return err
	}
	return nil
}

// EvaluateAndCreditBankTransfer computes and credits the commission
// for one approved bank transfer. Transfers below the eligibility
// threshold take no ledger action; the handling fee for them is
// computed by the reporting side only.
func (s *PayoutService) EvaluateAndCreditBankTransfer(transferEventId int) error {
	var transfer models.BankTransfer
	if err := s.DB.First(&transfer, transferEventId).Error; err != nil {
		return fmt.Errorf("load bank transfer %d: %w", transferEventId, err)
	}
	if transfer.Status != models.TransferApproved {
		s.Log.Warn("payout evaluation skipped: transfer not approved",
			zap.Int("transfer_id", transfer.ID),
			zap.String("status", transfer.Status))
		return nil
	}

	if !s.Calc.BankTransferEligible(transfer.Amount) {
		s.Log.Info("transfer below commission threshold",
			zap.Int("transfer_id", transfer.ID),
			zap.String("amount", transfer.Amount.String()),
			zap.String("fee", s.Calc.FeeDeduction(transfer.Amount).String()))
		return nil
	}

	year, month := transfer.UpdatedAt.Year(), transfer.UpdatedAt.Month()

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := s.Ledger.LockWallet(tx, transfer.AgentId); err != nil {
			return err
		}

		total, err := s.MonthlyApprovedBankTransferTotal(tx, transfer.AgentId, year, month)
		if err != nil {
			return err
		}

		payout := s.Calc.BankTransferPayout(total)
		if !payout.IsPositive() {
			return nil
		}

		refId := transfer.ID
		applied, err := s.Ledger.CreditTx(tx, LedgerEntryDTO{
			UserId:        transfer.AgentId,
			Amount:        payout,
			ReferenceType: models.RefBankTransferPayout,
			ReferenceId:   &refId,
			Remark:        fmt.Sprintf("Transfer commission for request #%d (%s approved in %s)", transfer.ID, total.StringFixed(2), transfer.UpdatedAt.Format("2006-01")),
		})
		if err != nil {
			return err
		}
		if applied {
			s.Log.Info("bank transfer payout credited",
				zap.Int("transfer_id", transfer.ID),
				zap.Int("agent_id", transfer.AgentId),
				zap.String("monthly_total", total.String()),
				zap.String("payout", payout.String()))
		}
		return nil
	})
	if err != nil {
		s.enqueueRetry(TypeBankTransferPayout, transfer.ID, err)
		return err
	}
	return nil
}

// enqueueRetry schedules a re-evaluation after a storage failure. The
// approval state is already durable; re-running is safe because the
// idempotency key blocks double pay. Validation errors are not
// retried.
func (s *PayoutService) enqueueRetry(taskType string, eventId int, cause error) {
	if errors.Is(cause, ErrUnknownUser) || errors.Is(cause, ErrInvalidAmount) {
		return
	}
	if s.Client == nil {
		s.Log.Error("payout failed and no retry queue configured",
			zap.String("task", taskType),
			zap.Int("event_id", eventId),
			zap.Error(cause))
		return
	}

	payload, err := json.Marshal(PayoutRetryPayload{EventId: eventId})
	if err != nil {
		s.Log.Error("marshal retry payload", zap.Error(err))
		return
	}
	if _, err := s.Client.Enqueue(asynq.NewTask(taskType, payload), asynq.Queue("critical"), asynq.ProcessIn(30*time.Second)); err != nil {
		s.Log.Error("enqueue payout retry",
			zap.String("task", taskType),
			zap.Int("event_id", eventId),
			zap.Error(err))
		return
	}
	s.Log.Warn("payout evaluation queued for retry",
		zap.String("task", taskType),
		zap.Int("event_id", eventId),
		zap.Error(cause))
}

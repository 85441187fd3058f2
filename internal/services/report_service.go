package services

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"backoffice-service/internal/models"
)

// ReportService produces read-only views for the back office. Fee
// deductions are computed here and nowhere else; they are never posted
// to the ledger.
type ReportService struct {
	DB   *gorm.DB
	Calc *SlabCalculator
	Log  *zap.Logger
}

func NewReportService(db *gorm.DB, calc *SlabCalculator, log *zap.Logger) *ReportService {
	return &ReportService{DB: db, Calc: calc, Log: log}
}

type FeeReportRow struct {
	TransferId int             `json:"transfer_id"`
	AgentId    int             `json:"agent_id"`
	Amount     decimal.Decimal `json:"amount"`
	Fee        decimal.Decimal `json:"fee"`
	ApprovedAt time.Time       `json:"approved_at"`
}

// FeeDeductions lists the handling fee for every approved transfer
// below the eligibility threshold in the window.
func (s *ReportService) FeeDeductions(from, to time.Time) ([]FeeReportRow, error) {
	var transfers []models.BankTransfer
	err := s.DB.
		Where("status = ? AND updated_at >= ? AND updated_at < ?", models.TransferApproved, from, to).
		Order("updated_at ASC").
		Find(&transfers).Error
	if err != nil {
		return nil, fmt.Errorf("list approved transfers: %w", err)
	}

	rows := make([]FeeReportRow, 0, len(transfers))
	for _, t := range transfers {
		fee := s.Calc.FeeDeduction(t.Amount)
		if fee.IsZero() {
			continue
		}
		rows = append(rows, FeeReportRow{
			TransferId: t.ID,
			AgentId:    t.AgentId,
			Amount:     t.Amount,
			Fee:        fee,
			ApprovedAt: t.UpdatedAt,
		})
	}
	return rows, nil
}

type AgentMonthlySummary struct {
	AgentId         int             `json:"agent_id"`
	Year            int             `json:"year"`
	Month           int             `json:"month"`
	OnboardingCount int64           `json:"onboarding_count"`
	TransferTotal   decimal.Decimal `json:"transfer_total"`
	PayoutTotal     decimal.Decimal `json:"payout_total"`
	Balance         decimal.Decimal `json:"balance"`
}

// AgentMonthly summarizes one agent's month: approved activity, what
// it paid, and the current wallet balance.
func (s *ReportService) AgentMonthly(agentId, year int, month time.Month) (AgentMonthlySummary, error) {
	start, end := monthBounds(year, month)
	summary := AgentMonthlySummary{AgentId: agentId, Year: year, Month: int(month)}

	err := s.DB.Model(&models.ShopOnboarding{}).
		Where("agent_id = ? AND status = ?", agentId, models.OnboardingAdminApproved).
		Where("updated_at >= ? AND updated_at < ?", start, end).
		Count(&summary.OnboardingCount).Error
	if err != nil {
		return AgentMonthlySummary{}, err
	}

	var transferRow struct {
		Total decimal.Decimal
	}
	err = s.DB.Model(&models.BankTransfer{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("agent_id = ? AND status = ?", agentId, models.TransferApproved).
		Where("updated_at >= ? AND updated_at < ?", start, end).
		Scan(&transferRow).Error
	if err != nil {
		return AgentMonthlySummary{}, err
	}
	summary.TransferTotal = transferRow.Total

	var wallet models.Wallet
	if err := s.DB.Where("user_id = ?", agentId).First(&wallet).Error; err == nil {
		summary.Balance = wallet.Balance

		var payoutRow struct {
			Total decimal.Decimal
		}
		err = s.DB.Model(&models.WalletTransaction{}).
			Select("COALESCE(SUM(amount), 0) AS total").
			Where("wallet_id = ? AND transaction_type = ?", wallet.ID, models.TrxCredit).
			Where("reference_type IN ?", []string{models.RefOnboardingPayout, models.RefBankTransferPayout}).
			Where("created_at >= ? AND created_at < ?", start, end).
			Scan(&payoutRow).Error
		if err != nil {
			return AgentMonthlySummary{}, err
		}
		summary.PayoutTotal = payoutRow.Total
	} else {
		summary.Balance = decimal.Zero
		summary.PayoutTotal = decimal.Zero
	}

	return summary, nil
}

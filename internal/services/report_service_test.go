package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"backoffice-service/internal/config"
)

func newReportService() *ReportService {
	calc := NewSlabCalculator(config.DefaultPayoutConfig())
	return NewReportService(testDB, calc, zap.NewNop())
}

func TestFeeDeductionsReport(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	agent := seedAgent(t, "report_agent_1")

	// One below the threshold, one above. Only the first carries a fee.
	seedApprovedTransfer(t, agent.ID, 10000)
	seedApprovedTransfer(t, agent.ID, 80000)

	svc := newReportService()
	from := time.Now().Add(-time.Hour)
	to := time.Now().Add(time.Hour)

	rows, err := svc.FeeDeductions(from, to)
	if err != nil {
		t.Fatalf("FeeDeductions failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("Expected 1 fee row, got %d", len(rows))
	}
	if !rows[0].Fee.Equal(decimal.NewFromInt(150)) {
		t.Errorf("Expected fee 150 on 10000, got %s", rows[0].Fee)
	}
}

func TestAgentMonthlySummary(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	agent := seedAgent(t, "report_agent_2")
	payout := newPayoutService()

	shop := seedApprovedOnboarding(t, agent.ID)
	if err := payout.EvaluateAndCreditOnboarding(shop.ID); err != nil {
		t.Fatalf("onboarding payout failed: %v", err)
	}
	transfer := seedApprovedTransfer(t, agent.ID, 120000)
	if err := payout.EvaluateAndCreditBankTransfer(transfer.ID); err != nil {
		t.Fatalf("transfer payout failed: %v", err)
	}

	svc := newReportService()
	now := time.Now()
	summary, err := svc.AgentMonthly(agent.ID, now.Year(), now.Month())
	if err != nil {
		t.Fatalf("AgentMonthly failed: %v", err)
	}

	if summary.OnboardingCount != 1 {
		t.Errorf("Expected 1 onboarding, got %d", summary.OnboardingCount)
	}
	if !summary.TransferTotal.Equal(decimal.NewFromInt(120000)) {
		t.Errorf("Expected transfer total 120000, got %s", summary.TransferTotal)
	}
	// 200 onboarding + 200 transfer bracket.
	if !summary.PayoutTotal.Equal(decimal.NewFromInt(400)) {
		t.Errorf("Expected payout total 400, got %s", summary.PayoutTotal)
	}
	if !summary.Balance.Equal(decimal.NewFromInt(400)) {
		t.Errorf("Expected balance 400, got %s", summary.Balance)
	}
}

func TestAgentMonthlyNoWallet(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	svc := newReportService()
	now := time.Now()
	summary, err := svc.AgentMonthly(515151, now.Year(), now.Month())
	if err != nil {
		t.Fatalf("AgentMonthly failed for unknown agent: %v", err)
	}
	if !summary.Balance.IsZero() || !summary.PayoutTotal.IsZero() {
		t.Errorf("Expected zero summary for unknown agent, got %+v", summary)
	}
}

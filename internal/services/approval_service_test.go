package services

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"backoffice-service/internal/config"
	"backoffice-service/internal/models"
)

func newApprovalService() *ApprovalService {
	log := zap.NewNop()
	calc := NewSlabCalculator(config.DefaultPayoutConfig())
	users := NewUserService(testDB, log)
	ledger := NewLedgerService(testDB, log)
	payout := NewPayoutService(testDB, ledger, calc, nil, log)
	return NewApprovalService(testDB, users, ledger, payout, log)
}

func TestReviewRoleGuards(t *testing.T) {
	// Role checks run before any storage access.
	svc := NewApprovalService(nil, nil, nil, nil, zap.NewNop())

	_, err := svc.ReviewShopOnboarding(models.RoleAgent, ReviewDTO{EventId: 1, Approve: true})
	if !errors.Is(err, ErrRoleNotPermitted) {
		t.Errorf("Expected ErrRoleNotPermitted for agent review, got %v", err)
	}
	_, err = svc.ReviewShopOnboarding(models.RoleAdmin, ReviewDTO{EventId: 1, Approve: true})
	if !errors.Is(err, ErrRoleNotPermitted) {
		t.Errorf("Expected ErrRoleNotPermitted for admin on first review, got %v", err)
	}
	_, err = svc.AdminReviewShopOnboarding(models.RoleLeader, ReviewDTO{EventId: 1, Approve: true})
	if !errors.Is(err, ErrRoleNotPermitted) {
		t.Errorf("Expected ErrRoleNotPermitted for leader on admin review, got %v", err)
	}
	_, err = svc.ReviewBankTransfer(models.RoleLeader, ReviewTransferDTO{EventId: 1, Approve: true})
	if !errors.Is(err, ErrRoleNotPermitted) {
		t.Errorf("Expected ErrRoleNotPermitted for leader transfer review, got %v", err)
	}
	_, err = svc.ReviewWithdrawal(models.RoleLeader, ReviewDTO{EventId: 1, Approve: true})
	if !errors.Is(err, ErrRoleNotPermitted) {
		t.Errorf("Expected ErrRoleNotPermitted for leader withdrawal review, got %v", err)
	}
}

func TestOnboardingLifecycle(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	agent := seedAgent(t, "approval_agent_1")
	svc := newApprovalService()

	shop, err := svc.CreateShopOnboarding(CreateOnboardingDTO{AgentId: agent.ID, ShopName: "Corner Shop"})
	if err != nil {
		t.Fatalf("CreateShopOnboarding failed: %v", err)
	}
	if shop.Status != models.OnboardingPending {
		t.Fatalf("Expected pending, got %s", shop.Status)
	}

	shop, err = svc.ReviewShopOnboarding(models.RoleLeader, ReviewDTO{EventId: shop.ID, Approve: true})
	if err != nil {
		t.Fatalf("Leader review failed: %v", err)
	}
	if shop.Status != models.OnboardingApproved {
		t.Fatalf("Expected approved, got %s", shop.Status)
	}

	shop, err = svc.AdminReviewShopOnboarding(models.RoleAdmin, ReviewDTO{EventId: shop.ID, Approve: true})
	if err != nil {
		t.Fatalf("Admin review failed: %v", err)
	}
	if shop.Status != models.OnboardingAdminApproved {
		t.Fatalf("Expected admin_approved, got %s", shop.Status)
	}

	// Final approval pays the first slab.
	balance, _ := svc.Ledger.Balance(agent.ID)
	if !balance.Equal(decimal.NewFromInt(200)) {
		t.Errorf("Expected balance 200 after admin approval, got %s", balance)
	}
}

func TestOnboardingDoubleReviewRejected(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	agent := seedAgent(t, "approval_agent_2")
	svc := newApprovalService()

	shop, _ := svc.CreateShopOnboarding(CreateOnboardingDTO{AgentId: agent.ID, ShopName: "Twice Shop"})
	svc.ReviewShopOnboarding(models.RoleLeader, ReviewDTO{EventId: shop.ID, Approve: true})

	// Leader cannot flip it again once it left pending.
	_, err := svc.ReviewShopOnboarding(models.RoleLeader, ReviewDTO{EventId: shop.ID, Approve: false})
	if !errors.Is(err, ErrAlreadyProcessed) {
		t.Errorf("Expected ErrAlreadyProcessed, got %v", err)
	}
}

func TestRejectedOnboardingPaysNothing(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	agent := seedAgent(t, "approval_agent_3")
	svc := newApprovalService()

	shop, _ := svc.CreateShopOnboarding(CreateOnboardingDTO{AgentId: agent.ID, ShopName: "Reject Shop"})
	svc.ReviewShopOnboarding(models.RoleLeader, ReviewDTO{EventId: shop.ID, Approve: true})
	shop, err := svc.AdminReviewShopOnboarding(models.RoleAdmin, ReviewDTO{EventId: shop.ID, Approve: false, Remark: "documents invalid"})
	if err != nil {
		t.Fatalf("Admin rejection failed: %v", err)
	}
	if shop.Status != models.OnboardingAdminRejected {
		t.Fatalf("Expected admin_rejected, got %s", shop.Status)
	}

	balance, _ := svc.Ledger.Balance(agent.ID)
	if !balance.IsZero() {
		t.Errorf("Expected no payout on rejection, got %s", balance)
	}
}

func TestTransferAmountCorrection(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	agent := seedAgent(t, "approval_agent_4")
	svc := newApprovalService()

	transfer, err := svc.CreateBankTransfer(CreateTransferDTO{AgentId: agent.ID, Amount: decimal.NewFromInt(120000)})
	if err != nil {
		t.Fatalf("CreateBankTransfer failed: %v", err)
	}

	corrected := decimal.NewFromInt(110000)
	transfer, err = svc.ReviewBankTransfer(models.RoleAdmin, ReviewTransferDTO{
		EventId:   transfer.ID,
		Approve:   true,
		NewAmount: &corrected,
		Remark:    "receipt shows 110000",
	})
	if err != nil {
		t.Fatalf("ReviewBankTransfer failed: %v", err)
	}
	if !transfer.Amount.Equal(corrected) {
		t.Errorf("Expected corrected amount 110000, got %s", transfer.Amount)
	}
	if transfer.AmountChangeRemark == "" {
		t.Error("Expected amount change remark recorded")
	}

	// 110000 lands in the 100000 bracket.
	balance, _ := svc.Ledger.Balance(agent.ID)
	if !balance.Equal(decimal.NewFromInt(200)) {
		t.Errorf("Expected payout 200 on corrected amount, got %s", balance)
	}
}

func TestWithdrawalApprovalDebitsWallet(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	agent := seedAgent(t, "approval_agent_5")
	svc := newApprovalService()

	svc.Ledger.Credit(LedgerEntryDTO{
		UserId:        agent.ID,
		Amount:        decimal.NewFromInt(500),
		ReferenceType: models.RefManualCredit,
	})

	req, err := svc.RequestWithdrawal(RequestWithdrawalDTO{UserId: agent.ID, Amount: decimal.NewFromInt(300)})
	if err != nil {
		t.Fatalf("RequestWithdrawal failed: %v", err)
	}
	if req.WithdrawalCode == "" {
		t.Error("Expected a withdrawal code")
	}

	req, err = svc.ReviewWithdrawal(models.RoleAdmin, ReviewDTO{EventId: req.ID, Approve: true})
	if err != nil {
		t.Fatalf("ReviewWithdrawal failed: %v", err)
	}
	if req.Status != models.WithdrawalApproved {
		t.Fatalf("Expected approved, got %s", req.Status)
	}

	balance, _ := svc.Ledger.Balance(agent.ID)
	if !balance.Equal(decimal.NewFromInt(200)) {
		t.Errorf("Expected balance 200 after withdrawal, got %s", balance)
	}
}

func TestWithdrawalInsufficientFundsRollsBack(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	agent := seedAgent(t, "approval_agent_6")
	svc := newApprovalService()

	svc.Ledger.Credit(LedgerEntryDTO{
		UserId:        agent.ID,
		Amount:        decimal.NewFromInt(400),
		ReferenceType: models.RefManualCredit,
	})
	req, _ := svc.RequestWithdrawal(RequestWithdrawalDTO{UserId: agent.ID, Amount: decimal.NewFromInt(400)})

	// Drain the wallet between request and review.
	svc.Ledger.Debit(LedgerEntryDTO{
		UserId:        agent.ID,
		Amount:        decimal.NewFromInt(300),
		ReferenceType: models.RefWithdrawal,
	})

	_, err := svc.ReviewWithdrawal(models.RoleAdmin, ReviewDTO{EventId: req.ID, Approve: true})
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("Expected ErrInsufficientFunds, got %v", err)
	}

	// The rollback leaves the request pending for a later retry.
	var fresh models.WithdrawalRequest
	testDB.First(&fresh, req.ID)
	if fresh.Status != models.WithdrawalPending {
		t.Errorf("Expected request to stay pending, got %s", fresh.Status)
	}
}

func TestRewardPassReviewHasNoLedgerEffect(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	agent := seedAgent(t, "approval_agent_7")
	svc := newApprovalService()

	pass, err := svc.CreateRewardPass(CreateRewardPassDTO{AgentId: agent.ID, PassType: "scratch_card", Quantity: 5})
	if err != nil {
		t.Fatalf("CreateRewardPass failed: %v", err)
	}

	pass, err = svc.ReviewRewardPass(models.RoleAdmin, ReviewDTO{EventId: pass.ID, Approve: true})
	if err != nil {
		t.Fatalf("ReviewRewardPass failed: %v", err)
	}
	if pass.Status != models.RewardPassApproved {
		t.Fatalf("Expected approved, got %s", pass.Status)
	}

	var count int64
	testDB.Model(&models.WalletTransaction{}).Count(&count)
	if count != 0 {
		t.Errorf("Expected no ledger rows for reward pass, got %d", count)
	}
}

func TestCreateEventsRequireAgent(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	users := NewUserService(testDB, zap.NewNop())
	leader, err := users.CreateUser(CreateUserDTO{Username: "approval_leader_1", Role: "leader"})
	if err != nil {
		t.Fatalf("seed leader failed: %v", err)
	}
	svc := newApprovalService()

	_, err = svc.CreateShopOnboarding(CreateOnboardingDTO{AgentId: leader.ID, ShopName: "Leader Shop"})
	if !errors.Is(err, ErrRoleNotPermitted) {
		t.Errorf("Expected ErrRoleNotPermitted for leader-submitted onboarding, got %v", err)
	}
	_, err = svc.CreateBankTransfer(CreateTransferDTO{AgentId: 424242, Amount: decimal.NewFromInt(60000)})
	if !errors.Is(err, ErrUnknownUser) {
		t.Errorf("Expected ErrUnknownUser for missing agent, got %v", err)
	}
}

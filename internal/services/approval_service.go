package services

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"backoffice-service/internal/models"
	"backoffice-service/pkg/common"
)

// ApprovalService drives the event lifecycles. State transitions are
// guarded conditional updates: an event that has left the reviewable
// state fails with ErrAlreadyProcessed and nothing is written. The
// payout evaluation runs after the approval has committed and its
// failure never unwinds the approval.
type ApprovalService struct {
	DB     *gorm.DB
	Users  *UserService
	Ledger *LedgerService
	Payout *PayoutService
	Log    *zap.Logger
}

func NewApprovalService(db *gorm.DB, users *UserService, ledger *LedgerService, payout *PayoutService, log *zap.Logger) *ApprovalService {
	return &ApprovalService{DB: db, Users: users, Ledger: ledger, Payout: payout, Log: log}
}

type CreateOnboardingDTO struct {
	AgentId   int
	ShopName  string
	OwnerName string
	Phone     string
	Address   string
}

func (s *ApprovalService) CreateShopOnboarding(data CreateOnboardingDTO) (models.ShopOnboarding, error) {
	if _, err := s.Users.GetAgent(data.AgentId); err != nil {
		return models.ShopOnboarding{}, err
	}

	shop := models.ShopOnboarding{
		AgentId:   data.AgentId,
		ShopName:  data.ShopName,
		OwnerName: data.OwnerName,
		Phone:     data.Phone,
		Address:   data.Address,
		Status:    models.OnboardingPending,
	}
	if err := s.DB.Create(&shop).Error; err != nil {
		return models.ShopOnboarding{}, fmt.Errorf("create shop onboarding: %w", err)
	}
	return shop, nil
}

type ReviewDTO struct {
	EventId int
	Approve bool
	Remark  string
}

// ReviewShopOnboarding is the leader's decision on a pending
// onboarding.
func (s *ApprovalService) ReviewShopOnboarding(actor models.Role, data ReviewDTO) (models.ShopOnboarding, error) {
	if actor != models.RoleLeader {
		return models.ShopOnboarding{}, ErrRoleNotPermitted
	}

	next := models.OnboardingRejected
	if data.Approve {
		next = models.OnboardingApproved
	}

	shop, err := s.transitionOnboarding(data.EventId, models.OnboardingPending, next, data.Remark)
	if err != nil {
		return models.ShopOnboarding{}, err
	}
	return shop, nil
}

// AdminReviewShopOnboarding is the admin's final decision on a
// leader-approved onboarding. admin_approved triggers the payout
// evaluation once the transition is durable.
func (s *ApprovalService) AdminReviewShopOnboarding(actor models.Role, data ReviewDTO) (models.ShopOnboarding, error) {
	if actor != models.RoleAdmin {
		return models.ShopOnboarding{}, ErrRoleNotPermitted
	}

	next := models.OnboardingAdminRejected
	if data.Approve {
		next = models.OnboardingAdminApproved
	}

	shop, err := s.transitionOnboarding(data.EventId, models.OnboardingApproved, next, data.Remark)
	if err != nil {
		return models.ShopOnboarding{}, err
	}

	if next == models.OnboardingAdminApproved {
		if err := s.Payout.EvaluateAndCreditOnboarding(shop.ID); err != nil {
			// Approval stands; the evaluation retries via the queue.
			s.Log.Error("onboarding payout evaluation failed",
				zap.Int("shop_id", shop.ID),
				zap.Error(err))
		}
	}
	return shop, nil
}

func (s *ApprovalService) transitionOnboarding(id int, from, to, remark string) (models.ShopOnboarding, error) {
	res := s.DB.Model(&models.ShopOnboarding{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{"status": to, "remark": remark})
	if res.Error != nil {
		return models.ShopOnboarding{}, res.Error
	}

	var shop models.ShopOnboarding
	if err := s.DB.First(&shop, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ShopOnboarding{}, fmt.Errorf("shop onboarding %d: %w", id, gorm.ErrRecordNotFound)
		}
		return models.ShopOnboarding{}, err
	}
	if res.RowsAffected == 0 {
		return models.ShopOnboarding{}, fmt.Errorf("shop onboarding %d in state %s: %w", id, shop.Status, ErrAlreadyProcessed)
	}
	return shop, nil
}

type CreateTransferDTO struct {
	AgentId       int
	Amount        decimal.Decimal
	AccountName   string
	AccountNumber string
	BankName      string
}

func (s *ApprovalService) CreateBankTransfer(data CreateTransferDTO) (models.BankTransfer, error) {
	if _, err := s.Users.GetAgent(data.AgentId); err != nil {
		return models.BankTransfer{}, err
	}
	if !data.Amount.IsPositive() {
		return models.BankTransfer{}, ErrInvalidAmount
	}

	transfer := models.BankTransfer{
		AgentId:       data.AgentId,
		Amount:        data.Amount,
		AccountName:   data.AccountName,
		AccountNumber: data.AccountNumber,
		BankName:      data.BankName,
		Status:        models.TransferPending,
	}
	if err := s.DB.Create(&transfer).Error; err != nil {
		return models.BankTransfer{}, fmt.Errorf("create bank transfer: %w", err)
	}
	return transfer, nil
}

type ReviewTransferDTO struct {
	EventId   int
	Approve   bool
	Remark    string
	NewAmount *decimal.Decimal
}

// ReviewBankTransfer is the admin's decision on a pending transfer.
// The admin may correct the amount while approving; the correction is
// recorded in amount_change_remark. Approval triggers the payout
// evaluation.
func (s *ApprovalService) ReviewBankTransfer(actor models.Role, data ReviewTransferDTO) (models.BankTransfer, error) {
	if actor != models.RoleAdmin {
		return models.BankTransfer{}, ErrRoleNotPermitted
	}

	updates := map[string]interface{}{}
	if data.Approve {
		updates["status"] = models.TransferApproved
		if data.NewAmount != nil {
			if !data.NewAmount.IsPositive() {
				return models.BankTransfer{}, ErrInvalidAmount
			}
			updates["amount"] = *data.NewAmount
			updates["amount_change_remark"] = data.Remark
		}
	} else {
		updates["status"] = models.TransferRejected
		updates["reject_remark"] = data.Remark
	}

	res := s.DB.Model(&models.BankTransfer{}).
		Where("id = ? AND status = ?", data.EventId, models.TransferPending).
		Updates(updates)
	if res.Error != nil {
		return models.BankTransfer{}, res.Error
	}

	var transfer models.BankTransfer
	if err := s.DB.First(&transfer, data.EventId).Error; err != nil {
		return models.BankTransfer{}, err
	}
	if res.RowsAffected == 0 {
		return models.BankTransfer{}, fmt.Errorf("bank transfer %d in state %s: %w", data.EventId, transfer.Status, ErrAlreadyProcessed)
	}

	if data.Approve {
		if err := s.Payout.EvaluateAndCreditBankTransfer(transfer.ID); err != nil {
			s.Log.Error("bank transfer payout evaluation failed",
				zap.Int("transfer_id", transfer.ID),
				zap.Error(err))
		}
	}
	return transfer, nil
}

type CreateRewardPassDTO struct {
	AgentId  int
	PassType string
	Quantity int
}

func (s *ApprovalService) CreateRewardPass(data CreateRewardPassDTO) (models.RewardPass, error) {
	if _, err := s.Users.GetAgent(data.AgentId); err != nil {
		return models.RewardPass{}, err
	}
	if data.Quantity < 1 {
		data.Quantity = 1
	}

	pass := models.RewardPass{
		AgentId:  data.AgentId,
		PassType: data.PassType,
		Quantity: data.Quantity,
		Status:   models.RewardPassPending,
	}
	if err := s.DB.Create(&pass).Error; err != nil {
		return models.RewardPass{}, fmt.Errorf("create reward pass: %w", err)
	}
	return pass, nil
}

// ReviewRewardPass shares the pending-state guard but carries no
// commission, so no ledger action follows.
func (s *ApprovalService) ReviewRewardPass(actor models.Role, data ReviewDTO) (models.RewardPass, error) {
	if actor != models.RoleAdmin {
		return models.RewardPass{}, ErrRoleNotPermitted
	}

	updates := map[string]interface{}{"status": models.RewardPassApproved}
	if !data.Approve {
		updates["status"] = models.RewardPassRejected
		updates["reject_remark"] = data.Remark
	}

	res := s.DB.Model(&models.RewardPass{}).
		Where("id = ? AND status = ?", data.EventId, models.RewardPassPending).
		Updates(updates)
	if res.Error != nil {
		return models.RewardPass{}, res.Error
	}

	var pass models.RewardPass
	if err := s.DB.First(&pass, data.EventId).Error; err != nil {
		return models.RewardPass{}, err
	}
	if res.RowsAffected == 0 {
		return models.RewardPass{}, fmt.Errorf("reward pass %d in state %s: %w", data.EventId, pass.Status, ErrAlreadyProcessed)
	}
	return pass, nil
}

type RequestWithdrawalDTO struct {
	UserId int
	Amount decimal.Decimal
}

// RequestWithdrawal opens a pending withdrawal for the user's wallet
// funds. Balance is checked again at approval time; this early check
// just keeps hopeless requests out of the admin queue.
func (s *ApprovalService) RequestWithdrawal(data RequestWithdrawalDTO) (models.WithdrawalRequest, error) {
	if !data.Amount.IsPositive() {
		return models.WithdrawalRequest{}, ErrInvalidAmount
	}
	user, err := s.Users.GetUser(data.UserId)
	if err != nil {
		return models.WithdrawalRequest{}, err
	}
	if !user.Role.HasWallet() {
		return models.WithdrawalRequest{}, fmt.Errorf("%w: role %s has no wallet", ErrRoleNotPermitted, user.Role)
	}

	balance, err := s.Ledger.Balance(data.UserId)
	if err != nil {
		return models.WithdrawalRequest{}, err
	}
	if balance.LessThan(data.Amount) {
		return models.WithdrawalRequest{}, ErrInsufficientFunds
	}

	req := models.WithdrawalRequest{
		UserId:         data.UserId,
		Amount:         data.Amount,
		WithdrawalCode: common.GenerateWithdrawalCode(),
		Status:         models.WithdrawalPending,
	}
	if err := s.DB.Create(&req).Error; err != nil {
		return models.WithdrawalRequest{}, fmt.Errorf("create withdrawal request: %w", err)
	}
	return req, nil
}

// ReviewWithdrawal debits the wallet and flips the request to approved
// in one transaction. On insufficient funds nothing is written and the
// request stays pending for a later retry.
func (s *ApprovalService) ReviewWithdrawal(actor models.Role, data ReviewDTO) (models.WithdrawalRequest, error) {
	if actor != models.RoleAdmin {
		return models.WithdrawalRequest{}, ErrRoleNotPermitted
	}

	var req models.WithdrawalRequest
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{"status": models.WithdrawalApproved}
		if !data.Approve {
			updates["status"] = models.WithdrawalRejected
			updates["reject_remark"] = data.Remark
		}

		res := tx.Model(&models.WithdrawalRequest{}).
			Where("id = ? AND status = ?", data.EventId, models.WithdrawalPending).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}

		if err := tx.First(&req, data.EventId).Error; err != nil {
			return err
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("withdrawal %d in state %s: %w", data.EventId, req.Status, ErrAlreadyProcessed)
		}

		if !data.Approve {
			return nil
		}

		refId := req.ID
		return s.Ledger.DebitTx(tx, LedgerEntryDTO{
			UserId:        req.UserId,
			Amount:        req.Amount,
			ReferenceType: models.RefWithdrawal,
			ReferenceId:   &refId,
			Remark:        fmt.Sprintf("Withdrawal %s", req.WithdrawalCode),
		})
	})
	if err != nil {
		return models.WithdrawalRequest{}, err
	}
	return req, nil
}

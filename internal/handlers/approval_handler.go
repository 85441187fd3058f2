package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"backoffice-service/internal/models"
	"backoffice-service/internal/services"
	"backoffice-service/pkg/common"
)

type ApprovalHandler struct {
	Approvals *services.ApprovalService
}

func NewApprovalHandler(approvals *services.ApprovalService) *ApprovalHandler {
	return &ApprovalHandler{Approvals: approvals}
}

// actorRole reads the reviewer's role from the X-Role header. Session
// handling lives upstream; the gateway injects the resolved role.
func actorRole(c *gin.Context) (models.Role, bool) {
	role, err := models.ParseRole(c.GetHeader("X-Role"))
	if err != nil {
		c.JSON(http.StatusForbidden, common.NewErrorResponse("Unknown role", nil, http.StatusForbidden))
		return "", false
	}
	return role, true
}

func eventId(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Invalid id", nil, http.StatusBadRequest))
		return 0, false
	}
	return id, true
}

func writeReviewError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrAlreadyProcessed):
		status = http.StatusConflict
	case errors.Is(err, services.ErrRoleNotPermitted):
		status = http.StatusForbidden
	case errors.Is(err, services.ErrUnknownUser), errors.Is(err, services.ErrInvalidAmount), errors.Is(err, services.ErrInsufficientFunds):
		status = http.StatusBadRequest
	}
	c.JSON(status, common.NewErrorResponse(err.Error(), nil, status))
}

type CreateOnboardingRequest struct {
	AgentId   int    `json:"agent_id" binding:"required"`
	ShopName  string `json:"shop_name" binding:"required"`
	OwnerName string `json:"owner_name"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
}

func (h *ApprovalHandler) CreateOnboarding(c *gin.Context) {
	var req CreateOnboardingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}

	shop, err := h.Approvals.CreateShopOnboarding(services.CreateOnboardingDTO{
		AgentId:   req.AgentId,
		ShopName:  req.ShopName,
		OwnerName: req.OwnerName,
		Phone:     req.Phone,
		Address:   req.Address,
	})
	if err != nil {
		writeReviewError(c, err)
		return
	}
	c.JSON(http.StatusCreated, common.NewSuccessResponse(shop, "Onboarding submitted"))
}

type ReviewRequest struct {
	Approve bool   `json:"approve"`
	Remark  string `json:"remark"`
}

func (h *ApprovalHandler) ReviewOnboarding(c *gin.Context) {
	role, ok := actorRole(c)
	if !ok {
		return
	}
	id, ok := eventId(c)
	if !ok {
		return
	}
	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}

	shop, err := h.Approvals.ReviewShopOnboarding(role, services.ReviewDTO{EventId: id, Approve: req.Approve, Remark: req.Remark})
	if err != nil {
		writeReviewError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(shop, "Onboarding reviewed"))
}

func (h *ApprovalHandler) AdminReviewOnboarding(c *gin.Context) {
	role, ok := actorRole(c)
	if !ok {
		return
	}
	id, ok := eventId(c)
	if !ok {
		return
	}
	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}

	shop, err := h.Approvals.AdminReviewShopOnboarding(role, services.ReviewDTO{EventId: id, Approve: req.Approve, Remark: req.Remark})
	if err != nil {
		writeReviewError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(shop, "Onboarding admin reviewed"))
}

type CreateTransferRequest struct {
	AgentId       int             `json:"agent_id" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	AccountName   string          `json:"account_name"`
	AccountNumber string          `json:"account_number"`
	BankName      string          `json:"bank_name"`
}

func (h *ApprovalHandler) CreateTransfer(c *gin.Context) {
	var req CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}

	transfer, err := h.Approvals.CreateBankTransfer(services.CreateTransferDTO{
		AgentId:       req.AgentId,
		Amount:        req.Amount,
		AccountName:   req.AccountName,
		AccountNumber: req.AccountNumber,
		BankName:      req.BankName,
	})
	if err != nil {
		writeReviewError(c, err)
		return
	}
	c.JSON(http.StatusCreated, common.NewSuccessResponse(transfer, "Transfer submitted"))
}

type ReviewTransferRequest struct {
	Approve   bool             `json:"approve"`
	Remark    string           `json:"remark"`
	NewAmount *decimal.Decimal `json:"new_amount"`
}

func (h *ApprovalHandler) ReviewTransfer(c *gin.Context) {
	role, ok := actorRole(c)
	if !ok {
		return
	}
	id, ok := eventId(c)
	if !ok {
		return
	}
	var req ReviewTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}

	transfer, err := h.Approvals.ReviewBankTransfer(role, services.ReviewTransferDTO{
		EventId:   id,
		Approve:   req.Approve,
		Remark:    req.Remark,
		NewAmount: req.NewAmount,
	})
	if err != nil {
		writeReviewError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(transfer, "Transfer reviewed"))
}

type CreateRewardPassRequest struct {
	AgentId  int    `json:"agent_id" binding:"required"`
	PassType string `json:"pass_type" binding:"required"`
	Quantity int    `json:"quantity"`
}

func (h *ApprovalHandler) CreateRewardPass(c *gin.Context) {
	var req CreateRewardPassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}

	pass, err := h.Approvals.CreateRewardPass(services.CreateRewardPassDTO{
		AgentId:  req.AgentId,
		PassType: req.PassType,
		Quantity: req.Quantity,
	})
	if err != nil {
		writeReviewError(c, err)
		return
	}
	c.JSON(http.StatusCreated, common.NewSuccessResponse(pass, "Reward pass submitted"))
}

func (h *ApprovalHandler) ReviewRewardPass(c *gin.Context) {
	role, ok := actorRole(c)
	if !ok {
		return
	}
	id, ok := eventId(c)
	if !ok {
		return
	}
	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}

	pass, err := h.Approvals.ReviewRewardPass(role, services.ReviewDTO{EventId: id, Approve: req.Approve, Remark: req.Remark})
	if err != nil {
		writeReviewError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(pass, "Reward pass reviewed"))
}

type RequestWithdrawalRequest struct {
	UserId int             `json:"user_id" binding:"required"`
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

func (h *ApprovalHandler) RequestWithdrawal(c *gin.Context) {
	var req RequestWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}

	withdrawal, err := h.Approvals.RequestWithdrawal(services.RequestWithdrawalDTO{
		UserId: req.UserId,
		Amount: req.Amount,
	})
	if err != nil {
		writeReviewError(c, err)
		return
	}
	c.JSON(http.StatusCreated, common.NewSuccessResponse(withdrawal, "Withdrawal requested"))
}

func (h *ApprovalHandler) ReviewWithdrawal(c *gin.Context) {
	role, ok := actorRole(c)
	if !ok {
		return
	}
	id, ok := eventId(c)
	if !ok {
		return
	}
	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}

	withdrawal, err := h.Approvals.ReviewWithdrawal(role, services.ReviewDTO{EventId: id, Approve: req.Approve, Remark: req.Remark})
	if err != nil {
		writeReviewError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(withdrawal, "Withdrawal reviewed"))
}

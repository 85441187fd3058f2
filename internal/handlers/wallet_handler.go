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

type WalletHandler struct {
	Ledger *services.LedgerService
}

func NewWalletHandler(ledger *services.LedgerService) *WalletHandler {
	return &WalletHandler{Ledger: ledger}
}

func (h *WalletHandler) GetBalance(c *gin.Context) {
	userId, err := strconv.Atoi(c.Query("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Invalid user_id", nil, http.StatusBadRequest))
		return
	}

	balance, err := h.Ledger.Balance(userId)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error(), nil, http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{
		"user_id": userId,
		"balance": balance,
	}, "Balance fetched"))
}

func (h *WalletHandler) GetTransactions(c *gin.Context) {
	userId, err := strconv.Atoi(c.Query("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Invalid user_id", nil, http.StatusBadRequest))
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	result, err := h.Ledger.History(services.HistoryDTO{
		UserId: userId,
		Kind:   c.Query("kind"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error(), nil, http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusOK, result)
}

type ManualCreditRequest struct {
	UserId      int             `json:"user_id" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	ReferenceId *int            `json:"reference_id"`
	Remark      string          `json:"remark"`
}

// ManualCredit is the privileged admin credit. It rides the same
// idempotency contract as payout credits when a reference id is given.
func (h *WalletHandler) ManualCredit(c *gin.Context) {
	var req ManualCreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}

	applied, err := h.Ledger.Credit(services.LedgerEntryDTO{
		UserId:        req.UserId,
		Amount:        req.Amount,
		ReferenceType: models.RefManualCredit,
		ReferenceId:   req.ReferenceId,
		Remark:        req.Remark,
	})
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, services.ErrInvalidAmount) || errors.Is(err, services.ErrUnknownUser) {
			status = http.StatusBadRequest
		}
		c.JSON(status, common.NewErrorResponse(err.Error(), nil, status))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{"applied": applied}, "Credit processed"))
}

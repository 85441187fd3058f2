package consumers

import (
	"go.uber.org/zap"

	"backoffice-service/internal/services"
)

// PayoutProcessor re-drives payout evaluations that failed during the
// synchronous approval path. Each attempt is safe: the ledger
// idempotency key blocks double pay.
type PayoutProcessor struct {
	Payout *services.PayoutService
	Log    *zap.Logger
}

func NewPayoutProcessor(payout *services.PayoutService, log *zap.Logger) *PayoutProcessor {
	return &PayoutProcessor{Payout: payout, Log: log}
}

func (p *PayoutProcessor) ProcessOnboardingPayout(data services.PayoutRetryPayload) error {
	p.Log.Info("retrying onboarding payout", zap.Int("shop_id", data.EventId))
	return p.Payout.EvaluateAndCreditOnboarding(data.EventId)
}

func (p *PayoutProcessor) ProcessBankTransferPayout(data services.PayoutRetryPayload) error {
	p.Log.Info("retrying bank transfer payout", zap.Int("transfer_id", data.EventId))
	return p.Payout.EvaluateAndCreditBankTransfer(data.EventId)
}

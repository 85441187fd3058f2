package worker

import (
	"encoding/json"

	"github.com/hibiken/asynq"

	"backoffice-service/internal/services"
)

// Task types. Values must match the constants the payout service uses
// when enqueueing.
const (
	TypeOnboardingPayout   = services.TypeOnboardingPayout
	TypeBankTransferPayout = services.TypeBankTransferPayout
)

func NewOnboardingPayoutTask(payload services.PayoutRetryPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeOnboardingPayout, data), nil
}

func NewBankTransferPayoutTask(payload services.PayoutRetryPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeBankTransferPayout, data), nil
}

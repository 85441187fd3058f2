package config

import (
	"os"

	"github.com/shopspring/decimal"
)

// OnboardingSlab pays Amount when the monthly approved onboarding
// count is at most MaxCount. MaxCount 0 marks the open-ended top slab.
type OnboardingSlab struct {
	MaxCount int
	Amount   decimal.Decimal
}

// TransferSlab pays Amount when the monthly approved transfer total is
// at least MinTotal. Slabs are evaluated highest MinTotal first and a
// single bracket wins.
type TransferSlab struct {
	MinTotal decimal.Decimal
	Amount   decimal.Decimal
}

// PayoutConfig carries every commission number used by the slab
// calculator. Nothing in the calculator is hardcoded.
type PayoutConfig struct {
	OnboardingSlabs []OnboardingSlab
	TransferSlabs   []TransferSlab
	// TransferMinAmount gates per-transfer eligibility and is the
	// threshold under which the informational fee applies.
	TransferMinAmount decimal.Decimal
	FeeRate           decimal.Decimal
}

func DefaultPayoutConfig() PayoutConfig {
	return PayoutConfig{
		OnboardingSlabs: []OnboardingSlab{
			{MaxCount: 20, Amount: decimal.NewFromInt(200)},
			{MaxCount: 40, Amount: decimal.NewFromInt(240)},
			{MaxCount: 0, Amount: decimal.NewFromInt(250)},
		},
		TransferSlabs: []TransferSlab{
			{MinTotal: decimal.NewFromInt(200000), Amount: decimal.NewFromInt(450)},
			{MinTotal: decimal.NewFromInt(150000), Amount: decimal.NewFromInt(330)},
			{MinTotal: decimal.NewFromInt(100000), Amount: decimal.NewFromInt(200)},
			{MinTotal: decimal.NewFromInt(50000), Amount: decimal.NewFromInt(120)},
		},
		TransferMinAmount: decimal.NewFromInt(50000),
		FeeRate:           decimal.NewFromFloat(0.015),
	}
}

type Config struct {
	Port      string
	RedisAddr string
	Payout    PayoutConfig
}

func Load() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	redisAddr := os.Getenv("REDIS_URL")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	return Config{
		Port:      port,
		RedisAddr: redisAddr,
		Payout:    DefaultPayoutConfig(),
	}
}

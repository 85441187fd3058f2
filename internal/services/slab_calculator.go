package services

import (
	"sort"

	"github.com/shopspring/decimal"

	"backoffice-service/internal/config"
)

// SlabCalculator maps aggregated monthly activity to commission
// amounts. It is pure: no storage access, all numbers come from the
// injected config.
type SlabCalculator struct {
	cfg config.PayoutConfig
}

func NewSlabCalculator(cfg config.PayoutConfig) *SlabCalculator {
	onboarding := make([]config.OnboardingSlab, len(cfg.OnboardingSlabs))
	copy(onboarding, cfg.OnboardingSlabs)
	// Bounded slabs ascending, the open-ended slab (MaxCount 0) last.
	sort.SliceStable(onboarding, func(i, j int) bool {
		if onboarding[i].MaxCount == 0 || onboarding[j].MaxCount == 0 {
			return onboarding[j].MaxCount == 0
		}
		return onboarding[i].MaxCount < onboarding[j].MaxCount
	})

	transfers := make([]config.TransferSlab, len(cfg.TransferSlabs))
	copy(transfers, cfg.TransferSlabs)
	// Highest threshold first; a single bracket wins.
	sort.SliceStable(transfers, func(i, j int) bool {
		return transfers[i].MinTotal.GreaterThan(transfers[j].MinTotal)
	})

	cfg.OnboardingSlabs = onboarding
	cfg.TransferSlabs = transfers
	return &SlabCalculator{cfg: cfg}
}

// OnboardingPayout returns the commission for one admin-approved shop
// onboarding given the agent's approved count for the month, counting
// the triggering approval itself. Count 0 still pays the floor slab.
func (c *SlabCalculator) OnboardingPayout(approvedCountThisMonth int) decimal.Decimal {
	for _, slab := range c.cfg.OnboardingSlabs {
		if slab.MaxCount == 0 || approvedCountThisMonth <= slab.MaxCount {
			return slab.Amount
		}
	}
	return decimal.Zero
}

// BankTransferEligible reports whether a single transfer amount
// qualifies for commission evaluation at all.
func (c *SlabCalculator) BankTransferEligible(amount decimal.Decimal) bool {
	return amount.GreaterThanOrEqual(c.cfg.TransferMinAmount)
}

// BankTransferPayout returns the commission for one approved transfer
// given the agent's approved transfer total for the month, including
// the triggering transfer.
func (c *SlabCalculator) BankTransferPayout(totalApprovedThisMonth decimal.Decimal) decimal.Decimal {
	for _, slab := range c.cfg.TransferSlabs {
		if totalApprovedThisMonth.GreaterThanOrEqual(slab.MinTotal) {
			return slab.Amount
		}
	}
	return decimal.Zero
}

// FeeDeduction computes the handling fee for transfers below the
// eligibility threshold. Informational only: it feeds reports and is
// never posted to the ledger.
func (c *SlabCalculator) FeeDeduction(amount decimal.Decimal) decimal.Decimal {
	if amount.GreaterThanOrEqual(c.cfg.TransferMinAmount) {
		return decimal.Zero
	}
	return amount.Mul(c.cfg.FeeRate)
}

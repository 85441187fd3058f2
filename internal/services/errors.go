package services

import "errors"

var (
	// ErrInvalidAmount rejects non-positive ledger amounts before any
	// mutation.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrUnknownUser rejects ledger operations against users that do
	// not exist in the directory.
	ErrUnknownUser = errors.New("unknown user")

	// ErrInsufficientFunds rejects debits exceeding the wallet balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrAlreadyProcessed rejects approval transitions on events that
	// have left the reviewable state.
	ErrAlreadyProcessed = errors.New("request already processed")

	// ErrRoleNotPermitted rejects review calls from the wrong role.
	ErrRoleNotPermitted = errors.New("role not permitted for this action")
)

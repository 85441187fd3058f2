package common

import (
	"math/rand"
	"time"
)

// GenerateWithdrawalCode returns a short human-quotable reference for
// withdrawal requests. Ledger entries use UUID transaction numbers;
// this code is what support staff read back to agents.
func GenerateWithdrawalCode() string {
	const characters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	result := make([]byte, 10)
	for i := range result {
		result[i] = characters[r.Intn(len(characters))]
	}
	return string(result)
}

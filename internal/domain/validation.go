package domain

import (
	"math"
	"strings"
)

// Validate checks the business rules shared by create and update.
// Rules are checked in order and the first failure is returned.
func Validate(t *Transaction) error {
	if strings.TrimSpace(t.Description) == "" {
		return InvalidArgument("Transaction description cannot be empty")
	}

	if math.IsNaN(t.Amount) || t.Amount <= 0 {
		return InvalidArgument("Transaction amount must be positive")
	}

	if t.Type == "" {
		return InvalidArgument("Transaction type is required")
	}
	if !t.Type.IsValid() {
		return InvalidArgument("Transaction type must be INCOME or EXPENSE")
	}

	if t.Date.IsZero() {
		return InvalidArgument("Transaction date is required")
	}

	return nil
}

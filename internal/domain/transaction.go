package domain

import (
	"fmt"

	"cloud.google.com/go/civil"
)

// TransactionType is the direction of a transaction.
type TransactionType string

const (
	// Income adds to the balance.
	Income TransactionType = "INCOME"
	// Expense subtracts from the balance.
	Expense TransactionType = "EXPENSE"
)

// IsValid reports whether t is one of the known transaction types.
func (t TransactionType) IsValid() bool {
	return t == Income || t == Expense
}

// UnmarshalText rejects anything other than INCOME or EXPENSE.
func (t *TransactionType) UnmarshalText(text []byte) error {
	v := TransactionType(text)
	if !v.IsValid() {
		return fmt.Errorf("unknown transaction type %q", string(text))
	}
	*t = v
	return nil
}

// Transaction is a single income or expense entry.
// Amount is an unsigned magnitude; the sign comes from Type.
type Transaction struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Amount      float64         `json:"amount"`
	Type        TransactionType `json:"type"`
	Date        civil.Date      `json:"date"` // YYYY-MM-DD
	Category    *string         `json:"category"`
}

// Clone returns a deep copy of t.
func (t *Transaction) Clone() *Transaction {
	c := *t
	if t.Category != nil {
		category := *t.Category
		c.Category = &category
	}
	return &c
}

// SignedAmount returns Amount for income and -Amount for expenses.
func (t *Transaction) SignedAmount() float64 {
	switch t.Type {
	case Income:
		return t.Amount
	case Expense:
		return -t.Amount
	default:
		return 0
	}
}

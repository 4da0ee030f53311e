package service

import (
	"context"
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/dvloznov/budget-tracker/internal/domain"
)

// Filter narrows a transaction listing. Zero fields are ignored; From and
// To bound the date inclusively and may be set independently.
type Filter struct {
	Type     domain.TransactionType
	From     civil.Date
	To       civil.Date
	Category string
}

// IsEmpty reports whether no criteria are set.
func (f Filter) IsEmpty() bool {
	return f.Type == "" && f.From.IsZero() && f.To.IsZero() && f.Category == ""
}

// Matches reports whether tx satisfies every criterion of f.
func (f Filter) Matches(tx *domain.Transaction) bool {
	if f.Type != "" && tx.Type != f.Type {
		return false
	}
	if !f.From.IsZero() && tx.Date.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && tx.Date.After(f.To) {
		return false
	}
	if f.Category != "" && (tx.Category == nil || *tx.Category != f.Category) {
		return false
	}
	return true
}

// FilterTransactions returns the transactions matching f. The most selective
// repository query available is used and the remaining criteria are applied
// in memory.
func (s *TransactionService) FilterTransactions(ctx context.Context, f Filter) ([]*domain.Transaction, error) {
	if f.Type != "" && !f.Type.IsValid() {
		return nil, domain.InvalidArgument("Transaction type must be INCOME or EXPENSE")
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.To.Before(f.From) {
		return nil, domain.InvalidArgument("end date must not be before start date")
	}

	var (
		candidates []*domain.Transaction
		err        error
	)
	switch {
	case f.Category != "":
		candidates, err = s.repo.FindByCategory(ctx, f.Category)
	case !f.From.IsZero() && !f.To.IsZero():
		candidates, err = s.repo.FindByDateRange(ctx, f.From, f.To)
	case f.Type != "":
		candidates, err = s.repo.FindByType(ctx, f.Type)
	default:
		candidates, err = s.repo.FindAll(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("FilterTransactions: query: %w", err)
	}

	result := make([]*domain.Transaction, 0, len(candidates))
	for _, tx := range candidates {
		if f.Matches(tx) {
			result = append(result, tx)
		}
	}
	return result, nil
}

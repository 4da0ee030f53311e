package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dvloznov/budget-tracker/internal/domain"
	"github.com/dvloznov/budget-tracker/internal/repository"
	"github.com/rs/zerolog"
)

// TransactionService owns the business rules for transactions: validation,
// existence checks and balance aggregation. Storage is delegated to the
// repository; every call is a single synchronous unit of work.
type TransactionService struct {
	repo repository.TransactionRepository
	log  zerolog.Logger
}

// New creates a TransactionService backed by repo.
func New(repo repository.TransactionRepository, log zerolog.Logger) *TransactionService {
	return &TransactionService{
		repo: repo,
		log:  log,
	}
}

// ListTransactions returns every stored transaction in storage order.
func (s *TransactionService) ListTransactions(ctx context.Context) ([]*domain.Transaction, error) {
	transactions, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListTransactions: find all: %w", err)
	}
	if transactions == nil {
		transactions = []*domain.Transaction{}
	}
	return transactions, nil
}

// GetTransaction returns the transaction with the given id or a NotFound failure.
func (s *TransactionService) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	tx, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, domain.NotFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("GetTransaction: find %s: %w", id, err)
	}
	return tx, nil
}

// CreateTransaction validates candidate and stores it under a new id.
// Any id on the candidate is ignored.
func (s *TransactionService) CreateTransaction(ctx context.Context, candidate *domain.Transaction) (*domain.Transaction, error) {
	if err := domain.Validate(candidate); err != nil {
		return nil, err
	}

	tx := candidate.Clone()
	tx.ID = ""

	saved, err := s.repo.Save(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("CreateTransaction: save: %w", err)
	}

	s.log.Info().
		Str("transaction_id", saved.ID).
		Str("type", string(saved.Type)).
		Msg("Transaction created")

	return saved, nil
}

// UpdateTransaction overwrites every field except the id of an existing
// transaction. The lookup runs first, so a missing id fails with NotFound
// before the candidate is validated. The read and the write are not atomic:
// concurrent updates to the same id resolve as last writer wins.
func (s *TransactionService) UpdateTransaction(ctx context.Context, id string, candidate *domain.Transaction) (*domain.Transaction, error) {
	existing, err := s.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.Description = candidate.Description
	existing.Amount = candidate.Amount
	existing.Type = candidate.Type
	existing.Date = candidate.Date
	existing.Category = nil
	if candidate.Category != nil {
		category := *candidate.Category
		existing.Category = &category
	}

	if err := domain.Validate(existing); err != nil {
		return nil, err
	}

	saved, err := s.repo.Save(ctx, existing)
	if err != nil {
		return nil, fmt.Errorf("UpdateTransaction: save %s: %w", id, err)
	}

	s.log.Info().Str("transaction_id", id).Msg("Transaction updated")

	return saved, nil
}

// DeleteTransaction removes the transaction or fails with NotFound.
func (s *TransactionService) DeleteTransaction(ctx context.Context, id string) error {
	exists, err := s.repo.ExistsByID(ctx, id)
	if err != nil {
		return fmt.Errorf("DeleteTransaction: exists %s: %w", id, err)
	}
	if !exists {
		return domain.NotFound(id)
	}

	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("DeleteTransaction: delete %s: %w", id, err)
	}

	s.log.Info().Str("transaction_id", id).Msg("Transaction deleted")

	return nil
}

// CalculateBalance returns total income minus total expenses over all
// stored transactions.
//
// The sums use float64 arithmetic with no rounding, so results such as
// 0.1+0.2 carry the usual binary floating-point error.
func (s *TransactionService) CalculateBalance(ctx context.Context) (float64, error) {
	transactions, err := s.repo.FindAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("CalculateBalance: find all: %w", err)
	}

	var totalIncome, totalExpenses float64
	for _, tx := range transactions {
		switch tx.Type {
		case domain.Income:
			totalIncome += tx.Amount
		case domain.Expense:
			totalExpenses += tx.Amount
		}
	}

	return totalIncome - totalExpenses, nil
}

// IncomeTransactions returns all INCOME transactions.
func (s *TransactionService) IncomeTransactions(ctx context.Context) ([]*domain.Transaction, error) {
	return s.byType(ctx, domain.Income)
}

// ExpenseTransactions returns all EXPENSE transactions.
func (s *TransactionService) ExpenseTransactions(ctx context.Context) ([]*domain.Transaction, error) {
	return s.byType(ctx, domain.Expense)
}

func (s *TransactionService) byType(ctx context.Context, t domain.TransactionType) ([]*domain.Transaction, error) {
	transactions, err := s.repo.FindByType(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("FindByType %s: %w", t, err)
	}
	if transactions == nil {
		transactions = []*domain.Transaction{}
	}
	return transactions, nil
}

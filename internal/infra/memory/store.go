package memory

import (
	"context"
	"sync"

	"cloud.google.com/go/civil"
	"github.com/dvloznov/budget-tracker/internal/domain"
	"github.com/dvloznov/budget-tracker/internal/repository"
	"github.com/google/uuid"
)

// Store is an in-memory implementation of TransactionRepository.
// It is safe for concurrent use and lists records in insertion order.
// Data is lost on restart; use the mongo or bigquery backend for persistence.
type Store struct {
	mu           sync.RWMutex
	transactions map[string]*domain.Transaction
	order        []string
}

// NewStore creates an empty in-memory transaction store.
func NewStore() *Store {
	return &Store{
		transactions: make(map[string]*domain.Transaction),
	}
}

// Save implements the TransactionRepository interface.
func (s *Store) Save(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Store a copy to avoid external modifications
	stored := tx.Clone()
	if stored.ID == "" {
		stored.ID = uuid.New().String()
	}

	if _, exists := s.transactions[stored.ID]; !exists {
		s.order = append(s.order, stored.ID)
	}
	s.transactions[stored.ID] = stored

	return stored.Clone(), nil
}

// FindByID implements the TransactionRepository interface.
func (s *Store) FindByID(ctx context.Context, id string) (*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tx, exists := s.transactions[id]
	if !exists {
		return nil, repository.ErrNotFound
	}

	return tx.Clone(), nil
}

// FindAll implements the TransactionRepository interface.
func (s *Store) FindAll(ctx context.Context) ([]*domain.Transaction, error) {
	return s.filter(func(*domain.Transaction) bool { return true }), nil
}

// ExistsByID implements the TransactionRepository interface.
func (s *Store) ExistsByID(ctx context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, exists := s.transactions[id]
	return exists, nil
}

// DeleteByID implements the TransactionRepository interface.
// Deleting an unknown id is a no-op.
func (s *Store) DeleteByID(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.transactions[id]; !exists {
		return nil
	}
	delete(s.transactions, id)

	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	return nil
}

// FindByType implements the TransactionRepository interface.
func (s *Store) FindByType(ctx context.Context, t domain.TransactionType) ([]*domain.Transaction, error) {
	return s.filter(func(tx *domain.Transaction) bool { return tx.Type == t }), nil
}

// FindByDateRange implements the TransactionRepository interface.
func (s *Store) FindByDateRange(ctx context.Context, from, to civil.Date) ([]*domain.Transaction, error) {
	return s.filter(func(tx *domain.Transaction) bool {
		return !tx.Date.Before(from) && !tx.Date.After(to)
	}), nil
}

// FindByCategory implements the TransactionRepository interface.
func (s *Store) FindByCategory(ctx context.Context, category string) ([]*domain.Transaction, error) {
	return s.filter(func(tx *domain.Transaction) bool {
		return tx.Category != nil && *tx.Category == category
	}), nil
}

func (s *Store) filter(keep func(*domain.Transaction) bool) []*domain.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Transaction, 0, len(s.order))
	for _, id := range s.order {
		tx := s.transactions[id]
		if keep(tx) {
			result = append(result, tx.Clone())
		}
	}
	return result
}

// Ensure Store implements TransactionRepository interface.
var _ repository.TransactionRepository = (*Store)(nil)

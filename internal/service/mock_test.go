package service

import (
	"context"

	"cloud.google.com/go/civil"
	"github.com/dvloznov/budget-tracker/internal/domain"
	"github.com/dvloznov/budget-tracker/internal/repository"
)

// MockRepository is a mock implementation of TransactionRepository for testing.
// Unset funcs behave like an empty store.
type MockRepository struct {
	SaveFunc            func(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error)
	FindByIDFunc        func(ctx context.Context, id string) (*domain.Transaction, error)
	FindAllFunc         func(ctx context.Context) ([]*domain.Transaction, error)
	ExistsByIDFunc      func(ctx context.Context, id string) (bool, error)
	DeleteByIDFunc      func(ctx context.Context, id string) error
	FindByTypeFunc      func(ctx context.Context, t domain.TransactionType) ([]*domain.Transaction, error)
	FindByDateRangeFunc func(ctx context.Context, from, to civil.Date) ([]*domain.Transaction, error)
	FindByCategoryFunc  func(ctx context.Context, category string) ([]*domain.Transaction, error)
}

func (m *MockRepository) Save(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, tx)
	}
	return tx, nil
}

func (m *MockRepository) FindByID(ctx context.Context, id string) (*domain.Transaction, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, repository.ErrNotFound
}

func (m *MockRepository) FindAll(ctx context.Context) ([]*domain.Transaction, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx)
	}
	return nil, nil
}

func (m *MockRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	if m.ExistsByIDFunc != nil {
		return m.ExistsByIDFunc(ctx, id)
	}
	return false, nil
}

func (m *MockRepository) DeleteByID(ctx context.Context, id string) error {
	if m.DeleteByIDFunc != nil {
		return m.DeleteByIDFunc(ctx, id)
	}
	return nil
}

func (m *MockRepository) FindByType(ctx context.Context, t domain.TransactionType) ([]*domain.Transaction, error) {
	if m.FindByTypeFunc != nil {
		return m.FindByTypeFunc(ctx, t)
	}
	return nil, nil
}

func (m *MockRepository) FindByDateRange(ctx context.Context, from, to civil.Date) ([]*domain.Transaction, error) {
	if m.FindByDateRangeFunc != nil {
		return m.FindByDateRangeFunc(ctx, from, to)
	}
	return nil, nil
}

func (m *MockRepository) FindByCategory(ctx context.Context, category string) ([]*domain.Transaction, error) {
	if m.FindByCategoryFunc != nil {
		return m.FindByCategoryFunc(ctx, category)
	}
	return nil, nil
}

var _ repository.TransactionRepository = (*MockRepository)(nil)

package repository

import (
	"context"
	"errors"

	"cloud.google.com/go/civil"
	"github.com/dvloznov/budget-tracker/internal/domain"
)

// ErrNotFound is returned by FindByID when no record has the requested id.
var ErrNotFound = errors.New("transaction not found")

// TransactionRepository provides an interface for transaction persistence.
// Implementations exist for memory, MongoDB and BigQuery.
type TransactionRepository interface {
	// Save inserts tx when its ID is empty (assigning a new ID) and
	// overwrites the stored record otherwise. It returns the stored record.
	Save(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error)

	// FindByID returns ErrNotFound when the record does not exist.
	FindByID(ctx context.Context, id string) (*domain.Transaction, error)

	// FindAll returns every stored transaction in storage order.
	FindAll(ctx context.Context) ([]*domain.Transaction, error)

	ExistsByID(ctx context.Context, id string) (bool, error)

	DeleteByID(ctx context.Context, id string) error

	// FindByType returns all INCOME or all EXPENSE transactions.
	FindByType(ctx context.Context, t domain.TransactionType) ([]*domain.Transaction, error)

	// FindByDateRange returns transactions dated within [from, to], both inclusive.
	FindByDateRange(ctx context.Context, from, to civil.Date) ([]*domain.Transaction, error)

	// FindByCategory returns transactions whose category equals category exactly.
	FindByCategory(ctx context.Context, category string) ([]*domain.Transaction, error)
}

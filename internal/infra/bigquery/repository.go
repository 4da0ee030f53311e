package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"github.com/dvloznov/budget-tracker/internal/domain"
	"github.com/dvloznov/budget-tracker/internal/repository"
	"github.com/google/uuid"
)

// BigQueryTransactionRepository is the concrete implementation of
// TransactionRepository that interacts with BigQuery. It holds a shared
// client to avoid creating a new connection for each operation.
type BigQueryTransactionRepository struct {
	client    *bigquery.Client
	projectID string
	datasetID string
}

var _ repository.TransactionRepository = (*BigQueryTransactionRepository)(nil)

// NewBigQueryTransactionRepository creates a repository with its own client.
func NewBigQueryTransactionRepository(ctx context.Context, projectID, datasetID string) (*BigQueryTransactionRepository, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("NewBigQueryTransactionRepository: creating client: %w", err)
	}
	return NewWithClient(client, projectID, datasetID), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client *bigquery.Client, projectID, datasetID string) *BigQueryTransactionRepository {
	return &BigQueryTransactionRepository{
		client:    client,
		projectID: projectID,
		datasetID: datasetID,
	}
}

// Close closes the BigQuery client connection.
func (r *BigQueryTransactionRepository) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

// Save upserts tx, assigning a uuid when it has no id yet.
func (r *BigQueryTransactionRepository) Save(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
	saved := tx.Clone()
	if saved.ID == "" {
		saved.ID = uuid.New().String()
	}

	if err := UpsertTransactionWithClient(ctx, r.client, r.projectID, r.datasetID, toRow(saved)); err != nil {
		return nil, fmt.Errorf("Save: %w", err)
	}
	return saved, nil
}

func (r *BigQueryTransactionRepository) FindByID(ctx context.Context, id string) (*domain.Transaction, error) {
	rows, err := r.query(ctx, "transaction_id = @transaction_id", bigquery.QueryParameter{Name: "transaction_id", Value: id})
	if err != nil {
		return nil, fmt.Errorf("FindByID: %w", err)
	}
	if len(rows) == 0 {
		return nil, repository.ErrNotFound
	}
	return rows[0], nil
}

func (r *BigQueryTransactionRepository) FindAll(ctx context.Context) ([]*domain.Transaction, error) {
	rows, err := r.query(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("FindAll: %w", err)
	}
	return rows, nil
}

func (r *BigQueryTransactionRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	n, err := CountTransactionsWithClient(ctx, r.client, r.projectID, r.datasetID, id)
	if err != nil {
		return false, fmt.Errorf("ExistsByID: %w", err)
	}
	return n > 0, nil
}

func (r *BigQueryTransactionRepository) DeleteByID(ctx context.Context, id string) error {
	if err := DeleteTransactionWithClient(ctx, r.client, r.projectID, r.datasetID, id); err != nil {
		return fmt.Errorf("DeleteByID: %w", err)
	}
	return nil
}

func (r *BigQueryTransactionRepository) FindByType(ctx context.Context, t domain.TransactionType) ([]*domain.Transaction, error) {
	rows, err := r.query(ctx, "type = @type", bigquery.QueryParameter{Name: "type", Value: string(t)})
	if err != nil {
		return nil, fmt.Errorf("FindByType: %w", err)
	}
	return rows, nil
}

// FindByDateRange returns transactions dated within [from, to].
func (r *BigQueryTransactionRepository) FindByDateRange(ctx context.Context, from, to civil.Date) ([]*domain.Transaction, error) {
	rows, err := r.query(ctx, "transaction_date >= @start_date AND transaction_date <= @end_date",
		bigquery.QueryParameter{Name: "start_date", Value: from},
		bigquery.QueryParameter{Name: "end_date", Value: to},
	)
	if err != nil {
		return nil, fmt.Errorf("FindByDateRange: %w", err)
	}
	return rows, nil
}

func (r *BigQueryTransactionRepository) FindByCategory(ctx context.Context, category string) ([]*domain.Transaction, error) {
	rows, err := r.query(ctx, "category = @category", bigquery.QueryParameter{Name: "category", Value: category})
	if err != nil {
		return nil, fmt.Errorf("FindByCategory: %w", err)
	}
	return rows, nil
}

func (r *BigQueryTransactionRepository) query(ctx context.Context, where string, params ...bigquery.QueryParameter) ([]*domain.Transaction, error) {
	rows, err := QueryTransactionsWithClient(ctx, r.client, r.projectID, r.datasetID, where, params)
	if err != nil {
		return nil, err
	}

	transactions := make([]*domain.Transaction, 0, len(rows))
	for _, row := range rows {
		transactions = append(transactions, row.toDomain())
	}
	return transactions, nil
}

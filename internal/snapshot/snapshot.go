// Package snapshot exports the full transaction set to Cloud Storage as a
// JSON array and imports such arrays back through the service layer.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dvloznov/budget-tracker/internal/domain"
	"github.com/dvloznov/budget-tracker/internal/gcs"
	"github.com/rs/zerolog"
)

const contentType = "application/json"

// Lister returns every stored transaction.
type Lister interface {
	ListTransactions(ctx context.Context) ([]*domain.Transaction, error)
}

// Creator validates and stores a new transaction.
type Creator interface {
	CreateTransaction(ctx context.Context, candidate *domain.Transaction) (*domain.Transaction, error)
}

// Service moves snapshots between the transaction store and object storage.
type Service struct {
	storage gcs.StorageService
	log     zerolog.Logger
}

// New creates a snapshot Service.
func New(storage gcs.StorageService, log zerolog.Logger) *Service {
	return &Service{storage: storage, log: log}
}

// DefaultObjectName names a snapshot taken at now.
func DefaultObjectName(now time.Time) string {
	return "snapshots/transactions-" + now.UTC().Format("20060102T150405Z") + ".json"
}

// Export writes all transactions to bucket/object and returns the gs:// URI.
func (s *Service) Export(ctx context.Context, src Lister, bucket, object string) (string, error) {
	transactions, err := src.ListTransactions(ctx)
	if err != nil {
		return "", fmt.Errorf("Export: list transactions: %w", err)
	}
	if transactions == nil {
		transactions = []*domain.Transaction{}
	}

	data, err := json.MarshalIndent(transactions, "", "  ")
	if err != nil {
		return "", fmt.Errorf("Export: marshal: %w", err)
	}

	uri, err := s.storage.UploadBytes(ctx, bucket, object, data, contentType)
	if err != nil {
		return "", fmt.Errorf("Export: upload: %w", err)
	}

	s.log.Info().
		Str("gcs_uri", uri).
		Int("count", len(transactions)).
		Msg("Exported transaction snapshot")

	return uri, nil
}

// Import reads a snapshot from gcsURI and creates each entry through dst.
// Ids in the snapshot are not preserved. The first failing entry aborts the
// import; the returned count is how many entries were created before it.
func (s *Service) Import(ctx context.Context, dst Creator, gcsURI string) (int, error) {
	data, err := s.storage.FetchFromGCS(ctx, gcsURI)
	if err != nil {
		return 0, fmt.Errorf("Import: fetch: %w", err)
	}

	var transactions []*domain.Transaction
	if err := json.Unmarshal(data, &transactions); err != nil {
		return 0, fmt.Errorf("Import: decode %s: %w", gcsURI, err)
	}

	for i, tx := range transactions {
		if tx == nil {
			return i, fmt.Errorf("Import: entry %d: null transaction", i)
		}
		created, err := dst.CreateTransaction(ctx, tx)
		if err != nil {
			return i, fmt.Errorf("Import: entry %d: %w", i, err)
		}
		s.log.Debug().
			Str("source_id", tx.ID).
			Str("transaction_id", created.ID).
			Msg("Imported transaction")
	}

	s.log.Info().
		Str("gcs_uri", gcsURI).
		Int("count", len(transactions)).
		Msg("Imported transaction snapshot")

	return len(transactions), nil
}

// Package backend opens the transaction repository selected by configuration.
package backend

import (
	"context"
	"fmt"

	"github.com/dvloznov/budget-tracker/internal/config"
	"github.com/dvloznov/budget-tracker/internal/infra/bigquery"
	"github.com/dvloznov/budget-tracker/internal/infra/memory"
	"github.com/dvloznov/budget-tracker/internal/infra/mongo"
	"github.com/dvloznov/budget-tracker/internal/repository"
	"github.com/rs/zerolog"
)

// Backend is an open repository plus the function that releases it.
type Backend struct {
	Repo  repository.TransactionRepository
	close func(ctx context.Context) error
}

// Close releases the underlying client, if any.
func (b *Backend) Close(ctx context.Context) error {
	if b.close == nil {
		return nil
	}
	return b.close(ctx)
}

// Open constructs the repository named by cfg.StoreBackend.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Backend, error) {
	switch cfg.StoreBackend {
	case config.BackendMemory:
		log.Warn().Msg("Using in-memory store - data is lost on exit")
		return &Backend{Repo: memory.NewStore()}, nil

	case config.BackendMongo:
		repo, err := mongo.NewMongoTransactionRepository(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
		if err != nil {
			return nil, fmt.Errorf("Open: %w", err)
		}
		log.Info().
			Str("database", cfg.MongoDatabase).
			Str("collection", cfg.MongoCollection).
			Msg("Connected to MongoDB")
		return &Backend{Repo: repo, close: repo.Close}, nil

	case config.BackendBigQuery:
		repo, err := bigquery.NewBigQueryTransactionRepository(ctx, cfg.BigQueryProject, cfg.BigQueryDataset)
		if err != nil {
			return nil, fmt.Errorf("Open: %w", err)
		}
		log.Info().
			Str("project", cfg.BigQueryProject).
			Str("dataset", cfg.BigQueryDataset).
			Msg("Connected to BigQuery")
		return &Backend{Repo: repo, close: func(context.Context) error { return repo.Close() }}, nil

	default:
		return nil, fmt.Errorf("Open: unknown store backend %q", cfg.StoreBackend)
	}
}

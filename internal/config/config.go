package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Storage backends accepted by STORE_BACKEND.
const (
	BackendMemory   = "memory"
	BackendMongo    = "mongo"
	BackendBigQuery = "bigquery"
)

// Config holds process configuration shared by the binaries.
type Config struct {
	Port     string
	LogLevel string

	StoreBackend string

	MongoURI        string
	MongoDatabase   string
	MongoCollection string

	BigQueryProject string
	BigQueryDataset string

	GCSBucket string

	NotionToken string
	NotionDBID  string
}

// Load reads an optional .env file and then the process environment.
// Variables already present in the environment win over .env entries.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: loading .env: %w", err)
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from a lookup function such as os.LookupEnv.
func FromEnv(lookup func(string) (string, bool)) (*Config, error) {
	env := func(key, def string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return def
	}

	cfg := &Config{
		Port:            env("PORT", "8080"),
		LogLevel:        env("LOG_LEVEL", "info"),
		StoreBackend:    strings.ToLower(env("STORE_BACKEND", BackendMemory)),
		MongoURI:        env("MONGODB_URI", "mongodb://localhost:27017/finance_tracker"),
		MongoDatabase:   env("MONGODB_DATABASE", "finance_tracker"),
		MongoCollection: env("MONGODB_COLLECTION", "transactions"),
		BigQueryProject: env("BIGQUERY_PROJECT", ""),
		BigQueryDataset: env("BIGQUERY_DATASET", "finance"),
		GCSBucket:       env("GCS_BUCKET", ""),
		NotionToken:     env("NOTION_TOKEN", ""),
		NotionDBID:      env("NOTION_DB_ID", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the selected backend has what it needs.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendMemory:
	case BackendMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("config: MONGODB_URI is required for the %s backend", BackendMongo)
		}
	case BackendBigQuery:
		if c.BigQueryProject == "" {
			return fmt.Errorf("config: BIGQUERY_PROJECT is required for the %s backend", BackendBigQuery)
		}
	default:
		return fmt.Errorf("config: unknown STORE_BACKEND %q (want %s, %s or %s)",
			c.StoreBackend, BackendMemory, BackendMongo, BackendBigQuery)
	}
	return nil
}

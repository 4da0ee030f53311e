package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dvloznov/budget-tracker/internal/config"
	"github.com/dvloznov/budget-tracker/internal/domain"
	"github.com/dvloznov/budget-tracker/internal/gcsuploader"
	"github.com/dvloznov/budget-tracker/internal/infra/backend"
	"github.com/dvloznov/budget-tracker/internal/logger"
	"github.com/dvloznov/budget-tracker/internal/service"
	"github.com/dvloznov/budget-tracker/internal/snapshot"
	"github.com/rs/zerolog"
)

func main() {
	log := logger.New()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "list":
		runList(log)
	case "get":
		runGet(log)
	case "balance":
		runBalance(log)
	case "export":
		runExport(log)
	case "import":
		runImport(log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Budget Tracker CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  list      List transactions, optionally filtered by type, date range or category")
	fmt.Println("  get       Show a single transaction by ID")
	fmt.Println("  balance   Show total income minus total expenses")
	fmt.Println("  export    Write all transactions to a GCS snapshot")
	fmt.Println("  import    Create transactions from a GCS snapshot")
	fmt.Println("  help      Show this help message")
	fmt.Println("\nThe storage backend comes from STORE_BACKEND (memory, mongo, bigquery).")
	fmt.Println("Run 'cli <command> -h' for more information on a command.")
}

// openService loads configuration and opens the configured store. The
// returned function releases it.
func openService(ctx context.Context, log zerolog.Logger) (*service.TransactionService, *config.Config, func()) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	store, err := backend.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.StoreBackend).Msg("Failed to open transaction store")
	}

	closeFn := func() {
		if err := store.Close(context.Background()); err != nil {
			log.Error().Err(err).Msg("Failed to close transaction store")
		}
	}
	return service.New(store.Repo, log), cfg, closeFn
}

func runList(log zerolog.Logger) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	txType := fs.String("type", "", "Only INCOME or EXPENSE transactions")
	from := fs.String("from", "", "Earliest date, YYYY-MM-DD (inclusive)")
	to := fs.String("to", "", "Latest date, YYYY-MM-DD (inclusive)")
	category := fs.String("category", "", "Only transactions in this category")
	fs.Parse(os.Args[2:])

	filter, err := parseFilter(*txType, *from, *to, *category)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid filter")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	svc, _, closeFn := openService(ctx, log)
	defer closeFn()

	transactions, err := svc.FilterTransactions(ctx, filter)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list transactions")
	}

	fmt.Printf("\n=== Transactions (%d) ===\n", len(transactions))
	for i, tx := range transactions {
		printTransaction(i+1, tx)
	}
	fmt.Println()
}

func runGet(log zerolog.Logger) {
	fs := flag.NewFlagSet("get", flag.ExitOnError)
	id := fs.String("id", "", "Transaction ID")
	fs.Parse(os.Args[2:])

	if *id == "" {
		log.Fatal().Msg("Error: --id is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	svc, _, closeFn := openService(ctx, log)
	defer closeFn()

	tx, err := svc.GetTransaction(ctx, *id)
	if errors.Is(err, domain.ErrNotFound) {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get transaction")
	}

	fmt.Println("\n=== Transaction Details ===")
	printTransaction(1, tx)
	fmt.Println()
}

func runBalance(log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	svc, _, closeFn := openService(ctx, log)
	defer closeFn()

	balance, err := svc.CalculateBalance(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to calculate balance")
	}

	fmt.Printf("Balance: %s\n", formatMoney(balance))
}

func runExport(log zerolog.Logger) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	bucket := fs.String("bucket", "", "GCS bucket name (or set GCS_BUCKET env)")
	object := fs.String("object", "", "GCS object name (defaults to a timestamped name)")
	fs.Parse(os.Args[2:])

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	svc, cfg, closeFn := openService(ctx, log)
	defer closeFn()

	if *bucket == "" {
		*bucket = cfg.GCSBucket
	}
	if *bucket == "" {
		log.Fatal().Msg("Usage: cli export -bucket NAME [-object NAME]")
	}
	if *object == "" {
		*object = snapshot.DefaultObjectName(time.Now())
	}

	snap, closeStorage := openSnapshot(ctx, log)
	defer closeStorage()

	uri, err := snap.Export(ctx, svc, *bucket, *object)
	if err != nil {
		log.Fatal().Err(err).Msg("Export failed")
	}

	fmt.Printf("Exported transactions to %s\n", uri)
}

func runImport(log zerolog.Logger) {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	gcsURI := fs.String("gcs-uri", "", "GCS URI of a snapshot created by export")
	fs.Parse(os.Args[2:])

	if *gcsURI == "" {
		log.Fatal().Msg("Error: --gcs-uri is required")
	}
	if _, _, err := gcsuploader.ParseGCSURI(*gcsURI); err != nil {
		log.Fatal().Err(err).Msg("Invalid --gcs-uri")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	svc, _, closeFn := openService(ctx, log)
	defer closeFn()

	snap, closeStorage := openSnapshot(ctx, log)
	defer closeStorage()

	n, err := snap.Import(ctx, svc, *gcsURI)
	if err != nil {
		log.Fatal().Err(err).Int("imported", n).Msg("Import failed")
	}

	fmt.Printf("Imported %d transactions from %s\n", n, *gcsURI)
}

func openSnapshot(ctx context.Context, log zerolog.Logger) (*snapshot.Service, func()) {
	storage, err := gcsuploader.NewGCSStorageService(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create storage client")
	}
	return snapshot.New(storage, log), func() { _ = storage.Close() }
}

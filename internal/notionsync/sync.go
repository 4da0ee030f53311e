package notionsync

import (
	"context"
	"fmt"

	"github.com/dvloznov/budget-tracker/internal/domain"
	"github.com/dvloznov/budget-tracker/internal/logger"
	"github.com/jomei/notionapi"
)

const (
	// BatchSize defines the number of transactions to process in a single batch
	BatchSize = 100
)

// Lister returns the transactions to mirror.
type Lister interface {
	ListTransactions(ctx context.Context) ([]*domain.Transaction, error)
}

// Result counts what a sync did, or would do in a dry run.
type Result struct {
	Created  int
	Updated  int
	Archived int
	Failed   int
}

// SyncTransactions mirrors every transaction from src into a Notion database.
// Pages are matched on their Transaction ID property: matching pages are
// updated, missing ones created, and pages whose id is absent from src
// (or that carry no id) are archived. Individual page failures are logged
// and counted; they do not stop the sync.
func SyncTransactions(ctx context.Context, src Lister, notionClient NotionService, notionDBID string, dryRun bool) (*Result, error) {
	log := logger.FromContext(ctx)

	log.Info().
		Bool("dry_run", dryRun).
		Msg("Starting transaction sync to Notion")

	transactions, err := src.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("SyncTransactions: list transactions: %w", err)
	}

	log.Info().Int("transaction_count", len(transactions)).Msg("Retrieved transactions")

	valid := make(map[string]bool, len(transactions))
	for _, tx := range transactions {
		valid[tx.ID] = true
	}

	notionPages, err := queryAllNotionPages(ctx, notionClient, notionDBID)
	if err != nil {
		return nil, fmt.Errorf("SyncTransactions: query Notion pages: %w", err)
	}

	log.Info().Int("notion_page_count", len(notionPages)).Msg("Retrieved existing Notion pages")

	result := &Result{}

	// First page per transaction id wins; duplicates are archived with the stale ones.
	pageByTxID := make(map[string]string)
	for _, page := range notionPages {
		txID := extractTransactionID(page)
		pageID := string(page.ID)

		if txID != "" && valid[txID] {
			if _, seen := pageByTxID[txID]; !seen {
				pageByTxID[txID] = pageID
				continue
			}
		}

		if dryRun {
			log.Info().
				Str("transaction_id", txID).
				Str("page_id", pageID).
				Msg("[DRY RUN] Would archive stale Notion page")
			result.Archived++
			continue
		}

		if err := notionClient.DeletePage(ctx, pageID); err != nil {
			log.Warn().
				Err(err).
				Str("transaction_id", txID).
				Str("page_id", pageID).
				Msg("Failed to archive stale Notion page")
			result.Failed++
			continue
		}
		log.Info().
			Str("transaction_id", txID).
			Str("page_id", pageID).
			Msg("Archived stale Notion page")
		result.Archived++
	}

	for i := 0; i < len(transactions); i += BatchSize {
		end := i + BatchSize
		if end > len(transactions) {
			end = len(transactions)
		}

		log.Debug().
			Int("batch_start", i).
			Int("batch_end", end).
			Msg("Processing batch")

		for _, tx := range transactions[i:end] {
			syncOne(ctx, notionClient, notionDBID, tx, pageByTxID[tx.ID], dryRun, result)
		}
	}

	log.Info().
		Int("created", result.Created).
		Int("updated", result.Updated).
		Int("archived", result.Archived).
		Int("failed", result.Failed).
		Int("total", len(transactions)).
		Msg("Transaction sync completed")

	return result, nil
}

func syncOne(ctx context.Context, notionClient NotionService, notionDBID string, tx *domain.Transaction, pageID string, dryRun bool, result *Result) {
	log := logger.FromContext(ctx).With().Str("transaction_id", tx.ID).Logger()

	if dryRun {
		if pageID != "" {
			log.Info().Str("page_id", pageID).Msg("[DRY RUN] Would update existing Notion page")
			result.Updated++
		} else {
			log.Info().Msg("[DRY RUN] Would create new Notion page")
			result.Created++
		}
		return
	}

	props := TransactionToNotionProperties(tx)

	if pageID != "" {
		if _, err := notionClient.UpdatePage(ctx, pageID, props); err != nil {
			log.Warn().Err(err).Str("page_id", pageID).Msg("Failed to update Notion page")
			result.Failed++
			return
		}
		log.Debug().Str("page_id", pageID).Msg("Updated Notion page")
		result.Updated++
		return
	}

	page, err := notionClient.CreatePage(ctx, notionDBID, props)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to create Notion page")
		result.Failed++
		return
	}
	log.Debug().Str("page_id", string(page.ID)).Msg("Created Notion page")
	result.Created++
}

// queryAllNotionPages queries all pages from a Notion database and returns them.
// Handles pagination automatically.
func queryAllNotionPages(ctx context.Context, notionClient NotionService, databaseID string) ([]notionapi.Page, error) {
	var allPages []notionapi.Page
	var cursor notionapi.Cursor

	for {
		req := &notionapi.DatabaseQueryRequest{
			PageSize: 100,
		}

		// Only set StartCursor if we have a cursor value
		if cursor != "" {
			req.StartCursor = cursor
		}

		resp, err := notionClient.QueryDatabase(ctx, databaseID, req)
		if err != nil {
			return nil, fmt.Errorf("queryAllNotionPages: %w", err)
		}

		allPages = append(allPages, resp.Results...)

		if !resp.HasMore {
			break
		}
		cursor = resp.NextCursor
	}

	return allPages, nil
}

package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"
)

const transactionsTable = "transactions"

const selectColumns = `
		transaction_id,
		description,
		amount,
		type,
		transaction_date,
		category,
		created_ts,
		updated_ts`

// tableRef returns the fully qualified, backtick-quoted table name.
func tableRef(projectID, datasetID string) string {
	return "`" + projectID + "." + datasetID + "." + transactionsTable + "`"
}

// UpsertTransactionWithClient inserts row or overwrites the row with the same
// transaction_id in a single MERGE statement. DML is used instead of the
// streaming inserter so the row can be updated or deleted right away.
func UpsertTransactionWithClient(ctx context.Context, client *bigquery.Client, projectID, datasetID string, row *TransactionRow) error {
	q := client.Query(`
		MERGE ` + tableRef(projectID, datasetID) + ` T
		USING (SELECT @transaction_id AS transaction_id) S
		ON T.transaction_id = S.transaction_id
		WHEN MATCHED THEN
		  UPDATE SET
			description = @description,
			amount = @amount,
			type = @type,
			transaction_date = @transaction_date,
			category = @category,
			updated_ts = CURRENT_TIMESTAMP()
		WHEN NOT MATCHED THEN
		  INSERT (transaction_id, description, amount, type, transaction_date, category, created_ts)
		  VALUES (@transaction_id, @description, @amount, @type, @transaction_date, @category, CURRENT_TIMESTAMP())
	`)
	q.Parameters = []bigquery.QueryParameter{
		{Name: "transaction_id", Value: row.TransactionID},
		{Name: "description", Value: row.Description},
		{Name: "amount", Value: row.Amount},
		{Name: "type", Value: row.Type},
		{Name: "transaction_date", Value: row.TransactionDate},
		{Name: "category", Value: row.Category},
	}

	if err := runDML(ctx, q); err != nil {
		return fmt.Errorf("UpsertTransaction: %w", err)
	}
	return nil
}

// DeleteTransactionWithClient removes the row with the given id. Deleting a
// missing id is not an error.
func DeleteTransactionWithClient(ctx context.Context, client *bigquery.Client, projectID, datasetID, id string) error {
	q := client.Query(`
		DELETE FROM ` + tableRef(projectID, datasetID) + `
		WHERE transaction_id = @transaction_id
	`)
	q.Parameters = []bigquery.QueryParameter{
		{Name: "transaction_id", Value: id},
	}

	if err := runDML(ctx, q); err != nil {
		return fmt.Errorf("DeleteTransaction: %w", err)
	}
	return nil
}

// CountTransactionsWithClient returns how many rows carry the given id.
func CountTransactionsWithClient(ctx context.Context, client *bigquery.Client, projectID, datasetID, id string) (int64, error) {
	q := client.Query(`
		SELECT COUNT(1) AS n
		FROM ` + tableRef(projectID, datasetID) + `
		WHERE transaction_id = @transaction_id
	`)
	q.Parameters = []bigquery.QueryParameter{
		{Name: "transaction_id", Value: id},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return 0, fmt.Errorf("CountTransactions: query read: %w", err)
	}

	var result struct {
		N int64 `bigquery:"n"`
	}
	if err := it.Next(&result); err != nil {
		return 0, fmt.Errorf("CountTransactions: iter next: %w", err)
	}
	return result.N, nil
}

// QueryTransactionsWithClient selects transactions matching where (which may
// be empty) in insertion order.
func QueryTransactionsWithClient(ctx context.Context, client *bigquery.Client, projectID, datasetID, where string, params []bigquery.QueryParameter) ([]*TransactionRow, error) {
	query := `SELECT` + selectColumns + `
		FROM ` + tableRef(projectID, datasetID)
	if where != "" {
		query += `
		WHERE ` + where
	}
	query += `
		ORDER BY created_ts, transaction_id`

	q := client.Query(query)
	q.Parameters = params

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("QueryTransactions: query read: %w", err)
	}

	var rows []*TransactionRow
	for {
		var r TransactionRow
		err := it.Next(&r)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("QueryTransactions: iter next: %w", err)
		}
		rows = append(rows, &r)
	}

	return rows, nil
}

func runDML(ctx context.Context, q *bigquery.Query) error {
	job, err := q.Run(ctx)
	if err != nil {
		return fmt.Errorf("run query: %w", err)
	}

	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("wait for job: %w", err)
	}

	if err := status.Err(); err != nil {
		return fmt.Errorf("job error: %w", err)
	}

	return nil
}

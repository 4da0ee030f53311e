package bigquery

import (
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"github.com/dvloznov/budget-tracker/internal/domain"
)

// TransactionRow mirrors one row of <dataset>.transactions.
type TransactionRow struct {
	TransactionID string `bigquery:"transaction_id"` // REQUIRED

	Description string  `bigquery:"description"` // REQUIRED STRING
	Amount      float64 `bigquery:"amount"`      // REQUIRED FLOAT64
	Type        string  `bigquery:"type"`        // REQUIRED STRING, INCOME or EXPENSE

	TransactionDate civil.Date          `bigquery:"transaction_date"` // REQUIRED DATE
	Category        bigquery.NullString `bigquery:"category"`         // NULLABLE

	CreatedTS time.Time              `bigquery:"created_ts"` // REQUIRED (default CURRENT_TIMESTAMP)
	UpdatedTS bigquery.NullTimestamp `bigquery:"updated_ts"` // NULLABLE
}

// toRow converts a domain transaction to its row form. Timestamps are
// left to the DML statements.
func toRow(tx *domain.Transaction) *TransactionRow {
	row := &TransactionRow{
		TransactionID:   tx.ID,
		Description:     tx.Description,
		Amount:          tx.Amount,
		Type:            string(tx.Type),
		TransactionDate: tx.Date,
	}
	if tx.Category != nil {
		row.Category = bigquery.NullString{StringVal: *tx.Category, Valid: true}
	}
	return row
}

// toDomain converts a row back to a domain transaction.
func (r *TransactionRow) toDomain() *domain.Transaction {
	tx := &domain.Transaction{
		ID:          r.TransactionID,
		Description: r.Description,
		Amount:      r.Amount,
		Type:        domain.TransactionType(r.Type),
		Date:        r.TransactionDate,
	}
	if r.Category.Valid {
		category := r.Category.StringVal
		tx.Category = &category
	}
	return tx
}

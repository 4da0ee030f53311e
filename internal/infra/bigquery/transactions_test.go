package bigquery

import (
	"reflect"
	"testing"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"github.com/dvloznov/budget-tracker/internal/domain"
)

func TestRowRoundTrip(t *testing.T) {
	category := "Food"
	tests := []struct {
		name string
		tx   *domain.Transaction
	}{
		{
			name: "with category",
			tx: &domain.Transaction{
				ID:          "id-1",
				Description: "Groceries",
				Amount:      42.5,
				Type:        domain.Expense,
				Date:        civil.Date{Year: 2024, Month: 3, Day: 9},
				Category:    &category,
			},
		},
		{
			name: "without category",
			tx: &domain.Transaction{
				ID:          "id-2",
				Description: "Salary",
				Amount:      3000,
				Type:        domain.Income,
				Date:        civil.Date{Year: 2024, Month: 3, Day: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := toRow(tt.tx)
			if row.Category.Valid != (tt.tx.Category != nil) {
				t.Errorf("Category.Valid = %v", row.Category.Valid)
			}
			if got := row.toDomain(); !reflect.DeepEqual(got, tt.tx) {
				t.Errorf("round trip = %+v, want %+v", got, tt.tx)
			}
		})
	}
}

func TestToDomain_EmptyCategoryIsPreserved(t *testing.T) {
	row := &TransactionRow{
		TransactionID: "x",
		Type:          "INCOME",
		Category:      bigquery.NullString{StringVal: "", Valid: true},
	}
	tx := row.toDomain()
	if tx.Category == nil || *tx.Category != "" {
		t.Errorf("Category = %v, want pointer to empty string", tx.Category)
	}
}

func TestTableRef(t *testing.T) {
	if got := tableRef("proj", "finance"); got != "`proj.finance.transactions`" {
		t.Errorf("tableRef = %s", got)
	}
}

package main

import (
	"fmt"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/dvloznov/budget-tracker/internal/domain"
	"github.com/dvloznov/budget-tracker/internal/service"
	"github.com/shopspring/decimal"
)

// formatMoney renders a float amount with exactly two decimals. Stored
// amounts stay float64; decimal only fixes how they print.
func formatMoney(amount float64) string {
	return decimal.NewFromFloat(amount).StringFixed(2)
}

func printTransaction(n int, tx *domain.Transaction) {
	fmt.Printf("\n%d. %s\n", n, tx.Description)
	fmt.Printf("   ID:       %s\n", tx.ID)
	fmt.Printf("   Date:     %s\n", tx.Date)
	fmt.Printf("   Type:     %s\n", tx.Type)
	fmt.Printf("   Amount:   %s\n", formatMoney(tx.SignedAmount()))
	if tx.Category != nil {
		fmt.Printf("   Category: %s\n", *tx.Category)
	}
}

// parseFilter builds a listing filter from the list command's flags.
func parseFilter(txType, from, to, category string) (service.Filter, error) {
	var f service.Filter

	if txType != "" {
		f.Type = domain.TransactionType(strings.ToUpper(txType))
		if !f.Type.IsValid() {
			return f, fmt.Errorf("unknown type %q, want INCOME or EXPENSE", txType)
		}
	}

	if from != "" {
		d, err := civil.ParseDate(from)
		if err != nil {
			return f, fmt.Errorf("invalid -from date, expected YYYY-MM-DD: %w", err)
		}
		f.From = d
	}

	if to != "" {
		d, err := civil.ParseDate(to)
		if err != nil {
			return f, fmt.Errorf("invalid -to date, expected YYYY-MM-DD: %w", err)
		}
		f.To = d
	}

	if !f.From.IsZero() && !f.To.IsZero() && f.To.Before(f.From) {
		return f, fmt.Errorf("-to %s is before -from %s", f.To, f.From)
	}

	f.Category = category
	return f, nil
}

package notionsync

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/dvloznov/budget-tracker/internal/domain"
	"github.com/jomei/notionapi"
)

// Property names of the Notion transactions database.
const (
	propDescription   = "Description"
	propAmount        = "Amount"
	propType          = "Type"
	propDate          = "Date"
	propCategory      = "Category"
	propTransactionID = "Transaction ID"
)

// TransactionToNotionProperties converts a transaction to Notion properties.
// The Transaction ID rich-text property is the key used to match pages on
// later syncs.
func TransactionToNotionProperties(tx *domain.Transaction) notionapi.Properties {
	props := notionapi.Properties{
		propDescription: notionapi.TitleProperty{
			Title: richText(tx.Description),
		},
		propAmount: notionapi.NumberProperty{
			Number: tx.Amount,
		},
		propType: notionapi.SelectProperty{
			Select: notionapi.Option{
				Name: string(tx.Type),
			},
		},
		propDate: notionapi.DateProperty{
			Date: &notionapi.DateObject{
				Start: notionDate(tx.Date),
			},
		},
		propTransactionID: notionapi.RichTextProperty{
			RichText: richText(tx.ID),
		},
	}

	// Notion rejects select options with an empty name
	if tx.Category != nil && *tx.Category != "" {
		props[propCategory] = notionapi.SelectProperty{
			Select: notionapi.Option{
				Name: *tx.Category,
			},
		}
	}

	return props
}

func richText(content string) []notionapi.RichText {
	return []notionapi.RichText{
		{
			Type: notionapi.ObjectTypeText,
			Text: &notionapi.Text{
				Content: content,
			},
		},
	}
}

func notionDate(d civil.Date) *notionapi.Date {
	nd := notionapi.Date(d.In(time.UTC))
	return &nd
}

// extractTransactionID extracts the transaction ID from a Notion page's properties.
// Returns empty string if not found.
func extractTransactionID(page notionapi.Page) string {
	if prop, ok := page.Properties[propTransactionID]; ok {
		if rt, ok := prop.(*notionapi.RichTextProperty); ok {
			if len(rt.RichText) > 0 {
				return rt.RichText[0].PlainText
			}
		}
	}
	return ""
}

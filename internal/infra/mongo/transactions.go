package mongo

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/dvloznov/budget-tracker/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// transactionDocument is the stored shape of a transaction. The date is kept
// as a BSON date at UTC midnight so range queries compare natively.
type transactionDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	Description string             `bson:"description"`
	Amount      float64            `bson:"amount"`
	Type        string             `bson:"type"`
	Date        primitive.DateTime `bson:"date"`
	Category    *string            `bson:"category,omitempty"`
}

func dateToBSON(d civil.Date) primitive.DateTime {
	return primitive.NewDateTimeFromTime(d.In(time.UTC))
}

func dateFromBSON(dt primitive.DateTime) civil.Date {
	return civil.DateOf(dt.Time().UTC())
}

func toDocument(id primitive.ObjectID, tx *domain.Transaction) *transactionDocument {
	doc := &transactionDocument{
		ID:          id,
		Description: tx.Description,
		Amount:      tx.Amount,
		Type:        string(tx.Type),
		Date:        dateToBSON(tx.Date),
	}
	if tx.Category != nil {
		category := *tx.Category
		doc.Category = &category
	}
	return doc
}

func (d *transactionDocument) toDomain() *domain.Transaction {
	return &domain.Transaction{
		ID:          d.ID.Hex(),
		Description: d.Description,
		Amount:      d.Amount,
		Type:        domain.TransactionType(d.Type),
		Date:        dateFromBSON(d.Date),
		Category:    d.Category,
	}
}

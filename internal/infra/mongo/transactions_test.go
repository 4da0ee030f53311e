package mongo

import (
	"reflect"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/dvloznov/budget-tracker/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestDocumentRoundTrip(t *testing.T) {
	category := "Rent"
	id := primitive.NewObjectID()

	tests := []struct {
		name string
		tx   *domain.Transaction
	}{
		{
			name: "with category",
			tx: &domain.Transaction{
				ID:          id.Hex(),
				Description: "Flat",
				Amount:      1200,
				Type:        domain.Expense,
				Date:        civil.Date{Year: 2023, Month: 12, Day: 31},
				Category:    &category,
			},
		},
		{
			name: "without category",
			tx: &domain.Transaction{
				ID:          id.Hex(),
				Description: "Refund",
				Amount:      15.75,
				Type:        domain.Income,
				Date:        civil.Date{Year: 2024, Month: 2, Day: 29},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := toDocument(id, tt.tx)

			// Through the BSON codec as well, so the tags are exercised.
			raw, err := bson.Marshal(doc)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			var decoded transactionDocument
			if err := bson.Unmarshal(raw, &decoded); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}

			if got := decoded.toDomain(); !reflect.DeepEqual(got, tt.tx) {
				t.Errorf("round trip = %+v, want %+v", got, tt.tx)
			}
		})
	}
}

func TestToDocument_OmitsNilCategory(t *testing.T) {
	doc := toDocument(primitive.NewObjectID(), &domain.Transaction{Type: domain.Income})
	raw, err := bson.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if _, err := bson.Raw(raw).LookupErr("category"); err == nil {
		t.Error("category should be omitted when nil")
	}
}

func TestDateToBSON_IsUTCMidnight(t *testing.T) {
	got := dateToBSON(civil.Date{Year: 2024, Month: 1, Day: 15}).Time().UTC()
	want := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("dateToBSON = %v, want %v", got, want)
	}
}

func TestDateRangeFilter(t *testing.T) {
	from := civil.Date{Year: 2024, Month: 1, Day: 1}
	to := civil.Date{Year: 2024, Month: 1, Day: 31}

	f := dateRangeFilter(from, to)
	bounds, ok := f["date"].(bson.M)
	if !ok {
		t.Fatalf("unexpected filter shape: %v", f)
	}
	if bounds["$gte"] != dateToBSON(from) || bounds["$lte"] != dateToBSON(to) {
		t.Errorf("bounds = %v", bounds)
	}
}

package mongo

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/dvloznov/budget-tracker/internal/domain"
	"github.com/dvloznov/budget-tracker/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoTransactionRepository stores transactions in a single collection.
// Ids are ObjectID hex strings; anything else is treated as unknown.
type MongoTransactionRepository struct {
	client     *mongo.Client
	collection *mongo.Collection
}

var _ repository.TransactionRepository = (*MongoTransactionRepository)(nil)

// NewMongoTransactionRepository connects to uri and verifies the connection.
func NewMongoTransactionRepository(ctx context.Context, uri, database, collection string) (*MongoTransactionRepository, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("NewMongoTransactionRepository: connecting: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("NewMongoTransactionRepository: ping: %w", err)
	}

	return &MongoTransactionRepository{
		client:     client,
		collection: client.Database(database).Collection(collection),
	}, nil
}

// Close disconnects the underlying client.
func (r *MongoTransactionRepository) Close(ctx context.Context) error {
	if r.client != nil {
		return r.client.Disconnect(ctx)
	}
	return nil
}

// Save inserts tx under a new ObjectID when it has no id, or replaces the
// stored document otherwise.
func (r *MongoTransactionRepository) Save(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
	id := primitive.NewObjectID()
	if tx.ID != "" {
		parsed, err := primitive.ObjectIDFromHex(tx.ID)
		if err != nil {
			return nil, fmt.Errorf("Save: id %q is not an ObjectID: %w", tx.ID, err)
		}
		id = parsed
	}

	doc := toDocument(id, tx)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": id}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return nil, fmt.Errorf("Save: replace %s: %w", id.Hex(), err)
	}
	return doc.toDomain(), nil
}

func (r *MongoTransactionRepository) FindByID(ctx context.Context, id string) (*domain.Transaction, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}

	var doc transactionDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("FindByID: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *MongoTransactionRepository) FindAll(ctx context.Context) ([]*domain.Transaction, error) {
	transactions, err := r.find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("FindAll: %w", err)
	}
	return transactions, nil
}

func (r *MongoTransactionRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}

	n, err := r.collection.CountDocuments(ctx, bson.M{"_id": oid}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("ExistsByID: %w", err)
	}
	return n > 0, nil
}

func (r *MongoTransactionRepository) DeleteByID(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}

	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return fmt.Errorf("DeleteByID: %w", err)
	}
	return nil
}

func (r *MongoTransactionRepository) FindByType(ctx context.Context, t domain.TransactionType) ([]*domain.Transaction, error) {
	transactions, err := r.find(ctx, bson.M{"type": string(t)})
	if err != nil {
		return nil, fmt.Errorf("FindByType: %w", err)
	}
	return transactions, nil
}

// FindByDateRange returns transactions dated within [from, to].
func (r *MongoTransactionRepository) FindByDateRange(ctx context.Context, from, to civil.Date) ([]*domain.Transaction, error) {
	transactions, err := r.find(ctx, dateRangeFilter(from, to))
	if err != nil {
		return nil, fmt.Errorf("FindByDateRange: %w", err)
	}
	return transactions, nil
}

func (r *MongoTransactionRepository) FindByCategory(ctx context.Context, category string) ([]*domain.Transaction, error) {
	transactions, err := r.find(ctx, bson.M{"category": category})
	if err != nil {
		return nil, fmt.Errorf("FindByCategory: %w", err)
	}
	return transactions, nil
}

func dateRangeFilter(from, to civil.Date) bson.M {
	return bson.M{"date": bson.M{
		"$gte": dateToBSON(from),
		"$lte": dateToBSON(to),
	}}
}

// find runs filter sorted by _id, which follows insertion order for
// generated ObjectIDs.
func (r *MongoTransactionRepository) find(ctx context.Context, filter bson.M) ([]*domain.Transaction, error) {
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []transactionDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decoding: %w", err)
	}

	transactions := make([]*domain.Transaction, 0, len(docs))
	for i := range docs {
		transactions = append(transactions, docs[i].toDomain())
	}
	return transactions, nil
}

package mongodb

import (
	// Go Internal Packages
	"context"
	"time"

	// Local Packages
	models "anchor-engine/models"

	// External Packages
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TxRepository struct {
	client     *mongo.Client
	collection string
}

func NewTxRepository(client *mongo.Client) *TxRepository {
	return &TxRepository{client: client, collection: "transactions"}
}

func (r *TxRepository) coll() *mongo.Collection {
	return r.client.Database("anchor").Collection(r.collection)
}

// Create inserts a new transaction record, assigning an id when the caller
// left it empty and defaulting the status to pending_anchor.
func (r *TxRepository) Create(ctx context.Context, tx models.Transaction) (string, error) {
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	if tx.Status == "" {
		tx.Status = models.StatusPendingAnchor
	}
	if _, err := r.coll().InsertOne(ctx, tx.Transform()); err != nil {
		return "", err
	}
	return tx.ID, nil
}

// Get fetches a single transaction record by id.
func (r *TxRepository) Get(ctx context.Context, id string) (*models.Transaction, error) {
	var doc models.MongoTransaction
	if err := r.coll().FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, err
	}
	tx, err := doc.ToDomain()
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

// ClaimForSubmission advances a record from pending_anchor or pending_trust
// to pending_stellar and returns it. The status check and the advance run
// as one server-side update, so at most one concurrent caller wins; the
// losers get (nil, nil).
func (r *TxRepository) ClaimForSubmission(ctx context.Context, id string) (*models.Transaction, error) {
	filter := bson.M{
		"_id":    id,
		"status": bson.M{"$in": []string{models.StatusPendingAnchor, models.StatusPendingTrust}},
	}
	update := bson.M{"$set": bson.M{"status": models.StatusPendingStellar}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc models.MongoTransaction
	err := r.coll().FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	tx, err := doc.ToDomain()
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

// SetStatus overwrites the status field only.
func (r *TxRepository) SetStatus(ctx context.Context, id, status string) error {
	_, err := r.coll().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}})
	return err
}

// MarkCompleted records a settled deposit: terminal status, the ledger
// transaction hash, the settled amount and a zeroed status ETA.
func (r *TxRepository) MarkCompleted(ctx context.Context, id, stellarTransactionID string, amountOut decimal.Decimal) error {
	update := bson.M{"$set": bson.M{
		"status":                 models.StatusCompleted,
		"stellar_transaction_id": stellarTransactionID,
		"amount_out":             amountOut.StringFixed(models.AmountPrecision),
		"completed_at":           time.Now().UTC(),
		"status_eta":             int64(0),
	}}
	_, err := r.coll().UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

// ListByStatus returns every transaction currently in the given status.
func (r *TxRepository) ListByStatus(ctx context.Context, status string) ([]models.Transaction, error) {
	cursor, err := r.coll().Find(ctx, bson.M{"status": status})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []models.MongoTransaction
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	txs := make([]models.Transaction, 0, len(docs))
	for _, doc := range docs {
		tx, err := doc.ToDomain()
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

package db

import (
	"context"
	"errors"
	"time"

	"github.com/remserv/workshop/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoTransactionCollection implements TransactionCollection for MongoDB.
// The ledger is append-only: no update or delete operations exist.
type MongoTransactionCollection struct {
	Collection *mongo.Collection
}

// InsertTransaction appends one ledger entry.
func (c *MongoTransactionCollection) InsertTransaction(ctx context.Context, tx models.WarehouseTransaction) (string, error) {
	if tx.ID.IsZero() {
		tx.ID = primitive.NewObjectID()
	}
	if tx.Date.IsZero() {
		tx.Date = time.Now()
	}
	_, err := c.Collection.InsertOne(ctx, tx)
	if err != nil {
		return "", err
	}
	return tx.ID.Hex(), nil
}

// FindTransactions returns the most recent ledger entries, newest first.
func (c *MongoTransactionCollection) FindTransactions(ctx context.Context, limit int64) ([]models.WarehouseTransaction, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}
	cursor, err := c.Collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	var txs []models.WarehouseTransaction
	if err := cursor.All(ctx, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

// FindTransactionsChronological returns the full ledger oldest first, the
// order the stock projection folds in.
func (c *MongoTransactionCollection) FindTransactionsChronological(ctx context.Context) ([]models.WarehouseTransaction, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cursor, err := c.Collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	var txs []models.WarehouseTransaction
	if err := cursor.All(ctx, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

// FindSaleByOrderID looks up an existing sale entry referencing the order.
// Used for idempotent replay detection before a stock deduction.
func (c *MongoTransactionCollection) FindSaleByOrderID(ctx context.Context, orderID string) (*models.WarehouseTransaction, error) {
	var tx models.WarehouseTransaction
	err := c.Collection.FindOne(ctx, bson.M{"type": models.TxSale, "order_id": orderID}).Decode(&tx)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &tx, nil
}

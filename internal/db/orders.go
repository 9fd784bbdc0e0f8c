package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/remserv/workshop/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when a referenced document does not exist.
var ErrNotFound = errors.New("document not found")

// MongoOrderCollection implements OrderCollection for MongoDB. It holds the
// details and ledger collections as well because order creation and stock
// deduction are multi-collection batches.
type MongoOrderCollection struct {
	Orders       *mongo.Collection
	Details      *mongo.Collection
	Transactions *mongo.Collection
}

// InsertOrderWithDetails persists the order and its initial labor lines in a
// single session transaction.
func (c *MongoOrderCollection) InsertOrderWithDetails(ctx context.Context, order models.ServiceOrder, details []models.OrderDetail) (string, error) {
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	orderID := order.ID.Hex()

	session, err := c.Orders.Database().Client().StartSession()
	if err != nil {
		return "", fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := c.Orders.InsertOne(sc, order); err != nil {
			return nil, err
		}
		if len(details) == 0 {
			return nil, nil
		}
		docs := make([]interface{}, 0, len(details))
		for _, d := range details {
			d.ID = primitive.NewObjectID()
			d.OrderID = orderID
			docs = append(docs, d)
		}
		if _, err := c.Details.InsertMany(sc, docs); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to insert order batch: %w", err)
	}
	return orderID, nil
}

// FindOrderByID finds a service order by its ID.
func (c *MongoOrderCollection) FindOrderByID(ctx context.Context, id string) (*models.ServiceOrder, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid order ID: %w", err)
	}
	var order models.ServiceOrder
	err = c.Orders.FindOne(ctx, bson.M{"_id": objectID}).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindOrdersByStatus returns every order with the given status.
func (c *MongoOrderCollection) FindOrdersByStatus(ctx context.Context, status models.OrderStatus) ([]models.ServiceOrder, error) {
	cursor, err := c.Orders.Find(ctx, bson.M{"status": status})
	if err != nil {
		return nil, err
	}
	var orders []models.ServiceOrder
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// FindOrders returns the most recent orders, newest first.
func (c *MongoOrderCollection) FindOrders(ctx context.Context, limit int64) ([]models.ServiceOrder, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}
	cursor, err := c.Orders.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	var orders []models.ServiceOrder
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateOrderFields sets the given fields on an order document.
func (c *MongoOrderCollection) UpdateOrderFields(ctx context.Context, id string, fields map[string]interface{}) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid order ID: %w", err)
	}
	result, err := c.Orders.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteOrder removes an order document.
func (c *MongoOrderCollection) DeleteOrder(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid order ID: %w", err)
	}
	result, err := c.Orders.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// CompleteWithDeduction appends the stock-deduction ledger entry and applies
// the order field updates in one session transaction, so the ledger lines and
// the is_stock_deducted flag commit together or not at all.
func (c *MongoOrderCollection) CompleteWithDeduction(ctx context.Context, id string, fields map[string]interface{}, tx models.WarehouseTransaction) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid order ID: %w", err)
	}
	if tx.ID.IsZero() {
		tx.ID = primitive.NewObjectID()
	}

	session, err := c.Orders.Database().Client().StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := c.Transactions.InsertOne(sc, tx); err != nil {
			return nil, err
		}
		result, err := c.Orders.UpdateOne(sc, bson.M{"_id": objectID}, bson.M{"$set": fields})
		if err != nil {
			return nil, err
		}
		if result.MatchedCount == 0 {
			return nil, ErrNotFound
		}
		return nil, nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to commit deduction batch: %w", err)
	}
	return nil
}

// MongoDetailCollection implements DetailCollection for MongoDB.
type MongoDetailCollection struct {
	Collection *mongo.Collection
}

// InsertDetails appends labor lines as one batch.
func (c *MongoDetailCollection) InsertDetails(ctx context.Context, details []models.OrderDetail) error {
	if len(details) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(details))
	for _, d := range details {
		if d.ID.IsZero() {
			d.ID = primitive.NewObjectID()
		}
		docs = append(docs, d)
	}
	_, err := c.Collection.InsertMany(ctx, docs)
	return err
}

// FindDetailsByOrder returns every labor line of one order.
func (c *MongoDetailCollection) FindDetailsByOrder(ctx context.Context, orderID string) ([]models.OrderDetail, error) {
	cursor, err := c.Collection.Find(ctx, bson.M{"order_id": orderID})
	if err != nil {
		return nil, err
	}
	var details []models.OrderDetail
	if err := cursor.All(ctx, &details); err != nil {
		return nil, err
	}
	return details, nil
}

// FindAllDetails returns every labor line. Used by batch analytics reads.
func (c *MongoDetailCollection) FindAllDetails(ctx context.Context) ([]models.OrderDetail, error) {
	cursor, err := c.Collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var details []models.OrderDetail
	if err := cursor.All(ctx, &details); err != nil {
		return nil, err
	}
	return details, nil
}

// DeleteDetail removes one labor line.
func (c *MongoDetailCollection) DeleteDetail(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid detail ID: %w", err)
	}
	result, err := c.Collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MongoPartCollection implements PartCollection for MongoDB.
type MongoPartCollection struct {
	Collection *mongo.Collection
}

// InsertParts appends materials lines as one batch.
func (c *MongoPartCollection) InsertParts(ctx context.Context, parts []models.Part) error {
	if len(parts) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(parts))
	for _, p := range parts {
		if p.ID.IsZero() {
			p.ID = primitive.NewObjectID()
		}
		docs = append(docs, p)
	}
	_, err := c.Collection.InsertMany(ctx, docs)
	return err
}

// FindPartsByOrder returns every materials line of one order.
func (c *MongoPartCollection) FindPartsByOrder(ctx context.Context, orderID string) ([]models.Part, error) {
	cursor, err := c.Collection.Find(ctx, bson.M{"order_id": orderID})
	if err != nil {
		return nil, err
	}
	var parts []models.Part
	if err := cursor.All(ctx, &parts); err != nil {
		return nil, err
	}
	return parts, nil
}

// FindAllParts returns every materials line. Used by batch analytics reads.
func (c *MongoPartCollection) FindAllParts(ctx context.Context) ([]models.Part, error) {
	cursor, err := c.Collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var parts []models.Part
	if err := cursor.All(ctx, &parts); err != nil {
		return nil, err
	}
	return parts, nil
}

// UpdatePartStatus sets the procurement status of one materials line.
func (c *MongoPartCollection) UpdatePartStatus(ctx context.Context, id string, status models.PartStatus) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid part ID: %w", err)
	}
	result, err := c.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeletePart removes one materials line.
func (c *MongoPartCollection) DeletePart(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid part ID: %w", err)
	}
	result, err := c.Collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

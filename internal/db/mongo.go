package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConnectMongo connects to MongoDB using the given URI.
func ConnectMongo(uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo.Connect error: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	// Ping to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongo.Ping error: %w", err)
	}
	return client, nil
}

// Collections bundles the Mongo-backed stores of one database.
type Collections struct {
	Orders       *MongoOrderCollection
	Details      *MongoDetailCollection
	Parts        *MongoPartCollection
	Transactions *MongoTransactionCollection
	Services     *MongoServiceCollection
	Cars         *MongoCarCollection
	CarGroups    *MongoCarGroupCollection
	Masters      *MongoMasterCollection
	Clients      *MongoClientCollection
	Users        *MongoUserCollection
}

// NewCollections wires the stores onto their collections.
func NewCollections(database *mongo.Database) *Collections {
	return &Collections{
		Orders: &MongoOrderCollection{
			Orders:       database.Collection("serviceOrders"),
			Details:      database.Collection("orderDetails"),
			Transactions: database.Collection("warehouseTransactions"),
		},
		Details:      &MongoDetailCollection{Collection: database.Collection("orderDetails")},
		Parts:        &MongoPartCollection{Collection: database.Collection("parts")},
		Transactions: &MongoTransactionCollection{Collection: database.Collection("warehouseTransactions")},
		Services:     &MongoServiceCollection{Collection: database.Collection("services")},
		Cars:         &MongoCarCollection{Collection: database.Collection("cars")},
		CarGroups:    &MongoCarGroupCollection{Collection: database.Collection("carGroups")},
		Masters:      &MongoMasterCollection{Collection: database.Collection("masters")},
		Clients:      &MongoClientCollection{Collection: database.Collection("clients")},
		Users:        &MongoUserCollection{Collection: database.Collection("users")},
	}
}

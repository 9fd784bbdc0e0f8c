package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/remserv/workshop/internal/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func TestConnectMongo_BadURI(t *testing.T) {
	client, err := ConnectMongo("mongodb://127.0.0.1:1/?connectTimeoutMS=200&serverSelectionTimeoutMS=200")
	if err == nil {
		t.Error("expected error for unreachable URI, got nil")
	}
	if client != nil {
		t.Error("expected nil client on error")
	}
}

// Integration test (requires running MongoDB)
func TestCatalogRoundTrip_Integration(t *testing.T) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set, skipping integration test")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Skipf("failed to connect: %v, skipping integration test", err)
		return
	}
	if err := client.Ping(ctx, nil); err != nil {
		t.Skipf("mongo unreachable: %v, skipping integration test", err)
		return
	}
	defer client.Disconnect(context.Background())

	dbName := os.Getenv("MONGO_DATABASE")
	if dbName == "" {
		dbName = "workshop_test"
	}
	collections := NewCollections(client.Database(dbName))

	clientRec := models.Client{FirstName: "Test", LastName: "Client", Phone: "+10000000"}
	id, err := collections.Clients.InsertClient(ctx, clientRec)
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	defer collections.Clients.DeleteClient(context.Background(), id)

	found, err := collections.Clients.FindClientByID(ctx, id)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if found.FirstName != clientRec.FirstName {
		t.Errorf("expected %q, got %q", clientRec.FirstName, found.FirstName)
	}

	if _, err := collections.Clients.FindClientByID(ctx, "000000000000000000000000"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/remserv/workshop/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoServiceCollection implements ServiceCollection for MongoDB.
type MongoServiceCollection struct {
	Collection *mongo.Collection
}

// InsertService inserts a price list entry.
func (c *MongoServiceCollection) InsertService(ctx context.Context, service models.Service) (string, error) {
	if service.ID.IsZero() {
		service.ID = primitive.NewObjectID()
	}
	if _, err := c.Collection.InsertOne(ctx, service); err != nil {
		return "", err
	}
	return service.ID.Hex(), nil
}

// FindServices returns the full price list.
func (c *MongoServiceCollection) FindServices(ctx context.Context) ([]models.Service, error) {
	cursor, err := c.Collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var services []models.Service
	if err := cursor.All(ctx, &services); err != nil {
		return nil, err
	}
	return services, nil
}

// FindServiceByID finds a service by its ID.
func (c *MongoServiceCollection) FindServiceByID(ctx context.Context, id string) (*models.Service, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid service ID: %w", err)
	}
	var service models.Service
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&service)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &service, nil
}

// UpdateService replaces a price list entry.
func (c *MongoServiceCollection) UpdateService(ctx context.Context, id string, service models.Service) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid service ID: %w", err)
	}
	service.ID = objectID
	result, err := c.Collection.ReplaceOne(ctx, bson.M{"_id": objectID}, service)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteService removes a price list entry.
func (c *MongoServiceCollection) DeleteService(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid service ID: %w", err)
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

// MongoCarCollection implements CarCollection for MongoDB.
type MongoCarCollection struct {
	Collection *mongo.Collection
}

// InsertCar inserts a car record.
func (c *MongoCarCollection) InsertCar(ctx context.Context, car models.Car) (string, error) {
	if car.ID.IsZero() {
		car.ID = primitive.NewObjectID()
	}
	if _, err := c.Collection.InsertOne(ctx, car); err != nil {
		return "", err
	}
	return car.ID.Hex(), nil
}

// FindCars returns all car records.
func (c *MongoCarCollection) FindCars(ctx context.Context) ([]models.Car, error) {
	cursor, err := c.Collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var cars []models.Car
	if err := cursor.All(ctx, &cars); err != nil {
		return nil, err
	}
	return cars, nil
}

// FindCarByID finds a car by its ID.
func (c *MongoCarCollection) FindCarByID(ctx context.Context, id string) (*models.Car, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid car ID: %w", err)
	}
	var car models.Car
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&car)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &car, nil
}

// UpdateCar replaces a car record.
func (c *MongoCarCollection) UpdateCar(ctx context.Context, id string, car models.Car) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid car ID: %w", err)
	}
	car.ID = objectID
	result, err := c.Collection.ReplaceOne(ctx, bson.M{"_id": objectID}, car)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCar removes a car record.
func (c *MongoCarCollection) DeleteCar(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid car ID: %w", err)
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

// MongoCarGroupCollection implements CarGroupCollection for MongoDB.
type MongoCarGroupCollection struct {
	Collection *mongo.Collection
}

// InsertCarGroup inserts a car group.
func (c *MongoCarGroupCollection) InsertCarGroup(ctx context.Context, group models.CarGroup) (string, error) {
	if group.ID.IsZero() {
		group.ID = primitive.NewObjectID()
	}
	if _, err := c.Collection.InsertOne(ctx, group); err != nil {
		return "", err
	}
	return group.ID.Hex(), nil
}

// FindCarGroups returns all car groups in insertion order. Order matters:
// price resolution takes the first matching group.
func (c *MongoCarGroupCollection) FindCarGroups(ctx context.Context) ([]models.CarGroup, error) {
	cursor, err := c.Collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var groups []models.CarGroup
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// UpdateCarGroup replaces a car group.
func (c *MongoCarGroupCollection) UpdateCarGroup(ctx context.Context, id string, group models.CarGroup) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid car group ID: %w", err)
	}
	group.ID = objectID
	result, err := c.Collection.ReplaceOne(ctx, bson.M{"_id": objectID}, group)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCarGroup removes a car group.
func (c *MongoCarGroupCollection) DeleteCarGroup(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid car group ID: %w", err)
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

// MongoMasterCollection implements MasterCollection for MongoDB.
type MongoMasterCollection struct {
	Collection *mongo.Collection
}

// InsertMaster inserts a master record.
func (c *MongoMasterCollection) InsertMaster(ctx context.Context, master models.Master) (string, error) {
	if master.ID.IsZero() {
		master.ID = primitive.NewObjectID()
	}
	if _, err := c.Collection.InsertOne(ctx, master); err != nil {
		return "", err
	}
	return master.ID.Hex(), nil
}

// FindMasters returns all masters.
func (c *MongoMasterCollection) FindMasters(ctx context.Context) ([]models.Master, error) {
	cursor, err := c.Collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var masters []models.Master
	if err := cursor.All(ctx, &masters); err != nil {
		return nil, err
	}
	return masters, nil
}

// FindMasterByID finds a master by ID.
func (c *MongoMasterCollection) FindMasterByID(ctx context.Context, id string) (*models.Master, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid master ID: %w", err)
	}
	var master models.Master
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&master)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &master, nil
}

// UpdateMaster replaces a master record.
func (c *MongoMasterCollection) UpdateMaster(ctx context.Context, id string, master models.Master) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid master ID: %w", err)
	}
	master.ID = objectID
	result, err := c.Collection.ReplaceOne(ctx, bson.M{"_id": objectID}, master)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteMaster removes a master record.
func (c *MongoMasterCollection) DeleteMaster(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid master ID: %w", err)
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

// MongoClientCollection implements ClientCollection for MongoDB.
type MongoClientCollection struct {
	Collection *mongo.Collection
}

// InsertClient inserts a client record.
func (c *MongoClientCollection) InsertClient(ctx context.Context, client models.Client) (string, error) {
	if client.ID.IsZero() {
		client.ID = primitive.NewObjectID()
	}
	if _, err := c.Collection.InsertOne(ctx, client); err != nil {
		return "", err
	}
	return client.ID.Hex(), nil
}

// FindClients returns all clients.
func (c *MongoClientCollection) FindClients(ctx context.Context) ([]models.Client, error) {
	cursor, err := c.Collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var clients []models.Client
	if err := cursor.All(ctx, &clients); err != nil {
		return nil, err
	}
	return clients, nil
}

// FindClientByID finds a client by ID.
func (c *MongoClientCollection) FindClientByID(ctx context.Context, id string) (*models.Client, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid client ID: %w", err)
	}
	var client models.Client
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&client)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &client, nil
}

// UpdateClient replaces a client record.
func (c *MongoClientCollection) UpdateClient(ctx context.Context, id string, client models.Client) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid client ID: %w", err)
	}
	client.ID = objectID
	result, err := c.Collection.ReplaceOne(ctx, bson.M{"_id": objectID}, client)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteClient removes a client record.
func (c *MongoClientCollection) DeleteClient(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid client ID: %w", err)
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

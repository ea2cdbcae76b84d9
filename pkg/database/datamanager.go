package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotConnected is returned by DataManager calls made while the database is offline
var ErrNotConnected = errors.New("database not connected")

// DataManager provides typed access to a MongoDB collection
type DataManager[T any] struct {
	collection *mongo.Collection
	dbInstance *Database
	timeout    time.Duration
}

// NewDataManager creates a new DataManager for a collection
func NewDataManager[T any](collectionName string, db *Database) *DataManager[T] {
	return &DataManager[T]{
		collection: db.GetCollection(collectionName),
		dbInstance: db,
		timeout:    5 * time.Second,
	}
}

func (dm *DataManager[T]) ready() error {
	if dm.collection == nil || !dm.dbInstance.Connected() {
		return ErrNotConnected
	}
	return nil
}

// Get retrieves a single document. A missing document yields (nil, nil).
func (dm *DataManager[T]) Get(ctx context.Context, query bson.M) (*T, error) {
	if err := dm.ready(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, dm.timeout)
	defer cancel()

	var result T
	err := dm.collection.FindOne(ctx, query).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find in %s: %w", dm.collection.Name(), err)
	}
	return &result, nil
}

// Set upserts the fields of data into the document matching query
func (dm *DataManager[T]) Set(ctx context.Context, query bson.M, data interface{}) error {
	if err := dm.ready(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, dm.timeout)
	defer cancel()

	opts := options.Update().SetUpsert(true)
	if _, err := dm.collection.UpdateOne(ctx, query, bson.M{"$set": data}, opts); err != nil {
		return fmt.Errorf("upsert in %s: %w", dm.collection.Name(), err)
	}
	return nil
}

// Delete removes the document matching query
func (dm *DataManager[T]) Delete(ctx context.Context, query bson.M) error {
	if err := dm.ready(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, dm.timeout)
	defer cancel()

	if _, err := dm.collection.DeleteOne(ctx, query); err != nil {
		return fmt.Errorf("delete in %s: %w", dm.collection.Name(), err)
	}
	return nil
}

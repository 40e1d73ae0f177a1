package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"appointly/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBookingStore implements BookingStore using MongoDB.
type MongoBookingStore struct {
	coll *mongo.Collection
}

// NewMongoBookingStore binds to the bookings collection and ensures its unique indexes.
func NewMongoBookingStore(client *mongo.Client, dbName string) (*MongoBookingStore, error) {
	coll := client.Database(dbName).Collection("bookings")
	store := &MongoBookingStore{coll: coll}

	if err := store.ensureIndexes(); err != nil {
		return nil, err
	}
	return store, nil
}

func newContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, timeout)
}

// List returns bookings in insertion order (_id is monotonic per process).
func (s *MongoBookingStore) List(ctx context.Context) ([]models.Booking, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}).SetProjection(bson.M{"_id": 0})
	cursor, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := []models.Booking{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

func (s *MongoBookingStore) Append(ctx context.Context, b models.Booking) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	if _, err := s.coll.InsertOne(ctx, b); err != nil {
		if isMongoDuplicateStart(err) {
			return ErrDuplicateStart
		}
		return fmt.Errorf("failed to insert booking %s: %w", b.ID, err)
	}
	return nil
}

func (s *MongoBookingStore) Remove(ctx context.Context, id string) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	result, err := s.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete booking with id %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func isMongoDuplicateStart(err error) bool {
	if !mongo.IsDuplicateKeyError(err) {
		return false
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if containsIndex(e.Message, startIndexName) {
				return true
			}
		}
		return false
	}
	return true
}

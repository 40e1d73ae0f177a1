package bookingRepo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const startIndexName = "uniq_start"

// ensureIndexes makes start and id unique so concurrent processes cannot double-book.
func (s *MongoBookingStore) ensureIndexes() error {
	ctx, cancel := newContext(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true).SetName("uniq_id")},
		{Keys: bson.D{{Key: "start", Value: 1}}, Options: options.Index().SetUnique(true).SetName(startIndexName)},
	}

	if _, err := s.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func containsIndex(message, name string) bool {
	return strings.Contains(message, name)
}

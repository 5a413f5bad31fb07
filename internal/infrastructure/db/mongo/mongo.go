// Package mongo holds the MongoDB repositories backing the catalog, user,
// review and comment stores, plus the connection bootstrap.
package mongo

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// defaultTimeout bounds every single repository operation.
const defaultTimeout = 5 * time.Second

const connectTimeout = 10 * time.Second

// Config carries the connection settings.
type Config struct {
	URI      string
	Database string
}

// Connect dials MongoDB, verifies the connection against the primary and
// returns the client together with the application database handle.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	dialCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(dialCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(dialCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(dialCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, client.Database(cfg.Database), nil
}

// containsPattern builds a case-insensitive substring match for user input.
// The input is quoted so regex metacharacters match literally and malformed
// expressions cannot break the query.
func containsPattern(s string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(s), "$options": "i"}
}

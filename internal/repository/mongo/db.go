// Package mongo stores reports and users in MongoDB collections.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"lostfound/internal/config"
)

const (
	reportsCollection = "reports"
	usersCollection   = "users"
)

// NewDatabase connects, pings and ensures the indexes the repositories rely
// on. Index failures are logged and do not prevent startup.
func NewDatabase(ctx context.Context, cfg *config.MongoConfig, logger *zap.Logger) (*mongo.Database, error) {
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	dctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(dctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(dctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	if err := createIndexes(dctx, db); err != nil {
		logger.Warn("mongo index creation warnings", zap.Error(err))
	}
	logger.Info("connected to mongo", zap.String("database", cfg.Database))
	return db, nil
}

func createIndexes(ctx context.Context, db *mongo.Database) error {
	var errs []string

	reports := db.Collection(reportsCollection)
	if _, err := reports.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	}); err != nil {
		errs = append(errs, "reports.created_at: "+err.Error())
	}
	if _, err := reports.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "category", Value: 1}},
	}); err != nil {
		errs = append(errs, "reports.category: "+err.Error())
	}

	users := db.Collection(usersCollection)
	if _, err := users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email_key", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		errs = append(errs, "users.email_key: "+err.Error())
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

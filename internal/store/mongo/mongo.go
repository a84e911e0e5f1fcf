// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package mongo implements store.Store on MongoDB. Listings run as a
// single aggregation pipeline so that filtering, masking, sorting and
// slicing happen inside the database.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"nextblog/internal/models"
	"nextblog/internal/store"
)

// Collection names.
const (
	postsCollection      = "posts"
	categoriesCollection = "categories"
	commentsCollection   = "comments"
)

// Store is the MongoDB store.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

var _ store.Store = (*Store)(nil)

// Connect opens a client for uri, verifies it with a ping and makes sure
// the indexes the store relies on exist.
func Connect(ctx context.Context, uri, dbName string) (*Store, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	s := &Store{client: client, db: client.Database(dbName)}
	if err := s.EnsureIndexes(ctx); err != nil {
		client.Disconnect(context.Background())
		return nil, err
	}

	slog.Info("mongo connected", "database", dbName)
	return s, nil
}

// EnsureIndexes creates the store's indexes. The unique slug index is what
// turns a concurrent create of the same slug into ErrSlugNotAvailable.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		postsCollection: {
			{
				Keys:    bson.D{{Key: "slug", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("unique_slug"),
			},
			{Keys: bson.D{{Key: "created", Value: -1}, {Key: "_id", Value: -1}}},
			{Keys: bson.D{{Key: "categoryId", Value: 1}}},
		},
		commentsCollection: {
			{Keys: bson.D{{Key: "refType", Value: 1}, {Key: "ref", Value: 1}}},
		},
	}
	for name, idx := range indexes {
		if _, err := s.db.Collection(name).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("mongo create indexes on %s: %w", name, err)
		}
	}
	return nil
}

// Ping verifies that the server is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("ping mongo: %w: %w", models.ErrStoreUnavailable, err)
	}
	return nil
}

// Close disconnects the client.
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *Store) posts() *mongo.Collection      { return s.db.Collection(postsCollection) }
func (s *Store) categories() *mongo.Collection { return s.db.Collection(categoriesCollection) }
func (s *Store) comments() *mongo.Collection   { return s.db.Collection(commentsCollection) }

// wrap annotates err with op. Network failures and timeouts are marked
// ErrStoreUnavailable; duplicate keys become ErrSlugNotAvailable.
func wrap(op string, err error) error {
	switch {
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%s: %w", op, models.ErrSlugNotAvailable)
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("%s: %w", op, err)
	case mongo.IsNetworkError(err), mongo.IsTimeout(err), errors.Is(err, mongo.ErrClientDisconnected):
		return fmt.Errorf("%s: %w: %w", op, models.ErrStoreUnavailable, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

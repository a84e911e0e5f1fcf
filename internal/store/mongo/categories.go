// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"nextblog/internal/models"
)

// FindCategoryByID returns the category with id, or nil.
func (s *Store) FindCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var d categoryDoc
	err := s.categories().FindOne(ctx, bson.M{"_id": uuidToStr(id)}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("find category", err)
	}
	c := d.toModel()
	return &c, nil
}

// FindCategoriesByIDs returns the categories among ids in (id, slug, name)
// order.
func (s *Store) FindCategoriesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	in := make(bson.A, 0, len(ids))
	for _, id := range ids {
		in = append(in, uuidToStr(id))
	}

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}, {Key: "slug", Value: 1}, {Key: "name", Value: 1}})
	cur, err := s.categories().Find(ctx, bson.M{"_id": bson.M{"$in": in}}, opts)
	if err != nil {
		return nil, wrap("find categories", err)
	}
	defer cur.Close(ctx)

	var out []models.Category
	for cur.Next(ctx) {
		var d categoryDoc
		if err := cur.Decode(&d); err != nil {
			return nil, fmt.Errorf("decode category: %w", err)
		}
		out = append(out, d.toModel())
	}
	if err := cur.Err(); err != nil {
		return nil, wrap("find categories", err)
	}
	return out, nil
}

// InsertCategory stores a new category.
func (s *Store) InsertCategory(ctx context.Context, c *models.Category) error {
	d := categoryDoc{ID: uuidToStr(c.ID), Name: c.Name, Slug: c.Slug, Created: c.Created}
	if _, err := s.categories().InsertOne(ctx, d); err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// CountCategories returns the number of categories.
func (s *Store) CountCategories(ctx context.Context) (int, error) {
	n, err := s.categories().CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, wrap("count categories", err)
	}
	return int(n), nil
}

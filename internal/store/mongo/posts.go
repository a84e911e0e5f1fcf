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
	"nextblog/internal/store"
)

// ListPosts runs the listing pipeline and counts the filtered set.
func (s *Store) ListPosts(ctx context.Context, q store.ListQuery) (*store.ListResult, error) {
	total, err := s.CountPosts(ctx, q.Filter)
	if err != nil {
		return nil, err
	}

	pipeline, err := listPipeline(q)
	if err != nil {
		return nil, err
	}
	cur, err := s.posts().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, wrap("list posts", err)
	}
	defer cur.Close(ctx)

	res := &store.ListResult{Total: total}
	for cur.Next(ctx) {
		var d postDoc
		if err := cur.Decode(&d); err != nil {
			return nil, fmt.Errorf("decode post: %w", err)
		}
		res.Items = append(res.Items, d.toModel())
	}
	if err := cur.Err(); err != nil {
		return nil, wrap("list posts", err)
	}
	return res, nil
}

// CountPosts returns the number of posts matching f.
func (s *Store) CountPosts(ctx context.Context, f store.Filter) (int, error) {
	n, err := s.posts().CountDocuments(ctx, filterDoc(f))
	if err != nil {
		return 0, wrap("count posts", err)
	}
	return int(n), nil
}

// FindPostByID returns the post with id, or nil.
func (s *Store) FindPostByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	return s.findPost(ctx, "find post by id", bson.M{"_id": uuidToStr(id)})
}

// FindPostBySlug returns the post with slug, or nil.
func (s *Store) FindPostBySlug(ctx context.Context, slug string) (*models.Post, error) {
	return s.findPost(ctx, "find post by slug", bson.M{"slug": slug})
}

func (s *Store) findPost(ctx context.Context, op string, filter bson.M) (*models.Post, error) {
	var d postDoc
	err := s.posts().FindOne(ctx, filter).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap(op, err)
	}
	p := d.toModel()
	return &p, nil
}

// InsertPost stores a new post. Version starts at 1.
func (s *Store) InsertPost(ctx context.Context, p *models.Post) error {
	if p.Version == 0 {
		p.Version = 1
	}
	if _, err := s.posts().InsertOne(ctx, toPostDoc(p)); err != nil {
		return wrap("insert post", err)
	}
	return nil
}

// UpdatePost replaces the mutable fields of p when the stored version is
// still expectedVersion. Images are left alone; SetPostImages owns them.
func (s *Store) UpdatePost(ctx context.Context, p *models.Post, expectedVersion int64) error {
	d := toPostDoc(p)
	update := bson.M{
		"$set": bson.M{
			"title":      d.Title,
			"slug":       d.Slug,
			"text":       d.Text,
			"summary":    d.Summary,
			"categoryId": d.CategoryID,
			"tags":       d.Tags,
			"hide":       d.Hide,
			"password":   d.Password,
			"rss":        d.RSS,
			"pin":        d.Pin,
			"pinOrder":   d.PinOrder,
			"modified":   d.Modified,
		},
		"$inc": bson.M{"version": 1},
	}

	res, err := s.posts().UpdateOne(ctx, bson.M{"_id": d.ID, "version": expectedVersion}, update)
	if err != nil {
		return wrap("update post", err)
	}
	if res.MatchedCount == 0 {
		n, err := s.posts().CountDocuments(ctx, bson.M{"_id": d.ID}, options.Count().SetLimit(1))
		if err != nil {
			return wrap("update post", err)
		}
		if n == 0 {
			return fmt.Errorf("update post %s: %w", p.ID, models.ErrNotFound)
		}
		return fmt.Errorf("update post %s: %w", p.ID, models.ErrConflict)
	}
	p.Version = expectedVersion + 1
	return nil
}

// DeletePost removes the post. Comments are removed by the caller.
func (s *Store) DeletePost(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := s.posts().DeleteOne(ctx, bson.M{"_id": uuidToStr(id)})
	if err != nil {
		return false, wrap("delete post", err)
	}
	return res.DeletedCount > 0, nil
}

// SetPostImages replaces the image metadata without bumping the version.
func (s *Store) SetPostImages(ctx context.Context, id uuid.UUID, images []models.ImageMeta) error {
	_, err := s.posts().UpdateOne(ctx,
		bson.M{"_id": uuidToStr(id)},
		bson.M{"$set": bson.M{"images": toImageDocs(images)}},
	)
	if err != nil {
		return wrap("set post images", err)
	}
	return nil
}

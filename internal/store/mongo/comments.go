// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package mongo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"nextblog/internal/models"
)

// InsertComment stores a comment.
func (s *Store) InsertComment(ctx context.Context, c *models.Comment) error {
	d := commentDoc{
		ID:      uuidToStr(c.ID),
		Ref:     uuidToStr(c.Ref),
		RefType: string(c.RefType),
		Author:  c.Author,
		Text:    c.Text,
		Created: c.Created,
	}
	if _, err := s.comments().InsertOne(ctx, d); err != nil {
		return wrap("insert comment", err)
	}
	return nil
}

// DeleteCommentsByRef removes every comment attached to ref.
func (s *Store) DeleteCommentsByRef(ctx context.Context, refType models.CommentRefType, ref uuid.UUID) (int64, error) {
	res, err := s.comments().DeleteMany(ctx, bson.M{"refType": string(refType), "ref": uuidToStr(ref)})
	if err != nil {
		return 0, wrap("delete comments", err)
	}
	return res.DeletedCount, nil
}

// DeleteOrphanComments removes post comments whose post is gone.
func (s *Store) DeleteOrphanComments(ctx context.Context) (int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"refType": string(models.CommentRefPost)}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         postsCollection,
			"localField":   "ref",
			"foreignField": "_id",
			"as":           "post",
		}}},
		{{Key: "$match", Value: bson.M{"post": bson.M{"$size": 0}}}},
		{{Key: "$project", Value: bson.M{"_id": 1}}},
	}
	cur, err := s.comments().Aggregate(ctx, pipeline)
	if err != nil {
		return 0, wrap("find orphan comments", err)
	}
	var orphans []struct {
		ID string `bson:"_id"`
	}
	if err := cur.All(ctx, &orphans); err != nil {
		return 0, wrap("find orphan comments", err)
	}
	if len(orphans) == 0 {
		return 0, nil
	}

	ids := make(bson.A, 0, len(orphans))
	for _, o := range orphans {
		ids = append(ids, o.ID)
	}
	res, err := s.comments().DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, fmt.Errorf("delete orphan comments: %w", err)
	}
	return res.DeletedCount, nil
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store defines the document-store contract used by the listing
// engine and the mutation service, together with the backend-neutral
// query model every implementation executes. Implementations live in the
// memory, postgres and mongo subpackages.
package store

import (
	"context"

	"github.com/google/uuid"

	"nextblog/internal/models"
)

// PostStore persists posts.
//
// Lookups return (nil, nil) when nothing matches. InsertPost and UpdatePost
// return models.ErrSlugNotAvailable when the slug unique constraint fires;
// UpdatePost returns models.ErrConflict when expectedVersion no longer
// matches the stored document and models.ErrNotFound when it is gone.
type PostStore interface {
	ListPosts(ctx context.Context, q ListQuery) (*ListResult, error)
	CountPosts(ctx context.Context, f Filter) (int, error)
	FindPostByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
	FindPostBySlug(ctx context.Context, slug string) (*models.Post, error)
	InsertPost(ctx context.Context, p *models.Post) error
	UpdatePost(ctx context.Context, p *models.Post, expectedVersion int64) error
	DeletePost(ctx context.Context, id uuid.UUID) (bool, error)
	SetPostImages(ctx context.Context, id uuid.UUID, images []models.ImageMeta) error
}

// CategoryStore reads and writes categories.
type CategoryStore interface {
	FindCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	FindCategoriesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Category, error)
	InsertCategory(ctx context.Context, c *models.Category) error
	CountCategories(ctx context.Context) (int, error)
}

// CommentStore holds the comments that must disappear with their post.
type CommentStore interface {
	InsertComment(ctx context.Context, c *models.Comment) error
	DeleteCommentsByRef(ctx context.Context, refType models.CommentRefType, ref uuid.UUID) (int64, error)
	// DeleteOrphanComments removes post comments whose post no longer exists.
	DeleteOrphanComments(ctx context.Context) (int64, error)
}

// Store is the full backing store of a blog deployment.
type Store interface {
	PostStore
	CategoryStore
	CommentStore
	Ping(ctx context.Context) error
	Close() error
}

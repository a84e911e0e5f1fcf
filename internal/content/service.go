// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package content implements the write path for posts: create, update
// and delete with slug uniqueness, category validation, modification
// bookkeeping and detached side effects. It also serves single-post reads
// with password unlock.
package content

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"nextblog/internal/listing"
	"nextblog/internal/models"
	"nextblog/internal/slug"
	"nextblog/internal/store"
)

// TaskRunner runs best-effort work detached from the request that
// scheduled it. worker.Pool implements it.
type TaskRunner interface {
	Submit(name string, fn func(ctx context.Context) error) bool
}

// ImageIndexer records metadata about the images a post references.
type ImageIndexer interface {
	IndexPost(ctx context.Context, id uuid.UUID) error
}

// Invalidator drops cached public listings after a write.
type Invalidator interface {
	InvalidateAll(ctx context.Context)
}

// Options tune a Service.
type Options struct {
	// PasswordCost is the bcrypt cost used for post passwords.
	PasswordCost int
}

// Service is the post mutation service.
type Service struct {
	store       store.Store
	tasks       TaskRunner
	indexer     ImageIndexer
	invalidator Invalidator
	cost        int
	now         func() time.Time
}

// NewService creates a Service writing to s and scheduling side effects
// on tasks.
func NewService(s store.Store, tasks TaskRunner, opts Options) *Service {
	cost := opts.PasswordCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Service{
		store: s,
		tasks: tasks,
		cost:  cost,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// WithIndexer enables media indexing after create and update.
func (s *Service) WithIndexer(ix ImageIndexer) *Service {
	s.indexer = ix
	return s
}

// WithInvalidator enables listing cache invalidation after every write.
func (s *Service) WithInvalidator(inv Invalidator) *Service {
	s.invalidator = inv
	return s
}

// Create validates and stores a new post.
func (s *Service) Create(ctx context.Context, in models.PostInput) (*models.Post, error) {
	title := plainText(in.Title)
	if title == "" {
		return nil, fmt.Errorf("create post: title is required: %w", models.ErrValidation)
	}
	if err := s.requireCategory(ctx, in.CategoryID); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	source := in.Slug
	if strings.TrimSpace(source) == "" {
		source = title
	}
	sl := slug.Generate(source)
	if sl == "" {
		return nil, fmt.Errorf("create post: cannot derive slug from %q: %w", source, models.ErrValidation)
	}
	if err := s.requireSlugAvailable(ctx, sl, uuid.Nil); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	p := &models.Post{
		ID:         uuid.New(),
		Title:      title,
		Slug:       sl,
		Text:       in.Text,
		Summary:    in.Summary,
		CategoryID: in.CategoryID,
		Tags:       plainTags(in.Tags),
		Hide:       in.Hide,
		RSS:        true,
		PinOrder:   in.PinOrder,
		Created:    s.now(),
	}
	if in.RSS != nil {
		p.RSS = *in.RSS
	}
	if in.Pin != nil {
		if pin := plainText(*in.Pin); pin != "" {
			p.Pin = &pin
		}
	}
	if in.Password != nil && *in.Password != "" {
		hash, err := s.hashPassword(*in.Password)
		if err != nil {
			return nil, fmt.Errorf("create post: %w", err)
		}
		p.Password = &hash
	}

	// Validation passed; a disconnecting caller must not abort the write.
	wctx := context.WithoutCancel(ctx)
	if err := s.store.InsertPost(wctx, p); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	slog.Info("post created", "id", p.ID, "slug", p.Slug)
	s.afterWrite(wctx, p.ID)
	return p, nil
}

// UpdateByID applies patch to the post with the given id. Keys that are
// not part of models.PostPatch cannot be changed. Modified is stamped
// only when the title, text or slug actually change.
func (s *Service) UpdateByID(ctx context.Context, id uuid.UUID, patch models.PostPatch) (*models.Post, error) {
	cur, err := s.store.FindPostByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update post %s: %w", id, err)
	}
	if cur == nil {
		return nil, fmt.Errorf("update post %s: %w", id, models.ErrNotFound)
	}
	if patch.Version != nil && *patch.Version != cur.Version {
		return nil, fmt.Errorf("update post %s: have version %d, stored %d: %w",
			id, *patch.Version, cur.Version, models.ErrConflict)
	}

	next := *cur
	if patch.Title != nil {
		title := plainText(*patch.Title)
		if title == "" {
			return nil, fmt.Errorf("update post %s: title is required: %w", id, models.ErrValidation)
		}
		next.Title = title
	}
	if patch.Text != nil {
		next.Text = *patch.Text
	}
	if patch.Slug != nil {
		sl := slug.Generate(*patch.Slug)
		if sl == "" {
			return nil, fmt.Errorf("update post %s: invalid slug %q: %w", id, *patch.Slug, models.ErrValidation)
		}
		if sl != cur.Slug {
			if err := s.requireSlugAvailable(ctx, sl, id); err != nil {
				return nil, fmt.Errorf("update post %s: %w", id, err)
			}
		}
		next.Slug = sl
	}
	if patch.CategoryID != nil && *patch.CategoryID != cur.CategoryID {
		if err := s.requireCategory(ctx, *patch.CategoryID); err != nil {
			return nil, fmt.Errorf("update post %s: %w", id, err)
		}
		next.CategoryID = *patch.CategoryID
	}
	if patch.Summary != nil {
		next.Summary = patch.Summary
	}
	if patch.Tags != nil {
		next.Tags = plainTags(*patch.Tags)
	}
	if patch.Hide != nil {
		next.Hide = *patch.Hide
	}
	if patch.RSS != nil {
		next.RSS = *patch.RSS
	}
	if patch.Pin != nil {
		if pin := plainText(*patch.Pin); pin == "" {
			next.Pin = nil
		} else {
			next.Pin = &pin
		}
	}
	if patch.PinOrder != nil {
		next.PinOrder = *patch.PinOrder
	}
	if patch.Password != nil {
		if *patch.Password == "" {
			next.Password = nil
		} else {
			hash, err := s.hashPassword(*patch.Password)
			if err != nil {
				return nil, fmt.Errorf("update post %s: %w", id, err)
			}
			next.Password = &hash
		}
	}

	if next.Title != cur.Title || next.Text != cur.Text || next.Slug != cur.Slug {
		now := s.now()
		next.Modified = &now
	}

	wctx := context.WithoutCancel(ctx)
	if err := s.store.UpdatePost(wctx, &next, cur.Version); err != nil {
		return nil, fmt.Errorf("update post %s: %w", id, err)
	}

	slog.Info("post updated", "id", id, "version", next.Version)
	s.afterWrite(wctx, id)
	return &next, nil
}

// DeleteByID removes a post and then its comments. When the comments
// cannot be removed the post stays deleted and the error wraps
// models.ErrPartialDelete; PurgeOrphans cleans up later.
func (s *Service) DeleteByID(ctx context.Context, id uuid.UUID) error {
	wctx := context.WithoutCancel(ctx)
	ok, err := s.store.DeletePost(wctx, id)
	if err != nil {
		return fmt.Errorf("delete post %s: %w", id, err)
	}
	if !ok {
		return fmt.Errorf("delete post %s: %w", id, models.ErrNotFound)
	}
	s.invalidate(wctx)

	n, err := s.store.DeleteCommentsByRef(wctx, models.CommentRefPost, id)
	if err != nil {
		slog.Error("comment cleanup failed after post delete", "post_id", id, "error", err)
		return fmt.Errorf("delete post %s comments: %w: %w", id, models.ErrPartialDelete, err)
	}

	slog.Info("post deleted", "id", id, "comments", n)
	return nil
}

// PurgeOrphans removes comments whose post no longer exists.
func (s *Service) PurgeOrphans(ctx context.Context) (int64, error) {
	n, err := s.store.DeleteOrphanComments(ctx)
	if err != nil {
		return 0, fmt.Errorf("purge orphan comments: %w", err)
	}
	if n > 0 {
		slog.Info("orphan comments purged", "count", n)
	}
	return n, nil
}

// GetBySlug returns a single post as seen by the caller. Hidden posts do
// not exist for public callers. A protected post is masked unless the
// caller is the master or supplies the right password; a wrong non-empty
// password fails with models.ErrWrongPassword.
func (s *Service) GetBySlug(ctx context.Context, sl, password string, privileged bool) (*models.Post, error) {
	p, err := s.store.FindPostBySlug(ctx, sl)
	if err != nil {
		return nil, fmt.Errorf("get post %q: %w", sl, err)
	}
	if p == nil || !listing.IsVisible(p, privileged) {
		return nil, fmt.Errorf("get post %q: %w", sl, models.ErrNotFound)
	}
	if privileged {
		return s.withCategory(ctx, *p), nil
	}

	unlocked := false
	if p.IsProtected() && password != "" {
		if bcrypt.CompareHashAndPassword([]byte(*p.Password), []byte(password)) != nil {
			return nil, fmt.Errorf("get post %q: %w", sl, models.ErrWrongPassword)
		}
		unlocked = true
	}

	out := *p
	if !unlocked {
		out = listing.MaskIfNeeded(out, false)
	}
	out.Password = nil
	out.Hide = false
	out.RSS = false
	return s.withCategory(ctx, out), nil
}

func (s *Service) withCategory(ctx context.Context, p models.Post) *models.Post {
	items := []models.Post{p}
	listing.JoinCategories(ctx, s.store, items)
	return &items[0]
}

func (s *Service) requireCategory(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return fmt.Errorf("category is required: %w", models.ErrValidation)
	}
	c, err := s.store.FindCategoryByID(ctx, id)
	if err != nil {
		return fmt.Errorf("find category %s: %w", id, err)
	}
	if c == nil {
		return fmt.Errorf("category %s: %w", id, models.ErrCategoryNotFound)
	}
	return nil
}

// requireSlugAvailable checks that no post other than self uses sl. The
// store's unique constraint still guards the window between this check
// and the write.
func (s *Service) requireSlugAvailable(ctx context.Context, sl string, self uuid.UUID) error {
	n, err := s.store.CountPosts(ctx, store.Filter{Slug: sl, ExcludeID: self})
	if err != nil {
		return fmt.Errorf("check slug %q: %w", sl, err)
	}
	if n > 0 {
		return fmt.Errorf("slug %q: %w", sl, models.ErrSlugNotAvailable)
	}
	return nil
}

func (s *Service) hashPassword(pw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pw), s.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", fmt.Errorf("hash post password: %w: %w", models.ErrValidation, err)
		}
		return "", fmt.Errorf("hash post password: %w", err)
	}
	return string(hash), nil
}

// afterWrite invalidates cached listings and schedules media indexing.
// Neither can fail the write.
func (s *Service) afterWrite(ctx context.Context, id uuid.UUID) {
	s.invalidate(ctx)
	if s.indexer == nil || s.tasks == nil {
		return
	}
	if !s.tasks.Submit("index post images", func(tctx context.Context) error {
		return s.indexer.IndexPost(tctx, id)
	}) {
		slog.Warn("media indexing not scheduled", "post_id", id)
	}
}

func (s *Service) invalidate(ctx context.Context) {
	if s.invalidator != nil {
		s.invalidator.InvalidateAll(ctx)
	}
}

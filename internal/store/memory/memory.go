// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package memory is an in-process implementation of store.Store. It backs
// development runs with STORE_DRIVER=memory and the unit tests of the
// listing engine and the mutation service.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"nextblog/internal/models"
	"nextblog/internal/store"
)

// MemoryStore keeps posts, categories and comments in maps guarded by a
// single RWMutex. Every value crossing the API boundary is copied.
type MemoryStore struct {
	mu         sync.RWMutex
	posts      map[uuid.UUID]*models.Post
	categories map[uuid.UUID]*models.Category
	comments   map[uuid.UUID]*models.Comment
	closed     bool
}

// New returns an empty MemoryStore.
func New() *MemoryStore {
	return &MemoryStore{
		posts:      make(map[uuid.UUID]*models.Post),
		categories: make(map[uuid.UUID]*models.Category),
		comments:   make(map[uuid.UUID]*models.Comment),
	}
}

var _ store.Store = (*MemoryStore)(nil)

// ListPosts evaluates q against all posts.
func (s *MemoryStore) ListPosts(ctx context.Context, q store.ListQuery) (*store.ListResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(ctx); err != nil {
		return nil, err
	}

	var matched []*models.Post
	for _, p := range s.posts {
		if !q.Filter.Match(p) {
			continue
		}
		c := clonePost(p)
		if q.MaskProtected && c.IsProtected() {
			c.Mask()
		}
		matched = append(matched, c)
	}

	slices.SortStableFunc(matched, func(a, b *models.Post) int {
		return store.ComparePosts(a, b, q.Sort)
	})

	total := len(matched)
	start := min(max(q.Skip, 0), total)
	end := total
	if q.Limit > 0 {
		end = min(start+q.Limit, total)
	}

	items := make([]models.Post, 0, end-start)
	for _, p := range matched[start:end] {
		items = append(items, *p)
	}
	return &store.ListResult{Items: items, Total: total}, nil
}

// CountPosts returns the number of posts matching f.
func (s *MemoryStore) CountPosts(ctx context.Context, f store.Filter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(ctx); err != nil {
		return 0, err
	}
	return s.countLocked(f), nil
}

func (s *MemoryStore) countLocked(f store.Filter) int {
	n := 0
	for _, p := range s.posts {
		if f.Match(p) {
			n++
		}
	}
	return n
}

// FindPostByID returns the post with the given id, or nil.
func (s *MemoryStore) FindPostByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	p, ok := s.posts[id]
	if !ok {
		return nil, nil
	}
	return clonePost(p), nil
}

// FindPostBySlug returns the post with the given slug, or nil.
func (s *MemoryStore) FindPostBySlug(ctx context.Context, slug string) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	for _, p := range s.posts {
		if p.Slug == slug {
			return clonePost(p), nil
		}
	}
	return nil, nil
}

// InsertPost stores p. The slug uniqueness check runs under the write
// lock, so two concurrent inserts of the same slug cannot both succeed.
func (s *MemoryStore) InsertPost(ctx context.Context, p *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(ctx); err != nil {
		return err
	}
	if _, exists := s.posts[p.ID]; exists {
		return fmt.Errorf("insert post %s: duplicate id", p.ID)
	}
	if s.countLocked(store.Filter{Slug: p.Slug}) > 0 {
		return fmt.Errorf("insert post: %w", models.ErrSlugNotAvailable)
	}
	if p.Version == 0 {
		p.Version = 1
	}
	s.posts[p.ID] = clonePost(p)
	return nil
}

// UpdatePost replaces the stored post when its version still equals
// expectedVersion, then bumps p.Version.
func (s *MemoryStore) UpdatePost(ctx context.Context, p *models.Post, expectedVersion int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(ctx); err != nil {
		return err
	}
	cur, ok := s.posts[p.ID]
	if !ok {
		return fmt.Errorf("update post %s: %w", p.ID, models.ErrNotFound)
	}
	if cur.Version != expectedVersion {
		return fmt.Errorf("update post %s: %w", p.ID, models.ErrConflict)
	}
	if s.countLocked(store.Filter{Slug: p.Slug, ExcludeID: p.ID}) > 0 {
		return fmt.Errorf("update post: %w", models.ErrSlugNotAvailable)
	}
	p.Version = expectedVersion + 1
	next := clonePost(p)
	// The media indexer owns images; keep whatever it recorded meanwhile.
	next.Images = cloneImages(cur.Images)
	s.posts[p.ID] = next
	return nil
}

// DeletePost removes a post and reports whether it existed.
func (s *MemoryStore) DeletePost(ctx context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(ctx); err != nil {
		return false, err
	}
	if _, ok := s.posts[id]; !ok {
		return false, nil
	}
	delete(s.posts, id)
	return true, nil
}

// SetPostImages records image metadata without touching the version, so
// indexing never conflicts with editor updates.
func (s *MemoryStore) SetPostImages(ctx context.Context, id uuid.UUID, images []models.ImageMeta) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(ctx); err != nil {
		return err
	}
	p, ok := s.posts[id]
	if !ok {
		return fmt.Errorf("set post images %s: %w", id, models.ErrNotFound)
	}
	p.Images = cloneImages(images)
	return nil
}

// FindCategoryByID returns the category with the given id, or nil.
func (s *MemoryStore) FindCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	c, ok := s.categories[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

// FindCategoriesByIDs returns the categories matching ids in id order.
func (s *MemoryStore) FindCategoriesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	var out []models.Category
	for _, id := range ids {
		if c, ok := s.categories[id]; ok {
			out = append(out, *c)
		}
	}
	return out, nil
}

// InsertCategory stores c.
func (s *MemoryStore) InsertCategory(ctx context.Context, c *models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(ctx); err != nil {
		return err
	}
	cp := *c
	s.categories[c.ID] = &cp
	return nil
}

// CountCategories returns the number of categories.
func (s *MemoryStore) CountCategories(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(ctx); err != nil {
		return 0, err
	}
	return len(s.categories), nil
}

// InsertComment stores c.
func (s *MemoryStore) InsertComment(ctx context.Context, c *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(ctx); err != nil {
		return err
	}
	cp := *c
	s.comments[c.ID] = &cp
	return nil
}

// DeleteCommentsByRef removes every comment attached to ref.
func (s *MemoryStore) DeleteCommentsByRef(ctx context.Context, refType models.CommentRefType, ref uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(ctx); err != nil {
		return 0, err
	}
	var n int64
	for id, c := range s.comments {
		if c.RefType == refType && c.Ref == ref {
			delete(s.comments, id)
			n++
		}
	}
	return n, nil
}

// DeleteOrphanComments removes post comments whose post is gone.
func (s *MemoryStore) DeleteOrphanComments(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(ctx); err != nil {
		return 0, err
	}
	var n int64
	for id, c := range s.comments {
		if c.RefType != models.CommentRefPost {
			continue
		}
		if _, ok := s.posts[c.Ref]; !ok {
			delete(s.comments, id)
			n++
		}
	}
	return n, nil
}

// Ping reports whether the store is still open.
func (s *MemoryStore) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.check(ctx)
}

// Close drops all data. Later calls fail with models.ErrStoreUnavailable.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	clear(s.posts)
	clear(s.categories)
	clear(s.comments)
	return nil
}

// check must be called with s.mu held.
func (s *MemoryStore) check(ctx context.Context) error {
	if s.closed {
		return fmt.Errorf("memory store closed: %w", models.ErrStoreUnavailable)
	}
	return ctx.Err()
}

func clonePost(p *models.Post) *models.Post {
	c := *p
	c.Category = nil
	if p.Summary != nil {
		v := *p.Summary
		c.Summary = &v
	}
	if p.Password != nil {
		v := *p.Password
		c.Password = &v
	}
	if p.Pin != nil {
		v := *p.Pin
		c.Pin = &v
	}
	if p.Modified != nil {
		v := *p.Modified
		c.Modified = &v
	}
	c.Tags = slices.Clone(p.Tags)
	c.Images = cloneImages(p.Images)
	return &c
}

func cloneImages(in []models.ImageMeta) []models.ImageMeta {
	return slices.Clone(in)
}

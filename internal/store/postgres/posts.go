// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"nextblog/internal/models"
	"nextblog/internal/store"
)

const postColumns = `id, title, slug, text, summary, category_id, tags, hide, password, rss,
		       pin, pin_order, created_at, modified_at, read_count, like_count, images, version`

// scanPost scans a row into a Post. Tags and images are stored as JSONB.
func scanPost(scanner interface{ Scan(...any) error }) (*models.Post, error) {
	var p models.Post
	var tags, images []byte
	err := scanner.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Text, &p.Summary, &p.CategoryID, &tags,
		&p.Hide, &p.Password, &p.RSS, &p.Pin, &p.PinOrder, &p.Created,
		&p.Modified, &p.Count.Read, &p.Count.Like, &images, &p.Version,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(tags, &p.Tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	if err := json.Unmarshal(images, &p.Images); err != nil {
		return nil, fmt.Errorf("decode images: %w", err)
	}
	if len(p.Tags) == 0 {
		p.Tags = nil
	}
	if len(p.Images) == 0 {
		p.Images = nil
	}
	p.Created = p.Created.UTC()
	if p.Modified != nil {
		m := p.Modified.UTC()
		p.Modified = &m
	}
	return &p, nil
}

// encodeList marshals a slice as a JSON array, never null.
func encodeList[T any](v []T) ([]byte, error) {
	if v == nil {
		v = []T{}
	}
	return json.Marshal(v)
}

// ListPosts runs the count and the page query against the same filter.
func (s *Store) ListPosts(ctx context.Context, q store.ListQuery) (*store.ListResult, error) {
	total, err := s.CountPosts(ctx, q.Filter)
	if err != nil {
		return nil, err
	}

	var a args
	cols := selectColumns(q.MaskProtected, &a)
	where := whereClause(q.Filter, &a)
	order, err := orderClause(q.Sort)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	query := "SELECT " + cols + " FROM posts" + where + order
	if q.Limit > 0 {
		query += " LIMIT " + a.add(q.Limit)
	}
	if q.Skip > 0 {
		query += " OFFSET " + a.add(q.Skip)
	}

	rows, err := s.db.QueryContext(ctx, query, a...)
	if err != nil {
		return nil, wrap("list posts", err)
	}
	defer rows.Close()

	items := []models.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list posts", err)
	}
	return &store.ListResult{Items: items, Total: total}, nil
}

// CountPosts returns the number of posts matching f.
func (s *Store) CountPosts(ctx context.Context, f store.Filter) (int, error) {
	var a args
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM posts"+whereClause(f, &a), a...).Scan(&n)
	if err != nil {
		return 0, wrap("count posts", err)
	}
	return n, nil
}

// FindPostByID retrieves a post by ID. Returns nil if not found.
func (s *Store) FindPostByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id)
	p, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("find post by id", err)
	}
	return p, nil
}

// FindPostBySlug retrieves a post by slug. Returns nil if not found.
func (s *Store) FindPostBySlug(ctx context.Context, slug string) (*models.Post, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE slug = $1`, slug)
	p, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("find post by slug", err)
	}
	return p, nil
}

// InsertPost inserts p. The unique slug index turns a concurrent insert
// of the same slug into models.ErrSlugNotAvailable.
func (s *Store) InsertPost(ctx context.Context, p *models.Post) error {
	tags, err := encodeList(p.Tags)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	images, err := encodeList(p.Images)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	if p.Version == 0 {
		p.Version = 1
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO posts (id, title, slug, text, summary, category_id, tags, hide,
		                   password, rss, pin, pin_order, created_at, modified_at,
		                   read_count, like_count, images, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`, p.ID, p.Title, p.Slug, p.Text, p.Summary, p.CategoryID, tags, p.Hide,
		p.Password, p.RSS, p.Pin, p.PinOrder, p.Created, p.Modified,
		p.Count.Read, p.Count.Like, images, p.Version,
	)
	if err != nil {
		return wrap("insert post", err)
	}
	return nil
}

// UpdatePost writes p if the stored version still equals expectedVersion.
// Counters and images are owned by other writers and left untouched.
func (s *Store) UpdatePost(ctx context.Context, p *models.Post, expectedVersion int64) error {
	tags, err := encodeList(p.Tags)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}

	var version int64
	err = s.db.QueryRowContext(ctx, `
		UPDATE posts SET
			title = $1, slug = $2, text = $3, summary = $4, category_id = $5,
			tags = $6, hide = $7, password = $8, rss = $9, pin = $10,
			pin_order = $11, modified_at = $12, version = version + 1
		WHERE id = $13 AND version = $14
		RETURNING version
	`, p.Title, p.Slug, p.Text, p.Summary, p.CategoryID, tags, p.Hide,
		p.Password, p.RSS, p.Pin, p.PinOrder, p.Modified, p.ID, expectedVersion,
	).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return s.updateMiss(ctx, p.ID)
	}
	if err != nil {
		return wrap("update post", err)
	}
	p.Version = version
	return nil
}

// updateMiss tells a vanished post from a stale version.
func (s *Store) updateMiss(ctx context.Context, id uuid.UUID) error {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM posts WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return wrap("update post", err)
	}
	if !exists {
		return fmt.Errorf("update post %s: %w", id, models.ErrNotFound)
	}
	return fmt.Errorf("update post %s: %w", id, models.ErrConflict)
}

// DeletePost removes a post and its comments in one transaction.
func (s *Store) DeletePost(ctx context.Context, id uuid.UUID) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, wrap("delete post: begin tx", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM comments WHERE ref_type = $1 AND ref = $2`, string(models.CommentRefPost), id,
	); err != nil {
		return false, wrap("delete post comments", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return false, wrap("delete post", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, wrap("delete post", err)
	}
	if n == 0 {
		return false, nil
	}
	if err := tx.Commit(); err != nil {
		return false, wrap("delete post: commit", err)
	}
	return true, nil
}

// SetPostImages replaces the image metadata without bumping the version.
func (s *Store) SetPostImages(ctx context.Context, id uuid.UUID, images []models.ImageMeta) error {
	data, err := encodeList(images)
	if err != nil {
		return fmt.Errorf("set post images: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `UPDATE posts SET images = $1 WHERE id = $2`, data, id)
	if err != nil {
		return wrap("set post images", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("set post images %s: %w", id, models.ErrNotFound)
	}
	return nil
}

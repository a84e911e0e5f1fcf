// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package postgres

import (
	"context"

	"github.com/google/uuid"

	"nextblog/internal/models"
)

// InsertComment inserts c.
func (s *Store) InsertComment(ctx context.Context, c *models.Comment) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO comments (id, ref, ref_type, author, text, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, c.ID, c.Ref, string(c.RefType), c.Author, c.Text, c.Created)
	if err != nil {
		return wrap("insert comment", err)
	}
	return nil
}

// DeleteCommentsByRef removes every comment attached to ref.
func (s *Store) DeleteCommentsByRef(ctx context.Context, refType models.CommentRefType, ref uuid.UUID) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM comments WHERE ref_type = $1 AND ref = $2`, string(refType), ref,
	)
	if err != nil {
		return 0, wrap("delete comments", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, wrap("delete comments", err)
	}
	return n, nil
}

// DeleteOrphanComments removes post comments whose post no longer exists.
func (s *Store) DeleteOrphanComments(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM comments c
		WHERE c.ref_type = $1
		  AND NOT EXISTS (SELECT 1 FROM posts p WHERE p.id = c.ref)
	`, string(models.CommentRefPost))
	if err != nil {
		return 0, wrap("delete orphan comments", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, wrap("delete orphan comments", err)
	}
	return n, nil
}

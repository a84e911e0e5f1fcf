// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"nextblog/internal/models"
)

const categoryColumns = `id, name, slug, created_at`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	if err := scanner.Scan(&c.ID, &c.Name, &c.Slug, &c.Created); err != nil {
		return nil, err
	}
	c.Created = c.Created.UTC()
	return &c, nil
}

// FindCategoryByID retrieves a category by ID. Returns nil if not found.
func (s *Store) FindCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("find category by id", err)
	}
	return c, nil
}

// FindCategoriesByIDs retrieves every category whose id is in ids.
func (s *Store) FindCategoriesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var a args
	placeholders := make([]string, len(ids))
	for i, id := range ids {
		placeholders[i] = a.add(id)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id IN (`+strings.Join(placeholders, ", ")+`) ORDER BY id, slug, name`,
		a...,
	)
	if err != nil {
		return nil, wrap("find categories", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("find categories", err)
	}
	return items, nil
}

// InsertCategory inserts c.
func (s *Store) InsertCategory(ctx context.Context, c *models.Category) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (id, name, slug, created_at) VALUES ($1, $2, $3, $4)`,
		c.ID, c.Name, c.Slug, c.Created,
	)
	if err != nil {
		return wrap("insert category", err)
	}
	return nil
}

// CountCategories returns the number of categories.
func (s *Store) CountCategories(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&n); err != nil {
		return 0, wrap("count categories", err)
	}
	return n, nil
}

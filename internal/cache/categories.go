// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"nextblog/internal/models"
)

// CategoryFinder is the bulk category lookup being cached.
type CategoryFinder interface {
	FindCategoriesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Category, error)
}

// CategoryCache is an in-process LRU in front of a CategoryFinder.
// Categories change rarely, so entries live until they expire or are
// evicted. Missing categories are not cached.
type CategoryCache struct {
	next CategoryFinder
	lru  *expirable.LRU[uuid.UUID, models.Category]
}

// NewCategoryCache creates a cache holding up to size categories for ttl.
func NewCategoryCache(next CategoryFinder, size int, ttl time.Duration) *CategoryCache {
	if size <= 0 {
		size = 256
	}
	return &CategoryCache{
		next: next,
		lru:  expirable.NewLRU[uuid.UUID, models.Category](size, nil, ttl),
	}
}

// FindCategoriesByIDs serves what it can from memory and asks the
// underlying finder for the rest in one call.
func (c *CategoryCache) FindCategoriesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Category, error) {
	out := make([]models.Category, 0, len(ids))
	var missing []uuid.UUID
	for _, id := range ids {
		if cat, ok := c.lru.Get(id); ok {
			out = append(out, cat)
			continue
		}
		missing = append(missing, id)
	}
	if len(missing) == 0 {
		return out, nil
	}

	fetched, err := c.next.FindCategoriesByIDs(ctx, missing)
	if err != nil {
		return nil, err
	}

	// Cache one record per id, preferring the first in (slug, name) order
	// when the store holds duplicates.
	best := make(map[uuid.UUID]models.Category, len(fetched))
	for _, cat := range fetched {
		if prev, ok := best[cat.ID]; ok && !less(cat, prev) {
			continue
		}
		best[cat.ID] = cat
	}
	for id, cat := range best {
		c.lru.Add(id, cat)
	}
	return append(out, fetched...), nil
}

func less(a, b models.Category) bool {
	if c := strings.Compare(a.Slug, b.Slug); c != 0 {
		return c < 0
	}
	return a.Name < b.Name
}

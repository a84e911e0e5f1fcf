// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package listing

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"

	"nextblog/internal/models"
)

// CategoryLookup resolves category ids in bulk. store.CategoryStore and
// cache.CategoryCache both satisfy it.
type CategoryLookup interface {
	FindCategoriesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Category, error)
}

// JoinCategories attaches a category to every post in items using one
// lookup for the whole page. A dangling categoryId yields a nil category.
// A failed lookup is logged and leaves every category nil rather than
// failing the page.
func JoinCategories(ctx context.Context, lookup CategoryLookup, items []models.Post) {
	if len(items) == 0 {
		return
	}

	ids := make([]uuid.UUID, 0, len(items))
	seen := make(map[uuid.UUID]bool, len(items))
	for _, p := range items {
		if p.CategoryID == uuid.Nil || seen[p.CategoryID] {
			continue
		}
		seen[p.CategoryID] = true
		ids = append(ids, p.CategoryID)
	}
	if len(ids) == 0 {
		return
	}

	found, err := lookup.FindCategoriesByIDs(ctx, ids)
	if err != nil {
		slog.Warn("category lookup failed, listing without categories", "error", err, "ids", len(ids))
		return
	}

	byID := pickCategories(found)
	for i := range items {
		if c, ok := byID[items[i].CategoryID]; ok {
			items[i].Category = &c
		} else {
			items[i].Category = nil
		}
	}
}

// pickCategories indexes categories by id. When the store returns more
// than one record for an id the first in (id, slug, name) order wins and
// the inconsistency is logged.
func pickCategories(found []models.Category) map[uuid.UUID]models.Category {
	sorted := slices.Clone(found)
	slices.SortStableFunc(sorted, func(a, b models.Category) int {
		if c := strings.Compare(a.ID.String(), b.ID.String()); c != 0 {
			return c
		}
		if c := strings.Compare(a.Slug, b.Slug); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})

	out := make(map[uuid.UUID]models.Category, len(sorted))
	for _, c := range sorted {
		if prev, dup := out[c.ID]; dup {
			slog.Warn("duplicate category records", "category_id", c.ID, "kept", prev.Slug, "ignored", c.Slug)
			continue
		}
		out[c.ID] = c
	}
	return out
}

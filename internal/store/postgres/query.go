// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package postgres

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"nextblog/internal/models"
	"nextblog/internal/store"
)

// args collects positional query parameters.
type args []any

// add appends v and returns its placeholder.
func (a *args) add(v any) string {
	*a = append(*a, v)
	return fmt.Sprintf("$%d", len(*a))
}

// whereClause renders f as a WHERE clause, or "" for the empty filter.
func whereClause(f store.Filter, a *args) string {
	var conds []string
	if from, to, ok := f.YearRange(); ok {
		conds = append(conds, "created_at >= "+a.add(from)+" AND created_at < "+a.add(to))
	}
	if f.ExcludeHidden {
		conds = append(conds, "hide = FALSE")
	}
	if f.Slug != "" {
		conds = append(conds, "slug = "+a.add(f.Slug))
	}
	if f.ExcludeID != uuid.Nil {
		conds = append(conds, "id <> "+a.add(f.ExcludeID))
	}
	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}

// protected is true for rows whose text must be masked.
const protected = "(password IS NOT NULL AND password <> '')"

// selectColumns returns the post column list, masking text and summary of
// protected posts when mask is set.
func selectColumns(mask bool, a *args) string {
	text, summary := "text", "summary"
	if mask {
		m := a.add(models.MaskedText)
		text = "CASE WHEN " + protected + " THEN " + m + "::text ELSE text END"
		summary = "CASE WHEN " + protected + " THEN " + m + "::text ELSE summary END"
	}
	return "id, title, slug, " + text + ", " + summary + `, category_id, tags, hide, password, rss,
		       pin, pin_order, created_at, modified_at, read_count, like_count, images, version`
}

// sortExpr maps a sort field to its SQL expression. Text columns use the
// C collation so ordering is bytewise, matching the other backends.
var sortExpr = map[string]string{
	models.FieldID:       "id",
	models.FieldTitle:    `title COLLATE "C"`,
	models.FieldSlug:     `slug COLLATE "C"`,
	models.FieldCreated:  "created_at",
	models.FieldModified: "modified_at",
	models.FieldPinOrder: "pin_order",
	store.SortPinRank:    "CASE WHEN pin IS NOT NULL THEN pin_order END",
	store.SortPinned:     "(pin IS NOT NULL)",
	store.SortRead:       "read_count",
	store.SortLike:       "like_count",
}

// orderClause renders keys as an ORDER BY clause.
func orderClause(keys []store.SortKey) (string, error) {
	if len(keys) == 0 {
		return "", nil
	}
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		expr, ok := sortExpr[k.Field]
		if !ok {
			return "", fmt.Errorf("sort by %q: %w", k.Field, models.ErrValidation)
		}
		dir := " ASC"
		if k.Desc {
			dir = " DESC"
		}
		// Without NullsLast a missing modified time sorts as the oldest.
		nulls := ""
		switch {
		case k.NullsLast:
			nulls = " NULLS LAST"
		case k.Field == models.FieldModified && k.Desc:
			nulls = " NULLS LAST"
		case k.Field == models.FieldModified:
			nulls = " NULLS FIRST"
		}
		parts = append(parts, expr+dir+nulls)
	}
	return " ORDER BY " + strings.Join(parts, ", "), nil
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package listing

import (
	"fmt"
	"strings"

	"nextblog/internal/models"
	"nextblog/internal/store"
)

// sortableFields maps the sortBy values callers may use to store sort
// fields.
var sortableFields = map[string]string{
	models.FieldCreated:  models.FieldCreated,
	models.FieldModified: models.FieldModified,
	models.FieldTitle:    models.FieldTitle,
	models.FieldSlug:     models.FieldSlug,
	models.FieldPinOrder: models.FieldPinOrder,
	"count.read":         store.SortRead,
	"count.like":         store.SortLike,
	store.SortRead:       store.SortRead,
	store.SortLike:       store.SortLike,
}

// DefaultSort floats pinned posts to the top ordered by ascending
// pinOrder, then lists everything else newest first. The trailing id key
// makes the order total.
var DefaultSort = []store.SortKey{
	{Field: store.SortPinRank, NullsLast: true},
	{Field: store.SortPinned, Desc: true},
	{Field: models.FieldCreated, Desc: true},
	{Field: models.FieldID, Desc: true},
}

// parseOrder accepts asc/desc and the numeric 1/-1 forms. An empty
// order means descending.
func parseOrder(order string) (desc bool, err error) {
	switch strings.ToLower(strings.TrimSpace(order)) {
	case "", "desc", "-1":
		return true, nil
	case "asc", "1":
		return false, nil
	}
	return false, fmt.Errorf("invalid sort order %q: %w", order, models.ErrValidation)
}

// EffectiveSort resolves the caller's sort request. Without sortBy the
// default composite order applies. With sortBy the caller's key is the
// primary key; unless legacy is set an id key in the same direction is
// appended so pages stay stable when many posts share a value.
func EffectiveSort(sortBy, sortOrder string, legacy bool) ([]store.SortKey, error) {
	sortBy = strings.TrimSpace(sortBy)
	if sortBy == "" {
		if strings.TrimSpace(sortOrder) != "" {
			return nil, fmt.Errorf("sort order without sort field: %w", models.ErrValidation)
		}
		return DefaultSort, nil
	}

	field, ok := sortableFields[sortBy]
	if !ok {
		return nil, fmt.Errorf("cannot sort by %q: %w", sortBy, models.ErrValidation)
	}
	desc, err := parseOrder(sortOrder)
	if err != nil {
		return nil, err
	}

	keys := []store.SortKey{{Field: field, Desc: desc}}
	if field == models.FieldModified {
		keys[0].NullsLast = true
	}
	if !legacy {
		keys = append(keys, store.SortKey{Field: models.FieldID, Desc: desc})
	}
	return keys, nil
}

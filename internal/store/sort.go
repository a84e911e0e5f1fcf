// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"bytes"
	"cmp"
	"strings"
	"time"

	"nextblog/internal/models"
)

// ComparePosts orders a and b by keys, returning -1, 0 or +1. Backends
// without a native query language use it to evaluate ListQuery.Sort.
func ComparePosts(a, b *models.Post, keys []SortKey) int {
	for _, k := range keys {
		c, decided := compareNulls(a, b, k)
		if !decided {
			c = compareField(a, b, k.Field)
			if k.Desc {
				c = -c
			}
		}
		if c != 0 {
			return c
		}
	}
	return 0
}

// compareNulls handles NullsLast keys where at least one side has no value.
func compareNulls(a, b *models.Post, k SortKey) (int, bool) {
	if !k.NullsLast {
		return 0, false
	}
	an, bn := isNull(a, k.Field), isNull(b, k.Field)
	switch {
	case an && bn:
		return 0, true
	case an:
		return 1, true
	case bn:
		return -1, true
	}
	return 0, false
}

func isNull(p *models.Post, field string) bool {
	switch field {
	case SortPinRank:
		return !p.IsPinned()
	case models.FieldModified:
		return p.Modified == nil
	}
	return false
}

func compareField(a, b *models.Post, field string) int {
	switch field {
	case models.FieldID:
		return bytes.Compare(a.ID[:], b.ID[:])
	case models.FieldTitle:
		return strings.Compare(a.Title, b.Title)
	case models.FieldSlug:
		return strings.Compare(a.Slug, b.Slug)
	case models.FieldCreated:
		return a.Created.Compare(b.Created)
	case models.FieldModified:
		return timePtr(a.Modified).Compare(timePtr(b.Modified))
	case models.FieldPinOrder:
		return cmp.Compare(a.PinOrder, b.PinOrder)
	case SortPinRank:
		return cmp.Compare(pinRank(a), pinRank(b))
	case SortPinned:
		return cmp.Compare(boolRank(a.IsPinned()), boolRank(b.IsPinned()))
	case SortRead:
		return cmp.Compare(a.Count.Read, b.Count.Read)
	case SortLike:
		return cmp.Compare(a.Count.Like, b.Count.Like)
	}
	return 0
}

func pinRank(p *models.Post) int {
	if !p.IsPinned() {
		return 0
	}
	return p.PinOrder
}

func boolRank(v bool) int {
	if v {
		return 1
	}
	return 0
}

func timePtr(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"time"

	"github.com/google/uuid"

	"nextblog/internal/models"
)

// Sort keys understood by every backend in addition to the explicit
// caller-sortable fields.
const (
	// SortPinRank is pinOrder for pinned posts and null otherwise.
	SortPinRank = "pinRank"
	// SortPinned is true for pinned posts.
	SortPinned = "pinned"
	// SortRead and SortLike order by the view counters.
	SortRead = "read"
	SortLike = "like"
)

// Filter selects the posts a query operates on. The zero value matches
// every post.
type Filter struct {
	// Year restricts created to [Jan 1 Year, Jan 1 Year+1) in UTC.
	Year *int
	// ExcludeHidden drops posts with Hide set.
	ExcludeHidden bool
	// Slug matches one exact slug when non-empty.
	Slug string
	// ExcludeID skips one post, used to ignore a post's own slug.
	ExcludeID uuid.UUID
}

// YearRange returns the half-open created range selected by Year.
func (f Filter) YearRange() (from, to time.Time, ok bool) {
	if f.Year == nil {
		return time.Time{}, time.Time{}, false
	}
	from = time.Date(*f.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(1, 0, 0), true
}

// Match evaluates the filter against a single post.
func (f Filter) Match(p *models.Post) bool {
	if from, to, ok := f.YearRange(); ok {
		if p.Created.Before(from) || !p.Created.Before(to) {
			return false
		}
	}
	if f.ExcludeHidden && p.Hide {
		return false
	}
	if f.Slug != "" && p.Slug != f.Slug {
		return false
	}
	if f.ExcludeID != uuid.Nil && p.ID == f.ExcludeID {
		return false
	}
	return true
}

// SortKey is one ordering criterion.
type SortKey struct {
	Field string
	Desc  bool
	// NullsLast places posts without a value after all others regardless
	// of direction. Only meaningful for SortPinRank and modified.
	NullsLast bool
}

// ListQuery is the ordered pipeline a backend executes: filter, mask,
// sort, then skip/limit. Masking happens before sorting so that ordering
// only ever sees what the caller is allowed to see.
type ListQuery struct {
	Filter Filter
	// MaskProtected replaces text and summary of protected posts with
	// models.MaskedText.
	MaskProtected bool
	// Fields is the projected field set. Backends may use it to avoid
	// loading columns; the engine applies it to the result either way.
	Fields []string
	Sort   []SortKey
	Skip   int
	Limit  int
}

// ListResult is one page of posts plus the number of posts matching the
// filter across all pages.
type ListResult struct {
	Items []models.Post
	Total int
}

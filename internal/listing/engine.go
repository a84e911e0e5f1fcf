// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package listing

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"nextblog/internal/models"
	"nextblog/internal/store"
)

// MaxPageSize is the largest page a caller may request.
const MaxPageSize = 50

// PageCache stores rendered public listing pages. cache.ListCache
// implements it on top of Valkey.
type PageCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, data []byte)
}

// ListParams are the caller-controlled inputs of a listing.
type ListParams struct {
	Year      *int
	Select    string
	Page      int
	Size      int
	SortBy    string
	SortOrder string
}

// Page is one page of a listing plus pagination metadata.
type Page struct {
	Items      []models.Post `json:"items"`
	Total      int           `json:"total"`
	Page       int           `json:"page"`
	Size       int           `json:"size"`
	TotalPages int           `json:"totalPages"`
	HasNext    bool          `json:"hasNext"`
	HasPrev    bool          `json:"hasPrev"`
	Fields     []string      `json:"fields"`
}

// Options tune an Engine.
type Options struct {
	// LegacySingleKeySort disables the id tiebreak after an explicit
	// caller sort key.
	LegacySingleKeySort bool
}

// Engine answers listing requests against a post store.
type Engine struct {
	posts      store.PostStore
	categories CategoryLookup
	cache      PageCache
	opts       Options
}

// NewEngine creates an Engine. categories is usually the store itself or
// a cache in front of it.
func NewEngine(posts store.PostStore, categories CategoryLookup, opts Options) *Engine {
	return &Engine{posts: posts, categories: categories, opts: opts}
}

// WithCache enables caching of public pages. Master listings are never
// cached.
func (e *Engine) WithCache(c PageCache) *Engine {
	e.cache = c
	return e
}

// List returns one page of posts as seen by the caller.
//
// The store filters by year and visibility, masks protected posts, sorts
// and slices. Categories are joined once per returned page and the
// projection is applied last. Hidden posts never count toward Total for
// a public caller.
func (e *Engine) List(ctx context.Context, params ListParams, privileged bool) (*Page, error) {
	if params.Page < 1 {
		return nil, fmt.Errorf("page must be at least 1: %w", models.ErrValidation)
	}
	if params.Size < 1 || params.Size > MaxPageSize {
		return nil, fmt.Errorf("size must be between 1 and %d: %w", MaxPageSize, models.ErrValidation)
	}
	if params.Year != nil && (*params.Year < 1 || *params.Year > 9999) {
		return nil, fmt.Errorf("year %d out of range: %w", *params.Year, models.ErrValidation)
	}

	proj, err := ResolveProjection(ParseFields(params.Select), privileged)
	if err != nil {
		return nil, err
	}
	sortKeys, err := EffectiveSort(params.SortBy, params.SortOrder, e.opts.LegacySingleKeySort)
	if err != nil {
		return nil, err
	}

	var key string
	if e.cache != nil && !privileged {
		key = cacheKey(params, proj, sortKeys)
		if data, ok := e.cache.Get(ctx, key); ok {
			var cached Page
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, nil
			}
			slog.Warn("discarding undecodable cached listing", "key", key)
		}
	}

	res, err := e.posts.ListPosts(ctx, store.ListQuery{
		Filter: store.Filter{
			Year:          params.Year,
			ExcludeHidden: !privileged,
		},
		MaskProtected: !privileged,
		Fields:        proj.Fields,
		Sort:          sortKeys,
		Skip:          (params.Page - 1) * params.Size,
		Limit:         params.Size,
	})
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	items := res.Items
	if items == nil {
		items = []models.Post{}
	}
	for i := range items {
		items[i] = MaskIfNeeded(items[i], privileged)
	}
	if proj.Has(models.FieldCategory) {
		JoinCategories(ctx, e.categories, items)
	}
	for i := range items {
		proj.apply(&items[i])
	}

	page := newPage(items, res.Total, params.Page, params.Size, proj.Fields)

	if key != "" {
		if data, err := json.Marshal(page); err == nil {
			e.cache.Set(ctx, key, data)
		}
	}
	return page, nil
}

func newPage(items []models.Post, total, page, size int, fields []string) *Page {
	totalPages := (total + size - 1) / size
	return &Page{
		Items:      items,
		Total:      total,
		Page:       page,
		Size:       size,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
		Fields:     fields,
	}
}

// cacheKey builds a key from the resolved query so that equivalent
// requests share an entry.
func cacheKey(params ListParams, proj Projection, keys []store.SortKey) string {
	var b strings.Builder
	b.WriteString("posts:")
	if params.Year != nil {
		b.WriteString(strconv.Itoa(*params.Year))
	} else {
		b.WriteString("all")
	}
	fmt.Fprintf(&b, ":%d:%d:", params.Page, params.Size)
	b.WriteString(strings.Join(proj.Fields, ","))
	b.WriteByte(':')
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(k.Field)
		if k.Desc {
			b.WriteByte('-')
		}
	}
	return b.String()
}

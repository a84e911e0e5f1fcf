// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package listing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nextblog/internal/models"
	"nextblog/internal/store/memory"
)

var t0 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	store    *memory.MemoryStore
	engine   *Engine
	category models.Category
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := memory.New()
	cat := models.Category{ID: uuid.New(), Name: "Tech", Slug: "tech", Created: t0}
	require.NoError(t, s.InsertCategory(context.Background(), &cat))
	return &fixture{store: s, engine: NewEngine(s, s, Options{}), category: cat}
}

func (f *fixture) add(t *testing.T, slug string, created time.Time, mut func(*models.Post)) *models.Post {
	t.Helper()
	p := &models.Post{
		ID:         uuid.New(),
		Title:      slug,
		Slug:       slug,
		Text:       "text of " + slug,
		CategoryID: f.category.ID,
		Created:    created,
	}
	if mut != nil {
		mut(p)
	}
	require.NoError(t, f.store.InsertPost(context.Background(), p))
	return p
}

func slugs(page *Page) []string {
	out := make([]string, len(page.Items))
	for i, p := range page.Items {
		out[i] = p.Slug
	}
	return out
}

func pin(order int) func(*models.Post) {
	return func(p *models.Post) {
		tag := "Date"
		p.Pin = &tag
		p.PinOrder = order
	}
}

func TestList_HiddenPosts(t *testing.T) {
	f := newFixture(t)
	f.add(t, "shown", t0, nil)
	f.add(t, "hidden", t0.Add(time.Hour), func(p *models.Post) { p.Hide = true })

	pub, err := f.engine.List(context.Background(), ListParams{Page: 1, Size: 10}, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"shown"}, slugs(pub))
	assert.Equal(t, 1, pub.Total)

	master, err := f.engine.List(context.Background(), ListParams{Page: 1, Size: 10}, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"hidden", "shown"}, slugs(master))
	assert.Equal(t, 2, master.Total)
	assert.True(t, master.Items[0].Hide)
}

func TestList_ProtectedPostsMasked(t *testing.T) {
	f := newFixture(t)
	f.add(t, "locked", t0, func(p *models.Post) {
		pw := "$2a$10$hash"
		sum := "teaser"
		p.Title = "Locked Title"
		p.Password = &pw
		p.Summary = &sum
	})

	pub, err := f.engine.List(context.Background(), ListParams{Page: 1, Size: 10}, false)
	require.NoError(t, err)
	require.Len(t, pub.Items, 1)
	got := pub.Items[0]
	assert.Equal(t, models.MaskedText, got.Text)
	assert.Equal(t, models.MaskedText, *got.Summary)
	assert.Equal(t, "Locked Title", got.Title)
	assert.Nil(t, got.Password, "password must not leak to public callers")

	master, err := f.engine.List(context.Background(), ListParams{Page: 1, Size: 10}, true)
	require.NoError(t, err)
	require.Len(t, master.Items, 1)
	assert.Equal(t, "text of locked", master.Items[0].Text)
	assert.Equal(t, "teaser", *master.Items[0].Summary)
}

func TestList_ProtectedPostWithoutSummaryMasked(t *testing.T) {
	f := newFixture(t)
	f.add(t, "locked", t0, func(p *models.Post) {
		pw := "$2a$10$hash"
		p.Password = &pw
		p.Summary = nil
	})

	pub, err := f.engine.List(context.Background(), ListParams{Page: 1, Size: 10}, false)
	require.NoError(t, err)
	require.Len(t, pub.Items, 1)
	assert.Equal(t, models.MaskedText, pub.Items[0].Text)
	require.NotNil(t, pub.Items[0].Summary)
	assert.Equal(t, models.MaskedText, *pub.Items[0].Summary)

	master, err := f.engine.List(context.Background(), ListParams{Page: 1, Size: 10}, true)
	require.NoError(t, err)
	require.Len(t, master.Items, 1)
	assert.Nil(t, master.Items[0].Summary)
}

func TestList_DefaultSortPinsFirst(t *testing.T) {
	f := newFixture(t)
	t1 := t0
	t2 := t0.Add(24 * time.Hour)
	f.add(t, "a", t0.Add(-48*time.Hour), pin(1))
	f.add(t, "b", t0.Add(-72*time.Hour), pin(0))
	f.add(t, "c", t2, nil)
	f.add(t, "d", t1, nil)

	page, err := f.engine.List(context.Background(), ListParams{Page: 1, Size: 10}, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "c", "d"}, slugs(page))
}

func TestList_Idempotent(t *testing.T) {
	f := newFixture(t)
	// Same created time everywhere so only the id tiebreak decides.
	for i := range 12 {
		f.add(t, fmt.Sprintf("post-%02d", i), t0, nil)
	}

	params := ListParams{Page: 2, Size: 5}
	first, err := f.engine.List(context.Background(), params, false)
	require.NoError(t, err)
	second, err := f.engine.List(context.Background(), params, false)
	require.NoError(t, err)
	assert.Equal(t, slugs(first), slugs(second))
	assert.Equal(t, first.Total, second.Total)

	// Pages never overlap.
	seen := map[string]bool{}
	for page := 1; page <= 3; page++ {
		res, err := f.engine.List(context.Background(), ListParams{Page: page, Size: 5, SortBy: "created"}, false)
		require.NoError(t, err)
		for _, s := range slugs(res) {
			assert.False(t, seen[s], "post %s appears on two pages", s)
			seen[s] = true
		}
	}
	assert.Len(t, seen, 12)
}

func TestList_DanglingCategory(t *testing.T) {
	f := newFixture(t)
	f.add(t, "orphan", t0, func(p *models.Post) { p.CategoryID = uuid.New() })
	f.add(t, "linked", t0.Add(-time.Hour), nil)

	page, err := f.engine.List(context.Background(), ListParams{Page: 1, Size: 10}, false)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Nil(t, page.Items[0].Category)
	require.NotNil(t, page.Items[1].Category)
	assert.Equal(t, "tech", page.Items[1].Category.Slug)
}

type failingLookup struct{}

func (failingLookup) FindCategoriesByIDs(context.Context, []uuid.UUID) ([]models.Category, error) {
	return nil, errors.New("boom")
}

func TestList_CategoryLookupFailureDegrades(t *testing.T) {
	f := newFixture(t)
	f.add(t, "post", t0, nil)
	e := NewEngine(f.store, failingLookup{}, Options{})

	page, err := e.List(context.Background(), ListParams{Page: 1, Size: 10}, false)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Nil(t, page.Items[0].Category)
}

func TestList_PaginationBounds(t *testing.T) {
	f := newFixture(t)
	for i := range 3 {
		f.add(t, fmt.Sprintf("p%d", i), t0.Add(time.Duration(i)*time.Minute), nil)
	}
	ctx := context.Background()

	_, err := f.engine.List(ctx, ListParams{Page: 0, Size: 10}, false)
	assert.ErrorIs(t, err, models.ErrValidation)
	_, err = f.engine.List(ctx, ListParams{Page: 1, Size: 0}, false)
	assert.ErrorIs(t, err, models.ErrValidation)
	_, err = f.engine.List(ctx, ListParams{Page: 1, Size: MaxPageSize + 1}, false)
	assert.ErrorIs(t, err, models.ErrValidation)

	page, err := f.engine.List(ctx, ListParams{Page: 5, Size: 2}, false)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 2, page.TotalPages)
	assert.False(t, page.HasNext)
	assert.True(t, page.HasPrev)

	page, err = f.engine.List(ctx, ListParams{Page: 1, Size: 2}, false)
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.True(t, page.HasNext)
	assert.False(t, page.HasPrev)
}

func TestList_YearFilter(t *testing.T) {
	f := newFixture(t)
	f.add(t, "new-year", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), nil)
	f.add(t, "eve", time.Date(2023, 12, 31, 23, 59, 59, 0, time.UTC), nil)
	f.add(t, "next", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), nil)

	year := 2024
	page, err := f.engine.List(context.Background(), ListParams{Year: &year, Page: 1, Size: 10}, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"new-year"}, slugs(page))
	assert.Equal(t, 1, page.Total)
}

func TestList_SelectAndSort(t *testing.T) {
	f := newFixture(t)
	f.add(t, "bravo", t0, nil)
	f.add(t, "alpha", t0.Add(time.Hour), nil)

	page, err := f.engine.List(context.Background(), ListParams{
		Page: 1, Size: 10, Select: "title password", SortBy: "title", SortOrder: "asc",
	}, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "title"}, page.Fields)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "alpha", page.Items[0].Title)
	assert.Empty(t, page.Items[0].Text)
	assert.Nil(t, page.Items[0].Category, "category is only joined when selected")

	_, err = f.engine.List(context.Background(), ListParams{Page: 1, Size: 10, Select: "nope"}, false)
	assert.ErrorIs(t, err, models.ErrValidation)
}

type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
	hits int
}

func (c *mapCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[key]
	if ok {
		c.hits++
	}
	return d, ok
}

func (c *mapCache) Set(_ context.Context, key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
}

func TestList_PublicPagesCached(t *testing.T) {
	f := newFixture(t)
	f.add(t, "cached", t0, nil)
	c := &mapCache{data: map[string][]byte{}}
	f.engine.WithCache(c)
	ctx := context.Background()

	first, err := f.engine.List(ctx, ListParams{Page: 1, Size: 10}, false)
	require.NoError(t, err)
	second, err := f.engine.List(ctx, ListParams{Page: 1, Size: 10}, false)
	require.NoError(t, err)
	assert.Equal(t, 1, c.hits)
	assert.Equal(t, slugs(first), slugs(second))
	assert.Equal(t, first.Total, second.Total)

	_, err = f.engine.List(ctx, ListParams{Page: 1, Size: 10}, true)
	require.NoError(t, err)
	assert.Len(t, c.data, 1, "master listings are not cached")
}

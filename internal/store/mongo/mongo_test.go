// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package mongo

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/v2/bson"

	"nextblog/internal/models"
	"nextblog/internal/store"
)

// testStore starts a throwaway MongoDB container. Tests are skipped when
// no container runtime is available.
func testStore(t *testing.T) *Store {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        "mongo:7",
		ExposedPorts: []string{"27017/tcp"},
		WaitingFor:   wait.ForListeningPort("27017/tcp"),
	}
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { c.Terminate(context.Background()) })

	host, err := c.Host(ctx)
	require.NoError(t, err)
	port, err := c.MappedPort(ctx, "27017")
	require.NoError(t, err)

	s, err := Connect(ctx, fmt.Sprintf("mongodb://%s:%s", host, port.Port()), "nextblog_test")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func newPost(slug string, created time.Time) *models.Post {
	return &models.Post{
		ID:         uuid.New(),
		Title:      slug,
		Slug:       slug,
		Text:       "text of " + slug,
		CategoryID: uuid.New(),
		RSS:        true,
		Created:    created.UTC().Truncate(time.Millisecond),
	}
}

func TestMongoStore(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("insert and find", func(t *testing.T) {
		p := newPost("round-trip", base)
		summary := "sum"
		p.Summary = &summary
		p.Tags = []string{"go"}
		require.NoError(t, s.InsertPost(ctx, p))
		assert.Equal(t, int64(1), p.Version)

		got, err := s.FindPostBySlug(ctx, "round-trip")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, p.ID, got.ID)
		assert.Equal(t, "sum", *got.Summary)
		assert.Equal(t, []string{"go"}, got.Tags)
		assert.True(t, got.Created.Equal(p.Created))

		missing, err := s.FindPostByID(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("duplicate slug", func(t *testing.T) {
		require.NoError(t, s.InsertPost(ctx, newPost("dup", base)))
		err := s.InsertPost(ctx, newPost("dup", base))
		assert.ErrorIs(t, err, models.ErrSlugNotAvailable)
	})

	t.Run("update with version check", func(t *testing.T) {
		p := newPost("versioned", base)
		require.NoError(t, s.InsertPost(ctx, p))

		p.Title = "changed"
		require.NoError(t, s.UpdatePost(ctx, p, 1))
		assert.Equal(t, int64(2), p.Version)

		err := s.UpdatePost(ctx, p, 1)
		assert.ErrorIs(t, err, models.ErrConflict)

		gone := newPost("gone", base)
		err = s.UpdatePost(ctx, gone, 1)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("list masks and sorts", func(t *testing.T) {
		year := 2030
		at := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
		pw := "hash"
		pin := "top"

		a := newPost("list-a", at.Add(time.Hour))
		a.Password = &pw
		b := newPost("list-b", at.Add(2*time.Hour))
		b.Pin = &pin
		c := newPost("list-c", at.Add(3*time.Hour))
		c.Hide = true
		for _, p := range []*models.Post{a, b, c} {
			require.NoError(t, s.InsertPost(ctx, p))
		}

		res, err := s.ListPosts(ctx, store.ListQuery{
			Filter:        store.Filter{Year: &year, ExcludeHidden: true},
			MaskProtected: true,
			Sort: []store.SortKey{
				{Field: store.SortPinRank, NullsLast: true},
				{Field: store.SortPinned, Desc: true},
				{Field: models.FieldCreated, Desc: true},
				{Field: models.FieldID, Desc: true},
			},
			Limit: 10,
		})
		require.NoError(t, err)
		assert.Equal(t, 2, res.Total)
		require.Len(t, res.Items, 2)
		assert.Equal(t, b.ID, res.Items[0].ID)
		assert.Equal(t, a.ID, res.Items[1].ID)
		assert.Equal(t, models.MaskedText, res.Items[1].Text)
		require.NotNil(t, res.Items[1].Summary)
		assert.Equal(t, models.MaskedText, *res.Items[1].Summary)
	})

	t.Run("comments and orphans", func(t *testing.T) {
		p := newPost("commented", base)
		require.NoError(t, s.InsertPost(ctx, p))
		for range 2 {
			require.NoError(t, s.InsertComment(ctx, &models.Comment{
				ID: uuid.New(), Ref: p.ID, RefType: models.CommentRefPost, Text: "hi", Created: base,
			}))
		}

		ok, err := s.DeletePost(ctx, p.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		n, err := s.DeleteOrphanComments(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		left, err := s.comments().CountDocuments(ctx, bson.M{"ref": uuidToStr(p.ID)})
		require.NoError(t, err)
		assert.Zero(t, left)
	})

	t.Run("categories", func(t *testing.T) {
		c1 := &models.Category{ID: uuid.New(), Name: "One", Slug: "one", Created: base}
		require.NoError(t, s.InsertCategory(ctx, c1))

		got, err := s.FindCategoriesByIDs(ctx, []uuid.UUID{c1.ID, uuid.New()})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "one", got[0].Slug)

		n, err := s.CountCategories(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler tests.
// Handlers run against the in-memory store through the real listing
// engine and content service.
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"nextblog/internal/content"
	"nextblog/internal/listing"
	"nextblog/internal/middleware"
	"nextblog/internal/models"
	"nextblog/internal/store/memory"
)

const testToken = "master-token"

type syncRunner struct{}

func (syncRunner) Submit(_ string, fn func(ctx context.Context) error) bool {
	fn(context.Background())
	return true
}

type testEnv struct {
	Store    *memory.MemoryStore
	Category models.Category
	Service  *content.Service
	Handler  http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st := memory.New()
	cat := models.Category{ID: uuid.New(), Name: "Go", Slug: "go", Created: time.Now().UTC()}
	require.NoError(t, st.InsertCategory(context.Background(), &cat))

	svc := content.NewService(st, syncRunner{}, content.Options{PasswordCost: bcrypt.MinCost})
	posts := NewPosts(listing.NewEngine(st, st, listing.Options{}), svc)

	r := chi.NewRouter()
	r.Use(middleware.Master(testToken))
	r.Get("/health", Health(st))
	r.Get("/api/posts", posts.List)
	r.Get("/api/posts/{post}", posts.Get)
	r.Post("/api/posts", posts.Create)
	r.Patch("/api/posts/{post}", posts.Update)
	r.Delete("/api/posts/{post}", posts.Delete)

	return &testEnv{Store: st, Category: cat, Service: svc, Handler: r}
}

// request is a test HTTP call. master adds the bearer token.
type request struct {
	method  string
	path    string
	body    any
	master  bool
	headers map[string]string
}

func (e *testEnv) do(t *testing.T, req request) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	if req.body != nil {
		switch b := req.body.(type) {
		case string:
			body = bytes.NewBufferString(b)
		default:
			data, err := json.Marshal(b)
			require.NoError(t, err)
			body = bytes.NewReader(data)
		}
	}
	r := httptest.NewRequest(req.method, req.path, body)
	if req.master {
		r.Header.Set("Authorization", "Bearer "+testToken)
	}
	for k, v := range req.headers {
		r.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.Handler.ServeHTTP(rec, r)
	return rec
}

// createPost stores a post through the service and returns it.
func (e *testEnv) createPost(t *testing.T, in models.PostInput) *models.Post {
	t.Helper()
	if in.CategoryID == uuid.Nil {
		in.CategoryID = e.Category.ID
	}
	p, err := e.Service.Create(context.Background(), in)
	require.NoError(t, err)
	return p
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"nextblog/internal/listing"
	"nextblog/internal/middleware"
	"nextblog/internal/models"
)

// Listing defaults when the query string omits page or size.
const (
	defaultPage = 1
	defaultSize = 10
)

// PostService is the subset of content.Service the handlers call.
type PostService interface {
	Create(ctx context.Context, in models.PostInput) (*models.Post, error)
	UpdateByID(ctx context.Context, id uuid.UUID, patch models.PostPatch) (*models.Post, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
	GetBySlug(ctx context.Context, slug, password string, privileged bool) (*models.Post, error)
}

// Lister is the subset of listing.Engine the handlers call.
type Lister interface {
	List(ctx context.Context, params listing.ListParams, privileged bool) (*listing.Page, error)
}

// Posts groups the post endpoints.
type Posts struct {
	lister  Lister
	service PostService
}

// NewPosts creates the post handlers.
func NewPosts(lister Lister, service PostService) *Posts {
	return &Posts{lister: lister, service: service}
}

// listResponse is the JSON shape of a listing page. Items carry only the
// projected fields.
type listResponse struct {
	Data       []map[string]any `json:"data"`
	Pagination pagination       `json:"pagination"`
}

type pagination struct {
	Total       int  `json:"total"`
	CurrentPage int  `json:"currentPage"`
	TotalPage   int  `json:"totalPage"`
	Size        int  `json:"size"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

// List handles GET /api/posts.
func (h *Posts) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := listing.ListParams{
		Select:    q.Get("select"),
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
	}

	var ok bool
	if params.Page, ok = intParam(w, q.Get("page"), "page", defaultPage); !ok {
		return
	}
	if params.Size, ok = intParam(w, q.Get("size"), "size", defaultSize); !ok {
		return
	}
	if raw := q.Get("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "year must be an integer")
			return
		}
		params.Year = &year
	}

	page, err := h.lister.List(r.Context(), params, middleware.IsMaster(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	data := make([]map[string]any, 0, len(page.Items))
	for i := range page.Items {
		data = append(data, page.Items[i].Project(page.Fields))
	}
	writeJSON(w, http.StatusOK, listResponse{
		Data: data,
		Pagination: pagination{
			Total:       page.Total,
			CurrentPage: page.Page,
			TotalPage:   page.TotalPages,
			Size:        page.Size,
			HasNextPage: page.HasNext,
			HasPrevPage: page.HasPrev,
		},
	})
}

// Get handles GET /api/posts/{slug}. A protected post is unlocked by the
// X-Post-Password header.
func (h *Posts) Get(w http.ResponseWriter, r *http.Request) {
	master := middleware.IsMaster(r.Context())
	password := r.Header.Get(middleware.PostPasswordHeader)

	p, err := h.service.GetBySlug(r.Context(), chi.URLParam(r, "post"), password, master)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p.Project(visibleFields(master)))
}

// Create handles POST /api/posts.
func (h *Posts) Create(w http.ResponseWriter, r *http.Request) {
	var in models.PostInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if msg := validateInput(in); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	p, err := h.service.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/posts/"+p.Slug)
	w.Header().Set("ETag", etag(p.Version))
	writeJSON(w, http.StatusCreated, p.Project(visibleFields(true)))
}

// Update handles PATCH /api/posts/{id}. The expected version comes from
// the body or, failing that, from an If-Match header.
func (h *Posts) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var patch models.PostPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	if patch.Version == nil {
		if v, ok := parseETag(r.Header.Get("If-Match")); ok {
			patch.Version = &v
		}
	}
	if msg := validatePatch(patch); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	p, err := h.service.UpdateByID(r.Context(), id, patch)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.Header().Set("ETag", etag(p.Version))
	writeJSON(w, http.StatusOK, p.Project(visibleFields(true)))
}

// Delete handles DELETE /api/posts/{id}.
func (h *Posts) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteByID(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// visibleFields is every post field for the master and every non-internal
// field otherwise.
func visibleFields(master bool) []string {
	out := make([]string, 0, len(models.PostFields))
	for _, f := range models.PostFields {
		if !master && models.IsInternalField(f) {
			continue
		}
		out = append(out, f)
	}
	return out
}

func intParam(w http.ResponseWriter, raw, name string, fallback int) (int, bool) {
	if raw == "" {
		return fallback, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, name+" must be an integer")
		return 0, false
	}
	return n, true
}

func idParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "post"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid post id")
		return uuid.Nil, false
	}
	return id, true
}

func etag(version int64) string {
	return `"` + strconv.FormatInt(version, 10) + `"`
}

func parseETag(h string) (int64, bool) {
	h = strings.TrimPrefix(strings.TrimSpace(h), "W/")
	h = strings.Trim(h, `"`)
	if h == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(h, 10, 64)
	return v, err == nil
}

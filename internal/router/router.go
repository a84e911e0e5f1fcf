// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up the HTTP routes and middleware chains of the
// nextblog API. Reads are public; mutations require the master token.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"nextblog/internal/handlers"
	"nextblog/internal/middleware"
)

// Deps are the handlers and middleware the router wires together.
type Deps struct {
	Posts       *handlers.Posts
	Store       handlers.Pinger
	MasterToken string
	// Unlock, when set, limits password attempts on single post reads.
	Unlock *middleware.RateLimiter
}

// New creates the configured Chi router.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Master(d.MasterToken))
	r.Use(middleware.Logger)
	r.Use(middleware.APIHeaders)

	r.Get("/health", handlers.Health(d.Store))

	r.Route("/api/posts", func(r chi.Router) {
		r.Get("/", d.Posts.List)

		r.Group(func(r chi.Router) {
			if d.Unlock != nil {
				r.Use(d.Unlock.Middleware)
			}
			r.Get("/{post}", d.Posts.Get)
		})

		// Master-only mutations.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireMaster)
			r.Post("/", d.Posts.Create)
			r.Patch("/{post}", d.Posts.Update)
			r.Delete("/{post}", d.Posts.Delete)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"not found"}`))
	})

	return r
}

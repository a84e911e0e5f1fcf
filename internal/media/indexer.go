// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package media records metadata about the images a post references.
// It runs as a background task after a post is written and never
// reports failures to the writer.
package media

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"nextblog/internal/imaging"
	"nextblog/internal/markdown"
	"nextblog/internal/models"
	"nextblog/internal/store"
)

// Config holds indexer configuration.
type Config struct {
	FetchTimeout time.Duration // per image
	MaxBytes     int64         // read limit per image
	Parallel     int           // concurrent fetches per post
}

// Indexer fetches the images referenced by a post and stores their
// dimensions on the post.
type Indexer struct {
	posts  store.PostStore
	client *http.Client
	cfg    Config
}

// NewIndexer creates an Indexer. A nil client uses a default one with the
// configured fetch timeout.
func NewIndexer(posts store.PostStore, client *http.Client, cfg Config) *Indexer {
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 10 * time.Second
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = 8 << 20
	}
	if cfg.Parallel <= 0 {
		cfg.Parallel = 4
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.FetchTimeout}
	}
	return &Indexer{posts: posts, client: client, cfg: cfg}
}

// IndexPost refreshes the image metadata of one post. Images already
// resolved on a previous run are not fetched again. Images that cannot
// be fetched or decoded are recorded with their source only.
func (ix *Indexer) IndexPost(ctx context.Context, id uuid.UUID) error {
	p, err := ix.posts.FindPostByID(ctx, id)
	if err != nil {
		return fmt.Errorf("index post %s: %w", id, err)
	}
	if p == nil {
		slog.Debug("post vanished before indexing", "post_id", id)
		return nil
	}

	known := make(map[string]models.ImageMeta, len(p.Images))
	for _, im := range p.Images {
		if im.IsResolved() {
			known[im.Src] = im
		}
	}

	urls := markdown.ImageURLs(p.Text)
	metas := make([]models.ImageMeta, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ix.cfg.Parallel)
	for i, src := range urls {
		if im, ok := known[src]; ok {
			metas[i] = im
			continue
		}
		metas[i] = models.ImageMeta{Src: src}
		if !fetchable(src) {
			continue
		}
		g.Go(func() error {
			info, err := ix.probe(gctx, src)
			if err != nil {
				slog.Warn("image probe failed", "post_id", id, "src", src, "error", err)
				return nil
			}
			metas[i] = models.ImageMeta{Src: src, Width: info.Width, Height: info.Height, Type: "image/" + info.Format}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("index post %s: %w", id, err)
	}

	if err := ix.posts.SetPostImages(ctx, id, metas); err != nil {
		return fmt.Errorf("index post %s: %w", id, err)
	}
	slog.Debug("post images indexed", "post_id", id, "images", len(metas))
	return nil
}

func (ix *Indexer) probe(ctx context.Context, src string) (imaging.Info, error) {
	ctx, cancel := context.WithTimeout(ctx, ix.cfg.FetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return imaging.Info{}, fmt.Errorf("build request: %w", err)
	}
	resp, err := ix.client.Do(req)
	if err != nil {
		return imaging.Info{}, fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return imaging.Info{}, fmt.Errorf("fetch image: status %d", resp.StatusCode)
	}
	return imaging.Probe(io.LimitReader(resp.Body, ix.cfg.MaxBytes))
}

// fetchable reports whether src is an absolute http(s) URL.
func fetchable(src string) bool {
	u, err := url.Parse(src)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"nextblog/internal/models"
	"nextblog/internal/store"
)

// Seed data written into an empty store.
const (
	defaultCategoryName = "Default"
	defaultCategorySlug = "default"
	welcomeTitle        = "Welcome to nextblog"
	welcomeSlug         = "welcome-to-nextblog"
	welcomeText         = "Welcome to nextblog. If you can read this post, the blog is installed and running."
	welcomeAuthor       = "nextblog"
	welcomeComment      = "This is the first comment. Deleting the post removes it too."
)

// Seed creates a default category and a welcome post with one comment
// when the store has none. It is safe to call on every start.
func (s *Service) Seed(ctx context.Context) error {
	n, err := s.store.CountCategories(ctx)
	if err != nil {
		return fmt.Errorf("seed check categories: %w", err)
	}
	if n > 0 {
		slog.Info("store already seeded, skipping")
		return nil
	}

	cat := &models.Category{
		ID:      uuid.New(),
		Name:    defaultCategoryName,
		Slug:    defaultCategorySlug,
		Created: s.now(),
	}
	if err := s.store.InsertCategory(ctx, cat); err != nil {
		return fmt.Errorf("seed insert category: %w", err)
	}

	posts, err := s.store.CountPosts(ctx, store.Filter{})
	if err != nil {
		return fmt.Errorf("seed check posts: %w", err)
	}
	if posts > 0 {
		return nil
	}

	summary := welcomeTitle
	p, err := s.Create(ctx, models.PostInput{
		Title:      welcomeTitle,
		Slug:       welcomeSlug,
		Text:       welcomeText,
		Summary:    &summary,
		CategoryID: cat.ID,
	})
	if err != nil {
		return fmt.Errorf("seed insert welcome post: %w", err)
	}

	if err := s.store.InsertComment(ctx, &models.Comment{
		ID:      uuid.New(),
		Ref:     p.ID,
		RefType: models.CommentRefPost,
		Author:  welcomeAuthor,
		Text:    welcomeComment,
		Created: s.now(),
	}); err != nil {
		return fmt.Errorf("seed insert welcome comment: %w", err)
	}

	slog.Info("store seeded", "category", cat.Slug, "post", p.Slug)
	return nil
}

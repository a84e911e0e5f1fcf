// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// MaskedText replaces the text and summary of password-protected posts
// shown to callers that are not the blog master.
const MaskedText = "content hidden, password required"

// ViewCount holds the externally maintained read/like counters of a post.
type ViewCount struct {
	Read int64 `json:"read"`
	Like int64 `json:"like"`
}

// Post is a listable content item. Category is never persisted; it is
// populated by the listing join from CategoryID.
type Post struct {
	ID         uuid.UUID   `json:"id"`
	Title      string      `json:"title"`
	Slug       string      `json:"slug"`
	Text       string      `json:"text"`
	Summary    *string     `json:"summary,omitempty"`
	CategoryID uuid.UUID   `json:"categoryId"`
	Category   *Category   `json:"category"`
	Tags       []string    `json:"tags,omitempty"`
	Hide       bool        `json:"hide"`
	Password   *string     `json:"password,omitempty"` // bcrypt hash
	RSS        bool        `json:"rss"`
	Pin        *string     `json:"pin,omitempty"`
	PinOrder   int         `json:"pinOrder"`
	Created    time.Time   `json:"created"`
	Modified   *time.Time  `json:"modified"`
	Count      ViewCount   `json:"count"`
	Images     []ImageMeta `json:"images,omitempty"`
	Version    int64       `json:"version"`
}

// IsProtected reports whether the post requires a password to be read.
func (p *Post) IsProtected() bool {
	return p.Password != nil && *p.Password != ""
}

// IsPinned reports whether the post carries a pin tag.
func (p *Post) IsPinned() bool {
	return p.Pin != nil
}

// PostInput carries the caller-supplied fields of a new post. Password is
// plain text here and hashed before it reaches the store.
type PostInput struct {
	Title      string    `json:"title"`
	Slug       string    `json:"slug"`
	Text       string    `json:"text"`
	Summary    *string   `json:"summary"`
	CategoryID uuid.UUID `json:"categoryId"`
	Tags       []string  `json:"tags"`
	Hide       bool      `json:"hide"`
	Password   *string   `json:"password"`
	RSS        *bool     `json:"rss"`
	Pin        *string   `json:"pin"`
	PinOrder   int       `json:"pinOrder"`
}

// PostPatch is a partial update. Nil fields are left untouched. Keys that
// are not listed here (id, created, modified, count, images) cannot be
// changed by a patch. An empty Password removes the protection; an empty
// Pin unpins the post.
type PostPatch struct {
	Title      *string    `json:"title"`
	Slug       *string    `json:"slug"`
	Text       *string    `json:"text"`
	Summary    *string    `json:"summary"`
	CategoryID *uuid.UUID `json:"categoryId"`
	Tags       *[]string  `json:"tags"`
	Hide       *bool      `json:"hide"`
	Password   *string    `json:"password"`
	RSS        *bool      `json:"rss"`
	Pin        *string    `json:"pin"`
	PinOrder   *int       `json:"pinOrder"`

	// Version, when set, must match the stored version or the update is
	// rejected with ErrConflict.
	Version *int64 `json:"version"`
}

// Mask replaces the text and summary with MaskedText. A missing summary
// is masked too so callers cannot tell whether one exists.
func (p *Post) Mask() {
	p.Text = MaskedText
	masked := MaskedText
	p.Summary = &masked
}

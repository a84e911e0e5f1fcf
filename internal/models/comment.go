// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// CommentRefType names the kind of item a comment is attached to.
type CommentRefType string

const (
	CommentRefPost CommentRefType = "post"
	CommentRefPage CommentRefType = "page"
)

// Comment is a reader comment attached to a post. Comments are deleted
// together with the post they reference.
type Comment struct {
	ID      uuid.UUID      `json:"id"`
	Ref     uuid.UUID      `json:"ref"`
	RefType CommentRefType `json:"refType"`
	Author  string         `json:"author"`
	Text    string         `json:"text"`
	Created time.Time      `json:"created"`
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "errors"

// Error kinds shared by the listing engine, the mutation service and the
// stores. Callers match them with errors.Is; messages are wrapped with
// context at every layer.
var (
	ErrValidation       = errors.New("invalid argument")
	ErrNotFound         = errors.New("not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrSlugNotAvailable = errors.New("slug already in use")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrConflict         = errors.New("stale version")
	ErrPartialDelete    = errors.New("post deleted but comment cleanup failed")
	ErrWrongPassword    = errors.New("wrong post password")
)

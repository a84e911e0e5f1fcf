// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package listing paginates posts for public and master callers. It
// decides visibility and masking, guards field projection, resolves the
// sort order and attaches categories to each result page.
package listing

import "nextblog/internal/models"

// IsVisible reports whether p may appear in a listing for the caller.
// Hidden posts are only visible to the master.
func IsVisible(p *models.Post, privileged bool) bool {
	return privileged || !p.Hide
}

// MaskIfNeeded returns p with text and summary replaced by
// models.MaskedText when p is protected and the caller is not the master.
// Masking does not depend on Hide.
func MaskIfNeeded(p models.Post, privileged bool) models.Post {
	if privileged || !p.IsProtected() {
		return p
	}
	p.Mask()
	return p
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "strings"

// ImageMeta describes an image referenced from a post's text. It is
// recorded asynchronously after the post is written.
type ImageMeta struct {
	Src    string `json:"src"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Type   string `json:"type"` // MIME type, e.g. "image/png"
}

// IsResolved reports whether the image dimensions were measured.
func (m *ImageMeta) IsResolved() bool {
	return m.Width > 0 && m.Height > 0 && strings.HasPrefix(m.Type, "image/")
}

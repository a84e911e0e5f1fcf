// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package imaging reads image headers to learn dimensions and format
// without decoding pixel data. PNG, JPEG, GIF, WebP and BMP are
// understood.
package imaging

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // GIF decoder
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"io"

	_ "golang.org/x/image/bmp"  // BMP decoder
	_ "golang.org/x/image/webp" // WebP decoder
)

// ErrUnsupported is returned for data that is not a known image format.
var ErrUnsupported = errors.New("imaging: unsupported image format")

// Info describes an image header.
type Info struct {
	Width  int
	Height int
	Format string // e.g. "png", "jpeg", "webp"
}

// Probe reads just enough of r to report the image dimensions.
func Probe(r io.Reader) (Info, error) {
	cfg, format, err := image.DecodeConfig(r)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return Info{}, ErrUnsupported
		}
		return Info{}, fmt.Errorf("imaging: probe failed: %w", err)
	}
	return Info{Width: cfg.Width, Height: cfg.Height, Format: format}, nil
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package listing

import (
	"fmt"
	"slices"
	"strings"

	"nextblog/internal/models"
)

// Projection is the resolved, ordered set of fields returned to a caller.
type Projection struct {
	Fields []string
}

// Has reports whether field is part of the projection.
func (p Projection) Has(field string) bool {
	return slices.Contains(p.Fields, field)
}

// ParseFields splits a caller-supplied select string on spaces and
// commas. Empty segments are dropped.
func ParseFields(sel string) []string {
	return strings.FieldsFunc(sel, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t'
	})
}

// DefaultProjection is used when the caller selects nothing. The master
// sees every field; everyone else loses the internal ones.
func DefaultProjection(privileged bool) Projection {
	fields := make([]string, 0, len(models.PostFields))
	for _, f := range models.PostFields {
		if !privileged && models.IsInternalField(f) {
			continue
		}
		fields = append(fields, f)
	}
	return Projection{Fields: fields}
}

// ResolveProjection turns a requested allow-list into a projection.
// Unknown names fail with models.ErrValidation. Internal fields requested
// by a non-master caller are dropped silently. If nothing selectable
// remains the default projection applies. id is always included.
func ResolveProjection(requested []string, privileged bool) (Projection, error) {
	if len(requested) == 0 {
		return DefaultProjection(privileged), nil
	}

	want := make(map[string]bool, len(requested))
	for _, name := range requested {
		if !models.IsPostField(name) {
			return Projection{}, fmt.Errorf("unknown field %q: %w", name, models.ErrValidation)
		}
		if !privileged && models.IsInternalField(name) {
			continue
		}
		want[name] = true
	}
	if len(want) == 0 {
		return DefaultProjection(privileged), nil
	}
	want[models.FieldID] = true

	// Emit in schema order so the output shape is stable.
	fields := make([]string, 0, len(want))
	for _, f := range models.PostFields {
		if want[f] {
			fields = append(fields, f)
		}
	}
	return Projection{Fields: fields}, nil
}

// apply zeroes every field of p that is not in the projection. id is
// never cleared.
func (p Projection) apply(post *models.Post) {
	keep := func(f string) bool { return p.Has(f) }
	if !keep(models.FieldTitle) {
		post.Title = ""
	}
	if !keep(models.FieldSlug) {
		post.Slug = ""
	}
	if !keep(models.FieldText) {
		post.Text = ""
	}
	if !keep(models.FieldSummary) {
		post.Summary = nil
	}
	if !keep(models.FieldCategory) {
		post.Category = nil
	}
	if !keep(models.FieldTags) {
		post.Tags = nil
	}
	if !keep(models.FieldHide) {
		post.Hide = false
	}
	if !keep(models.FieldPassword) {
		post.Password = nil
	}
	if !keep(models.FieldRSS) {
		post.RSS = false
	}
	if !keep(models.FieldPin) {
		post.Pin = nil
	}
	if !keep(models.FieldPinOrder) {
		post.PinOrder = 0
	}
	if !keep(models.FieldModified) {
		post.Modified = nil
	}
	if !keep(models.FieldCount) {
		post.Count = models.ViewCount{}
	}
	if !keep(models.FieldImages) {
		post.Images = nil
	}
}

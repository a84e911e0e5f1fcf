// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// Post field names as exposed to callers. These are the only names
// accepted by field selection and explicit sorting.
const (
	FieldID         = "id"
	FieldTitle      = "title"
	FieldSlug       = "slug"
	FieldText       = "text"
	FieldSummary    = "summary"
	FieldCategoryID = "categoryId"
	FieldCategory   = "category"
	FieldTags       = "tags"
	FieldHide       = "hide"
	FieldPassword   = "password"
	FieldRSS        = "rss"
	FieldPin        = "pin"
	FieldPinOrder   = "pinOrder"
	FieldCreated    = "created"
	FieldModified   = "modified"
	FieldCount      = "count"
	FieldImages     = "images"
)

// PostFields lists every selectable post field in output order.
var PostFields = []string{
	FieldID, FieldTitle, FieldSlug, FieldText, FieldSummary,
	FieldCategoryID, FieldCategory, FieldTags, FieldHide, FieldPassword,
	FieldRSS, FieldPin, FieldPinOrder, FieldCreated, FieldModified,
	FieldCount, FieldImages,
}

// InternalFields are hidden from callers that are not the blog master,
// even when requested explicitly.
var InternalFields = []string{FieldHide, FieldPassword, FieldRSS}

// IsPostField reports whether name is a known post field.
func IsPostField(name string) bool {
	for _, f := range PostFields {
		if f == name {
			return true
		}
	}
	return false
}

// IsInternalField reports whether name is one of InternalFields.
func IsInternalField(name string) bool {
	for _, f := range InternalFields {
		if f == name {
			return true
		}
	}
	return false
}

// Project returns the post as a map holding only the given fields, in
// the shape used for JSON responses.
func (p *Post) Project(fields []string) map[string]any {
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		switch f {
		case FieldID:
			out[f] = p.ID
		case FieldTitle:
			out[f] = p.Title
		case FieldSlug:
			out[f] = p.Slug
		case FieldText:
			out[f] = p.Text
		case FieldSummary:
			out[f] = p.Summary
		case FieldCategoryID:
			out[f] = p.CategoryID
		case FieldCategory:
			out[f] = p.Category
		case FieldTags:
			out[f] = p.Tags
		case FieldHide:
			out[f] = p.Hide
		case FieldPassword:
			// Only whether a password is set; the hash stays on the server.
			out[f] = p.IsProtected()
		case FieldRSS:
			out[f] = p.RSS
		case FieldPin:
			out[f] = p.Pin
		case FieldPinOrder:
			out[f] = p.PinOrder
		case FieldCreated:
			out[f] = p.Created
		case FieldModified:
			out[f] = p.Modified
		case FieldCount:
			out[f] = p.Count
		case FieldImages:
			out[f] = p.Images
		}
	}
	return out
}

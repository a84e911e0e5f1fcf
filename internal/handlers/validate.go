// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"strings"
	"unicode/utf8"

	"nextblog/internal/models"
)

// Validation limits for post fields.
const (
	maxTitleLen    = 300
	maxSlugLen     = 300
	maxTextLen     = 100_000
	maxSummaryLen  = 1_000
	maxTags        = 30
	maxTagLen      = 50
	maxPinLen      = 50
	maxPasswordLen = 72 // bcrypt ignores anything beyond
)

// validateInput checks a new post and returns the first problem found.
// Required fields and slug rules are enforced by the content service.
func validateInput(in models.PostInput) string {
	if utf8.RuneCountInString(in.Title) > maxTitleLen {
		return "title is too long (max 300 characters)"
	}
	if msg := validateFields(&in.Slug, &in.Text, in.Summary, &in.Tags, in.Password, in.Pin); msg != "" {
		return msg
	}
	return ""
}

// validatePatch checks a partial update.
func validatePatch(p models.PostPatch) string {
	if p.Title != nil {
		if strings.TrimSpace(*p.Title) == "" {
			return "title cannot be empty"
		}
		if utf8.RuneCountInString(*p.Title) > maxTitleLen {
			return "title is too long (max 300 characters)"
		}
	}
	return validateFields(p.Slug, p.Text, p.Summary, p.Tags, p.Password, p.Pin)
}

func validateFields(slug, text, summary *string, tags *[]string, password, pin *string) string {
	if slug != nil && utf8.RuneCountInString(*slug) > maxSlugLen {
		return "slug is too long (max 300 characters)"
	}
	if text != nil && utf8.RuneCountInString(*text) > maxTextLen {
		return "text is too long (max 100,000 characters)"
	}
	if summary != nil && utf8.RuneCountInString(*summary) > maxSummaryLen {
		return "summary is too long (max 1,000 characters)"
	}
	if tags != nil {
		if len(*tags) > maxTags {
			return "too many tags (max 30)"
		}
		for _, tag := range *tags {
			if utf8.RuneCountInString(tag) > maxTagLen {
				return "tag is too long (max 50 characters)"
			}
		}
	}
	if password != nil && len(*password) > maxPasswordLen {
		return "password is too long (max 72 bytes)"
	}
	if pin != nil && utf8.RuneCountInString(*pin) > maxPinLen {
		return "pin is too long (max 50 characters)"
	}
	return ""
}

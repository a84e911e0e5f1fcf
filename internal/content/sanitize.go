// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Titles, tags and pin labels are rendered as plain text by every client,
// so markup is stripped from them. Post text and summary are Markdown and
// are stored untouched.
var plainPolicy = bluemonday.StrictPolicy()

// plainText removes every HTML element from s. StrictPolicy escapes the
// text it keeps, which is undone so "Q&A" survives unchanged.
func plainText(s string) string {
	return strings.TrimSpace(html.UnescapeString(plainPolicy.Sanitize(s)))
}

// plainTags strips markup from each tag and drops tags left empty.
func plainTags(tags []string) []string {
	if tags == nil {
		return nil
	}
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = plainText(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

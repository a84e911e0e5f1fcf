// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package markdown inspects post bodies written in Markdown. Posts may
// embed raw HTML, so image references are collected from both Markdown
// image nodes and inline or block <img> tags.
package markdown

import (
	"regexp"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// md is the configured goldmark instance, reused across calls.
var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// imgSrc matches the src attribute of an HTML img tag.
var imgSrc = regexp.MustCompile(`(?i)<img\b[^>]*?\bsrc\s*=\s*["']([^"']+)["']`)

// ImageURLs returns the distinct image URLs referenced by source in
// document order.
func ImageURLs(source string) []string {
	src := []byte(source)
	doc := md.Parser().Parse(text.NewReader(src))

	var urls []string
	seen := make(map[string]bool)
	add := func(u string) {
		if u == "" || seen[u] {
			return
		}
		seen[u] = true
		urls = append(urls, u)
	}

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Image:
			add(string(node.Destination))
		case *ast.RawHTML:
			for i := 0; i < node.Segments.Len(); i++ {
				seg := node.Segments.At(i)
				for _, m := range imgSrc.FindAllSubmatch(seg.Value(src), -1) {
					add(string(m[1]))
				}
			}
		case *ast.HTMLBlock:
			lines := node.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				for _, m := range imgSrc.FindAllSubmatch(seg.Value(src), -1) {
					add(string(m[1]))
				}
			}
		}
		return ast.WalkContinue, nil
	})
	return urls
}

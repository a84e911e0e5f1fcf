// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package mongo

import (
	"time"

	"github.com/google/uuid"

	"nextblog/internal/models"
)

// Documents store ids as canonical UUID strings, so ordering by _id
// matches ordering by the id bytes. Nullable fields are stored as null
// rather than omitted; the pipeline tests them with $ifNull.

type countDoc struct {
	Read int64 `bson:"read"`
	Like int64 `bson:"like"`
}

type imageDoc struct {
	Src    string `bson:"src"`
	Width  int    `bson:"width"`
	Height int    `bson:"height"`
	Type   string `bson:"type"`
}

type postDoc struct {
	ID         string     `bson:"_id"`
	Title      string     `bson:"title"`
	Slug       string     `bson:"slug"`
	Text       string     `bson:"text"`
	Summary    *string    `bson:"summary"`
	CategoryID string     `bson:"categoryId"`
	Tags       []string   `bson:"tags"`
	Hide       bool       `bson:"hide"`
	Password   *string    `bson:"password"`
	RSS        bool       `bson:"rss"`
	Pin        *string    `bson:"pin"`
	PinOrder   int        `bson:"pinOrder"`
	Created    time.Time  `bson:"created"`
	Modified   *time.Time `bson:"modified"`
	Count      countDoc   `bson:"count"`
	Images     []imageDoc `bson:"images"`
	Version    int64      `bson:"version"`
}

type categoryDoc struct {
	ID      string    `bson:"_id"`
	Name    string    `bson:"name"`
	Slug    string    `bson:"slug"`
	Created time.Time `bson:"created"`
}

type commentDoc struct {
	ID      string    `bson:"_id"`
	Ref     string    `bson:"ref"`
	RefType string    `bson:"refType"`
	Author  string    `bson:"author"`
	Text    string    `bson:"text"`
	Created time.Time `bson:"created"`
}

func uuidToStr(id uuid.UUID) string { return id.String() }
func strToUUID(s string) uuid.UUID  { u, _ := uuid.Parse(s); return u }

func toPostDoc(p *models.Post) postDoc {
	d := postDoc{
		ID:         uuidToStr(p.ID),
		Title:      p.Title,
		Slug:       p.Slug,
		Text:       p.Text,
		Summary:    p.Summary,
		CategoryID: uuidToStr(p.CategoryID),
		Tags:       p.Tags,
		Hide:       p.Hide,
		Password:   p.Password,
		RSS:        p.RSS,
		Pin:        p.Pin,
		PinOrder:   p.PinOrder,
		Created:    p.Created,
		Modified:   p.Modified,
		Count:      countDoc{Read: p.Count.Read, Like: p.Count.Like},
		Images:     toImageDocs(p.Images),
		Version:    p.Version,
	}
	if d.Tags == nil {
		d.Tags = []string{}
	}
	return d
}

func (d *postDoc) toModel() models.Post {
	p := models.Post{
		ID:         strToUUID(d.ID),
		Title:      d.Title,
		Slug:       d.Slug,
		Text:       d.Text,
		Summary:    d.Summary,
		CategoryID: strToUUID(d.CategoryID),
		Hide:       d.Hide,
		Password:   d.Password,
		RSS:        d.RSS,
		Pin:        d.Pin,
		PinOrder:   d.PinOrder,
		Created:    d.Created.UTC(),
		Count:      models.ViewCount{Read: d.Count.Read, Like: d.Count.Like},
		Version:    d.Version,
	}
	if len(d.Tags) > 0 {
		p.Tags = d.Tags
	}
	if d.Modified != nil {
		m := d.Modified.UTC()
		p.Modified = &m
	}
	for _, im := range d.Images {
		p.Images = append(p.Images, models.ImageMeta{Src: im.Src, Width: im.Width, Height: im.Height, Type: im.Type})
	}
	return p
}

func toImageDocs(images []models.ImageMeta) []imageDoc {
	out := make([]imageDoc, 0, len(images))
	for _, im := range images {
		out = append(out, imageDoc{Src: im.Src, Width: im.Width, Height: im.Height, Type: im.Type})
	}
	return out
}

func (d *categoryDoc) toModel() models.Category {
	return models.Category{ID: strToUUID(d.ID), Name: d.Name, Slug: d.Slug, Created: d.Created.UTC()}
}

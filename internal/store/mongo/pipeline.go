// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package mongo

import (
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"nextblog/internal/models"
	"nextblog/internal/store"
)

// Helper fields added for sorting and removed before results leave the
// pipeline.
const (
	fieldPinRank     = "_pinRank"
	fieldPinRankNull = "_pinRankNull"
	fieldPinned      = "_pinned"
	fieldModNull     = "_modifiedNull"
)

// sortPaths maps sort fields to document paths.
var sortPaths = map[string]string{
	models.FieldID:       "_id",
	models.FieldTitle:    "title",
	models.FieldSlug:     "slug",
	models.FieldCreated:  "created",
	models.FieldModified: "modified",
	models.FieldPinOrder: "pinOrder",
	store.SortPinRank:    fieldPinRank,
	store.SortPinned:     fieldPinned,
	store.SortRead:       "count.read",
	store.SortLike:       "count.like",
}

// nullFlags holds, for fields that can be null, the helper field that is
// 1 when the value is missing.
var nullFlags = map[string]string{
	store.SortPinRank:    fieldPinRankNull,
	models.FieldModified: fieldModNull,
}

func isSet(path string) bson.M {
	return bson.M{"$ne": bson.A{bson.M{"$ifNull": bson.A{path, nil}}, nil}}
}

// protectedExpr is true for documents with a non-empty password.
var protectedExpr = bson.M{"$ne": bson.A{bson.M{"$ifNull": bson.A{"$password", ""}}, ""}}

// filterDoc renders f as a $match document.
func filterDoc(f store.Filter) bson.D {
	m := bson.D{}
	if from, to, ok := f.YearRange(); ok {
		m = append(m, bson.E{Key: "created", Value: bson.M{"$gte": from, "$lt": to}})
	}
	if f.ExcludeHidden {
		m = append(m, bson.E{Key: "hide", Value: bson.M{"$ne": true}})
	}
	if f.Slug != "" {
		m = append(m, bson.E{Key: "slug", Value: f.Slug})
	}
	if f.ExcludeID != uuid.Nil {
		m = append(m, bson.E{Key: "_id", Value: bson.M{"$ne": uuidToStr(f.ExcludeID)}})
	}
	return m
}

// listPipeline builds the aggregation for q: match, mask, add sort
// helpers, sort, skip, limit, drop helpers.
func listPipeline(q store.ListQuery) (mongo.Pipeline, error) {
	p := mongo.Pipeline{
		{{Key: "$match", Value: filterDoc(q.Filter)}},
	}

	if q.MaskProtected {
		p = append(p, bson.D{{Key: "$set", Value: bson.M{
			"text": bson.M{"$cond": bson.A{protectedExpr, models.MaskedText, "$text"}},
			"summary": bson.M{"$cond": bson.A{protectedExpr, models.MaskedText, "$summary"}},
		}}})
	}

	pinned := isSet("$pin")
	p = append(p, bson.D{{Key: "$addFields", Value: bson.M{
		fieldPinned:      bson.M{"$cond": bson.A{pinned, 1, 0}},
		fieldPinRank:     bson.M{"$cond": bson.A{pinned, "$pinOrder", nil}},
		fieldPinRankNull: bson.M{"$cond": bson.A{pinned, 0, 1}},
		fieldModNull:     bson.M{"$cond": bson.A{isSet("$modified"), 0, 1}},
	}}})

	sortDoc := bson.D{}
	for _, k := range q.Sort {
		path, ok := sortPaths[k.Field]
		if !ok {
			return nil, fmt.Errorf("sort by %q: %w", k.Field, models.ErrValidation)
		}
		if flag, ok := nullFlags[k.Field]; ok && k.NullsLast {
			sortDoc = append(sortDoc, bson.E{Key: flag, Value: 1})
		}
		dir := 1
		if k.Desc {
			dir = -1
		}
		sortDoc = append(sortDoc, bson.E{Key: path, Value: dir})
	}
	if len(sortDoc) > 0 {
		p = append(p, bson.D{{Key: "$sort", Value: sortDoc}})
	}

	if q.Skip > 0 {
		p = append(p, bson.D{{Key: "$skip", Value: int64(q.Skip)}})
	}
	if q.Limit > 0 {
		p = append(p, bson.D{{Key: "$limit", Value: int64(q.Limit)}})
	}

	p = append(p, bson.D{{Key: "$unset", Value: bson.A{fieldPinned, fieldPinRank, fieldPinRankNull, fieldModNull}}})
	return p, nil
}

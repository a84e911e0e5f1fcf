// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nextblog/internal/models"
	"nextblog/internal/store"
)

func TestEffectiveSort_Default(t *testing.T) {
	keys, err := EffectiveSort("", "", false)
	require.NoError(t, err)
	assert.Equal(t, DefaultSort, keys)
}

func TestEffectiveSort_Explicit(t *testing.T) {
	tests := []struct {
		sortBy, order string
		legacy        bool
		want          []store.SortKey
	}{
		{"created", "asc", false, []store.SortKey{{Field: "created"}, {Field: "id"}}},
		{"created", "-1", false, []store.SortKey{{Field: "created", Desc: true}, {Field: "id", Desc: true}}},
		{"title", "1", true, []store.SortKey{{Field: "title"}}},
		{"modified", "", false, []store.SortKey{{Field: "modified", Desc: true, NullsLast: true}, {Field: "id", Desc: true}}},
		{"count.read", "DESC", true, []store.SortKey{{Field: store.SortRead, Desc: true}}},
	}
	for _, tt := range tests {
		t.Run(tt.sortBy+"/"+tt.order, func(t *testing.T) {
			got, err := EffectiveSort(tt.sortBy, tt.order, tt.legacy)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEffectiveSort_Invalid(t *testing.T) {
	_, err := EffectiveSort("password", "asc", false)
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = EffectiveSort("created", "sideways", false)
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = EffectiveSort("", "asc", false)
	assert.ErrorIs(t, err, models.ErrValidation)
}

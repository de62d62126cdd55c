package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePage(t *testing.T) {
	cases := map[string]int{
		"":                      1,
		"abc":                   1,
		"2.5":                   1,
		"1":                     1,
		"7":                     7,
		" 7 ":                   7,
		"0":                     0,
		"-3":                    -3,
		"99999999999999999999":  math.MaxInt,
		"-99999999999999999999": math.MinInt,
	}
	for raw, want := range cases {
		assert.Equal(t, want, ParsePage(raw), "raw=%q", raw)
	}
}

func TestParsedPageClampsToLast(t *testing.T) {
	for _, raw := range []string{"4", "0", "-1", "99999999999999999999", "-99999999999999999999"} {
		m := Paginate(23, 10, ParsePage(raw))
		assert.Equal(t, 3, m.Number, "raw=%q", raw)
		assert.Equal(t, 20, m.Offset(), "raw=%q", raw)
	}
	for _, raw := range []string{"", "abc", "1.5"} {
		assert.Equal(t, 1, Paginate(23, 10, ParsePage(raw)).Number, "raw=%q", raw)
	}
}

func TestPaginate(t *testing.T) {
	t.Run("23 items in pages of 10", func(t *testing.T) {
		first := Paginate(23, 10, 1)
		assert.Equal(t, 3, first.NumPages)
		assert.Equal(t, 0, first.Offset())
		assert.False(t, first.HasPrevious)
		assert.True(t, first.HasNext)
		assert.Equal(t, 2, first.NextPage)

		last := Paginate(23, 10, 3)
		assert.Equal(t, 20, last.Offset())
		assert.True(t, last.HasPrevious)
		assert.False(t, last.HasNext)
		assert.Equal(t, 2, last.PreviousPage)
	})

	t.Run("past the end clamps to last page", func(t *testing.T) {
		assert.Equal(t, Paginate(23, 10, 3), Paginate(23, 10, 4))
		assert.Equal(t, 3, Paginate(23, 10, 999).Number)
	})

	t.Run("below one clamps to last page", func(t *testing.T) {
		assert.Equal(t, Paginate(23, 10, 3), Paginate(23, 10, 0))
		assert.Equal(t, Paginate(23, 10, 3), Paginate(23, 10, -5))
	})

	t.Run("empty set has one empty page", func(t *testing.T) {
		m := Paginate(0, 10, 5)
		assert.Equal(t, 1, m.Number)
		assert.Equal(t, 1, m.NumPages)
		assert.Equal(t, 0, m.Offset())
		assert.False(t, m.HasNext)
		assert.False(t, m.HasPrevious)
	})

	t.Run("exact multiple", func(t *testing.T) {
		assert.Equal(t, 2, Paginate(20, 10, 1).NumPages)
	})

	t.Run("non-positive page size falls back", func(t *testing.T) {
		assert.Equal(t, DefaultPageSize, Paginate(5, 0, 1).PageSize)
	})
}

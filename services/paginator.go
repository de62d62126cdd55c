package services

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// DefaultPageSize is used when a service is built with a non-positive page size.
const DefaultPageSize = 10

// PageMeta describes one fixed-size window over an ordered result set.
type PageMeta struct {
	Number       int   `json:"page"`
	NumPages     int   `json:"num_pages"`
	PageSize     int   `json:"page_size"`
	Total        int64 `json:"total"`
	HasPrevious  bool  `json:"has_previous"`
	HasNext      bool  `json:"has_next"`
	PreviousPage int   `json:"previous_page,omitempty"`
	NextPage     int   `json:"next_page,omitempty"`
}

// ParsePage turns a raw ?page= value into a page number. Missing and
// non-integer values mean page 1. Integers too large for int saturate so they
// still clamp to the last page.
func ParsePage(raw string) int {
	raw = strings.TrimSpace(raw)
	n, err := strconv.Atoi(raw)
	if err == nil {
		return n
	}
	if errors.Is(err, strconv.ErrRange) {
		if strings.HasPrefix(raw, "-") {
			return math.MinInt
		}
		return math.MaxInt
	}
	return 1
}

// Paginate computes the window for the requested page. A page past the end or
// below 1 is clamped to the last page rather than reported as an error; an empty
// set still has one (empty) page.
func Paginate(total int64, pageSize, requested int) PageMeta {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if total < 0 {
		total = 0
	}
	numPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	if numPages < 1 {
		numPages = 1
	}
	n := requested
	if n < 1 || n > numPages {
		n = numPages
	}
	m := PageMeta{
		Number:      n,
		NumPages:    numPages,
		PageSize:    pageSize,
		Total:       total,
		HasPrevious: n > 1,
		HasNext:     n < numPages,
	}
	if m.HasPrevious {
		m.PreviousPage = n - 1
	}
	if m.HasNext {
		m.NextPage = n + 1
	}
	return m
}

// Offset is the index of the first item in the window.
func (m PageMeta) Offset() int { return (m.Number - 1) * m.PageSize }

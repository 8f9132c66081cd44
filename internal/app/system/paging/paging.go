// internal/app/system/paging/paging.go
//
// Package paging implements offset paging with look-ahead for list pages:
// fetch one row more than a page to learn whether a next page exists.
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

// PageSize is the number of rows shown per page.
const PageSize = 25

// LimitPlusOne returns PageSize+1 for a look-ahead fetch.
func LimitPlusOne() int64 { return int64(PageSize + 1) }

// ParseStart reads the 1-based "start" query parameter. Missing or invalid
// values yield 1.
func ParseStart(r *http.Request) int {
	s := query.Get(r, "start")
	if s == "" {
		return 1
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Skip converts a 1-based start into a document offset.
func Skip(start int) int64 {
	if start < 1 {
		return 0
	}
	return int64(start - 1)
}

// Result reports which neighbouring pages exist.
type Result struct {
	HasPrev bool
	HasNext bool
}

// TrimPage cuts a look-ahead fetch down to PageSize in place.
func TrimPage[T any](rows *[]T, start int) Result {
	res := Result{HasPrev: start > 1}
	if len(*rows) > PageSize {
		*rows = (*rows)[:PageSize]
		res.HasNext = true
	}
	return res
}

// Range holds the display range for one page.
type Range struct {
	Start     int // 1-based start index (0 if no results)
	End       int // 1-based end index (0 if no results)
	PrevStart int
	NextStart int
}

// ComputeRange returns the range shown when a page starting at start
// holds shown rows.
func ComputeRange(start, shown int) Range {
	if shown == 0 {
		return Range{PrevStart: 1, NextStart: 1}
	}
	prev := start - PageSize
	if prev < 1 {
		prev = 1
	}
	return Range{
		Start:     start,
		End:       start + shown - 1,
		PrevStart: prev,
		NextStart: start + shown,
	}
}

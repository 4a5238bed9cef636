package domain

import (
	"fmt"
	"math"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// SortKey selects the descending order of a keyword search.
type SortKey string

const (
	SortByLikeCount      SortKey = "likeCount"
	SortByUsableDonation SortKey = "usableDonation"
	SortByReviewCount    SortKey = "reviewCount"
)

// ParseSortKey accepts the public sortby values; empty means likeCount.
func ParseSortKey(raw string) (SortKey, error) {
	switch SortKey(raw) {
	case "":
		return SortByLikeCount, nil
	case SortByLikeCount, SortByUsableDonation, SortByReviewCount:
		return SortKey(raw), nil
	}
	return "", fmt.Errorf("%w: unknown sortby %q", ErrInvalidQueryParameters, raw)
}

// Pageable is a zero-based page request.
type Pageable struct {
	Page int
	Size int
	Sort SortKey
}

// NewPageable validates page and size.
func NewPageable(page, size int, sort SortKey) (Pageable, error) {
	if page < 0 {
		return Pageable{}, fmt.Errorf("%w: page must not be negative", ErrInvalidQueryParameters)
	}
	if size < 1 || size > MaxPageSize {
		return Pageable{}, fmt.Errorf("%w: size must be between 1 and %d", ErrInvalidQueryParameters, MaxPageSize)
	}
	// Offset and the size+1 lookahead must both stay within int.
	if page > (math.MaxInt-size-1)/size {
		return Pageable{}, fmt.Errorf("%w: page %d is out of range", ErrInvalidQueryParameters, page)
	}
	return Pageable{Page: page, Size: size, Sort: sort}, nil
}

// Offset is the number of rows to skip.
func (p Pageable) Offset() int {
	return p.Page * p.Size
}

// Slice is one page of results that knows whether another page follows.
// It never carries a total count.
type Slice[T any] struct {
	Content []T
	HasNext bool
	Number  int
	Size    int
}

// NewSlice trims a result fetched with Size+1 rows into a slice.
func NewSlice[T any](rows []T, page Pageable) Slice[T] {
	hasNext := len(rows) > page.Size
	if hasNext {
		rows = rows[:page.Size]
	}
	if rows == nil {
		rows = []T{}
	}
	return Slice[T]{Content: rows, HasNext: hasNext, Number: page.Page, Size: page.Size}
}

// NumberOfElements is the length of the current slice.
func (s Slice[T]) NumberOfElements() int {
	return len(s.Content)
}

// MapSlice converts the content while keeping the paging metadata.
func MapSlice[T, U any](s Slice[T], fn func(T) U) Slice[U] {
	content := make([]U, 0, len(s.Content))
	for _, item := range s.Content {
		content = append(content, fn(item))
	}
	return Slice[U]{Content: content, HasNext: s.HasNext, Number: s.Number, Size: s.Size}
}

// Package history assembles bulk historical datasets from bounded pages.
package history

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
)

// Default page limits of the terminal.
const (
	DefaultTickPageSize = 2000
	DefaultBarPageSize  = 2000
)

var (
	ErrInvalidCount = errors.New("invalid number of records")
	ErrInvalidLimit = errors.New("invalid page limit")
)

// Page is one bounded request.
type Page struct {
	Offset int
	Count  int
}

// PageFunc fetches one page of records.
type PageFunc[T any] func(ctx context.Context, page Page) ([]T, error)

// Plan splits a request for total records into pages of at most limit records:
// full pages at offsets 0, limit, 2*limit... followed by one remainder page.
func Plan(total, limit int) ([]Page, error) {
	if total < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCount, total)
	}
	if limit < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, limit)
	}
	if total <= limit {
		return []Page{{Offset: 0, Count: total}}, nil
	}

	full := total / limit
	tail := total - full*limit

	pages := make([]Page, 0, full+1)
	for i := 0; i < full; i++ {
		pages = append(pages, Page{Offset: i * limit, Count: limit})
	}
	if tail > 0 {
		pages = append(pages, Page{Offset: full * limit, Count: tail})
	}
	return pages, nil
}

// Fetch requests every page of Plan(total, limit) in order and returns all records
// sorted ascending by timestamp. The first failing page aborts the fetch.
func Fetch[T any](ctx context.Context, total, limit int, fetch PageFunc[T], timestamp func(T) int64) ([]T, error) {
	pages, err := Plan(total, limit)
	if err != nil {
		return nil, err
	}

	var all []T
	for _, p := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows, err := fetch(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("page offset %d count %d: %w", p.Offset, p.Count, err)
		}
		all = append(all, rows...)
	}

	slices.SortStableFunc(all, func(a, b T) int {
		return cmp.Compare(timestamp(a), timestamp(b))
	})
	return all, nil
}

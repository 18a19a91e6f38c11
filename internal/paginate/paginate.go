// Package paginate drives multi-page retrieval against the exchange's
// paged endpoints: fetch pages in order, accumulate items, stop early when
// a predicate fires or when the response metadata says there is nothing
// left.
package paginate

import (
	"context"
	"fmt"
)

// DefaultPerPage matches the maximum page size the exchange accepts.
const DefaultPerPage = 50

// Page is one page of a paged response together with the pagination
// metadata the exchange reports on every page.
type Page[T any] struct {
	Items          []T
	CurrentPage    int
	RecordsPerPage int
	TotalRecords   int
}

// FetchFunc retrieves one page. Page numbers start at 1.
type FetchFunc[T any] func(ctx context.Context, page, perPage int) (Page[T], error)

// StopFunc reports whether accumulation should stop at this item. The
// triggering item and everything after it on its page are discarded.
type StopFunc[T any] func(item T) bool

// All fetches pages sequentially starting at page 1 and returns the
// accumulated items in page order. The total page count is recomputed from
// every response, so a ledger that grows or shrinks mid-iteration cannot
// strand the loop. Any fetch error aborts the whole run; no partial result
// is returned.
func All[T any](ctx context.Context, fetch FetchFunc[T], stop StopFunc[T], perPage int) ([]T, error) {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}

	var result []T
	page := 1

	for {
		p, err := fetch(ctx, page, perPage)
		if err != nil {
			return nil, fmt.Errorf("fetching page %d: %w", page, err)
		}

		for _, item := range p.Items {
			if stop != nil && stop(item) {
				return result, nil
			}
			result = append(result, item)
		}

		// Advance first, then check against the page count computed from
		// this response's own metadata.
		current := p.CurrentPage
		if current <= 0 {
			current = page
		}
		current++

		if current > totalPages(p.TotalRecords, p.RecordsPerPage, perPage) {
			return result, nil
		}
		page = current
	}
}

func totalPages(totalRecords, recordsPerPage, fallback int) int {
	if recordsPerPage <= 0 {
		recordsPerPage = fallback
	}
	if totalRecords <= 0 {
		return 0
	}
	return (totalRecords + recordsPerPage - 1) / recordsPerPage
}

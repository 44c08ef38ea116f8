// Package paginate drives multi-page listings as pull-based sequences.
//
// Nothing is fetched until the caller ranges over a sequence, and fetching
// stops as soon as the caller stops pulling. Results of time-ordered listings
// arrive newest first, so a Stop predicate ends the whole sequence instead of
// filtering single items.
package paginate

import (
	"context"
	"iter"
)

// Offset pages through a listing by page number starting at 1. An empty page
// ends the sequence.
type Offset[T any] struct {
	PerPage int
	// Limit caps the number of yielded items; zero means no limit.
	Limit int
	Fetch func(ctx context.Context, page, perPage int) ([]T, error)
	// Skip drops an item without ending the sequence.
	Skip func(T) bool
	// Stop ends the sequence before yielding the item.
	Stop func(T) bool
}

// All returns the sequence. A fetch error is yielded once and ends it.
func (o Offset[T]) All(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		yielded := 0
		for page := 1; ; page++ {
			items, err := o.Fetch(ctx, page, o.PerPage)
			if err != nil {
				yield(zero, err)
				return
			}
			if len(items) == 0 {
				return
			}
			for _, item := range items {
				if o.Stop != nil && o.Stop(item) {
					return
				}
				if o.Skip != nil && o.Skip(item) {
					continue
				}
				if !yield(item, nil) {
					return
				}
				if yielded++; o.Limit > 0 && yielded >= o.Limit {
					return
				}
			}
		}
	}
}

// Page is one page of a cursor listing.
type Page[T, C any] struct {
	Items   []T
	HasMore bool
	// Next is the cursor for the following page, taken from the last item.
	Next C
}

// Cursor pages through a listing by continuation cursor. The first fetch gets
// a nil cursor.
type Cursor[T, C any] struct {
	Fetch func(ctx context.Context, cursor *C) (Page[T, C], error)
	Skip  func(T) bool
	Stop  func(T) bool
}

// All returns the sequence. It ends when a page reports no more results.
func (c Cursor[T, C]) All(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var (
			zero   T
			cursor *C
		)
		for {
			page, err := c.Fetch(ctx, cursor)
			if err != nil {
				yield(zero, err)
				return
			}
			for _, item := range page.Items {
				if c.Stop != nil && c.Stop(item) {
					return
				}
				if c.Skip != nil && c.Skip(item) {
					continue
				}
				if !yield(item, nil) {
					return
				}
			}
			if !page.HasMore {
				return
			}
			next := page.Next
			cursor = &next
		}
	}
}

// Links follows "next page" links until a page has none.
type Links[T any] struct {
	Start string
	Fetch func(ctx context.Context, path string) (items []T, next string, err error)
}

// All returns the sequence.
func (l Links[T]) All(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		seen := map[string]bool{}
		for path := l.Start; path != "" && !seen[path]; {
			seen[path] = true
			items, next, err := l.Fetch(ctx, path)
			if err != nil {
				yield(zero, err)
				return
			}
			for _, item := range items {
				if !yield(item, nil) {
					return
				}
			}
			path = next
		}
	}
}

// Collect drains seq into a slice, stopping at the first error.
func Collect[T any](seq iter.Seq2[T, error]) ([]T, error) {
	var out []T
	for item, err := range seq {
		if err != nil {
			return out, err
		}
		out = append(out, item)
	}
	return out, nil
}

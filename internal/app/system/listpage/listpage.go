// internal/app/system/listpage/listpage.go

// Package listpage turns a raw record snapshot plus the user's
// search/tab/sort/page selections into the exact slice of rows a list
// page renders. Every resource list in SaniHub goes through Compute;
// the per-resource differences (which fields are searched, what the
// natural order is, which field the tab filters on) are supplied as a
// View.
//
// Compute is pure: it never mutates its input, performs no I/O, and
// returns structurally equal output for equal input.
package listpage

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/text"
)

// PageSize is the default number of rows shown in paged lists.
const PageSize = 10

// TabAll is the tab value that disables categorical filtering.
const TabAll = "all"

// SortDirection selects list ordering.
type SortDirection int

const (
	// SortDefault applies the resource's natural order (View.Less).
	SortDefault SortDirection = iota
	// SortAscending orders by the label field, case-insensitively.
	SortAscending
	// SortDescending is SortAscending reversed.
	SortDescending
)

// ParseSortDirection maps the "sort" query value to a direction.
// Anything other than "asc"/"desc" is the natural order.
func ParseSortDirection(s string) SortDirection {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc":
		return SortAscending
	case "desc":
		return SortDescending
	default:
		return SortDefault
	}
}

// FilterState is the user's current list selection. Page is 1-based.
type FilterState struct {
	Search string
	Tab    string
	Sort   SortDirection
	Page   int
}

// ParseFilterState reads the list query parameters (search, tab, sort,
// page) from a request. Missing or invalid values fall back to an
// unfiltered first page.
func ParseFilterState(r *http.Request) FilterState {
	fs := FilterState{
		Search: strings.TrimSpace(query.Get(r, "search")),
		Tab:    strings.TrimSpace(query.Get(r, "tab")),
		Sort:   ParseSortDirection(query.Get(r, "sort")),
		Page:   1,
	}
	if fs.Tab == "" {
		fs.Tab = TabAll
	}
	if n, err := strconv.Atoi(query.Get(r, "page")); err == nil && n >= 1 {
		fs.Page = n
	}
	return fs
}

// WithSearch returns a copy with the search term replaced and the page
// reset to 1. Changing what is shown always restarts at the first page.
func (fs FilterState) WithSearch(q string) FilterState {
	fs.Search = strings.TrimSpace(q)
	fs.Page = 1
	return fs
}

// WithTab returns a copy with the tab replaced and the page reset to 1.
func (fs FilterState) WithTab(tab string) FilterState {
	fs.Tab = strings.TrimSpace(tab)
	if fs.Tab == "" {
		fs.Tab = TabAll
	}
	fs.Page = 1
	return fs
}

// WithSort returns a copy with the sort direction replaced and the page
// reset to 1.
func (fs FilterState) WithSort(dir SortDirection) FilterState {
	fs.Sort = dir
	fs.Page = 1
	return fs
}

// View supplies the resource-specific pieces of list behavior.
//
// Matches reports whether a record matches a folded (lowercased,
// diacritic-stripped) search needle; implementations fold their own
// fields with Fold and do substring checks. Category returns the value
// the tab filter compares against. Label returns the field asc/desc
// sorting uses. Less is the natural order.
type View[T any] struct {
	Matches  func(rec T, needle string) bool
	Category func(rec T) string
	Label    func(rec T) string
	Less     func(a, b T) bool
}

// Page is one renderable slice of the filtered list.
//
// TotalPages is at least 1 even when no records match, so pagination
// controls can always render "page 1 of 1" alongside the empty state.
// Start/End are 1-based display positions within the filtered set, or
// 0/0 when the page is empty.
type Page[T any] struct {
	Items      []T
	Current    int
	TotalPages int
	Total      int
	Start      int
	End        int
}

// Fold normalizes a string for case- and diacritic-insensitive
// matching. Views use it on both the needle and their fields.
func Fold(s string) string {
	return text.Fold(strings.TrimSpace(s))
}

// Compute filters, orders, and paginates records according to fs.
//
// Filtering keeps a record iff the tab is TabAll or equals its
// category, and the search term is empty or Matches reports true for
// the folded needle. Ordering is stable in all three directions. The
// requested page is clamped into [1, TotalPages].
func Compute[T any](records []T, fs FilterState, pageSize int, view View[T]) Page[T] {
	if pageSize < 1 {
		pageSize = PageSize
	}

	needle := Fold(fs.Search)

	filtered := make([]T, 0, len(records))
	for _, rec := range records {
		if fs.Tab != "" && fs.Tab != TabAll && view.Category != nil && view.Category(rec) != fs.Tab {
			continue
		}
		if needle != "" && view.Matches != nil && !view.Matches(rec, needle) {
			continue
		}
		filtered = append(filtered, rec)
	}

	switch fs.Sort {
	case SortAscending:
		sort.SliceStable(filtered, func(i, j int) bool {
			return Fold(view.Label(filtered[i])) < Fold(view.Label(filtered[j]))
		})
	case SortDescending:
		sort.SliceStable(filtered, func(i, j int) bool {
			return Fold(view.Label(filtered[j])) < Fold(view.Label(filtered[i]))
		})
	default:
		if view.Less != nil {
			sort.SliceStable(filtered, func(i, j int) bool {
				return view.Less(filtered[i], filtered[j])
			})
		}
	}

	total := len(filtered)
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	current := fs.Page
	if current < 1 {
		current = 1
	}
	if current > totalPages {
		current = totalPages
	}

	startIdx := (current - 1) * pageSize
	endIdx := startIdx + pageSize
	if startIdx > total {
		startIdx = total
	}
	if endIdx > total {
		endIdx = total
	}

	page := Page[T]{
		Items:      filtered[startIdx:endIdx],
		Current:    current,
		TotalPages: totalPages,
		Total:      total,
	}
	if len(page.Items) > 0 {
		page.Start = startIdx + 1
		page.End = endIdx
	}
	return page
}

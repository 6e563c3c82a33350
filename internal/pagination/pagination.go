// Package pagination normalizes take/skip/cursor list parameters.
//
// A cursor names the row after which the listing continues. The store
// positions at the cursor row under the list ordering and the effective
// offset becomes skip+1, so the cursor row itself is never returned.
package pagination

const (
	DefaultTake = 20
	MaxTake     = 100
)

// Params are bounded pagination arguments
type Params struct {
	Take   int
	Skip   int
	Cursor string
}

// Normalize applies defaults and clamps. Nil means "not supplied".
func Normalize(take, skip *int, cursor string) Params {
	p := Params{Take: DefaultTake, Cursor: cursor}
	if take != nil {
		p.Take = min(max(*take, 1), MaxTake)
	}
	if skip != nil {
		p.Skip = max(*skip, 0)
	}
	return p
}

// Offset is the database offset to apply
func (p Params) Offset() int {
	if p.Cursor != "" {
		return p.Skip + 1
	}
	return p.Skip
}

// Limit is the database limit to apply
func (p Params) Limit() int {
	return p.Take
}

// Page is the pagination block of a list response
type Page struct {
	Total   int    `json:"total"`
	Take    int    `json:"take"`
	Skip    int    `json:"skip"`
	Cursor  string `json:"cursor,omitempty"`
	HasMore bool   `json:"hasMore"`
}

// Page builds response metadata for a page of returned rows out of total.
// Total always counts the whole filtered set. A cursor page starts somewhere
// inside that set, so there only a full page signals that more rows follow.
func (p Params) Page(total, returned int) Page {
	hasMore := p.Skip+returned < total
	if p.Cursor != "" {
		hasMore = returned > 0 && returned == p.Take
	}
	return Page{
		Total:   total,
		Take:    p.Take,
		Skip:    p.Skip,
		Cursor:  p.Cursor,
		HasMore: hasMore,
	}
}

// List is the data part of every list response
type List[T any] struct {
	Data       []T  `json:"data"`
	Pagination Page `json:"pagination"`
}

// NewList pairs items with their page metadata
func NewList[T any](items []T, p Params, total int) List[T] {
	if items == nil {
		items = []T{}
	}
	return List[T]{Data: items, Pagination: p.Page(total, len(items))}
}

// Package listctrl implements the shared behavior of the three searchable
// list screens (products, clients, invoices): debounced free-text search,
// stale-response protection, a single selected row driven by keyboard or
// direct selection, and optional server-side pagination.
//
// The controller is pure state; it owns no timers and performs no I/O. The
// UI echoes debounce tokens back after the quiet period and executes the
// Requests the controller hands out, feeding results into Apply tagged with
// the request generation.
package listctrl

import (
	"strings"
	"time"
)

// DefaultDebounce is the quiet period after the last keystroke before the
// input buffer is committed to the active query.
const DefaultDebounce = 300 * time.Millisecond

// EmptyQueryMode selects what an empty committed query means.
type EmptyQueryMode int

const (
	// ShowNothing clears the list until a query is typed (clients).
	ShowNothing EmptyQueryMode = iota
	// ListAll lists unfiltered, paginated (products).
	ListAll
	// FetchRecent falls back to a separate recent-items fetch (invoices).
	FetchRecent
)

// RequestKind tells the UI which fetch to run.
type RequestKind int

const (
	KindSearch RequestKind = iota
	KindList
	KindRecent
)

// Request is one fetch the UI must dispatch. Gen must be passed back to
// Apply or Fail unchanged; a response whose generation is no longer current
// is discarded even if it arrives later.
type Request struct {
	Kind  RequestKind
	Query string
	Page  int
	Size  int
	Gen   int
}

// Config parametrizes a controller for one entity.
type Config[T any] struct {
	// ID maps a row to its identity, used for selection reconciliation.
	ID func(T) string
	// Mode is the empty-query behavior.
	Mode EmptyQueryMode
	// PageSize enables zero-based server-side pagination when positive.
	PageSize int
}

type Controller[T any] struct {
	cfg Config[T]

	input string
	token int

	query      string
	page       int
	totalPages int

	gen       int
	searching bool

	items      []T
	selectedID string
	selected   bool
}

func New[T any](cfg Config[T]) *Controller[T] {
	return &Controller[T]{cfg: cfg}
}

// Input returns the raw input buffer.
func (c *Controller[T]) Input() string { return c.input }

// Query returns the committed (trimmed) query.
func (c *Controller[T]) Query() string { return c.query }

// IsSearching reports whether a dispatched request is still unanswered.
func (c *Controller[T]) IsSearching() bool { return c.searching }

// Items returns the current result set.
func (c *Controller[T]) Items() []T { return c.items }

// SetInput stores a keystroke into the input buffer and returns the new
// debounce token. Each keystroke invalidates the previous token, so only
// the tick scheduled for the last keystroke in a burst commits.
func (c *Controller[T]) SetInput(input string) int {
	c.input = input
	c.token++

	return c.token
}

// CommitInput commits the buffer to the active query if token is still the
// latest one. It returns the request to dispatch, if any. Committing an
// unchanged query is a no-op.
func (c *Controller[T]) CommitInput(token int) (Request, bool) {
	if token != c.token {
		return Request{}, false
	}

	query := strings.TrimSpace(c.input)
	if query == c.query {
		return Request{}, false
	}

	c.query = query
	c.page = 0

	return c.dispatch()
}

// Refresh re-dispatches a fetch for the current query state. Used for the
// initial load and for reloading after a mutation.
func (c *Controller[T]) Refresh() (Request, bool) {
	return c.dispatch()
}

// dispatch builds the request for the current query/page and bumps the
// generation, invalidating any in-flight response.
func (c *Controller[T]) dispatch() (Request, bool) {
	c.gen++

	if c.query == "" {
		switch c.cfg.Mode {
		case ShowNothing:
			c.searching = false
			c.items = nil
			c.clearSelection()

			return Request{}, false
		case FetchRecent:
			c.searching = true
			return Request{Kind: KindRecent, Gen: c.gen}, true
		}
	}

	c.searching = true

	if c.cfg.PageSize > 0 {
		return Request{
			Kind:  KindList,
			Query: c.query,
			Page:  c.page,
			Size:  c.cfg.PageSize,
			Gen:   c.gen,
		}, true
	}

	return Request{Kind: KindSearch, Query: c.query, Gen: c.gen}, true
}

// Apply installs a fetched result set. It returns false and changes
// nothing when gen is stale, guaranteeing that a superseded query can
// never overwrite fresher results. Selection resets to the first row.
func (c *Controller[T]) Apply(gen int, items []T, totalPages int) bool {
	if gen != c.gen {
		return false
	}

	c.searching = false
	c.items = items
	c.totalPages = totalPages

	if len(items) == 0 {
		c.clearSelection()
		return true
	}

	c.selectedID = c.cfg.ID(items[0])
	c.selected = true

	return true
}

// Fail marks the current request as finished without touching the
// last-known result set. Stale failures are ignored.
func (c *Controller[T]) Fail(gen int) bool {
	if gen != c.gen {
		return false
	}

	c.searching = false

	return true
}

// Selected returns the selected row, if any.
func (c *Controller[T]) Selected() (T, bool) {
	var zero T

	idx := c.selectedIndex()
	if idx < 0 {
		return zero, false
	}

	return c.items[idx], true
}

// SelectedID returns the selected row id, or "".
func (c *Controller[T]) SelectedID() string {
	if !c.selected {
		return ""
	}

	return c.selectedID
}

// Select selects the row with the given id directly (mouse click or
// programmatic selection), overriding keyboard state. Unknown ids are
// ignored.
func (c *Controller[T]) Select(id string) bool {
	for _, item := range c.items {
		if c.cfg.ID(item) == id {
			c.selectedID = id
			c.selected = true

			return true
		}
	}

	return false
}

// MoveDown moves the selection one row down, clamped at the last row. With
// no selection it selects the first row. Empty lists are a no-op.
func (c *Controller[T]) MoveDown() {
	if len(c.items) == 0 {
		return
	}

	idx := c.selectedIndex()
	switch {
	case idx < 0:
		idx = 0
	case idx < len(c.items)-1:
		idx++
	}

	c.selectedID = c.cfg.ID(c.items[idx])
	c.selected = true
}

// MoveUp moves the selection one row up, clamped at the first row. With no
// selection it selects the last row.
func (c *Controller[T]) MoveUp() {
	if len(c.items) == 0 {
		return
	}

	idx := c.selectedIndex()
	switch {
	case idx < 0:
		idx = len(c.items) - 1
	case idx > 0:
		idx--
	}

	c.selectedID = c.cfg.ID(c.items[idx])
	c.selected = true
}

func (c *Controller[T]) selectedIndex() int {
	if !c.selected {
		return -1
	}

	for i, item := range c.items {
		if c.cfg.ID(item) == c.selectedID {
			return i
		}
	}

	return -1
}

// SelectedIndex returns the index of the selected row, or -1.
func (c *Controller[T]) SelectedIndex() int { return c.selectedIndex() }

func (c *Controller[T]) clearSelection() {
	c.selectedID = ""
	c.selected = false
}

// ClearSelection deselects the current row without touching the result
// set. The next ArrowDown selects the first row, ArrowUp the last.
func (c *Controller[T]) ClearSelection() {
	c.clearSelection()
}

// Page returns the current zero-based page.
func (c *Controller[T]) Page() int { return c.page }

// TotalPages returns the page count reported by the last applied fetch.
func (c *Controller[T]) TotalPages() int { return c.totalPages }

// CanPrevPage reports whether a previous page exists.
func (c *Controller[T]) CanPrevPage() bool {
	return c.cfg.PageSize > 0 && c.page > 0
}

// CanNextPage reports whether a next page exists.
func (c *Controller[T]) CanNextPage() bool {
	return c.cfg.PageSize > 0 && c.page < c.totalPages-1
}

// NextPage advances one page and returns the fetch to dispatch. At the
// last page it is a no-op.
func (c *Controller[T]) NextPage() (Request, bool) {
	if !c.CanNextPage() {
		return Request{}, false
	}

	c.page++

	return c.dispatch()
}

// PrevPage goes back one page. At page zero it is a no-op.
func (c *Controller[T]) PrevPage() (Request, bool) {
	if !c.CanPrevPage() {
		return Request{}, false
	}

	c.page--

	return c.dispatch()
}

// Package pagination tracks how much of a list has been revealed by
// incremental "load more" requests.
package pagination

import (
	"math"
	"sync"
)

// Cursor reveals a list page by page. Pages are cumulative: page N shows the
// first N*perPage items.
type Cursor struct {
	mu       sync.Mutex
	page     int
	perPage  int
	inFlight bool
}

// NewCursor starts at page 1. perPage values below 1 are treated as 1.
func NewCursor(perPage int) *Cursor {
	return &Cursor{page: 1, perPage: clampPerPage(perPage)}
}

// Page returns the current page number, starting at 1.
func (c *Cursor) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

// PerPage returns the page size.
func (c *Cursor) PerPage() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.perPage
}

// SetPerPage changes the page size and rewinds to page 1.
func (c *Cursor) SetPerPage(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.perPage = clampPerPage(n)
	c.page = 1
}

// VisibleCount is how many of total items the current page reveals.
func (c *Cursor) VisibleCount(total int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return visible(total, c.page, c.perPage)
}

// Advance moves to the next page. It does nothing while a load is in flight
// and reports whether the page changed.
func (c *Cursor) Advance() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight || c.page == math.MaxInt {
		return false
	}
	c.page++
	return true
}

// Reset returns to page 1, e.g. after a search or filter change.
func (c *Cursor) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.page = 1
}

// InFlight reports whether a LoadMore is currently rendering.
func (c *Cursor) InFlight() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight
}

// LoadMore advances one page and calls render with the new visible count.
// Triggers that arrive while render runs, or when nothing is left to show,
// are ignored. It reports whether render was called.
func (c *Cursor) LoadMore(total, displayed int, render func(visible int)) bool {
	c.mu.Lock()
	if c.inFlight || !HasMore(total, displayed) {
		c.mu.Unlock()
		return false
	}
	c.inFlight = true
	if c.page < math.MaxInt {
		c.page++
	}
	count := visible(total, c.page, c.perPage)
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.inFlight = false
		c.mu.Unlock()
	}()

	if render != nil {
		render(count)
	}
	return true
}

// HasMore reports whether a list of total items has entries beyond the
// displayed ones.
func HasMore(total, displayed int) bool {
	return total > 0 && displayed < total
}

// Visible returns the prefix of items the cursor currently reveals.
func Visible[T any](c *Cursor, items []T) []T {
	return items[:c.VisibleCount(len(items))]
}

// Window describes a cumulative page for stateless callers.
type Window struct {
	Page    int
	PerPage int
}

// At builds a Window, clamping page and perPage to at least 1.
func At(page, perPage int) Window {
	if page < 1 {
		page = 1
	}
	return Window{Page: page, PerPage: clampPerPage(perPage)}
}

// Apply returns the revealed prefix of items and whether more remain.
func Apply[T any](w Window, items []T) ([]T, bool) {
	n := visible(len(items), w.Page, w.PerPage)
	return items[:n], HasMore(len(items), n)
}

func visible(total, page, perPage int) int {
	if page > total/perPage {
		return total
	}
	n := page * perPage
	if n > total {
		return total
	}
	return n
}

func clampPerPage(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

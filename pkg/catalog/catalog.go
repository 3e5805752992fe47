// Package catalog holds per-movie display metadata keyed by title.
//
// The catalog is the attribute half of a movie dataset: genre and poster
// reference for every title. Like the vector store it is built once and is
// read-only afterwards.
package catalog

import (
	"sort"

	"github.com/liliang-cn/flixvec/pkg/core"
)

// Entry is the metadata of one movie.
type Entry struct {
	Title      string `json:"title"`
	Genre      string `json:"genre,omitempty"`
	PosterLink string `json:"poster_link,omitempty"`
}

// Catalog is an immutable title → Entry table.
type Catalog struct {
	entries map[string]Entry
	order   []string
	sorted  []string
}

// New builds a catalog. Empty or repeated titles fail with a *core.LoadError.
func New(entries []Entry) (*Catalog, error) {
	return NewFrom("", entries)
}

// NewFrom is New with the source name recorded in errors.
func NewFrom(source string, entries []Entry) (*Catalog, error) {
	if len(entries) == 0 {
		return nil, core.NewLoadError(source, 0, "", core.ErrEmptySource)
	}

	c := &Catalog{
		entries: make(map[string]Entry, len(entries)),
		order:   make([]string, 0, len(entries)),
	}
	for i, e := range entries {
		if e.Title == "" {
			return nil, core.NewLoadError(source, i+1, "", core.ErrEmptyID)
		}
		if _, dup := c.entries[e.Title]; dup {
			return nil, core.NewLoadError(source, i+1, e.Title, core.ErrDuplicateID)
		}
		c.entries[e.Title] = e
		c.order = append(c.order, e.Title)
	}

	c.sorted = make([]string, len(c.order))
	copy(c.sorted, c.order)
	sort.Strings(c.sorted)

	return c, nil
}

// Lookup returns the entry for title.
func (c *Catalog) Lookup(title string) (Entry, bool) {
	if c == nil {
		return Entry{}, false
	}
	e, ok := c.entries[title]
	return e, ok
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.order)
}

// Titles returns all titles sorted ascending.
func (c *Catalog) Titles() []string {
	if c == nil {
		return nil
	}
	out := make([]string, len(c.sorted))
	copy(out, c.sorted)
	return out
}

// Entries returns the entries in load order.
func (c *Catalog) Entries() []Entry {
	if c == nil {
		return nil
	}
	out := make([]Entry, 0, len(c.order))
	for _, title := range c.order {
		out = append(out, c.entries[title])
	}
	return out
}

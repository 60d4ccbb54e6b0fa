// Package category defines the closed set of topics a conversation can be
// scoped to. The catalog is built at init and never mutated.
package category

import "strings"

// ID identifies a category. The zero value means no category is active.
type ID uint8

// Declaration order is significant: it breaks ties when scoring intents
// and lays out the main menu.
const (
	None ID = iota
	Historical
	Tourist
	Food
	Transport
	Hotels
	Events
	Shopping
	Parks
	Weather
	Currency
	Translate

	count
)

// Category is the immutable description of one topic. Slices are shared
// with the catalog and must be treated as read-only.
type Category struct {
	ID          ID
	Slug        string
	Name        string
	Icon        string
	Description string
	// Scope tells the user what the category accepts.
	Scope string
	// Examples are short topic phrases listed in mismatch replies.
	Examples []string
	// Samples are full example questions shown when the category is opened.
	Samples []string
	// Utility marks pseudo-categories reachable from the utilities menu.
	Utility bool
	// Validation keywords decide whether free text belongs to the category.
	Validation []string
	// Intent keywords score free text against every category.
	Intent []string

	prompt promptSpec
}

// Label is the icon and name, as shown on buttons and headers.
func (c Category) Label() string {
	return c.Icon + " " + c.Name
}

// Prompt assembles the generation prompt for query. location may be empty.
func (c Category) Prompt(query, location string) string {
	return c.prompt.render(query, location)
}

// String returns the slug, or "none".
func (id ID) String() string {
	if c, ok := Lookup(id); ok {
		return c.Slug
	}
	return "none"
}

// Valid reports whether id names a real category.
func (id ID) Valid() bool {
	return id > None && id < count
}

// Lookup returns the catalog entry for id.
func Lookup(id ID) (Category, bool) {
	if !id.Valid() {
		return Category{}, false
	}
	return catalog[id], true
}

// MustLookup is Lookup for ids known to be valid.
func MustLookup(id ID) Category {
	c, ok := Lookup(id)
	if !ok {
		panic("category: unknown id " + id.String())
	}
	return c
}

// Parse maps a slug such as "food" to its ID.
func Parse(slug string) (ID, bool) {
	id, ok := bySlug[strings.ToLower(strings.TrimSpace(slug))]
	return id, ok
}

// All lists every category in declaration order.
func All() []ID {
	ids := make([]ID, 0, count-1)
	for id := None + 1; id < count; id++ {
		ids = append(ids, id)
	}
	return ids
}

// Topical lists the categories shown on the main menu.
func Topical() []ID {
	var ids []ID
	for _, id := range All() {
		if !catalog[id].Utility {
			ids = append(ids, id)
		}
	}
	return ids
}

var bySlug = func() map[string]ID {
	m := make(map[string]ID, count)
	for id := None + 1; id < count; id++ {
		m[catalog[id].Slug] = id
	}
	return m
}()

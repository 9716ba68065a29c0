package content

import "blockforge.dev/internal/gen/blocks"

// Catalog holds every registered content definition, keyed by category in
// registration order. It is built once at startup, threaded explicitly into
// the generator, and read-only afterwards, so concurrent generation needs no
// locking.
type Catalog struct {
	byCategory map[blocks.Category][]*Definition
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{byCategory: map[blocks.Category][]*Definition{}}
}

// Register appends a definition under its category. There is no overwrite or
// de-duplication: registering the same (category, block type) pairing twice
// leaves the second registration unreachable behind the first.
func (c *Catalog) Register(def *Definition) {
	c.byCategory[def.Category] = append(c.byCategory[def.Category], def)
}

// ContentFor resolves the content definition for a block definition: the
// first registration whose BlockTypeID matches exactly wins, else the first
// category-wide registration (empty BlockTypeID), else nil.
func (c *Catalog) ContentFor(def *blocks.Definition) *Definition {
	list := c.byCategory[def.Category]
	for _, d := range list {
		if d.BlockTypeID != "" && d.BlockTypeID == def.TypeID {
			return d
		}
	}
	for _, d := range list {
		if d.BlockTypeID == "" {
			return d
		}
	}
	return nil
}

// Categories returns the categories with at least one registration.
func (c *Catalog) Categories() []blocks.Category {
	out := make([]blocks.Category, 0, len(c.byCategory))
	for cat := range c.byCategory {
		out = append(out, cat)
	}
	return out
}

// Len returns the total number of registered definitions.
func (c *Catalog) Len() int {
	n := 0
	for _, list := range c.byCategory {
		n += len(list)
	}
	return n
}

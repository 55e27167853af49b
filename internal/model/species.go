package model

import "strings"

// SpeciesProfile describes one candidate tree species. Attrs holds the flat
// attribute columns the rule engine reads: per-feature preference bounds
// ("rainfall_mm_min", "rainfall_mm_max"), categorical preference sets
// ("soil_textures") and habitat flags ("coastal", "riparian"). Missing
// values are dropped at ingestion.
type SpeciesProfile struct {
	ID         int            `json:"id"`
	Name       string         `json:"name"`
	CommonName string         `json:"common_name"`
	Attrs      map[string]any `json:"attrs"`
}

// Attr returns the raw value of the named attribute column, or nil when the
// species has no data for it.
func (s *SpeciesProfile) Attr(name string) any {
	return s.Attrs[name]
}

// SpeciesCatalog is the indexed, read-only species collection shared by
// every farm evaluation in a batch. It is built once and never mutated, so
// concurrent reads are safe.
type SpeciesCatalog struct {
	list   []SpeciesProfile
	byID   map[int]*SpeciesProfile
	byName map[string]int
}

// NewSpeciesCatalog builds a catalog with id and name indexes. Name lookups
// are case-insensitive; dependency rules reference partners by name.
func NewSpeciesCatalog(species []SpeciesProfile) *SpeciesCatalog {
	c := &SpeciesCatalog{
		list:   species,
		byID:   make(map[int]*SpeciesProfile, len(species)),
		byName: make(map[string]int, len(species)),
	}
	for i := range c.list {
		sp := &c.list[i]
		c.byID[sp.ID] = sp
		if name := strings.ToLower(strings.TrimSpace(sp.Name)); name != "" {
			c.byName[name] = sp.ID
		}
	}
	return c
}

// All returns the catalog entries in their declared order.
func (c *SpeciesCatalog) All() []SpeciesProfile { return c.list }

// Len returns the number of species in the catalog.
func (c *SpeciesCatalog) Len() int { return len(c.list) }

// ByID returns the species with the given id.
func (c *SpeciesCatalog) ByID(id int) (*SpeciesProfile, bool) {
	sp, ok := c.byID[id]
	return sp, ok
}

// IDByName resolves a species name to its id, case-insensitively.
func (c *SpeciesCatalog) IDByName(name string) (int, bool) {
	id, ok := c.byName[strings.ToLower(strings.TrimSpace(name))]
	return id, ok
}

// Has reports whether the catalog contains the given species id.
func (c *SpeciesCatalog) Has(id int) bool {
	_, ok := c.byID[id]
	return ok
}

// Package catalog persists the set of table schemas to a single JSON file
// and loads it once at engine startup.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Dicklesworthstone/miniql/internal/fsutil"
	"github.com/Dicklesworthstone/miniql/internal/value"
)

// Column is one typed column of a table schema.
type Column struct {
	Name string     `json:"name"`
	Type value.Type `json:"type"`
}

// Schema is an ordered list of columns plus optional PK and unique
// constraints.
type Schema struct {
	Columns    []Column `json:"columns"`
	PrimaryKey string   `json:"primary_key,omitempty"`
	UniqueCols []string `json:"unique,omitempty"`
}

// ColumnNames returns the schema's column names in declared order.
func (s Schema) ColumnNames() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// ColumnType returns the declared type of name and whether it exists.
func (s Schema) ColumnType(name string) (value.Type, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c.Type, true
		}
	}
	return "", false
}

// HasColumn reports whether name is a column of this schema.
func (s Schema) HasColumn(name string) bool {
	_, ok := s.ColumnType(name)
	return ok
}

// UniqueColumns returns every column that needs a uniqueness index: the
// primary key (if any) plus the declared UNIQUE columns, deduplicated.
func (s Schema) UniqueColumns() []string {
	seen := map[string]bool{}
	var cols []string
	if s.PrimaryKey != "" {
		seen[s.PrimaryKey] = true
		cols = append(cols, s.PrimaryKey)
	}
	for _, c := range s.UniqueCols {
		if seen[c] {
			continue
		}
		seen[c] = true
		cols = append(cols, c)
	}
	return cols
}

// Catalog maps table name to schema. Table names are unique by
// construction: Catalog is a Go map.
type Catalog struct {
	path   string
	tables map[string]Schema
}

// New returns an empty catalog bound to path, without touching disk.
func New(path string) *Catalog {
	return &Catalog{path: path, tables: map[string]Schema{}}
}

// Load reads the catalog file at path. A missing or malformed file yields
// an empty catalog rather than an error.
func Load(path string) (*Catalog, error) {
	c := New(path)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return c, nil
	}
	var tables map[string]Schema
	if err := json.Unmarshal(data, &tables); err != nil {
		return c, nil
	}
	c.tables = tables
	return c, nil
}

// Has reports whether name is a known table.
func (c *Catalog) Has(name string) bool {
	_, ok := c.tables[name]
	return ok
}

// Get returns the schema for name.
func (c *Catalog) Get(name string) (Schema, bool) {
	s, ok := c.tables[name]
	return s, ok
}

// Put registers schema under name, overwriting any prior entry. Callers
// are responsible for the "already exists" check (executor owns that
// error).
func (c *Catalog) Put(name string, schema Schema) {
	c.tables[name] = schema
}

// Names returns every known table name, in no particular order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.tables))
	for name := range c.tables {
		names = append(names, name)
	}
	return names
}

// Save rewrites the catalog file. It writes to a sibling temp file with a
// random suffix and renames it into place, which is atomic on the same
// filesystem and leaves the previous snapshot intact if the process dies
// mid-write.
func (c *Catalog) Save() error {
	data, err := json.MarshalIndent(c.tables, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal catalog: %w", err)
	}
	return fsutil.WriteAtomic(c.path, data)
}

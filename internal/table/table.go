// Package table holds one table's row vector and per-unique-column
// indexes in memory, and rewrites its backing JSON file after each
// mutation.
package table

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Dicklesworthstone/miniql/internal/catalog"
	"github.com/Dicklesworthstone/miniql/internal/fsutil"
	"github.com/Dicklesworthstone/miniql/internal/value"
)

// Row is an ordered association of column name to value, covering every
// schema column exactly once. The backing representation is a map, but
// callers must always range over the schema's column order, not the map,
// when ordering matters (projection, persistence).
type Row map[string]value.Value

// Clone returns a shallow copy of the row (Values are themselves
// immutable, so this is a full logical copy).
func (r Row) Clone() Row {
	c := make(Row, len(r))
	for k, v := range r {
		c[k] = v
	}
	return c
}

// Table is the in-memory row vector plus derived unique indexes for one
// catalog entry.
type Table struct {
	Name    string
	Schema  catalog.Schema
	Rows    []Row
	indexes map[string]map[any]int // column -> index key -> row position

	path string
}

// New creates an empty, unsaved table bound to dataDir/<name>.json.
func New(name string, schema catalog.Schema, dataDir string) *Table {
	t := &Table{
		Name:   name,
		Schema: schema,
		path:   filepath.Join(dataDir, name+".json"),
	}
	t.resetIndexes()
	return t
}

// Load reads the table's backing file (if present) and reinserts each
// persisted row into the in-memory vector and indexes. A missing or
// malformed file is treated as an empty table.
func Load(name string, schema catalog.Schema, dataDir string) (*Table, error) {
	t := New(name, schema, dataDir)
	data, err := os.ReadFile(t.path)
	if err != nil {
		return t, nil
	}
	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return t, nil
	}
	for _, rawRow := range raw {
		row := make(Row, len(schema.Columns))
		for _, col := range schema.Columns {
			v, err := value.FromPersistent(rawRow[col.Name], col.Type)
			if err != nil {
				// A single corrupt row degrades to an empty table, same as a
				// malformed file: the next save overwrites with valid data.
				t.Rows = nil
				t.resetIndexes()
				return t, nil
			}
			row[col.Name] = v
		}
		t.appendRow(row)
	}
	return t, nil
}

func (t *Table) resetIndexes() {
	t.indexes = make(map[string]map[any]int, len(t.Schema.UniqueColumns()))
	for _, col := range t.Schema.UniqueColumns() {
		t.indexes[col] = map[any]int{}
	}
}

// appendRow adds row to the vector and indexes it; it does not validate
// uniqueness or persist.
func (t *Table) appendRow(row Row) {
	pos := len(t.Rows)
	t.Rows = append(t.Rows, row)
	for col, idx := range t.indexes {
		v := row[col]
		if v.IsNull() {
			continue
		}
		idx[v.IndexKey()] = pos
	}
}

// rebuildIndexes recomputes every index from the current row vector.
func (t *Table) rebuildIndexes() {
	t.resetIndexes()
	for pos, row := range t.Rows {
		for col, idx := range t.indexes {
			v := row[col]
			if v.IsNull() {
				continue
			}
			idx[v.IndexKey()] = pos
		}
	}
}

// ConstraintError reports a PRIMARY KEY or UNIQUE violation.
type ConstraintError struct {
	PrimaryKey bool
	Column     string
	Value      string
}

func (e *ConstraintError) Error() string {
	kind := "UNIQUE"
	if e.PrimaryKey {
		kind = "PRIMARY KEY"
	}
	return fmt.Sprintf("%s constraint failed: duplicate value %s for column %s", kind, e.Value, e.Column)
}

// Insert casts every column's raw value, checks PK/UNIQUE constraints,
// appends the row, updates indexes, persists, and returns the stored row.
func (t *Table) Insert(raw map[string]value.Value) (Row, error) {
	row := make(Row, len(t.Schema.Columns))
	for _, col := range t.Schema.Columns {
		v, ok := raw[col.Name]
		if !ok {
			v = value.Null
		}
		cast, err := value.Cast(v, col.Type)
		if err != nil {
			return nil, err
		}
		row[col.Name] = cast
	}

	for col, idx := range t.indexes {
		v := row[col]
		if v.IsNull() {
			continue
		}
		if _, exists := idx[v.IndexKey()]; exists {
			return nil, &ConstraintError{
				PrimaryKey: col == t.Schema.PrimaryKey,
				Column:     col,
				Value:      v.String(),
			}
		}
	}

	t.appendRow(row)
	if err := t.Save(); err != nil {
		return nil, err
	}
	return row.Clone(), nil
}

// Predicate is one `column = literal` equality test, literal already cast
// to the column's type.
type Predicate struct {
	Column string
	Value  value.Value
}

// matches reports whether row satisfies every predicate, per the NULL
// policy in value.Value.Equal.
func matches(row Row, predicates []Predicate) bool {
	for _, p := range predicates {
		cell, ok := row[p.Column]
		if !ok || !cell.Equal(p.Value) {
			return false
		}
	}
	return true
}

// Select scans rows in insertion order, keeping those that satisfy every
// predicate, and projects either every column (columns == nil) or the
// named columns in the given order.
func (t *Table) Select(columns []string, predicates []Predicate) []Row {
	var out []Row
	for _, row := range t.Rows {
		if !matches(row, predicates) {
			continue
		}
		if columns == nil {
			out = append(out, row.Clone())
			continue
		}
		projected := make(Row, len(columns))
		for _, c := range columns {
			projected[c] = row[c]
		}
		out = append(out, projected)
	}
	return out
}

// Assignment is one `column = literal` update target, literal not yet cast.
type Assignment struct {
	Column string
	Value  value.Value
}

// Update casts each assignment's new value for every matching row, then
// pre-validates every PK/UNIQUE column affected by the whole match set
// before mutating anything. Validation compares the *final* value each row
// in the table would hold after the update (the planned cast for matched
// rows, the existing value otherwise), so two matched rows planning to
// share one new unique value are rejected exactly like a matched row
// colliding with an untouched one. Commits index updates and row edits
// only once every assignment across every matched row has been checked.
// Returns the number of rows changed and persists only if that count is
// greater than zero.
func (t *Table) Update(assignments []Assignment, predicates []Predicate) (int, error) {
	var matchedPositions []int
	for pos, row := range t.Rows {
		if matches(row, predicates) {
			matchedPositions = append(matchedPositions, pos)
		}
	}
	if len(matchedPositions) == 0 {
		return 0, nil
	}

	type plannedCast struct {
		column string
		cast   value.Value
	}
	plans := make(map[int][]plannedCast, len(matchedPositions))

	for _, pos := range matchedPositions {
		var casts []plannedCast
		for _, a := range assignments {
			colType, ok := t.Schema.ColumnType(a.Column)
			if !ok {
				return 0, fmt.Errorf("Unknown column %s", a.Column)
			}
			cast, err := value.Cast(a.Value, colType)
			if err != nil {
				return 0, err
			}
			casts = append(casts, plannedCast{column: a.Column, cast: cast})
		}
		plans[pos] = casts
	}

	affectedColumns := map[string]bool{}
	for _, a := range assignments {
		affectedColumns[a.Column] = true
	}
	for column := range affectedColumns {
		if _, unique := t.indexes[column]; !unique {
			continue
		}
		finalKeys := make(map[any]int, len(t.Rows))
		for pos, row := range t.Rows {
			final := row[column]
			for _, c := range plans[pos] {
				if c.column == column {
					final = c.cast
				}
			}
			if final.IsNull() {
				continue
			}
			key := final.IndexKey()
			if owner, exists := finalKeys[key]; exists && owner != pos {
				return 0, &ConstraintError{
					PrimaryKey: column == t.Schema.PrimaryKey,
					Column:     column,
					Value:      final.String(),
				}
			}
			finalKeys[key] = pos
		}
	}

	// All reassignments validated; commit index updates and row edits.
	for _, pos := range matchedPositions {
		row := t.Rows[pos]
		for _, c := range plans[pos] {
			if idx, unique := t.indexes[c.column]; unique {
				old := row[c.column]
				if !old.IsNull() {
					delete(idx, old.IndexKey())
				}
				if !c.cast.IsNull() {
					idx[c.cast.IndexKey()] = pos
				}
			}
			row[c.column] = c.cast
		}
	}

	if err := t.Save(); err != nil {
		return 0, err
	}
	return len(matchedPositions), nil
}

// Delete removes every matching row, rebuilds all indexes from scratch,
// persists, and returns the count removed.
func (t *Table) Delete(predicates []Predicate) (int, error) {
	kept := t.Rows[:0:0]
	removed := 0
	for _, row := range t.Rows {
		if matches(row, predicates) {
			removed++
			continue
		}
		kept = append(kept, row)
	}
	if removed == 0 {
		return 0, nil
	}
	t.Rows = kept
	t.rebuildIndexes()
	if err := t.Save(); err != nil {
		return 0, err
	}
	return removed, nil
}

// Save rewrites the table's backing file with the current row vector,
// column keys in schema order, via an atomic temp-file replace.
//
// encoding/json marshals Go maps with keys sorted alphabetically, which
// would violate the schema-order requirement on row objects, so rows are
// assembled as ordered JSON text instead of via json.Marshal(map[...]).
func (t *Table) Save() error {
	encoded, err := marshalRowsOrdered(t.Schema, t.Rows)
	if err != nil {
		return fmt.Errorf("marshal table %s: %w", t.Name, err)
	}
	return fsutil.WriteAtomic(t.path, encoded)
}

func marshalRowsOrdered(schema catalog.Schema, rows []Row) ([]byte, error) {
	if len(rows) == 0 {
		return []byte("[]"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, row := range rows {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString("\n  {")
		for j, col := range schema.Columns {
			if j > 0 {
				buf.WriteByte(',')
			}
			keyJSON, err := json.Marshal(col.Name)
			if err != nil {
				return nil, err
			}
			valJSON, err := json.Marshal(value.ToPersistent(row[col.Name]))
			if err != nil {
				return nil, err
			}
			buf.WriteString("\n    ")
			buf.Write(keyJSON)
			buf.WriteString(": ")
			buf.Write(valJSON)
		}
		buf.WriteString("\n  }")
	}
	buf.WriteString("\n]")
	return buf.Bytes(), nil
}

// Package sqlparse tokenizes and parses the five supported SQL statement
// shapes (CREATE, INSERT, SELECT, UPDATE, DELETE) into a typed AST.
package sqlparse

import "github.com/Dicklesworthstone/miniql/internal/value"

// ColumnDef is one column definition inside a CREATE TABLE body.
type ColumnDef struct {
	Name       string
	Type       value.Type
	PrimaryKey bool
	Unique     bool
}

// CreateTable is the AST for `CREATE TABLE name (...)`.
type CreateTable struct {
	Table      string
	Columns    []ColumnDef
	PrimaryKey string // empty if none
	Unique     []string
}

// Insert is the AST for `INSERT INTO name [(cols)] VALUES (...)`.
type Insert struct {
	Table string
	// Columns is nil when the column list was omitted; the executor then
	// assumes the schema's declared order.
	Columns []string
	// Values are literal tokens as written: quote-stripped strings or bare
	// words forwarded for later casting.
	Values []string
}

// Condition is one `column = literal` equality test. Column may be
// qualified (`table.column`) when it appears in a joined WHERE.
type Condition struct {
	Column  string
	Literal string
}

// Join is the AST for a single `INNER JOIN name ON left = right` clause.
// Left/Right are exactly as written (possibly `table.column`, possibly
// bare); bare-column resolution to a side happens in the executor.
type Join struct {
	Table string
	Left  string
	Right string
}

// Select is the AST for `SELECT proj FROM name [INNER JOIN ...] [WHERE ...]`.
type Select struct {
	// Columns is nil for `SELECT *`.
	Columns []string
	Table   string
	Join    *Join
	Where   []Condition
}

// Assignment is one `column = literal` update target.
type Assignment struct {
	Column  string
	Literal string
}

// Update is the AST for `UPDATE name SET ... [WHERE ...]`.
type Update struct {
	Table       string
	Assignments []Assignment
	Where       []Condition
}

// Delete is the AST for `DELETE FROM name [WHERE ...]`.
type Delete struct {
	Table string
	Where []Condition
}

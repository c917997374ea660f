// Package engine binds the value, catalog, table, and sqlparse packages
// behind a single operation, execute(sql), that owns the catalog file and
// the data directory for the life of the process.
package engine

import (
	"fmt"
	"os"

	"github.com/Dicklesworthstone/miniql/internal/catalog"
	"github.com/Dicklesworthstone/miniql/internal/sqlparse"
	"github.com/Dicklesworthstone/miniql/internal/table"
)

const (
	DefaultCatalogPath = "./catalog.json"
	DefaultDataDir     = "./data"
)

// Engine holds one catalog and one loaded Table per catalog entry for the
// life of the process. It is not safe for concurrent mutation.
type Engine struct {
	catalogPath string
	dataDir     string
	cat         *catalog.Catalog
	tables      map[string]*table.Table
}

// Option configures New.
type Option func(*options)

type options struct {
	catalogPath string
	dataDir     string
}

// WithCatalogPath overrides the default catalog file location.
func WithCatalogPath(path string) Option {
	return func(o *options) { o.catalogPath = path }
}

// WithDataDir overrides the default table-file directory.
func WithDataDir(dir string) Option {
	return func(o *options) { o.dataDir = dir }
}

// New creates the data directory if absent, loads the catalog, and loads
// one Table per catalog entry from its backing file.
func New(opts ...Option) (*Engine, error) {
	o := options{catalogPath: DefaultCatalogPath, dataDir: DefaultDataDir}
	for _, opt := range opts {
		opt(&o)
	}

	if err := os.MkdirAll(o.dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory %s: %w", o.dataDir, err)
	}

	cat, err := catalog.Load(o.catalogPath)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		catalogPath: o.catalogPath,
		dataDir:     o.dataDir,
		cat:         cat,
		tables:      map[string]*table.Table{},
	}
	for _, name := range cat.Names() {
		schema, _ := cat.Get(name)
		tbl, err := table.Load(name, schema, o.dataDir)
		if err != nil {
			return nil, err
		}
		e.tables[name] = tbl
	}
	return e, nil
}

// Execute parses sql, resolves the table(s) it names against the catalog,
// and dispatches to the matching table primitive. The result shape follows
// the verb: CREATE returns a confirmation string, INSERT the inserted row,
// SELECT a slice of row mappings, UPDATE/DELETE an affected-row count.
func (e *Engine) Execute(sql string) (result any, err error) {
	r := newRun()
	defer func() {
		if err != nil {
			r.abort()
		}
	}()

	stmt, err := sqlparse.Parse(sql)
	if err != nil {
		return nil, err
	}
	if err = r.advance(PhaseParsed); err != nil {
		return nil, err
	}
	if err = r.advance(PhaseResolved); err != nil {
		return nil, err
	}

	switch s := stmt.(type) {
	case *sqlparse.CreateTable:
		result, err = e.executeCreate(s)
	case *sqlparse.Insert:
		result, err = e.executeInsert(s)
	case *sqlparse.Select:
		result, err = e.executeSelect(s)
	case *sqlparse.Update:
		result, err = e.executeUpdate(s)
	case *sqlparse.Delete:
		result, err = e.executeDelete(s)
	default:
		return nil, fmt.Errorf("unsupported statement type %T", stmt)
	}
	if err != nil {
		return nil, err
	}
	if err = r.advance(PhaseExecuted); err != nil {
		return nil, err
	}
	return result, nil
}

// TableNames returns every table currently known to the catalog, for CLI
// and TUI callers that list or browse tables.
func (e *Engine) TableNames() []string {
	return e.cat.Names()
}

// Schema returns the declared schema for name, for CLI callers that print
// column/type/constraint information without running a SELECT.
func (e *Engine) Schema(name string) (catalog.Schema, bool) {
	return e.cat.Get(name)
}

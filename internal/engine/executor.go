package engine

import (
	"fmt"
	"strings"

	"github.com/Dicklesworthstone/miniql/internal/catalog"
	"github.com/Dicklesworthstone/miniql/internal/sqlparse"
	"github.com/Dicklesworthstone/miniql/internal/table"
	"github.com/Dicklesworthstone/miniql/internal/value"
)

// rowToOutput converts a stored row to the name->value mapping handed back
// across the execute(sql) boundary.
func rowToOutput(row table.Row, columns []string) map[string]any {
	out := make(map[string]any, len(columns))
	for _, c := range columns {
		out[c] = value.ToPersistent(row[c])
	}
	return out
}

func (e *Engine) executeCreate(stmt *sqlparse.CreateTable) (any, error) {
	if e.cat.Has(stmt.Table) {
		return nil, errTableExists(stmt.Table)
	}
	schema := catalog.Schema{PrimaryKey: stmt.PrimaryKey, UniqueCols: stmt.Unique}
	for _, c := range stmt.Columns {
		schema.Columns = append(schema.Columns, catalog.Column{Name: c.Name, Type: c.Type})
	}
	e.cat.Put(stmt.Table, schema)
	if err := e.cat.Save(); err != nil {
		return nil, err
	}
	tbl := table.New(stmt.Table, schema, e.dataDir)
	if err := tbl.Save(); err != nil {
		return nil, err
	}
	e.tables[stmt.Table] = tbl
	return fmt.Sprintf("Table %s created", stmt.Table), nil
}

func (e *Engine) executeInsert(stmt *sqlparse.Insert) (any, error) {
	tbl, schema, err := e.resolveTable(stmt.Table)
	if err != nil {
		return nil, err
	}
	columns := stmt.Columns
	if columns == nil {
		columns = schema.ColumnNames()
	}
	if len(columns) != len(stmt.Values) {
		return nil, fmt.Errorf("Column count does not match value count")
	}
	raw := make(map[string]value.Value, len(columns))
	for i, col := range columns {
		if !schema.HasColumn(col) {
			return nil, errUnknownColumn(col)
		}
		raw[col] = value.NewRaw(stmt.Values[i])
	}
	row, err := tbl.Insert(raw)
	if err != nil {
		return nil, err
	}
	return rowToOutput(row, schema.ColumnNames()), nil
}

func (e *Engine) executeSelect(stmt *sqlparse.Select) (any, error) {
	if stmt.Join != nil {
		return e.executeJoinSelect(stmt)
	}

	tbl, schema, err := e.resolveTable(stmt.Table)
	if err != nil {
		return nil, err
	}

	predicates, err := castPredicates(schema, stmt.Where)
	if err != nil {
		return nil, err
	}

	projection := stmt.Columns
	if projection != nil {
		for _, c := range projection {
			if !schema.HasColumn(c) {
				return nil, errUnknownColumn(c)
			}
		}
	} else {
		projection = schema.ColumnNames()
	}

	rows := tbl.Select(nil, predicates)
	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		out = append(out, rowToOutput(row, projection))
	}
	return out, nil
}

// castPredicates resolves each `column = literal` condition against schema,
// rejecting unknown columns and casting the literal to the column's type.
func castPredicates(schema catalog.Schema, conds []sqlparse.Condition) ([]table.Predicate, error) {
	var preds []table.Predicate
	for _, c := range conds {
		t, ok := schema.ColumnType(c.Column)
		if !ok {
			return nil, errUnknownColumn(c.Column)
		}
		v, err := value.Cast(value.NewRaw(c.Literal), t)
		if err != nil {
			return nil, err
		}
		preds = append(preds, table.Predicate{Column: c.Column, Value: v})
	}
	return preds, nil
}

// executeJoinSelect implements the nested-loop equi-join over exactly two
// tables. Bare column names in the ON clause resolve to the first table on
// the left and the joined table on the right. Combined row keys are always
// qualified as "table.column". A WHERE clause over the joined result
// compares stringified values against the literal, not typed-cast values.
func (e *Engine) executeJoinSelect(stmt *sqlparse.Select) (any, error) {
	leftTbl, leftSchema, err := e.resolveTable(stmt.Table)
	if err != nil {
		return nil, err
	}
	rightTbl, rightSchema, err := e.resolveTable(stmt.Join.Table)
	if err != nil {
		return nil, err
	}

	leftCol, err := resolveJoinSide(stmt.Join.Left, stmt.Table, leftSchema)
	if err != nil {
		return nil, err
	}
	rightCol, err := resolveJoinSide(stmt.Join.Right, stmt.Join.Table, rightSchema)
	if err != nil {
		return nil, err
	}

	var combined []map[string]value.Value
	for _, lrow := range leftTbl.Select(nil, nil) {
		lv, ok := lrow[leftCol]
		if !ok {
			return nil, errUnknownColumn(leftCol)
		}
		for _, rrow := range rightTbl.Select(nil, nil) {
			rv, ok := rrow[rightCol]
			if !ok {
				return nil, errUnknownColumn(rightCol)
			}
			if !lv.Equal(rv) {
				continue
			}
			row := make(map[string]value.Value, len(lrow)+len(rrow))
			for k, v := range lrow {
				row[stmt.Table+"."+k] = v
			}
			for k, v := range rrow {
				row[stmt.Join.Table+"."+k] = v
			}
			combined = append(combined, row)
		}
	}

	if len(stmt.Where) > 0 {
		filtered := combined[:0:0]
		for _, row := range combined {
			if matchesJoinedWhere(row, stmt.Where) {
				filtered = append(filtered, row)
			}
		}
		combined = filtered
	}

	projection := stmt.Columns
	if projection == nil {
		projection = make([]string, 0, len(leftSchema.Columns)+len(rightSchema.Columns))
		for _, c := range leftSchema.Columns {
			projection = append(projection, stmt.Table+"."+c.Name)
		}
		for _, c := range rightSchema.Columns {
			projection = append(projection, stmt.Join.Table+"."+c.Name)
		}
	}

	out := make([]map[string]any, 0, len(combined))
	for _, row := range combined {
		projected := make(map[string]any, len(projection))
		for _, c := range projection {
			projected[c] = value.ToPersistent(row[c])
		}
		out = append(out, projected)
	}
	return out, nil
}

// resolveJoinSide resolves a (possibly bare) ON-clause column against its
// assumed table's schema, returning the bare column name.
func resolveJoinSide(ref, table string, schema catalog.Schema) (string, error) {
	col := ref
	if dot := strings.IndexByte(ref, '.'); dot >= 0 {
		if ref[:dot] != table {
			return "", fmt.Errorf("Invalid JOIN ON condition")
		}
		col = ref[dot+1:]
	}
	if !schema.HasColumn(col) {
		return "", errUnknownColumn(col)
	}
	return col, nil
}

// matchesJoinedWhere resolves each condition's column against the combined
// row's qualified keys (first match wins when the column is bare) and
// string-compares, rather than typed-casting, the literal.
func matchesJoinedWhere(row map[string]value.Value, conds []sqlparse.Condition) bool {
	for _, c := range conds {
		v, ok := row[c.Column]
		if !ok {
			for key, candidate := range row {
				if strings.HasSuffix(key, "."+c.Column) {
					v = candidate
					ok = true
					break
				}
			}
		}
		if !ok || v.String() != c.Literal {
			return false
		}
	}
	return true
}

func (e *Engine) executeUpdate(stmt *sqlparse.Update) (any, error) {
	tbl, schema, err := e.resolveTable(stmt.Table)
	if err != nil {
		return nil, err
	}
	var assignments []table.Assignment
	for _, a := range stmt.Assignments {
		if !schema.HasColumn(a.Column) {
			return nil, errUnknownColumn(a.Column)
		}
		assignments = append(assignments, table.Assignment{Column: a.Column, Value: value.NewRaw(a.Literal)})
	}
	predicates, err := castPredicates(schema, stmt.Where)
	if err != nil {
		return nil, err
	}
	n, err := tbl.Update(assignments, predicates)
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (e *Engine) executeDelete(stmt *sqlparse.Delete) (any, error) {
	tbl, schema, err := e.resolveTable(stmt.Table)
	if err != nil {
		return nil, err
	}
	predicates, err := castPredicates(schema, stmt.Where)
	if err != nil {
		return nil, err
	}
	n, err := tbl.Delete(predicates)
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (e *Engine) resolveTable(name string) (*table.Table, catalog.Schema, error) {
	schema, ok := e.cat.Get(name)
	if !ok {
		return nil, catalog.Schema{}, errTableMissing(name)
	}
	tbl, ok := e.tables[name]
	if !ok {
		return nil, catalog.Schema{}, errTableMissing(name)
	}
	return tbl, schema, nil
}

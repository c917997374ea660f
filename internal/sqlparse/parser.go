package sqlparse

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Dicklesworthstone/miniql/internal/value"
)

// Statement is the result of Parse: one of *CreateTable, *Insert, *Select,
// *Update, or *Delete.
type Statement any

var (
	createPattern = regexp.MustCompile(`(?is)^CREATE\s+TABLE\s+(\w+)\s*\((.+)\)$`)
	insertPattern = regexp.MustCompile(`(?is)^INSERT\s+INTO\s+(\w+)\s*(\((.*?)\))?\s*VALUES\s*\((.*)\)$`)
	updatePattern = regexp.MustCompile(`(?is)^UPDATE\s+(\w+)\s+SET\s+(.+?)(?:\s+WHERE\s+(.+))?$`)
	deletePattern = regexp.MustCompile(`(?is)^DELETE\s+FROM\s+(\w+)(?:\s+WHERE\s+(.+))?$`)
)

// Parse strips the trailing `;` and surrounding whitespace, dispatches on
// the first token, and returns the typed AST for one of the five
// supported statements.
func Parse(sql string) (Statement, error) {
	sql = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(sql), ";"))
	if sql == "" {
		return nil, fmt.Errorf("Invalid syntax")
	}
	verb, _ := firstToken(sql)
	switch strings.ToUpper(verb) {
	case "CREATE":
		return parseCreate(sql)
	case "INSERT":
		return parseInsert(sql)
	case "SELECT":
		return parseSelect(sql)
	case "UPDATE":
		return parseUpdate(sql)
	case "DELETE":
		return parseDelete(sql)
	default:
		return nil, fmt.Errorf("Unknown command: %s", verb)
	}
}

func parseCreate(sql string) (*CreateTable, error) {
	m := createPattern.FindStringSubmatch(sql)
	if m == nil {
		return nil, fmt.Errorf("Invalid CREATE TABLE syntax")
	}
	table := m[1]
	body := strings.TrimSpace(m[2])

	stmt := &CreateTable{Table: table}
	for _, part := range splitTopLevel(body, ',') {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		tok, rest := firstToken(part)
		switch strings.ToUpper(tok) {
		case "PRIMARY":
			if stmt.PrimaryKey != "" {
				return nil, fmt.Errorf("Multiple PRIMARY KEY definitions")
			}
			cols, err := parenColumnList(part)
			if err != nil {
				return nil, err
			}
			if len(cols) != 1 {
				return nil, fmt.Errorf("Composite primary keys not supported")
			}
			stmt.PrimaryKey = cols[0]
		case "UNIQUE":
			cols, err := parenColumnList(part)
			if err != nil {
				return nil, err
			}
			stmt.Unique = append(stmt.Unique, cols...)
		default:
			col, err := parseColumnDef(tok, rest, part)
			if err != nil {
				return nil, err
			}
			stmt.Columns = append(stmt.Columns, col)
			if col.PrimaryKey {
				if stmt.PrimaryKey != "" && stmt.PrimaryKey != col.Name {
					return nil, fmt.Errorf("Multiple PRIMARY KEY definitions")
				}
				stmt.PrimaryKey = col.Name
			}
			if col.Unique {
				stmt.Unique = append(stmt.Unique, col.Name)
			}
		}
	}
	if len(stmt.Columns) == 0 {
		return nil, fmt.Errorf("Invalid CREATE TABLE syntax")
	}
	return stmt, nil
}

func parenColumnList(part string) ([]string, error) {
	open := strings.Index(part, "(")
	closeIdx := strings.LastIndex(part, ")")
	if open < 0 || closeIdx < 0 || closeIdx < open {
		return nil, fmt.Errorf("Invalid CREATE TABLE syntax")
	}
	inner := part[open+1 : closeIdx]
	var cols []string
	for _, c := range strings.Split(inner, ",") {
		c = strings.TrimSpace(c)
		if c != "" {
			cols = append(cols, c)
		}
	}
	return cols, nil
}

func parseColumnDef(name, rest, fullPart string) (ColumnDef, error) {
	typeTok, modifiers := firstToken(rest)
	colType := value.Type(strings.ToUpper(typeTok))
	if !value.ValidType(colType) {
		return ColumnDef{}, fmt.Errorf("Unknown type %s", typeTok)
	}
	upperPart := strings.ToUpper(fullPart)
	def := ColumnDef{Name: name, Type: colType}
	if strings.Contains(upperPart, "PRIMARY") && strings.Contains(upperPart, "KEY") {
		def.PrimaryKey = true
	}
	if strings.Contains(strings.ToUpper(modifiers), "UNIQUE") {
		def.Unique = true
	}
	return def, nil
}

func parseInsert(sql string) (*Insert, error) {
	m := insertPattern.FindStringSubmatch(sql)
	if m == nil {
		return nil, fmt.Errorf("Invalid INSERT syntax")
	}
	stmt := &Insert{Table: m[1]}
	if colsStr := strings.TrimSpace(m[3]); colsStr != "" {
		for _, c := range strings.Split(colsStr, ",") {
			stmt.Columns = append(stmt.Columns, strings.TrimSpace(c))
		}
	}
	stmt.Values = parseValueList(m[4])
	return stmt, nil
}

func parseSelect(sql string) (*Select, error) {
	if len(sql) < 6 || !strings.EqualFold(sql[:6], "SELECT") {
		return nil, fmt.Errorf("Invalid SELECT syntax")
	}
	selectPart := sql[6:]
	fromIdx := findKeyword(selectPart, "FROM")
	if fromIdx < 0 {
		return nil, fmt.Errorf("Invalid SELECT syntax")
	}
	colsStr := strings.TrimSpace(selectPart[:fromIdx])
	rest := strings.TrimSpace(selectPart[fromIdx+4:])

	stmt := &Select{}
	if colsStr != "*" {
		for _, c := range strings.Split(colsStr, ",") {
			stmt.Columns = append(stmt.Columns, strings.TrimSpace(c))
		}
	}

	if joinIdx := findKeyword(rest, "INNER JOIN"); joinIdx >= 0 {
		stmt.Table = strings.TrimSpace(rest[:joinIdx])
		afterJoin := rest[joinIdx+len("INNER JOIN"):]
		onIdx := findKeyword(afterJoin, "ON")
		if onIdx < 0 {
			return nil, fmt.Errorf("Invalid JOIN ON condition")
		}
		joinTable := strings.TrimSpace(afterJoin[:onIdx])
		onAndWhere := strings.TrimSpace(afterJoin[onIdx+2:])
		if joinTable == "" {
			return nil, fmt.Errorf("Invalid JOIN ON condition")
		}

		var onPart, wherePart string
		if whereIdx := findKeyword(onAndWhere, "WHERE"); whereIdx >= 0 {
			onPart = strings.TrimSpace(onAndWhere[:whereIdx])
			wherePart = strings.TrimSpace(onAndWhere[whereIdx+5:])
		} else {
			onPart = onAndWhere
		}
		left, right, ok := splitEquality(onPart)
		if !ok {
			return nil, fmt.Errorf("Invalid JOIN ON condition")
		}
		stmt.Join = &Join{Table: joinTable, Left: left, Right: right}

		if wherePart != "" {
			conds, err := parseConditions(wherePart)
			if err != nil {
				return nil, err
			}
			stmt.Where = conds
		}
		return stmt, nil
	}

	if whereIdx := findKeyword(rest, "WHERE"); whereIdx >= 0 {
		stmt.Table = strings.TrimSpace(rest[:whereIdx])
		conds, err := parseConditions(strings.TrimSpace(rest[whereIdx+5:]))
		if err != nil {
			return nil, err
		}
		stmt.Where = conds
	} else {
		stmt.Table = strings.TrimSpace(rest)
	}
	if stmt.Table == "" {
		return nil, fmt.Errorf("Invalid SELECT syntax")
	}
	return stmt, nil
}

func parseUpdate(sql string) (*Update, error) {
	m := updatePattern.FindStringSubmatch(sql)
	if m == nil {
		return nil, fmt.Errorf("Invalid UPDATE syntax")
	}
	stmt := &Update{Table: m[1]}
	for _, a := range splitTopLevel(strings.TrimSpace(m[2]), ',') {
		left, right, ok := splitEquality(a)
		if !ok {
			return nil, fmt.Errorf("Invalid SET clause")
		}
		stmt.Assignments = append(stmt.Assignments, Assignment{
			Column:  left,
			Literal: stripOuterQuotes(right),
		})
	}
	if where := strings.TrimSpace(m[3]); where != "" {
		conds, err := parseConditions(where)
		if err != nil {
			return nil, err
		}
		stmt.Where = conds
	}
	return stmt, nil
}

func parseDelete(sql string) (*Delete, error) {
	m := deletePattern.FindStringSubmatch(sql)
	if m == nil {
		return nil, fmt.Errorf("Invalid DELETE syntax")
	}
	stmt := &Delete{Table: m[1]}
	if where := strings.TrimSpace(m[2]); where != "" {
		conds, err := parseConditions(where)
		if err != nil {
			return nil, err
		}
		stmt.Where = conds
	}
	return stmt, nil
}

// parseConditions splits a WHERE/ON-trailing clause into a conjunction of
// `column = literal` equalities; only AND is supported.
func parseConditions(clause string) ([]Condition, error) {
	var conds []Condition
	for _, c := range splitConjunction(clause) {
		left, right, ok := splitEquality(c)
		if !ok {
			return nil, fmt.Errorf("Invalid WHERE condition")
		}
		conds = append(conds, Condition{
			Column:  left,
			Literal: stripOuterQuotes(right),
		})
	}
	return conds, nil
}

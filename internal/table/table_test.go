package table

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Dicklesworthstone/miniql/internal/catalog"
	"github.com/Dicklesworthstone/miniql/internal/value"
)

func usersSchema() catalog.Schema {
	return catalog.Schema{
		Columns: []catalog.Column{
			{Name: "id", Type: value.Int},
			{Name: "name", Type: value.Text},
		},
		PrimaryKey: "id",
	}
}

func TestInsertAndSelect(t *testing.T) {
	dir := t.TempDir()
	tbl := New("users", usersSchema(), dir)

	if _, err := tbl.Insert(map[string]value.Value{
		"id": value.NewRaw("1"), "name": value.NewRaw("Alice"),
	}); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if _, err := tbl.Insert(map[string]value.Value{
		"id": value.NewRaw("2"), "name": value.NewRaw("Bob"),
	}); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	rows := tbl.Select(nil, nil)
	if len(rows) != 2 {
		t.Fatalf("Select() returned %d rows, want 2", len(rows))
	}
	if rows[0]["name"].Text() != "Alice" || rows[1]["name"].Text() != "Bob" {
		t.Fatalf("Select() did not preserve insertion order: %v", rows)
	}
}

func TestPrimaryKeyConstraint(t *testing.T) {
	dir := t.TempDir()
	tbl := New("users", usersSchema(), dir)
	if _, err := tbl.Insert(map[string]value.Value{"id": value.NewRaw("1"), "name": value.NewRaw("X")}); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	_, err := tbl.Insert(map[string]value.Value{"id": value.NewRaw("1"), "name": value.NewRaw("Y")})
	if err == nil {
		t.Fatalf("Insert() error = nil, want PRIMARY KEY constraint violation")
	}
	ce, ok := err.(*ConstraintError)
	if !ok || !ce.PrimaryKey {
		t.Fatalf("Insert() error = %v, want *ConstraintError{PrimaryKey: true}", err)
	}
}

func TestUniqueConstraint(t *testing.T) {
	schema := catalog.Schema{
		Columns: []catalog.Column{
			{Name: "id", Type: value.Int},
			{Name: "code", Type: value.Text},
		},
		PrimaryKey: "id",
		UniqueCols: []string{"code"},
	}
	dir := t.TempDir()
	tbl := New("items", schema, dir)
	if _, err := tbl.Insert(map[string]value.Value{"id": value.NewRaw("1"), "code": value.NewRaw("A")}); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	_, err := tbl.Insert(map[string]value.Value{"id": value.NewRaw("2"), "code": value.NewRaw("A")})
	if err == nil {
		t.Fatalf("Insert() error = nil, want UNIQUE constraint violation")
	}
	ce, ok := err.(*ConstraintError)
	if !ok || ce.PrimaryKey {
		t.Fatalf("Insert() error = %v, want *ConstraintError{PrimaryKey: false}", err)
	}
}

func TestUpdateDoesNotPartiallyMutateOnConflict(t *testing.T) {
	dir := t.TempDir()
	tbl := New("users", usersSchema(), dir)
	mustInsert(t, tbl, "1", "Alice")
	mustInsert(t, tbl, "2", "Bob")

	// Reassigning id=2's id to 1 collides with the existing row.
	_, err := tbl.Update(
		[]Assignment{{Column: "id", Value: value.NewRaw("1")}},
		[]Predicate{{Column: "id", Value: value.NewInt(2)}},
	)
	if err == nil {
		t.Fatalf("Update() error = nil, want PRIMARY KEY constraint violation")
	}

	rows := tbl.Select(nil, nil)
	if rows[0]["id"].Int() != 1 || rows[1]["id"].Int() != 2 {
		t.Fatalf("Update() mutated rows despite rejecting the conflict: %v", rows)
	}
}

func TestUpdateRejectsDuplicateKeyWithinMatchSet(t *testing.T) {
	dir := t.TempDir()
	tbl := New("users", usersSchema(), dir)
	mustInsert(t, tbl, "1", "Alice")
	mustInsert(t, tbl, "2", "Bob")
	mustInsert(t, tbl, "3", "Carol")

	// No predicate, so every row matches: all three would land on id=5.
	_, err := tbl.Update(
		[]Assignment{{Column: "id", Value: value.NewRaw("5")}},
		nil,
	)
	if err == nil {
		t.Fatalf("Update() error = nil, want PRIMARY KEY constraint violation")
	}
	ce, ok := err.(*ConstraintError)
	if !ok || !ce.PrimaryKey {
		t.Fatalf("Update() error = %v, want *ConstraintError{PrimaryKey: true}", err)
	}

	rows := tbl.Select(nil, nil)
	if rows[0]["id"].Int() != 1 || rows[1]["id"].Int() != 2 || rows[2]["id"].Int() != 3 {
		t.Fatalf("Update() mutated rows despite rejecting the conflict: %v", rows)
	}
}

func TestUpdateCount(t *testing.T) {
	dir := t.TempDir()
	tbl := New("users", usersSchema(), dir)
	mustInsert(t, tbl, "1", "Alice")
	mustInsert(t, tbl, "2", "Bob")

	n, err := tbl.Update(
		[]Assignment{{Column: "name", Value: value.NewRaw("Charlie")}},
		[]Predicate{{Column: "id", Value: value.NewInt(2)}},
	)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if n != 1 {
		t.Fatalf("Update() = %d, want 1", n)
	}
	rows := tbl.Select([]string{"name"}, []Predicate{{Column: "id", Value: value.NewInt(2)}})
	if len(rows) != 1 || rows[0]["name"].Text() != "Charlie" {
		t.Fatalf("Select() after update = %v, want name=Charlie", rows)
	}
}

func TestDeleteCount(t *testing.T) {
	dir := t.TempDir()
	tbl := New("users", usersSchema(), dir)
	mustInsert(t, tbl, "1", "Alice")
	mustInsert(t, tbl, "2", "Bob")

	n, err := tbl.Delete([]Predicate{{Column: "id", Value: value.NewInt(1)}})
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if n != 1 {
		t.Fatalf("Delete() = %d, want 1", n)
	}
	rows := tbl.Select(nil, nil)
	if len(rows) != 1 || rows[0]["id"].Int() != 2 {
		t.Fatalf("rows after delete = %v, want just id=2", rows)
	}
}

func TestRoundTripPersistence(t *testing.T) {
	dir := t.TempDir()
	tbl := New("users", usersSchema(), dir)
	mustInsert(t, tbl, "1", "Alice")
	mustInsert(t, tbl, "2", "Bob")

	reloaded, err := Load("users", usersSchema(), dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	rows := reloaded.Select(nil, nil)
	if len(rows) != 2 || rows[0]["name"].Text() != "Alice" || rows[1]["name"].Text() != "Bob" {
		t.Fatalf("reloaded rows = %v, want Alice then Bob", rows)
	}
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	dir := t.TempDir()
	tbl, err := Load("ghost", usersSchema(), dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(tbl.Rows) != 0 {
		t.Fatalf("Load() of missing file = %d rows, want 0", len(tbl.Rows))
	}
}

func TestLoadMalformedFileIsEmpty(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "users.json"), []byte("not json"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	tbl, err := Load("users", usersSchema(), dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(tbl.Rows) != 0 {
		t.Fatalf("Load() of malformed file = %d rows, want 0", len(tbl.Rows))
	}
}

func TestSavePreservesSchemaColumnOrder(t *testing.T) {
	dir := t.TempDir()
	tbl := New("users", usersSchema(), dir)
	mustInsert(t, tbl, "1", "Alice")

	raw, err := os.ReadFile(filepath.Join(dir, "users.json"))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	idPos := indexOf(string(raw), `"id"`)
	namePos := indexOf(string(raw), `"name"`)
	if idPos < 0 || namePos < 0 || idPos > namePos {
		t.Fatalf("table file did not preserve schema column order: %s", raw)
	}
}

func indexOf(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}

func mustInsert(t *testing.T, tbl *Table, id, name string) {
	t.Helper()
	if _, err := tbl.Insert(map[string]value.Value{
		"id": value.NewRaw(id), "name": value.NewRaw(name),
	}); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
}

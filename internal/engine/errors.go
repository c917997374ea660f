package engine

import "fmt"

func errTableExists(name string) error {
	return fmt.Errorf("Table %s already exists", name)
}

func errTableMissing(name string) error {
	return fmt.Errorf("Table %s does not exist", name)
}

func errUnknownColumn(name string) error {
	return fmt.Errorf("Unknown column %s", name)
}

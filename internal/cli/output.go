package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/Dicklesworthstone/miniql/internal/tui/components"
)

// writeJSON pretty-prints result as JSON to stdout.
func writeJSON(result any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// printRows renders a SELECT result as a component-rendered table. Column
// order is alphabetical for display only; it has no bearing on persistence
// order, which the table store already guarantees.
func printRows(rows []map[string]any) {
	if len(rows) == 0 {
		fmt.Println("(0 rows)")
		return
	}
	cols := make([]string, 0, len(rows[0]))
	for c := range rows[0] {
		cols = append(cols, c)
	}
	sort.Strings(cols)

	tableCols := make([]components.Column, len(cols))
	for i, c := range cols {
		tableCols[i] = components.Column{Header: c, MinWidth: len(c)}
	}
	grid := make([][]string, len(rows))
	for i, row := range rows {
		cells := make([]string, len(cols))
		for j, c := range cols {
			cells[j] = fmt.Sprint(row[c])
		}
		grid[i] = cells
	}
	fmt.Println(components.NewTable(tableCols).WithRows(grid).Render())
}

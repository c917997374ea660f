package cli

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-shellwords"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Dicklesworthstone/miniql/internal/engine"
)

func init() {
	rootCmd.AddCommand(replCmd)
}

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive SQL REPL",
	Long: `Read SQL statements from stdin, one per line, and print each result.

Dot-commands (prefixed with '.') are handled locally rather than sent to the
engine:
  .tables               list known tables
  .schema <table>       print a table's column names, types, and constraints
  .import <file> <table> load a headered CSV file as INSERT statements
  .quit / .exit         leave the REPL`,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}
		return runREPL(eng, os.Stdin, os.Stdout)
	},
}

func runREPL(eng *engine.Engine, in io.Reader, out io.Writer) error {
	interactive := false
	if f, ok := in.(*os.File); ok {
		interactive = term.IsTerminal(int(f.Fd()))
	}

	scanner := bufio.NewScanner(in)
	prompt := func() {
		if interactive {
			fmt.Fprint(out, "miniql> ")
		}
	}

	prompt()
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			prompt()
			continue
		}
		if strings.HasPrefix(line, ".") {
			if done := runDotCommand(eng, line, out); done {
				return nil
			}
			prompt()
			continue
		}

		result, err := eng.Execute(line)
		if err != nil {
			fmt.Fprintln(out, "error:", err)
		} else {
			printToWriter(out, result)
		}
		prompt()
	}
	return scanner.Err()
}

// runDotCommand handles one leading-dot REPL command, splitting its
// arguments quote-aware the way a shell would. It returns true when the
// REPL should exit.
func runDotCommand(eng *engine.Engine, line string, out io.Writer) bool {
	args, err := shellwords.Parse(line[1:])
	if err != nil || len(args) == 0 {
		fmt.Fprintln(out, "error: malformed dot-command")
		return false
	}
	switch args[0] {
	case "quit", "exit":
		return true
	case "tables":
		for _, name := range eng.TableNames() {
			fmt.Fprintln(out, name)
		}
	case "schema":
		if len(args) != 2 {
			fmt.Fprintln(out, "error: usage: .schema <table>")
			return false
		}
		printSchema(eng, args[1], out)
	case "import":
		if len(args) != 3 {
			fmt.Fprintln(out, "error: usage: .import <file> <table>")
			return false
		}
		if err := importCSV(eng, args[1], args[2], out); err != nil {
			fmt.Fprintln(out, "error:", err)
		}
	default:
		fmt.Fprintf(out, "unknown command: .%s\n", args[0])
	}
	return false
}

// printSchema writes one line per column of table, in declared order,
// followed by any primary-key or unique constraints.
func printSchema(eng *engine.Engine, table string, out io.Writer) {
	schema, ok := eng.Schema(table)
	if !ok {
		fmt.Fprintf(out, "error: table %q does not exist\n", table)
		return
	}
	for _, col := range schema.Columns {
		fmt.Fprintf(out, "%s %s\n", col.Name, col.Type)
	}
	if schema.PrimaryKey != "" {
		fmt.Fprintf(out, "PRIMARY KEY (%s)\n", schema.PrimaryKey)
	}
	for _, col := range schema.UniqueCols {
		fmt.Fprintf(out, "UNIQUE (%s)\n", col)
	}
}

// importCSV reads a headered CSV file and issues one INSERT per data row
// against table, reusing the engine's normal SQL path rather than writing
// rows directly.
func importCSV(eng *engine.Engine, path, table string, out io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("reading header from %s: %w", path, err)
	}

	imported := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		values := make([]string, len(record))
		for i, field := range record {
			values[i] = "'" + strings.ReplaceAll(field, "'", "''") + "'"
		}
		sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(header, ", "), strings.Join(values, ", "))
		if _, err := eng.Execute(sql); err != nil {
			return fmt.Errorf("row %d: %w", imported+1, err)
		}
		imported++
	}
	fmt.Fprintf(out, "imported %d row(s) into %s\n", imported, table)
	return nil
}

// printToWriter prints an execute() result to an arbitrary writer, since
// the REPL's stdout is injected for testability. Unlike printResult it
// does not render rows as a table: each row map is printed on its own line.
func printToWriter(out io.Writer, result any) {
	switch v := result.(type) {
	case string:
		fmt.Fprintln(out, v)
	case int:
		fmt.Fprintln(out, v)
	case []map[string]any:
		if len(v) == 0 {
			fmt.Fprintln(out, "(0 rows)")
			return
		}
		for _, row := range v {
			fmt.Fprintln(out, row)
		}
	case map[string]any:
		fmt.Fprintln(out, v)
	default:
		fmt.Fprintf(out, "%v\n", v)
	}
}

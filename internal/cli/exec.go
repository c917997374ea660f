package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(execCmd)
}

var execCmd = &cobra.Command{
	Use:   "exec <sql>",
	Short: "Run one SQL statement against the catalog and data directory",
	Long: `Run a single SQL statement through the query engine.

Examples:
  miniql exec "CREATE TABLE users (id INT PRIMARY KEY, name TEXT)"
  miniql exec "INSERT INTO users VALUES (1, 'Alice')"
  miniql exec "SELECT * FROM users"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}
		sql := strings.Join(args, " ")
		result, err := eng.Execute(sql)
		if err != nil {
			return err
		}
		return printResult(result)
	},
}

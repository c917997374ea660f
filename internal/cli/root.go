// Package cli implements miniql's command surface: init, exec, repl, tui,
// and watch, built as a cobra command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/miniql/internal/config"
	"github.com/Dicklesworthstone/miniql/internal/engine"
)

var (
	flagCatalog string
	flagDataDir string
	flagConfig  string
	flagOutput  string
)

// rootCmd is the top-level `miniql` command; subcommands register
// themselves onto it from their own init().
var rootCmd = &cobra.Command{
	Use:           "miniql",
	Short:         "A tiny single-process relational database",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagCatalog, "catalog", "", "catalog file path (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "table data directory (overrides config)")
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "project config.toml path")
	rootCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", "text", "output format: text|json")
}

// Execute runs the root command; it is the sole entry point called by main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}

// GetOutput returns the resolved output format flag.
func GetOutput() string {
	if flagOutput == "" {
		return "text"
	}
	return flagOutput
}

// loadConfig resolves layered configuration for the current invocation.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return config.Config{}, err
	}
	if flagCatalog != "" {
		cfg.General.CatalogPath = flagCatalog
	}
	if flagDataDir != "" {
		cfg.General.DataDir = flagDataDir
	}
	return cfg, nil
}

// newEngine builds an *engine.Engine from the resolved configuration.
func newEngine() (*engine.Engine, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return engine.New(
		engine.WithCatalogPath(cfg.General.CatalogPath),
		engine.WithDataDir(cfg.General.DataDir),
	)
}

// printResult renders an execute() result in the selected output format.
func printResult(result any) error {
	if GetOutput() == "json" {
		return writeJSON(result)
	}
	switch v := result.(type) {
	case string:
		fmt.Println(v)
	case int:
		fmt.Println(v)
	case []map[string]any:
		printRows(v)
	case map[string]any:
		printRows([]map[string]any{v})
	default:
		fmt.Printf("%v\n", v)
	}
	return nil
}

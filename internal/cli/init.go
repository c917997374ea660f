package cli

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/miniql/internal/config"
)

var flagInitForce bool

func init() {
	initCmd.Flags().BoolVarP(&flagInitForce, "force", "f", false, "reinitialize even if config.toml already exists")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a miniql project in the current directory",
	Long: `Create the data directory, an empty catalog, and a default config.toml.

Creates:
  config.toml    - project configuration
  data/          - per-table JSON files
  catalog.json   - empty catalog

Also adds data/ and catalog.json to .gitignore if not already present.`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	projectDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}

	configPath := filepath.Join(projectDir, "config.toml")
	if _, err := os.Stat(configPath); err == nil && !flagInitForce {
		return fmt.Errorf("already initialized: %s exists (use --force to reinitialize)", configPath)
	}

	cfg := config.Default()
	if flagCatalog != "" {
		cfg.General.CatalogPath = flagCatalog
	}
	if flagDataDir != "" {
		cfg.General.DataDir = flagDataDir
	}
	if err := config.Write(configPath, cfg); err != nil {
		return fmt.Errorf("creating config: %w", err)
	}

	if err := os.MkdirAll(filepath.Join(projectDir, cfg.General.DataDir), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	catalogPath := filepath.Join(projectDir, cfg.General.CatalogPath)
	if _, err := os.Stat(catalogPath); os.IsNotExist(err) {
		if err := os.WriteFile(catalogPath, []byte("{}\n"), 0o644); err != nil {
			return fmt.Errorf("creating catalog: %w", err)
		}
	}

	gitignorePath := filepath.Join(projectDir, ".gitignore")
	if err := addToGitignore(gitignorePath, filepath.Clean(cfg.General.DataDir)+"/", filepath.Clean(cfg.General.CatalogPath)); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not update .gitignore: %v\n", err)
	}

	switch GetOutput() {
	case "json":
		return writeJSON(map[string]any{
			"initialized": true,
			"config":      configPath,
			"catalog":     catalogPath,
			"data_dir":    cfg.General.DataDir,
		})
	default:
		fmt.Printf("Initialized miniql in %s\n", projectDir)
		fmt.Printf("  config.toml\n  %s\n  %s/\n", cfg.General.CatalogPath, cfg.General.DataDir)
		return nil
	}
}

// addToGitignore ensures each of entries is present in the .gitignore at
// path, appending only the ones missing.
func addToGitignore(path string, entries ...string) error {
	existing := map[string]bool{}
	if f, err := os.Open(path); err == nil {
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			existing[strings.TrimSpace(scanner.Text())] = true
		}
		f.Close()
		if err := scanner.Err(); err != nil {
			return err
		}
	}

	var toAdd []string
	for _, e := range entries {
		if !existing[e] {
			toAdd = append(toAdd, e)
		}
	}
	if len(toAdd) == 0 {
		return nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	content := "\n# miniql state\n"
	for _, e := range toAdd {
		content += e + "\n"
	}
	_, err = f.WriteString(content)
	return err
}

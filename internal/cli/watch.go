package cli

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/miniql/internal/engine"
)

func init() {
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the catalog and data directory for external edits",
	Long: `Watch the catalog file and data directory for changes made outside this
process (a hand-edited JSON file, another tool writing to the same
directory) and reload the engine when they occur, logging each reload.`,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := os.MkdirAll(cfg.General.DataDir, 0o755); err != nil {
		return err
	}
	if err := watcher.Add(cfg.General.DataDir); err != nil {
		return err
	}
	if err := watcher.Add(cfg.General.CatalogPath); err != nil {
		log.Warn("catalog file not yet present, watching its directory instead", "path", cfg.General.CatalogPath)
		if err := watcher.Add(filepath.Dir(cfg.General.CatalogPath)); err != nil {
			return err
		}
	}

	eng, err := newEngine()
	if err != nil {
		return err
	}
	log.Info("watching for external changes", "catalog", cfg.General.CatalogPath, "data_dir", cfg.General.DataDir)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			log.Info("change detected, reloading engine", "path", event.Name, "op", event.Op.String())
			reloaded, err := engine.New(
				engine.WithCatalogPath(cfg.General.CatalogPath),
				engine.WithDataDir(cfg.General.DataDir),
			)
			if err != nil {
				log.Error("reload failed", "err", err)
				continue
			}
			eng = reloaded
			log.Info("reload complete", "tables", len(eng.TableNames()))
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error("watcher error", "err", err)
		}
	}
}

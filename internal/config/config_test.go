package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultValues(t *testing.T) {
	cfg := Default()
	if cfg.General.CatalogPath != "./catalog.json" {
		t.Errorf("CatalogPath = %q", cfg.General.CatalogPath)
	}
	if cfg.General.DataDir != "./data" {
		t.Errorf("DataDir = %q", cfg.General.DataDir)
	}
}

func TestWriteThenLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg := Default()
	cfg.General.LogLevel = "debug"
	cfg.General.DataDir = "/tmp/custom-data"
	if err := Write(path, cfg); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.General.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", loaded.General.LogLevel)
	}
	if loaded.General.DataDir != "/tmp/custom-data" {
		t.Errorf("DataDir = %q, want /tmp/custom-data", loaded.General.DataDir)
	}
}

func TestLoadMissingProjectConfigUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	loaded, err := Load(filepath.Join(dir, "nonexistent.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.General.CatalogPath != "./catalog.json" {
		t.Errorf("CatalogPath = %q, want default", loaded.General.CatalogPath)
	}
}

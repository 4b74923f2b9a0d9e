package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"toolstudio/internal/domain"
)

// marshalIndent and writeFile are used by WriteDefault; tests may replace
// them to force errors.
var (
	marshalIndent = json.MarshalIndent
	writeFile     = os.WriteFile
)

// WriteDefault writes a default Config to path (e.g. toolstudio.json).
// Parent directories are not created.
func WriteDefault(path string) error {
	cfg := &domain.Config{
		Infra: domain.InfraConfig{LogFormat: "text", LogLevel: "info"},
		Database: domain.DatabaseConfig{
			URL: "file:toolstudio.db",
		},
		ETL: domain.ETLConfig{
			SourceDir: "documents",
			Table:     "processed_documents",
		},
	}
	data, err := marshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return writeFile(path, data, 0644)
}

// Load reads path, unmarshals into domain.Config, applies environment
// overrides, and cleans all path fields to mitigate path traversal. Returns
// an error if the file is missing or invalid JSON.
func Load(path string) (*domain.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}
	var c domain.Config
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("config parse: %w", err)
	}
	ApplyEnv(&c)
	CleanPaths(&c)
	return &c, nil
}

// ApplyEnv overlays process-environment settings onto cfg. Called once at
// load; components receive the resulting config explicitly instead of
// reading ambient state.
func ApplyEnv(cfg *domain.Config) {
	if cfg == nil {
		return
	}
	if v := os.Getenv("TOOLSTUDIO_DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("TOOLSTUDIO_LOG_LEVEL"); v != "" {
		cfg.Infra.LogLevel = v
	}
	if v := os.Getenv("TOOLSTUDIO_LOG_FORMAT"); v != "" {
		cfg.Infra.LogFormat = v
	}
	if v := os.Getenv("TOOLSTUDIO_MANIFEST_DIR"); v != "" {
		cfg.ManifestDir = v
	}
}

// CleanPaths applies filepath.Clean to all path fields in cfg.
func CleanPaths(cfg *domain.Config) {
	if cfg == nil {
		return
	}
	if cfg.ETL.SourceDir != "" {
		cfg.ETL.SourceDir = filepath.Clean(cfg.ETL.SourceDir)
	}
	if cfg.ManifestDir != "" {
		cfg.ManifestDir = filepath.Clean(cfg.ManifestDir)
	}
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"toolstudio/internal/config"
	"toolstudio/internal/domain"
	"toolstudio/internal/mcpserver"
	"toolstudio/internal/tokenizer"
	"toolstudio/internal/tooling"
)

// version is injectable via ldflags.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stderr))
}

func run(ctx context.Context, args []string, stderr io.Writer) int {
	root := newRootCmd(stderr)
	root.SetArgs(args)
	root.SetErr(stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	return 0
}

func newRootCmd(stderr io.Writer) *cobra.Command {
	var configPath, toolConfigPath string

	root := &cobra.Command{
		Use:           "mcp-server",
		Short:         "Expose the studio tools over the Model Context Protocol (stdio)",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := &domain.Config{Infra: domain.InfraConfig{LogFormat: "text", LogLevel: "info"}}
			if configPath != "" {
				loaded, err := config.Load(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			} else {
				config.ApplyEnv(cfg)
			}
			logger := config.NewLogger(cfg.Infra, stderr)

			toolConfigs, err := loadToolConfigs(toolConfigPath)
			if err != nil {
				return err
			}

			manifests := map[string]*tooling.Manifest{}
			if cfg.ManifestDir != "" {
				manifests, err = tooling.LoadManifestDir(cfg.ManifestDir)
				if err != nil {
					return err
				}
			}

			registry, err := buildRegistry(logger)
			if err != nil {
				return err
			}

			server := mcpserver.New(registry, toolConfigs, version,
				mcpserver.WithLogger(logger), mcpserver.WithManifests(manifests))
			return server.Run(cmd.Context())
		},
	}

	root.Flags().StringVar(&configPath, "config", "", "path to runner config JSON")
	root.Flags().StringVar(&toolConfigPath, "tool-config", "", "path to JSON file mapping tool name to its configuration payload")
	return root
}

// loadToolConfigs reads the per-tool deployment configuration map. A missing
// path yields an empty map: every tool then validates against an empty
// object.
func loadToolConfigs(path string) (map[string]json.RawMessage, error) {
	if path == "" {
		return map[string]json.RawMessage{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("tool config: %w", err)
	}
	var configs map[string]json.RawMessage
	if err := json.Unmarshal(data, &configs); err != nil {
		return nil, fmt.Errorf("tool config parse: %w", err)
	}
	return configs, nil
}

// buildRegistry assembles the builtin tool set with best-effort token
// metadata.
func buildRegistry(logger *slog.Logger) (*tooling.Registry, error) {
	var tk domain.Tokenizer
	if t, err := tokenizer.NewDefault(); err == nil {
		tk = t
	} else {
		logger.Debug("tokenizer unavailable, omitting token metadata", "error", err)
	}
	registry := tooling.NewRegistry()
	if err := tooling.RegisterBuiltins(registry, tk); err != nil {
		return nil, err
	}
	return registry, nil
}

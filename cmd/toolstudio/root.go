package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"toolstudio/internal/config"
	"toolstudio/internal/domain"
	"toolstudio/internal/tokenizer"
	"toolstudio/internal/tooling"
)

// run wires the root command and executes it. Returns the process exit code:
// nonzero only for unusable CLI input; a tool invocation that emitted a
// determinate marker line exits 0 even when the outcome was an error.
func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	return 0
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "toolstudio",
		Short:         "Run agent tools through the uniform invocation contract",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to runner config JSON")

	root.AddCommand(newRunCmd(&configPath, stdout, stderr))
	root.AddCommand(newListCmd(&configPath, stdout, stderr))
	root.AddCommand(newSchemaCmd(stdout, stderr))
	root.AddCommand(newInitConfigCmd(stdout))
	return root
}

// loadRunnerConfig resolves the runner config: an explicit file when given,
// environment overrides on top of defaults otherwise.
func loadRunnerConfig(path string) (*domain.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	cfg := &domain.Config{
		Infra: domain.InfraConfig{LogFormat: "text", LogLevel: "info"},
	}
	config.ApplyEnv(cfg)
	config.CleanPaths(cfg)
	return cfg, nil
}

// buildRegistry assembles the builtin tool set. Token metadata is
// best-effort: when the encoding cannot be loaded, tools simply omit it.
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

func newRunCmd(configPath *string, stdout, stderr io.Writer) *cobra.Command {
	var userParams, toolParams string

	cmd := &cobra.Command{
		Use:   "run <tool>",
		Short: "Invoke a tool: validate configuration and arguments, execute, emit the marker line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadRunnerConfig(*configPath)
			if err != nil {
				return err
			}
			logger := config.NewLogger(cfg.Infra, stderr)

			registry, err := buildRegistry(logger)
			if err != nil {
				return err
			}
			tool, err := registry.Get(args[0])
			if err != nil {
				return err
			}

			outcome := tooling.Invoke(cmd.Context(), tool,
				json.RawMessage(userParams), json.RawMessage(toolParams))
			if outcome.Failed() {
				logger.Warn("invocation failed", "tool", tool.Name(), "kind", outcome.Err.Kind)
			}
			return tooling.Emit(stdout, outcome)
		},
	}
	cmd.Flags().StringVar(&userParams, "user-params", "", "JSON string for tool configuration")
	cmd.Flags().StringVar(&toolParams, "tool-params", "", "JSON string for tool arguments")
	return cmd
}

func newListCmd(configPath *string, stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadRunnerConfig(*configPath)
			if err != nil {
				return err
			}
			logger := config.NewLogger(cfg.Infra, stderr)

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
			for _, tool := range registry.List() {
				fmt.Fprintf(stdout, "%s\t%s\n", tool.Name(),
					tooling.Describe(manifests, tool.Name(), tool.Description()))
			}
			return nil
		},
	}
}

func newSchemaCmd(stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "schema <tool>",
		Short: "Print a tool's configuration and argument JSON Schemas",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := buildRegistry(slog.Default())
			if err != nil {
				return err
			}
			tool, err := registry.Get(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "configuration schema:\n%s\n\narguments schema:\n%s\n",
				tool.ConfigSchema(), tool.ArgsSchema())
			return nil
		},
	}
}

func newInitConfigCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "init-config [path]",
		Short: "Write a default runner config file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "toolstudio.json"
			if len(args) == 1 {
				path = args[0]
			}
			if err := config.WriteDefault(path); err != nil {
				return err
			}
			fmt.Fprintf(stdout, "wrote %s\n", path)
			return nil
		},
	}
}

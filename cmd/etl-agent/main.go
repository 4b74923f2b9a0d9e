package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"toolstudio/internal/config"
	"toolstudio/internal/db"
	"toolstudio/internal/domain"
	"toolstudio/internal/etl"
	"toolstudio/internal/tooling"
)

// version is injectable via ldflags.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	return 0
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var (
		configPath  string
		sourceDir   string
		table       string
		databaseURL string
		watch       bool
		schedule    string
	)

	root := &cobra.Command{
		Use:           "etl-agent",
		Short:         "Extract text from documents, derive word counts, and load rows into a relational table",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(configPath, sourceDir, table, databaseURL, watch, schedule)
			if err != nil {
				return err
			}
			logger := config.NewLogger(cfg.Infra, stderr)

			conn, err := db.Connect(cfg.Database.URL)
			if err != nil {
				return err
			}
			defer conn.Close()

			pipeline, err := etl.New(conn, cfg.ETL.Table, &etl.PlainTextExtractor{}, etl.WithLogger(logger))
			if err != nil {
				return err
			}

			runOnce := func() {
				emitRunOutcome(cmd.Context(), stdout, pipeline, cfg.ETL.SourceDir)
			}

			switch {
			case cfg.ETL.Watch:
				watcher := etl.NewDirWatcher(cfg.ETL.SourceDir)
				if err := watcher.Start(runOnce); err != nil {
					return err
				}
				defer watcher.Stop()
				logger.Info("watching for documents", "dir", cfg.ETL.SourceDir)
				<-cmd.Context().Done()
				return nil
			case cfg.ETL.Schedule != "":
				stop, err := etl.Schedule(etl.NewRobfigCronEngine(), cfg.ETL.Schedule, runOnce)
				if err != nil {
					return err
				}
				defer stop()
				logger.Info("scheduled runs", "spec", cfg.ETL.Schedule)
				<-cmd.Context().Done()
				return nil
			default:
				runOnce()
				return nil
			}
		},
	}

	root.Flags().StringVar(&configPath, "config", "", "path to runner config JSON")
	root.Flags().StringVar(&sourceDir, "source", "", "directory of documents to ingest")
	root.Flags().StringVar(&table, "table", "", "destination table name")
	root.Flags().StringVar(&databaseURL, "database-url", "", "connection URL for the destination database")
	root.Flags().BoolVar(&watch, "watch", false, "run on every change in the source directory")
	root.Flags().StringVar(&schedule, "schedule", "", "cron expression for periodic runs")
	return root
}

// resolveConfig merges the optional config file with flag overrides.
func resolveConfig(path, sourceDir, table, databaseURL string, watch bool, schedule string) (*domain.Config, error) {
	cfg := &domain.Config{
		Infra: domain.InfraConfig{LogFormat: "text", LogLevel: "info"},
	}
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		config.ApplyEnv(cfg)
	}
	if sourceDir != "" {
		cfg.ETL.SourceDir = sourceDir
	}
	if table != "" {
		cfg.ETL.Table = table
	}
	if databaseURL != "" {
		cfg.Database.URL = databaseURL
	}
	if watch {
		cfg.ETL.Watch = true
	}
	if schedule != "" {
		cfg.ETL.Schedule = schedule
	}
	if cfg.ETL.SourceDir == "" || cfg.ETL.Table == "" || cfg.Database.URL == "" {
		return nil, fmt.Errorf("source directory, table, and database URL are required")
	}
	config.CleanPaths(cfg)
	return cfg, nil
}

// emitRunOutcome performs one pipeline pass and writes the marker line the
// orchestrator parses. Failures become described outcomes, never crashes.
func emitRunOutcome(ctx context.Context, stdout io.Writer, pipeline *etl.Pipeline, sourceDir string) {
	loaded, err := pipeline.Run(ctx, sourceDir)
	var outcome tooling.Outcome
	if err != nil {
		outcome = tooling.Outcome{Err: domain.NewInvocationError(domain.ErrExecution,
			fmt.Sprintf("Error during ETL process: %v", err))}
	} else {
		outcome = tooling.Outcome{Result: &domain.ToolResult{
			Data:     "ETL process completed successfully",
			Metadata: map[string]string{"documents": fmt.Sprintf("%d", loaded)},
		}}
	}
	// Emit to stdout cannot meaningfully fail here; the error is ignored the
	// same way a broken pipe would end the process anyway.
	_ = tooling.Emit(stdout, outcome)
}

package tooling

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"toolstudio/internal/db"
	"toolstudio/internal/domain"
)

// SQLQueryConfig carries the warehouse connection settings, supplied once per
// deployment.
type SQLQueryConfig struct {
	DatabaseURL     string `json:"database_url" jsonschema:"minLength=1,description=Connection URL for the analytics database (file: or libsql: scheme)"`
	DefaultDatabase string `json:"default_database,omitempty" jsonschema:"description=Logical database name recorded with each query"`
}

// SQLQueryArgs carry the statement for one call.
type SQLQueryArgs struct {
	SQLQuery string `json:"sql_query" jsonschema:"minLength=1,description=The SQL query to execute on the database"`
}

// Package-level injectable functions, overridden in tests.
var (
	sqlQueryUnmarshalFunc = json.Unmarshal
	sqlQueryConnectFunc   = db.Connect
	sqlQueryTextFunc      = db.QueryText
)

// SQLQueryTool executes a SQL query against the configured database and
// returns the result set as a column-aligned text table. SQL failures are
// reported as result text, mirroring how warehouse agents consume them.
type SQLQueryTool struct{}

func (t *SQLQueryTool) Name() string { return "sql_query" }

func (t *SQLQueryTool) Description() string {
	return "Executes a given SQL query on the configured database and returns the output as a text table."
}

func (t *SQLQueryTool) ConfigSchema() string { return GenerateSchema(SQLQueryConfig{}) }

func (t *SQLQueryTool) ArgsSchema() string { return GenerateSchema(SQLQueryArgs{}) }

// Call connects, runs the query, and renders the rows.
func (t *SQLQueryTool) Call(ctx context.Context, config, args json.RawMessage) (*domain.ToolResult, error) {
	var cfg SQLQueryConfig
	if err := sqlQueryUnmarshalFunc(config, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	var in SQLQueryArgs
	if err := sqlQueryUnmarshalFunc(args, &in); err != nil {
		return nil, fmt.Errorf("failed to parse input: %w", err)
	}

	conn, err := sqlQueryConnectFunc(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	defer conn.Close()

	query := strings.TrimSuffix(strings.TrimSpace(in.SQLQuery), ";")

	table, err := t.runQuery(ctx, conn, query)
	if err != nil {
		return &domain.ToolResult{
			Data: fmt.Sprintf("SQL Execution failed. Error details: %v", err),
		}, nil
	}

	metadata := map[string]string{"query": query}
	if cfg.DefaultDatabase != "" {
		metadata["database"] = cfg.DefaultDatabase
	}
	return &domain.ToolResult{Data: table, Metadata: metadata}, nil
}

func (t *SQLQueryTool) runQuery(ctx context.Context, conn *sql.DB, query string) (string, error) {
	return sqlQueryTextFunc(ctx, conn, query)
}

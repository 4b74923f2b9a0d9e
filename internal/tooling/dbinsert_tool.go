package tooling

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"toolstudio/internal/db"
	"toolstudio/internal/domain"
)

// DBInsertConfig carries the destination connection plus the tables the agent
// may write to. Writes outside the allowlist never reach the database.
type DBInsertConfig struct {
	DatabaseURL   string   `json:"database_url" jsonschema:"minLength=1,description=Connection URL for the destination database"`
	AllowedTables []string `json:"allowed_tables" jsonschema:"minItems=1,description=Tables the agent is allowed to insert into"`
}

// DBInsertArgs describe one dynamic insert. The agent chooses the table and
// columns based on the information it has collected.
type DBInsertArgs struct {
	Table          string         `json:"table" jsonschema:"minLength=1,description=Destination table; must be in the configured allowlist"`
	Data           map[string]any `json:"data" jsonschema:"description=Column names as keys and values to insert"`
	UpdateIfExists bool           `json:"update_if_exists,omitempty" jsonschema:"description=Replace the existing row on key conflict instead of failing"`
}

var (
	dbInsertUnmarshalFunc = json.Unmarshal
	dbInsertConnectFunc   = db.Connect
	dbInsertRowFunc       = db.InsertRow
)

// DBInsertTool inserts one row of agent-collected data into an allowlisted
// relational table using parameterized SQL.
type DBInsertTool struct{}

func (t *DBInsertTool) Name() string { return "db_insert" }

func (t *DBInsertTool) Description() string {
	return "Inserts a row of collected data into an allowlisted table in the configured relational database."
}

func (t *DBInsertTool) ConfigSchema() string { return GenerateSchema(DBInsertConfig{}) }

func (t *DBInsertTool) ArgsSchema() string { return GenerateSchema(DBInsertArgs{}) }

// Call validates the table against the allowlist and performs the insert.
func (t *DBInsertTool) Call(ctx context.Context, config, args json.RawMessage) (*domain.ToolResult, error) {
	var cfg DBInsertConfig
	if err := dbInsertUnmarshalFunc(config, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	var in DBInsertArgs
	if err := dbInsertUnmarshalFunc(args, &in); err != nil {
		return nil, fmt.Errorf("failed to parse input: %w", err)
	}

	if !tableAllowed(cfg.AllowedTables, in.Table) {
		return nil, fmt.Errorf("table %q is not in the allowed tables list", in.Table)
	}
	if len(in.Data) == 0 {
		return nil, fmt.Errorf("data must contain at least one column")
	}

	columns, values, err := flattenInsertData(in.Data)
	if err != nil {
		return nil, err
	}

	conn, err := dbInsertConnectFunc(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	defer conn.Close()

	if err := dbInsertRowFunc(ctx, conn, in.Table, columns, values, in.UpdateIfExists); err != nil {
		return nil, err
	}

	status := "inserted"
	if in.UpdateIfExists {
		status = "upserted"
	}
	summary := map[string]any{
		"status":  status,
		"table":   in.Table,
		"columns": columns,
	}
	data, err := json.Marshal(summary)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize summary: %w", err)
	}
	return &domain.ToolResult{
		Data:     string(data),
		Metadata: map[string]string{"table": in.Table},
	}, nil
}

func tableAllowed(allowed []string, table string) bool {
	for _, name := range allowed {
		if name == table {
			return true
		}
	}
	return false
}

// flattenInsertData produces deterministic column order and converts nested
// structures to their JSON text form, the closest relational-friendly shape.
func flattenInsertData(data map[string]any) ([]string, []any, error) {
	columns := make([]string, 0, len(data))
	for col := range data {
		columns = append(columns, col)
	}
	sort.Strings(columns)

	values := make([]any, 0, len(columns))
	for _, col := range columns {
		v := data[col]
		switch v.(type) {
		case map[string]any, []any:
			encoded, err := json.Marshal(v)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to encode column %q: %w", col, err)
			}
			values = append(values, string(encoded))
		default:
			values = append(values, v)
		}
	}
	return columns, values, nil
}

package db

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	// Import the libSQL driver — registers "libsql" with database/sql.
	// Handles remote URLs (libsql://, https://, wss://).
	_ "github.com/tursodatabase/libsql-client-go/libsql"

	// Import the pure-Go SQLite driver for local file: URLs.
	// libsql-client-go delegates file: URLs to this driver.
	_ "modernc.org/sqlite"
)

// driverName is the database/sql driver to use. Package-level so tests can
// point at a different registered driver; production always uses "libsql".
var driverName = "libsql"

// Connect opens a database connection and verifies it with a ping.
//
// Supported URL schemes:
//
//	Local file:   "file:path/to/db.db"
//	Remote libSQL: "libsql://[db-name].example.io?authToken=[token]"
func Connect(dbURL string) (*sql.DB, error) {
	if dbURL == "" {
		return nil, fmt.Errorf("database URL must not be empty")
	}

	conn, err := sql.Open(driverName, dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return conn, nil
}

// identifierPattern restricts table and column names to plain identifiers so
// they can be interpolated into SQL safely. Values always go through
// placeholders.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidIdentifier reports whether name is safe to use as a table or column
// name in a built statement.
func ValidIdentifier(name string) bool {
	return identifierPattern.MatchString(name)
}

// QueryText executes query and renders the result set as a column-aligned
// text table, the shape agents expect from warehouse queries.
func QueryText(ctx context.Context, conn *sql.DB, query string) (string, error) {
	rows, err := conn.QueryContext(ctx, query)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return "", err
	}

	var records [][]string
	for rows.Next() {
		values := make([]any, len(columns))
		for i := range values {
			values[i] = new(sql.NullString)
		}
		if err := rows.Scan(values...); err != nil {
			return "", err
		}
		record := make([]string, len(columns))
		for i, v := range values {
			ns := v.(*sql.NullString)
			if ns.Valid {
				record[i] = ns.String
			} else {
				record[i] = "NULL"
			}
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	return renderTable(columns, records), nil
}

// renderTable pads each column to its widest cell.
func renderTable(columns []string, records [][]string) string {
	widths := make([]int, len(columns))
	for i, col := range columns {
		widths[i] = len(col)
	}
	for _, record := range records {
		for i, cell := range record {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var b strings.Builder
	writeRow := func(cells []string) {
		for i, cell := range cells {
			if i > 0 {
				b.WriteString("  ")
			}
			b.WriteString(cell)
			b.WriteString(strings.Repeat(" ", widths[i]-len(cell)))
		}
		b.WriteString("\n")
	}
	writeRow(columns)
	for _, record := range records {
		writeRow(record)
	}
	return strings.TrimRight(b.String(), "\n")
}

// InsertRow builds and executes a parameterized INSERT for the given
// column/value pairs. Table and column names must be plain identifiers.
// With replace set, an existing row with the same primary key is overwritten
// (INSERT OR REPLACE) instead of failing the statement.
func InsertRow(ctx context.Context, conn *sql.DB, table string, columns []string, values []any, replace bool) error {
	if !ValidIdentifier(table) {
		return fmt.Errorf("invalid table name: %q", table)
	}
	if len(columns) == 0 || len(columns) != len(values) {
		return fmt.Errorf("columns and values must be non-empty and equal length")
	}
	placeholders := make([]string, len(columns))
	for i, col := range columns {
		if !ValidIdentifier(col) {
			return fmt.Errorf("invalid column name: %q", col)
		}
		placeholders[i] = "?"
	}

	verb := "INSERT"
	if replace {
		verb = "INSERT OR REPLACE"
	}
	query := fmt.Sprintf("%s INTO %s (%s) VALUES (%s)",
		verb, table, strings.Join(columns, ", "), strings.Join(placeholders, ", "))
	if _, err := conn.ExecContext(ctx, query, values...); err != nil {
		return fmt.Errorf("insert into %s: %w", table, err)
	}
	return nil
}

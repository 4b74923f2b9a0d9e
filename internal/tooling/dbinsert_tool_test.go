package tooling

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"testing"
)

func TestDBInsertHappyPath(t *testing.T) {
	origConnect, origInsert := dbInsertConnectFunc, dbInsertRowFunc
	defer func() { dbInsertConnectFunc, dbInsertRowFunc = origConnect, origInsert }()

	var gotTable string
	var gotColumns []string
	var gotValues []any
	var gotReplace bool
	dbInsertConnectFunc = func(string) (*sql.DB, error) { return openTestDB(t), nil }
	dbInsertRowFunc = func(_ context.Context, _ *sql.DB, table string, columns []string, values []any, replace bool) error {
		gotTable, gotColumns, gotValues, gotReplace = table, columns, values, replace
		return nil
	}

	tool := &DBInsertTool{}
	outcome := Invoke(context.Background(), tool,
		json.RawMessage(`{"database_url":"file:test.db","allowed_tables":["leads"]}`),
		json.RawMessage(`{"table":"leads","data":{"name":"Ada","score":3,"tags":["vip","new"]}}`))
	if outcome.Failed() {
		t.Fatalf("unexpected failure: %v", outcome.Err)
	}

	if gotTable != "leads" {
		t.Errorf("table = %q", gotTable)
	}
	// Columns come out sorted so the built statement is deterministic.
	if len(gotColumns) != 3 || gotColumns[0] != "name" || gotColumns[1] != "score" || gotColumns[2] != "tags" {
		t.Errorf("columns = %v", gotColumns)
	}
	// Nested values are stored as JSON text.
	if gotValues[2] != `["vip","new"]` {
		t.Errorf("tags value = %v", gotValues[2])
	}
	if gotReplace {
		t.Error("replace should default to false")
	}

	var summary map[string]any
	if err := json.Unmarshal([]byte(outcome.Result.Data), &summary); err != nil {
		t.Fatalf("summary is not JSON: %v", err)
	}
	if summary["status"] != "inserted" {
		t.Errorf("status = %v", summary["status"])
	}
}

func TestDBInsertUpsert(t *testing.T) {
	origConnect, origInsert := dbInsertConnectFunc, dbInsertRowFunc
	defer func() { dbInsertConnectFunc, dbInsertRowFunc = origConnect, origInsert }()

	var gotReplace bool
	dbInsertConnectFunc = func(string) (*sql.DB, error) { return openTestDB(t), nil }
	dbInsertRowFunc = func(_ context.Context, _ *sql.DB, _ string, _ []string, _ []any, replace bool) error {
		gotReplace = replace
		return nil
	}

	tool := &DBInsertTool{}
	outcome := Invoke(context.Background(), tool,
		json.RawMessage(`{"database_url":"file:test.db","allowed_tables":["leads"]}`),
		json.RawMessage(`{"table":"leads","data":{"id":1},"update_if_exists":true}`))
	if outcome.Failed() {
		t.Fatalf("unexpected failure: %v", outcome.Err)
	}
	if !gotReplace {
		t.Error("replace not propagated")
	}
	if !strings.Contains(outcome.Result.Data, `"upserted"`) {
		t.Errorf("Data = %q", outcome.Result.Data)
	}
}

func TestDBInsertRejectsUnlistedTable(t *testing.T) {
	tool := &DBInsertTool{}
	outcome := Invoke(context.Background(), tool,
		json.RawMessage(`{"database_url":"file:test.db","allowed_tables":["leads"]}`),
		json.RawMessage(`{"table":"users","data":{"id":1}}`))
	if !outcome.Failed() {
		t.Fatal("expected failure for table outside allowlist")
	}
	if !strings.Contains(outcome.Err.Message, "not in the allowed tables list") {
		t.Errorf("message = %q", outcome.Err.Message)
	}
}

func TestDBInsertRejectsEmptyData(t *testing.T) {
	tool := &DBInsertTool{}
	outcome := Invoke(context.Background(), tool,
		json.RawMessage(`{"database_url":"file:test.db","allowed_tables":["leads"]}`),
		json.RawMessage(`{"table":"leads","data":{}}`))
	if !outcome.Failed() {
		t.Fatal("expected failure for empty data")
	}
}

func TestFlattenInsertData(t *testing.T) {
	columns, values, err := flattenInsertData(map[string]any{
		"b_nested": map[string]any{"x": 1},
		"a_plain":  "text",
	})
	if err != nil {
		t.Fatal(err)
	}
	if columns[0] != "a_plain" || columns[1] != "b_nested" {
		t.Errorf("columns = %v", columns)
	}
	if values[0] != "text" {
		t.Errorf("values[0] = %v", values[0])
	}
	if values[1] != `{"x":1}` {
		t.Errorf("values[1] = %v", values[1])
	}
}

package etl

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "etl.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeSourceFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestPipelineRunLoadsDocuments(t *testing.T) {
	conn := openTestDB(t)
	dir := writeSourceFiles(t, map[string]string{
		"a.txt": "one two three",
		"b.md":  "just two",
	})

	fixed := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	p, err := New(conn, "documents", &PlainTextExtractor{},
		WithLogger(quietLogger()), WithClock(func() time.Time { return fixed }))
	if err != nil {
		t.Fatal(err)
	}

	n, err := p.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if n != 2 {
		t.Fatalf("loaded %d documents, want 2", n)
	}

	rows, err := conn.Query("SELECT filename, word_count, processed_at FROM documents ORDER BY filename")
	if err != nil {
		t.Fatal(err)
	}
	defer rows.Close()

	type row struct {
		filename    string
		wordCount   int
		processedAt string
	}
	var got []row
	for rows.Next() {
		var r row
		if err := rows.Scan(&r.filename, &r.wordCount, &r.processedAt); err != nil {
			t.Fatal(err)
		}
		got = append(got, r)
	}
	if err := rows.Err(); err != nil {
		t.Fatal(err)
	}

	want := []row{
		{"a.txt", 3, "2026-08-28T12:00:00Z"},
		{"b.md", 2, "2026-08-28T12:00:00Z"},
	}
	if len(got) != len(want) {
		t.Fatalf("rows = %+v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestPipelineSkipsUnsupportedFiles(t *testing.T) {
	conn := openTestDB(t)
	dir := writeSourceFiles(t, map[string]string{
		"keep.txt":   "kept content",
		"skip.pdf":   "binary-ish",
		"other.xlsx": "also skipped",
	})

	p, err := New(conn, "documents", &PlainTextExtractor{}, WithLogger(quietLogger()))
	if err != nil {
		t.Fatal(err)
	}

	n, err := p.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if n != 1 {
		t.Errorf("loaded %d documents, want 1", n)
	}
}

func TestPipelineSubdirectoriesIgnored(t *testing.T) {
	conn := openTestDB(t)
	dir := writeSourceFiles(t, map[string]string{"top.txt": "top level"})
	if err := os.MkdirAll(filepath.Join(dir, "nested"), 0755); err != nil {
		t.Fatal(err)
	}

	p, err := New(conn, "documents", &PlainTextExtractor{}, WithLogger(quietLogger()))
	if err != nil {
		t.Fatal(err)
	}
	n, err := p.Run(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("loaded %d documents, want 1", n)
	}
}

func TestPipelineMissingSourceDir(t *testing.T) {
	conn := openTestDB(t)
	p, err := New(conn, "documents", &PlainTextExtractor{}, WithLogger(quietLogger()))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.Run(context.Background(), filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Fatal("expected error for missing source dir")
	}
}

func TestPipelineLoadFailure(t *testing.T) {
	orig := insertRowFunc
	insertRowFunc = func(context.Context, *sql.DB, string, []string, []any, bool) error {
		return fmt.Errorf("disk full")
	}
	defer func() { insertRowFunc = orig }()

	conn := openTestDB(t)
	dir := writeSourceFiles(t, map[string]string{"a.txt": "content"})
	p, err := New(conn, "documents", &PlainTextExtractor{}, WithLogger(quietLogger()))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.Run(context.Background(), dir); err == nil {
		t.Fatal("expected load error")
	}
}

func TestNewValidation(t *testing.T) {
	conn := openTestDB(t)
	if _, err := New(nil, "documents", &PlainTextExtractor{}); err == nil {
		t.Error("nil connection accepted")
	}
	if _, err := New(conn, "bad-table;", &PlainTextExtractor{}); err == nil {
		t.Error("invalid table name accepted")
	}
	if _, err := New(conn, "documents", nil); err == nil {
		t.Error("nil extractor accepted")
	}
}

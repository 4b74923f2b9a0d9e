package etl

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"toolstudio/internal/db"
	"toolstudio/internal/domain"
)

// Document is one ingested file flowing through the pipeline.
type Document struct {
	Filename    string
	Content     string
	WordCount   int
	ProcessedAt time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger used for step progress. Defaults to
// slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// WithClock overrides the timestamp source; tests use it for deterministic
// ProcessedAt values.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// Package-level injectable functions for error paths tests cannot reach
// naturally.
var (
	readDirFunc   = os.ReadDir
	insertRowFunc = db.InsertRow
)

// Pipeline is the sequential extract → transform → load agent: pull text out
// of every document in a source directory, derive a word count, and append
// rows to a relational table. Each Run is a single linear pass with no
// retries and no state carried between runs.
type Pipeline struct {
	conn      *sql.DB
	table     string
	extractor domain.TextExtractor
	logger    *slog.Logger
	now       func() time.Time
}

// New creates a pipeline writing to table through conn. The extractor
// supplies text for each file; files it rejects are skipped.
func New(conn *sql.DB, table string, extractor domain.TextExtractor, opts ...Option) (*Pipeline, error) {
	if conn == nil {
		return nil, fmt.Errorf("etl: database connection must not be nil")
	}
	if !db.ValidIdentifier(table) {
		return nil, fmt.Errorf("etl: invalid table name %q", table)
	}
	if extractor == nil {
		return nil, fmt.Errorf("etl: extractor must not be nil")
	}
	p := &Pipeline{conn: conn, table: table, extractor: extractor, now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

func (p *Pipeline) log() *slog.Logger {
	if p.logger != nil {
		return p.logger
	}
	return slog.Default()
}

// Run executes one full pass over sourceDir and returns the number of rows
// loaded.
func (p *Pipeline) Run(ctx context.Context, sourceDir string) (int, error) {
	p.log().Info("extracting data from documents", "dir", sourceDir)
	docs, err := p.extract(sourceDir)
	if err != nil {
		return 0, fmt.Errorf("extract: %w", err)
	}

	p.log().Info("transforming data", "documents", len(docs))
	p.transform(docs)

	p.log().Info("loading data", "table", p.table)
	if err := p.load(ctx, docs); err != nil {
		return 0, fmt.Errorf("load: %w", err)
	}
	return len(docs), nil
}

// extract walks the top level of sourceDir and pulls text from each regular
// file. A file the extractor cannot handle is skipped with a warning rather
// than failing the pass.
func (p *Pipeline) extract(sourceDir string) ([]*Document, error) {
	entries, err := readDirFunc(sourceDir)
	if err != nil {
		return nil, err
	}

	var docs []*Document
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(sourceDir, entry.Name())
		content, err := p.extractor.Extract(path)
		if err != nil {
			p.log().Warn("skipping document", "file", entry.Name(), "error", err)
			continue
		}
		docs = append(docs, &Document{
			Filename:    entry.Name(),
			Content:     content,
			ProcessedAt: p.now(),
		})
	}
	return docs, nil
}

// transform derives per-document fields from the extracted content.
func (p *Pipeline) transform(docs []*Document) {
	for _, doc := range docs {
		doc.WordCount = len(strings.Fields(doc.Content))
	}
}

// load ensures the destination table exists and appends one row per document.
func (p *Pipeline) load(ctx context.Context, docs []*Document) error {
	create := fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (filename TEXT, content TEXT, word_count INTEGER, processed_at TEXT)",
		p.table)
	if _, err := p.conn.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("create table %s: %w", p.table, err)
	}

	columns := []string{"filename", "content", "word_count", "processed_at"}
	for _, doc := range docs {
		values := []any{doc.Filename, doc.Content, doc.WordCount, doc.ProcessedAt.UTC().Format(time.RFC3339)}
		if err := insertRowFunc(ctx, p.conn, p.table, columns, values, false); err != nil {
			return err
		}
	}
	return nil
}

package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/shrish842/Angel-My-MindAi/internal/model"
)

// Filter narrows a search to chunks from matching journal entries.
// Nil fields match everything.
type Filter struct {
	EntryType      *string
	PrimaryEmotion *string
}

// Index stores searchable text chunks extracted from journal entries in
// a local SQLite database. It is the content-retrieval collaborator the
// assistant uses to ground its answers in past logs.
type Index struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewIndex opens (or creates) the retrieval database at dbPath, enables
// WAL mode, and runs any pending schema migrations.
func NewIndex(dbPath string, logger *slog.Logger) (*Index, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening retrieval db: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	idx := &Index{db: db, logger: logger}
	if err := idx.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return idx, nil
}

// Close closes the underlying database connection.
func (idx *Index) Close() error {
	return idx.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (idx *Index) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := idx.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = idx.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := idx.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// IndexEntry extracts text chunks from the entry and stores them. An
// entry that yields no chunks is silently skipped.
func (idx *Index) IndexEntry(ctx context.Context, entry model.JournalEntry) error {
	chunks := extractChunks(entry)
	if len(chunks) == 0 {
		return nil
	}

	tx, err := idx.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	const query = `
		INSERT INTO chunks (id, entry_id, entry_type, primary_emotion, tags, content, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	for _, chunk := range chunks {
		_, err := tx.ExecContext(ctx, query,
			uuid.New().String(), entry.ID, entry.Type,
			entry.PrimaryEmotion, strings.Join(entry.Tags, ","),
			chunk, entry.Timestamp.UTC(),
		)
		if err != nil {
			return fmt.Errorf("indexing chunk for entry %s: %w", entry.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing chunks for entry %s: %w", entry.ID, err)
	}

	idx.logger.Info("entry indexed",
		"entry_id", entry.ID, "entry_type", entry.Type, "chunks", len(chunks))
	return nil
}

// Search returns up to k chunk texts matching the query tokens and
// filter, newest entries first. An empty query matches on filter alone.
func (idx *Index) Search(ctx context.Context, query string, filter Filter, k int) ([]string, error) {
	if k <= 0 {
		k = 5
	}

	var conditions []string
	var args []interface{}

	tokens := strings.Fields(strings.ToLower(query))
	if len(tokens) > 0 {
		likes := make([]string, 0, len(tokens))
		for _, tok := range tokens {
			likes = append(likes, "LOWER(content) LIKE ?")
			args = append(args, "%"+tok+"%")
		}
		conditions = append(conditions, "("+strings.Join(likes, " OR ")+")")
	}
	if filter.EntryType != nil {
		conditions = append(conditions, "entry_type = ?")
		args = append(args, *filter.EntryType)
	}
	if filter.PrimaryEmotion != nil {
		conditions = append(conditions, "primary_emotion = ?")
		args = append(args, *filter.PrimaryEmotion)
	}

	q := "SELECT content FROM chunks"
	if len(conditions) > 0 {
		q += " WHERE " + strings.Join(conditions, " AND ")
	}
	q += fmt.Sprintf(" ORDER BY created_at DESC LIMIT %d", k)

	var results []string
	if err := idx.db.SelectContext(ctx, &results, q, args...); err != nil {
		return nil, fmt.Errorf("searching chunks: %w", err)
	}

	return results, nil
}

// Reindex drops all stored chunks and rebuilds the index from the given
// entries.
func (idx *Index) Reindex(ctx context.Context, entries []model.JournalEntry) error {
	if _, err := idx.db.ExecContext(ctx, "DELETE FROM chunks"); err != nil {
		return fmt.Errorf("clearing chunks: %w", err)
	}

	for _, entry := range entries {
		if err := idx.IndexEntry(ctx, entry); err != nil {
			return err
		}
	}

	idx.logger.Info("reindex complete", "entries", len(entries))
	return nil
}

// Count returns the number of stored chunks.
func (idx *Index) Count(ctx context.Context) (int, error) {
	var n int
	if err := idx.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM chunks"); err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return n, nil
}

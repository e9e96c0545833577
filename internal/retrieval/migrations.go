package retrieval

// migration is a single versioned schema change.
type migration struct {
	version int
	sql     string
}

// migrations are applied in order; each runs at most once per database.
var migrations = []migration{
	{
		version: 1,
		sql: `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS chunks (
			id TEXT PRIMARY KEY,
			entry_id TEXT NOT NULL,
			entry_type TEXT NOT NULL,
			primary_emotion TEXT NOT NULL DEFAULT '',
			tags TEXT NOT NULL DEFAULT '',
			content TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_chunks_entry_id ON chunks(entry_id);
		CREATE INDEX IF NOT EXISTS idx_chunks_entry_type ON chunks(entry_type);
		CREATE INDEX IF NOT EXISTS idx_chunks_created_at ON chunks(created_at);

		INSERT INTO schema_version (version) VALUES (1);
		`,
	},
}

package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Commands table - every dispatched assistant command
		`CREATE TABLE IF NOT EXISTS commands (
			id TEXT PRIMARY KEY,
			text TEXT NOT NULL,
			action TEXT NOT NULL,
			argument TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL CHECK(status IN ('ok', 'error')),
			error TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Volume sessions table - one row per gesture control run
		`CREATE TABLE IF NOT EXISTS volume_sessions (
			id TEXT PRIMARY KEY,
			started_at DATETIME NOT NULL,
			stopped_at DATETIME NOT NULL,
			frames INTEGER NOT NULL DEFAULT 0,
			hand_frames INTEGER NOT NULL DEFAULT 0,
			min_level REAL NOT NULL,
			max_level REAL NOT NULL,
			final_level REAL NOT NULL,
			endpoint TEXT NOT NULL
		)`,

		// Settings table - stores application settings as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		// Indexes for better query performance
		`CREATE INDEX IF NOT EXISTS idx_commands_created_at ON commands(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_volume_sessions_started_at ON volume_sessions(started_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}

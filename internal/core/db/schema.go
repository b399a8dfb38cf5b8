package db

func (db *DB) initSchema() error {
	schema := `
	-- Session event log: one row per finalized focus/break interval.
	CREATE TABLE IF NOT EXISTS sessions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		uuid TEXT UNIQUE NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		duration_seconds INTEGER NOT NULL,
		task_name TEXT NOT NULL DEFAULT '',
		phase TEXT NOT NULL CHECK(phase IN ('work', 'short_break', 'long_break')),
		completed BOOLEAN NOT NULL,
		interruptions INTEGER NOT NULL DEFAULT 0,
		focus_score INTEGER NOT NULL DEFAULT 0,
		tags TEXT,
		notes TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_uuid ON sessions(uuid);
	CREATE INDEX IF NOT EXISTS idx_sessions_date ON sessions(substr(start_time, 1, 10));
	CREATE INDEX IF NOT EXISTS idx_sessions_task ON sessions(task_name);
	CREATE INDEX IF NOT EXISTS idx_sessions_phase ON sessions(phase, completed);

	-- Derived per-day aggregates. Rebuildable from sessions.
	CREATE TABLE IF NOT EXISTS daily_stats (
		date TEXT PRIMARY KEY,
		total_pomodoros INTEGER NOT NULL DEFAULT 0,
		total_minutes INTEGER NOT NULL DEFAULT 0,
		avg_focus_score REAL NOT NULL DEFAULT 0,
		completed_tasks INTEGER NOT NULL DEFAULT 0,
		most_productive_hour INTEGER NOT NULL DEFAULT 0,
		streak_days INTEGER NOT NULL DEFAULT 0
	);

	-- Achievement definitions plus progress/unlock state.
	CREATE TABLE IF NOT EXISTS achievements (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL,
		icon TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT 'general',
		rarity TEXT NOT NULL DEFAULT 'common'
			CHECK(rarity IN ('common', 'rare', 'epic', 'legendary')),
		unlocked BOOLEAN NOT NULL DEFAULT 0,
		unlocked_date TEXT,
		progress INTEGER NOT NULL DEFAULT 0,
		max_progress INTEGER NOT NULL DEFAULT 1
	);

	CREATE INDEX IF NOT EXISTS idx_achievements_rarity ON achievements(rarity);
	CREATE INDEX IF NOT EXISTS idx_achievements_unlocked ON achievements(unlocked);

	-- Key/value counter cache. Reconstructible from sessions.
	CREATE TABLE IF NOT EXISTS user_stats (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TEXT NOT NULL DEFAULT (datetime('now'))
	);
	`

	_, err := db.conn.Exec(schema)
	return err
}

package store

import "fmt"

// currentSchemaVersion is the latest schema version.
const currentSchemaVersion = 1

// Migrate runs forward migrations to bring the database schema up to date.
func (db *DB) Migrate() error {
	if _, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	version := 0
	row := db.conn.QueryRow("SELECT version FROM schema_version LIMIT 1")
	if err := row.Scan(&version); err != nil {
		// No rows means version 0 (fresh database).
		version = 0
	}

	if version < 1 {
		if err := db.migrateV1(); err != nil {
			return fmt.Errorf("migration v1: %w", err)
		}
	}

	return nil
}

// migrateV1 creates all initial tables and indexes.
func (db *DB) migrateV1() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS snapshots (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			taken_at  TEXT NOT NULL,
			period    TEXT NOT NULL,
			version   TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS kpi_metrics (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			snapshot_id INTEGER NOT NULL REFERENCES snapshots(id),
			metric      TEXT NOT NULL,
			current     INTEGER NOT NULL,
			previous    INTEGER NOT NULL,
			change_rate REAL NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS user_totals (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			snapshot_id INTEGER NOT NULL REFERENCES snapshots(id),
			uid         TEXT NOT NULL,
			name        TEXT NOT NULL,
			total       INTEGER NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_kpi_metrics_snapshot ON kpi_metrics(snapshot_id)`,
		`CREATE INDEX IF NOT EXISTS idx_user_totals_snapshot ON user_totals(snapshot_id)`,
		`CREATE INDEX IF NOT EXISTS idx_user_totals_uid ON user_totals(uid)`,
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("executing %q: %w", stmt[:40], err)
		}
	}

	if _, err := tx.Exec("DELETE FROM schema_version"); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", currentSchemaVersion); err != nil {
		return err
	}

	return tx.Commit()
}

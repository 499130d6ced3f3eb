package store

import (
	"database/sql"
	"fmt"
)

// DBSchemaVersion is the current database schema version.
const DBSchemaVersion = 1

// migrations is an ordered list of idempotent SQL statements.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id       INTEGER PRIMARY KEY AUTOINCREMENT,
		name     TEXT NOT NULL,
		username TEXT NOT NULL UNIQUE,
		email    TEXT NOT NULL DEFAULT ''
	)`,

	`CREATE TABLE IF NOT EXISTS projects (
		id                INTEGER PRIMARY KEY AUTOINCREMENT,
		name              TEXT NOT NULL,
		path              TEXT NOT NULL UNIQUE,
		issues_tracker    TEXT NOT NULL DEFAULT 'internal',
		issues_tracker_id TEXT NOT NULL DEFAULT ''
	)`,

	`CREATE TABLE IF NOT EXISTS project_members (
		project_id INTEGER NOT NULL REFERENCES projects(id),
		user_id    INTEGER NOT NULL REFERENCES users(id),
		PRIMARY KEY (project_id, user_id)
	)`,

	`CREATE TABLE IF NOT EXISTS milestones (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		project_id INTEGER NOT NULL REFERENCES projects(id),
		title      TEXT NOT NULL,
		state      TEXT NOT NULL DEFAULT 'active',
		due_date   TEXT
	)`,

	`CREATE TABLE IF NOT EXISTS issues (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		project_id   INTEGER NOT NULL REFERENCES projects(id),
		iid          INTEGER NOT NULL,
		title        TEXT NOT NULL,
		description  TEXT NOT NULL DEFAULT '',
		state        TEXT NOT NULL DEFAULT 'opened',
		author_name  TEXT NOT NULL DEFAULT '',
		author_email TEXT NOT NULL DEFAULT '',
		assignee_id  INTEGER NOT NULL DEFAULT 0,
		milestone_id INTEGER NOT NULL DEFAULT 0,
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL,
		UNIQUE(project_id, iid)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_issues_project_state ON issues(project_id, state)`,
	`CREATE INDEX IF NOT EXISTS idx_milestones_project ON milestones(project_id)`,
}

// runMigrations applies all migration statements in order and refuses a
// database created by a newer binary.
func runMigrations(db *sql.DB) error {
	var dbVersion int
	if err := db.QueryRow("PRAGMA user_version").Scan(&dbVersion); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if dbVersion > DBSchemaVersion {
		return fmt.Errorf(
			"database schema version %d is newer than this binary supports (max %d)",
			dbVersion, DBSchemaVersion)
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return err
		}
	}

	if dbVersion < DBSchemaVersion {
		if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", DBSchemaVersion)); err != nil {
			return fmt.Errorf("set schema version: %w", err)
		}
	}
	return nil
}

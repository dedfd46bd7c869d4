package sleep

import (
	"database/sql"

	"sleeptracker/internal/store"
)

// Migrations creates the sleep_records table. Timestamps are stored as
// RFC 3339 UTC text so SQLite's date() and unixepoch() can evaluate the
// day filters and the computed-duration predicates. The duration itself is
// never persisted.
var Migrations = []store.Migration{
	{
		Version:     1,
		Description: "create sleep_records table",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE sleep_records (
					id         INTEGER PRIMARY KEY AUTOINCREMENT,
					start_time TEXT    NOT NULL,
					end_time   TEXT    NOT NULL,
					is_deleted INTEGER NOT NULL DEFAULT 0
				)`)
			if err != nil {
				return err
			}
			_, err = tx.Exec(`CREATE INDEX idx_sleep_records_start ON sleep_records(start_time)`)
			return err
		},
	},
	{
		Version:     2,
		Description: "index end_time for day filters",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`CREATE INDEX idx_sleep_records_end ON sleep_records(end_time)`)
			return err
		},
	},
}

// internal/db/db.go
package db

import (
	"database/sql"
	"time"

	_ "github.com/lib/pq"
)

// Open connects to Postgres, configures the connection pool and runs the
// schema migration. The caller owns the returned handle.
func Open(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func migrate(db *sql.DB) error {
	query := `
        CREATE TABLE IF NOT EXISTS messages (
            message_id TEXT PRIMARY KEY,
            from_msisdn TEXT NOT NULL,
            to_msisdn TEXT NOT NULL,
            ts TIMESTAMPTZ NOT NULL,
            text TEXT,
            created_at TIMESTAMPTZ NOT NULL
        );
        CREATE INDEX IF NOT EXISTS idx_messages_ts_message_id ON messages (ts, message_id);
    `
	_, err := db.Exec(query)
	return err
}

// Package sqlite implements the repository interfaces on SQLite via the
// pure-Go modernc.org/sqlite driver.
//
// Every multi-step write (post insert + tag links, favorite toggle +
// counter update, pool max-index read + insert) runs inside a single
// transaction. SQLite serializes writers, so a transaction that reads
// then writes observes a stable view; busy_timeout makes contending
// writers wait instead of failing immediately.
package sqlite

import (
	"database/sql"
	"fmt"

	// Registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and implements the repository
// interfaces from the parent package.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the database at dbPath and runs migrations.
// Use ":memory:" for an ephemeral database in tests.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL lets reads proceed while a write is in flight. Foreign keys are
	// off by default in SQLite and carry the cascade-delete semantics the
	// schema relies on, so they must be on. busy_timeout parks a writer
	// that hits the write lock instead of returning SQLITE_BUSY.
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, fmt.Errorf("sqlite: %s: %w", pragma, err)
		}
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the seven relations of the catalog. CREATE TABLE IF
// NOT EXISTS keeps this safe to run on every start.
//
// Cascade rules: deleting a user removes their posts, pools, favorites
// and sessions' worth of dependent rows transitively; deleting a post
// removes its tag links, favorites and pool memberships. Tags are never
// cascade-deleted — an unused tag simply has no post_tags rows.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			username      TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			is_admin      INTEGER NOT NULL DEFAULT 0,
			created_at    DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS posts (
			id             TEXT PRIMARY KEY,
			image_key      TEXT NOT NULL,
			uploader_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			description    TEXT NOT NULL DEFAULT '',
			favorite_count INTEGER NOT NULL DEFAULT 0,
			created_at     DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_posts_uploader_id ON posts(uploader_id);
		CREATE INDEX IF NOT EXISTS idx_posts_created_at  ON posts(created_at);

		CREATE TABLE IF NOT EXISTS tags (
			id   TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE
		);

		CREATE TABLE IF NOT EXISTS post_tags (
			post_id TEXT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
			tag_id  TEXT NOT NULL REFERENCES tags(id)  ON DELETE CASCADE,
			PRIMARY KEY (post_id, tag_id)
		);
		CREATE INDEX IF NOT EXISTS idx_post_tags_tag_id ON post_tags(tag_id);

		CREATE TABLE IF NOT EXISTS favorites (
			user_id      TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			post_id      TEXT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
			favorited_at DATETIME NOT NULL,
			PRIMARY KEY (user_id, post_id)
		);
		CREATE INDEX IF NOT EXISTS idx_favorites_post_id ON favorites(post_id);

		CREATE TABLE IF NOT EXISTS pools (
			id          TEXT PRIMARY KEY,
			name        TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			creator_id  TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at  DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_pools_creator_id ON pools(creator_id);

		CREATE TABLE IF NOT EXISTS pool_posts (
			pool_id     TEXT NOT NULL REFERENCES pools(id) ON DELETE CASCADE,
			post_id     TEXT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
			order_index INTEGER NOT NULL,
			PRIMARY KEY (pool_id, post_id),
			UNIQUE (pool_id, order_index)
		);
	`)
	if err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}

	return nil
}

package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/xid"
	"github.com/sheepbooru/catalog/internal/model"
	"github.com/sheepbooru/catalog/internal/repository"
)

var _ repository.TagRepository = (*DB)(nil)

// resolveTag returns the ID of the tag with the given normalized name,
// creating it if necessary. It runs inside the caller's transaction.
//
// The insert is idempotent: ON CONFLICT DO NOTHING means two concurrent
// resolutions of the same new name both succeed, and the follow-up
// select returns the single surviving row either way. The freshly
// generated xid is simply discarded when the name already exists.
func resolveTag(ctx context.Context, tx *sql.Tx, name string) (string, error) {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO tags (id, name) VALUES (?, ?) ON CONFLICT(name) DO NOTHING`,
		xid.New().String(), name,
	)
	if err != nil {
		return "", fmt.Errorf("sqlite: upserting tag %q: %w", name, err)
	}

	var id string
	err = tx.QueryRowContext(ctx, `SELECT id FROM tags WHERE name = ?`, name).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("sqlite: resolving tag %q: %w", name, err)
	}

	return id, nil
}

// ListTags returns every tag with its current post count, most-used
// first, ties broken by name. Tags with no remaining posts still appear
// with a count of zero.
func (db *DB) ListTags(ctx context.Context) ([]model.Tag, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT t.id, t.name, COUNT(pt.post_id) AS post_count
		 FROM tags t
		 LEFT JOIN post_tags pt ON t.id = pt.tag_id
		 GROUP BY t.id, t.name
		 ORDER BY post_count DESC, t.name ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing tags: %w", err)
	}
	defer rows.Close()

	tags := make([]model.Tag, 0)
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.PostCount); err != nil {
			return nil, fmt.Errorf("sqlite: scanning tag row: %w", err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating tags: %w", err)
	}

	return tags, nil
}

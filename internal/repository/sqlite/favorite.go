package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sheepbooru/catalog/internal/apperror"
	"github.com/sheepbooru/catalog/internal/model"
	"github.com/sheepbooru/catalog/internal/repository"
)

var _ repository.FavoriteRepository = (*DB)(nil)

// ToggleFavorite flips the (user, post) favorite in a single
// transaction: ledger row and favorite_count change together or not at
// all, so the counter can never drift from the ledger's cardinality.
// Concurrent toggles on the same post serialize on SQLite's write lock.
func (db *DB) ToggleFavorite(ctx context.Context, userID, postID string) (*model.FavoriteStatus, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("sqlite: beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var one int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM posts WHERE id = ?`, postID).Scan(&one)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("post", postID)
		}
		return nil, fmt.Errorf("sqlite: checking post %s: %w", postID, err)
	}

	var favorited bool
	err = tx.QueryRowContext(ctx,
		`SELECT 1 FROM favorites WHERE user_id = ? AND post_id = ?`,
		userID, postID,
	).Scan(&one)
	switch {
	case err == sql.ErrNoRows:
		favorited = false
	case err != nil:
		return nil, fmt.Errorf("sqlite: checking favorite: %w", err)
	default:
		favorited = true
	}

	if favorited {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM favorites WHERE user_id = ? AND post_id = ?`,
			userID, postID,
		); err != nil {
			return nil, fmt.Errorf("sqlite: removing favorite: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE posts SET favorite_count = favorite_count - 1 WHERE id = ?`,
			postID,
		); err != nil {
			return nil, fmt.Errorf("sqlite: decrementing favorite count: %w", err)
		}
	} else {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO favorites (user_id, post_id, favorited_at) VALUES (?, ?, ?)`,
			userID, postID, time.Now(),
		); err != nil {
			return nil, fmt.Errorf("sqlite: inserting favorite: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE posts SET favorite_count = favorite_count + 1 WHERE id = ?`,
			postID,
		); err != nil {
			return nil, fmt.Errorf("sqlite: incrementing favorite count: %w", err)
		}
	}

	var count int
	if err := tx.QueryRowContext(ctx,
		`SELECT favorite_count FROM posts WHERE id = ?`, postID,
	).Scan(&count); err != nil {
		return nil, fmt.Errorf("sqlite: reading favorite count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("sqlite: committing favorite toggle: %w", err)
	}

	return &model.FavoriteStatus{
		Favorited:     !favorited,
		FavoriteCount: count,
	}, nil
}

// ListFavorites returns the posts a user has favorited, most recently
// favorited first.
func (db *DB) ListFavorites(ctx context.Context, userID string) ([]model.Post, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+postColumns+`
		 FROM posts p
		 JOIN users u ON p.uploader_id = u.id
		 JOIN favorites f ON p.id = f.post_id
		 WHERE f.user_id = ?
		 ORDER BY f.favorited_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing favorites for user %s: %w", userID, err)
	}
	defer rows.Close()

	posts, err := scanPosts(rows)
	if err != nil {
		return nil, err
	}

	for i := range posts {
		posts[i].Tags, err = db.postTags(ctx, posts[i].ID)
		if err != nil {
			return nil, err
		}
	}

	return posts, nil
}

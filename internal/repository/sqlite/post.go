package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sheepbooru/catalog/internal/apperror"
	"github.com/sheepbooru/catalog/internal/model"
	"github.com/sheepbooru/catalog/internal/repository"
)

var _ repository.PostRepository = (*DB)(nil)

// postColumns is the shared select list for post queries. Every post
// read joins users for the uploader name.
const postColumns = `p.id, p.image_key, p.uploader_id, u.username, p.description,
	p.favorite_count, p.created_at`

// CreatePost inserts the post and its tag associations in one
// transaction. Tag names are normalized and deduplicated here; names
// that normalize to the empty string are dropped. Either the post and
// all its tag links commit together or nothing does.
func (db *DB) CreatePost(ctx context.Context, post *model.Post, tagNames []string) error {
	post.ID = xid.New().String()
	post.CreatedAt = time.Now()
	post.FavoriteCount = 0

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO posts (id, image_key, uploader_id, description, favorite_count, created_at)
		 VALUES (?, ?, ?, ?, 0, ?)`,
		post.ID,
		post.ImageKey,
		post.UploaderID,
		post.Description,
		post.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting post: %w", err)
	}

	seen := make(map[string]bool, len(tagNames))
	resolved := make([]string, 0, len(tagNames))
	for _, raw := range tagNames {
		name := model.NormalizeTagName(raw)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		tagID, err := resolveTag(ctx, tx, name)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO post_tags (post_id, tag_id) VALUES (?, ?)`,
			post.ID, tagID,
		); err != nil {
			return fmt.Errorf("sqlite: linking tag %q to post %s: %w", name, post.ID, err)
		}
		resolved = append(resolved, name)
	}
	post.Tags = resolved

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing post insert: %w", err)
	}

	return nil
}

// GetPost returns the detail view for one post: tags, the pools it
// belongs to, and whether viewerID has favorited it. An empty viewerID
// means anonymous.
func (db *DB) GetPost(ctx context.Context, id, viewerID string) (*model.PostDetail, error) {
	var detail model.PostDetail

	err := db.conn.QueryRowContext(ctx,
		`SELECT `+postColumns+`
		 FROM posts p
		 JOIN users u ON p.uploader_id = u.id
		 WHERE p.id = ?`,
		id,
	).Scan(
		&detail.ID,
		&detail.ImageKey,
		&detail.UploaderID,
		&detail.UploaderName,
		&detail.Description,
		&detail.FavoriteCount,
		&detail.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("post", id)
		}
		return nil, fmt.Errorf("sqlite: getting post %s: %w", id, err)
	}

	detail.Tags, err = db.postTags(ctx, id)
	if err != nil {
		return nil, err
	}

	detail.Pools, err = db.postPools(ctx, id)
	if err != nil {
		return nil, err
	}

	if viewerID != "" {
		var one int
		err := db.conn.QueryRowContext(ctx,
			`SELECT 1 FROM favorites WHERE user_id = ? AND post_id = ?`,
			viewerID, id,
		).Scan(&one)
		switch {
		case err == sql.ErrNoRows:
			detail.IsFavorited = false
		case err != nil:
			return nil, fmt.Errorf("sqlite: checking favorite for post %s: %w", id, err)
		default:
			detail.IsFavorited = true
		}
	}

	return &detail, nil
}

// ListPosts returns posts matching the filter, newest first. Filter
// fields compose: a tag filter and an uploader filter together return
// only that uploader's posts carrying the tag.
func (db *DB) ListPosts(ctx context.Context, filter repository.PostFilter) ([]model.Post, error) {
	query := `SELECT ` + postColumns + `
		 FROM posts p
		 JOIN users u ON p.uploader_id = u.id`
	var args []any

	where := ""
	if tag := model.NormalizeTagName(filter.Tag); tag != "" {
		where += ` AND EXISTS (
			SELECT 1 FROM post_tags pt
			JOIN tags t ON pt.tag_id = t.id
			WHERE pt.post_id = p.id AND t.name = ?)`
		args = append(args, tag)
	}
	if filter.UploaderID != "" {
		where += ` AND p.uploader_id = ?`
		args = append(args, filter.UploaderID)
	}
	if where != "" {
		query += ` WHERE` + where[4:] // drop the leading " AND"
	}
	query += ` ORDER BY p.created_at DESC`

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing posts: %w", err)
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

// DeletePost removes the post row. Favorites, tag links and pool
// memberships cascade via foreign keys; tags themselves are untouched.
// Releasing the underlying image is the service layer's job.
func (db *DB) DeletePost(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting post %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("post", id)
	}

	return nil
}

// postTags returns the normalized tag names attached to a post, sorted
// for stable output.
func (db *DB) postTags(ctx context.Context, postID string) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT t.name
		 FROM tags t
		 JOIN post_tags pt ON t.id = pt.tag_id
		 WHERE pt.post_id = ?
		 ORDER BY t.name ASC`,
		postID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: loading tags for post %s: %w", postID, err)
	}
	defer rows.Close()

	tags := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("sqlite: scanning tag name: %w", err)
		}
		tags = append(tags, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating post tags: %w", err)
	}

	return tags, nil
}

// postPools returns the pools containing a post.
func (db *DB) postPools(ctx context.Context, postID string) ([]model.PoolRef, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT pl.id, pl.name
		 FROM pools pl
		 JOIN pool_posts pp ON pl.id = pp.pool_id
		 WHERE pp.post_id = ?
		 ORDER BY pl.name ASC`,
		postID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: loading pools for post %s: %w", postID, err)
	}
	defer rows.Close()

	pools := make([]model.PoolRef, 0)
	for rows.Next() {
		var ref model.PoolRef
		if err := rows.Scan(&ref.ID, &ref.Name); err != nil {
			return nil, fmt.Errorf("sqlite: scanning pool ref: %w", err)
		}
		pools = append(pools, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating post pools: %w", err)
	}

	return pools, nil
}

// scanPosts drains rows selected with postColumns.
func scanPosts(rows *sql.Rows) ([]model.Post, error) {
	posts := make([]model.Post, 0)
	for rows.Next() {
		var p model.Post
		if err := rows.Scan(
			&p.ID,
			&p.ImageKey,
			&p.UploaderID,
			&p.UploaderName,
			&p.Description,
			&p.FavoriteCount,
			&p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning post row: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating posts: %w", err)
	}

	return posts, nil
}

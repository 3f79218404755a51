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

var _ repository.PoolRepository = (*DB)(nil)

// CreatePool inserts a new pool, generating the ID and creation
// timestamp.
func (db *DB) CreatePool(ctx context.Context, pool *model.Pool) error {
	pool.ID = xid.New().String()
	pool.CreatedAt = time.Now()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO pools (id, name, description, creator_id, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		pool.ID,
		pool.Name,
		pool.Description,
		pool.CreatorID,
		pool.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting pool: %w", err)
	}

	return nil
}

// GetPool returns the pool with its members ordered by order_index
// ascending, each member carrying its tags.
func (db *DB) GetPool(ctx context.Context, id string) (*model.PoolDetail, error) {
	var detail model.PoolDetail

	err := db.conn.QueryRowContext(ctx,
		`SELECT pl.id, pl.name, pl.description, pl.creator_id, u.username, pl.created_at
		 FROM pools pl
		 JOIN users u ON pl.creator_id = u.id
		 WHERE pl.id = ?`,
		id,
	).Scan(
		&detail.ID,
		&detail.Name,
		&detail.Description,
		&detail.CreatorID,
		&detail.CreatorName,
		&detail.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("pool", id)
		}
		return nil, fmt.Errorf("sqlite: getting pool %s: %w", id, err)
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+postColumns+`, pp.order_index
		 FROM posts p
		 JOIN users u ON p.uploader_id = u.id
		 JOIN pool_posts pp ON p.id = pp.post_id
		 WHERE pp.pool_id = ?
		 ORDER BY pp.order_index ASC`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: loading pool %s members: %w", id, err)
	}
	defer rows.Close()

	members := make([]model.PoolPost, 0)
	for rows.Next() {
		var m model.PoolPost
		if err := rows.Scan(
			&m.ID,
			&m.ImageKey,
			&m.UploaderID,
			&m.UploaderName,
			&m.Description,
			&m.FavoriteCount,
			&m.CreatedAt,
			&m.OrderIndex,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning pool member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating pool members: %w", err)
	}

	for i := range members {
		members[i].Tags, err = db.postTags(ctx, members[i].ID)
		if err != nil {
			return nil, err
		}
	}

	detail.Posts = members
	detail.PostCount = len(members)

	return &detail, nil
}

// GetPoolCreator returns the creator's user ID without loading members.
func (db *DB) GetPoolCreator(ctx context.Context, id string) (string, error) {
	var creatorID string
	err := db.conn.QueryRowContext(ctx,
		`SELECT creator_id FROM pools WHERE id = ?`, id,
	).Scan(&creatorID)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", apperror.NotFound("pool", id)
		}
		return "", fmt.Errorf("sqlite: getting pool %s creator: %w", id, err)
	}

	return creatorID, nil
}

// ListPools returns all pools with their member counts, newest first.
func (db *DB) ListPools(ctx context.Context) ([]model.Pool, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT pl.id, pl.name, pl.description, pl.creator_id, u.username, pl.created_at,
		        (SELECT COUNT(*) FROM pool_posts pp WHERE pp.pool_id = pl.id) AS post_count
		 FROM pools pl
		 JOIN users u ON pl.creator_id = u.id
		 ORDER BY pl.created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing pools: %w", err)
	}
	defer rows.Close()

	pools := make([]model.Pool, 0)
	for rows.Next() {
		var p model.Pool
		if err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Description,
			&p.CreatorID,
			&p.CreatorName,
			&p.CreatedAt,
			&p.PostCount,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning pool row: %w", err)
		}
		pools = append(pools, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating pools: %w", err)
	}

	return pools, nil
}

// AddPoolPost appends a post to a pool and returns its order index.
//
// The index is max(existing)+1, or 0 for an empty pool, computed and
// inserted in the same transaction so two concurrent adds cannot read
// the same max. Indices freed by removals are never handed out again
// because the max only grows.
func (db *DB) AddPoolPost(ctx context.Context, poolID, postID string) (int64, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("sqlite: beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var one int
	if err := tx.QueryRowContext(ctx, `SELECT 1 FROM pools WHERE id = ?`, poolID).Scan(&one); err != nil {
		if err == sql.ErrNoRows {
			return 0, apperror.NotFound("pool", poolID)
		}
		return 0, fmt.Errorf("sqlite: checking pool %s: %w", poolID, err)
	}
	if err := tx.QueryRowContext(ctx, `SELECT 1 FROM posts WHERE id = ?`, postID).Scan(&one); err != nil {
		if err == sql.ErrNoRows {
			return 0, apperror.NotFound("post", postID)
		}
		return 0, fmt.Errorf("sqlite: checking post %s: %w", postID, err)
	}

	var nextIndex int64
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(order_index), -1) + 1 FROM pool_posts WHERE pool_id = ?`,
		poolID,
	).Scan(&nextIndex); err != nil {
		return 0, fmt.Errorf("sqlite: computing next order index: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO pool_posts (pool_id, post_id, order_index) VALUES (?, ?, ?)`,
		poolID, postID, nextIndex,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, apperror.Conflict("pool post", postID)
		}
		return 0, fmt.Errorf("sqlite: inserting pool post: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("sqlite: committing pool add: %w", err)
	}

	return nextIndex, nil
}

// RemovePoolPost deletes the membership row. Remaining members keep
// their indices — gaps are expected.
func (db *DB) RemovePoolPost(ctx context.Context, poolID, postID string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM pool_posts WHERE pool_id = ? AND post_id = ?`,
		poolID, postID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: removing pool post: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("pool post", postID)
	}

	return nil
}

// DeletePool removes the pool; membership rows cascade. The posts
// themselves are untouched.
func (db *DB) DeletePool(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx, `DELETE FROM pools WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting pool %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("pool", id)
	}

	return nil
}

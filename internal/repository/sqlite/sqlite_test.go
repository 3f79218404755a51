package sqlite

import (
	"context"
	"testing"

	"github.com/sheepbooru/catalog/internal/model"
)

// newTestDB opens a fresh in-memory database for one test.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, db *DB, username string) *model.User {
	t.Helper()
	user := &model.User{
		Username:     username,
		PasswordHash: "$2a$04$notarealhashnotarealhashnotarealhashnotarealhash",
	}
	if err := db.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user %q: %v", username, err)
	}
	return user
}

func createTestPost(t *testing.T, db *DB, uploader *model.User, tags ...string) *model.Post {
	t.Helper()
	post := &model.Post{
		ImageKey:     "test-image.png",
		UploaderID:   uploader.ID,
		UploaderName: uploader.Username,
	}
	if err := db.CreatePost(context.Background(), post, tags); err != nil {
		t.Fatalf("failed to create test post: %v", err)
	}
	return post
}

func createTestPool(t *testing.T, db *DB, creator *model.User, name string) *model.Pool {
	t.Helper()
	pool := &model.Pool{
		Name:        name,
		CreatorID:   creator.ID,
		CreatorName: creator.Username,
	}
	if err := db.CreatePool(context.Background(), pool); err != nil {
		t.Fatalf("failed to create test pool %q: %v", name, err)
	}
	return pool
}

// favoriteCardinality counts the ledger rows for a post directly.
func favoriteCardinality(t *testing.T, db *DB, postID string) int {
	t.Helper()
	var n int
	err := db.conn.QueryRow(`SELECT COUNT(*) FROM favorites WHERE post_id = ?`, postID).Scan(&n)
	if err != nil {
		t.Fatalf("counting favorites: %v", err)
	}
	return n
}

// storedFavoriteCount reads the denormalized counter directly.
func storedFavoriteCount(t *testing.T, db *DB, postID string) int {
	t.Helper()
	var n int
	err := db.conn.QueryRow(`SELECT favorite_count FROM posts WHERE id = ?`, postID).Scan(&n)
	if err != nil {
		t.Fatalf("reading favorite_count: %v", err)
	}
	return n
}

func countRows(t *testing.T, db *DB, query string, args ...any) int {
	t.Helper()
	var n int
	if err := db.conn.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("counting rows: %v", err)
	}
	return n
}

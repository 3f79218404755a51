package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sheepbooru/catalog/internal/apperror"
	"github.com/sheepbooru/catalog/internal/model"
)

func TestCreateUser(t *testing.T) {
	db := newTestDB(t)

	user := &model.User{Username: "alice", PasswordHash: "hash"}
	if err := db.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	if user.ID == "" {
		t.Error("CreateUser() did not set user.ID")
	}
	if user.CreatedAt.IsZero() {
		t.Error("CreateUser() did not set user.CreatedAt")
	}
}

func TestCreateUser_DuplicateUsernameConflicts(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "alice")

	dup := &model.User{Username: "alice", PasswordHash: "otherhash"}
	err := db.CreateUser(context.Background(), dup)
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("CreateUser() error = %v, want ErrConflict", err)
	}
}

func TestCreateUser_UsernameIsCaseSensitive(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "alice")

	// "Alice" is a different username than "alice".
	other := &model.User{Username: "Alice", PasswordHash: "hash"}
	if err := db.CreateUser(context.Background(), other); err != nil {
		t.Fatalf("CreateUser() error = %v, want nil for different casing", err)
	}
}

func TestGetUserByUsername(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "bob")

	found, err := db.GetUserByUsername(context.Background(), "bob")
	if err != nil {
		t.Fatalf("GetUserByUsername() error = %v", err)
	}
	if found.ID != created.ID {
		t.Errorf("ID = %q, want %q", found.ID, created.ID)
	}
	if found.PasswordHash != created.PasswordHash {
		t.Error("GetUserByUsername() did not return the stored hash")
	}
}

func TestGetUserByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetUserByID(context.Background(), "missing")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("GetUserByID() error = %v, want ErrNotFound", err)
	}
}

func TestListUsers(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "alice")
	createTestUser(t, db, "bob")

	users, err := db.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("ListUsers() error = %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("len(users) = %d, want 2", len(users))
	}
}

// Deleting a user removes their posts and pools, and transitively the
// favorites, tag links, and pool memberships hanging off them.
func TestDeleteUser_CascadesEverything(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	post := createTestPost(t, db, alice, "sky")
	pool := createTestPool(t, db, alice, "collection")
	if _, err := db.AddPoolPost(ctx, pool.ID, post.ID); err != nil {
		t.Fatalf("AddPoolPost() error = %v", err)
	}
	if _, err := db.ToggleFavorite(ctx, bob.ID, post.ID); err != nil {
		t.Fatalf("ToggleFavorite() error = %v", err)
	}

	if err := db.DeleteUser(ctx, alice.ID); err != nil {
		t.Fatalf("DeleteUser() error = %v", err)
	}

	if n := countRows(t, db, `SELECT COUNT(*) FROM posts`); n != 0 {
		t.Errorf("posts remaining = %d, want 0", n)
	}
	if n := countRows(t, db, `SELECT COUNT(*) FROM pools`); n != 0 {
		t.Errorf("pools remaining = %d, want 0", n)
	}
	if n := countRows(t, db, `SELECT COUNT(*) FROM favorites`); n != 0 {
		t.Errorf("favorites remaining = %d, want 0", n)
	}
	if n := countRows(t, db, `SELECT COUNT(*) FROM post_tags`); n != 0 {
		t.Errorf("post_tags remaining = %d, want 0", n)
	}
	if n := countRows(t, db, `SELECT COUNT(*) FROM pool_posts`); n != 0 {
		t.Errorf("pool_posts remaining = %d, want 0", n)
	}

	// bob is untouched.
	if _, err := db.GetUserByID(ctx, bob.ID); err != nil {
		t.Errorf("GetUserByID(bob) error = %v, want nil", err)
	}
}

func TestDeleteUser_NotFound(t *testing.T) {
	db := newTestDB(t)

	err := db.DeleteUser(context.Background(), "missing")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("DeleteUser() error = %v, want ErrNotFound", err)
	}
}

// Package repository declares the storage interfaces consumed by the
// service layer. The sqlite subpackage provides the concrete
// implementation; tests substitute in-memory mocks.
package repository

import (
	"context"

	"github.com/sheepbooru/catalog/internal/model"
)

// PostFilter narrows a post listing. Zero-value fields are ignored and
// non-zero fields compose (AND).
type PostFilter struct {
	Tag        string // raw tag name; normalized before matching
	UploaderID string
}

type UserRepository interface {
	// CreateUser inserts a new user. Returns apperror.ErrConflict if the
	// username is already taken (exact, case-sensitive match).
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	// DeleteUser removes a user; their posts and pools (and everything
	// hanging off those) go with them.
	DeleteUser(ctx context.Context, id string) error
}

type PostRepository interface {
	// CreatePost inserts the post and links every distinct normalized tag
	// name in one transaction, creating tags that don't exist yet.
	CreatePost(ctx context.Context, post *model.Post, tagNames []string) error
	// GetPost returns the full detail view. viewerID may be empty for
	// anonymous viewers, in which case IsFavorited is false.
	GetPost(ctx context.Context, id, viewerID string) (*model.PostDetail, error)
	ListPosts(ctx context.Context, filter PostFilter) ([]model.Post, error)
	// DeletePost removes the post; favorites, tag links and pool
	// memberships cascade. The tags themselves survive.
	DeletePost(ctx context.Context, id string) error
}

type TagRepository interface {
	// ListTags returns every tag with its current post count, ordered by
	// count descending then name ascending.
	ListTags(ctx context.Context) ([]model.Tag, error)
}

type FavoriteRepository interface {
	// ToggleFavorite flips the (user, post) favorite and adjusts the
	// post's favorite_count in the same transaction.
	ToggleFavorite(ctx context.Context, userID, postID string) (*model.FavoriteStatus, error)
	// ListFavorites returns the user's favorited posts, most recently
	// favorited first.
	ListFavorites(ctx context.Context, userID string) ([]model.Post, error)
}

type PoolRepository interface {
	CreatePool(ctx context.Context, pool *model.Pool) error
	GetPool(ctx context.Context, id string) (*model.PoolDetail, error)
	// GetPoolCreator returns the creator's user ID without loading
	// members. Used for authorization checks.
	GetPoolCreator(ctx context.Context, id string) (string, error)
	ListPools(ctx context.Context) ([]model.Pool, error)
	// AddPoolPost appends the post and returns its assigned order index:
	// max of the pool's current indices plus one, or 0 for an empty pool.
	AddPoolPost(ctx context.Context, poolID, postID string) (int64, error)
	// RemovePoolPost removes the membership without renumbering the
	// remaining members.
	RemovePoolPost(ctx context.Context, poolID, postID string) error
	DeletePool(ctx context.Context, id string) error
}

package model

import "time"

// Post is an uploaded image with its metadata. ImageKey is an opaque
// reference into the blob store; the uploader is immutable.
//
// FavoriteCount is denormalized: it must always equal the number of
// favorites rows referencing the post. The sqlite repository updates
// both sides in the same transaction.
type Post struct {
	ID            string    `json:"id"            db:"id"`
	ImageKey      string    `json:"imageKey"      db:"image_key"`
	UploaderID    string    `json:"uploaderId"    db:"uploader_id"`
	UploaderName  string    `json:"uploaderName"  db:"uploader_name"`
	Description   string    `json:"description"   db:"description"`
	FavoriteCount int       `json:"favoriteCount" db:"favorite_count"`
	Tags          []string  `json:"tags"`
	CreatedAt     time.Time `json:"createdAt"     db:"created_at"`
}

// PoolRef identifies a pool from a post's point of view.
type PoolRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PostDetail is the full read model for a single post: the pools it
// belongs to, and whether the viewing user has favorited it. IsFavorited
// is always false for anonymous viewers.
type PostDetail struct {
	Post
	Pools       []PoolRef `json:"pools"`
	IsFavorited bool      `json:"isFavorited"`
}

// FavoriteStatus is the result of a favorite toggle.
type FavoriteStatus struct {
	Favorited     bool `json:"favorited"`
	FavoriteCount int  `json:"favoriteCount"`
}

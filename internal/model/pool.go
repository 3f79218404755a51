package model

import "time"

// Pool is a named, ordered collection of posts owned by its creator.
type Pool struct {
	ID          string    `json:"id"          db:"id"`
	Name        string    `json:"name"        db:"name"`
	Description string    `json:"description" db:"description"`
	CreatorID   string    `json:"creatorId"   db:"creator_id"`
	CreatorName string    `json:"creatorName" db:"creator_name"`
	PostCount   int       `json:"postCount"`
	CreatedAt   time.Time `json:"createdAt"   db:"created_at"`
}

// PoolPost is a post together with its position in a pool. OrderIndex
// values are unique within a pool and strictly increasing in traversal
// order, but not necessarily contiguous: removals leave gaps and indices
// are never reused.
type PoolPost struct {
	Post
	OrderIndex int64 `json:"orderIndex" db:"order_index"`
}

// PoolDetail is a pool with its members ordered by OrderIndex.
type PoolDetail struct {
	Pool
	Posts []PoolPost `json:"posts"`
}

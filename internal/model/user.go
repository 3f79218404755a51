// Package model defines the data structures shared across the catalog.
package model

import "time"

// User is a registered account. Everything except the admin flag is
// immutable after creation. The password hash never leaves the server,
// hence the `json:"-"` tag.
type User struct {
	ID           string    `json:"id"        db:"id"`
	Username     string    `json:"username"  db:"username"`
	PasswordHash string    `json:"-"         db:"password_hash"`
	IsAdmin      bool      `json:"isAdmin"   db:"is_admin"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// Package storage holds uploaded image bytes. The catalog core only
// sees opaque keys; where the bytes live is this package's business.
package storage

import "io"

// BlobStore stores and releases image blobs. Store returns an opaque
// key that the post catalog persists; Release discards the blob behind
// a key. Releasing an already-gone blob is not an error.
type BlobStore interface {
	Store(filename string, r io.Reader) (string, error)
	Release(key string) error
}

package storage

import (
	"context"
	"io"
	"time"
)

// FileInfo describes one stored file.
type FileInfo struct {
	Key     string
	Size    int64
	ModTime time.Time
}

// FileStore holds price files dropped for import, archived after import, and written by exports.
// Keys are slash separated paths relative to the store root.
type FileStore interface {
	// List returns the regular files directly under dir, sorted by key.
	List(ctx context.Context, dir string) ([]FileInfo, error)

	// FileExists checks if a file exists and returns its size
	FileExists(ctx context.Context, key string) (exists bool, size int64, err error)

	ReadFile(ctx context.Context, key string) ([]byte, error)

	// SaveFile writes reader to key, creating parent directories.
	SaveFile(ctx context.Context, key string, reader io.Reader) error

	// Move renames from to to, creating the destination directory. An existing
	// destination is overwritten.
	Move(ctx context.Context, from, to string) error

	DeleteFile(ctx context.Context, key string) error
}

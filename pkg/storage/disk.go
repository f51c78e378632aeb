// Package storage is the file abstraction the catalog import/export commands
// read and write through. Two drivers:
//   - "local": a directory on disk (STORAGE_LOCAL_ROOT)
//   - "s3":    an S3-compatible bucket (S3_BUCKET, S3_ENDPOINT for MinIO/R2)
//
//	if err := storage.Connect(ctx); err != nil { ... }
//	disk, err := storage.Use("") // STORAGE_DISK
//	data, err := disk.Get(ctx, "catalog/seed.json")
package storage

import (
	"context"
	"errors"
)

// ErrNotExist is returned by Get when the path is absent.
var ErrNotExist = errors.New("storage: file does not exist")

type Disk interface {
	Put(ctx context.Context, path string, content []byte) error
	Get(ctx context.Context, path string) ([]byte, error)
	Exists(ctx context.Context, path string) (bool, error)
	Delete(ctx context.Context, path string) error
	// List returns the paths directly under directory.
	List(ctx context.Context, directory string) ([]string, error)
	URL(path string) string
}

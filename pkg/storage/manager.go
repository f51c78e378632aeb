package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/shashiranjanraj/pcbuilder/config"
)

var (
	mu          sync.RWMutex
	disks       = map[string]Disk{}
	defaultDisk = "local"
)

// Connect registers the local disk, and the s3 disk when S3_BUCKET is set.
func Connect(ctx context.Context) error {
	local, err := NewLocal(config.StorageLocalRoot(), config.Get("STORAGE_URL", ""))
	if err != nil {
		return err
	}
	Register("local", local)

	if config.StorageS3Bucket() != "" {
		s3d, err := newS3Disk(ctx)
		if err != nil {
			return err
		}
		Register("s3", s3d)
	}

	mu.Lock()
	defaultDisk = config.StorageDefault()
	mu.Unlock()
	return nil
}

// Register installs d under name, replacing any previous disk.
func Register(name string, d Disk) {
	mu.Lock()
	disks[name] = d
	mu.Unlock()
}

// Use returns the named disk; "" means the default (STORAGE_DISK).
func Use(name string) (Disk, error) {
	mu.RLock()
	defer mu.RUnlock()

	if name == "" {
		name = defaultDisk
	}
	d, ok := disks[name]
	if !ok {
		return nil, fmt.Errorf("storage: disk %q is not configured", name)
	}
	return d, nil
}

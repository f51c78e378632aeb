package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

type localDisk struct {
	root    string
	baseURL string
}

// NewLocal returns a disk rooted at root (made absolute against the working
// directory).
func NewLocal(root, baseURL string) (Disk, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage/local: root %s: %w", root, err)
	}
	return &localDisk{root: abs, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// resolve maps a slash path under root and rejects anything escaping it.
func (d *localDisk) resolve(path string) (string, error) {
	full := filepath.Join(d.root, filepath.FromSlash(path))
	rel, err := filepath.Rel(d.root, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("storage/local: path %q escapes the disk root", path)
	}
	return full, nil
}

func (d *localDisk) Put(_ context.Context, path string, content []byte) error {
	full, err := d.resolve(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("storage/local: mkdir: %w", err)
	}

	// Write then rename so a reader never sees half a file.
	tmp := full + ".tmp"
	if err := os.WriteFile(tmp, content, 0o644); err != nil {
		return fmt.Errorf("storage/local: write %s: %w", path, err)
	}
	if err := os.Rename(tmp, full); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("storage/local: rename %s: %w", path, err)
	}
	return nil
}

func (d *localDisk) Get(_ context.Context, path string) ([]byte, error) {
	full, err := d.resolve(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotExist, path)
	}
	if err != nil {
		return nil, fmt.Errorf("storage/local: get %s: %w", path, err)
	}
	return data, nil
}

func (d *localDisk) Exists(_ context.Context, path string) (bool, error) {
	full, err := d.resolve(path)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(full)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

func (d *localDisk) Delete(_ context.Context, path string) error {
	full, err := d.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("storage/local: delete %s: %w", path, err)
	}
	return nil
}

func (d *localDisk) List(_ context.Context, directory string) ([]string, error) {
	full, err := d.resolve(directory)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(full)
	if err != nil {
		return nil, fmt.Errorf("storage/local: list %s: %w", directory, err)
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() {
			out = append(out, filepath.ToSlash(filepath.Join(directory, e.Name())))
		}
	}
	return out, nil
}

func (d *localDisk) URL(path string) string {
	if d.baseURL == "" {
		return "file://" + filepath.ToSlash(filepath.Join(d.root, filepath.FromSlash(path)))
	}
	return d.baseURL + "/" + strings.TrimLeft(path, "/")
}

package media

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DiskStore keeps files under a local directory and serves them from
// baseURL via the router's static file handler.
type DiskStore struct {
	dir     string
	baseURL string
}

func NewDiskStore(dir, baseURL string) *DiskStore {
	return &DiskStore{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (d *DiskStore) Put(ctx context.Context, name, contentType string, data []byte) (string, error) {
	path, err := d.resolve(name)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("media dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("media write: %w", err)
	}
	return d.baseURL + "/" + name, nil
}

func (d *DiskStore) Remove(ctx context.Context, url string) error {
	name, ok := strings.CutPrefix(url, d.baseURL+"/")
	if !ok {
		return nil
	}
	path, err := d.resolve(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("media remove: %w", err)
	}
	return nil
}

// Dir exposes the root for the static file route.
func (d *DiskStore) Dir() string { return d.dir }

func (d *DiskStore) resolve(name string) (string, error) {
	path := filepath.Join(d.dir, filepath.FromSlash(name))
	rel, err := filepath.Rel(d.dir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("media name %q escapes the store", name)
	}
	return path, nil
}

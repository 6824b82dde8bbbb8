package local

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"docvault-backend/internal/shared/storage/object"
)

// Store implements object.Store on the local filesystem. Keys map to
// relative paths under baseDir. Content types are not persisted; Get
// derives them from the file extension with a sniff fallback.
type Store struct {
	baseDir string
}

// New creates a local object store rooted at baseDir.
func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// Put writes data to the file backing key, creating parent directories.
func (s *Store) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	fullPath, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return fmt.Errorf("write object key=%s: %w", key, err)
	}
	_ = contentType
	return nil
}

// Get reads the object bytes and derives a content type.
func (s *Store) Get(ctx context.Context, key string) ([]byte, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	fullPath, err := s.resolve(key)
	if err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, "", fmt.Errorf("read object key=%s: %w", key, err)
	}
	return data, contentTypeFor(key, data), nil
}

// Exists reports whether the file backing key is present.
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	fullPath, err := s.resolve(key)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(fullPath); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("stat object key=%s: %w", key, err)
	}
	return true, nil
}

// ListKeys walks baseDir and returns keys starting with prefix, sorted.
func (s *Store) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	keys := []string{}
	err := filepath.WalkDir(s.baseDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.baseDir, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk store dir: %w", err)
	}
	sort.Strings(keys)
	return keys, nil
}

// ListTopLevelPrefixes returns the immediate child directories of baseDir
// that contain at least one object.
func (s *Store) ListTopLevelPrefixes(ctx context.Context) ([]string, error) {
	keys, err := s.ListKeys(ctx, "")
	if err != nil {
		return nil, err
	}

	seen := map[string]struct{}{}
	prefixes := []string{}
	for _, key := range keys {
		top, _, found := strings.Cut(key, "/")
		if !found {
			continue
		}
		if _, ok := seen[top]; ok {
			continue
		}
		seen[top] = struct{}{}
		prefixes = append(prefixes, top)
	}
	return prefixes, nil
}

// DeletePrefix removes every object under prefix and prunes the upload
// directory when one exists.
func (s *Store) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	keys, err := s.ListKeys(ctx, prefix)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, key := range keys {
		fullPath, err := s.resolve(key)
		if err != nil {
			return deleted, err
		}
		if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
			return deleted, fmt.Errorf("delete object key=%s: %w", key, err)
		}
		deleted++
	}

	if dir := strings.TrimSuffix(prefix, "/"); dir != "" && !strings.Contains(dir, "/") {
		_ = os.RemoveAll(filepath.Join(s.baseDir, dir))
	}
	return deleted, nil
}

func (s *Store) resolve(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid storage key")
	}
	return filepath.Join(s.baseDir, clean), nil
}

func contentTypeFor(key string, data []byte) string {
	if ct := mime.TypeByExtension(filepath.Ext(key)); ct != "" {
		return ct
	}
	return http.DetectContentType(data)
}

var _ object.Store = (*Store)(nil)

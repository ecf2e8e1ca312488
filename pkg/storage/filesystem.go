package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// LocalStorage keeps rendered report files on the local disk under one
// base directory. Relative paths stay relative so the database rows move
// cleanly between deployments.
type LocalStorage struct {
	baseDir string
}

// NewLocalStorage ensures the base directory exists and returns a handle.
func NewLocalStorage(baseDir string) (*LocalStorage, error) {
	if baseDir == "" {
		baseDir = "./reports"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create reports directory: %w", err)
	}
	return &LocalStorage{baseDir: baseDir}, nil
}

// Save writes data at the relative path, creating parent directories.
func (s *LocalStorage) Save(relPath string, data []byte) (string, error) {
	abs := s.abs(relPath)
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", fmt.Errorf("prepare report directory: %w", err)
	}
	if err := os.WriteFile(abs, data, 0o644); err != nil {
		return "", fmt.Errorf("write report file: %w", err)
	}
	return relPath, nil
}

// Open returns a read-only handle for a stored file.
func (s *LocalStorage) Open(relPath string) (*os.File, error) {
	file, err := os.Open(s.abs(relPath))
	if err != nil {
		return nil, fmt.Errorf("open report file: %w", err)
	}
	return file, nil
}

// Delete removes a stored file, ignoring files already gone.
func (s *LocalStorage) Delete(relPath string) error {
	if err := os.Remove(s.abs(relPath)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete report file: %w", err)
	}
	return nil
}

// CleanupOlderThan removes files whose modification time is older than
// ttl and returns their relative paths.
func (s *LocalStorage) CleanupOlderThan(ttl time.Duration) ([]string, error) {
	cutoff := time.Now().Add(-ttl)
	var deleted []string
	err := filepath.WalkDir(s.baseDir, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() {
			return walkErr
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.ModTime().After(cutoff) {
			return nil
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return err
		}
		if rel, err := filepath.Rel(s.baseDir, path); err == nil {
			deleted = append(deleted, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("cleanup reports: %w", err)
	}
	return deleted, nil
}

func (s *LocalStorage) abs(relPath string) string {
	if filepath.IsAbs(relPath) {
		return relPath
	}
	return filepath.Join(s.baseDir, relPath)
}

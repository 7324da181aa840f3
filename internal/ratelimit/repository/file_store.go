package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"coldmail-backend/internal/ratelimit/domain"
)

// fileStore keeps the tables as a JSON document on local disk.
type fileStore struct {
	path string
}

// NewFileStore creates a Store backed by the JSON file at path.
func NewFileStore(path string) Store {
	return &fileStore{path: path}
}

// Load reads the file. A missing, empty or corrupt file yields empty tables.
func (s *fileStore) Load(_ context.Context) (*domain.Tables, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.NewTables(), nil
		}
		return nil, fmt.Errorf("read rate limit file: %w", err)
	}
	if len(data) == 0 {
		return domain.NewTables(), nil
	}

	var tables domain.Tables
	if err := json.Unmarshal(data, &tables); err != nil {
		slog.Warn("[RateLimit] corrupt rate limit file, starting empty", "path", s.path, "error", err)
		return domain.NewTables(), nil
	}
	return tables.Normalize(), nil
}

// Save writes to a temp file in the same directory and renames it over the target.
func (s *fileStore) Save(_ context.Context, tables *domain.Tables) error {
	data, err := json.Marshal(tables.Normalize())
	if err != nil {
		return fmt.Errorf("encode rate limits: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace rate limit file: %w", err)
	}
	return nil
}

func (s *fileStore) Close() error { return nil }

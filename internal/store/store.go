package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"meetprep/internal/logging"
)

// formatVersion is the persisted file format version.
const formatVersion = 1

type logFile struct {
	Version int      `json:"version"`
	Entries []string `json:"entries"`
}

// ModificationStore persists feedback entries across runs.
type ModificationStore struct {
	path   string
	logger *slog.Logger
}

// New creates a store backed by the file at path. The file and its parent
// directory are created lazily on the first Save.
func New(path string, logger *slog.Logger) *ModificationStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &ModificationStore{
		path:   path,
		logger: logging.WithService(logger, "store"),
	}
}

// Load returns the persisted feedback entries in chronological order.
// A missing file yields an empty log. A structurally invalid file is
// treated as empty and logged; it is not an error, so a corrupt store
// never blocks processing.
func (s *ModificationStore) Load() ([]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read modification log %s: %w", s.path, err)
	}

	var f logFile
	if err := json.Unmarshal(data, &f); err != nil {
		s.logger.Warn("modification log is corrupt, starting with empty log",
			logging.Operation("load"), "path", s.path, logging.Err(err))
		return nil, nil
	}
	if f.Version != formatVersion {
		s.logger.Warn("modification log has unsupported version, starting with empty log",
			logging.Operation("load"), "path", s.path, "version", f.Version)
		return nil, nil
	}
	return f.Entries, nil
}

// Save appends exactly one entry to the persisted log. Existing entries are
// never removed or reordered. Read-modify-write with no locking; concurrent
// writers are out of scope.
func (s *ModificationStore) Save(entry string) error {
	entries, err := s.Load()
	if err != nil {
		return err
	}
	entries = append(entries, entry)

	data, err := json.MarshalIndent(logFile{Version: formatVersion, Entries: entries}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode modification log: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create store directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write modification log %s: %w", s.path, err)
	}

	s.logger.Debug("saved feedback entry",
		logging.Operation("save"), "path", s.path, "entries", len(entries))
	return nil
}

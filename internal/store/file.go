package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rshade/smartcarbon/internal/logging"
)

// ErrEmptyPath is returned by NewFileStore for an empty path.
var ErrEmptyPath = errors.New("session file path cannot be empty")

// session is the on-disk layout.
type session struct {
	ID      string    `json:"id"`
	SavedAt time.Time `json:"saved_at"`
	Entries []Entry   `json:"entries"`
}

// FileStore persists a Store to a JSON file.
type FileStore struct {
	path   string
	maxAge time.Duration

	mu sync.Mutex
}

// NewFileStore returns a FileStore at path. maxAge of 0 keeps predictions
// forever.
func NewFileStore(path string, maxAge time.Duration) (*FileStore, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	return &FileStore{path: path, maxAge: maxAge}, nil
}

// Path returns the session file path.
func (f *FileStore) Path() string {
	return f.path
}

// Load reads the session file. A missing file yields an empty Store.
// Entries for unknown stages or past maxAge are dropped.
func (f *FileStore) Load(ctx context.Context) (*Store, error) {
	logger := logging.ComponentLogger(logging.FromContext(ctx), "store")

	f.mu.Lock()
	defer f.mu.Unlock()

	s := New()
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var sess session
	if err = json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to parse session file %s: %w", f.path, err)
	}

	if sess.ID != "" {
		s.id = sess.ID
	}

	now := s.now()
	for _, e := range sess.Entries {
		if !e.Stage.Valid() {
			logger.Warn().Str("stage", string(e.Stage)).Msg("ignoring unknown stage in session file")
			continue
		}
		if e.IsExpired(now, f.maxAge) {
			logger.Debug().Str("stage", e.Stage.String()).Dur("age", e.Age(now)).Msg("prediction expired")
			continue
		}
		s.restore(e)
	}

	logger.Debug().Str("path", f.path).Int("entries", len(s.Entries())).Msg("session loaded")
	return s, nil
}

// Save writes s to the session file atomically.
func (f *FileStore) Save(ctx context.Context, s *Store) error {
	logger := logging.ComponentLogger(logging.FromContext(ctx), "store")

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(f.path), 0o750); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	data, err := json.MarshalIndent(session{
		ID:      s.ID(),
		SavedAt: time.Now().UTC(),
		Entries: s.Entries(),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	tempPath := f.path + ".tmp"
	if err = os.WriteFile(tempPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err = os.Rename(tempPath, f.path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to rename session file: %w", err)
	}

	logger.Debug().Str("path", f.path).Str("session_id", s.ID()).Msg("session saved")
	return nil
}

// Clear deletes the session file. Missing files are not an error.
func (f *FileStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete session file: %w", err)
	}
	return nil
}

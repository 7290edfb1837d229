package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"

	"penaudit/internal/logging"
)

const (
	// StateDir is the project-local directory holding all audit artifacts.
	StateDir = ".pen-audit"
	// StateFile is the inventory file name inside StateDir.
	StateFile = "state.json"
	// backupFile keeps the previous inventory, zstd-compressed, as a
	// recovery point for corrupted writes.
	backupFile = "state.json.bak.zst"
)

// FileStore persists the inventory as pretty-printed JSON under
// <project>/.pen-audit/. Saves are atomic (temp file + rename) and keep a
// compressed backup of the replaced state.
type FileStore struct {
	dir    string
	logger *logging.Logger
}

// NewFileStore creates a store rooted at the project directory.
func NewFileStore(projectDir string, logger *logging.Logger) *FileStore {
	if logger == nil {
		logger = logging.Discard()
	}
	return &FileStore{dir: filepath.Join(projectDir, StateDir), logger: logger}
}

// Path returns the state file location.
func (fs *FileStore) Path() string {
	return filepath.Join(fs.dir, StateFile)
}

func (fs *FileStore) backupPath() string {
	return filepath.Join(fs.dir, backupFile)
}

// Load reads the persisted state. A missing file yields a fresh empty state.
// A corrupted file falls back to the compressed backup; if that also fails,
// the store starts fresh rather than blocking all scans.
func (fs *FileStore) Load() (*State, error) {
	data, err := os.ReadFile(fs.Path())
	if os.IsNotExist(err) {
		return NewState(time.Now()), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	s, err := decodeState(data)
	if err == nil {
		return s, nil
	}

	fs.logger.Warn("State file corrupted, trying backup", map[string]interface{}{
		"path":  fs.Path(),
		"error": err.Error(),
	})

	if s, bakErr := fs.loadBackup(); bakErr == nil {
		return s, nil
	}

	fs.logger.Warn("Backup unusable, starting fresh", map[string]interface{}{
		"path": fs.backupPath(),
	})
	return NewState(time.Now()), nil
}

func (fs *FileStore) loadBackup() (*State, error) {
	f, err := os.Open(fs.backupPath())
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var s State
	if err := json.NewDecoder(dec).Decode(&s); err != nil {
		return nil, err
	}
	if s.Features == nil {
		s.Features = make(map[string]*Record)
	}
	return &s, nil
}

// Save atomically replaces the state file, keeping the previous contents as
// a compressed backup.
func (fs *FileStore) Save(s *State) error {
	if err := os.MkdirAll(fs.dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s directory: %w", StateDir, err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(fs.dir, "state-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp state file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp state file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to sync temp state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp state file: %w", err)
	}

	// Best effort: a missing backup never blocks the save.
	if prev, err := os.ReadFile(fs.Path()); err == nil {
		if err := fs.writeBackup(prev); err != nil {
			fs.logger.Warn("Failed to write state backup", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	if err := os.Rename(tmpPath, fs.Path()); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace state file: %w", err)
	}
	return nil
}

func (fs *FileStore) writeBackup(data []byte) error {
	f, err := os.Create(fs.backupPath())
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f)
	if err != nil {
		f.Close()
		return err
	}
	if _, err := enc.Write(data); err != nil {
		enc.Close()
		f.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Close is a no-op for file-backed stores.
func (fs *FileStore) Close() error { return nil }

func decodeState(data []byte) (*State, error) {
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	if s.Features == nil {
		s.Features = make(map[string]*Record)
	}
	return &s, nil
}

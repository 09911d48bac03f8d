package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"deadlockoptimizer/internal/cfgfile"
	"deadlockoptimizer/internal/fileattr"
)

// BackupState is the manifest of original files saved before the first
// overwrite of each target.
type BackupState struct {
	Timestamp string                `json:"timestamp"`
	Files     map[string]FileBackup `json:"files"` // target path -> saved copy
}

// FileBackup describes one saved original.
type FileBackup struct {
	Target   string `json:"target"`
	Copy     string `json:"copy"`     // file name inside the backup directory
	Existed  bool   `json:"existed"`  // false if the optimizer created the target
	ReadOnly bool   `json:"readOnly"` // read-only state of the original
	SavedAt  string `json:"savedAt"`
}

// backupFilename is the name of the manifest file.
const backupFilename = "backup_state.json"

// Store keeps originals in a directory together with their manifest. It is
// safe for concurrent use.
type Store struct {
	dir   string
	mu    sync.Mutex
	state *BackupState
}

// newEmptyState creates a fresh empty BackupState.
func newEmptyState() *BackupState {
	return &BackupState{
		Timestamp: time.Now().Format(time.RFC3339),
		Files:     make(map[string]FileBackup),
	}
}

// GetBackupPath returns the default directory for saved originals.
// Creates the directory if it does not exist.
func GetBackupPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv("USERPROFILE")
		if homeDir == "" {
			homeDir = os.TempDir()
		}
	}
	backupDir := filepath.Join(homeDir, ".deadlock-optimizer", "backups")
	_ = os.MkdirAll(backupDir, 0o755)
	return backupDir
}

// NewStore opens the backup store in dir, loading an existing manifest.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}
	s := &Store{dir: dir, state: newEmptyState()}
	if _, err := s.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return s, nil
}

// Dir returns the directory holding the saved originals.
func (s *Store) Dir() string { return s.dir }

func (s *Store) manifestPath() string {
	return filepath.Join(s.dir, backupFilename)
}

// SaveFile records the current content of target unless an original for it is
// already stored. A missing target is recorded so that a restore removes the
// file the optimizer created.
func (s *Store) SaveFile(target string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.state.Files[target]; ok {
		return nil
	}

	entry := FileBackup{
		Target:  target,
		SavedAt: time.Now().Format(time.RFC3339),
	}

	data, err := os.ReadFile(target)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		entry.Existed = false
	case err != nil:
		return fmt.Errorf("failed to read %s for backup: %w", target, err)
	default:
		entry.Existed = true
		entry.Copy = fmt.Sprintf("%02d_%s", len(s.state.Files), filepath.Base(target))
		if ro, err := fileattr.IsReadOnly(target); err == nil {
			entry.ReadOnly = ro
		}
		if err := cfgfile.WriteAtomic(filepath.Join(s.dir, entry.Copy), data, 0o644); err != nil {
			return fmt.Errorf("failed to back up %s: %w", target, err)
		}
	}

	s.state.Files[target] = entry
	log.Debug().Str("target", target).Bool("existed", entry.Existed).Msg("original saved")
	return s.save()
}

// Save writes the manifest to disk.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save()
}

func (s *Store) save() error {
	s.state.Timestamp = time.Now().Format(time.RFC3339)

	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal backup state: %w", err)
	}
	if err := cfgfile.WriteAtomic(s.manifestPath(), data, 0o644); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}
	return nil
}

// Load reads the manifest from disk into the store.
func (s *Store) Load() (*BackupState, error) {
	data, err := os.ReadFile(s.manifestPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read backup file: %w", err)
	}

	loaded := &BackupState{}
	if err := json.Unmarshal(data, loaded); err != nil {
		return nil, fmt.Errorf("failed to parse backup file: %w", err)
	}
	if loaded.Files == nil {
		loaded.Files = make(map[string]FileBackup)
	}

	s.mu.Lock()
	s.state = loaded
	s.mu.Unlock()
	return loaded, nil
}

// Entries returns the saved originals sorted by target path.
func (s *Store) Entries() []FileBackup {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries()
}

func (s *Store) entries() []FileBackup {
	entries := make([]FileBackup, 0, len(s.state.Files))
	for _, e := range s.state.Files {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Target < entries[j].Target
	})
	return entries
}

// HasBackup reports whether any original has been saved.
func (s *Store) HasBackup() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.state.Files) > 0
}

// LastSaved returns when the manifest was last written.
func (s *Store) LastSaved() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	ts, err := time.Parse(time.RFC3339, s.state.Timestamp)
	if err != nil {
		return time.Time{}
	}
	return ts
}

// RestoreAll puts every saved original back in place. Targets that did not
// exist before are removed.
func (s *Store) RestoreAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []string
	for _, entry := range s.entries() {
		if err := s.restoreFile(entry); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", entry.Target, err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("restore completed with errors:\n%s", strings.Join(errs, "\n"))
	}
	return nil
}

func (s *Store) restoreFile(entry FileBackup) error {
	if err := fileattr.SetReadOnly(entry.Target, false); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	if !entry.Existed {
		if err := os.Remove(entry.Target); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to remove: %w", err)
		}
		return nil
	}

	data, err := os.ReadFile(filepath.Join(s.dir, entry.Copy))
	if err != nil {
		return fmt.Errorf("failed to read saved copy: %w", err)
	}
	if err := cfgfile.WriteAtomic(entry.Target, data, 0o644); err != nil {
		return err
	}
	if entry.ReadOnly {
		return fileattr.SetReadOnly(entry.Target, true)
	}
	return nil
}

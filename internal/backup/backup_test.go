package backup

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"deadlockoptimizer/internal/fileattr"
)

func TestGetBackupPath(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("USERPROFILE", os.Getenv("HOME"))

	path := GetBackupPath()
	if !strings.Contains(path, ".deadlock-optimizer") {
		t.Errorf("expected path to contain .deadlock-optimizer, got %q", path)
	}
	if !strings.Contains(path, "backups") {
		t.Errorf("expected path to contain backups, got %q", path)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("backup directory should exist: %v", err)
	}
	if !info.IsDir() {
		t.Error("backup path should be a directory")
	}
}

func TestNewEmptyState(t *testing.T) {
	s := newEmptyState()
	if s.Timestamp == "" {
		t.Error("Timestamp is empty")
	}
	if s.Files == nil || len(s.Files) != 0 {
		t.Error("Files should be an empty map")
	}
}

func TestSaveFileAndRestore(t *testing.T) {
	work := t.TempDir()
	video := filepath.Join(work, "video.txt")
	autoexec := filepath.Join(work, "autoexec.cfg")
	if err := os.WriteFile(video, []byte("original video"), 0o644); err != nil {
		t.Fatal(err)
	}

	store, err := NewStore(filepath.Join(t.TempDir(), "backups"))
	if err != nil {
		t.Fatalf("NewStore() error: %v", err)
	}
	if store.HasBackup() {
		t.Fatal("new store should be empty")
	}

	if err := store.SaveFile(video); err != nil {
		t.Fatalf("SaveFile(video) error: %v", err)
	}
	if err := store.SaveFile(autoexec); err != nil {
		t.Fatalf("SaveFile(autoexec) error: %v", err)
	}
	if !store.HasBackup() {
		t.Fatal("HasBackup() = false after SaveFile")
	}

	// The optimizer overwrites both files.
	if err := os.WriteFile(video, []byte("optimized video"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := fileattr.SetReadOnly(video, true); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(autoexec, []byte("fps_max 240"), 0o644); err != nil {
		t.Fatal(err)
	}

	// A second save must keep the first original.
	if err := store.SaveFile(video); err != nil {
		t.Fatalf("second SaveFile() error: %v", err)
	}

	if err := store.RestoreAll(); err != nil {
		t.Fatalf("RestoreAll() error: %v", err)
	}

	data, err := os.ReadFile(video)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "original video" {
		t.Errorf("video.txt = %q, want original", data)
	}
	if ro, _ := fileattr.IsReadOnly(video); ro {
		t.Error("restored video.txt should carry its original writable state")
	}
	if _, err := os.Stat(autoexec); !os.IsNotExist(err) {
		t.Errorf("autoexec.cfg did not exist before and should be removed, stat err = %v", err)
	}
}

func TestManifestPersists(t *testing.T) {
	work := t.TempDir()
	target := filepath.Join(work, "gameinfo.gi")
	if err := os.WriteFile(target, []byte("\"GameInfo\"\n{\n}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	dir := filepath.Join(t.TempDir(), "backups")
	first, err := NewStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := first.SaveFile(target); err != nil {
		t.Fatal(err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, backupFilename))
	if err != nil {
		t.Fatalf("manifest not written: %v", err)
	}
	var state BackupState
	if err := json.Unmarshal(raw, &state); err != nil {
		t.Fatalf("manifest is not valid JSON: %v", err)
	}
	entry, ok := state.Files[target]
	if !ok {
		t.Fatalf("manifest has no entry for %s", target)
	}
	if !entry.Existed || entry.Copy == "" {
		t.Errorf("unexpected entry %+v", entry)
	}

	second, err := NewStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if !second.HasBackup() {
		t.Error("reopened store lost its entries")
	}
	if len(second.Entries()) != 1 || second.Entries()[0].Target != target {
		t.Errorf("Entries() = %+v", second.Entries())
	}
	if second.LastSaved().IsZero() {
		t.Error("LastSaved() is zero")
	}
}

func TestNewStoreRejectsCorruptManifest(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, backupFilename), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewStore(dir); err == nil {
		t.Error("NewStore() should fail on a corrupt manifest")
	}
}

func TestRestoreAllReportsMissingCopies(t *testing.T) {
	work := t.TempDir()
	target := filepath.Join(work, "video.txt")
	if err := os.WriteFile(target, []byte("original"), 0o644); err != nil {
		t.Fatal(err)
	}

	store, err := NewStore(filepath.Join(t.TempDir(), "backups"))
	if err != nil {
		t.Fatal(err)
	}
	if err := store.SaveFile(target); err != nil {
		t.Fatal(err)
	}
	entry := store.Entries()[0]
	if err := os.Remove(filepath.Join(store.Dir(), entry.Copy)); err != nil {
		t.Fatal(err)
	}

	err = store.RestoreAll()
	if err == nil {
		t.Fatal("RestoreAll() should report the missing copy")
	}
	if !strings.Contains(err.Error(), target) {
		t.Errorf("error should name the target, got %v", err)
	}
}

func TestSaveFileConcurrent(t *testing.T) {
	work := t.TempDir()
	targets := []string{
		filepath.Join(work, "video.txt"),
		filepath.Join(work, "video.txt.bak"),
		filepath.Join(work, "autoexec.cfg"),
		filepath.Join(work, "gameinfo.gi"),
	}
	for _, target := range targets[:2] {
		if err := os.WriteFile(target, []byte("original "+filepath.Base(target)), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	store, err := NewStore(filepath.Join(t.TempDir(), "backups"))
	if err != nil {
		t.Fatal(err)
	}

	start := make(chan struct{})
	var wg sync.WaitGroup
	errs := make(chan error, 4*len(targets))
	for i := 0; i < 4; i++ {
		for _, target := range targets {
			wg.Add(1)
			go func(target string) {
				defer wg.Done()
				<-start
				if err := store.SaveFile(target); err != nil {
					errs <- err
				}
			}(target)
		}
	}
	close(start)
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("SaveFile() error: %v", err)
	}

	entries := store.Entries()
	if len(entries) != len(targets) {
		t.Fatalf("got %d entries, want %d", len(entries), len(targets))
	}
	copies := make(map[string]bool)
	for _, e := range entries {
		if !e.Existed {
			continue
		}
		if copies[e.Copy] {
			t.Errorf("copy name %q used twice", e.Copy)
		}
		copies[e.Copy] = true

		data, err := os.ReadFile(filepath.Join(store.Dir(), e.Copy))
		if err != nil {
			t.Fatalf("saved copy missing: %v", err)
		}
		if want := "original " + filepath.Base(e.Target); string(data) != want {
			t.Errorf("copy of %s = %q, want %q", e.Target, data, want)
		}
	}
	if len(copies) != 2 {
		t.Errorf("got %d saved copies, want 2", len(copies))
	}
}

// Package backup keeps timestamped copies of the pomodoro data. A backup
// holds one snapshot, so it can be taken from and restored into either
// storage backend.
package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"tomato/internal/fsutil"
	"tomato/internal/storage"
)

const (
	ManifestVersion = "1.0"
	ManifestFile    = "manifest.json"
	SnapshotFile    = "snapshot.json"
	BackupsDir      = "backups"
)

// ErrNotFound is returned for names that do not exist.
var ErrNotFound = errors.New("backup not found")

// Manager creates, lists and reads backups below <dataDir>/backups.
type Manager struct {
	backupDir  string
	appVersion string
	now        func() time.Time
}

// Manifest describes a backup.
type Manifest struct {
	Version    string         `json:"version"`
	CreatedAt  time.Time      `json:"created_at"`
	AppVersion string         `json:"app_version"`
	Stats      map[string]int `json:"stats"`
}

// Info summarizes one backup.
type Info struct {
	Name      string // directory name, 2026-03-10_143022_123
	Path      string
	CreatedAt time.Time
	Stats     map[string]int // sessions, tasks
}

// NewManager returns a manager for dataDir.
func NewManager(dataDir, appVersion string) *Manager {
	return &Manager{
		backupDir:  filepath.Join(dataDir, BackupsDir),
		appVersion: appVersion,
		now:        time.Now,
	}
}

// Create writes snap into a new backup and returns its name.
func (m *Manager) Create(snap *storage.Snapshot) (string, error) {
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	now := m.now()
	name := fmt.Sprintf("%s_%03d", now.Format("2006-01-02_150405"), now.Nanosecond()/1e6)
	path := filepath.Join(m.backupDir, name)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("backup %s already exists", name)
	}
	if err := os.MkdirAll(path, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup: %w", err)
	}

	if err := writeJSON(filepath.Join(path, SnapshotFile), snap); err != nil {
		_ = os.RemoveAll(path)
		return "", fmt.Errorf("failed to write snapshot: %w", err)
	}

	manifest := Manifest{
		Version:    ManifestVersion,
		CreatedAt:  now,
		AppVersion: m.appVersion,
		Stats: map[string]int{
			"sessions": len(snap.Sessions),
			"tasks":    len(snap.Tasks),
		},
	}
	if err := writeJSON(filepath.Join(path, ManifestFile), manifest); err != nil {
		_ = os.RemoveAll(path)
		return "", fmt.Errorf("failed to write manifest: %w", err)
	}
	return name, nil
}

// List returns every backup, newest first.
func (m *Manager) List() ([]Info, error) {
	entries, err := os.ReadDir(m.backupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Info{}, nil
		}
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var backups []Info
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info, err := m.info(entry.Name())
		if err != nil {
			continue
		}
		backups = append(backups, *info)
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})
	return backups, nil
}

// Get returns information about one backup.
func (m *Manager) Get(name string) (*Info, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if _, err := os.Stat(filepath.Join(m.backupDir, name)); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return m.info(name)
}

// Latest returns the newest backup.
func (m *Manager) Latest() (*Info, error) {
	backups, err := m.List()
	if err != nil {
		return nil, err
	}
	if len(backups) == 0 {
		return nil, fmt.Errorf("no backups available")
	}
	return &backups[0], nil
}

// Load reads the snapshot stored in backup name.
func (m *Manager) Load(name string) (*storage.Snapshot, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(m.backupDir, name, SnapshotFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, err
	}
	snap, err := storage.ParseSnapshot(data)
	if err != nil {
		return nil, fmt.Errorf("backup %s is invalid: %w", name, err)
	}
	return snap, nil
}

// Delete removes a backup.
func (m *Manager) Delete(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	path := filepath.Join(m.backupDir, name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return os.RemoveAll(path)
}

// Prune keeps the keep newest backups and deletes the rest. It returns the
// number deleted.
func (m *Manager) Prune(keep int) (int, error) {
	if keep < 0 {
		return 0, fmt.Errorf("keep must be non-negative")
	}
	backups, err := m.List()
	if err != nil {
		return 0, err
	}
	if len(backups) <= keep {
		return 0, nil
	}

	deleted := 0
	for _, b := range backups[keep:] {
		if err := m.Delete(b.Name); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

func (m *Manager) info(name string) (*Info, error) {
	path := filepath.Join(m.backupDir, name)

	var manifest Manifest
	if err := readJSON(filepath.Join(path, ManifestFile), &manifest); err != nil {
		createdAt, parseErr := parseName(name)
		if parseErr != nil {
			return nil, fmt.Errorf("invalid backup: %s", name)
		}
		manifest.CreatedAt = createdAt
	}
	if manifest.Stats == nil {
		manifest.Stats = map[string]int{}
	}
	return &Info{Name: name, Path: path, CreatedAt: manifest.CreatedAt, Stats: manifest.Stats}, nil
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("backup name is required")
	}
	if name != filepath.Base(name) {
		return fmt.Errorf("invalid backup name: %q", name)
	}
	if _, err := parseName(name); err != nil {
		return fmt.Errorf("invalid backup name: %q", name)
	}
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(path, data, 0600)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// parseName reads the timestamp from a name of the form
// 2006-01-02_150405_000 or the shorter 2006-01-02_150405.
func parseName(name string) (time.Time, error) {
	const layout = "2006-01-02_150405"
	if len(name) == len(layout)+4 {
		base, err := time.ParseInLocation(layout, name[:len(layout)], time.Local)
		if err != nil {
			return time.Time{}, err
		}
		if name[len(layout)] != '_' {
			return time.Time{}, fmt.Errorf("invalid backup format")
		}
		ms, err := strconv.Atoi(name[len(layout)+1:])
		if err != nil || ms < 0 || ms > 999 {
			return time.Time{}, fmt.Errorf("invalid milliseconds")
		}
		return base.Add(time.Duration(ms) * time.Millisecond), nil
	}
	return time.ParseInLocation(layout, name, time.Local)
}

package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"tomato/internal/fsutil"
)

const stateFile = "state.json"

// JSONStore keeps the snapshot in a single state.json file, written
// atomically with a .bak copy of the previous version.
type JSONStore struct {
	dataDir string
	now     func() time.Time
}

// NewJSONStore returns a store rooted at dataDir.
func NewJSONStore(dataDir string) (*JSONStore, error) {
	if err := os.MkdirAll(dataDir, dataDirPerm); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &JSONStore{dataDir: dataDir, now: time.Now}, nil
}

// SetNowFunc overrides the clock used for SavedAt and quarantine names.
// Passing nil resets it to time.Now.
func (s *JSONStore) SetNowFunc(now func() time.Time) {
	if now == nil {
		s.now = time.Now
		return
	}
	s.now = now
}

// Path returns the location of state.json.
func (s *JSONStore) Path() string {
	return filepath.Join(s.dataDir, stateFile)
}

// DataDir returns the directory holding the store's files.
func (s *JSONStore) DataDir() string {
	return s.dataDir
}

// Load reads state.json. A missing file yields defaults silently; an empty
// or unparsable one is moved aside and replaced by the backup or defaults.
func (s *JSONStore) Load() (*Snapshot, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSnapshot(), nil
		}
		return DefaultSnapshot(), fmt.Errorf("read %s: %w", stateFile, err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return s.recoverCorrupt(fmt.Errorf("%s is empty", stateFile))
	}

	snap, err := decodeSnapshot(data)
	if err != nil {
		return s.recoverCorrupt(fmt.Errorf("parse %s: %w", stateFile, err))
	}
	return snap, normalizeWarning(stateFile, normalize(snap))
}

// Save writes snap atomically, keeping the previous file as .bak.
func (s *JSONStore) Save(snap *Snapshot) error {
	out := snap.Clone()
	out.Version = SnapshotVersion
	out.SavedAt = s.now()

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize %s: %w", stateFile, err)
	}

	path := s.Path()
	fsutil.BestEffortBackup(path, dataFilePerm)
	if err := fsutil.WriteFileAtomic(path, data, dataFilePerm); err != nil {
		return fmt.Errorf("write %s: %w", stateFile, err)
	}
	return nil
}

// Close is a no-op; the JSON store holds no open handles.
func (s *JSONStore) Close() error {
	return nil
}

// ParseSnapshot decodes a snapshot written by any store and replaces
// out-of-range values with defaults.
func ParseSnapshot(data []byte) (*Snapshot, error) {
	snap, err := decodeSnapshot(data)
	if err != nil {
		return nil, err
	}
	normalize(snap)
	return snap, nil
}

// decodeSnapshot unmarshals over the defaults so absent keys keep their
// default values.
func decodeSnapshot(data []byte) (*Snapshot, error) {
	snap := DefaultSnapshot()
	if err := json.Unmarshal(data, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *JSONStore) recoverCorrupt(cause error) (*Snapshot, error) {
	path := s.Path()
	corruptPath := fmt.Sprintf("%s.corrupt.%s", path, s.now().Format("20060102-150405"))

	if bakData, err := os.ReadFile(path + ".bak"); err == nil && len(bytes.TrimSpace(bakData)) > 0 {
		if snap, err := decodeSnapshot(bakData); err == nil {
			normalize(snap)
			_ = os.Rename(path, corruptPath)
			_ = fsutil.WriteFileAtomic(path, bakData, dataFilePerm)
			return snap, fmt.Errorf("%s (recovered from %s.bak)", cause.Error(), stateFile)
		}
	}

	_ = os.Rename(path, corruptPath)
	return DefaultSnapshot(), fmt.Errorf("%s (reset to defaults; original moved to %s)", cause.Error(), corruptPath)
}

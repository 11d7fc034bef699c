package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tomato/internal/sessionlog"
	"tomato/internal/settings"
	"tomato/internal/tasks"
	"tomato/internal/timer"
)

type sessionRow struct {
	ID              uint      `gorm:"primarykey"`
	Type            string    `gorm:"not null"`
	Phase           string    `gorm:"not null"`
	DurationMinutes int       `gorm:"not null"`
	CompletedAt     time.Time `gorm:"index;not null"`
	TaskID          string
}

type taskRow struct {
	ID           string `gorm:"primaryKey"`
	Position     int    `gorm:"index"`
	Text         string `gorm:"not null"`
	Completed    bool   `gorm:"default:false"`
	SessionCount int    `gorm:"default:0"`
	CreatedAt    time.Time
}

// stateRow is the single row holding everything that is not a list.
type stateRow struct {
	ID                uint `gorm:"primarykey"`
	CurrentTaskID     string
	Streak            int
	LongestStreak     int
	TotalFocusMinutes int
	Settings          settings.Settings    `gorm:"embedded;embeddedPrefix:settings_"`
	Preferences       settings.Preferences `gorm:"embedded;embeddedPrefix:pref_"`
	SavedAt           time.Time
}

const stateRowID = 1

// SQLiteStore keeps the snapshot in a SQLite database through gorm using
// the pure-Go driver.
type SQLiteStore struct {
	db   *gorm.DB
	path string
	now  func() time.Time
}

// OpenSQLite opens or creates the database at path and migrates its schema.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), dataDirPerm); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&sessionRow{}, &taskRow{}, &stateRow{}); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db, path: path, now: time.Now}, nil
}

// Path returns the database file location.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Load reads the snapshot. An empty database yields defaults silently.
func (s *SQLiteStore) Load() (*Snapshot, error) {
	var state stateRow
	res := s.db.Limit(1).Find(&state, stateRowID)
	if res.Error != nil {
		return DefaultSnapshot(), fmt.Errorf("read state: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return DefaultSnapshot(), nil
	}

	var sessionRows []sessionRow
	if err := s.db.Order("completed_at desc").Find(&sessionRows).Error; err != nil {
		return DefaultSnapshot(), fmt.Errorf("read sessions: %w", err)
	}
	var taskRows []taskRow
	if err := s.db.Order("position asc").Find(&taskRows).Error; err != nil {
		return DefaultSnapshot(), fmt.Errorf("read tasks: %w", err)
	}

	snap := &Snapshot{
		Version:           SnapshotVersion,
		Sessions:          make([]sessionlog.Record, 0, len(sessionRows)),
		Tasks:             make([]tasks.Task, 0, len(taskRows)),
		CurrentTaskID:     state.CurrentTaskID,
		Streak:            state.Streak,
		LongestStreak:     state.LongestStreak,
		TotalFocusMinutes: state.TotalFocusMinutes,
		Settings:          state.Settings,
		Preferences:       state.Preferences,
		SavedAt:           state.SavedAt,
	}
	for _, r := range sessionRows {
		snap.Sessions = append(snap.Sessions, sessionlog.Record{
			Type:            sessionlog.Kind(r.Type),
			Phase:           timer.Phase(r.Phase),
			DurationMinutes: r.DurationMinutes,
			CompletedAt:     r.CompletedAt,
			TaskID:          r.TaskID,
		})
	}
	for _, r := range taskRows {
		snap.Tasks = append(snap.Tasks, tasks.Task{
			ID:           r.ID,
			Text:         r.Text,
			Completed:    r.Completed,
			SessionCount: r.SessionCount,
			CreatedAt:    r.CreatedAt,
		})
	}

	return snap, normalizeWarning(filepath.Base(s.path), normalize(snap))
}

// Save replaces the stored contents with snap in one transaction.
func (s *SQLiteStore) Save(snap *Snapshot) error {
	sessionRows := make([]sessionRow, 0, len(snap.Sessions))
	for _, r := range snap.Sessions {
		sessionRows = append(sessionRows, sessionRow{
			Type:            string(r.Type),
			Phase:           string(r.Phase),
			DurationMinutes: r.DurationMinutes,
			CompletedAt:     r.CompletedAt,
			TaskID:          r.TaskID,
		})
	}
	taskRows := make([]taskRow, 0, len(snap.Tasks))
	for i, t := range snap.Tasks {
		taskRows = append(taskRows, taskRow{
			ID:           t.ID,
			Position:     i,
			Text:         t.Text,
			Completed:    t.Completed,
			SessionCount: t.SessionCount,
			CreatedAt:    t.CreatedAt,
		})
	}
	state := stateRow{
		ID:                stateRowID,
		CurrentTaskID:     snap.CurrentTaskID,
		Streak:            snap.Streak,
		LongestStreak:     snap.LongestStreak,
		TotalFocusMinutes: snap.TotalFocusMinutes,
		Settings:          snap.Settings,
		Preferences:       snap.Preferences,
		SavedAt:           s.now(),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&sessionRow{}).Error; err != nil {
			return err
		}
		if err := tx.Where("1 = 1").Delete(&taskRow{}).Error; err != nil {
			return err
		}
		if len(sessionRows) > 0 {
			if err := tx.CreateInBatches(sessionRows, 100).Error; err != nil {
				return err
			}
		}
		if len(taskRows) > 0 {
			if err := tx.CreateInBatches(taskRows, 100).Error; err != nil {
				return err
			}
		}
		return tx.Save(&state).Error
	})
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

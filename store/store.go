// ABOUTME: Advisory result log backed by SQLite through gorm
// ABOUTME: Records each advisory exchange with its parameter snapshot

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// AdvisoryRecord is one logged advisory exchange. Snapshot and Metrics hold
// the exact JSON the commentary was generated from.
type AdvisoryRecord struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	SessionID  string         `gorm:"index" json:"session_id"`
	Question   string         `json:"question"`
	Snapshot   datatypes.JSON `json:"snapshot"`
	Metrics    datatypes.JSON `json:"metrics"`
	Commentary string         `json:"commentary"`
	Model      string         `json:"model"`
	LatencyMs  int64          `json:"latency_ms"`
	CreatedAt  time.Time      `json:"created_at"`
}

// Store wraps the result-log database.
type Store struct {
	db *gorm.DB
}

// Open connects to the SQLite log at path, or an in-memory database when
// path is empty, and migrates the schema.
func Open(path string) (*Store, error) {
	dsn := path
	if dsn == "" {
		dsn = "file::memory:?cache=shared"
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open advisory log: %w", err)
	}

	if err := db.AutoMigrate(&AdvisoryRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate advisory log: %w", err)
	}

	return &Store{db: db}, nil
}

// Insert appends one advisory exchange to the log.
func (s *Store) Insert(ctx context.Context, rec *AdvisoryRecord) error {
	return s.db.WithContext(ctx).Create(rec).Error
}

// RecentBySession returns up to limit records for a session, newest first.
func (s *Store) RecentBySession(ctx context.Context, sessionID string, limit int) ([]AdvisoryRecord, error) {
	var records []AdvisoryRecord
	err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	return records, err
}

// CountSince returns the number of advisory exchanges a session has logged
// since the given time.
func (s *Store) CountSince(ctx context.Context, sessionID string, since time.Time) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&AdvisoryRecord{}).
		Where("session_id = ? AND created_at >= ?", sessionID, since).
		Count(&count).Error
	return count, err
}

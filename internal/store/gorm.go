package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"bliq/internal/ledger"
	"bliq/internal/models"

	"gorm.io/gorm"
)

// GormStore keeps one ledger_snapshots row per user.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a SnapshotStore backed by db.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Load implements SnapshotStore.
func (s *GormStore) Load(ctx context.Context, userID string) (*ledger.State, int64, error) {
	var row models.LedgerSnapshot
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrSnapshotNotFound
		}
		return nil, 0, fmt.Errorf("load snapshot: %w", err)
	}

	state := ledger.NewState()
	if err := json.Unmarshal([]byte(row.Data), state); err != nil {
		return nil, 0, fmt.Errorf("decode snapshot of user %s: %w", userID, err)
	}
	return state, row.Version, nil
}

// Save implements SnapshotStore.
func (s *GormStore) Save(ctx context.Context, userID string, state *ledger.State) (int64, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return 0, fmt.Errorf("encode snapshot: %w", err)
	}

	var version int64
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row models.LedgerSnapshot
		err := tx.Where("user_id = ?", userID).First(&row).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			row = models.LedgerSnapshot{UserID: userID, Data: string(data), Version: 1}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			row.Data = string(data)
			row.Version++
			if err := tx.Model(&row).Updates(map[string]interface{}{
				"data":    row.Data,
				"version": row.Version,
			}).Error; err != nil {
				return err
			}
		}
		version = row.Version
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("save snapshot: %w", err)
	}
	return version, nil
}

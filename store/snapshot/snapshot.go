package snapshot

import (
	"context"
	"time"

	"oracle/core"

	"github.com/fox-one/pkg/store/db"
)

type snapshotStore struct {
	db *db.DB
}

// New new account snapshot store instance
func New(db *db.DB) core.IAccountSnapshotStore {
	return &snapshotStore{
		db: db,
	}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.AccountSnapshot{})
		if err := tx.AutoMigrate(core.AccountSnapshot{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *snapshotStore) Save(ctx context.Context, snapshot *core.AccountSnapshot) error {
	return s.db.Update().Create(snapshot).Error
}

func (s *snapshotStore) List(ctx context.Context, account string, fromID int64, limit int) ([]*core.AccountSnapshot, error) {
	var snapshots []*core.AccountSnapshot
	if err := s.db.View().
		Where("account = ? AND id > ?", account, fromID).
		Order("id").
		Limit(limit).
		Find(&snapshots).Error; err != nil {
		return nil, err
	}

	return snapshots, nil
}

func (s *snapshotStore) DeleteByTime(ctx context.Context, t time.Time) error {
	return s.db.Update().Where("created_at < ?", t).Delete(core.AccountSnapshot{}).Error
}

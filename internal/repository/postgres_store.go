package repository

import (
	"context"
	"errors"
	"time"

	"github.com/muanproworks-spec/hf-frozen-food-pos/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type postgresStore struct {
	db     *gorm.DB
	prefix string
}

// NewPostgresBlobStore keeps blobs in the kv_blobs table, one row per key.
func NewPostgresBlobStore(db *gorm.DB, prefix string) BlobStore {
	return &postgresStore{db: db, prefix: prefix}
}

func (s *postgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	var b model.Blob
	err := s.db.WithContext(ctx).First(&b, "key = ?", s.prefix+key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBlobNotFound
	}
	if err != nil {
		return nil, err
	}
	return b.Value, nil
}

func (s *postgresStore) PutMany(ctx context.Context, blobs map[string][]byte) error {
	if len(blobs) == 0 {
		return nil
	}
	now := time.Now().UTC()
	rows := make([]model.Blob, 0, len(blobs))
	for k, v := range blobs {
		rows = append(rows, model.Blob{Key: s.prefix + k, Value: v, UpdatedAt: now})
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&rows).Error
	})
}

func (s *postgresStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

package infra

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/muanproworks-spec/hf-frozen-food-pos/internal/model"
)

// NewDatabase establishes a GORM connection backed by pgx and migrates the
// key-value table the Postgres storage driver writes to.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// one store, a handful of tills
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(2)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates or updates the kv_blobs table.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.Blob{}); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return nil
}

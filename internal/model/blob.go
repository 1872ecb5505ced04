package model

import "time"

// Blob is one named document of the persisted state (Postgres driver).
type Blob struct {
	Key       string `gorm:"primaryKey;type:varchar(128)"`
	Value     []byte `gorm:"type:bytea;not null"`
	UpdatedAt time.Time
}

// TableName overrides GORM's default pluralization.
func (Blob) TableName() string { return "kv_blobs" }

package dto

import (
	"time"

	"github.com/muanproworks-spec/hf-frozen-food-pos/internal/model"
)

// BackupVersion is written into every export. Import does not check it.
const BackupVersion = "1.0.0"

type BackupDocument struct {
	Products     []model.Product     `json:"products"`
	Transactions []model.Transaction `json:"transactions"`
	StoreProfile model.StoreProfile  `json:"storeProfile"`
	ExportDate   time.Time           `json:"exportDate"`
	Version      string              `json:"version"`
}

type ArchiveResponse struct {
	Filename string `json:"filename"`
	Location string `json:"location"` // s3://bucket/key or a local path
	Size     int    `json:"size"`
}

package models

import "time"

// Blob is one key/value record in the blobs table.
type Blob struct {
	Key         string    `gorm:"column:blob_key;primaryKey"`
	Payload     string    `gorm:"column:payload;not null"`
	ContentType string    `gorm:"column:content_type;not null;default:application/json"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (Blob) TableName() string {
	return "blobs"
}

package db

import (
	"context"
	"time"

	"github.com/terraincognita07/lunara/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const jsonContentType = "application/json"

type BlobRepository struct {
	database *gorm.DB
	now      func() time.Time
}

func NewBlobRepository(database *gorm.DB) *BlobRepository {
	return &BlobRepository{database: database, now: time.Now}
}

func (repo *BlobRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	blob := models.Blob{}
	result := repo.database.WithContext(ctx).
		Select("blob_key", "payload").
		Where("blob_key = ?", key).
		Limit(1).
		Find(&blob)
	if result.Error != nil {
		return nil, false, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, false, nil
	}
	return []byte(blob.Payload), true, nil
}

// Set replaces the whole value stored under key.
func (repo *BlobRepository) Set(ctx context.Context, key string, value []byte) error {
	blob := models.Blob{
		Key:         key,
		Payload:     string(value),
		ContentType: jsonContentType,
		UpdatedAt:   repo.now().UTC(),
	}
	return repo.database.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "blob_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "content_type", "updated_at"}),
	}).Create(&blob).Error
}

func (repo *BlobRepository) Keys(ctx context.Context, prefix string) ([]string, error) {
	keys := make([]string, 0)
	if err := repo.database.WithContext(ctx).
		Model(&models.Blob{}).
		Where("blob_key LIKE ?", prefix+"%").
		Order("blob_key ASC").
		Pluck("blob_key", &keys).Error; err != nil {
		return nil, err
	}
	return keys, nil
}

package db

import "gorm.io/gorm"

type Repositories struct {
	Blobs *BlobRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Blobs: NewBlobRepository(database),
	}
}

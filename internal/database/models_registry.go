package database

import "bulag/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Community{},
		&models.Post{},
		&models.Comment{},
		&models.Vote{},
		&models.Tag{},
		&models.MediaAttachment{},
		&models.Image{},
		&models.ImageVariant{},
		&models.Promotion{},
		&models.Report{},
	}
}

package database

import "inkwell/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Post{},
		&models.PostVersion{},
		&models.HistoricalPost{},
		&models.GeneratedIdea{},
		&models.Profile{},
		&models.Project{},
		&models.Platform{},
	}
}

package models

import "gorm.io/gorm"

// AllModels returns all models for migration
// Note: parents are listed before the tables that reference them
func AllModels() []interface{} {
	return []interface{}{
		&Tag{},
		&Author{},
		&Alias{},
		&Issue{},
		&Post{},
		&PostTagLink{},
		&Comment{},
	}
}

// AutoMigrate registers the post/tag join model and runs GORM
// auto-migration for all models
func AutoMigrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&Post{}, "Tags", &PostTagLink{}); err != nil {
		return err
	}
	return db.AutoMigrate(AllModels()...)
}

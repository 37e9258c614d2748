package database

import (
	"fmt"

	"github.com/tigerlilly/tigerlilly/pkg/tigerlilly/logging"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

// Connect initializes the shared database connection.
func Connect(driver, dsn string, logSQL bool) error {
	db, err := Open(driver, dsn, logSQL)
	if err != nil {
		return err
	}
	DB = db
	return nil
}

// Open returns a new GORM handle for the given driver ("sqlite" or "postgres").
// Driver errors are translated so unique-index conflicts surface as
// gorm.ErrDuplicatedKey.
func Open(driver, dsn string, logSQL bool) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logging.NewGormLogger(logSQL),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	if driver == "sqlite" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		// One connection keeps :memory: databases and the foreign_keys
		// pragma consistent across the pool.
		sqlDB.SetMaxOpenConns(1)
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, fmt.Errorf("enable sqlite foreign keys: %w", err)
		}
	}

	return db, nil
}

// GetDB returns the database instance.
func GetDB() *gorm.DB {
	return DB
}

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tokensmith/internal/models"
)

// OpenJournal opens the sqlite operation journal and migrates its
// schema. Returned handle is passed explicitly to the dispatcher.
func OpenJournal(path string) (*gorm.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open operation journal: %w", err)
	}
	if err := db.AutoMigrate(&models.OperationRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate operation journal: %w", err)
	}
	return db, nil
}

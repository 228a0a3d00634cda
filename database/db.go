package database

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"credit-dashboard/logger"
	"credit-dashboard/models"
)

// SQLiteService owns the gorm handle. It is constructed once in main and
// injected into the services that need it, so there is no package-level DB.
type SQLiteService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSQLiteService(path string, log *logger.Logger) (*SQLiteService, error) {
	serviceLog := log.With("service", "SQLiteService")

	serviceLog.Info("Connecting to SQLite", "path", path)
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		serviceLog.Error("Failed to connect to SQLite", "error", err)
		return nil, fmt.Errorf("failed to connect to sqlite: %w", err)
	}

	return &SQLiteService{db: db, log: serviceLog}, nil
}

func (s *SQLiteService) AutoMigrateAll() error {
	s.log.Info("Auto migrating sqlite tables...")
	err := s.db.AutoMigrate(
		&models.User{},
		&models.Company{},
		&models.Feature{},
		&models.HistoricalScore{},
		&models.NewsItem{},
	)
	if err != nil {
		s.log.Error("Auto migration failed for sqlite tables", "error", err)
		return fmt.Errorf("auto migration failed: %w", err)
	}
	return nil
}

func (s *SQLiteService) DB() *gorm.DB {
	return s.db
}

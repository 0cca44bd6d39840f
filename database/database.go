package database

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/greenroots/greenroots-backend/config"
)

var DB *gorm.DB

// Connect opens the Postgres connection used for the audit trail
func Connect(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect postgres %s/%s: %w", cfg.DBHost, cfg.DBName, err)
	}

	DB = db
	log.Printf("✅ Connected to Postgres %s/%s", cfg.DBHost, cfg.DBName)
	return db, nil
}

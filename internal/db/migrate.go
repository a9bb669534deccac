package db

import (
	"atm_system/internal/config" // Custom import path (Config)
	"atm_system/internal/domain" // Importing domain models
	"fmt"                        // Error wrapping

	"github.com/sirupsen/logrus" // Logrus for structured logging

	"gorm.io/driver/mysql"  // MySQL driver for GORM
	"gorm.io/driver/sqlite" // SQLite driver for GORM
	"gorm.io/gorm"          // GORM ORM library
	"gorm.io/gorm/logger"   // GORM logger levels
)

// Open connects to the SQL database selected by cfg.StoreDriver
func Open(cfg *config.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)} // Only slow queries and errors
	switch cfg.StoreDriver {
	case config.DriverMySQL:
		return gorm.Open(mysql.Open(cfg.MySQLDSN()), gormCfg) // Open a MySQL connection
	case config.DriverSQLite:
		return gorm.Open(sqlite.Open(cfg.DBPath), gormCfg) // Open (or create) a SQLite file
	default:
		return nil, fmt.Errorf("store driver %q has no SQL database", cfg.StoreDriver)
	}
}

// mysqlTableOptions makes card numbers compare byte for byte on MySQL,
// whose default collation would fold "abc" and "ABC" into one key
const mysqlTableOptions = "DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_bin"

// Migrate performs automatic migration for the database schema
func Migrate(db *gorm.DB) error {
	if db.Dialector.Name() == config.DriverMySQL {
		db = db.Set("gorm:table_options", mysqlTableOptions) // Case-sensitive card numbers
	}
	// AutoMigrate will create the accounts table and its primary key
	if err := db.AutoMigrate(&domain.Account{}); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logrus.Info("Migration completed.") // Log successful migration
	return nil
}

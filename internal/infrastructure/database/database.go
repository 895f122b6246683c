package database

import (
	"time"

	"evexpert-backend/internal/domain"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Options tunes the connection pool. Zero values keep the database/sql defaults.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	LogSQL          bool // log every statement, not only slow ones and errors
}

// Open connects to Postgres. PreferSimpleProtocol disables prepared statement
// caching, which poolers such as PgBouncer reject with 42P05.
func Open(dsn string, opts Options) (*gorm.DB, error) {
	level := logger.Warn
	if opts.LogSQL {
		level = logger.Info
	}
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(level)})
	if err != nil {
		return nil, err
	}
	if err := ConfigurePool(db, opts); err != nil {
		return nil, err
	}
	return db, nil
}

// ConfigurePool applies the pool limits of opts to db.
func ConfigurePool(db *gorm.DB, opts Options) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}
	return nil
}

// AutoMigrate creates or updates car_analysis_results.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&domain.Listing{})
}

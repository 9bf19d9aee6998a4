// internal/database/database.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/AnanyaNagabhushan/taskflow/internal/models"
)

// DB bundles the ORM handle with an sqlx handle over the same connection
// pool. GORM serves the CRUD paths; sqlx serves raw reporting queries.
type DB struct {
	Gorm *gorm.DB
	SQLX *sqlx.DB
}

// Config for database connection
type Config struct {
	DSN   string
	Debug bool
}

// Connect opens PostgreSQL and wraps the shared *sql.DB with GORM and sqlx.
func Connect(cfg Config) (*DB, error) {
	sqlDB, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logLevel := logger.Warn
	if cfg.Debug {
		logLevel = logger.Info
	}

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		TranslateError: true,
		Logger: logger.New(
			log.New(log.Writer(), "", log.LstdFlags),
			logger.Config{
				SlowThreshold: 1500 * time.Millisecond,
				LogLevel:      logLevel,
			},
		),
	})
	if err != nil {
		return nil, fmt.Errorf("open gorm: %w", err)
	}

	log.Println("✅ Connected to PostgreSQL")
	return &DB{
		Gorm: gormDB,
		SQLX: sqlx.NewDb(sqlDB, "postgres"),
	}, nil
}

// Migrate creates or updates all application tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.TaskItem{},
		&models.RevokedToken{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (db *DB) Close() error {
	return db.SQLX.Close()
}

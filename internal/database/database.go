// Package database provides Postgres connection and migration plumbing.
package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/Ramsey-B/laurel/config"
)

// DB is the query surface repositories depend on. *sqlx.DB satisfies it;
// tests supply fakes.
type DB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

// Connect opens a connection pool against the configured Postgres instance.
func Connect(cfg config.Config) (*sqlx.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DatabaseHost, cfg.DatabasePort, cfg.DatabaseUserName,
		cfg.DatabasePassword, cfg.DatabaseName, cfg.DatabaseSSLMode,
	)

	db, err := sqlx.Connect(cfg.DatabaseDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(cfg.DatabaseMaxOpenConns)
	db.SetMaxIdleConns(cfg.DatabaseMaxIdleConns)
	db.SetConnMaxLifetime(cfg.DatabaseConnMaxLifetime)

	return db, nil
}

// Migrate applies pending migrations from the configured folder. When a
// target version is set it migrates to that version instead of latest.
func Migrate(cfg config.Config, db *sqlx.DB, logger *zap.Logger) error {
	driver, err := postgres.WithInstance(db.DB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://"+cfg.DatabaseMigrationFolderPath,
		cfg.DatabaseName,
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	if cfg.DatabaseMigrationVersion > 0 {
		err = m.Migrate(uint(cfg.DatabaseMigrationVersion))
	} else {
		err = m.Up()
	}
	if err != nil && err != migrate.ErrNoChange {
		if cfg.DatabaseMigrationAutoRollback {
			logger.Error("migration failed, rolling back", zap.Error(err))
			if downErr := m.Down(); downErr != nil && downErr != migrate.ErrNoChange {
				logger.Error("rollback failed", zap.Error(downErr))
			}
		}
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, dirty, _ := m.Version()
	logger.Info("database migrations applied",
		zap.Uint("version", version),
		zap.Bool("dirty", dirty),
	)
	return nil
}

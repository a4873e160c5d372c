package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

// RunMigrations brings the engine store schema up to date from the SQL
// files in migrationsPath. Idempotent: already-applied migrations are
// skipped.
func RunMigrations(db *sql.DB, migrationsPath string, logger *zap.Logger) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", migrationsPath),
		"postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil {
			logger.Warn("Failed to close migration source", zap.Error(srcErr))
		}
		if dbErr != nil {
			logger.Warn("Failed to close migration database", zap.Error(dbErr))
		}
	}()

	switch err := m.Up(); {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Info("Engine schema up to date")
		return nil
	case err != nil:
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, _, _ := m.Version()
	logger.Info("Engine schema migrated", zap.Uint("version", version))
	return nil
}

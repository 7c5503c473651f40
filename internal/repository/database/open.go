// Package database opens the configured store.
package database

import (
	"context"
	"database/sql"
	"fmt"

	"hireshop-backend/internal/config"
	"hireshop-backend/internal/logger"
	"hireshop-backend/internal/repository/postgres"
	"hireshop-backend/internal/repository/sqlite"
)

// Open connects to the database named by cfg and returns the store over it.
// The caller closes the returned *sql.DB.
func Open(ctx context.Context, cfg *config.Config) (*postgres.Store, *sql.DB, error) {
	switch cfg.Database.Driver {
	case config.DriverSQLite:
		logger.Debug("Opening sqlite database", "path", cfg.Database.Path)
		db, err := sqlite.Open(ctx, cfg.Database.Path)
		if err != nil {
			return nil, nil, err
		}
		return sqlite.NewStore(db), db, nil
	case config.DriverPostgres, "":
		logger.Debug("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database)
		db, err := postgres.Open(ctx, cfg.GetDatabaseConnectionString())
		if err != nil {
			return nil, nil, err
		}
		if err := postgres.Migrate(ctx, db, postgres.Schema); err != nil {
			db.Close()
			return nil, nil, err
		}
		return postgres.NewStore(db), db, nil
	default:
		return nil, nil, fmt.Errorf("unsupported database driver: %q", cfg.Database.Driver)
	}
}

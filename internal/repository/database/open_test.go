package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hireshop-backend/internal/config"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("SQLite", func(t *testing.T) {
		cfg := &config.Config{Database: config.DatabaseConfig{
			Driver: config.DriverSQLite,
			Path:   filepath.Join(t.TempDir(), "hireshop.db"),
		}}
		store, db, err := Open(ctx, cfg)
		require.NoError(t, err)
		defer db.Close()
		assert.NoError(t, store.Ping(ctx))
	})

	t.Run("Unknown driver", func(t *testing.T) {
		_, _, err := Open(ctx, &config.Config{Database: config.DatabaseConfig{Driver: "mysql"}})
		assert.Error(t, err)
	})
}

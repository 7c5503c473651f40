// Package sqlite runs the pricing and booking store on an embedded SQLite file for
// local use and the operator CLI.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"hireshop-backend/internal/repository/postgres"
)

const (
	maxOpenConns    = 1
	connMaxIdleTime = 15 * time.Minute
)

var Dialect = postgres.Dialect{
	Name:              "sqlite",
	LockClause:        "",
	IsUniqueViolation: isUniqueViolation,
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Schema mirrors postgres.Schema. Money columns are TEXT so decimals keep their exact
// digits.
const Schema = `
CREATE TABLE IF NOT EXISTS product_pricing (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	product_id      INTEGER NOT NULL,
	sku             TEXT NOT NULL,
	product_name    TEXT NOT NULL DEFAULT '',
	product_type    TEXT NOT NULL,
	price           TEXT,
	daily_hire_rate TEXT,
	effective_from  DATE NOT NULL,
	effective_to    DATE
);
CREATE UNIQUE INDEX IF NOT EXISTS product_pricing_current ON product_pricing (product_id) WHERE effective_to IS NULL;

CREATE TABLE IF NOT EXISTS supplier_pricing (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	supplier_id     INTEGER NOT NULL,
	supplier_name   TEXT NOT NULL DEFAULT '',
	sku             TEXT NOT NULL,
	product_name    TEXT NOT NULL DEFAULT '',
	product_type    TEXT NOT NULL,
	price           TEXT,
	daily_hire_rate TEXT,
	effective_from  DATE NOT NULL,
	effective_to    DATE
);
CREATE UNIQUE INDEX IF NOT EXISTS supplier_pricing_current ON supplier_pricing (supplier_id, sku) WHERE effective_to IS NULL;

CREATE TABLE IF NOT EXISTS assets (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	product_id INTEGER NOT NULL,
	label      TEXT NOT NULL,
	status     TEXT NOT NULL DEFAULT 'ACTIVE'
);

CREATE TABLE IF NOT EXISTS bookings (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	reference  TEXT NOT NULL UNIQUE,
	asset_id   INTEGER NOT NULL REFERENCES assets (id),
	order_ref  TEXT NOT NULL DEFAULT '',
	start_date DATE NOT NULL,
	end_date   DATE NOT NULL,
	created_on DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS asset_calendar (
	asset_id     INTEGER NOT NULL REFERENCES assets (id),
	date         DATE NOT NULL,
	is_available BOOLEAN NOT NULL DEFAULT FALSE,
	booking_ref  TEXT,
	PRIMARY KEY (asset_id, date)
);
`

// Open opens (creating if needed) the database file at path and applies Schema.
// Writers take the lock when their transaction begins.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_txlock=immediate", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(maxOpenConns)
	db.SetConnMaxIdleTime(connMaxIdleTime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}
	if err := postgres.Migrate(ctx, db, Schema); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// NewStore returns the shared store implementation speaking the SQLite dialect.
func NewStore(db *sql.DB) *postgres.Store {
	return postgres.NewStoreWithDialect(db, Dialect)
}

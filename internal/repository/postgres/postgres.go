package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"hireshop-backend/internal/logger"
	"hireshop-backend/internal/repository"
)

// Dialect holds the few places where the SQL differs between drivers.
type Dialect struct {
	Name string
	// LockClause is appended to row reads that precede an update in a transaction.
	LockClause string
	// IsUniqueViolation reports whether err came from a unique constraint.
	IsUniqueViolation func(err error) bool
}

var Postgres = Dialect{
	Name:              "postgres",
	LockClause:        " FOR UPDATE",
	IsUniqueViolation: isPQUniqueViolation,
}

const pqUniqueViolation = "23505"

func isPQUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation
}

// Schema creates the pricing, asset and booking tables.
const Schema = `
CREATE TABLE IF NOT EXISTS product_pricing (
	id              BIGSERIAL PRIMARY KEY,
	product_id      BIGINT NOT NULL,
	sku             TEXT NOT NULL,
	product_name    TEXT NOT NULL DEFAULT '',
	product_type    TEXT NOT NULL,
	price           NUMERIC(12,4),
	daily_hire_rate NUMERIC(12,4),
	effective_from  DATE NOT NULL,
	effective_to    DATE
);
CREATE UNIQUE INDEX IF NOT EXISTS product_pricing_current ON product_pricing (product_id) WHERE effective_to IS NULL;

CREATE TABLE IF NOT EXISTS supplier_pricing (
	id              BIGSERIAL PRIMARY KEY,
	supplier_id     BIGINT NOT NULL,
	supplier_name   TEXT NOT NULL DEFAULT '',
	sku             TEXT NOT NULL,
	product_name    TEXT NOT NULL DEFAULT '',
	product_type    TEXT NOT NULL,
	price           NUMERIC(12,4),
	daily_hire_rate NUMERIC(12,4),
	effective_from  DATE NOT NULL,
	effective_to    DATE
);
CREATE UNIQUE INDEX IF NOT EXISTS supplier_pricing_current ON supplier_pricing (supplier_id, sku) WHERE effective_to IS NULL;

CREATE TABLE IF NOT EXISTS assets (
	id         BIGSERIAL PRIMARY KEY,
	product_id BIGINT NOT NULL,
	label      TEXT NOT NULL,
	status     TEXT NOT NULL DEFAULT 'ACTIVE'
);

CREATE TABLE IF NOT EXISTS bookings (
	id         BIGSERIAL PRIMARY KEY,
	reference  TEXT NOT NULL UNIQUE,
	asset_id   BIGINT NOT NULL REFERENCES assets (id),
	order_ref  TEXT NOT NULL DEFAULT '',
	start_date DATE NOT NULL,
	end_date   DATE NOT NULL,
	created_on TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS asset_calendar (
	asset_id     BIGINT NOT NULL REFERENCES assets (id),
	date         DATE NOT NULL,
	is_available BOOLEAN NOT NULL DEFAULT FALSE,
	booking_ref  TEXT,
	PRIMARY KEY (asset_id, date)
);
`

type Store struct {
	db *sql.DB
	repository.PricingRepository
	repository.AssetRepository
}

func NewStore(db *sql.DB) *Store {
	return NewStoreWithDialect(db, Postgres)
}

func NewStoreWithDialect(db *sql.DB, dialect Dialect) *Store {
	return &Store{
		db:                db,
		PricingRepository: NewPricingRepository(db, dialect),
		AssetRepository:   NewAssetRepository(db, dialect),
	}
}

func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Open connects to PostgreSQL and checks the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// Migrate applies Schema. Every statement is idempotent.
func Migrate(ctx context.Context, db *sql.DB, schema string) error {
	logger.DatabaseCall("MIGRATE", "schema")
	_, err := db.ExecContext(ctx, schema)
	logger.DatabaseResult("MIGRATE", 0, err)
	if err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

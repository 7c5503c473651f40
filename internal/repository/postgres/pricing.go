package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"hireshop-backend/internal/domain"
	"hireshop-backend/internal/logger"
	"hireshop-backend/internal/repository"
	"hireshop-backend/internal/utils"
)

const (
	productPricingColumns  = `id, product_id, sku, product_name, product_type, price, daily_hire_rate, effective_from, effective_to`
	supplierPricingColumns = `id, supplier_id, supplier_name, sku, product_name, product_type, price, daily_hire_rate, effective_from, effective_to`
)

type rowScanner interface {
	Scan(dest ...any) error
}

type pricingRepository struct {
	db      *sql.DB
	dialect Dialect
}

func NewPricingRepository(db *sql.DB, dialect Dialect) repository.PricingRepository {
	return &pricingRepository{db: db, dialect: dialect}
}

func (r *pricingRepository) ApplyPriceUpdate(ctx context.Context, cmd domain.PriceUpdateCommand) (*domain.PricingRecord, error) {
	logger.EnterMethod("pricingRepository.ApplyPriceUpdate", "subject", cmd.Subject.String(), "row", cmd.Row)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	current, err := r.currentRecord(ctx, tx, cmd.Subject)
	if err != nil {
		logger.ExitMethodWithError("pricingRepository.ApplyPriceUpdate", err, "subject", cmd.Subject.String())
		return nil, err
	}
	if current.ProductType != cmd.ProductType {
		return nil, fmt.Errorf("%w: record is %s, row is %s", repository.ErrProductTypeMismatch, current.ProductType, cmd.ProductType)
	}
	effectiveFrom := utils.DateOf(cmd.EffectiveFrom)
	if effectiveFrom.Before(current.EffectiveFrom) {
		return nil, fmt.Errorf("%w (%s)", repository.ErrEffectiveDateBefore, utils.FormatDate(current.EffectiveFrom))
	}

	next := *current
	next.ID = 0
	next.EffectiveFrom = effectiveFrom
	next.EffectiveTo = nil
	if cmd.Price != nil {
		next.Price = decimal.NewNullDecimal(*cmd.Price)
	}
	if cmd.DailyHireRate != nil {
		next.DailyHireRate = decimal.NewNullDecimal(*cmd.DailyHireRate)
	}

	table := tableFor(cmd.Subject.Kind())
	logger.DatabaseCall("UPDATE", table, "id", current.ID, "effective_to", utils.FormatDate(effectiveFrom))
	res, err := tx.ExecContext(ctx, `UPDATE `+table+` SET effective_to = $1 WHERE id = $2 AND effective_to IS NULL`, effectiveFrom, current.ID)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err)
		return nil, err
	}
	affected, _ := res.RowsAffected()
	logger.DatabaseResult("UPDATE", affected, nil)

	if err := r.insertRecord(ctx, tx, cmd.Subject.Kind(), &next); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	logger.ExitMethod("pricingRepository.ApplyPriceUpdate", "subject", cmd.Subject.String(), "recordID", next.ID)
	return &next, nil
}

func (r *pricingRepository) currentRecord(ctx context.Context, tx *sql.Tx, subject domain.SubjectKey) (*domain.PricingRecord, error) {
	var row *sql.Row
	if subject.Kind() == domain.SubjectProduct {
		query := `SELECT ` + productPricingColumns + ` FROM product_pricing WHERE product_id = $1 AND effective_to IS NULL` + r.dialect.LockClause
		logger.DatabaseCall("SELECT", "product_pricing", "productID", subject.ProductID)
		row = tx.QueryRowContext(ctx, query, subject.ProductID)
	} else {
		query := `SELECT ` + supplierPricingColumns + ` FROM supplier_pricing WHERE supplier_id = $1 AND sku = $2 AND effective_to IS NULL` + r.dialect.LockClause
		logger.DatabaseCall("SELECT", "supplier_pricing", "supplierID", subject.SupplierID, "sku", subject.SKU)
		row = tx.QueryRowContext(ctx, query, subject.SupplierID, subject.SKU)
	}

	rec, err := scanRecord(row, subject.Kind())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrUnknownSubject
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *pricingRepository) insertRecord(ctx context.Context, tx *sql.Tx, kind domain.SubjectKind, rec *domain.PricingRecord) error {
	var err error
	if kind == domain.SubjectProduct {
		query := `INSERT INTO product_pricing (product_id, sku, product_name, product_type, price, daily_hire_rate, effective_from)
		          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
		logger.DatabaseCall("INSERT", "product_pricing", "productID", rec.ProductID)
		err = tx.QueryRowContext(ctx, query, rec.ProductID, rec.SKU, rec.ProductName, rec.ProductType,
			rec.Price, rec.DailyHireRate, rec.EffectiveFrom).Scan(&rec.ID)
	} else {
		query := `INSERT INTO supplier_pricing (supplier_id, supplier_name, sku, product_name, product_type, price, daily_hire_rate, effective_from)
		          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
		logger.DatabaseCall("INSERT", "supplier_pricing", "supplierID", rec.SupplierID, "sku", rec.SKU)
		err = tx.QueryRowContext(ctx, query, rec.SupplierID, rec.SupplierName, rec.SKU, rec.ProductName, rec.ProductType,
			rec.Price, rec.DailyHireRate, rec.EffectiveFrom).Scan(&rec.ID)
	}
	logger.DatabaseResult("INSERT", 1, err, "recordID", rec.ID)
	return err
}

func (r *pricingRepository) ListCurrent(ctx context.Context, kind domain.SubjectKind) ([]domain.PricingRecord, error) {
	var query string
	if kind == domain.SubjectProduct {
		query = `SELECT ` + productPricingColumns + ` FROM product_pricing WHERE effective_to IS NULL ORDER BY product_id`
	} else {
		query = `SELECT ` + supplierPricingColumns + ` FROM supplier_pricing WHERE effective_to IS NULL ORDER BY supplier_id, sku`
	}
	logger.DatabaseCall("SELECT", tableFor(kind), "current", true)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		logger.DatabaseResult("SELECT", 0, err)
		return nil, err
	}
	defer rows.Close()

	var records []domain.PricingRecord
	for rows.Next() {
		rec, err := scanRecord(rows, kind)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	logger.DatabaseResult("SELECT", int64(len(records)), nil)
	return records, nil
}

func scanRecord(s rowScanner, kind domain.SubjectKind) (*domain.PricingRecord, error) {
	rec := &domain.PricingRecord{}
	var productType string
	var err error
	if kind == domain.SubjectProduct {
		err = s.Scan(&rec.ID, &rec.ProductID, &rec.SKU, &rec.ProductName, &productType,
			&rec.Price, &rec.DailyHireRate, &rec.EffectiveFrom, &rec.EffectiveTo)
	} else {
		err = s.Scan(&rec.ID, &rec.SupplierID, &rec.SupplierName, &rec.SKU, &rec.ProductName, &productType,
			&rec.Price, &rec.DailyHireRate, &rec.EffectiveFrom, &rec.EffectiveTo)
	}
	if err != nil {
		return nil, err
	}
	rec.ProductType = domain.ProductType(productType)
	rec.EffectiveFrom = utils.DateOf(rec.EffectiveFrom)
	if rec.EffectiveTo != nil {
		to := utils.DateOf(*rec.EffectiveTo)
		rec.EffectiveTo = &to
	}
	return rec, nil
}

func tableFor(kind domain.SubjectKind) string {
	if kind == domain.SubjectProduct {
		return "product_pricing"
	}
	return "supplier_pricing"
}

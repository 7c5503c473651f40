package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type ProductType string

const (
	ProductTypeSale ProductType = "sale"
	ProductTypeHire ProductType = "hire"
)

// SubjectKind tells which pricing table a subject key addresses.
type SubjectKind string

const (
	SubjectProduct  SubjectKind = "product"
	SubjectSupplier SubjectKind = "supplier"
)

// SubjectKey identifies the record a price update applies to: either a product by
// numeric id, or a supplier's listing by (supplier id, SKU).
type SubjectKey struct {
	ProductID  int64  `json:"product_id,omitempty"`
	SupplierID int64  `json:"supplier_id,omitempty"`
	SKU        string `json:"sku,omitempty"`
}

func ProductKey(productID int64) SubjectKey {
	return SubjectKey{ProductID: productID}
}

func SupplierKey(supplierID int64, sku string) SubjectKey {
	return SubjectKey{SupplierID: supplierID, SKU: sku}
}

func (k SubjectKey) Kind() SubjectKind {
	if k.ProductID != 0 {
		return SubjectProduct
	}
	return SubjectSupplier
}

func (k SubjectKey) String() string {
	if k.Kind() == SubjectProduct {
		return fmt.Sprintf("Product %d", k.ProductID)
	}
	return fmt.Sprintf("SKU %s (supplier %d)", k.SKU, k.SupplierID)
}

// PriceUpdateCommand is one validated row of a bulk price file. Exactly one of
// Price and DailyHireRate is set.
type PriceUpdateCommand struct {
	Subject       SubjectKey       `json:"subject"`
	ProductType   ProductType      `json:"product_type"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	DailyHireRate *decimal.Decimal `json:"daily_hire_rate,omitempty"`
	EffectiveFrom time.Time        `json:"effective_from"`
	Row           int              `json:"row"`
}

// Amount returns whichever of Price or DailyHireRate the command carries.
func (c PriceUpdateCommand) Amount() decimal.Decimal {
	if c.Price != nil {
		return *c.Price
	}
	if c.DailyHireRate != nil {
		return *c.DailyHireRate
	}
	return decimal.Zero
}

// PricingRecord is a flat effective-dated pricing row. A record is current while
// EffectiveTo is nil.
type PricingRecord struct {
	ID            int64               `json:"id"`
	ProductID     int64               `json:"product_id,omitempty"`
	SupplierID    int64               `json:"supplier_id,omitempty"`
	SupplierName  string              `json:"supplier_name,omitempty"`
	SKU           string              `json:"sku"`
	ProductName   string              `json:"product_name"`
	ProductType   ProductType         `json:"product_type"`
	Price         decimal.NullDecimal `json:"price"`
	DailyHireRate decimal.NullDecimal `json:"daily_hire_rate"`
	EffectiveFrom time.Time           `json:"effective_from"`
	EffectiveTo   *time.Time          `json:"effective_to,omitempty"`
}

func (r PricingRecord) IsCurrent() bool {
	return r.EffectiveTo == nil
}

// BulkApplyResult reports a bulk apply. SuccessCount+FailedCount equals the number of
// commands attempted.
type BulkApplyResult struct {
	SuccessCount     int      `json:"success_count"`
	FailedCount      int      `json:"failed_count"`
	ValidationErrors []string `json:"validation_errors"`
	ApplyErrors      []string `json:"apply_errors"`
	Cancelled        bool     `json:"cancelled,omitempty"`
}

// Errors returns validation errors followed by apply errors.
func (r BulkApplyResult) Errors() []string {
	all := make([]string, 0, len(r.ValidationErrors)+len(r.ApplyErrors))
	all = append(all, r.ValidationErrors...)
	return append(all, r.ApplyErrors...)
}

func (r BulkApplyResult) Attempted() int {
	return r.SuccessCount + r.FailedCount
}

// ImportReport is what an operator sees after uploading a price file.
type ImportReport struct {
	BatchID      string          `json:"batch_id"`
	Schema       string          `json:"schema"`
	FileName     string          `json:"file_name,omitempty"`
	FileRejected bool            `json:"file_rejected"`
	Message      string          `json:"message,omitempty"`
	Result       BulkApplyResult `json:"result"`
	Summary      []string        `json:"summary"`
	TotalErrors  int             `json:"total_errors"`
}

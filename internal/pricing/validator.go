// Package pricing turns bulk price files into update commands and applies them.
package pricing

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"hireshop-backend/internal/domain"
	"hireshop-backend/internal/logger"
	"hireshop-backend/internal/tabular"
	"hireshop-backend/internal/utils"
)

// Validation is the outcome of validating a document that passed the header check.
type Validation struct {
	Commands []domain.PriceUpdateCommand
	// Errors holds one message per rejected row, in row order.
	Errors []string
	// Skipped counts rows dropped without an error because the price column for
	// their product type was empty.
	Skipped int
}

// Rejected reports whether the file failed as a whole: rows were rejected and none
// survived.
func (v *Validation) Rejected() bool {
	return len(v.Commands) == 0 && len(v.Errors) > 0
}

type Validator struct {
	schema Schema
	now    func() time.Time
}

func NewValidator(schema Schema) *Validator {
	return &Validator{schema: schema, now: time.Now}
}

// WithClock sets the clock used to default a blank Effective From to today.
func (v *Validator) WithClock(now func() time.Time) *Validator {
	v.now = now
	return v
}

// Validate checks doc against the schema with the default clock.
func Validate(doc tabular.Document, schema Schema) (*Validation, error) {
	return NewValidator(schema).Validate(doc)
}

// Validate checks the header, then each data row. A header problem returns an error
// and no commands. Row problems are collected and the row is skipped.
func (v *Validator) Validate(doc tabular.Document) (*Validation, error) {
	if len(doc) == 0 {
		return nil, ErrEmptyFile
	}
	index, err := v.schema.columnIndex(doc.Header())
	if err != nil {
		return nil, err
	}
	if len(doc) < 2 {
		return nil, ErrNoDataRows
	}

	width := len(doc.Header())
	today := utils.DateOf(v.now())
	result := &Validation{}

	for i, record := range doc.Records() {
		rowNum := i + 2
		if len(record) != width {
			result.reject(rowNum, fmt.Sprintf("Invalid number of columns (expected %d, got %d)", width, len(record)))
			continue
		}

		if !validUTF8(record) {
			result.reject(rowNum, "Invalid text encoding (expected UTF-8)")
			continue
		}

		r := row{fields: record, index: index}
		cmd, msg, skip := v.parseRow(r, today)
		switch {
		case msg != "":
			result.reject(rowNum, msg)
		case skip:
			result.Skipped++
			logger.Debug("Price row skipped, no value for product type", "row", rowNum, "schema", v.schema.Name)
		default:
			cmd.Row = rowNum
			result.Commands = append(result.Commands, cmd)
		}
	}
	return result, nil
}

func (v *Validation) reject(rowNum int, msg string) {
	line := fmt.Sprintf("Row %d: %s", rowNum, msg)
	v.Errors = append(v.Errors, line)
	logger.Warn("Price row rejected", "row", rowNum, "error", msg)
}

func validUTF8(record []string) bool {
	for _, field := range record {
		if !utf8.ValidString(field) {
			return false
		}
	}
	return true
}

// row gives named access to one record. Columns absent from the header read as "".
type row struct {
	fields []string
	index  map[string]int
}

func (r row) get(column string) string {
	i, ok := r.index[normalizeColumn(column)]
	if !ok {
		return ""
	}
	return strings.TrimSpace(r.fields[i])
}

// parseRow returns either a command, a rejection message, or skip=true.
func (v *Validator) parseRow(r row, today time.Time) (domain.PriceUpdateCommand, string, bool) {
	var cmd domain.PriceUpdateCommand

	subject, msg := v.parseSubject(r)
	if msg != "" {
		return cmd, msg, false
	}
	cmd.Subject = subject

	rawType := r.get(ColProductType)
	productType := domain.ProductType(strings.ToLower(rawType))
	var column, label string
	switch productType {
	case domain.ProductTypeSale:
		column, label = ColPrice, "price"
	case domain.ProductTypeHire:
		column, label = ColDailyHireRate, "daily hire rate"
	default:
		return cmd, fmt.Sprintf("Invalid product type %q (expected sale or hire)", rawType), false
	}
	cmd.ProductType = productType

	raw := r.get(column)
	if raw == "" {
		return cmd, "", true
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil || amount.IsNegative() {
		return cmd, fmt.Sprintf("Invalid %s value", label), false
	}
	if productType == domain.ProductTypeSale {
		cmd.Price = &amount
	} else {
		cmd.DailyHireRate = &amount
	}

	cmd.EffectiveFrom = today
	if rawDate := r.get(ColEffectiveFrom); rawDate != "" {
		date, err := utils.ParseDate(rawDate)
		if err != nil {
			return cmd, "Invalid effective from date", false
		}
		cmd.EffectiveFrom = date
	}
	return cmd, "", false
}

func (v *Validator) parseSubject(r row) (domain.SubjectKey, string) {
	switch v.schema.Key {
	case KeyBySupplierSKU:
		sku := r.get(ColSKU)
		if sku == "" {
			return domain.SubjectKey{}, "Missing SKU"
		}
		supplierID, err := strconv.ParseInt(r.get(ColSupplierID), 10, 64)
		if err != nil || supplierID <= 0 {
			return domain.SubjectKey{}, "Invalid supplier ID"
		}
		return domain.SupplierKey(supplierID, sku), ""
	default:
		productID, err := strconv.ParseInt(r.get(ColProductID), 10, 64)
		if err != nil || productID <= 0 {
			return domain.SubjectKey{}, "Invalid product ID"
		}
		return domain.ProductKey(productID), ""
	}
}

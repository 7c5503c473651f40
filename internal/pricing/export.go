package pricing

import (
	"strconv"

	"github.com/shopspring/decimal"

	"hireshop-backend/internal/domain"
	"hireshop-backend/internal/utils"
)

// ExportRows lays out the current records in the schema's export column order.
// Records with an end date are left out.
func ExportRows(schema Schema, records []domain.PricingRecord) ([]string, [][]string) {
	headers := append([]string(nil), schema.ExportColumns...)
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		if !rec.IsCurrent() {
			continue
		}
		row := make([]string, len(headers))
		for i, col := range headers {
			row[i] = exportValue(rec, col)
		}
		rows = append(rows, row)
	}
	return headers, rows
}

func exportValue(rec domain.PricingRecord, column string) string {
	switch column {
	case ColProductID:
		return formatID(rec.ProductID)
	case ColSupplierID:
		return formatID(rec.SupplierID)
	case ColSupplierName:
		return rec.SupplierName
	case ColSKU:
		return rec.SKU
	case ColProductName:
		return rec.ProductName
	case ColProductType:
		return string(rec.ProductType)
	case ColPrice:
		return formatMoney(rec.Price)
	case ColDailyHireRate:
		return formatMoney(rec.DailyHireRate)
	case ColEffectiveFrom:
		return utils.FormatDate(rec.EffectiveFrom)
	}
	return ""
}

func formatID(id int64) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}

func formatMoney(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.StringFixed(2)
}

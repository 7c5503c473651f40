package pricing

import (
	"fmt"
	"strings"
)

// Column names as they appear in price file headers.
const (
	ColProductID     = "Product ID"
	ColSKU           = "SKU"
	ColProductName   = "Product Name"
	ColProductType   = "Product Type"
	ColPrice         = "Price"
	ColDailyHireRate = "Daily Hire Rate"
	ColEffectiveFrom = "Effective From"
	ColSupplierID    = "Supplier ID"
	ColSupplierName  = "Supplier Name"
)

// KeyMode selects how a row's subject key is resolved.
type KeyMode int

const (
	KeyByProductID KeyMode = iota
	KeyBySupplierSKU
)

// HeaderMode selects how strictly the header row is matched against the schema.
type HeaderMode int

const (
	// HeaderExact requires the header to be exactly the required set, in any order.
	HeaderExact HeaderMode = iota
	// HeaderRequiredSubset requires the required set and allows the optional columns.
	HeaderRequiredSubset
)

// Schema describes one bulk price file layout.
type Schema struct {
	Name          string
	Required      []string
	Optional      []string
	Header        HeaderMode
	Key           KeyMode
	ExportColumns []string
}

var ProductPricing = Schema{
	Name:     "product",
	Required: []string{ColProductID, ColSKU, ColProductName, ColProductType, ColPrice, ColDailyHireRate, ColEffectiveFrom},
	Header:   HeaderExact,
	Key:      KeyByProductID,
	ExportColumns: []string{
		ColProductID, ColSKU, ColProductName, ColProductType, ColPrice, ColDailyHireRate, ColEffectiveFrom,
	},
}

var SupplierPricing = Schema{
	Name:     "supplier",
	Required: []string{ColSKU, ColProductType, ColSupplierID},
	Optional: []string{ColPrice, ColDailyHireRate, ColEffectiveFrom, ColProductName, ColSupplierName},
	Header:   HeaderRequiredSubset,
	Key:      KeyBySupplierSKU,
	ExportColumns: []string{
		ColSupplierID, ColSupplierName, ColSKU, ColProductName, ColProductType, ColPrice, ColDailyHireRate, ColEffectiveFrom,
	},
}

// SchemaByName returns the schema registered under name ("product" or "supplier").
func SchemaByName(name string) (Schema, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case ProductPricing.Name:
		return ProductPricing, nil
	case SupplierPricing.Name:
		return SupplierPricing, nil
	default:
		return Schema{}, fmt.Errorf("unknown pricing schema %q", name)
	}
}

// SchemaForFile picks the schema from a file name: names starting with "supplier"
// are supplier price lists, anything else is product pricing.
func SchemaForFile(fileName string) Schema {
	if strings.HasPrefix(strings.ToLower(fileName), SupplierPricing.Name) {
		return SupplierPricing
	}
	return ProductPricing
}

func normalizeColumn(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// columnIndex maps a header to column positions and checks it against the schema.
func (s Schema) columnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	serr := &StructuralError{}

	for i, name := range header {
		key := normalizeColumn(name)
		if _, dup := index[key]; dup {
			serr.Duplicate = append(serr.Duplicate, strings.TrimSpace(name))
			continue
		}
		index[key] = i
	}

	allowed := make(map[string]bool, len(s.Required)+len(s.Optional))
	for _, col := range s.Required {
		allowed[normalizeColumn(col)] = true
		if _, ok := index[normalizeColumn(col)]; !ok {
			serr.Missing = append(serr.Missing, col)
		}
	}
	if s.Header == HeaderRequiredSubset {
		for _, col := range s.Optional {
			allowed[normalizeColumn(col)] = true
		}
	}
	for _, name := range header {
		if !allowed[normalizeColumn(name)] {
			serr.Unexpected = append(serr.Unexpected, strings.TrimSpace(name))
		}
	}

	if serr.empty() {
		return index, nil
	}
	return nil, serr
}

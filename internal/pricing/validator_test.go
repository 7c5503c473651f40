package pricing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hireshop-backend/internal/domain"
	"hireshop-backend/internal/tabular"
)

const productHeader = "Product ID,SKU,Product Name,Product Type,Price,Daily Hire Rate,Effective From"

var fixedNow = time.Date(2025, 3, 14, 15, 4, 5, 0, time.UTC)

func validate(t *testing.T, schema Schema, text string) *Validation {
	t.Helper()
	v, err := NewValidator(schema).WithClock(func() time.Time { return fixedNow }).Validate(tabular.Parse(text))
	require.NoError(t, err)
	return v
}

func TestValidate_ProductScenarios(t *testing.T) {
	t.Run("Valid sale row", func(t *testing.T) {
		v := validate(t, ProductPricing, productHeader+"\n1,ELEC-001,Wireless Mouse,sale,25.50,,2025-01-01")

		assert.Empty(t, v.Errors)
		require.Len(t, v.Commands, 1)
		cmd := v.Commands[0]
		assert.Equal(t, domain.ProductKey(1), cmd.Subject)
		require.NotNil(t, cmd.Price)
		assert.True(t, cmd.Price.Equal(decimal.RequireFromString("25.50")))
		assert.Nil(t, cmd.DailyHireRate)
		assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), cmd.EffectiveFrom)
		assert.Equal(t, 2, cmd.Row)
	})

	t.Run("Unparseable price", func(t *testing.T) {
		v := validate(t, ProductPricing, productHeader+"\n1,ELEC-001,Wireless Mouse,sale,abc,,2025-01-01")

		assert.Empty(t, v.Commands)
		assert.Equal(t, []string{"Row 2: Invalid price value"}, v.Errors)
		assert.True(t, v.Rejected())
	})

	t.Run("Hire row reads daily hire rate", func(t *testing.T) {
		v := validate(t, ProductPricing, productHeader+"\n7,HIRE-7,Cement Mixer,hire,999,45.00,2025-02-01")

		require.Len(t, v.Commands, 1)
		assert.Nil(t, v.Commands[0].Price)
		require.NotNil(t, v.Commands[0].DailyHireRate)
		assert.Equal(t, "45", v.Commands[0].DailyHireRate.String())
	})
}

func TestValidate_RowErrors(t *testing.T) {
	text := productHeader + "\n" +
		"1,A,Mouse,sale,10,,2025-01-01\n" +
		"2,B,Too,Few\n" +
		"x,C,Bad Id,sale,10,,2025-01-01\n" +
		"4,D,Kind,rental,10,,2025-01-01\n" +
		"5,E,Negative,sale,-1,,2025-01-01\n" +
		"6,F,Hire,hire,,abc,2025-01-01\n" +
		"7,G,Date,sale,10,,2025-13-01\n" +
		"8,H,Ok,hire,,12.5,"

	v := validate(t, ProductPricing, text)

	assert.Equal(t, []string{
		"Row 3: Invalid number of columns (expected 7, got 4)",
		"Row 4: Invalid product ID",
		`Row 5: Invalid product type "rental" (expected sale or hire)`,
		"Row 6: Invalid price value",
		"Row 7: Invalid daily hire rate value",
		"Row 8: Invalid effective from date",
	}, v.Errors)
	require.Len(t, v.Commands, 2)
	assert.Equal(t, 2, v.Commands[0].Row)
	assert.Equal(t, 9, v.Commands[1].Row)
	assert.False(t, v.Rejected())
}

func TestValidate_MalformedTextIsRejected(t *testing.T) {
	v := validate(t, ProductPricing, productHeader+"\n1,A,Caf\xe9 Mug,sale,10,,2025-01-01\n2,B,Café Mug,sale,12,,2025-01-01")

	assert.Equal(t, []string{"Row 2: Invalid text encoding (expected UTF-8)"}, v.Errors)
	require.Len(t, v.Commands, 1)
	assert.Equal(t, domain.ProductKey(2), v.Commands[0].Subject)
}

func TestValidate_ColumnCountNeverProducesCommand(t *testing.T) {
	v := validate(t, ProductPricing, productHeader+"\n1,A,Mouse,sale,10,,2025-01-01,extra\n2,B,Pad,sale,3")

	assert.Empty(t, v.Commands)
	assert.Len(t, v.Errors, 2)
}

func TestValidate_EmptyNumericFieldIsSkippedSilently(t *testing.T) {
	// A sale row with no price is not an error and yields no command.
	v := validate(t, ProductPricing, productHeader+"\n1,A,Mouse,sale,,5.00,2025-01-01\n2,B,Drill,hire,,,2025-01-01")

	assert.Empty(t, v.Commands)
	assert.Empty(t, v.Errors)
	assert.Equal(t, 2, v.Skipped)
	assert.False(t, v.Rejected())
}

func TestValidate_BlankEffectiveFromDefaultsToToday(t *testing.T) {
	v := validate(t, ProductPricing, productHeader+"\n1,A,Mouse,sale,10,,")

	require.Len(t, v.Commands, 1)
	assert.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), v.Commands[0].EffectiveFrom)
}

func TestValidate_HeaderOrderInsensitive(t *testing.T) {
	header := "SKU,Effective From,Product Type,Daily Hire Rate,Product Name,Price,Product ID"
	v := validate(t, ProductPricing, header+"\nA,2025-01-01,sale,,Mouse,10,3")

	require.Len(t, v.Commands, 1)
	assert.Equal(t, domain.ProductKey(3), v.Commands[0].Subject)
}

func TestValidate_StructuralErrors(t *testing.T) {
	tests := []struct {
		name       string
		schema     Schema
		text       string
		missing    []string
		unexpected []string
	}{
		{
			name:    "product missing columns",
			schema:  ProductPricing,
			text:    "Product ID,SKU,Product Type,Price\n1,A,sale,10",
			missing: []string{ColProductName, ColDailyHireRate, ColEffectiveFrom},
		},
		{
			name:       "product exact mode rejects extra column",
			schema:     ProductPricing,
			text:       productHeader + ",Supplier ID\n1,A,Mouse,sale,10,,2025-01-01,4",
			unexpected: []string{ColSupplierID},
		},
		{
			name:    "supplier missing key column",
			schema:  SupplierPricing,
			text:    "SKU,Product Type,Price\nA,sale,10",
			missing: []string{ColSupplierID},
		},
		{
			name:       "supplier rejects unknown column",
			schema:     SupplierPricing,
			text:       "SKU,Product Type,Supplier ID,Colour\nA,sale,1,red",
			unexpected: []string{"Colour"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Validate(tabular.Parse(tt.text), tt.schema)
			assert.Nil(t, v)

			var serr *StructuralError
			require.ErrorAs(t, err, &serr)
			assert.Equal(t, tt.missing, serr.Missing)
			assert.Equal(t, tt.unexpected, serr.Unexpected)
			assert.True(t, IsStructural(err))
		})
	}
}

func TestValidate_EmptyAndHeaderOnly(t *testing.T) {
	_, err := Validate(tabular.Parse("  \n"), ProductPricing)
	assert.ErrorIs(t, err, ErrEmptyFile)

	_, err = Validate(tabular.Parse(productHeader), ProductPricing)
	assert.ErrorIs(t, err, ErrNoDataRows)
	assert.True(t, IsStructural(err))
}

func TestValidate_SupplierSchema(t *testing.T) {
	t.Run("Required columns only", func(t *testing.T) {
		v := validate(t, SupplierPricing, "SKU,Product Type,Supplier ID\nA,sale,4")

		// No price column means nothing to change.
		assert.Empty(t, v.Commands)
		assert.Empty(t, v.Errors)
		assert.Equal(t, 1, v.Skipped)
	})

	t.Run("Optional columns", func(t *testing.T) {
		header := "Supplier Name, SKU ,Product Type,Supplier ID,Price,Daily Hire Rate,Effective From"
		v := validate(t, SupplierPricing, header+"\nAcme,ELEC-001,sale,4,19.99,,2025-05-01\nAcme,,sale,4,1,,\nAcme,X,hire,zero,,3,")

		require.Len(t, v.Commands, 1)
		assert.Equal(t, domain.SupplierKey(4, "ELEC-001"), v.Commands[0].Subject)
		assert.Equal(t, domain.SubjectSupplier, v.Commands[0].Subject.Kind())
		assert.Equal(t, []string{"Row 3: Missing SKU", "Row 4: Invalid supplier ID"}, v.Errors)
	})
}

func TestSchemaLookup(t *testing.T) {
	s, err := SchemaByName(" Supplier ")
	require.NoError(t, err)
	assert.Equal(t, SupplierPricing.Name, s.Name)

	_, err = SchemaByName("customer")
	assert.Error(t, err)

	assert.Equal(t, SupplierPricing.Name, SchemaForFile("supplier_acme_2025-01-01.csv").Name)
	assert.Equal(t, ProductPricing.Name, SchemaForFile("prices.xlsx").Name)
}

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hireshop-backend/internal/security"
)

const productHeader = "Product ID,SKU,Product Name,Product Type,Price,Daily Hire Rate,Effective From"

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func useSQLite(t *testing.T) {
	t.Helper()
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", filepath.Join(t.TempDir(), "pricingctl.db"))
}

func TestValidateCmd(t *testing.T) {
	t.Run("Row errors are listed", func(t *testing.T) {
		path := writeFile(t, "prices.csv", productHeader+"\n"+
			"1,ELEC-001,Wireless Mouse,sale,25.99,,2025-01-01\n"+
			"2,ELEC-002,USB Cable,sale,abc,,2025-01-01\n")
		out, err := run(t, "validate", path)
		require.NoError(t, err)
		assert.Contains(t, out, "Schema: product")
		assert.Contains(t, out, "Valid rows: 1, skipped: 0, errors: 1")
		assert.Contains(t, out, "Row 3: Invalid price value")
	})

	t.Run("Structural failure", func(t *testing.T) {
		path := writeFile(t, "prices.csv", "SKU,Price\nA,1\n")
		_, err := run(t, "validate", path)
		assert.ErrorContains(t, err, "Missing required columns")
	})

	t.Run("Schema from file name", func(t *testing.T) {
		path := writeFile(t, "supplier_acme.csv", "SKU,Product Type,Supplier ID,Price\nELEC-001,sale,4,19.99\n")
		out, err := run(t, "validate", path)
		require.NoError(t, err)
		assert.Contains(t, out, "Schema: supplier")
	})

	t.Run("No valid rows", func(t *testing.T) {
		path := writeFile(t, "prices.csv", productHeader+"\nx,ELEC-001,Mouse,sale,1,,\n")
		_, err := run(t, "validate", path)
		assert.ErrorContains(t, err, "no valid rows")
	})
}

func TestImportCmd(t *testing.T) {
	useSQLite(t)
	path := writeFile(t, "prices.csv", productHeader+"\n1,ELEC-001,Wireless Mouse,sale,25.99,,2025-01-01\n")

	out, err := run(t, "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Updated: 0, failed: 1")
	assert.Contains(t, out, "Row 2, Product 1: unknown pricing subject")
}

func TestExportCmd(t *testing.T) {
	useSQLite(t)
	outDir := t.TempDir()

	out, err := run(t, "export", "--schema", "supplier", "--out", outDir)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 0 rows to ")

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Regexp(t, `^supplier_pricing_\d{4}-\d{2}-\d{2}\.csv$`, entries[0].Name())
}

func TestTokenCmd(t *testing.T) {
	useSQLite(t)
	secret := "pricingctl-secret-at-least-32-characters"
	t.Setenv("JWT_SECRET", secret)

	out, err := run(t, "token", "--user", "5", "--role", "customer")
	require.NoError(t, err)

	claims, err := security.NewTokenManager(secret, 0).ValidateToken(string(bytes.TrimSpace([]byte(out))))
	require.NoError(t, err)
	assert.Equal(t, int64(5), claims.UserID)
	assert.True(t, claims.HasRole(security.RoleCustomer))
}

package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"hireshop-backend/internal/config"
	"hireshop-backend/internal/logger"
	"hireshop-backend/internal/pricing"
	"hireshop-backend/internal/repository/database"
	"hireshop-backend/internal/repository/postgres"
	"hireshop-backend/internal/tabular"
)

type rootOptions struct {
	configPath string
	verbose    bool
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "pricingctl",
		Short: "Operate hire shop pricing files and bookings",
		Long: `pricingctl works with the same stores and rules as the API server.

  pricingctl validate prices.csv                  # check a file without touching the store
  pricingctl import supplier_acme.xlsx            # validate and apply a price file
  pricingctl export --schema supplier --out ./out # write current pricing
  pricingctl availability --asset 3 --start 2025-11-01 --end 2025-11-03`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := "warn"
			if opts.verbose {
				level = "debug"
			}
			logger.InitializeWithWriter(level, "text", cmd.ErrOrStderr())
		},
	}
	cmd.SetOut(out)
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to configuration file (environment only when empty)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log debug output to stderr")

	cmd.AddCommand(
		newValidateCmd(),
		newImportCmd(opts),
		newExportCmd(opts),
		newAvailabilityCmd(opts),
		newTokenCmd(opts),
	)
	return cmd
}

func (o *rootOptions) openStore(ctx context.Context) (*config.Config, *postgres.Store, *sql.DB, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, nil, nil, err
	}
	store, db, err := database.Open(ctx, cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, store, db, nil
}

// readPriceFile loads path and picks its format from the extension and its schema
// from --schema, falling back to the file name.
func readPriceFile(path, schemaName string) ([]byte, tabular.Format, pricing.Schema, error) {
	format, err := tabular.FormatForFile(path)
	if err != nil {
		return nil, "", pricing.Schema{}, err
	}
	schema := pricing.SchemaForFile(fileName(path))
	if schemaName != "" {
		if schema, err = pricing.SchemaByName(schemaName); err != nil {
			return nil, "", pricing.Schema{}, err
		}
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, "", pricing.Schema{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return content, format, schema, nil
}

func (o *rootOptions) jwtSecret() (string, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return "", err
	}
	if cfg.JWT.Secret == "" {
		return "", fmt.Errorf("JWT secret is not configured (set jwt.secret or JWT_SECRET)")
	}
	return cfg.JWT.Secret, nil
}

package main

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"hireshop-backend/internal/pricing"
	"hireshop-backend/internal/service"
	"hireshop-backend/internal/storage"
	"hireshop-backend/internal/tabular"
)

func fileName(path string) string {
	return filepath.Base(path)
}

func newValidateCmd() *cobra.Command {
	var schemaName string
	var limit int
	cmd := &cobra.Command{
		Use:   "validate FILE",
		Short: "Check a price file without applying it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, format, schema, err := readPriceFile(args[0], schemaName)
			if err != nil {
				return err
			}
			doc, err := tabular.Decode(content, format)
			if err != nil {
				return fmt.Errorf("file rejected: %w", err)
			}
			validation, err := pricing.Validate(doc, schema)
			if err != nil {
				return fmt.Errorf("file rejected: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Schema: %s\n", schema.Name)
			fmt.Fprintf(out, "Valid rows: %d, skipped: %d, errors: %d\n",
				len(validation.Commands), validation.Skipped, len(validation.Errors))
			for _, line := range pricing.SummarizeErrors(validation.Errors, limit) {
				fmt.Fprintf(out, "  %s\n", line)
			}
			if validation.Rejected() {
				return fmt.Errorf("file rejected: %w", pricing.ErrNoValidRows)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&schemaName, "schema", "", "product or supplier (default: from the file name)")
	cmd.Flags().IntVar(&limit, "limit", pricing.DefaultErrorDisplayLimit, "Row errors to show; 0 shows all")
	return cmd
}

func newImportCmd(opts *rootOptions) *cobra.Command {
	var schemaName string
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Validate and apply a price file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, format, schema, err := readPriceFile(args[0], schemaName)
			if err != nil {
				return err
			}
			cfg, store, db, err := opts.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			svc := service.NewPricingService(store.PricingRepository, service.PricingOptions{
				ErrorDisplayLimit: cfg.Pricing.ErrorDisplayLimit,
				ExportPrefix:      cfg.Pricing.ExportPrefix,
			})
			report, err := svc.Import(cmd.Context(), service.ImportRequest{
				Content:  content,
				Format:   format,
				Schema:   schema,
				FileName: fileName(args[0]),
			})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), pricing.FormatReport(*report))
			if report.FileRejected {
				return fmt.Errorf("file rejected: %s", report.Message)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&schemaName, "schema", "", "product or supplier (default: from the file name)")
	return cmd
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	var schemaName, formatName, outDir string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the current pricing to a file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := pricing.SchemaByName(schemaName)
			if err != nil {
				return err
			}
			format, err := tabular.ParseFormat(formatName)
			if err != nil {
				return err
			}
			cfg, store, db, err := opts.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			svc := service.NewPricingService(store.PricingRepository, service.PricingOptions{
				ErrorDisplayLimit: cfg.Pricing.ErrorDisplayLimit,
				ExportPrefix:      cfg.Pricing.ExportPrefix,
			})
			file, err := svc.Export(cmd.Context(), schema, format)
			if err != nil {
				return err
			}

			if outDir == "" {
				outDir = cfg.Pricing.ExportDir
			}
			files, err := storage.NewLocalStorage(outDir)
			if err != nil {
				return err
			}
			if err := files.SaveFile(cmd.Context(), file.FileName, bytes.NewReader(file.Content)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d rows to %s\n", file.Rows, filepath.Join(outDir, file.FileName))
			return nil
		},
	}
	cmd.Flags().StringVar(&schemaName, "schema", "product", "product or supplier")
	cmd.Flags().StringVar(&formatName, "format", "csv", "csv or xlsx")
	cmd.Flags().StringVar(&outDir, "out", "", "Output directory (default: pricing.export_dir)")
	return cmd
}

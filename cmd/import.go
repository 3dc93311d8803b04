// =============================================================================
// OTM Order Generator - Import Command
// =============================================================================
//
// COMMAND USAGE:
//   ordergen import <file> [flags]
//   ordergen process <file> [flags]   (alias)
//
// PIPELINE:
//   1. Read the table (CSV or XLSX, chosen by extension or content)
//   2. Apply column rules, check required columns, group rows into orders
//   3. Build one document per order; any bad row aborts the import
//   4. Archive, optionally post, and report (see deliver)
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"

	"github.com/ginjaninja78/otm-order-generator/internal/converter"
	"github.com/ginjaninja78/otm-order-generator/internal/validation"
	"github.com/ginjaninja78/otm-order-generator/pkg/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// sheet selects the worksheet of an XLSX input.
var sheet string

// delimiter is the CSV field separator.
var delimiter string

var importCmd = &cobra.Command{
	Use:     "import <file>",
	Aliases: []string{"process"},
	Short:   "Build orders from a CSV or XLSX table",
	Long: `Import reads an order table and builds one document per order.

Sales rows are grouped by (order_id, ship_from_xid, ship_to_xid); purchase
rows by (po_xid, supplier_ship_from_xid, dc_ship_to_xid). Groups keep the
order in which they first appear.

Required columns:
  so: order_id, ship_from_xid, ship_to_xid, item_xid, qty, value
  po: po_xid, supplier_ship_from_xid, dc_ship_to_xid, packaged_item_xid,
      qty, declared_value

Run 'ordergen template so|po' for a starter file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImport(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	addOrderFlags(importCmd)

	importCmd.Flags().StringVar(&sheet, "sheet", "", "Worksheet to read from an XLSX file (default: first sheet)")
	importCmd.Flags().StringVar(&delimiter, "delimiter", "", "CSV delimiter (default: ,)")
}

// =============================================================================
// MAIN IMPORT FUNCTION
// =============================================================================

func runImport(cmd *cobra.Command, path string) error {
	cfg := app.cfg
	applyOrderFlags(cmd, cfg)

	if cmd.Flags().Changed("sheet") {
		cfg.XLSX.Sheet = sheet
	}
	if cmd.Flags().Changed("delimiter") {
		cfg.CSV.Delimiter = delimiter
	}

	kind, err := parseKindFlag()
	if err != nil {
		return err
	}

	table, err := converter.ReadTable(path, converter.ReadOptions{CSV: cfg.CSV, XLSX: cfg.XLSX})
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	app.log.Info("table loaded",
		zap.String("file", path),
		zap.Int("rows", len(table.Rows)),
		zap.Int("columns", len(table.Headers)),
	)

	importer, err := converter.New(newBuilder(), converter.Options{
		Domain:         cfg.Domain,
		Currency:       cfg.Currency,
		SuffixInGID:    cfg.SuffixInGID,
		PurchaseHeader: cfg.PurchaseHeader,
		Rules:          cfg.ColumnRules,
	}, app.log)
	if err != nil {
		return err
	}

	payloads, err := importer.Import(table, kind)
	if err != nil {
		var rowErrs *validation.Errors
		if errors.As(err, &rowErrs) {
			app.log.Warn("import rejected", zap.String("file", path), zap.Int("problems", rowErrs.Len()))
		}
		return fmt.Errorf("failed to import %s: %w", path, err)
	}

	app.log.Info("orders built", zap.String("kind", kind.String()), zap.Int("count", len(payloads)))

	if err := deliver(cmd, cfg, utils.ImportPrefix, payloads); err != nil {
		return fmt.Errorf("failed to deliver imported orders: %w", err)
	}
	return nil
}

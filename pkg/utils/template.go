package utils

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/ginjaninja78/otm-order-generator/internal/types"
	"github.com/xuri/excelize/v2"
)

// Template formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

var salesTemplate = [][]string{
	{"order_id", "ship_from_xid", "ship_to_xid", "item_xid", "qty", "value", "currency", "release_line_id", "line_number"},
	{"SO_09000-1128", "110", "10000000000013", "400000002438186", "1900", "9720", "USD", "SO_09000-1128_001", "1"},
	{"SO_09000-1128", "110", "10000000000013", "300000005438196", "1900", "9720", "USD", "SO_09000-1128_002", "2"},
}

var purchaseTemplate = [][]string{
	{
		"po_xid", "supplier_ship_from_xid", "dc_ship_to_xid", "packaged_item_xid", "qty", "declared_value",
		"item_number", "line_number", "schedule_number", "currency", "early_pickup_dt", "late_pickup_dt",
		"tz_id", "tz_offset", "plan_from_location_xid", "supplier_id", "supplier_name", "le_name", "buyer",
		"supplier_site_name", "revision_num",
	},
	{
		"PO_09000-1128", "300000016179177", "110", "400000004438186", "2800", "9702",
		"116783", "1", "1", "USD", "20250718102700", "20250725102700",
		"Asia/Taipei", "+08:00", "CNNGB", "10010", "BPT - PRO POWER CO LTD", "THE HILLMAN GROUP", "THE HILLMAN GROUP",
		"KAOHSIUNG CITY", "0",
	},
}

// TemplateRows returns the header and sample rows for an import template.
func TemplateRows(kind types.Kind) [][]string {
	src := salesTemplate
	if kind == types.KindPurchase {
		src = purchaseTemplate
	}

	rows := make([][]string, len(src))
	for i, r := range src {
		rows[i] = append([]string(nil), r...)
	}
	return rows
}

// TemplateFileName returns the download name, e.g. sales_orders_template.csv.
func TemplateFileName(kind types.Kind, format string) string {
	name := "sales_orders"
	if kind == types.KindPurchase {
		name = "purchase_orders"
	}
	return name + "_template." + strings.ToLower(format)
}

// WriteTemplate writes an import template in the given format.
func WriteTemplate(w io.Writer, kind types.Kind, format string) error {
	rows := TemplateRows(kind)

	switch strings.ToLower(format) {
	case FormatCSV:
		cw := csv.NewWriter(w)
		if err := cw.WriteAll(rows); err != nil {
			return fmt.Errorf("failed to write CSV template: %w", err)
		}
		return nil

	case FormatXLSX:
		f := excelize.NewFile()
		defer f.Close()

		sheet := f.GetSheetName(0)
		for i, r := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			if err != nil {
				return fmt.Errorf("failed to resolve template row: %w", err)
			}
			values := make([]interface{}, len(r))
			for j, v := range r {
				values[j] = v
			}
			if err := f.SetSheetRow(sheet, cell, &values); err != nil {
				return fmt.Errorf("failed to write template row: %w", err)
			}
		}

		if _, err := f.WriteTo(w); err != nil {
			return fmt.Errorf("failed to write XLSX template: %w", err)
		}
		return nil

	default:
		return fmt.Errorf("unsupported template format %q (want csv or xlsx)", format)
	}
}

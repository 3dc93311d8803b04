// =============================================================================
// OTM Order Generator - XLSX Parser Module
// =============================================================================
//
// This module reads order tables from Excel workbooks. The table layout is
// the same as the CSV import:
//
//   | Column A  | Column B      | Column C    | ... |
//   |-----------|---------------|-------------|-----|
//   | order_id  | ship_from_xid | ship_to_xid | ... |   <- header row
//   | SO_1      | 110           | 200         | ... |   <- data rows
//
// The named sheet is read; without a name the first sheet is used. Sheets
// whose name starts with "_" are never picked as the default.
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"io"
	"strings"

	"github.com/ginjaninja78/otm-order-generator/internal/config"
	"github.com/ginjaninja78/otm-order-generator/internal/csvparser"
	"github.com/ginjaninja78/otm-order-generator/internal/types"
	"github.com/xuri/excelize/v2"
)

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads an XLSX workbook and returns the order table.
//
// PARAMETERS:
//   - filePath: The path to the XLSX file.
//   - settings: The workbook settings (sheet name).
//
// RETURNS:
//   - A pointer to the Table containing the parsed rows.
//   - An error if the file cannot be read or the sheet does not exist.
func Parse(filePath string, settings config.XLSXSettings) (*types.Table, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	table, err := parseWorkbook(f, settings)
	if err != nil {
		return nil, err
	}
	table.SourceFile = filePath
	return table, nil
}

// ParseReader reads an XLSX workbook from r.
func ParseReader(r io.Reader, settings config.XLSXSettings) (*types.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return parseWorkbook(f, settings)
}

func parseWorkbook(f *excelize.File, settings config.XLSXSettings) (*types.Table, error) {
	sheetName, err := pickSheet(f, settings.Sheet)
	if err != nil {
		return nil, err
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from sheet '%s': %w", sheetName, err)
	}

	table, err := csvparser.FromRecords(rows)
	if err != nil {
		return nil, fmt.Errorf("sheet '%s': %w", sheetName, err)
	}
	return table, nil
}

// pickSheet resolves the sheet to read.
func pickSheet(f *excelize.File, want string) (string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", fmt.Errorf("workbook has no sheets")
	}

	if want = strings.TrimSpace(want); want != "" {
		for _, name := range sheets {
			if strings.EqualFold(name, want) {
				return name, nil
			}
		}
		return "", fmt.Errorf("sheet '%s' not found (have %s)", want, strings.Join(sheets, ", "))
	}

	for _, name := range sheets {
		if !strings.HasPrefix(name, "_") {
			return name, nil
		}
	}
	return sheets[0], nil
}

// =============================================================================
// OTM Order Generator - Result Reports
// =============================================================================
//
// Renders batch results as a console table, a CSV file or an XLSX workbook.
// All three share the same columns in the same order.
//
// =============================================================================

package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/ginjaninja78/otm-order-generator/internal/types"
	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet written by WriteXLSX.
const SheetName = "Results"

// consoleSnippet bounds the ack column in the console table.
const consoleSnippet = 80

// Headers are the report columns.
var Headers = []string{"Kind", "Order ID", "Ship From", "Ship To", "# Lines", "Posted?", "Status", "Ack / Note"}

// Row renders one result as report cells.
func Row(r types.Result) []string {
	return []string{
		r.Kind.String(),
		r.OrderID,
		r.ShipFrom,
		r.ShipTo,
		strconv.Itoa(r.LineCount),
		yesNo(r.Posted),
		r.StatusText(),
		r.Snippet,
	}
}

// Print writes an aligned table of results. Ack text is flattened to one
// line and shortened.
func Print(w io.Writer, results []types.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if _, err := fmt.Fprintln(tw, strings.Join(Headers, "\t")); err != nil {
		return fmt.Errorf("failed to write report header: %w", err)
	}

	for _, r := range results {
		cells := Row(r)
		cells[len(cells)-1] = oneLine(cells[len(cells)-1], consoleSnippet)
		if _, err := fmt.Fprintln(tw, strings.Join(cells, "\t")); err != nil {
			return fmt.Errorf("failed to write report row: %w", err)
		}
	}

	return tw.Flush()
}

// WriteCSV writes the results with a header row.
func WriteCSV(w io.Writer, results []types.Result) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Headers); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range results {
		if err := cw.Write(Row(r)); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteXLSX saves the results to an XLSX workbook with a bold header.
func WriteXLSX(path string, results []types.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("failed to name results sheet: %w", err)
	}

	if err := setRow(f, 1, Headers); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(Headers), 1)
	if err != nil {
		return fmt.Errorf("failed to resolve header range: %w", err)
	}
	if err := f.SetCellStyle(SheetName, "A1", last, bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, r := range results {
		if err := setRow(f, i+2, Row(r)); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(SheetName, "A", "G", 18); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}
	if err := f.SetColWidth(SheetName, "H", "H", 60); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save XLSX report: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, row int, cells []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("failed to resolve row %d: %w", row, err)
	}

	values := make([]interface{}, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// oneLine collapses whitespace and cuts s to n runes.
func oneLine(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > n {
		return string(r[:n-3]) + "..."
	}
	return s
}

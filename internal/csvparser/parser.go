// =============================================================================
// OTM Order Generator - CSV Parser Module
// =============================================================================
//
// This module parses order tables exported as CSV. It handles:
//   - Different delimiters (comma, pipe, tab, semicolon)
//   - A UTF-8 byte order mark in front of the header row
//   - Quoted fields, including loosely quoted ones
//   - Rows with fewer or more cells than the header
//
// The first non-empty record is the header row. Blank data rows are skipped.
//
// =============================================================================

package csvparser

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ginjaninja78/otm-order-generator/internal/config"
	"github.com/ginjaninja78/otm-order-generator/internal/types"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a CSV file and returns the parsed table.
//
// PARAMETERS:
//   - filePath: The path to the CSV file.
//   - settings: The CSV parsing settings.
//
// RETURNS:
//   - A pointer to the Table containing the parsed data.
//   - An error if the file cannot be read or parsed.
func Parse(filePath string, settings config.CSVSettings) (*types.Table, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	table, err := ParseReader(file, settings)
	if err != nil {
		return nil, err
	}
	table.SourceFile = filePath
	return table, nil
}

// ParseReader reads CSV data from r.
//
// PARSING PROCESS:
//  1. Strip a leading byte order mark
//  2. Configure the CSV reader with the delimiter and quote settings
//  3. Take the first non-empty record as the header row
//  4. Convert each remaining non-empty record to a map of header -> value
func ParseReader(r io.Reader, settings config.CSVSettings) (*types.Table, error) {
	reader := bufio.NewReader(r)
	if prefix, err := reader.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		_, _ = reader.Discard(len(utf8BOM))
	}

	csvReader := csv.NewReader(reader)
	configureReader(csvReader, settings)

	allRows, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	return FromRecords(allRows)
}

// FromRecords converts raw records into a Table. It is shared with the XLSX
// reader so both formats yield identical tables.
func FromRecords(allRows [][]string) (*types.Table, error) {
	start := 0
	for start < len(allRows) && isRowEmpty(allRows[start]) {
		start++
	}
	if start == len(allRows) {
		return nil, fmt.Errorf("table is empty")
	}

	headers := cleanHeaders(allRows[start])

	return &types.Table{
		Headers: headers,
		Rows:    extractDataRows(allRows[start+1:], headers),
	}, nil
}

// configureReader configures the CSV reader based on the settings.
func configureReader(reader *csv.Reader, settings config.CSVSettings) {
	switch settings.Delimiter {
	case "\\t", "\t", "tab", "TAB":
		reader.Comma = '\t'
	case "|", "pipe", "PIPE":
		reader.Comma = '|'
	case ";", "semicolon":
		reader.Comma = ';'
	default:
		if len(settings.Delimiter) > 0 {
			reader.Comma = rune(settings.Delimiter[0])
		} else {
			reader.Comma = ','
		}
	}

	// Exported spreadsheets often have ragged rows.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
}

// cleanHeaders trims header values and names blank ones Column_N.
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))

	for i, header := range headers {
		header = strings.TrimSpace(header)
		if header == "" {
			header = fmt.Sprintf("Column_%d", i+1)
		}
		cleaned[i] = header
	}

	return cleaned
}

// extractDataRows converts records to maps, skipping empty ones. Missing cells
// become empty strings; extra cells are dropped.
func extractDataRows(records [][]string, headers []string) []map[string]string {
	dataRows := make([]map[string]string, 0, len(records))

	for _, row := range records {
		if isRowEmpty(row) {
			continue
		}

		rowMap := make(map[string]string, len(headers))
		for colIndex, header := range headers {
			if colIndex < len(row) {
				rowMap[header] = strings.TrimSpace(row[colIndex])
			} else {
				rowMap[header] = ""
			}
		}

		dataRows = append(dataRows, rowMap)
	}

	return dataRows
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

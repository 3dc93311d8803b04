// =============================================================================
// OTM Order Generator - Validation Engine
// =============================================================================
//
// This module validates imported tables and generator parameters before any
// document is built. It provides:
//   - Required column checks (case-insensitive header match)
//   - Cell parsers for quantities, amounts and line/schedule numbers
//   - An error collector that reports every problem at once
//
// ERROR HANDLING:
//   - Column errors list exactly the missing names, sorted
//   - Collected errors carry the field, the offending value and the source row
//   - Callers test for these with errors.As
//
// =============================================================================

package validation

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ginjaninja78/otm-order-generator/internal/types"
	"github.com/shopspring/decimal"
)

// =============================================================================
// REQUIRED COLUMNS
// =============================================================================

var (
	// SalesColumns are required to import sales orders.
	SalesColumns = []string{"order_id", "ship_from_xid", "ship_to_xid", "item_xid", "qty", "value"}

	// PurchaseColumns are required to import purchase orders.
	PurchaseColumns = []string{"po_xid", "supplier_ship_from_xid", "dc_ship_to_xid", "packaged_item_xid", "qty", "declared_value"}
)

// RequiredColumns returns the required import columns for kind.
func RequiredColumns(kind types.Kind) []string {
	if kind == types.KindPurchase {
		return PurchaseColumns
	}
	return SalesColumns
}

// ColumnError reports required columns that are absent from a table.
type ColumnError struct {
	Kind    types.Kind
	Missing []string
}

// Error implements the error interface.
func (e *ColumnError) Error() string {
	return fmt.Sprintf("missing required %s columns: %s", e.Kind, strings.Join(e.Missing, ", "))
}

// RequireColumns checks that every required column is present in the table
// headers, ignoring case and surrounding whitespace.
//
// RETURNS:
//   - nil when all columns are present.
//   - A *ColumnError listing the missing columns in sorted order.
func RequireColumns(table *types.Table, kind types.Kind, required []string) error {
	present := make(map[string]bool)
	if table != nil {
		for _, h := range table.Headers {
			present[strings.ToLower(strings.TrimSpace(h))] = true
		}
	}

	var missing []string
	for _, col := range required {
		if !present[strings.ToLower(col)] {
			missing = append(missing, col)
		}
	}

	if len(missing) == 0 {
		return nil
	}

	sort.Strings(missing)
	return &ColumnError{Kind: kind, Missing: missing}
}

// =============================================================================
// VALIDATION ERRORS
// =============================================================================

// ValidationError represents a single validation problem.
type ValidationError struct {
	// Field is the column or parameter that failed validation.
	Field string

	// Value is the offending value, if any.
	Value string

	// Message is a human-readable description.
	Message string

	// OrderID is the order the value belongs to, if known.
	OrderID string

	// RowNumber is the 1-based data row in the source table (0 if not
	// applicable).
	RowNumber int
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var b strings.Builder
	if e.OrderID != "" {
		fmt.Fprintf(&b, "order %s, ", e.OrderID)
	}
	if e.RowNumber > 0 {
		fmt.Fprintf(&b, "row %d, ", e.RowNumber)
	}
	fmt.Fprintf(&b, "%s: %s", e.Field, e.Message)
	if e.Value != "" {
		fmt.Fprintf(&b, " (value: '%s')", e.Value)
	}
	return b.String()
}

// Errors collects validation problems so they can be reported together.
type Errors struct {
	Items []*ValidationError
}

// Add records a problem.
func (e *Errors) Add(field, message string) {
	e.Items = append(e.Items, &ValidationError{Field: field, Message: message})
}

// AddError records a fully described problem.
func (e *Errors) AddError(v *ValidationError) {
	e.Items = append(e.Items, v)
}

// Len returns the number of problems.
func (e *Errors) Len() int {
	return len(e.Items)
}

// Err returns e when it holds any problem, nil otherwise.
func (e *Errors) Err() error {
	if e == nil || len(e.Items) == 0 {
		return nil
	}
	return e
}

// Error implements the error interface.
func (e *Errors) Error() string {
	return FormatErrors(e.Items)
}

// FormatErrors formats validation errors for display or logging.
func FormatErrors(errs []*ValidationError) string {
	switch len(errs) {
	case 0:
		return "no validation errors"
	case 1:
		return errs[0].Error()
	}

	var builder strings.Builder
	fmt.Fprintf(&builder, "%d validation errors:", len(errs))
	for i, err := range errs {
		fmt.Fprintf(&builder, "\n  %d. %s", i+1, err.Error())
	}
	return builder.String()
}

// =============================================================================
// CELL PARSERS
// =============================================================================

// ParseQuantity parses a positive whole quantity. Integral decimal text
// written by spreadsheets ("1900.0") is accepted.
func ParseQuantity(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("quantity is empty")
	}

	if n, err := strconv.Atoi(value); err == nil {
		if n <= 0 {
			return 0, fmt.Errorf("quantity must be positive")
		}
		return n, nil
	}

	d, err := decimal.NewFromString(value)
	if err != nil {
		return 0, fmt.Errorf("'%s' is not a valid quantity", value)
	}
	if !d.Equal(d.Truncate(0)) {
		return 0, fmt.Errorf("quantity '%s' is not a whole number", value)
	}
	if !d.IsPositive() {
		return 0, fmt.Errorf("quantity must be positive")
	}
	return int(d.IntPart()), nil
}

// ParseAmount parses a non-negative monetary amount.
func ParseAmount(value string) (decimal.Decimal, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Zero, fmt.Errorf("amount is empty")
	}

	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("'%s' is not a valid decimal number", value)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("amount must not be negative")
	}
	return d, nil
}

// ParseOrdinal parses an optional line or schedule number. Empty input
// returns (0, nil), meaning "use the default".
func ParseOrdinal(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		d, derr := decimal.NewFromString(value)
		if derr != nil || !d.Equal(d.Truncate(0)) {
			return 0, fmt.Errorf("'%s' is not a valid integer", value)
		}
		n = int(d.IntPart())
	}
	if n <= 0 {
		return 0, fmt.Errorf("'%s' must be positive", value)
	}
	return n, nil
}

// =============================================================================
// OTM Order Generator - Shared Types
// =============================================================================
//
// This package contains the order model shared by the builder, the importer,
// the generator and the submission pipeline. Keeping it dependency-free avoids
// import cycles between:
//   - xmlwriter
//   - converter
//   - generator
//   - batch / report
//
// =============================================================================

package types

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// ORDER KIND
// =============================================================================

// Kind selects the document shape: a sales order (Release) or a purchase
// order (TransOrder).
type Kind string

const (
	// KindSales builds an outbound <Release> document.
	KindSales Kind = "SO"

	// KindPurchase builds an inbound <TransOrder> document.
	KindPurchase Kind = "PO"
)

// ParseKind accepts the short codes and the long names used by the import
// templates ("so", "sales", "Sales Orders", "po", "purchase", ...).
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "so", "sales", "sales order", "sales orders", "release":
		return KindSales, nil
	case "po", "purchase", "purchase order", "purchase orders", "transorder":
		return KindPurchase, nil
	default:
		return "", fmt.Errorf("unknown order kind %q (want so or po)", s)
	}
}

// String returns the short code.
func (k Kind) String() string {
	return string(k)
}

// =============================================================================
// ORDER IDENTITY
// =============================================================================

// Identity names an order document in the target domain.
type Identity struct {
	// Domain is the GID domain name (e.g. "THG").
	Domain string

	// BaseID is the order identifier before any release suffix.
	BaseID string

	// Kind is the document shape.
	Kind Kind

	// ReleaseIndex disambiguates repeated generation runs. Values below 1
	// are treated as 1.
	ReleaseIndex int

	// SuffixInGID appends "_R{index}" to the document identifier.
	SuffixInGID bool

	// SuffixInLineIDs appends "_R{index}" to the derived line-id prefix.
	SuffixInLineIDs bool
}

// Index returns the effective release index.
func (id Identity) Index() int {
	if id.ReleaseIndex < 1 {
		return 1
	}
	return id.ReleaseIndex
}

// DocumentID returns the identifier written into the document GID.
func (id Identity) DocumentID() string {
	if id.SuffixInGID {
		return id.suffixed()
	}
	return id.BaseID
}

// LinePrefix returns the prefix used for derived line identifiers.
func (id Identity) LinePrefix() string {
	if id.SuffixInLineIDs {
		return id.suffixed()
	}
	return id.BaseID
}

func (id Identity) suffixed() string {
	return fmt.Sprintf("%s_R%d", id.BaseID, id.Index())
}

// =============================================================================
// LINE ITEMS
// =============================================================================

// LineItem is a single order line.
type LineItem struct {
	// ItemID is the packaged item identifier.
	ItemID string

	// Quantity is the packaged item count. Must be positive.
	Quantity int

	// Value is the declared monetary value. Must not be negative.
	Value decimal.Decimal

	// Currency overrides the document currency when set.
	Currency string

	// LineID is an explicit sales line identifier. Empty means derived.
	LineID string

	// LineNumber is the purchase line number. Zero means 1-based position.
	LineNumber int

	// ScheduleNumber is the purchase schedule number. Zero means 1.
	ScheduleNumber int

	// ItemNumber is an optional purchase item number refnum.
	ItemNumber string
}

// DeriveLineID picks a sales line identifier.
//
// Preference order:
//  1. explicit id, when non-empty
//  2. {base}_{lineNumber:03d}, when lineNumber > 0
//  3. {base}_{position:03d}, position being 1-based
func DeriveLineID(explicit, base string, lineNumber, position int) string {
	if s := strings.TrimSpace(explicit); s != "" {
		return s
	}
	if lineNumber > 0 {
		return fmt.Sprintf("%s_%03d", base, lineNumber)
	}
	return fmt.Sprintf("%s_%03d", base, position)
}

// PurchaseLineID formats a TransOrderLine identifier.
func PurchaseLineID(poID string, lineNumber, scheduleNumber int) string {
	return fmt.Sprintf("%s-%03d-%03d", poID, lineNumber, scheduleNumber)
}

// =============================================================================
// PAYLOADS
// =============================================================================

// Payload is one built order document together with the identity values
// shown in reports.
type Payload struct {
	// OrderID is the human-readable order identifier (also the file name).
	OrderID string

	// Kind is the document shape.
	Kind Kind

	// ShipFrom is the ship-from location (supplier for purchase orders).
	ShipFrom string

	// ShipTo is the ship-to location (DC for purchase orders).
	ShipTo string

	// Lines are the line items written into the document.
	Lines []LineItem

	// XML is the serialized document.
	XML []byte
}

// =============================================================================
// TABLES
// =============================================================================

// Table is a row-oriented input table read from CSV or XLSX.
type Table struct {
	// Headers are the column names in file order.
	Headers []string

	// Rows maps each header to the trimmed cell value.
	Rows []map[string]string

	// SourceFile is the file the table was read from, if any.
	SourceFile string
}

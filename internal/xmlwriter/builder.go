// =============================================================================
// OTM Order Generator - Document Builder
// =============================================================================
//
// The Builder maps an order identity, its locations and its line items onto
// the fixed OTM transmission schema. Two shapes exist:
//   - Release    (sales orders, see release.go)
//   - TransOrder (purchase orders, see transorder.go)
//
// Missing optional values are replaced by defaults. Missing required values
// (identity, locations, item, quantity, value) fail with ErrInvalidInput.
//
// =============================================================================

package xmlwriter

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ginjaninja78/otm-order-generator/internal/clock"
	"github.com/ginjaninja78/otm-order-generator/internal/types"
	"github.com/shopspring/decimal"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// OTMNamespace is bound to the "otm" prefix on the root element.
	OTMNamespace = "http://xmlns.oracle.com/apps/otm/transmission/v6.4"

	// GTMNamespace is declared alongside OTMNamespace.
	GTMNamespace = "http://xmlns.oracle.com/apps/gtm/transmission/v6.4"

	// TransactionCodeInsertUpdate is written on every header and line.
	TransactionCodeInsertUpdate = "IU"

	// DefaultCurrency applies when neither line nor document sets one.
	DefaultCurrency = "USD"

	// GLogDateLayout is the OTM timestamp layout (YYYYMMDDHHMMSS).
	GLogDateLayout = "20060102150405"
)

// ErrInvalidInput is returned when a required builder field is missing or
// out of range.
var ErrInvalidInput = errors.New("invalid order input")

// =============================================================================
// BUILDER
// =============================================================================

// Builder serializes order documents.
type Builder struct {
	clock   clock.Clock
	options GenerateOptions
}

// NewBuilder creates a Builder that stamps documents with clk.
// A nil clock falls back to the system clock.
func NewBuilder(clk clock.Clock) *Builder {
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &Builder{
		clock:   clk,
		options: DefaultGenerateOptions(),
	}
}

// WithOptions returns a copy of the builder using the given serialization
// options.
func (b *Builder) WithOptions(options GenerateOptions) *Builder {
	return &Builder{clock: b.clock, options: options}
}

// newTransmission creates the root element and returns it with the
// GLogXMLElement container the order is attached to.
func (b *Builder) newTransmission(createdAt *time.Time) (root, container *Element) {
	root = NewElement("Transmission")
	root.SetAttr("xmlns:otm", OTMNamespace)
	root.SetAttr("xmlns:gtm", GTMNamespace)

	header := root.Add("TransmissionHeader")
	if createdAt != nil {
		header.Add("TransmissionCreateDt").AddText("GLogDate", FormatGLogDate(*createdAt))
	}

	container = root.Add("TransmissionBody").Add("GLogXMLElement")
	return root, container
}

// =============================================================================
// GID HELPERS
// =============================================================================

// addGid writes <wrapper><Gid><DomainName/><Xid/></Gid></wrapper>.
// DomainName is omitted when domain is empty (public GIDs such as
// ReleaseTypeGid or OrderTypeGid).
func addGid(parent *Element, wrapper, domain, xid string) *Element {
	w := parent.Add(wrapper)
	gid := w.Add("Gid")
	if domain != "" {
		gid.AddText("DomainName", domain)
	}
	gid.AddText("Xid", xid)
	return w
}

// addLocationRef writes <name><LocationRef><LocationGid><Gid>...</Gid>...
func addLocationRef(parent *Element, name, domain, xid string) *Element {
	ref := parent.Add(name)
	addGid(ref.Add("LocationRef"), "LocationGid", domain, xid)
	return ref
}

// addRefnum writes a qualifier/value pair such as ReleaseRefnum or
// OrderRefnum.
func addRefnum(parent *Element, name, domain, qualifier, value string) *Element {
	ref := parent.Add(name)
	addGid(ref, name+"QualifierGid", domain, qualifier)
	ref.AddText(name+"Value", value)
	return ref
}

// addItemQuantity writes ItemQuantity/DeclaredValue/FinancialAmount and
// returns the FinancialAmount element for additional fields.
func addItemQuantity(parent *Element, quantity int, currency string, value decimal.Decimal) *Element {
	iq := parent.Add("ItemQuantity")
	iq.AddText("PackagedItemCount", strconv.Itoa(quantity))
	fa := iq.Add("DeclaredValue").Add("FinancialAmount")
	fa.AddText("GlobalCurrencyCode", currency)
	fa.AddText("MonetaryAmount", FormatAmount(value))
	return fa
}

// =============================================================================
// FORMATTING
// =============================================================================

// FormatGLogDate formats t as YYYYMMDDHHMMSS in UTC.
func FormatGLogDate(t time.Time) string {
	return t.UTC().Format(GLogDateLayout)
}

// FormatAmount writes a monetary amount with no fixed precision. Integral
// values keep a trailing ".0" (9720 -> "9720.0", 12.50 -> "12.5").
func FormatAmount(d decimal.Decimal) string {
	s := d.String()
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// pickCurrency returns the first non-empty currency.
func pickCurrency(line, document string) string {
	if c := strings.TrimSpace(line); c != "" {
		return c
	}
	if c := strings.TrimSpace(document); c != "" {
		return c
	}
	return DefaultCurrency
}

// =============================================================================
// VALIDATION
// =============================================================================

// validateOrder checks the fields every document shape requires.
func validateOrder(id types.Identity, shipFrom, shipTo string, lines []types.LineItem) error {
	switch {
	case strings.TrimSpace(id.Domain) == "":
		return fmt.Errorf("%w: domain is required", ErrInvalidInput)
	case strings.TrimSpace(id.BaseID) == "":
		return fmt.Errorf("%w: order id is required", ErrInvalidInput)
	case strings.TrimSpace(shipFrom) == "":
		return fmt.Errorf("%w: ship-from location is required", ErrInvalidInput)
	case strings.TrimSpace(shipTo) == "":
		return fmt.Errorf("%w: ship-to location is required", ErrInvalidInput)
	}

	for i, line := range lines {
		if err := validateLine(line); err != nil {
			return fmt.Errorf("line %d: %w", i+1, err)
		}
	}
	return nil
}

func validateLine(line types.LineItem) error {
	if strings.TrimSpace(line.ItemID) == "" {
		return fmt.Errorf("%w: item id is required", ErrInvalidInput)
	}
	if line.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive, got %d", ErrInvalidInput, line.Quantity)
	}
	if line.Value.IsNegative() {
		return fmt.Errorf("%w: value must not be negative, got %s", ErrInvalidInput, line.Value)
	}
	return nil
}

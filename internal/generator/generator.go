// =============================================================================
// OTM Order Generator - Random Order Generator
// =============================================================================
//
// This module produces synthetic orders from pools of locations and items.
// Sampling is driven by a seeded source so the same parameters always yield
// the same orders.
//
// SAMPLING ORDER (per order r = 1..Count):
//   1. line count, uniform in [MinLines, MaxLines]
//   2. per line: item (with replacement), quantity, value
//   3. sales:    ship-to from the ship-to pool
//      purchase: supplier from the supplier pool; the DC is the first ship-to
//
// =============================================================================

package generator

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/ginjaninja78/otm-order-generator/internal/types"
	"github.com/ginjaninja78/otm-order-generator/internal/validation"
	"github.com/ginjaninja78/otm-order-generator/internal/xmlwriter"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Params holds everything needed to generate a batch of orders. Every range
// is inclusive.
type Params struct {
	Kind     types.Kind
	Domain   string
	BaseID   string
	Currency string

	// ShipFrom is the shipping DC for sales orders.
	ShipFrom string

	// ShipTo is the customer pool for sales orders, or the DC list for
	// purchase orders (only the first entry is used).
	ShipTo []string

	Items []string

	// Suppliers is the supplier pool for purchase orders.
	Suppliers []string

	Count    int
	MinLines int
	MaxLines int
	MinQty   int
	MaxQty   int
	MinValue int
	MaxValue int

	Seed int64

	SuffixInGID     bool
	SuffixInLineIDs bool

	// PurchaseHeader overrides the purchase-order header defaults.
	PurchaseHeader xmlwriter.PurchaseHeader
}

// Validate reports every problem with the parameters at once.
func (p Params) Validate() error {
	var errs validation.Errors

	if strings.TrimSpace(p.Domain) == "" {
		errs.Add("domain", "domain is required")
	}
	if strings.TrimSpace(p.BaseID) == "" {
		errs.Add("base_id", "base id is required")
	}
	if len(nonBlank(p.ShipTo)) == 0 {
		errs.Add("ship_to", "provide at least one ship-to location")
	}
	if len(nonBlank(p.Items)) == 0 {
		errs.Add("items", "provide at least one packaged item")
	}

	switch p.Kind {
	case types.KindSales:
		if strings.TrimSpace(p.ShipFrom) == "" {
			errs.Add("ship_from", "provide the ship-from DC for sales orders")
		}
	case types.KindPurchase:
		if len(nonBlank(p.Suppliers)) == 0 {
			errs.Add("suppliers", "provide at least one supplier location")
		}
	default:
		errs.Add("kind", fmt.Sprintf("unknown order kind %q", p.Kind))
	}

	if p.Count < 1 {
		errs.Add("count", "at least one order is required")
	}
	if p.MinLines < 1 {
		errs.Add("min_lines", "must be at least 1")
	}
	if p.MinQty < 1 {
		errs.Add("min_qty", "must be at least 1")
	}
	if p.MinValue < 0 {
		errs.Add("min_value", "must not be negative")
	}
	if p.MaxLines < p.MinLines {
		errs.Add("max_lines", "max lines cannot be less than min lines")
	}
	if p.MaxQty < p.MinQty {
		errs.Add("max_qty", "max quantity cannot be less than min quantity")
	}
	if p.MaxValue < p.MinValue {
		errs.Add("max_value", "max declared value cannot be less than min declared value")
	}

	return errs.Err()
}

// Generator builds random orders.
type Generator struct {
	builder *xmlwriter.Builder
	logger  *zap.Logger
}

// New creates a Generator. A nil logger disables logging.
func New(builder *xmlwriter.Builder, logger *zap.Logger) *Generator {
	if builder == nil {
		builder = xmlwriter.NewBuilder(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{builder: builder, logger: logger}
}

// Generate validates the parameters and returns Count payloads.
func (g *Generator) Generate(p Params) ([]types.Payload, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid generator parameters: %w", err)
	}

	shipTo := nonBlank(p.ShipTo)
	items := nonBlank(p.Items)
	suppliers := nonBlank(p.Suppliers)

	if p.Count > 1 && !p.SuffixInGID {
		g.logger.Warn("multiple orders without a release suffix share one document id",
			zap.String("base_id", p.BaseID),
			zap.Int("count", p.Count),
		)
	}

	rng := rand.New(rand.NewSource(p.Seed))
	payloads := make([]types.Payload, 0, p.Count)

	for r := 1; r <= p.Count; r++ {
		identity := types.Identity{
			Domain:          p.Domain,
			BaseID:          p.BaseID,
			Kind:            p.Kind,
			ReleaseIndex:    r,
			SuffixInGID:     p.SuffixInGID,
			SuffixInLineIDs: p.SuffixInLineIDs,
		}

		numLines := between(rng, p.MinLines, p.MaxLines)
		lines := make([]types.LineItem, 0, numLines)
		for idx := 1; idx <= numLines; idx++ {
			item := items[rng.Intn(len(items))]
			qty := between(rng, p.MinQty, p.MaxQty)
			value := between(rng, p.MinValue, p.MaxValue)

			lines = append(lines, types.LineItem{
				ItemID:   item,
				Quantity: qty,
				Value:    decimal.NewFromInt(int64(value)),
				Currency: p.Currency,
			})
		}

		var payload types.Payload
		var err error
		if p.Kind == types.KindPurchase {
			supplier := suppliers[rng.Intn(len(suppliers))]
			payload, err = g.purchase(p, identity, supplier, shipTo[0], lines)
		} else {
			customer := shipTo[rng.Intn(len(shipTo))]
			payload, err = g.sales(p, identity, customer, lines)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to generate order %d: %w", r, err)
		}

		g.logger.Debug("generated order",
			zap.String("order_id", payload.OrderID),
			zap.String("ship_from", payload.ShipFrom),
			zap.String("ship_to", payload.ShipTo),
			zap.Int("lines", len(payload.Lines)),
		)
		payloads = append(payloads, payload)
	}

	return payloads, nil
}

func (g *Generator) sales(p Params, id types.Identity, shipTo string, lines []types.LineItem) (types.Payload, error) {
	prefix := id.LinePrefix()
	for i := range lines {
		lines[i].LineID = types.DeriveLineID("", prefix, 0, i+1)
	}

	doc, err := g.builder.Release(xmlwriter.SalesOrder{
		Identity: id,
		ShipFrom: p.ShipFrom,
		ShipTo:   shipTo,
		Currency: p.Currency,
		Lines:    lines,
	})
	if err != nil {
		return types.Payload{}, err
	}

	return types.Payload{
		OrderID:  id.DocumentID(),
		Kind:     types.KindSales,
		ShipFrom: p.ShipFrom,
		ShipTo:   shipTo,
		Lines:    lines,
		XML:      doc,
	}, nil
}

func (g *Generator) purchase(p Params, id types.Identity, supplier, dc string, lines []types.LineItem) (types.Payload, error) {
	for i := range lines {
		lines[i].LineNumber = i + 1
		lines[i].ScheduleNumber = 1
		lines[i].ItemNumber = lines[i].ItemID
	}

	doc, err := g.builder.TransOrder(xmlwriter.PurchaseOrder{
		Identity:         id,
		SupplierShipFrom: supplier,
		DCShipTo:         dc,
		Currency:         p.Currency,
		Header:           p.PurchaseHeader,
		Lines:            lines,
	})
	if err != nil {
		return types.Payload{}, err
	}

	return types.Payload{
		OrderID:  id.DocumentID(),
		Kind:     types.KindPurchase,
		ShipFrom: supplier,
		ShipTo:   dc,
		Lines:    lines,
		XML:      doc,
	}, nil
}

// between returns a uniform integer in [min, max].
func between(rng *rand.Rand, min, max int) int {
	return min + rng.Intn(max-min+1)
}

// nonBlank trims the values and drops empty ones.
func nonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// ParseList splits comma or newline separated input into trimmed values.
func ParseList(s string) []string {
	return nonBlank(strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r'
	}))
}

// =============================================================================
// OTM Order Generator - Generate Command
// =============================================================================
//
// COMMAND USAGE:
//   ordergen generate [flags]
//
// PIPELINE:
//   1. Resolve parameters (config generator section, then flags)
//   2. Generate Count random orders from a seeded source
//   3. Archive, optionally post, and report (see deliver)
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/ginjaninja78/otm-order-generator/internal/config"
	"github.com/ginjaninja78/otm-order-generator/internal/generator"
	"github.com/ginjaninja78/otm-order-generator/internal/types"
	"github.com/ginjaninja78/otm-order-generator/pkg/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	genCount     int
	genSeed      int64
	genBaseID    string
	genMinLines  int
	genMaxLines  int
	genMinQty    int
	genMaxQty    int
	genMinValue  int
	genMaxValue  int
	genShipFrom  string
	genShipTo    string
	genItems     string
	genSuppliers string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate random sales or purchase orders",
	Long: `Generate builds random orders from the location and item pools in the
configuration. The same seed and parameters always produce the same orders.

Lists (--ship-to, --items, --suppliers) are comma separated. For purchase
orders --ship-to lists receiving DCs and only the first is used.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(cmd)
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
	addOrderFlags(generateCmd)

	f := generateCmd.Flags()
	f.IntVarP(&genCount, "count", "n", 0, "Number of orders")
	f.Int64Var(&genSeed, "seed", 0, "Random seed")
	f.StringVar(&genBaseID, "base-id", "", "Base order id, e.g. SO_09000-1128")
	f.IntVar(&genMinLines, "min-lines", 0, "Minimum lines per order")
	f.IntVar(&genMaxLines, "max-lines", 0, "Maximum lines per order")
	f.IntVar(&genMinQty, "min-qty", 0, "Minimum quantity per line")
	f.IntVar(&genMaxQty, "max-qty", 0, "Maximum quantity per line")
	f.IntVar(&genMinValue, "min-value", 0, "Minimum declared value per line")
	f.IntVar(&genMaxValue, "max-value", 0, "Maximum declared value per line")
	f.StringVar(&genShipFrom, "ship-from", "", "Ship-from DC for sales orders")
	f.StringVar(&genShipTo, "ship-to", "", "Ship-to pool (sales) or DC list (purchase)")
	f.StringVar(&genItems, "items", "", "Packaged item pool")
	f.StringVar(&genSuppliers, "suppliers", "", "Supplier pool for purchase orders")
}

// =============================================================================
// MAIN GENERATE FUNCTION
// =============================================================================

func runGenerate(cmd *cobra.Command) error {
	cfg := app.cfg
	applyOrderFlags(cmd, cfg)

	kind, err := parseKindFlag()
	if err != nil {
		return err
	}

	params := generatorParams(cmd, cfg, kind)

	gen := generator.New(newBuilder(), app.log)
	payloads, err := gen.Generate(params)
	if err != nil {
		return err
	}

	app.log.Info("orders generated",
		zap.String("kind", kind.String()),
		zap.Int("count", len(payloads)),
		zap.Int64("seed", params.Seed),
	)

	if err := deliver(cmd, cfg, utils.GeneratePrefix, payloads); err != nil {
		return fmt.Errorf("failed to deliver generated orders: %w", err)
	}
	return nil
}

// generatorParams merges the config generator section with any flags given.
func generatorParams(cmd *cobra.Command, cfg *config.Config, kind types.Kind) generator.Params {
	g := cfg.Generator
	f := cmd.Flags()

	p := generator.Params{
		Kind:            kind,
		Domain:          cfg.Domain,
		Currency:        cfg.Currency,
		ShipFrom:        g.ShipFrom,
		Items:           g.Items,
		Suppliers:       g.Suppliers,
		Count:           g.Count,
		MinLines:        g.MinLines,
		MaxLines:        g.MaxLines,
		MinQty:          g.MinQty,
		MaxQty:          g.MaxQty,
		MinValue:        g.MinValue,
		MaxValue:        g.MaxValue,
		Seed:            g.Seed,
		SuffixInGID:     cfg.SuffixInGID,
		SuffixInLineIDs: cfg.SuffixInLineIDs,
		PurchaseHeader:  cfg.PurchaseHeader,
	}

	if kind == types.KindPurchase {
		p.BaseID = g.PurchaseBaseID
		p.ShipTo = g.PurchaseShipTo
	} else {
		p.BaseID = g.SalesBaseID
		p.ShipTo = g.SalesShipTo
	}

	intFlags := map[string]struct {
		dst *int
		val int
	}{
		"count":     {&p.Count, genCount},
		"min-lines": {&p.MinLines, genMinLines},
		"max-lines": {&p.MaxLines, genMaxLines},
		"min-qty":   {&p.MinQty, genMinQty},
		"max-qty":   {&p.MaxQty, genMaxQty},
		"min-value": {&p.MinValue, genMinValue},
		"max-value": {&p.MaxValue, genMaxValue},
	}
	for name, v := range intFlags {
		if f.Changed(name) {
			*v.dst = v.val
		}
	}

	if f.Changed("seed") {
		p.Seed = genSeed
	}
	if f.Changed("base-id") {
		p.BaseID = genBaseID
	}
	if f.Changed("ship-from") {
		p.ShipFrom = genShipFrom
	}
	if f.Changed("ship-to") {
		p.ShipTo = generator.ParseList(genShipTo)
	}
	if f.Changed("items") {
		p.Items = generator.ParseList(genItems)
	}
	if f.Changed("suppliers") {
		p.Suppliers = generator.ParseList(genSuppliers)
	}

	return p
}

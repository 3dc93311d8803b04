package generator

import (
	"testing"
	"time"

	"github.com/ginjaninja78/otm-order-generator/internal/clock"
	"github.com/ginjaninja78/otm-order-generator/internal/types"
	"github.com/ginjaninja78/otm-order-generator/internal/validation"
	"github.com/ginjaninja78/otm-order-generator/internal/xmlwriter"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newGenerator() *Generator {
	builder := xmlwriter.NewBuilder(clock.NewFixed(time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)))
	return New(builder, zap.NewNop())
}

func salesParams() Params {
	return Params{
		Kind:     types.KindSales,
		Domain:   "THG",
		BaseID:   "SO_09000-1128",
		Currency: "USD",
		ShipFrom: "110",
		ShipTo:   []string{"10000000000013", "10000000000027"},
		Items:    []string{"400000002438186", "300000005438196"},
		Count:    5,
		MinLines: 2,
		MaxLines: 3,
		MinQty:   500,
		MaxQty:   3000,
		MinValue: 1000,
		MaxValue: 15000,
		Seed:     42,
	}
}

func purchaseParams() Params {
	p := salesParams()
	p.Kind = types.KindPurchase
	p.BaseID = "PO_09000-1128"
	p.ShipFrom = ""
	p.ShipTo = []string{"110", "111"}
	p.Suppliers = []string{"300000016179177", "300000016179200"}
	return p
}

func TestGenerateIsReproducible(t *testing.T) {
	g := newGenerator()

	first, err := g.Generate(salesParams())
	require.NoError(t, err)
	second, err := g.Generate(salesParams())
	require.NoError(t, err)

	require.Len(t, first, 5)
	assert.Equal(t, first, second)

	other := salesParams()
	other.Seed = 7
	third, err := g.Generate(other)
	require.NoError(t, err)
	assert.NotEqual(t, first, third)
}

func TestGenerateRespectsBounds(t *testing.T) {
	p := salesParams()
	p.Count = 50

	payloads, err := newGenerator().Generate(p)
	require.NoError(t, err)

	for _, payload := range payloads {
		assert.Equal(t, "110", payload.ShipFrom)
		assert.Contains(t, p.ShipTo, payload.ShipTo)
		assert.GreaterOrEqual(t, len(payload.Lines), p.MinLines)
		assert.LessOrEqual(t, len(payload.Lines), p.MaxLines)

		for _, line := range payload.Lines {
			assert.Contains(t, p.Items, line.ItemID)
			assert.GreaterOrEqual(t, line.Quantity, p.MinQty)
			assert.LessOrEqual(t, line.Quantity, p.MaxQty)
			assert.True(t, line.Value.GreaterThanOrEqual(decimal.NewFromInt(int64(p.MinValue))))
			assert.True(t, line.Value.LessThanOrEqual(decimal.NewFromInt(int64(p.MaxValue))))
		}
	}
}

func TestGenerateSalesSuffixes(t *testing.T) {
	p := salesParams()
	p.Count = 2
	p.SuffixInGID = true
	p.SuffixInLineIDs = true

	payloads, err := newGenerator().Generate(p)
	require.NoError(t, err)

	assert.Equal(t, "SO_09000-1128_R1", payloads[0].OrderID)
	assert.Equal(t, "SO_09000-1128_R2", payloads[1].OrderID)
	assert.Equal(t, "SO_09000-1128_R2_001", payloads[1].Lines[0].LineID)
}

func TestGenerateSalesWithoutSuffix(t *testing.T) {
	p := salesParams()
	p.Count = 2

	payloads, err := newGenerator().Generate(p)
	require.NoError(t, err)

	assert.Equal(t, "SO_09000-1128", payloads[1].OrderID)
	assert.Equal(t, "SO_09000-1128_001", payloads[1].Lines[0].LineID)
}

func TestGeneratePurchaseUsesFirstDC(t *testing.T) {
	p := purchaseParams()
	p.Count = 10

	payloads, err := newGenerator().Generate(p)
	require.NoError(t, err)

	for _, payload := range payloads {
		assert.Equal(t, types.KindPurchase, payload.Kind)
		assert.Equal(t, "110", payload.ShipTo)
		assert.Contains(t, p.Suppliers, payload.ShipFrom)

		for i, line := range payload.Lines {
			assert.Equal(t, i+1, line.LineNumber)
			assert.Equal(t, 1, line.ScheduleNumber)
			assert.Equal(t, line.ItemID, line.ItemNumber)
		}
		assert.Contains(t, string(payload.XML), "<otm:Xid>PO_09000-1128-001-001</otm:Xid>")
	}
}

func TestValidateCollectsEveryProblem(t *testing.T) {
	p := Params{
		Kind:     types.KindPurchase,
		Domain:   "THG",
		BaseID:   "PO_1",
		Count:    1,
		MinLines: 3,
		MaxLines: 2,
		MinQty:   1,
		MaxQty:   1,
		MinValue: 1,
		MaxValue: 1,
	}

	err := p.Validate()

	var errs *validation.Errors
	require.ErrorAs(t, err, &errs)

	fields := make([]string, 0, len(errs.Items))
	for _, item := range errs.Items {
		fields = append(fields, item.Field)
	}
	assert.ElementsMatch(t, []string{"ship_to", "items", "suppliers", "max_lines"}, fields)
}

func TestParseList(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, ParseList(" a, b\n\nc ,"))
	assert.Empty(t, ParseList(" , \n"))
}

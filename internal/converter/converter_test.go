package converter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ginjaninja78/otm-order-generator/internal/clock"
	"github.com/ginjaninja78/otm-order-generator/internal/config"
	"github.com/ginjaninja78/otm-order-generator/internal/types"
	"github.com/ginjaninja78/otm-order-generator/internal/validation"
	"github.com/ginjaninja78/otm-order-generator/internal/xmlwriter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func newImporter(t *testing.T, opts Options) *Importer {
	t.Helper()

	if opts.Domain == "" {
		opts.Domain = "THG"
	}
	if opts.Currency == "" {
		opts.Currency = "USD"
	}
	builder := xmlwriter.NewBuilder(clock.NewFixed(time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)))
	im, err := New(builder, opts, zap.NewNop())
	require.NoError(t, err)
	return im
}

func table(headers []string, rows ...[]string) *types.Table {
	tbl := &types.Table{Headers: headers}
	for _, r := range rows {
		m := make(map[string]string)
		for i, h := range headers {
			if i < len(r) {
				m[h] = r[i]
			}
		}
		tbl.Rows = append(tbl.Rows, m)
	}
	return tbl
}

var salesHeaders = []string{"order_id", "ship_from_xid", "ship_to_xid", "item_xid", "qty", "value"}

func TestImportSalesDerivesLineIDs(t *testing.T) {
	tbl := table(salesHeaders,
		[]string{"SO_1", "110", "200", "A", "10", "5"},
		[]string{"SO_1", "110", "200", "B", "3", "2"},
	)

	payloads, err := newImporter(t, Options{}).Import(tbl, types.KindSales)
	require.NoError(t, err)
	require.Len(t, payloads, 1)

	p := payloads[0]
	assert.Equal(t, "SO_1", p.OrderID)
	assert.Equal(t, "110", p.ShipFrom)
	assert.Equal(t, "200", p.ShipTo)
	require.Len(t, p.Lines, 2)
	assert.Equal(t, "SO_1_001", p.Lines[0].LineID)
	assert.Equal(t, "SO_1_002", p.Lines[1].LineID)

	doc := string(p.XML)
	assert.Contains(t, doc, "<otm:Xid>SO_1_001</otm:Xid>")
	assert.Contains(t, doc, "<otm:Xid>SO_1_002</otm:Xid>")
	assert.Contains(t, doc, "<otm:MonetaryAmount>5.0</otm:MonetaryAmount>")
}

func TestImportSalesLineIDPreference(t *testing.T) {
	headers := append(append([]string{}, salesHeaders...), "release_line_id", "line_number", "currency")
	tbl := table(headers,
		[]string{"SO_1", "110", "200", "A", "1", "1", "CUSTOM", "9", ""},
		[]string{"SO_1", "110", "200", "B", "1", "1", "", "7", "EUR"},
		[]string{"SO_1", "110", "200", "C", "1", "1", "", "x", ""},
	)

	payloads, err := newImporter(t, Options{}).Import(tbl, types.KindSales)
	require.NoError(t, err)
	require.Len(t, payloads, 1)

	lines := payloads[0].Lines
	assert.Equal(t, "CUSTOM", lines[0].LineID)
	assert.Equal(t, "SO_1_007", lines[1].LineID)
	assert.Equal(t, "SO_1_003", lines[2].LineID)
	assert.Equal(t, "USD", lines[0].Currency)
	assert.Equal(t, "EUR", lines[1].Currency)
}

func TestImportSalesSuffixKeepsBareLineIDs(t *testing.T) {
	tbl := table(salesHeaders,
		[]string{"SO_1", "110", "200", "A", "10", "5"},
		[]string{"SO_1", "110", "200", "B", "20", "6"},
	)

	payloads, err := newImporter(t, Options{SuffixInGID: true}).Import(tbl, types.KindSales)
	require.NoError(t, err)
	require.Len(t, payloads, 1)

	assert.Equal(t, "SO_1_R1", payloads[0].OrderID)
	assert.Equal(t, "SO_1_001", payloads[0].Lines[0].LineID)
	assert.Equal(t, "SO_1_002", payloads[0].Lines[1].LineID)
	assert.Contains(t, string(payloads[0].XML), "<otm:Xid>SO_1_002</otm:Xid>")
}

func TestImportMissingColumn(t *testing.T) {
	headers := []string{"order_id", "ship_from_xid", "ship_to_xid", "item_xid", "value"}
	tbl := table(headers, []string{"SO_1", "110", "200", "A", "5"})

	_, err := newImporter(t, Options{}).Import(tbl, types.KindSales)

	var colErr *validation.ColumnError
	require.ErrorAs(t, err, &colErr)
	assert.Equal(t, []string{"qty"}, colErr.Missing)
}

func TestImportGroupingIsStable(t *testing.T) {
	a1 := []string{"SO_A", "110", "200", "A", "1", "1"}
	b1 := []string{"SO_B", "110", "200", "B", "1", "1"}
	a2 := []string{"SO_A", "110", "200", "C", "1", "1"}
	c1 := []string{"SO_A", "110", "300", "D", "1", "1"}

	im := newImporter(t, Options{})

	first, err := im.Import(table(salesHeaders, a1, b1, a2, c1), types.KindSales)
	require.NoError(t, err)
	second, err := im.Import(table(salesHeaders, b1, a1, c1, a2), types.KindSales)
	require.NoError(t, err)

	require.Len(t, first, 3)
	assert.Equal(t, []string{"SO_A", "SO_B", "SO_A"}, []string{first[0].OrderID, first[1].OrderID, first[2].OrderID})
	assert.Equal(t, "300", first[2].ShipTo)

	byKey := func(ps []types.Payload) map[string][]byte {
		m := make(map[string][]byte)
		for _, p := range ps {
			m[p.OrderID+"|"+p.ShipTo] = p.XML
		}
		return m
	}
	assert.Equal(t, byKey(first), byKey(second))
}

func TestImportReportsEveryBadRow(t *testing.T) {
	tbl := table(salesHeaders,
		[]string{"SO_1", "110", "200", "A", "ten", "5"},
		[]string{"SO_2", "110", "200", "B", "1", "-2"},
		[]string{"SO_3", "110", "200", "C", "1", "2"},
	)

	_, err := newImporter(t, Options{}).Import(tbl, types.KindSales)

	var errs *validation.Errors
	require.ErrorAs(t, err, &errs)
	require.Len(t, errs.Items, 2)
	assert.Equal(t, "qty", errs.Items[0].Field)
	assert.Equal(t, 1, errs.Items[0].RowNumber)
	assert.Equal(t, "SO_1", errs.Items[0].OrderID)
	assert.Equal(t, "value", errs.Items[1].Field)
	assert.Equal(t, 2, errs.Items[1].RowNumber)
}

func TestImportNoRows(t *testing.T) {
	_, err := newImporter(t, Options{}).Import(table(salesHeaders), types.KindSales)
	require.ErrorIs(t, err, ErrNoRows)
}

var purchaseHeaders = []string{"po_xid", "supplier_ship_from_xid", "dc_ship_to_xid", "packaged_item_xid", "qty", "declared_value"}

func TestImportPurchaseDefaults(t *testing.T) {
	tbl := table(purchaseHeaders,
		[]string{"PO_9", "300000016179177", "110", "400000004438186", "2800", "9702"},
		[]string{"PO_9", "300000016179177", "110", "400000004438187", "1", "1"},
	)

	payloads, err := newImporter(t, Options{}).Import(tbl, types.KindPurchase)
	require.NoError(t, err)
	require.Len(t, payloads, 1)

	p := payloads[0]
	assert.Equal(t, "PO_9", p.OrderID)
	assert.Equal(t, 1, p.Lines[0].LineNumber)
	assert.Equal(t, 2, p.Lines[1].LineNumber)
	assert.Equal(t, 1, p.Lines[1].ScheduleNumber)

	doc := string(p.XML)
	assert.Contains(t, doc, "<otm:Xid>PO_9-001-001</otm:Xid>")
	assert.Contains(t, doc, "<otm:Xid>PO_9-002-001</otm:Xid>")
	assert.Contains(t, doc, "<otm:OrderRefnumValue>BPT - PRO POWER CO LTD</otm:OrderRefnumValue>")
	assert.Contains(t, doc, "<otm:TZId>Asia/Taipei</otm:TZId>")
}

func TestImportPurchaseOverridesFromFirstRow(t *testing.T) {
	headers := append(append([]string{}, purchaseHeaders...), "supplier_name", "tz_id", "line_number", "schedule_number", "item_number")
	tbl := table(headers,
		[]string{"PO_9", "S1", "110", "I1", "1", "1", "ACME", "", "1", "1", "116783"},
		[]string{"PO_9", "S1", "110", "I2", "1", "1", "OTHER", "UTC", "2", "3", ""},
	)

	payloads, err := newImporter(t, Options{}).Import(tbl, types.KindPurchase)
	require.NoError(t, err)

	doc := string(payloads[0].XML)
	assert.Contains(t, doc, "<otm:OrderRefnumValue>ACME</otm:OrderRefnumValue>")
	assert.NotContains(t, doc, "OTHER")
	assert.Contains(t, doc, "<otm:TZId>Asia/Taipei</otm:TZId>")
	assert.Contains(t, doc, "<otm:Xid>PO_9-002-003</otm:Xid>")
	assert.Equal(t, 1, strings.Count(doc, "ITEM_NUMBER"))
}

func TestImportPurchaseBadLineNumber(t *testing.T) {
	headers := append(append([]string{}, purchaseHeaders...), "line_number")
	tbl := table(headers, []string{"PO_9", "S1", "110", "I1", "1", "1", "one"})

	_, err := newImporter(t, Options{}).Import(tbl, types.KindPurchase)

	var errs *validation.Errors
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, "line_number", errs.Items[0].Field)
}

func TestImportAppliesColumnRules(t *testing.T) {
	rules := []config.TransformationRule{
		{Field: "ITEM_XID", Actions: []config.TransformationAction{{Type: "pad_zeros_to_length", Value: "6"}}},
		{Field: "order_id", Actions: []config.TransformationAction{{Type: "uppercase"}}},
	}
	tbl := table(salesHeaders, []string{"so_1", "110", "200", "42", "1", "1"})

	payloads, err := newImporter(t, Options{Rules: rules}).Import(tbl, types.KindSales)
	require.NoError(t, err)

	assert.Equal(t, "SO_1", payloads[0].OrderID)
	assert.Equal(t, "000042", payloads[0].Lines[0].ItemID)
}

func TestReadTable(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "orders.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("order_id,qty\nSO_1,1\n"), 0o644))

	tbl, err := ReadTable(csvPath, ReadOptions{})
	require.NoError(t, err)
	assert.Equal(t, "SO_1", tbl.Rows[0]["order_id"])

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"order_id", "qty"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"SO_2", 2}))

	// Unknown extension: detected as a workbook by its content.
	xlsxPath := filepath.Join(dir, "orders.upload")
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(xlsxPath, buf.Bytes(), 0o644))

	tbl, err = ReadTable(xlsxPath, ReadOptions{})
	require.NoError(t, err)
	assert.Equal(t, "SO_2", tbl.Rows[0]["order_id"])
}

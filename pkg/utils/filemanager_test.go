package utils

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ginjaninja78/otm-order-generator/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func testPayloads() []types.Payload {
	return []types.Payload{
		{OrderID: "SO_1", XML: []byte("<one/>")},
		{OrderID: "SO_1", XML: []byte("<two/>")},
		{OrderID: "PO/9", XML: []byte("<three/>")},
	}
}

func TestDocumentNames(t *testing.T) {
	assert.Equal(t, []string{"SO_1.xml", "SO_1-2.xml", "PO_9.xml"}, DocumentNames(testPayloads()))

	names := DocumentNames([]types.Payload{{OrderID: "A"}, {OrderID: "A-2"}, {OrderID: "A"}, {OrderID: ""}})
	assert.Equal(t, []string{"A.xml", "A-2.xml", "A-3.xml", "order.xml"}, names)
}

func TestWriteDocuments(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	fm := NewFileManager(dir, "")

	paths, err := fm.WriteDocuments(testPayloads())
	require.NoError(t, err)
	require.Len(t, paths, 3)

	data, err := os.ReadFile(filepath.Join(dir, "SO_1-2.xml"))
	require.NoError(t, err)
	assert.Equal(t, "<two/>", string(data))
}

func TestWriteArchive(t *testing.T) {
	fm := NewFileManager(t.TempDir(), "")

	path, err := fm.WriteArchive(GeneratePrefix, testPayloads())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(path), "otm_orders_"))
	assert.True(t, strings.HasSuffix(path, ".zip"))

	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()

	contents := map[string]string{}
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		contents[f.Name] = string(data)
	}

	assert.Equal(t, map[string]string{
		"SO_1.xml":   "<one/>",
		"SO_1-2.xml": "<two/>",
		"PO_9.xml":   "<three/>",
	}, contents)
}

func TestGenerateOutputFileName(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	name := GenerateOutputFileName("{prefix}_{timestamp}.zip", now, map[string]string{"prefix": ImportPrefix})
	assert.Equal(t, "otm_orders_import_1735787045.zip", name)

	assert.Equal(t, "run_20250102.zip", GenerateOutputFileName("run_{date}", now, nil))

	withID := GenerateOutputFileName("{uuid}", now, nil)
	assert.Len(t, strings.TrimSuffix(withID, ".zip"), 36)
}

func TestWriteTemplateCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTemplate(&buf, types.KindSales, "CSV"))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "order_id", records[0][0])
	assert.Equal(t, "SO_09000-1128_002", records[2][7])

	buf.Reset()
	require.NoError(t, WriteTemplate(&buf, types.KindPurchase, FormatCSV))
	records, err = csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Len(t, records[0], 21)
	assert.Equal(t, "BPT - PRO POWER CO LTD", records[1][16])
}

func TestWriteTemplateXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTemplate(&buf, types.KindPurchase, FormatXLSX))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	assert.Equal(t, TemplateRows(types.KindPurchase), rows)
}

func TestWriteTemplateUnknownFormat(t *testing.T) {
	require.Error(t, WriteTemplate(io.Discard, types.KindSales, "json"))
}

func TestTemplateFileName(t *testing.T) {
	assert.Equal(t, "sales_orders_template.csv", TemplateFileName(types.KindSales, "csv"))
	assert.Equal(t, "purchase_orders_template.xlsx", TemplateFileName(types.KindPurchase, "XLSX"))
}

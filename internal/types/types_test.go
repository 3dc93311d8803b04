package types

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveLineID(t *testing.T) {
	tests := []struct {
		name       string
		explicit   string
		lineNumber int
		position   int
		expected   string
	}{
		{"explicit wins", "CUSTOM_9", 4, 2, "CUSTOM_9"},
		{"explicit is trimmed", "  CUSTOM_9 ", 0, 1, "CUSTOM_9"},
		{"line number", "", 7, 2, "SO_1_007"},
		{"position fallback", "", 0, 2, "SO_1_002"},
		{"blank explicit falls through", "   ", 0, 12, "SO_1_012"},
		{"wide numbers keep all digits", "", 1234, 1, "SO_1_1234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DeriveLineID(tt.explicit, "SO_1", tt.lineNumber, tt.position))
		})
	}
}

func TestPurchaseLineID(t *testing.T) {
	assert.Equal(t, "PO_9-001-001", PurchaseLineID("PO_9", 1, 1))
	assert.Equal(t, "PO_9-012-003", PurchaseLineID("PO_9", 12, 3))
}

func TestIdentitySuffixes(t *testing.T) {
	id := Identity{Domain: "THG", BaseID: "SO_1", Kind: KindSales, ReleaseIndex: 3}
	assert.Equal(t, "SO_1", id.DocumentID())
	assert.Equal(t, "SO_1", id.LinePrefix())

	id.SuffixInGID = true
	assert.Equal(t, "SO_1_R3", id.DocumentID())
	assert.Equal(t, "SO_1", id.LinePrefix())

	id.SuffixInGID = false
	id.SuffixInLineIDs = true
	assert.Equal(t, "SO_1", id.DocumentID())
	assert.Equal(t, "SO_1_R3", id.LinePrefix())

	id.ReleaseIndex = 0
	assert.Equal(t, "SO_1_R1", id.LinePrefix())
}

func TestParseKind(t *testing.T) {
	for _, in := range []string{"so", "SO", "Sales Orders", " sales "} {
		k, err := ParseKind(in)
		require.NoError(t, err)
		assert.Equal(t, KindSales, k)
	}
	for _, in := range []string{"po", "Purchase Orders", "purchase"} {
		k, err := ParseKind(in)
		require.NoError(t, err)
		assert.Equal(t, KindPurchase, k)
	}
	_, err := ParseKind("invoice")
	require.Error(t, err)
}

func TestResultStatusText(t *testing.T) {
	r := Result{Status: StatusHTTPError, HTTPCode: 502}
	assert.Equal(t, "HTTP_ERROR 502", r.StatusText())

	r = Result{Status: StatusOK}
	assert.Equal(t, "OK", r.StatusText())
}

func TestNewResultTruncatesSnippet(t *testing.T) {
	p := Payload{OrderID: "SO_1", Kind: KindSales, ShipFrom: "110", ShipTo: "200", Lines: make([]LineItem, 2)}
	r := NewResult(p, StatusUnknown, strings.Repeat("x", 1500))

	assert.Len(t, r.Snippet, SnippetLimit)
	assert.Equal(t, 2, r.LineCount)
	assert.Equal(t, "SO_1", r.OrderID)
}

// =============================================================================
// OTM Order Generator - Importer Module
// =============================================================================
//
// This module turns an imported order table into built order documents.
//
// IMPORT PIPELINE:
//   1. Read the table (CSV or XLSX, see ReadTable)
//   2. Check the required columns for the order kind
//   3. Apply the configured column rules to every cell
//   4. Group rows into orders by composite key, keeping first-seen order
//   5. Parse and validate every line; all problems are reported together
//   6. Build one Release or TransOrder document per group
//
// GROUPING KEYS:
//   Sales:    order_id + ship_from_xid + ship_to_xid
//   Purchase: po_xid + supplier_ship_from_xid + dc_ship_to_xid
//
// =============================================================================

package converter

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/otm-order-generator/internal/config"
	"github.com/ginjaninja78/otm-order-generator/internal/csvparser"
	"github.com/ginjaninja78/otm-order-generator/internal/types"
	"github.com/ginjaninja78/otm-order-generator/internal/validation"
	"github.com/ginjaninja78/otm-order-generator/internal/xlsxparser"
	"github.com/ginjaninja78/otm-order-generator/internal/xmlwriter"
	"go.uber.org/zap"
)

// ErrNoRows is returned when the table has a header but no data rows.
var ErrNoRows = errors.New("table has no data rows")

// purchaseHeaderColumns are the optional per-order header override columns,
// read from the first row of each purchase-order group.
var purchaseHeaderColumns = []string{
	"early_pickup_dt",
	"late_pickup_dt",
	"tz_id",
	"tz_offset",
	"plan_from_location_xid",
	"supplier_id",
	"supplier_name",
	"le_name",
	"buyer",
	"supplier_site_name",
	"revision_num",
}

// =============================================================================
// TABLE READING
// =============================================================================

// ReadOptions selects the reader settings for ReadTable.
type ReadOptions struct {
	CSV  config.CSVSettings
	XLSX config.XLSXSettings
}

var zipMagic = []byte("PK\x03\x04")

// ReadTable reads an order table, choosing the reader by file extension.
//
// EXTENSIONS:
//   - .csv, .txt    : CSV
//   - .xlsx, .xlsm  : XLSX
//   - anything else : XLSX when the file is a ZIP container, CSV otherwise
func ReadTable(path string, opts ReadOptions) (*types.Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return csvparser.Parse(path, opts.CSV)
	case ".xlsx", ".xlsm":
		return xlsxparser.Parse(path, opts.XLSX)
	}

	isZip, err := sniffZip(path)
	if err != nil {
		return nil, err
	}
	if isZip {
		return xlsxparser.Parse(path, opts.XLSX)
	}
	return csvparser.Parse(path, opts.CSV)
}

func sniffZip(path string) (bool, error) {
	file, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	head, err := bufio.NewReader(file).Peek(len(zipMagic))
	if err != nil {
		// Shorter than the magic number; cannot be a workbook.
		return false, nil
	}
	return bytes.Equal(head, zipMagic), nil
}

// =============================================================================
// IMPORTER
// =============================================================================

// Options configures document building for imported orders.
type Options struct {
	// Domain is the GID domain.
	Domain string

	// Currency applies to lines without a currency cell.
	Currency string

	// SuffixInGID writes sales orders as {order_id}_R1. Derived line ids
	// always use the bare order id.
	SuffixInGID bool

	// PurchaseHeader holds the header values used when a purchase row does
	// not override them. Empty fields take the built-in defaults.
	PurchaseHeader xmlwriter.PurchaseHeader

	// Rules are the column transformations applied before grouping.
	Rules []config.TransformationRule
}

// Importer builds order documents from tables.
type Importer struct {
	builder     *xmlwriter.Builder
	options     Options
	transformer *Transformer
	logger      *zap.Logger
}

// New creates an Importer. A nil logger disables logging.
func New(builder *xmlwriter.Builder, options Options, logger *zap.Logger) (*Importer, error) {
	transformer, err := NewTransformer(options.Rules)
	if err != nil {
		return nil, fmt.Errorf("failed to load column rules: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if builder == nil {
		builder = xmlwriter.NewBuilder(nil)
	}
	return &Importer{
		builder:     builder,
		options:     options,
		transformer: transformer,
		logger:      logger,
	}, nil
}

// row is one data row with lower-cased column names and its 1-based
// position in the table.
type row struct {
	number int
	cells  map[string]string
}

func (r row) get(column string) string {
	return r.cells[column]
}

// group is one order: the composite key values and its rows in file order.
type group struct {
	orderID  string
	shipFrom string
	shipTo   string
	rows     []row
}

// Import validates the table and builds one payload per order group.
//
// PARAMETERS:
//   - table: The imported table.
//   - kind: The order shape to build.
//
// RETURNS:
//   - The payloads in group-encounter order.
//   - A *validation.ColumnError when required columns are missing.
//   - A *validation.Errors listing every malformed row.
func (im *Importer) Import(table *types.Table, kind types.Kind) ([]types.Payload, error) {
	if err := validation.RequireColumns(table, kind, validation.RequiredColumns(kind)); err != nil {
		return nil, err
	}
	if len(table.Rows) == 0 {
		return nil, ErrNoRows
	}

	rows, err := im.normalizeRows(table)
	if err != nil {
		return nil, err
	}

	var keys [3]string
	if kind == types.KindPurchase {
		keys = [3]string{"po_xid", "supplier_ship_from_xid", "dc_ship_to_xid"}
	} else {
		keys = [3]string{"order_id", "ship_from_xid", "ship_to_xid"}
	}
	groups := groupRows(rows, keys)

	im.logger.Debug("grouped import rows",
		zap.String("source", table.SourceFile),
		zap.String("kind", kind.String()),
		zap.Int("rows", len(rows)),
		zap.Int("orders", len(groups)),
	)

	var payloads []types.Payload
	var errs validation.Errors

	for _, g := range groups {
		var payload types.Payload
		var buildErr error

		if kind == types.KindPurchase {
			payload, buildErr = im.buildPurchase(g, &errs)
		} else {
			payload, buildErr = im.buildSales(g, &errs)
		}
		if buildErr != nil {
			return nil, buildErr
		}
		if payload.XML != nil {
			payloads = append(payloads, payload)
		}
	}

	if err := errs.Err(); err != nil {
		return nil, err
	}

	im.logger.Info("imported orders",
		zap.String("kind", kind.String()),
		zap.Int("orders", len(payloads)),
	)

	return payloads, nil
}

// normalizeRows lower-cases the column names and applies the column rules.
func (im *Importer) normalizeRows(table *types.Table) ([]row, error) {
	rows := make([]row, 0, len(table.Rows))

	for i, raw := range table.Rows {
		cells := make(map[string]string, len(raw))
		for _, header := range table.Headers {
			key := normalizeHeader(header)
			if _, seen := cells[key]; seen {
				continue
			}
			cells[key] = strings.TrimSpace(raw[header])
		}

		if err := im.transformer.TransformRow(cells); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}

		rows = append(rows, row{number: i + 1, cells: cells})
	}

	return rows, nil
}

// groupRows groups rows by the three key columns, preserving the order in
// which each group was first seen and the row order within groups.
func groupRows(rows []row, keys [3]string) []*group {
	index := make(map[[3]string]*group)
	var order []*group

	for _, r := range rows {
		k := [3]string{r.get(keys[0]), r.get(keys[1]), r.get(keys[2])}
		g, exists := index[k]
		if !exists {
			g = &group{orderID: k[0], shipFrom: k[1], shipTo: k[2]}
			index[k] = g
			order = append(order, g)
		}
		g.rows = append(g.rows, r)
	}

	return order
}

// checkKeys records empty key cells. It returns false when the group cannot
// be built.
func checkKeys(g *group, names [3]string, errs *validation.Errors) bool {
	ok := true
	for i, value := range []string{g.orderID, g.shipFrom, g.shipTo} {
		if value == "" {
			errs.AddError(&validation.ValidationError{
				Field:     names[i],
				Message:   "value is required",
				RowNumber: g.rows[0].number,
			})
			ok = false
		}
	}
	return ok
}

// parseLine parses the columns shared by both shapes. Problems are recorded
// in errs and ok is false.
func parseLine(g *group, r row, itemColumn, valueColumn string, errs *validation.Errors) (line types.LineItem, ok bool) {
	ok = true
	fail := func(field, value, message string) {
		errs.AddError(&validation.ValidationError{
			Field:     field,
			Value:     value,
			Message:   message,
			OrderID:   g.orderID,
			RowNumber: r.number,
		})
		ok = false
	}

	line.ItemID = r.get(itemColumn)
	if line.ItemID == "" {
		fail(itemColumn, "", "value is required")
	}

	qty, err := validation.ParseQuantity(r.get("qty"))
	if err != nil {
		fail("qty", r.get("qty"), err.Error())
	}
	line.Quantity = qty

	value, err := validation.ParseAmount(r.get(valueColumn))
	if err != nil {
		fail(valueColumn, r.get(valueColumn), err.Error())
	}
	line.Value = value

	line.Currency = r.get("currency")
	return line, ok
}

// =============================================================================
// SALES ORDERS
// =============================================================================

func (im *Importer) buildSales(g *group, errs *validation.Errors) (types.Payload, error) {
	if !checkKeys(g, [3]string{"order_id", "ship_from_xid", "ship_to_xid"}, errs) {
		return types.Payload{}, nil
	}

	identity := types.Identity{
		Domain:       im.options.Domain,
		BaseID:       g.orderID,
		Kind:         types.KindSales,
		ReleaseIndex: 1,
		SuffixInGID:  im.options.SuffixInGID,
	}

	lines := make([]types.LineItem, 0, len(g.rows))
	valid := true

	for pos, r := range g.rows {
		line, ok := parseLine(g, r, "item_xid", "value", errs)
		if !ok {
			valid = false
			continue
		}

		if line.Currency == "" {
			line.Currency = im.options.Currency
		}

		// An unparseable line number falls back to the row position.
		lineNumber, err := validation.ParseOrdinal(r.get("line_number"))
		if err != nil {
			im.logger.Debug("ignoring line_number",
				zap.String("order_id", g.orderID),
				zap.Int("row", r.number),
				zap.String("value", r.get("line_number")),
			)
			lineNumber = 0
		}
		line.LineID = types.DeriveLineID(r.get("release_line_id"), g.orderID, lineNumber, pos+1)

		lines = append(lines, line)
	}

	if !valid {
		return types.Payload{}, nil
	}

	doc, err := im.builder.Release(xmlwriter.SalesOrder{
		Identity: identity,
		ShipFrom: g.shipFrom,
		ShipTo:   g.shipTo,
		Currency: im.options.Currency,
		Lines:    lines,
	})
	if err != nil {
		return types.Payload{}, fmt.Errorf("order %s: %w", g.orderID, err)
	}

	return types.Payload{
		OrderID:  identity.DocumentID(),
		Kind:     types.KindSales,
		ShipFrom: g.shipFrom,
		ShipTo:   g.shipTo,
		Lines:    lines,
		XML:      doc,
	}, nil
}

// =============================================================================
// PURCHASE ORDERS
// =============================================================================

func (im *Importer) buildPurchase(g *group, errs *validation.Errors) (types.Payload, error) {
	if !checkKeys(g, [3]string{"po_xid", "supplier_ship_from_xid", "dc_ship_to_xid"}, errs) {
		return types.Payload{}, nil
	}

	lines := make([]types.LineItem, 0, len(g.rows))
	valid := true

	for pos, r := range g.rows {
		line, ok := parseLine(g, r, "packaged_item_xid", "declared_value", errs)

		lineNumber, err := validation.ParseOrdinal(r.get("line_number"))
		if err != nil {
			errs.AddError(&validation.ValidationError{
				Field: "line_number", Value: r.get("line_number"), Message: err.Error(),
				OrderID: g.orderID, RowNumber: r.number,
			})
			ok = false
		}
		scheduleNumber, err := validation.ParseOrdinal(r.get("schedule_number"))
		if err != nil {
			errs.AddError(&validation.ValidationError{
				Field: "schedule_number", Value: r.get("schedule_number"), Message: err.Error(),
				OrderID: g.orderID, RowNumber: r.number,
			})
			ok = false
		}
		if !ok {
			valid = false
			continue
		}

		if lineNumber == 0 {
			lineNumber = pos + 1
		}
		if scheduleNumber == 0 {
			scheduleNumber = 1
		}
		if line.Currency == "" {
			line.Currency = im.options.Currency
		}
		line.LineNumber = lineNumber
		line.ScheduleNumber = scheduleNumber
		line.ItemNumber = r.get("item_number")

		lines = append(lines, line)
	}

	if !valid {
		return types.Payload{}, nil
	}

	identity := types.Identity{
		Domain:       im.options.Domain,
		BaseID:       g.orderID,
		Kind:         types.KindPurchase,
		ReleaseIndex: 1,
	}

	doc, err := im.builder.TransOrder(xmlwriter.PurchaseOrder{
		Identity:         identity,
		SupplierShipFrom: g.shipFrom,
		DCShipTo:         g.shipTo,
		Currency:         im.options.Currency,
		Header:           im.headerFor(g.rows[0]),
		Lines:            lines,
	})
	if err != nil {
		return types.Payload{}, fmt.Errorf("order %s: %w", g.orderID, err)
	}

	return types.Payload{
		OrderID:  identity.DocumentID(),
		Kind:     types.KindPurchase,
		ShipFrom: g.shipFrom,
		ShipTo:   g.shipTo,
		Lines:    lines,
		XML:      doc,
	}, nil
}

// headerFor applies the non-empty override cells of the first group row on
// top of the configured header.
func (im *Importer) headerFor(first row) xmlwriter.PurchaseHeader {
	h := im.options.PurchaseHeader
	fields := map[string]*string{
		"early_pickup_dt":        &h.EarlyPickup,
		"late_pickup_dt":         &h.LatePickup,
		"tz_id":                  &h.TZID,
		"tz_offset":              &h.TZOffset,
		"plan_from_location_xid": &h.PlanFromLocation,
		"supplier_id":            &h.SupplierID,
		"supplier_name":          &h.SupplierName,
		"le_name":                &h.LegalEntityName,
		"buyer":                  &h.Buyer,
		"supplier_site_name":     &h.SupplierSiteName,
		"revision_num":           &h.RevisionNumber,
	}

	for _, column := range purchaseHeaderColumns {
		if v := first.get(column); v != "" {
			*fields[column] = v
		}
	}
	return h
}

package xmlwriter

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/otm-order-generator/internal/types"
)

// SalesOrder is the builder input for the Release shape.
type SalesOrder struct {
	// Identity names the release; Kind is ignored.
	Identity types.Identity

	// ShipFrom is the shipping DC location.
	ShipFrom string

	// ShipTo is the customer location.
	ShipTo string

	// Currency is the document default currency.
	Currency string

	// Lines are written in order, one ReleaseLine each.
	Lines []types.LineItem
}

const (
	pickupLeadDays   = 7
	pickupWindowDays = 1
)

// Release builds a sales-order <Release> transmission.
//
// STRUCTURE:
//
//	Transmission
//	├── TransmissionHeader/TransmissionCreateDt/GLogDate   (now)
//	└── TransmissionBody/GLogXMLElement/Release
//	    ├── ReleaseGid, TransactionCode
//	    ├── ShipFromLocationRef, ShipToLocationRef
//	    ├── TimeWindow (early = now+7d, late = early+1d)
//	    ├── ReleaseLine ...                                 (one per line)
//	    ├── ReleaseTypeGid = SALES_ORDER
//	    └── ReleaseRefnum ORDER_TYPE, DIRECTION
//
// Line identifiers use the explicit LineID when present, otherwise
// {LinePrefix}_{position:03d}.
func (b *Builder) Release(order SalesOrder) ([]byte, error) {
	id := order.Identity
	if err := validateOrder(id, order.ShipFrom, order.ShipTo, order.Lines); err != nil {
		return nil, fmt.Errorf("failed to build release: %w", err)
	}

	domain := strings.TrimSpace(id.Domain)
	now := b.clock.Now()
	early := now.AddDate(0, 0, pickupLeadDays)
	late := early.AddDate(0, 0, pickupWindowDays)

	root, container := b.newTransmission(&now)
	rel := container.Add("Release")

	addGid(rel, "ReleaseGid", domain, id.DocumentID())
	rel.AddText("TransactionCode", TransactionCodeInsertUpdate)

	addLocationRef(rel, "ShipFromLocationRef", domain, strings.TrimSpace(order.ShipFrom))
	addLocationRef(rel, "ShipToLocationRef", domain, strings.TrimSpace(order.ShipTo))

	tw := rel.Add("TimeWindow")
	tw.Add("EarlyPickupDt").AddText("GLogDate", FormatGLogDate(early))
	tw.Add("LatePickupDt").AddText("GLogDate", FormatGLogDate(late))

	prefix := id.LinePrefix()
	for i, line := range order.Lines {
		lineID := types.DeriveLineID(line.LineID, prefix, 0, i+1)

		rl := rel.Add("ReleaseLine")
		addGid(rl, "ReleaseLineGid", domain, lineID)
		rl.AddText("TransactionCode", TransactionCodeInsertUpdate)
		addGid(rl.Add("PackagedItemRef"), "PackagedItemGid", domain, strings.TrimSpace(line.ItemID))
		addItemQuantity(rl, line.Quantity, pickCurrency(line.Currency, order.Currency), line.Value)
	}

	addGid(rel, "ReleaseTypeGid", "", "SALES_ORDER")
	addRefnum(rel, "ReleaseRefnum", domain, "ORDER_TYPE", "SALES_ORDER")
	addRefnum(rel, "ReleaseRefnum", domain, "DIRECTION", "OUTBOUND")

	return Marshal(root, b.options)
}

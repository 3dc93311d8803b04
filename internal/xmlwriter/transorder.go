package xmlwriter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ginjaninja78/otm-order-generator/internal/types"
	"github.com/shopspring/decimal"
)

// =============================================================================
// PURCHASE HEADER
// =============================================================================

// PurchaseHeader carries the TransOrder header metadata and the line-level
// time window shared by every line. Empty fields take the defaults from
// DefaultPurchaseHeader.
type PurchaseHeader struct {
	ReleaseMethod string `yaml:"release_method"`

	// Order refnums.
	SupplierID       string `yaml:"supplier_id"`
	SupplierName     string `yaml:"supplier_name"`
	LegalEntityName  string `yaml:"le_name"`
	Buyer            string `yaml:"buyer"`
	SupplierSiteName string `yaml:"supplier_site_name"`
	RevisionNumber   string `yaml:"revision_num"`

	// Header flex fields.
	FlexAttribute2 string `yaml:"flex_attribute2"`
	FlexAttribute3 string `yaml:"flex_attribute3"`
	FlexAttribute4 string `yaml:"flex_attribute4"`
	FlexNumber1    string `yaml:"flex_number1"`
	FlexDate1      string `yaml:"flex_date1"`

	// Line time window, as GLogDate strings with explicit timezone.
	EarlyPickup string `yaml:"early_pickup_dt"`
	LatePickup  string `yaml:"late_pickup_dt"`
	TZID        string `yaml:"tz_id"`
	TZOffset    string `yaml:"tz_offset"`

	// PlanFromLocation is the planning origin on every line.
	PlanFromLocation string `yaml:"plan_from_location_xid"`

	// RateToBase defaults to 1 when zero.
	RateToBase decimal.Decimal `yaml:"rate_to_base"`

	FuncCurrencyAmount decimal.Decimal `yaml:"func_currency_amount"`
}

// DefaultPurchaseHeader returns the fixed header defaults for a domain.
func DefaultPurchaseHeader(domain string) PurchaseHeader {
	return PurchaseHeader{
		ReleaseMethod:      "AUTO_CALC - " + domain,
		SupplierID:         "10010",
		SupplierName:       "BPT - PRO POWER CO LTD",
		LegalEntityName:    "THE HILLMAN GROUP",
		Buyer:              "THE HILLMAN GROUP",
		SupplierSiteName:   "KAOHSIUNG CITY",
		RevisionNumber:     "0",
		FlexAttribute2:     "SHIP METHOD",
		FlexAttribute3:     "Y",
		FlexAttribute4:     "FREIGHT TERMS",
		FlexNumber1:        "100000019476400",
		FlexDate1:          "20250925000000",
		EarlyPickup:        "20250718102700",
		LatePickup:         "20250725102700",
		TZID:               "Asia/Taipei",
		TZOffset:           "+08:00",
		PlanFromLocation:   "CNNGB",
		RateToBase:         decimal.NewFromInt(1),
		FuncCurrencyAmount: decimal.Zero,
	}
}

// WithDefaults fills every empty field from DefaultPurchaseHeader(domain).
func (h PurchaseHeader) WithDefaults(domain string) PurchaseHeader {
	d := DefaultPurchaseHeader(domain)
	fill := func(v *string, def string) {
		if strings.TrimSpace(*v) == "" {
			*v = def
		}
	}

	fill(&h.ReleaseMethod, d.ReleaseMethod)
	fill(&h.SupplierID, d.SupplierID)
	fill(&h.SupplierName, d.SupplierName)
	fill(&h.LegalEntityName, d.LegalEntityName)
	fill(&h.Buyer, d.Buyer)
	fill(&h.SupplierSiteName, d.SupplierSiteName)
	fill(&h.RevisionNumber, d.RevisionNumber)
	fill(&h.FlexAttribute2, d.FlexAttribute2)
	fill(&h.FlexAttribute3, d.FlexAttribute3)
	fill(&h.FlexAttribute4, d.FlexAttribute4)
	fill(&h.FlexNumber1, d.FlexNumber1)
	fill(&h.FlexDate1, d.FlexDate1)
	fill(&h.EarlyPickup, d.EarlyPickup)
	fill(&h.LatePickup, d.LatePickup)
	fill(&h.TZID, d.TZID)
	fill(&h.TZOffset, d.TZOffset)
	fill(&h.PlanFromLocation, d.PlanFromLocation)

	if h.RateToBase.IsZero() {
		h.RateToBase = d.RateToBase
	}
	return h
}

// =============================================================================
// PURCHASE ORDER
// =============================================================================

// PurchaseOrder is the builder input for the TransOrder shape.
type PurchaseOrder struct {
	// Identity names the purchase order; Kind is ignored.
	Identity types.Identity

	// SupplierShipFrom is the supplier location (SHIP FROM party).
	SupplierShipFrom string

	// DCShipTo is the receiving DC.
	DCShipTo string

	// Currency is the document default currency.
	Currency string

	Header PurchaseHeader

	// Lines are written in order, one TransOrderLine each.
	Lines []types.LineItem
}

// TransOrder builds a purchase-order <TransOrder> transmission.
//
// STRUCTURE:
//
//	Transmission
//	├── TransmissionHeader                               (empty)
//	└── TransmissionBody/GLogXMLElement/TransOrder
//	    ├── TransOrderHeader
//	    │   ├── TransOrderGid, TransactionCode, ReleaseMethodGid
//	    │   ├── InvolvedParty (SHIP FROM)
//	    │   ├── OrderTypeGid = PURCHASE_ORDER
//	    │   ├── OrderRefnum x6
//	    │   └── FlexFieldStrings/Numbers/Dates/Currencies
//	    └── TransOrderLineDetail
//	        └── TransOrderLine ...                        (one per line)
//
// Line identifiers are {order}-{line_number:03d}-{schedule_number:03d};
// line numbers default to the 1-based position and schedules to 1.
func (b *Builder) TransOrder(order PurchaseOrder) ([]byte, error) {
	id := order.Identity
	if err := validateOrder(id, order.SupplierShipFrom, order.DCShipTo, order.Lines); err != nil {
		return nil, fmt.Errorf("failed to build trans order: %w", err)
	}

	domain := strings.TrimSpace(id.Domain)
	poID := id.DocumentID()
	shipFrom := strings.TrimSpace(order.SupplierShipFrom)
	shipTo := strings.TrimSpace(order.DCShipTo)
	h := order.Header.WithDefaults(domain)

	root, container := b.newTransmission(nil)
	to := container.Add("TransOrder")

	// =========================================================================
	// HEADER
	// =========================================================================

	toh := to.Add("TransOrderHeader")
	addGid(toh, "TransOrderGid", domain, poID)
	toh.AddText("TransactionCode", TransactionCodeInsertUpdate)
	addGid(toh, "ReleaseMethodGid", domain, h.ReleaseMethod)

	ip := toh.Add("InvolvedParty")
	addGid(ip, "InvolvedPartyQualifierGid", "", "SHIP FROM")
	addLocationRef(ip, "InvolvedPartyLocationRef", domain, shipFrom)
	addGid(ip.Add("ContactRef").Add("Contact"), "ContactGid", domain, shipFrom)

	addGid(toh, "OrderTypeGid", "", "PURCHASE_ORDER")

	addRefnum(toh, "OrderRefnum", domain, "SUPPLIER_ID", h.SupplierID)
	addRefnum(toh, "OrderRefnum", domain, "SUPPLIER_NAME", h.SupplierName)
	addRefnum(toh, "OrderRefnum", domain, "LE_NAME", h.LegalEntityName)
	addRefnum(toh, "OrderRefnum", domain, "BUYER", h.Buyer)
	addRefnum(toh, "OrderRefnum", domain, "SUPPLIER_SITE_NAME", h.SupplierSiteName)
	addRefnum(toh, "OrderRefnum", domain, "REVISION_NUM", h.RevisionNumber)

	ffs := toh.Add("FlexFieldStrings")
	ffs.AddText("Attribute2", h.FlexAttribute2)
	ffs.AddText("Attribute3", h.FlexAttribute3)
	ffs.AddText("Attribute4", h.FlexAttribute4)
	toh.Add("FlexFieldNumbers").AddText("AttributeNumber1", h.FlexNumber1)
	toh.Add("FlexFieldDates").Add("AttributeDate1").AddText("GLogDate", h.FlexDate1)
	toh.Add("FlexFieldCurrencies")

	// =========================================================================
	// LINES
	// =========================================================================

	detail := to.Add("TransOrderLineDetail")
	for i, line := range order.Lines {
		lineNumber := line.LineNumber
		if lineNumber <= 0 {
			lineNumber = i + 1
		}
		scheduleNumber := line.ScheduleNumber
		if scheduleNumber <= 0 {
			scheduleNumber = 1
		}

		tol := detail.Add("TransOrderLine")
		addGid(tol, "TransOrderLineGid", domain, types.PurchaseLineID(poID, lineNumber, scheduleNumber))
		tol.AddText("TransactionCode", TransactionCodeInsertUpdate)
		addGid(tol.Add("PackagedItemRef"), "PackagedItemGid", domain, strings.TrimSpace(line.ItemID))

		addLocationRef(tol, "ShipFromLocationRef", domain, shipFrom)
		addLocationRef(tol, "ShipToLocationRef", domain, shipTo)

		fa := addItemQuantity(tol, line.Quantity, pickCurrency(line.Currency, order.Currency), line.Value)
		fa.AddText("RateToBase", FormatAmount(h.RateToBase))
		fa.AddText("FuncCurrencyAmount", FormatAmount(h.FuncCurrencyAmount))

		tw := tol.Add("TimeWindow")
		addZonedDate(tw, "EarlyPickupDt", h.EarlyPickup, h.TZID, h.TZOffset)
		addZonedDate(tw, "LatePickupDt", h.LatePickup, h.TZID, h.TZOffset)

		addGid(tol.Add("PlanFromLocationGid"), "LocationGid", domain, h.PlanFromLocation)

		addRefnum(tol, "OrderLineRefnum", domain, "LINE_NUMBER", strconv.Itoa(lineNumber))
		addRefnum(tol, "OrderLineRefnum", domain, "SCHEDULE_NUMBER", strconv.Itoa(scheduleNumber))
		if item := strings.TrimSpace(line.ItemNumber); item != "" {
			addRefnum(tol, "OrderLineRefnum", domain, "ITEM_NUMBER", item)
		}

		lffs := tol.Add("FlexFieldStrings")
		lffs.AddText("Attribute1", "COUNTRY_OF_ORIGIN")
		lffs.AddText("Attribute2", "UOMCODE")
		lffn := tol.Add("FlexFieldNumbers")
		lffn.AddText("AttributeNumber1", h.FlexNumber1)
		lffn.AddText("AttributeNumber2", h.FlexNumber1)
		tol.Add("FlexFieldDates")
	}

	return Marshal(root, b.options)
}

func addZonedDate(parent *Element, name, glogDate, tzID, tzOffset string) {
	dt := parent.Add(name)
	dt.AddText("GLogDate", glogDate)
	dt.AddText("TZId", tzID)
	dt.AddText("TZOffset", tzOffset)
}

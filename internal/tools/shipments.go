package tools

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/hishamalhadi/chitchats-mcp/internal/chitchats"
)

// shipmentStatuses are the states a shipment moves through between
// creation and delivery. They double as the status filter enumeration.
var shipmentStatuses = []string{
	"pending",
	"ready",
	"received",
	"released",
	"in_transit",
	"delivered",
	"exception",
	"voided",
	"canceled",
}

var (
	valueCurrencies     = []string{"usd", "cad"}
	weightUnits         = []string{"g", "kg", "oz", "lb"}
	sizeUnits           = []string{"cm", "in"}
	packageContentKinds = []string{"merchandise", "documents", "gift", "returned_goods", "sample", "other"}
	packageTypes        = []string{"card", "letter", "envelope", "thick_envelope", "parcel"}
)

func shipmentTools(c *chitchats.Client) []*Tool {
	return []*Tool{
		{
			Name:        "list_shipments",
			Description: "List shipments with optional status, batch, date and search filters",
			Access:      ReadOnly,
			Schema: Schema{
				{Name: "status", Type: TypeString, Description: "Filter by shipment status", Enum: shipmentStatuses},
				{Name: "batch_id", Type: TypeInteger, Description: "Only shipments in this batch", Min: bound(1)},
				{Name: "from_date", Type: TypeString, Description: "Only shipments created on or after this date (YYYY-MM-DD)"},
				{Name: "to_date", Type: TypeString, Description: "Only shipments created on or before this date (YYYY-MM-DD)"},
				{Name: "search", Type: TypeString, Description: "Free-text search over recipient name and tracking number"},
				{Name: "limit", Type: TypeInteger, Description: "Page size (default 100)", Min: bound(1), Max: bound(1000)},
				{Name: "page", Type: TypeInteger, Description: "Page number, starting at 1", Min: bound(1)},
			},
			Run: func(ctx context.Context, params map[string]any) (string, error) {
				return listShipments(ctx, c, params)
			},
		},
		{
			Name:        "count_shipments",
			Description: "Count shipments matching optional status, date and search filters",
			Access:      ReadOnly,
			Schema: Schema{
				{Name: "status", Type: TypeString, Description: "Filter by shipment status", Enum: shipmentStatuses},
				{Name: "from_date", Type: TypeString, Description: "Only shipments created on or after this date (YYYY-MM-DD)"},
				{Name: "to_date", Type: TypeString, Description: "Only shipments created on or before this date (YYYY-MM-DD)"},
				{Name: "search", Type: TypeString, Description: "Free-text search over recipient name and tracking number"},
			},
			Run: func(ctx context.Context, params map[string]any) (string, error) {
				return countShipments(ctx, c, params)
			},
		},
		{
			Name:        "get_shipment",
			Description: "Get full details for one shipment",
			Access:      ReadOnly,
			Schema: Schema{
				{Name: "shipment_id", Type: TypeString, Required: true, Description: "The shipment id"},
			},
			Run: func(ctx context.Context, params map[string]any) (string, error) {
				return getShipment(ctx, c, params)
			},
		},
		{
			Name:        "create_shipment",
			Description: "Create a new shipment for a recipient address and package",
			Access:      Mutating,
			Schema: Schema{
				{Name: "name", Type: TypeString, Required: true, Description: "Recipient full name"},
				{Name: "address_1", Type: TypeString, Required: true, Description: "Street address"},
				{Name: "address_2", Type: TypeString, Description: "Apartment, suite or unit"},
				{Name: "city", Type: TypeString, Required: true, Description: "City"},
				{Name: "province_code", Type: TypeString, Required: true, Description: "Province or state code, e.g. BC or NY"},
				{Name: "postal_code", Type: TypeString, Required: true, Description: "Postal or ZIP code"},
				{Name: "country_code", Type: TypeString, Required: true, Description: "Two-letter country code, e.g. CA or US"},
				{Name: "phone", Type: TypeString, Description: "Recipient phone number"},
				{Name: "email", Type: TypeString, Description: "Recipient email address"},
				{Name: "description", Type: TypeString, Required: true, Description: "Customs description of the contents"},
				{Name: "value", Type: TypeString, Required: true, Description: "Declared value, e.g. 25.00"},
				{Name: "value_currency", Type: TypeString, Required: true, Description: "Currency of the declared value", Enum: valueCurrencies},
				{Name: "package_contents", Type: TypeString, Description: "Customs content category", Enum: packageContentKinds},
				{Name: "package_type", Type: TypeString, Description: "Packaging used", Enum: packageTypes},
				{Name: "size_unit", Type: TypeString, Description: "Unit for the package dimensions", Enum: sizeUnits},
				{Name: "size_x", Type: TypeNumber, Description: "Package length", Min: bound(0)},
				{Name: "size_y", Type: TypeNumber, Description: "Package width", Min: bound(0)},
				{Name: "size_z", Type: TypeNumber, Description: "Package height", Min: bound(0)},
				{Name: "weight", Type: TypeNumber, Required: true, Description: "Package weight", Min: bound(0)},
				{Name: "weight_unit", Type: TypeString, Required: true, Description: "Unit for the package weight", Enum: weightUnits},
				{Name: "insurance_requested", Type: TypeBoolean, Description: "Request insurance for the declared value"},
				{Name: "signature_requested", Type: TypeBoolean, Description: "Request a signature on delivery"},
				{Name: "postage_type", Type: TypeString, Description: "Postage type, e.g. chit_chats_ground; omit to choose later"},
				{Name: "ship_date", Type: TypeString, Description: "Ship date (YYYY-MM-DD) or \"today\""},
				{Name: "order_id", Type: TypeString, Description: "Your store's order reference"},
			},
			Run: func(ctx context.Context, params map[string]any) (string, error) {
				return createShipment(ctx, c, params)
			},
		},
		{
			Name:        "buy_shipment",
			Description: "Purchase postage for a shipment",
			Access:      Mutating,
			Schema: Schema{
				{Name: "shipment_id", Type: TypeString, Required: true, Description: "The shipment id"},
			},
			Run: func(ctx context.Context, params map[string]any) (string, error) {
				return buyShipment(ctx, c, params)
			},
		},
		{
			Name:        "refund_shipment",
			Description: "Request a postage refund for a shipment",
			Access:      Mutating,
			Schema: Schema{
				{Name: "shipment_id", Type: TypeString, Required: true, Description: "The shipment id"},
			},
			Run: func(ctx context.Context, params map[string]any) (string, error) {
				return refundShipment(ctx, c, params)
			},
		},
		{
			Name:        "delete_shipment",
			Description: "Delete a shipment permanently",
			Access:      Destructive,
			Schema: Schema{
				{Name: "shipment_id", Type: TypeString, Required: true, Description: "The shipment id"},
			},
			Run: func(ctx context.Context, params map[string]any) (string, error) {
				return deleteShipment(ctx, c, params)
			},
		},
		{
			Name:        "add_shipments_to_batch",
			Description: "Add shipments to a batch for a single drop-off",
			Access:      Mutating,
			Schema: Schema{
				{Name: "batch_id", Type: TypeInteger, Required: true, Description: "The target batch id", Min: bound(1)},
				{Name: "shipment_ids", Type: TypeArray, Required: true, Description: "Shipment ids to add", MinItems: 1, Elem: &Field{Type: TypeString}},
			},
			Run: func(ctx context.Context, params map[string]any) (string, error) {
				return addShipmentsToBatch(ctx, c, params)
			},
		},
		{
			Name:        "remove_shipments_from_batch",
			Description: "Remove shipments from their batch",
			Access:      Mutating,
			Schema: Schema{
				{Name: "shipment_ids", Type: TypeArray, Required: true, Description: "Shipment ids to remove", MinItems: 1, Elem: &Field{Type: TypeString}},
			},
			Run: func(ctx context.Context, params map[string]any) (string, error) {
				return removeShipmentsFromBatch(ctx, c, params)
			},
		},
	}
}

type listShipmentsParams struct {
	Status   *string `mapstructure:"status"`
	BatchID  *int    `mapstructure:"batch_id"`
	FromDate *string `mapstructure:"from_date"`
	ToDate   *string `mapstructure:"to_date"`
	Search   *string `mapstructure:"search"`
	Limit    *int    `mapstructure:"limit"`
	Page     *int    `mapstructure:"page"`
}

func listShipments(ctx context.Context, c *chitchats.Client, params map[string]any) (string, error) {
	var p listShipmentsParams
	if err := decodeParams(params, &p); err != nil {
		return "", err
	}

	q := url.Values{}
	setString(q, "status", p.Status)
	setInt(q, "batch_id", p.BatchID)
	setString(q, "from_date", p.FromDate)
	setString(q, "to_date", p.ToDate)
	setString(q, "search", p.Search)
	setInt(q, "limit", p.Limit)
	setInt(q, "page", p.Page)

	var shipments []chitchats.Shipment
	res := c.Do(ctx, http.MethodGet, withQuery("/shipments", q), nil, &shipments)
	if !res.OK() {
		return remoteFailureText(res), nil
	}
	if len(shipments) == 0 {
		return "No shipments found.", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d shipment(s) (page %d):\n", len(shipments), pageOrDefault(p.Page))
	for i := range shipments {
		b.WriteString("\n")
		b.WriteString(formatShipment(&shipments[i]))
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

type countShipmentsParams struct {
	Status   *string `mapstructure:"status"`
	FromDate *string `mapstructure:"from_date"`
	ToDate   *string `mapstructure:"to_date"`
	Search   *string `mapstructure:"search"`
}

func countShipments(ctx context.Context, c *chitchats.Client, params map[string]any) (string, error) {
	var p countShipmentsParams
	if err := decodeParams(params, &p); err != nil {
		return "", err
	}

	q := url.Values{}
	setString(q, "status", p.Status)
	setString(q, "from_date", p.FromDate)
	setString(q, "to_date", p.ToDate)
	setString(q, "search", p.Search)

	var out struct {
		Count int `json:"count"`
	}
	res := c.Do(ctx, http.MethodGet, withQuery("/shipments/count", q), nil, &out)
	if !res.OK() {
		return remoteFailureText(res), nil
	}
	return fmt.Sprintf("Shipment count: %d", out.Count), nil
}

type shipmentIDParams struct {
	ShipmentID string `mapstructure:"shipment_id"`
}

func getShipment(ctx context.Context, c *chitchats.Client, params map[string]any) (string, error) {
	var p shipmentIDParams
	if err := decodeParams(params, &p); err != nil {
		return "", err
	}

	var out struct {
		Shipment *chitchats.Shipment `json:"shipment"`
	}
	res := c.Do(ctx, http.MethodGet, "/shipments/"+url.PathEscape(p.ShipmentID), nil, &out)
	if !res.OK() {
		return remoteFailureText(res), nil
	}
	if out.Shipment == nil {
		return "No shipment data returned.", nil
	}
	return strings.TrimRight(formatShipment(out.Shipment), "\n"), nil
}

func createShipment(ctx context.Context, c *chitchats.Client, params map[string]any) (string, error) {
	// The validated map holds exactly the declared fields the caller sent,
	// so it doubles as the outgoing request body: absent stays absent.
	var out struct {
		Shipment *chitchats.Shipment `json:"shipment"`
	}
	res := c.Do(ctx, http.MethodPost, "/shipments", params, &out)
	if !res.OK() {
		return remoteFailureText(res), nil
	}
	if out.Shipment == nil {
		return "Shipment created but no data returned.", nil
	}
	return "Shipment created.\n\n" + strings.TrimRight(formatShipment(out.Shipment), "\n"), nil
}

func buyShipment(ctx context.Context, c *chitchats.Client, params map[string]any) (string, error) {
	var p shipmentIDParams
	if err := decodeParams(params, &p); err != nil {
		return "", err
	}

	var out struct {
		Shipment *chitchats.Shipment `json:"shipment"`
	}
	res := c.Do(ctx, http.MethodPatch, "/shipments/"+url.PathEscape(p.ShipmentID)+"/buy", nil, &out)
	if !res.OK() {
		return remoteFailureText(res), nil
	}
	if out.Shipment != nil {
		return "Postage purchased.\n\n" + strings.TrimRight(formatShipment(out.Shipment), "\n"), nil
	}
	return fmt.Sprintf("Postage purchase requested for shipment %s.", p.ShipmentID), nil
}

func refundShipment(ctx context.Context, c *chitchats.Client, params map[string]any) (string, error) {
	var p shipmentIDParams
	if err := decodeParams(params, &p); err != nil {
		return "", err
	}

	res := c.Do(ctx, http.MethodPatch, "/shipments/"+url.PathEscape(p.ShipmentID)+"/refund", nil, nil)
	if !res.OK() {
		return remoteFailureText(res), nil
	}
	return fmt.Sprintf("Refund requested for shipment %s.", p.ShipmentID), nil
}

func deleteShipment(ctx context.Context, c *chitchats.Client, params map[string]any) (string, error) {
	var p shipmentIDParams
	if err := decodeParams(params, &p); err != nil {
		return "", err
	}

	res := c.Do(ctx, http.MethodDelete, "/shipments/"+url.PathEscape(p.ShipmentID), nil, nil)
	if !res.OK() {
		return remoteFailureText(res), nil
	}
	return fmt.Sprintf("Shipment %s deleted.", p.ShipmentID), nil
}

type addToBatchParams struct {
	BatchID     int      `mapstructure:"batch_id"`
	ShipmentIDs []string `mapstructure:"shipment_ids"`
}

func addShipmentsToBatch(ctx context.Context, c *chitchats.Client, params map[string]any) (string, error) {
	var p addToBatchParams
	if err := decodeParams(params, &p); err != nil {
		return "", err
	}

	body := map[string]any{
		"batch_id":     p.BatchID,
		"shipment_ids": p.ShipmentIDs,
	}
	res := c.Do(ctx, http.MethodPatch, "/shipments/add_to_batch", body, nil)
	if !res.OK() {
		return remoteFailureText(res), nil
	}
	return fmt.Sprintf("Added %d shipment(s) to batch %d.", len(p.ShipmentIDs), p.BatchID), nil
}

type removeFromBatchParams struct {
	ShipmentIDs []string `mapstructure:"shipment_ids"`
}

func removeShipmentsFromBatch(ctx context.Context, c *chitchats.Client, params map[string]any) (string, error) {
	var p removeFromBatchParams
	if err := decodeParams(params, &p); err != nil {
		return "", err
	}

	body := map[string]any{
		"shipment_ids": p.ShipmentIDs,
	}
	res := c.Do(ctx, http.MethodPatch, "/shipments/remove_from_batch", body, nil)
	if !res.OK() {
		return remoteFailureText(res), nil
	}
	return fmt.Sprintf("Removed %d shipment(s) from their batch.", len(p.ShipmentIDs)), nil
}

func formatShipment(s *chitchats.Shipment) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Shipment %s\n", s.ID)
	kv(&b, "Status", s.Status)
	if s.BatchID != nil {
		kv(&b, "Batch", strconv.Itoa(*s.BatchID))
	}
	kv(&b, "Recipient", s.Name)
	kv(&b, "Address", shipmentAddress(s))
	kv(&b, "Phone", s.Phone)
	kv(&b, "Email", s.Email)
	kv(&b, "Description", s.Description)
	kv(&b, "Value", money(s.Value, s.ValueCurrency))
	kv(&b, "Contents", s.PackageContents)
	kv(&b, "Package", s.PackageType)
	kv(&b, "Size", shipmentSize(s))
	kv(&b, "Weight", shipmentWeight(s.Weight, s.WeightUnit))
	kv(&b, "Postage", postageLine(s))
	kv(&b, "Cost", s.PurchaseAmount)
	kv(&b, "Carrier", s.Carrier)
	kv(&b, "Tracking", s.CarrierTrackingCode)
	kv(&b, "Tracking URL", s.TrackingURL)
	kv(&b, "Ship date", s.ShipDate)
	kv(&b, "Order", s.OrderID)
	kv(&b, "Notes", s.Notes)
	kv(&b, "Created", s.CreatedAt)
	return b.String()
}

func shipmentAddress(s *chitchats.Shipment) string {
	var parts []string
	if s.Address1 != "" {
		parts = append(parts, s.Address1)
	}
	if s.Address2 != "" {
		parts = append(parts, s.Address2)
	}
	var locality []string
	for _, piece := range []string{s.City, s.ProvinceCode, s.PostalCode} {
		if piece != "" {
			locality = append(locality, piece)
		}
	}
	if len(locality) > 0 {
		parts = append(parts, strings.Join(locality, " "))
	}
	if s.CountryCode != "" {
		parts = append(parts, s.CountryCode)
	}
	return strings.Join(parts, ", ")
}

func shipmentSize(s *chitchats.Shipment) string {
	if s.SizeX == 0 && s.SizeY == 0 && s.SizeZ == 0 {
		return ""
	}
	dims := fmt.Sprintf("%s x %s x %s", trimFloat(s.SizeX), trimFloat(s.SizeY), trimFloat(s.SizeZ))
	if s.SizeUnit != "" {
		dims += " " + s.SizeUnit
	}
	return dims
}

func shipmentWeight(weight float64, unit string) string {
	if weight == 0 {
		return ""
	}
	out := trimFloat(weight)
	if unit != "" {
		out += " " + unit
	}
	return out
}

func postageLine(s *chitchats.Shipment) string {
	if s.PostageDescription != "" {
		return s.PostageDescription
	}
	return s.PostageType
}

func money(value, currency string) string {
	if value == "" {
		return ""
	}
	if currency == "" {
		return value
	}
	return value + " " + strings.ToUpper(currency)
}

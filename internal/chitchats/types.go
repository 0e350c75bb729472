package chitchats

// Shipment is a Chit Chats shipment as the API returns it. Fields the API
// omits decode to zero values; formatters skip empties. Dates and money
// amounts stay strings and pass through untouched.
type Shipment struct {
	ID                  string  `json:"id"`
	Status              string  `json:"status"`
	BatchID             *int    `json:"batch_id"`
	Name                string  `json:"name"`
	Address1            string  `json:"address_1"`
	Address2            string  `json:"address_2"`
	City                string  `json:"city"`
	ProvinceCode        string  `json:"province_code"`
	PostalCode          string  `json:"postal_code"`
	CountryCode         string  `json:"country_code"`
	Phone               string  `json:"phone"`
	Email               string  `json:"email"`
	Description         string  `json:"description"`
	Value               string  `json:"value"`
	ValueCurrency       string  `json:"value_currency"`
	PackageContents     string  `json:"package_contents"`
	PackageType         string  `json:"package_type"`
	SizeUnit            string  `json:"size_unit"`
	SizeX               float64 `json:"size_x"`
	SizeY               float64 `json:"size_y"`
	SizeZ               float64 `json:"size_z"`
	WeightUnit          string  `json:"weight_unit"`
	Weight              float64 `json:"weight"`
	PostageType         string  `json:"postage_type"`
	PostageDescription  string  `json:"postage_description"`
	PurchaseAmount      string  `json:"purchase_amount"`
	Carrier             string  `json:"carrier"`
	CarrierTrackingCode string  `json:"carrier_tracking_code"`
	TrackingURL         string  `json:"tracking_url"`
	ShipDate            string  `json:"ship_date"`
	OrderID             string  `json:"order_id"`
	Notes               string  `json:"notes"`
	CreatedAt           string  `json:"created_at"`
}

// Batch groups shipments for a single drop-off event.
type Batch struct {
	ID            int    `json:"id"`
	Status        string `json:"status"`
	ShipmentCount int    `json:"shipment_count"`
	CreatedAt     string `json:"created_at"`
}

// Return is an inbound return processed through a Chit Chats return
// address.
type Return struct {
	ID                  int    `json:"id"`
	Status              string `json:"status"`
	Name                string `json:"name"`
	CarrierTrackingCode string `json:"carrier_tracking_code"`
	ShipmentID          string `json:"shipment_id"`
	CreatedAt           string `json:"created_at"`
}

// Tracking is the public tracking view of a shipment, available without
// credentials.
type Tracking struct {
	Status              string          `json:"status"`
	Carrier             string          `json:"carrier"`
	CarrierTrackingCode string          `json:"carrier_tracking_code"`
	Events              []TrackingEvent `json:"events"`
}

// TrackingEvent is one scan in a shipment's tracking history.
type TrackingEvent struct {
	Description string `json:"description"`
	Location    string `json:"location"`
	HappenedAt  string `json:"happened_at"`
}

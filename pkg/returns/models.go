// Package returns implements the DHL return shipment label pipeline:
// submitted return requests are mapped to web service bookings and the
// results back to label or error responses, batched per store.
package returns

// WeightUnit is the unit a package or item weight was recorded in.
type WeightUnit string

const (
	WeightKG WeightUnit = "kg"
	WeightLB WeightUnit = "lb"
)

// Address represents a postal address on a return shipment request.
type Address struct {
	Name            string
	Company         string
	Street          string
	StreetNumber    string
	AddressAddition string
	City            string
	State           string
	PostalCode      string
	CountryCode     string // ISO 3166-1 alpha-2, e.g. "DE", "CH"
	Email           string
	Phone           string
}

// Item is one return line item.
type Item struct {
	OrderItemID       string
	ProductID         string
	SKU               string
	Name              string
	Qty               float64
	Weight            float64 // in the request's WeightUnit
	Price             float64
	CustomsValue      float64
	ExportDescription string
	CountryOfOrigin   string
	HSCode            string
}

// OrderShipment identifies one of the order's original outbound shipments
// and the order items it contained.
type OrderShipment struct {
	IncrementID  string
	OrderItemIDs []string
}

// Request is one customer's return shipment request, possibly spanning
// items from multiple original shipments. It is built once per return
// submission and not modified afterwards.
type Request struct {
	// PackageID is the request index correlating this request to its
	// outcome within a batch.
	PackageID string

	StoreID  string
	IsReturn bool

	OrderIncrementID string
	RMAIncrementID   string
	ShippingMethod   string // carrier_method code of the original order
	Currency         string

	Shipper  Address // consumer sending the return
	Receiver Address // merchant return address

	Items []Item

	PackageWeight float64
	WeightUnit    WeightUnit
	CustomsValue  float64 // package-level declared value for non-EU returns

	Shipments []OrderShipment
}

// LabelResponse is the final success artifact for one request index.
type LabelResponse struct {
	RequestIndex   string
	TrackingNumber string
	LabelContent   []byte // combined document: label, QR code, or both
	LabelData      []byte // raw shipping label
	QRLabelData    []byte // raw QR code document
}

// ErrorResponse is the final failure artifact for one request index.
type ErrorResponse struct {
	RequestIndex      string
	Message           string
	ShipmentReference string // originating order/shipment number for correlation
}

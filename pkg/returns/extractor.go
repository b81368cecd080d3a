package returns

import (
	"strings"
)

// Billing procedure codes distinguishing national from international
// return shipments.
const (
	ProcedureReturnNational      = "07"
	ProcedureReturnInternational = "53"
)

// AccountConfig provides per-store merchant account settings.
type AccountConfig interface {
	// EKP returns the merchant's standardized customer number.
	EKP(storeID string) string

	// Participations maps procedure codes to participation numbers.
	Participations(storeID string) map[string]string

	// ReceiverIDs maps shipper country codes to configured receiver ids.
	ReceiverIDs(storeID string) map[string]string

	// EUCountries returns the country codes treated as EU shipping origins.
	EUCountries(storeID string) []string

	// CarrierTitle resolves a carrier code to its display title,
	// empty if unconfigured.
	CarrierTitle(storeID, carrierCode string) string

	// DefaultItemWeight is the fallback weight for items captured
	// without one, in the request's weight unit.
	DefaultItemWeight(storeID string) float64
}

// RequestExtractor presents one return shipment request through typed
// accessors with derived values computed once at construction. Accessors
// never fail; absent data degrades to zero values and is caught by the
// request builder's validation further down the line.
type RequestExtractor struct {
	request   *Request
	config    AccountConfig
	converter UnitConverter

	items []Item
}

// NewRequestExtractor creates an extractor for one return shipment request.
func NewRequestExtractor(request *Request, config AccountConfig, converter UnitConverter) *RequestExtractor {
	items := make([]Item, len(request.Items))
	copy(items, request.Items)

	defaultWeight := config.DefaultItemWeight(request.StoreID)
	for i := range items {
		if items[i].Weight == 0 {
			items[i].Weight = defaultWeight
		}
	}

	return &RequestExtractor{
		request:   request,
		config:    config,
		converter: converter,
		items:     items,
	}
}

// StoreID returns the store the order was placed in.
func (e *RequestExtractor) StoreID() string {
	return e.request.StoreID
}

// BillingNumber concatenates EKP, procedure code, and the participation
// number configured for that procedure. A missing participation yields an
// empty suffix, not an error.
func (e *RequestExtractor) BillingNumber() string {
	procedure := ProcedureReturnNational
	if e.request.Shipper.CountryCode != e.request.Receiver.CountryCode {
		procedure = ProcedureReturnInternational
	}

	storeID := e.request.StoreID
	participation := e.config.Participations(storeID)[procedure]

	return e.config.EKP(storeID) + procedure + participation
}

// ReceiverID looks up the merchant receiver id for the shipper country.
// An empty result means the account is not configured for this country.
func (e *RequestExtractor) ReceiverID() string {
	return e.config.ReceiverIDs(e.request.StoreID)[e.request.Shipper.CountryCode]
}

// ReferenceNumber returns the RMA increment id if present, the order
// increment id otherwise.
func (e *RequestExtractor) ReferenceNumber() string {
	if e.request.RMAIncrementID != "" {
		return e.request.RMAIncrementID
	}

	return e.request.OrderIncrementID
}

// Shipper returns the consumer address the return is shipped from.
func (e *RequestExtractor) Shipper() Address {
	return e.request.Shipper
}

// ContactEmail returns the consumer email address.
func (e *RequestExtractor) ContactEmail() string {
	return e.request.Shipper.Email
}

// ContactPhoneNumber returns the consumer phone number.
func (e *RequestExtractor) ContactPhoneNumber() string {
	return e.request.Shipper.Phone
}

// PackageItems returns the return line items with the configured default
// weight applied to items captured without one.
func (e *RequestExtractor) PackageItems() []Item {
	return e.items
}

// PackageAmount returns the declared package value: the item total for EU
// shipping, the package customs value otherwise.
func (e *RequestExtractor) PackageAmount() float64 {
	if !e.IsEUShipping() {
		return e.request.CustomsValue
	}

	var total float64
	for _, item := range e.items {
		total += item.Qty * item.Price
	}

	return total
}

// PackageWeight returns the package weight in grams.
func (e *RequestExtractor) PackageWeight() float64 {
	return e.converter.ConvertToGrams(e.request.PackageWeight, e.request.WeightUnit)
}

// ItemWeight returns one item's weight in grams.
func (e *RequestExtractor) ItemWeight(item Item) float64 {
	return e.converter.ConvertToGrams(item.Weight, e.request.WeightUnit)
}

// OriginalShipmentNumbers returns the increment ids of the outbound
// shipments that contained the returned items.
func (e *RequestExtractor) OriginalShipmentNumbers() []string {
	returned := make(map[string]struct{}, len(e.items))
	for _, item := range e.items {
		returned[item.OrderItemID] = struct{}{}
	}

	var numbers []string
	for _, shipment := range e.request.Shipments {
		for _, orderItemID := range shipment.OrderItemIDs {
			if _, ok := returned[orderItemID]; ok {
				numbers = append(numbers, shipment.IncrementID)
				break
			}
		}
	}

	return numbers
}

// OriginalCarrier returns the carrier title of the original order,
// falling back to the carrier code.
func (e *RequestExtractor) OriginalCarrier() string {
	carrierCode, _, _ := strings.Cut(e.request.ShippingMethod, "_")

	if title := e.config.CarrierTitle(e.request.StoreID, carrierCode); title != "" {
		return title
	}

	return carrierCode
}

// IsEUShipping reports whether the return is shipped from an EU country.
func (e *RequestExtractor) IsEUShipping() bool {
	for _, country := range e.config.EUCountries(e.request.StoreID) {
		if country == e.request.Shipper.CountryCode {
			return true
		}
	}

	return false
}

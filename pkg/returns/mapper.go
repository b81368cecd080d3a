package returns

import (
	"fmt"
	"strings"

	"github.com/parcelbridge/retoure/pkg/returns/dhl"
)

// RequestDataMapper builds one web service return order per return
// shipment request.
type RequestDataMapper struct {
	config    AccountConfig
	converter UnitConverter
}

// NewRequestDataMapper creates a request data mapper.
func NewRequestDataMapper(config AccountConfig, converter UnitConverter) *RequestDataMapper {
	return &RequestDataMapper{
		config:    config,
		converter: converter,
	}
}

// Map converts a return shipment request into a DHL return order.
// Invalid or incomplete request data yields a ReturnShipmentError;
// web service types never escape this boundary as errors.
func (m *RequestDataMapper) Map(request *Request) (*dhl.ReturnOrder, error) {
	extractor := NewRequestExtractor(request, m.config, m.converter)
	builder := dhl.NewReturnOrderBuilder()

	builder.SetAccountDetails(extractor.ReceiverID(), extractor.BillingNumber())
	builder.SetShipmentReference(extractor.ReferenceNumber())

	shipper := extractor.Shipper()
	builder.SetShipperAddress(
		shipper.Name,
		shipper.CountryCode,
		shipper.PostalCode,
		shipper.City,
		shipper.Street,
		shipper.StreetNumber,
		shipper.Company,
		shipper.State,
	)
	builder.SetShipperContact(extractor.ContactEmail(), extractor.ContactPhoneNumber())
	builder.SetPackageDetails(int(extractor.PackageWeight()), extractor.PackageAmount())

	if !extractor.IsEUShipping() {
		builder.SetCustomsDetails(
			request.Currency,
			strings.Join(extractor.OriginalShipmentNumbers(), ", "),
			extractor.OriginalCarrier(),
		)

		for _, item := range extractor.PackageItems() {
			description := item.ExportDescription
			if description == "" {
				description = item.Name
			}

			builder.AddCustomsItem(
				int(item.Qty),
				description,
				item.Price,
				int(extractor.ItemWeight(item)),
				item.SKU,
				item.CountryOfOrigin,
				item.HSCode,
			)
		}
	}

	order, err := builder.Create()
	if err != nil {
		message := fmt.Sprintf("Return shipment request could not be created: %s", err)
		return nil, NewReturnShipmentError(message, err)
	}

	return order, nil
}

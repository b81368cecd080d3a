package dhl

import (
	"fmt"
	"strings"
)

// RequestValidationError indicates that the assembled return order data
// does not satisfy the web service contract.
type RequestValidationError struct {
	Fields []string
}

func (e *RequestValidationError) Error() string {
	return "invalid return order: missing " + strings.Join(e.Fields, ", ")
}

// ReturnOrderBuilder assembles a ReturnOrder from individual data points
// and validates mandatory fields on Create.
type ReturnOrderBuilder struct {
	order ReturnOrder
}

// NewReturnOrderBuilder creates a builder with the document type
// preset to request both a shipping label and a QR code.
func NewReturnOrderBuilder() *ReturnOrderBuilder {
	return &ReturnOrderBuilder{
		order: ReturnOrder{ReturnDocumentType: DocumentTypeBoth},
	}
}

// SetAccountDetails sets the merchant receiver id and billing number.
func (b *ReturnOrderBuilder) SetAccountDetails(receiverID, billingNumber string) *ReturnOrderBuilder {
	b.order.ReceiverID = receiverID
	b.order.CustomerReference = billingNumber
	return b
}

// SetShipmentReference sets the merchant-side reference (RMA or order number).
func (b *ReturnOrderBuilder) SetShipmentReference(reference string) *ReturnOrderBuilder {
	b.order.ShipmentReference = reference
	return b
}

// SetDocumentType overrides the requested return document type.
func (b *ReturnOrderBuilder) SetDocumentType(documentType string) *ReturnOrderBuilder {
	b.order.ReturnDocumentType = documentType
	return b
}

// SetShipperAddress sets the consumer address the return is sent from.
func (b *ReturnOrderBuilder) SetShipperAddress(
	name string,
	countryCode string,
	postalCode string,
	city string,
	streetName string,
	streetNumber string,
	company string,
	state string,
) *ReturnOrderBuilder {
	b.order.SenderAddress = SenderAddress{
		Name1:       name,
		Name2:       company,
		StreetName:  streetName,
		HouseNumber: streetNumber,
		PostCode:    postalCode,
		City:        city,
		State:       state,
		Country:     Country{CountryISOCode: countryCode},
	}
	return b
}

// SetShipperContact sets the consumer contact data.
func (b *ReturnOrderBuilder) SetShipperContact(email, phoneNumber string) *ReturnOrderBuilder {
	b.order.Email = email
	b.order.TelephoneNumber = phoneNumber
	return b
}

// SetPackageDetails sets package weight (grams) and declared value.
func (b *ReturnOrderBuilder) SetPackageDetails(weightInGrams int, amount float64) *ReturnOrderBuilder {
	b.order.WeightInGrams = weightInGrams
	b.order.Value = amount
	return b
}

// SetCustomsDetails sets the customs document header for non-EU returns.
func (b *ReturnOrderBuilder) SetCustomsDetails(currency, originalShipmentNumber, originalOperator string) *ReturnOrderBuilder {
	if b.order.CustomsDocument == nil {
		b.order.CustomsDocument = &CustomsDocument{}
	}
	b.order.CustomsDocument.Currency = currency
	b.order.CustomsDocument.OriginalShipmentNumber = originalShipmentNumber
	b.order.CustomsDocument.OriginalOperator = originalOperator
	return b
}

// AddCustomsItem appends one declared item to the customs document.
func (b *ReturnOrderBuilder) AddCustomsItem(
	qty int,
	description string,
	value float64,
	weightInGrams int,
	sku string,
	countryOfOrigin string,
	hsCode string,
) *ReturnOrderBuilder {
	if b.order.CustomsDocument == nil {
		b.order.CustomsDocument = &CustomsDocument{}
	}
	position := CustomsPosition{
		PositionNumber:   len(b.order.CustomsDocument.Positions) + 1,
		Count:            qty,
		Description:      description,
		Value:            value,
		WeightInGrams:    weightInGrams,
		ArticleReference: sku,
		OriginCountry:    countryOfOrigin,
		TariffNumber:     hsCode,
	}
	b.order.CustomsDocument.Positions = append(b.order.CustomsDocument.Positions, position)
	return b
}

// Create validates the assembled data and returns the finished request.
// The builder keeps its state, so a failed Create can be corrected and
// retried.
func (b *ReturnOrderBuilder) Create() (*ReturnOrder, error) {
	var missing []string

	if b.order.ReceiverID == "" {
		missing = append(missing, "receiver id")
	}
	if b.order.SenderAddress.Name1 == "" {
		missing = append(missing, "shipper name")
	}
	if b.order.SenderAddress.StreetName == "" {
		missing = append(missing, "shipper street")
	}
	if b.order.SenderAddress.PostCode == "" {
		missing = append(missing, "shipper postal code")
	}
	if b.order.SenderAddress.City == "" {
		missing = append(missing, "shipper city")
	}
	if b.order.SenderAddress.Country.CountryISOCode == "" {
		missing = append(missing, "shipper country")
	}
	if b.order.WeightInGrams <= 0 {
		missing = append(missing, "package weight")
	}

	if len(missing) > 0 {
		return nil, &RequestValidationError{Fields: missing}
	}

	if b.order.CustomsDocument != nil {
		for i, position := range b.order.CustomsDocument.Positions {
			if position.Description == "" {
				return nil, &RequestValidationError{
					Fields: []string{fmt.Sprintf("description of customs item %d", i+1)},
				}
			}
		}
	}

	order := b.order
	if order.CustomsDocument != nil {
		document := *order.CustomsDocument
		document.Positions = append([]CustomsPosition(nil), b.order.CustomsDocument.Positions...)
		order.CustomsDocument = &document
	}

	return &order, nil
}

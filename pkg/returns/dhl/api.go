// Package dhl provides the client for the DHL Paket Retoure web service
// used to book return shipment labels.
package dhl

import (
	"context"
	"errors"
	"fmt"
)

// APIClient defines the interface for DHL Retoure API operations.
// This abstraction allows for mock implementations during testing
// and real implementations in production.
type APIClient interface {
	// CreateReturnOrder books a return label for the given return order.
	CreateReturnOrder(ctx context.Context, order *ReturnOrder) (*Confirmation, error)
}

// ============================================================================
// API Request/Response Types (match DHL Retoure REST API structure)
// ============================================================================

// Return document types accepted by the web service.
const (
	DocumentTypePDF  = "SHIPMENT_LABEL"
	DocumentTypeQR   = "QR_LABEL"
	DocumentTypeBoth = "BOTH"
)

// ReturnOrder represents a return label booking request.
// POST /returns/ endpoint
type ReturnOrder struct {
	ReceiverID         string           `json:"receiverId"`
	CustomerReference  string           `json:"customerReference,omitempty"` // billing number (EKP + procedure + participation)
	ShipmentReference  string           `json:"shipmentReference,omitempty"` // RMA or order increment id
	ReturnDocumentType string           `json:"returnDocumentType"`
	Email              string           `json:"email,omitempty"`
	TelephoneNumber    string           `json:"telephoneNumber,omitempty"`
	WeightInGrams      int              `json:"weightInGrams,omitempty"`
	Value              float64          `json:"value,omitempty"`
	SenderAddress      SenderAddress    `json:"senderAddress"`
	CustomsDocument    *CustomsDocument `json:"customsDocument,omitempty"`
}

// SenderAddress is the consumer address the return is shipped from.
type SenderAddress struct {
	Name1       string  `json:"name1"`
	Name2       string  `json:"name2,omitempty"`
	StreetName  string  `json:"streetName"`
	HouseNumber string  `json:"houseNumber,omitempty"`
	PostCode    string  `json:"postCode"`
	City        string  `json:"city"`
	State       string  `json:"state,omitempty"`
	Country     Country `json:"country"`
}

// Country wraps the ISO country code of an address.
type Country struct {
	CountryISOCode string `json:"countryISOCode"`
}

// CustomsDocument carries the customs declaration for non-EU returns.
type CustomsDocument struct {
	Currency               string            `json:"currency"`
	OriginalShipmentNumber string            `json:"originalShipmentNumber,omitempty"`
	OriginalOperator       string            `json:"originalOperator,omitempty"`
	Positions              []CustomsPosition `json:"positions"`
}

// CustomsPosition is one declared line item of a customs document.
type CustomsPosition struct {
	PositionNumber   int     `json:"positionNumber"`
	Count            int     `json:"count"`
	Description      string  `json:"description"`
	Value            float64 `json:"value"`
	WeightInGrams    int     `json:"weightInGrams"`
	ArticleReference string  `json:"articleReference,omitempty"`
	OriginCountry    string  `json:"originCountry,omitempty"`
	TariffNumber     string  `json:"tariffNumber,omitempty"`
}

// Confirmation is the successful response to a return order booking.
type Confirmation struct {
	ShipmentNumber string `json:"shipmentNumber"`
	LabelData      string `json:"labelData,omitempty"`   // base64 encoded PDF
	QRLabelData    string `json:"qrLabelData,omitempty"` // base64 encoded PDF
	RoutingCode    string `json:"routingCode,omitempty"`
}

// APIError represents an error returned by the DHL Retoure API.
// Detail is only populated when the web service reported a specific
// problem with the request; transport failures and unparseable
// responses leave it empty.
type APIError struct {
	StatusCode int
	Title      string
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("dhl retoure error (%d): %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("dhl retoure error (%d): %s", e.StatusCode, e.Title)
}

// ErrMissingCredentials indicates that no API credentials are configured
// for the requested store.
var ErrMissingCredentials = errors.New("missing api credentials")

package returns

import (
	"github.com/parcelbridge/retoure/pkg/returns/dhl"
)

// BookingError is an error recorded for one request index during
// pipeline execution, before it is turned into an ErrorResponse.
type BookingError struct {
	Message           string
	ShipmentReference string
}

// ArtifactsContainer accumulates the state of one pipeline run: mapped
// requests, raw confirmations, errors, and final responses, all keyed by
// request index. A container is exclusively owned by a single run and is
// not safe for concurrent use.
type ArtifactsContainer struct {
	storeID string

	errors         map[string]BookingError
	apiRequests    map[string]*dhl.ReturnOrder
	apiResponses   map[string]*dhl.Confirmation
	labelResponses map[string]*LabelResponse
	errorResponses map[string]*ErrorResponse
}

// NewArtifactsContainer creates an empty container for one store's run.
func NewArtifactsContainer(storeID string) *ArtifactsContainer {
	return &ArtifactsContainer{
		storeID:        storeID,
		errors:         make(map[string]BookingError),
		apiRequests:    make(map[string]*dhl.ReturnOrder),
		apiResponses:   make(map[string]*dhl.Confirmation),
		labelResponses: make(map[string]*LabelResponse),
		errorResponses: make(map[string]*ErrorResponse),
	}
}

// StoreID returns the store the pipeline runs for.
func (c *ArtifactsContainer) StoreID() string {
	return c.storeID
}

// AddError records an error message for a request that did not get a
// response from the web service.
func (c *ArtifactsContainer) AddError(requestIndex, shipmentReference, message string) {
	c.errors[requestIndex] = BookingError{
		Message:           message,
		ShipmentReference: shipmentReference,
	}
}

// AddAPIRequest stores a mapped request object, ready for the web
// service call.
func (c *ArtifactsContainer) AddAPIRequest(requestIndex string, order *dhl.ReturnOrder) {
	c.apiRequests[requestIndex] = order
}

// AddAPIResponse stores a received confirmation.
func (c *ArtifactsContainer) AddAPIResponse(requestIndex string, confirmation *dhl.Confirmation) {
	c.apiResponses[requestIndex] = confirmation
}

// AddLabelResponse stores a final label response.
func (c *ArtifactsContainer) AddLabelResponse(requestIndex string, response *LabelResponse) {
	c.labelResponses[requestIndex] = response
}

// AddErrorResponse stores a final error response.
func (c *ArtifactsContainer) AddErrorResponse(requestIndex string, response *ErrorResponse) {
	c.errorResponses[requestIndex] = response
}

// Errors returns the recorded error messages keyed by request index.
func (c *ArtifactsContainer) Errors() map[string]BookingError {
	return c.errors
}

// APIRequests returns the mapped request objects keyed by request index.
func (c *ArtifactsContainer) APIRequests() map[string]*dhl.ReturnOrder {
	return c.apiRequests
}

// APIResponses returns the received confirmations keyed by request index.
func (c *ArtifactsContainer) APIResponses() map[string]*dhl.Confirmation {
	return c.apiResponses
}

// LabelResponses returns the final label responses keyed by request index.
func (c *ArtifactsContainer) LabelResponses() map[string]*LabelResponse {
	return c.labelResponses
}

// ErrorResponses returns the final error responses keyed by request index.
func (c *ArtifactsContainer) ErrorResponses() map[string]*ErrorResponse {
	return c.errorResponses
}

package returns

import (
	"context"
	"errors"
	"fmt"

	"github.com/parcelbridge/retoure/pkg/returns/dhl"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// User-facing pipeline error messages.
const (
	msgOnlyReturnShipments  = "Only return shipments are supported."
	msgWebserviceFailed     = "Web service request failed."
	msgLabelCreationFailure = "Label could not be created: %s"
)

// LabelService books return labels for one store's account.
type LabelService interface {
	BookLabel(ctx context.Context, order *dhl.ReturnOrder) (*dhl.Confirmation, error)
}

// LabelServiceFactory creates the booking service for a store, resolving
// the store's credentials at call time.
type LabelServiceFactory func(storeID string) (LabelService, error)

// Stage is one step of the label creation pipeline. A stage resolves
// requests terminally by recording them in the artifacts container and
// returns the surviving working set; it never grows the working set.
type Stage interface {
	Execute(ctx context.Context, requests []*Request, artifacts *ArtifactsContainer) []*Request
}

// ValidateStage keeps only requests flagged as return shipments.
// Anything else is resolved as an immediate label failure.
type ValidateStage struct{}

// Execute filters the working set down to valid return shipment requests.
func (s *ValidateStage) Execute(_ context.Context, requests []*Request, artifacts *ArtifactsContainer) []*Request {
	valid := make([]*Request, 0, len(requests))

	for _, request := range requests {
		if request.IsReturn {
			valid = append(valid, request)
			continue
		}

		artifacts.AddError(request.PackageID, request.OrderIncrementID, msgOnlyReturnShipments)
	}

	return valid
}

// MapRequestStage transforms return shipment requests into request
// objects suitable for the label web service.
type MapRequestStage struct {
	mapper *RequestDataMapper
}

// NewMapRequestStage creates the request mapping stage.
func NewMapRequestStage(mapper *RequestDataMapper) *MapRequestStage {
	return &MapRequestStage{mapper: mapper}
}

// Execute maps each surviving request; mapping failures resolve the
// request with the mapper's user-facing message.
func (s *MapRequestStage) Execute(_ context.Context, requests []*Request, artifacts *ArtifactsContainer) []*Request {
	mapped := make([]*Request, 0, len(requests))

	for _, request := range requests {
		order, err := s.mapper.Map(request)
		if err != nil {
			artifacts.AddError(request.PackageID, request.OrderIncrementID, err.Error())
			continue
		}

		artifacts.AddAPIRequest(request.PackageID, order)
		mapped = append(mapped, request)
	}

	return mapped
}

// SendRequestStage sends the mapped request objects to the web service.
type SendRequestStage struct {
	serviceFactory LabelServiceFactory
	logger         *otelzap.Logger
}

// NewSendRequestStage creates the booking stage.
func NewSendRequestStage(serviceFactory LabelServiceFactory, logger *otelzap.Logger) *SendRequestStage {
	return &SendRequestStage{
		serviceFactory: serviceFactory,
		logger:         logger,
	}
}

// Execute books each mapped request. A detailed web service error is
// surfaced verbatim; any other failure collapses to a generic message so
// transport details do not leak to the customer.
func (s *SendRequestStage) Execute(ctx context.Context, requests []*Request, artifacts *ArtifactsContainer) []*Request {
	apiRequests := artifacts.APIRequests()
	if len(apiRequests) == 0 {
		return requests
	}

	service, err := s.serviceFactory(artifacts.StoreID())
	if err != nil {
		s.logger.Error("Label service unavailable",
			zap.String("store_id", artifacts.StoreID()),
			zap.Error(err),
		)
		for _, request := range requests {
			artifacts.AddError(request.PackageID, request.OrderIncrementID, msgWebserviceFailed)
		}
		return nil
	}

	booked := make([]*Request, 0, len(requests))

	for _, request := range requests {
		order, ok := apiRequests[request.PackageID]
		if !ok {
			artifacts.AddError(request.PackageID, request.OrderIncrementID, msgWebserviceFailed)
			continue
		}

		confirmation, err := service.BookLabel(ctx, order)
		if err != nil {
			var apiErr *dhl.APIError
			if errors.As(err, &apiErr) && apiErr.Detail != "" {
				artifacts.AddError(request.PackageID, request.OrderIncrementID, apiErr.Detail)
			} else {
				artifacts.AddError(request.PackageID, request.OrderIncrementID, msgWebserviceFailed)
			}
			continue
		}

		artifacts.AddAPIResponse(request.PackageID, confirmation)
		booked = append(booked, request)
	}

	return booked
}

// MapResponseStage transforms the collected errors and confirmations
// into final response objects. It is terminal and never filters.
type MapResponseStage struct {
	mapper *ResponseDataMapper
}

// NewMapResponseStage creates the response mapping stage.
func NewMapResponseStage(mapper *ResponseDataMapper) *MapResponseStage {
	return &MapResponseStage{mapper: mapper}
}

// Execute converts every recorded error into an error response and
// every confirmation into a label response.
func (s *MapResponseStage) Execute(_ context.Context, requests []*Request, artifacts *ArtifactsContainer) []*Request {
	for requestIndex, bookingError := range artifacts.Errors() {
		message := fmt.Sprintf(msgLabelCreationFailure, bookingError.Message)
		response := s.mapper.CreateErrorResponse(requestIndex, message, bookingError.ShipmentReference)
		artifacts.AddErrorResponse(requestIndex, response)
	}

	for requestIndex, confirmation := range artifacts.APIResponses() {
		response := s.mapper.CreateLabelResponse(requestIndex, confirmation)
		artifacts.AddLabelResponse(requestIndex, response)
	}

	return requests
}

// Pipeline runs the label creation stages in their fixed order:
// Validate, MapRequest, SendRequest, MapResponse. Each run owns a fresh
// artifacts container; after the terminal stage every input request
// index is present in exactly one of the error or label response maps.
type Pipeline struct {
	stages []Stage
}

// NewPipeline assembles the label creation pipeline.
func NewPipeline(
	requestMapper *RequestDataMapper,
	serviceFactory LabelServiceFactory,
	responseMapper *ResponseDataMapper,
	logger *otelzap.Logger,
) *Pipeline {
	return &Pipeline{
		stages: []Stage{
			&ValidateStage{},
			NewMapRequestStage(requestMapper),
			NewSendRequestStage(serviceFactory, logger),
			NewMapResponseStage(responseMapper),
		},
	}
}

// Run executes all stages over the given single-store batch and returns
// the populated artifacts container.
func (p *Pipeline) Run(ctx context.Context, storeID string, requests []*Request) *ArtifactsContainer {
	artifacts := NewArtifactsContainer(storeID)

	working := requests
	for _, stage := range p.stages {
		working = stage.Execute(ctx, working, artifacts)
	}

	return artifacts
}

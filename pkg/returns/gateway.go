package returns

import (
	"context"
	"sync"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// APIGateway runs the label creation pipeline for one store's batch of
// return shipment requests.
type APIGateway struct {
	pipeline *Pipeline
	storeID  string
}

// NewAPIGateway creates a gateway bound to one store.
func NewAPIGateway(pipeline *Pipeline, storeID string) *APIGateway {
	return &APIGateway{
		pipeline: pipeline,
		storeID:  storeID,
	}
}

// CreateLabels converts return shipment requests to label bookings and
// returns the outcome maps, together covering every input request index
// exactly once.
func (g *APIGateway) CreateLabels(ctx context.Context, requests []*Request) (map[string]*LabelResponse, map[string]*ErrorResponse) {
	artifacts := g.pipeline.Run(ctx, g.storeID, requests)

	return artifacts.LabelResponses(), artifacts.ErrorResponses()
}

// APIGatewayFactory creates the gateway for a store with that store's
// configuration.
type APIGatewayFactory func(storeID string) *APIGateway

// ReturnShipmentManagement is the central entry point for creating
// return order labels. Mixed batches are grouped by store, one pipeline
// run per store, and the results flattened.
type ReturnShipmentManagement struct {
	newGateway APIGatewayFactory
	logger     *otelzap.Logger
}

// NewReturnShipmentManagement creates the label creation entry point.
func NewReturnShipmentManagement(newGateway APIGatewayFactory, logger *otelzap.Logger) *ReturnShipmentManagement {
	return &ReturnShipmentManagement{
		newGateway: newGateway,
		logger:     logger,
	}
}

// CreateLabels books return labels for the given requests. Store batches
// run concurrently, each pipeline run with its own artifacts container;
// per-request failures surface as error responses, never as an error
// aborting the batch.
func (m *ReturnShipmentManagement) CreateLabels(ctx context.Context, requests []*Request) (map[string]*LabelResponse, map[string]*ErrorResponse) {
	labels := make(map[string]*LabelResponse)
	errs := make(map[string]*ErrorResponse)

	if len(requests) == 0 {
		return labels, errs
	}

	storeBatches := make(map[string][]*Request)
	for _, request := range requests {
		storeBatches[request.StoreID] = append(storeBatches[request.StoreID], request)
	}

	// Gateways are created once per store and live only for this call,
	// so configuration changes take effect on the next batch.
	gateways := make(map[string]*APIGateway, len(storeBatches))
	for storeID := range storeBatches {
		gateways[storeID] = m.newGateway(storeID)
	}

	mu := &sync.Mutex{}
	g, ctx := errgroup.WithContext(ctx)

	for storeID, batch := range storeBatches {
		gateway := gateways[storeID]
		storeID, batch := storeID, batch
		g.Go(func() error {
			m.logger.Info("Creating return labels",
				zap.String("store_id", storeID),
				zap.Int("request_count", len(batch)),
			)

			storeLabels, storeErrs := gateway.CreateLabels(ctx, batch)

			mu.Lock()
			defer mu.Unlock()
			for requestIndex, response := range storeLabels {
				labels[requestIndex] = response
			}
			for requestIndex, response := range storeErrs {
				errs[requestIndex] = response
			}
			return nil
		})
	}

	// Store goroutines record per-request outcomes and return nil.
	if err := g.Wait(); err != nil {
		m.logger.Error("Store batch aborted", zap.Error(err))
	}

	return labels, errs
}

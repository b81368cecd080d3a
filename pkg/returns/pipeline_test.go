package returns_test

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"testing"

	"github.com/parcelbridge/retoure/pkg/returns"
	"github.com/parcelbridge/retoure/pkg/returns/dhl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// concatCombiner stands in for the PDF combiner; it joins the raw
// documents so tests can assert which documents went in.
type concatCombiner struct{}

func (concatCombiner) Combine(documents [][]byte) ([]byte, error) {
	var combined []byte
	for _, document := range documents {
		combined = append(combined, document...)
	}
	return combined, nil
}

func newTestPipeline(mockAPI *dhl.MockAPIClient) *returns.Pipeline {
	logger := otelzap.New(zap.NewNop())

	serviceFactory := func(storeID string) (returns.LabelService, error) {
		return dhl.NewServiceWithAPIClient(mockAPI, logger), nil
	}

	return returns.NewPipeline(
		returns.NewRequestDataMapper(newTestAccountConfig(), &returns.StandardUnitConverter{}),
		serviceFactory,
		returns.NewResponseDataMapper(concatCombiner{}, logger),
		logger,
	)
}

func TestPipeline_Run_Success(t *testing.T) {
	mockAPI := dhl.NewMockAPIClient()
	pipeline := newTestPipeline(mockAPI)

	request := newTestRequest()
	artifacts := pipeline.Run(context.Background(), "1", []*returns.Request{request})

	require.Empty(t, artifacts.ErrorResponses())
	require.Len(t, artifacts.LabelResponses(), 1)

	label := artifacts.LabelResponses()["0"]
	require.NotNil(t, label)
	assert.NotEmpty(t, label.TrackingNumber)
	assert.NotEmpty(t, label.LabelContent)
	assert.Equal(t, label.LabelData, label.LabelContent) // single document passes through

	orders := mockAPI.BookedOrders()
	require.Len(t, orders, 1)
	assert.Equal(t, "deu", orders[0].ReceiverID)
}

func TestPipeline_Run_RejectsNonReturnShipments(t *testing.T) {
	pipeline := newTestPipeline(dhl.NewMockAPIClient())

	request := newTestRequest()
	request.IsReturn = false

	artifacts := pipeline.Run(context.Background(), "1", []*returns.Request{request})

	require.Empty(t, artifacts.LabelResponses())
	require.Len(t, artifacts.ErrorResponses(), 1)

	response := artifacts.ErrorResponses()["0"]
	require.NotNil(t, response)
	assert.Equal(t, "Label could not be created: Only return shipments are supported.", response.Message)
	assert.Equal(t, "100000023", response.ShipmentReference)
}

func TestPipeline_Run_PartialFailure(t *testing.T) {
	mockAPI := dhl.NewMockAPIClient()
	pipeline := newTestPipeline(mockAPI)

	first := newTestRequest()
	first.PackageID = "0"

	second := newTestRequest()
	second.PackageID = "1"
	second.Shipper.City = "" // fails request mapping

	third := newTestRequest()
	third.PackageID = "2"

	requests := []*returns.Request{first, second, third}
	artifacts := pipeline.Run(context.Background(), "1", requests)

	// Every request index resolves exactly once.
	labels := artifacts.LabelResponses()
	errs := artifacts.ErrorResponses()
	assert.Len(t, labels, 2)
	assert.Len(t, errs, 1)
	assert.Contains(t, labels, "0")
	assert.Contains(t, labels, "2")
	require.Contains(t, errs, "1")
	assert.Contains(t, errs["1"].Message, "shipper city")

	// The invalid request never reached the web service.
	assert.Len(t, mockAPI.BookedOrders(), 2)
}

func TestPipeline_Run_DetailedWebserviceError(t *testing.T) {
	mockAPI := dhl.NewMockAPIClient()
	mockAPI.OnCreateReturnOrder = func(ctx context.Context, order *dhl.ReturnOrder) (*dhl.Confirmation, error) {
		return nil, &dhl.APIError{
			StatusCode: http.StatusBadRequest,
			Title:      "Bad Request",
			Detail:     "Invalid postal code",
		}
	}
	pipeline := newTestPipeline(mockAPI)

	artifacts := pipeline.Run(context.Background(), "1", []*returns.Request{newTestRequest()})

	require.Len(t, artifacts.ErrorResponses(), 1)
	response := artifacts.ErrorResponses()["0"]
	assert.Equal(t, "Label could not be created: Invalid postal code", response.Message)
}

func TestPipeline_Run_GenericWebserviceError(t *testing.T) {
	mockAPI := dhl.NewMockAPIClient()
	mockAPI.OnCreateReturnOrder = func(ctx context.Context, order *dhl.ReturnOrder) (*dhl.Confirmation, error) {
		return nil, errors.New("dial tcp: connection refused")
	}
	pipeline := newTestPipeline(mockAPI)

	artifacts := pipeline.Run(context.Background(), "1", []*returns.Request{newTestRequest()})

	require.Len(t, artifacts.ErrorResponses(), 1)
	response := artifacts.ErrorResponses()["0"]

	// Transport details never leak to the customer.
	assert.Equal(t, "Label could not be created: Web service request failed.", response.Message)
}

func TestPipeline_Run_ServiceFactoryFailure(t *testing.T) {
	logger := otelzap.New(zap.NewNop())

	serviceFactory := func(storeID string) (returns.LabelService, error) {
		return nil, dhl.ErrMissingCredentials
	}

	pipeline := returns.NewPipeline(
		returns.NewRequestDataMapper(newTestAccountConfig(), &returns.StandardUnitConverter{}),
		serviceFactory,
		returns.NewResponseDataMapper(concatCombiner{}, logger),
		logger,
	)

	artifacts := pipeline.Run(context.Background(), "1", []*returns.Request{newTestRequest()})

	require.Empty(t, artifacts.LabelResponses())
	require.Len(t, artifacts.ErrorResponses(), 1)
	assert.Equal(t, "Label could not be created: Web service request failed.",
		artifacts.ErrorResponses()["0"].Message)
}

func TestPipeline_Run_CombinesLabelAndQRCode(t *testing.T) {
	mockAPI := dhl.NewMockAPIClient()
	mockAPI.OnCreateReturnOrder = func(ctx context.Context, order *dhl.ReturnOrder) (*dhl.Confirmation, error) {
		return &dhl.Confirmation{
			ShipmentNumber: "ret-qr",
			LabelData:      base64.StdEncoding.EncodeToString([]byte("LABEL")),
			QRLabelData:    base64.StdEncoding.EncodeToString([]byte("QR")),
		}, nil
	}
	pipeline := newTestPipeline(mockAPI)

	artifacts := pipeline.Run(context.Background(), "1", []*returns.Request{newTestRequest()})

	require.Len(t, artifacts.LabelResponses(), 1)
	label := artifacts.LabelResponses()["0"]
	assert.Equal(t, []byte("LABEL"), label.LabelData)
	assert.Equal(t, []byte("QR"), label.QRLabelData)
	assert.Equal(t, []byte("LABELQR"), label.LabelContent)
}

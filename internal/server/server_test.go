package server_test

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/parcelbridge/retoure/internal/server"
	"github.com/parcelbridge/retoure/internal/telemetry"
	"github.com/parcelbridge/retoure/pkg/pdf"
	"github.com/parcelbridge/retoure/pkg/returns"
	"github.com/parcelbridge/retoure/pkg/returns/dhl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// Metrics register with the global Prometheus registry, so they are
// created once for the whole test binary.
var testMetrics = telemetry.NewMetrics()

type testAccountConfig struct{}

func (testAccountConfig) EKP(string) string { return "1234567890" }
func (testAccountConfig) Participations(string) map[string]string {
	return map[string]string{returns.ProcedureReturnNational: "01"}
}
func (testAccountConfig) ReceiverIDs(string) map[string]string {
	return map[string]string{"DE": "deu"}
}
func (testAccountConfig) EUCountries(string) []string      { return []string{"DE", "AT"} }
func (testAccountConfig) CarrierTitle(_, _ string) string  { return "" }
func (testAccountConfig) DefaultItemWeight(string) float64 { return 0.2 }

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()

	logger := otelzap.New(zap.NewNop())

	pipeline := returns.NewPipeline(
		returns.NewRequestDataMapper(testAccountConfig{}, &returns.StandardUnitConverter{}),
		func(storeID string) (returns.LabelService, error) {
			return dhl.NewServiceWithAPIClient(dhl.NewMockAPIClient(), logger), nil
		},
		returns.NewResponseDataMapper(pdf.NewCombinator(), logger),
		logger,
	)

	manager := returns.NewReturnShipmentManagement(func(storeID string) *returns.APIGateway {
		return returns.NewAPIGateway(pipeline, storeID)
	}, logger)

	return server.New(server.Config{Port: 8080}, manager, logger, testMetrics).Handler()
}

func TestServer_Health(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestServer_CreateLabels_MethodNotAllowed(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/returns/labels", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestServer_CreateLabels_InvalidJSON(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/returns/labels", strings.NewReader("invalid json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_CreateLabels_EmptyBatch(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/returns/labels", strings.NewReader(`{"requests": []}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_CreateLabels_Success(t *testing.T) {
	handler := newTestHandler(t)

	body := `{
		"requests": [{
			"packageId": "0",
			"storeId": "1",
			"isReturn": true,
			"orderIncrementId": "100000023",
			"currency": "EUR",
			"shipper": {
				"name": "Erika Mustermann",
				"street": "Musterstr.",
				"streetNumber": "12",
				"city": "Berlin",
				"postalCode": "10115",
				"countryCode": "DE",
				"email": "erika@example.org"
			},
			"receiver": {
				"name": "Muster Handel GmbH",
				"street": "Lagerweg",
				"city": "Hamburg",
				"postalCode": "20095",
				"countryCode": "DE"
			},
			"items": [
				{"orderItemId": "11", "sku": "SHIRT-S", "name": "Shirt", "qty": 1, "weight": 0.3, "price": 10.0}
			],
			"packageWeight": 1.3,
			"weightUnit": "kg"
		}]
	}`

	req := httptest.NewRequest(http.MethodPost, "/returns/labels", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Labels map[string]struct {
			TrackingNumber string `json:"trackingNumber"`
			LabelContent   string `json:"labelContent"`
		} `json:"labels"`
		Errors map[string]struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	assert.Empty(t, resp.Errors)
	require.Contains(t, resp.Labels, "0")
	assert.NotEmpty(t, resp.Labels["0"].TrackingNumber)

	content, err := base64.StdEncoding.DecodeString(resp.Labels["0"].LabelContent)
	require.NoError(t, err)
	assert.Contains(t, string(content), "%PDF")
}

func TestServer_CreateLabels_NonReturnRejected(t *testing.T) {
	handler := newTestHandler(t)

	body := `{
		"requests": [{
			"packageId": "0",
			"storeId": "1",
			"isReturn": false,
			"orderIncrementId": "100000023",
			"shipper": {"countryCode": "DE"},
			"receiver": {"countryCode": "DE"}
		}]
	}`

	req := httptest.NewRequest(http.MethodPost, "/returns/labels", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Errors map[string]struct {
			Message           string `json:"message"`
			ShipmentReference string `json:"shipmentReference"`
		} `json:"errors"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	require.Contains(t, resp.Errors, "0")
	assert.Equal(t, "Label could not be created: Only return shipments are supported.",
		resp.Errors["0"].Message)
	assert.Equal(t, "100000023", resp.Errors["0"].ShipmentReference)
}

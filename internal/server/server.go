package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/parcelbridge/retoure/internal/telemetry"
	"github.com/parcelbridge/retoure/pkg/returns"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// Server is the HTTP server for the return label service.
type Server struct {
	port    int
	manager *returns.ReturnShipmentManagement
	logger  *otelzap.Logger
	metrics *telemetry.Metrics
}

// Config holds server configuration.
type Config struct {
	Port int
}

// New creates a new server instance.
func New(cfg Config, manager *returns.ReturnShipmentManagement, logger *otelzap.Logger, metrics *telemetry.Metrics) *Server {
	return &Server{
		port:    cfg.Port,
		manager: manager,
		logger:  logger,
		metrics: metrics,
	}
}

// Run starts the HTTP server and blocks until context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting server", zap.Int("port", s.port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", s.handleHealth)

	// Prometheus metrics
	mux.Handle("/metrics", promhttp.Handler())

	// Label booking endpoint
	mux.HandleFunc("/returns/labels", s.handleCreateLabels)

	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// Request/response types for the labels endpoint.

type addressInput struct {
	Name            string `json:"name"`
	Company         string `json:"company,omitempty"`
	Street          string `json:"street"`
	StreetNumber    string `json:"streetNumber,omitempty"`
	AddressAddition string `json:"addressAddition,omitempty"`
	City            string `json:"city"`
	State           string `json:"state,omitempty"`
	PostalCode      string `json:"postalCode"`
	CountryCode     string `json:"countryCode"`
	Email           string `json:"email,omitempty"`
	Phone           string `json:"phone,omitempty"`
}

type itemInput struct {
	OrderItemID       string  `json:"orderItemId"`
	ProductID         string  `json:"productId,omitempty"`
	SKU               string  `json:"sku"`
	Name              string  `json:"name"`
	Qty               float64 `json:"qty"`
	Weight            float64 `json:"weight"`
	Price             float64 `json:"price"`
	CustomsValue      float64 `json:"customsValue,omitempty"`
	ExportDescription string  `json:"exportDescription,omitempty"`
	CountryOfOrigin   string  `json:"countryOfOrigin,omitempty"`
	HSCode            string  `json:"hsCode,omitempty"`
}

type shipmentInput struct {
	IncrementID  string   `json:"incrementId"`
	OrderItemIDs []string `json:"orderItemIds"`
}

type requestInput struct {
	PackageID        string          `json:"packageId"`
	StoreID          string          `json:"storeId"`
	IsReturn         bool            `json:"isReturn"`
	OrderIncrementID string          `json:"orderIncrementId"`
	RMAIncrementID   string          `json:"rmaIncrementId,omitempty"`
	ShippingMethod   string          `json:"shippingMethod,omitempty"`
	Currency         string          `json:"currency,omitempty"`
	Shipper          addressInput    `json:"shipper"`
	Receiver         addressInput    `json:"receiver"`
	Items            []itemInput     `json:"items"`
	PackageWeight    float64         `json:"packageWeight"`
	WeightUnit       string          `json:"weightUnit,omitempty"`
	CustomsValue     float64         `json:"customsValue,omitempty"`
	Shipments        []shipmentInput `json:"shipments,omitempty"`
}

type createLabelsRequest struct {
	Requests []requestInput `json:"requests"`
}

type labelOutput struct {
	TrackingNumber string `json:"trackingNumber"`
	LabelContent   string `json:"labelContent,omitempty"`
	LabelData      string `json:"labelData,omitempty"`
	QRLabelData    string `json:"qrLabelData,omitempty"`
}

type errorOutput struct {
	Message           string `json:"message"`
	ShipmentReference string `json:"shipmentReference,omitempty"`
}

type createLabelsResponse struct {
	Labels map[string]labelOutput `json:"labels"`
	Errors map[string]errorOutput `json:"errors"`
}

type apiError struct {
	Error string `json:"error"`
}

func (s *Server) handleCreateLabels(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		s.metrics.RecordRequest(r.URL.Path, strconv.Itoa(http.StatusMethodNotAllowed))
		w.WriteHeader(http.StatusMethodNotAllowed)
		json.NewEncoder(w).Encode(apiError{Error: "Method not allowed, use POST"})
		return
	}

	var body createLabelsRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.metrics.RecordRequest(r.URL.Path, strconv.Itoa(http.StatusBadRequest))
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(apiError{Error: "Invalid JSON: " + err.Error()})
		return
	}
	if len(body.Requests) == 0 {
		s.metrics.RecordRequest(r.URL.Path, strconv.Itoa(http.StatusBadRequest))
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(apiError{Error: "No return shipment requests given"})
		return
	}

	requests := make([]*returns.Request, 0, len(body.Requests))
	for i, in := range body.Requests {
		requests = append(requests, toRequest(i, in))
	}

	start := time.Now()
	labels, errs := s.manager.CreateLabels(r.Context(), requests)
	s.metrics.RecordBatch(r.URL.Path, time.Since(start).Seconds())
	s.metrics.RecordRequest(r.URL.Path, strconv.Itoa(http.StatusOK))

	resp := createLabelsResponse{
		Labels: make(map[string]labelOutput, len(labels)),
		Errors: make(map[string]errorOutput, len(errs)),
	}
	for _, req := range requests {
		if label, ok := labels[req.PackageID]; ok {
			s.metrics.RecordBooking(req.StoreID, "success")
			resp.Labels[req.PackageID] = labelOutput{
				TrackingNumber: label.TrackingNumber,
				LabelContent:   base64.StdEncoding.EncodeToString(label.LabelContent),
				LabelData:      base64.StdEncoding.EncodeToString(label.LabelData),
				QRLabelData:    base64.StdEncoding.EncodeToString(label.QRLabelData),
			}
		}
		if bookingErr, ok := errs[req.PackageID]; ok {
			s.metrics.RecordBooking(req.StoreID, "error")
			resp.Errors[req.PackageID] = errorOutput{
				Message:           bookingErr.Message,
				ShipmentReference: bookingErr.ShipmentReference,
			}
		}
	}

	json.NewEncoder(w).Encode(resp)
}

func toRequest(index int, in requestInput) *returns.Request {
	packageID := in.PackageID
	if packageID == "" {
		packageID = fmt.Sprintf("%d", index)
	}

	unit := returns.WeightUnit(in.WeightUnit)
	if unit == "" {
		unit = returns.WeightKG
	}

	items := make([]returns.Item, 0, len(in.Items))
	for _, item := range in.Items {
		items = append(items, returns.Item{
			OrderItemID:       item.OrderItemID,
			ProductID:         item.ProductID,
			SKU:               item.SKU,
			Name:              item.Name,
			Qty:               item.Qty,
			Weight:            item.Weight,
			Price:             item.Price,
			CustomsValue:      item.CustomsValue,
			ExportDescription: item.ExportDescription,
			CountryOfOrigin:   item.CountryOfOrigin,
			HSCode:            item.HSCode,
		})
	}

	shipments := make([]returns.OrderShipment, 0, len(in.Shipments))
	for _, shipment := range in.Shipments {
		shipments = append(shipments, returns.OrderShipment{
			IncrementID:  shipment.IncrementID,
			OrderItemIDs: shipment.OrderItemIDs,
		})
	}

	return &returns.Request{
		PackageID:        packageID,
		StoreID:          in.StoreID,
		IsReturn:         in.IsReturn,
		OrderIncrementID: in.OrderIncrementID,
		RMAIncrementID:   in.RMAIncrementID,
		ShippingMethod:   in.ShippingMethod,
		Currency:         in.Currency,
		Shipper:          toAddress(in.Shipper),
		Receiver:         toAddress(in.Receiver),
		Items:            items,
		PackageWeight:    in.PackageWeight,
		WeightUnit:       unit,
		CustomsValue:     in.CustomsValue,
		Shipments:        shipments,
	}
}

func toAddress(in addressInput) returns.Address {
	return returns.Address{
		Name:            in.Name,
		Company:         in.Company,
		Street:          in.Street,
		StreetNumber:    in.StreetNumber,
		AddressAddition: in.AddressAddition,
		City:            in.City,
		State:           in.State,
		PostalCode:      in.PostalCode,
		CountryCode:     in.CountryCode,
		Email:           in.Email,
		Phone:           in.Phone,
	}
}

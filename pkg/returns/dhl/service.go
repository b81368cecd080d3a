package dhl

import (
	"context"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// Service is the return label booking service for one store's account.
// It wraps an APIClient with the store's credentials and request logging.
type Service struct {
	apiClient APIClient
	logger    *otelzap.Logger
}

// AuthConfig holds one store's web service credentials.
type AuthConfig struct {
	AppID     string
	AppToken  string
	User      string
	Signature string
	Sandbox   bool
}

// NewService creates a booking service backed by the HTTP API client.
// ErrMissingCredentials is returned when the account is not configured.
func NewService(cfg AuthConfig, logger *otelzap.Logger) (*Service, error) {
	if cfg.AppID == "" || cfg.AppToken == "" {
		return nil, ErrMissingCredentials
	}

	apiClient := NewHTTPAPIClient(HTTPAPIClientConfig{
		AppID:     cfg.AppID,
		AppToken:  cfg.AppToken,
		User:      cfg.User,
		Signature: cfg.Signature,
		Sandbox:   cfg.Sandbox,
	})

	return NewServiceWithAPIClient(apiClient, logger), nil
}

// NewServiceWithAPIClient creates a booking service with a custom API client.
func NewServiceWithAPIClient(apiClient APIClient, logger *otelzap.Logger) *Service {
	return &Service{
		apiClient: apiClient,
		logger:    logger,
	}
}

// BookLabel books a return label for the given return order.
func (s *Service) BookLabel(ctx context.Context, order *ReturnOrder) (*Confirmation, error) {
	s.logger.Info("Booking return label",
		zap.String("receiver_id", order.ReceiverID),
		zap.String("shipment_reference", order.ShipmentReference),
	)

	confirmation, err := s.apiClient.CreateReturnOrder(ctx, order)
	if err != nil {
		s.logger.Error("DHL Retoure API error", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Return label booked",
		zap.String("shipment_number", confirmation.ShipmentNumber),
	)

	return confirmation, nil
}

package dhl

import (
	"context"
	"encoding/base64"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MockAPIClient is a mock implementation of APIClient for testing.
// It is safe for concurrent use, since store batches book in parallel.
type MockAPIClient struct {
	SimulateErrors  bool
	SimulateLatency time.Duration

	OnCreateReturnOrder func(ctx context.Context, order *ReturnOrder) (*Confirmation, error)

	mu     sync.Mutex
	orders []*ReturnOrder
}

// NewMockAPIClient creates a new mock API client with default behavior.
func NewMockAPIClient() *MockAPIClient {
	return &MockAPIClient{}
}

// CreateReturnOrder books a mock return label.
func (m *MockAPIClient) CreateReturnOrder(ctx context.Context, order *ReturnOrder) (*Confirmation, error) {
	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}

	if m.SimulateErrors {
		return nil, &APIError{
			StatusCode: http.StatusInternalServerError,
			Title:      "Simulated API error",
		}
	}

	if m.OnCreateReturnOrder != nil {
		return m.OnCreateReturnOrder(ctx, order)
	}

	m.mu.Lock()
	m.orders = append(m.orders, order)
	m.mu.Unlock()

	labelData := base64.StdEncoding.EncodeToString([]byte("%PDF-1.4 mock return label %%EOF"))

	return &Confirmation{
		ShipmentNumber: "ret-" + uuid.New().String()[:8],
		LabelData:      labelData,
		RoutingCode:    "DE12345678901234567890",
	}, nil
}

// BookedOrders returns a copy of every booked return order, oldest first.
func (m *MockAPIClient) BookedOrders() []*ReturnOrder {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*ReturnOrder(nil), m.orders...)
}

var _ APIClient = (*MockAPIClient)(nil)

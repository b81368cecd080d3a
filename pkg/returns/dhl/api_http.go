package dhl

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Base URLs of the DHL business customer gateway.
const (
	ProductionBaseURL = "https://cig.dhl.de/services/production/rest/returns"
	SandboxBaseURL    = "https://cig.dhl.de/services/sandbox/rest/returns"
)

// HTTPAPIClient is the production implementation of APIClient using HTTP/JSON.
type HTTPAPIClient struct {
	baseURL    string
	appID      string
	appToken   string
	user       string
	signature  string
	httpClient *http.Client
}

// HTTPAPIClientConfig holds configuration for the HTTP client.
type HTTPAPIClientConfig struct {
	BaseURL   string // defaults to production or sandbox depending on Sandbox
	AppID     string // gateway application id (basic auth user)
	AppToken  string // gateway application token (basic auth password)
	User      string // business customer user
	Signature string // business customer password
	Sandbox   bool
	Timeout   time.Duration
}

// NewHTTPAPIClient creates a new HTTP-based API client for production use.
func NewHTTPAPIClient(cfg HTTPAPIClientConfig) *HTTPAPIClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = ProductionBaseURL
		if cfg.Sandbox {
			baseURL = SandboxBaseURL
		}
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &HTTPAPIClient{
		baseURL:   baseURL,
		appID:     cfg.AppID,
		appToken:  cfg.AppToken,
		user:      cfg.User,
		signature: cfg.Signature,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// CreateReturnOrder books a return label via the DHL Retoure API.
func (c *HTTPAPIClient) CreateReturnOrder(ctx context.Context, order *ReturnOrder) (*Confirmation, error) {
	body, err := json.Marshal(order)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// The gateway authenticates the application via basic auth and the
	// business customer via a separate token header.
	req.SetBasicAuth(c.appID, c.appToken)
	userToken := base64.StdEncoding.EncodeToString([]byte(c.user + ":" + c.signature))
	req.Header.Set("DPDHL-User-Authentication-Token", userToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, c.parseError(resp)
	}

	var confirmation Confirmation
	if err := json.NewDecoder(resp.Body).Decode(&confirmation); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &confirmation, nil
}

// apiErrorBody is the JSON error payload of the Retoure API.
type apiErrorBody struct {
	Title      string `json:"title"`
	Detail     string `json:"detail"`
	StatusCode int    `json:"statusCode"`
	StatusText string `json:"statusText"`
}

func (c *HTTPAPIClient) parseError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))

	var errBody apiErrorBody
	if err := json.Unmarshal(body, &errBody); err == nil && errBody.Detail != "" {
		title := errBody.Title
		if title == "" {
			title = errBody.StatusText
		}
		return &APIError{
			StatusCode: resp.StatusCode,
			Title:      title,
			Detail:     errBody.Detail,
		}
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Title:      http.StatusText(resp.StatusCode),
	}
}

var _ APIClient = (*HTTPAPIClient)(nil)

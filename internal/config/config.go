package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"go.opentelemetry.io/otel/attribute"
)

// Config holds all configuration for the service. The DHL account block
// applies to every store unless overridden per store via StoresFile.
type Config struct {
	// Server
	Port     int    `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// DHL Retoure account
	AppID          string            `envconfig:"DHL_APP_ID"`
	AppToken       string            `envconfig:"DHL_APP_TOKEN"`
	User           string            `envconfig:"DHL_API_USER"`
	Signature      string            `envconfig:"DHL_API_SIGNATURE"`
	EKP            string            `envconfig:"DHL_EKP"`
	Participations map[string]string `envconfig:"DHL_PARTICIPATIONS"` // procedure:participation
	ReceiverIDs    map[string]string `envconfig:"DHL_RECEIVER_IDS"`   // country:receiver id
	Sandbox        bool              `envconfig:"DHL_SANDBOX" default:"false"`
	UseMock        bool              `envconfig:"DHL_USE_MOCK" default:"false"`

	// Returns handling
	DefaultItemWeight float64           `envconfig:"DEFAULT_ITEM_WEIGHT" default:"0.2"`
	EUCountries       []string          `envconfig:"EU_COUNTRIES" default:"AT,BE,BG,CY,CZ,DE,DK,EE,ES,FI,FR,GR,HR,HU,IE,IT,LT,LU,LV,MT,NL,PL,PT,RO,SE,SI,SK"`
	CarrierTitles     map[string]string `envconfig:"CARRIER_TITLES"` // carrier code:display title

	// Per-store account overrides, JSON file keyed by store id
	StoresFile string `envconfig:"STORES_FILE"`

	// Telemetry
	OTELEnabled  bool   `envconfig:"OTEL_ENABLED" default:"true"`
	OTELEndpoint string `envconfig:"OTEL_ENDPOINT" default:"http://localhost:4318"`
	ServiceName  string `envconfig:"SERVICE_NAME" default:"retoure-bridge"`
	Version      string `envconfig:"SERVICE_VERSION" default:"0.0.1"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return &cfg, nil
}

// Attributes returns OpenTelemetry attributes for this configuration.
func (c *Config) Attributes() []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("service.name", c.ServiceName),
		attribute.String("service.version", c.Version),
		attribute.Bool("dhl.sandbox", c.Sandbox),
		attribute.Bool("dhl.mock", c.UseMock),
	}
}

package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/parcelbridge/retoure/pkg/returns"
	"github.com/parcelbridge/retoure/pkg/returns/dhl"
)

var _ returns.AccountConfig = (*Accounts)(nil)

// Account is one store's DHL Retoure account configuration.
type Account struct {
	AppID          string            `json:"app_id"`
	AppToken       string            `json:"app_token"`
	User           string            `json:"user"`
	Signature      string            `json:"signature"`
	EKP            string            `json:"ekp"`
	Participations map[string]string `json:"participations"`
	ReceiverIDs    map[string]string `json:"receiver_ids"`
	Sandbox        *bool             `json:"sandbox"`

	DefaultItemWeight *float64          `json:"default_item_weight"`
	CarrierTitles     map[string]string `json:"carrier_titles"`
}

// Accounts resolves per-store account settings: the base account from
// the environment, overlaid with store entries from the stores file.
// It implements the account configuration consumed by the returns
// pipeline.
type Accounts struct {
	base        Account
	euCountries []string
	stores      map[string]Account
}

// NewAccounts builds the account resolver from the loaded configuration.
func NewAccounts(cfg *Config) (*Accounts, error) {
	sandbox := cfg.Sandbox
	weight := cfg.DefaultItemWeight

	accounts := &Accounts{
		base: Account{
			AppID:             cfg.AppID,
			AppToken:          cfg.AppToken,
			User:              cfg.User,
			Signature:         cfg.Signature,
			EKP:               cfg.EKP,
			Participations:    cfg.Participations,
			ReceiverIDs:       cfg.ReceiverIDs,
			Sandbox:           &sandbox,
			DefaultItemWeight: &weight,
			CarrierTitles:     cfg.CarrierTitles,
		},
		euCountries: cfg.EUCountries,
		stores:      make(map[string]Account),
	}

	if cfg.StoresFile != "" {
		data, err := os.ReadFile(cfg.StoresFile)
		if err != nil {
			return nil, fmt.Errorf("reading stores file: %w", err)
		}
		if err := json.Unmarshal(data, &accounts.stores); err != nil {
			return nil, fmt.Errorf("parsing stores file: %w", err)
		}
	}

	return accounts, nil
}

// ForStore returns the effective account for a store. Fields absent from
// the store's override fall back to the base account.
func (a *Accounts) ForStore(storeID string) Account {
	account := a.base

	override, ok := a.stores[storeID]
	if !ok {
		return account
	}

	if override.AppID != "" {
		account.AppID = override.AppID
	}
	if override.AppToken != "" {
		account.AppToken = override.AppToken
	}
	if override.User != "" {
		account.User = override.User
	}
	if override.Signature != "" {
		account.Signature = override.Signature
	}
	if override.EKP != "" {
		account.EKP = override.EKP
	}
	if override.Participations != nil {
		account.Participations = override.Participations
	}
	if override.ReceiverIDs != nil {
		account.ReceiverIDs = override.ReceiverIDs
	}
	if override.Sandbox != nil {
		account.Sandbox = override.Sandbox
	}
	if override.DefaultItemWeight != nil {
		account.DefaultItemWeight = override.DefaultItemWeight
	}
	if override.CarrierTitles != nil {
		account.CarrierTitles = override.CarrierTitles
	}

	return account
}

// Credentials returns the web service credentials for a store.
func (a *Accounts) Credentials(storeID string) dhl.AuthConfig {
	account := a.ForStore(storeID)

	sandbox := false
	if account.Sandbox != nil {
		sandbox = *account.Sandbox
	}

	return dhl.AuthConfig{
		AppID:     account.AppID,
		AppToken:  account.AppToken,
		User:      account.User,
		Signature: account.Signature,
		Sandbox:   sandbox,
	}
}

// EKP returns the merchant customer number for a store.
func (a *Accounts) EKP(storeID string) string {
	return a.ForStore(storeID).EKP
}

// Participations returns the procedure to participation number mapping.
func (a *Accounts) Participations(storeID string) map[string]string {
	return a.ForStore(storeID).Participations
}

// ReceiverIDs returns the country to receiver id mapping.
func (a *Accounts) ReceiverIDs(storeID string) map[string]string {
	return a.ForStore(storeID).ReceiverIDs
}

// EUCountries returns the configured EU shipping origin countries.
func (a *Accounts) EUCountries(string) []string {
	return a.euCountries
}

// CarrierTitle resolves a carrier code to its display title.
func (a *Accounts) CarrierTitle(storeID, carrierCode string) string {
	return a.ForStore(storeID).CarrierTitles[carrierCode]
}

// DefaultItemWeight returns the fallback item weight for a store.
func (a *Accounts) DefaultItemWeight(storeID string) float64 {
	account := a.ForStore(storeID)
	if account.DefaultItemWeight == nil {
		return 0
	}

	return *account.DefaultItemWeight
}

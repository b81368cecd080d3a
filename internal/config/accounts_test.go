package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/parcelbridge/retoure/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseConfig() *config.Config {
	return &config.Config{
		AppID:             "app",
		AppToken:          "secret",
		User:              "merchant",
		Signature:         "password",
		EKP:               "1234567890",
		Participations:    map[string]string{"07": "01"},
		ReceiverIDs:       map[string]string{"DE": "deu"},
		Sandbox:           true,
		DefaultItemWeight: 0.2,
		EUCountries:       []string{"DE", "AT"},
		CarrierTitles:     map[string]string{"dhlpaket": "DHL Paket"},
	}
}

func TestAccounts_BaseAccount(t *testing.T) {
	accounts, err := config.NewAccounts(baseConfig())
	require.NoError(t, err)

	assert.Equal(t, "1234567890", accounts.EKP("1"))
	assert.Equal(t, map[string]string{"07": "01"}, accounts.Participations("1"))
	assert.Equal(t, map[string]string{"DE": "deu"}, accounts.ReceiverIDs("1"))
	assert.Equal(t, []string{"DE", "AT"}, accounts.EUCountries("1"))
	assert.Equal(t, "DHL Paket", accounts.CarrierTitle("1", "dhlpaket"))
	assert.InDelta(t, 0.2, accounts.DefaultItemWeight("1"), 0.001)

	creds := accounts.Credentials("1")
	assert.Equal(t, "app", creds.AppID)
	assert.True(t, creds.Sandbox)
}

func TestAccounts_StoreOverride(t *testing.T) {
	storesJSON := `{
		"2": {
			"ekp": "9876543210",
			"receiver_ids": {"AT": "aut"},
			"sandbox": false,
			"default_item_weight": 0.5
		}
	}`

	path := filepath.Join(t.TempDir(), "stores.json")
	require.NoError(t, os.WriteFile(path, []byte(storesJSON), 0o600))

	cfg := baseConfig()
	cfg.StoresFile = path

	accounts, err := config.NewAccounts(cfg)
	require.NoError(t, err)

	// Overridden fields take the store values.
	assert.Equal(t, "9876543210", accounts.EKP("2"))
	assert.Equal(t, map[string]string{"AT": "aut"}, accounts.ReceiverIDs("2"))
	assert.InDelta(t, 0.5, accounts.DefaultItemWeight("2"), 0.001)
	assert.False(t, accounts.Credentials("2").Sandbox)

	// Absent fields fall back to the base account.
	assert.Equal(t, "app", accounts.Credentials("2").AppID)
	assert.Equal(t, map[string]string{"07": "01"}, accounts.Participations("2"))

	// Other stores are unaffected.
	assert.Equal(t, "1234567890", accounts.EKP("1"))
	assert.True(t, accounts.Credentials("1").Sandbox)
}

func TestAccounts_MissingStoresFile(t *testing.T) {
	cfg := baseConfig()
	cfg.StoresFile = filepath.Join(t.TempDir(), "missing.json")

	_, err := config.NewAccounts(cfg)

	assert.Error(t, err)
}

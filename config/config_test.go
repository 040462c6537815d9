package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// viper keeps global state, so every test resets it before loading.

func TestLoadConfigDefaults(t *testing.T) {
	viper.Reset()

	LoadConfig()

	require.NotNil(t, AppConfig)
	assert.Equal(t, "0", AppConfig.POS.TaxRate.String())
	assert.Equal(t, "/pos/receipt/", AppConfig.POS.ReceiptPath)
	assert.Equal(t, "/pos/process-sale/", AppConfig.Backend.ProcessSaleURL)
	assert.Equal(t, "csrftoken", AppConfig.Backend.CSRFCookieName)
	assert.Equal(t, "$", AppConfig.Display.CurrencySymbol)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	viper.Reset()
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("TAX_RATE", "16")
	t.Setenv("CURRENCY_SYMBOL", "KSh")
	t.Setenv("BACKEND_BASE_URL", "http://backend.local:8000")

	LoadConfig()

	require.NotNil(t, AppConfig)
	assert.Equal(t, "9090", AppConfig.Server.Port)
	assert.Equal(t, "16", AppConfig.POS.TaxRate.String())
	assert.Equal(t, "KSh", AppConfig.Display.CurrencySymbol)
	assert.Equal(t, "http://backend.local:8000", AppConfig.Backend.BaseURL)
}

func TestLoadConfigPortFallback(t *testing.T) {
	viper.Reset()
	t.Setenv("PORT", "3000")

	LoadConfig()

	require.NotNil(t, AppConfig)
	assert.Equal(t, "3000", AppConfig.Server.Port)
}

func TestLoadConfigInvalidTaxRateFallsBackToZero(t *testing.T) {
	viper.Reset()
	t.Setenv("TAX_RATE", "not-a-number")

	LoadConfig()

	require.NotNil(t, AppConfig)
	assert.True(t, AppConfig.POS.TaxRate.IsZero())
}

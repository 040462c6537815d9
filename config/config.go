package config

import (
	"log"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig
	POS     POSConfig
	Backend BackendConfig
	Display DisplayConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

// POSConfig carries the values the terminal reads once at startup:
// the tax rate applied to every sale and where receipts live.
type POSConfig struct {
	TaxRate     decimal.Decimal
	ReceiptPath string
}

type BackendConfig struct {
	BaseURL        string
	ProcessSaleURL string
	CSRFCookieName string
}

type DisplayConfig struct {
	CurrencySymbol string
}

var AppConfig *Config

func LoadConfig() {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	// Read .env file
	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, checking environment variables: %v", err)
	}

	// Enable reading from OS environment variables as fallback/override
	viper.AutomaticEnv()

	// Explicitly bind environment variables for robustness
	viper.BindEnv("SERVER_PORT", "PORT") // Fallback to PORT if SERVER_PORT is missing
	viper.BindEnv("BACKEND_BASE_URL")

	viper.SetDefault("TAX_RATE", "0")
	viper.SetDefault("CURRENCY_SYMBOL", "$")
	viper.SetDefault("PROCESS_SALE_URL", "/pos/process-sale/")
	viper.SetDefault("RECEIPT_PATH", "/pos/receipt/")
	viper.SetDefault("CSRF_COOKIE_NAME", "csrftoken")

	taxRate, err := decimal.NewFromString(viper.GetString("TAX_RATE"))
	if err != nil {
		log.Printf("Warning: invalid TAX_RATE %q, using 0: %v", viper.GetString("TAX_RATE"), err)
		taxRate = decimal.Zero
	}

	// Manually map configuration to struct
	AppConfig = &Config{
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
			Env:  viper.GetString("SERVER_ENV"),
		},
		POS: POSConfig{
			TaxRate:     taxRate,
			ReceiptPath: viper.GetString("RECEIPT_PATH"),
		},
		Backend: BackendConfig{
			BaseURL:        viper.GetString("BACKEND_BASE_URL"),
			ProcessSaleURL: viper.GetString("PROCESS_SALE_URL"),
			CSRFCookieName: viper.GetString("CSRF_COOKIE_NAME"),
		},
		Display: DisplayConfig{
			CurrencySymbol: viper.GetString("CURRENCY_SYMBOL"),
		},
	}

	log.Printf("Configuration loaded successfully:")
	log.Printf("- Server Port: %s", AppConfig.Server.Port)
	log.Printf("- Server Env: %s", AppConfig.Server.Env)
	log.Printf("- Tax Rate: %s%%", AppConfig.POS.TaxRate.String())
	log.Printf("- Currency Symbol: %s", AppConfig.Display.CurrencySymbol)
	log.Printf("- Process Sale URL: %s", AppConfig.Backend.ProcessSaleURL)
	log.Printf("- Backend Base URL: %s", func() string {
		if AppConfig.Backend.BaseURL != "" {
			return AppConfig.Backend.BaseURL
		}
		return "NOT SET"
	}())
}

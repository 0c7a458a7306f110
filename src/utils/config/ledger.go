package config

import (
	"time"

	"github.com/spf13/viper"
)

type Ledger struct {
	// Base URL of the escrow ledger adapter
	Url string

	// Authentication token attached to every request
	Token string

	// Max time for a single fund movement call.
	// Timeout means the outcome is unknown, not failed.
	RequestTimeout time.Duration

	// Requests per second towards the ledger
	RateLimit int

	// Retry configuration for transient errors
	MaxElapsedTime time.Duration
	MaxInterval    time.Duration
}

func setLedgerDefaults() {
	viper.SetDefault("Ledger.Url", "http://localhost:9090")
	viper.SetDefault("Ledger.Token", "")
	viper.SetDefault("Ledger.RequestTimeout", "30s")
	viper.SetDefault("Ledger.RateLimit", "10")
	viper.SetDefault("Ledger.MaxElapsedTime", "2m")
	viper.SetDefault("Ledger.MaxInterval", "10s")
}

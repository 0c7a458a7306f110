package config

import (
	"github.com/spf13/viper"
)

type Auth struct {
	// HMAC secret used to verify bearer tokens
	Secret string

	// Name of the claim carrying the caller's ledger address
	AddressClaim string
}

func setAuthDefaults() {
	viper.SetDefault("Auth.Secret", "")
	viper.SetDefault("Auth.AddressClaim", "address")
}

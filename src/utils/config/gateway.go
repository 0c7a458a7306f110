package config

import (
	"time"

	"github.com/spf13/viper"
)

type Gateway struct {
	// REST API address
	RESTListenAddress string

	// Max time for handling one request
	ServerRequestTimeout time.Duration

	// How long a GET bounty snapshot may be served from cache.
	// Stale reads are acceptable, mutations always hit the store.
	SnapshotCacheTTL time.Duration

	// Default and max page sizes for listing bounties
	DefaultListLimit int
	MaxListLimit     int

	// Buffer of the websocket event stream, oldest events are dropped when full
	EventStreamBuffer int
}

func setGatewayDefaults() {
	viper.SetDefault("Gateway.RESTListenAddress", "0.0.0.0:4000")
	viper.SetDefault("Gateway.ServerRequestTimeout", "30s")
	viper.SetDefault("Gateway.SnapshotCacheTTL", "1s")
	viper.SetDefault("Gateway.DefaultListLimit", "100")
	viper.SetDefault("Gateway.MaxListLimit", "1000")
	viper.SetDefault("Gateway.EventStreamBuffer", "64")
}

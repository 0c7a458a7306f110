package config

import (
	"time"

	"github.com/spf13/viper"
)

type Sweeper struct {
	// How often expired bounties are swept
	Interval time.Duration

	// Number of bounties taken from the db in one run
	BatchSize int

	// Max refunds per second, protects the ledger from refund storms
	RateLimit int
}

func setSweeperDefaults() {
	viper.SetDefault("Sweeper.Interval", "1m")
	viper.SetDefault("Sweeper.BatchSize", "50")
	viper.SetDefault("Sweeper.RateLimit", "5")
}

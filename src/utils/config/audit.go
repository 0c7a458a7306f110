package config

import (
	"time"

	"github.com/spf13/viper"
)

type Audit struct {
	// How many events are saved in one batch
	BatchSize int

	// How often the batch is flushed even when not full
	FlushInterval time.Duration

	// Save backoff configuration, 0 is no limit
	MaxElapsedTime time.Duration
	MaxInterval    time.Duration
}

func setAuditDefaults() {
	viper.SetDefault("Audit.BatchSize", "50")
	viper.SetDefault("Audit.FlushInterval", "5s")
	viper.SetDefault("Audit.MaxElapsedTime", "5m")
	viper.SetDefault("Audit.MaxInterval", "30s")
}

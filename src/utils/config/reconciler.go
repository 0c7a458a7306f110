package config

import (
	"github.com/spf13/viper"
)

type Reconciler struct {
	// Cron schedule for re-submitting unsettled fund transfers
	Schedule string

	// Number of transfers taken from the journal in one run
	BatchSize int

	// Transfers that failed more times are left for manual recovery
	MaxAttempts int
}

func setReconcilerDefaults() {
	viper.SetDefault("Reconciler.Schedule", "@every 5m")
	viper.SetDefault("Reconciler.BatchSize", "50")
	viper.SetDefault("Reconciler.MaxAttempts", "10")
}

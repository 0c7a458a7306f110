package cmd

import (
	"github.com/algoease/escrow/src/sweep"
	"github.com/algoease/escrow/src/utils/logger"
	monitor_escrow "github.com/algoease/escrow/src/utils/monitoring/escrow"

	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(sweepCmd)
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Refund expired bounties once and exit",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		log := logger.NewSublogger("sweep-cmd")

		lifecycle, store, err := newLifecycle(conf)
		if err != nil {
			return
		}

		sweeper := sweep.NewSweeper(conf).
			WithStore(store).
			WithLifecycle(lifecycle).
			WithMonitor(monitor_escrow.NewMonitor())

		refunded, taken, err := sweeper.SweepOnce(applicationCtx)
		if err != nil {
			return
		}

		log.WithField("taken", taken).
			WithField("refunded", refunded).
			Info("Sweep finished")
		return
	},
}

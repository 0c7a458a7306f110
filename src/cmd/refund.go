package cmd

import (
	"time"

	"github.com/algoease/escrow/src/utils/logger"

	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(refundCmd)
}

var refundCmd = &cobra.Command{
	Use:   "refund <bounty-id>",
	Short: "Push a stuck expired bounty through the auto-refund path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		log := logger.NewSublogger("refund-cmd")

		lifecycle, _, err := newLifecycle(conf)
		if err != nil {
			return
		}

		refunded, err := lifecycle.AutoRefund(applicationCtx, args[0], "recovery-cli", time.Now())
		if err != nil {
			return
		}

		log.WithField("id", refunded.ID).
			WithField("status", string(refunded.Status)).
			Info("Bounty refunded")
		return
	},
}

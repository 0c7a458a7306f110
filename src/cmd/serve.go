package cmd

import (
	"github.com/algoease/escrow/src/serve"

	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the escrow service: REST gateway, auto-refund sweeper and ledger reconciler",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		controller, err := serve.NewController(conf)
		if err != nil {
			return
		}

		err = controller.Start()
		if err != nil {
			return
		}

		select {
		case <-applicationCtx.Done():
		case <-controller.CtxRunning.Done():
		}

		controller.StopWait()
		return
	},
}

package cmd

import (
	"encoding/json"
	"os"

	"github.com/algoease/escrow/src/utils/model"

	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(stateCmd)
}

var stateCmd = &cobra.Command{
	Use:   "state <bounty-id>",
	Short: "Dump a bounty together with its fund transfer journal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		lifecycle, _, err := newLifecycle(conf)
		if err != nil {
			return
		}

		found, err := lifecycle.Get(applicationCtx, args[0])
		if err != nil {
			return
		}

		transfers, err := lifecycle.GetTransfers(applicationCtx, args[0])
		if err != nil {
			return
		}

		out := struct {
			Bounty    *model.Bounty         `json:"bounty"`
			Transfers []*model.FundTransfer `json:"transfers"`
		}{found, transfers}

		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(&out)
	},
}

package cmd

import (
	"github.com/algoease/escrow/src/bounty"
	"github.com/algoease/escrow/src/ledger"
	"github.com/algoease/escrow/src/utils/config"
	"github.com/algoease/escrow/src/utils/model"
	monitor_escrow "github.com/algoease/escrow/src/utils/monitoring/escrow"
)

// Wires a lifecycle for one-shot commands, no background tasks
func newLifecycle(conf *config.Config) (lifecycle *bounty.Lifecycle, store bounty.Store, err error) {
	if conf.IsDevelopment {
		store = bounty.NewMemStore()
	} else {
		db, err := model.NewConnection(applicationCtx, conf, "cli")
		if err != nil {
			return nil, nil, err
		}
		store = bounty.NewDbStore(db)
	}

	var escrowLedger ledger.Ledger
	if conf.IsDevelopment {
		escrowLedger = ledger.NewMock()
	} else {
		escrowLedger = ledger.NewClient(&conf.Ledger)
	}

	lifecycle = bounty.NewLifecycle(conf).
		WithStore(store).
		WithLedger(escrowLedger).
		WithMonitor(monitor_escrow.NewMonitor())
	return
}

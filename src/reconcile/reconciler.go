package reconcile

import (
	"github.com/algoease/escrow/src/bounty"
	"github.com/algoease/escrow/src/ledger"
	"github.com/algoease/escrow/src/utils/config"
	"github.com/algoease/escrow/src/utils/model"
	"github.com/algoease/escrow/src/utils/monitoring"
	"github.com/algoease/escrow/src/utils/task"

	"github.com/cenkalti/backoff"
	"github.com/robfig/cron"
)

// Re-submits unsettled fund transfers to the ledger. Transfers are
// idempotent per (bounty, action) key, so re-sending a transfer whose
// outcome was unknown is safe.
type Reconciler struct {
	*task.Task

	store   bounty.Store
	ledger  ledger.Ledger
	monitor monitoring.Monitor

	cron *cron.Cron
}

func NewReconciler(config *config.Config) (self *Reconciler) {
	self = new(Reconciler)

	self.cron = cron.New()

	self.Task = task.NewTask(config, "reconciler").
		WithOnBeforeStart(self.schedule).
		WithOnStop(func() { self.cron.Stop() }).
		// One worker so runs never overlap, one queued run at most
		WithWorkerPool(1, 1)

	return
}

func (self *Reconciler) WithStore(store bounty.Store) *Reconciler {
	self.store = store
	return self
}

func (self *Reconciler) WithLedger(ledger ledger.Ledger) *Reconciler {
	self.ledger = ledger
	return self
}

func (self *Reconciler) WithMonitor(monitor monitoring.Monitor) *Reconciler {
	self.monitor = monitor
	return self
}

func (self *Reconciler) schedule() (err error) {
	err = self.cron.AddFunc(self.Config.Reconciler.Schedule, func() {
		self.SubmitToWorkerIfEmpty(self.reconcile)
	})
	if err != nil {
		return
	}
	self.cron.Start()
	return
}

func (self *Reconciler) reconcile() {
	var transfers []*model.FundTransfer

	// The journal read is retried, a flaky db connection shouldn't skip
	// a whole reconciliation round
	err := backoff.Retry(func() (err error) {
		transfers, err = self.store.ListUnsettledTransfers(self.Ctx,
			self.Config.Reconciler.MaxAttempts,
			self.Config.Reconciler.BatchSize)
		if err != nil {
			self.monitor.GetReport().Reconciler.Errors.DbError.Inc()
			self.Log.WithError(err).Warn("Failed to list unsettled transfers, retrying")
		}
		return
	}, backoff.WithContext(backoff.NewExponentialBackOff(), self.Ctx))
	if err != nil {
		self.Log.WithError(err).Error("Failed to list unsettled transfers")
		return
	}

	if len(transfers) == 0 {
		return
	}

	self.monitor.GetReport().Reconciler.State.TransfersTakenFromDb.Add(uint64(len(transfers)))
	self.Log.WithField("num", len(transfers)).Info("Reconciling unsettled transfers")

	for _, transfer := range transfers {
		select {
		case <-self.StopChannel:
			return
		default:
		}

		self.settle(transfer)
	}
}

func (self *Reconciler) settle(transfer *model.FundTransfer) {
	result, err := self.ledger.Transfer(self.Ctx, &ledger.Order{
		BountyID:         transfer.BountyID,
		Action:           transfer.Action,
		Amount:           transfer.Amount,
		RecipientAddress: transfer.RecipientAddress,
	})

	switch result {
	case ledger.ResultConfirmed:
		self.monitor.GetReport().Reconciler.State.TransfersConfirmed.Inc()
		err = self.store.SetTransferState(self.Ctx, transfer.ID, model.TransferStateConfirmed, nil)

	case ledger.ResultFailed:
		self.monitor.GetReport().Reconciler.State.TransfersFailed.Inc()
		self.monitor.GetReport().Reconciler.Errors.LedgerError.Inc()
		err = self.store.SetTransferState(self.Ctx, transfer.ID, model.TransferStateFailed, err)

	default:
		self.monitor.GetReport().Reconciler.State.TransfersUnsettled.Inc()
		self.Log.WithError(err).
			WithField("transfer_id", transfer.ID).
			Warn("Transfer outcome still unknown")
		err = self.store.SetTransferState(self.Ctx, transfer.ID, model.TransferStatePending, err)
	}

	if err != nil {
		self.monitor.GetReport().Reconciler.Errors.DbError.Inc()
		self.Log.WithError(err).
			WithField("transfer_id", transfer.ID).
			Error("Failed to record transfer outcome")
	}
}

// ReconcileOnce runs a single reconciliation round, used by the CLI
func (self *Reconciler) ReconcileOnce() {
	self.reconcile()
}

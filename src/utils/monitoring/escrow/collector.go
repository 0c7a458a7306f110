package monitor_escrow

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Collector struct {
	monitor *Monitor

	BountiesCreated      *prometheus.Desc
	BountiesAccepted     *prometheus.Desc
	BountiesApproved     *prometheus.Desc
	BountiesRejected     *prometheus.Desc
	BountiesClaimed      *prometheus.Desc
	BountiesRefunded     *prometheus.Desc
	BountiesAutoRefunded *prometheus.Desc
	TransitionsDenied    *prometheus.Desc
	TransfersConfirmed   *prometheus.Desc
	ConflictRetries      *prometheus.Desc
	LifecycleDbError     *prometheus.Desc
	LedgerFailed         *prometheus.Desc
	LedgerUnknown        *prometheus.Desc

	SweepsRun            *prometheus.Desc
	SweeperBountiesTaken *prometheus.Desc
	SweeperRefunded      *prometheus.Desc
	SweeperDenied        *prometheus.Desc
	SweeperDbError       *prometheus.Desc
	SweeperRefundError   *prometheus.Desc

	ReconcilerTaken     *prometheus.Desc
	ReconcilerConfirmed *prometheus.Desc
	ReconcilerFailed    *prometheus.Desc
	ReconcilerUnsettled *prometheus.Desc
	ReconcilerDbError   *prometheus.Desc

	GatewayBountiesReturned *prometheus.Desc
	GatewayEventsStreamed   *prometheus.Desc
	AuditEventsSaved        *prometheus.Desc
	AuditDbError            *prometheus.Desc
	GatewayBadRequests      *prometheus.Desc
	GatewayUnauthorized     *prometheus.Desc

	MessagesPublished        *prometheus.Desc
	PublishError             *prometheus.Desc
	PublishPersistentFailure *prometheus.Desc
}

func NewCollector() *Collector {
	labels := prometheus.Labels{
		"app": "escrow",
	}

	return &Collector{
		BountiesCreated:      prometheus.NewDesc("bounties_created", "", nil, labels),
		BountiesAccepted:     prometheus.NewDesc("bounties_accepted", "", nil, labels),
		BountiesApproved:     prometheus.NewDesc("bounties_approved", "", nil, labels),
		BountiesRejected:     prometheus.NewDesc("bounties_rejected", "", nil, labels),
		BountiesClaimed:      prometheus.NewDesc("bounties_claimed", "", nil, labels),
		BountiesRefunded:     prometheus.NewDesc("bounties_refunded", "", nil, labels),
		BountiesAutoRefunded: prometheus.NewDesc("bounties_auto_refunded", "", nil, labels),
		TransitionsDenied:    prometheus.NewDesc("transitions_denied", "", nil, labels),
		TransfersConfirmed:   prometheus.NewDesc("transfers_confirmed", "", nil, labels),
		ConflictRetries:      prometheus.NewDesc("conflict_retries", "", nil, labels),
		LifecycleDbError:     prometheus.NewDesc("lifecycle_db_error", "", nil, labels),
		LedgerFailed:         prometheus.NewDesc("ledger_failed", "", nil, labels),
		LedgerUnknown:        prometheus.NewDesc("ledger_unknown", "", nil, labels),

		SweepsRun:            prometheus.NewDesc("sweeps_run", "", nil, labels),
		SweeperBountiesTaken: prometheus.NewDesc("sweeper_bounties_taken_from_db", "", nil, labels),
		SweeperRefunded:      prometheus.NewDesc("sweeper_bounties_refunded", "", nil, labels),
		SweeperDenied:        prometheus.NewDesc("sweeper_refunds_denied", "", nil, labels),
		SweeperDbError:       prometheus.NewDesc("sweeper_db_error", "", nil, labels),
		SweeperRefundError:   prometheus.NewDesc("sweeper_refund_error", "", nil, labels),

		ReconcilerTaken:     prometheus.NewDesc("reconciler_transfers_taken_from_db", "", nil, labels),
		ReconcilerConfirmed: prometheus.NewDesc("reconciler_transfers_confirmed", "", nil, labels),
		ReconcilerFailed:    prometheus.NewDesc("reconciler_transfers_failed", "", nil, labels),
		ReconcilerUnsettled: prometheus.NewDesc("reconciler_transfers_unsettled", "", nil, labels),
		ReconcilerDbError:   prometheus.NewDesc("reconciler_db_error", "", nil, labels),

		GatewayBountiesReturned: prometheus.NewDesc("gateway_bounties_returned", "", nil, labels),
		GatewayEventsStreamed:   prometheus.NewDesc("gateway_events_streamed", "", nil, labels),
		AuditEventsSaved:        prometheus.NewDesc("audit_events_saved", "", nil, labels),
		AuditDbError:            prometheus.NewDesc("audit_db_error", "", nil, labels),
		GatewayBadRequests:      prometheus.NewDesc("gateway_bad_requests", "", nil, labels),
		GatewayUnauthorized:     prometheus.NewDesc("gateway_unauthorized", "", nil, labels),

		MessagesPublished:        prometheus.NewDesc("messages_published", "", nil, labels),
		PublishError:             prometheus.NewDesc("publish_error", "", nil, labels),
		PublishPersistentFailure: prometheus.NewDesc("publish_persistent_failure", "", nil, labels),
	}
}

func (self *Collector) WithMonitor(m *Monitor) *Collector {
	self.monitor = m
	return self
}

func (self *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- self.BountiesCreated
	ch <- self.BountiesAccepted
	ch <- self.BountiesApproved
	ch <- self.BountiesRejected
	ch <- self.BountiesClaimed
	ch <- self.BountiesRefunded
	ch <- self.BountiesAutoRefunded
	ch <- self.TransitionsDenied
	ch <- self.TransfersConfirmed
	ch <- self.SweepsRun
	ch <- self.SweeperBountiesTaken
	ch <- self.SweeperRefunded
	ch <- self.SweeperDenied
	ch <- self.ReconcilerTaken
	ch <- self.ReconcilerConfirmed
	ch <- self.ReconcilerFailed
	ch <- self.ReconcilerUnsettled
	ch <- self.GatewayBountiesReturned
	ch <- self.GatewayEventsStreamed
	ch <- self.AuditEventsSaved
	ch <- self.MessagesPublished

	// Errors
	ch <- self.PublishError
	ch <- self.PublishPersistentFailure
	ch <- self.AuditDbError
	ch <- self.ConflictRetries
	ch <- self.LifecycleDbError
	ch <- self.LedgerFailed
	ch <- self.LedgerUnknown
	ch <- self.SweeperDbError
	ch <- self.SweeperRefundError
	ch <- self.ReconcilerDbError
	ch <- self.GatewayBadRequests
	ch <- self.GatewayUnauthorized
}

// Collect implements required collect function for all promehteus collectors
func (self *Collector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(self.BountiesCreated, prometheus.CounterValue, float64(self.monitor.Report.Lifecycle.State.Created.Load()))
	ch <- prometheus.MustNewConstMetric(self.BountiesAccepted, prometheus.CounterValue, float64(self.monitor.Report.Lifecycle.State.Accepted.Load()))
	ch <- prometheus.MustNewConstMetric(self.BountiesApproved, prometheus.CounterValue, float64(self.monitor.Report.Lifecycle.State.Approved.Load()))
	ch <- prometheus.MustNewConstMetric(self.BountiesRejected, prometheus.CounterValue, float64(self.monitor.Report.Lifecycle.State.Rejected.Load()))
	ch <- prometheus.MustNewConstMetric(self.BountiesClaimed, prometheus.CounterValue, float64(self.monitor.Report.Lifecycle.State.Claimed.Load()))
	ch <- prometheus.MustNewConstMetric(self.BountiesRefunded, prometheus.CounterValue, float64(self.monitor.Report.Lifecycle.State.Refunded.Load()))
	ch <- prometheus.MustNewConstMetric(self.BountiesAutoRefunded, prometheus.CounterValue, float64(self.monitor.Report.Lifecycle.State.AutoRefunded.Load()))
	ch <- prometheus.MustNewConstMetric(self.TransitionsDenied, prometheus.CounterValue, float64(self.monitor.Report.Lifecycle.State.TransitionsDenied.Load()))
	ch <- prometheus.MustNewConstMetric(self.TransfersConfirmed, prometheus.CounterValue, float64(self.monitor.Report.Lifecycle.State.TransfersConfirmed.Load()))
	ch <- prometheus.MustNewConstMetric(self.ConflictRetries, prometheus.CounterValue, float64(self.monitor.Report.Lifecycle.Errors.ConflictRetries.Load()))
	ch <- prometheus.MustNewConstMetric(self.LifecycleDbError, prometheus.CounterValue, float64(self.monitor.Report.Lifecycle.Errors.DbError.Load()))
	ch <- prometheus.MustNewConstMetric(self.LedgerFailed, prometheus.CounterValue, float64(self.monitor.Report.Lifecycle.Errors.LedgerFailed.Load()))
	ch <- prometheus.MustNewConstMetric(self.LedgerUnknown, prometheus.CounterValue, float64(self.monitor.Report.Lifecycle.Errors.LedgerUnknown.Load()))

	ch <- prometheus.MustNewConstMetric(self.SweepsRun, prometheus.CounterValue, float64(self.monitor.Report.Sweeper.State.SweepsRun.Load()))
	ch <- prometheus.MustNewConstMetric(self.SweeperBountiesTaken, prometheus.CounterValue, float64(self.monitor.Report.Sweeper.State.BountiesTakenFromDb.Load()))
	ch <- prometheus.MustNewConstMetric(self.SweeperRefunded, prometheus.CounterValue, float64(self.monitor.Report.Sweeper.State.BountiesRefunded.Load()))
	ch <- prometheus.MustNewConstMetric(self.SweeperDenied, prometheus.CounterValue, float64(self.monitor.Report.Sweeper.State.RefundsDenied.Load()))
	ch <- prometheus.MustNewConstMetric(self.SweeperDbError, prometheus.CounterValue, float64(self.monitor.Report.Sweeper.Errors.DbError.Load()))
	ch <- prometheus.MustNewConstMetric(self.SweeperRefundError, prometheus.CounterValue, float64(self.monitor.Report.Sweeper.Errors.RefundError.Load()))

	ch <- prometheus.MustNewConstMetric(self.ReconcilerTaken, prometheus.CounterValue, float64(self.monitor.Report.Reconciler.State.TransfersTakenFromDb.Load()))
	ch <- prometheus.MustNewConstMetric(self.ReconcilerConfirmed, prometheus.CounterValue, float64(self.monitor.Report.Reconciler.State.TransfersConfirmed.Load()))
	ch <- prometheus.MustNewConstMetric(self.ReconcilerFailed, prometheus.CounterValue, float64(self.monitor.Report.Reconciler.State.TransfersFailed.Load()))
	ch <- prometheus.MustNewConstMetric(self.ReconcilerUnsettled, prometheus.CounterValue, float64(self.monitor.Report.Reconciler.State.TransfersUnsettled.Load()))
	ch <- prometheus.MustNewConstMetric(self.ReconcilerDbError, prometheus.CounterValue, float64(self.monitor.Report.Reconciler.Errors.DbError.Load()))

	ch <- prometheus.MustNewConstMetric(self.GatewayBountiesReturned, prometheus.CounterValue, float64(self.monitor.Report.Gateway.State.BountiesReturned.Load()))
	ch <- prometheus.MustNewConstMetric(self.GatewayEventsStreamed, prometheus.CounterValue, float64(self.monitor.Report.Gateway.State.EventsStreamed.Load()))
	ch <- prometheus.MustNewConstMetric(self.AuditEventsSaved, prometheus.CounterValue, float64(self.monitor.Report.Audit.State.EventsSaved.Load()))
	ch <- prometheus.MustNewConstMetric(self.AuditDbError, prometheus.CounterValue, float64(self.monitor.Report.Audit.Errors.DbError.Load()))
	ch <- prometheus.MustNewConstMetric(self.GatewayBadRequests, prometheus.CounterValue, float64(self.monitor.Report.Gateway.Errors.BadRequests.Load()))
	ch <- prometheus.MustNewConstMetric(self.GatewayUnauthorized, prometheus.CounterValue, float64(self.monitor.Report.Gateway.Errors.Unauthorized.Load()))

	ch <- prometheus.MustNewConstMetric(self.MessagesPublished, prometheus.CounterValue, float64(self.monitor.Report.Publisher.State.MessagesPublished.Load()))
	ch <- prometheus.MustNewConstMetric(self.PublishError, prometheus.CounterValue, float64(self.monitor.Report.Publisher.Errors.Publish.Load()))
	ch <- prometheus.MustNewConstMetric(self.PublishPersistentFailure, prometheus.CounterValue, float64(self.monitor.Report.Publisher.Errors.PersistentFailure.Load()))
}

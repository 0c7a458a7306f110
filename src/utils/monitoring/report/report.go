package report

type Report struct {
	Run        *RunReport        `json:"run,omitempty"`
	Lifecycle  *LifecycleReport  `json:"lifecycle,omitempty"`
	Sweeper    *SweeperReport    `json:"sweeper,omitempty"`
	Reconciler *ReconcilerReport `json:"reconciler,omitempty"`
	Gateway    *GatewayReport    `json:"gateway,omitempty"`
	Publisher  *PublisherReport  `json:"publisher,omitempty"`
	Audit      *AuditReport      `json:"audit,omitempty"`
}

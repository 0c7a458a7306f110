package report

import (
	"go.uber.org/atomic"
)

type LifecycleState struct {
	Created            atomic.Uint64 `json:"created"`
	Accepted           atomic.Uint64 `json:"accepted"`
	Approved           atomic.Uint64 `json:"approved"`
	Rejected           atomic.Uint64 `json:"rejected"`
	Claimed            atomic.Uint64 `json:"claimed"`
	Refunded           atomic.Uint64 `json:"refunded"`
	AutoRefunded       atomic.Uint64 `json:"auto_refunded"`
	TransitionsDenied  atomic.Uint64 `json:"transitions_denied"`
	TransfersConfirmed atomic.Uint64 `json:"transfers_confirmed"`
}

type LifecycleErrors struct {
	DbError         atomic.Uint64 `json:"db_error"`
	ConflictRetries atomic.Uint64 `json:"conflict_retries"`
	LedgerFailed    atomic.Uint64 `json:"ledger_failed"`
	LedgerUnknown   atomic.Uint64 `json:"ledger_unknown"`
}

type LifecycleReport struct {
	State  LifecycleState  `json:"state"`
	Errors LifecycleErrors `json:"errors"`
}

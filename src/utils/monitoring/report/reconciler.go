package report

import (
	"go.uber.org/atomic"
)

type ReconcilerState struct {
	TransfersTakenFromDb atomic.Uint64 `json:"transfers_taken_from_db"`
	TransfersConfirmed   atomic.Uint64 `json:"transfers_confirmed"`
	TransfersFailed      atomic.Uint64 `json:"transfers_failed"`
	TransfersUnsettled   atomic.Uint64 `json:"transfers_unsettled"`
}

type ReconcilerErrors struct {
	DbError     atomic.Uint64 `json:"db_error"`
	LedgerError atomic.Uint64 `json:"ledger_error"`
}

type ReconcilerReport struct {
	State  ReconcilerState  `json:"state"`
	Errors ReconcilerErrors `json:"errors"`
}

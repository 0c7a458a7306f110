package report

import (
	"go.uber.org/atomic"
)

type SweeperState struct {
	SweepsRun           atomic.Uint64 `json:"sweeps_run"`
	BountiesTakenFromDb atomic.Uint64 `json:"bounties_taken_from_db"`
	BountiesRefunded    atomic.Uint64 `json:"bounties_refunded"`
	RefundsDenied       atomic.Uint64 `json:"refunds_denied"`
}

type SweeperErrors struct {
	DbError     atomic.Uint64 `json:"db_error"`
	RefundError atomic.Uint64 `json:"refund_error"`
}

type SweeperReport struct {
	State  SweeperState  `json:"state"`
	Errors SweeperErrors `json:"errors"`
}

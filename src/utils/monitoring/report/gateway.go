package report

import (
	"go.uber.org/atomic"
)

type GatewayState struct {
	BountiesReturned atomic.Uint64 `json:"bounties_returned"`
	EventsStreamed   atomic.Uint64 `json:"events_streamed"`
}

type GatewayErrors struct {
	BadRequests  atomic.Uint64 `json:"bad_requests"`
	Unauthorized atomic.Uint64 `json:"unauthorized"`
	DbError      atomic.Uint64 `json:"db_error"`
}

type GatewayReport struct {
	State  GatewayState  `json:"state"`
	Errors GatewayErrors `json:"errors"`
}

package ledger

import (
	"context"

	"github.com/algoease/escrow/src/utils/model"
)

type Result int

const (
	// Outcome could not be determined, the order needs reconciliation.
	// Deliberately the zero value, an unset result is never a success.
	ResultUnknown Result = iota
	ResultConfirmed
	ResultFailed
)

func (self Result) String() string {
	switch self {
	case ResultConfirmed:
		return "confirmed"
	case ResultFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// An instruction to move escrowed funds
type Order struct {
	BountyID         string
	Action           model.BountyAction
	Amount           uint64
	RecipientAddress string
}

// The ledger deduplicates by this key, retrying a transfer is safe
func (self *Order) IdempotencyKey() string {
	return self.BountyID + ":" + string(self.Action)
}

// Moves escrowed funds on the chain. Implementations must be idempotent
// per order key.
type Ledger interface {
	Transfer(ctx context.Context, order *Order) (Result, error)
}

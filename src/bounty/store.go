package bounty

import (
	"context"

	"github.com/algoease/escrow/src/utils/model"
)

type Filter struct {
	// Only bounties in one of these states
	Statuses []model.BountyStatus

	// Only bounties the address participates in,
	// as client, freelancer or verifier
	Address string

	Limit  int
	Offset int
}

// Persistence port of the lifecycle. All mutations go through Create and
// Update, Update is a compare-and-swap on the bounty version.
type Store interface {
	Get(ctx context.Context, id string) (*model.Bounty, error)
	List(ctx context.Context, filter *Filter) ([]*model.Bounty, error)

	// Create inserts the bounty together with its deposit journal row
	Create(ctx context.Context, bounty *model.Bounty, deposit *model.FundTransfer) error

	// Update persists the bounty only if the stored version still matches,
	// bumps the version and inserts the transfer (if any) atomically.
	// Returns ErrConcurrentModification when the version moved.
	Update(ctx context.Context, bounty *model.Bounty, transfer *model.FundTransfer) error

	// TakeExpired returns Open and Accepted bounties past their deadline
	TakeExpired(ctx context.Context, now int64, limit int) ([]*model.Bounty, error)

	GetTransfers(ctx context.Context, bountyID string) ([]*model.FundTransfer, error)
	ListUnsettledTransfers(ctx context.Context, maxAttempts, limit int) ([]*model.FundTransfer, error)

	// SetTransferState records the outcome of one ledger attempt
	SetTransferState(ctx context.Context, id string, state model.TransferState, attemptErr error) error

	// SaveEvents appends to the audit trail
	SaveEvents(ctx context.Context, events []*model.BountyEvent) error
}

package bounty

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/algoease/escrow/src/utils/model"

	"golang.org/x/exp/slices"
)

// In-memory Store used by unit tests and development runs. Everything is
// copied on the way in and out so callers never share memory with the store.
type MemStore struct {
	mtx       sync.Mutex
	bounties  map[string]*model.Bounty
	transfers map[string]*model.FundTransfer
	events    []*model.BountyEvent
}

func NewMemStore() (self *MemStore) {
	self = new(MemStore)
	self.bounties = make(map[string]*model.Bounty)
	self.transfers = make(map[string]*model.FundTransfer)
	return
}

func copyBounty(in *model.Bounty) (out *model.Bounty) {
	out = new(model.Bounty)
	*out = *in
	out.Tags = slices.Clone(in.Tags)
	return
}

func copyTransfer(in *model.FundTransfer) (out *model.FundTransfer) {
	out = new(model.FundTransfer)
	*out = *in
	return
}

func (self *MemStore) Get(ctx context.Context, id string) (*model.Bounty, error) {
	self.mtx.Lock()
	defer self.mtx.Unlock()

	bounty, ok := self.bounties[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyBounty(bounty), nil
}

func (self *MemStore) List(ctx context.Context, filter *Filter) (out []*model.Bounty, err error) {
	self.mtx.Lock()
	defer self.mtx.Unlock()

	for _, bounty := range self.bounties {
		if len(filter.Statuses) > 0 && !slices.Contains(filter.Statuses, bounty.Status) {
			continue
		}
		if filter.Address != "" &&
			bounty.ClientAddress != filter.Address &&
			bounty.VerifierAddress != filter.Address &&
			bounty.FreelancerAddress.String != filter.Address {
			continue
		}
		out = append(out, copyBounty(bounty))
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return nil, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return
}

func (self *MemStore) Create(ctx context.Context, bounty *model.Bounty, deposit *model.FundTransfer) error {
	self.mtx.Lock()
	defer self.mtx.Unlock()

	if _, ok := self.bounties[bounty.ID]; ok {
		return fmt.Errorf("duplicate bounty id: %s", bounty.ID)
	}
	self.bounties[bounty.ID] = copyBounty(bounty)
	if deposit != nil {
		self.transfers[deposit.ID] = copyTransfer(deposit)
	}
	return nil
}

func (self *MemStore) Update(ctx context.Context, bounty *model.Bounty, transfer *model.FundTransfer) error {
	self.mtx.Lock()
	defer self.mtx.Unlock()

	stored, ok := self.bounties[bounty.ID]
	if !ok {
		return ErrNotFound
	}
	if stored.Version != bounty.Version {
		return ErrConcurrentModification
	}

	if transfer != nil {
		for _, existing := range self.transfers {
			if existing.BountyID == transfer.BountyID && existing.Action == transfer.Action {
				return fmt.Errorf("duplicate transfer for bounty %s action %s", transfer.BountyID, string(transfer.Action))
			}
		}
		self.transfers[transfer.ID] = copyTransfer(transfer)
	}

	updated := copyBounty(bounty)
	updated.Version += 1
	self.bounties[bounty.ID] = updated

	// Caller observes the bumped version
	bounty.Version = updated.Version
	return nil
}

func (self *MemStore) TakeExpired(ctx context.Context, now int64, limit int) (out []*model.Bounty, err error) {
	self.mtx.Lock()
	defer self.mtx.Unlock()

	for _, bounty := range self.bounties {
		if !slices.Contains(expirableStatuses, bounty.Status) {
			continue
		}
		if bounty.Deadline > now {
			continue
		}
		out = append(out, copyBounty(bounty))
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return
}

func (self *MemStore) GetTransfers(ctx context.Context, bountyID string) (out []*model.FundTransfer, err error) {
	self.mtx.Lock()
	defer self.mtx.Unlock()

	for _, transfer := range self.transfers {
		if transfer.BountyID == bountyID {
			out = append(out, copyTransfer(transfer))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return
}

func (self *MemStore) ListUnsettledTransfers(ctx context.Context, maxAttempts, limit int) (out []*model.FundTransfer, err error) {
	self.mtx.Lock()
	defer self.mtx.Unlock()

	for _, transfer := range self.transfers {
		if transfer.State == model.TransferStateConfirmed {
			continue
		}
		if maxAttempts > 0 && transfer.Attempts >= maxAttempts {
			continue
		}
		out = append(out, copyTransfer(transfer))
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return
}

func (self *MemStore) SetTransferState(ctx context.Context, id string, state model.TransferState, attemptErr error) error {
	self.mtx.Lock()
	defer self.mtx.Unlock()

	transfer, ok := self.transfers[id]
	if !ok {
		return ErrNotFound
	}
	transfer.State = state
	transfer.Attempts += 1
	transfer.UpdatedAt = time.Now().UTC()
	if attemptErr != nil {
		transfer.LastError.String = attemptErr.Error()
		transfer.LastError.Valid = true
	}
	return nil
}

func (self *MemStore) SaveEvents(ctx context.Context, events []*model.BountyEvent) error {
	self.mtx.Lock()
	defer self.mtx.Unlock()

	self.events = append(self.events, events...)
	return nil
}

// Events returns the audit trail, test helper
func (self *MemStore) Events() []*model.BountyEvent {
	self.mtx.Lock()
	defer self.mtx.Unlock()

	return slices.Clone(self.events)
}

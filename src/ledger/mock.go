package ledger

import (
	"context"
	"sync"
)

// Records orders instead of calling the ledger. Used in tests and
// development mode.
type Mock struct {
	mtx    sync.Mutex
	orders []*Order

	Result Result
	Err    error
}

func NewMock() (self *Mock) {
	self = new(Mock)
	self.Result = ResultConfirmed
	return
}

func (self *Mock) Transfer(ctx context.Context, order *Order) (Result, error) {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	self.orders = append(self.orders, order)
	return self.Result, self.Err
}

func (self *Mock) Orders() []*Order {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	out := make([]*Order, len(self.orders))
	copy(out, self.orders)
	return out
}

// Number of transfers attempted for the given bounty
func (self *Mock) Count(bountyID string) (n int) {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	for _, order := range self.orders {
		if order.BountyID == bountyID {
			n += 1
		}
	}
	return
}

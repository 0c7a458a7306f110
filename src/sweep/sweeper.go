package sweep

import (
	"context"
	"errors"
	"time"

	"github.com/algoease/escrow/src/bounty"
	"github.com/algoease/escrow/src/utils/config"
	"github.com/algoease/escrow/src/utils/monitoring"
	"github.com/algoease/escrow/src/utils/task"

	"golang.org/x/time/rate"
)

// Address recorded as the actor of automatic refunds
const ActorSystem = "system:auto-refund"

// Periodically refunds expired bounties. Every refund goes through the
// same guarded path as user actions, so racing a concurrent accept or
// approve is safe.
type Sweeper struct {
	*task.Task

	store     bounty.Store
	lifecycle *bounty.Lifecycle
	monitor   monitoring.Monitor

	limiter *rate.Limiter
}

func NewSweeper(config *config.Config) (self *Sweeper) {
	self = new(Sweeper)

	self.limiter = rate.NewLimiter(rate.Limit(config.Sweeper.RateLimit), 1)

	self.Task = task.NewTask(config, "sweeper").
		WithRepeatedSubtaskFunc(config.Sweeper.Interval, self.sweep)

	return
}

func (self *Sweeper) WithStore(store bounty.Store) *Sweeper {
	self.store = store
	return self
}

func (self *Sweeper) WithLifecycle(lifecycle *bounty.Lifecycle) *Sweeper {
	self.lifecycle = lifecycle
	return self
}

func (self *Sweeper) WithMonitor(monitor monitoring.Monitor) *Sweeper {
	self.monitor = monitor
	return self
}

// One batch of expired bounties. Asks for another round right away when
// the batch came back full.
func (self *Sweeper) sweep() (repeat bool, err error) {
	refunded, taken, err := self.SweepOnce(self.Ctx)
	if err != nil {
		// Logged already, the next period will try again
		return false, nil
	}

	self.Log.WithField("taken", taken).
		WithField("refunded", refunded).
		Debug("Sweep finished")

	return taken >= self.Config.Sweeper.BatchSize, nil
}

// SweepOnce drains one batch of expired bounties, also used by the CLI
func (self *Sweeper) SweepOnce(ctx context.Context) (refunded, taken int, err error) {
	self.monitor.GetReport().Sweeper.State.SweepsRun.Inc()

	now := time.Now()
	expired, err := self.store.TakeExpired(ctx, now.Unix(), self.Config.Sweeper.BatchSize)
	if err != nil {
		self.monitor.GetReport().Sweeper.Errors.DbError.Inc()
		self.Log.WithError(err).Error("Failed to take expired bounties")
		return
	}

	taken = len(expired)
	self.monitor.GetReport().Sweeper.State.BountiesTakenFromDb.Add(uint64(taken))

	for _, expiredBounty := range expired {
		err = self.limiter.Wait(ctx)
		if err != nil {
			// Context cancelled, stop mid-batch
			return refunded, taken, nil
		}

		_, refundErr := self.lifecycle.AutoRefund(ctx, expiredBounty.ID, ActorSystem, now)
		switch {
		case refundErr == nil:
			refunded += 1
			self.monitor.GetReport().Sweeper.State.BountiesRefunded.Inc()

		case isPartialFailure(refundErr):
			// The refund is committed, the payout is left for the reconciler
			refunded += 1
			self.monitor.GetReport().Sweeper.State.BountiesRefunded.Inc()
			self.Log.WithError(refundErr).
				WithField("id", expiredBounty.ID).
				Warn("Auto-refund committed with an unsettled payout")

		case isDenied(refundErr):
			// Someone claimed or refunded it since the select, that's fine
			self.monitor.GetReport().Sweeper.State.RefundsDenied.Inc()

		default:
			self.monitor.GetReport().Sweeper.Errors.RefundError.Inc()
			self.Log.WithError(refundErr).
				WithField("id", expiredBounty.ID).
				Warn("Failed to auto-refund expired bounty")
		}
	}
	return
}

func isPartialFailure(err error) bool {
	var partialErr *bounty.PartialFailureError
	return errors.As(err, &partialErr)
}

func isDenied(err error) bool {
	var transitionErr *bounty.TransitionError
	return errors.As(err, &transitionErr) ||
		errors.Is(err, bounty.ErrNotFound) ||
		errors.Is(err, bounty.ErrConcurrentModification)
}

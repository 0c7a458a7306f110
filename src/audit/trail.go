package audit

import (
	"github.com/algoease/escrow/src/bounty"
	"github.com/algoease/escrow/src/utils/config"
	"github.com/algoease/escrow/src/utils/model"
	"github.com/algoease/escrow/src/utils/monitoring"
	"github.com/algoease/escrow/src/utils/task"
)

// Trail drains lifecycle events into the append-only audit table.
// Events are batched, a failed save is retried with backoff.
type Trail struct {
	*task.Task

	store   bounty.Store
	monitor monitoring.Monitor

	input  chan *bounty.Event
	cancel func()
	hole   *task.Hole[*bounty.Event]
}

func NewTrail(config *config.Config) (self *Trail) {
	self = new(Trail)

	self.hole = task.NewHole[*bounty.Event](config, "audit-hole").
		WithBatchSize(config.Audit.BatchSize).
		WithOnFlush(config.Audit.FlushInterval, self.save).
		WithBackoff(config.Audit.MaxElapsedTime, config.Audit.MaxInterval)

	self.Task = task.NewTask(config, "audit").
		WithSubtask(self.hole.Task).
		WithOnStop(func() {
			// Closes the subscription channel so the hole flushes and exits
			if self.cancel != nil {
				self.cancel()
			}
		})

	return
}

func (self *Trail) WithStore(store bounty.Store) *Trail {
	self.store = store
	return self
}

func (self *Trail) WithMonitor(monitor monitoring.Monitor) *Trail {
	self.monitor = monitor
	return self
}

func (self *Trail) WithBus(bus *bounty.EventBus) *Trail {
	self.input, self.cancel = bus.Subscribe()
	self.hole.WithInputChannel(self.input)
	return self
}

func (self *Trail) save(events []*bounty.Event) (err error) {
	if len(events) == 0 {
		return nil
	}

	rows := make([]*model.BountyEvent, 0, len(events))
	for _, event := range events {
		rows = append(rows, event.ToModel())
	}

	err = self.store.SaveEvents(self.Ctx, rows)
	if err != nil {
		self.monitor.GetReport().Audit.Errors.DbError.Inc()
		return
	}

	self.monitor.GetReport().Audit.State.EventsSaved.Add(uint64(len(rows)))
	return
}

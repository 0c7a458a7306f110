package serve

import (
	"github.com/algoease/escrow/src/audit"
	"github.com/algoease/escrow/src/bounty"
	"github.com/algoease/escrow/src/gateway"
	"github.com/algoease/escrow/src/ledger"
	"github.com/algoease/escrow/src/reconcile"
	"github.com/algoease/escrow/src/sweep"
	"github.com/algoease/escrow/src/utils/config"
	"github.com/algoease/escrow/src/utils/model"
	"github.com/algoease/escrow/src/utils/monitoring"
	monitor_escrow "github.com/algoease/escrow/src/utils/monitoring/escrow"
	"github.com/algoease/escrow/src/utils/publisher"
	"github.com/algoease/escrow/src/utils/task"
)

type Controller struct {
	*task.Task
}

// Orchestrates the escrow service: gateway, sweeper, reconciler, audit
// trail, event publisher and monitoring under one task tree
func NewController(config *config.Config) (self *Controller, err error) {
	self = new(Controller)
	self.Task = task.NewTask(config, "serve-controller")

	monitor := monitor_escrow.NewMonitor()

	monitoringServer := monitoring.NewServer(config).
		WithMonitor(monitor)

	var store bounty.Store
	if config.IsDevelopment {
		self.Log.Warn("Development mode, using the in-memory store")
		store = bounty.NewMemStore()
	} else {
		var db, err = model.NewConnection(self.Ctx, config, "serve")
		if err != nil {
			return nil, err
		}
		store = bounty.NewDbStore(db)
	}

	var escrowLedger ledger.Ledger
	if config.IsDevelopment {
		self.Log.Warn("Development mode, fund transfers are not sent anywhere")
		escrowLedger = ledger.NewMock()
	} else {
		escrowLedger = ledger.NewClient(&config.Ledger)
	}

	bus := bounty.NewEventBus(config.Gateway.EventStreamBuffer)

	lifecycle := bounty.NewLifecycle(config).
		WithStore(store).
		WithLedger(escrowLedger).
		WithBus(bus).
		WithMonitor(monitor)

	trail := audit.NewTrail(config).
		WithStore(store).
		WithMonitor(monitor).
		WithBus(bus)

	gatewayServer := gateway.NewServer(config).
		WithLifecycle(lifecycle).
		WithBus(bus).
		WithMonitor(monitor)

	sweeper := sweep.NewSweeper(config).
		WithStore(store).
		WithLifecycle(lifecycle).
		WithMonitor(monitor)

	reconciler := reconcile.NewReconciler(config).
		WithStore(store).
		WithLedger(escrowLedger).
		WithMonitor(monitor)

	self.Task = self.Task.
		WithSubtask(monitor.Task).
		WithSubtask(monitoringServer.Task).
		WithSubtask(trail.Task).
		WithSubtask(sweeper.Task).
		WithSubtask(reconciler.Task).
		WithSubtask(gatewayServer.Task)

	if config.Redis.Enabled {
		events, cancel := bus.Subscribe()
		redisPublisher := publisher.NewRedisPublisher[*bounty.Event](config, "redis-publisher").
			WithInputChannel(events).
			WithMonitor(monitor)

		// Closing the subscription ends the publisher's input loop
		redisPublisher.Task = redisPublisher.Task.WithOnStop(cancel)

		self.Task = self.Task.WithSubtask(redisPublisher.Task)
	}

	return
}

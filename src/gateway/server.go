package gateway

import (
	"context"
	"net/http"

	"github.com/algoease/escrow/src/bounty"
	"github.com/algoease/escrow/src/utils/config"
	"github.com/algoease/escrow/src/utils/monitoring"
	"github.com/algoease/escrow/src/utils/task"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
)

// Public REST API of the escrow service
type Server struct {
	*task.Task

	httpServer *http.Server
	Router     *gin.Engine

	lifecycle *bounty.Lifecycle
	bus       *bounty.EventBus
	monitor   monitoring.Monitor

	// Short lived GET snapshots, stale reads are fine for dashboards
	snapshots *cache.Cache
}

func NewServer(config *config.Config) (self *Server) {
	self = new(Server)

	self.Task = task.NewTask(config, "gateway").
		WithSubtaskFunc(self.run).
		WithOnStop(self.stop)

	if config.IsDevelopment {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	self.Router = gin.New()
	self.Router.Use(gin.Recovery())

	self.snapshots = cache.New(config.Gateway.SnapshotCacheTTL, 2*config.Gateway.SnapshotCacheTTL)

	self.httpServer = &http.Server{
		Addr:              self.Config.Gateway.RESTListenAddress,
		Handler:           self.Router,
		ReadHeaderTimeout: self.Config.Gateway.ServerRequestTimeout,
	}

	return
}

func (self *Server) WithLifecycle(lifecycle *bounty.Lifecycle) *Server {
	self.lifecycle = lifecycle
	return self
}

func (self *Server) WithBus(bus *bounty.EventBus) *Server {
	self.bus = bus
	return self
}

func (self *Server) WithMonitor(monitor monitoring.Monitor) *Server {
	self.monitor = monitor
	return self
}

func (self *Server) registerRoutes() {
	if self.Config.Profiler.Enabled {
		pprof.Register(self.Router, "debug/pprof")
	}

	v1 := self.Router.Group("v1")
	{
		v1.GET("health", self.monitor.OnGetHealth)
		v1.GET("state", self.monitor.OnGetState)

		v1.GET("bounties", self.onListBounties())
		v1.GET("bounties/:id", self.onGetBounty())
		v1.GET("events", self.onEvents())

		authorized := v1.Group("")
		authorized.Use(self.authorize())
		{
			authorized.POST("bounties", self.onCreateBounty())
			authorized.POST("bounties/:id/accept", self.onTransition(self.lifecycle.Accept))
			authorized.POST("bounties/:id/approve", self.onTransition(self.lifecycle.Approve))
			authorized.POST("bounties/:id/reject", self.onTransition(self.lifecycle.Reject))
			authorized.POST("bounties/:id/claim", self.onTransition(self.lifecycle.Claim))
			authorized.POST("bounties/:id/refund", self.onTransition(self.lifecycle.Refund))
			authorized.POST("bounties/:id/auto-refund", self.onTransition(self.lifecycle.AutoRefund))
		}
	}
}

func (self *Server) run() (err error) {
	self.registerRoutes()

	err = self.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		self.Log.WithError(err).Error("Failed to start REST server")
		return
	}
	return nil
}

func (self *Server) stop() {
	ctx, cancel := context.WithTimeout(context.Background(), self.Config.StopTimeout)
	defer cancel()

	err := self.httpServer.Shutdown(ctx)
	if err != nil {
		self.Log.WithError(err).Error("Failed to gracefully shutdown REST server")
		return
	}
}

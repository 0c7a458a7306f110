package gateway

import (
	"context"
	"net/http"
	"time"

	"github.com/algoease/escrow/src/bounty"
	"github.com/algoease/escrow/src/gateway/request"
	"github.com/algoease/escrow/src/gateway/response"
	. "github.com/algoease/escrow/src/utils/logger"
	"github.com/algoease/escrow/src/utils/model"

	"github.com/gin-gonic/gin"
	"github.com/teivah/onecontext"
)

// Merges the request context with the task context and caps the handling
// time, a stopping server cancels in-flight requests
func (self *Server) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	ctx, _ := onecontext.Merge(c.Request.Context(), self.Ctx)
	return context.WithTimeout(ctx, self.Config.Gateway.ServerRequestTimeout)
}

func (self *Server) onCreateBounty() gin.HandlerFunc {
	return func(c *gin.Context) {
		var in = new(request.CreateBounty)
		err := c.ShouldBindJSON(in)
		if err != nil {
			self.monitor.GetReport().Gateway.Errors.BadRequests.Inc()
			LOGE(c, err, http.StatusBadRequest).Debug("Failed to parse request")
			return
		}

		actor, err := actorAddress(c)
		if err != nil {
			self.monitor.GetReport().Gateway.Errors.Unauthorized.Inc()
			LOGE(c, err, http.StatusForbidden).Debug("Rejecting unauthenticated create")
			return
		}

		ctx, cancel := self.requestContext(c)
		defer cancel()

		created, err := self.lifecycle.Create(ctx, &bounty.CreateParams{
			ClientAddress:   actor,
			VerifierAddress: in.VerifierAddress,
			Amount:          in.Amount,
			Deadline:        in.Deadline,
			Title:           in.Title,
			Description:     in.Description,
			Tags:            in.Tags,
		}, time.Now())
		if err != nil {
			self.abortWithError(c, err)
			return
		}

		LOG(c).WithField("id", created.ID).Debug("Bounty created")
		c.JSON(http.StatusCreated, response.BountyToResponse(created))
	}
}

func (self *Server) onGetBounty() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		if cached, ok := self.snapshots.Get(id); ok {
			self.monitor.GetReport().Gateway.State.BountiesReturned.Inc()
			c.JSON(http.StatusOK, cached)
			return
		}

		ctx, cancel := self.requestContext(c)
		defer cancel()

		found, err := self.lifecycle.Get(ctx, id)
		if err != nil {
			self.abortWithError(c, err)
			return
		}

		out := response.BountyToResponse(found)
		self.snapshots.SetDefault(id, out)

		self.monitor.GetReport().Gateway.State.BountiesReturned.Inc()
		c.JSON(http.StatusOK, out)
	}
}

func (self *Server) onListBounties() gin.HandlerFunc {
	return func(c *gin.Context) {
		var in = new(request.ListBounties)
		err := c.ShouldBindQuery(in)
		if err != nil {
			self.monitor.GetReport().Gateway.Errors.BadRequests.Inc()
			LOGE(c, err, http.StatusBadRequest).Debug("Failed to parse query")
			return
		}

		// Defaults
		if in.Limit <= 0 {
			in.Limit = self.Config.Gateway.DefaultListLimit
		}
		if in.Limit > self.Config.Gateway.MaxListLimit {
			in.Limit = self.Config.Gateway.MaxListLimit
		}

		filter := &bounty.Filter{
			Address: in.Address,
			Limit:   in.Limit,
			Offset:  in.Offset,
		}
		for _, status := range in.Status {
			filter.Statuses = append(filter.Statuses, model.BountyStatus(status))
		}

		ctx, cancel := self.requestContext(c)
		defer cancel()

		bounties, err := self.lifecycle.List(ctx, filter)
		if err != nil {
			self.abortWithError(c, err)
			return
		}

		self.monitor.GetReport().Gateway.State.BountiesReturned.Add(uint64(len(bounties)))
		c.JSON(http.StatusOK, response.BountiesToResponse(bounties))
	}
}

// One handler per transition, the lifecycle method is the only difference
func (self *Server) onTransition(f func(ctx context.Context, id, actor string, now time.Time) (*model.Bounty, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		actor, err := actorAddress(c)
		if err != nil {
			self.monitor.GetReport().Gateway.Errors.Unauthorized.Inc()
			LOGE(c, err, http.StatusForbidden).Debug("Rejecting unauthenticated transition")
			return
		}

		ctx, cancel := self.requestContext(c)
		defer cancel()

		updated, err := f(ctx, id, actor, time.Now())

		// The snapshot is stale either way
		self.snapshots.Delete(id)

		if err != nil {
			self.abortWithError(c, err, updated)
			return
		}

		c.JSON(http.StatusOK, response.BountyToResponse(updated))
	}
}

func (self *Server) abortWithError(c *gin.Context, err error, updated ...*model.Bounty) {
	status, body := response.StatusFor(err)

	switch status {
	case http.StatusBadRequest:
		self.monitor.GetReport().Gateway.Errors.BadRequests.Inc()
	case http.StatusForbidden:
		self.monitor.GetReport().Gateway.Errors.Unauthorized.Inc()
	case http.StatusInternalServerError:
		self.monitor.GetReport().Gateway.Errors.DbError.Inc()
		LOG(c).WithError(err).Error("Request failed")
	}

	if status == http.StatusAccepted && len(updated) > 0 && updated[0] != nil {
		// The transition is committed, only the payout is still pending
		c.AbortWithStatusJSON(status, gin.H{
			"bounty":   response.BountyToResponse(updated[0]),
			"transfer": body,
		})
		return
	}

	c.AbortWithStatusJSON(status, body)
}

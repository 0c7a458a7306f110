package gateway

import (
	"net/http"

	. "github.com/algoease/escrow/src/utils/logger"

	"github.com/gin-gonic/gin"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

// Streams lifecycle events to dashboard clients. A slow client loses its
// oldest events rather than stalling the publisher.
func (self *Server) onEvents() gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := websocket.Accept(c.Writer, c.Request, nil)
		if err != nil {
			LOGE(c, err, http.StatusBadRequest).Debug("Failed to upgrade connection")
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "")

		events, cancel := self.bus.Subscribe()
		defer cancel()

		LOG(c).Debug("Event stream opened")

		for {
			select {
			case <-self.StopChannel:
				return
			case <-c.Request.Context().Done():
				return
			case event, ok := <-events:
				if !ok {
					return
				}
				err = wsjson.Write(c.Request.Context(), conn, event)
				if err != nil {
					LOG(c).WithError(err).Debug("Event stream closed")
					return
				}
				self.monitor.GetReport().Gateway.State.EventsStreamed.Inc()
			}
		}
	}
}

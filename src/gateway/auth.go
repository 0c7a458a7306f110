package gateway

import (
	"errors"
	"net/http"
	"strings"

	. "github.com/algoease/escrow/src/utils/logger"

	"github.com/gin-gonic/gin"
	"github.com/lestrrat-go/jwx/jwa"
	"github.com/lestrrat-go/jwx/jwt"
)

const actorKey = "actor_address"

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrMissingClaim = errors.New("token is missing the address claim")
	ErrNoAuthConfig = errors.New("auth secret is not configured")
	ErrMissingActor = errors.New("actor address is not set")
)

// Verifies the bearer token and stores the caller's ledger address in the
// request context. Development mode accepts a plain header instead.
func (self *Server) authorize() gin.HandlerFunc {
	return func(c *gin.Context) {
		if self.Config.IsDevelopment {
			actor := c.GetHeader("X-Actor-Address")
			if actor != "" {
				c.Set(actorKey, actor)
				c.Next()
				return
			}
		}

		if self.Config.Auth.Secret == "" {
			self.monitor.GetReport().Gateway.Errors.Unauthorized.Inc()
			LOGE(c, ErrNoAuthConfig, http.StatusForbidden).Error("Rejecting request, no auth secret")
			return
		}

		header := c.GetHeader("Authorization")
		raw, found := strings.CutPrefix(header, "Bearer ")
		if !found {
			self.monitor.GetReport().Gateway.Errors.Unauthorized.Inc()
			LOGE(c, ErrMissingToken, http.StatusForbidden).Debug("Rejecting request without a token")
			return
		}

		token, err := jwt.Parse([]byte(raw),
			jwt.WithVerify(jwa.HS256, []byte(self.Config.Auth.Secret)),
			jwt.WithValidate(true))
		if err != nil {
			self.monitor.GetReport().Gateway.Errors.Unauthorized.Inc()
			LOGE(c, err, http.StatusForbidden).Debug("Rejecting request with an invalid token")
			return
		}

		claim, ok := token.Get(self.Config.Auth.AddressClaim)
		if !ok {
			self.monitor.GetReport().Gateway.Errors.Unauthorized.Inc()
			LOGE(c, ErrMissingClaim, http.StatusForbidden).Debug("Rejecting token without an address")
			return
		}

		actor, ok := claim.(string)
		if !ok || actor == "" {
			self.monitor.GetReport().Gateway.Errors.Unauthorized.Inc()
			LOGE(c, ErrMissingClaim, http.StatusForbidden).Debug("Rejecting token with a malformed address")
			return
		}

		c.Set(actorKey, actor)
		c.Next()
	}
}

func actorAddress(c *gin.Context) (string, error) {
	actor := c.GetString(actorKey)
	if actor == "" {
		return "", ErrMissingActor
	}
	return actor, nil
}

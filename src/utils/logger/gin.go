package logger

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var ginLogger = NewSublogger("gateway")

// LOG returns a logger preloaded with request fields
func LOG(c *gin.Context) *logrus.Entry {
	return ginLogger.WithFields(logrus.Fields{
		"method": c.Request.Method,
		"path":   c.Request.URL.Path,
	})
}

// LOGE aborts the request with the given status, attaches the error to the
// response body and returns a logger to describe what happened
func LOGE(c *gin.Context, err error, status int) *logrus.Entry {
	if err == nil {
		err = http.ErrAbortHandler
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
	return LOG(c).WithError(err)
}

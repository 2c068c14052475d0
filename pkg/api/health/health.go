package health

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handler for health API
func Handler(signalCtx context.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		select {
		// after a sigterm/sigint the readiness probe fails so the instance is
		// removed from traffic before the listener stops
		case <-signalCtx.Done():
			c.Data(http.StatusInternalServerError, gin.MIMEPlain, []byte(http.StatusText(http.StatusInternalServerError)))
		default:
			c.Data(http.StatusOK, gin.MIMEPlain, []byte(http.StatusText(http.StatusOK)))
		}
	}
}

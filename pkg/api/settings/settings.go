// Package settings exposes the configuration checks consumed by the
// external configuration layer.
package settings

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stashnotify/stashnotify/pkg/hostvalidator"
	"github.com/stashnotify/stashnotify/pkg/lumber"
)

type hostValidationRequest struct {
	Host string `json:"host" binding:"required"`
}

// HandleHostValidation validates a candidate status host value.
func HandleHostValidation(logger lumber.Logger) gin.HandlerFunc {
	validator := hostvalidator.New()
	return func(c *gin.Context) {
		var req hostValidationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		if err := validator.ValidateHost(req.Host); err != nil {
			logger.Debugf("rejected status host %s: %v", req.Host, err)
			c.JSON(http.StatusOK, gin.H{"valid": false, "message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"valid": true})
	}
}

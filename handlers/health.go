package handlers

import (
	"net/http"

	"github.com/tmurray-at-tygershark/solushipX-sub005/utils"

	"github.com/gin-gonic/gin"
)

// Health returns the latest external-service health snapshot.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, utils.GetHealthStatus())
}

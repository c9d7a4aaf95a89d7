package routes

import (
	"github.com/tmurray-at-tygershark/solushipX-sub005/handlers"

	"github.com/gin-gonic/gin"
)

// HandlerBundle collects the handlers the router needs.
type HandlerBundle struct {
	Shipment *handlers.ShipmentHandler
	Device   *handlers.DeviceHandler
}

// RegisterRoutes wires all endpoints onto the router.
func RegisterRoutes(r *gin.Engine, bundle *HandlerBundle) {
	r.GET("/health", handlers.Health)

	RegisterShipmentRoutes(r, bundle)
}

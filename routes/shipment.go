package routes

import (
	"github.com/tmurray-at-tygershark/solushipX-sub005/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterShipmentRoutes registers all endpoints for the shipment draft and
// booking flow.
func RegisterShipmentRoutes(r *gin.Engine, bundle *HandlerBundle) {
	shipments := r.Group("/api/shipments")
	shipments.Use(middleware.OperatorAuthMiddleware())
	{
		shipments.POST("/session", bundle.Shipment.OpenSession)                    // create or resume a draft
		shipments.GET("/session/:sessionID", bundle.Shipment.GetSession)           // current editing state
		shipments.PUT("/session/:sessionID/step", bundle.Shipment.AdvanceStep)     // advance with payload
		shipments.POST("/session/:sessionID/back", bundle.Shipment.RetreatStep)    // one step back
		shipments.POST("/session/:sessionID/jump", bundle.Shipment.JumpToStep)     // arbitrary step
		shipments.PUT("/session/:sessionID/rate", bundle.Shipment.BindRate)        // bind selected rate
		shipments.POST("/session/:sessionID/book", bundle.Shipment.Book)           // commit booking
		shipments.POST("/session/:sessionID/close", bundle.Shipment.CloseSession)  // back to listing
		shipments.GET("/:key/booking", bundle.Shipment.BookingStatus)              // last attempt for a draft
	}

	devices := r.Group("/api/devices")
	devices.Use(middleware.OperatorAuthMiddleware())
	{
		devices.POST("/token", bundle.Device.RegisterToken)
	}
}

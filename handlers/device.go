package handlers

import (
	"net/http"

	"github.com/tmurray-at-tygershark/solushipX-sub005/services/notification"
	"github.com/tmurray-at-tygershark/solushipX-sub005/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DeviceHandler registers operator device tokens for push notifications.
type DeviceHandler struct {
	svc    notification.NotificationService
	logger *zap.Logger
}

func NewDeviceHandler(svc notification.NotificationService, logger *zap.Logger) *DeviceHandler {
	return &DeviceHandler{svc: svc, logger: logger}
}

// RegisterToken stores the caller's FCM device token.
func (h *DeviceHandler) RegisterToken(c *gin.Context) {
	var input struct {
		Token string `json:"token"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.Token == "" {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "token is required")
		return
	}

	operator := operatorFromContext(c)
	if err := h.svc.RegisterDeviceToken(c.Request.Context(), operator.CompanyID, operator.UserID, input.Token); err != nil {
		h.logger.Warn("failed to register device token", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to register device token", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"registered": true})
}

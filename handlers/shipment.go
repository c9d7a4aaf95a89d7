package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	draftRepo "github.com/tmurray-at-tygershark/solushipX-sub005/database/repository/draft"
	"github.com/tmurray-at-tygershark/solushipX-sub005/models"
	"github.com/tmurray-at-tygershark/solushipX-sub005/services/shipment"
	"github.com/tmurray-at-tygershark/solushipX-sub005/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ShipmentHandler exposes the draft editing session and booking endpoints.
type ShipmentHandler struct {
	svc    shipment.ShipmentSessionService
	logger *zap.Logger
}

func NewShipmentHandler(svc shipment.ShipmentSessionService, logger *zap.Logger) *ShipmentHandler {
	return &ShipmentHandler{svc: svc, logger: logger}
}

func operatorFromContext(c *gin.Context) models.Owner {
	return models.Owner{
		CompanyID: c.GetString("companyID"),
		UserID:    c.GetString("userID"),
	}
}

// OpenSession creates a new draft or resumes an existing one by key.
func (h *ShipmentHandler) OpenSession(c *gin.Context) {
	var input struct {
		DraftKey string `json:"draftKey"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
			return
		}
	}

	state, err := h.svc.OpenSession(c.Request.Context(), operatorFromContext(c), input.DraftKey)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// GetSession returns the current editing state.
func (h *ShipmentHandler) GetSession(c *gin.Context) {
	state, err := h.svc.GetSession(c.Request.Context(), operatorFromContext(c), c.Param("sessionID"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// AdvanceStep merges the payload into the current step and moves forward.
func (h *ShipmentHandler) AdvanceStep(c *gin.Context) {
	var input struct {
		Payload json.RawMessage `json:"payload"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	state, err := h.svc.AdvanceStep(c.Request.Context(), operatorFromContext(c), c.Param("sessionID"), input.Payload)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// RetreatStep moves back one step.
func (h *ShipmentHandler) RetreatStep(c *gin.Context) {
	state, err := h.svc.RetreatStep(c.Request.Context(), operatorFromContext(c), c.Param("sessionID"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// JumpToStep moves to an arbitrary step without validating intermediates.
func (h *ShipmentHandler) JumpToStep(c *gin.Context) {
	var input struct {
		Step *int `json:"step"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.Step == nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "step is required")
		return
	}

	state, err := h.svc.JumpToStep(c.Request.Context(), operatorFromContext(c), c.Param("sessionID"), *input.Step)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// BindRate records the operator's rate selection on the session.
func (h *ShipmentHandler) BindRate(c *gin.Context) {
	var binding models.RateBinding
	if err := c.ShouldBindJSON(&binding); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	state, err := h.svc.BindRate(c.Request.Context(), operatorFromContext(c), c.Param("sessionID"), binding)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// Book commits the draft: reservation, carrier-specific document generation,
// terminal outcome.
func (h *ShipmentHandler) Book(c *gin.Context) {
	attempt, err := h.svc.Book(c.Request.Context(), operatorFromContext(c), c.Param("sessionID"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	status := http.StatusOK
	if attempt.Phase == models.PhaseError {
		// The reservation failed but the draft stays processing and is
		// retryable; surface that distinctly from a completed outcome.
		status = http.StatusBadGateway
	}
	c.JSON(status, attempt)
}

// BookingStatus returns the most recent booking attempt for a draft.
func (h *ShipmentHandler) BookingStatus(c *gin.Context) {
	attempt, err := h.svc.LastAttempt(c.Request.Context(), c.Param("key"))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to load booking status", err.Error())
		return
	}
	if attempt == nil {
		utils.JSONError(c, http.StatusNotFound, "no booking attempt found", "")
		return
	}
	c.JSON(http.StatusOK, attempt)
}

// CloseSession returns the operator to the listing view and clears the
// session state.
func (h *ShipmentHandler) CloseSession(c *gin.Context) {
	if err := h.svc.CloseSession(c.Request.Context(), operatorFromContext(c), c.Param("sessionID")); err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"closed": true})
}

func (h *ShipmentHandler) writeServiceError(c *gin.Context, err error) {
	var payloadErr *shipment.SectionPayloadError
	var incompleteErr *shipment.IncompleteDraftError

	switch {
	case errors.Is(err, shipment.ErrSessionNotFound):
		utils.JSONError(c, http.StatusNotFound, "session not found or expired", "")
	case errors.Is(err, shipment.ErrDraftAccessDenied):
		utils.JSONError(c, http.StatusForbidden, "draft access denied", "")
	case errors.Is(err, shipment.ErrDraftNotEditable):
		utils.JSONError(c, http.StatusConflict, "draft is no longer editable", "")
	case errors.Is(err, shipment.ErrBookingInFlight):
		utils.JSONError(c, http.StatusConflict, "booking already in progress", "")
	case errors.Is(err, shipment.ErrNoRateBound):
		utils.JSONError(c, http.StatusBadRequest, "no rate bound to draft", "")
	case errors.Is(err, shipment.ErrAtFirstStep), errors.Is(err, shipment.ErrAtFinalStep):
		utils.JSONError(c, http.StatusBadRequest, "navigation out of bounds", err.Error())
	case errors.As(err, &payloadErr):
		utils.JSONError(c, http.StatusBadRequest, "invalid section payload", payloadErr.Error())
	case errors.As(err, &incompleteErr):
		utils.JSONError(c, http.StatusBadRequest, "draft incomplete", incompleteErr.Error())
	case errors.Is(err, draftRepo.ErrNotFound):
		utils.JSONError(c, http.StatusNotFound, "draft not found", "")
	default:
		h.logger.Error("shipment handler error", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "internal error", err.Error())
	}
}

package handlers

import (
	"errors"
	"net/http"

	"bookpilot/models"
	"bookpilot/services/booking"
	"bookpilot/services/tasks"
	"bookpilot/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes the pipeline over HTTP.
type BookingHandler struct {
	Session   *booking.SessionService
	Reminders *tasks.ReminderScheduler
	Logger    *zap.Logger
}

// NewBookingHandler builds the handler set.
func NewBookingHandler(session *booking.SessionService, reminders *tasks.ReminderScheduler, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Session: session, Reminders: reminders, Logger: logger}
}

// Run executes the full pipeline: search, rank, reserve, book.
func (h *BookingHandler) Run(c *gin.Context) {
	var prefs models.Preferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.Session.Orchestrator.Run(c.Request.Context(), prefs)
	if err != nil {
		h.pipelineError(c, err)
		return
	}

	h.Reminders.Schedule(result.Booking)
	c.JSON(http.StatusOK, result)
}

// Propose runs discovery and ranking only, returning the best candidate
// and a proposal ID for later confirmation.
func (h *BookingHandler) Propose(c *gin.Context) {
	var prefs models.Preferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	proposalID, proposal, err := h.Session.Propose(c.Request.Context(), prefs)
	if err != nil {
		h.pipelineError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"proposalId": proposalID,
		"proposal":   proposal,
	})
}

// ConfirmRequest selects a proposed pair: either a stored proposal ID
// or an inline provider+slot pair.
type ConfirmRequest struct {
	ProposalID string           `json:"proposalId,omitempty"`
	Provider   *models.Provider `json:"provider,omitempty"`
	Slot       *models.Slot     `json:"slot,omitempty"`
}

// Confirm reserves and books a previously proposed pair.
func (h *BookingHandler) Confirm(c *gin.Context) {
	var req ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if req.ProposalID == "" && (req.Provider == nil || req.Slot == nil) {
		utils.JSONError(c, http.StatusBadRequest, "invalid request body",
			"a proposalId or a provider and slot pair is required")
		return
	}

	result, transcript, err := h.Session.Confirm(c.Request.Context(), req.ProposalID, req.Provider, req.Slot)
	if err != nil {
		var pe *booking.PipelineError
		if errors.As(err, &pe) {
			c.JSON(http.StatusConflict, gin.H{
				"booking":    result,
				"reason":     pe.Code,
				"message":    pe.Message,
				"transcript": pe.Transcript,
			})
			return
		}
		utils.JSONError(c, http.StatusNotFound, "confirmation failed", err.Error())
		return
	}

	h.Reminders.Schedule(result)
	c.JSON(http.StatusOK, gin.H{
		"booking":    result,
		"transcript": transcript,
	})
}

// pipelineError maps pipeline failures to HTTP responses. The failure
// transcript always ships with the response so the caller can see
// which providers were tried and why each was rejected.
func (h *BookingHandler) pipelineError(c *gin.Context, err error) {
	var pe *booking.PipelineError
	if !errors.As(err, &pe) {
		h.Logger.Error("pipeline failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "pipeline failed", err.Error())
		return
	}

	status := http.StatusInternalServerError
	switch pe.Code {
	case booking.ReasonInvalidPreferences:
		status = http.StatusBadRequest
	case booking.ReasonNoCandidates, booking.ReasonNoAvailability:
		status = http.StatusNotFound
	case booking.ReasonBookingConflict, booking.ReasonExhaustedCandidates:
		status = http.StatusConflict
	}

	c.JSON(status, gin.H{
		"reason":     pe.Code,
		"message":    pe.Message,
		"transcript": pe.Transcript,
	})
}

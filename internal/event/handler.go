package event

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/greenroots/greenroots-backend/internal/submission"
)

type Handler struct {
	Service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{Service: s}
}

// ListEvents godoc
// @Summary Events shown on the landing page
// @Description Non-cancelled events, upcoming first, at most six
// @Tags Events
// @Produce json
// @Success 200 {array} View
// @Failure 503 {object} map[string]string
// @Router /api/v1/events [get]
func (h *Handler) ListEvents(c *gin.Context) {
	views, err := h.Service.ListEvents(c.Request.Context())
	if err != nil {
		log.Printf("❌ Failed to load events: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Unable to load events"})
		return
	}
	c.JSON(http.StatusOK, views)
}

// GetEvent godoc
// @Summary One event
// @Tags Events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} View
// @Failure 404 {object} map[string]string
// @Router /api/v1/events/{id} [get]
func (h *Handler) GetEvent(c *gin.Context) {
	v, err := h.Service.GetEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// Register godoc
// @Summary Register for an event
// @Tags Events
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param body body RegisterRequest true "Registration"
// @Success 201 {object} submission.Result
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/v1/events/{id}/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.Service.Register(c.Request.Context(), c.Param("id"), req, submission.MetaFromRequest(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrEventNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrRegistrationClosed), errors.Is(err, ErrEventCancelled):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, ErrInvalidSchedule):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		submission.WriteError(c, err)
	}
}

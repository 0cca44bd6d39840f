package pipeline

import (
	"bytes"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/greenroots/greenroots-backend/internal/auditlog"
	"github.com/greenroots/greenroots-backend/internal/content"
	"github.com/greenroots/greenroots-backend/middleware"
)

var ErrReadOnlyStore = errors.New("content store does not accept writes")

type Handler struct {
	Pipeline  *Pipeline
	Publisher content.Publisher
	AuditSvc  auditlog.Service
}

// NewHandler serves the page and its sections. publisher is nil when the
// content store is read-only.
func NewHandler(p *Pipeline, publisher content.Publisher, auditSvc auditlog.Service) *Handler {
	return &Handler{Pipeline: p, Publisher: publisher, AuditSvc: auditSvc}
}

// Page serves the current rendered document.
func (h *Handler) Page(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.Pipeline.Document().Render(&buf); err != nil {
		log.Printf("❌ Page render failed: %v", err)
		c.String(http.StatusInternalServerError, "page unavailable")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// GetSection godoc
// @Summary Get a content section
// @Description Returns a section merged with its defaults, the way the page renders it
// @Tags Content
// @Produce json
// @Param section path string true "Section" Enums(hero, about, impact, testimonials, events, gallery)
// @Success 200 {object} SectionData
// @Failure 404 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /api/v1/content/{section} [get]
func (h *Handler) GetSection(c *gin.Context) {
	s, err := content.ParseSection(c.Param("section"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	data, err := h.Pipeline.Resolve(c.Request.Context(), s)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to load " + string(s)})
		return
	}
	c.JSON(http.StatusOK, data)
}

// PublishSection godoc
// @Summary Publish a content section
// @Description Replaces the stored document of a section. A null body deletes it.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param section path string true "Section"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 501 {object} map[string]string
// @Router /api/v1/admin/content/{section} [put]
func (h *Handler) PublishSection(c *gin.Context) {
	s, err := content.ParseSection(c.Param("section"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if h.Publisher == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": ErrReadOnlyStore.Error()})
		return
	}

	var value any
	if err := c.ShouldBindJSON(&value); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON document"})
		return
	}

	ctx := c.Request.Context()
	status := auditlog.StatusSuccess
	err = h.Publisher.Publish(ctx, s.Path(), value)
	if err != nil {
		status = auditlog.StatusFailure
	}
	if h.AuditSvc != nil {
		if err := h.AuditSvc.LogAction(ctx, middleware.AdminEmail(c), string(s), auditlog.ActionContentPublished,
			map[string]interface{}{"deleted": value == nil}, middleware.GetIPFromContext(c), status); err != nil {
			log.Printf("⚠️ Audit log failed for %s: %v", auditlog.ActionContentPublished, err)
		}
	}
	if err != nil {
		log.Printf("❌ Publish of %s failed: %v", s, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to publish " + string(s)})
		return
	}

	// Stores without change notifications would otherwise keep the old
	// render until the next poll.
	if !h.Pipeline.Running() {
		h.Pipeline.Load(ctx, s)
	}
	c.JSON(http.StatusOK, gin.H{"message": "Section " + string(s) + " published"})
}

package submission

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/greenroots/greenroots-backend/internal/auditlog"
	"github.com/greenroots/greenroots-backend/middleware"
)

type Handler struct {
	Service  *Service
	AuditSvc auditlog.Service
}

func NewHandler(s *Service, auditSvc auditlog.Service) *Handler {
	return &Handler{Service: s, AuditSvc: auditSvc}
}

// MetaFromRequest is the submission metadata of a request.
func MetaFromRequest(c *gin.Context) Meta {
	m := middleware.GetRequestMeta(c)
	return Meta{IP: m.IP, UserAgent: m.UserAgent, Referrer: m.Referrer}
}

// readFields accepts a JSON object or a regular form post.
func readFields(c *gin.Context) (map[string]any, error) {
	fields := map[string]any{}
	if strings.HasPrefix(c.ContentType(), "application/json") {
		if err := c.ShouldBindJSON(&fields); err != nil {
			return nil, err
		}
		return fields, nil
	}
	if err := c.Request.ParseForm(); err != nil {
		return nil, err
	}
	for k, v := range c.Request.PostForm {
		if len(v) > 0 {
			fields[k] = v[0]
		}
	}
	return fields, nil
}

// WriteError maps a Save error to a response.
func WriteError(c *gin.Context, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message, "field": verr.Field})
	case errors.Is(err, ErrUnknownCollection):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		log.Printf("❌ Submission failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "There was an error submitting your form. Please try again."})
	}
}

// Submit godoc
// @Summary Submit a form
// @Description Stores a form submission; falls back to local storage when the remote store fails
// @Tags Submissions
// @Accept json
// @Produce json
// @Param collection path string true "Collection" Enums(event-registrations, school-registrations, event-planning, contact-submissions, story-submissions, work-submissions)
// @Success 201 {object} Result
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/submissions/{collection} [post]
func (h *Handler) Submit(c *gin.Context) {
	collection, err := ParseCollection(c.Param("collection"))
	if err != nil {
		WriteError(c, err)
		return
	}
	fields, err := readFields(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form data"})
		return
	}

	result, err := h.Service.Save(c.Request.Context(), collection, fields, MetaFromRequest(c))
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// ===============================
// Admin
// ===============================

// ListSubmissions godoc
// @Summary List stored submissions
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/admin/submissions [get]
func (h *Handler) ListSubmissions(c *gin.Context) {
	summaries, err := h.Service.Summaries(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read submissions"})
		return
	}
	counts := make(map[Collection]int, len(summaries))
	total := 0
	for _, s := range summaries {
		counts[s.Collection] = s.Count
		total += s.Count
	}
	c.JSON(http.StatusOK, gin.H{"data": summaries, "counts": counts, "total": total})
}

// ExportSubmissions godoc
// @Summary Export one collection
// @Tags Admin
// @Produce octet-stream
// @Security BearerAuth
// @Param collection path string true "Collection"
// @Param format query string false "csv, xlsx or pdf (default csv)"
// @Success 200 {file} file
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/admin/submissions/{collection}/export [get]
func (h *Handler) ExportSubmissions(c *gin.Context) {
	collection, err := ParseCollection(c.Param("collection"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	format := strings.ToLower(c.DefaultQuery("format", FormatCSV))

	data, filename, mime, err := h.Service.Export(c.Request.Context(), collection, format)
	switch {
	case errors.Is(err, ErrNothingToExport):
		c.JSON(http.StatusNotFound, gin.H{"error": "No submissions stored for " + string(collection)})
		return
	case errors.Is(err, ErrUnsupportedFormat):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		log.Printf("❌ Export of %s failed: %v", collection, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export submissions"})
		return
	}

	if h.AuditSvc != nil {
		if err := h.AuditSvc.LogAction(c.Request.Context(), middleware.AdminEmail(c), string(collection), auditlog.ActionSubmissionsExport,
			map[string]interface{}{"format": format}, middleware.GetIPFromContext(c), auditlog.StatusSuccess); err != nil {
			log.Printf("⚠️ Audit log failed for %s: %v", auditlog.ActionSubmissionsExport, err)
		}
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, mime, data)
}

// ClearSubmissions godoc
// @Summary Clear all stored submissions
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Router /api/v1/admin/submissions [delete]
func (h *Handler) ClearSubmissions(c *gin.Context) {
	if err := h.Service.ClearAll(c.Request.Context(), middleware.AdminEmail(c), middleware.GetIPFromContext(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear submissions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All data cleared successfully!"})
}

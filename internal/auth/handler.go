package auth

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/greenroots/greenroots-backend/internal/auditlog"
)

type Handler struct {
	service  Service
	auditSvc auditlog.Service
}

func NewHandler(s Service, auditSvc auditlog.Service) *Handler {
	return &Handler{service: s, auditSvc: auditSvc}
}

// ===============================
// Login
// ===============================

type loginReq struct {
	Email    string `json:"email" binding:"required,email" example:"admin@greenroots.org"`
	Password string `json:"password" binding:"required" example:"secret123"`
}

// Login godoc
// @Summary Admin login
// @Description Exchanges the admin email and password for an access token
// @Tags Admin
// @Accept json
// @Produce json
// @Param body body loginReq true "Credentials"
// @Success 200 {object} Token
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /api/v1/admin/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.service.Login(LoginInput{Email: req.Email, Password: req.Password})
	status := auditlog.StatusSuccess
	if err != nil {
		status = auditlog.StatusFailure
	}
	if h.auditSvc != nil {
		ip := c.GetString("client_ip")
		if ip == "" {
			ip = c.ClientIP()
		}
		if err := h.auditSvc.LogAction(c.Request.Context(), req.Email, "", auditlog.ActionAdminLogin, nil, ip, status); err != nil {
			log.Printf("⚠️ Audit log failed for %s: %v", auditlog.ActionAdminLogin, err)
		}
	}

	switch {
	case errors.Is(err, ErrAdminDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Admin login is not available"})
	case err != nil:
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Login failed. Please check your credentials."})
	default:
		c.JSON(http.StatusOK, token)
	}
}

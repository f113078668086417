package handler

import (
	"net/http"

	"ecopark/internal/middleware"
	"ecopark/internal/model"
	"ecopark/internal/service"
	"ecopark/pkg/pagination"
	"ecopark/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	auditService service.AuditService
}

func NewAuditHandler(auditService service.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/audit-logs")
	group.Use(middleware.RequireRole(model.RoleAuditor, model.RoleAdmin))
	{
		group.GET("", h.GetAuditLogs)
	}
}

// GetAuditLogs returns the audit trail, newest first
// @Summary      Get audit logs
// @Description  Lists submissions, decisions, donations and account changes with the acting user
// @Tags         audit
// @Security     BearerAuth
// @Produce      json
// @Param        action     query     string  false  "Action filter, e.g. APPROVE_REQUEST"
// @Param        entity_id  query     string  false  "Entity ID filter"
// @Param        page       query     int     false  "Page number (default 1)"
// @Param        limit      query     int     false  "Number of items per page (default 20)"
// @Success      200    {object}  response.Response{data=response.Page{items=[]service.AuditLogResponse}}
// @Router       /api/audit-logs [get]
func (h *AuditHandler) GetAuditLogs(c *gin.Context) {
	p := pagination.Parse(c)

	logs, total, err := h.auditService.GetAuditLogs(c.Request.Context(), service.AuditFilter{
		Action:   c.Query("action"),
		EntityID: c.Query("entity_id"),
		Page:     p.Page,
		Limit:    p.Limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, response.Page{
		Items: logs,
		Total: total,
		Page:  p.Page,
		Limit: p.Limit,
	}))
}

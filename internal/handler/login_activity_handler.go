package handler

import (
	"net/http"
	"strconv"

	"ecopark/internal/middleware"
	"ecopark/internal/model"
	"ecopark/internal/service"
	"ecopark/pkg/response"

	"github.com/gin-gonic/gin"
)

type LoginActivityHandler struct {
	activity service.LoginActivityService
}

func NewLoginActivityHandler(activity service.LoginActivityService) *LoginActivityHandler {
	return &LoginActivityHandler{activity: activity}
}

func (h *LoginActivityHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/admin")
	group.Use(middleware.RequireRole(model.RoleAdmin))
	{
		group.GET("/recent-logins", h.RecentLogins)
		group.GET("/login-metrics", h.LoginMetrics)
	}
}

// RecentLogins handles GET /api/admin/recent-logins
// @Summary      Most recent logins
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Number of logins (default 5, max 50)"
// @Success      200    {object}  response.Response{data=[]service.RecentLoginResponse}
// @Failure      403    {object}  response.Response
// @Router       /api/admin/recent-logins [get]
func (h *LoginActivityHandler) RecentLogins(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	logins, err := h.activity.RecentLogins(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, logins))
}

// LoginMetrics handles GET /api/admin/login-metrics
// @Summary      Logins per month
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        months  query     int  false  "Number of months ending with the current one (default 12, max 36)"
// @Success      200     {object}  response.Response{data=[]service.MonthlyLogins}
// @Failure      403     {object}  response.Response
// @Router       /api/admin/login-metrics [get]
func (h *LoginActivityHandler) LoginMetrics(c *gin.Context) {
	months, _ := strconv.Atoi(c.Query("months"))

	metrics, err := h.activity.LoginMetrics(c.Request.Context(), months)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, metrics))
}

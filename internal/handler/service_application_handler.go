package handler

import (
	"net/http"

	"ecopark/internal/access"
	"ecopark/internal/middleware"
	"ecopark/internal/model"
	"ecopark/internal/service"
	"ecopark/pkg/pagination"
	"ecopark/pkg/response"

	"github.com/gin-gonic/gin"
)

type ServiceApplicationHandler struct {
	service service.ServiceApplicationService
}

func NewServiceApplicationHandler(svc service.ServiceApplicationService) *ServiceApplicationHandler {
	return &ServiceApplicationHandler{service: svc}
}

// RegisterPublicRoutes binds the application form endpoint.
func (h *ServiceApplicationHandler) RegisterPublicRoutes(router *gin.RouterGroup, limit gin.HandlerFunc) {
	router.POST("/api/services", limit, h.Apply)
}

func (h *ServiceApplicationHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/service-applications")
	{
		group.GET("", middleware.RequireAction(model.KindServiceApplication, access.View), h.List)
		group.PUT("/:id/review", middleware.RequireAction(model.KindServiceApplication, access.Review), h.Review)
	}
}

// Apply handles POST /api/services
// @Summary      Apply as a service provider
// @Tags         services
// @Accept       json
// @Produce      json
// @Param        payload  body      service.ApplyServiceRequestDTO  true  "Application"
// @Success      201      {object}  response.Response{data=service.ServiceApplicationResponse}
// @Failure      400      {object}  response.Response
// @Failure      429      {object}  response.Response
// @Router       /api/services [post]
func (h *ServiceApplicationHandler) Apply(c *gin.Context) {
	var req service.ApplyServiceRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	res, err := h.service.Apply(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, res))
}

// List handles GET /api/service-applications
// @Summary      List service-provider applications
// @Tags         services
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "pending, approved, rejected or all"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Number of items per page (default 20)"
// @Success      200     {object}  response.Response{data=response.Page{items=[]service.ServiceApplicationResponse}}
// @Failure      403     {object}  response.Response
// @Router       /api/service-applications [get]
func (h *ServiceApplicationHandler) List(c *gin.Context) {
	actor, _ := middleware.CurrentActor(c)
	p := pagination.Parse(c)

	items, total, err := h.service.List(c.Request.Context(), actor, c.Query("status"), p.Page, p.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, response.Page{
		Items: items,
		Total: total,
		Page:  p.Page,
		Limit: p.Limit,
	}))
}

// Review handles PUT /api/service-applications/:id/review
// @Summary      Approve or reject a service application
// @Description  Decisions are final. The note is optional.
// @Tags         services
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                    true  "Application ID"
// @Param        payload  body      service.ReviewRequestDTO  true  "Decision"
// @Success      200      {object}  response.Response{data=service.ServiceApplicationResponse}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/service-applications/{id}/review [put]
func (h *ServiceApplicationHandler) Review(c *gin.Context) {
	actor, _ := middleware.CurrentActor(c)

	var req service.ReviewRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload")
		return
	}

	res, err := h.service.Review(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, res))
}

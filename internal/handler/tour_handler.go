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

type TourHandler struct {
	tourService service.TourService
}

func NewTourHandler(tourService service.TourService) *TourHandler {
	return &TourHandler{tourService: tourService}
}

// RegisterPublicRoutes binds the booking form endpoint.
func (h *TourHandler) RegisterPublicRoutes(router *gin.RouterGroup, limit gin.HandlerFunc) {
	router.POST("/api/book-tour", limit, h.BookTour)
}

func (h *TourHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/tours")
	group.Use(middleware.RequireRole(model.RoleFinance, model.RoleAuditor, model.RoleAdmin))
	{
		group.GET("", h.ListTours)
	}
}

// BookTour handles POST /api/book-tour
// @Summary      Book a guided tour
// @Description  1 to 20 guests at 75.00 each. The amount must equal the tour price.
// @Tags         tours
// @Accept       json
// @Produce      json
// @Param        payload  body      service.BookTourRequestDTO  true  "Booking"
// @Success      201      {object}  response.Response{data=service.TourBookingResponse}
// @Failure      400      {object}  response.Response
// @Failure      429      {object}  response.Response
// @Router       /api/book-tour [post]
func (h *TourHandler) BookTour(c *gin.Context) {
	var req service.BookTourRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	res, err := h.tourService.BookTour(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, res))
}

// ListTours handles GET /api/tours
// @Summary      List tour bookings
// @Tags         tours
// @Produce      json
// @Security     BearerAuth
// @Param        park   query     string  false  "Park filter"
// @Param        page   query     int     false  "Page number (default 1)"
// @Param        limit  query     int     false  "Number of items per page (default 20)"
// @Success      200    {object}  response.Response{data=response.Page{items=[]service.TourBookingResponse}}
// @Router       /api/tours [get]
func (h *TourHandler) ListTours(c *gin.Context) {
	p := pagination.Parse(c)

	items, total, err := h.tourService.ListTours(c.Request.Context(), c.Query("park"), p.Page, p.Limit)
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

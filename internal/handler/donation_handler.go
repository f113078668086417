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

type DonationHandler struct {
	donationService service.DonationService
}

func NewDonationHandler(donationService service.DonationService) *DonationHandler {
	return &DonationHandler{donationService: donationService}
}

// RegisterPublicRoutes binds the donation form endpoint.
func (h *DonationHandler) RegisterPublicRoutes(router *gin.RouterGroup, limit gin.HandlerFunc) {
	router.POST("/api/donate", limit, h.Donate)
}

func (h *DonationHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/donations")
	group.Use(middleware.RequireRole(model.RoleFinance, model.RoleAuditor, model.RoleAdmin))
	{
		group.GET("", h.ListDonations)
		group.GET("/totals", h.Totals)
	}
}

// Donate handles POST /api/donate
// @Summary      Make a donation
// @Tags         donations
// @Accept       json
// @Produce      json
// @Param        payload  body      service.DonateRequestDTO  true  "Donation"
// @Success      201      {object}  response.Response{data=service.DonationResponse}
// @Failure      400      {object}  response.Response
// @Failure      429      {object}  response.Response
// @Router       /api/donate [post]
func (h *DonationHandler) Donate(c *gin.Context) {
	var req service.DonateRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	res, err := h.donationService.Donate(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, res))
}

// ListDonations handles GET /api/donations
// @Summary      List donations
// @Tags         donations
// @Produce      json
// @Security     BearerAuth
// @Param        park   query     string  false  "Park filter"
// @Param        page   query     int     false  "Page number (default 1)"
// @Param        limit  query     int     false  "Number of items per page (default 20)"
// @Success      200    {object}  response.Response{data=response.Page{items=[]service.DonationResponse}}
// @Router       /api/donations [get]
func (h *DonationHandler) ListDonations(c *gin.Context) {
	p := pagination.Parse(c)

	items, total, err := h.donationService.ListDonations(c.Request.Context(), c.Query("park"), p.Page, p.Limit)
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

// Totals handles GET /api/donations/totals
// @Summary      Donation totals per park
// @Tags         donations
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=map[string]string}
// @Router       /api/donations/totals [get]
func (h *DonationHandler) Totals(c *gin.Context) {
	totals, err := h.donationService.TotalsByPark(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, totals))
}

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

// FundingRequestHandler serves one request collection. One handler is
// registered per kind.
type FundingRequestHandler struct {
	kind    string
	service service.FundingRequestService
}

func NewFundingRequestHandler(kind string, svc service.FundingRequestService) *FundingRequestHandler {
	return &FundingRequestHandler{kind: kind, service: svc}
}

// RegisterRoutes mounts the collection under /api/<collection>. The router
// must already run the Authenticate middleware.
func (h *FundingRequestHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/" + model.CollectionPath(h.kind))
	{
		group.GET("", middleware.RequireAction(h.kind, access.View), h.List)
		group.POST("", middleware.RequireAction(h.kind, access.Submit), h.Submit)
		group.GET("/stats", middleware.RequireAction(h.kind, access.View), h.Stats)
		group.GET("/:id", middleware.RequireAction(h.kind, access.View), h.Get)
		group.PUT("/:id/review", middleware.RequireAction(h.kind, access.Review), h.Review)
	}
}

// List handles GET /api/<collection>
// @Summary      List funding requests
// @Description  Lists requests of one kind, newest first. Park staff only see their own submissions.
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        collection  path   string  true   "fund-requests, emergency-requests or extra-funds-requests"
// @Param        search      query  string  false  "Case-insensitive match on title, description or park"
// @Param        status      query  string  false  "pending, approved, rejected or all"
// @Param        park        query  string  false  "Park name or all"
// @Param        from        query  string  false  "Start date (YYYY-MM-DD)"
// @Param        to          query  string  false  "End date (YYYY-MM-DD), inclusive"
// @Param        page        query  int     false  "Page number (default 1)"
// @Param        limit       query  int     false  "Items per page (default 20, max 100)"
// @Success      200  {object}  response.Response{data=response.Page{items=[]service.FundingRequestResponse}}
// @Failure      401  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /api/{collection} [get]
func (h *FundingRequestHandler) List(c *gin.Context) {
	actor, _ := middleware.CurrentActor(c)

	from, err := parseDate(c.Query("from"))
	if err != nil {
		badRequest(c, "Invalid 'from' date, expected YYYY-MM-DD")
		return
	}
	to, err := parseDate(c.Query("to"))
	if err != nil {
		badRequest(c, "Invalid 'to' date, expected YYYY-MM-DD")
		return
	}

	p := pagination.Parse(c)
	items, total, err := h.service.List(c.Request.Context(), actor, h.kind, service.ListFundingRequestsQuery{
		Filter: model.RequestFilter{
			Search: c.Query("search"),
			Status: c.Query("status"),
			Park:   c.Query("park"),
			From:   from,
			To:     to,
		},
		Page:  p.Page,
		Limit: p.Limit,
	})
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

// Submit handles POST /api/<collection>
// @Summary      Submit a funding request
// @Description  Validates and stores a new pending request
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        collection  path      string                    true  "Request collection"
// @Param        payload     body      service.SubmitRequestDTO  true  "Request payload"
// @Success      201  {object}  response.Response{data=service.FundingRequestResponse}
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /api/{collection} [post]
func (h *FundingRequestHandler) Submit(c *gin.Context) {
	actor, _ := middleware.CurrentActor(c)

	var req service.SubmitRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	res, err := h.service.Submit(c.Request.Context(), actor, h.kind, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, res))
}

// Get handles GET /api/<collection>/:id
// @Summary      Get a funding request
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        collection  path  string  true  "Request collection"
// @Param        id          path  string  true  "Request ID"
// @Success      200  {object}  response.Response{data=service.FundingRequestResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/{collection}/{id} [get]
func (h *FundingRequestHandler) Get(c *gin.Context) {
	actor, _ := middleware.CurrentActor(c)

	res, err := h.service.Get(c.Request.Context(), actor, h.kind, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, res))
}

// Review handles PUT /api/<collection>/:id/review
// @Summary      Approve or reject a request
// @Description  Moves a pending request to approved or rejected. Decisions are final.
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        collection  path      string                    true  "Request collection"
// @Param        id          path      string                    true  "Request ID"
// @Param        payload     body      service.ReviewRequestDTO  true  "Decision"
// @Success      200  {object}  response.Response{data=service.FundingRequestResponse}
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/{collection}/{id}/review [put]
func (h *FundingRequestHandler) Review(c *gin.Context) {
	actor, _ := middleware.CurrentActor(c)

	var req service.ReviewRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload")
		return
	}

	res, err := h.service.Review(c.Request.Context(), actor, h.kind, c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, res))
}

// Stats handles GET /api/<collection>/stats
// @Summary      Request counts by status
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        collection  path  string  true  "Request collection"
// @Success      200  {object}  response.Response{data=service.RequestStatsResponse}
// @Router       /api/{collection}/stats [get]
func (h *FundingRequestHandler) Stats(c *gin.Context) {
	actor, _ := middleware.CurrentActor(c)

	res, err := h.service.Stats(c.Request.Context(), actor, h.kind)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, res))
}

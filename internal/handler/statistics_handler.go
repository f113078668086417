package handler

import (
	"net/http"
	"time"

	"ecopark/internal/middleware"
	"ecopark/internal/service"
	"ecopark/pkg/response"

	"github.com/gin-gonic/gin"
)

type StatisticsHandler struct {
	statisticsService service.StatisticsService
}

func NewStatisticsHandler(statisticsService service.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{statisticsService: statisticsService}
}

func (h *StatisticsHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/api/statistics", h.GetStatistics)
}

// GetStatistics handles GET /api/statistics
// @Summary      Dashboard statistics
// @Description  Request counts and amounts per status plus the top parks, for every kind the caller may view
// @Tags         statistics
// @Produce      json
// @Security     BearerAuth
// @Param        from  query     string  false  "Start date (YYYY-MM-DD), defaults to the first of the month"
// @Param        to    query     string  false  "End date (YYYY-MM-DD), inclusive, defaults to today"
// @Success      200   {object}  response.Response{data=model.StatisticsResponse}
// @Failure      400   {object}  response.Response
// @Failure      403   {object}  response.Response
// @Router       /api/statistics [get]
func (h *StatisticsHandler) GetStatistics(c *gin.Context) {
	actor, _ := middleware.CurrentActor(c)

	// Default to current month if no dates are provided
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	to := now

	if parsed, err := parseDate(c.Query("from")); err != nil {
		badRequest(c, "Invalid 'from' date, expected YYYY-MM-DD")
		return
	} else if parsed != nil {
		from = *parsed
	}
	if parsed, err := parseDate(c.Query("to")); err != nil {
		badRequest(c, "Invalid 'to' date, expected YYYY-MM-DD")
		return
	} else if parsed != nil {
		to = *parsed
	}

	stats, err := h.statisticsService.GetStatistics(c.Request.Context(), actor, from, to)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, stats))
}

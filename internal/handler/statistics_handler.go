package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"ledgerdesk/internal/service"
)

type StatisticsHandler struct {
	svc *service.StatisticsService
}

func NewStatisticsHandler(svc *service.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{svc: svc}
}

// Overview serves GET /statistics?limit=&date_from=&date_to=&all_time=.
func (h *StatisticsHandler) Overview(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	allTime, _ := strconv.ParseBool(c.DefaultQuery("all_time", "false"))

	q := service.StatisticsQuery{Limit: limit, AllTime: allTime}
	if v := c.Query("date_from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date_from (use YYYY-MM-DD)"})
			return
		}
		q.DateFrom = t
	}
	if v := c.Query("date_to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date_to (use YYYY-MM-DD)"})
			return
		}
		q.DateTo = t
	}

	stats, err := h.svc.Overview(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load statistics"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

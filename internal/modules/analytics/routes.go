package analytics

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	a := rg.Group("/analytics")
	{
		a.GET("/summary", h.GetSummary)
		a.GET("/stages", h.GetStages)
		a.GET("/sources", h.GetSources)
		a.GET("/trend", h.GetTrend)
		a.GET("/timeline", h.GetTimeline)
		a.GET("/export", h.Export)
	}
}

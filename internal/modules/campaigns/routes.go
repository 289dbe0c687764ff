package campaigns

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	campaigns := rg.Group("/campaigns")
	{
		campaigns.POST("", h.CreateCampaign)
		campaigns.GET("", h.ListCampaigns)
		campaigns.GET("/:id", h.GetCampaign)
		campaigns.PUT("/:id/targeting", h.SaveTargeting)
		campaigns.GET("/:id/audience", h.GetAudience)
	}
}

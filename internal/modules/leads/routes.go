package leads

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	leads := rg.Group("/leads")
	{
		leads.POST("", h.CreateLead)
		leads.GET("", h.ListLeads)
		leads.GET("/:id", h.GetLead)
		leads.PATCH("/:id", h.UpdateLead)
		leads.POST("/:id/stage", h.ChangeStage)
		leads.GET("/:id/conversion-draft", h.ConversionDraft)
		leads.POST("/:id/convert", h.ConvertLead)
		leads.GET("/:id/activities", h.ListActivities)
		leads.POST("/:id/activities", h.LogActivity)
	}
}

package customers

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	customers := rg.Group("/customers")
	{
		customers.POST("", h.CreateCustomer)
		customers.GET("", h.ListCustomers)
		customers.GET("/archived", h.ListArchived)
		customers.PUT("/:id", h.UpdateCustomer)
		customers.POST("/:id/archive", h.ArchiveCustomer)
		customers.POST("/:id/unarchive", h.UnarchiveCustomer)
	}
}

package campaigns

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"leadtracker/internal/domain"
	"leadtracker/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CreateCampaign handles POST /api/v1/campaigns
func (h *Handler) CreateCampaign(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}

	campaign, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, campaign)
}

// ListCampaigns handles GET /api/v1/campaigns
func (h *Handler) ListCampaigns(c *gin.Context) {
	campaigns, err := h.service.List(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, campaigns)
}

// GetCampaign handles GET /api/v1/campaigns/:id
func (h *Handler) GetCampaign(c *gin.Context) {
	campaign, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, campaign)
}

// SaveTargeting handles PUT /api/v1/campaigns/:id/targeting
func (h *Handler) SaveTargeting(c *gin.Context) {
	var req domain.Targeting
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}

	campaign, err := h.service.SaveTargeting(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, campaign)
}

// GetAudience handles GET /api/v1/campaigns/:id/audience
func (h *Handler) GetAudience(c *gin.Context) {
	audience, err := h.service.Audience(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, audience)
}

package leads

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"leadtracker/internal/pipeline"
	"leadtracker/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CreateLead handles POST /api/v1/leads
func (h *Handler) CreateLead(c *gin.Context) {
	var req pipeline.LeadInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}

	lead, err := h.service.CreateLead(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, lead)
}

// ListLeads handles GET /api/v1/leads?search=&priority=&stage=&source=
func (h *Handler) ListLeads(c *gin.Context) {
	f, err := ParseFilter(c.Query("search"), c.Query("priority"), c.Query("stage"), c.Query("source"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	leads, err := h.service.ListLeads(c.Request.Context(), f)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, listResponse{Leads: leads, Count: len(leads)})
}

// GetLead handles GET /api/v1/leads/:id
func (h *Handler) GetLead(c *gin.Context) {
	lead, err := h.service.GetLead(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, lead)
}

// UpdateLead handles PATCH /api/v1/leads/:id
func (h *Handler) UpdateLead(c *gin.Context) {
	var req pipeline.LeadInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}

	lead, err := h.service.UpdateLead(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, lead)
}

// ChangeStage handles POST /api/v1/leads/:id/stage
func (h *Handler) ChangeStage(c *gin.Context) {
	var req stageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}

	lead, err := h.service.ChangeStage(c.Request.Context(), c.Param("id"), req.Stage)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, lead)
}

// ConversionDraft handles GET /api/v1/leads/:id/conversion-draft
func (h *Handler) ConversionDraft(c *gin.Context) {
	draft, err := h.service.ConversionDraft(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, draft)
}

// ConvertLead handles POST /api/v1/leads/:id/convert
func (h *Handler) ConvertLead(c *gin.Context) {
	var req pipeline.CustomerInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}

	lead, err := h.service.Convert(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, lead)
}

// ListActivities handles GET /api/v1/leads/:id/activities
func (h *Handler) ListActivities(c *gin.Context) {
	acts, err := h.service.Activities(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, acts)
}

// LogActivity handles POST /api/v1/leads/:id/activities
func (h *Handler) LogActivity(c *gin.Context) {
	var req activityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}

	act, err := h.service.LogActivity(c.Request.Context(), c.Param("id"), req.Kind, req.Payload)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, act)
}

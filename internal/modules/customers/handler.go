package customers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"leadtracker/internal/domain"
	"leadtracker/internal/pipeline"
	"leadtracker/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type listResponse struct {
	Customers []domain.Lead `json:"customers"`
	Count     int           `json:"count"`
}

// CreateCustomer handles POST /api/v1/customers
func (h *Handler) CreateCustomer(c *gin.Context) {
	var req pipeline.CustomerInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}

	customer, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, customer)
}

// ListCustomers handles GET /api/v1/customers
func (h *Handler) ListCustomers(c *gin.Context) {
	h.list(c, false)
}

// ListArchived handles GET /api/v1/customers/archived
func (h *Handler) ListArchived(c *gin.Context) {
	h.list(c, true)
}

func (h *Handler) list(c *gin.Context, archived bool) {
	f, err := ParseFilter(c.Query("search"), c.Query("job_title"), c.Query("job_type"), c.Query("source"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	customers, err := h.service.List(c.Request.Context(), archived, f)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, listResponse{Customers: customers, Count: len(customers)})
}

// UpdateCustomer handles PUT /api/v1/customers/:id
func (h *Handler) UpdateCustomer(c *gin.Context) {
	var req pipeline.CustomerInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}

	customer, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, customer)
}

// ArchiveCustomer handles POST /api/v1/customers/:id/archive
func (h *Handler) ArchiveCustomer(c *gin.Context) {
	customer, err := h.service.Archive(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, customer)
}

// UnarchiveCustomer handles POST /api/v1/customers/:id/unarchive
func (h *Handler) UnarchiveCustomer(c *gin.Context) {
	customer, err := h.service.Unarchive(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, customer)
}

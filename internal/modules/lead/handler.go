package lead

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"leadflow/internal/middleware"
	"leadflow/internal/pkg/response"
	"leadflow/internal/pkg/validator"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers lead routes under a protected group (JWT
// required). Base path is /api/v1/leads.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	leads := rg.Group("/leads")
	{
		leads.GET("", h.List)
		leads.GET("/stats", h.Stats)
		leads.GET("/:id", h.Get)
		leads.POST("", h.Create)
		leads.PUT("/:id", h.Update)
		leads.DELETE("/:id", h.Delete)
	}
}

// List handles GET /leads?page&limit&filters=<json>.
func (h *Handler) List(c *gin.Context) {
	ownerID := c.GetInt64("user_id")
	page := ParsePageRequest(c.Query("page"), c.Query("limit"))

	result, err := h.service.List(c.Request.Context(), ownerID, page, c.Query("filters"))
	if err != nil {
		if errors.Is(err, ErrMalformedFilter) {
			response.Error(c, http.StatusBadRequest, "MALFORMED_FILTER", "Invalid filters format")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Server error while fetching leads")
		return
	}

	response.Success(c, http.StatusOK, result)
}

// Stats handles GET /leads/stats?filters=<json>.
func (h *Handler) Stats(c *gin.Context) {
	ownerID := c.GetInt64("user_id")

	stats, err := h.service.Stats(c.Request.Context(), ownerID, c.Query("filters"))
	if err != nil {
		if errors.Is(err, ErrMalformedFilter) {
			response.Error(c, http.StatusBadRequest, "MALFORMED_FILTER", "Invalid filters format")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Server error while computing stats")
		return
	}

	response.Success(c, http.StatusOK, stats)
}

// Get handles GET /leads/:id.
func (h *Handler) Get(c *gin.Context) {
	ownerID := c.GetInt64("user_id")

	id, ok := parseID(c)
	if !ok {
		return
	}

	l, err := h.service.Get(c.Request.Context(), ownerID, id)
	if err != nil {
		if errors.Is(err, ErrLeadNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Lead not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Server error while fetching lead")
		return
	}

	response.Success(c, http.StatusOK, l)
}

// Create handles POST /leads.
func (h *Handler) Create(c *gin.Context) {
	ownerID := c.GetInt64("user_id")

	var req CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid lead data", errs)
		return
	}

	l, err := h.service.Create(c.Request.Context(), ownerID, req)
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			response.Error(c, http.StatusBadRequest, "DUPLICATE_EMAIL", "Lead with this email already exists")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Server error while creating lead")
		return
	}

	middleware.RecordLeadCreated()
	response.Success(c, http.StatusCreated, l)
}

// Update handles PUT /leads/:id. The body is a partial update.
func (h *Handler) Update(c *gin.Context) {
	ownerID := c.GetInt64("user_id")

	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid lead data", errs)
		return
	}

	l, err := h.service.Update(c.Request.Context(), ownerID, id, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrLeadNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Lead not found")
		case errors.Is(err, ErrDuplicateEmail):
			response.Error(c, http.StatusBadRequest, "DUPLICATE_EMAIL", "Lead with this email already exists")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Server error while updating lead")
		}
		return
	}

	response.Success(c, http.StatusOK, l)
}

// Delete handles DELETE /leads/:id. A foreign-owned lead reads as absent.
func (h *Handler) Delete(c *gin.Context) {
	ownerID := c.GetInt64("user_id")

	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), ownerID, id); err != nil {
		if errors.Is(err, ErrLeadNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Lead not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Server error while deleting lead")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Lead deleted successfully"})
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid lead ID")
		return 0, false
	}
	return id, true
}

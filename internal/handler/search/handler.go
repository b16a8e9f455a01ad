package search

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/surveypool/search-api/internal/handler"
	"github.com/surveypool/search-api/internal/middleware"
	"github.com/surveypool/search-api/internal/model"
	searchService "github.com/surveypool/search-api/internal/service/search"
)

type Handler struct {
	service *searchService.Service
	auth    *middleware.AuthMiddleware
}

func NewHandler(service *searchService.Service, auth *middleware.AuthMiddleware) *Handler {
	return &Handler{
		service: service,
		auth:    auth,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/search", h.auth.RequireRole(model.RoleBusiness), h.ExecuteSearch)
	r.GET("/searches", h.auth.RequireRole(model.RoleBusiness), h.ListSearches)
}

type searchRequest struct {
	Keywords         string   `json:"keywords" binding:"required"`
	GeneticTraits    []string `json:"genetic_traits"`
	HealthConditions []string `json:"health_conditions"`
	TimeRange        string   `json:"time_range" binding:"omitempty,timerange"`
}

func (h *Handler) ExecuteSearch(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	businessID := middleware.AccountIDFromContext(c)
	if businessID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing account identity"))
		return
	}

	timeRange := model.TimeRange(req.TimeRange)
	if timeRange == "" {
		timeRange = model.TimeRangeAll
	}

	output, err := h.service.Search(c.Request.Context(), businessID, model.FilterSpec{
		Keywords:         req.Keywords,
		GeneticTraits:    req.GeneticTraits,
		HealthConditions: req.HealthConditions,
		TimeRange:        timeRange,
	})
	if err != nil {
		c.JSON(handler.StatusFor(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(output))
}

func (h *Handler) ListSearches(c *gin.Context) {
	businessID := middleware.AccountIDFromContext(c)
	if businessID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing account identity"))
		return
	}

	transactions, err := h.service.History(c.Request.Context(), businessID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(transactions))
}

package stats

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/surveypool/search-api/internal/handler"
	"github.com/surveypool/search-api/internal/middleware"
	"github.com/surveypool/search-api/internal/model"
	reportService "github.com/surveypool/search-api/internal/service/report"
)

type Handler struct {
	service *reportService.Service
	auth    *middleware.AuthMiddleware
}

func NewHandler(service *reportService.Service, auth *middleware.AuthMiddleware) *Handler {
	return &Handler{
		service: service,
		auth:    auth,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/admin/stats", h.auth.RequireRole(model.RoleAdmin), h.PlatformStats)
}

// PlatformStats answers 200 even when sources are down: unavailable
// sources are reported as zero contributions with the degraded flag set.
func (h *Handler) PlatformStats(c *gin.Context) {
	stats, err := h.service.PlatformStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(stats))
}

package catalog

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/surveypool/search-api/internal/handler"
	catalogService "github.com/surveypool/search-api/internal/service/catalog"
)

type Handler struct {
	service *catalogService.Service
}

func NewHandler(service *catalogService.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/packages", h.ListPackages)
	r.GET("/packages/:id", h.GetPackage)
}

func (h *Handler) ListPackages(c *gin.Context) {
	c.JSON(http.StatusOK, handler.NewSuccessResponse(h.service.ListPackages()))
}

func (h *Handler) GetPackage(c *gin.Context) {
	pkg, err := h.service.GetPackage(c.Param("id"))
	if err != nil {
		c.JSON(handler.StatusFor(err), handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(pkg))
}

package checkout

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/surveypool/search-api/internal/handler"
	"github.com/surveypool/search-api/internal/middleware"
	"github.com/surveypool/search-api/internal/model"
	"github.com/surveypool/search-api/internal/repository"
	checkoutService "github.com/surveypool/search-api/internal/service/checkout"
)

type Handler struct {
	service   *checkoutService.Service
	purchases repository.PurchaseRepository
	auth      *middleware.AuthMiddleware
}

func NewHandler(service *checkoutService.Service, purchases repository.PurchaseRepository, auth *middleware.AuthMiddleware) *Handler {
	return &Handler{
		service:   service,
		purchases: purchases,
		auth:      auth,
	}
}

// RegisterRoutes wires the authenticated checkout surface. The success and
// cancel callbacks are registered separately as public routes: the processor
// redirect carries no bearer token.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/checkout", h.auth.RequireRole(model.RoleInstitution), h.InitiateCheckout)
	r.GET("/purchases", h.auth.RequireRole(model.RoleInstitution), h.ListPurchases)
}

func (h *Handler) RegisterCallbackRoutes(r *gin.RouterGroup) {
	r.GET("/checkout/success", h.ConfirmPayment)
	r.GET("/checkout/cancel", h.CancelCheckout)
}

type initiateCheckoutRequest struct {
	PackageID string `json:"package_id" binding:"required"`
}

func (h *Handler) InitiateCheckout(c *gin.Context) {
	var req initiateCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	institutionID := middleware.AccountIDFromContext(c)
	if institutionID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing account identity"))
		return
	}

	result, err := h.service.InitiateCheckout(c.Request.Context(), institutionID, req.PackageID)
	if err != nil {
		c.JSON(handler.StatusFor(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(result))
}

// ConfirmPayment handles the processor's success redirect. Replays are
// expected and answered with success without touching the ledger again.
func (h *Handler) ConfirmPayment(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		sessionID = c.Query("token")
	}
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("missing session id"))
		return
	}

	purchase, err := h.service.ConfirmPayment(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(handler.StatusFor(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(purchase))
}

func (h *Handler) CancelCheckout(c *gin.Context) {
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"cancelled": true,
	}))
}

func (h *Handler) ListPurchases(c *gin.Context) {
	institutionID := middleware.AccountIDFromContext(c)
	if institutionID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing account identity"))
		return
	}

	purchases, err := h.purchases.ListByInstitution(c.Request.Context(), institutionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(purchases))
}

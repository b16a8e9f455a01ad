package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/surveypool/search-api/internal/handler"
	"github.com/surveypool/search-api/internal/model"
	authService "github.com/surveypool/search-api/internal/service/auth"
)

const (
	contextKeyAccountID = "accountID"
	contextKeyEmail     = "accountEmail"
	contextKeyRole      = "accountRole"
)

type AuthMiddleware struct {
	authService *authService.Service
}

func NewAuthMiddleware(svc *authService.Service) *AuthMiddleware {
	return &AuthMiddleware{authService: svc}
}

// Authenticate verifies the bearer token and sets account identity in context.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing authorization header"))
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid authorization format"))
			c.Abort()
			return
		}

		claims, err := m.authService.ValidateToken(c.Request.Context(), parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid token"))
			c.Abort()
			return
		}

		c.Set(contextKeyAccountID, claims.AccountID.String())
		c.Set(contextKeyEmail, claims.Email)
		c.Set(contextKeyRole, string(claims.Role))
		c.Next()
	}
}

// RequireRole rejects requests whose token does not carry the given role.
// The token role is only a routing gate; services re-check the persisted
// account role before anything is charged.
func (m *AuthMiddleware) RequireRole(role model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if model.Role(c.GetString(contextKeyRole)) != role {
			c.JSON(http.StatusForbidden, handler.NewErrorResponse("role not permitted"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// AccountIDFromContext returns the authenticated account ID, or uuid.Nil
// when the request was not authenticated.
func AccountIDFromContext(c *gin.Context) uuid.UUID {
	id, err := uuid.Parse(c.GetString(contextKeyAccountID))
	if err != nil {
		return uuid.Nil
	}
	return id
}

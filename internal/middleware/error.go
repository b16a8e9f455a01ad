package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/surveypool/search-api/internal/handler"
)

// ErrorHandler converts errors attached to the gin context into a JSON
// response. Handlers that reply directly with StatusFor never reach this;
// it is the backstop for bind failures and anything pushed via c.Error.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		last := c.Errors.Last()
		log.Error().
			Err(last.Err).
			Str("request_id", c.GetString(ContextRequestID)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("request failed")

		c.JSON(handler.StatusFor(last.Err), handler.NewErrorResponse(last.Error()))
	}
}

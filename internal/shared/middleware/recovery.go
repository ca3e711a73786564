package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Recovery turns a panic into the HTML error page.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error().
					Str("request_id", c.GetString(RequestIDKey)).
					Str("path", c.Request.URL.Path).
					Str("panic", fmt.Sprint(rec)).
					Msg("Panic recovered")

				c.HTML(http.StatusInternalServerError, "error", gin.H{
					"title":   "Internal server error",
					"message": "Internal server error",
					"status":  http.StatusInternalServerError,
				})
				c.Abort()
			}
		}()

		c.Next()
	}
}

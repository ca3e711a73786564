// Package response maps handler results onto rendered HTML pages.
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"library-catalog/internal/shared/apperror"
	"library-catalog/internal/shared/middleware"
	"library-catalog/internal/shared/validation"
)

// HandlerFunc là handler trả về error thay vì tự render lỗi
type HandlerFunc func(c *gin.Context) error

// Handle adapts a HandlerFunc to gin. Any returned error goes through RenderError.
func Handle(fn HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := fn(c); err != nil {
			RenderError(c, err)
		}
	}
}

// Page renders a named template with 200 OK
func Page(c *gin.Context, name string, data gin.H) error {
	c.HTML(http.StatusOK, name, data)
	return nil
}

// Form renders a form view with 200 OK, spreading every field error into
// data as "<field>_error".
func Form(c *gin.Context, name string, data gin.H, res *validation.Result) error {
	if res != nil {
		for key, fe := range res.ErrorMap() {
			data[key] = fe
		}
		data["errors"] = res.Errors
	}
	c.HTML(http.StatusOK, name, data)
	return nil
}

// Redirect sends a 302 to target.
func Redirect(c *gin.Context, target string) error {
	c.Redirect(http.StatusFound, target)
	return nil
}

// RenderError is the single place errors become responses.
// Known kinds keep their status and message; anything else is a 500.
func RenderError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error"

	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		status = appErr.Status()
		message = appErr.Message
	}

	event := log.Warn()
	if status >= http.StatusInternalServerError {
		event = log.Error()
	}
	event.
		Str("request_id", c.GetString(middleware.RequestIDKey)).
		Str("path", c.Request.URL.Path).
		Int("status", status).
		Err(err).
		Msg("Request failed")

	c.HTML(status, "error", gin.H{
		"title":   message,
		"message": message,
		"status":  status,
	})
	c.Abort()
}

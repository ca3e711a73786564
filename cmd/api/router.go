package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"library-catalog/internal/shared/apperror"
	"library-catalog/internal/shared/middleware"
	"library-catalog/internal/shared/response"
	"library-catalog/internal/web"
	"library-catalog/pkg/container"
)

// CatalogPrefix là mount point của toàn bộ catalog routes
const CatalogPrefix = "/catalog"

func SetupRouter(c *container.Container) (*gin.Engine, error) {
	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	router := gin.New()
	router.SetHTMLTemplate(tmpl)

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
	)

	router.GET("/", func(ctx *gin.Context) {
		ctx.Redirect(http.StatusFound, CatalogPrefix+"/")
	})
	router.GET("/health", healthCheckHandler(c))

	catalog := router.Group(CatalogPrefix)
	{
		c.BookHandler.RegisterRoutes(catalog)
		c.AuthorHandler.RegisterRoutes(catalog)
	}

	router.NoRoute(func(ctx *gin.Context) {
		response.RenderError(ctx, apperror.NotFound("Not Found", nil))
	})

	return router, nil
}

// healthCheckHandler: 200 khi store ping ok, 503 khi degraded
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		storeStatus := "ok"
		if err := appCtx.HealthCheck(ctx); err != nil {
			storeStatus = "error: " + err.Error()
			health["status"] = "degraded"
		}

		cacheStatus := "ok"
		if err := appCtx.Cache.Ping(ctx); err != nil {
			cacheStatus = "error: " + err.Error()
		}

		health["services"] = gin.H{
			"store": gin.H{"driver": appCtx.Config.Store.Driver, "status": storeStatus},
			"cache": cacheStatus,
		}

		statusCode := http.StatusOK
		if health["status"] != "ok" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, health)
	}
}

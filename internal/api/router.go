package api

import (
	"net/http"

	"github.com/example/admin-dashboard/internal/api/middleware"
	"github.com/example/admin-dashboard/internal/readmodel"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func NewRouter(handlers *Handlers, logger *logrus.Logger) http.Handler {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger(logger))

	router.GET("/health", handlers.Health)

	api := router.Group("/api")
	{
		api.GET("/resources", handlers.ListResources)
		api.POST("/resources/:name/refresh", handlers.RefreshResource)

		for _, name := range readmodel.Resources {
			api.GET("/"+name, handlers.Collection(name))
		}

		views := api.Group("/views")
		{
			views.POST("", handlers.CreateView)
			views.GET("/:id", handlers.GetView)
			views.PATCH("/:id", handlers.UpdateView)
			views.DELETE("/:id", handlers.DeleteView)
		}
	}

	return router
}

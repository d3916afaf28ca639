package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/secondbrain-dev/secondbrain/internal/handlers"
	"github.com/secondbrain-dev/secondbrain/internal/middleware"
	"github.com/secondbrain-dev/secondbrain/internal/types"
)

func NewRouter() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)

		v1 := api.Group("/v1")
		{
			v1.POST("/signup", handlers.Signup)
			v1.POST("/signin", handlers.Signin)
			v1.GET("/me", middleware.AuthMiddleware(), handlers.Me)

			content := v1.Group("/content", middleware.AuthMiddleware())
			{
				content.POST("", handlers.CreateContent)
				content.GET("", handlers.ListContent)
				content.DELETE("", handlers.DeleteContent)
				content.PATCH("/public-toggle", handlers.PublicToggle)
			}

			v1.GET("/search/:query", middleware.AuthMiddleware(), handlers.SearchContent)

			v1.POST("/brain/share", middleware.AuthMiddleware(), handlers.ToggleShare)

			// Public by design: the hash is the capability
			v1.GET("/brain/:hash", handlers.ResolveShare)
		}
	}

	return r
}

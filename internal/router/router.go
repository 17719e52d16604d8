package router

import (
	"os"
	"time"

	"github.com/devhub-dev/devhub/internal/handlers"
	"github.com/devhub-dev/devhub/internal/middleware"
	"github.com/devhub-dev/devhub/internal/types"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), middleware.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	uploadsDir := os.Getenv("UPLOADS_DIR")

	if uploadsDir == "" {
		uploadsDir = "uploads"
	}

	r.Static("/uploads", uploadsDir)

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)

		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.Register)
			auth.POST("/login", handlers.Login)
			auth.GET("/verify", middleware.AuthMiddleware(), handlers.Verify)
			auth.PUT("/profile", middleware.AuthMiddleware(), handlers.UpdateProfile)
			auth.POST("/profile/image", middleware.AuthMiddleware(), handlers.UploadProfileImage)
		}

		api.GET("/users", middleware.AuthMiddleware(), handlers.ListUsers)

		api.GET("/projects/public", handlers.ListPublicProjects)

		projects := api.Group("/projects", middleware.AuthMiddleware())
		{
			projects.POST("", handlers.CreateProject)
			projects.GET("", handlers.ListProjects)
			projects.GET("/:project_id", handlers.GetProject)
			projects.PUT("/:project_id", handlers.UpdateProject)
			projects.DELETE("/:project_id", handlers.DeleteProject)

			// Membership endpoints
			projects.POST("/:project_id/invite", handlers.InviteMember)
			projects.DELETE("/:project_id/members/:user_id", handlers.RemoveMember)
			projects.GET("/:project_id/creators", handlers.ListCreators)

			// Comment endpoints
			projects.GET("/:project_id/comments", handlers.ListComments)
			projects.POST("/:project_id/comments", handlers.CreateComment)
			projects.DELETE("/:project_id/comments/:comment_id", handlers.DeleteComment)
		}

		tasks := api.Group("/tasks", middleware.AuthMiddleware())
		{
			tasks.GET("", handlers.ListTasks)
			tasks.POST("", handlers.CreateTask)
			tasks.PUT("/:task_id", handlers.UpdateTask)
			tasks.DELETE("/:task_id", handlers.DeleteTask)
		}
	}

	return r
}

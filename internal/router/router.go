package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/tablero-dev/tablero/internal/handlers"
	"github.com/tablero-dev/tablero/internal/middleware"
	"github.com/tablero-dev/tablero/internal/types"
)

func NewRouter(h *handlers.Handler) *gin.Engine {
	r := gin.Default()

	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	authRequired := middleware.AuthMiddleware(h.Users)

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/ws/notifications", authRequired, h.NotificationsSocket)

		auth := api.Group("/auth")
		{
			auth.POST("/register", h.CreateUser)
			auth.POST("/login", h.LoginUser)
			auth.POST("/logout", h.LogoutUser)
			auth.GET("/me", authRequired, h.Me)
			auth.PATCH("/me", authRequired, h.UpdateUser)
		}

		api.GET("/notifications", authRequired, h.ListNotifications)

		projects := api.Group("/projects", authRequired)
		{
			projects.POST("", h.CreateProject)
			projects.GET("", h.ListProjects)
			projects.GET("/:project_id", h.GetProject)
			projects.DELETE("/:project_id", h.DeleteProject)

			// Membership
			projects.POST("/:project_id/members", h.AddMember)
			projects.DELETE("/:project_id/members/:email", h.RemoveMember)

			// Announcements
			projects.POST("/:project_id/anuncios", h.CreateAnnouncement)
			projects.GET("/:project_id/anuncios", h.ListAnnouncements)
			projects.DELETE("/:project_id/anuncios/:announcement_id", h.DeleteAnnouncement)

			// Tasks
			projects.POST("/:project_id/tareas", h.CreateTask)
			projects.GET("/:project_id/tareas", h.ListTasks)
			projects.PATCH("/:project_id/tareas/:task_id/toggle", h.ToggleTask)
			projects.DELETE("/:project_id/tareas/:task_id", h.DeleteTask)

			// Comments
			projects.POST("/:project_id/tareas/:task_id/comentarios", h.CreateComment)
			projects.GET("/:project_id/tareas/:task_id/comentarios", h.ListComments)
		}
	}

	return r
}

package routes

import (
	"association-portal-api/controllers"
	"association-portal-api/middleware"
	"association-portal-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Authentication
			public.POST("/register", controllers.Register)
			public.POST("/login", controllers.Login)

			// Read-only portal content
			public.GET("/announcements", controllers.GetAnnouncements)
			public.GET("/announcements/:id", controllers.GetAnnouncement)
			public.GET("/events", controllers.GetEvents)
			public.GET("/events/:id", controllers.GetEvent)
			public.GET("/events/:id/registrations/stream", controllers.StreamRegistrationCount)
			public.GET("/comments", controllers.GetComments)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Association Portal API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			// Article submissions
			submissions := protected.Group("/submissions")
			{
				submissions.POST("", controllers.CreateSubmission)
				submissions.GET("", controllers.GetMySubmissions)
				submissions.GET("/:id", controllers.GetSubmission)

				// Attachments
				submissions.POST("/:id/files", controllers.UploadSubmissionFile)
				submissions.GET("/:id/files", controllers.GetSubmissionFiles)
			}
			protected.GET("/files/:file_id/download", controllers.DownloadSubmissionFile)
			protected.DELETE("/files/:file_id", controllers.DeleteSubmissionFile)

			// Event registration
			protected.POST("/events/:id/register", controllers.ToggleRegistration)

			// Public comments
			protected.POST("/comments", controllers.CreateComment)

			// Notifications
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", controllers.GetNotifications)
				notifications.GET("/counter", controllers.GetNotificationCounter)
				notifications.PUT("/:id/read", controllers.MarkNotificationRead)
				notifications.PUT("/read-all", controllers.MarkAllNotificationsRead)
			}

			// SMS dispatch
			protected.POST("/send-sms", controllers.SendSMS)

			// Admin surface
			admin := protected.Group("/admin")
			admin.Use(middleware.RequireRole(models.RoleAdmin))
			{
				admin.GET("/submissions", controllers.GetAllSubmissions)
				admin.POST("/submissions/:id/review", controllers.ReviewSubmission)
				admin.POST("/submissions/:id/comments", controllers.AddReviewComment)

				admin.GET("/users", controllers.GetUsers)
				admin.PUT("/users/:id/role", controllers.UpdateUserRole)

				admin.POST("/announcements", controllers.CreateAnnouncement)
				admin.PUT("/announcements/:id", controllers.UpdateAnnouncement)
				admin.DELETE("/announcements/:id", controllers.DeleteAnnouncement)

				admin.POST("/events", controllers.CreateEvent)
				admin.PUT("/events/:id", controllers.UpdateEvent)
				admin.DELETE("/events/:id", controllers.DeleteEvent)
			}
		}
	}
}

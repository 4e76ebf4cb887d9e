package routes

import (
	"net/http"
	"time"

	"blaccbook/handlers"
	"blaccbook/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires every endpoint group onto the router.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterUserRoutes(r, hb)
	RegisterServiceRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterChatRoutes(r, hb)
	RegisterCallRoutes(r, hb)
	RegisterNotificationRoutes(r, hb)
	RegisterStorageRoutes(r, hb)
}

// RegisterStorageRoutes registers the generic upload endpoint.
func RegisterStorageRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/storage")
	{
		api.Use(middleware.JWTAuthUserMiddleware(hb.UserRepo))
		api.POST("/upload", hb.UploadFileHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// RegisterUserRoutes registers account and profile endpoints.
func RegisterUserRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/users")
	{
		api.POST("/register", hb.RegisterUserHandler)
		api.POST("/login", hb.AuthenticateUserHandler)

		// Protected routes (require authentication)
		api.Use(middleware.JWTAuthUserMiddleware(hb.UserRepo))
		api.GET("/me", hb.GetProfileHandler)
		api.PATCH("/me", hb.UpdateProfileHandler)
		api.PUT("/me/fcm-token", hb.UpdateFCMTokenHandler)
		api.DELETE("/logout", hb.RevokeUserAuthTokenHandler)
	}
}

// RegisterServiceRoutes registers catalogue browsing endpoints. Browsing is
// public; publishing requires authentication.
func RegisterServiceRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/services")
	{
		api.GET("", hb.ListServicesHandler)
		api.GET("/:id", hb.GetServiceHandler)
		api.GET("/:id/reviews", hb.ListReviewsHandler)
		api.GET("/:id/slots", hb.GetServiceSlotsHandler)

		api.Use(middleware.JWTAuthUserMiddleware(hb.UserRepo))
		api.POST("", hb.CreateServiceHandler)
	}
}

// RegisterBookingRoutes registers the booking lifecycle endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/bookings")
	{
		api.Use(middleware.JWTAuthUserMiddleware(hb.UserRepo))
		api.POST("", hb.CreateBookingHandler)
		api.GET("", hb.ListBookingsHandler)
		api.GET("/:id", hb.GetBookingHandler)
		api.POST("/:id/cancel", hb.CancelBookingHandler)
		api.POST("/:id/rate", hb.RateBookingHandler)
		api.POST("/promo", hb.ApplyPromoCodeHandler)
	}
}

// RegisterChatRoutes registers conversation and message endpoints.
func RegisterChatRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/chats")
	{
		api.Use(middleware.JWTAuthUserMiddleware(hb.UserRepo))
		api.POST("", hb.OpenConversationHandler)
		api.GET("", hb.ListConversationsHandler)
		api.POST("/:id/messages", hb.SendMessageHandler)
		api.GET("/:id/messages", hb.ListMessagesHandler)
		api.POST("/:id/read", hb.MarkChatReadHandler)
		api.DELETE("/:id/messages", hb.ClearChatHandler)
		api.POST("/upload", hb.UploadChatImageHandler)
	}
}

// RegisterCallRoutes registers the call signaling endpoints.
func RegisterCallRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/calls")
	{
		api.Use(middleware.JWTAuthUserMiddleware(hb.UserRepo))
		api.POST("", hb.InitiateCallHandler)
		api.GET("/history", hb.ListCallHistoryHandler)
		api.GET("/:id", hb.GetCallHandler)
		api.POST("/:id/accept", hb.AcceptCallHandler)
		api.POST("/:id/end", hb.EndCallHandler)
		api.POST("/:id/decline", hb.DeclineCallHandler)
		api.GET("/:id/watch", hb.WatchCallHandler)
	}
}

// RegisterNotificationRoutes registers the notification center endpoints.
func RegisterNotificationRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/notifications")
	{
		api.Use(middleware.JWTAuthUserMiddleware(hb.UserRepo))
		api.GET("", hb.ListNotificationsHandler)
		api.GET("/unread-count", hb.UnreadNotificationsHandler)
		api.POST("/:id/read", hb.MarkNotificationReadHandler)
		api.POST("/read-all", hb.MarkAllNotificationsHandler)
	}
}

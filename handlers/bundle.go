package handlers

import (
	userRepoPkg "blaccbook/database/repository/user"
	"blaccbook/services/booking"
	"blaccbook/services/call"
	"blaccbook/services/catalog"
	"blaccbook/services/chat"
	"blaccbook/services/notification"
	"blaccbook/services/storage"
	"blaccbook/services/user"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	UserRepo userRepoPkg.UserRepository

	// User endpoints
	RegisterUserHandler        gin.HandlerFunc
	AuthenticateUserHandler    gin.HandlerFunc
	GetProfileHandler          gin.HandlerFunc
	UpdateProfileHandler       gin.HandlerFunc
	UpdateFCMTokenHandler      gin.HandlerFunc
	RevokeUserAuthTokenHandler gin.HandlerFunc

	// Catalogue endpoints
	CreateServiceHandler   gin.HandlerFunc
	GetServiceHandler      gin.HandlerFunc
	ListServicesHandler    gin.HandlerFunc
	ListReviewsHandler     gin.HandlerFunc
	GetServiceSlotsHandler gin.HandlerFunc

	// Booking endpoints
	CreateBookingHandler  gin.HandlerFunc
	GetBookingHandler     gin.HandlerFunc
	ListBookingsHandler   gin.HandlerFunc
	CancelBookingHandler  gin.HandlerFunc
	RateBookingHandler    gin.HandlerFunc
	ApplyPromoCodeHandler gin.HandlerFunc

	// Chat endpoints
	OpenConversationHandler  gin.HandlerFunc
	ListConversationsHandler gin.HandlerFunc
	SendMessageHandler       gin.HandlerFunc
	ListMessagesHandler      gin.HandlerFunc
	MarkChatReadHandler      gin.HandlerFunc
	ClearChatHandler         gin.HandlerFunc
	UploadChatImageHandler   gin.HandlerFunc

	// Call endpoints
	InitiateCallHandler    gin.HandlerFunc
	AcceptCallHandler      gin.HandlerFunc
	EndCallHandler         gin.HandlerFunc
	DeclineCallHandler     gin.HandlerFunc
	GetCallHandler         gin.HandlerFunc
	ListCallHistoryHandler gin.HandlerFunc
	WatchCallHandler       gin.HandlerFunc

	// Notification endpoints
	ListNotificationsHandler    gin.HandlerFunc
	MarkNotificationReadHandler gin.HandlerFunc
	MarkAllNotificationsHandler gin.HandlerFunc
	UnreadNotificationsHandler  gin.HandlerFunc

	// Storage endpoints
	UploadFileHandler gin.HandlerFunc
}

// NewHandlerBundle binds every service to its gin handlers.
func NewHandlerBundle(
	userRepo userRepoPkg.UserRepository,
	userSvc user.UserService,
	catalogSvc catalog.CatalogService,
	bookingSvc booking.BookingService,
	chatSvc chat.ChatService,
	callSvc call.CallService,
	notifSvc notification.NotificationService,
	storageSvc storage.StorageService,
) *HandlerBundle {
	userHandler := NewUserHandler(userSvc)
	serviceHandler := NewServiceHandler(catalogSvc, bookingSvc)
	bookingHandler := NewBookingHandler(bookingSvc)
	chatHandler := NewChatHandler(chatSvc)
	callHandler := NewCallHandler(callSvc)
	notifHandler := NewNotificationHandler(notifSvc)
	storageHandler := NewStorageHandler(storageSvc)

	return &HandlerBundle{
		UserRepo: userRepo,

		RegisterUserHandler:        userHandler.Register,
		AuthenticateUserHandler:    userHandler.Login,
		GetProfileHandler:          userHandler.Profile,
		UpdateProfileHandler:       userHandler.UpdateProfile,
		UpdateFCMTokenHandler:      userHandler.UpdateFCMToken,
		RevokeUserAuthTokenHandler: userHandler.Logout,

		CreateServiceHandler:   serviceHandler.Create,
		GetServiceHandler:      serviceHandler.Get,
		ListServicesHandler:    serviceHandler.List,
		ListReviewsHandler:     serviceHandler.Reviews,
		GetServiceSlotsHandler: serviceHandler.Slots,

		CreateBookingHandler:  bookingHandler.Create,
		GetBookingHandler:     bookingHandler.Get,
		ListBookingsHandler:   bookingHandler.List,
		CancelBookingHandler:  bookingHandler.Cancel,
		RateBookingHandler:    bookingHandler.Rate,
		ApplyPromoCodeHandler: bookingHandler.ApplyPromo,

		OpenConversationHandler:  chatHandler.Open,
		ListConversationsHandler: chatHandler.List,
		SendMessageHandler:       chatHandler.Send,
		ListMessagesHandler:      chatHandler.Messages,
		MarkChatReadHandler:      chatHandler.MarkRead,
		ClearChatHandler:         chatHandler.Clear,
		UploadChatImageHandler:   chatHandler.UploadImage,

		InitiateCallHandler:    callHandler.Initiate,
		AcceptCallHandler:      callHandler.Accept,
		EndCallHandler:         callHandler.End,
		DeclineCallHandler:     callHandler.Decline,
		GetCallHandler:         callHandler.Get,
		ListCallHistoryHandler: callHandler.History,
		WatchCallHandler:       callHandler.Watch,

		ListNotificationsHandler:    notifHandler.List,
		MarkNotificationReadHandler: notifHandler.MarkRead,
		MarkAllNotificationsHandler: notifHandler.MarkAllRead,
		UnreadNotificationsHandler:  notifHandler.UnreadCount,

		UploadFileHandler: storageHandler.Upload,
	}
}

// authedUserID returns the user ID set by the auth middleware.
func authedUserID(c *gin.Context) (string, bool) {
	val, exists := c.Get("userID")
	if !exists {
		return "", false
	}
	id, ok := val.(string)
	return id, ok && id != ""
}

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blaccbook/config"
	"blaccbook/cron"
	"blaccbook/database"
	bookingRepoPkg "blaccbook/database/repository/booking"
	callRepoPkg "blaccbook/database/repository/call"
	chatRepoPkg "blaccbook/database/repository/chat"
	notificationRepoPkg "blaccbook/database/repository/notification"
	promoRepoPkg "blaccbook/database/repository/promo"
	reviewRepoPkg "blaccbook/database/repository/review"
	serviceRepoPkg "blaccbook/database/repository/service"
	userRepoPkg "blaccbook/database/repository/user"
	"blaccbook/handlers"
	"blaccbook/middleware"
	"blaccbook/routes"
	"blaccbook/services/booking"
	"blaccbook/services/call"
	"blaccbook/services/catalog"
	"blaccbook/services/chat"
	"blaccbook/services/notification"
	"blaccbook/services/tasks"
	"blaccbook/services/user"
	"blaccbook/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitAuthCache()
	utils.FirebaseInit()
	stripe.Key = config.AppConfig.StripeKey

	storageService, err := utils.Cloudinary()
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize cloudinary storage service: %v", err)
	}

	location := time.Local
	if tz := config.AppConfig.BusinessTZ; tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			logger.Sugar().Fatalf("main: invalid BUSINESS_TZ %q: %v", tz, err)
		}
		location = loc
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// Repositories.
	userRepo := userRepoPkg.NewMongoUserRepo()
	serviceRepo := serviceRepoPkg.NewMongoServiceRepo()
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()
	promoRepo := promoRepoPkg.NewMongoPromoRepo()
	reviewRepo := reviewRepoPkg.NewMongoReviewRepo()
	chatRepo := chatRepoPkg.NewMongoChatRepo()
	callRepo := callRepoPkg.NewMongoCallRepo()
	notificationRepo := notificationRepoPkg.NewMongoNotificationRepo()

	// Background reminder queue.
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	})
	defer asynqClient.Close()

	// Services.
	notificationService := &notification.DefaultNotificationService{
		Repo:  notificationRepo,
		Users: userRepo,
		FCM:   utils.FCMClient,
	}
	userService := &user.DefaultUserService{
		Repo:      userRepo,
		AuthCache: utils.GetAuthCacheClient(),
	}
	catalogService := &catalog.DefaultCatalogService{
		Services: serviceRepo,
		Reviews:  reviewRepo,
	}
	bookingService := &booking.DefaultBookingService{
		Bookings:  bookingRepo,
		Services:  serviceRepo,
		Promos:    promoRepo,
		Reviews:   reviewRepo,
		Notifier:  notificationService,
		Payments:  booking.NewStripeProcessor(),
		Scheduler: tasks.NewAsynqScheduler(asynqClient),
		Cache:     utils.GetCacheClient(),
		Location:  location,
	}
	chatService := &chat.DefaultChatService{
		Repo:     chatRepo,
		Notifier: notificationService,
		Storage:  storageService,
	}
	callService := &call.DefaultCallService{
		Repo:     callRepo,
		Notifier: notificationService,
	}

	// Assemble the handler bundle and register routes.
	handlerBundle := handlers.NewHandlerBundle(
		userRepo,
		userService,
		catalogService,
		bookingService,
		chatService,
		callService,
		notificationService,
		storageService,
	)
	routes.RegisterRoutes(router, handlerBundle)

	// Start the reminder worker.
	reminderWorker := cron.NewReminderWorker(bookingRepo, notificationService)
	reminderWorker.Start()
	defer reminderWorker.Shutdown()

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}

package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"canvasclub/cache"
	"canvasclub/config"
	"canvasclub/db"
	"canvasclub/handlers"
	"canvasclub/middleware"
	"canvasclub/services"
	"canvasclub/store"
)

func runMigrations() {
	sqlBytes, err := os.ReadFile("schema.sql")
	if err != nil {
		log.Fatal("Failed to read schema.sql:", err)
	}

	if _, err := db.GetDB().Exec(string(sqlBytes)); err != nil {
		log.Fatal("Failed to apply schema:", err)
	}
	log.Println("Database schema verified")
}

func main() {
	cfg := config.Load()

	if err := db.InitDB(cfg.DatabaseURL); err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}
	runMigrations()

	redisClient, err := cache.NewRedis(cfg.RedisHost, cfg.RedisPort)
	if err != nil {
		// Redis only backs idempotency replay and rate limiting; the store
		// still works without it.
		fmt.Printf("Redis unavailable, idempotency and rate limiting disabled: %v\n", err)
	}

	st := store.New(db.GetDB())

	printify := services.NewPrintifyClient(cfg.PrintifyAPIKey, cfg.PrintifyShopID)
	stripeGateway := services.NewStripeGateway(cfg.StripeSecretKey)
	catalog := services.NewCatalog(printify)
	orderWriter := services.NewOrderWriter(printify, stripeGateway, st)
	billing := services.NewBilling(stripeGateway, st)
	storage := services.NewStorage(cfg.StorageBaseURL, cfg.StorageSecret)
	mailer := services.NewMailer(cfg.SendGridAPIKey, cfg.ContactEmail)

	auth := middleware.NewAuth(cfg.JWTSecret, st)

	authHandler := handlers.NewAuthHandler(st, cfg.JWTSecret)
	userHandler := handlers.NewUserHandler(st)
	productHandler := handlers.NewProductHandler(catalog)
	orderHandler := handlers.NewOrderHandler(orderWriter, st)
	subscriptionHandler := handlers.NewSubscriptionHandler(billing)
	webhookHandler := handlers.NewWebhookHandler(billing, cfg.StripeWebhookSecret)
	contactHandler := handlers.NewContactHandler(st, mailer)
	videoHandler := handlers.NewVideoHandler(st, storage)
	adminHandler := handlers.NewAdminHandler(st)

	r := gin.Default()

	api := r.Group("/api")
	{
		api.POST("/auth/signup", authHandler.Signup)
		api.POST("/auth/login", authHandler.Login)

		api.GET("/products", productHandler.List)
		api.GET("/products/categories", productHandler.Categories)
		api.GET("/products/shipping-estimates", productHandler.ShippingEstimates)
		api.GET("/products/:id", productHandler.Get)

		api.GET("/subscriptions/plans", subscriptionHandler.Plans)

		api.GET("/videos", videoHandler.List)
		api.GET("/videos/tags", videoHandler.Tags)
		api.GET("/videos/:id", auth.Optional(), videoHandler.Get)

		if redisClient != nil {
			api.POST("/contact", middleware.RateLimiter(redisClient), contactHandler.Create)
		} else {
			api.POST("/contact", contactHandler.Create)
		}

		api.POST("/webhooks/stripe", webhookHandler.Stripe)
	}

	authed := api.Group("")
	authed.Use(auth.Required())
	{
		authed.GET("/auth/me", authHandler.Me)
		authed.PUT("/users/profile", userHandler.UpdateProfile)
		authed.PUT("/users/password", userHandler.UpdatePassword)

		if redisClient != nil {
			authed.POST("/orders", middleware.Idempotency(redisClient), orderHandler.Create)
		} else {
			authed.POST("/orders", orderHandler.Create)
		}
		authed.GET("/orders/user", orderHandler.ListMine)
		authed.GET("/orders/:id", orderHandler.Get)

		authed.POST("/subscriptions", subscriptionHandler.Create)
		authed.GET("/subscriptions/current", subscriptionHandler.Current)
		authed.POST("/subscriptions/cancel", subscriptionHandler.Cancel)
		authed.POST("/subscriptions/resume", subscriptionHandler.Resume)
		authed.POST("/subscriptions/setup-intent", subscriptionHandler.SetupIntent)
	}

	analytics := api.Group("/analytics")
	analytics.Use(auth.Required(), middleware.AdminRequired())
	{
		analytics.GET("/subscriptions", adminHandler.SubscriptionAnalytics)
		analytics.GET("/subscriptions/metrics", adminHandler.SubscriptionMetrics)
	}

	admin := api.Group("/admin")
	admin.Use(auth.Required(), middleware.AdminRequired())
	{
		admin.GET("/dashboard", adminHandler.Dashboard)

		admin.GET("/orders/unfulfilled", orderHandler.Unfulfilled)
		admin.POST("/orders/:id/fulfill", orderHandler.Fulfill)

		admin.POST("/videos", videoHandler.Create)
		admin.DELETE("/videos/:id", videoHandler.Delete)

		admin.GET("/contact", contactHandler.List)
		admin.PUT("/contact/:id/status", contactHandler.UpdateStatus)
	}

	fmt.Println("Server starting on port " + cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Server failed: ", err)
	}
}

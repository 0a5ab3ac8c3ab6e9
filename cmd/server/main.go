package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"print-kiosk-backend/internal/config"
	"print-kiosk-backend/internal/database"
	"print-kiosk-backend/internal/handlers"
	"print-kiosk-backend/internal/middleware"
	"print-kiosk-backend/internal/obs"
	"print-kiosk-backend/internal/otp"
	"print-kiosk-backend/internal/pagecount"
	"print-kiosk-backend/internal/payment"
	"print-kiosk-backend/internal/store"
	"print-kiosk-backend/internal/supabase"
	"print-kiosk-backend/internal/workflow"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Run migrations before anything touches the schema.
	migrator, err := database.NewMigrator(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize migrator: %v", err)
	}
	if err := migrator.Run(context.Background()); err != nil {
		migrator.Close()
		log.Fatalf("Migration failed: %v", err)
	}
	migrator.Close()
	log.Println("Migrations completed successfully")

	db, err := store.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	supabaseClient, err := supabase.NewClient(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize Supabase client: %v", err)
	}

	storageClient, err := supabase.NewStorageClient(cfg.SupabaseURL, cfg.SupabaseServiceKey, cfg.SupabaseStorageBucket)
	if err != nil {
		log.Fatalf("Failed to initialize storage client: %v", err)
	}

	realtimeClient := supabase.NewRealtimeClient(supabaseClient.Supabase)
	paymentClient := payment.NewClient(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)

	engine := workflow.NewEngine(
		db, db, db,
		storageClient,
		pagecount.NewCounter(),
		otp.NewGenerator(cfg.OTPLength),
		realtimeClient,
		workflow.EngineConfig{
			GatewaySecret: cfg.RazorpayKeySecret,
			OTPValidity:   cfg.OTPValidity,
			SignedURLTTL:  cfg.SignedURLTTL,
		},
	)

	jobsHandler := handlers.NewJobsHandler(engine)
	otpHandler := handlers.NewOTPHandler(engine)
	paymentsHandler := handlers.NewPaymentsHandler(paymentClient)
	kiosksHandler := handlers.NewKiosksHandler(db)
	transactionsHandler := handlers.NewTransactionsHandler(db)

	router := gin.Default()
	router.Use(obs.MetricsMiddleware())

	router.GET("/health", handlers.HealthHandler)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")

	// Kiosk-facing routes. Kiosks are unauthenticated devices; abuse is
	// bounded by the payment gateway and the OTP burn.
	api.POST("/uploads", jobsHandler.Upload)
	api.POST("/uploads/:job_id/confirm-payment", jobsHandler.ConfirmPayment)
	api.PUT("/uploads/:job_id/status", jobsHandler.UpdateStatus)
	api.POST("/otp/verify", otpHandler.Verify)
	api.POST("/payments/create-order", paymentsHandler.CreateOrder)
	api.GET("/payments/status", paymentsHandler.Status)

	// Admin routes
	admin := api.Group("")
	admin.Use(middleware.AuthMiddleware(cfg))

	admin.POST("/kiosks", kiosksHandler.Create)
	admin.GET("/kiosks", kiosksHandler.List)
	admin.GET("/kiosks/:kiosk_id", kiosksHandler.Get)
	admin.PATCH("/kiosks/:kiosk_id", kiosksHandler.Update)
	admin.DELETE("/kiosks/:kiosk_id", kiosksHandler.Deactivate)
	admin.PUT("/kiosks/:kiosk_id/printer-status", kiosksHandler.UpdatePrinterStatus)
	admin.POST("/kiosks/:kiosk_id/refresh-stats", kiosksHandler.RefreshStats)

	admin.GET("/transactions/:transaction_id", transactionsHandler.Get)
	admin.GET("/transactions/kiosk/:kiosk_id", transactionsHandler.ListByKiosk)
	admin.GET("/transactions/kiosk/:kiosk_id/stats", transactionsHandler.Stats)
	admin.GET("/transactions/kiosk/:kiosk_id/recent", transactionsHandler.Recent)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

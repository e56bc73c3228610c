package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"recycle-rewards-system/handlers"
	"recycle-rewards-system/middleware"
	"recycle-rewards-system/models"
	"recycle-rewards-system/services"
	"recycle-rewards-system/utils"
	"recycle-rewards-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 20 * 1024 * 1024, // 20MB — photos only
	})

	// 🔐❗ GLOBAL: Only Gateway requests allowed — no exceptions
	app.Use(middleware.GatewayAuthMiddleware())

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, User-Agent, Cache-Control, X-User-ID, X-User-Email, X-User-Roles",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	if err := utils.InitR2(); err != nil {
		log.Fatal("failed to initialize R2 client:", err)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.Profile{},
		&models.RecyclingSubmission{},
		&models.PointsTransaction{},
		&models.Reward{},
		&models.RewardRedemption{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	awardService := services.NewAwardService(db)
	redemptionService := services.NewRedemptionService(db)
	profileService := services.NewProfileService(db)
	catalogAdminService := services.NewCatalogAdminService(db)

	verifyServiceURL := os.Getenv("VERIFY_SERVICE_URL")
	if verifyServiceURL == "" {
		log.Fatal("VERIFY_SERVICE_URL environment variable not set")
	}
	serviceToken := os.Getenv("RECYCLE_SERVICE_TOKEN")
	if serviceToken == "" {
		log.Fatal("RECYCLE_SERVICE_TOKEN environment variable not set")
	}
	authServiceURL := os.Getenv("AUTH_SERVICE_URL")
	if authServiceURL == "" {
		log.Fatal("AUTH_SERVICE_URL environment variable not set")
	}

	verifyClient := services.NewVerifyServiceClient(verifyServiceURL, serviceToken)
	authClient := services.NewAuthServiceClient(authServiceURL, serviceToken)

	profileSyncWorker := workers.NewProfileSyncWorker(db, authServiceURL, "/api/v1/public/profiles", serviceToken)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Println("Starting Profile Sync Worker...")
		profileSyncWorker.Start(ctx)
	}()

	// Partner catalog polling is optional — without a partner service the
	// catalog is admin-managed only.
	if partnerCatalogURL := os.Getenv("PARTNER_CATALOG_URL"); partnerCatalogURL != "" {
		catalogSyncClient := workers.NewCatalogSyncClient(db, partnerCatalogURL, serviceToken)
		go workers.PollCatalog(ctx, catalogSyncClient, 5*time.Minute)
	}

	reconcileMinutes := 15
	if v := os.Getenv("RECONCILE_INTERVAL_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			reconcileMinutes = n
		}
	}
	profileService.StartReconciliationScheduler(time.Duration(reconcileMinutes) * time.Minute)

	// ✅ Setup routes — enforced Gateway auth + user context on secured paths
	handlers.SetupSubmissionRoutes(app, awardService, verifyClient)
	handlers.SetupRewardRoutes(app, redemptionService, profileService, catalogAdminService)
	handlers.SetupProfileRoutes(app, profileService, authClient)

	go func() {
		if err := app.Listen(":5300"); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Println("✅ Server running on http://localhost:5300")
	log.Println("✅ Profile Sync Worker running")
	log.Printf("✅ Ledger reconciliation audit running (every %dm)", reconcileMinutes)
	log.Println("✅ GatewayAuthMiddleware enforced globally — all requests must come from Gateway")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
}

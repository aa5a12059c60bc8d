package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"loyalty-mission-system/handlers"
	"loyalty-mission-system/models"
	"loyalty-mission-system/repository"
	"loyalty-mission-system/services"
	"loyalty-mission-system/utils"

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

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable not set")
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	// TranslateError lets unique-constraint violations surface as
	// gorm.ErrDuplicatedKey, which the repositories rely on.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.Member{},
		&models.MemberPreference{},
		&models.Store{},
		&models.Review{},
		&models.Mission{},
		&models.MemberMission{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	if os.Getenv("R2_ACCESS_KEY_ID") != "" {
		if err := utils.InitR2(); err != nil {
			log.Fatal("failed to initialize R2 client:", err)
		}
	} else {
		log.Println("⚠️  R2 not configured, store logos will be saved locally")
		if err := utils.EnsureUploadDir(); err != nil {
			log.Fatal("failed to ensure upload dir:", err)
		}
	}

	memberRepo := repository.NewMemberRepository(db)
	missionRepo := repository.NewMissionRepository(db)
	participationRepo := repository.NewParticipationRepository(db)

	tokenService := services.NewTokenService([]byte(jwtSecret))
	credentialService := services.NewCredentialService()
	identityService := services.NewIdentityService(memberRepo, credentialService, tokenService)
	missionService := services.NewMissionService(participationRepo, missionRepo)
	storeService := services.NewStoreService(db)

	oauthService := services.NewOAuthService(
		os.Getenv("OAUTH_GOOGLE_CLIENT_ID"),
		os.Getenv("OAUTH_GOOGLE_CLIENT_SECRET"),
		os.Getenv("OAUTH_GOOGLE_CALLBACK_URL"),
		identityService,
	)

	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024, // 10MB, enough for logo uploads
	})

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(allowedOriginsList, ","),
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	missionService.StartDeadlineSweep()

	handlers.SetupAuthRoutes(app, identityService, oauthService, tokenService)
	handlers.SetupMissionRoutes(app, missionService, tokenService)
	handlers.SetupStoreRoutes(app, storeService)

	app.Static("/uploads", "./uploads")

	port := os.Getenv("PORT")
	if port == "" {
		port = "5300"
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", port)
	log.Println("✅ Deadline sweep running (every 1m)")
	if oauthService.Enabled() {
		log.Println("✅ Google OAuth federation enabled")
	}

	<-ctx.Done()
	log.Println("Shutting down server...")
	_ = app.Shutdown()
}

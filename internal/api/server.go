package api

import (
	"log"

	"github.com/SundayYogurt/site_service/config"
	"github.com/SundayYogurt/site_service/infra/queue"
	"github.com/SundayYogurt/site_service/internal/api/rest/handlers"
	"github.com/SundayYogurt/site_service/internal/domain"
	"github.com/SundayYogurt/site_service/internal/helper"
	"github.com/SundayYogurt/site_service/internal/helper/utils"
	"github.com/SundayYogurt/site_service/internal/interfaces"
	"github.com/SundayYogurt/site_service/internal/notify"
	"github.com/SundayYogurt/site_service/internal/repository"
	"github.com/SundayYogurt/site_service/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func StartServer(cfg config.Config) {
	app := fiber.New()

	// ---------- CORS ----------
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	// ---------- DB ----------
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DatabaseDSN,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	if err != nil {
		log.Fatalf("database connection error: %v", err)
	}
	log.Println("database connected")

	// ---------- MIGRATION (guarded by advisory lock) ----------
	const migrateLockID int64 = 20260829

	if err := db.Exec("SELECT pg_advisory_lock(?)", migrateLockID).Error; err != nil {
		log.Fatalf("migration lock error: %v", err)
	}
	defer func() {
		_ = db.Exec("SELECT pg_advisory_unlock(?)", migrateLockID).Error
	}()

	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Token{},
		&domain.TokenUserLink{},
		&domain.PendingUserModification{},
	); err != nil {
		log.Fatalf("migration error: %v", err)
	}
	log.Println("migration successful")

	// ---------- Infra ----------
	authHelper := helper.SetupAuth(cfg.JWTSecret, cfg.TokenTTL)

	// ---------- Repositories ----------
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	modRepo := repository.NewModificationRepository(db)

	// the production deployment delivers confirmation tokens through the
	// users topic; everything else logs them directly
	var notifier interfaces.Notifier
	if cfg.Env == "prod" {
		producer := queue.NewProducer(
			cfg.KafkaBroker,
			cfg.KafkaTopic,
			cfg.KafkaUsername,
			cfg.KafkaPassword,
		)
		notifier = notify.NewQueueNotifier(producer, cfg.Env)

		consumer := queue.NewKafkaConsumer(
			cfg.KafkaBroker,
			cfg.KafkaTopic,
			cfg.KafkaGroupID,
			cfg.KafkaUsername,
			cfg.KafkaPassword,
			services.NewUserEventHandler(),
		)
		go consumer.Listen()
	} else {
		notifier = notify.NewDirectNotifier()
	}

	// ---------- Services ----------
	userSvc := services.NewUserService(userRepo, tokenRepo, modRepo, notifier, authHelper)
	blogSvc, err := services.NewBlogService(cfg)
	if err != nil {
		log.Fatalf("blog storage init error: %v", err)
	}
	buildSvc := services.NewBuildService(cfg.VercelToken, cfg.VercelProject, cfg.BuildsSecret)

	// ---------- Handlers ----------
	handlers.NewUserHandler(userSvc, authHelper).SetupRoutes(app)
	handlers.NewBlogHandler(blogSvc).SetupRoutes(app)
	handlers.NewBuildHandler(buildSvc, authHelper).SetupRoutes(app)

	// ---------- Health ----------
	app.Get("/", func(c *fiber.Ctx) error {
		dbStatus := "up"
		if err := db.Exec("SELECT 1").Error; err != nil {
			log.Printf("health check db error: %v", err)
			dbStatus = "down"
		}
		msg := "api is available"
		if dbStatus != "up" {
			msg = "api is partly available"
		}
		return utils.ResponseSuccess(c, fiber.StatusOK, msg, fiber.Map{
			"services": []fiber.Map{
				{"service": "database", "status": dbStatus},
			},
		})
	})

	// ---------- Listen ----------
	addr := cfg.ServerPort
	log.Println("listening on", addr)
	log.Fatal(app.Listen(addr))
}

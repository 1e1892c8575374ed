package main

import (
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fadilmartias/cv-feedback/internal/config"
	"github.com/fadilmartias/cv-feedback/internal/domain/fiber/handler"
	"github.com/fadilmartias/cv-feedback/internal/middleware"
	"github.com/fadilmartias/cv-feedback/internal/model"
	"github.com/fadilmartias/cv-feedback/internal/repository"
	"github.com/fadilmartias/cv-feedback/internal/service"
	"github.com/fadilmartias/cv-feedback/internal/usecase"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	// Load .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("Could not load .env file")
	}

	appConfig := config.LoadAppConfig()
	backendConfig := config.LoadBackendConfig()
	dbConfig := config.LoadDBConfig()

	app := fiber.New(fiber.Config{
		AppName:      appConfig.Name,
		BodyLimit:    handler.BodyLimit,
		ErrorHandler: handler.ErrorHandler,
	})
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))
	// Use middleware
	app.Use(recover.New(recover.Config{
		EnableStackTrace: !appConfig.IsProduction(),
	}))

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed, // 1
	}))
	app.Use(pprof.New(pprof.Config{
		Next: func(c *fiber.Ctx) bool {
			return appConfig.IsProduction()
		},
	}))

	var (
		db            *gorm.DB
		analysisStore usecase.AnalysisStore
	)
	if dbConfig.Enabled() {
		db = ConnectDB(dbConfig, appConfig)
		analysisStore = repository.NewAnalysisRepository(db)
	} else {
		log.Println("DB_HOST not set, analysis history disabled")
	}

	app.Use(healthcheck.New(healthcheck.Config{
		ReadinessProbe: func(c *fiber.Ctx) bool {
			if db == nil {
				return true
			}
			sqlDB, err := db.DB()
			return err == nil && sqlDB.PingContext(c.Context()) == nil
		},
	}))

	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))

	app.Use(middleware.RateLimiter(50, 1*time.Minute))

	analyzer := service.NewAnalyzerService(backendConfig.AnalyzeURL, backendConfig.LastAnalysisURL, backendConfig.Timeout)
	uc := usecase.NewAnalysisUsecase(analyzer, analysisStore)
	handler.NewUploadHandler(uc).RegisterRoutes(app)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": appConfig.Name,
			"backend": backendConfig.AnalyzeURL,
			"endpoints": []string{
				"POST /api/upload",
				"GET /api/last-analysis",
				"GET /api/analyses",
				"GET /api/analyses/:id",
			},
		})
	})

	// Monitor goroutine count
	go func() {
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			log.Printf("Active goroutines: %d", runtime.NumGoroutine())
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("Shutting down server...")
		if err := app.ShutdownWithTimeout(backendConfig.Timeout + 5*time.Second); err != nil {
			log.Printf("Server forced to shutdown: %v", err)
		}
	}()

	log.Printf("Server running on %s, forwarding to %s", appConfig.Port, backendConfig.AnalyzeURL)
	if err := app.Listen(appConfig.Port); err != nil {
		log.Fatal(err)
	}

	if db != nil {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

func ConnectDB(dbConfig *config.DBConfig, appConfig *config.AppConfig) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dbConfig.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Could not connect to database: %v", err)
	}
	pgDB, err := db.DB()
	if err != nil {
		log.Fatalf("Could not get database instance: %v", err)
	}
	if !appConfig.IsProduction() {
		pgDB.SetMaxIdleConns(5)
		pgDB.SetMaxOpenConns(10)
		pgDB.SetConnMaxLifetime(30 * time.Minute)
	} else {
		pgDB.SetMaxIdleConns(20)
		pgDB.SetMaxOpenConns(200)
		pgDB.SetConnMaxLifetime(time.Hour)
	}

	err = db.AutoMigrate(&model.Analysis{})
	if err != nil {
		log.Fatal("migration failed: ", err)
	}
	return db
}

package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/retailcore/inventory-service/config"
	"github.com/retailcore/inventory-service/internal/pkg/broker"
	"github.com/retailcore/inventory-service/internal/pkg/cache"
	"github.com/retailcore/inventory-service/internal/pkg/logger"
	"github.com/retailcore/inventory-service/internal/pkg/postgres"
	"github.com/retailcore/inventory-service/internal/pkg/search"

	auditH "github.com/retailcore/inventory-service/internal/audit/handler"
	auditRepoPkg "github.com/retailcore/inventory-service/internal/audit/repository"
	auditUCPkg "github.com/retailcore/inventory-service/internal/audit/usecase"

	ledgerH "github.com/retailcore/inventory-service/internal/ledger/handler"
	ledgerListenerPkg "github.com/retailcore/inventory-service/internal/ledger/listener"
	ledgerRepoPkg "github.com/retailcore/inventory-service/internal/ledger/repository"
	ledgerUCPkg "github.com/retailcore/inventory-service/internal/ledger/usecase"

	queryH "github.com/retailcore/inventory-service/internal/query/handler"
	queryRepoPkg "github.com/retailcore/inventory-service/internal/query/repository"
	queryUCPkg "github.com/retailcore/inventory-service/internal/query/usecase"

	receiptH "github.com/retailcore/inventory-service/internal/receipt/handler"
	receiptRepoPkg "github.com/retailcore/inventory-service/internal/receipt/repository"
	receiptUCPkg "github.com/retailcore/inventory-service/internal/receipt/usecase"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load() // Load .env file if it exists
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.Config{
		IsDevelopment:     false,
		Encoding:          "json",
		Level:             "info",
		DisableCaller:     false,
		DisableStacktrace: false,
	}
	if cfg.Server.AppEnv == "dev" || cfg.Server.AppEnv == "development" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = cfg.Logger.Encoding
		logConfig.Level = cfg.Logger.Level
	}

	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	// 3. Connect to Database
	db, err := postgres.NewPostgres(&postgres.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

	// 4. Initialize Redis (per-variant stock locks)
	redisClient, err := cache.NewRedisClient(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))

	// 5. Initialize Elasticsearch (optional stock search)
	esClient, err := search.NewClient(&search.Config{
		Addresses: cfg.Elastic.Addresses,
		Username:  cfg.Elastic.Username,
		Password:  cfg.Elastic.Password,
	})
	if err != nil {
		appLogger.Warn("Could not connect to Elasticsearch (stock search falls back to SQL)", zap.Error(err))
		esClient = nil
	} else {
		appLogger.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
	}

	// 6. Initialize Kafka Consumer (order workflow events)
	kafkaConsumer := broker.NewConsumer(&broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.Topic,
		GroupID: cfg.Kafka.GroupID,
	})
	defer kafkaConsumer.Close()
	appLogger.Info("Connected to Kafka Consumer", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))

	// 7. Initialize Repositories
	ledgerRepo := ledgerRepoPkg.NewPGRepository(db)
	receiptRepo := receiptRepoPkg.NewPGRepository(db)
	auditRepo := auditRepoPkg.NewPGRepository(db)
	queryRepo := queryRepoPkg.NewPGRepository(db)

	// 8. Initialize UseCases
	lockTTL := time.Duration(cfg.Inventory.LockTTLSeconds) * time.Second
	ledgerUC := ledgerUCPkg.NewLedgerUseCase(ledgerRepo, redisClient, esClient, appLogger, lockTTL)
	receiptUC := receiptUCPkg.NewReceiptUseCase(receiptRepo, ledgerRepo, redisClient, appLogger, lockTTL)
	auditUC := auditUCPkg.NewAuditUseCase(auditRepo, ledgerUC, appLogger, cfg.Inventory.AuditStaleDays)
	queryUC := queryUCPkg.NewQueryUseCase(queryRepo, esClient, appLogger, cfg.Inventory.LowStockThreshold)

	// 9. Start Order Event Listener
	orderListener := ledgerListenerPkg.NewOrderListener(kafkaConsumer, ledgerUC, appLogger)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go orderListener.Start(ctx)

	// 10. Initialize HTTP Server
	app := fiber.New()
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New())

	api := app.Group("/api/v1")
	ledgerH.NewLedgerHandler(ledgerUC, appLogger).Register(api)
	receiptH.NewReceiptHandler(receiptUC, appLogger).Register(api)
	auditH.NewAuditHandler(auditUC, appLogger).Register(api)
	queryH.NewQueryHandler(queryUC, appLogger).Register(api)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"service": "inventory-service", "status": "healthy"})
	})

	port := cfg.Server.HTTPPort
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	go func() {
		if err := app.Listen(port); err != nil {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()
	appLogger.Info("Starting HTTP server", zap.String("port", port))

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	cancel()
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		appLogger.Error("forced shutdown", zap.Error(err))
	}
	appLogger.Info("Server stopped")
}

package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"medical-appointment-api/config"
	deliveryHttp "medical-appointment-api/internal/delivery/http"
	"medical-appointment-api/internal/delivery/http/handler"
	"medical-appointment-api/internal/delivery/http/middleware"
	"medical-appointment-api/internal/infrastructure/cache"
	"medical-appointment-api/internal/infrastructure/database"
	"medical-appointment-api/internal/infrastructure/messaging"
	"medical-appointment-api/internal/infrastructure/migration"
	"medical-appointment-api/internal/monitoring"
	"medical-appointment-api/internal/repository"
	"medical-appointment-api/internal/service"
	"medical-appointment-api/internal/usecase"
	"medical-appointment-api/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config         *config.Config
	DB             *gorm.DB
	RedisClient    *redis.Client
	KafkaPublisher *messaging.KafkaPublisher
	Server         *http.Server
}

// Options tune how the app starts
type Options struct {
	ConfigPath string
	Migrate    bool
}

// New creates a new App instance with all dependencies initialized
func New(opts Options) (*App, error) {
	app := &App{}

	// Load configuration
	cfg, err := config.LoadConfig(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	// Setup logger
	log := setupLogger(cfg.App.LogLevel)
	log.Info("Configuration loaded successfully")

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB, cfg.App.IsProduction())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db

	if opts.Migrate {
		migrator, err := NewMigrator(db, log)
		if err != nil {
			app.Close()
			return nil, err
		}
		if err := migrator.Up(); err != nil {
			app.Close()
			return nil, err
		}
	}

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient

	// Initialize event publishing
	var publisher service.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		app.KafkaPublisher = messaging.NewKafkaPublisher(cfg.Kafka, log)
		publisher = app.KafkaPublisher
		log.Infof("Publishing appointment events to topic %s", cfg.Kafka.AppointmentTopic)
	} else {
		publisher = service.NewLogEventPublisher(log)
		log.Info("No Kafka brokers configured, appointment events are only logged")
	}

	// Initialize all layers
	server, err := initializeServer(cfg, log, db, redisClient, publisher)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Server = server

	return app, nil
}

// NewMigrator builds a schema migrator on top of the gorm connection pool
func NewMigrator(db *gorm.DB, log *logrus.Logger) (*migration.Migrator, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	return migration.NewMigrator(sqlDB, log)
}

// setupLogger configures the logrus logger
func setupLogger(level string) *logrus.Logger {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logrus.SetLevel(parsed)

	return logrus.StandardLogger()
}

// initializeServer creates and configures the HTTP server
func initializeServer(
	cfg *config.Config,
	log *logrus.Logger,
	db *gorm.DB,
	redisClient *redis.Client,
	publisher service.EventPublisher,
) (*http.Server, error) {
	policy, err := usecase.NewSchedulingPolicy(cfg.Scheduling)
	if err != nil {
		return nil, err
	}

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize repositories
	transactor := repository.NewTransactor(db)
	doctorRepo := repository.NewDoctorRepository(db)
	patientRepo := repository.NewPatientRepository(db)
	appointmentRepo := repository.NewAppointmentRepository(db)
	auditLogRepo := repository.NewAuditLogRepository(db)

	// Initialize services
	auditService := service.NewAuditService(log, auditLogRepo)
	slotLockService := service.NewSlotLockService(redisClient, log, cfg.Redis.SlotLockTTL)

	// Initialize usecases
	availability := usecase.NewDoctorAvailability(log, doctorRepo, appointmentRepo, usecase.NewDefaultRandom())
	doctorUsecase := usecase.NewDoctorUsecase(log, transactor, doctorRepo, auditService)
	patientUsecase := usecase.NewPatientUsecase(log, transactor, patientRepo, auditService)
	appointmentUsecase := usecase.NewAppointmentUsecase(
		log,
		transactor,
		patientRepo,
		doctorRepo,
		appointmentRepo,
		availability,
		slotLockService,
		auditService,
		publisher,
		usecase.NewSystemClock(),
		policy,
	)
	auditLogUsecase := usecase.NewAuditLogUsecase(log, auditLogRepo)

	// Initialize handlers
	doctorHandler := handler.NewDoctorHandler(doctorUsecase, customValidator)
	patientHandler := handler.NewPatientHandler(patientUsecase, appointmentUsecase, customValidator)
	appointmentHandler := handler.NewAppointmentHandler(appointmentUsecase, customValidator)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase)

	// Initialize middleware
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.CORSAllowedOrigin)
	requestMiddleware := middleware.NewRequestMiddleware(log)

	monitoring.Init()

	// Initialize router
	router := deliveryHttp.NewRouter(doctorHandler, patientHandler, appointmentHandler, auditLogHandler, corsMiddleware, requestMiddleware)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:              serverAddr,
		Handler:           httpRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}, nil
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, kafka)
func (app *App) Close() {
	// Flush pending events before the rest goes away
	if app.KafkaPublisher != nil {
		if err := app.KafkaPublisher.Close(); err != nil {
			logrus.Warnf("Failed to close Kafka writer: %v", err)
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}

	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}

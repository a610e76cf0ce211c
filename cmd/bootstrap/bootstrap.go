package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clinic-agenda/config"
	deliveryHttp "clinic-agenda/internal/delivery/http"
	"clinic-agenda/internal/delivery/http/handler"
	"clinic-agenda/internal/delivery/http/middleware"
	"clinic-agenda/internal/domain/schedule"
	"clinic-agenda/internal/infrastructure/cache"
	"clinic-agenda/internal/infrastructure/database"
	"clinic-agenda/internal/infrastructure/migration"
	"clinic-agenda/internal/repository"
	"clinic-agenda/internal/service"
	"clinic-agenda/internal/usecase"
	"clinic-agenda/pkg/jwt"
	"clinic-agenda/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
	DateLocks   *service.DateLockService
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	// Setup logger
	setupLogger(cfg.App.LogLevel)
	logrus.Info("Configuration loaded successfully")

	slotClock, err := slotClockFrom(cfg.Schedule)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule config: %w", err)
	}

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB, cfg.IsDev())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db

	// Initialize Redis (optional)
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient

	// Initialize all layers
	server, dateLocks, err := initializeServer(cfg, db, redisClient, slotClock)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Server = server
	app.DateLocks = dateLocks

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger(level string) {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
}

// slotClockFrom validates the opening hours and appointment length.
func slotClockFrom(cfg config.ScheduleConfig) (schedule.SlotClock, error) {
	dayStart, err := schedule.ParseClock(cfg.DayStart)
	if err != nil {
		return schedule.SlotClock{}, fmt.Errorf("SCHEDULE_DAY_START: %w", err)
	}
	dayEnd, err := schedule.ParseClock(cfg.DayEnd)
	if err != nil {
		return schedule.SlotClock{}, fmt.Errorf("SCHEDULE_DAY_END: %w", err)
	}
	if dayEnd <= dayStart {
		return schedule.SlotClock{}, fmt.Errorf("SCHEDULE_DAY_END %s must be after SCHEDULE_DAY_START %s", dayEnd, dayStart)
	}
	if cfg.SlotMinutes <= 0 {
		return schedule.SlotClock{}, fmt.Errorf("SCHEDULE_SLOT_MINUTES must be positive, got %d", cfg.SlotMinutes)
	}

	return schedule.SlotClock{
		DayStart: dayStart,
		DayEnd:   dayEnd,
		Duration: time.Duration(cfg.SlotMinutes) * time.Minute,
	}, nil
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, slotClock schedule.SlotClock) (*http.Server, *service.DateLockService, error) {
	log := logrus.StandardLogger()

	jwtService := jwt.NewJWTService(cfg.JWT)
	customValidator := validator.NewValidator()

	// Initialize repositories
	transactor := repository.NewTransactor(db)
	appointmentRepo := repository.NewAppointmentRepository(db)
	assignmentRepo := repository.NewFixedDayAssignmentRepository(db)
	operatorRepo := repository.NewOperatorRepository(db)
	auditLogRepo := repository.NewAuditLogRepository(db)

	// Initialize services
	var tokenStore service.TokenStore
	if redisClient != nil {
		tokenStore = service.NewRedisTokenStore(redisClient)
	} else {
		tokenStore = service.NewMemoryTokenStore()
	}
	auditService := service.NewAuditService(log, auditLogRepo)
	fixedDayPolicy := service.NewFixedDayPolicy(assignmentRepo)
	dateLocks := service.NewDateLockService(redisClient, log, cfg.Schedule.LockTTL)

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(log, transactor, operatorRepo, jwtService, tokenStore, auditService)
	bookingUsecase := usecase.NewBookingUsecase(log, transactor, appointmentRepo, fixedDayPolicy, dateLocks, auditService, slotClock)
	fixedDayUsecase := usecase.NewFixedDayUsecase(log, transactor, assignmentRepo, auditService, slotClock)
	calendarUsecase := usecase.NewCalendarUsecase(log, appointmentRepo, assignmentRepo)
	auditLogUsecase := usecase.NewAuditLogUsecase(log, auditLogRepo)

	// Seed the shared operator account
	if cfg.Operator.Username != "" && cfg.Operator.Password != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := authUsecase.EnsureOperator(ctx, cfg.Operator.Username, cfg.Operator.Password); err != nil {
			dateLocks.Stop()
			return nil, nil, fmt.Errorf("failed to seed operator: %w", err)
		}
	} else {
		logrus.Warn("OPERATOR_USERNAME or OPERATOR_PASSWORD not set, no operator account seeded")
	}

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUsecase, customValidator)
	appointmentHandler := handler.NewAppointmentHandler(bookingUsecase, customValidator)
	calendarHandler := handler.NewCalendarHandler(calendarUsecase)
	fixedDayHandler := handler.NewFixedDayHandler(fixedDayUsecase, customValidator)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, tokenStore)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.CORSOrigin)

	// Initialize router
	router := deliveryHttp.NewRouter(
		authHandler,
		appointmentHandler,
		calendarHandler,
		fixedDayHandler,
		auditLogHandler,
		authMiddleware,
		corsMiddleware,
		cfg.App.LoginRatePerMinute,
	)
	httpRouter := router.Setup()

	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:              serverAddr,
		Handler:           httpRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}, dateLocks, nil
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

// Close stops background services and closes all connections
func (app *App) Close() {
	if app.DateLocks != nil {
		app.DateLocks.Stop()
	}

	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}

type MigrateDirection string

const (
	MigrateUp   MigrateDirection = "up"
	MigrateDown MigrateDirection = "down"
)

// Migrate connects to the database and applies the embedded migrations in one direction.
func Migrate(direction MigrateDirection) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	setupLogger(cfg.App.LogLevel)

	db, err := database.NewPostgresConnection(cfg.DB, false)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	migrator, err := migration.NewMigrator(db, logrus.StandardLogger())
	if err != nil {
		return err
	}

	switch direction {
	case MigrateUp:
		return migrator.Up()
	case MigrateDown:
		return migrator.Down()
	default:
		return fmt.Errorf("unknown migration direction %q", direction)
	}
}

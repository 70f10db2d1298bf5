package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/easepay/easepay/internal/app/controllers"
	appMigrations "github.com/easepay/easepay/internal/app/migrations"
	appRepos "github.com/easepay/easepay/internal/app/repositories"
	appRoutes "github.com/easepay/easepay/internal/app/routes"
	appServices "github.com/easepay/easepay/internal/app/services"
	"github.com/easepay/easepay/internal/cache"
	"github.com/easepay/easepay/internal/config"
	"github.com/easepay/easepay/internal/db"
	appMiddleware "github.com/easepay/easepay/internal/middleware"
	pkgAuth "github.com/easepay/easepay/internal/pkg/auth"
	"github.com/easepay/easepay/internal/pkg/cookies"
	"github.com/easepay/easepay/internal/pkg/email"
	"github.com/easepay/easepay/internal/pkg/helpers"
	"github.com/easepay/easepay/internal/pkg/logger"
	"github.com/easepay/easepay/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos                 *appRepos.Repositories
	Services              *appServices.Services
	UserController        *appControllers.UserController
	TransactionController *appControllers.TransactionController
	AuthMiddleware        *appMiddleware.AuthMiddleware
	JWTService            *pkgAuth.JWTService
	Redis                 *redis.Client
	Mailer                email.EmailService
	Logger                zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// seeds the initial super admin.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(context.Background(), dbPool, cfg, lgr); err != nil {
		// Startup proceeds; an operator can still seed by hand
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes repositories, services, controllers and middleware.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	redisClient, err := cache.NewRedisClient(context.Background(), cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to Redis")
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	deps.Redis = redisClient

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		AccessSecret:    cfg.JWT.AccessSecret,
		RefreshSecret:   cfg.JWT.RefreshSecret,
		AccessTokenExp:  helpers.DurationOrDefault(cfg.JWT.AccessTokenExpiration, 15*time.Minute),
		RefreshTokenExp: helpers.DurationOrDefault(cfg.JWT.RefreshTokenExpiration, 168*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	deps.Mailer = email.NewEmailService(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
		UseTLS:    cfg.SMTP.UseTLS,
	}, lgr)

	deps.Services = appServices.NewServices(deps.Repos, deps.JWTService, redisClient, deps.Mailer, lgr)

	cookieCfg := cookies.Config{
		Domain: cfg.Cookie.Domain,
		Secure: cfg.IsProduction(),
	}

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(
		deps.JWTService,
		deps.Services.AuthService,
		deps.Repos.UserRepository,
		cookieCfg,
	)

	deps.UserController = appControllers.NewUserController(
		deps.Services.AuthService,
		cookieCfg,
		lgr.With().Str("controller", "user").Logger(),
	)
	deps.TransactionController = appControllers.NewTransactionController(
		deps.Services.TransactionService,
		lgr.With().Str("controller", "transaction").Logger(),
	)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.Default()

	router.Use(appMiddleware.CORS(cfg.CORS.AllowedOrigins))
	router.Use(appMiddleware.APIVersion(cfg.Server.APIVersion))

	appRoutes.SetupRouter(router,
		deps.UserController,
		deps.TransactionController,
		deps.AuthMiddleware,
	)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}

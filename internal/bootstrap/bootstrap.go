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
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/campusmetrics/ploboard/internal/app/controllers"
	appMigrations "github.com/campusmetrics/ploboard/internal/app/migrations"
	appRepos "github.com/campusmetrics/ploboard/internal/app/repositories"
	appRoutes "github.com/campusmetrics/ploboard/internal/app/routes"
	appServices "github.com/campusmetrics/ploboard/internal/app/services"
	"github.com/campusmetrics/ploboard/internal/config"
	"github.com/campusmetrics/ploboard/internal/db"
	appMiddleware "github.com/campusmetrics/ploboard/internal/middleware"
	pkgAuth "github.com/campusmetrics/ploboard/internal/pkg/auth"
	"github.com/campusmetrics/ploboard/internal/pkg/assessment"
	"github.com/campusmetrics/ploboard/internal/pkg/helpers"
	"github.com/campusmetrics/ploboard/internal/pkg/logger"
	"github.com/campusmetrics/ploboard/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService         appServices.AuthService
	ProgramService      appServices.ProgramService
	OutcomeService      appServices.OutcomeService
	TermService         appServices.TermService
	MappingService      appServices.MappingService
	DashboardService    appServices.DashboardService
	AuthController      *appControllers.AuthController
	ProgramController   *appControllers.ProgramController
	OutcomeController   *appControllers.OutcomeController
	TermController      *appControllers.TermController
	MappingController   *appControllers.MappingController
	DashboardController *appControllers.DashboardController
	AuditController     *appControllers.AuditController
	AuthMiddleware      *appMiddleware.AuthMiddleware
	Repos               *appRepos.Repositories
	JWTService          *pkgAuth.JWTService
	Logger              zerolog.Logger
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

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	// Run migrations
	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(context.Background(), migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	// Create default data (after migrations)
	if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
		// Log the error but don't necessarily fail the startup
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	deps.AuthService = appServices.NewAuthService(deps.Repos.UserRepository, deps.JWTService, lgr)
	deps.ProgramService = appServices.NewProgramService(deps.Repos.ProgramRepository, deps.Repos.AuditRepository, lgr)
	deps.OutcomeService = appServices.NewOutcomeService(deps.Repos.OutcomeRepository, deps.Repos.ProgramRepository, deps.Repos.AuditRepository, lgr)
	deps.TermService = appServices.NewTermService(deps.Repos.TermRepository, lgr)
	deps.MappingService = appServices.NewMappingService(deps.Repos.MappingRepository, deps.Repos.OutcomeRepository, deps.Repos.AuditRepository, lgr)
	deps.DashboardService = appServices.NewDashboardService(
		deps.Repos.ProgramRepository,
		deps.Repos.OutcomeRepository,
		deps.Repos.MappingRepository,
		deps.Repos.AssessmentRepository,
		deps.Repos.PreferenceRepository,
		deps.TermService,
		appServices.DashboardDefaults{
			PassThreshold: cfg.Assessment.DefaultPassThreshold,
			DisplayMode:   assessment.DisplayMode(cfg.Assessment.DefaultDisplayMode),
		},
		lgr,
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService, deps.Logger)
	deps.ProgramController = appControllers.NewProgramController(deps.ProgramService)
	deps.OutcomeController = appControllers.NewOutcomeController(deps.OutcomeService)
	deps.TermController = appControllers.NewTermController(deps.TermService)
	deps.MappingController = appControllers.NewMappingController(deps.MappingService)
	deps.DashboardController = appControllers.NewDashboardController(deps.DashboardService, deps.Repos.PreferenceRepository)
	deps.AuditController = appControllers.NewAuditController(deps.Repos.AuditRepository)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.Default()

	// Setup API routes using the dependencies
	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.ProgramController,
		deps.OutcomeController,
		deps.TermController,
		deps.MappingController,
		deps.DashboardController,
		deps.AuditController,
		deps.AuthMiddleware,
	)

	// Test endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}

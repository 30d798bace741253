package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"devlink_backend/internal/auth"
	"devlink_backend/internal/config"
	"devlink_backend/internal/email"
	"devlink_backend/internal/handlers"
	"devlink_backend/internal/logger"
	"devlink_backend/internal/middleware"
	"devlink_backend/internal/models"
	"devlink_backend/internal/oauth"
	"devlink_backend/internal/repositories"
	"devlink_backend/internal/routes"
	"devlink_backend/internal/services"
	"devlink_backend/internal/validator"
	"devlink_backend/internal/workers"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	gormDB, err := openDatabase(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected", "driver", cfg.Database.Driver)

	if err := autoMigrate(gormDB); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	if err := seedFirstAdmin(gormDB, cfg); err != nil {
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	ginRouter, digestWorker := SetupRouter(cfg, gormDB)

	if cfg.Digest.Enabled {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		digestWorker.Start(ctx)
		logger.Info("Digest worker started", "interval_hours", cfg.Digest.Interval)
	}

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{TranslateError: true}

	switch cfg.Database.Driver {
	case "mysql":
		return gorm.Open(mysql.Open(cfg.Database.DSN), gormCfg)
	case "postgres", "":
		return gorm.Open(postgres.Open(cfg.Database.DSN), gormCfg)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Database.Driver)
	}
}

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.LinkedIdentity{},
		&models.RefreshToken{},
		&models.Follow{},
		&models.Like{},
		&models.Endorsement{},
		&models.Project{},
		&models.Post{},
		&models.Comment{},
		&models.Testimonial{},
		&models.ServiceRequest{},
		&models.Notification{},
	)
}

// SetupRouter builds the fully wired engine. The digest worker is returned
// unstarted so tests can drive it explicitly.
func SetupRouter(cfg *config.Config, gormDB *gorm.DB) (*gin.Engine, *workers.DigestWorker) {
	tokenService, err := auth.NewTokenService(cfg.JWT.Secret, time.Duration(cfg.JWT.TTL)*time.Minute)
	if err != nil {
		logger.Fatal("Failed to initialize token service", "error", err)
	}

	serviceContainer, digestWorker := initializeServices(cfg, gormDB, tokenService)
	appHandlers := initializeHandlers(cfg, serviceContainer)
	ginRouter := initializeGinRouter()

	routes.RegisterRoutes(ginRouter, appHandlers, tokenService)

	return ginRouter, digestWorker
}

func initializeServices(cfg *config.Config, gormDB *gorm.DB, tokenService *auth.TokenService) (*services.ServiceContainer, *workers.DigestWorker) {
	var emailService email.Provider
	if cfg.Email.SMTPHost != "" && cfg.Email.FromEmail != "" {
		emailService = email.NewGomailProvider(
			cfg.Email.SMTPHost,
			cfg.Email.SMTPPort,
			cfg.Email.SMTPUsername,
			cfg.Email.SMTPPassword,
			cfg.Email.FromEmail,
			cfg.Email.FromName,
			email.NewTemplateManager(),
		)
	} else {
		logger.Warn("SMTP is not configured; outbound email is disabled")
		emailService = email.NewNoopProvider()
	}

	userRepo := repositories.NewUserRepository(gormDB)
	identityRepo := repositories.NewIdentityRepository(gormDB)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(gormDB)
	engagementRepo := repositories.NewEngagementRepository(gormDB)
	projectRepo := repositories.NewProjectRepository(gormDB)
	postRepo := repositories.NewPostRepository(gormDB)
	notificationRepo := repositories.NewNotificationRepository(gormDB)
	testimonialRepo := repositories.NewTestimonialRepository(gormDB)
	requestRepo := repositories.NewServiceRequestRepository(gormDB)

	githubProvider := oauth.NewGitHubProvider(
		cfg.OAuth.GitHub.ClientID,
		cfg.OAuth.GitHub.ClientSecret,
		cfg.Server.BaseURL+"/api/v1/auth/github/callback",
	)

	notificationService := services.NewNotificationService(notificationRepo)
	authService := services.NewAuthService(userRepo, identityRepo, refreshTokenRepo, tokenService)
	userService := services.NewUserService(userRepo, identityRepo, githubProvider, notificationService)
	engagementService := services.NewEngagementService(engagementRepo, userRepo, projectRepo, postRepo, notificationService)
	projectService := services.NewProjectService(projectRepo)
	postService := services.NewPostService(postRepo, projectRepo)
	testimonialService := services.NewTestimonialService(testimonialRepo, userRepo, notificationService)
	requestService := services.NewServiceRequestService(requestRepo, userRepo, notificationService)

	digestWorker := workers.NewDigestWorker(
		notificationRepo,
		userRepo,
		refreshTokenRepo,
		emailService,
		time.Duration(cfg.Digest.Interval)*time.Hour,
		cfg.Server.BaseURL,
	)

	return &services.ServiceContainer{
		AuthService:           authService,
		UserService:           userService,
		EngagementService:     engagementService,
		ProjectService:        projectService,
		PostService:           postService,
		TestimonialService:    testimonialService,
		ServiceRequestService: requestService,
		NotificationService:   notificationService,
		EmailService:          emailService,
	}, digestWorker
}

func initializeHandlers(cfg *config.Config, container *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	providers := map[string]oauth.Provider{
		models.ProviderGitHub: oauth.NewGitHubProvider(
			cfg.OAuth.GitHub.ClientID,
			cfg.OAuth.GitHub.ClientSecret,
			cfg.Server.BaseURL+"/api/v1/auth/github/callback",
		),
		models.ProviderGoogle: oauth.NewGoogleProvider(
			cfg.OAuth.Google.ClientID,
			cfg.OAuth.Google.ClientSecret,
			cfg.Server.BaseURL+"/api/v1/auth/google/callback",
		),
	}

	return &handlers.AppHandlers{
		AuthHandler:           handlers.NewAuthHandler(baseHandler, container.AuthService, providers),
		UserHandler:           handlers.NewUserHandler(baseHandler, container.UserService, container.EngagementService),
		EngagementHandler:     handlers.NewEngagementHandler(baseHandler, container.EngagementService),
		ProjectHandler:        handlers.NewProjectHandler(baseHandler, container.ProjectService, container.PostService),
		PostHandler:           handlers.NewPostHandler(baseHandler, container.PostService),
		TestimonialHandler:    handlers.NewTestimonialHandler(baseHandler, container.TestimonialService),
		ServiceRequestHandler: handlers.NewServiceRequestHandler(baseHandler, container.ServiceRequestService),
		NotificationHandler:   handlers.NewNotificationHandler(baseHandler, container.NotificationService),
		AdminHandler:          handlers.NewAdminHandler(baseHandler, container.UserService, container.AuthService),
		DashboardHandler:      handlers.NewDashboardHandler(baseHandler, container.AuthService),
	}
}

func initializeGinRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	return router
}

// seedFirstAdmin bootstraps the credentials-based admin account. Admins are
// clients with the admin flag, so the seeded account passes every guard.
func seedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	adminEmail := cfg.FirstAdminEmail
	adminPassword := cfg.FirstAdminPassword

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("first_admin_email or first_admin_password is not set. Skipping admin seeding.")
		return nil
	}

	var adminUser models.User
	result := db.Where("email = ?", adminEmail).First(&adminUser)
	if result.Error == nil {
		logger.Info("Admin user already exists. Skipping creation.", "email", adminEmail)
		return nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check for admin user: %w", result.Error)
	}

	logger.Warn("No admin user found. Creating first admin...", "email", adminEmail)

	hashedPassword, err := auth.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	newAdmin := &models.User{
		Email:        adminEmail,
		PasswordHash: hashedPassword,
		Role:         models.UserRoleClient,
		Approved:     true,
		IsAdmin:      true,
		Name:         "DevLink Administration",
	}
	if err := db.Create(newAdmin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	logger.Info("Successfully created first admin user", "email", adminEmail)
	return nil
}

package router

import (
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/stackload-app/stackload/backend/internal/access"
	"github.com/stackload-app/stackload/backend/internal/handlers"
	"github.com/stackload-app/stackload/backend/internal/middleware"
	"github.com/stackload-app/stackload/backend/internal/models"
	"github.com/stackload-app/stackload/backend/internal/notify"
	"github.com/stackload-app/stackload/backend/internal/repositories"
	"github.com/stackload-app/stackload/backend/pkg/config"
)

// SetupMiddleware configures global Echo middleware. Order matters: the
// session must be resolved before the access table runs.
func SetupMiddleware(e *echo.Echo, cfg *config.Config, logger *zap.Logger) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	e.Use(eMiddleware.RequestLoggerWithConfig(eMiddleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v eMiddleware.RequestLoggerValues) error {
			logger.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
			)
			return nil
		},
	}))
	e.Use(middleware.Session(cfg.JWTSecret))
	e.Use(middleware.AccessControl(access.NewTable()))
	logger.Info("global middleware configured")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, db *gorm.DB, cfg *config.Config, logger *zap.Logger) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Tech{},
		&models.Company{},
		&models.CompanyTech{},
		&models.Post{},
		&models.Comment{},
		&models.Like{},
		&models.CommentLike{},
		&models.Bookmark{},
		&models.Notification{},
	); err != nil {
		return err
	}
	logger.Info("auto-migrations completed")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize repositories ---
	userRepo := repositories.NewPostgresUserRepository(db)
	postRepo := repositories.NewPostgresPostRepository(db)
	commentRepo := repositories.NewPostgresCommentRepository(db)
	likeRepo := repositories.NewPostgresLikeRepository(db)
	commentLikeRepo := repositories.NewPostgresCommentLikeRepository(db)
	bookmarkRepo := repositories.NewPostgresBookmarkRepository(db)
	techRepo := repositories.NewPostgresTechRepository(db)
	companyRepo := repositories.NewPostgresCompanyRepository(db)
	notificationRepo := repositories.NewPostgresNotificationRepository(db)

	notifier := notify.New(notificationRepo, logger)

	// --- Identity endpoints (never gated, see access table rule 1) ---
	authHandler := handlers.NewAuthHandler(userRepo, cfg.JWTSecret)
	authHandler.RegisterAuthRoutes(e.Group("/api/auth"))
	authHandler.RegisterAuthPages(e)

	// --- API routes; the access table gates these per path and method ---
	api := e.Group("/api")

	handlers.NewUserHandler(userRepo).RegisterUserRoutes(api)
	handlers.NewPostHandler(postRepo, logger).RegisterPostRoutes(api)
	handlers.NewCommentHandler(commentRepo, postRepo, userRepo, notifier, logger).RegisterCommentRoutes(api)
	handlers.NewLikeHandler(likeRepo, commentLikeRepo, postRepo, commentRepo, userRepo, notifier).RegisterLikeRoutes(api)
	handlers.NewBookmarkHandler(bookmarkRepo, postRepo).RegisterBookmarkRoutes(api)
	handlers.NewTechHandler(techRepo).RegisterTechRoutes(api)
	handlers.NewCompanyHandler(companyRepo).RegisterCompanyRoutes(api)
	handlers.NewSearchHandler(techRepo, companyRepo).RegisterSearchRoutes(api)
	handlers.NewNotificationHandler(notificationRepo, userRepo).RegisterNotificationRoutes(api)

	logger.Info("all routes configured")
	return nil
}

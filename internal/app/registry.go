package app

import (
	"database/sql"

	"go-leave/internal/auth"
	"go-leave/internal/config"
	"go-leave/internal/dashboard"
	"go-leave/internal/domain"
	"go-leave/internal/leave"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/notification"
	"go-leave/internal/rbac"
	"go-leave/internal/rbac/infra"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	cfg *config.Config,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	logger := zap.L()

	// --- Repositories ---
	authRepo := auth.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	dashboardRepo := dashboard.NewRepository(gormDB)
	notificationRepo := notification.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService, err := rbac.NewService(enforcer, logger)
	if err != nil {
		return err
	}

	// --- Services ---
	dispatcher := notification.NewDispatcher(notificationRepo, outboxRepo, cfg.Default.ManagerEmail, logger)
	authService := auth.NewService(authRepo, dispatcher, auth.Config{
		JWTSecret:   cfg.JWT.Secret,
		JWTExpire:   cfg.JWT.Expire,
		FrontendURL: cfg.Frontend.URL,
		DefaultBalance: domain.Balance{
			Sick:     cfg.Leave.Sick(),
			Casual:   cfg.Leave.Casual(),
			Vacation: cfg.Leave.Vacation(),
		},
	}, logger)
	leaveService := leave.NewService(db, leaveRepo, dispatcher, leave.Config{FrontendURL: cfg.Frontend.URL}, logger)
	dashboardService := dashboard.NewService(dashboardRepo, rdb, logger)
	notificationService := notification.NewService(notificationRepo, logger)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService, auth.CookieConfig{
		Secure: cfg.App.IsProduction(),
		MaxAge: cfg.JWT.Expire,
	}, logger)
	leaveHandler := leave.NewHandlerWithRedis(leaveService, rdb, logger)
	dashboardHandler := dashboard.NewHandler(dashboardService, logger)
	notificationHandler := notification.NewHandler(notificationService, logger)
	rbacHandler := rbac.NewHandler(rbacService, logger)

	// --- Routes Registration ---
	api := router.Group("/api")
	{
		auth.RegisterRoutes(api, authHandler, cfg.JWT.Secret)
		leave.RegisterRoutes(api, leaveHandler, rbacService, rdb, cfg.JWT.Secret)
		dashboard.RegisterRoutes(api, dashboardHandler, rbacService, cfg.JWT.Secret)
		notification.RegisterRoutes(api, notificationHandler, rbacService, cfg.JWT.Secret)
		rbac.RegisterRoutes(api, rbacHandler, cfg.JWT.Secret)
	}

	return nil
}

package app

import (
	"net/http"

	"go-leave/internal/config"
	"go-leave/internal/middleware"
	"go-leave/internal/shared/metrics"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Closer releases the connections opened by BuildApp.
type Closer func()

// BuildApp connects to Postgres and Redis and mounts every module on router.
func BuildApp(router *gin.Engine, cfg *config.Config) (Closer, error) {
	logger := zap.L().Named("app")

	gormDB, sqlDB, err := openDatabase(cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("database connection established")

	rdb, err := openRedis(cfg)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	logger.Info("redis connection established")

	router.Use(middleware.ContextLogger(zap.L()), metrics.GinMiddleware())
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	if err := registerModules(router, cfg, sqlDB, gormDB, rdb); err != nil {
		_ = rdb.Close()
		_ = sqlDB.Close()
		return nil, err
	}

	return func() {
		_ = rdb.Close()
		_ = sqlDB.Close()
	}, nil
}

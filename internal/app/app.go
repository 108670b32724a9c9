package app

import (
	"net/http"

	"go-campus/internal/config"
	"go-campus/internal/middleware"
	"go-campus/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BuildApp connects the stores, migrates the schema and mounts every module
// on router.
func BuildApp(router *gin.Engine, cfg *config.Config, logger *zap.Logger) error {
	log := logger.Named("app")

	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database)
	if err != nil {
		return err
	}
	log.Info("database connection established")

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}

	if err := Migrate(gormDB); err != nil {
		return err
	}
	log.Info("schema migrated")

	redisClient, err := connection.ConnectRedisWithRetry(cfg.Redis.Addr, cfg.Database.MaxRetries)
	if err != nil {
		return err
	}
	log.Info("redis connection established")

	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(cfg.App.CORSAllowedOrigins))
	router.Use(middleware.RateLimitByIP(20, 40))
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return registerModules(router, cfg, sqlDB, gormDB, redisClient, logger)
}

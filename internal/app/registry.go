package app

import (
	"database/sql"

	"go-campus/internal/bootstrap"
	"go-campus/internal/config"
	"go-campus/internal/leave"
	"go-campus/internal/leavebalance"
	"go-campus/internal/leavepolicy"
	"go-campus/internal/messaging/kafka"
	"go-campus/internal/rbac"
	"go-campus/internal/rbac/infra"
	"go-campus/internal/rbac/rbac_http"
	"go-campus/internal/shared/counter"
	"go-campus/internal/user"

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
	logger *zap.Logger,
) error {
	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	userRepo := user.NewRepository(gormDB)
	policyRepo := leavepolicy.NewRepository(gormDB)
	balanceRepo := leavebalance.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer, logger)
	if err := rbacService.LoadPolicy(); err != nil {
		return err
	}

	// --- Services ---
	auditLogger := bootstrap.NewStdoutAuditLogger(logger)
	userService := user.NewService(db, userRepo, outboxRepo, logger)
	policyService := leavepolicy.NewService(db, policyRepo, userService, cfg.Leave.AcademicYearStartMonth, logger)
	balanceService := leavebalance.NewService(db, balanceRepo, policyService, userService, auditLogger,
		leavebalance.Settings{
			AcademicYearStartMonth: cfg.Leave.AcademicYearStartMonth,
			LowBalanceThreshold:    cfg.Leave.LowBalanceThreshold,
		}, logger)
	leaveService := leave.NewService(db, leaveRepo, counterRepo, balanceService, leave.NewGate(rbacService),
		outboxRepo, rdb, cfg.Leave.AcademicYearStartMonth, logger)

	// --- Handlers ---
	rbacHandler := rbac.NewHandler(rbacService, logger)
	userHandler := user.NewHandler(userService, logger)
	policyHandler := leavepolicy.NewHandler(policyService, logger)
	balanceHandler := leavebalance.NewHandler(balanceService, logger)
	leaveHandler := leave.NewHandler(leaveService, rdb, logger)

	// --- Routes Registration ---
	secret := cfg.JWT.Secret
	api := router.Group("/api/v1")
	{
		rbac_http.RegisterRoutes(api, rbacHandler, rbacService, secret)
		user.RegisterRoutes(api, userHandler, rbacService, secret, logger)
		leavepolicy.RegisterRoutes(api, policyHandler, rbacService, secret, logger)
		leavebalance.RegisterRoutes(api, balanceHandler, rbacService, secret, logger)
		leave.RegisterRoutes(api, leaveHandler, rbacService, rdb, secret, logger)
	}

	return nil
}

package leavebalance

import (
	"go-campus/internal/middleware"
	"go-campus/internal/rbac"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	jwtSecret string,
	logger *zap.Logger,
) {
	balances := r.Group("/leave-balances")
	balances.Use(middleware.AuthMiddleware(jwtSecret))
	balances.Use(middleware.ContextLogger(logger))
	{
		balances.GET("/me",
			middleware.RateLimitByUser(3, 10),
			middleware.ExtractUserID(),
			handler.GetMine,
		)

		balances.GET("/users/:userId",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, rbac.ResourceLeaveBalance, rbac.ActionRead),
			middleware.PinDepartment(rbacService, rbac.ResourceLeaveBalance, rbac.ActionRead),
			handler.GetForUser,
		)

		balances.GET("/departments/:department",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, rbac.ResourceLeaveBalance, rbac.ActionRead),
			handler.ListByDepartment,
		)

		balances.GET("/low",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, rbac.ResourceLeaveBalance, rbac.ActionRead),
			middleware.PinDepartment(rbacService, rbac.ResourceLeaveBalance, rbac.ActionRead),
			handler.ListLow,
		)

		balances.GET("/summary",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, rbac.ResourceLeaveBalance, rbac.ActionRead),
			middleware.PinDepartment(rbacService, rbac.ResourceLeaveBalance, rbac.ActionRead),
			handler.Summary,
		)

		balances.POST("/initialize",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, rbac.ResourceLeaveBalance, rbac.ActionManage),
			handler.Initialize,
		)

		balances.POST("/initialize/bulk",
			middleware.RateLimitByUser(0.2, 1),
			middleware.RBACAuthorize(rbacService, rbac.ResourceLeaveBalance, rbac.ActionManage),
			handler.InitializeBulk,
		)

		balances.POST("/users/:userId/reset",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, rbac.ResourceLeaveBalance, rbac.ActionManage),
			handler.Reset,
		)
	}
}

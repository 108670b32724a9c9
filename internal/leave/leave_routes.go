package leave

import (
	"go-campus/internal/middleware"
	"go-campus/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	rdb *redis.Client,
	jwtSecret string,
	logger *zap.Logger,
) {
	apps := r.Group("/leave-applications")
	apps.Use(middleware.AuthMiddleware(jwtSecret))
	apps.Use(middleware.ContextLogger(logger))
	{
		apps.POST("",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, rbac.ResourceLeaveApplication, rbac.ActionCreate),
			middleware.Idempotency(rdb),
			handler.Apply,
		)

		apps.GET("/me",
			middleware.RateLimitByUser(3, 10),
			middleware.ExtractUserID(),
			handler.ListMine,
		)

		apps.GET("/pending",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, rbac.ResourceLeaveApplication, rbac.ActionApprove),
			middleware.PinDepartment(rbacService, rbac.ResourceLeaveApplication, rbac.ActionApprove),
			handler.ListPending,
		)

		apps.GET("/statistics",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, rbac.ResourceLeaveApplication, rbac.ActionReadAll),
			middleware.PinDepartment(rbacService, rbac.ResourceLeaveApplication, rbac.ActionReadAll),
			handler.Statistics,
		)

		apps.GET("/departments/:department",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, rbac.ResourceLeaveApplication, rbac.ActionReadAll),
			handler.ListByDepartment,
		)

		apps.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, rbac.ResourceLeaveApplication, rbac.ActionReadAll),
			middleware.PinDepartment(rbacService, rbac.ResourceLeaveApplication, rbac.ActionReadAll),
			handler.ListAll,
		)

		apps.GET("/:id",
			middleware.RateLimitByUser(3, 10),
			handler.GetByID,
		)

		// Department checks for these run in the service against the
		// application's own department.
		apps.PATCH("/:id/approve",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, rbac.ResourceLeaveApplication, rbac.ActionApprove),
			handler.Approve,
		)

		apps.PATCH("/:id/reject",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, rbac.ResourceLeaveApplication, rbac.ActionApprove),
			handler.Reject,
		)

		apps.PATCH("/:id/cancel",
			middleware.RateLimitByUser(1, 5),
			handler.Cancel,
		)
	}
}

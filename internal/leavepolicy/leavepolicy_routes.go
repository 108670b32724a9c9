package leavepolicy

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
	read := middleware.RBACAuthorize(rbacService, rbac.ResourceLeavePolicy, rbac.ActionRead)
	manage := middleware.RBACAuthorize(rbacService, rbac.ResourceLeavePolicy, rbac.ActionManage)

	policies := r.Group("/leave-policies")
	policies.Use(middleware.AuthMiddleware(jwtSecret))
	policies.Use(middleware.ContextLogger(logger))
	{
		policies.GET("/me", handler.GetMine)
		policies.GET("", read, handler.List)
		policies.GET("/users/:userId", read, handler.GetForUser)
		policies.GET("/:id", read, handler.GetByID)

		policies.POST("", manage, handler.Create)
		policies.POST("/default", manage, handler.CreateDefault)
		policies.PUT("/:id", manage, handler.Update)
		policies.PATCH("/:id/activate", manage, handler.Activate)
		policies.PATCH("/:id/deactivate", manage, handler.Deactivate)
	}
}

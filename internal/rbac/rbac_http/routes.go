package rbac_http

import (
	"go-campus/internal/domain"
	"go-campus/internal/middleware"
	"go-campus/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *rbac.Handler, service rbac.Service, jwtSecret string) {
	group := r.Group("/rbac")
	group.Use(middleware.AuthMiddleware(jwtSecret))
	{
		group.POST("/enforce", handler.Enforce)

		group.GET("/permissions", middleware.RBACAuthorize(service, rbac.ResourceUser, rbac.ActionManage), handler.ListPermissions)
		group.POST("/reload",
			middleware.RoleMiddleware(domain.RoleSuperAdmin),
			middleware.RBACAuthorize(service, rbac.ResourceUser, rbac.ActionManage),
			handler.ReloadPolicy,
		)
	}
}

package middleware

import (
	"net/http"
	"strings"

	"go-campus/internal/domain"
	"go-campus/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// RBACService is satisfied by anything that can answer an EnforceRequest.
type RBACService interface {
	Enforce(req domain.EnforceRequest) (bool, error)
}

// RBACAuthorize checks resource:action for the caller in its own
// department. Routes that act on another department pass it as the
// ":department" path parameter so the "any" scope is required.
func RBACAuthorize(service RBACService, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextRole)
		if role == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing auth context", nil)
			c.Abort()
			return
		}

		req := domain.EnforceRequest{
			Role:             role,
			Department:       c.GetString(ContextDepartment),
			TargetDepartment: strings.ToUpper(c.Param("department")),
			Resource:         resource,
			Action:           action,
		}

		allowed, err := service.Enforce(req)
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Authorization check failed", nil)
			c.Abort()
			return
		}

		if !allowed {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "You do not have permission to access this resource",
				gin.H{"required": resource + ":" + action})
			c.Abort()
			return
		}
		c.Next()
	}
}

// HasScopeAny reports whether the caller holds resource:action across every
// department. Handlers use it to pin department-scoped queries.
func HasScopeAny(service RBACService, c *gin.Context, resource, action string) bool {
	allowed, err := service.Enforce(domain.EnforceRequest{
		Role:             c.GetString(ContextRole),
		Department:       c.GetString(ContextDepartment),
		TargetDepartment: "*",
		Resource:         resource,
		Action:           action,
	})
	return err == nil && allowed
}

// ContextScopeDepartment holds the department a list query is pinned to.
// Empty means the caller may see every department.
const ContextScopeDepartment = "scope_department"

// PinDepartment pins department-scoped queries to the caller's own
// department unless it holds resource:action with the "any" scope.
func PinDepartment(service RBACService, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if HasScopeAny(service, c, resource, action) {
			c.Set(ContextScopeDepartment, "")
		} else {
			c.Set(ContextScopeDepartment, c.GetString(ContextDepartment))
		}
		c.Next()
	}
}

// ScopedDepartment returns the department requested by the caller, or the
// pinned one when the caller is restricted to its own department.
func ScopedDepartment(c *gin.Context, requested string) string {
	if pinned := c.GetString(ContextScopeDepartment); pinned != "" {
		return pinned
	}
	return requested
}

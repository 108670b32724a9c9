package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"go-campus/internal/domain"
	"go-campus/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Keys under which the authenticated caller is stored on the gin context.
const (
	ContextUserID     = "user_id"
	ContextRole       = "role"
	ContextDepartment = "department"
	ContextUserType   = "user_type"
)

// AuthMiddleware verifies the bearer token issued by the login service and
// copies its claims onto the context.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !found {
			tokenString = ""
		}

		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Token not found", nil)
			c.Abort()
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(secret), nil
		})

		if err != nil || !token.Valid {
			if errors.Is(err, jwt.ErrTokenExpired) {
				response.Error(c, http.StatusUnauthorized, "TOKEN_EXPIRED", "Token has expired", nil)
			} else {
				response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid token", nil)
			}
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid token claims", nil)
			c.Abort()
			return
		}

		userID, ok := claims["user_id"].(string)
		if !ok || userID == "" {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "User ID not found in token", nil)
			c.Abort()
			return
		}

		role, _ := claims["role"].(string)
		if !domain.ValidRole(role) {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Role not found in token", nil)
			c.Abort()
			return
		}

		// Department codes are stored upper-case everywhere.
		department, _ := claims["department"].(string)
		department = strings.ToUpper(strings.TrimSpace(department))
		userType, _ := claims["user_type"].(string)

		c.Set(ContextUserID, userID)
		c.Set(ContextRole, role)
		c.Set(ContextDepartment, department)
		c.Set(ContextUserType, userType)

		c.Next()
	}
}

func RoleMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !slices.Contains(allowedRoles, c.GetString(ContextRole)) {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "You do not have permission to access this resource", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

// ActorFromContext returns the caller placed on the context by AuthMiddleware.
func ActorFromContext(c *gin.Context) domain.Actor {
	userID := c.GetString(ContextUserID)
	if userID == "" {
		userID = c.GetString("user_id_validated")
	}
	return domain.Actor{
		UserID:     userID,
		Role:       c.GetString(ContextRole),
		UserType:   c.GetString(ContextUserType),
		Department: c.GetString(ContextDepartment),
	}
}

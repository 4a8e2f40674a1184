package middleware

import (
	"net/http"
	"strings"

	"chintai/internal/auth"

	"github.com/labstack/echo/v4"
)

// JWTAuth middleware validates JWT tokens
func JWTAuth(authService *auth.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing authorization header")
			}

			if !strings.HasPrefix(authHeader, "Bearer ") {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization header format")
			}

			tokenString := authHeader[7:]
			if tokenString == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing token")
			}

			claims, err := authService.ValidateToken(tokenString)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			c.Set("claims", claims)
			c.Set("user_id", claims.UserID)
			c.Set("user_email", claims.Email)
			c.Set("user_role", claims.Role)

			if claims.TenantID != nil {
				c.Set("tenant_id", *claims.TenantID)
			}

			return next(c)
		}
	}
}

// RequireRole middleware ensures user has one of the required roles
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userRole := c.Get("user_role")
			if userRole == nil {
				return echo.NewHTTPError(http.StatusForbidden, "User role not found")
			}

			roleStr := userRole.(string)
			for _, role := range roles {
				if roleStr == role {
					return next(c)
				}
			}

			return echo.NewHTTPError(http.StatusForbidden, "Insufficient permissions")
		}
	}
}

// RequireSystemRole middleware ensures user has system-level access (no tenant)
func RequireSystemRole() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userRole := c.Get("user_role")
			if userRole == nil || userRole.(string) != "system_admin" {
				return echo.NewHTTPError(http.StatusForbidden, "System admin access required")
			}

			if tenantID := c.Get("tenant_id"); tenantID != nil {
				return echo.NewHTTPError(http.StatusForbidden, "System admin cannot have tenant context")
			}

			return next(c)
		}
	}
}

// RequireTenantRole middleware ensures user has tenant-level access
func RequireTenantRole() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userRole := c.Get("user_role")
			if userRole == nil {
				return echo.NewHTTPError(http.StatusForbidden, "User role not found")
			}

			roleStr := userRole.(string)
			if roleStr != "system_admin" && roleStr != "tenant_admin" && roleStr != "tenant_user" {
				return echo.NewHTTPError(http.StatusForbidden, "Tenant access required")
			}

			if roleStr == "system_admin" {
				return next(c)
			}

			if c.Get("tenant_id") == nil {
				return echo.NewHTTPError(http.StatusForbidden, "Tenant context required")
			}

			return next(c)
		}
	}
}

// RequireTenantAdminOnly middleware ensures only tenant admins can access
func RequireTenantAdminOnly() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userRole := c.Get("user_role")
			if userRole == nil || userRole.(string) != "tenant_admin" {
				return echo.NewHTTPError(http.StatusForbidden, "Tenant admin access required")
			}

			if c.Get("tenant_id") == nil {
				return echo.NewHTTPError(http.StatusForbidden, "Tenant context required")
			}

			return next(c)
		}
	}
}

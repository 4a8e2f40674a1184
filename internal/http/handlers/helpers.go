package handlers

import (
	"net/http"

	"chintai/internal/services"
	"chintai/pkg/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// tenantFromContext extracts the tenant ID set by the JWT middleware
func tenantFromContext(c echo.Context) (uuid.UUID, bool) {
	tenantID, ok := c.Get("tenant_id").(uuid.UUID)
	return tenantID, ok
}

// userFromContext extracts the user ID set by the JWT middleware
func userFromContext(c echo.Context) (uuid.UUID, bool) {
	userID, ok := c.Get("user_id").(uuid.UUID)
	return userID, ok
}

// actorFromContext returns the acting user as a nullable reference for
// activity logging: nil when no user is present, never a zero UUID
func actorFromContext(c echo.Context) *uuid.UUID {
	if userID, ok := userFromContext(c); ok {
		return &userID
	}
	return nil
}

// seesAllInquiries reports whether the requesting user's role grants
// visibility of every inquiry regardless of assignment
func seesAllInquiries(c echo.Context) bool {
	role, ok := c.Get("user_role").(string)
	if !ok {
		return false
	}
	return role == models.RoleSystemAdmin || role == models.RoleTenantAdmin
}

// serviceError maps a service-layer error to an HTTP response
func serviceError(c echo.Context, err error) error {
	switch services.KindOf(err) {
	case services.ErrKindValidation:
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	case services.ErrKindNotFound:
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	case services.ErrKindAuthorization:
		return c.JSON(http.StatusForbidden, map[string]string{"error": err.Error()})
	case services.ErrKindConflict:
		return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

func unauthorizedTenant(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, map[string]string{"error": "tenant_id not found in context"})
}

package handlers

import (
	"net/http"

	"chintai/internal/auth"
	"chintai/internal/repo"
	"chintai/pkg/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// TenantHandler handles system-level tenant administration
type TenantHandler struct {
	tenantRepo  *repo.TenantRepository
	userRepo    *repo.UserRepository
	authService *auth.Service
}

// NewTenantHandler creates a new tenant handler
func NewTenantHandler(tenantRepo *repo.TenantRepository, userRepo *repo.UserRepository, authService *auth.Service) *TenantHandler {
	return &TenantHandler{tenantRepo: tenantRepo, userRepo: userRepo, authService: authService}
}

// GetTenants lists all tenants
// @Summary List tenants
// @Tags admin
// @Produce json
// @Param limit query int false "Items per page" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} models.PaginationResult[models.Tenant]
// @Router /admin/tenants [get]
func (h *TenantHandler) GetTenants(c echo.Context) error {
	limit, offset := paginationParams(c)
	result, err := h.tenantRepo.List(limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to fetch tenants"})
	}

	return c.JSON(http.StatusOK, result)
}

// CreateTenantRequest is the body for provisioning a new tenant
type CreateTenantRequest struct {
	Name          string `json:"name" validate:"required"`
	Domain        string `json:"domain"`
	MaxUsers      int    `json:"max_users"`
	AdminEmail    string `json:"admin_email" validate:"required,email"`
	AdminPassword string `json:"admin_password" validate:"required,min=8"`
	AdminName     string `json:"admin_name" validate:"required"`
}

// CreateTenant provisions a tenant with its first admin user
// @Summary Create tenant
// @Tags admin
// @Accept json
// @Produce json
// @Param request body CreateTenantRequest true "Tenant data"
// @Success 201 {object} models.Tenant
// @Router /admin/tenants [post]
func (h *TenantHandler) CreateTenant(c echo.Context) error {
	var req CreateTenantRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	maxUsers := req.MaxUsers
	if maxUsers <= 0 {
		maxUsers = 10
	}

	tenant := models.Tenant{
		Name:     req.Name,
		Domain:   req.Domain,
		Status:   "active",
		MaxUsers: maxUsers,
	}
	if err := h.tenantRepo.Create(&tenant); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to create tenant"})
	}

	hash, err := h.authService.HashPassword(req.AdminPassword)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to hash password"})
	}

	admin := models.User{
		TenantID: &tenant.ID,
		Email:    req.AdminEmail,
		Password: hash,
		Name:     req.AdminName,
		Role:     models.RoleTenantAdmin,
		IsActive: true,
	}
	if err := h.userRepo.Create(&admin); err != nil {
		return c.JSON(http.StatusConflict, map[string]string{"error": "admin email already in use"})
	}

	return c.JSON(http.StatusCreated, tenant)
}

// UpdateTenant updates tenant fields
// @Summary Update tenant
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Tenant ID"
// @Param request body models.Tenant true "Tenant fields"
// @Success 200 {object} models.Tenant
// @Router /admin/tenants/{id} [put]
func (h *TenantHandler) UpdateTenant(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid tenant ID"})
	}

	tenant, err := h.tenantRepo.GetByID(id)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "tenant not found"})
	}

	var req models.Tenant
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	if req.Name != "" {
		tenant.Name = req.Name
	}
	if req.Domain != "" {
		tenant.Domain = req.Domain
	}
	if req.Status != "" {
		tenant.Status = req.Status
	}
	if req.MaxUsers > 0 {
		tenant.MaxUsers = req.MaxUsers
	}

	if err := h.tenantRepo.Update(tenant); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to update tenant"})
	}

	return c.JSON(http.StatusOK, tenant)
}

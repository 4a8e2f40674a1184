package handlers

import (
	"net/http"

	"chintai/internal/auth"
	"chintai/internal/repo"
	"chintai/pkg/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// UserHandler handles tenant user management
type UserHandler struct {
	userRepo    *repo.UserRepository
	authService *auth.Service
}

// NewUserHandler creates a new user handler
func NewUserHandler(userRepo *repo.UserRepository, authService *auth.Service) *UserHandler {
	return &UserHandler{userRepo: userRepo, authService: authService}
}

// GetUsers lists the tenant's users
// @Summary List users
// @Tags users
// @Produce json
// @Param limit query int false "Items per page" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {array} models.User
// @Router /users [get]
func (h *UserHandler) GetUsers(c echo.Context) error {
	tenantID, ok := tenantFromContext(c)
	if !ok {
		return unauthorizedTenant(c)
	}

	limit, offset := paginationParams(c)
	users, err := h.userRepo.ListByTenant(tenantID, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to fetch users"})
	}

	for i := range users {
		users[i].Password = ""
	}
	return c.JSON(http.StatusOK, users)
}

// CreateUserRequest is the body for creating a tenant user
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
}

// CreateUser creates a user in the tenant
// @Summary Create user
// @Tags users
// @Accept json
// @Produce json
// @Param request body CreateUserRequest true "User data"
// @Success 201 {object} models.User
// @Router /users [post]
func (h *UserHandler) CreateUser(c echo.Context) error {
	tenantID, ok := tenantFromContext(c)
	if !ok {
		return unauthorizedTenant(c)
	}

	var req CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	role := req.Role
	if role == "" {
		role = models.RoleTenantUser
	}
	if role != models.RoleTenantUser && role != models.RoleTenantAdmin {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid role"})
	}

	hash, err := h.authService.HashPassword(req.Password)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to hash password"})
	}

	user := models.User{
		TenantID: &tenantID,
		Email:    req.Email,
		Password: hash,
		Name:     req.Name,
		Phone:    req.Phone,
		Role:     role,
		IsActive: true,
	}
	if err := h.userRepo.Create(&user); err != nil {
		return c.JSON(http.StatusConflict, map[string]string{"error": "email already in use"})
	}

	user.Password = ""
	return c.JSON(http.StatusCreated, user)
}

// UpdateUserRequest is the body for updating a tenant user
type UpdateUserRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
	IsActive *bool  `json:"is_active"`
}

// UpdateUser updates a tenant user
// @Summary Update user
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body UpdateUserRequest true "User fields"
// @Success 200 {object} models.User
// @Router /users/{id} [put]
func (h *UserHandler) UpdateUser(c echo.Context) error {
	tenantID, ok := tenantFromContext(c)
	if !ok {
		return unauthorizedTenant(c)
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid user ID"})
	}

	user, err := h.userRepo.GetByID(id)
	if err != nil || user.TenantID == nil || *user.TenantID != tenantID {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "user not found"})
	}

	var req UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	if req.Role != "" {
		if req.Role != models.RoleTenantUser && req.Role != models.RoleTenantAdmin {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid role"})
		}
		user.Role = req.Role
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := h.userRepo.Update(user); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to update user"})
	}

	user.Password = ""
	return c.JSON(http.StatusOK, user)
}

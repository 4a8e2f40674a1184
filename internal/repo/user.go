package repo

import (
	"chintai/pkg/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRepository handles user data access
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByEmail gets a user by email
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByID gets a user by ID
func (r *UserRepository) GetByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create creates a new user
func (r *UserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// Update updates a user
func (r *UserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// ListByTenant lists users for a tenant
func (r *UserRepository) ListByTenant(tenantID uuid.UUID, limit, offset int) ([]models.User, error) {
	var users []models.User
	err := r.db.Where("tenant_id = ?", tenantID).
		Order("created_at ASC").
		Limit(limit).Offset(offset).
		Find(&users).Error
	return users, err
}

// ListActiveByTenant lists active users for a tenant. Used by the
// unread-tracking targeting rule: unassigned inquiries are visible to every
// active user.
func (r *UserRepository) ListActiveByTenant(tenantID uuid.UUID) ([]models.User, error) {
	var users []models.User
	err := r.db.Where("tenant_id = ? AND is_active = ?", tenantID, true).
		Find(&users).Error
	return users, err
}

// TenantRepository handles tenant data access
type TenantRepository struct {
	db *gorm.DB
}

// NewTenantRepository creates a new tenant repository
func NewTenantRepository(db *gorm.DB) *TenantRepository {
	return &TenantRepository{db: db}
}

// GetByID gets a tenant by ID
func (r *TenantRepository) GetByID(id uuid.UUID) (*models.Tenant, error) {
	var tenant models.Tenant
	err := r.db.Where("id = ?", id).First(&tenant).Error
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}

// Create creates a new tenant
func (r *TenantRepository) Create(tenant *models.Tenant) error {
	return r.db.Create(tenant).Error
}

// Update updates a tenant
func (r *TenantRepository) Update(tenant *models.Tenant) error {
	return r.db.Save(tenant).Error
}

// List lists tenants with pagination
func (r *TenantRepository) List(limit, offset int) (*models.PaginationResult[models.Tenant], error) {
	var tenants []models.Tenant
	var total int64

	if err := r.db.Model(&models.Tenant{}).Count(&total).Error; err != nil {
		return nil, err
	}

	err := r.db.Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&tenants).Error
	if err != nil {
		return nil, err
	}

	return &models.PaginationResult[models.Tenant]{
		Data:       tenants,
		Total:      total,
		Page:       pageFor(limit, offset),
		PerPage:    limit,
		TotalPages: totalPagesFor(total, limit),
	}, nil
}

func pageFor(limit, offset int) int {
	if limit <= 0 {
		return 1
	}
	return (offset / limit) + 1
}

func totalPagesFor(total int64, limit int) int {
	if limit <= 0 {
		return 1
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

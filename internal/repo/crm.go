package repo

import (
	"chintai/pkg/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CustomerRepository handles customer data access
type CustomerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// GetByID gets a customer by ID and tenant
func (r *CustomerRepository) GetByID(tenantID, id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.Where("id = ? AND tenant_id = ?", id, tenantID).First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// FindByContact finds a customer by email or phone within a tenant.
// Contact identity is (email OR phone); either may be empty.
func (r *CustomerRepository) FindByContact(tenantID uuid.UUID, email, phone string) (*models.Customer, error) {
	query := r.db.Where("tenant_id = ?", tenantID)
	switch {
	case email != "" && phone != "":
		query = query.Where("email = ? OR phone = ?", email, phone)
	case email != "":
		query = query.Where("email = ?", email)
	case phone != "":
		query = query.Where("phone = ?", phone)
	default:
		return nil, gorm.ErrRecordNotFound
	}

	var customer models.Customer
	if err := query.First(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// FindByLineUserID finds a customer by LINE user id within a tenant
func (r *CustomerRepository) FindByLineUserID(tenantID uuid.UUID, lineUserID string) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.Where("tenant_id = ? AND line_user_id = ?", tenantID, lineUserID).
		First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// Create creates a new customer
func (r *CustomerRepository) Create(customer *models.Customer) error {
	return r.db.Create(customer).Error
}

// Update updates a customer
func (r *CustomerRepository) Update(customer *models.Customer) error {
	return r.db.Save(customer).Error
}

// List lists customers for a tenant with pagination
func (r *CustomerRepository) List(tenantID uuid.UUID, limit, offset int) (*models.PaginationResult[models.Customer], error) {
	var customers []models.Customer
	var total int64

	if err := r.db.Model(&models.Customer{}).Where("tenant_id = ?", tenantID).Count(&total).Error; err != nil {
		return nil, err
	}

	err := r.db.Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&customers).Error
	if err != nil {
		return nil, err
	}

	return &models.PaginationResult[models.Customer]{
		Data:       customers,
		Total:      total,
		Page:       pageFor(limit, offset),
		PerPage:    limit,
		TotalPages: totalPagesFor(total, limit),
	}, nil
}

// ListWithSearch lists customers matching a free-text search on name,
// email or phone
func (r *CustomerRepository) ListWithSearch(tenantID uuid.UUID, limit, offset int, search string) (*models.PaginationResult[models.Customer], error) {
	if search == "" {
		return r.List(tenantID, limit, offset)
	}

	var customers []models.Customer
	var total int64
	pattern := "%" + search + "%"

	base := r.db.Model(&models.Customer{}).
		Where("tenant_id = ?", tenantID).
		Where("name LIKE ? OR email LIKE ? OR phone LIKE ?", pattern, pattern, pattern)

	if err := base.Count(&total).Error; err != nil {
		return nil, err
	}

	err := base.Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&customers).Error
	if err != nil {
		return nil, err
	}

	return &models.PaginationResult[models.Customer]{
		Data:       customers,
		Total:      total,
		Page:       pageFor(limit, offset),
		PerPage:    limit,
		TotalPages: totalPagesFor(total, limit),
	}, nil
}

// RoomRepository handles room data access
type RoomRepository struct {
	db *gorm.DB
}

// NewRoomRepository creates a new room repository
func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// GetByID gets a room by ID and tenant
func (r *RoomRepository) GetByID(tenantID, id uuid.UUID) (*models.Room, error) {
	var room models.Room
	err := r.db.Where("id = ? AND tenant_id = ?", id, tenantID).First(&room).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// Create creates a new room
func (r *RoomRepository) Create(room *models.Room) error {
	return r.db.Create(room).Error
}

// Update updates a room
func (r *RoomRepository) Update(room *models.Room) error {
	return r.db.Save(room).Error
}

// Delete soft-deletes a room
func (r *RoomRepository) Delete(id, tenantID uuid.UUID) error {
	result := r.db.Where("id = ? AND tenant_id = ?", id, tenantID).Delete(&models.Room{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List lists rooms for a tenant with pagination
func (r *RoomRepository) List(tenantID uuid.UUID, limit, offset int) (*models.PaginationResult[models.Room], error) {
	var rooms []models.Room
	var total int64

	if err := r.db.Model(&models.Room{}).Where("tenant_id = ?", tenantID).Count(&total).Error; err != nil {
		return nil, err
	}

	err := r.db.Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&rooms).Error
	if err != nil {
		return nil, err
	}

	return &models.PaginationResult[models.Room]{
		Data:       rooms,
		Total:      total,
		Page:       pageFor(limit, offset),
		PerPage:    limit,
		TotalPages: totalPagesFor(total, limit),
	}, nil
}

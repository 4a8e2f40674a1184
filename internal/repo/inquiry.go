package repo

import (
	"chintai/pkg/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InquiryRepository handles inquiry data access
type InquiryRepository struct {
	db *gorm.DB
}

// NewInquiryRepository creates a new inquiry repository
func NewInquiryRepository(db *gorm.DB) *InquiryRepository {
	return &InquiryRepository{db: db}
}

// GetByIDAndTenant gets an inquiry by ID and tenant ID for security
func (r *InquiryRepository) GetByIDAndTenant(id, tenantID uuid.UUID) (*models.Inquiry, error) {
	var inquiry models.Inquiry
	err := r.db.Preload("CustomerRef").Preload("AssignedUser").
		Where("id = ? AND tenant_id = ?", id, tenantID).First(&inquiry).Error
	if err != nil {
		return nil, err
	}
	return &inquiry, nil
}

// FindOpenByCustomer finds the customer's most recent non-closed inquiry
func (r *InquiryRepository) FindOpenByCustomer(tenantID, customerID uuid.UUID) (*models.Inquiry, error) {
	var inquiry models.Inquiry
	err := r.db.Where("tenant_id = ? AND customer_id = ? AND status <> ?",
		tenantID, customerID, models.InquiryStatusClosed).
		Order("created_at DESC").
		First(&inquiry).Error
	if err != nil {
		return nil, err
	}
	return &inquiry, nil
}

// Create creates a new inquiry
func (r *InquiryRepository) Create(inquiry *models.Inquiry) error {
	return r.db.Create(inquiry).Error
}

// Update updates an inquiry
func (r *InquiryRepository) Update(inquiry *models.Inquiry) error {
	return r.db.Save(inquiry).Error
}

// List lists inquiries for a tenant, optionally filtered by status,
// newest first
func (r *InquiryRepository) List(tenantID uuid.UUID, status string, limit, offset int) (*models.PaginationResult[models.Inquiry], error) {
	var inquiries []models.Inquiry
	var total int64

	base := r.db.Model(&models.Inquiry{}).Where("tenant_id = ?", tenantID)
	if status != "" {
		base = base.Where("status = ?", status)
	}

	if err := base.Count(&total).Error; err != nil {
		return nil, err
	}

	err := base.Preload("CustomerRef").Preload("AssignedUser").
		Order("updated_at DESC").
		Limit(limit).Offset(offset).
		Find(&inquiries).Error
	if err != nil {
		return nil, err
	}

	return &models.PaginationResult[models.Inquiry]{
		Data:       inquiries,
		Total:      total,
		Page:       pageFor(limit, offset),
		PerPage:    limit,
		TotalPages: totalPagesFor(total, limit),
	}, nil
}

// PropertyInquiryRepository handles property inquiry data access
type PropertyInquiryRepository struct {
	db *gorm.DB
}

// NewPropertyInquiryRepository creates a new property inquiry repository
func NewPropertyInquiryRepository(db *gorm.DB) *PropertyInquiryRepository {
	return &PropertyInquiryRepository{db: db}
}

// GetByIDAndTenant gets a property inquiry by ID and tenant ID
func (r *PropertyInquiryRepository) GetByIDAndTenant(id, tenantID uuid.UUID) (*models.PropertyInquiry, error) {
	var pi models.PropertyInquiry
	err := r.db.Preload("Room").Preload("AssignedUser").
		Where("id = ? AND tenant_id = ?", id, tenantID).First(&pi).Error
	if err != nil {
		return nil, err
	}
	return &pi, nil
}

// ListByInquiry lists the property inquiries under one inquiry
func (r *PropertyInquiryRepository) ListByInquiry(tenantID, inquiryID uuid.UUID) ([]models.PropertyInquiry, error) {
	var pis []models.PropertyInquiry
	err := r.db.Preload("Room").Preload("AssignedUser").
		Where("tenant_id = ? AND inquiry_id = ?", tenantID, inquiryID).
		Order("created_at ASC").
		Find(&pis).Error
	return pis, err
}

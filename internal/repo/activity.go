package repo

import (
	"chintai/pkg/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ActivityRepository handles customer activity data access. Activities are
// append-only; there is no update or delete path here.
type ActivityRepository struct {
	db *gorm.DB
}

// NewActivityRepository creates a new activity repository
func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Create appends a new activity
func (r *ActivityRepository) Create(activity *models.CustomerActivity) error {
	return r.db.Create(activity).Error
}

// ListByInquiry lists the activities of an inquiry, newest first
func (r *ActivityRepository) ListByInquiry(tenantID, inquiryID uuid.UUID, limit, offset int) ([]models.CustomerActivity, error) {
	var activities []models.CustomerActivity
	err := r.db.Preload("User").
		Where("tenant_id = ? AND inquiry_id = ?", tenantID, inquiryID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&activities).Error
	return activities, err
}

// ListByCustomer lists the activities of a customer across inquiries,
// newest first
func (r *ActivityRepository) ListByCustomer(tenantID, customerID uuid.UUID, limit, offset int) ([]models.CustomerActivity, error) {
	var activities []models.CustomerActivity
	err := r.db.Preload("User").
		Where("tenant_id = ? AND customer_id = ?", tenantID, customerID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&activities).Error
	return activities, err
}

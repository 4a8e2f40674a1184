package repo

import (
	"time"

	"chintai/pkg/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReadStatusRepository handles the per-(user, inquiry) read watermarks.
// Writes go through a single-statement upsert keyed on the unique
// (user_id, inquiry_id) index so concurrent mark-read calls from multiple
// tabs never race into duplicate rows or lost updates.
type ReadStatusRepository struct {
	db *gorm.DB
}

// NewReadStatusRepository creates a new read status repository
func NewReadStatusRepository(db *gorm.DB) *ReadStatusRepository {
	return &ReadStatusRepository{db: db}
}

const upsertReadStatusSQL = `
	INSERT INTO inquiry_read_statuses (id, tenant_id, user_id, inquiry_id, last_read_at, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (user_id, inquiry_id)
	DO UPDATE SET last_read_at = excluded.last_read_at, updated_at = excluded.updated_at
`

// Upsert records that the user has seen the inquiry as of readAt
func (r *ReadStatusRepository) Upsert(tenantID, userID, inquiryID uuid.UUID, readAt time.Time) error {
	return r.db.Exec(upsertReadStatusSQL,
		uuid.New(), tenantID, userID, inquiryID, readAt, readAt, readAt).Error
}

// UpsertBulk records read watermarks for many inquiries in one transaction
func (r *ReadStatusRepository) UpsertBulk(tenantID, userID uuid.UUID, inquiryIDs []uuid.UUID, readAt time.Time) error {
	if len(inquiryIDs) == 0 {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, inquiryID := range inquiryIDs {
			err := tx.Exec(upsertReadStatusSQL,
				uuid.New(), tenantID, userID, inquiryID, readAt, readAt, readAt).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// Get returns the watermark row for a (user, inquiry) pair
func (r *ReadStatusRepository) Get(userID, inquiryID uuid.UUID) (*models.InquiryReadStatus, error) {
	var rs models.InquiryReadStatus
	err := r.db.Where("user_id = ? AND inquiry_id = ?", userID, inquiryID).First(&rs).Error
	if err != nil {
		return nil, err
	}
	return &rs, nil
}

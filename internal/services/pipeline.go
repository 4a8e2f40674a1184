package services

import (
	"errors"
	"fmt"
	"time"

	"chintai/pkg/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// PipelineService owns every mutation of the engagement pipeline: deal
// status changes, property inquiry creation, assignment, and the inquiry
// status that is derived from them. Each operation runs inside one
// transaction so a crash can never leave the parent inquiry inconsistent
// with its children, and the reconciliation check always observes the
// sibling set as of the same transaction that wrote the change.
type PipelineService struct {
	db *gorm.DB
}

// NewPipelineService creates a new pipeline service
func NewPipelineService(db *gorm.DB) *PipelineService {
	return &PipelineService{db: db}
}

// ChangeDealStatus moves a property inquiry to a new pipeline stage and
// appends the status_change activity that is the audit source of truth.
// reason is honored only when the new status is lost. actorID may be nil
// for system-triggered changes. Concurrent edits resolve last-writer-wins.
func (s *PipelineService) ChangeDealStatus(tenantID, propertyInquiryID uuid.UUID, newStatus, reason string, actorID *uuid.UUID) (*models.PropertyInquiry, error) {
	if !models.ValidDealStatus(newStatus) {
		return nil, NewValidationError(fmt.Sprintf("invalid deal status: %s", newStatus))
	}

	var pi models.PropertyInquiry
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := loadPropertyInquiry(tx, tenantID, propertyInquiryID, &pi); err != nil {
			return err
		}

		oldStatus := pi.DealStatus
		now := time.Now()
		pi.DealStatus = newStatus
		pi.DealStatusChangedAt = &now
		if newStatus == models.DealStatusLost {
			pi.LostReason = reason
		} else {
			pi.LostReason = ""
		}

		if err := tx.Save(&pi).Error; err != nil {
			return NewInternalError("failed to update deal status", err)
		}

		activity := models.CustomerActivity{
			CustomerID:        pi.CustomerID,
			InquiryID:         pi.InquiryID,
			PropertyInquiryID: &pi.ID,
			UserID:            actorID,
			ActivityType:      models.ActivityTypeStatusChange,
			Direction:         models.DirectionInternal,
			Subject:           fmt.Sprintf("Deal status changed: %s → %s", models.DealStatusLabel(oldStatus), models.DealStatusLabel(newStatus)),
			Body:              reasonBody(newStatus, reason),
		}
		activity.TenantID = tenantID
		if err := tx.Create(&activity).Error; err != nil {
			return NewInternalError("failed to log status change", err)
		}

		if err := s.propagateAssignee(tx, &pi); err != nil {
			return err
		}
		return s.reconcile(tx, tenantID, pi.InquiryID)
	})
	if err != nil {
		return nil, err
	}
	return &pi, nil
}

func reasonBody(status, reason string) string {
	if status == models.DealStatusLost && reason != "" {
		return "Lost reason: " + reason
	}
	return ""
}

// CreatePropertyInquiryInput carries the fields for a new property inquiry
type CreatePropertyInquiryInput struct {
	InquiryID  uuid.UUID
	CustomerID uuid.UUID
	RoomID     uuid.UUID
	Priority   string
	MediaType  string
	OriginType string
	AssignedTo *uuid.UUID
}

// CreatePropertyInquiry adds a new property interest to an existing
// inquiry. Reconciliation runs in the same transaction, so adding a
// non-terminal child to a closed inquiry re-opens it immediately.
func (s *PipelineService) CreatePropertyInquiry(tenantID uuid.UUID, input CreatePropertyInquiryInput) (*models.PropertyInquiry, error) {
	if input.Priority == "" {
		input.Priority = models.PriorityNormal
	}
	if !models.ValidPriority(input.Priority) {
		return nil, NewValidationError(fmt.Sprintf("invalid priority: %s", input.Priority))
	}

	var pi models.PropertyInquiry
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var inquiry models.Inquiry
		if err := tx.Where("id = ? AND tenant_id = ?", input.InquiryID, tenantID).First(&inquiry).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewNotFoundError("inquiry not found")
			}
			return NewInternalError("failed to load inquiry", err)
		}

		var room models.Room
		if err := tx.Where("id = ? AND tenant_id = ?", input.RoomID, tenantID).First(&room).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewNotFoundError("room not found")
			}
			return NewInternalError("failed to load room", err)
		}

		now := time.Now()
		pi = models.PropertyInquiry{
			InquiryID:           inquiry.ID,
			CustomerID:          input.CustomerID,
			RoomID:              room.ID,
			DealStatus:          models.DealStatusNewInquiry,
			Priority:            input.Priority,
			AssignedUserID:      input.AssignedTo,
			MediaType:           input.MediaType,
			OriginType:          input.OriginType,
			DealStatusChangedAt: &now,
		}
		pi.TenantID = tenantID
		if err := tx.Create(&pi).Error; err != nil {
			return NewInternalError("failed to create property inquiry", err)
		}

		if err := s.propagateAssignee(tx, &pi); err != nil {
			return err
		}
		return s.reconcile(tx, tenantID, inquiry.ID)
	})
	if err != nil {
		return nil, err
	}
	return &pi, nil
}

// AssignPropertyInquiry changes the assignee of a property inquiry and
// logs an assigned_user_change activity. The inquiry-level default owner
// follows the first-writer-wins propagation rule.
func (s *PipelineService) AssignPropertyInquiry(tenantID, propertyInquiryID, userID uuid.UUID, actorID *uuid.UUID) (*models.PropertyInquiry, error) {
	var pi models.PropertyInquiry
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := loadPropertyInquiry(tx, tenantID, propertyInquiryID, &pi); err != nil {
			return err
		}

		var user models.User
		if err := tx.Where("id = ? AND tenant_id = ?", userID, tenantID).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewNotFoundError("user not found")
			}
			return NewInternalError("failed to load user", err)
		}

		pi.AssignedUserID = &user.ID
		if err := tx.Save(&pi).Error; err != nil {
			return NewInternalError("failed to update assignee", err)
		}

		activity := models.CustomerActivity{
			CustomerID:        pi.CustomerID,
			InquiryID:         pi.InquiryID,
			PropertyInquiryID: &pi.ID,
			UserID:            actorID,
			ActivityType:      models.ActivityTypeAssignedUserChange,
			Direction:         models.DirectionInternal,
			Subject:           fmt.Sprintf("Assignee changed to %s", user.Name),
		}
		activity.TenantID = tenantID
		if err := tx.Create(&activity).Error; err != nil {
			return NewInternalError("failed to log assignee change", err)
		}

		return s.propagateAssignee(tx, &pi)
	})
	if err != nil {
		return nil, err
	}
	return &pi, nil
}

// ChangeInquiryStatus is the manual override for the inquiry lifecycle.
// Setting on_hold suspends reconciliation until a human releases it.
// Releasing on_hold (or forcing active/closed) immediately re-derives the
// status from the current children so the closed-iff-all-terminal
// invariant holds.
func (s *PipelineService) ChangeInquiryStatus(tenantID, inquiryID uuid.UUID, status string, actorID *uuid.UUID) (*models.Inquiry, error) {
	if !models.ValidInquiryStatus(status) {
		return nil, NewValidationError(fmt.Sprintf("invalid inquiry status: %s", status))
	}

	var inquiry models.Inquiry
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND tenant_id = ?", inquiryID, tenantID).First(&inquiry).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewNotFoundError("inquiry not found")
			}
			return NewInternalError("failed to load inquiry", err)
		}

		inquiry.Status = status
		if err := tx.Save(&inquiry).Error; err != nil {
			return NewInternalError("failed to update inquiry status", err)
		}

		if status == models.InquiryStatusOnHold {
			return nil
		}
		if err := s.reconcile(tx, tenantID, inquiry.ID); err != nil {
			return err
		}
		// Reload so the caller sees the reconciled status
		return tx.Where("id = ?", inquiry.ID).First(&inquiry).Error
	})
	if err != nil {
		return nil, err
	}
	return &inquiry, nil
}

// SetInquiryAssignee explicitly changes the inquiry's primary owner. This
// is the only path that overwrites an already-set assignee; propagation
// from property inquiries never does.
func (s *PipelineService) SetInquiryAssignee(tenantID, inquiryID, userID uuid.UUID) (*models.Inquiry, error) {
	var inquiry models.Inquiry
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND tenant_id = ?", inquiryID, tenantID).First(&inquiry).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewNotFoundError("inquiry not found")
			}
			return NewInternalError("failed to load inquiry", err)
		}

		var user models.User
		if err := tx.Where("id = ? AND tenant_id = ?", userID, tenantID).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewNotFoundError("user not found")
			}
			return NewInternalError("failed to load user", err)
		}

		inquiry.AssignedUserID = &user.ID
		if err := tx.Save(&inquiry).Error; err != nil {
			return NewInternalError("failed to update inquiry assignee", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &inquiry, nil
}

// reconcile derives the inquiry status from the current set of its
// property inquiries. It re-queries siblings inside the caller's
// transaction, never acts on an on_hold inquiry, and writes the status
// column directly without emitting an activity: the parent status is
// derived state, not a deal-status change.
func (s *PipelineService) reconcile(tx *gorm.DB, tenantID, inquiryID uuid.UUID) error {
	var inquiry models.Inquiry
	if err := tx.Where("id = ? AND tenant_id = ?", inquiryID, tenantID).First(&inquiry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewNotFoundError("inquiry not found")
		}
		return NewInternalError("failed to load inquiry for reconciliation", err)
	}

	if inquiry.Status == models.InquiryStatusOnHold {
		return nil
	}

	var total, terminal int64
	if err := tx.Model(&models.PropertyInquiry{}).
		Where("tenant_id = ? AND inquiry_id = ?", tenantID, inquiryID).
		Count(&total).Error; err != nil {
		return NewInternalError("failed to count property inquiries", err)
	}
	if err := tx.Model(&models.PropertyInquiry{}).
		Where("tenant_id = ? AND inquiry_id = ?", tenantID, inquiryID).
		Where("deal_status IN ?", []string{models.DealStatusContracted, models.DealStatusLost}).
		Count(&terminal).Error; err != nil {
		return NewInternalError("failed to count terminal property inquiries", err)
	}

	desired := inquiry.Status
	if total > 0 && terminal == total {
		desired = models.InquiryStatusClosed
	} else if total > 0 {
		desired = models.InquiryStatusActive
	}

	if desired == inquiry.Status {
		return nil
	}

	log.Debug().
		Str("inquiry_id", inquiryID.String()).
		Str("from", inquiry.Status).
		Str("to", desired).
		Msg("Reconciling inquiry status")

	err := tx.Model(&models.Inquiry{}).
		Where("id = ?", inquiryID).
		Update("status", desired).Error
	if err != nil {
		return NewInternalError("failed to reconcile inquiry status", err)
	}
	return nil
}

// propagateAssignee copies the property inquiry's assignee onto the parent
// inquiry when the inquiry has no primary owner yet. First writer wins:
// later per-property reassignments never overwrite it.
func (s *PipelineService) propagateAssignee(tx *gorm.DB, pi *models.PropertyInquiry) error {
	if pi.AssignedUserID == nil {
		return nil
	}

	var inquiry models.Inquiry
	if err := tx.Where("id = ? AND tenant_id = ?", pi.InquiryID, pi.TenantID).First(&inquiry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewNotFoundError("inquiry not found")
		}
		return NewInternalError("failed to load inquiry for assignment propagation", err)
	}

	if inquiry.AssignedUserID != nil {
		return nil
	}

	err := tx.Model(&models.Inquiry{}).
		Where("id = ?", inquiry.ID).
		Update("assigned_user_id", pi.AssignedUserID).Error
	if err != nil {
		return NewInternalError("failed to propagate assignee", err)
	}
	return nil
}

func loadPropertyInquiry(tx *gorm.DB, tenantID, id uuid.UUID, out *models.PropertyInquiry) error {
	if err := tx.Where("id = ? AND tenant_id = ?", id, tenantID).First(out).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewNotFoundError("property inquiry not found")
		}
		return NewInternalError("failed to load property inquiry", err)
	}
	return nil
}

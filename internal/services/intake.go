package services

import (
	"errors"
	"time"

	"chintai/pkg/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Intake channels
const (
	ChannelWebForm     = "web_form"
	ChannelPortalEmail = "portal_email"
	ChannelLine        = "line"
)

// IntakeService turns inbound contact from the channel transports (web
// form posts, parsed portal emails, LINE events) into CRM records:
// find-or-create the customer by contact identity, reuse or open an
// inquiry, open a property inquiry when a room is referenced, and append
// the inbound activity. Everything runs in one transaction so the
// reconciliation check sees the new child immediately.
type IntakeService struct {
	db       *gorm.DB
	pipeline *PipelineService
}

// NewIntakeService creates a new intake service
func NewIntakeService(db *gorm.DB, pipeline *PipelineService) *IntakeService {
	return &IntakeService{db: db, pipeline: pipeline}
}

// InboundContact is one inbound communication event from a channel
type InboundContact struct {
	Name       string
	Email      string
	Phone      string
	LineUserID string
	RoomID     *uuid.UUID
	Channel    string // web_form, portal_email, line
	Subject    string
	Body       string
	MediaType  string // portal or site the contact came from
}

// IntakeResult reports the records an inbound contact produced
type IntakeResult struct {
	Customer        *models.Customer         `json:"customer"`
	Inquiry         *models.Inquiry          `json:"inquiry"`
	PropertyInquiry *models.PropertyInquiry  `json:"property_inquiry,omitempty"`
	Activity        *models.CustomerActivity `json:"activity"`
	CustomerCreated bool                     `json:"customer_created"`
	InquiryCreated  bool                     `json:"inquiry_created"`
}

// RecordInbound processes one inbound contact event
func (s *IntakeService) RecordInbound(tenantID uuid.UUID, input InboundContact) (*IntakeResult, error) {
	if input.Email == "" && input.Phone == "" && input.LineUserID == "" {
		return nil, NewValidationError("inbound contact needs an email, phone or LINE user id")
	}
	activityType, err := inboundActivityType(input.Channel)
	if err != nil {
		return nil, err
	}

	result := &IntakeResult{}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		customer, created, err := s.findOrCreateCustomer(tx, tenantID, input)
		if err != nil {
			return err
		}
		result.Customer = customer
		result.CustomerCreated = created

		inquiry, created, err := s.findOrCreateInquiry(tx, tenantID, customer.ID)
		if err != nil {
			return err
		}
		result.Inquiry = inquiry
		result.InquiryCreated = created

		if input.RoomID != nil {
			var room models.Room
			if err := tx.Where("id = ? AND tenant_id = ?", *input.RoomID, tenantID).First(&room).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return NewNotFoundError("room not found")
				}
				return NewInternalError("failed to load room", err)
			}

			now := time.Now()
			pi := models.PropertyInquiry{
				InquiryID:           inquiry.ID,
				CustomerID:          customer.ID,
				RoomID:              room.ID,
				DealStatus:          models.DealStatusNewInquiry,
				Priority:            models.PriorityNormal,
				MediaType:           input.MediaType,
				OriginType:          input.Channel,
				DealStatusChangedAt: &now,
			}
			pi.TenantID = tenantID
			if err := tx.Create(&pi).Error; err != nil {
				return NewInternalError("failed to create property inquiry", err)
			}
			result.PropertyInquiry = &pi

			if err := s.pipeline.reconcile(tx, tenantID, inquiry.ID); err != nil {
				return err
			}
			// Re-read: reconciliation may have re-opened a closed inquiry
			if err := tx.Where("id = ?", inquiry.ID).First(inquiry).Error; err != nil {
				return NewInternalError("failed to reload inquiry", err)
			}
		}

		activity := models.CustomerActivity{
			CustomerID:   customer.ID,
			InquiryID:    inquiry.ID,
			ActivityType: activityType,
			Direction:    models.DirectionInbound,
			Subject:      input.Subject,
			Body:         input.Body,
		}
		if result.PropertyInquiry != nil {
			activity.PropertyInquiryID = &result.PropertyInquiry.ID
		}
		activity.TenantID = tenantID
		if err := tx.Create(&activity).Error; err != nil {
			return NewInternalError("failed to log inbound activity", err)
		}
		result.Activity = &activity
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("tenant_id", tenantID.String()).
		Str("channel", input.Channel).
		Bool("new_customer", result.CustomerCreated).
		Msg("Inbound contact recorded")
	return result, nil
}

// RecordOutbound appends an outbound activity on behalf of a channel
// transport. Outbound sends never mark the sender's inquiry unread; the
// caller is expected to mark the inquiry read as a side effect of
// replying.
func (s *IntakeService) RecordOutbound(tenantID, inquiryID uuid.UUID, activityType, subject, body string, actorID *uuid.UUID) (*models.CustomerActivity, error) {
	switch activityType {
	case models.ActivityTypeEmail, models.ActivityTypeLineMessage, models.ActivityTypePhone:
	default:
		return nil, NewValidationError("invalid outbound activity type: " + activityType)
	}

	var inquiry models.Inquiry
	err := s.db.Where("id = ? AND tenant_id = ?", inquiryID, tenantID).First(&inquiry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("inquiry not found")
		}
		return nil, NewInternalError("failed to load inquiry", err)
	}

	activity := models.CustomerActivity{
		CustomerID:   inquiry.CustomerID,
		InquiryID:    inquiry.ID,
		UserID:       actorID,
		ActivityType: activityType,
		Direction:    models.DirectionOutbound,
		Subject:      subject,
		Body:         body,
	}
	activity.TenantID = tenantID
	if err := s.db.Create(&activity).Error; err != nil {
		return nil, NewInternalError("failed to log outbound activity", err)
	}
	return &activity, nil
}

func inboundActivityType(channel string) (string, error) {
	switch channel {
	case ChannelWebForm:
		return models.ActivityTypeInquiry, nil
	case ChannelPortalEmail:
		return models.ActivityTypeEmail, nil
	case ChannelLine:
		return models.ActivityTypeLineMessage, nil
	}
	return "", NewValidationError("invalid intake channel: " + channel)
}

func (s *IntakeService) findOrCreateCustomer(tx *gorm.DB, tenantID uuid.UUID, input InboundContact) (*models.Customer, bool, error) {
	var customer models.Customer
	var err error

	if input.LineUserID != "" {
		err = tx.Where("tenant_id = ? AND line_user_id = ?", tenantID, input.LineUserID).First(&customer).Error
	} else {
		err = gorm.ErrRecordNotFound
	}
	if errors.Is(err, gorm.ErrRecordNotFound) && (input.Email != "" || input.Phone != "") {
		query := tx.Where("tenant_id = ?", tenantID)
		switch {
		case input.Email != "" && input.Phone != "":
			query = query.Where("email = ? OR phone = ?", input.Email, input.Phone)
		case input.Email != "":
			query = query.Where("email = ?", input.Email)
		default:
			query = query.Where("phone = ?", input.Phone)
		}
		err = query.First(&customer).Error
	}

	if err == nil {
		// Repeat contact: fill in anything we learned
		changed := false
		if customer.Name == "" && input.Name != "" {
			customer.Name = input.Name
			changed = true
		}
		if customer.Email == "" && input.Email != "" {
			customer.Email = input.Email
			changed = true
		}
		if customer.Phone == "" && input.Phone != "" {
			customer.Phone = input.Phone
			changed = true
		}
		if customer.LineUserID == "" && input.LineUserID != "" {
			customer.LineUserID = input.LineUserID
			changed = true
		}
		if changed {
			if err := tx.Save(&customer).Error; err != nil {
				return nil, false, NewInternalError("failed to update customer", err)
			}
		}
		return &customer, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, NewInternalError("failed to look up customer", err)
	}

	customer = models.Customer{
		Name:       input.Name,
		Email:      input.Email,
		Phone:      input.Phone,
		LineUserID: input.LineUserID,
		IsActive:   true,
	}
	customer.TenantID = tenantID
	if err := tx.Create(&customer).Error; err != nil {
		return nil, false, NewInternalError("failed to create customer", err)
	}
	return &customer, true, nil
}

func (s *IntakeService) findOrCreateInquiry(tx *gorm.DB, tenantID, customerID uuid.UUID) (*models.Inquiry, bool, error) {
	var inquiry models.Inquiry
	err := tx.Where("tenant_id = ? AND customer_id = ? AND status <> ?",
		tenantID, customerID, models.InquiryStatusClosed).
		Order("created_at DESC").
		First(&inquiry).Error
	if err == nil {
		return &inquiry, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, NewInternalError("failed to look up inquiry", err)
	}

	inquiry = models.Inquiry{
		CustomerID: customerID,
		Status:     models.InquiryStatusActive,
	}
	inquiry.TenantID = tenantID
	if err := tx.Create(&inquiry).Error; err != nil {
		return nil, false, NewInternalError("failed to create inquiry", err)
	}
	return &inquiry, true, nil
}

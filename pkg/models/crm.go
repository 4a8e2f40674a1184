package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer represents a person who contacted the agency. Identified within a
// tenant by email or phone; created on first inbound contact and never
// hard-deleted.
type Customer struct {
	BaseTenantModel
	Name       string `json:"name"`
	Email      string `gorm:"index" json:"email"`
	Phone      string `gorm:"index" json:"phone"`
	LineUserID string `gorm:"index" json:"line_user_id,omitempty"`
	Notes      string `gorm:"type:text" json:"notes"`
	IsActive   bool   `gorm:"default:true" json:"is_active"`
}

// Room represents one rentable unit a property inquiry points at
type Room struct {
	BaseTenantModel
	Name         string `gorm:"not null" json:"name" validate:"required"`
	BuildingName string `json:"building_name"`
	RoomNumber   string `json:"room_number"`
	Address      string `json:"address"`
	Rent         int64  `json:"rent"` // monthly rent in yen
	Layout       string `json:"layout"`
	FloorArea    string `json:"floor_area"`
	IsActive     bool   `gorm:"default:true" json:"is_active"`
}

// Inquiry lifecycle statuses
const (
	InquiryStatusActive = "active"
	InquiryStatusOnHold = "on_hold"
	InquiryStatusClosed = "closed"
)

// ValidInquiryStatus reports whether s is a known inquiry status
func ValidInquiryStatus(s string) bool {
	switch s {
	case InquiryStatusActive, InquiryStatusOnHold, InquiryStatusClosed:
		return true
	}
	return false
}

// Inquiry is a conversation container grouping one customer's related
// property discussions. Status is derived by reconciliation except when a
// human puts it on hold; per-property progress never lives here.
type Inquiry struct {
	BaseTenantModel
	CustomerID     uuid.UUID  `gorm:"type:uuid;not null;index;constraint:OnDelete:RESTRICT" json:"customer_id"`
	Status         string     `gorm:"default:'active'" json:"status"`
	AssignedUserID *uuid.UUID `gorm:"type:uuid;constraint:OnDelete:SET NULL" json:"assigned_user_id"`
	Notes          string     `gorm:"type:text" json:"notes"`

	// Relations
	CustomerRef  *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	AssignedUser *User     `gorm:"foreignKey:AssignedUserID" json:"assigned_user,omitempty"`
}

// Deal pipeline statuses for a property inquiry
const (
	DealStatusNewInquiry       = "new_inquiry"
	DealStatusContacting       = "contacting"
	DealStatusViewingScheduled = "viewing_scheduled"
	DealStatusViewingDone      = "viewing_done"
	DealStatusApplication      = "application"
	DealStatusContracted       = "contracted"
	DealStatusLost             = "lost"
)

var dealStatusLabels = map[string]string{
	DealStatusNewInquiry:       "New Inquiry",
	DealStatusContacting:       "Contacting",
	DealStatusViewingScheduled: "Viewing Scheduled",
	DealStatusViewingDone:      "Viewing Done",
	DealStatusApplication:      "Application",
	DealStatusContracted:       "Contracted",
	DealStatusLost:             "Lost",
}

// ValidDealStatus reports whether s is a known deal status
func ValidDealStatus(s string) bool {
	_, ok := dealStatusLabels[s]
	return ok
}

// DealStatusLabel returns the human-readable label for a deal status
func DealStatusLabel(s string) string {
	if label, ok := dealStatusLabels[s]; ok {
		return label
	}
	return s
}

// IsTerminalDealStatus reports whether no further progress is expected
func IsTerminalDealStatus(s string) bool {
	return s == DealStatusContracted || s == DealStatusLost
}

// Priorities
const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// ValidPriority reports whether p is a known priority
func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// PropertyInquiry is one customer's interest in one specific room, with its
// own deal pipeline. Deal status, priority and assignee live here, not on
// the parent inquiry: one inquiry can hold properties at different stages
// owned by different staff.
type PropertyInquiry struct {
	BaseTenantModel
	InquiryID           uuid.UUID  `gorm:"type:uuid;not null;index;constraint:OnDelete:RESTRICT" json:"inquiry_id"`
	CustomerID          uuid.UUID  `gorm:"type:uuid;not null;index;constraint:OnDelete:RESTRICT" json:"customer_id"`
	RoomID              uuid.UUID  `gorm:"type:uuid;not null;index;constraint:OnDelete:RESTRICT" json:"room_id"`
	DealStatus          string     `gorm:"default:'new_inquiry'" json:"deal_status"`
	Priority            string     `gorm:"default:'normal'" json:"priority"`
	AssignedUserID      *uuid.UUID `gorm:"type:uuid;constraint:OnDelete:SET NULL" json:"assigned_user_id"`
	LostReason          string     `json:"lost_reason,omitempty"` // set only when deal_status = lost
	MediaType           string     `json:"media_type"`            // portal site, own website, etc.
	OriginType          string     `json:"origin_type"`           // web_form, portal_email, line, manual
	DealStatusChangedAt *time.Time `json:"deal_status_changed_at"`

	// Relations
	Inquiry      *Inquiry  `gorm:"foreignKey:InquiryID" json:"inquiry,omitempty"`
	CustomerRef  *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Room         *Room     `gorm:"foreignKey:RoomID" json:"room,omitempty"`
	AssignedUser *User     `gorm:"foreignKey:AssignedUserID" json:"assigned_user,omitempty"`
}

// Activity types
const (
	ActivityTypeEmail              = "email"
	ActivityTypeLineMessage        = "line_message"
	ActivityTypePhone              = "phone"
	ActivityTypeVisit              = "visit"
	ActivityTypeInquiry            = "inquiry" // the initial inbound contact itself
	ActivityTypeNote               = "note"
	ActivityTypeStatusChange       = "status_change"
	ActivityTypeAssignedUserChange = "assigned_user_change"
)

// Activity directions
const (
	DirectionInbound  = "inbound"
	DirectionOutbound = "outbound"
	DirectionInternal = "internal"
)

// InboundActivityTypes are the genuinely customer-originated event types
// that make an inquiry unread. A staff member's own outbound sends never
// mark their inquiry unread.
var InboundActivityTypes = []string{
	ActivityTypeEmail,
	ActivityTypeLineMessage,
	ActivityTypeInquiry,
}

// CustomerActivity is one immutable log entry representing a communication
// or system event on an inquiry. Appended by channel transports and by the
// deal-status engine; never mutated after creation.
type CustomerActivity struct {
	BaseTenantModel
	CustomerID        uuid.UUID  `gorm:"type:uuid;not null;index;constraint:OnDelete:RESTRICT" json:"customer_id"`
	InquiryID         uuid.UUID  `gorm:"type:uuid;not null;index;constraint:OnDelete:RESTRICT" json:"inquiry_id"`
	PropertyInquiryID *uuid.UUID `gorm:"type:uuid;index;constraint:OnDelete:SET NULL" json:"property_inquiry_id,omitempty"`
	UserID            *uuid.UUID `gorm:"type:uuid;constraint:OnDelete:SET NULL" json:"user_id,omitempty"` // nil for customer or system events
	ActivityType      string     `gorm:"not null;index" json:"activity_type"`
	Direction         string     `gorm:"not null;index" json:"direction"`
	Subject           string     `json:"subject"`
	Body              string     `gorm:"type:text" json:"body"`
	Metadata          string     `json:"metadata"` // free-form, never read by the unread predicate

	// Relations
	CustomerRef *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	User        *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// InquiryReadStatus is the per-(user, inquiry) watermark: the only state the
// unread-tracking service owns. One row per pair, upserted, never deleted.
// Keeping a watermark instead of per-activity flags bounds the table at
// users x inquiries.
type InquiryReadStatus struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID   uuid.UUID `gorm:"type:uuid;not null;index" json:"tenant_id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_read_status_user_inquiry" json:"user_id"`
	InquiryID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_read_status_user_inquiry" json:"inquiry_id"`
	LastReadAt time.Time `gorm:"not null" json:"last_read_at"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName returns the table name for InquiryReadStatus
func (InquiryReadStatus) TableName() string {
	return "inquiry_read_statuses"
}

// BeforeCreate hook to generate UUID if not set
func (r *InquiryReadStatus) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

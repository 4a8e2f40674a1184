package services

import (
	"errors"
	"time"

	"chintai/internal/repo"
	"chintai/pkg/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UnreadService answers, per requesting user, which inquiries hold inbound
// communication the user has not seen. It owns nothing but the
// inquiry_read_statuses watermark table; unread state is recomputed from
// committed relational data on every read, cheap enough for a 30-second
// polling cadence. An inquiry is unread when its latest customer-originated
// activity is newer than the user's watermark (or no watermark exists).
type UnreadService struct {
	db             *gorm.DB
	readStatusRepo *repo.ReadStatusRepository
}

// NewUnreadService creates a new unread-tracking service
func NewUnreadService(db *gorm.DB, readStatusRepo *repo.ReadStatusRepository) *UnreadService {
	return &UnreadService{db: db, readStatusRepo: readStatusRepo}
}

// UnreadInquiry is one entry of the unread list
type UnreadInquiry struct {
	InquiryID      uuid.UUID  `gorm:"column:inquiry_id" json:"inquiry_id"`
	InquiryStatus  string     `gorm:"column:inquiry_status" json:"inquiry_status"`
	AssignedUserID *uuid.UUID `gorm:"column:assigned_user_id" json:"assigned_user_id"`
	CustomerID     uuid.UUID  `gorm:"column:customer_id" json:"customer_id"`
	CustomerName   string     `gorm:"column:customer_name" json:"customer_name"`
	CustomerEmail  string     `gorm:"column:customer_email" json:"customer_email"`
	CustomerPhone  string     `gorm:"column:customer_phone" json:"customer_phone"`
	ActivityType   string     `gorm:"column:activity_type" json:"activity_type"`
	Preview        string     `gorm:"column:preview" json:"preview"`
	LastActivityAt time.Time  `gorm:"column:last_activity_at" json:"last_activity_at"`
	Elapsed        string     `gorm:"-" json:"elapsed"`
}

// latestInboundJoin matches each inquiry with its single most recent
// customer-originated activity. Inquiries with no inbound activity drop
// out of the join, which is exactly the unread predicate's "L exists".
const latestInboundJoin = `
	JOIN customer_activities a ON a.id = (
		SELECT a2.id
		FROM customer_activities a2
		WHERE a2.inquiry_id = i.id
		  AND a2.tenant_id = i.tenant_id
		  AND a2.direction = ?
		  AND a2.activity_type IN ?
		ORDER BY a2.created_at DESC
		LIMIT 1
	)
`

// UnreadCount returns how many inquiries are unread for the user.
// Empty results are zero, never an error.
func (s *UnreadService) UnreadCount(tenantID, userID uuid.UUID, seesAll bool) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM inquiries i
	` + latestInboundJoin + `
		LEFT JOIN inquiry_read_statuses rs ON rs.inquiry_id = i.id AND rs.user_id = ?
		WHERE i.tenant_id = ?
		  AND i.deleted_at IS NULL
		  AND (rs.last_read_at IS NULL OR a.created_at > rs.last_read_at)
	`
	args := []interface{}{models.DirectionInbound, models.InboundActivityTypes, userID, tenantID}
	if !seesAll {
		query += ` AND (i.assigned_user_id IS NULL OR i.assigned_user_id = ?)`
		args = append(args, userID)
	}

	var count int64
	if err := s.db.Raw(query, args...).Scan(&count).Error; err != nil {
		return 0, NewInternalError("failed to count unread inquiries", err)
	}
	return count, nil
}

// ListUnread returns the unread inquiries visible to the user, newest
// unread activity first. Unassigned inquiries are visible to every active
// tenant user; assigned ones only to the assignee unless seesAll is set.
func (s *UnreadService) ListUnread(tenantID, userID uuid.UUID, seesAll bool) ([]UnreadInquiry, error) {
	query := `
		SELECT i.id AS inquiry_id,
		       i.status AS inquiry_status,
		       i.assigned_user_id AS assigned_user_id,
		       c.id AS customer_id,
		       c.name AS customer_name,
		       c.email AS customer_email,
		       c.phone AS customer_phone,
		       a.activity_type AS activity_type,
		       a.subject AS preview,
		       a.created_at AS last_activity_at
		FROM inquiries i
		JOIN customers c ON c.id = i.customer_id
	` + latestInboundJoin + `
		LEFT JOIN inquiry_read_statuses rs ON rs.inquiry_id = i.id AND rs.user_id = ?
		WHERE i.tenant_id = ?
		  AND i.deleted_at IS NULL
		  AND (rs.last_read_at IS NULL OR a.created_at > rs.last_read_at)
	`
	args := []interface{}{models.DirectionInbound, models.InboundActivityTypes, userID, tenantID}
	if !seesAll {
		query += ` AND (i.assigned_user_id IS NULL OR i.assigned_user_id = ?)`
		args = append(args, userID)
	}
	query += ` ORDER BY a.created_at DESC`

	var entries []UnreadInquiry
	if err := s.db.Raw(query, args...).Scan(&entries).Error; err != nil {
		return nil, NewInternalError("failed to list unread inquiries", err)
	}

	now := time.Now()
	for idx := range entries {
		entries[idx].Elapsed = now.Sub(entries[idx].LastActivityAt).Truncate(time.Second).String()
	}
	return entries, nil
}

// MarkRead records that the user has seen the inquiry as of now.
// Idempotent: repeated calls leave one row with the latest timestamp.
func (s *UnreadService) MarkRead(tenantID, userID, inquiryID uuid.UUID, seesAll bool) error {
	inquiry, err := s.loadInquiry(tenantID, inquiryID)
	if err != nil {
		return err
	}

	if !s.canSee(inquiry, userID, seesAll) {
		return NewAuthorizationError("inquiry is assigned to another user")
	}

	if err := s.readStatusRepo.Upsert(tenantID, userID, inquiryID, time.Now()); err != nil {
		return NewInternalError("failed to mark inquiry read", err)
	}
	return nil
}

// MarkAllRead records read watermarks for many inquiries at once. IDs not
// found in the tenant, or not visible to the user, are skipped.
func (s *UnreadService) MarkAllRead(tenantID, userID uuid.UUID, inquiryIDs []uuid.UUID, seesAll bool) (int, error) {
	if len(inquiryIDs) == 0 {
		return 0, nil
	}

	var inquiries []models.Inquiry
	err := s.db.Where("tenant_id = ? AND id IN ?", tenantID, inquiryIDs).Find(&inquiries).Error
	if err != nil {
		return 0, NewInternalError("failed to load inquiries", err)
	}

	visible := make([]uuid.UUID, 0, len(inquiries))
	for idx := range inquiries {
		if s.canSee(&inquiries[idx], userID, seesAll) {
			visible = append(visible, inquiries[idx].ID)
		}
	}

	if err := s.readStatusRepo.UpsertBulk(tenantID, userID, visible, time.Now()); err != nil {
		return 0, NewInternalError("failed to mark inquiries read", err)
	}
	return len(visible), nil
}

func (s *UnreadService) loadInquiry(tenantID, inquiryID uuid.UUID) (*models.Inquiry, error) {
	var inquiry models.Inquiry
	err := s.db.Where("id = ? AND tenant_id = ?", inquiryID, tenantID).First(&inquiry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("inquiry not found")
		}
		return nil, NewInternalError("failed to load inquiry", err)
	}
	return &inquiry, nil
}

func (s *UnreadService) canSee(inquiry *models.Inquiry, userID uuid.UUID, seesAll bool) bool {
	if seesAll || inquiry.AssignedUserID == nil {
		return true
	}
	return *inquiry.AssignedUserID == userID
}

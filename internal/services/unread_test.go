package services

import (
	"testing"
	"time"

	"chintai/internal/repo"
	"chintai/pkg/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func newUnreadService(db *gorm.DB) *UnreadService {
	return NewUnreadService(db, repo.NewReadStatusRepository(db))
}

func TestUnreadCycle(t *testing.T) {
	db := newTestDB(t)
	f := seedFixture(t, db)
	svc := newUnreadService(db)

	// No inbound activity yet: nothing is unread
	count, err := svc.UnreadCount(f.Tenant.ID, f.User.ID, false)
	if err != nil {
		t.Fatalf("UnreadCount: %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0 before any activity", count)
	}

	// First inbound contact makes the inquiry unread
	f.addInboundActivity(t, db, models.ActivityTypeInquiry, time.Time{})
	count, _ = svc.UnreadCount(f.Tenant.ID, f.User.ID, false)
	if count != 1 {
		t.Fatalf("count = %d, want 1 after inbound activity", count)
	}

	// Reading clears it
	if err := svc.MarkRead(f.Tenant.ID, f.User.ID, f.Inquiry.ID, false); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	count, _ = svc.UnreadCount(f.Tenant.ID, f.User.ID, false)
	if count != 0 {
		t.Fatalf("count = %d, want 0 after mark read", count)
	}

	// A newer inbound message makes it unread again
	f.addInboundActivity(t, db, models.ActivityTypeEmail, time.Now().Add(time.Minute))
	count, _ = svc.UnreadCount(f.Tenant.ID, f.User.ID, false)
	if count != 1 {
		t.Errorf("count = %d, want 1 after newer inbound activity", count)
	}
}

func TestOutboundAndInternalNeverUnread(t *testing.T) {
	db := newTestDB(t)
	f := seedFixture(t, db)
	svc := newUnreadService(db)

	outbound := models.CustomerActivity{
		CustomerID:   f.Customer.ID,
		InquiryID:    f.Inquiry.ID,
		ActivityType: models.ActivityTypeEmail,
		Direction:    models.DirectionOutbound,
		Subject:      "follow up",
	}
	outbound.TenantID = f.Tenant.ID
	if err := db.Create(&outbound).Error; err != nil {
		t.Fatalf("seed outbound: %v", err)
	}

	internal := models.CustomerActivity{
		CustomerID:   f.Customer.ID,
		InquiryID:    f.Inquiry.ID,
		ActivityType: models.ActivityTypeStatusChange,
		Direction:    models.DirectionInternal,
	}
	internal.TenantID = f.Tenant.ID
	if err := db.Create(&internal).Error; err != nil {
		t.Fatalf("seed internal: %v", err)
	}

	count, err := svc.UnreadCount(f.Tenant.ID, f.User.ID, false)
	if err != nil {
		t.Fatalf("UnreadCount: %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0 for outbound and internal activity", count)
	}
}

func TestMarkReadIdempotent(t *testing.T) {
	db := newTestDB(t)
	f := seedFixture(t, db)
	svc := newUnreadService(db)
	readRepo := repo.NewReadStatusRepository(db)

	if err := svc.MarkRead(f.Tenant.ID, f.User.ID, f.Inquiry.ID, false); err != nil {
		t.Fatalf("first MarkRead: %v", err)
	}
	first, err := readRepo.Get(f.User.ID, f.Inquiry.ID)
	if err != nil {
		t.Fatalf("get watermark: %v", err)
	}

	time.Sleep(10 * time.Millisecond)
	if err := svc.MarkRead(f.Tenant.ID, f.User.ID, f.Inquiry.ID, false); err != nil {
		t.Fatalf("second MarkRead: %v", err)
	}

	var rows int64
	db.Model(&models.InquiryReadStatus{}).
		Where("user_id = ? AND inquiry_id = ?", f.User.ID, f.Inquiry.ID).
		Count(&rows)
	if rows != 1 {
		t.Fatalf("watermark rows = %d, want 1", rows)
	}

	second, err := readRepo.Get(f.User.ID, f.Inquiry.ID)
	if err != nil {
		t.Fatalf("get watermark again: %v", err)
	}
	if !second.LastReadAt.After(first.LastReadAt) {
		t.Error("second mark read did not advance the watermark")
	}
}

func TestMarkReadUnknownInquiry(t *testing.T) {
	db := newTestDB(t)
	f := seedFixture(t, db)
	svc := newUnreadService(db)

	err := svc.MarkRead(f.Tenant.ID, f.User.ID, uuid.New(), false)
	if !IsNotFound(err) {
		t.Errorf("err = %v, want not found", err)
	}
}

func TestAssignedInquiryHiddenFromOthers(t *testing.T) {
	db := newTestDB(t)
	f := seedFixture(t, db)
	svc := newUnreadService(db)
	other := f.newUser(t, db, models.RoleTenantUser)

	f.addInboundActivity(t, db, models.ActivityTypeInquiry, time.Time{})

	// Unassigned: visible to everyone
	for _, u := range []models.User{f.User, other} {
		count, _ := svc.UnreadCount(f.Tenant.ID, u.ID, false)
		if count != 1 {
			t.Errorf("unassigned inquiry: count for %s = %d, want 1", u.Email, count)
		}
	}

	// Assign to f.User: hidden from other, still visible to assignee and admins
	if err := db.Model(&models.Inquiry{}).Where("id = ?", f.Inquiry.ID).Update("assigned_user_id", f.User.ID).Error; err != nil {
		t.Fatalf("assign: %v", err)
	}

	count, _ := svc.UnreadCount(f.Tenant.ID, f.User.ID, false)
	if count != 1 {
		t.Errorf("assignee count = %d, want 1", count)
	}
	count, _ = svc.UnreadCount(f.Tenant.ID, other.ID, false)
	if count != 0 {
		t.Errorf("non-assignee count = %d, want 0", count)
	}
	count, _ = svc.UnreadCount(f.Tenant.ID, other.ID, true)
	if count != 1 {
		t.Errorf("admin count = %d, want 1", count)
	}

	// The non-assignee cannot mark it read either
	if err := svc.MarkRead(f.Tenant.ID, other.ID, f.Inquiry.ID, false); !IsAuthorization(err) {
		t.Errorf("err = %v, want authorization error", err)
	}
	if err := svc.MarkRead(f.Tenant.ID, other.ID, f.Inquiry.ID, true); err != nil {
		t.Errorf("admin MarkRead: %v", err)
	}
}

func TestWatermarksArePerUser(t *testing.T) {
	db := newTestDB(t)
	f := seedFixture(t, db)
	svc := newUnreadService(db)
	other := f.newUser(t, db, models.RoleTenantUser)

	f.addInboundActivity(t, db, models.ActivityTypeLineMessage, time.Time{})

	if err := svc.MarkRead(f.Tenant.ID, f.User.ID, f.Inquiry.ID, false); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}

	count, _ := svc.UnreadCount(f.Tenant.ID, f.User.ID, false)
	if count != 0 {
		t.Errorf("reader count = %d, want 0", count)
	}
	count, _ = svc.UnreadCount(f.Tenant.ID, other.ID, false)
	if count != 1 {
		t.Errorf("other user count = %d, want 1", count)
	}
}

func TestListUnreadOrderingAndFields(t *testing.T) {
	db := newTestDB(t)
	f := seedFixture(t, db)
	svc := newUnreadService(db)

	// A second inquiry for the same customer with an older inbound activity
	older := models.Inquiry{CustomerID: f.Customer.ID, Status: models.InquiryStatusActive}
	older.TenantID = f.Tenant.ID
	if err := db.Create(&older).Error; err != nil {
		t.Fatalf("seed second inquiry: %v", err)
	}
	olderActivity := models.CustomerActivity{
		CustomerID:   f.Customer.ID,
		InquiryID:    older.ID,
		ActivityType: models.ActivityTypeEmail,
		Direction:    models.DirectionInbound,
		Subject:      "older question",
	}
	olderActivity.TenantID = f.Tenant.ID
	if err := db.Create(&olderActivity).Error; err != nil {
		t.Fatalf("seed older activity: %v", err)
	}
	db.Model(&models.CustomerActivity{}).Where("id = ?", olderActivity.ID).Update("created_at", time.Now().Add(-time.Hour))

	f.addInboundActivity(t, db, models.ActivityTypeInquiry, time.Time{})

	entries, err := svc.ListUnread(f.Tenant.ID, f.User.ID, false)
	if err != nil {
		t.Fatalf("ListUnread: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].InquiryID != f.Inquiry.ID {
		t.Error("newest unread activity not first")
	}
	if entries[0].CustomerName != f.Customer.Name {
		t.Errorf("customer name = %q, want %q", entries[0].CustomerName, f.Customer.Name)
	}
	if entries[0].Elapsed == "" {
		t.Error("elapsed not computed")
	}
	if entries[1].Preview != "older question" {
		t.Errorf("preview = %q, want subject of latest inbound activity", entries[1].Preview)
	}
}

func TestMarkAllReadSkipsInvisible(t *testing.T) {
	db := newTestDB(t)
	f := seedFixture(t, db)
	svc := newUnreadService(db)
	owner := f.newUser(t, db, models.RoleTenantUser)
	other := f.newUser(t, db, models.RoleTenantUser)

	assigned := models.Inquiry{CustomerID: f.Customer.ID, Status: models.InquiryStatusActive, AssignedUserID: &owner.ID}
	assigned.TenantID = f.Tenant.ID
	if err := db.Create(&assigned).Error; err != nil {
		t.Fatalf("seed assigned inquiry: %v", err)
	}

	marked, err := svc.MarkAllRead(f.Tenant.ID, other.ID, []uuid.UUID{f.Inquiry.ID, assigned.ID}, false)
	if err != nil {
		t.Fatalf("MarkAllRead: %v", err)
	}
	if marked != 1 {
		t.Errorf("marked = %d, want 1 (assigned inquiry skipped)", marked)
	}

	var rows int64
	db.Model(&models.InquiryReadStatus{}).Where("user_id = ?", other.ID).Count(&rows)
	if rows != 1 {
		t.Errorf("watermark rows = %d, want 1", rows)
	}
}

func TestMarkAllReadEmpty(t *testing.T) {
	db := newTestDB(t)
	f := seedFixture(t, db)
	svc := newUnreadService(db)

	marked, err := svc.MarkAllRead(f.Tenant.ID, f.User.ID, nil, false)
	if err != nil {
		t.Fatalf("MarkAllRead: %v", err)
	}
	if marked != 0 {
		t.Errorf("marked = %d, want 0", marked)
	}
}

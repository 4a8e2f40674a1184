package services

import (
	"testing"
	"time"

	"chintai/pkg/models"

	"github.com/google/uuid"
)

func TestChangeDealStatusLogsActivity(t *testing.T) {
	db := newTestDB(t)
	f := seedFixture(t, db)
	svc := NewPipelineService(db)
	pi := f.newPropertyInquiry(t, db, f.Room.ID)

	updated, err := svc.ChangeDealStatus(f.Tenant.ID, pi.ID, models.DealStatusContacting, "", &f.User.ID)
	if err != nil {
		t.Fatalf("ChangeDealStatus: %v", err)
	}
	if updated.DealStatus != models.DealStatusContacting {
		t.Errorf("deal status = %q, want %q", updated.DealStatus, models.DealStatusContacting)
	}
	if updated.DealStatusChangedAt == nil {
		t.Error("DealStatusChangedAt not set")
	}

	var activities []models.CustomerActivity
	if err := db.Where("property_inquiry_id = ? AND activity_type = ?", pi.ID, models.ActivityTypeStatusChange).Find(&activities).Error; err != nil {
		t.Fatalf("load activities: %v", err)
	}
	if len(activities) != 1 {
		t.Fatalf("status_change activities = %d, want 1", len(activities))
	}
	a := activities[0]
	if a.Direction != models.DirectionInternal {
		t.Errorf("direction = %q, want internal", a.Direction)
	}
	if a.UserID == nil || *a.UserID != f.User.ID {
		t.Error("activity actor not recorded")
	}
	want := "Deal status changed: New Inquiry → Contacting"
	if a.Subject != want {
		t.Errorf("subject = %q, want %q", a.Subject, want)
	}
}

func TestChangeDealStatusSameStatusStillLogged(t *testing.T) {
	db := newTestDB(t)
	f := seedFixture(t, db)
	svc := NewPipelineService(db)
	pi := f.newPropertyInquiry(t, db, f.Room.ID)

	if _, err := svc.ChangeDealStatus(f.Tenant.ID, pi.ID, models.DealStatusNewInquiry, "", &f.User.ID); err != nil {
		t.Fatalf("ChangeDealStatus: %v", err)
	}

	var count int64
	db.Model(&models.CustomerActivity{}).Where("property_inquiry_id = ? AND activity_type = ?", pi.ID, models.ActivityTypeStatusChange).Count(&count)
	if count != 1 {
		t.Errorf("status_change activities = %d, want 1", count)
	}
}

func TestChangeDealStatusRejectsUnknownStatus(t *testing.T) {
	db := newTestDB(t)
	f := seedFixture(t, db)
	svc := NewPipelineService(db)
	pi := f.newPropertyInquiry(t, db, f.Room.ID)

	_, err := svc.ChangeDealStatus(f.Tenant.ID, pi.ID, "negotiating", "", nil)
	if !IsValidation(err) {
		t.Errorf("err = %v, want validation error", err)
	}

	var count int64
	db.Model(&models.CustomerActivity{}).Where("inquiry_id = ?", f.Inquiry.ID).Count(&count)
	if count != 0 {
		t.Errorf("activities after rejected change = %d, want 0", count)
	}
}

func TestChangeDealStatusUnknownPropertyInquiry(t *testing.T) {
	db := newTestDB(t)
	f := seedFixture(t, db)
	svc := NewPipelineService(db)

	_, err := svc.ChangeDealStatus(f.Tenant.ID, uuid.New(), models.DealStatusContacting, "", nil)
	if !IsNotFound(err) {
		t.Errorf("err = %v, want not found", err)
	}
}

func TestLostReasonSetAndCleared(t *testing.T) {
	db := newTestDB(t)
	f := seedFixture(t, db)
	svc := NewPipelineService(db)
	pi := f.newPropertyInquiry(t, db, f.Room.ID)

	updated, err := svc.ChangeDealStatus(f.Tenant.ID, pi.ID, models.DealStatusLost, "chose another property", &f.User.ID)
	if err != nil {
		t.Fatalf("lose: %v", err)
	}
	if updated.LostReason != "chose another property" {
		t.Errorf("lost reason = %q", updated.LostReason)
	}

	var a models.CustomerActivity
	if err := db.Where("property_inquiry_id = ?", pi.ID).Order("created_at DESC").First(&a).Error; err != nil {
		t.Fatalf("load activity: %v", err)
	}
	if a.Body != "Lost reason: chose another property" {
		t.Errorf("activity body = %q", a.Body)
	}

	// Reviving the deal clears the stale reason
	updated, err = svc.ChangeDealStatus(f.Tenant.ID, pi.ID, models.DealStatusContacting, "", &f.User.ID)
	if err != nil {
		t.Fatalf("revive: %v", err)
	}
	if updated.LostReason != "" {
		t.Errorf("lost reason after revive = %q, want empty", updated.LostReason)
	}
}

func TestReconcileClosesWhenAllChildrenTerminal(t *testing.T) {
	db := newTestDB(t)
	f := seedFixture(t, db)
	svc := NewPipelineService(db)
	roomB := f.newRoom(t, db, "Residence B 202")
	p1 := f.newPropertyInquiry(t, db, f.Room.ID)
	p2 := f.newPropertyInquiry(t, db, roomB.ID)

	// One terminal child among two keeps the inquiry active
	if _, err := svc.ChangeDealStatus(f.Tenant.ID, p1.ID, models.DealStatusLost, "no response", nil); err != nil {
		t.Fatalf("lose p1: %v", err)
	}
	if got := reloadInquiry(t, db, f.Inquiry.ID).Status; got != models.InquiryStatusActive {
		t.Errorf("inquiry status = %q, want active", got)
	}

	if _, err := svc.ChangeDealStatus(f.Tenant.ID, p2.ID, models.DealStatusContracted, "", nil); err != nil {
		t.Fatalf("contract p2: %v", err)
	}
	if got := reloadInquiry(t, db, f.Inquiry.ID).Status; got != models.InquiryStatusClosed {
		t.Errorf("inquiry status = %q, want closed", got)
	}

	// Reconciliation never writes activities of its own
	var count int64
	db.Model(&models.CustomerActivity{}).Where("inquiry_id = ?", f.Inquiry.ID).Count(&count)
	if count != 2 {
		t.Errorf("activities = %d, want exactly the 2 deal status changes", count)
	}
}

func TestCreatePropertyInquiryReopensClosedInquiry(t *testing.T) {
	db := newTestDB(t)
	f := seedFixture(t, db)
	svc := NewPipelineService(db)
	p1 := f.newPropertyInquiry(t, db, f.Room.ID)

	if _, err := svc.ChangeDealStatus(f.Tenant.ID, p1.ID, models.DealStatusLost, "", nil); err != nil {
		t.Fatalf("lose p1: %v", err)
	}
	if got := reloadInquiry(t, db, f.Inquiry.ID).Status; got != models.InquiryStatusClosed {
		t.Fatalf("inquiry status = %q, want closed", got)
	}

	roomB := f.newRoom(t, db, "Residence B 305")
	_, err := svc.CreatePropertyInquiry(f.Tenant.ID, CreatePropertyInquiryInput{
		InquiryID:  f.Inquiry.ID,
		CustomerID: f.Customer.ID,
		RoomID:     roomB.ID,
	})
	if err != nil {
		t.Fatalf("CreatePropertyInquiry: %v", err)
	}

	if got := reloadInquiry(t, db, f.Inquiry.ID).Status; got != models.InquiryStatusActive {
		t.Errorf("inquiry status = %q, want active after new child", got)
	}
}

func TestOnHoldSuspendsReconciliation(t *testing.T) {
	db := newTestDB(t)
	f := seedFixture(t, db)
	svc := NewPipelineService(db)
	pi := f.newPropertyInquiry(t, db, f.Room.ID)

	if _, err := svc.ChangeInquiryStatus(f.Tenant.ID, f.Inquiry.ID, models.InquiryStatusOnHold, &f.User.ID); err != nil {
		t.Fatalf("hold: %v", err)
	}

	// All children go terminal, but the hold pins the status
	if _, err := svc.ChangeDealStatus(f.Tenant.ID, pi.ID, models.DealStatusLost, "", nil); err != nil {
		t.Fatalf("lose: %v", err)
	}
	if got := reloadInquiry(t, db, f.Inquiry.ID).Status; got != models.InquiryStatusOnHold {
		t.Errorf("inquiry status = %q, want on_hold", got)
	}

	// Releasing the hold re-derives immediately
	inquiry, err := svc.ChangeInquiryStatus(f.Tenant.ID, f.Inquiry.ID, models.InquiryStatusActive, &f.User.ID)
	if err != nil {
		t.Fatalf("release: %v", err)
	}
	if inquiry.Status != models.InquiryStatusClosed {
		t.Errorf("inquiry status after release = %q, want closed", inquiry.Status)
	}
}

func TestChangeInquiryStatusRejectsUnknown(t *testing.T) {
	db := newTestDB(t)
	f := seedFixture(t, db)
	svc := NewPipelineService(db)

	if _, err := svc.ChangeInquiryStatus(f.Tenant.ID, f.Inquiry.ID, "paused", nil); !IsValidation(err) {
		t.Errorf("err = %v, want validation error", err)
	}
}

func TestAssigneePropagationFirstWriterWins(t *testing.T) {
	db := newTestDB(t)
	f := seedFixture(t, db)
	svc := NewPipelineService(db)
	second := f.newUser(t, db, models.RoleTenantUser)
	roomB := f.newRoom(t, db, "Residence B 401")
	p1 := f.newPropertyInquiry(t, db, f.Room.ID)
	p2 := f.newPropertyInquiry(t, db, roomB.ID)

	if _, err := svc.AssignPropertyInquiry(f.Tenant.ID, p1.ID, f.User.ID, nil); err != nil {
		t.Fatalf("assign p1: %v", err)
	}
	inquiry := reloadInquiry(t, db, f.Inquiry.ID)
	if inquiry.AssignedUserID == nil || *inquiry.AssignedUserID != f.User.ID {
		t.Fatal("first assignment did not propagate to inquiry")
	}

	// A second property's assignee never overwrites the inquiry owner
	if _, err := svc.AssignPropertyInquiry(f.Tenant.ID, p2.ID, second.ID, nil); err != nil {
		t.Fatalf("assign p2: %v", err)
	}
	inquiry = reloadInquiry(t, db, f.Inquiry.ID)
	if inquiry.AssignedUserID == nil || *inquiry.AssignedUserID != f.User.ID {
		t.Error("second assignment overwrote inquiry owner")
	}

	var gotP2 models.PropertyInquiry
	if err := db.First(&gotP2, "id = ?", p2.ID).Error; err != nil {
		t.Fatalf("reload p2: %v", err)
	}
	if gotP2.AssignedUserID == nil || *gotP2.AssignedUserID != second.ID {
		t.Error("property-level assignee not updated")
	}
}

func TestAssignPropertyInquiryLogsActivity(t *testing.T) {
	db := newTestDB(t)
	f := seedFixture(t, db)
	svc := NewPipelineService(db)
	pi := f.newPropertyInquiry(t, db, f.Room.ID)

	if _, err := svc.AssignPropertyInquiry(f.Tenant.ID, pi.ID, f.User.ID, &f.User.ID); err != nil {
		t.Fatalf("assign: %v", err)
	}

	var count int64
	db.Model(&models.CustomerActivity{}).
		Where("property_inquiry_id = ? AND activity_type = ?", pi.ID, models.ActivityTypeAssignedUserChange).
		Count(&count)
	if count != 1 {
		t.Errorf("assigned_user_change activities = %d, want 1", count)
	}
}

func TestSetInquiryAssigneeOverwrites(t *testing.T) {
	db := newTestDB(t)
	f := seedFixture(t, db)
	svc := NewPipelineService(db)
	second := f.newUser(t, db, models.RoleTenantUser)

	if _, err := svc.SetInquiryAssignee(f.Tenant.ID, f.Inquiry.ID, f.User.ID); err != nil {
		t.Fatalf("first set: %v", err)
	}
	inquiry, err := svc.SetInquiryAssignee(f.Tenant.ID, f.Inquiry.ID, second.ID)
	if err != nil {
		t.Fatalf("second set: %v", err)
	}
	if inquiry.AssignedUserID == nil || *inquiry.AssignedUserID != second.ID {
		t.Error("explicit reassignment did not overwrite")
	}
}

func TestCrossTenantIsolation(t *testing.T) {
	db := newTestDB(t)
	f := seedFixture(t, db)
	other := seedFixture(t, db)
	svc := NewPipelineService(db)
	pi := f.newPropertyInquiry(t, db, f.Room.ID)

	// Another tenant's ID must never reach this property inquiry
	if _, err := svc.ChangeDealStatus(other.Tenant.ID, pi.ID, models.DealStatusContacting, "", nil); !IsNotFound(err) {
		t.Errorf("err = %v, want not found for foreign tenant", err)
	}
}

func TestDealStatusChangedAtAdvances(t *testing.T) {
	db := newTestDB(t)
	f := seedFixture(t, db)
	svc := NewPipelineService(db)
	pi := f.newPropertyInquiry(t, db, f.Room.ID)

	before := time.Now().Add(-time.Minute)
	if err := db.Model(&models.PropertyInquiry{}).Where("id = ?", pi.ID).Update("deal_status_changed_at", before).Error; err != nil {
		t.Fatalf("backdate: %v", err)
	}

	updated, err := svc.ChangeDealStatus(f.Tenant.ID, pi.ID, models.DealStatusViewingScheduled, "", nil)
	if err != nil {
		t.Fatalf("ChangeDealStatus: %v", err)
	}
	if !updated.DealStatusChangedAt.After(before) {
		t.Error("DealStatusChangedAt did not advance")
	}
}

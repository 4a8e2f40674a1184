package services

import (
	"database/sql"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"chintai/pkg/models"

	"github.com/google/uuid"
	sqlitedriver "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

var testDBSeq int64

// newTestDB opens a fresh in-memory database with the full schema.
// Each call gets its own shared-cache name so parallel tests do not
// collide. The pinned connection keeps the memory database alive for
// the lifetime of the test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:services_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	db, err := gorm.Open(sqlitedriver.Dialector{DriverName: "sqlite", DSN: dsn, Conn: conn}, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open gorm: %v", err)
	}

	if err := db.AutoMigrate(models.GetAllModels()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// fixture is the minimal tenant world most service tests need
type fixture struct {
	Tenant   models.Tenant
	User     models.User
	Customer models.Customer
	Room     models.Room
	Inquiry  models.Inquiry
}

func seedFixture(t *testing.T, db *gorm.DB) *fixture {
	t.Helper()

	f := &fixture{}
	f.Tenant = models.Tenant{Name: "Sakura Estate", Status: "active", MaxUsers: 10}
	if err := db.Create(&f.Tenant).Error; err != nil {
		t.Fatalf("seed tenant: %v", err)
	}

	f.User = models.User{
		TenantID: &f.Tenant.ID,
		Email:    fmt.Sprintf("agent-%s@example.com", uuid.NewString()[:8]),
		Password: "x",
		Name:     "Agent",
		Role:     models.RoleTenantUser,
		IsActive: true,
	}
	if err := db.Create(&f.User).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}

	f.Customer = models.Customer{
		Name:     "Tanaka Taro",
		Email:    "tanaka@example.com",
		Phone:    "090-0000-0000",
		IsActive: true,
	}
	f.Customer.TenantID = f.Tenant.ID
	if err := db.Create(&f.Customer).Error; err != nil {
		t.Fatalf("seed customer: %v", err)
	}

	f.Room = models.Room{Name: "Residence A 101", Rent: 85000, IsActive: true}
	f.Room.TenantID = f.Tenant.ID
	if err := db.Create(&f.Room).Error; err != nil {
		t.Fatalf("seed room: %v", err)
	}

	f.Inquiry = models.Inquiry{
		CustomerID: f.Customer.ID,
		Status:     models.InquiryStatusActive,
	}
	f.Inquiry.TenantID = f.Tenant.ID
	if err := db.Create(&f.Inquiry).Error; err != nil {
		t.Fatalf("seed inquiry: %v", err)
	}
	return f
}

func (f *fixture) newUser(t *testing.T, db *gorm.DB, role string) models.User {
	t.Helper()
	u := models.User{
		TenantID: &f.Tenant.ID,
		Email:    fmt.Sprintf("user-%s@example.com", uuid.NewString()[:8]),
		Password: "x",
		Name:     "Staff",
		Role:     role,
		IsActive: true,
	}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("seed extra user: %v", err)
	}
	return u
}

func (f *fixture) newRoom(t *testing.T, db *gorm.DB, name string) models.Room {
	t.Helper()
	r := models.Room{Name: name, Rent: 90000, IsActive: true}
	r.TenantID = f.Tenant.ID
	if err := db.Create(&r).Error; err != nil {
		t.Fatalf("seed extra room: %v", err)
	}
	return r
}

func (f *fixture) newPropertyInquiry(t *testing.T, db *gorm.DB, roomID uuid.UUID) models.PropertyInquiry {
	t.Helper()
	now := time.Now()
	pi := models.PropertyInquiry{
		InquiryID:           f.Inquiry.ID,
		CustomerID:          f.Customer.ID,
		RoomID:              roomID,
		DealStatus:          models.DealStatusNewInquiry,
		Priority:            models.PriorityNormal,
		DealStatusChangedAt: &now,
	}
	pi.TenantID = f.Tenant.ID
	if err := db.Create(&pi).Error; err != nil {
		t.Fatalf("seed property inquiry: %v", err)
	}
	return pi
}

func (f *fixture) addInboundActivity(t *testing.T, db *gorm.DB, activityType string, createdAt time.Time) models.CustomerActivity {
	t.Helper()
	a := models.CustomerActivity{
		CustomerID:   f.Customer.ID,
		InquiryID:    f.Inquiry.ID,
		ActivityType: activityType,
		Direction:    models.DirectionInbound,
		Subject:      "hello",
	}
	a.TenantID = f.Tenant.ID
	if err := db.Create(&a).Error; err != nil {
		t.Fatalf("seed activity: %v", err)
	}
	if !createdAt.IsZero() {
		if err := db.Model(&models.CustomerActivity{}).Where("id = ?", a.ID).Update("created_at", createdAt).Error; err != nil {
			t.Fatalf("backdate activity: %v", err)
		}
		a.CreatedAt = createdAt
	}
	return a
}

func reloadInquiry(t *testing.T, db *gorm.DB, id uuid.UUID) models.Inquiry {
	t.Helper()
	var inquiry models.Inquiry
	if err := db.First(&inquiry, "id = ?", id).Error; err != nil {
		t.Fatalf("reload inquiry: %v", err)
	}
	return inquiry
}

package handlers

import (
	"database/sql"
	"fmt"
	"sync/atomic"
	"testing"

	"chintai/pkg/models"

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

	dsn := fmt.Sprintf("file:handlers_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
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

// handlerFixture is the tenant world the handler tests operate on: one
// agent, one customer, one inquiry carrying a single inbound email.
type handlerFixture struct {
	Tenant   models.Tenant
	User     models.User
	Customer models.Customer
	Inquiry  models.Inquiry
}

func seedHandlerFixture(t *testing.T, db *gorm.DB) *handlerFixture {
	t.Helper()

	f := &handlerFixture{}
	f.Tenant = models.Tenant{Name: "Sakura Estate", Status: "active", MaxUsers: 10}
	if err := db.Create(&f.Tenant).Error; err != nil {
		t.Fatalf("seed tenant: %v", err)
	}

	f.User = models.User{
		TenantID: &f.Tenant.ID,
		Email:    "agent@example.com",
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

	f.Inquiry = models.Inquiry{
		CustomerID: f.Customer.ID,
		Status:     models.InquiryStatusActive,
	}
	f.Inquiry.TenantID = f.Tenant.ID
	if err := db.Create(&f.Inquiry).Error; err != nil {
		t.Fatalf("seed inquiry: %v", err)
	}

	activity := models.CustomerActivity{
		CustomerID:   f.Customer.ID,
		InquiryID:    f.Inquiry.ID,
		ActivityType: models.ActivityTypeEmail,
		Direction:    models.DirectionInbound,
		Subject:      "hello",
	}
	activity.TenantID = f.Tenant.ID
	if err := db.Create(&activity).Error; err != nil {
		t.Fatalf("seed activity: %v", err)
	}
	return f
}

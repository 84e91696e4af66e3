package seed

import (
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/example/stroymat/internal/config"
	"github.com/example/stroymat/internal/database"
	"github.com/example/stroymat/internal/models"
)

func setupSeedDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestLoadDemoData(t *testing.T) {
	db := setupSeedDB(t)

	if err := LoadDemoData(db); err != nil {
		t.Fatalf("LoadDemoData() error = %v", err)
	}

	var orders []models.Order
	if err := db.Preload("Items").Find(&orders).Error; err != nil {
		t.Fatalf("load orders: %v", err)
	}
	if len(orders) == 0 {
		t.Fatal("no orders seeded")
	}
	for _, o := range orders {
		if !o.Status.Valid() {
			t.Errorf("order %s has unknown status %q", o.Number, o.Status)
		}
		var want float64
		for _, item := range o.Items {
			want += item.LineTotal()
		}
		if o.Total != want {
			t.Errorf("order %s total = %v, want derived %v", o.Number, o.Total, want)
		}
		if o.Status == models.OrderStatusDelivered && o.DeliveredAt == nil {
			t.Errorf("delivered order %s has no DeliveredAt", o.Number)
		}
	}

	var invoices []models.Invoice
	if err := db.Preload("Items").Find(&invoices).Error; err != nil {
		t.Fatalf("load invoices: %v", err)
	}
	if len(invoices) == 0 {
		t.Fatal("no invoices seeded")
	}
	for _, inv := range invoices {
		if inv.PaidPercent < 0 || inv.PaidPercent > 100 {
			t.Errorf("invoice %s paid percent %d out of range", inv.Number, inv.PaidPercent)
		}
		if inv.Total != inv.Subtotal+inv.Tax {
			t.Errorf("invoice %s total %v != subtotal %v + tax %v", inv.Number, inv.Total, inv.Subtotal, inv.Tax)
		}
	}

	// Re-running on a populated database is a no-op.
	if err := LoadDemoData(db); err != nil {
		t.Fatalf("second LoadDemoData() error = %v", err)
	}
	var count int64
	if err := db.Model(&models.Order{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if int(count) != len(orders) {
		t.Errorf("order count after reseed = %d, want %d", count, len(orders))
	}
}

func TestEnsureAdmin(t *testing.T) {
	db := setupSeedDB(t)
	cfg := &config.Config{AdminEmail: "admin@test.local", AdminPassword: "seed-admin-pass"}

	if err := EnsureAdmin(db, cfg); err != nil {
		t.Fatalf("EnsureAdmin() error = %v", err)
	}

	var admin models.User
	if err := db.First(&admin, "email = ?", cfg.AdminEmail).Error; err != nil {
		t.Fatalf("admin not created: %v", err)
	}
	if admin.Role != models.RoleAdmin {
		t.Errorf("role = %s, want admin", admin.Role)
	}

	// Idempotent.
	if err := EnsureAdmin(db, cfg); err != nil {
		t.Fatalf("second EnsureAdmin() error = %v", err)
	}
	var count int64
	db.Model(&models.User{}).Count(&count)
	if count != 1 {
		t.Errorf("user count = %d, want 1", count)
	}
}

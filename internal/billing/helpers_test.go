package billing

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/everton-web/BPay/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}
	return db
}

func money(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad amount %q: %v", s, err)
	}
	return d
}

func createStudent(t *testing.T, db *gorm.DB, name, fee string, dueDay int, status models.StudentStatus) models.Student {
	t.Helper()
	s := models.Student{
		Name:       name,
		Email:      name + "@example.com",
		Phone:      "(71) 99999-0000",
		CampusID:   "00000000-0000-0000-0000-000000000001",
		CampusName: "Bonfim",
		MonthlyFee: money(t, fee),
		DueDay:     dueDay,
		Status:     status,
	}
	if err := db.Create(&s).Error; err != nil {
		t.Fatalf("creating student %s: %v", name, err)
	}
	return s
}

func createCharge(t *testing.T, db *gorm.DB, studentID string, dueDate time.Time, status models.ChargeStatus) models.Charge {
	t.Helper()
	c := models.Charge{
		StudentID:      studentID,
		StudentName:    "fixture",
		CampusName:     "Bonfim",
		Amount:         money(t, "500.00"),
		DueDate:        dueDate,
		Status:         status,
		PixQrCode:      "qr",
		PixCopyPaste:   "qr",
		PixPaymentLink: "link",
	}
	if err := db.Create(&c).Error; err != nil {
		t.Fatalf("creating charge for %s: %v", studentID, err)
	}
	return c
}

func countCharges(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&models.Charge{}).Count(&n).Error; err != nil {
		t.Fatalf("counting charges: %v", err)
	}
	return n
}

func lastLog(t *testing.T, db *gorm.DB) models.ChargeGenerationLog {
	t.Helper()
	var entry models.ChargeGenerationLog
	if err := db.Order("executed_at DESC").First(&entry).Error; err != nil {
		t.Fatalf("loading last generation log: %v", err)
	}
	return entry
}

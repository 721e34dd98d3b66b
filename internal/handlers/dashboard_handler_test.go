package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/everton-web/BPay/models"
)

func payCharge(t *testing.T, db *gorm.DB, id string, amount string, when time.Time) {
	t.Helper()
	paid := decimal.RequireFromString(amount)
	err := db.Model(&models.Charge{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":      models.ChargePaid,
		"paid_amount": paid,
		"paid_at":     when,
	}).Error
	if err != nil {
		t.Fatalf("paying charge %s: %v", id, err)
	}
}

func TestDashboardMetrics(t *testing.T) {
	db, app := newTestApp(t)
	now := time.Now()

	paid := seedCharge(t, db, models.ChargePending, "899.00", time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local))
	payCharge(t, db, paid.ID, "850.00", now)

	seedCharge(t, db, models.ChargePending, "450.00", now.AddDate(0, 1, 0))
	overdue := models.Charge{
		StudentID:      "22222222-2222-2222-2222-222222222222",
		StudentName:    "Pedro Henrique Lima",
		CampusName:     "Villas do Atlântico",
		Amount:         decimal.RequireFromString("1099.00"),
		DueDate:        now.AddDate(0, -1, 0),
		Status:         models.ChargeOverdue,
		PixQrCode:      "qr",
		PixCopyPaste:   "qr",
		PixPaymentLink: "link",
	}
	if err := db.Create(&overdue).Error; err != nil {
		t.Fatalf("seeding overdue charge: %v", err)
	}

	w := doJSON(t, app, http.MethodGet, "/api/dashboard/metrics", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	m := decodeBody[models.DashboardMetrics](t, w)

	if !m.TotalBilled.Equal(decimal.RequireFromString("2448.00")) {
		t.Errorf("totalBilled = %s, want 2448.00", m.TotalBilled)
	}
	if !m.TotalReceived.Equal(decimal.RequireFromString("850.00")) {
		t.Errorf("totalReceived = %s, want 850.00 (paid amount beats face value)", m.TotalReceived)
	}
	if !m.TotalPending.Equal(decimal.RequireFromString("450.00")) {
		t.Errorf("totalPending = %s, want 450.00", m.TotalPending)
	}
	if !m.TotalOverdue.Equal(decimal.RequireFromString("1099.00")) {
		t.Errorf("totalOverdue = %s, want 1099.00", m.TotalOverdue)
	}
	if m.PaymentsToday != 1 {
		t.Errorf("paymentsToday = %d, want 1", m.PaymentsToday)
	}
	if m.DefaultRate.Paid != 1 || m.DefaultRate.Pending != 1 || m.DefaultRate.Overdue != 1 {
		t.Errorf("defaultRate = %+v, want 1/1/1", m.DefaultRate)
	}
	if len(m.DailyReceipts) != 30 {
		t.Fatalf("dailyReceipts has %d points, want 30", len(m.DailyReceipts))
	}
	today := m.DailyReceipts[len(m.DailyReceipts)-1]
	if today.Date != now.Format("2006-01-02") {
		t.Errorf("last point = %s, want today", today.Date)
	}
	if !today.Amount.Equal(decimal.RequireFromString("850.00")) {
		t.Errorf("today's receipts = %s, want 850.00", today.Amount)
	}
}

func TestDashboardMetricsCampusScope(t *testing.T) {
	db, app := newTestApp(t)
	now := time.Now()

	bonfim := seedCharge(t, db, models.ChargePending, "899.00", now)
	payCharge(t, db, bonfim.ID, "899.00", now)

	other := models.Charge{
		StudentID:      "22222222-2222-2222-2222-222222222222",
		StudentName:    "Pedro Henrique Lima",
		CampusName:     "Villas do Atlântico",
		Amount:         decimal.RequireFromString("1099.00"),
		DueDate:        now,
		Status:         models.ChargePending,
		PixQrCode:      "qr",
		PixCopyPaste:   "qr",
		PixPaymentLink: "link",
	}
	if err := db.Create(&other).Error; err != nil {
		t.Fatalf("seeding charge: %v", err)
	}

	w := doJSON(t, app, http.MethodGet, "/api/dashboard/metrics?campusName=Bonfim", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	m := decodeBody[models.DashboardMetrics](t, w)
	if !m.TotalBilled.Equal(decimal.RequireFromString("899.00")) {
		t.Errorf("totalBilled = %s, want 899.00 (scoped to Bonfim)", m.TotalBilled)
	}
	if m.DefaultRate.Pending != 0 {
		t.Errorf("pending count = %d, want 0 for Bonfim", m.DefaultRate.Pending)
	}
}

func TestMonthlyReceipts(t *testing.T) {
	db, app := newTestApp(t)
	now := time.Now()

	first := seedCharge(t, db, models.ChargePending, "500.00", now)
	payCharge(t, db, first.ID, "500.00", now)
	second := models.Charge{
		StudentID:      "22222222-2222-2222-2222-222222222222",
		StudentName:    "Pedro Henrique Lima",
		CampusName:     "Bonfim",
		Amount:         decimal.RequireFromString("300.00"),
		DueDate:        now,
		Status:         models.ChargePending,
		PixQrCode:      "qr",
		PixCopyPaste:   "qr",
		PixPaymentLink: "link",
	}
	if err := db.Create(&second).Error; err != nil {
		t.Fatalf("seeding charge: %v", err)
	}
	payCharge(t, db, second.ID, "300.00", now)

	w := doJSON(t, app, http.MethodGet, "/api/dashboard/monthly-receipts", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	series := decodeBody[[]models.MonthlyReceipt](t, w)
	if len(series) != 12 {
		t.Fatalf("series has %d points, want 12", len(series))
	}

	current := series[len(series)-1]
	if current.Month != now.Format("2006-01") {
		t.Errorf("last point = %s, want current month", current.Month)
	}
	if !current.Total.Equal(decimal.RequireFromString("800.00")) {
		t.Errorf("current month total = %s, want 800.00", current.Total)
	}
	if current.Count != 2 {
		t.Errorf("current month count = %d, want 2", current.Count)
	}

	oldest := series[0]
	if !oldest.Total.IsZero() || oldest.Count != 0 {
		t.Errorf("empty month should be zero-filled, got %+v", oldest)
	}
}

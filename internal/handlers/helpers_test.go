package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/everton-web/BPay/internal/billing"
	"github.com/everton-web/BPay/internal/routes"
	"github.com/everton-web/BPay/models"
)

func newTestApp(t *testing.T) (*gorm.DB, http.Handler) {
	t.Helper()
	gin.SetMode(gin.TestMode)

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

	r := gin.New()
	routes.RegisterAPIRoutes(r, db, nil, billing.NewService(db))
	return db, r
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decoding response %s: %v", w.Body.String(), err)
	}
	return out
}

func seedCharge(t *testing.T, db *gorm.DB, status models.ChargeStatus, amount string, dueDate time.Time) models.Charge {
	t.Helper()
	c := models.Charge{
		StudentID:      "11111111-1111-1111-1111-111111111111",
		StudentName:    "Ana Clara Souza",
		CampusName:     "Bonfim",
		Amount:         decimal.RequireFromString(amount),
		DueDate:        dueDate,
		Status:         status,
		PixQrCode:      "qr",
		PixCopyPaste:   "qr",
		PixPaymentLink: "link",
	}
	if err := db.Create(&c).Error; err != nil {
		t.Fatalf("seeding charge: %v", err)
	}
	return c
}

package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/everton-web/BPay/models"
)

const dashboardCacheTTL = 60 * time.Second

// DashboardHandler serves the receivables metrics. RDB may be nil, in which
// case every request recomputes from the database.
type DashboardHandler struct {
	DB  *gorm.DB
	RDB *redis.Client
}

func NewDashboardHandler(db *gorm.DB, rdb *redis.Client) *DashboardHandler {
	return &DashboardHandler{DB: db, RDB: rdb}
}

func (h *DashboardHandler) Metrics(c *gin.Context) {
	campus := c.Query("campusName")
	cacheKey := "dashboard:metrics:" + campus

	if h.RDB != nil {
		if cached, err := h.RDB.Get(c.Request.Context(), cacheKey).Result(); err == nil {
			var metrics models.DashboardMetrics
			if json.Unmarshal([]byte(cached), &metrics) == nil {
				c.JSON(http.StatusOK, metrics)
				return
			}
		}
	}

	metrics, err := h.computeMetrics(c.Request.Context(), campus)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute dashboard metrics"})
		return
	}

	if h.RDB != nil {
		if payload, err := json.Marshal(metrics); err == nil {
			if err := h.RDB.Set(c.Request.Context(), cacheKey, payload, dashboardCacheTTL).Err(); err != nil {
				slog.Warn("failed to cache dashboard metrics", "error", err)
			}
		}
	}

	c.JSON(http.StatusOK, metrics)
}

// charges returns a fresh charge query, optionally scoped to one campus.
// Each aggregation below calls it so the goroutines never share a statement.
func (h *DashboardHandler) charges(ctx context.Context, campus string) *gorm.DB {
	q := h.DB.WithContext(ctx).Model(&models.Charge{})
	if campus != "" {
		q = q.Where("campus_name = ?", campus)
	}
	return q
}

// computeMetrics issues the independent aggregations concurrently; they are
// read-only and commute, so ordering does not matter.
func (h *DashboardHandler) computeMetrics(ctx context.Context, campus string) (*models.DashboardMetrics, error) {
	var (
		metrics  models.DashboardMetrics
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	run := func(fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		}()
	}

	run(func() error {
		return h.charges(ctx, campus).
			Select("COALESCE(SUM(amount), 0)").
			Row().Scan(&metrics.TotalBilled)
	})
	run(func() error {
		return h.charges(ctx, campus).
			Where("status = ?", models.ChargePaid).
			Select("COALESCE(SUM(COALESCE(paid_amount, amount)), 0)").
			Row().Scan(&metrics.TotalReceived)
	})
	run(func() error {
		return h.charges(ctx, campus).
			Where("status = ?", models.ChargePending).
			Select("COALESCE(SUM(amount), 0)").
			Row().Scan(&metrics.TotalPending)
	})
	run(func() error {
		return h.charges(ctx, campus).
			Where("status = ?", models.ChargeOverdue).
			Select("COALESCE(SUM(amount), 0)").
			Row().Scan(&metrics.TotalOverdue)
	})
	run(func() error {
		now := time.Now()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
		return h.charges(ctx, campus).
			Where("paid_at >= ? AND paid_at < ?", today, today.AddDate(0, 0, 1)).
			Count(&metrics.PaymentsToday).Error
	})
	run(func() error {
		receipts, err := h.dailyReceipts(ctx, campus)
		if err != nil {
			return err
		}
		metrics.DailyReceipts = receipts
		return nil
	})
	run(func() error {
		type statusCount struct {
			Status models.ChargeStatus
			Count  int64
		}
		counts := []statusCount{}
		if err := h.charges(ctx, campus).
			Select("status, COUNT(*) AS count").
			Group("status").
			Scan(&counts).Error; err != nil {
			return err
		}
		for _, row := range counts {
			switch row.Status {
			case models.ChargePaid:
				metrics.DefaultRate.Paid = row.Count
			case models.ChargeOverdue:
				metrics.DefaultRate.Overdue = row.Count
			case models.ChargePending:
				metrics.DefaultRate.Pending = row.Count
			}
		}
		return nil
	})

	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}
	return &metrics, nil
}

// paidRow is the slim projection used by the receipt series; grouping
// happens in Go so the query stays portable between Postgres and the SQLite
// used in tests.
type paidRow struct {
	PaidAt     *time.Time
	Amount     decimal.Decimal
	PaidAmount *decimal.Decimal
}

func (r paidRow) received() decimal.Decimal {
	if r.PaidAmount != nil {
		return *r.PaidAmount
	}
	return r.Amount
}

// dailyReceipts returns the paid totals of the last 30 days, zero-filled.
func (h *DashboardHandler) dailyReceipts(ctx context.Context, campus string) ([]models.DailyReceipt, error) {
	now := time.Now()
	cutoff := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local).AddDate(0, 0, -29)

	rows := []paidRow{}
	if err := h.charges(ctx, campus).
		Select("paid_at, amount, paid_amount").
		Where("status = ? AND paid_at >= ?", models.ChargePaid, cutoff).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	totals := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		if row.PaidAt == nil {
			continue
		}
		day := row.PaidAt.Format("2006-01-02")
		totals[day] = totals[day].Add(row.received())
	}

	receipts := make([]models.DailyReceipt, 0, 30)
	for i := 29; i >= 0; i-- {
		day := now.AddDate(0, 0, -i).Format("2006-01-02")
		receipts = append(receipts, models.DailyReceipt{Date: day, Amount: totals[day]})
	}
	return receipts, nil
}

// MonthlyReceipts returns the paid totals of the last 12 months, zero-filled.
func (h *DashboardHandler) MonthlyReceipts(c *gin.Context) {
	campus := c.Query("campusName")
	now := time.Now()
	cutoff := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local).AddDate(0, -11, 0)

	rows := []paidRow{}
	if err := h.charges(c.Request.Context(), campus).
		Select("paid_at, amount, paid_amount").
		Where("status = ? AND paid_at >= ?", models.ChargePaid, cutoff).
		Scan(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch monthly receipts"})
		return
	}

	type monthTotal struct {
		total decimal.Decimal
		count int64
	}
	totals := make(map[string]monthTotal, len(rows))
	for _, row := range rows {
		if row.PaidAt == nil {
			continue
		}
		month := row.PaidAt.Format("2006-01")
		entry := totals[month]
		entry.total = entry.total.Add(row.received())
		entry.count++
		totals[month] = entry
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local)
	receipts := make([]models.MonthlyReceipt, 0, 12)
	for i := 11; i >= 0; i-- {
		month := monthStart.AddDate(0, -i, 0).Format("2006-01")
		entry := totals[month]
		receipts = append(receipts, models.MonthlyReceipt{Month: month, Total: entry.total, Count: entry.count})
	}
	c.JSON(http.StatusOK, receipts)
}

package models

import "github.com/shopspring/decimal"

// DailyReceipt is one point of the 30-day receipts series.
type DailyReceipt struct {
	Date   string          `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

// StatusBreakdown carries the charge counts behind the default-rate widget.
type StatusBreakdown struct {
	Paid    int64 `json:"paid"`
	Overdue int64 `json:"overdue"`
	Pending int64 `json:"pending"`
}

// DashboardMetrics aggregates the receivables numbers shown on the admin
// dashboard, optionally scoped to a single campus.
type DashboardMetrics struct {
	TotalBilled   decimal.Decimal `json:"totalBilled"`
	TotalReceived decimal.Decimal `json:"totalReceived"`
	TotalPending  decimal.Decimal `json:"totalPending"`
	TotalOverdue  decimal.Decimal `json:"totalOverdue"`
	PaymentsToday int64           `json:"paymentsToday"`
	DailyReceipts []DailyReceipt  `json:"dailyReceipts"`
	DefaultRate   StatusBreakdown `json:"defaultRate"`
}

// MonthlyReceipt is one point of the 12-month receipts series.
type MonthlyReceipt struct {
	Month string          `json:"month"`
	Total decimal.Decimal `json:"total"`
	Count int64           `json:"count"`
}

package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/everton-web/BPay/models"
)

var chargeExportHeaders = []string{"ID", "Estudante", "Sede", "Valor", "Vencimento", "Status", "Pago em", "Valor Pago"}

var chargeStatusLabels = map[models.ChargeStatus]string{
	models.ChargePaid:      "Pago",
	models.ChargePending:   "Em Aberto",
	models.ChargeOverdue:   "Atrasado",
	models.ChargeCancelled: "Cancelado",
}

// Export streams the filtered charge list as an attachment. format=xlsx
// produces a spreadsheet; anything else falls back to CSV.
func (h *ChargeHandler) Export(c *gin.Context) {
	charges := []models.Charge{}
	q, err := chargeFilters(c, h.DB.Model(&models.Charge{}))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := q.Order("due_date").Find(&charges).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch charges for export"})
		return
	}

	if c.Query("format") == "xlsx" {
		h.exportXLSX(c, charges)
		return
	}
	h.exportCSV(c, charges)
}

func chargeExportRow(charge models.Charge) []string {
	paidAt := "-"
	if charge.PaidAt != nil {
		paidAt = charge.PaidAt.Format("02/01/2006")
	}
	paidAmount := "-"
	if charge.PaidAmount != nil {
		paidAmount = charge.PaidAmount.StringFixed(2)
	}
	return []string{
		charge.ID,
		charge.StudentName,
		charge.CampusName,
		charge.Amount.StringFixed(2),
		charge.DueDate.Format("02/01/2006"),
		chargeStatusLabels[charge.Status],
		paidAt,
		paidAmount,
	}
}

func (h *ChargeHandler) exportCSV(c *gin.Context, charges []models.Charge) {
	fileName := fmt.Sprintf("charges_%s.csv", time.Now().Format("20060102_150405"))
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename="+fileName)

	w := csv.NewWriter(c.Writer)
	_ = w.Write(chargeExportHeaders)
	for _, charge := range charges {
		_ = w.Write(chargeExportRow(charge))
	}
	w.Flush()
	if err := w.Error(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to write CSV"})
	}
}

func (h *ChargeHandler) exportXLSX(c *gin.Context, charges []models.Charge) {
	f := excelize.NewFile()
	sheetName := "Cobranças"
	index, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for i, header := range chargeExportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}
	for rowIdx, charge := range charges {
		for colIdx, value := range chargeExportRow(charge) {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	fileName := fmt.Sprintf("charges_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to write Excel file"})
	}
}

package handlers

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/everton-web/BPay/models"
)

type SettingsHandler struct {
	DB *gorm.DB
}

func NewSettingsHandler(db *gorm.DB) *SettingsHandler {
	return &SettingsHandler{DB: db}
}

// Get returns all settings as a flat map, plus the integration status flags
// derived from the environment. The gateway and mailer themselves are
// external collaborators; only their configured/not-configured state is
// surfaced here.
func (h *SettingsHandler) Get(c *gin.Context) {
	rows := []models.SystemSetting{}
	if err := h.DB.Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch settings"})
		return
	}

	settings := make(map[string]string, len(rows)+2)
	for _, row := range rows {
		settings[row.Key] = row.Value
	}

	settings["mercado_pago_status"] = "inactive"
	if os.Getenv("MERCADO_PAGO_ACCESS_TOKEN") != "" {
		settings["mercado_pago_status"] = "active"
	}
	settings["resend_status"] = "inactive"
	if os.Getenv("RESEND_API_KEY") != "" {
		settings["resend_status"] = "active"
	}

	c.JSON(http.StatusOK, settings)
}

type updateSettingsRequest struct {
	Settings []struct {
		Key   string `json:"key" binding:"required"`
		Value string `json:"value"`
	} `json:"settings" binding:"required,dive"`
}

// Update upserts each submitted key. Idempotent per key.
func (h *SettingsHandler) Update(c *gin.Context) {
	var req updateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation error", "details": err.Error()})
		return
	}

	updated := make([]models.SystemSetting, 0, len(req.Settings))
	for _, s := range req.Settings {
		setting := models.SystemSetting{Key: s.Key, Value: s.Value}
		err := h.DB.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&setting).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update settings"})
			return
		}
		updated = append(updated, setting)
	}

	c.JSON(http.StatusOK, updated)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/everton-web/BPay/models"
)

type CampusHandler struct {
	DB *gorm.DB
}

func NewCampusHandler(db *gorm.DB) *CampusHandler {
	return &CampusHandler{DB: db}
}

func (h *CampusHandler) List(c *gin.Context) {
	campuses := []models.Campus{}
	if err := h.DB.Order("name").Find(&campuses).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch campuses"})
		return
	}
	c.JSON(http.StatusOK, campuses)
}

type createCampusRequest struct {
	Name         string `json:"name" binding:"required"`
	City         string `json:"city" binding:"required"`
	Neighborhood string `json:"neighborhood" binding:"required"`
}

func (h *CampusHandler) Create(c *gin.Context) {
	var req createCampusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation error", "details": err.Error()})
		return
	}

	campus := models.Campus{
		Name:         req.Name,
		City:         req.City,
		Neighborhood: req.Neighborhood,
	}
	if err := h.DB.Create(&campus).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create campus"})
		return
	}
	c.JSON(http.StatusCreated, campus)
}

package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/everton-web/BPay/models"
)

type GuardianHandler struct {
	DB *gorm.DB
}

func NewGuardianHandler(db *gorm.DB) *GuardianHandler {
	return &GuardianHandler{DB: db}
}

func (h *GuardianHandler) List(c *gin.Context) {
	guardians := []models.Guardian{}
	if err := h.DB.Order("name").Find(&guardians).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch guardians"})
		return
	}
	c.JSON(http.StatusOK, guardians)
}

func (h *GuardianHandler) Get(c *gin.Context) {
	var guardian models.Guardian
	if err := h.DB.First(&guardian, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "guardian not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch guardian"})
		return
	}
	c.JSON(http.StatusOK, guardian)
}

type createGuardianRequest struct {
	Name  string `json:"name" binding:"required"`
	CPF   string `json:"cpf" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone" binding:"required,min=10"`
}

func (h *GuardianHandler) Create(c *gin.Context) {
	var req createGuardianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation error", "details": err.Error()})
		return
	}
	if !models.ValidCPF(req.CPF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid CPF"})
		return
	}

	guardian := models.Guardian{
		Name:  req.Name,
		CPF:   models.NormalizeCPF(req.CPF),
		Email: req.Email,
		Phone: req.Phone,
	}
	if err := h.DB.Create(&guardian).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create guardian"})
		return
	}
	c.JSON(http.StatusCreated, guardian)
}

type updateGuardianRequest struct {
	Name  *string `json:"name"`
	CPF   *string `json:"cpf"`
	Email *string `json:"email" binding:"omitempty,email"`
	Phone *string `json:"phone" binding:"omitempty,min=10"`
}

func (h *GuardianHandler) Update(c *gin.Context) {
	var req updateGuardianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation error", "details": err.Error()})
		return
	}
	if req.Name == nil && req.CPF == nil && req.Email == nil && req.Phone == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one field must be provided"})
		return
	}

	var guardian models.Guardian
	if err := h.DB.First(&guardian, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "guardian not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch guardian"})
		return
	}

	if req.Name != nil {
		guardian.Name = *req.Name
	}
	if req.CPF != nil {
		if !models.ValidCPF(*req.CPF) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid CPF"})
			return
		}
		guardian.CPF = models.NormalizeCPF(*req.CPF)
	}
	if req.Email != nil {
		guardian.Email = *req.Email
	}
	if req.Phone != nil {
		guardian.Phone = *req.Phone
	}

	if err := h.DB.Save(&guardian).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update guardian"})
		return
	}
	c.JSON(http.StatusOK, guardian)
}

// Delete removes a guardian and its student links in one transaction.
func (h *GuardianHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	var deleted int64

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("guardian_id = ?", id).Delete(&models.StudentGuardian{}).Error; err != nil {
			return fmt.Errorf("deleting guardian links: %w", err)
		}
		res := tx.Where("id = ?", id).Delete(&models.Guardian{})
		if res.Error != nil {
			return fmt.Errorf("deleting guardian: %w", res.Error)
		}
		deleted = res.RowsAffected
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete guardian"})
		return
	}
	if deleted == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "guardian not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// StudentsOf lists the students linked to one guardian.
func (h *GuardianHandler) StudentsOf(c *gin.Context) {
	type studentWithRelationship struct {
		models.Student
		Relationship   string `json:"relationship"`
		RelationshipID string `json:"relationshipId"`
	}

	results := []studentWithRelationship{}
	err := h.DB.Table("student_guardians").
		Select("students.*, student_guardians.relationship, student_guardians.id AS relationship_id").
		Joins("INNER JOIN students ON students.id = student_guardians.student_id").
		Where("student_guardians.guardian_id = ?", c.Param("id")).
		Scan(&results).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch guardian students"})
		return
	}
	c.JSON(http.StatusOK, results)
}

type associateRequest struct {
	StudentID    string `json:"studentId" binding:"required,uuid"`
	GuardianID   string `json:"guardianId" binding:"required,uuid"`
	Relationship string `json:"relationship" binding:"required"`
}

// Associate links a student to a guardian; duplicate pairs are rejected.
func (h *GuardianHandler) Associate(c *gin.Context) {
	var req associateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation error", "details": err.Error()})
		return
	}

	var count int64
	if err := h.DB.Model(&models.StudentGuardian{}).
		Where("student_id = ? AND guardian_id = ?", req.StudentID, req.GuardianID).
		Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check relationship"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "relationship already exists"})
		return
	}

	link := models.StudentGuardian{
		StudentID:    req.StudentID,
		GuardianID:   req.GuardianID,
		Relationship: req.Relationship,
	}
	if err := h.DB.Create(&link).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create relationship"})
		return
	}
	c.JSON(http.StatusCreated, link)
}

func (h *GuardianHandler) Dissociate(c *gin.Context) {
	res := h.DB.Where("id = ?", c.Param("id")).Delete(&models.StudentGuardian{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete relationship"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "relationship not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

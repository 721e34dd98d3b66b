package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/everton-web/BPay/models"
)

type StudentHandler struct {
	DB *gorm.DB
}

func NewStudentHandler(db *gorm.DB) *StudentHandler {
	return &StudentHandler{DB: db}
}

// List returns students ordered by name. Paginated by default; pass
// ?all=true to fetch everything in one response.
func (h *StudentHandler) List(c *gin.Context) {
	students := []models.Student{}

	if c.Query("all") == "true" {
		if err := h.DB.Order("name").Find(&students).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch students"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": students})
		return
	}

	var totalRows int64
	if err := h.DB.Model(&models.Student{}).Count(&totalRows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count students"})
		return
	}
	if err := h.DB.Scopes(paginate(c)).Order("name").Find(&students).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch students"})
		return
	}

	c.JSON(http.StatusOK, newPaginatedResponse(c, students, totalRows))
}

type guardianPayload struct {
	Name         string `json:"name" binding:"required"`
	Relationship string `json:"relationship" binding:"required"`
	CPF          string `json:"cpf" binding:"required"`
	Phone        string `json:"phone" binding:"required,min=10"`
	Email        string `json:"email" binding:"required,email"`
}

type createStudentRequest struct {
	Name       string           `json:"name" binding:"required"`
	Email      string           `json:"email" binding:"required,email"`
	Phone      string           `json:"phone" binding:"required,min=10"`
	CampusID   string           `json:"campusId" binding:"required,uuid"`
	CampusName string           `json:"campusName" binding:"required"`
	MonthlyFee string           `json:"monthlyFee" binding:"required"`
	DueDay     int              `json:"dueDay" binding:"required,min=1,max=31"`
	Status     string           `json:"status" binding:"omitempty,oneof=active inactive"`
	Guardian   *guardianPayload `json:"guardian"`
}

// Create inserts a student and, when an inline guardian is supplied, links
// it - reusing an existing guardian row when the CPF is already known.
func (h *StudentHandler) Create(c *gin.Context) {
	var req createStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation error", "details": err.Error()})
		return
	}

	fee, err := parseMoney(req.MonthlyFee)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "monthly fee must be a decimal value like 450.00"})
		return
	}

	var guardianCPF string
	if req.Guardian != nil {
		guardianCPF = models.NormalizeCPF(req.Guardian.CPF)
		if len(guardianCPF) != 11 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "guardian CPF must have 11 digits"})
			return
		}
	}

	student := models.Student{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		CampusID:   req.CampusID,
		CampusName: req.CampusName,
		MonthlyFee: fee,
		DueDay:     req.DueDay,
		Status:     models.StudentStatus(req.Status),
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&student).Error; err != nil {
			return fmt.Errorf("creating student: %w", err)
		}
		if req.Guardian == nil {
			return nil
		}

		var guardian models.Guardian
		err := tx.Where("cpf = ?", guardianCPF).First(&guardian).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			guardian = models.Guardian{
				Name:  req.Guardian.Name,
				CPF:   guardianCPF,
				Email: req.Guardian.Email,
				Phone: req.Guardian.Phone,
			}
			if err := tx.Create(&guardian).Error; err != nil {
				return fmt.Errorf("creating guardian: %w", err)
			}
		} else if err != nil {
			return fmt.Errorf("looking up guardian by CPF: %w", err)
		}

		link := models.StudentGuardian{
			StudentID:    student.ID,
			GuardianID:   guardian.ID,
			Relationship: req.Guardian.Relationship,
		}
		if err := tx.Create(&link).Error; err != nil {
			return fmt.Errorf("linking guardian: %w", err)
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create student"})
		return
	}

	c.JSON(http.StatusCreated, student)
}

type updateStudentRequest struct {
	Name       *string `json:"name"`
	Email      *string `json:"email" binding:"omitempty,email"`
	Phone      *string `json:"phone" binding:"omitempty,min=10"`
	CampusID   *string `json:"campusId" binding:"omitempty,uuid"`
	CampusName *string `json:"campusName"`
	MonthlyFee *string `json:"monthlyFee"`
	DueDay     *int    `json:"dueDay" binding:"omitempty,min=1,max=31"`
	Status     *string `json:"status" binding:"omitempty,oneof=active inactive"`
}

// Update applies a partial update. CampusID and CampusName must change
// together so the denormalized name never drifts from the reference.
func (h *StudentHandler) Update(c *gin.Context) {
	var req updateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation error", "details": err.Error()})
		return
	}
	if (req.CampusID == nil) != (req.CampusName == nil) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "campusId and campusName must be updated together"})
		return
	}

	var student models.Student
	if err := h.DB.First(&student, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "student not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch student"})
		return
	}

	if req.Name != nil {
		student.Name = *req.Name
	}
	if req.Email != nil {
		student.Email = *req.Email
	}
	if req.Phone != nil {
		student.Phone = *req.Phone
	}
	if req.CampusID != nil {
		student.CampusID = *req.CampusID
		student.CampusName = *req.CampusName
	}
	if req.MonthlyFee != nil {
		fee, err := parseMoney(*req.MonthlyFee)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "monthly fee must be a decimal value like 450.00"})
			return
		}
		student.MonthlyFee = fee
	}
	if req.DueDay != nil {
		student.DueDay = *req.DueDay
	}
	if req.Status != nil {
		student.Status = models.StudentStatus(*req.Status)
	}

	if err := h.DB.Save(&student).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update student"})
		return
	}
	c.JSON(http.StatusOK, student)
}

type bulkDeleteRequest struct {
	IDs []string `json:"ids" binding:"required"`
}

// BulkDelete removes students together with their charges and guardian
// links. Charges are never deleted individually, only through this cascade.
func (h *StudentHandler) BulkDelete(c *gin.Context) {
	var req bulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation error", "details": err.Error()})
		return
	}
	if len(req.IDs) == 0 {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "no students to delete"})
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("student_id IN ?", req.IDs).Delete(&models.Charge{}).Error; err != nil {
			return fmt.Errorf("deleting charges: %w", err)
		}
		if err := tx.Where("student_id IN ?", req.IDs).Delete(&models.StudentGuardian{}).Error; err != nil {
			return fmt.Errorf("deleting guardian links: %w", err)
		}
		if err := tx.Where("id IN ?", req.IDs).Delete(&models.Student{}).Error; err != nil {
			return fmt.Errorf("deleting students: %w", err)
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete students"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "students deleted"})
}

// GuardiansOf lists the guardians linked to one student, with the
// relationship label of each link.
func (h *StudentHandler) GuardiansOf(c *gin.Context) {
	type guardianWithRelationship struct {
		models.Guardian
		Relationship   string `json:"relationship"`
		RelationshipID string `json:"relationshipId"`
	}

	results := []guardianWithRelationship{}
	err := h.DB.Table("student_guardians").
		Select("guardians.*, student_guardians.relationship, student_guardians.id AS relationship_id").
		Joins("INNER JOIN guardians ON guardians.id = student_guardians.guardian_id").
		Where("student_guardians.student_id = ?", c.Param("id")).
		Scan(&results).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch student guardians"})
		return
	}
	c.JSON(http.StatusOK, results)
}

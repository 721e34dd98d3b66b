package models

import (
	"regexp"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Guardian is a parent or legal guardian. CPF is stored digits-only and must
// pass the checksum validation below.
type Guardian struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	CPF       string    `json:"cpf" gorm:"not null;unique"`
	Email     string    `json:"email" gorm:"not null"`
	Phone     string    `json:"phone" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`
}

func (g *Guardian) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}

// StudentGuardian links a student to a guardian (N:N) with the relationship
// label ("mãe", "pai", ...).
type StudentGuardian struct {
	ID           string    `json:"id" gorm:"type:uuid;primaryKey"`
	StudentID    string    `json:"studentId" gorm:"type:uuid;not null;index"`
	GuardianID   string    `json:"guardianId" gorm:"type:uuid;not null;index"`
	Relationship string    `json:"relationship" gorm:"not null"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (sg *StudentGuardian) BeforeCreate(tx *gorm.DB) error {
	if sg.ID == "" {
		sg.ID = uuid.NewString()
	}
	return nil
}

var nonDigits = regexp.MustCompile(`\D`)

// NormalizeCPF strips everything but digits.
func NormalizeCPF(cpf string) string {
	return nonDigits.ReplaceAllString(cpf, "")
}

// ValidCPF checks the two CPF verification digits. Repeated-digit sequences
// ("11111111111") are rejected even though their checksum holds.
func ValidCPF(cpf string) bool {
	clean := NormalizeCPF(cpf)
	if len(clean) != 11 {
		return false
	}
	repeated := true
	for i := 1; i < 11; i++ {
		if clean[i] != clean[0] {
			repeated = false
			break
		}
	}
	if repeated {
		return false
	}

	digit := func(upto int) int {
		sum := 0
		for i := 0; i < upto; i++ {
			sum += int(clean[i]-'0') * (upto + 1 - i)
		}
		rest := (sum * 10) % 11
		if rest == 10 {
			rest = 0
		}
		return rest
	}

	return digit(9) == int(clean[9]-'0') && digit(10) == int(clean[10]-'0')
}

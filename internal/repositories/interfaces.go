package repositories

import (
	"context"

	"github.com/SAP-F-2025/finance-dashboard/internal/models"
)

// ===== SHARED PATCH STRUCTS =====

// StudentPatch carries the fields an edit may change. Nil fields are left untouched.
// NIS is accepted so callers can forward raw form values, but it is never applied.
type StudentPatch struct {
	NIS                *string                  `json:"nis"`
	Name               *string                  `json:"name"`
	Email              *string                  `json:"email"`
	ClassName          *string                  `json:"kelas"`
	PaymentStatus      *models.PaymentStatus    `json:"status_spp"`
	OutstandingBalance *int64                   `json:"tunggakan"`
	EnrollmentStatus   *models.EnrollmentStatus `json:"status"`
	AvatarURL          *string                  `json:"avatar"`
}

// Apply merges the patch over s. The identifier is kept as is, and a record
// that ends up paid has its balance cleared.
func (p StudentPatch) Apply(s *models.Student) {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Email != nil {
		s.Email = *p.Email
	}
	if p.ClassName != nil {
		s.ClassName = *p.ClassName
	}
	if p.PaymentStatus != nil {
		s.PaymentStatus = *p.PaymentStatus
	}
	if p.OutstandingBalance != nil {
		s.OutstandingBalance = *p.OutstandingBalance
	}
	if p.EnrollmentStatus != nil {
		s.EnrollmentStatus = *p.EnrollmentStatus
	}
	if p.AvatarURL != nil {
		s.AvatarURL = *p.AvatarURL
	}
	s.Normalize()
}

// ===== REPOSITORY INTERFACES =====

// StudentRepository is the roster store. Returned records are copies.
type StudentRepository interface {
	GetByNIS(ctx context.Context, nis string) (*models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, nis string, patch StudentPatch) (*models.Student, error)
	Delete(ctx context.Context, nis string) error

	// List returns all students in insertion order.
	List(ctx context.Context) ([]models.Student, error)
	Count(ctx context.Context) (int, error)
}

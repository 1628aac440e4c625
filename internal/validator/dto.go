package validator

// StudentCreateRequest is the add student form. New students can only be active or inactive.
type StudentCreateRequest struct {
	NIS              string `json:"nis" form:"nis" validate:"required,nis"`
	Name             string `json:"name" form:"name" validate:"required,not_blank,max=100"`
	Email            string `json:"email" form:"email" validate:"required,email,max=255"`
	ClassName        string `json:"kelas" form:"kelas" validate:"required,class_code"`
	EnrollmentStatus string `json:"status" form:"status" validate:"required,oneof=aktif tidak-aktif"`
}

// StudentUpdateRequest is the edit student form. Nil fields are left unchanged.
// NIS may be echoed back by the form but is ignored.
type StudentUpdateRequest struct {
	NIS                *string `json:"nis" form:"nis"`
	Name               *string `json:"name" form:"name" validate:"omitempty,not_blank,max=100"`
	Email              *string `json:"email" form:"email" validate:"omitempty,email,max=255"`
	ClassName          *string `json:"kelas" form:"kelas" validate:"omitempty,class_code"`
	EnrollmentStatus   *string `json:"status" form:"status" validate:"omitempty,enrollment_status"`
	PaymentStatus      *string `json:"status_spp" form:"status_spp" validate:"omitempty,payment_status"`
	OutstandingBalance *int64  `json:"tunggakan" form:"tunggakan" validate:"omitempty,min=0"`
}

// ProfileUpdateRequest is the admin profile form
type ProfileUpdateRequest struct {
	FullName string `json:"full_name" validate:"required,not_blank,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Phone    string `json:"phone" validate:"omitempty,numeric,min=8,max=15"`
}

// ImportFileRequest describes the file picked in the import dialog
type ImportFileRequest struct {
	FileName string `json:"file_name" validate:"required"`
	Size     int64  `json:"size" validate:"gt=0"`
}

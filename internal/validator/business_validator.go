package validator

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/SAP-F-2025/finance-dashboard/internal/models"
)

var nisRegex = regexp.MustCompile(`^[0-9]{4,20}$`)

// ImportExtensions are the spreadsheet types the import dialog accepts.
var ImportExtensions = []string{".xlsx", ".xls"}

// BusinessValidator handles business rule validation
type BusinessValidator struct {
	v *Validator
}

func newBusinessValidator(v *Validator) *BusinessValidator {
	return &BusinessValidator{v: v}
}

// Validate validates business rules for any struct
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	return bv.v.Validate(s)
}

// ValidateStudentCreate validates the add student form
func (bv *BusinessValidator) ValidateStudentCreate(req *StudentCreateRequest) ValidationErrors {
	return bv.Validate(req)
}

// ValidateStudentUpdate validates the edit student form against the payment
// status the record currently has.
func (bv *BusinessValidator) ValidateStudentUpdate(req *StudentUpdateRequest, current models.PaymentStatus) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)

	// A paid record has no balance, so a positive one is only accepted when
	// the record ends up owing.
	resulting := current
	if req.PaymentStatus != nil {
		resulting = models.PaymentStatus(*req.PaymentStatus)
	}
	if resulting == models.PaymentPaid && req.OutstandingBalance != nil && *req.OutstandingBalance > 0 {
		errors = append(errors, ValidationError{
			Field:   "tunggakan",
			Message: "tunggakan harus 0 untuk siswa dengan status SPP lunas",
			Value:   *req.OutstandingBalance,
			Rule:    "paid_balance",
		})
	}

	return errors
}

// ValidateImportFile checks the picked file before the import starts
func (bv *BusinessValidator) ValidateImportFile(req *ImportFileRequest, maxBytes int64) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)
	if len(errors) > 0 {
		return errors
	}

	ext := strings.ToLower(filepath.Ext(req.FileName))
	allowed := false
	for _, e := range ImportExtensions {
		if ext == e {
			allowed = true
			break
		}
	}
	if !allowed {
		errors = append(errors, ValidationError{
			Field:   "file",
			Message: "file harus berformat Excel (.xlsx atau .xls)",
			Value:   req.FileName,
			Rule:    "file_type",
		})
	}

	if maxBytes > 0 && req.Size > maxBytes {
		errors = append(errors, ValidationError{
			Field:   "file",
			Message: fmt.Sprintf("ukuran file maksimal %dMB", maxBytes/(1024*1024)),
			Value:   req.Size,
			Rule:    "file_size",
		})
	}

	return errors
}

// registerBusinessRules registers custom business rule validators
func (bv *BusinessValidator) registerBusinessRules() {
	validate := bv.v.validate

	// Student number: digits only
	_ = validate.RegisterValidation("nis", func(fl validator.FieldLevel) bool {
		return nisRegex.MatchString(fl.Field().String())
	})
	bv.v.registerTranslation("nis", "{0} harus berupa 4 sampai 20 digit angka")

	_ = validate.RegisterValidation("class_code", func(fl validator.FieldLevel) bool {
		return models.IsValidClassCode(fl.Field().String())
	})
	bv.v.registerTranslation("class_code", "{0} harus salah satu dari "+strings.Join(models.ClassCodes, ", "))

	_ = validate.RegisterValidation("enrollment_status", func(fl validator.FieldLevel) bool {
		return models.EnrollmentStatus(fl.Field().String()).IsValid()
	})
	bv.v.registerTranslation("enrollment_status", "{0} harus aktif, tidak-aktif atau lulus")

	_ = validate.RegisterValidation("payment_status", func(fl validator.FieldLevel) bool {
		return models.PaymentStatus(fl.Field().String()).IsValid()
	})
	bv.v.registerTranslation("payment_status", "{0} harus lunas atau tunggakan")

	// Names must contain something other than whitespace
	_ = validate.RegisterValidation("not_blank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	bv.v.registerTranslation("not_blank", "{0} wajib diisi")
}

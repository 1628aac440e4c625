package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/SAP-F-2025/finance-dashboard/internal/models"
	"github.com/SAP-F-2025/finance-dashboard/internal/utils"
	"github.com/SAP-F-2025/finance-dashboard/internal/validator"
)

const (
	labelCancel = "Batal"
	labelClose  = "Tutup"
)

var importInstructions = []string{
	"Upload file Excel (.xlsx atau .xls) yang berisi data siswa.",
	"Kolom A: NIS",
	"Kolom B: Nama Lengkap",
	"Kolom C: Email",
	"Kolom D: Kelas",
	"Kolom E: Status",
	"Maksimal 5MB",
}

// modalService keeps at most one modal open. Each open gets a fresh handle.
type modalService struct {
	students      StudentService
	tasks         TaskService
	notifications NotificationService
	logger        *slog.Logger

	mu     sync.Mutex
	active *models.ModalView
}

func NewModalService(students StudentService, tasks TaskService, notifications NotificationService, logger *slog.Logger) ModalService {
	return &modalService{
		students:      students,
		tasks:         tasks,
		notifications: notifications,
		logger:        logger,
	}
}

func (s *modalService) Open(ctx context.Context, kind models.ModalKind, nis string) (*models.ModalView, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidModalKind, kind)
	}

	var student *models.Student
	if kind.NeedsStudent() {
		st, err := s.students.Get(ctx, nis)
		if err != nil {
			return nil, err
		}
		student = st
	}

	view := buildModalView(kind, student)
	view.Handle = uuid.NewString()

	s.mu.Lock()
	if s.active != nil {
		s.logger.Debug("Replacing open modal", "previous", s.active.Kind, "next", kind)
	}
	s.active = view
	s.mu.Unlock()

	out := *view
	return &out, nil
}

func (s *modalService) Active(ctx context.Context) (*models.ModalView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return nil, false
	}
	out := *s.active
	return &out, true
}

func (s *modalService) Close(ctx context.Context, handle string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil || s.active.Handle != handle {
		return ErrModalNotActive
	}
	s.active = nil
	return nil
}

// Submit forwards add or edit form values to the roster. On failure the
// modal stays open so the operator can correct the form.
func (s *modalService) Submit(ctx context.Context, handle string, form ModalForm) (*models.Student, error) {
	view, err := s.lookup(handle)
	if err != nil {
		return nil, err
	}

	var student *models.Student
	switch view.Kind {
	case models.ModalAddStudent:
		student, err = s.students.Create(ctx, &CreateStudentRequest{
			NIS:              form["nis"],
			Name:             form["name"],
			Email:            form["email"],
			ClassName:        form["kelas"],
			EnrollmentStatus: form["status"],
		})
	case models.ModalEditStudent:
		req, perr := editRequestFromForm(form)
		if perr != nil {
			s.notifications.Notify(ctx, fmt.Sprintf(msgInvalidForm, perr.First()), models.SeverityError)
			return nil, perr
		}
		student, err = s.students.Update(ctx, view.StudentNIS, req)
	default:
		return nil, fmt.Errorf("%w: submit on %s", ErrModalKindMismatch, view.Kind)
	}
	if err != nil {
		return nil, err
	}

	s.closeIfActive(handle)
	return student, nil
}

// Confirm accepts a delete confirmation. The modal closes whatever the outcome.
func (s *modalService) Confirm(ctx context.Context, handle string) error {
	view, err := s.lookup(handle)
	if err != nil {
		return err
	}
	if view.Kind != models.ModalDeleteStudent {
		return fmt.Errorf("%w: confirm on %s", ErrModalKindMismatch, view.Kind)
	}

	err = s.students.Delete(ctx, view.StudentNIS, true)
	s.closeIfActive(handle)
	return err
}

// StartImport begins the simulated import. The modal closes when it succeeds.
func (s *modalService) StartImport(ctx context.Context, handle string, file ImportFile) (*TaskHandle, error) {
	view, err := s.lookup(handle)
	if err != nil {
		return nil, err
	}
	if view.Kind != models.ModalImportStudents {
		return nil, fmt.Errorf("%w: import on %s", ErrModalKindMismatch, view.Kind)
	}

	return s.tasks.StartImport(ctx, file, func(status models.TaskStatus) {
		if status == models.TaskSucceeded {
			s.closeIfActive(handle)
		}
	})
}

func (s *modalService) lookup(handle string) (models.ModalView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil || s.active.Handle != handle {
		return models.ModalView{}, ErrModalNotActive
	}
	return *s.active, nil
}

func (s *modalService) closeIfActive(handle string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active != nil && s.active.Handle == handle {
		s.active = nil
	}
}

// editRequestFromForm maps posted edit values to an update request. Absent
// keys leave the field unchanged.
func editRequestFromForm(form ModalForm) (*UpdateStudentRequest, validator.ValidationErrors) {
	req := &UpdateStudentRequest{}
	if v, ok := form["name"]; ok {
		req.Name = &v
	}
	if v, ok := form["email"]; ok {
		req.Email = &v
	}
	if v, ok := form["kelas"]; ok {
		req.ClassName = &v
	}
	if v, ok := form["status"]; ok {
		req.EnrollmentStatus = &v
	}
	if v, ok := form["status_spp"]; ok {
		req.PaymentStatus = &v
	}
	if v, ok := form["tunggakan"]; ok && strings.TrimSpace(v) != "" {
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return nil, validator.ValidationErrors{{
				Field:   "tunggakan",
				Message: "tunggakan harus berupa angka",
				Value:   v,
				Rule:    "numeric",
			}}
		}
		req.OutstandingBalance = &n
	}
	// The balance field is still on screen when the operator marks the student paid.
	if req.PaymentStatus != nil && *req.PaymentStatus == string(models.PaymentPaid) {
		req.OutstandingBalance = nil
	}
	return req, nil
}

// ===== TEMPLATES =====

func buildModalView(kind models.ModalKind, st *models.Student) *models.ModalView {
	switch kind {
	case models.ModalAddStudent:
		return &models.ModalView{
			Kind:  kind,
			Title: "Tambah Siswa Baru",
			Fields: []models.FormField{
				{Name: "nis", Label: "NIS", Type: "text", Required: true},
				{Name: "name", Label: "Nama Lengkap", Type: "text", Required: true},
				{Name: "email", Label: "Email", Type: "email", Required: true},
				{Name: "kelas", Label: "Kelas", Type: "select", Required: true, Options: classOptions("")},
				{Name: "status", Label: "Status", Type: "select", Required: true, Options: enrollmentOptions(models.EnrollmentActive, false)},
			},
			CancelLabel: labelCancel,
			SubmitLabel: "Simpan",
		}

	case models.ModalEditStudent:
		return &models.ModalView{
			Kind:       kind,
			Title:      "Edit Data Siswa",
			StudentNIS: st.NIS,
			Fields: []models.FormField{
				{Name: "nis", Label: "NIS", Type: "text", Value: st.NIS, ReadOnly: true},
				{Name: "name", Label: "Nama Lengkap", Type: "text", Value: st.Name, Required: true},
				{Name: "email", Label: "Email", Type: "email", Value: st.Email, Required: true},
				{Name: "kelas", Label: "Kelas", Type: "select", Value: st.ClassName, Required: true, Options: classOptions(st.ClassName)},
				{Name: "status", Label: "Status", Type: "select", Value: string(st.EnrollmentStatus), Required: true, Options: enrollmentOptions(st.EnrollmentStatus, true)},
				{Name: "status_spp", Label: "Status SPP", Type: "select", Value: string(st.PaymentStatus), Options: paymentOptions(st.PaymentStatus)},
				{Name: "tunggakan", Label: "Tunggakan", Type: "number", Value: strconv.FormatInt(st.OutstandingBalance, 10)},
			},
			CancelLabel: labelCancel,
			SubmitLabel: "Update",
		}

	case models.ModalViewStudent:
		return &models.ModalView{
			Kind:       kind,
			Title:      "Detail Siswa",
			StudentNIS: st.NIS,
			Details: []models.DetailRow{
				{Label: "Nama", Value: st.Name},
				{Label: "NIS", Value: st.NIS},
				{Label: "Email", Value: st.Email},
				{Label: "Kelas", Value: st.ClassName},
				{Label: "Status", Value: st.EnrollmentStatus.Label(), Badge: string(st.EnrollmentStatus)},
				{Label: "Status SPP", Value: string(st.PaymentStatus), Badge: string(st.PaymentStatus)},
				{Label: "Tunggakan", Value: utils.FormatCurrency(st.OutstandingBalance)},
			},
			CancelLabel: labelClose,
			SubmitLabel: "Edit",
		}

	case models.ModalDeleteStudent:
		return &models.ModalView{
			Kind:           kind,
			Title:          "Hapus Data Siswa",
			StudentNIS:     st.NIS,
			ConfirmMessage: fmt.Sprintf(`Apakah Anda yakin ingin menghapus data siswa "%s"?`, st.Name),
			CancelLabel:    labelCancel,
			SubmitLabel:    "Hapus",
		}

	default:
		return &models.ModalView{
			Kind:         models.ModalImportStudents,
			Title:        "Import Data Siswa",
			Instructions: append([]string(nil), importInstructions...),
			Fields: []models.FormField{
				{Name: "file", Label: "File Excel", Type: "file", Required: true},
			},
			CancelLabel: labelCancel,
			SubmitLabel: "Import",
		}
	}
}

func classOptions(selected string) []models.FieldOption {
	opts := make([]models.FieldOption, 0, len(models.ClassCodes))
	for _, c := range models.ClassCodes {
		opts = append(opts, models.FieldOption{Value: c, Label: c, Selected: c == selected})
	}
	return opts
}

// enrollmentOptions offers graduated only on the edit form.
func enrollmentOptions(selected models.EnrollmentStatus, withGraduated bool) []models.FieldOption {
	statuses := []models.EnrollmentStatus{models.EnrollmentActive, models.EnrollmentInactive}
	if withGraduated {
		statuses = append(statuses, models.EnrollmentGraduated)
	}
	opts := make([]models.FieldOption, 0, len(statuses))
	for _, st := range statuses {
		opts = append(opts, models.FieldOption{Value: string(st), Label: st.Label(), Selected: st == selected})
	}
	return opts
}

func paymentOptions(selected models.PaymentStatus) []models.FieldOption {
	return []models.FieldOption{
		{Value: string(models.PaymentPaid), Label: "Lunas", Selected: selected == models.PaymentPaid},
		{Value: string(models.PaymentOwing), Label: "Tunggakan", Selected: selected == models.PaymentOwing},
	}
}

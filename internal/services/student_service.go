package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/SAP-F-2025/finance-dashboard/internal/events"
	"github.com/SAP-F-2025/finance-dashboard/internal/models"
	"github.com/SAP-F-2025/finance-dashboard/internal/repositories"
	"github.com/SAP-F-2025/finance-dashboard/internal/utils"
	"github.com/SAP-F-2025/finance-dashboard/internal/validator"
)

// Operator messages
const (
	msgStudentCreated = "Siswa berhasil ditambahkan!"
	msgStudentUpdated = "Data siswa berhasil diperbarui!"
	msgStudentDeleted = "Data siswa berhasil dihapus!"
	msgStudentMissing = "Data siswa tidak ditemukan"
	msgDuplicateNIS   = "NIS %s sudah terdaftar"
	msgInvalidForm    = "Data tidak valid: %s"
	msgSaveFailed     = "Gagal menyimpan data siswa"
)

type studentService struct {
	repo          repositories.Repository
	validator     *validator.Validator
	notifications NotificationService
	publisher     events.EventPublisher
	selection     *SelectionTracker
	logger        *slog.Logger

	mu       sync.RWMutex
	criteria StudentCriteria
}

// NewStudentService creates the roster controller. publisher may be nil.
func NewStudentService(repo repositories.Repository, v *validator.Validator, notifications NotificationService, publisher events.EventPublisher, logger *slog.Logger) StudentService {
	return &studentService{
		repo:          repo,
		validator:     v,
		notifications: notifications,
		publisher:     publisher,
		selection:     NewSelectionTracker(),
		logger:        logger,
	}
}

func (s *studentService) Criteria() StudentCriteria {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.criteria
}

func (s *studentService) List(ctx context.Context, update CriteriaUpdate) (*models.StudentListResponse, error) {
	s.mu.Lock()
	s.criteria = s.criteria.Apply(update)
	criteria := s.criteria
	s.mu.Unlock()

	students, err := s.syncSelection(ctx)
	if err != nil {
		return nil, err
	}

	visible := FilterStudents(students, criteria)
	rows := make([]models.StudentRow, 0, len(visible))
	for _, st := range visible {
		rows = append(rows, s.toRow(st))
	}

	snap := s.selection.Snapshot()
	return &models.StudentListResponse{
		Students:       rows,
		Criteria:       criteria.Response(),
		VisibleCount:   len(rows),
		TotalCount:     len(students),
		SelectedCount:  snap.SelectedCount,
		SelectionState: snap.SelectionState,
	}, nil
}

func (s *studentService) Get(ctx context.Context, nis string) (*models.Student, error) {
	student, err := s.repo.Student().GetByNIS(ctx, nis)
	if err != nil {
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	return student, nil
}

func (s *studentService) Create(ctx context.Context, req *CreateStudentRequest) (*models.Student, error) {
	if errs := s.validator.GetBusinessValidator().ValidateStudentCreate(req); len(errs) > 0 {
		s.notifyError(ctx, fmt.Sprintf(msgInvalidForm, errs.First()))
		return nil, errs
	}

	student := &models.Student{
		NIS:                strings.TrimSpace(req.NIS),
		Name:               strings.TrimSpace(req.Name),
		Email:              strings.TrimSpace(req.Email),
		ClassName:          req.ClassName,
		PaymentStatus:      models.PaymentPaid,
		OutstandingBalance: 0,
		EnrollmentStatus:   models.EnrollmentStatus(req.EnrollmentStatus),
		AvatarURL:          models.DefaultAvatarURL,
	}

	if err := s.repo.Student().Create(ctx, student); err != nil {
		s.notifyRepoError(ctx, err, student.NIS)
		return nil, fmt.Errorf("failed to create student: %w", err)
	}

	if _, err := s.syncSelection(ctx); err != nil {
		s.logger.Warn("Failed to refresh selection", "error", err)
	}
	s.logger.Info("Student created", "nis", student.NIS, "kelas", student.ClassName)
	s.notifications.Notify(ctx, msgStudentCreated, models.SeveritySuccess)
	s.publishChange(ctx, events.StudentCreated, student)

	return student, nil
}

func (s *studentService) Update(ctx context.Context, nis string, req *UpdateStudentRequest) (*models.Student, error) {
	current, err := s.repo.Student().GetByNIS(ctx, nis)
	if err != nil {
		s.notifyRepoError(ctx, err, nis)
		return nil, fmt.Errorf("failed to update student: %w", err)
	}

	if errs := s.validator.GetBusinessValidator().ValidateStudentUpdate(req, current.PaymentStatus); len(errs) > 0 {
		s.notifyError(ctx, fmt.Sprintf(msgInvalidForm, errs.First()))
		return nil, errs
	}

	patch := toStudentPatch(req)
	updated, err := s.repo.Student().Update(ctx, nis, patch)
	if err != nil {
		s.notifyRepoError(ctx, err, nis)
		return nil, fmt.Errorf("failed to update student: %w", err)
	}

	s.logger.Info("Student updated", "nis", nis)
	s.notifications.Notify(ctx, msgStudentUpdated, models.SeveritySuccess)
	s.publishChange(ctx, events.StudentUpdated, updated)

	return updated, nil
}

func (s *studentService) Delete(ctx context.Context, nis string, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}

	if err := s.repo.Student().Delete(ctx, nis); err != nil {
		s.notifyRepoError(ctx, err, nis)
		return fmt.Errorf("failed to delete student: %w", err)
	}

	s.selection.Remove(nis)
	s.logger.Info("Student deleted", "nis", nis)
	s.notifications.Notify(ctx, msgStudentDeleted, models.SeveritySuccess)
	s.publishChange(ctx, events.StudentDeleted, map[string]string{"nis": nis})

	return nil
}

func (s *studentService) SelectVisible(ctx context.Context, checked bool) (*models.SelectionResponse, error) {
	students, err := s.syncSelection(ctx)
	if err != nil {
		return nil, err
	}

	visible := FilterStudents(students, s.Criteria())
	ids := make([]string, len(visible))
	for i, st := range visible {
		ids[i] = st.NIS
	}
	s.selection.SetMany(ids, checked)

	return s.selection.Snapshot(), nil
}

func (s *studentService) Toggle(ctx context.Context, nis string, checked bool) (*models.SelectionResponse, error) {
	if _, err := s.syncSelection(ctx); err != nil {
		return nil, err
	}
	if !s.selection.Toggle(nis, checked) {
		return nil, fmt.Errorf("failed to toggle selection: %w", repositories.NewNotFoundError("student", nis))
	}
	return s.selection.Snapshot(), nil
}

func (s *studentService) Selection(ctx context.Context) (*models.SelectionResponse, error) {
	if _, err := s.syncSelection(ctx); err != nil {
		return nil, err
	}
	return s.selection.Snapshot(), nil
}

// RejectForm reports a form that was turned away before reaching a service,
// such as a body that could not be decoded.
func RejectForm(ctx context.Context, notifications NotificationService, errs validator.ValidationErrors) {
	notifications.Notify(ctx, fmt.Sprintf(msgInvalidForm, errs.First()), models.SeverityError)
}

// ===== HELPERS =====

// syncSelection aligns the checkboxes with the current roster and returns it.
func (s *studentService) syncSelection(ctx context.Context) ([]models.Student, error) {
	students, err := s.repo.Student().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	ids := make([]string, len(students))
	for i, st := range students {
		ids[i] = st.NIS
	}
	s.selection.Sync(ids)
	return students, nil
}

func (s *studentService) toRow(st models.Student) models.StudentRow {
	return models.StudentRow{
		NIS:                st.NIS,
		Name:               st.Name,
		Email:              st.Email,
		ClassName:          st.ClassName,
		PaymentStatus:      st.PaymentStatus,
		OutstandingBalance: st.OutstandingBalance,
		BalanceDisplay:     utils.FormatCurrency(st.OutstandingBalance),
		EnrollmentStatus:   st.EnrollmentStatus,
		StatusLabel:        st.EnrollmentStatus.Label(),
		AvatarURL:          st.AvatarURL,
		Checked:            s.selection.IsChecked(st.NIS),
	}
}

func (s *studentService) notifyRepoError(ctx context.Context, err error, nis string) {
	switch {
	case repositories.IsDuplicateError(err):
		s.notifyError(ctx, fmt.Sprintf(msgDuplicateNIS, nis))
	case repositories.IsNotFoundError(err):
		s.notifyError(ctx, msgStudentMissing)
	default:
		s.logger.Error("Roster operation failed", "nis", nis, "error", err)
		s.notifyError(ctx, msgSaveFailed)
	}
}

func (s *studentService) notifyError(ctx context.Context, message string) {
	s.notifications.Notify(ctx, message, models.SeverityError)
}

func (s *studentService) publishChange(ctx context.Context, eventType string, data interface{}) {
	if s.publisher == nil {
		return
	}
	event, err := events.NewEvent(eventType, data)
	if err == nil {
		err = s.publisher.Publish(ctx, event)
	}
	if err != nil {
		s.logger.Warn("Failed to publish roster event", "type", eventType, "error", err)
	}
}

func toStudentPatch(req *UpdateStudentRequest) repositories.StudentPatch {
	patch := repositories.StudentPatch{
		Email:              trimmed(req.Email),
		Name:               trimmed(req.Name),
		ClassName:          req.ClassName,
		OutstandingBalance: req.OutstandingBalance,
	}
	if req.PaymentStatus != nil {
		ps := models.PaymentStatus(*req.PaymentStatus)
		patch.PaymentStatus = &ps
	}
	if req.EnrollmentStatus != nil {
		es := models.EnrollmentStatus(*req.EnrollmentStatus)
		patch.EnrollmentStatus = &es
	}
	return patch
}

func trimmed(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	return &v
}

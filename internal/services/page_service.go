package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/SAP-F-2025/finance-dashboard/internal/models"
)

var pageTitles = map[string]string{
	models.PageHome:     "Dashboard Keuangan",
	models.PageStudents: "Data Siswa",
	models.PageIncome:   "Data Pemasukan",
	models.PageExpense:  "Data Pengeluaran",
	models.PageReports:  "Laporan Keuangan",
	models.PageProfile:  "Profile Admin",
}

// placeholderActions are page buttons whose feature is not built yet, keyed by page then action.
var placeholderActions = map[string]map[string]string{
	models.PageIncome: {
		"add":  "Tambah Pemasukan",
		"edit": "Edit Data",
	},
	models.PageExpense: {
		"add":  "Tambah Pengeluaran",
		"edit": "Edit Data",
	},
}

// confirmedActions only run once the operator accepts the confirmation prompt.
var confirmedActions = map[string]map[string]string{
	models.PageIncome:  {"delete": msgRecordDeleted},
	models.PageExpense: {"delete": msgRecordDeleted},
}

const (
	msgFeaturePending = "%s - Fitur akan dikembangkan lebih lanjut"
	msgRecordDeleted  = "Data berhasil dihapus!"
)

type pageService struct {
	mu            sync.RWMutex
	current       string
	active        map[models.NavSurface]string
	notifications NotificationService
	logger        *slog.Logger
}

func NewPageService(notifications NotificationService, logger *slog.Logger) PageService {
	return &pageService{
		current: models.PageHome,
		active: map[models.NavSurface]string{
			models.SurfaceDesktop: models.PageHome,
			models.SurfaceMobile:  models.PageHome,
		},
		notifications: notifications,
		logger:        logger,
	}
}

// Show switches the visible section. Only the invoking surface moves its highlight.
// An unknown page keeps the home section visible under the generic title.
func (s *pageService) Show(ctx context.Context, page string, surface models.NavSurface) models.PageState {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = page
	if surface.IsValid() {
		s.active[surface] = page
	}
	if _, ok := pageTitles[page]; !ok {
		s.logger.Warn("Unknown page requested", "page", page)
	}
	return s.stateLocked()
}

func (s *pageService) Current(ctx context.Context) models.PageState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stateLocked()
}

func (s *pageService) TriggerAction(ctx context.Context, page, action string, confirmed bool) (models.Notification, error) {
	if message, ok := confirmedActions[page][action]; ok {
		// A declined prompt changes nothing and says nothing.
		if !confirmed {
			return models.Notification{}, ErrConfirmationRequired
		}
		s.logger.Info("Page record deleted", "page", page)
		return s.notifications.Notify(ctx, message, models.SeveritySuccess), nil
	}

	title, ok := placeholderActions[page][action]
	if !ok {
		return models.Notification{}, fmt.Errorf("%w: %s on %s", ErrUnknownAction, action, page)
	}
	return s.notifications.Notify(ctx, fmt.Sprintf(msgFeaturePending, title), models.SeverityInfo), nil
}

func (s *pageService) stateLocked() models.PageState {
	visible := s.current
	title, ok := pageTitles[visible]
	if !ok {
		visible = models.PageHome
		title = models.DefaultPageName
	}

	items := make(map[models.NavSurface]string, len(s.active))
	for k, v := range s.active {
		items[k] = v
	}
	return models.PageState{
		Current:     s.current,
		Visible:     visible,
		Title:       title,
		ActiveItems: items,
	}
}

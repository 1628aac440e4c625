package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/SAP-F-2025/finance-dashboard/internal/models"
	"github.com/SAP-F-2025/finance-dashboard/internal/validator"
)

const msgProfileUpdated = "Profile berhasil diperbarui!"

type profileService struct {
	mu            sync.RWMutex
	profile       models.AdminProfile
	validator     *validator.Validator
	notifications NotificationService
	logger        *slog.Logger
}

func NewProfileService(v *validator.Validator, notifications NotificationService, logger *slog.Logger) ProfileService {
	return &profileService{
		profile:       models.DefaultAdminProfile(),
		validator:     v,
		notifications: notifications,
		logger:        logger,
	}
}

func (s *profileService) Get(ctx context.Context) models.AdminProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

func (s *profileService) Update(ctx context.Context, req *UpdateProfileRequest) (*models.AdminProfile, error) {
	if errs := s.validator.GetBusinessValidator().Validate(req); len(errs) > 0 {
		s.notifications.Notify(ctx, fmt.Sprintf(msgInvalidForm, errs.First()), models.SeverityError)
		return nil, errs
	}

	s.mu.Lock()
	s.profile.FullName = strings.TrimSpace(req.FullName)
	s.profile.Email = strings.TrimSpace(req.Email)
	s.profile.Phone = req.Phone
	s.profile.UpdatedAt = time.Now()
	out := s.profile
	s.mu.Unlock()

	s.logger.Info("Admin profile updated", "email", out.Email)
	s.notifications.Notify(ctx, msgProfileUpdated, models.SeveritySuccess)
	return &out, nil
}

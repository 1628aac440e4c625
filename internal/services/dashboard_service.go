package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/SAP-F-2025/finance-dashboard/internal/models"
	"github.com/SAP-F-2025/finance-dashboard/internal/repositories"
	"github.com/SAP-F-2025/finance-dashboard/internal/utils"
)

// ===== RESPONSE DTOs =====

type DashboardStatsResponse struct {
	Overview DashboardOverview `json:"overview"`
	Finance  DashboardFinance  `json:"finance"`
}

type DashboardOverview struct {
	TotalStudents     int `json:"total_students"`
	ActiveStudents    int `json:"active_students"`
	InactiveStudents  int `json:"inactive_students"`
	GraduatedStudents int `json:"graduated_students"`
}

type DashboardFinance struct {
	PaidCount               int     `json:"paid_count"`
	OwingCount              int     `json:"owing_count"`
	TotalOutstanding        int64   `json:"total_outstanding"`
	TotalOutstandingDisplay string  `json:"total_outstanding_display"`
	PaymentRate             float64 `json:"payment_rate"`
}

type ClassDistributionResponse struct {
	ClassName  string  `json:"kelas"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type ArrearsResponse struct {
	NIS                string `json:"nis"`
	Name               string `json:"name"`
	ClassName          string `json:"kelas"`
	OutstandingBalance int64  `json:"tunggakan"`
	BalanceDisplay     string `json:"tunggakan_display"`
}

// ===== SERVICE INTERFACE =====

// DashboardService summarises the roster for the home page.
type DashboardService interface {
	GetDashboardStats(ctx context.Context) (*DashboardStatsResponse, error)
	GetClassDistribution(ctx context.Context) ([]ClassDistributionResponse, error)
	// GetTopArrears lists owing students by balance, largest first.
	GetTopArrears(ctx context.Context, limit int) ([]ArrearsResponse, error)
}

// ===== SERVICE IMPLEMENTATION =====

type dashboardService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewDashboardService(repo repositories.Repository, logger *slog.Logger) DashboardService {
	return &dashboardService{
		repo:   repo,
		logger: logger,
	}
}

func (s *dashboardService) GetDashboardStats(ctx context.Context) (*DashboardStatsResponse, error) {
	s.logger.Debug("Getting dashboard stats")

	students, err := s.repo.Student().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}

	response := &DashboardStatsResponse{}
	response.Overview.TotalStudents = len(students)

	for _, st := range students {
		switch st.EnrollmentStatus {
		case models.EnrollmentActive:
			response.Overview.ActiveStudents++
		case models.EnrollmentInactive:
			response.Overview.InactiveStudents++
		case models.EnrollmentGraduated:
			response.Overview.GraduatedStudents++
		}

		if st.PaymentStatus == models.PaymentPaid {
			response.Finance.PaidCount++
		} else {
			response.Finance.OwingCount++
			response.Finance.TotalOutstanding += st.OutstandingBalance
		}
	}

	response.Finance.TotalOutstandingDisplay = utils.FormatCurrency(response.Finance.TotalOutstanding)
	response.Finance.PaymentRate = percentage(response.Finance.PaidCount, len(students))

	return response, nil
}

func (s *dashboardService) GetClassDistribution(ctx context.Context) ([]ClassDistributionResponse, error) {
	s.logger.Debug("Getting class distribution")

	students, err := s.repo.Student().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}

	counts := make(map[string]int, len(models.ClassCodes))
	for _, st := range students {
		counts[st.ClassName]++
	}

	// Every class appears, in class code order, even when empty
	response := make([]ClassDistributionResponse, 0, len(models.ClassCodes))
	for _, code := range models.ClassCodes {
		response = append(response, ClassDistributionResponse{
			ClassName:  code,
			Count:      counts[code],
			Percentage: percentage(counts[code], len(students)),
		})
	}
	return response, nil
}

func (s *dashboardService) GetTopArrears(ctx context.Context, limit int) ([]ArrearsResponse, error) {
	s.logger.Debug("Getting top arrears", "limit", limit)

	// Validate limit
	if limit <= 0 || limit > 20 {
		limit = 5
	}

	students, err := s.repo.Student().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}

	owing := make([]models.Student, 0, len(students))
	for _, st := range students {
		if st.PaymentStatus == models.PaymentOwing && st.OutstandingBalance > 0 {
			owing = append(owing, st)
		}
	}
	// Stable keeps roster order between equal balances
	sort.SliceStable(owing, func(i, j int) bool {
		return owing[i].OutstandingBalance > owing[j].OutstandingBalance
	})
	if len(owing) > limit {
		owing = owing[:limit]
	}

	response := make([]ArrearsResponse, len(owing))
	for i, st := range owing {
		response[i] = ArrearsResponse{
			NIS:                st.NIS,
			Name:               st.Name,
			ClassName:          st.ClassName,
			OutstandingBalance: st.OutstandingBalance,
			BalanceDisplay:     utils.FormatCurrency(st.OutstandingBalance),
		}
	}
	return response, nil
}

func percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return roundFloat(float64(part)*100/float64(total), 1)
}

func roundFloat(val float64, precision uint) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}

package services

import (
	"strings"

	"github.com/SAP-F-2025/finance-dashboard/internal/models"
)

// StudentCriteria are the search box and the two filter selects of the roster table.
// Empty fields match everything.
type StudentCriteria struct {
	Query       string
	ClassFilter string
	Status      string
}

// Apply returns the criteria with the non-nil update fields replaced.
func (c StudentCriteria) Apply(u CriteriaUpdate) StudentCriteria {
	if u.Query != nil {
		c.Query = *u.Query
	}
	if u.ClassFilter != nil {
		c.ClassFilter = *u.ClassFilter
	}
	if u.Status != nil {
		c.Status = *u.Status
	}
	return c
}

func (c StudentCriteria) Response() models.StudentCriteriaResponse {
	return models.StudentCriteriaResponse{
		Query:       c.Query,
		ClassFilter: c.ClassFilter,
		Status:      c.Status,
	}
}

// IsVisible reports whether a student passes all three criteria.
//
// The query matches case-insensitively against name, NIS and class. The class
// filter is a substring of the class code. The status filter must equal one of
// the row's status badges, enrollment or payment.
func IsVisible(s models.Student, c StudentCriteria) bool {
	if c.Query != "" {
		q := strings.ToLower(c.Query)
		if !strings.Contains(strings.ToLower(s.Name), q) &&
			!strings.Contains(strings.ToLower(s.NIS), q) &&
			!strings.Contains(strings.ToLower(s.ClassName), q) {
			return false
		}
	}

	if c.ClassFilter != "" && !strings.Contains(s.ClassName, c.ClassFilter) {
		return false
	}

	if c.Status != "" {
		matched := false
		for _, badge := range s.StatusBadges() {
			if badge == c.Status {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	return true
}

// FilterStudents keeps the visible students in roster order.
func FilterStudents(students []models.Student, c StudentCriteria) []models.Student {
	visible := make([]models.Student, 0, len(students))
	for _, s := range students {
		if IsVisible(s, c) {
			visible = append(visible, s)
		}
	}
	return visible
}

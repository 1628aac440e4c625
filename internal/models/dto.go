package models

import (
	"time"
)

// ===== STUDENT LISTING DTOs =====

// SelectionState is the tri-state value of the select-all checkbox.
type SelectionState string

const (
	SelectionAll  SelectionState = "all"
	SelectionNone SelectionState = "none"
	SelectionSome SelectionState = "some"
)

// StudentRow is the projection of one student for the table view.
type StudentRow struct {
	NIS                string           `json:"nis"`
	Name               string           `json:"name"`
	Email              string           `json:"email"`
	ClassName          string           `json:"kelas"`
	PaymentStatus      PaymentStatus    `json:"status_spp"`
	OutstandingBalance int64            `json:"tunggakan"`
	BalanceDisplay     string           `json:"tunggakan_display"`
	EnrollmentStatus   EnrollmentStatus `json:"status"`
	StatusLabel        string           `json:"status_label"`
	AvatarURL          string           `json:"avatar"`
	Checked            bool             `json:"checked"`
}

type StudentCriteriaResponse struct {
	Query       string `json:"q"`
	ClassFilter string `json:"kelas"`
	Status      string `json:"status"`
}

type StudentListResponse struct {
	Students       []StudentRow            `json:"students"`
	Criteria       StudentCriteriaResponse `json:"criteria"`
	VisibleCount   int                     `json:"visible_count"`
	TotalCount     int                     `json:"total_count"`
	SelectedCount  int                     `json:"selected_count"`
	SelectionState SelectionState          `json:"selection_state"`
}

type SelectionResponse struct {
	Selected       []string       `json:"selected"`
	SelectedCount  int            `json:"selected_count"`
	TotalCount     int            `json:"total_count"`
	SelectionState SelectionState `json:"selection_state"`
}

// ===== TASK DTOs =====

type TaskKind string

const (
	TaskImport TaskKind = "import"
	TaskExport TaskKind = "export"
)

type TaskStatus string

const (
	TaskRunning   TaskStatus = "running"
	TaskSucceeded TaskStatus = "succeeded"
	TaskFailed    TaskStatus = "failed"
	TaskCancelled TaskStatus = "cancelled"
)

type TaskResponse struct {
	ID        string     `json:"id"`
	Kind      TaskKind   `json:"kind"`
	Status    TaskStatus `json:"status"`
	StartedAt time.Time  `json:"started_at"`
}

// ReportDocument is the output of a finished export.
type ReportDocument struct {
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	Content     []byte    `json:"-"`
	Rows        int       `json:"rows"`
	CreatedAt   time.Time `json:"created_at"`
}

// ===== VALIDATION RESPONSES =====

type ValidationErrorResponse struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   string `json:"value"`
	Code    string `json:"code"`
}

// ===== ERROR RESPONSES =====

type ErrorResponse struct {
	Error            string                    `json:"error"`
	Message          string                    `json:"message"`
	Code             string                    `json:"code"`
	Details          interface{}               `json:"details,omitempty"`
	Timestamp        time.Time                 `json:"timestamp"`
	Path             string                    `json:"path"`
	ValidationErrors []ValidationErrorResponse `json:"validation_errors,omitempty"`
}

type SuccessResponse struct {
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

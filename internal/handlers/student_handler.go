package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/finance-dashboard/internal/services"
	"github.com/SAP-F-2025/finance-dashboard/internal/utils"
)

type StudentHandler struct {
	BaseHandler
	service       services.StudentService
	notifications services.NotificationService
}

func NewStudentHandler(service services.StudentService, notifications services.NotificationService, logger utils.Logger) *StudentHandler {
	return &StudentHandler{
		BaseHandler:   NewBaseHandler(logger),
		service:       service,
		notifications: notifications,
	}
}

// SelectionRequest checks or unchecks rows.
type SelectionRequest struct {
	Checked *bool `json:"checked" binding:"required"`
}

// ===== STUDENT ENDPOINTS =====

// ListStudents returns the visible rows for the current criteria
// @Summary List students
// @Description Updates any of the listing criteria that are present and returns the filtered table
// @Tags students
// @Produce json
// @Param q query string false "Search text matched against name, NIS and class"
// @Param kelas query string false "Class filter, empty for all classes"
// @Param status query string false "Status filter, matches enrollment or payment status"
// @Success 200 {object} models.StudentListResponse
// @Failure 500 {object} ErrorResponse
// @Router /students [get]
func (h *StudentHandler) ListStudents(c *gin.Context) {
	var update services.CriteriaUpdate
	if q, ok := c.GetQuery("q"); ok {
		update.Query = &q
	}
	if kelas, ok := c.GetQuery("kelas"); ok {
		update.ClassFilter = &kelas
	}
	if status, ok := c.GetQuery("status"); ok {
		update.Status = &status
	}

	h.LogRequest(c, "Listing students")

	list, err := h.service.List(c.Request.Context(), update)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// GetStudent returns one student
// @Summary Get student
// @Tags students
// @Produce json
// @Param nis path string true "Student NIS"
// @Success 200 {object} models.Student
// @Failure 404 {object} ErrorResponse
// @Router /students/{nis} [get]
func (h *StudentHandler) GetStudent(c *gin.Context) {
	nis := c.Param("nis")
	h.LogRequest(c, "Getting student", "nis", nis)

	student, err := h.service.Get(c.Request.Context(), nis)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, student)
}

// CreateStudent adds a student to the roster
// @Summary Create student
// @Tags students
// @Accept json
// @Produce json
// @Param student body services.CreateStudentRequest true "Student data"
// @Success 201 {object} models.Student
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "NIS already registered"
// @Router /students [post]
func (h *StudentHandler) CreateStudent(c *gin.Context) {
	var req services.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.rejectForm(c, h.notifications, err)
		return
	}

	h.LogRequest(c, "Creating student", "nis", req.NIS)

	student, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, student)
}

// UpdateStudent applies the edit form to a student
// @Summary Update student
// @Tags students
// @Accept json
// @Produce json
// @Param nis path string true "Student NIS"
// @Param student body services.UpdateStudentRequest true "Changed fields"
// @Success 200 {object} models.Student
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /students/{nis} [put]
func (h *StudentHandler) UpdateStudent(c *gin.Context) {
	nis := c.Param("nis")

	var req services.UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.rejectForm(c, h.notifications, err)
		return
	}

	h.LogRequest(c, "Updating student", "nis", nis)

	student, err := h.service.Update(c.Request.Context(), nis, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, student)
}

// DeleteStudent removes a student. The operator must confirm with confirm=true.
// @Summary Delete student
// @Tags students
// @Produce json
// @Param nis path string true "Student NIS"
// @Param confirm query bool true "Operator confirmation"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse "Confirmation required"
// @Failure 404 {object} ErrorResponse
// @Router /students/{nis} [delete]
func (h *StudentHandler) DeleteStudent(c *gin.Context) {
	nis := c.Param("nis")
	confirmed, _ := strconv.ParseBool(c.Query("confirm"))

	h.LogRequest(c, "Deleting student", "nis", nis, "confirmed", confirmed)

	if err := h.service.Delete(c.Request.Context(), nis, confirmed); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Student deleted", gin.H{"nis": nis})
}

// ===== SELECTION ENDPOINTS =====

func (h *StudentHandler) GetSelection(c *gin.Context) {
	selection, err := h.service.Selection(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, selection)
}

// SelectVisible is the select-all checkbox. It only touches rows matching the current criteria.
func (h *StudentHandler) SelectVisible(c *gin.Context) {
	var req SelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	h.LogRequest(c, "Selecting visible students", "checked", *req.Checked)

	selection, err := h.service.SelectVisible(c.Request.Context(), *req.Checked)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, selection)
}

func (h *StudentHandler) ToggleSelection(c *gin.Context) {
	nis := c.Param("nis")

	var req SelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	selection, err := h.service.Toggle(c.Request.Context(), nis, *req.Checked)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, selection)
}

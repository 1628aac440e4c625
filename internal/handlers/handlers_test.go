package handlers

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/finance-dashboard/internal/cache"
	"github.com/SAP-F-2025/finance-dashboard/internal/events"
	"github.com/SAP-F-2025/finance-dashboard/internal/models"
	"github.com/SAP-F-2025/finance-dashboard/internal/repositories/memory"
	"github.com/SAP-F-2025/finance-dashboard/internal/services"
	"github.com/SAP-F-2025/finance-dashboard/internal/utils"
	"github.com/SAP-F-2025/finance-dashboard/internal/validator"
)

// frozenClock keeps every notification on screen for the length of a test.
type frozenClock struct{ t time.Time }

func (c frozenClock) Now() time.Time { return c.t }

type testServer struct {
	router *gin.Engine
	sm     services.ServiceManager
	bus    *events.WatermillBus
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWithStore(t, cache.NewBadgeStore(nil, 3))
}

func newTestServerWithStore(t *testing.T, badgeStore *cache.BadgeStore) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo, err := memory.NewMemoryRepository(memory.RepositoryConfig{})
	require.NoError(t, err)

	bus := events.NewWatermillBus(logger, 16)
	t.Cleanup(func() { _ = bus.Close() })

	config := services.DefaultServiceManagerConfig()
	config.Clock = frozenClock{t: time.Date(2025, time.August, 17, 9, 0, 0, 0, time.UTC)}
	config.Task = services.TaskConfig{}

	sm := services.NewServiceManager(repo, logger, validator.New(), bus, badgeStore, config)
	require.NoError(t, sm.Initialize(context.Background()))
	t.Cleanup(func() { _ = sm.Shutdown(context.Background()) })

	router := gin.New()
	SetupMiddleware(router, utils.NewSlogLogger(logger))
	NewHandlerManager(sm, bus, utils.NewSlogLogger(logger)).SetupRoutes(router)

	return &testServer{router: router, sm: sm, bus: bus}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

// waitTask polls the task until it leaves the running state.
func (s *testServer) waitTask(t *testing.T, id string) models.TaskResponse {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		w := s.do(t, http.MethodGet, "/api/v1/tasks/"+id, nil)
		require.Equal(t, http.StatusOK, w.Code)
		task := decode[models.TaskResponse](t, w)
		if task.Status != models.TaskRunning {
			return task
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("task %s did not finish", id)
	return models.TaskResponse{}
}

func TestStudentHandler_List(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/students", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[models.StudentListResponse](t, w)
	assert.Equal(t, 4, list.TotalCount)
	assert.Equal(t, 4, list.VisibleCount)
	assert.Equal(t, "Rp 1.500.000", list.Students[1].BalanceDisplay)

	w = s.do(t, http.MethodGet, "/api/v1/students?kelas=10", nil)
	list = decode[models.StudentListResponse](t, w)
	assert.Equal(t, 2, list.VisibleCount)

	// Criteria not sent keep their previous value.
	w = s.do(t, http.MethodGet, "/api/v1/students?q=siti", nil)
	list = decode[models.StudentListResponse](t, w)
	require.Len(t, list.Students, 1)
	assert.Equal(t, "2024002", list.Students[0].NIS)
	assert.Equal(t, "10", list.Criteria.ClassFilter)

	w = s.do(t, http.MethodGet, "/api/v1/students?q=&kelas=&status=lulus", nil)
	list = decode[models.StudentListResponse](t, w)
	require.Len(t, list.Students, 1)
	assert.Equal(t, "Dewi Lestari", list.Students[0].Name)
}

func TestStudentHandler_Create(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name       string
		body       interface{}
		wantStatus int
	}{
		{
			name:       "valid",
			body:       services.CreateStudentRequest{NIS: "2024004", Name: "Rina Kartika", Email: "rina@email.com", ClassName: "11B", EnrollmentStatus: "aktif"},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "duplicate nis",
			body:       services.CreateStudentRequest{NIS: "2024001", Name: "Rina", Email: "rina@email.com", ClassName: "11B", EnrollmentStatus: "aktif"},
			wantStatus: http.StatusConflict,
		},
		{
			name:       "invalid email",
			body:       services.CreateStudentRequest{NIS: "2024005", Name: "Rina", Email: "bukan-email", ClassName: "11B", EnrollmentStatus: "aktif"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed body",
			body:       "not an object",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodPost, "/api/v1/students", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
		})
	}

	w := s.do(t, http.MethodPost, "/api/v1/students",
		services.CreateStudentRequest{NIS: "2024006", Name: "X", Email: "x@email.com", ClassName: "13A", EnrollmentStatus: "aktif"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode[ErrorResponse](t, w)
	assert.Equal(t, "VALIDATION_FAILED", resp.Code)
	require.NotEmpty(t, resp.ValidationErrors)
	assert.Equal(t, "kelas", resp.ValidationErrors[0].Field)

	list := decode[models.StudentListResponse](t, s.do(t, http.MethodGet, "/api/v1/students", nil))
	assert.Equal(t, 5, list.TotalCount)
}

func TestStudentHandler_UndecodableBody(t *testing.T) {
	tests := []struct {
		name        string
		method      string
		path        string
		body        interface{}
		wantMessage string
	}{
		{"text balance on edit", http.MethodPut, "/api/v1/students/2024002", map[string]interface{}{"tunggakan": "abc"}, "Data tidak valid: tunggakan harus berupa angka"},
		{"numeric nis on create", http.MethodPost, "/api/v1/students", map[string]interface{}{"nis": 2024009}, "Data tidak valid: nis harus berupa teks"},
		{"not an object", http.MethodPost, "/api/v1/students", "not an object", "Data tidak valid: format data tidak valid"},
		{"profile with numeric name", http.MethodPut, "/api/v1/profile", map[string]interface{}{"full_name": 7}, "Data tidak valid: full_name harus berupa teks"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)

			w := s.do(t, tt.method, tt.path, tt.body)
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.Equal(t, "INVALID_PAYLOAD", decode[ErrorResponse](t, w).Code)

			active := s.sm.Notification().Active(context.Background())
			require.Len(t, active, 1)
			assert.Equal(t, models.SeverityError, active[0].Severity)
			assert.Equal(t, tt.wantMessage, active[0].Message)

			list := decode[models.StudentListResponse](t, s.do(t, http.MethodGet, "/api/v1/students", nil))
			assert.Equal(t, 4, list.TotalCount)
			assert.Equal(t, int64(1500000), list.Students[1].OutstandingBalance)
		})
	}
}

func TestStudentHandler_UpdateMarksPaid(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPut, "/api/v1/students/2024002", map[string]string{"status_spp": "lunas"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	student := decode[models.Student](t, w)
	assert.Equal(t, models.PaymentPaid, student.PaymentStatus)
	assert.Zero(t, student.OutstandingBalance)

	w = s.do(t, http.MethodPut, "/api/v1/students/9999999", map[string]string{"name": "Nobody"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStudentHandler_UpdateBalanceOnPaidStudent(t *testing.T) {
	s := newTestServer(t)

	for _, body := range []map[string]interface{}{
		{"tunggakan": 500000},
		{"tunggakan": 500000, "status_spp": "lunas"},
	} {
		w := s.do(t, http.MethodPut, "/api/v1/students/2024001", body)
		require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		resp := decode[ErrorResponse](t, w)
		assert.Equal(t, "VALIDATION_FAILED", resp.Code)
		require.NotEmpty(t, resp.ValidationErrors)
		assert.Equal(t, "tunggakan", resp.ValidationErrors[0].Field)
	}

	student := decode[models.Student](t, s.do(t, http.MethodGet, "/api/v1/students/2024001", nil))
	assert.Equal(t, models.PaymentPaid, student.PaymentStatus)
	assert.Zero(t, student.OutstandingBalance)
	assert.Len(t, s.sm.Notification().Active(context.Background()), 2)
}

func TestStudentHandler_DeleteRequiresConfirmation(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodDelete, "/api/v1/students/2024003", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, s.sm.Notification().Active(context.Background()))

	w = s.do(t, http.MethodDelete, "/api/v1/students/2024003?confirm=true", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/students/2024003", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	active := s.sm.Notification().Active(context.Background())
	require.Len(t, active, 1)
	assert.Equal(t, models.SeveritySuccess, active[0].Severity)
}

func TestStudentHandler_Selection(t *testing.T) {
	s := newTestServer(t)

	// Only the two grade 10 rows are visible.
	s.do(t, http.MethodGet, "/api/v1/students?kelas=10", nil)

	w := s.do(t, http.MethodPut, "/api/v1/students/selection", map[string]bool{"checked": true})
	require.Equal(t, http.StatusOK, w.Code)
	sel := decode[models.SelectionResponse](t, w)
	assert.Equal(t, 2, sel.SelectedCount)
	assert.Equal(t, models.SelectionSome, sel.SelectionState)

	s.do(t, http.MethodGet, "/api/v1/students?kelas=", nil)
	w = s.do(t, http.MethodPut, "/api/v1/students/selection", map[string]bool{"checked": true})
	sel = decode[models.SelectionResponse](t, w)
	assert.Equal(t, models.SelectionAll, sel.SelectionState)

	w = s.do(t, http.MethodPut, "/api/v1/students/2024001/selection", map[string]bool{"checked": false})
	require.Equal(t, http.StatusOK, w.Code)
	sel = decode[models.SelectionResponse](t, w)
	assert.Equal(t, 3, sel.SelectedCount)
	assert.NotContains(t, sel.Selected, "2024001")

	w = s.do(t, http.MethodPut, "/api/v1/students/2024001/selection", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPut, "/api/v1/students/0000000/selection", map[string]bool{"checked": true})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/students/selection", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, decode[models.SelectionResponse](t, w).SelectedCount)
}

func TestModalHandler_AddFlow(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/modals/active", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/modals", OpenModalRequest{Kind: models.ModalAddStudent})
	require.Equal(t, http.StatusCreated, w.Code)
	view := decode[models.ModalView](t, w)
	assert.Equal(t, "Tambah Siswa Baru", view.Title)

	w = s.do(t, http.MethodPost, "/api/v1/modals/"+view.Handle+"/submit", map[string]string{
		"nis": "2024010", "name": "Rina", "email": "rina@email.com", "kelas": "12B", "status": "aktif",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/v1/modals/active", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// The handle is stale once the modal closed.
	w = s.do(t, http.MethodDelete, "/api/v1/modals/"+view.Handle, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestModalHandler_FormEncodedEdit(t *testing.T) {
	s := newTestServer(t)

	view := decode[models.ModalView](t, s.do(t, http.MethodPost, "/api/v1/modals",
		OpenModalRequest{Kind: models.ModalEditStudent, NIS: "2024001"}))

	form := "name=Ahmad+Rizki+Pratama&status_spp=tunggakan&tunggakan=250000"
	req := httptest.NewRequest(http.MethodPost, "/api/v1/modals/"+view.Handle+"/submit", strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	student := decode[models.Student](t, w)
	assert.Equal(t, "Ahmad Rizki Pratama", student.Name)
	assert.Equal(t, int64(250000), student.OutstandingBalance)
}

func TestModalHandler_Errors(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/modals", OpenModalRequest{Kind: "wizard"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/modals", OpenModalRequest{Kind: models.ModalViewStudent, NIS: "0000000"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	view := decode[models.ModalView](t, s.do(t, http.MethodPost, "/api/v1/modals",
		OpenModalRequest{Kind: models.ModalViewStudent, NIS: "2024001"}))
	w = s.do(t, http.MethodPost, "/api/v1/modals/"+view.Handle+"/confirm", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "MODAL_KIND_MISMATCH", decode[ErrorResponse](t, w).Code)
}

func TestModalHandler_DeleteConfirm(t *testing.T) {
	s := newTestServer(t)

	view := decode[models.ModalView](t, s.do(t, http.MethodPost, "/api/v1/modals",
		OpenModalRequest{Kind: models.ModalDeleteStudent, NIS: "2024002"}))
	assert.Contains(t, view.ConfirmMessage, "Siti Fatimah")

	w := s.do(t, http.MethodPost, "/api/v1/modals/"+view.Handle+"/confirm", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/students/2024002", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func multipartFile(t *testing.T, field, name string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	if name != "" {
		fw, err := mw.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func TestModalHandler_Import(t *testing.T) {
	s := newTestServer(t)

	view := decode[models.ModalView](t, s.do(t, http.MethodPost, "/api/v1/modals",
		OpenModalRequest{Kind: models.ModalImportStudents}))
	path := "/api/v1/modals/" + view.Handle + "/import"

	post := func(name string, content []byte) *httptest.ResponseRecorder {
		body, contentType := multipartFile(t, "file", name, content)
		req := httptest.NewRequest(http.MethodPost, path, body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusBadRequest, post("", nil).Code)
	assert.Equal(t, http.StatusBadRequest, post("siswa.pdf", []byte("%PDF")).Code)

	w := post("siswa.xlsx", []byte("PK\x03\x04 fake workbook"))
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	task := decode[models.TaskResponse](t, w)
	assert.Equal(t, models.TaskImport, task.Kind)

	assert.Equal(t, models.TaskSucceeded, s.waitTask(t, task.ID).Status)

	// The modal closes right after the task reports success.
	assert.Eventually(t, func() bool {
		return s.do(t, http.MethodGet, "/api/v1/modals/active", nil).Code == http.StatusNotFound
	}, 5*time.Second, 5*time.Millisecond)
}

func TestTaskHandler_ExportAndDownload(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/reports/latest", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/reports/export", nil)
	require.Equal(t, http.StatusAccepted, w.Code)
	task := decode[models.TaskResponse](t, w)
	assert.Equal(t, models.TaskSucceeded, s.waitTask(t, task.ID).Status)

	w = s.do(t, http.MethodGet, "/api/v1/reports/latest", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "spreadsheetml")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "laporan-keuangan-")
	assert.NotZero(t, w.Body.Len())

	// Cancelling a finished task reports its final state.
	w = s.do(t, http.MethodDelete, "/api/v1/tasks/"+task.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.TaskSucceeded, decode[models.TaskResponse](t, w).Status)

	w = s.do(t, http.MethodDelete, "/api/v1/tasks/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPageHandler(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/pages/siswa?surface=mobile", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[models.PageState](t, w)
	assert.Equal(t, "Data Siswa", page.Title)
	assert.Equal(t, "siswa", page.ActiveItems[models.SurfaceMobile])
	assert.Equal(t, "home", page.ActiveItems[models.SurfaceDesktop])

	w = s.do(t, http.MethodPost, "/api/v1/pages/tidak-ada", nil)
	page = decode[models.PageState](t, w)
	assert.Equal(t, models.DefaultPageName, page.Title)
	assert.Equal(t, models.PageHome, page.Visible)

	w = s.do(t, http.MethodGet, "/api/v1/pages/current", nil)
	assert.Equal(t, "tidak-ada", decode[models.PageState](t, w).Current)

	w = s.do(t, http.MethodPost, "/api/v1/pages/siswa?surface=tablet", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPageHandler_TriggerAction(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/pages/pemasukan/actions/add", nil)
	require.Equal(t, http.StatusOK, w.Code)
	n := decode[models.Notification](t, w)
	assert.Equal(t, "Tambah Pemasukan - Fitur akan dikembangkan lebih lanjut", n.Message)
	assert.Equal(t, models.SeverityInfo, n.Severity)

	w = s.do(t, http.MethodPost, "/api/v1/pages/siswa/actions/add", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/notifications", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Notification](t, w), 1)

	// Declining the delete prompt emits nothing.
	w = s.do(t, http.MethodPost, "/api/v1/pages/pengeluaran/actions/delete", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "CONFIRMATION_REQUIRED", decode[ErrorResponse](t, w).Code)
	assert.Len(t, s.sm.Notification().Active(context.Background()), 1)

	w = s.do(t, http.MethodPost, "/api/v1/pages/pengeluaran/actions/delete?confirm=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	n = decode[models.Notification](t, w)
	assert.Equal(t, "Data berhasil dihapus!", n.Message)
	assert.Equal(t, models.SeveritySuccess, n.Severity)
}

func TestBadgeAndProfileHandlers(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/badge", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.BadgeState{Count: 3, Visible: true}, decode[models.BadgeState](t, w))

	w = s.do(t, http.MethodGet, "/api/v1/profile", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Admin Sekolah", decode[models.AdminProfile](t, w).FullName)

	w = s.do(t, http.MethodPut, "/api/v1/profile", services.UpdateProfileRequest{FullName: "Bu Ratna", Email: "salah"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPut, "/api/v1/profile", services.UpdateProfileRequest{FullName: "Bu Ratna", Email: "ratna@sekolah.sch.id"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Bu Ratna", decode[models.AdminProfile](t, w).FullName)
}

func TestDashboardHandler(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/dashboard/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode[services.DashboardStatsResponse](t, w)
	assert.Equal(t, 4, stats.Overview.TotalStudents)
	assert.Equal(t, "Rp 1.500.000", stats.Finance.TotalOutstandingDisplay)

	// Marking the only owing student paid clears the arrears.
	s.do(t, http.MethodPut, "/api/v1/students/2024002", map[string]string{"status_spp": "lunas"})
	stats = decode[services.DashboardStatsResponse](t, s.do(t, http.MethodGet, "/api/v1/dashboard/stats", nil))
	assert.Zero(t, stats.Finance.TotalOutstanding)
	assert.Equal(t, 100.0, stats.Finance.PaymentRate)

	w = s.do(t, http.MethodGet, "/api/v1/dashboard/class-distribution", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]services.ClassDistributionResponse](t, w), len(models.ClassCodes))

	w = s.do(t, http.MethodGet, "/api/v1/dashboard/top-arrears?limit=abc", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]services.ArrearsResponse](t, w))
}

func TestMiddleware(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-123")
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))

	req = httptest.NewRequest(http.MethodOptions, "/api/v1/students", nil)
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestHealthCheck_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	s := newTestServerWithStore(t, cache.NewBadgeStore(cache.NewCacheManager(client), 3))

	w := s.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	mr.Close()
	w = s.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "unhealthy")
}

func TestRecoveryMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RecoveryMiddleware(utils.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))))
	router.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "INTERNAL_ERROR", decode[ErrorResponse](t, w).Code)
}

func TestNotificationHandler_Stream(t *testing.T) {
	s := newTestServer(t)
	server := httptest.NewServer(s.router)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	got := make(chan string, 1)
	go func() {
		req, _ := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/api/v1/notifications/stream", nil)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return
		}
		defer resp.Body.Close()
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			if line := scanner.Text(); strings.HasPrefix(line, "event:") {
				got <- strings.TrimSpace(strings.TrimPrefix(line, "event:"))
				return
			}
		}
	}()

	// Keep producing events until the subscriber has attached and seen one.
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case event := <-got:
			assert.Equal(t, events.NotificationShown, event)
			cancel()
			return
		case <-ticker.C:
			s.sm.Notification().Notify(ctx, "ping", models.SeverityInfo)
		case <-ctx.Done():
			t.Fatal("no event received on stream")
		}
	}
}

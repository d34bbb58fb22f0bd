package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"surat-portal/config"
	"surat-portal/internal/dto"
	"surat-portal/internal/service"
	"surat-portal/pkg/cloudinary"
	apperrors "surat-portal/pkg/errors"
	"surat-portal/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
	RegisterValidators()
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	loginResult *dto.LoginResponse
	loginErr    error
	logoutJTI   string
	logoutErr   error
	meResult    *dto.SessionUserResponse
	meErr       error
}

func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.LoginResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) Logout(_ context.Context, jti string, _ time.Time) error {
	m.logoutJTI = jti
	return m.logoutErr
}
func (m *mockAuthService) Me(_ context.Context, _ *service.Actor) (*dto.SessionUserResponse, error) {
	return m.meResult, m.meErr
}

// ── Mock UserService ──

type mockUserService struct {
	createActor *service.Actor
	createErr   error
}

func (m *mockUserService) Create(_ context.Context, req *dto.CreateUserRequest, actor *service.Actor) (*dto.CreateUserResponse, error) {
	m.createActor = actor
	if m.createErr != nil {
		return nil, m.createErr
	}
	return &dto.CreateUserResponse{}, nil
}
func (m *mockUserService) UpdateProfile(_ context.Context, _ *dto.UpdateProfileRequest, _ *service.Actor) (*dto.UserResponse, error) {
	return &dto.UserResponse{}, nil
}

// ── Mock TemplateService ──

type mockTemplateService struct {
	getKey    string
	getResult *dto.TemplateResponse
	err       error
}

func (m *mockTemplateService) List(_ context.Context, _ *service.Actor) ([]dto.TemplateResponse, error) {
	return []dto.TemplateResponse{}, m.err
}
func (m *mockTemplateService) Get(_ context.Context, key string, _ *service.Actor) (*dto.TemplateResponse, error) {
	m.getKey = key
	return m.getResult, m.err
}
func (m *mockTemplateService) Create(_ context.Context, _ *dto.CreateTemplateRequest, _ *service.Actor) (*dto.TemplateResponse, error) {
	return m.getResult, m.err
}
func (m *mockTemplateService) Update(_ context.Context, _ string, _ *dto.UpdateTemplateRequest, _ *service.Actor) (*dto.TemplateResponse, error) {
	return m.getResult, m.err
}
func (m *mockTemplateService) Delete(_ context.Context, _ string, _ *service.Actor) error {
	return m.err
}
func (m *mockTemplateService) EnsureDefaultTemplates(_ context.Context) (int, error) {
	return 0, nil
}

// ── Mock SubmissionService ──

type mockSubmissionService struct {
	result    *dto.SubmissionResponse
	list      []dto.SubmissionResponse
	listReq   *dto.SubmissionListRequest
	pdf       []byte
	filename  string
	err       error
	lastActor *service.Actor
	called    bool
}

func (m *mockSubmissionService) Create(_ context.Context, _ *dto.CreateSubmissionRequest, actor *service.Actor) (*dto.SubmissionResponse, error) {
	m.called, m.lastActor = true, actor
	return m.result, m.err
}
func (m *mockSubmissionService) List(_ context.Context, req *dto.SubmissionListRequest, actor *service.Actor) ([]dto.SubmissionResponse, error) {
	m.called, m.lastActor, m.listReq = true, actor, req
	return m.list, m.err
}
func (m *mockSubmissionService) Get(_ context.Context, _ string, actor *service.Actor) (*dto.SubmissionResponse, error) {
	m.called, m.lastActor = true, actor
	return m.result, m.err
}
func (m *mockSubmissionService) UpdateStatus(_ context.Context, _ string, _ *dto.UpdateSubmissionStatusRequest, actor *service.Actor) (*dto.SubmissionResponse, error) {
	m.called, m.lastActor = true, actor
	return m.result, m.err
}
func (m *mockSubmissionService) RenderPDF(_ context.Context, _ string, actor *service.Actor) ([]byte, string, error) {
	m.called, m.lastActor = true, actor
	return m.pdf, m.filename, m.err
}

// ── Mock UploadService ──

type mockUploadService struct {
	creds *cloudinary.Credentials
	err   error
}

func (m *mockUploadService) Sign(_ context.Context, _ *dto.SignUploadRequest, _ *service.Actor) (*cloudinary.Credentials, error) {
	return m.creds, m.err
}

// ── Mock ExportService ──

type mockExportService struct {
	buf      *bytes.Buffer
	filename string
	err      error
}

func (m *mockExportService) ExportSubmissions(_ context.Context, _ *dto.SubmissionListRequest, _ *service.Actor) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

var testCookie = config.CookieConfig{Name: "auth_token", SameSite: "Lax"}

func asStudent(c *gin.Context) {
	c.Set("user_id", "student-1")
	c.Set("email", "andi@kampus.ac.id")
	c.Set("name", "Andi")
	c.Set("role", "MAHASISWA")
}

func asAdmin(c *gin.Context) {
	c.Set("user_id", "admin-1")
	c.Set("email", "admin@kampus.ac.id")
	c.Set("name", "Admin")
	c.Set("role", "ADMIN")
	c.Set("token_id", "jti-1")
	c.Set("token_expires_at", time.Now().Add(time.Hour))
}

// serve registers h at method+path behind an optional session setter and
// runs a single request.
func serve(method, path, target string, body io.Reader, session func(*gin.Context), h gin.HandlerFunc) *httptest.ResponseRecorder {
	r := gin.New()
	r.Handle(method, path, func(c *gin.Context) {
		if session != nil {
			session(c)
		}
		h(c)
	})
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var resp response.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return resp
}

// ═══════════════════════════════════════════════════════════
// AuthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Login_SetsCookie(t *testing.T) {
	mock := &mockAuthService{loginResult: &dto.LoginResponse{Token: "signed-token", ExpiresIn: 3600}}
	h := NewAuthHandler(mock, testCookie, time.Hour)

	w := serve("POST", "/auth/login", "/auth/login",
		jsonBody(dto.LoginRequest{Email: "admin@kampus.ac.id", Password: "Rahasia123!"}), nil, h.Login)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var found bool
	for _, c := range w.Result().Cookies() {
		if c.Name == "auth_token" {
			found = true
			if c.Value != "signed-token" {
				t.Errorf("cookie value = %q", c.Value)
			}
			if !c.HttpOnly {
				t.Error("session cookie must be HttpOnly")
			}
			if c.MaxAge != 3600 {
				t.Errorf("cookie max-age = %d, want 3600", c.MaxAge)
			}
		}
	}
	if !found {
		t.Error("expected auth_token cookie to be set")
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{loginErr: service.ErrInvalidCredentials}, testCookie, time.Hour)

	w := serve("POST", "/auth/login", "/auth/login",
		jsonBody(dto.LoginRequest{Email: "admin@kampus.ac.id", Password: "salah123"}), nil, h.Login)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if resp := parseResponse(t, w); resp.Code != 11001 {
		t.Errorf("expected code 11001, got %d", resp.Code)
	}
}

func TestAuthHandler_Login_BadJSON(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, testCookie, time.Hour)

	w := serve("POST", "/auth/login", "/auth/login", strings.NewReader("{not json"), nil, h.Login)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAuthHandler_Logout_ClearsCookie(t *testing.T) {
	mock := &mockAuthService{}
	h := NewAuthHandler(mock, testCookie, time.Hour)

	w := serve("POST", "/auth/logout", "/auth/logout", nil, asAdmin, h.Logout)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if mock.logoutJTI != "jti-1" {
		t.Errorf("logout jti = %q, want jti-1", mock.logoutJTI)
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == "auth_token" && c.MaxAge >= 0 {
			t.Errorf("cookie not expired: max-age %d", c.MaxAge)
		}
	}
}

func TestAuthHandler_Me_NoSession(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, testCookie, time.Hour)

	w := serve("GET", "/auth/me", "/auth/me", nil, nil, h.Me)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// UserHandler Tests
// ═══════════════════════════════════════════════════════════

func TestUserHandler_Create_FieldErrorsUseJSONNames(t *testing.T) {
	h := NewUserHandler(&mockUserService{})

	w := serve("POST", "/users", "/users",
		jsonBody(map[string]string{"name": "Budi", "password": "Rahasia123!", "role": "MAHASISWA"}), nil, h.Create)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	resp := parseResponse(t, w)
	if _, ok := resp.Errors["email"]; !ok {
		t.Errorf("expected an error for email, got %v", resp.Errors)
	}
}

func TestUserHandler_Create_AnonymousPassesNilActor(t *testing.T) {
	mock := &mockUserService{}
	h := NewUserHandler(mock)

	w := serve("POST", "/users", "/users", jsonBody(dto.CreateUserRequest{
		Name: "Budi", Email: "budi@kampus.ac.id", Password: "Rahasia123!", Role: "ADMIN",
	}), nil, h.Create)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if mock.createActor != nil {
		t.Error("anonymous request must reach the service with a nil actor")
	}
}

func TestUserHandler_Create_DuplicateEmail(t *testing.T) {
	h := NewUserHandler(&mockUserService{createErr: service.ErrEmailExists})

	w := serve("POST", "/users", "/users", jsonBody(dto.CreateUserRequest{
		Name: "Budi", Email: "budi@kampus.ac.id", Password: "Rahasia123!", Role: "ADMIN",
	}), asAdmin, h.Create)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// TemplateHandler Tests
// ═══════════════════════════════════════════════════════════

func TestTemplateHandler_Get_PassesKey(t *testing.T) {
	mock := &mockTemplateService{getResult: &dto.TemplateResponse{Slug: "cuti"}}
	h := NewTemplateHandler(mock)

	w := serve("GET", "/templates/:key", "/templates/Cuti%20Akademik", nil, nil, h.Get)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if mock.getKey != "Cuti Akademik" {
		t.Errorf("key = %q", mock.getKey)
	}
}

func TestTemplateHandler_ErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   int
	}{
		{"not found", service.ErrTemplateNotFound, http.StatusNotFound, 20002},
		{"inactive", service.ErrTemplateInactive, http.StatusForbidden, 20003},
		{"in use", service.ErrTemplateInUse, http.StatusConflict, 20006},
		{"validation", apperrors.FieldError("schema[0].name", "nama field duplikat"), http.StatusBadRequest, 20001},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewTemplateHandler(&mockTemplateService{err: tc.err})

			w := serve("DELETE", "/templates/:key", "/templates/x", nil, asAdmin, h.Delete)

			if w.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, w.Code)
			}
			if resp := parseResponse(t, w); resp.Code != tc.code {
				t.Errorf("expected code %d, got %d", tc.code, resp.Code)
			}
		})
	}
}

// ═══════════════════════════════════════════════════════════
// SubmissionHandler Tests
// ═══════════════════════════════════════════════════════════

func TestSubmissionHandler_RequiresSession(t *testing.T) {
	mock := &mockSubmissionService{}
	h := NewSubmissionHandler(mock)

	w := serve("GET", "/submissions", "/submissions", nil, nil, h.List)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if mock.called {
		t.Error("service must not be called without a session")
	}
}

func TestSubmissionHandler_List_BindsFilters(t *testing.T) {
	mock := &mockSubmissionService{list: []dto.SubmissionResponse{}}
	h := NewSubmissionHandler(mock)

	w := serve("GET", "/submissions", "/submissions?status=APPROVED&templateId=abc", nil, asStudent, h.List)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if mock.listReq.Status != "APPROVED" || mock.listReq.TemplateID != "abc" {
		t.Errorf("filters = %+v", mock.listReq)
	}
	if mock.lastActor == nil || mock.lastActor.ID != "student-1" {
		t.Errorf("actor = %+v", mock.lastActor)
	}
}

func TestSubmissionHandler_List_UnknownStatus(t *testing.T) {
	h := NewSubmissionHandler(&mockSubmissionService{})

	w := serve("GET", "/submissions", "/submissions?status=ARCHIVED", nil, asAdmin, h.List)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestSubmissionHandler_Create_ValidationFields(t *testing.T) {
	ve := apperrors.NewValidationError("Data tidak valid")
	ve.Add("payload.alasan", "Alasan wajib diisi")
	h := NewSubmissionHandler(&mockSubmissionService{err: ve})

	w := serve("POST", "/submissions", "/submissions",
		jsonBody(map[string]any{"templateId": "t-1", "payload": map[string]any{}}), asStudent, h.Create)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	resp := parseResponse(t, w)
	if resp.Code != 30001 {
		t.Errorf("expected code 30001, got %d", resp.Code)
	}
	if resp.Errors["payload.alasan"] != "Alasan wajib diisi" {
		t.Errorf("errors = %v", resp.Errors)
	}
}

func TestSubmissionHandler_Create_UnknownTemplateIsBadRequest(t *testing.T) {
	h := NewSubmissionHandler(&mockSubmissionService{err: apperrors.FieldError("templateId", "template tidak ditemukan")})

	w := serve("POST", "/submissions", "/submissions",
		jsonBody(map[string]any{"templateId": "tidak-ada", "payload": map[string]any{}}), asStudent, h.Create)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	resp := parseResponse(t, w)
	if resp.Code != 30001 || resp.Errors["templateId"] == "" {
		t.Errorf("code = %d, errors = %v", resp.Code, resp.Errors)
	}
}

func TestSubmissionHandler_UpdateStatus_StudentForbidden(t *testing.T) {
	h := NewSubmissionHandler(&mockSubmissionService{err: service.ErrStatusAdminOnly})

	w := serve("PATCH", "/submissions/:id", "/submissions/s-1",
		jsonBody(map[string]string{"status": "APPROVED"}), asStudent, h.UpdateStatus)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
	if resp := parseResponse(t, w); resp.Code != 30005 {
		t.Errorf("expected code 30005, got %d", resp.Code)
	}
}

func TestSubmissionHandler_UpdateStatus_InvalidStatus(t *testing.T) {
	mock := &mockSubmissionService{}
	h := NewSubmissionHandler(mock)

	w := serve("PATCH", "/submissions/:id", "/submissions/s-1",
		jsonBody(map[string]string{"status": "DONE"}), asAdmin, h.UpdateStatus)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if _, ok := parseResponse(t, w).Errors["status"]; !ok {
		t.Error("expected a field error for status")
	}
	if mock.called {
		t.Error("service must not be called for an unknown status")
	}
}

func TestSubmissionHandler_Get_NotFound(t *testing.T) {
	h := NewSubmissionHandler(&mockSubmissionService{err: service.ErrSubmissionNotFound})

	w := serve("GET", "/submissions/:id", "/submissions/missing", nil, asAdmin, h.Get)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestSubmissionHandler_PDF_Headers(t *testing.T) {
	pdf := []byte("%PDF-1.3 test")
	h := NewSubmissionHandler(&mockSubmissionService{pdf: pdf, filename: "surat-s-1.pdf"})

	w := serve("GET", "/submissions/:id/pdf", "/submissions/s-1/pdf", nil, asStudent, h.PDF)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("content-type = %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); cd != `attachment; filename="surat-s-1.pdf"` {
		t.Errorf("content-disposition = %q", cd)
	}
	if !bytes.Equal(w.Body.Bytes(), pdf) {
		t.Error("body differs from rendered bytes")
	}
}

func TestSubmissionHandler_PDF_RenderFailure(t *testing.T) {
	h := NewSubmissionHandler(&mockSubmissionService{err: &apperrors.RenderError{Reason: "missing template"}})

	w := serve("GET", "/submissions/:id/pdf", "/submissions/s-1/pdf", nil, asAdmin, h.PDF)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// UploadHandler / ExportHandler Tests
// ═══════════════════════════════════════════════════════════

func TestUploadHandler_Sign_EmptyBody(t *testing.T) {
	creds := &cloudinary.Credentials{Signature: "abc", Timestamp: 1700000000, APIKey: "key", CloudName: "demo"}
	h := NewUploadHandler(&mockUploadService{creds: creds})

	w := serve("POST", "/uploads/sign", "/uploads/sign", nil, asStudent, h.Sign)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestUploadHandler_Sign_NotConfigured(t *testing.T) {
	h := NewUploadHandler(&mockUploadService{err: service.ErrUploadNotConfigured})

	w := serve("POST", "/uploads/sign", "/uploads/sign", jsonBody(dto.SignUploadRequest{}), asStudent, h.Sign)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestExportHandler_Headers(t *testing.T) {
	h := NewExportHandler(&mockExportService{buf: bytes.NewBufferString("xlsx"), filename: "pengajuan_20261015.xlsx"})

	w := serve("GET", "/submissions/export", "/submissions/export", nil, asAdmin, h.ExportSubmissions)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != xlsxContentType {
		t.Errorf("content-type = %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "pengajuan_20261015.xlsx") {
		t.Errorf("content-disposition = %q", cd)
	}
}

func TestExportHandler_StudentForbidden(t *testing.T) {
	h := NewExportHandler(&mockExportService{err: service.ErrExportAdminOnly})

	w := serve("GET", "/submissions/export", "/submissions/export", nil, asStudent, h.ExportSubmissions)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
}

package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Afnanpathan2004/livedisplay-sub001/config"
	"github.com/Afnanpathan2004/livedisplay-sub001/internal/api/handler"
	"github.com/Afnanpathan2004/livedisplay-sub001/internal/model"
	"github.com/Afnanpathan2004/livedisplay-sub001/internal/realtime"
	"github.com/Afnanpathan2004/livedisplay-sub001/internal/repository/memory"
	"github.com/Afnanpathan2004/livedisplay-sub001/internal/service"
	"github.com/Afnanpathan2004/livedisplay-sub001/pkg/jwt"
)

type testServer struct {
	engine *gin.Engine
	jwtMgr *jwt.Manager
}

func newTestServer(t *testing.T, enterprise bool) *testServer {
	t.Helper()
	return newTestServerWithLogger(t, enterprise, zap.NewNop())
}

func newTestServerWithLogger(t *testing.T, enterprise bool, logger *zap.Logger) *testServer {
	t.Helper()
	cfg := &config.Config{
		Server: config.ServerConfig{Env: "test", BodyLimitBytes: 1 << 20},
		Auth: config.AuthConfig{
			JWTSecret:        "router-test-access-secret-32-bytes!!",
			JWTRefreshSecret: "router-test-refresh-secret-32-bytes!",
			AccessTokenTTL:   15 * time.Minute,
			RefreshTokenTTL:  time.Hour,
		},
		Feature: config.FeatureConfig{EnterpriseEnabled: enterprise, RegistrationEnabled: true},
	}
	jwtMgr := jwt.NewManager(&cfg.Auth)
	svc := service.NewService(cfg, memory.NewRepository(), jwtMgr, nil, realtime.Nop{}, logger)

	return &testServer{
		engine: Setup(cfg, handler.NewHandler(svc), jwtMgr, nil, nil, logger),
		jwtMgr: jwtMgr,
	}
}

func (s *testServer) do(t *testing.T, method, path, role string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		token, err := s.jwtMgr.GenerateAccessToken("00000000-0000-0000-0000-000000000001", role+"-user", role)
		if err != nil {
			t.Fatalf("GenerateAccessToken failed: %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, false)
	w := s.do(t, "GET", "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}
}

func TestScheduleRoutes_Permissions(t *testing.T) {
	s := newTestServer(t, false)
	entry := map[string]interface{}{
		"date": "2026-03-02", "start_time": "09:00", "end_time": "10:00",
		"room_number": "A101", "subject": "Calculus", "faculty_name": "Dr. Rao",
	}

	if w := s.do(t, "GET", "/api/schedule", "", nil); w.Code != http.StatusOK {
		t.Errorf("public read: expected 200, got %d", w.Code)
	}
	if w := s.do(t, "POST", "/api/schedule", "", entry); w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous write: expected 401, got %d", w.Code)
	}
	if w := s.do(t, "POST", "/api/schedule", model.RoleViewer, entry); w.Code != http.StatusForbidden {
		t.Errorf("viewer write: expected 403, got %d", w.Code)
	}
	if w := s.do(t, "POST", "/api/schedule", model.RoleEditor, entry); w.Code != http.StatusCreated {
		t.Errorf("editor write: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	// 同教室重叠时段
	entry["start_time"], entry["end_time"] = "09:30", "10:30"
	if w := s.do(t, "POST", "/api/schedule", model.RoleEditor, entry); w.Code != http.StatusConflict {
		t.Errorf("overlap: expected 409, got %d", w.Code)
	}
}

func TestExportRoutes_Permissions(t *testing.T) {
	s := newTestServer(t, false)

	if w := s.do(t, "GET", "/api/export/schedule?format=json", model.RoleViewer, nil); w.Code != http.StatusForbidden {
		t.Errorf("viewer export: expected 403, got %d", w.Code)
	}
	if w := s.do(t, "GET", "/api/export/schedule?format=json", model.RoleEditor, nil); w.Code != http.StatusOK {
		t.Errorf("editor export: expected 200, got %d", w.Code)
	}
	body := map[string]interface{}{"entries": []map[string]string{{"date": "2026-03-02"}}}
	if w := s.do(t, "POST", "/api/export/schedule/import", model.RoleEditor, body); w.Code != http.StatusForbidden {
		t.Errorf("editor import: expected 403, got %d", w.Code)
	}
	if w := s.do(t, "POST", "/api/export/schedule/import", model.RoleAdmin, body); w.Code != http.StatusOK {
		t.Errorf("admin import: expected 200, got %d", w.Code)
	}
}

func TestEnterpriseRoutes_FeatureFlag(t *testing.T) {
	off := newTestServer(t, false)
	if w := off.do(t, "GET", "/api/rooms", model.RoleAdmin, nil); w.Code != http.StatusNotFound {
		t.Errorf("disabled: expected 404, got %d", w.Code)
	}

	on := newTestServer(t, true)
	if w := on.do(t, "GET", "/api/rooms", model.RoleAdmin, nil); w.Code != http.StatusOK {
		t.Errorf("enabled: expected 200, got %d", w.Code)
	}
	if w := on.do(t, "GET", "/api/rooms", model.RoleViewer, nil); w.Code != http.StatusForbidden {
		t.Errorf("viewer rooms: expected 403, got %d", w.Code)
	}
	if w := on.do(t, "GET", "/api/notifications", model.RoleViewer, nil); w.Code != http.StatusOK {
		t.Errorf("own notifications: expected 200, got %d", w.Code)
	}
}

func TestAuthMe_RequiresToken(t *testing.T) {
	s := newTestServer(t, false)
	if w := s.do(t, "GET", "/api/auth/me", "", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestUserRoutes_RequireUsersManage(t *testing.T) {
	s := newTestServer(t, false)
	if w := s.do(t, "GET", "/api/users", model.RoleEditor, nil); w.Code != http.StatusForbidden {
		t.Errorf("editor: expected 403, got %d", w.Code)
	}
	if w := s.do(t, "GET", "/api/users", model.RoleAdmin, nil); w.Code != http.StatusOK {
		t.Errorf("admin: expected 200, got %d", w.Code)
	}
}

func TestPanicRequest_IsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	s := newTestServerWithLogger(t, false, zap.New(core))
	s.engine.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := s.do(t, "GET", "/boom", "", nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}

	requestID := w.Header().Get("X-Request-ID")
	for _, msg := range []string{"请求处理 panic", "请求处理出错", "请求处理失败"} {
		entries := logs.FilterMessage(msg).All()
		if len(entries) == 0 {
			t.Errorf("missing log entry %q", msg)
			continue
		}
		if got := entries[0].ContextMap()["request_id"]; got != requestID {
			t.Errorf("%q: request_id = %v, want %s", msg, got, requestID)
		}
	}
}

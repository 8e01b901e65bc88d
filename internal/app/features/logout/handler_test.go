package logout_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/baodpham/sanihub/internal/app/features/logout"
	"github.com/baodpham/sanihub/internal/app/features/resource"
	"github.com/baodpham/sanihub/internal/app/system/auth"
)

// recordingDropper captures the session IDs released at logout.
type recordingDropper struct {
	dropped []string
}

func (d *recordingDropper) DropSession(id string) { d.dropped = append(d.dropped, id) }

func newSessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager("test-session-key-for-testing-only", "test-session", "", false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	return sm
}

func signIn(t *testing.T, sm *auth.SessionManager) []*http.Cookie {
	t.Helper()
	req := httptest.NewRequest("GET", "/setup", nil)
	rec := httptest.NewRecorder()
	err := sm.SignIn(rec, req, &auth.SessionUser{
		ID:      "user-1",
		Name:    "Nguyen Van A",
		LoginID: "admin@example.com",
		Role:    "admin",
	})
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	return rec.Result().Cookies()
}

func TestServeLogout_RedirectsToHome(t *testing.T) {
	sm := newSessionManager(t)
	handler := logout.NewHandler(sm, nil, zap.NewNop())

	req := httptest.NewRequest("GET", "/logout", nil)
	rec := httptest.NewRecorder()

	handler.ServeLogout(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Errorf("Location: got %q, want %q", loc, "/")
	}
}

func TestServeLogout_ClearsSessionCookie(t *testing.T) {
	sm := newSessionManager(t)
	handler := logout.NewHandler(sm, nil, zap.NewNop())

	req := httptest.NewRequest("GET", "/logout", nil)
	for _, c := range signIn(t, sm) {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()

	handler.ServeLogout(rec, req)

	found := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == "test-session" {
			found = true
			if c.MaxAge != -1 {
				t.Errorf("cookie MaxAge: got %d, want -1 (delete)", c.MaxAge)
			}
			break
		}
	}
	if !found {
		t.Error("expected session cookie to be set for deletion")
	}
}

func TestServeLogout_DropsDialogState(t *testing.T) {
	sm := newSessionManager(t)
	dropper := &recordingDropper{}
	handler := logout.NewHandler(sm, []resource.SessionDropper{dropper}, zap.NewNop())

	req := httptest.NewRequest("GET", "/logout", nil)
	for _, c := range signIn(t, sm) {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()

	handler.ServeLogout(rec, req)

	if len(dropper.dropped) != 1 {
		t.Fatalf("expected 1 dropped session, got %d", len(dropper.dropped))
	}
	if dropper.dropped[0] == "" {
		t.Error("dropped session ID should not be empty")
	}
}

func TestServeLogout_AnonymousSkipsDroppers(t *testing.T) {
	sm := newSessionManager(t)
	dropper := &recordingDropper{}
	handler := logout.NewHandler(sm, []resource.SessionDropper{dropper}, zap.NewNop())

	req := httptest.NewRequest("GET", "/logout", nil)
	rec := httptest.NewRecorder()

	handler.ServeLogout(rec, req)

	if len(dropper.dropped) != 0 {
		t.Errorf("expected no dropped sessions for anonymous request, got %d", len(dropper.dropped))
	}
}

package auth_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/baodpham/sanihub/internal/app/system/auth"
)

func newTestSessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager(
		"test-session-key-must-be-32-chars-long",
		"test-session",
		"",
		false,
		zap.NewNop(),
	)
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}
	return sm
}

func TestNewSessionManager_EmptyKeyRejected(t *testing.T) {
	_, err := auth.NewSessionManager("", "test-session", "", false, zap.NewNop())
	if err == nil {
		t.Fatal("expected error for empty session key")
	}
}

func TestRequireSignedIn_NoUser_RedirectsToLogin(t *testing.T) {
	sm := newTestSessionManager(t)

	handler := sm.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("protected content"))
	}))

	req := httptest.NewRequest("GET", "/floors?tab=active", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}

	location := rec.Header().Get("Location")
	if !strings.HasPrefix(location, "/login?return=") {
		t.Fatalf("expected redirect to /login with return target, got %q", location)
	}

	u, err := url.Parse(location)
	if err != nil {
		t.Fatalf("redirect location does not parse: %v", err)
	}
	if got := u.Query().Get("return"); got != "/floors?tab=active" {
		t.Errorf("return target: got %q, want %q", got, "/floors?tab=active")
	}
}

func TestRequireSignedIn_WithUser_Proceeds(t *testing.T) {
	sm := newTestSessionManager(t)

	called := false
	handler := sm.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/floors", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{
		ID:      "507f1f77bcf86cd799439011",
		Name:    "Nguyen Van A",
		LoginID: "admin@example.com",
		Role:    "admin",
	})
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if !called {
		t.Error("expected handler to be called")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
}

func TestSignIn_ThenLoadSessionUser(t *testing.T) {
	sm := newTestSessionManager(t)

	signInReq := httptest.NewRequest("POST", "/login", nil)
	signInRec := httptest.NewRecorder()
	user := &auth.SessionUser{
		ID:      "507f1f77bcf86cd799439011",
		Name:    "Tran Thi B",
		LoginID: "supervisor@example.com",
		Role:    "supervisor",
	}
	if err := sm.SignIn(signInRec, signInReq, user); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}

	var loaded *auth.SessionUser
	handler := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		loaded, _ = auth.CurrentUser(r)
	}))

	req := httptest.NewRequest("GET", "/", nil)
	for _, c := range signInRec.Result().Cookies() {
		req.AddCookie(c)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if loaded == nil {
		t.Fatal("expected a user to be loaded from the session")
	}
	if loaded.Name != "Tran Thi B" || loaded.Role != "supervisor" {
		t.Errorf("loaded user = %+v, want name/role from SignIn", loaded)
	}
}

func TestSessionID_RequiresAuthenticatedSession(t *testing.T) {
	sm := newTestSessionManager(t)

	// No session at all.
	anon := httptest.NewRequest("GET", "/", nil)
	if id := sm.SessionID(anon); id != "" {
		t.Errorf("expected empty session ID for anonymous request, got %q", id)
	}

	// Signed-in session carries a stable non-empty ID.
	signInReq := httptest.NewRequest("POST", "/login", nil)
	signInRec := httptest.NewRecorder()
	err := sm.SignIn(signInRec, signInReq, &auth.SessionUser{ID: "u1", Name: "A", LoginID: "a@example.com", Role: "staff"})
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}

	req := httptest.NewRequest("GET", "/", nil)
	for _, c := range signInRec.Result().Cookies() {
		req.AddCookie(c)
	}
	first := sm.SessionID(req)
	if first == "" {
		t.Fatal("expected non-empty session ID after sign-in")
	}
	if second := sm.SessionID(req); second != first {
		t.Errorf("session ID not stable: %q then %q", first, second)
	}
}

func TestSignOut_ClearsSession(t *testing.T) {
	sm := newTestSessionManager(t)

	signInReq := httptest.NewRequest("POST", "/login", nil)
	signInRec := httptest.NewRecorder()
	err := sm.SignIn(signInRec, signInReq, &auth.SessionUser{ID: "u1", Name: "A", LoginID: "a@example.com", Role: "staff"})
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}

	req := httptest.NewRequest("GET", "/logout", nil)
	for _, c := range signInRec.Result().Cookies() {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	if err := sm.SignOut(rec, req); err != nil {
		t.Fatalf("SignOut failed: %v", err)
	}

	for _, c := range rec.Result().Cookies() {
		if c.Name == "test-session" && c.MaxAge != -1 {
			t.Errorf("cookie MaxAge after sign-out: got %d, want -1", c.MaxAge)
		}
	}
}

func TestCurrentUser_NoUser(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)

	user, ok := auth.CurrentUser(req)

	if ok {
		t.Error("expected ok to be false when no user in context")
	}
	if user != nil {
		t.Error("expected user to be nil when no user in context")
	}
}

package resource_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"

	uierrors "github.com/baodpham/sanihub/internal/app/features/errors"
	"github.com/baodpham/sanihub/internal/app/features/resource"
	"github.com/baodpham/sanihub/internal/app/system/auth"
	"github.com/baodpham/sanihub/internal/app/system/flash"
	"github.com/baodpham/sanihub/internal/app/system/listpage"
	"github.com/baodpham/sanihub/internal/app/system/modalflow"
	"github.com/baodpham/sanihub/internal/testutil"
)

type widget struct {
	ID     string
	Name   string
	Status string
}

// memGateway is an in-memory modalflow.Gateway for engine tests.
type memGateway struct {
	mu      sync.Mutex
	nextID  int
	widgets []widget
}

func (g *memGateway) List(ctx context.Context) ([]widget, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]widget, len(g.widgets))
	copy(out, g.widgets)
	return out, nil
}

func (g *memGateway) GetByID(ctx context.Context, id string) (widget, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, w := range g.widgets {
		if w.ID == id {
			return w, nil
		}
	}
	return widget{}, fmt.Errorf("widget %s not found", id)
}

func (g *memGateway) Create(ctx context.Context, draft modalflow.Draft) (widget, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nextID++
	w := widget{
		ID:     strconv.Itoa(g.nextID),
		Name:   draft["name"],
		Status: draft["status"],
	}
	g.widgets = append(g.widgets, w)
	return w, nil
}

func (g *memGateway) Update(ctx context.Context, id string, draft modalflow.Draft) (widget, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i, w := range g.widgets {
		if w.ID == id {
			g.widgets[i].Name = draft["name"]
			g.widgets[i].Status = draft["status"]
			return g.widgets[i], nil
		}
	}
	return widget{}, fmt.Errorf("widget %s not found", id)
}

func (g *memGateway) Delete(ctx context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i, w := range g.widgets {
		if w.ID == id {
			g.widgets = append(g.widgets[:i], g.widgets[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("widget %s not found", id)
}

func (g *memGateway) count() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.widgets)
}

func widgetDescriptor() resource.Descriptor[widget] {
	return resource.Descriptor[widget]{
		Slug:     "widgets",
		Singular: "widget",
		Plural:   "Widgets",
		Fields: []resource.FormField{
			{Name: "name", Label: "Name", Kind: resource.InputText, Required: true},
			{Name: "status", Label: "Status", Kind: resource.InputText},
		},
		Columns: []string{"Name", "Status"},
		Cells:   func(w widget) []string { return []string{w.Name, w.Status} },
		Details: func(w widget) []resource.Detail {
			return []resource.Detail{{Label: "Name", Value: w.Name}}
		},
		View: listpage.View[widget]{
			Matches: func(w widget, needle string) bool {
				return strings.Contains(listpage.Fold(w.Name), needle)
			},
			Category: func(w widget) string { return w.Status },
			Label:    func(w widget) string { return w.Name },
		},
		ID:   func(w widget) string { return w.ID },
		Seed: func(w widget) modalflow.Draft { return modalflow.Draft{"name": w.Name, "status": w.Status} },
	}
}

func newTestEngine(t *testing.T) (*resource.Handler[widget], *memGateway, *auth.SessionManager) {
	t.Helper()
	logger := zap.NewNop()
	sm, err := auth.NewSessionManager("test-session-key-for-testing-only", "test-session", "", false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	toasts := flash.NewQueue(sm.Store(), logger)
	errLog := uierrors.NewErrorLogger(logger)

	gw := &memGateway{}
	h := resource.NewHandler(widgetDescriptor(), gw, sm, toasts, errLog, logger)
	return h, gw, sm
}

// signIn establishes a session and returns its cookies.
func signIn(t *testing.T, sm *auth.SessionManager, user testutil.TestUser) []*http.Cookie {
	t.Helper()
	req := httptest.NewRequest("GET", "/setup", nil)
	rec := httptest.NewRecorder()
	err := sm.SignIn(rec, req, &auth.SessionUser{ID: user.ID, Name: user.Name, LoginID: user.Email, Role: user.Role})
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	return rec.Result().Cookies()
}

func sessionRequest(method, target string, cookies []*http.Cookie, user testutil.TestUser) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return testutil.WithUser(req, user)
}

func formRequest(target string, cookies []*http.Cookie, user testutil.TestUser, form url.Values) *http.Request {
	req := httptest.NewRequest("POST", target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return testutil.WithUser(req, user)
}

func TestServeOpenAdd_OpensDialogAndRedirects(t *testing.T) {
	h, _, sm := newTestEngine(t)
	admin := testutil.AdminUser()
	cookies := signIn(t, sm, admin)

	req := sessionRequest("GET", "/widgets/new", cookies, admin)
	rec := httptest.NewRecorder()
	h.ServeOpenAdd(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/widgets" {
		t.Errorf("Location: got %q, want %q", loc, "/widgets")
	}

	check := sessionRequest("GET", "/widgets", cookies, admin)
	if got := h.Orchestrator(check).Phase(); got != modalflow.Adding {
		t.Errorf("phase after open add: got %v, want Adding", got)
	}
}

func TestServeSubmit_CreatesRecordAndClosesDialog(t *testing.T) {
	h, gw, sm := newTestEngine(t)
	admin := testutil.AdminUser()
	cookies := signIn(t, sm, admin)

	h.ServeOpenAdd(httptest.NewRecorder(), sessionRequest("GET", "/widgets/new", cookies, admin))

	form := url.Values{"name": {"Mop cart"}, "status": {"active"}}
	rec := httptest.NewRecorder()
	h.ServeSubmit(rec, formRequest("/widgets", cookies, admin, form))

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
	if gw.count() != 1 {
		t.Fatalf("expected 1 widget after submit, got %d", gw.count())
	}

	check := sessionRequest("GET", "/widgets", cookies, admin)
	if got := h.Orchestrator(check).Phase(); got != modalflow.Closed {
		t.Errorf("phase after successful submit: got %v, want Closed", got)
	}
}

func TestServeSubmit_MissingRequiredFieldKeepsDialogOpen(t *testing.T) {
	h, gw, sm := newTestEngine(t)
	admin := testutil.AdminUser()
	cookies := signIn(t, sm, admin)

	h.ServeOpenAdd(httptest.NewRecorder(), sessionRequest("GET", "/widgets/new", cookies, admin))

	form := url.Values{"status": {"active"}}
	h.ServeSubmit(httptest.NewRecorder(), formRequest("/widgets", cookies, admin, form))

	if gw.count() != 0 {
		t.Errorf("expected no widgets after invalid submit, got %d", gw.count())
	}

	check := sessionRequest("GET", "/widgets", cookies, admin)
	if got := h.Orchestrator(check).Phase(); got != modalflow.Adding {
		t.Errorf("phase after invalid submit: got %v, want Adding", got)
	}
}

func TestServeSubmit_WithoutOpenDialogRedirects(t *testing.T) {
	h, gw, sm := newTestEngine(t)
	admin := testutil.AdminUser()
	cookies := signIn(t, sm, admin)

	form := url.Values{"name": {"Orphan"}}
	rec := httptest.NewRecorder()
	h.ServeSubmit(rec, formRequest("/widgets", cookies, admin, form))

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
	if gw.count() != 0 {
		t.Errorf("expected no widgets, got %d", gw.count())
	}
}

func TestServeDelete_RequiresConfirmation(t *testing.T) {
	h, gw, sm := newTestEngine(t)
	admin := testutil.AdminUser()
	cookies := signIn(t, sm, admin)

	seeded, err := gw.Create(context.Background(), modalflow.Draft{"name": "Bucket", "status": "active"})
	if err != nil {
		t.Fatalf("seed create failed: %v", err)
	}

	// No confirm field: the delete must be a no-op.
	req := formRequest("/widgets/"+seeded.ID+"/delete", cookies, admin, url.Values{})
	req = testutil.WithChiURLParam(req, "id", seeded.ID)
	h.ServeDelete(httptest.NewRecorder(), req)

	if gw.count() != 1 {
		t.Fatalf("expected widget to survive unconfirmed delete, got %d records", gw.count())
	}

	// Explicit confirmation removes it.
	req = formRequest("/widgets/"+seeded.ID+"/delete", cookies, admin, url.Values{"confirm": {"yes"}})
	req = testutil.WithChiURLParam(req, "id", seeded.ID)
	h.ServeDelete(httptest.NewRecorder(), req)

	if gw.count() != 0 {
		t.Errorf("expected widget to be deleted, got %d records", gw.count())
	}
}

func TestServeOpenView_MissingRecordRedirects(t *testing.T) {
	h, _, sm := newTestEngine(t)
	admin := testutil.AdminUser()
	cookies := signIn(t, sm, admin)

	req := sessionRequest("GET", "/widgets/42/view", cookies, admin)
	req = testutil.WithChiURLParam(req, "id", "42")
	rec := httptest.NewRecorder()
	h.ServeOpenView(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}

	check := sessionRequest("GET", "/widgets", cookies, admin)
	if got := h.Orchestrator(check).Phase(); got != modalflow.Closed {
		t.Errorf("phase after viewing missing record: got %v, want Closed", got)
	}
}

func TestServeOpenAdd_StaffForbidden(t *testing.T) {
	h, _, sm := newTestEngine(t)
	staff := testutil.StaffUser()
	cookies := signIn(t, sm, staff)

	req := sessionRequest("GET", "/widgets/new", cookies, staff)
	rec := httptest.NewRecorder()

	// The forbidden page renders a template, which panics without an
	// initialized engine.
	func() {
		defer func() { recover() }()
		h.ServeOpenAdd(rec, req)
	}()

	check := sessionRequest("GET", "/widgets", cookies, staff)
	if got := h.Orchestrator(check).Phase(); got != modalflow.Closed {
		t.Errorf("phase after forbidden open add: got %v, want Closed", got)
	}
}

func TestDropSession_DiscardsOpenDialog(t *testing.T) {
	h, _, sm := newTestEngine(t)
	admin := testutil.AdminUser()
	cookies := signIn(t, sm, admin)

	req := sessionRequest("GET", "/widgets/new", cookies, admin)
	h.ServeOpenAdd(httptest.NewRecorder(), req)

	h.DropSession(sm.SessionID(req))

	check := sessionRequest("GET", "/widgets", cookies, admin)
	if got := h.Orchestrator(check).Phase(); got != modalflow.Closed {
		t.Errorf("phase after DropSession: got %v, want Closed", got)
	}
}

func TestTitleCase(t *testing.T) {
	tests := []struct{ in, want string }{
		{"floor", "Floor"},
		{"leave request approved.", "Leave request approved."},
		{"đã gửi", "Đã gửi"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := resource.TitleCase(tt.in); got != tt.want {
			t.Errorf("TitleCase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

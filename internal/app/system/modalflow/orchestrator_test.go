package modalflow

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"testing"
)

type item struct {
	ID   string
	Name string
}

type fakeGateway struct {
	mu sync.Mutex

	detail    item
	getErr    error
	createErr error
	updateErr error
	deleteErr error

	// block, when set, stalls Create/Update until released.
	block chan struct{}

	listCalls   int
	getCalls    int
	createCalls int
	updateCalls int
	deleteCalls int
}

func (g *fakeGateway) count(n *int) {
	g.mu.Lock()
	*n++
	g.mu.Unlock()
}

func (g *fakeGateway) List(ctx context.Context) ([]item, error) {
	g.count(&g.listCalls)
	return nil, nil
}

func (g *fakeGateway) GetByID(ctx context.Context, id string) (item, error) {
	g.count(&g.getCalls)
	if g.getErr != nil {
		return item{}, g.getErr
	}
	return g.detail, nil
}

func (g *fakeGateway) Create(ctx context.Context, draft Draft) (item, error) {
	g.count(&g.createCalls)
	if g.block != nil {
		<-g.block
	}
	if g.createErr != nil {
		return item{}, g.createErr
	}
	return item{ID: "new", Name: draft["name"]}, nil
}

func (g *fakeGateway) Update(ctx context.Context, id string, draft Draft) (item, error) {
	g.count(&g.updateCalls)
	if g.block != nil {
		<-g.block
	}
	if g.updateErr != nil {
		return item{}, g.updateErr
	}
	return item{ID: id, Name: draft["name"]}, nil
}

func (g *fakeGateway) Delete(ctx context.Context, id string) error {
	g.count(&g.deleteCalls)
	return g.deleteErr
}

type recordedNote struct {
	Message  string
	Severity Severity
}

type recordingNotifier struct {
	mu    sync.Mutex
	notes []recordedNote
}

func (n *recordingNotifier) Notify(message string, severity Severity) {
	n.mu.Lock()
	n.notes = append(n.notes, recordedNote{message, severity})
	n.mu.Unlock()
}

func (n *recordingNotifier) all() []recordedNote {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]recordedNote, len(n.notes))
	copy(out, n.notes)
	return out
}

type fixedConfirmer bool

func (c fixedConfirmer) Confirm(string) bool { return bool(c) }

func newTestOrchestrator(gw *fakeGateway) (*Orchestrator[item], *recordingNotifier, *int) {
	notifier := &recordingNotifier{}
	invalidations := 0
	o := New(Config[item]{
		Gateway:  gw,
		Notifier: notifier,
		Schema: Schema{
			Resource: "floor",
			Fields: []Field{
				{Name: "name", Label: "Name", Required: true},
				{Name: "description", Label: "Description"},
			},
		},
		ID:         func(i item) string { return i.ID },
		Seed:       func(i item) Draft { return Draft{"name": i.Name} },
		Invalidate: func() { invalidations++ },
	})
	return o, notifier, &invalidations
}

func TestOpenAdd_StartsWithEmptyDraft(t *testing.T) {
	o, _, _ := newTestOrchestrator(&fakeGateway{})

	if err := o.OpenAdd(); err != nil {
		t.Fatalf("OpenAdd: %v", err)
	}
	if o.Phase() != Adding {
		t.Errorf("phase = %v, want Adding", o.Phase())
	}
	if got := o.DraftValue("name"); got != "" {
		t.Errorf("draft name = %q, want empty", got)
	}
}

func TestOpenAdd_ImplicitlyClosesPriorDialog(t *testing.T) {
	gw := &fakeGateway{detail: item{ID: "f1", Name: "Tầng 1"}}
	o, _, _ := newTestOrchestrator(gw)

	if _, err := o.OpenView(context.Background(), item{ID: "f1", Name: "Tầng 1"}); err != nil {
		t.Fatalf("OpenView: %v", err)
	}
	if err := o.OpenAdd(); err != nil {
		t.Fatalf("OpenAdd over Viewing: %v", err)
	}
	if o.Phase() != Adding {
		t.Errorf("phase = %v, want Adding (prior dialog replaced)", o.Phase())
	}
	if o.Detail() != DetailNone {
		t.Errorf("detail state = %v, want DetailNone after replacement", o.Detail())
	}
}

func TestSubmit_MissingRequiredField(t *testing.T) {
	gw := &fakeGateway{}
	o, notifier, _ := newTestOrchestrator(gw)

	if err := o.OpenAdd(); err != nil {
		t.Fatalf("OpenAdd: %v", err)
	}
	if err := o.UpdateDraft(Draft{"name": "   ", "description": "mezzanine"}); err != nil {
		t.Fatalf("UpdateDraft: %v", err)
	}

	err := o.Submit(context.Background())

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Submit err = %v, want ValidationError", err)
	}
	if o.Submission() != Idle {
		t.Errorf("submission = %v, want Idle", o.Submission())
	}
	if o.Phase() != Adding {
		t.Errorf("phase = %v, want Adding (dialog stays open)", o.Phase())
	}
	if gw.createCalls != 0 {
		t.Errorf("gateway Create called %d times, want 0", gw.createCalls)
	}
	notes := notifier.all()
	if len(notes) != 1 {
		t.Fatalf("notifications = %d, want exactly 1", len(notes))
	}
	if notes[0].Severity != SeverityError {
		t.Errorf("severity = %v, want error", notes[0].Severity)
	}
}

func TestOpenView_DetailFetchFallsBackToSummary(t *testing.T) {
	gw := &fakeGateway{getErr: errors.New("gateway timeout")}
	o, notifier, _ := newTestOrchestrator(gw)

	summary := item{ID: "f2", Name: "Tầng 2"}
	state, err := o.OpenView(context.Background(), summary)
	if err != nil {
		t.Fatalf("OpenView: %v", err)
	}

	if state != DetailFallback {
		t.Errorf("detail state = %v, want DetailFallback", state)
	}
	if o.Phase() != Viewing {
		t.Errorf("phase = %v, want Viewing", o.Phase())
	}
	rec, ok := o.Record()
	if !ok || rec != summary {
		t.Errorf("record = %+v, want the summary record", rec)
	}
	if !o.UsingCachedData() {
		t.Error("UsingCachedData() = false, want true")
	}
	// A soft fallback is an indicator, not an error notification.
	if len(notifier.all()) != 0 {
		t.Errorf("notifications = %d, want 0", len(notifier.all()))
	}
	if err := o.Close(); err != nil {
		t.Errorf("Close after fallback: %v", err)
	}
}

func TestOpenView_DetailFetchLoads(t *testing.T) {
	detail := item{ID: "f2", Name: "Tầng 2 — khu A"}
	gw := &fakeGateway{detail: detail}
	o, _, _ := newTestOrchestrator(gw)

	state, err := o.OpenView(context.Background(), item{ID: "f2", Name: "Tầng 2"})
	if err != nil {
		t.Fatalf("OpenView: %v", err)
	}
	if state != DetailLoaded {
		t.Errorf("detail state = %v, want DetailLoaded", state)
	}
	rec, _ := o.Record()
	if rec != detail {
		t.Errorf("record = %+v, want detail record", rec)
	}
}

func TestSubmit_UpdateSuccess(t *testing.T) {
	gw := &fakeGateway{}
	o, notifier, invalidations := newTestOrchestrator(gw)

	if err := o.OpenEdit(item{ID: "f3", Name: "Tầng 3"}); err != nil {
		t.Fatalf("OpenEdit: %v", err)
	}
	if got := o.DraftValue("name"); got != "Tầng 3" {
		t.Errorf("seeded draft name = %q, want %q", got, "Tầng 3")
	}
	if err := o.UpdateDraft(Draft{"name": "Tầng 3B"}); err != nil {
		t.Fatalf("UpdateDraft: %v", err)
	}

	if err := o.Submit(context.Background()); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if o.Submission() != Succeeded {
		t.Errorf("submission = %v, want Succeeded", o.Submission())
	}
	if o.Phase() != Closed {
		t.Errorf("phase = %v, want Closed", o.Phase())
	}
	if gw.updateCalls != 1 {
		t.Errorf("gateway Update calls = %d, want 1", gw.updateCalls)
	}
	if *invalidations != 1 {
		t.Errorf("cache invalidations = %d, want 1", *invalidations)
	}
	notes := notifier.all()
	if len(notes) != 1 || notes[0].Severity != SeveritySuccess {
		t.Errorf("notifications = %+v, want exactly one success", notes)
	}
}

func TestSubmit_GatewayFailureKeepsDialogOpen(t *testing.T) {
	gw := &fakeGateway{createErr: errors.New("duplicate floor number")}
	o, notifier, invalidations := newTestOrchestrator(gw)

	if err := o.OpenAdd(); err != nil {
		t.Fatalf("OpenAdd: %v", err)
	}
	if err := o.UpdateDraft(Draft{"name": "Tầng 4"}); err != nil {
		t.Fatalf("UpdateDraft: %v", err)
	}

	if err := o.Submit(context.Background()); err == nil {
		t.Fatal("Submit succeeded, want gateway error")
	}

	if o.Submission() != Failed {
		t.Errorf("submission = %v, want Failed", o.Submission())
	}
	if o.Phase() != Adding {
		t.Errorf("phase = %v, want Adding (input preserved)", o.Phase())
	}
	if got := o.DraftValue("name"); got != "Tầng 4" {
		t.Errorf("draft name after failure = %q, want preserved", got)
	}
	if *invalidations != 0 {
		t.Errorf("cache invalidations = %d, want 0 on failure", *invalidations)
	}
	notes := notifier.all()
	if len(notes) != 1 || notes[0].Severity != SeverityError {
		t.Fatalf("notifications = %+v, want exactly one error", notes)
	}
	if notes[0].Message != "Duplicate floor number" {
		t.Errorf("message = %q, want the gateway's message", notes[0].Message)
	}

	// Retry after the cause clears.
	gw.createErr = nil
	if err := o.Submit(context.Background()); err != nil {
		t.Fatalf("retry Submit: %v", err)
	}
	if o.Submission() != Succeeded {
		t.Errorf("submission after retry = %v, want Succeeded", o.Submission())
	}
}

func TestSubmit_SecondSubmitWhileInFlightIsRejected(t *testing.T) {
	gw := &fakeGateway{block: make(chan struct{})}
	o, notifier, _ := newTestOrchestrator(gw)

	if err := o.OpenAdd(); err != nil {
		t.Fatalf("OpenAdd: %v", err)
	}
	if err := o.UpdateDraft(Draft{"name": "Tầng 5"}); err != nil {
		t.Fatalf("UpdateDraft: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- o.Submit(context.Background()) }()

	// Wait until the first submission reaches the gateway.
	for o.Submission() != Submitting {
		runtime.Gosched()
	}

	if err := o.Submit(context.Background()); !errors.Is(err, ErrSubmitInFlight) {
		t.Errorf("second Submit err = %v, want ErrSubmitInFlight", err)
	}
	if err := o.Close(); !errors.Is(err, ErrSubmitInFlight) {
		t.Errorf("Close mid-submit err = %v, want ErrSubmitInFlight", err)
	}

	close(gw.block)
	if err := <-done; err != nil {
		t.Fatalf("first Submit: %v", err)
	}
	if gw.createCalls != 1 {
		t.Errorf("gateway Create calls = %d, want 1", gw.createCalls)
	}
	notes := notifier.all()
	if len(notes) != 1 || notes[0].Severity != SeveritySuccess {
		t.Errorf("notifications = %+v, want exactly one success", notes)
	}
}

func TestRequestDelete_Declined(t *testing.T) {
	gw := &fakeGateway{}
	o, notifier, invalidations := newTestOrchestrator(gw)

	if err := o.RequestDelete(context.Background(), item{ID: "f6"}, fixedConfirmer(false)); err != nil {
		t.Fatalf("RequestDelete: %v", err)
	}
	if gw.deleteCalls != 0 {
		t.Errorf("gateway Delete calls = %d, want 0", gw.deleteCalls)
	}
	if len(notifier.all()) != 0 {
		t.Errorf("notifications = %d, want 0", len(notifier.all()))
	}
	if *invalidations != 0 {
		t.Errorf("cache invalidations = %d, want 0", *invalidations)
	}
}

func TestRequestDelete_Confirmed(t *testing.T) {
	gw := &fakeGateway{}
	o, notifier, invalidations := newTestOrchestrator(gw)

	if err := o.RequestDelete(context.Background(), item{ID: "f6"}, fixedConfirmer(true)); err != nil {
		t.Fatalf("RequestDelete: %v", err)
	}
	if gw.deleteCalls != 1 {
		t.Errorf("gateway Delete calls = %d, want 1", gw.deleteCalls)
	}
	if *invalidations != 1 {
		t.Errorf("cache invalidations = %d, want 1", *invalidations)
	}
	notes := notifier.all()
	if len(notes) != 1 || notes[0].Severity != SeveritySuccess {
		t.Errorf("notifications = %+v, want exactly one success", notes)
	}
}

func TestRequestDelete_GatewayFailure(t *testing.T) {
	gw := &fakeGateway{deleteErr: errors.New("restroom still referenced by assignments")}
	o, notifier, invalidations := newTestOrchestrator(gw)

	if err := o.RequestDelete(context.Background(), item{ID: "f7"}, fixedConfirmer(true)); err == nil {
		t.Fatal("RequestDelete succeeded, want gateway error")
	}
	if *invalidations != 0 {
		t.Errorf("cache invalidations = %d, want 0", *invalidations)
	}
	notes := notifier.all()
	if len(notes) != 1 || notes[0].Severity != SeverityError {
		t.Errorf("notifications = %+v, want exactly one error", notes)
	}
}

func TestReconcileAfterRefresh(t *testing.T) {
	gw := &fakeGateway{detail: item{ID: "f8", Name: "Tầng 8"}}

	t.Run("record survived", func(t *testing.T) {
		o, notifier, _ := newTestOrchestrator(gw)
		if _, err := o.OpenView(context.Background(), item{ID: "f8", Name: "Tầng 8"}); err != nil {
			t.Fatalf("OpenView: %v", err)
		}

		o.ReconcileAfterRefresh([]item{{ID: "other"}, {ID: "f8", Name: "Tầng 8 (renamed)"}})

		if o.Phase() != Viewing {
			t.Errorf("phase = %v, want Viewing (record still present)", o.Phase())
		}
		if len(notifier.all()) != 0 {
			t.Errorf("notifications = %d, want 0", len(notifier.all()))
		}
	})

	t.Run("record deleted elsewhere", func(t *testing.T) {
		o, notifier, _ := newTestOrchestrator(gw)
		if _, err := o.OpenView(context.Background(), item{ID: "f8", Name: "Tầng 8"}); err != nil {
			t.Fatalf("OpenView: %v", err)
		}

		o.ReconcileAfterRefresh([]item{{ID: "other"}})

		if o.Phase() != Closed {
			t.Errorf("phase = %v, want Closed", o.Phase())
		}
		notes := notifier.all()
		if len(notes) != 1 || notes[0].Severity != SeverityError {
			t.Errorf("notifications = %+v, want one error", notes)
		}
	})
}

func TestUpdateDraft_RequiresOpenDraftDialog(t *testing.T) {
	o, _, _ := newTestOrchestrator(&fakeGateway{})
	if err := o.UpdateDraft(Draft{"name": "x"}); !errors.Is(err, ErrNoDraft) {
		t.Errorf("UpdateDraft err = %v, want ErrNoDraft", err)
	}
	if err := o.Submit(context.Background()); !errors.Is(err, ErrNoDraft) {
		t.Errorf("Submit err = %v, want ErrNoDraft", err)
	}
}

func TestRegistry_OnePerSession(t *testing.T) {
	notifier := &recordingNotifier{}
	reg := NewRegistry(Config[item]{
		Gateway:  &fakeGateway{},
		Notifier: notifier,
		Schema:   Schema{Resource: "floor"},
		ID:       func(i item) string { return i.ID },
		Seed:     func(i item) Draft { return Draft{} },
	})

	a := reg.For("sess-a")
	b := reg.For("sess-b")
	if a == b {
		t.Error("different sessions share an orchestrator")
	}
	if reg.For("sess-a") != a {
		t.Error("same session got a new orchestrator")
	}

	reg.Drop("sess-a")
	if reg.For("sess-a") == a {
		t.Error("dropped session orchestrator was not discarded")
	}
}

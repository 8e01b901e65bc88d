// internal/app/system/modalflow/orchestrator.go
package modalflow

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Config wires an Orchestrator to one resource.
type Config[T any] struct {
	Gateway  Gateway[T]
	Notifier Notifier

	// Schema drives submit validation and notification wording.
	Schema Schema

	// ID extracts the record's stable identifier. All modal state is
	// keyed to it, so list refreshes that reorder or drop other rows
	// never invalidate an open dialog.
	ID func(T) string

	// Seed builds the edit draft from a record's current values.
	Seed func(T) Draft

	// Invalidate flags the resource's record cache stale. Called
	// exactly once after each successful mutation, never on failure.
	Invalidate func()

	Log *zap.Logger
}

// Orchestrator sequences one user's modal lifecycle for one resource.
// Safe for concurrent use; gateway calls run outside the lock so state
// stays observable (and further submits rejectable) while one is in
// flight.
type Orchestrator[T any] struct {
	mu  sync.Mutex
	cfg Config[T]

	phase     Phase
	record    T
	hasRecord bool
	detail    DetailState
	draft     Draft

	submission SubmissionState
	lastError  string
}

// New constructs an orchestrator in the Closed/Idle state.
func New[T any](cfg Config[T]) *Orchestrator[T] {
	if cfg.Log == nil {
		cfg.Log = zap.NewNop()
	}
	return &Orchestrator[T]{cfg: cfg}
}

// Phase returns the open dialog, if any.
func (o *Orchestrator[T]) Phase() Phase {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.phase
}

// Submission returns the current submission lifecycle state.
func (o *Orchestrator[T]) Submission() SubmissionState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.submission
}

// Record returns the record the open dialog is bound to. For Viewing
// this is the detail record when the fetch succeeded, otherwise the
// summary the dialog was opened with.
func (o *Orchestrator[T]) Record() (T, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.record, o.hasRecord
}

// Detail returns the Viewing dialog's detail-fetch outcome.
func (o *Orchestrator[T]) Detail() DetailState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.detail
}

// UsingCachedData reports whether the Viewing dialog fell back to the
// summary record; the view template shows a low-severity indicator.
func (o *Orchestrator[T]) UsingCachedData() bool {
	return o.Detail() == DetailFallback
}

// DraftValue returns the current draft value for a field.
func (o *Orchestrator[T]) DraftValue(name string) string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.draft[name]
}

// LastError returns the message of the most recent failed submission.
func (o *Orchestrator[T]) LastError() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastError
}

// reset clears modal state; callers hold the lock.
func (o *Orchestrator[T]) reset() {
	var zero T
	o.phase = Closed
	o.record = zero
	o.hasRecord = false
	o.detail = DetailNone
	o.draft = nil
	o.submission = Idle
	o.lastError = ""
}

// OpenAdd opens the Add dialog with an empty draft, implicitly closing
// any dialog that was open. Rejected only while a submission is in
// flight.
func (o *Orchestrator[T]) OpenAdd() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.submission == Submitting {
		return ErrSubmitInFlight
	}
	o.reset()
	o.phase = Adding
	o.draft = Draft{}
	return nil
}

// OpenView opens the View dialog bound to the given summary record and
// immediately fetches the detail record by ID. A failed fetch is not
// an error: the dialog shows the summary it already has, flagged as
// cached data. The returned state is the settled fetch outcome.
func (o *Orchestrator[T]) OpenView(ctx context.Context, rec T) (DetailState, error) {
	o.mu.Lock()
	if o.submission == Submitting {
		o.mu.Unlock()
		return DetailNone, ErrSubmitInFlight
	}
	o.reset()
	o.phase = Viewing
	o.record = rec
	o.hasRecord = true
	id := o.cfg.ID(rec)
	o.mu.Unlock()

	detail, err := o.cfg.Gateway.GetByID(ctx, id)

	o.mu.Lock()
	defer o.mu.Unlock()
	// The dialog may have been replaced while the fetch ran; only
	// apply the result if it is still bound to the same record.
	if o.phase != Viewing || !o.hasRecord || o.cfg.ID(o.record) != id {
		return o.detail, nil
	}
	if err != nil {
		o.cfg.Log.Warn("detail fetch failed, showing summary record",
			zap.String("resource", o.cfg.Schema.Resource),
			zap.String("id", id),
			zap.Error(err))
		o.detail = DetailFallback
		return o.detail, nil
	}
	o.record = detail
	o.detail = DetailLoaded
	return o.detail, nil
}

// OpenEdit opens the Edit dialog with a draft seeded from the record's
// current values, implicitly closing any dialog that was open.
func (o *Orchestrator[T]) OpenEdit(rec T) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.submission == Submitting {
		return ErrSubmitInFlight
	}
	o.reset()
	o.phase = Editing
	o.record = rec
	o.hasRecord = true
	o.draft = o.cfg.Seed(rec)
	return nil
}

// UpdateDraft merges posted fields into the open dialog's draft. No
// validation happens here; validation is Submit's precondition.
func (o *Orchestrator[T]) UpdateDraft(fields Draft) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.phase != Adding && o.phase != Editing {
		return ErrNoDraft
	}
	if o.draft == nil {
		o.draft = Draft{}
	}
	for k, v := range fields {
		o.draft[k] = v
	}
	return nil
}

// Submit validates the draft and pushes it through the gateway.
//
// A draft missing a required field never reaches the gateway: the
// submission stays Idle, one validation notification is emitted, and a
// ValidationError is returned. On gateway success the dialog closes,
// the record cache is invalidated, and one success notification is
// emitted. On gateway failure the dialog stays open with the draft
// intact, one error notification is emitted, and the next Submit
// retries. A Submit while one is already in flight is a no-op.
func (o *Orchestrator[T]) Submit(ctx context.Context) error {
	o.mu.Lock()
	if o.phase != Adding && o.phase != Editing {
		o.mu.Unlock()
		return ErrNoDraft
	}
	if o.submission == Submitting {
		o.mu.Unlock()
		return ErrSubmitInFlight
	}
	if o.submission == Failed {
		// Retry path: a failed submission returns to Idle on the
		// next attempt.
		o.submission = Idle
		o.lastError = ""
	}

	if label := o.cfg.Schema.firstMissing(o.draft); label != "" {
		o.mu.Unlock()
		o.cfg.Notifier.Notify(fmt.Sprintf("%s is required.", label), SeverityError)
		return &ValidationError{Label: label}
	}

	phase := o.phase
	draft := make(Draft, len(o.draft))
	for k, v := range o.draft {
		draft[k] = v
	}
	var id string
	if phase == Editing {
		id = o.cfg.ID(o.record)
	}
	o.submission = Submitting
	o.mu.Unlock()

	var err error
	if phase == Adding {
		_, err = o.cfg.Gateway.Create(ctx, draft)
	} else {
		_, err = o.cfg.Gateway.Update(ctx, id, draft)
	}

	resource := o.cfg.Schema.Resource

	o.mu.Lock()
	if err != nil {
		o.submission = Failed
		o.lastError = err.Error()
		o.mu.Unlock()
		o.cfg.Log.Warn("submission failed",
			zap.String("resource", resource),
			zap.String("phase", phase.String()),
			zap.Error(err))
		o.cfg.Notifier.Notify(gatewayMessage(err, resource), SeverityError)
		return err
	}
	o.reset()
	o.submission = Succeeded
	o.mu.Unlock()

	if o.cfg.Invalidate != nil {
		o.cfg.Invalidate()
	}
	verb := "updated"
	if phase == Adding {
		verb = "created"
	}
	o.cfg.Notifier.Notify(fmt.Sprintf("%s %s.", titleCase(resource), verb), SeveritySuccess)
	return nil
}

// RequestDelete asks the confirmer and, only on an explicit yes,
// deletes the record through the gateway. There is no optimistic
// removal: on failure the record stays in the list and only an error
// notification is emitted. Deleting the record an open dialog is bound
// to also closes that dialog.
func (o *Orchestrator[T]) RequestDelete(ctx context.Context, rec T, confirmer Confirmer) error {
	resource := o.cfg.Schema.Resource
	if !confirmer.Confirm(fmt.Sprintf("Delete this %s? This cannot be undone.", resource)) {
		return nil
	}

	id := o.cfg.ID(rec)
	if err := o.cfg.Gateway.Delete(ctx, id); err != nil {
		o.cfg.Log.Warn("delete failed",
			zap.String("resource", resource),
			zap.String("id", id),
			zap.Error(err))
		o.cfg.Notifier.Notify(gatewayMessage(err, resource), SeverityError)
		return err
	}

	o.mu.Lock()
	if o.hasRecord && o.cfg.ID(o.record) == id && o.submission != Submitting {
		o.reset()
	}
	o.mu.Unlock()

	if o.cfg.Invalidate != nil {
		o.cfg.Invalidate()
	}
	o.cfg.Notifier.Notify(fmt.Sprintf("%s deleted.", titleCase(resource)), SeveritySuccess)
	return nil
}

// Close dismisses the open dialog and clears its draft. Valid from any
// state except mid-submission.
func (o *Orchestrator[T]) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.submission == Submitting {
		return ErrSubmitInFlight
	}
	o.reset()
	return nil
}

// ReconcileAfterRefresh closes an open dialog whose record vanished
// from the refreshed snapshot — another operator deleted it between
// refreshes — and tells the user why. Dialogs bound to surviving
// records are untouched no matter how the refresh reordered the list.
func (o *Orchestrator[T]) ReconcileAfterRefresh(records []T) {
	o.mu.Lock()
	if !o.hasRecord || o.submission == Submitting {
		o.mu.Unlock()
		return
	}
	id := o.cfg.ID(o.record)
	for _, rec := range records {
		if o.cfg.ID(rec) == id {
			o.mu.Unlock()
			return
		}
	}
	o.reset()
	o.mu.Unlock()

	o.cfg.Notifier.Notify(
		fmt.Sprintf("This %s no longer exists; it may have been deleted by another operator.", o.cfg.Schema.Resource),
		SeverityError)
}

// gatewayMessage prefers the gateway's own message, falling back to a
// generic one per resource.
func gatewayMessage(err error, resource string) string {
	if err != nil && err.Error() != "" {
		return titleCase(err.Error())
	}
	return fmt.Sprintf("Could not save the %s. Please try again.", resource)
}

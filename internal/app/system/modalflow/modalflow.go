// internal/app/system/modalflow/modalflow.go

// Package modalflow is the state machine behind every Add/View/Update/
// Delete dialog in the console. One Orchestrator governs one user's
// modal for one resource: which dialog is open, which record it is
// bound to, the working form draft, and the submission lifecycle that
// connects the draft to the resource's data gateway.
//
// The orchestrator owns ModalState and SubmissionState exclusively;
// list rendering (listpage) never reads or writes them. All gateway
// failures are absorbed here and converted into a notification plus a
// defined state transition — nothing propagates past the orchestrator.
package modalflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Draft is the working form data of an open Add/Edit dialog: a snapshot
// of posted field values, keyed by field name.
type Draft map[string]string

// Gateway is the per-resource capability set the orchestrator mutates
// through. Implementations live in internal/app/store; calls are
// bounded by the caller's context (handlers use the timeouts package)
// and may fail with a message the orchestrator surfaces to the user.
type Gateway[T any] interface {
	List(ctx context.Context) ([]T, error)
	GetByID(ctx context.Context, id string) (T, error)
	Create(ctx context.Context, draft Draft) (T, error)
	Update(ctx context.Context, id string, draft Draft) (T, error)
	Delete(ctx context.Context, id string) error
}

// Severity classifies a notification.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Notifier accepts fire-and-forget user notifications. The console
// implementation queues session flashes that the layout renders as
// auto-dismissing toasts.
type Notifier interface {
	Notify(message string, severity Severity)
}

// Confirmer answers a blocking yes/no prompt. Destructive operations
// (delete, cancel-request) run only on an explicit yes.
type Confirmer interface {
	Confirm(message string) bool
}

// Phase is which dialog, if any, is open. At most one is open at a
// time; opening a new dialog replaces the previous one wholesale.
type Phase int

const (
	Closed Phase = iota
	Adding
	Viewing
	Editing
)

func (p Phase) String() string {
	switch p {
	case Adding:
		return "adding"
	case Viewing:
		return "viewing"
	case Editing:
		return "editing"
	default:
		return "closed"
	}
}

// DetailState is the Viewing dialog's detail-fetch sub-state. The
// fetch runs inline while the dialog opens, so callers only ever
// observe the two settled states: the richer detail record loaded, or
// the fallback to the summary row the dialog was opened with.
type DetailState int

const (
	DetailNone DetailState = iota
	DetailLoaded
	DetailFallback
)

// SubmissionState is the lifecycle of the current dialog's submission.
// At most one submission is in flight per orchestrator.
type SubmissionState int

const (
	Idle SubmissionState = iota
	Submitting
	Succeeded
	Failed
)

func (s SubmissionState) String() string {
	switch s {
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "idle"
	}
}

// Field describes one form field of a resource's Add/Edit schema.
type Field struct {
	Name     string
	Label    string
	Required bool
}

// Schema is the resource-specific half of submit validation: the
// display name used in notifications and the form fields with their
// required flags.
type Schema struct {
	Resource string
	Fields   []Field
}

// firstMissing returns the label of the first required field that is
// empty after trimming, or "" when the draft passes.
func (s Schema) firstMissing(d Draft) string {
	for _, f := range s.Fields {
		if !f.Required {
			continue
		}
		if strings.TrimSpace(d[f.Name]) == "" {
			return f.Label
		}
	}
	return ""
}

// ValidationError reports a draft that failed the required-field
// precondition. It never reaches the gateway.
type ValidationError struct {
	Label string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required", e.Label)
}

var (
	// ErrSubmitInFlight rejects an operation while a submission is
	// running; the in-flight call always runs to completion.
	ErrSubmitInFlight = errors.New("a submission is already in progress")

	// ErrNoDraft rejects draft operations outside Adding/Editing.
	ErrNoDraft = errors.New("no dialog with a form draft is open")
)

// titleCase upper-cases the first rune for message display.
func titleCase(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// internal/app/system/flash/flash.go

// Package flash queues one-shot toast notifications in the session.
// Handlers (and the modal orchestrator, through Binding) push messages;
// the layout pops and renders them on the next page load, where they
// self-dismiss after DismissAfter unless closed sooner.
package flash

import (
	"net/http"

	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"github.com/baodpham/sanihub/internal/app/system/modalflow"
)

// DismissAfter is how long a toast stays on screen before the page
// hides it. Templates receive it in milliseconds.
const DismissAfter = 3000

const sessionName = "sanihub_flash"

// Toast is one rendered notification.
type Toast struct {
	Message  string
	Severity string
}

// Queue stores and drains toasts for the current visitor.
type Queue struct {
	store sessions.Store
	log   *zap.Logger
}

// NewQueue wraps the shared cookie store.
func NewQueue(store sessions.Store, log *zap.Logger) *Queue {
	return &Queue{store: store, log: log}
}

// Push appends a toast to the visitor's queue.
func (q *Queue) Push(w http.ResponseWriter, r *http.Request, message, severity string) {
	sess, _ := q.store.Get(r, sessionName)
	sess.AddFlash(severity + "\x00" + message)
	if err := sess.Save(r, w); err != nil {
		q.log.Warn("flash save failed", zap.Error(err))
	}
}

// Pop drains and returns all pending toasts.
func (q *Queue) Pop(w http.ResponseWriter, r *http.Request) []Toast {
	sess, _ := q.store.Get(r, sessionName)
	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := sess.Save(r, w); err != nil {
		q.log.Warn("flash save failed", zap.Error(err))
	}
	toasts := make([]Toast, 0, len(raw))
	for _, v := range raw {
		s, ok := v.(string)
		if !ok {
			continue
		}
		toasts = append(toasts, splitToast(s))
	}
	return toasts
}

func splitToast(s string) Toast {
	for i := 0; i < len(s); i++ {
		if s[i] == 0 {
			return Toast{Severity: s[:i], Message: s[i+1:]}
		}
	}
	return Toast{Severity: string(modalflow.SeverityError), Message: s}
}

// Binding adapts the queue to one request/response pair so the modal
// orchestrator can notify without knowing about HTTP.
type Binding struct {
	Queue *Queue
	W     http.ResponseWriter
	R     *http.Request
}

// Notify implements modalflow.Notifier.
func (b Binding) Notify(message string, severity modalflow.Severity) {
	b.Queue.Push(b.W, b.R, message, string(severity))
}

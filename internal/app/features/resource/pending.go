// internal/app/features/resource/pending.go
package resource

import (
	"net/http"
	"sync"

	"github.com/baodpham/sanihub/internal/app/system/flash"
	"github.com/baodpham/sanihub/internal/app/system/modalflow"
)

// pending buffers one session's orchestrator notifications until the
// handler can flush them into the flash queue. The orchestrator only
// knows the Notifier interface; it never sees the HTTP exchange.
type pending struct {
	mu    sync.Mutex
	items []flash.Toast
}

// Notify implements modalflow.Notifier.
func (p *pending) Notify(message string, severity modalflow.Severity) {
	p.mu.Lock()
	p.items = append(p.items, flash.Toast{Message: message, Severity: string(severity)})
	p.mu.Unlock()
}

// flush drains buffered notifications into the visitor's flash queue.
func (p *pending) flush(q *flash.Queue, w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	items := p.items
	p.items = nil
	p.mu.Unlock()

	for _, t := range items {
		q.Push(w, r, t.Message, t.Severity)
	}
}

// pendingSet hands out one buffer per session ID.
type pendingSet struct {
	mu   sync.Mutex
	byID map[string]*pending
}

func newPendingSet() *pendingSet {
	return &pendingSet{byID: make(map[string]*pending)}
}

func (s *pendingSet) For(sessionID string) *pending {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.byID[sessionID]; ok {
		return p
	}
	p := &pending{}
	s.byID[sessionID] = p
	return p
}

func (s *pendingSet) Drop(sessionID string) {
	s.mu.Lock()
	delete(s.byID, sessionID)
	s.mu.Unlock()
}

// formConfirmer answers the delete confirmation from the posted form.
// The confirm dialog submits confirm=yes; anything else is a no.
type formConfirmer struct {
	r *http.Request
}

// Confirm implements modalflow.Confirmer.
func (c formConfirmer) Confirm(string) bool {
	return c.r.FormValue("confirm") == "yes"
}

// FormConfirmer exposes the form-backed confirmer to feature packages
// with their own destructive actions.
func FormConfirmer(r *http.Request) modalflow.Confirmer {
	return formConfirmer{r: r}
}

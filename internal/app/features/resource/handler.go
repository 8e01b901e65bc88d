// internal/app/features/resource/handler.go

// Package resource is the engine behind every console list page. It
// joins one Descriptor and one data gateway to the shared machinery:
// listpage for filtering and pagination, recordcache for the snapshot
// the list renders from, and a per-session modalflow orchestrator for
// the Add/View/Edit/Delete dialogs. Feature packages stay thin; they
// describe their resource and mount the routes.
package resource

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"unicode"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"

	uierrors "github.com/baodpham/sanihub/internal/app/features/errors"
	"github.com/baodpham/sanihub/internal/app/system/auth"
	"github.com/baodpham/sanihub/internal/app/system/authz"
	"github.com/baodpham/sanihub/internal/app/system/flash"
	"github.com/baodpham/sanihub/internal/app/system/listpage"
	"github.com/baodpham/sanihub/internal/app/system/modalflow"
	"github.com/baodpham/sanihub/internal/app/system/navigation"
	"github.com/baodpham/sanihub/internal/app/system/recordcache"
	"github.com/baodpham/sanihub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
)

// SessionDropper releases per-session state on sign-out.
type SessionDropper interface {
	DropSession(sessionID string)
}

// Handler serves one resource's list page and dialogs.
type Handler[T any] struct {
	desc     Descriptor[T]
	gateway  modalflow.Gateway[T]
	cache    *recordcache.Cache[T]
	registry *modalflow.Registry[T]
	sessions *auth.SessionManager
	toasts   *flash.Queue
	pend     *pendingSet
	errLog   *uierrors.ErrorLogger
	log      *zap.Logger
}

// NewHandler wires a descriptor and gateway into a servable resource.
func NewHandler[T any](desc Descriptor[T], gw modalflow.Gateway[T], sm *auth.SessionManager, toasts *flash.Queue, errLog *uierrors.ErrorLogger, log *zap.Logger) *Handler[T] {
	cache := recordcache.New(gw.List)
	pend := newPendingSet()

	registry := modalflow.NewRegistry(modalflow.Config[T]{
		Gateway:    gw,
		Schema:     desc.schema(),
		ID:         desc.ID,
		Seed:       desc.Seed,
		Invalidate: cache.Invalidate,
		Log:        log,
	})
	registry.Customize(func(sessionID string, cfg modalflow.Config[T]) modalflow.Config[T] {
		cfg.Notifier = pend.For(sessionID)
		return cfg
	})

	return &Handler[T]{
		desc:     desc,
		gateway:  gw,
		cache:    cache,
		registry: registry,
		sessions: sm,
		toasts:   toasts,
		pend:     pend,
		errLog:   errLog,
		log:      log,
	}
}

// Orchestrator returns the modal orchestrator for the request's
// session. Feature packages use it for resource-specific actions.
func (h *Handler[T]) Orchestrator(r *http.Request) *modalflow.Orchestrator[T] {
	return h.registry.For(h.sessions.SessionID(r))
}

// Invalidate marks the record snapshot stale.
func (h *Handler[T]) Invalidate() { h.cache.Invalidate() }

// Flash pushes a one-shot toast for the visitor.
func (h *Handler[T]) Flash(w http.ResponseWriter, r *http.Request, message string, severity modalflow.Severity) {
	h.toasts.Push(w, r, message, string(severity))
}

// FlushNotifications moves buffered orchestrator notifications into the
// visitor's flash queue.
func (h *Handler[T]) FlushNotifications(w http.ResponseWriter, r *http.Request) {
	h.pend.For(h.sessions.SessionID(r)).flush(h.toasts, w, r)
}

// FindRecord locates a record by ID, preferring the cached snapshot.
func (h *Handler[T]) FindRecord(ctx context.Context, id string) (T, bool) {
	if records, err := h.cache.Snapshot(ctx); err == nil {
		for _, rec := range records {
			if h.desc.ID(rec) == id {
				return rec, true
			}
		}
	}
	rec, err := h.gateway.GetByID(ctx, id)
	if err != nil {
		var zero T
		return zero, false
	}
	return rec, true
}

// DropSession implements SessionDropper.
func (h *Handler[T]) DropSession(sessionID string) {
	h.registry.Drop(sessionID)
	h.pend.Drop(sessionID)
}

// ServeList handles GET /<slug>: the filtered, paginated table plus
// whatever dialog the session has open.
func (h *Handler[T]) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	records, err := h.cache.Snapshot(ctx)
	if err != nil {
		h.errLog.LogServerError(w, r, "record snapshot load failed", err,
			"A database error occurred.", "/")
		return
	}

	orch := h.Orchestrator(r)
	orch.ReconcileAfterRefresh(records)

	fs := listpage.ParseFilterState(r)
	page := listpage.Compute(records, fs, listpage.PageSize, h.desc.View)

	vm, err := h.buildListVM(ctx, w, r, fs, page, orch)
	if err != nil {
		h.errLog.LogServerError(w, r, "list view build failed", err,
			"A database error occurred.", "/")
		return
	}
	templates.Render(w, r, "resource_list", vm)
}

// ServeOpenAdd handles GET /<slug>/new.
func (h *Handler[T]) ServeOpenAdd(w http.ResponseWriter, r *http.Request) {
	if !h.requireManage(w, r) {
		return
	}
	if err := h.Orchestrator(r).OpenAdd(); err != nil {
		h.Flash(w, r, "Please wait for the current submission to finish.", modalflow.SeverityError)
	}
	h.redirectBack(w, r)
}

// ServeOpenView handles GET /<slug>/{id}/view.
func (h *Handler[T]) ServeOpenView(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rec, ok := h.FindRecord(ctx, chi.URLParam(r, "id"))
	if !ok {
		h.cache.Invalidate()
		h.Flash(w, r, fmt.Sprintf("This %s no longer exists.", h.desc.Singular), modalflow.SeverityError)
		h.redirectBack(w, r)
		return
	}
	if _, err := h.Orchestrator(r).OpenView(ctx, rec); err != nil {
		h.Flash(w, r, "Please wait for the current submission to finish.", modalflow.SeverityError)
	}
	h.redirectBack(w, r)
}

// ServeOpenEdit handles GET /<slug>/{id}/edit.
func (h *Handler[T]) ServeOpenEdit(w http.ResponseWriter, r *http.Request) {
	if !h.requireManage(w, r) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rec, ok := h.FindRecord(ctx, chi.URLParam(r, "id"))
	if !ok {
		h.cache.Invalidate()
		h.Flash(w, r, fmt.Sprintf("This %s no longer exists.", h.desc.Singular), modalflow.SeverityError)
		h.redirectBack(w, r)
		return
	}
	if err := h.Orchestrator(r).OpenEdit(rec); err != nil {
		h.Flash(w, r, "Please wait for the current submission to finish.", modalflow.SeverityError)
	}
	h.redirectBack(w, r)
}

// ServeSubmit handles POST /<slug>: merge the posted fields into the
// open dialog's draft and submit it. Validation and gateway failures
// surface as toasts; the dialog decides for itself whether it stays
// open.
func (h *Handler[T]) ServeSubmit(w http.ResponseWriter, r *http.Request) {
	if !h.requireManage(w, r) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := r.ParseForm(); err != nil {
		h.Flash(w, r, "The submitted form could not be read.", modalflow.SeverityError)
		h.redirectBack(w, r)
		return
	}

	fields := modalflow.Draft{}
	for _, f := range h.desc.Fields {
		if vs, ok := r.PostForm[f.Name]; ok && len(vs) > 0 {
			fields[f.Name] = vs[0]
		}
	}

	orch := h.Orchestrator(r)
	if err := orch.UpdateDraft(fields); err != nil {
		h.Flash(w, r, "No dialog is open; it may have been closed in another tab.", modalflow.SeverityError)
		h.redirectBack(w, r)
		return
	}

	// Outcome notifications come from the orchestrator itself.
	if err := orch.Submit(ctx); err != nil {
		h.log.Debug("submission rejected",
			zap.String("resource", h.desc.Singular),
			zap.Error(err))
	}
	h.FlushNotifications(w, r)
	h.redirectBack(w, r)
}

// ServeClose handles POST /<slug>/close.
func (h *Handler[T]) ServeClose(w http.ResponseWriter, r *http.Request) {
	if err := h.Orchestrator(r).Close(); err != nil {
		h.Flash(w, r, "Please wait for the current submission to finish.", modalflow.SeverityError)
	}
	h.redirectBack(w, r)
}

// ServeDelete handles POST /<slug>/{id}/delete. The confirm dialog
// posts confirm=yes; without it the delete is a no-op.
func (h *Handler[T]) ServeDelete(w http.ResponseWriter, r *http.Request) {
	if !h.requireManage(w, r) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := r.ParseForm(); err != nil {
		h.Flash(w, r, "The submitted form could not be read.", modalflow.SeverityError)
		h.redirectBack(w, r)
		return
	}

	rec, ok := h.FindRecord(ctx, chi.URLParam(r, "id"))
	if !ok {
		h.cache.Invalidate()
		h.Flash(w, r, fmt.Sprintf("This %s no longer exists.", h.desc.Singular), modalflow.SeverityError)
		h.redirectBack(w, r)
		return
	}

	orch := h.Orchestrator(r)
	if err := orch.RequestDelete(ctx, rec, formConfirmer{r: r}); err != nil {
		h.log.Debug("delete rejected",
			zap.String("resource", h.desc.Singular),
			zap.Error(err))
	}
	h.FlushNotifications(w, r)
	h.redirectBack(w, r)
}

// requireManage renders the forbidden page for visitors without the
// admin or supervisor role.
func (h *Handler[T]) requireManage(w http.ResponseWriter, r *http.Request) bool {
	if authz.CanManage(r) {
		return true
	}
	uierrors.RenderForbidden(w, r,
		fmt.Sprintf("You don't have permission to manage %s.", h.desc.Plural),
		"/"+h.desc.Slug)
	return false
}

// redirectBack returns to the list page the action came from,
// preserving its search/tab/sort/page selection.
func (h *Handler[T]) redirectBack(w http.ResponseWriter, r *http.Request) {
	back := navigation.SafeBackURL(r, navigation.ForResource(h.desc.Slug))
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// listURL rebuilds the list page URL for a filter state, omitting
// parameters at their defaults.
func (h *Handler[T]) listURL(fs listpage.FilterState) string {
	q := url.Values{}
	if fs.Search != "" {
		q.Set("search", fs.Search)
	}
	if fs.Tab != "" && fs.Tab != listpage.TabAll {
		q.Set("tab", fs.Tab)
	}
	if s := sortParam(fs.Sort); s != "" {
		q.Set("sort", s)
	}
	if fs.Page > 1 {
		q.Set("page", strconv.Itoa(fs.Page))
	}
	base := "/" + h.desc.Slug
	if enc := q.Encode(); enc != "" {
		return base + "?" + enc
	}
	return base
}

func sortParam(dir listpage.SortDirection) string {
	switch dir {
	case listpage.SortAscending:
		return "asc"
	case listpage.SortDescending:
		return "desc"
	default:
		return ""
	}
}

// TitleCase upper-cases the first rune for message display.
func TitleCase(s string) string {
	if s == "" {
		return s
	}
	rs := []rune(s)
	rs[0] = unicode.ToUpper(rs[0])
	return string(rs)
}

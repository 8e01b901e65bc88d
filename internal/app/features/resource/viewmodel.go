// internal/app/features/resource/viewmodel.go
package resource

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/baodpham/sanihub/internal/app/system/listpage"
	"github.com/baodpham/sanihub/internal/app/system/modalflow"
	"github.com/baodpham/sanihub/internal/app/system/viewdata"
)

type rowVM struct {
	ID        string
	Cells     []string
	ViewURL   string
	EditURL   string
	DeleteURL string
}

type tabVM struct {
	Value  string
	Label  string
	URL    string
	Active bool
}

type pageNavVM struct {
	Current    int
	TotalPages int
	Total      int
	Start      int
	End        int
	HasPrev    bool
	HasNext    bool
	PrevURL    string
	NextURL    string
}

type sortVM struct {
	Current    string
	AscURL     string
	DescURL    string
	DefaultURL string
}

type optionVM struct {
	Value    string
	Label    string
	Selected bool
}

// fieldVM keeps Kind as a plain string so templates can compare it
// with eq.
type fieldVM struct {
	Name     string
	Label    string
	Hint     string
	Kind     string
	Required bool
	Value    string
	Options  []optionVM
}

// modalVM is the rendered state of the session's open dialog.
type modalVM struct {
	Phase           string
	Title           string
	RecordID        string
	Fields          []fieldVM
	Details         []Detail
	Panels          []Panel
	Actions         []Action
	UsingCachedData bool
	Submitting      bool
	SubmitError     string
}

// listVM is the full view model of a resource list page.
type listVM struct {
	viewdata.BaseVM

	Slug     string
	Singular string
	Plural   string

	SearchQuery string
	CurrentTab  string
	Sort        sortVM
	HasTabs     bool
	Tabs        []tabVM

	Columns []string
	Rows    []rowVM
	Nav     pageNavVM

	// ListURL is the current page URL including filters; forms carry it
	// as the return target.
	ListURL   string
	NewURL    string
	SubmitURL string
	CloseURL  string

	Modal *modalVM
}

func (h *Handler[T]) buildListVM(ctx context.Context, w http.ResponseWriter, r *http.Request, fs listpage.FilterState, page listpage.Page[T], orch *modalflow.Orchestrator[T]) (listVM, error) {
	modal, err := h.buildModalVM(ctx, orch)
	if err != nil {
		return listVM{}, err
	}

	// Buffered orchestrator notifications become toasts on this render.
	h.FlushNotifications(w, r)

	base := "/" + h.desc.Slug
	cur := h.listURL(fs)
	ret := "?return=" + url.QueryEscape(cur)

	rows := make([]rowVM, 0, len(page.Items))
	for _, rec := range page.Items {
		id := h.desc.ID(rec)
		rows = append(rows, rowVM{
			ID:        id,
			Cells:     h.desc.Cells(rec),
			ViewURL:   fmt.Sprintf("%s/%s/view%s", base, id, ret),
			EditURL:   fmt.Sprintf("%s/%s/edit%s", base, id, ret),
			DeleteURL: fmt.Sprintf("%s/%s/delete", base, id),
		})
	}

	descTabs := h.desc.Tabs
	if h.desc.TabsFor != nil {
		loaded, err := h.desc.TabsFor(ctx)
		if err != nil {
			// The tab bar is a filter aid; the list still renders.
			h.log.Warn("tab load failed",
				zap.String("resource", h.desc.Singular),
				zap.Error(err))
			descTabs = nil
		} else {
			descTabs = loaded
		}
	}

	var tabs []tabVM
	if len(descTabs) > 0 {
		all := append([]Tab{{Value: listpage.TabAll, Label: "All"}}, descTabs...)
		for _, t := range all {
			tabs = append(tabs, tabVM{
				Value:  t.Value,
				Label:  t.Label,
				URL:    h.listURL(fs.WithTab(t.Value)),
				Active: fs.Tab == t.Value,
			})
		}
	}

	nav := pageNavVM{
		Current:    page.Current,
		TotalPages: page.TotalPages,
		Total:      page.Total,
		Start:      page.Start,
		End:        page.End,
		HasPrev:    page.Current > 1,
		HasNext:    page.Current < page.TotalPages,
	}
	if nav.HasPrev {
		prev := fs
		prev.Page = page.Current - 1
		nav.PrevURL = h.listURL(prev)
	}
	if nav.HasNext {
		next := fs
		next.Page = page.Current + 1
		nav.NextURL = h.listURL(next)
	}

	vm := listVM{
		BaseVM:      viewdata.NewBaseVM(w, r, h.toasts, h.desc.Plural, "/"),
		Slug:        h.desc.Slug,
		Singular:    h.desc.Singular,
		Plural:      h.desc.Plural,
		SearchQuery: fs.Search,
		CurrentTab:  fs.Tab,
		Sort: sortVM{
			Current:    sortParam(fs.Sort),
			AscURL:     h.listURL(fs.WithSort(listpage.SortAscending)),
			DescURL:    h.listURL(fs.WithSort(listpage.SortDescending)),
			DefaultURL: h.listURL(fs.WithSort(listpage.SortDefault)),
		},
		HasTabs:   len(tabs) > 0,
		Tabs:      tabs,
		Columns:   h.desc.Columns,
		Rows:      rows,
		Nav:       nav,
		ListURL:   cur,
		NewURL:    base + "/new" + ret,
		SubmitURL: base,
		CloseURL:  base + "/close",
		Modal:     modal,
	}
	return vm, nil
}

func (h *Handler[T]) buildModalVM(ctx context.Context, orch *modalflow.Orchestrator[T]) (*modalVM, error) {
	phase := orch.Phase()
	if phase == modalflow.Closed {
		return nil, nil
	}

	m := &modalVM{
		Phase:       phase.String(),
		Submitting:  orch.Submission() == modalflow.Submitting,
		SubmitError: orch.LastError(),
	}

	switch phase {
	case modalflow.Adding, modalflow.Editing:
		verb := "Add"
		if phase == modalflow.Editing {
			verb = "Edit"
			if rec, ok := orch.Record(); ok {
				m.RecordID = h.desc.ID(rec)
			}
		}
		m.Title = fmt.Sprintf("%s %s", verb, h.desc.Singular)

		for _, f := range h.desc.Fields {
			fv := fieldVM{
				Name:     f.Name,
				Label:    f.Label,
				Hint:     f.Hint,
				Kind:     string(f.Kind),
				Required: f.Required,
				Value:    orch.DraftValue(f.Name),
			}
			if f.Kind == InputSelect && f.Options != nil {
				opts, err := f.Options(ctx)
				if err != nil {
					return nil, err
				}
				fv.Options = make([]optionVM, 0, len(opts))
				for _, o := range opts {
					fv.Options = append(fv.Options, optionVM{
						Value:    o.Value,
						Label:    o.Label,
						Selected: o.Value == fv.Value,
					})
				}
			}
			m.Fields = append(m.Fields, fv)
		}

	case modalflow.Viewing:
		rec, ok := orch.Record()
		if !ok {
			return nil, nil
		}
		m.Title = fmt.Sprintf("%s details", TitleCase(h.desc.Singular))
		m.RecordID = h.desc.ID(rec)
		m.Details = h.desc.Details(rec)
		m.UsingCachedData = orch.UsingCachedData()
		if h.desc.Panels != nil {
			panels, err := h.desc.Panels(ctx, rec)
			if err != nil {
				// Panels are supplemental; the dialog still renders.
				h.log.Warn("detail panel load failed",
					zap.String("resource", h.desc.Singular),
					zap.Error(err))
			} else {
				m.Panels = panels
			}
		}
		if h.desc.Actions != nil {
			m.Actions = h.desc.Actions(rec)
		}
	}

	return m, nil
}

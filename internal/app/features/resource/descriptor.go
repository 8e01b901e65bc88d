// internal/app/features/resource/descriptor.go
package resource

import (
	"context"
	"html/template"

	"github.com/baodpham/sanihub/internal/app/system/listpage"
	"github.com/baodpham/sanihub/internal/app/system/modalflow"
)

// InputKind selects the control an Add/Edit form renders for a field.
type InputKind string

const (
	InputText     InputKind = "text"
	InputTextarea InputKind = "textarea"
	InputSelect   InputKind = "select"
	InputDate     InputKind = "date"
	InputTime     InputKind = "time"
	InputEmail    InputKind = "email"
	InputPassword InputKind = "password"
	InputNumber   InputKind = "number"
)

// Option is one choice of a select field.
type Option struct {
	Value string
	Label string
}

// FormField describes one input of a resource's Add/Edit dialog.
// Options is consulted only for InputSelect fields; it runs against the
// live stores so reference pickers always offer current records.
type FormField struct {
	Name     string
	Label    string
	Kind     InputKind
	Required bool
	Hint     string
	Options  func(ctx context.Context) ([]Option, error)
}

// StaticOptions adapts a fixed option list to the Options signature.
func StaticOptions(opts ...Option) func(ctx context.Context) ([]Option, error) {
	return func(context.Context) ([]Option, error) {
		return opts, nil
	}
}

// Tab is one categorical filter choice above the list table.
type Tab struct {
	Value string
	Label string
}

// Detail is one label/value row of the View dialog. When HTML is set
// the template renders it instead of Value; callers are responsible for
// sanitizing it first.
type Detail struct {
	Label string
	Value string
	HTML  template.HTML
}

// Panel is an extra section of the View dialog, loaded per record
// (e.g. the areas on a floor).
type Panel struct {
	Title   string
	Columns []string
	Rows    [][]string
	Empty   string
}

// Action is an extra operation offered on a record in the View dialog,
// posted as a form (status transitions, approve/reject). A non-empty
// Confirm puts the action behind a confirmation prompt and posts
// confirm=yes; the handler must re-check it server-side.
type Action struct {
	Label   string
	URL     string
	Style   string
	Confirm string
}

// Descriptor is the resource-specific half of the console's list and
// dialog machinery. One engine Handler serves any resource from its
// descriptor plus a data gateway.
type Descriptor[T any] struct {
	// Slug is the mount path segment ("floors" serves at /floors).
	Slug string

	// Singular and Plural are display names ("floor", "Floors").
	Singular string
	Plural   string

	// Fields drive the Add/Edit dialog and its submit validation.
	Fields []FormField

	// Columns and Cells render the list table.
	Columns []string
	Cells   func(rec T) []string

	// Details renders the View dialog body.
	Details func(rec T) []Detail

	// Panels loads extra View dialog sections; nil for none.
	Panels func(ctx context.Context, rec T) ([]Panel, error)

	// Actions lists record operations beyond edit/delete; nil for none.
	Actions func(rec T) []Action

	// View supplies search/tab/sort behavior to listpage.Compute.
	View listpage.View[T]

	// Tabs are the categorical filters; empty hides the tab bar.
	Tabs []Tab

	// TabsFor loads the tab set per render when it depends on live
	// records (assignments tab by shift). Takes precedence over Tabs.
	TabsFor func(ctx context.Context) ([]Tab, error)

	// ID returns the record's stable identifier.
	ID func(rec T) string

	// Seed builds the Edit dialog's draft from a record.
	Seed func(rec T) modalflow.Draft
}

// schema derives the orchestrator's submit-validation schema from the
// form fields.
func (d Descriptor[T]) schema() modalflow.Schema {
	fields := make([]modalflow.Field, 0, len(d.Fields))
	for _, f := range d.Fields {
		fields = append(fields, modalflow.Field{
			Name:     f.Name,
			Label:    f.Label,
			Required: f.Required,
		})
	}
	return modalflow.Schema{Resource: d.Singular, Fields: fields}
}
